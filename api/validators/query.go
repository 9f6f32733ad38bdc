package validators

import (
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/angelmondragon/promopulse-backend/internal/dataset"
	pkgerrors "github.com/angelmondragon/promopulse-backend/pkg/errors"
)

// SanitizeString trims input, drops control characters and truncates the
// result to maxLen bytes when maxLen is positive.
func SanitizeString(input string, maxLen int) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, strings.TrimSpace(input))
	if maxLen > 0 && len(cleaned) > maxLen {
		return cleaned[:maxLen]
	}
	return cleaned
}

// ParseQueryInt reads an integer parameter bounded by [min, max].
func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").WithDetails(map[string]any{"field": key})
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter out of range").WithDetails(map[string]any{"field": key, "min": min, "max": max})
	}
	return value, nil
}

// ParseQueryDate reads a YYYY-MM-DD parameter as midnight UTC. A missing
// parameter yields the zero time.
func ParseQueryDate(r *http.Request, key string) (time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return time.Time{}, nil
	}
	value, err := time.Parse(dataset.DateLayout, raw)
	if err != nil {
		return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a date (YYYY-MM-DD)").WithDetails(map[string]any{"field": key})
	}
	return value, nil
}

// ParseQueryDimension reads a dimension filter. Empty input becomes
// AllValues; anything else must satisfy valid.
func ParseQueryDimension(r *http.Request, key string, valid func(string) bool) (string, error) {
	raw := SanitizeString(r.URL.Query().Get(key), 64)
	if raw == "" || raw == AllValues {
		return AllValues, nil
	}
	if valid != nil && !valid(raw) {
		return "", pkgerrors.Newf(pkgerrors.CodeValidation, "unknown %s %q", key, raw).WithDetails(map[string]any{"field": key})
	}
	return raw, nil
}
