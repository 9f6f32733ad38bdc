package dataset

import (
	"fmt"
	"strings"
	"time"
)

const (
	// TimestampLayout is the canonical order_time format.
	TimestampLayout = "2006-01-02 15:04:05"
	// DateLayout is the snapshot/campaign date format.
	DateLayout = "2006-01-02"
)

var orderTimeLayouts = []string{
	TimestampLayout,
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04",
	DateLayout,
}

// ParseOrderTime parses an order timestamp leniently, accepting the canonical
// layout plus ISO-8601 variants. Values are interpreted as UTC.
func ParseOrderTime(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range orderTimeLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable timestamp %q", raw)
}

// FormatOrderTime renders a timestamp in the canonical layout.
func FormatOrderTime(ts time.Time) string {
	return ts.UTC().Format(TimestampLayout)
}

// ParseDate parses a YYYY-MM-DD date, also accepting a full timestamp.
func ParseDate(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if ts, err := time.Parse(DateLayout, value); err == nil {
		return ts, nil
	}
	if ts, err := time.Parse(TimestampLayout, value); err == nil {
		return ts, nil
	}
	return time.Time{}, fmt.Errorf("unparsable date %q", raw)
}
