package enums

import (
	"fmt"
	"strings"
)

// TimeBucket is the resampling frequency for revenue time series.
type TimeBucket string

const (
	TimeBucketDaily  TimeBucket = "D"
	TimeBucketWeekly TimeBucket = "W"
)

// String implements fmt.Stringer.
func (t TimeBucket) String() string {
	return string(t)
}

// IsValid reports whether the value is a supported TimeBucket.
func (t TimeBucket) IsValid() bool {
	return t == TimeBucketDaily || t == TimeBucketWeekly
}

// ParseTimeBucket accepts D/W (any case) and the long forms daily/weekly.
func ParseTimeBucket(value string) (TimeBucket, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "d", "daily":
		return TimeBucketDaily, nil
	case "w", "weekly":
		return TimeBucketWeekly, nil
	}
	return "", fmt.Errorf("invalid time bucket %q", value)
}
