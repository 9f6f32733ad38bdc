package enums

import "fmt"

// IssueType tags a data-quality problem found while cleaning a table.
type IssueType string

const (
	IssueInvalidTimestamp    IssueType = "INVALID_TIMESTAMP"
	IssueOutlierValue        IssueType = "OUTLIER_VALUE"
	IssueMissingValue        IssueType = "MISSING_VALUE"
	IssueInvalidCity         IssueType = "INVALID_CITY"
	IssueInvalidChannel      IssueType = "INVALID_CHANNEL"
	IssueInvalidCategory     IssueType = "INVALID_CATEGORY"
	IssueInvalidValue        IssueType = "INVALID_VALUE"
	IssueConstraintViolation IssueType = "CONSTRAINT_VIOLATION"
	IssueImpossibleValue     IssueType = "IMPOSSIBLE_VALUE"
	IssueDuplicateID         IssueType = "DUPLICATE_ID"
	IssueInconsistentValue   IssueType = "INCONSISTENT_VALUE"
	IssueOutOfRange          IssueType = "OUT_OF_RANGE"
)

var validIssueTypes = []IssueType{
	IssueInvalidTimestamp,
	IssueOutlierValue,
	IssueMissingValue,
	IssueInvalidCity,
	IssueInvalidChannel,
	IssueInvalidCategory,
	IssueInvalidValue,
	IssueConstraintViolation,
	IssueImpossibleValue,
	IssueDuplicateID,
	IssueInconsistentValue,
	IssueOutOfRange,
}

// String implements fmt.Stringer.
func (i IssueType) String() string {
	return string(i)
}

// IsValid reports whether the value is a known IssueType.
func (i IssueType) IsValid() bool {
	for _, candidate := range validIssueTypes {
		if candidate == i {
			return true
		}
	}
	return false
}

// IssueTypes returns every known issue type.
func IssueTypes() []IssueType {
	out := make([]IssueType, len(validIssueTypes))
	copy(out, validIssueTypes)
	return out
}

// ParseIssueType converts raw input into an IssueType.
func ParseIssueType(value string) (IssueType, error) {
	for _, candidate := range validIssueTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid issue type %q", value)
}
