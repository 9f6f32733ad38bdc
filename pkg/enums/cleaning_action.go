package enums

import "fmt"

// CleaningAction is the remediation a policy declares for an issue type.
type CleaningAction string

const (
	CleaningActionDrop    CleaningAction = "DROP"
	CleaningActionCap     CleaningAction = "CAP"
	CleaningActionImpute  CleaningAction = "IMPUTE"
	CleaningActionCorrect CleaningAction = "CORRECT"
	CleaningActionSkip    CleaningAction = "SKIP"
)

var validCleaningActions = []CleaningAction{
	CleaningActionDrop,
	CleaningActionCap,
	CleaningActionImpute,
	CleaningActionCorrect,
	CleaningActionSkip,
}

// String implements fmt.Stringer.
func (c CleaningAction) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CleaningAction.
func (c CleaningAction) IsValid() bool {
	for _, candidate := range validCleaningActions {
		if candidate == c {
			return true
		}
	}
	return false
}

// Taken returns the past-tense label recorded in the issue log.
func (c CleaningAction) Taken() ActionTaken {
	switch c {
	case CleaningActionDrop:
		return ActionDropped
	case CleaningActionCap:
		return ActionCapped
	case CleaningActionImpute:
		return ActionImputed
	case CleaningActionCorrect:
		return ActionCorrected
	default:
		return ActionSkipped
	}
}

// ActionTaken is the outcome recorded against a single cleaned record.
type ActionTaken string

const (
	ActionDropped   ActionTaken = "DROPPED"
	ActionCapped    ActionTaken = "CAPPED"
	ActionImputed   ActionTaken = "IMPUTED"
	ActionCorrected ActionTaken = "CORRECTED"
	ActionSkipped   ActionTaken = "SKIPPED"
)

var validActionsTaken = []ActionTaken{
	ActionDropped,
	ActionCapped,
	ActionImputed,
	ActionCorrected,
	ActionSkipped,
}

// String implements fmt.Stringer.
func (a ActionTaken) String() string {
	return string(a)
}

// IsValid reports whether the value is a known ActionTaken.
func (a ActionTaken) IsValid() bool {
	for _, candidate := range validActionsTaken {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseActionTaken converts raw input into an ActionTaken.
func ParseActionTaken(value string) (ActionTaken, error) {
	for _, candidate := range validActionsTaken {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid action taken %q", value)
}
