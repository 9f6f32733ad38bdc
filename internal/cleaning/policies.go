package cleaning

import "github.com/angelmondragon/promopulse-backend/pkg/enums"

// Policy is the declared remediation for an issue type.
type Policy struct {
	Action        enums.CleaningAction `json:"action"`
	Justification string               `json:"justification"`
}

var policies = map[enums.IssueType]Policy{
	enums.IssueInvalidTimestamp: {
		Action:        enums.CleaningActionDrop,
		Justification: "Corrupted timestamps cannot be reliably inferred. Data integrity > completeness.",
	},
	enums.IssueOutlierValue: {
		Action:        enums.CleaningActionCap,
		Justification: "Cap at defined bounds (price 10k, qty 100) to preserve data volume while fixing anomalies.",
	},
	enums.IssueMissingValue: {
		Action:        enums.CleaningActionImpute,
		Justification: "discount_pct → 0 (no discount is valid); unit_cost → 50% of base_price (standard markup).",
	},
	enums.IssueInvalidCity: {
		Action:        enums.CleaningActionCorrect,
		Justification: "Standardize to valid cities. Default to Dubai. Ensures geographic consistency.",
	},
	enums.IssueInvalidChannel: {
		Action:        enums.CleaningActionCorrect,
		Justification: "Standardize to valid channels. Default to App. Required for channel analysis.",
	},
	enums.IssueInvalidCategory: {
		Action:        enums.CleaningActionCorrect,
		Justification: "Default to Electronics. Preserves product dimension for analysis.",
	},
	enums.IssueInvalidValue: {
		Action:        enums.CleaningActionCorrect,
		Justification: "payment_status → Paid; fulfillment_type → Own. Preserves transaction data.",
	},
	enums.IssueConstraintViolation: {
		Action:        enums.CleaningActionCap,
		Justification: "unit_cost > base_price: cap at base_price. Maintains margin logic and business rules.",
	},
	enums.IssueImpossibleValue: {
		Action:        enums.CleaningActionCorrect,
		Justification: "Negative stock → 0; stock > 1000 → 500 (supply chain bounds).",
	},
	enums.IssueDuplicateID: {
		Action:        enums.CleaningActionDrop,
		Justification: "Keep latest by timestamp. Most recent transaction is canonical record.",
	},
	enums.IssueInconsistentValue: {
		Action:        enums.CleaningActionCorrect,
		Justification: "Standardize variations (dubai→Dubai, ABU DHABI→Abu Dhabi). Case/spacing cleanup.",
	},
	enums.IssueOutOfRange: {
		Action:        enums.CleaningActionDrop,
		Justification: "Non-positive quantities and negative prices describe no real sale and cannot be repaired.",
	},
}

var skipPolicy = Policy{
	Action:        enums.CleaningActionSkip,
	Justification: "No policy defined",
}

// PolicyFor returns the remediation declared for issueType, or SKIP when
// none is declared.
func PolicyFor(issueType enums.IssueType) Policy {
	if policy, ok := policies[issueType]; ok {
		return policy
	}
	return skipPolicy
}

// Policies returns a copy of the full policy table.
func Policies() map[enums.IssueType]Policy {
	out := make(map[enums.IssueType]Policy, len(policies))
	for k, v := range policies {
		out[k] = v
	}
	return out
}
