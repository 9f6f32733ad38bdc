package enums

import (
	"fmt"
	"strings"
)

// FulfillmentType describes who ships a store's orders.
type FulfillmentType string

const (
	FulfillmentOwn FulfillmentType = "Own"
	Fulfillment3PL FulfillmentType = "3PL"
)

var validFulfillmentTypes = []FulfillmentType{
	FulfillmentOwn,
	Fulfillment3PL,
}

// String implements fmt.Stringer.
func (f FulfillmentType) String() string {
	return string(f)
}

// IsValid reports whether the value is a known FulfillmentType.
func (f FulfillmentType) IsValid() bool {
	for _, candidate := range validFulfillmentTypes {
		if candidate == f {
			return true
		}
	}
	return false
}

// FulfillmentTypes returns the known fulfillment types.
func FulfillmentTypes() []FulfillmentType {
	out := make([]FulfillmentType, len(validFulfillmentTypes))
	copy(out, validFulfillmentTypes)
	return out
}

// ParseFulfillmentType converts raw input into a FulfillmentType.
func ParseFulfillmentType(value string) (FulfillmentType, error) {
	trimmed := strings.TrimSpace(value)
	for _, candidate := range validFulfillmentTypes {
		if string(candidate) == trimmed {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid fulfillment type %q", value)
}
