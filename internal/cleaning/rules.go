package cleaning

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/angelmondragon/promopulse-backend/pkg/enums"
)

const (
	PriceMin    = 0.0
	PriceMax    = 10000.0
	QuantityMin = 1
	QuantityMax = 100
	StockMin    = 0.0
	StockMax    = 1000.0
	// StockCap replaces stock above StockMax.
	StockCap = 500
)

var timestampPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`)

// RuleError is the failure reason returned by a validation rule.
type RuleError struct {
	Rule   string
	Reason string
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("%s: %s", e.Rule, e.Reason)
}

func fail(rule, format string, args ...any) error {
	return &RuleError{Rule: rule, Reason: fmt.Sprintf(format, args...)}
}

// ValidateTimestamp requires the strict YYYY-MM-DD HH:MM:SS layout and a
// calendar-valid value.
func ValidateTimestamp(value string) error {
	if strings.TrimSpace(value) == "" {
		return fail("timestamp", "missing timestamp")
	}
	if !timestampPattern.MatchString(value) {
		return fail("timestamp", "invalid format: %s", value)
	}
	if _, err := time.Parse("2006-01-02 15:04:05", value); err != nil {
		return fail("timestamp", "unparsable: %s", value)
	}
	return nil
}

// ValidatePrice requires a numeric value within [PriceMin, PriceMax].
func ValidatePrice(value string) error {
	p, err := parseNumber(value)
	if err != nil {
		return fail("price", "not numeric: %s", value)
	}
	if p < PriceMin || p > PriceMax {
		return fail("price", "outside range [%v, %v]: %v", PriceMin, PriceMax, p)
	}
	return nil
}

// ValidateQuantity requires a numeric value within [QuantityMin, QuantityMax].
// Fractional input is truncated before the range check.
func ValidateQuantity(value string) error {
	f, err := parseNumber(value)
	if err != nil {
		return fail("quantity", "not numeric: %s", value)
	}
	q := int(f)
	if q < QuantityMin || q > QuantityMax {
		return fail("quantity", "outside range [%d, %d]: %d", QuantityMin, QuantityMax, q)
	}
	return nil
}

// ValidateCity requires membership of the canonical city set after trimming.
func ValidateCity(value string) error {
	if strings.TrimSpace(value) == "" {
		return fail("city", "missing city")
	}
	if _, err := enums.ParseCity(value); err != nil {
		return fail("city", "invalid city: %s", strings.TrimSpace(value))
	}
	return nil
}

// ValidateChannel requires membership of the channel set after trimming.
func ValidateChannel(value string) error {
	if strings.TrimSpace(value) == "" {
		return fail("channel", "missing channel")
	}
	if _, err := enums.ParseChannel(value); err != nil {
		return fail("channel", "invalid channel: %s", strings.TrimSpace(value))
	}
	return nil
}

// ValidateCategory requires membership of the category set after trimming.
func ValidateCategory(value string) error {
	if strings.TrimSpace(value) == "" {
		return fail("category", "missing category")
	}
	if _, err := enums.ParseCategory(value); err != nil {
		return fail("category", "invalid category: %s", strings.TrimSpace(value))
	}
	return nil
}

// ValidatePaymentStatus requires membership of the payment status set.
func ValidatePaymentStatus(value string) error {
	if strings.TrimSpace(value) == "" {
		return fail("payment_status", "missing payment_status")
	}
	if _, err := enums.ParsePaymentStatus(value); err != nil {
		return fail("payment_status", "invalid status: %s", strings.TrimSpace(value))
	}
	return nil
}

// ValidateFulfillmentType requires membership of the fulfillment set.
func ValidateFulfillmentType(value string) error {
	if strings.TrimSpace(value) == "" {
		return fail("fulfillment_type", "missing fulfillment_type")
	}
	if _, err := enums.ParseFulfillmentType(value); err != nil {
		return fail("fulfillment_type", "invalid fulfillment type: %s", strings.TrimSpace(value))
	}
	return nil
}

// ValidateCostConstraint requires cost <= price. A missing or non-numeric
// operand skips the rule rather than failing the record.
func ValidateCostConstraint(cost, price string) error {
	c, err := parseNumber(cost)
	if err != nil {
		return nil
	}
	p, err := parseNumber(price)
	if err != nil {
		return nil
	}
	if c > p {
		return fail("cost_constraint", "cost %v > price %v", c, p)
	}
	return nil
}

// ValidateStock requires a numeric value within [StockMin, StockMax].
func ValidateStock(value string) error {
	s, err := parseNumber(value)
	if err != nil {
		return fail("stock", "not numeric: %s", value)
	}
	if s < StockMin {
		return fail("stock", "negative stock: %v", s)
	}
	if s > StockMax {
		return fail("stock", "extreme stock: %v", s)
	}
	return nil
}

func parseNumber(value string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(value), 64)
}

// FormatNumber renders a numeric field for the string-based rules.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatOptional renders an optional numeric field; nil becomes "".
func FormatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return FormatNumber(*v)
}
