package enums

import (
	"fmt"
	"strings"
)

// City is one of the UAE emirates covered by the dataset.
type City string

const (
	CityDubai    City = "Dubai"
	CityAbuDhabi City = "Abu Dhabi"
	CitySharjah  City = "Sharjah"
)

var validCities = []City{
	CityDubai,
	CityAbuDhabi,
	CitySharjah,
}

// String implements fmt.Stringer.
func (c City) String() string {
	return string(c)
}

// IsValid reports whether the value is a canonical City.
func (c City) IsValid() bool {
	for _, candidate := range validCities {
		if candidate == c {
			return true
		}
	}
	return false
}

// Cities returns the canonical cities in display order.
func Cities() []City {
	out := make([]City, len(validCities))
	copy(out, validCities)
	return out
}

// ParseCity converts raw input into a City after trimming whitespace.
func ParseCity(value string) (City, error) {
	trimmed := strings.TrimSpace(value)
	for _, candidate := range validCities {
		if string(candidate) == trimmed {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid city %q", value)
}
