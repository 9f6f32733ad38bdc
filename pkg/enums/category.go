package enums

import (
	"fmt"
	"strings"
)

// Category is the merchandising category of a product.
type Category string

const (
	CategoryElectronics Category = "Electronics"
	CategoryFashion     Category = "Fashion"
	CategoryHomeKitchen Category = "Home & Kitchen"
	CategoryGrocery     Category = "Grocery"
	CategoryBeauty      Category = "Beauty"
	CategorySports      Category = "Sports"
	CategoryBooks       Category = "Books"
	CategoryToys        Category = "Toys"
)

var validCategories = []Category{
	CategoryElectronics,
	CategoryFashion,
	CategoryHomeKitchen,
	CategoryGrocery,
	CategoryBeauty,
	CategorySports,
	CategoryBooks,
	CategoryToys,
}

// String implements fmt.Stringer.
func (c Category) String() string {
	return string(c)
}

// IsValid reports whether the value is a known Category.
func (c Category) IsValid() bool {
	for _, candidate := range validCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// Categories returns every known category.
func Categories() []Category {
	out := make([]Category, len(validCategories))
	copy(out, validCategories)
	return out
}

// ParseCategory converts raw input into a Category after trimming whitespace.
func ParseCategory(value string) (Category, error) {
	trimmed := strings.TrimSpace(value)
	for _, candidate := range validCategories {
		if string(candidate) == trimmed {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid category %q", value)
}
