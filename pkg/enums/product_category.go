package enums

import "fmt"

// ProductCategory groups catalog listings for browsing and filtering.
type ProductCategory string

const (
	ProductCategoryDresses     ProductCategory = "dresses"
	ProductCategoryTops        ProductCategory = "tops"
	ProductCategoryBottoms     ProductCategory = "bottoms"
	ProductCategoryOuterwear   ProductCategory = "outerwear"
	ProductCategoryAccessories ProductCategory = "accessories"
	ProductCategoryBespoke     ProductCategory = "bespoke"
)

var validProductCategories = []ProductCategory{
	ProductCategoryDresses,
	ProductCategoryTops,
	ProductCategoryBottoms,
	ProductCategoryOuterwear,
	ProductCategoryAccessories,
	ProductCategoryBespoke,
}

// IsValid reports whether the value matches the canonical product category enum.
func (p ProductCategory) IsValid() bool {
	for _, candidate := range validProductCategories {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProductCategory converts the raw string to ProductCategory.
func ParseProductCategory(value string) (ProductCategory, error) {
	for _, candidate := range validProductCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product category %q", value)
}
