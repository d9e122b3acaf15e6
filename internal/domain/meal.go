package domain

import "strings"

// MealCategory is one of the four fixed buckets diary entries are grouped
// into.
type MealCategory string

const (
	Breakfast MealCategory = "Breakfast"
	Lunch     MealCategory = "Lunch"
	Dinner    MealCategory = "Dinner"
	Snack     MealCategory = "Snack"
)

var mealCategories = [...]MealCategory{Breakfast, Lunch, Dinner, Snack}

// MealCategories returns the categories in display order.
func MealCategories() []MealCategory {
	out := make([]MealCategory, len(mealCategories))
	copy(out, mealCategories[:])
	return out
}

// Valid reports whether c is one of the fixed categories.
func (c MealCategory) Valid() bool {
	for _, m := range mealCategories {
		if c == m {
			return true
		}
	}
	return false
}

// ParseMealCategory matches s case-insensitively against the fixed
// categories.
func ParseMealCategory(s string) (MealCategory, error) {
	for _, m := range mealCategories {
		if strings.EqualFold(strings.TrimSpace(s), string(m)) {
			return m, nil
		}
	}
	return "", Invalid("category", "must be one of Breakfast, Lunch, Dinner, Snack")
}
