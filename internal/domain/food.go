package domain

import (
	"context"
	"strings"
	"time"
)

// ServingUnit is the unit a food item's serving sizes are measured in.
type ServingUnit string

const (
	Grams       ServingUnit = "g"
	Milliliters ServingUnit = "mL"
)

// ParseServingUnit accepts the canonical tokens plus their spelled-out and
// lower-case forms.
func ParseServingUnit(s string) (ServingUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "g", "gram", "grams":
		return Grams, nil
	case "ml", "milliliter", "milliliters", "millilitre", "millilitres":
		return Milliliters, nil
	}
	return "", Invalid("servingUnit", "must be \"g\" or \"mL\"")
}

// FoodItem is a food definition with its reference serving.
type FoodItem struct {
	ID                  int64       `json:"id"`
	Name                string      `json:"name"`
	StandardServingSize float64     `json:"standardServingSize"`
	CaloriesPerServing  float64     `json:"caloriesPerServing"`
	ServingUnit         ServingUnit `json:"servingUnit"`
	Barcode             *string     `json:"barcode,omitempty"`
	CreatedAt           time.Time   `json:"createdAt"`
}

// Upper bounds on food and serving quantities. Together they keep a single
// entry's calories below 1e9.
const (
	MaxServingSize        = 1e6
	MaxCaloriesPerServing = 1e6
	MaxCaloriesPerUnit    = 1000
)

// NewFoodItem holds the fields for creating a FoodItem.
type NewFoodItem struct {
	Name                string
	StandardServingSize float64
	CaloriesPerServing  float64
	ServingUnit         ServingUnit
	Barcode             *string
}

// Validate checks every field and reports the first failure.
func (n NewFoodItem) Validate() error {
	if strings.TrimSpace(n.Name) == "" {
		return Invalid("name", "must not be empty")
	}
	if !(n.StandardServingSize > 0) || n.StandardServingSize > MaxServingSize {
		return Invalid("standardServingSize", "must be > 0 and <= 1000000")
	}
	if !(n.CaloriesPerServing >= 0) || n.CaloriesPerServing > MaxCaloriesPerServing {
		return Invalid("caloriesPerServing", "must be >= 0 and <= 1000000")
	}
	if n.CaloriesPerServing/n.StandardServingSize > MaxCaloriesPerUnit {
		return Invalid("caloriesPerServing", "must not exceed 1000 per g or mL")
	}
	if n.ServingUnit != Grams && n.ServingUnit != Milliliters {
		return Invalid("servingUnit", "must be \"g\" or \"mL\"")
	}
	if n.Barcode != nil && strings.TrimSpace(*n.Barcode) == "" {
		return Invalid("barcode", "must not be empty when set")
	}
	return nil
}

// FoodRepository is the port for food item persistence.
type FoodRepository interface {
	// CreateFoodItem inserts a food item. When Barcode is set and already
	// taken, the existing item is returned instead.
	CreateFoodItem(ctx context.Context, item NewFoodItem) (*FoodItem, error)
	GetFoodItem(ctx context.Context, id int64) (*FoodItem, error)
	GetFoodItemByBarcode(ctx context.Context, barcode string) (*FoodItem, error)
	SearchFoodItems(ctx context.Context, name string, limit int) ([]FoodItem, error)
}

// ProductFacts is the nutrition data an external product database returns
// for a barcode.
type ProductFacts struct {
	Name            string
	EnergyValue     float64
	ServingSize     string
	ServingQuantity float64
}

// ProductLookup is the port for the external product-data collaborator.
type ProductLookup interface {
	LookupBarcode(ctx context.Context, barcode string) (*ProductFacts, error)
}
