package app

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"fooddiary/internal/domain"
)

const searchLimit = 50

// servingSizePattern pulls the magnitude and unit token out of strings such
// as "22.7 g" or "250ml".
var servingSizePattern = regexp.MustCompile(`\b(\d+(?:\.\d+)?)\s*([a-zA-Z]+)`)

// FoodService encapsulates food item use cases.
type FoodService struct {
	repo   domain.FoodRepository
	lookup domain.ProductLookup
}

// NewFoodService creates a FoodService. lookup may be nil, in which case
// barcode misses fail with domain.ErrExternalLookup.
func NewFoodService(repo domain.FoodRepository, lookup domain.ProductLookup) *FoodService {
	return &FoodService{repo: repo, lookup: lookup}
}

// CreateFoodItem validates and stores a new food item. Names are not
// deduplicated.
func (s *FoodService) CreateFoodItem(ctx context.Context, item domain.NewFoodItem) (*domain.FoodItem, error) {
	item.Name = strings.TrimSpace(item.Name)
	if err := item.Validate(); err != nil {
		return nil, err
	}
	return s.repo.CreateFoodItem(ctx, item)
}

// Get returns a food item by id.
func (s *FoodService) Get(ctx context.Context, id int64) (*domain.FoodItem, error) {
	item, err := s.repo.GetFoodItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

// SearchByName returns food items whose name contains name, ignoring case.
func (s *FoodService) SearchByName(ctx context.Context, name string) ([]domain.FoodItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.Invalid("name", "must not be empty")
	}
	items, err := s.repo.SearchFoodItems(ctx, name, searchLimit)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.FoodItem{}
	}
	return items, nil
}

// GetOrCreateByBarcode returns the food item registered under barcode,
// creating it from the external product database on a miss.
func (s *FoodService) GetOrCreateByBarcode(ctx context.Context, barcode string) (*domain.FoodItem, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, domain.Invalid("barcode", "must not be empty")
	}

	existing, err := s.repo.GetFoodItemByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	if s.lookup == nil {
		return nil, fmt.Errorf("%w: no product database configured", domain.ErrExternalLookup)
	}
	facts, err := s.lookup.LookupBarcode(ctx, barcode)
	if err != nil {
		if errors.Is(err, domain.ErrExternalLookup) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrExternalLookup, err)
	}

	item, err := foodItemFromFacts(barcode, facts)
	if err != nil {
		return nil, err
	}
	return s.repo.CreateFoodItem(ctx, item)
}

func foodItemFromFacts(barcode string, facts *domain.ProductFacts) (domain.NewFoodItem, error) {
	if facts == nil {
		return domain.NewFoodItem{}, fmt.Errorf("%w: empty product", domain.ErrExternalLookup)
	}
	size, unit, err := ParseServingSize(facts.ServingSize)
	if err != nil {
		return domain.NewFoodItem{}, fmt.Errorf("%w: %v", domain.ErrExternalLookup, err)
	}
	name := strings.TrimSpace(facts.Name)
	if name == "" {
		name = "Barcode " + barcode
	}
	item := domain.NewFoodItem{
		Name:                name,
		StandardServingSize: size,
		CaloriesPerServing:  facts.EnergyValue,
		ServingUnit:         unit,
		Barcode:             &barcode,
	}
	if err := item.Validate(); err != nil {
		return domain.NewFoodItem{}, fmt.Errorf("%w: %v", domain.ErrExternalLookup, err)
	}
	return item, nil
}

// ParseServingSize splits a serving size such as "22.7 g" into its
// magnitude and unit.
func ParseServingSize(s string) (float64, domain.ServingUnit, error) {
	m := servingSizePattern.FindStringSubmatch(s)
	if m == nil {
		return 0, "", fmt.Errorf("serving size %q has no quantity and unit", s)
	}
	size, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, "", fmt.Errorf("serving size %q: %w", s, err)
	}
	if size <= 0 {
		return 0, "", fmt.Errorf("serving size %q must be > 0", s)
	}
	unit, err := domain.ParseServingUnit(m[2])
	if err != nil {
		return 0, "", fmt.Errorf("serving size %q: unsupported unit %q", s, m[2])
	}
	return size, unit, nil
}
