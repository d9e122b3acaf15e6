package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fooddiary/internal/adapter/memory"
	"fooddiary/internal/app"
	"fooddiary/internal/domain"
)

type mockLookup struct {
	calls    int
	lookupFn func(ctx context.Context, barcode string) (*domain.ProductFacts, error)
}

func (m *mockLookup) LookupBarcode(ctx context.Context, barcode string) (*domain.ProductFacts, error) {
	m.calls++
	if m.lookupFn != nil {
		return m.lookupFn(ctx, barcode)
	}
	return nil, errors.New("not configured")
}

func TestParseServingSize(t *testing.T) {
	tests := []struct {
		in       string
		wantSize float64
		wantUnit domain.ServingUnit
		wantErr  bool
	}{
		{"22.7 g", 22.7, domain.Grams, false},
		{"250ml", 250, domain.Milliliters, false},
		{"1 bar (45 g)", 0, "", true},
		{"30 G", 30, domain.Grams, false},
		{"", 0, "", true},
		{"two slices", 0, "", true},
		{"0 g", 0, "", true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			size, unit, err := app.ParseServingSize(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantSize, size)
			assert.Equal(t, tc.wantUnit, unit)
		})
	}
}

func TestFoodService_CreateAndSearch(t *testing.T) {
	ctx := context.Background()
	svc := app.NewFoodService(memory.New(), nil)

	item, err := svc.CreateFoodItem(ctx, domain.NewFoodItem{Name: "  Greek Yogurt ", StandardServingSize: 100, CaloriesPerServing: 59, ServingUnit: domain.Grams})
	require.NoError(t, err)
	assert.Equal(t, "Greek Yogurt", item.Name)

	_, err = svc.CreateFoodItem(ctx, domain.NewFoodItem{Name: "Bad", StandardServingSize: 0, CaloriesPerServing: 59, ServingUnit: domain.Grams})
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)

	items, err := svc.SearchByName(ctx, "yog")
	require.NoError(t, err)
	assert.Len(t, items, 1)

	none, err := svc.SearchByName(ctx, "pizza")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	_, err = svc.Get(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFoodService_BarcodeCreatesOnce(t *testing.T) {
	ctx := context.Background()
	lookup := &mockLookup{
		lookupFn: func(_ context.Context, barcode string) (*domain.ProductFacts, error) {
			return &domain.ProductFacts{Name: "Granola Bar", EnergyValue: 190, ServingSize: "40 g"}, nil
		},
	}
	svc := app.NewFoodService(memory.New(), lookup)

	first, err := svc.GetOrCreateByBarcode(ctx, "0123456789012")
	require.NoError(t, err)
	assert.Equal(t, "Granola Bar", first.Name)
	assert.Equal(t, 40.0, first.StandardServingSize)
	assert.Equal(t, domain.Grams, first.ServingUnit)
	assert.Equal(t, 190.0, first.CaloriesPerServing)

	second, err := svc.GetOrCreateByBarcode(ctx, "0123456789012")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, lookup.calls)
}

func TestFoodService_BarcodeNameFallback(t *testing.T) {
	lookup := &mockLookup{
		lookupFn: func(_ context.Context, _ string) (*domain.ProductFacts, error) {
			return &domain.ProductFacts{EnergyValue: 40, ServingSize: "330 mL"}, nil
		},
	}
	svc := app.NewFoodService(memory.New(), lookup)

	item, err := svc.GetOrCreateByBarcode(context.Background(), "555")
	require.NoError(t, err)
	assert.Equal(t, "Barcode 555", item.Name)
	assert.Equal(t, domain.Milliliters, item.ServingUnit)
}

func TestFoodService_BarcodeLookupFailures(t *testing.T) {
	tests := []struct {
		name   string
		lookup domain.ProductLookup
	}{
		{"no lookup configured", nil},
		{"lookup error", &mockLookup{}},
		{"unparseable serving", &mockLookup{lookupFn: func(_ context.Context, _ string) (*domain.ProductFacts, error) {
			return &domain.ProductFacts{Name: "Cookie", EnergyValue: 50, ServingSize: "1 cookie"}, nil
		}}},
		{"negative energy", &mockLookup{lookupFn: func(_ context.Context, _ string) (*domain.ProductFacts, error) {
			return &domain.ProductFacts{Name: "Cookie", EnergyValue: -1, ServingSize: "10 g"}, nil
		}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := app.NewFoodService(memory.New(), tc.lookup)
			_, err := svc.GetOrCreateByBarcode(context.Background(), "42")
			assert.ErrorIs(t, err, domain.ErrExternalLookup)
		})
	}
}
