package domain_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"fooddiary/internal/domain"
)

func TestResolveDay(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	b, err := domain.ResolveDay("2024-03-15", loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantStart := time.Date(2024, 3, 15, 0, 0, 0, 0, loc)
	if !b.Start.Equal(wantStart) {
		t.Errorf("start = %v; want %v", b.Start, wantStart)
	}
	if !b.End.Equal(wantStart.AddDate(0, 0, 1)) {
		t.Errorf("end = %v; want next midnight", b.End)
	}
	if b.Day != "2024-03-15" {
		t.Errorf("day = %q", b.Day)
	}
}

func TestResolveDay_Invalid(t *testing.T) {
	for _, day := range []string{"", "2024-13-01", "2024-02-30", "15/03/2024", "2024-03-15T10:00:00Z", "yesterday"} {
		t.Run(day, func(t *testing.T) {
			_, err := domain.ResolveDay(day, time.UTC)
			if !errors.Is(err, domain.ErrInvalidDate) {
				t.Fatalf("expected ErrInvalidDate, got %v", err)
			}
		})
	}
}

func TestDayBounds_Contains(t *testing.T) {
	b, err := domain.ResolveDay("2024-03-15", time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"first instant", b.Start, true},
		{"last instant", b.Last(), true},
		{"noon", b.Start.Add(12 * time.Hour), true},
		{"one before start", b.Start.Add(-time.Nanosecond), false},
		{"microsecond before start", b.Start.Add(-time.Microsecond), false},
		{"between last and end", b.Last().Add(500 * time.Nanosecond), true},
		{"next midnight", b.End, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := b.Contains(tc.at); got != tc.want {
				t.Errorf("Contains(%v) = %v; want %v", tc.at, got, tc.want)
			}
		})
	}
}

func TestDayBounds_LastIsMicrosecondBeforeEnd(t *testing.T) {
	b, err := domain.ResolveDay("2024-03-15", time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	if got := b.End.Sub(b.Last()); got != time.Microsecond {
		t.Fatalf("End - Last = %v; want 1µs", got)
	}
	if !b.Last().Equal(b.Last().Round(time.Microsecond)) {
		t.Fatal("Last is not representable at microsecond precision")
	}
}

func TestResolveDay_DSTTransition(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	b, err := domain.ResolveDay("2024-03-10", loc)
	if err != nil {
		t.Fatal(err)
	}
	if got := b.End.Sub(b.Start); got != 23*time.Hour {
		t.Errorf("spring-forward day length = %v; want 23h", got)
	}
}

func TestDayResolver_DayOf(t *testing.T) {
	r := domain.NewDayResolver(time.FixedZone("UTC+9", 9*3600))
	// 20:00 UTC on the 14th is already the 15th at UTC+9.
	at := time.Date(2024, 3, 14, 20, 0, 0, 0, time.UTC)
	if got := r.DayOf(at); got != "2024-03-15" {
		t.Errorf("DayOf = %q; want 2024-03-15", got)
	}
	b, err := r.Resolve("2024-03-15")
	if err != nil {
		t.Fatal(err)
	}
	if !b.Contains(at) {
		t.Error("resolved day should contain the instant it was derived from")
	}
}

func TestParseMealCategory(t *testing.T) {
	for _, in := range []string{"Breakfast", "lunch", " DINNER ", "snack"} {
		if _, err := domain.ParseMealCategory(in); err != nil {
			t.Errorf("ParseMealCategory(%q): %v", in, err)
		}
	}
	_, err := domain.ParseMealCategory("Brunch")
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || verr.Field != "category" {
		t.Fatalf("expected category validation error, got %v", err)
	}
	if len(domain.MealCategories()) != 4 {
		t.Fatal("expected exactly four categories")
	}
}

func TestNewFoodItemValidate(t *testing.T) {
	valid := domain.NewFoodItem{Name: "Oats", StandardServingSize: 40, CaloriesPerServing: 150, ServingUnit: domain.Grams}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	empty := ""
	tests := []struct {
		name  string
		mut   func(*domain.NewFoodItem)
		field string
	}{
		{"empty name", func(n *domain.NewFoodItem) { n.Name = "  " }, "name"},
		{"zero serving", func(n *domain.NewFoodItem) { n.StandardServingSize = 0 }, "standardServingSize"},
		{"negative calories", func(n *domain.NewFoodItem) { n.CaloriesPerServing = -1 }, "caloriesPerServing"},
		{"huge serving", func(n *domain.NewFoodItem) { n.StandardServingSize = 1e300 }, "standardServingSize"},
		{"NaN serving", func(n *domain.NewFoodItem) { n.StandardServingSize = math.NaN() }, "standardServingSize"},
		{"huge calories", func(n *domain.NewFoodItem) { n.CaloriesPerServing = 2e6 }, "caloriesPerServing"},
		{"implausible density", func(n *domain.NewFoodItem) {
			n.StandardServingSize = 1e-6
			n.CaloriesPerServing = 1
		}, "caloriesPerServing"},
		{"bad unit", func(n *domain.NewFoodItem) { n.ServingUnit = "oz" }, "servingUnit"},
		{"blank barcode", func(n *domain.NewFoodItem) { n.Barcode = &empty }, "barcode"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			n := valid
			tc.mut(&n)
			var verr *domain.ValidationError
			if err := n.Validate(); !errors.As(err, &verr) || verr.Field != tc.field {
				t.Fatalf("expected %s validation error, got %v", tc.field, err)
			}
		})
	}
}

func TestParseServingUnit(t *testing.T) {
	tests := map[string]domain.ServingUnit{"g": domain.Grams, "Grams": domain.Grams, "ml": domain.Milliliters, "mL": domain.Milliliters, "milliliters": domain.Milliliters}
	for in, want := range tests {
		got, err := domain.ParseServingUnit(in)
		if err != nil || got != want {
			t.Errorf("ParseServingUnit(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := domain.ParseServingUnit("oz"); err == nil {
		t.Error("expected error for oz")
	}
}
