package app_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"fooddiary/internal/app"
	"fooddiary/internal/domain"
)

type mockWeightRepo struct {
	addFn       func(ctx context.Context, userID int64, w float64, t time.Time) (int64, error)
	latestFn    func(ctx context.Context, userID int64) (*domain.WeightRecord, error)
	latestDayFn func(ctx context.Context, userID int64, day domain.DayBounds) (*domain.WeightRecord, error)
	sinceFn     func(ctx context.Context, userID int64, since time.Time) ([]domain.WeightRecord, error)
}

func (m *mockWeightRepo) AddWeightRecord(ctx context.Context, userID int64, w float64, t time.Time) (int64, error) {
	if m.addFn != nil {
		return m.addFn(ctx, userID, w, t)
	}
	return 0, nil
}

func (m *mockWeightRepo) LatestWeightRecord(ctx context.Context, userID int64) (*domain.WeightRecord, error) {
	if m.latestFn != nil {
		return m.latestFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockWeightRepo) LatestWeightForDay(ctx context.Context, userID int64, day domain.DayBounds) (*domain.WeightRecord, error) {
	if m.latestDayFn != nil {
		return m.latestDayFn(ctx, userID, day)
	}
	return nil, nil
}

func (m *mockWeightRepo) ListWeightRecordsSince(ctx context.Context, userID int64, since time.Time) ([]domain.WeightRecord, error) {
	if m.sinceFn != nil {
		return m.sinceFn(ctx, userID, since)
	}
	return nil, nil
}

func TestUpdateCurrentWeight_Validation(t *testing.T) {
	svc := app.NewWeightService(&mockWeightRepo{})

	tests := []struct {
		name  string
		value float64
	}{
		{"zero value", 0},
		{"negative value", -5},
		{"not a number", math.NaN()},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.UpdateCurrentWeight(context.Background(), 1, tc.value)
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestUpdateCurrentWeight_Appends(t *testing.T) {
	var got float64
	repo := &mockWeightRepo{
		addFn: func(_ context.Context, _ int64, w float64, _ time.Time) (int64, error) {
			got = w
			return 3, nil
		},
	}
	svc := app.NewWeightService(repo)
	rec, err := svc.UpdateCurrentWeight(context.Background(), 1, 165.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 165.5 || rec.ID != 3 || rec.Weight != 165.5 {
		t.Fatalf("unexpected record %+v (stored %v)", rec, got)
	}
}

func TestGetCurrentWeight_None(t *testing.T) {
	svc := app.NewWeightService(&mockWeightRepo{})
	rec, err := svc.GetCurrentWeight(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec != nil {
		t.Fatalf("expected nil, got %+v", rec)
	}
}

func TestListRecentWeight_ClampsWindow(t *testing.T) {
	var since time.Time
	repo := &mockWeightRepo{
		sinceFn: func(_ context.Context, _ int64, s time.Time) ([]domain.WeightRecord, error) {
			since = s
			return nil, nil
		},
	}
	svc := app.NewWeightService(repo)

	items, err := svc.ListRecent(context.Background(), 1, 5000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if items == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if d := time.Since(since); d > 367*24*time.Hour {
		t.Fatalf("window not clamped: %v", d)
	}
}
