package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"fooddiary/internal/app"
	"fooddiary/internal/domain"
)

type mockWaterRepo struct {
	addFn        func(ctx context.Context, userID int64, t time.Time) (int64, error)
	delFn        func(ctx context.Context, userID int64, id int64) (bool, error)
	delLatestFn  func(ctx context.Context, userID int64) (int64, bool, error)
	listForDayFn func(ctx context.Context, userID int64, day domain.DayBounds) ([]domain.WaterIntakeRecord, error)
}

func (m *mockWaterRepo) AddWaterEntry(ctx context.Context, userID int64, t time.Time) (int64, error) {
	if m.addFn != nil {
		return m.addFn(ctx, userID, t)
	}
	return 0, nil
}

func (m *mockWaterRepo) DeleteWaterEntry(ctx context.Context, userID int64, id int64) (bool, error) {
	if m.delFn != nil {
		return m.delFn(ctx, userID, id)
	}
	return false, nil
}

func (m *mockWaterRepo) DeleteLatestWaterEntry(ctx context.Context, userID int64) (int64, bool, error) {
	if m.delLatestFn != nil {
		return m.delLatestFn(ctx, userID)
	}
	return 0, false, nil
}

func (m *mockWaterRepo) ListWaterEntriesForDay(ctx context.Context, userID int64, day domain.DayBounds) ([]domain.WaterIntakeRecord, error) {
	if m.listForDayFn != nil {
		return m.listForDayFn(ctx, userID, day)
	}
	return nil, nil
}

func (m *mockWaterRepo) CountWaterEntriesForDay(ctx context.Context, userID int64, day domain.DayBounds) (int, error) {
	items, err := m.ListWaterEntriesForDay(ctx, userID, day)
	return len(items), err
}

type mockGoalRepo struct {
	getFn    func(ctx context.Context, userID int64) (*domain.Goal, error)
	updateFn func(ctx context.Context, userID int64, u domain.GoalUpdate) (*domain.Goal, error)
}

func (m *mockGoalRepo) EnsureGoal(ctx context.Context, userID int64) error { return nil }

func (m *mockGoalRepo) GetGoal(ctx context.Context, userID int64) (*domain.Goal, error) {
	if m.getFn != nil {
		return m.getFn(ctx, userID)
	}
	return &domain.Goal{UserID: userID, WaterIntake: domain.DefaultWaterIntake}, nil
}

func (m *mockGoalRepo) UpdateGoal(ctx context.Context, userID int64, u domain.GoalUpdate) (*domain.Goal, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, userID, u)
	}
	return nil, nil
}

var utcResolver = domain.NewDayResolver(time.UTC)

func TestAddWaterEntry_Success(t *testing.T) {
	repo := &mockWaterRepo{
		addFn: func(_ context.Context, _ int64, _ time.Time) (int64, error) { return 42, nil },
	}
	svc := app.NewWaterService(repo, &mockGoalRepo{}, utcResolver)
	rec, err := svc.AddEntry(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.ID != 42 || rec.UserID != 1 {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestRemoveWaterEntry_NotFound(t *testing.T) {
	svc := app.NewWaterService(&mockWaterRepo{}, &mockGoalRepo{}, utcResolver)
	err := svc.RemoveEntry(context.Background(), 1, 7)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUndoLastWater_Empty(t *testing.T) {
	svc := app.NewWaterService(&mockWaterRepo{}, &mockGoalRepo{}, utcResolver)
	undone, _, err := svc.UndoLast(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if undone {
		t.Fatal("expected undone=false for empty log")
	}
}

func TestUndoLastWater_Success(t *testing.T) {
	repo := &mockWaterRepo{
		delLatestFn: func(_ context.Context, _ int64) (int64, bool, error) {
			return 7, true, nil
		},
	}
	svc := app.NewWaterService(repo, &mockGoalRepo{}, utcResolver)
	undone, id, err := svc.UndoLast(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !undone || id != 7 {
		t.Fatalf("expected undone=true id=7, got undone=%v id=%d", undone, id)
	}
}

func TestGetWaterEntriesByDay(t *testing.T) {
	repo := &mockWaterRepo{
		listForDayFn: func(_ context.Context, _ int64, day domain.DayBounds) ([]domain.WaterIntakeRecord, error) {
			if day.Day != "2026-02-08" {
				t.Fatalf("unexpected day: %s", day.Day)
			}
			return []domain.WaterIntakeRecord{{ID: 1}, {ID: 2}, {ID: 3}}, nil
		},
	}
	svc := app.NewWaterService(repo, &mockGoalRepo{}, utcResolver)
	wd, err := svc.GetEntriesByDay(context.Background(), 1, "2026-02-08")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wd.Cups != 3 || wd.WaterIntake != domain.DefaultWaterIntake {
		t.Fatalf("unexpected water day: %+v", wd)
	}
}

func TestGetWaterEntriesByDay_InvalidDay(t *testing.T) {
	svc := app.NewWaterService(&mockWaterRepo{}, &mockGoalRepo{}, utcResolver)
	_, err := svc.GetEntriesByDay(context.Background(), 1, "02/08/2026")
	if !errors.Is(err, domain.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestGetWaterEntriesByDay_MissingGoal(t *testing.T) {
	goals := &mockGoalRepo{
		getFn: func(_ context.Context, _ int64) (*domain.Goal, error) { return nil, nil },
	}
	svc := app.NewWaterService(&mockWaterRepo{}, goals, utcResolver)
	_, err := svc.GetEntriesByDay(context.Background(), 1, "2026-02-08")
	if !errors.Is(err, domain.ErrGoalNotFound) {
		t.Fatalf("expected ErrGoalNotFound, got %v", err)
	}
}
