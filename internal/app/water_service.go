package app

import (
	"context"
	"fmt"
	"time"

	"fooddiary/internal/domain"
)

// WaterService encapsulates water-tracking use cases.
type WaterService struct {
	repo     domain.WaterRepository
	goals    domain.GoalRepository
	resolver domain.DayResolver
}

// NewWaterService creates a WaterService backed by the given repositories.
func NewWaterService(repo domain.WaterRepository, goals domain.GoalRepository, resolver domain.DayResolver) *WaterService {
	return &WaterService{repo: repo, goals: goals, resolver: resolver}
}

// WaterDay is the water log of one day against the user's cup target.
type WaterDay struct {
	Day         string                     `json:"day"`
	Entries     []domain.WaterIntakeRecord `json:"entries"`
	Cups        int                        `json:"cups"`
	WaterIntake int                        `json:"waterIntake"`
}

// GetEntriesByDay returns the user's water records for day.
func (s *WaterService) GetEntriesByDay(ctx context.Context, userID int64, day string) (*WaterDay, error) {
	bounds, err := s.resolver.Resolve(day)
	if err != nil {
		return nil, err
	}
	entries, err := s.repo.ListWaterEntriesForDay(ctx, userID, bounds)
	if err != nil {
		return nil, fmt.Errorf("list water entries: %w", err)
	}
	if entries == nil {
		entries = []domain.WaterIntakeRecord{}
	}
	goal, err := s.goals.GetGoal(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get goal: %w", err)
	}
	if goal == nil {
		return nil, domain.ErrGoalNotFound
	}
	return &WaterDay{Day: bounds.Day, Entries: entries, Cups: len(entries), WaterIntake: goal.WaterIntake}, nil
}

// AddEntry records one cup of water now.
func (s *WaterService) AddEntry(ctx context.Context, userID int64) (*domain.WaterIntakeRecord, error) {
	now := time.Now().UTC()
	id, err := s.repo.AddWaterEntry(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	return &domain.WaterIntakeRecord{ID: id, UserID: userID, CreatedAt: now}, nil
}

// RemoveEntry deletes one of the user's water records.
func (s *WaterService) RemoveEntry(ctx context.Context, userID, id int64) error {
	ok, err := s.repo.DeleteWaterEntry(ctx, userID, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}

// UndoLast deletes the user's most recent water record.
func (s *WaterService) UndoLast(ctx context.Context, userID int64) (bool, int64, error) {
	id, ok, err := s.repo.DeleteLatestWaterEntry(ctx, userID)
	if err != nil {
		return false, 0, err
	}
	return ok, id, nil
}
