package app

import (
	"context"
	"fmt"

	"fooddiary/internal/domain"
)

// GoalService encapsulates goal use cases.
type GoalService struct {
	repo domain.GoalRepository
}

// NewGoalService creates a GoalService backed by the given repository.
func NewGoalService(repo domain.GoalRepository) *GoalService {
	return &GoalService{repo: repo}
}

// GetGoals returns the user's goals.
func (s *GoalService) GetGoals(ctx context.Context, userID int64) (*domain.Goal, error) {
	g, err := s.repo.GetGoal(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get goal: %w", err)
	}
	if g == nil {
		return nil, domain.ErrGoalNotFound
	}
	return g, nil
}

// UpdateGoals applies a partial update. Only supplied fields change.
func (s *GoalService) UpdateGoals(ctx context.Context, userID int64, u domain.GoalUpdate) (*domain.Goal, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}
	g, err := s.repo.UpdateGoal(ctx, userID, u)
	if err != nil {
		return nil, fmt.Errorf("update goal: %w", err)
	}
	if g == nil {
		return nil, domain.ErrGoalNotFound
	}
	return g, nil
}

// EnsureGoal provisions the default goal for a user who has none.
func (s *GoalService) EnsureGoal(ctx context.Context, userID int64) error {
	return s.repo.EnsureGoal(ctx, userID)
}
