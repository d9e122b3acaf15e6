package app

import (
	"context"
	"time"

	"fooddiary/internal/domain"
)

// WeightService encapsulates weight-tracking use cases.
type WeightService struct {
	repo domain.WeightRepository
}

// NewWeightService creates a WeightService backed by the given repository.
func NewWeightService(repo domain.WeightRepository) *WeightService {
	return &WeightService{repo: repo}
}

// GetCurrentWeight returns the user's most recent weight record, or nil when
// none has been logged.
func (s *WeightService) GetCurrentWeight(ctx context.Context, userID int64) (*domain.WeightRecord, error) {
	return s.repo.LatestWeightRecord(ctx, userID)
}

// UpdateCurrentWeight appends a new measurement and returns it. Existing
// records are never modified.
func (s *WeightService) UpdateCurrentWeight(ctx context.Context, userID int64, weight float64) (*domain.WeightRecord, error) {
	if !(weight > 0) {
		return nil, domain.Invalid("weight", "must be > 0")
	}
	now := time.Now().UTC()
	id, err := s.repo.AddWeightRecord(ctx, userID, weight, now)
	if err != nil {
		return nil, err
	}
	return &domain.WeightRecord{ID: id, UserID: userID, Weight: weight, CreatedAt: now}, nil
}

// ListRecent returns the user's records from the last days days, oldest first.
func (s *WeightService) ListRecent(ctx context.Context, userID int64, days int) ([]domain.WeightRecord, error) {
	if days <= 0 {
		days = 30
	}
	if days > 366 {
		days = 366
	}
	items, err := s.repo.ListWeightRecordsSince(ctx, userID, time.Now().AddDate(0, 0, -days))
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.WeightRecord{}
	}
	return items, nil
}
