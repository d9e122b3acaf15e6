package domain

import (
	"context"
	"time"
)

// WeightRecord is a point-in-time body weight measurement. Records are only
// ever appended.
type WeightRecord struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Weight    float64   `json:"weight"`
	CreatedAt time.Time `json:"createdAt"`
}

// WeightRepository is the port for weight persistence.
type WeightRepository interface {
	AddWeightRecord(ctx context.Context, userID int64, weight float64, createdAt time.Time) (int64, error)
	LatestWeightRecord(ctx context.Context, userID int64) (*WeightRecord, error)
	LatestWeightForDay(ctx context.Context, userID int64, day DayBounds) (*WeightRecord, error)
	// ListWeightRecordsSince returns records created at or after since,
	// oldest first.
	ListWeightRecordsSince(ctx context.Context, userID int64, since time.Time) ([]WeightRecord, error)
}
