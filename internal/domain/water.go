package domain

import (
	"context"
	"time"
)

// WaterIntakeRecord marks one cup of water. It carries no quantity.
type WaterIntakeRecord struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// WaterRepository is the port for water persistence.
type WaterRepository interface {
	AddWaterEntry(ctx context.Context, userID int64, createdAt time.Time) (int64, error)
	DeleteWaterEntry(ctx context.Context, userID int64, id int64) (bool, error)
	// DeleteLatestWaterEntry removes the user's newest record and returns its
	// id.
	DeleteLatestWaterEntry(ctx context.Context, userID int64) (int64, bool, error)
	ListWaterEntriesForDay(ctx context.Context, userID int64, day DayBounds) ([]WaterIntakeRecord, error)
	CountWaterEntriesForDay(ctx context.Context, userID int64, day DayBounds) (int, error)
}
