package app

import (
	"context"

	"fooddiary/internal/domain"
)

// ProgressService builds per-day series for the progress view.
type ProgressService struct {
	summary  *SummaryService
	weight   domain.WeightRepository
	water    domain.WaterRepository
	resolver domain.DayResolver
}

// NewProgressService creates a ProgressService.
func NewProgressService(summary *SummaryService, wr domain.WeightRepository, wa domain.WaterRepository, resolver domain.DayResolver) *ProgressService {
	return &ProgressService{summary: summary, weight: wr, water: wa, resolver: resolver}
}

// DayPoint is a single day of the progress series.
type DayPoint struct {
	Day              string   `json:"day"`
	CaloriesConsumed int      `json:"caloriesConsumed"`
	CalorieLimit     float64  `json:"calorieLimit"`
	WaterCups        int      `json:"waterCups"`
	Weight           *float64 `json:"weight"`
}

// GetDaily returns one point per day for the last days days ending today,
// oldest first.
func (s *ProgressService) GetDaily(ctx context.Context, userID int64, days int) ([]DayPoint, error) {
	if days <= 0 {
		days = 7
	}
	if days > 366 {
		days = 366
	}

	today := s.resolver.Now()
	points := make([]DayPoint, 0, days)

	for i := days - 1; i >= 0; i-- {
		dayStr := today.AddDate(0, 0, -i).Format(domain.DayLayout)
		bounds, err := s.resolver.Resolve(dayStr)
		if err != nil {
			return nil, err
		}

		summary, err := s.summary.GetDailySummary(ctx, userID, dayStr)
		if err != nil {
			return nil, err
		}

		cups, err := s.water.CountWaterEntriesForDay(ctx, userID, bounds)
		if err != nil {
			return nil, err
		}

		rec, err := s.weight.LatestWeightForDay(ctx, userID, bounds)
		if err != nil {
			return nil, err
		}
		var weight *float64
		if rec != nil {
			w := rec.Weight
			weight = &w
		}

		points = append(points, DayPoint{
			Day:              dayStr,
			CaloriesConsumed: summary.CaloriesConsumed,
			CalorieLimit:     summary.CalorieLimit,
			WaterCups:        cups,
			Weight:           weight,
		})
	}
	return points, nil
}
