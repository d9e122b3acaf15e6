package app

import (
	"context"
	"errors"
	"fmt"

	"fooddiary/internal/domain"
)

// SummaryService aggregates diary entries into calorie summaries.
type SummaryService struct {
	diary    domain.DiaryRepository
	goals    domain.GoalRepository
	resolver domain.DayResolver
}

// NewSummaryService creates a SummaryService.
func NewSummaryService(diary domain.DiaryRepository, goals domain.GoalRepository, resolver domain.DayResolver) *SummaryService {
	return &SummaryService{diary: diary, goals: goals, resolver: resolver}
}

// CategoryCalories is the calorie total of one category on one day.
type CategoryCalories struct {
	Day          string              `json:"day"`
	Category     domain.MealCategory `json:"category"`
	CalorieCount int                 `json:"calorieCount"`
}

// GetDailySummary returns per-category and total calories for day together
// with the user's calorie limit. A day without entries yields zero totals for
// all four categories. A missing Goal fails with domain.ErrGoalNotFound.
func (s *SummaryService) GetDailySummary(ctx context.Context, userID int64, day string) (*domain.DailySummary, error) {
	bounds, err := s.resolver.Resolve(day)
	if err != nil {
		return nil, err
	}

	// One read for every category keeps the summary on a single snapshot.
	entries, err := s.diary.ListDiaryEntries(ctx, userID, bounds, nil)
	if err != nil {
		return nil, fmt.Errorf("list diary entries: %w", err)
	}

	byCategory := make(map[domain.MealCategory][]domain.DiaryEntry, 4)
	for _, e := range entries {
		if !e.MealCategory.Valid() {
			return nil, fmt.Errorf("%w: entry %d has category %q", domain.ErrDataIntegrity, e.ID, e.MealCategory)
		}
		byCategory[e.MealCategory] = append(byCategory[e.MealCategory], e)
	}

	summary := &domain.DailySummary{Day: bounds.Day}
	for _, category := range domain.MealCategories() {
		cs, err := summarizeCategory(category, byCategory[category])
		if err != nil {
			return nil, err
		}
		summary.CaloriesConsumed += cs.CalorieCount
		summary.MealCategorySummaries = append(summary.MealCategorySummaries, cs)
	}

	goal, err := s.goals.GetGoal(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get goal: %w", err)
	}
	if goal == nil {
		return nil, domain.ErrGoalNotFound
	}
	summary.CalorieLimit = goal.CalorieLimit
	return summary, nil
}

// GetCalorieCountByDayAndCategory returns the calories the user logged in one
// category on day.
func (s *SummaryService) GetCalorieCountByDayAndCategory(ctx context.Context, userID int64, day string, category domain.MealCategory) (*CategoryCalories, error) {
	bounds, err := s.resolver.Resolve(day)
	if err != nil {
		return nil, err
	}
	if !category.Valid() {
		return nil, domain.Invalid("category", "unknown meal category")
	}
	entries, err := s.diary.ListDiaryEntries(ctx, userID, bounds, &category)
	if err != nil {
		return nil, fmt.Errorf("list diary entries: %w", err)
	}
	cs, err := summarizeCategory(category, entries)
	if err != nil {
		return nil, err
	}
	return &CategoryCalories{Day: bounds.Day, Category: category, CalorieCount: cs.CalorieCount}, nil
}

// summarizeCategory sums entry calories and lists food names as entered,
// duplicates included.
func summarizeCategory(category domain.MealCategory, entries []domain.DiaryEntry) (domain.MealCategorySummary, error) {
	cs := domain.MealCategorySummary{Category: category, FoodItems: make([]string, 0, len(entries))}
	for _, e := range entries {
		kcal, err := e.Calories()
		if errors.Is(err, domain.ErrDataIntegrity) {
			return cs, fmt.Errorf("%w: entry %d references missing food item %d", domain.ErrDataIntegrity, e.ID, e.FoodItemID)
		}
		if err != nil {
			return cs, err
		}
		cs.CalorieCount += kcal
		cs.FoodItems = append(cs.FoodItems, e.Food.Name)
	}
	return cs, nil
}
