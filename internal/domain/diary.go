package domain

import (
	"context"
	"time"
)

// DiaryEntry is one logged instance of eating a food item. Food is populated
// by queries that join the food item.
type DiaryEntry struct {
	ID               int64        `json:"id"`
	UserID           int64        `json:"userId"`
	FoodItemID       int64        `json:"foodItemId"`
	MealCategory     MealCategory `json:"mealCategory"`
	EatenServingSize float64      `json:"eatenServingSize"`
	Date             time.Time    `json:"date"`
	Food             *FoodItem    `json:"foodItem,omitempty"`
}

// Calories returns the entry's calories. It fails with ErrDataIntegrity when
// the joined food item is missing.
func (e DiaryEntry) Calories() (int, error) {
	if e.Food == nil {
		return 0, ErrDataIntegrity
	}
	return ComputeCalories(e.Food.StandardServingSize, e.Food.CaloriesPerServing, e.EatenServingSize), nil
}

// ValidateEatenServingSize checks an eaten serving size against the same
// bounds as a food's standard serving.
func ValidateEatenServingSize(v float64) error {
	if !(v > 0) || v > MaxServingSize {
		return Invalid("eatenServingSize", "must be > 0 and <= 1000000")
	}
	return nil
}

// MealCategorySummary is the per-category part of a DailySummary.
type MealCategorySummary struct {
	Category     MealCategory `json:"category"`
	CalorieCount int          `json:"calorieCount"`
	FoodItems    []string     `json:"foodItems"`
}

// DailySummary is the aggregated view of one user's day.
type DailySummary struct {
	Day                   string                `json:"day"`
	CalorieLimit          float64               `json:"calorieLimit"`
	CaloriesConsumed      int                   `json:"caloriesConsumed"`
	MealCategorySummaries []MealCategorySummary `json:"mealCategorySummaries"`
}

// DiaryRepository is the port for diary entry persistence. Every method is
// scoped by userID; mutations combine the ownership check with the write.
type DiaryRepository interface {
	AddDiaryEntry(ctx context.Context, userID, foodItemID int64, category MealCategory, eatenServingSize float64, date time.Time) (int64, error)
	UpdateDiaryEntryServing(ctx context.Context, userID, id int64, eatenServingSize float64) (bool, error)
	DeleteDiaryEntry(ctx context.Context, userID, id int64) (bool, error)
	// ListDiaryEntries returns entries in day joined with their food item. A
	// nil category matches all categories.
	ListDiaryEntries(ctx context.Context, userID int64, day DayBounds, category *MealCategory) ([]DiaryEntry, error)
	// ListRecentDiaryEntries returns entries dated at or after since, newest
	// first, at most one per food item.
	ListRecentDiaryEntries(ctx context.Context, userID int64, category MealCategory, since time.Time, limit int) ([]DiaryEntry, error)
	CountDiaryEntries(ctx context.Context, userID int64, day DayBounds, category MealCategory) (int, error)
}
