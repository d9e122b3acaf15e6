package app

import (
	"context"
	"fmt"
	"time"

	"fooddiary/internal/domain"
)

const (
	recentWindow = 7 * 24 * time.Hour
	recentLimit  = 10
)

// DiaryService encapsulates diary entry queries and mutations.
type DiaryService struct {
	repo     domain.DiaryRepository
	resolver domain.DayResolver
}

// NewDiaryService creates a DiaryService backed by the given repository.
func NewDiaryService(repo domain.DiaryRepository, resolver domain.DayResolver) *DiaryService {
	return &DiaryService{repo: repo, resolver: resolver}
}

// GetEntries returns the user's entries for day joined with their food items.
// A nil category returns entries of every category.
func (s *DiaryService) GetEntries(ctx context.Context, userID int64, day string, category *domain.MealCategory) ([]domain.DiaryEntry, error) {
	bounds, err := s.resolver.Resolve(day)
	if err != nil {
		return nil, err
	}
	if category != nil && !category.Valid() {
		return nil, domain.Invalid("category", "unknown meal category")
	}
	entries, err := s.repo.ListDiaryEntries(ctx, userID, bounds, category)
	if err != nil {
		return nil, fmt.Errorf("list diary entries: %w", err)
	}
	if entries == nil {
		entries = []domain.DiaryEntry{}
	}
	return entries, nil
}

// GetEntriesByDayAndCategory returns the user's entries for one category on day.
func (s *DiaryService) GetEntriesByDayAndCategory(ctx context.Context, userID int64, day string, category domain.MealCategory) ([]domain.DiaryEntry, error) {
	return s.GetEntries(ctx, userID, day, &category)
}

// GetRecentEntries returns the newest entries of category from the last seven
// days, one per food item.
func (s *DiaryService) GetRecentEntries(ctx context.Context, userID int64, category domain.MealCategory) ([]domain.DiaryEntry, error) {
	if !category.Valid() {
		return nil, domain.Invalid("category", "unknown meal category")
	}
	since := time.Now().Add(-recentWindow)
	entries, err := s.repo.ListRecentDiaryEntries(ctx, userID, category, since, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("list recent diary entries: %w", err)
	}
	if entries == nil {
		entries = []domain.DiaryEntry{}
	}
	return entries, nil
}

// GetDiaryEntryCount returns how many entries the user logged in category on day.
func (s *DiaryService) GetDiaryEntryCount(ctx context.Context, userID int64, day string, category domain.MealCategory) (int, error) {
	bounds, err := s.resolver.Resolve(day)
	if err != nil {
		return 0, err
	}
	if !category.Valid() {
		return 0, domain.Invalid("category", "unknown meal category")
	}
	return s.repo.CountDiaryEntries(ctx, userID, bounds, category)
}

// AddEntry logs a food item into category on day. Entries logged for the
// current day carry the current time; entries for any other day are dated at
// that day's start. Repeated calls create repeated entries.
func (s *DiaryService) AddEntry(ctx context.Context, userID int64, day string, category domain.MealCategory, foodItemID int64, eatenServingSize float64) (int64, error) {
	if err := domain.ValidateEatenServingSize(eatenServingSize); err != nil {
		return 0, err
	}
	bounds, err := s.resolver.Resolve(day)
	if err != nil {
		return 0, err
	}
	if !category.Valid() {
		return 0, domain.Invalid("category", "unknown meal category")
	}
	if foodItemID <= 0 {
		return 0, domain.Invalid("foodItemId", "must be set")
	}

	date := bounds.Start
	if now := time.Now(); bounds.Contains(now) {
		date = now
	}
	return s.repo.AddDiaryEntry(ctx, userID, foodItemID, category, eatenServingSize, date)
}

// EditEntry changes the eaten serving size of one of the user's entries.
func (s *DiaryService) EditEntry(ctx context.Context, userID, diaryID int64, eatenServingSize float64) error {
	if err := domain.ValidateEatenServingSize(eatenServingSize); err != nil {
		return err
	}
	ok, err := s.repo.UpdateDiaryEntryServing(ctx, userID, diaryID, eatenServingSize)
	if err != nil {
		return fmt.Errorf("update diary entry: %w", err)
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}

// RemoveEntry deletes one of the user's entries. Missing and foreign ids
// both fail with ErrNotFound.
func (s *DiaryService) RemoveEntry(ctx context.Context, userID, diaryID int64) (bool, error) {
	ok, err := s.repo.DeleteDiaryEntry(ctx, userID, diaryID)
	if err != nil {
		return false, fmt.Errorf("delete diary entry: %w", err)
	}
	if !ok {
		return false, domain.ErrNotFound
	}
	return true, nil
}
