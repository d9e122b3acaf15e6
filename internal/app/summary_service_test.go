package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fooddiary/internal/adapter/memory"
	"fooddiary/internal/app"
	"fooddiary/internal/domain"
)

type summaryFixture struct {
	db    *memory.DB
	diary *app.DiaryService
	svc   *app.SummaryService
}

func newSummaryFixture(t *testing.T, limit float64) summaryFixture {
	t.Helper()
	db := memory.New()
	ctx := context.Background()
	require.NoError(t, db.EnsureGoal(ctx, 1))
	_, err := db.UpdateGoal(ctx, 1, domain.GoalUpdate{CalorieLimit: &limit})
	require.NoError(t, err)
	return summaryFixture{
		db:    db,
		diary: app.NewDiaryService(db, utcResolver),
		svc:   app.NewSummaryService(db, db, utcResolver),
	}
}

func TestSummaryService_EmptyDay(t *testing.T) {
	f := newSummaryFixture(t, 1900)

	s, err := f.svc.GetDailySummary(context.Background(), 1, "2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", s.Day)
	assert.Equal(t, 1900.0, s.CalorieLimit)
	assert.Zero(t, s.CaloriesConsumed)
	require.Len(t, s.MealCategorySummaries, 4)
	for i, c := range domain.MealCategories() {
		assert.Equal(t, c, s.MealCategorySummaries[i].Category)
		assert.Zero(t, s.MealCategorySummaries[i].CalorieCount)
		assert.NotNil(t, s.MealCategorySummaries[i].FoodItems)
	}
}

func TestSummaryService_SingleEntry(t *testing.T) {
	f := newSummaryFixture(t, 1900)
	ctx := context.Background()
	yogurt := seedFood(t, f.db, "Yogurt", 100, 200)

	_, err := f.diary.AddEntry(ctx, 1, "2024-03-15", domain.Breakfast, yogurt.ID, 150)
	require.NoError(t, err)

	s, err := f.svc.GetDailySummary(ctx, 1, "2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, 300, s.CaloriesConsumed)
	assert.Equal(t, 300, s.MealCategorySummaries[0].CalorieCount)
	assert.Equal(t, []string{"Yogurt"}, s.MealCategorySummaries[0].FoodItems)
	assert.Zero(t, s.MealCategorySummaries[1].CalorieCount)
}

func TestSummaryService_TotalIsSumOfCategories(t *testing.T) {
	f := newSummaryFixture(t, 2000)
	ctx := context.Background()
	a := seedFood(t, f.db, "Apple", 3, 10)
	b := seedFood(t, f.db, "Bread", 30, 80)

	adds := []struct {
		cat   domain.MealCategory
		food  int64
		eaten float64
	}{
		{domain.Breakfast, a.ID, 1},
		{domain.Breakfast, a.ID, 1},
		{domain.Lunch, b.ID, 45},
		{domain.Dinner, b.ID, 12.5},
		{domain.Snack, a.ID, 7},
	}
	for _, add := range adds {
		_, err := f.diary.AddEntry(ctx, 1, "2024-03-15", add.cat, add.food, add.eaten)
		require.NoError(t, err)
	}

	s, err := f.svc.GetDailySummary(ctx, 1, "2024-03-15")
	require.NoError(t, err)

	sum := 0
	for _, cs := range s.MealCategorySummaries {
		sum += cs.CalorieCount
		one, err := f.svc.GetCalorieCountByDayAndCategory(ctx, 1, "2024-03-15", cs.Category)
		require.NoError(t, err)
		assert.Equal(t, cs.CalorieCount, one.CalorieCount, cs.Category)
	}
	assert.Equal(t, sum, s.CaloriesConsumed)
	// Each entry is rounded before summing: 3 + 3.
	assert.Equal(t, 6, s.MealCategorySummaries[0].CalorieCount)
	assert.Equal(t, []string{"Apple", "Apple"}, s.MealCategorySummaries[0].FoodItems)

	again, err := f.svc.GetDailySummary(ctx, 1, "2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, s, again)
}

func TestSummaryService_OtherUsersEntriesIgnored(t *testing.T) {
	f := newSummaryFixture(t, 1900)
	ctx := context.Background()
	yogurt := seedFood(t, f.db, "Yogurt", 100, 200)

	_, err := f.diary.AddEntry(ctx, 2, "2024-03-15", domain.Breakfast, yogurt.ID, 150)
	require.NoError(t, err)

	s, err := f.svc.GetDailySummary(ctx, 1, "2024-03-15")
	require.NoError(t, err)
	assert.Zero(t, s.CaloriesConsumed)
}

func TestSummaryService_MissingGoal(t *testing.T) {
	db := memory.New()
	svc := app.NewSummaryService(db, db, utcResolver)

	_, err := svc.GetDailySummary(context.Background(), 1, "2024-03-15")
	assert.ErrorIs(t, err, domain.ErrGoalNotFound)
}

func TestSummaryService_InvalidDay(t *testing.T) {
	f := newSummaryFixture(t, 1900)

	_, err := f.svc.GetDailySummary(context.Background(), 1, "2024-13-01")
	assert.ErrorIs(t, err, domain.ErrInvalidDate)

	_, err = f.svc.GetCalorieCountByDayAndCategory(context.Background(), 1, "2024-03-15", domain.MealCategory("Tea"))
	var verr *domain.ValidationError
	assert.True(t, errors.As(err, &verr))
}

type brokenDiaryRepo struct {
	domain.DiaryRepository
	entries []domain.DiaryEntry
}

func (r brokenDiaryRepo) ListDiaryEntries(ctx context.Context, userID int64, day domain.DayBounds, category *domain.MealCategory) ([]domain.DiaryEntry, error) {
	return r.entries, nil
}

func TestSummaryService_MissingFoodIsIntegrityError(t *testing.T) {
	repo := brokenDiaryRepo{entries: []domain.DiaryEntry{
		{ID: 1, UserID: 1, FoodItemID: 5, MealCategory: domain.Lunch, EatenServingSize: 10},
	}}
	svc := app.NewSummaryService(repo, &mockGoalRepo{}, utcResolver)

	_, err := svc.GetDailySummary(context.Background(), 1, "2024-03-15")
	assert.ErrorIs(t, err, domain.ErrDataIntegrity)
}

func TestSummaryService_DayBoundaries(t *testing.T) {
	ctx := context.Background()
	f := newSummaryFixture(t, 1900)
	yogurt := seedFood(t, f.db, "Yogurt", 100, 200)

	day, err := utcResolver.Resolve("2024-03-15")
	require.NoError(t, err)
	for _, at := range []struct {
		when  time.Time
		eaten float64
	}{
		{day.Start, 10},
		{day.Last(), 20},
		{day.Start.Add(-time.Microsecond), 40},
		{day.End, 80},
	} {
		_, err := f.db.AddDiaryEntry(ctx, 1, yogurt.ID, domain.Lunch, at.eaten, at.when)
		require.NoError(t, err)
	}

	for day, want := range map[string]int{"2024-03-14": 80, "2024-03-15": 60, "2024-03-16": 160} {
		s, err := f.svc.GetDailySummary(ctx, 1, day)
		require.NoError(t, err)
		assert.Equal(t, want, s.CaloriesConsumed, day)
		assert.Equal(t, want, s.MealCategorySummaries[1].CalorieCount, day)
	}
}
