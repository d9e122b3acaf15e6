package app_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fooddiary/internal/adapter/memory"
	"fooddiary/internal/app"
	"fooddiary/internal/domain"
)

func TestGoalService_PartialUpdate(t *testing.T) {
	ctx := context.Background()
	db := memory.New()
	svc := app.NewGoalService(db)
	require.NoError(t, svc.EnsureGoal(ctx, 1))

	g, err := svc.GetGoals(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultWaterIntake, g.WaterIntake)
	assert.Nil(t, g.GoalWeight)

	limit := 2100.0
	g, err = svc.UpdateGoals(ctx, 1, domain.GoalUpdate{CalorieLimit: &limit})
	require.NoError(t, err)
	assert.Equal(t, 2100.0, g.CalorieLimit)
	assert.Equal(t, domain.DefaultWaterIntake, g.WaterIntake)

	cups := 10
	weight := 150.0
	g, err = svc.UpdateGoals(ctx, 1, domain.GoalUpdate{WaterIntake: &cups, GoalWeight: &weight})
	require.NoError(t, err)
	assert.Equal(t, 2100.0, g.CalorieLimit)
	assert.Equal(t, 10, g.WaterIntake)
	require.NotNil(t, g.GoalWeight)
	assert.Equal(t, 150.0, *g.GoalWeight)
}

func TestGoalService_Errors(t *testing.T) {
	ctx := context.Background()
	svc := app.NewGoalService(memory.New())

	_, err := svc.GetGoals(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrGoalNotFound)

	limit := 1800.0
	_, err = svc.UpdateGoals(ctx, 1, domain.GoalUpdate{CalorieLimit: &limit})
	assert.ErrorIs(t, err, domain.ErrGoalNotFound)

	negative := -1.0
	_, err = svc.UpdateGoals(ctx, 1, domain.GoalUpdate{CalorieLimit: &negative})
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}
