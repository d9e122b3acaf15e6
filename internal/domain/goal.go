package domain

import "context"

// DefaultWaterIntake is the cup target of a freshly provisioned Goal.
const DefaultWaterIntake = 8

// Goal holds a user's targets.
type Goal struct {
	ID           int64    `json:"id"`
	UserID       int64    `json:"userId"`
	CalorieLimit float64  `json:"calorieLimit"`
	GoalWeight   *float64 `json:"goalWeight"`
	WaterIntake  int      `json:"waterIntake"`
}

// GoalUpdate is a partial update. Nil fields keep their stored value. A
// GoalWeight of zero clears the target weight.
type GoalUpdate struct {
	CalorieLimit *float64 `json:"calorieLimit,omitempty"`
	GoalWeight   *float64 `json:"goalWeight,omitempty"`
	WaterIntake  *int     `json:"waterIntake,omitempty"`
}

// Validate rejects negative values.
func (u GoalUpdate) Validate() error {
	if u.CalorieLimit != nil && !(*u.CalorieLimit >= 0) {
		return Invalid("calorieLimit", "must be >= 0")
	}
	if u.GoalWeight != nil && !(*u.GoalWeight >= 0) {
		return Invalid("goalWeight", "must be >= 0")
	}
	if u.WaterIntake != nil && *u.WaterIntake < 0 {
		return Invalid("waterIntake", "must be >= 0")
	}
	return nil
}

// GoalRepository is the port for goal persistence.
type GoalRepository interface {
	// EnsureGoal creates the default Goal for userID if none exists.
	EnsureGoal(ctx context.Context, userID int64) error
	GetGoal(ctx context.Context, userID int64) (*Goal, error)
	UpdateGoal(ctx context.Context, userID int64, u GoalUpdate) (*Goal, error)
}
