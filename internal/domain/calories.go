package domain

import (
	"fmt"
	"math"
)

// ComputeCalories returns the whole calories in eatenServingSize of a food
// whose standardServingSize carries caloriesPerServing.
//
// Results are rounded half away from zero. All inputs are non-negative, so
// 0.5 always rounds up.
//
// Callers validate inputs; a non-positive standard or eaten serving size,
// negative calories, or a result beyond math.MaxInt32 is a programming error
// and panics.
func ComputeCalories(standardServingSize, caloriesPerServing, eatenServingSize float64) int {
	if !(standardServingSize > 0) || !(eatenServingSize > 0) || !(caloriesPerServing >= 0) {
		panic(fmt.Sprintf("domain: ComputeCalories(%v, %v, %v): precondition violated",
			standardServingSize, caloriesPerServing, eatenServingSize))
	}
	perUnit := caloriesPerServing / standardServingSize
	kcal := math.Round(eatenServingSize * perUnit)
	if !(kcal <= math.MaxInt32) {
		panic(fmt.Sprintf("domain: ComputeCalories(%v, %v, %v): result out of range",
			standardServingSize, caloriesPerServing, eatenServingSize))
	}
	return int(kcal)
}
