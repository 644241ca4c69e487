package scoring

import "math"

const (
	caloriePoints  = 40.0
	proteinPoints  = 30.0
	fiberPoints    = 20.0
	hydrationPoint = 10.0

	// Calorie window: full credit within ±5%, nothing beyond ±20%
	calorieFullBand = 0.05
	calorieZeroBand = 0.20

	proteinKnee       = 0.80
	proteinKneeCredit = 0.50

	hydrationKnee       = 0.60
	hydrationKneeCredit = 0.50

	vegServingsForFull = 2.0

	// ExpectedFoodEntries is the number of entries a fully logged day has
	ExpectedFoodEntries  = 9
	foodLogCompleteRatio = 0.70
	sparseFoodLogPenalty = 0.85
)

// NutritionScorer computes the Trail Fuel score
type NutritionScorer struct{}

// Score rates the day's nutrition against its targets. entries is the number of
// food log entries and drives the logging-completeness decay.
func (NutritionScorer) Score(n Nutrition, t NutritionTargets, entries int) ComponentScore {
	cal := CalorieWindowPoints(n.Calories, t.CaloriesKcal)
	protein := ProteinPoints(n.ProteinG, t.ProteinG)
	fiber := FiberPoints(n, t)
	hydration := HydrationPoints(n.HydrationMl, t.HydrationLiters)

	decay := FoodLogDecay(entries)
	total := clamp((cal+protein+fiber+hydration)*decay, 0, 100)

	return ComponentScore{
		Value: total,
		Breakdown: map[string]float64{
			"calories":  cal,
			"protein":   protein,
			"fiber":     fiber,
			"hydration": hydration,
			"decay":     decay,
		},
		Confidence: decay,
	}
}

// CalorieWindowPoints awards up to 40 points for landing near the calorie target
func CalorieWindowPoints(consumed *float64, target float64) float64 {
	c, ok := deref(consumed)
	if !ok {
		return 0
	}
	deviation := math.Abs(c-target) / math.Max(epsilon, target)
	switch {
	case deviation <= calorieFullBand+epsilon:
		return caloriePoints
	case deviation >= calorieZeroBand-epsilon:
		return 0
	default:
		return caloriePoints * (calorieZeroBand - deviation) / (calorieZeroBand - calorieFullBand)
	}
}

// ProteinPoints awards up to 30 points; 80% of target earns half
func ProteinPoints(consumed *float64, target float64) float64 {
	p, ok := deref(consumed)
	if !ok {
		return 0
	}
	return proteinPoints * rampedRatio(safeDiv(p, target), proteinKnee, proteinKneeCredit)
}

// FiberPoints awards up to 20 points for fiber density or vegetable servings
func FiberPoints(n Nutrition, t NutritionTargets) float64 {
	fiber, hasFiber := deref(n.FiberG)
	veg, hasVeg := deref(n.VegetableServings)
	if !hasFiber && !hasVeg {
		return 0
	}

	// Density is judged against what was eaten; without a calorie total use the target
	threshold := t.FiberG
	if c, ok := deref(n.Calories); ok && c > 0 {
		threshold = c / 1000 * fiberPer1000Kcal
	}

	if (hasFiber && fiber > 0 && fiber >= threshold) || veg >= vegServingsForFull {
		return fiberPoints
	}

	fiberRatio := clamp01(safeDiv(fiber, threshold))
	vegRatio := clamp01(veg / vegServingsForFull)
	return fiberPoints * math.Max(fiberRatio, vegRatio/2)
}

// HydrationPoints awards up to 10 points; 60% of target earns half
func HydrationPoints(consumedMl *float64, targetLiters float64) float64 {
	ml, ok := deref(consumedMl)
	if !ok {
		return 0
	}
	return hydrationPoint * rampedRatio(safeDiv(ml/1000, targetLiters), hydrationKnee, hydrationKneeCredit)
}

// FoodLogDecay returns 0.85 when fewer than 70% of the expected entries were logged
func FoodLogDecay(entries int) float64 {
	if float64(entries)/ExpectedFoodEntries < foodLogCompleteRatio {
		return sparseFoodLogPenalty
	}
	return 1.0
}
