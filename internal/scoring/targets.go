package scoring

import (
	"math"
	"time"
)

const (
	// Fiber: 14 g per 1000 kcal (IOM), bounded to a sensible range
	fiberPer1000Kcal = 14.0
	minFiberG        = 18.0
	maxFiberG        = 40.0

	hydrationLitersPerKg = 0.035

	minPlannedSets    = 12.0
	minPlannedMinutes = 30.0
	hardPhaseVolumeUp = 1.05

	baseSleepGoalMinutes = 450.0
	minSleepGoalMinutes  = 420.0
	maxSleepGoalMinutes  = 540.0

	highLoadSessions = 5
	highLoadMinutes  = 300.0

	referenceHeightCm = 175.0
	referenceWeightKg = 75.0
	maxFrameDeviation = 0.15
	minNeatSpread     = 1500.0
	minNeatSteps      = 4000.0
	maxNeatSteps      = 20000.0
	neatRounding      = 100.0
)

// BMR estimates basal metabolic rate with Mifflin-St Jeor
func BMR(p *Profile) float64 {
	bmr := 10*ProfileWeightKg(p) + 6.25*ProfileHeightCm(p) - 5*ProfileAge(p)
	if ProfileSex(p) == "m" {
		return bmr + 5
	}
	return bmr - 161
}

// TDEE returns the stored TDEE if there is one, otherwise BMR × activity multiplier
func TDEE(p *Profile) float64 {
	if p != nil && p.Program.TDEE != nil && *p.Program.TDEE > 0 {
		return *p.Program.TDEE
	}
	return BMR(p) * ActivityMultiplier(ProfileActivityLevel(p))
}

// CalculateTargets derives every target for the given day. It never fails: missing
// profile fields fall back to the documented defaults.
func CalculateTargets(p *Profile, plan *Plan, date time.Time) Targets {
	goal := ProfileGoal(p)
	phase := ProfilePhase(p)

	return Targets{
		Goal:      goal,
		Phase:     phase,
		Nutrition: NutritionTargetsFor(p, goal, phase),
		Training:  TrainingTargetsFor(p, plan, goal, phase, date),
		Recovery:  RecoveryTargetsFor(p, plan, goal, phase),
	}
}

// NutritionTargetsFor derives calorie, protein, fiber and hydration targets
func NutritionTargetsFor(p *Profile, goal GoalType, phase Phase) NutritionTargets {
	calories := TDEE(p) * CalorieMultiplier(goal, phase)

	return NutritionTargets{
		CaloriesKcal:    calories,
		ProteinG:        massForProtein(p) * ProteinPerKg(goal, phase),
		FiberG:          clamp(calories/1000*fiberPer1000Kcal, minFiberG, maxFiberG),
		HydrationLiters: ProfileWeightKg(p) * hydrationLitersPerKg,
	}
}

// TrainingTargetsFor derives completion, intensity and progression targets
func TrainingTargetsFor(p *Profile, plan *Plan, goal GoalType, phase Phase, date time.Time) TrainingTargets {
	modality := ModalityStrength
	if goal == GoalEndurance {
		modality = ModalityEndurance
	}

	scale := 1.0
	if isHardPhase(phase) {
		scale = hardPhaseVolumeUp
	}

	completion := CompletionTarget{FreqPerWeek: weeklyFrequency(p, plan)}
	progression := ProgressionTarget{Ceiling: ProgressionCeiling(modality, goal, phase)}
	intensity := IntensityTarget{BaseCredit: BaseCredit(goal, phase)}
	intensity.Low, intensity.High = IntensityBand(modality, phase)

	var recent float64
	if modality == ModalityEndurance {
		if plan != nil {
			recent = plan.AvgCardioMinutes
		}
		completion.Type = "minutes"
		completion.Planned = math.Max(minPlannedMinutes, recent*scale)
		intensity.Type = "hr_ratio"
		progression.Rule = "zone_minutes"
	} else {
		if plan != nil {
			recent = plan.AvgSetsPerSession
		}
		completion.Type = "sets"
		completion.Planned = math.Max(minPlannedSets, recent*scale)
		intensity.Type = "rpe"
		progression.Rule = "total_volume"
	}

	return TrainingTargets{
		Modality:    modality,
		Completion:  completion,
		Intensity:   intensity,
		Progression: progression,
		RestDay:     isRestDay(p, plan, date),
	}
}

// RecoveryTargetsFor derives the sleep goal and NEAT step band
func RecoveryTargetsFor(p *Profile, plan *Plan, goal GoalType, phase Phase) RecoveryTargets {
	low, high := neatStepRange(p, goal)
	return RecoveryTargets{
		SleepGoalMinutes: SleepGoalMinutes(goal, phase, highTrainingLoad(p, plan)),
		NeatStepRange:    [2]float64{low, high},
	}
}

// SleepGoalMinutes returns the personalised nightly sleep goal
func SleepGoalMinutes(goal GoalType, phase Phase, highLoad bool) float64 {
	minutes := baseSleepGoalMinutes
	hard := isHardPhase(phase)
	if hard && (goal == GoalEndurance || goal == GoalLeanBulk) {
		minutes += 30
	}
	if highLoad {
		minutes += 30
	}
	if hard && goal == GoalCut {
		minutes += 15
	}
	return clamp(minutes, minSleepGoalMinutes, maxSleepGoalMinutes)
}

func highTrainingLoad(p *Profile, plan *Plan) bool {
	if weeklyFrequency(p, plan) >= highLoadSessions {
		return true
	}
	return plan != nil && plan.WeeklyMinutes >= highLoadMinutes
}

// neatStepRange scales the goal's step band by body frame and activity level
func neatStepRange(p *Profile, goal GoalType) (low, high float64) {
	baseLow, baseHigh := NeatBand(goal)

	frame := 1 + ((ProfileHeightCm(p)/referenceHeightCm-1)+(ProfileWeightKg(p)/referenceWeightKg-1))/2
	frame = clamp(frame, 1-maxFrameDeviation, 1+maxFrameDeviation)
	nudge := 1 + activityStepNudge[ProfileActivityLevel(p)]

	low = roundTo(baseLow*frame*nudge, neatRounding)
	high = roundTo(baseHigh*frame*nudge, neatRounding)

	low = clamp(low, minNeatSteps, maxNeatSteps)
	high = clamp(high, minNeatSteps, maxNeatSteps)
	if high-low < minNeatSpread {
		high = low + minNeatSpread
		if high > maxNeatSteps {
			high = maxNeatSteps
			low = high - minNeatSpread
		}
	}
	return low, high
}

func roundTo(v, step float64) float64 {
	return math.Round(v/step) * step
}
