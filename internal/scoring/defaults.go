package scoring

import (
	"slices"
	"strings"
	"time"
)

// Fallbacks for profile fields that were never entered
const (
	DefaultSex           = "m"
	DefaultAge           = 30
	DefaultHeightCm      = 175.0
	DefaultWeightKg      = 75.0
	DefaultActivityLevel = "moderate"
	DefaultPhase         = PhaseBase

	// DefaultWeeklyFrequency is assumed when neither plan nor program says how often the user trains
	DefaultWeeklyFrequency = 3
)

// ProfileSex returns "m" or "f", defaulting to male
func ProfileSex(p *Profile) string {
	if p == nil {
		return DefaultSex
	}
	switch strings.ToLower(strings.TrimSpace(p.Sex)) {
	case "f", "female", "woman":
		return "f"
	case "m", "male", "man":
		return "m"
	default:
		return DefaultSex
	}
}

// ProfileAge returns the age in years, defaulting when missing or implausible
func ProfileAge(p *Profile) float64 {
	if p == nil || p.Age == nil || *p.Age <= 0 || *p.Age > 130 {
		return DefaultAge
	}
	return float64(*p.Age)
}

// ProfileHeightCm returns height in cm, defaulting when missing
func ProfileHeightCm(p *Profile) float64 {
	if p == nil || p.HeightCm == nil || *p.HeightCm <= 0 {
		return DefaultHeightCm
	}
	return *p.HeightCm
}

// ProfileWeightKg returns weight in kg, defaulting when missing
func ProfileWeightKg(p *Profile) float64 {
	if p == nil || p.WeightKg == nil || *p.WeightKg <= 0 {
		return DefaultWeightKg
	}
	return *p.WeightKg
}

// ProfileActivityLevel returns a known activity level, defaulting to moderate
func ProfileActivityLevel(p *Profile) string {
	if p == nil {
		return DefaultActivityLevel
	}
	level := strings.ToLower(strings.TrimSpace(p.ActivityLevel))
	if _, ok := activityMultipliers[level]; ok {
		return level
	}
	return DefaultActivityLevel
}

// ProfileGoal classifies the free-text goal
func ProfileGoal(p *Profile) GoalType {
	if p == nil {
		return GoalWellness
	}
	return ClassifyGoal(p.Goal)
}

// ProfilePhase parses the training phase, defaulting to base
func ProfilePhase(p *Profile) Phase {
	if p == nil {
		return DefaultPhase
	}
	return ParsePhase(p.Phase)
}

// massForProtein prefers lean body mass over total weight
func massForProtein(p *Profile) float64 {
	if p != nil && p.Program.LeanBodyMassKg != nil && *p.Program.LeanBodyMassKg > 0 {
		return *p.Program.LeanBodyMassKg
	}
	return ProfileWeightKg(p)
}

// weeklyFrequency prefers the plan, then the profile program, then the default
func weeklyFrequency(p *Profile, plan *Plan) int {
	if plan != nil && plan.WeeklyFrequency > 0 {
		return plan.WeeklyFrequency
	}
	if p != nil && p.Program.WeeklyFrequency > 0 {
		return p.Program.WeeklyFrequency
	}
	return DefaultWeeklyFrequency
}

// isRestDay checks the plan's rest days, falling back to the profile program
func isRestDay(p *Profile, plan *Plan, date time.Time) bool {
	if date.IsZero() {
		return false
	}
	day := date.Weekday()
	if plan != nil && len(plan.RestDays) > 0 {
		return slices.Contains(plan.RestDays, day)
	}
	if p != nil {
		return slices.Contains(p.Program.RestDays, day)
	}
	return false
}
