package scoring

import "strings"

// ClassifyGoal maps onboarding goal text to a GoalType.
// Exact goal names win; otherwise keywords decide, and anything unrecognised is wellness.
func ClassifyGoal(text string) GoalType {
	s := strings.ToLower(strings.TrimSpace(text))

	switch GoalType(s) {
	case GoalCut, GoalLeanBulk, GoalRecomp, GoalEndurance, GoalWellness:
		return GoalType(s)
	}

	switch {
	case strings.Contains(s, "lose weight"), strings.Contains(s, "fat loss"):
		return GoalCut
	case strings.Contains(s, "build muscle") && strings.Contains(s, "minimal fat"):
		return GoalLeanBulk
	case strings.Contains(s, "body recomposition"):
		return GoalRecomp
	case strings.Contains(s, "endurance"), strings.Contains(s, "performance"):
		return GoalEndurance
	default:
		return GoalWellness
	}
}

// ParsePhase returns the named phase, defaulting to base
func ParsePhase(s string) Phase {
	switch p := Phase(strings.ToLower(strings.TrimSpace(s))); p {
	case PhaseBase, PhaseBuild, PhasePeak, PhaseDeload:
		return p
	default:
		return DefaultPhase
	}
}
