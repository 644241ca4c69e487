package scoring

import (
	"fmt"
	"strings"
)

// MaxConsistencyBonus bounds every consistency policy
const MaxConsistencyBonus = 5.0

// ConsistencyPolicy turns the trailing composite scores into a bonus in [0,5]
type ConsistencyPolicy interface {
	Bonus(recent []float64) float64
	Name() string
}

// FixedBonus awards the same bonus every day regardless of history.
// This is the behaviour currently shipped.
type FixedBonus struct {
	Points float64
}

// DefaultFixedBonus is the points FixedBonus awards when none are configured
const DefaultFixedBonus = 2.0

// Bonus returns the configured points, clamped to [0,5]
func (f FixedBonus) Bonus([]float64) float64 {
	return clamp(f.Points, 0, MaxConsistencyBonus)
}

// Name identifies the policy in config and output
func (FixedBonus) Name() string { return "fixed" }

// StreakBonus rewards a run of good days: 5 points for at least 6 of the last 7 scores
// above 70, 2 points for at least 4, otherwise nothing.
type StreakBonus struct{}

const (
	streakWindow    = 7
	streakThreshold = 70.0
)

// Bonus counts qualifying days in the last 7 scores
func (StreakBonus) Bonus(recent []float64) float64 {
	if len(recent) > streakWindow {
		recent = recent[len(recent)-streakWindow:]
	}
	good := 0
	for _, s := range recent {
		if s > streakThreshold {
			good++
		}
	}
	switch {
	case good >= 6:
		return 5
	case good >= 4:
		return 2
	default:
		return 0
	}
}

// Name identifies the policy in config and output
func (StreakBonus) Name() string { return "streak" }

// ParseConsistencyPolicy builds a policy from its config name
func ParseConsistencyPolicy(name string, fixedPoints float64) (ConsistencyPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "fixed":
		return FixedBonus{Points: fixedPoints}, nil
	case "streak":
		return StreakBonus{}, nil
	default:
		return nil, fmt.Errorf("unknown consistency policy %q: must be fixed or streak", name)
	}
}
