package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func boolPtr(v bool) *bool { return &v }

// cutBuildTraining is the strength target set for a cut user in a build phase
func cutBuildTraining() TrainingTargets {
	return TrainingTargetsFor(nil, nil, GoalCut, PhaseBuild, time.Time{})
}

func fullStrengthSession() *TrainingSession {
	return &TrainingSession{
		CompletedSets: floatPtr(12),
		TotalVolume:   floatPtr(10800),
		AvgRPE:        floatPtr(7.5),
		WarmupDone:    boolPtr(true),
	}
}

func TestTrainingScorerRestDay(t *testing.T) {
	targets := cutBuildTraining()
	targets.RestDay = true

	tests := []struct {
		name    string
		session *TrainingSession
	}{
		{"nothing logged", nil},
		{"zero sets with other fields", &TrainingSession{
			CompletedSets: floatPtr(0),
			ActiveMinutes: floatPtr(0),
			AvgRPE:        floatPtr(10),
			TotalVolume:   floatPtr(500),
			WarmupDone:    boolPtr(false),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrainingScorer{}.Score(tt.session, nil, targets)
			assert.Equal(t, 100.0, got.Value)
			assert.Equal(t, 1.0, got.Confidence)
		})
	}

	t.Run("unplanned activity is scored normally", func(t *testing.T) {
		got := TrainingScorer{}.Score(&TrainingSession{CompletedSets: floatPtr(6)}, nil, targets)
		assert.Less(t, got.Value, 100.0)
	})
}

func TestTrainingScorerFullSession(t *testing.T) {
	prior := &TrainingSession{TotalVolume: floatPtr(10000)}
	got := TrainingScorer{}.Score(fullStrengthSession(), prior, cutBuildTraining())

	assert.InDelta(t, 100, got.Value, 1e-6)
	assert.Equal(t, 1.0, got.Confidence)
	assert.InDelta(t, 40, got.Breakdown["completion"], 1e-6)
	assert.InDelta(t, 40, got.Breakdown["progression"], 1e-6)
	assert.InDelta(t, 10, got.Breakdown["warmup"], 1e-6)
	assert.InDelta(t, 10, got.Breakdown["intensity"], 1e-6)
}

func TestTrainingScorerSparseSession(t *testing.T) {
	// Only sets logged: 40 completion + 3 base credit, confidence 0.7 + 0.3/4
	got := TrainingScorer{}.Score(&TrainingSession{CompletedSets: floatPtr(12)}, nil, cutBuildTraining())
	assert.InDelta(t, 0.775, got.Confidence, 1e-9)
	assert.InDelta(t, 43*0.775, got.Value, 1e-6)
}

func TestProgressionPoints(t *testing.T) {
	rule := ProgressionTarget{Rule: "total_volume", Ceiling: 0.06}

	tests := []struct {
		name     string
		today    *TrainingSession
		prior    *TrainingSession
		expected float64
		logged   bool
	}{
		{
			name:     "growth beyond ceiling is capped",
			today:    &TrainingSession{TotalVolume: floatPtr(10800)},
			prior:    &TrainingSession{TotalVolume: floatPtr(10000)},
			expected: 40,
			logged:   true,
		},
		{
			name:     "half the ceiling",
			today:    &TrainingSession{TotalVolume: floatPtr(10300)},
			prior:    &TrainingSession{TotalVolume: floatPtr(10000)},
			expected: 20,
			logged:   true,
		},
		{
			name:     "regression earns nothing",
			today:    &TrainingSession{TotalVolume: floatPtr(9000)},
			prior:    &TrainingSession{TotalVolume: floatPtr(10000)},
			expected: 0,
			logged:   true,
		},
		{
			name:     "falls back to top set load",
			today:    &TrainingSession{TopSetLoad: floatPtr(105), TotalVolume: floatPtr(9000)},
			prior:    &TrainingSession{TopSetLoad: floatPtr(100)},
			expected: 40 * 0.05 / 0.06,
			logged:   true,
		},
		{
			name:     "no prior week",
			today:    &TrainingSession{TotalVolume: floatPtr(10000)},
			prior:    nil,
			expected: 0,
			logged:   false,
		},
		{
			name:     "prior week zero",
			today:    &TrainingSession{TotalVolume: floatPtr(10000)},
			prior:    &TrainingSession{TotalVolume: floatPtr(0)},
			expected: 0,
			logged:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, logged := ProgressionPoints(tt.today, tt.prior, rule)
			assert.InDelta(t, tt.expected, got, 1e-6)
			assert.Equal(t, tt.logged, logged)
		})
	}

	t.Run("zone minutes", func(t *testing.T) {
		got, logged := ProgressionPoints(
			&TrainingSession{ZoneMinutes: floatPtr(46)},
			&TrainingSession{ZoneMinutes: floatPtr(40)},
			ProgressionTarget{Rule: "zone_minutes", Ceiling: 0.15},
		)
		assert.True(t, logged)
		assert.InDelta(t, 40, got, 1e-6)
	})
}

func TestIntensityBonus(t *testing.T) {
	band := IntensityTarget{Type: "rpe", Low: 7.0, High: 8.5, BaseCredit: 3}

	tests := []struct {
		name       string
		value      float64
		logged     bool
		completion float64
		expected   float64
	}{
		{"inside band", 8.0, true, 1, 10},
		{"on band edge", 8.5, true, 1, 10},
		{"within soft margin", 9.0, true, 1, 3 + 0.7*7*0.5},
		{"below band within margin", 6.5, true, 1, 3 + 0.7*7*0.5},
		{"far outside", 10.0, true, 1, 3 + 0.2*7},
		{"not logged keeps base credit", 0, false, 1, 3},
		{"half completed session", 8.0, true, 0.5, 10 * 0.65},
		{"nothing completed", 8.0, true, 0, 10 * 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IntensityBonus(tt.value, tt.logged, band, 1.0, tt.completion)
			assert.InDelta(t, tt.expected, got, 1e-6)
		})
	}
}

func TestScoreTrainingEndurance(t *testing.T) {
	profile := &Profile{Goal: "endurance", Phase: "base"}
	plan := &Plan{AvgCardioMinutes: 40}
	recap := &DailyRecap{
		Date: time.Date(2026, 10, 13, 0, 0, 0, 0, time.UTC),
		Session: &TrainingSession{
			ActiveMinutes: floatPtr(40),
			ZoneMinutes:   floatPtr(46),
			AvgHRRatio:    floatPtr(0.65),
			WarmupDone:    boolPtr(true),
		},
		PriorWeekSession: &TrainingSession{ZoneMinutes: floatPtr(40)},
	}

	got := ScoreTraining(profile, plan, recap)
	assert.InDelta(t, 100, got.Value, 1e-6)

	t.Run("nil recap is scored as an empty day", func(t *testing.T) {
		got := ScoreTraining(profile, plan, nil)
		assert.GreaterOrEqual(t, got.Value, 0.0)
		assert.InDelta(t, 0.7, got.Confidence, 1e-9)
	})
}
