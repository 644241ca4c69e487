package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func clock(h, m int) time.Time {
	return time.Date(2026, 10, 12, h, m, 0, 0, time.UTC)
}

func episode(start time.Time, minutes int, kind SleepType) SleepEpisode {
	return SleepEpisode{Start: start, End: start.Add(time.Duration(minutes) * time.Minute), Type: kind}
}

func TestSleepMinutes(t *testing.T) {
	t.Run("no episodes", func(t *testing.T) {
		_, ok := SleepMinutes(nil)
		assert.False(t, ok)
	})

	t.Run("naps count half up to 90 minutes", func(t *testing.T) {
		got, ok := SleepMinutes([]SleepEpisode{
			episode(clock(23, 0), 420, SleepCore),
			episode(clock(14, 0), 120, SleepNap),
		})
		assert.True(t, ok)
		assert.InDelta(t, 465, got, 1e-9)
	})

	t.Run("end before start counts as zero", func(t *testing.T) {
		got, ok := SleepMinutes([]SleepEpisode{{Start: clock(7, 0), End: clock(6, 0), Type: SleepCore}})
		assert.True(t, ok)
		assert.Equal(t, 0.0, got)
	})
}

func TestSleepDurationPoints(t *testing.T) {
	tests := []struct {
		name     string
		minutes  float64
		goal     float64
		expected float64
	}{
		{"at hard floor", 300, 450, 0},
		{"below hard floor", 120, 450, 0},
		{"halfway to goal", 375, 450, 17.5},
		{"at goal", 450, 450, 35},
		{"within an hour over", 510, 450, 35},
		{"oversleeping decays", 600, 450, 30},
		{"long oversleep floors at 25", 800, 450, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, SleepDurationPoints(tt.minutes, tt.goal), 1e-6)
		})
	}
}

func TestRegularityPoints(t *testing.T) {
	tests := []struct {
		name     string
		sleep    Sleep
		expected float64
		ok       bool
	}{
		{
			name: "identical week",
			sleep: Sleep{BedTimes: []time.Time{
				clock(22, 45), clock(22, 45), clock(22, 45), clock(22, 45),
				clock(22, 45), clock(22, 45), clock(22, 45),
			}},
			expected: 25,
			ok:       true,
		},
		{
			name: "tight cluster across midnight",
			sleep: Sleep{BedTimes: []time.Time{
				clock(23, 50), clock(0, 10), clock(23, 40), clock(0, 20),
				clock(0, 0), clock(23, 55), clock(0, 5),
			}},
			expected: 25,
			ok:       true,
		},
		{
			name: "alternating 21:00 and 01:00",
			sleep: Sleep{BedTimes: []time.Time{
				clock(21, 0), clock(1, 0), clock(21, 0),
				clock(1, 0), clock(21, 0), clock(1, 0),
			}},
			expected: 12.5 * (0.85 + 0.15*6.0/7.0),
			ok:       true,
		},
		{
			name:     "three nights only",
			sleep:    Sleep{BedTimes: []time.Time{clock(22, 0), clock(22, 0), clock(22, 0)}},
			expected: 25 * (0.85 + 0.15*3.0/7.0),
			ok:       true,
		},
		{
			name:     "on-time flags when bedtimes are missing",
			sleep:    Sleep{OnTimeFlags: []bool{true, true, false, true}},
			expected: 25 * 0.75 * (0.85 + 0.15*4.0/7.0),
			ok:       true,
		},
		{
			name:  "too little data",
			sleep: Sleep{BedTimes: []time.Time{clock(22, 0), clock(23, 0)}, OnTimeFlags: []bool{true}},
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, _, ok := RegularityPoints(tt.sleep)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.expected, got, 1e-3)
		})
	}

	t.Run("only the last seven nights count", func(t *testing.T) {
		bedtimes := []time.Time{clock(3, 0), clock(3, 0), clock(3, 0)}
		for i := 0; i < 7; i++ {
			bedtimes = append(bedtimes, clock(22, 30))
		}
		got, conf, spread, ok := RegularityPoints(Sleep{BedTimes: bedtimes})
		assert.True(t, ok)
		assert.InDelta(t, 25, got, 1e-6)
		assert.Equal(t, 1.0, conf)
		assert.InDelta(t, 0, spread, 1e-6)
	})
}

func TestNeatPoints(t *testing.T) {
	tests := []struct {
		name     string
		steps    float64
		expected float64
	}{
		{"at top of band", 12000, 40},
		{"over band", 15000, 40},
		{"far over is capped", 30000, 40},
		{"half of the low end", 4000, 20},
		{"middle of band", 10000, 20},
		{"bottom of band", 8000, 0},
		{"no steps", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, NeatPoints(tt.steps, 8000, 12000), 1e-6)
		})
	}
}

func TestRecoveryScorerFallbacks(t *testing.T) {
	targets := RecoveryTargets{SleepGoalMinutes: 450, NeatStepRange: [2]float64{8000, 12000}}

	t.Run("no data uses midpoints", func(t *testing.T) {
		got := RecoveryScorer{}.Score(Sleep{}, Steps{}, targets, History{})
		assert.InDelta(t, 17.5, got.Breakdown["sleep_duration"], 1e-9)
		assert.InDelta(t, 12.5, got.Breakdown["sleep_regularity"], 1e-9)
		assert.InDelta(t, 20, got.Breakdown["neat"], 1e-9)
		assert.InDelta(t, 50, got.Value, 1e-9)
		assert.InDelta(t, 0.8, got.Confidence, 1e-9)
	})

	t.Run("no data decays yesterday", func(t *testing.T) {
		h := History{
			LastDurationScore:   floatPtr(30),
			LastRegularityScore: floatPtr(20),
			LastNeatScore:       floatPtr(35),
		}
		got := RecoveryScorer{}.Score(Sleep{}, Steps{}, targets, h)
		assert.InDelta(t, 24, got.Breakdown["sleep_duration"], 1e-9)
		assert.InDelta(t, 16, got.Breakdown["sleep_regularity"], 1e-9)
		assert.InDelta(t, 28, got.Breakdown["neat"], 1e-9)
		assert.InDelta(t, 68, got.Value, 1e-9)
	})

	t.Run("steps need three days in the window", func(t *testing.T) {
		steps := 12000
		got := RecoveryScorer{}.Score(Sleep{}, Steps{Today: &steps, DaysWithData: 2}, targets, History{})
		assert.InDelta(t, 20, got.Breakdown["neat"], 1e-9)

		got = RecoveryScorer{}.Score(Sleep{}, Steps{Today: &steps, DaysWithData: 3}, targets, History{})
		assert.InDelta(t, 40, got.Breakdown["neat"], 1e-9)
	})
}

func TestRecoveryScorerFullWeek(t *testing.T) {
	var bedtimes []time.Time
	for i := 0; i < 7; i++ {
		bedtimes = append(bedtimes, clock(22, 45))
	}
	sleep := Sleep{
		Episodes: []SleepEpisode{episode(clock(22, 45), 480, SleepCore)},
		BedTimes: bedtimes,
	}
	steps := 12500
	targets := RecoveryTargets{SleepGoalMinutes: 465, NeatStepRange: [2]float64{8000, 12000}}

	got := RecoveryScorer{}.Score(sleep, Steps{Today: &steps, DaysWithData: 7}, targets, History{})
	assert.InDelta(t, 100, got.Value, 1e-6)
	assert.Equal(t, 1.0, got.Confidence)
	assert.InDelta(t, 480, got.Breakdown["sleep_minutes"], 1e-9)
	assert.Contains(t, got.Breakdown, "bedtime_spread_minutes")
}

func TestCircularStatistics(t *testing.T) {
	t.Run("spread wraps at midnight", func(t *testing.T) {
		assert.InDelta(t, 30, CircularSpreadMinutes([]float64{23*60 + 30, 30}), 1e-6)
	})

	t.Run("single value has no spread", func(t *testing.T) {
		assert.Equal(t, 0.0, CircularSpreadMinutes([]float64{600}))
	})

	t.Run("mean of a tight group", func(t *testing.T) {
		mean, r := CircularMeanMinutes([]float64{1380, 1420})
		assert.InDelta(t, 1400, mean, 1e-6)
		assert.Greater(t, r, 0.99)
	})

	t.Run("mean across midnight stays in range", func(t *testing.T) {
		mean, _ := CircularMeanMinutes([]float64{1400, 40})
		assert.InDelta(t, 0, wrapMinutes(mean), 1e-6)
		assert.GreaterOrEqual(t, mean, 0.0)
	})

	t.Run("wrap", func(t *testing.T) {
		assert.Equal(t, -60.0, wrapMinutes(1380))
		assert.Equal(t, 60.0, wrapMinutes(-1380))
		assert.Equal(t, 0.0, wrapMinutes(0))
	})
}
