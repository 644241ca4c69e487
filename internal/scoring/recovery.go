package scoring

import "math"

const (
	durationPoints   = 35.0
	regularityPoints = 25.0
	neatPoints       = 40.0
	maxSleepPoints   = 60.0

	// Sleep duration curve, in minutes
	sleepHardFloor       = 300.0
	sleepToleranceAbove  = 60.0
	oversleepDecaySpan   = 180.0
	oversleepFloorPoints = 25.0

	napCreditCapMinutes = 90.0
	napWeight           = 0.5

	// Regularity: spread of bedtimes, in minutes
	fullRegularitySpread = 60.0
	zeroRegularitySpread = 180.0
	minBedtimes          = 3
	bedtimeWindow        = 7

	maxCountedSteps = 25000.0
	minStepDays     = 3

	// Yesterday's sub-score is carried forward at 80% when today's data is insufficient
	fallbackDecay = 0.80

	durationMidpoint   = durationPoints / 2
	regularityMidpoint = regularityPoints / 2
	neatMidpoint       = neatPoints / 2
)

// Breakdown keys of the Base Camp sub-scores that History carries forward
const (
	KeySleepDuration   = "sleep_duration"
	KeySleepRegularity = "sleep_regularity"
	KeyNeat            = "neat"
)

// RecoveryScorer computes the Base Camp score
type RecoveryScorer struct{}

// Score rates sleep duration, bedtime regularity and NEAT steps
func (RecoveryScorer) Score(sleep Sleep, steps Steps, t RecoveryTargets, h History) ComponentScore {
	minutes, hasSleep := SleepMinutes(sleep.Episodes)
	duration := fallback(h.LastDurationScore, durationMidpoint)
	durationConf := fallbackDecay
	if hasSleep {
		duration = SleepDurationPoints(minutes, t.SleepGoalMinutes)
		durationConf = 1
	}

	regularity, regularityConf, spread, ok := RegularityPoints(sleep)
	if !ok {
		regularity = fallback(h.LastRegularityScore, regularityMidpoint)
		regularityConf = fallbackDecay
	}

	neat := fallback(h.LastNeatScore, neatMidpoint)
	neatConf := fallbackDecay
	if steps.Today != nil && steps.DaysWithData >= minStepDays {
		neat = NeatPoints(float64(*steps.Today), t.NeatStepRange[0], t.NeatStepRange[1])
		neatConf = 1
	}

	sleepTotal := clamp(duration+regularity, 0, maxSleepPoints)
	breakdown := map[string]float64{
		KeySleepDuration:   duration,
		KeySleepRegularity: regularity,
		KeyNeat:            neat,
	}
	if hasSleep {
		breakdown["sleep_minutes"] = minutes
	}
	if ok {
		breakdown["bedtime_spread_minutes"] = spread
	}

	return ComponentScore{
		Value:      clamp(sleepTotal+neat, 0, 100),
		Breakdown:  breakdown,
		Confidence: (durationConf + regularityConf + neatConf) / 3,
	}
}

// SleepMinutes sums core sleep plus half of nap time, with naps capped at 90 minutes.
// The second return is false when there were no episodes at all.
func SleepMinutes(episodes []SleepEpisode) (float64, bool) {
	if len(episodes) == 0 {
		return 0, false
	}
	var core, naps float64
	for _, e := range episodes {
		if e.Type == SleepNap {
			naps += e.Minutes()
		} else {
			core += e.Minutes()
		}
	}
	return core + napWeight*math.Min(naps, napCreditCapMinutes), true
}

// SleepDurationPoints scores minutes slept against the goal (0-35)
func SleepDurationPoints(minutes, goal float64) float64 {
	switch {
	case minutes <= sleepHardFloor:
		return 0
	case minutes < goal:
		return lerp(minutes, sleepHardFloor, goal, 0, durationPoints)
	case minutes <= goal+sleepToleranceAbove:
		return durationPoints
	default:
		over := goal + sleepToleranceAbove
		return lerp(minutes, over, over+oversleepDecaySpan, durationPoints, oversleepFloorPoints)
	}
}

// RegularityPoints scores bedtime consistency over the trailing week (0-25). It returns
// the points, a completeness confidence, the spread in minutes and whether enough data
// existed to score at all.
func RegularityPoints(sleep Sleep) (points, confidence, spread float64, ok bool) {
	bedtimes := sleep.BedTimes
	if len(bedtimes) > bedtimeWindow {
		bedtimes = bedtimes[len(bedtimes)-bedtimeWindow:]
	}

	if len(bedtimes) >= minBedtimes {
		minutes := make([]float64, len(bedtimes))
		for i, t := range bedtimes {
			minutes[i] = ClockMinutes(t)
		}
		spread = CircularSpreadMinutes(minutes)
		completeness := weekCompleteness(len(bedtimes))
		points = lerp(spread, fullRegularitySpread, zeroRegularitySpread, regularityPoints, 0) * completeness
		return points, completeness, spread, true
	}

	flags := sleep.OnTimeFlags
	if len(flags) > bedtimeWindow {
		flags = flags[len(flags)-bedtimeWindow:]
	}
	if len(flags) >= minBedtimes {
		yes := 0
		for _, f := range flags {
			if f {
				yes++
			}
		}
		completeness := weekCompleteness(len(flags))
		points = regularityPoints * float64(yes) / float64(len(flags)) * completeness
		return points, completeness, 0, true
	}

	return 0, 0, 0, false
}

// weekCompleteness scales regularity between 0.85 (3 nights) and 1.0 (a full week)
func weekCompleteness(n int) float64 {
	return 0.85 + 0.15*math.Min(1, float64(n)/bedtimeWindow)
}

// NeatPoints scores today's steps against the personalised band (0-40).
// Below the band scores proportionally to the low end; inside the band scores by
// position within it; at or above the high end earns full credit.
func NeatPoints(steps, low, high float64) float64 {
	steps = clamp(steps, 0, maxCountedSteps)
	switch {
	case steps >= high:
		return neatPoints
	case steps < low:
		return neatPoints * safeDiv(steps, low)
	default:
		return neatPoints * safeDiv(steps-low, high-low)
	}
}

func fallback(last *float64, midpoint float64) float64 {
	if last == nil {
		return midpoint
	}
	return fallbackDecay * *last
}
