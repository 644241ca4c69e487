package scoring

import "math"

const (
	completionPoints  = 40.0
	progressionPoints = 40.0
	warmupPoints      = 10.0
	intensityPoints   = 10.0

	// Outside the band but within the soft margin earns up to 70% of the proximity bonus
	softMarginCredit = 0.70
	farOutsideCredit = 0.20

	// An unfinished session scales the intensity bonus between 30% and 100%
	minCompletionFactor = 0.30

	baseConfidence    = 0.70
	loggedLeverWeight = 0.30
	trainingLevers    = 4
)

// TrainingScorer computes the Climb score
type TrainingScorer struct{}

// Score rates today's session against the targets, comparing progression with the
// session from exactly one week earlier.
func (TrainingScorer) Score(today, prior *TrainingSession, t TrainingTargets) ComponentScore {
	if t.RestDay && !hasActivity(today) {
		return ComponentScore{
			Value:      100,
			Breakdown:  map[string]float64{"rest_day": 1},
			Confidence: 1,
		}
	}

	done, doneLogged := sessionDone(today, t.Modality)
	ratio := clamp01(safeDiv(done, t.Completion.Planned))
	completion := completionPoints * ratio

	progression, progressionLogged := ProgressionPoints(today, prior, t.Progression)

	warmup := 0.0
	warmupLogged := today != nil && today.WarmupDone != nil
	if warmupLogged && *today.WarmupDone {
		warmup = warmupPoints
	}

	value, intensityLogged := sessionIntensity(today, t.Intensity.Type)
	intensity := IntensityBonus(value, intensityLogged, t.Intensity, IntensitySoftMargin(t.Modality), ratio)

	logged := 0
	for _, ok := range []bool{doneLogged, progressionLogged, warmupLogged, intensityLogged} {
		if ok {
			logged++
		}
	}
	confidence := baseConfidence + loggedLeverWeight*float64(logged)/trainingLevers

	return ComponentScore{
		Value: clamp((completion+progression+warmup+intensity)*confidence, 0, 100),
		Breakdown: map[string]float64{
			"completion":  completion,
			"progression": progression,
			"warmup":      warmup,
			"intensity":   intensity,
		},
		Confidence: confidence,
	}
}

// ScoreTraining derives the training targets for the recap's day and scores the session
func ScoreTraining(p *Profile, plan *Plan, recap *DailyRecap) ComponentScore {
	if recap == nil {
		recap = &DailyRecap{}
	}
	targets := TrainingTargetsFor(p, plan, ProfileGoal(p), ProfilePhase(p), recap.Date)
	return TrainingScorer{}.Score(recap.Session, recap.PriorWeekSession, targets)
}

// ProgressionPoints awards up to 40 points for week-over-week growth, scaled so that
// growth at the ceiling earns full credit. The second return reports whether the
// comparison could be made at all.
func ProgressionPoints(today, prior *TrainingSession, t ProgressionTarget) (float64, bool) {
	current, previous, ok := progressionMetric(today, prior, t.Rule)
	if !ok {
		return 0, false
	}
	if previous <= 0 {
		return 0, true
	}
	delta := (current - previous) / previous
	if delta <= 0 {
		return 0, true
	}
	ceiling := math.Max(epsilon, t.Ceiling)
	return progressionPoints * math.Min(delta, ceiling) / ceiling, true
}

// progressionMetric picks the metric pair for the rule. Volume falls back to top-set load
// when either week lacks a volume figure.
func progressionMetric(today, prior *TrainingSession, rule string) (current, previous float64, ok bool) {
	if today == nil || prior == nil {
		return 0, 0, false
	}
	pair := func(a, b *float64) (float64, float64, bool) {
		if a == nil || b == nil {
			return 0, 0, false
		}
		return *a, *b, true
	}

	switch rule {
	case "zone_minutes":
		return pair(today.ZoneMinutes, prior.ZoneMinutes)
	case "top_set_load":
		return pair(today.TopSetLoad, prior.TopSetLoad)
	default:
		if c, p, ok := pair(today.TotalVolume, prior.TotalVolume); ok {
			return c, p, true
		}
		return pair(today.TopSetLoad, prior.TopSetLoad)
	}
}

// IntensityBonus awards up to 10 points: a base credit plus a proximity bonus for
// landing in the target band, all scaled by how much of the session was completed.
func IntensityBonus(value float64, logged bool, t IntensityTarget, margin, completionRatio float64) float64 {
	remaining := math.Max(0, intensityPoints-t.BaseCredit)

	proximity := 0.0
	if logged {
		var distance float64
		switch {
		case value < t.Low:
			distance = t.Low - value
		case value > t.High:
			distance = value - t.High
		}

		switch {
		case distance == 0:
			proximity = remaining
		case distance <= margin:
			proximity = softMarginCredit * remaining * (1 - distance/math.Max(epsilon, margin))
		default:
			proximity = farOutsideCredit * remaining
		}
	}

	factor := minCompletionFactor + (1-minCompletionFactor)*clamp01(completionRatio)
	return clamp((t.BaseCredit+proximity)*factor, 0, intensityPoints)
}

// hasActivity reports whether any sets or minutes were logged
func hasActivity(s *TrainingSession) bool {
	if s == nil {
		return false
	}
	sets, _ := deref(s.CompletedSets)
	minutes, _ := deref(s.ActiveMinutes)
	return sets > 0 || minutes > 0
}

func sessionDone(s *TrainingSession, m Modality) (float64, bool) {
	if s == nil {
		return 0, false
	}
	if m == ModalityEndurance {
		return deref(s.ActiveMinutes)
	}
	return deref(s.CompletedSets)
}

func sessionIntensity(s *TrainingSession, kind string) (float64, bool) {
	if s == nil {
		return 0, false
	}
	if kind == "hr_ratio" {
		return deref(s.AvgHRRatio)
	}
	return deref(s.AvgRPE)
}
