package service

import (
	"encoding/json"
	"fmt"
	"time"

	"trailscore/internal/scoring"
	"trailscore/internal/store"
)

// toEngineProfile converts the stored profile, keeping nil when there is none
func toEngineProfile(p *store.Profile) *scoring.Profile {
	if p == nil {
		return nil
	}
	return &scoring.Profile{
		Sex:           p.Sex,
		Age:           p.Age,
		HeightCm:      p.HeightCm,
		WeightKg:      p.WeightKg,
		ActivityLevel: p.ActivityLevel,
		Goal:          p.Goal,
		Phase:         p.Phase,
		Program: scoring.Program{
			WeeklyFrequency: p.WeeklyFrequency,
			RestDays:        p.RestDays,
			LeanBodyMassKg:  p.LeanBodyMassKg,
			TDEE:            p.TDEE,
		},
		CreatedAt: p.CreatedAt,
	}
}

func toEnginePlan(p *store.Plan) *scoring.Plan {
	if p == nil {
		return nil
	}
	return &scoring.Plan{
		RestDays:          p.RestDays,
		WeeklyFrequency:   p.WeeklyFrequency,
		WeeklyMinutes:     p.WeeklyMinutes,
		AvgSetsPerSession: p.AvgSetsPerSession,
		AvgCardioMinutes:  p.AvgCardioMinutes,
	}
}

func toEngineNutrition(d *store.Day) scoring.Nutrition {
	if d == nil {
		return scoring.Nutrition{}
	}
	return scoring.Nutrition{
		Calories:          d.Calories,
		ProteinG:          d.ProteinG,
		FiberG:            d.FiberG,
		VegetableServings: d.VegetableServings,
		HydrationMl:       d.HydrationMl,
	}
}

// mergeSessions folds every session logged on a day into the single session the
// engine scores. Counts and minutes add up, loads take the maximum, and the
// intensity averages are weighted by active minutes when those are known.
// Returns nil when there are no sessions.
func mergeSessions(sessions []store.Session) *scoring.TrainingSession {
	if len(sessions) == 0 {
		return nil
	}

	var merged scoring.TrainingSession
	var rpe, hr weightedMean
	for _, s := range sessions {
		merged.CompletedSets = addPtr(merged.CompletedSets, s.CompletedSets)
		merged.ActiveMinutes = addPtr(merged.ActiveMinutes, s.ActiveMinutes)
		merged.TotalVolume = addPtr(merged.TotalVolume, s.TotalVolume)
		merged.ZoneMinutes = addPtr(merged.ZoneMinutes, s.ZoneMinutes)
		merged.TopSetLoad = maxPtr(merged.TopSetLoad, s.TopSetLoad)

		weight := 1.0
		if s.ActiveMinutes != nil && *s.ActiveMinutes > 0 {
			weight = *s.ActiveMinutes
		}
		rpe.add(s.AvgRPE, weight)
		hr.add(s.AvgHRRatio, weight)

		if s.WarmupDone != nil {
			done := *s.WarmupDone || (merged.WarmupDone != nil && *merged.WarmupDone)
			merged.WarmupDone = &done
		}
	}
	merged.AvgRPE = rpe.value()
	merged.AvgHRRatio = hr.value()

	return &merged
}

type weightedMean struct {
	sum, weight float64
}

func (m *weightedMean) add(v *float64, weight float64) {
	if v == nil {
		return
	}
	m.sum += *v * weight
	m.weight += weight
}

func (m weightedMean) value() *float64 {
	if m.weight == 0 {
		return nil
	}
	v := m.sum / m.weight
	return &v
}

func addPtr(acc, v *float64) *float64 {
	if v == nil {
		return acc
	}
	sum := *v
	if acc != nil {
		sum += *acc
	}
	return &sum
}

func maxPtr(acc, v *float64) *float64 {
	if v == nil {
		return acc
	}
	if acc != nil && *acc >= *v {
		return acc
	}
	m := *v
	return &m
}

func toEngineEpisodes(episodes []store.SleepEpisode) []scoring.SleepEpisode {
	if len(episodes) == 0 {
		return nil
	}
	out := make([]scoring.SleepEpisode, len(episodes))
	for i, e := range episodes {
		out[i] = scoring.SleepEpisode{Start: e.Start, End: e.End, Type: scoring.SleepType(e.Type)}
	}
	return out
}

// toEngineFoodLog groups entries by meal. An empty log is still a log: the user
// opened the diary and logged nothing.
func toEngineFoodLog(entries []store.FoodEntry) *scoring.FoodLog {
	log := &scoring.FoodLog{Meals: make(map[scoring.MealType][]scoring.FoodEntry)}
	for _, e := range entries {
		meal := scoring.MealType(e.Meal)
		log.Meals[meal] = append(log.Meals[meal], scoring.FoodEntry{Name: e.Name, Calories: e.Calories})
	}
	return log
}

// toEngineHistory builds the history from prior scores, oldest first
func toEngineHistory(prior []store.Score) scoring.History {
	var h scoring.History
	for _, s := range prior {
		h.RecentComposite = append(h.RecentComposite, s.Composite)
		if s.SleepDuration != nil {
			h.LastDurationScore = s.SleepDuration
		}
		if s.SleepRegularity != nil {
			h.LastRegularityScore = s.SleepRegularity
		}
		if s.Neat != nil {
			h.LastNeatScore = s.Neat
		}
	}
	return h
}

// toStoreScore flattens a sufficient result for persistence
func toStoreScore(date time.Time, r scoring.Result, policy string, now time.Time) (*store.Score, error) {
	if !r.Sufficient() {
		return nil, fmt.Errorf("cannot persist insufficient-data result for %s", date.Format(store.DateFormat))
	}

	detail, err := json.Marshal(r.Detail)
	if err != nil {
		return nil, fmt.Errorf("encoding score detail: %w", err)
	}

	bd := r.Detail.BaseCamp.Breakdown
	return &store.Score{
		Date:             date,
		TrailFuel:        r.TrailFuelScore,
		Climb:            r.ClimbScore,
		BaseCamp:         r.BaseCampScore,
		ConsistencyBonus: r.ConsistencyBonus,
		Composite:        r.CompositeScore,
		GoalType:         string(r.GoalType),
		SleepDuration:    breakdownValue(bd, scoring.KeySleepDuration),
		SleepRegularity:  breakdownValue(bd, scoring.KeySleepRegularity),
		Neat:             breakdownValue(bd, scoring.KeyNeat),
		Policy:           policy,
		Detail:           string(detail),
		ComputedAt:       now,
	}, nil
}

func breakdownValue(bd map[string]float64, key string) *float64 {
	v, ok := bd[key]
	if !ok {
		return nil
	}
	return &v
}

// fromStoreScore rebuilds the result a stored score was saved from
func fromStoreScore(s *store.Score) (DayScore, error) {
	out := DayScore{
		Date:       s.Date.Format(store.DateFormat),
		Policy:     s.Policy,
		ComputedAt: s.ComputedAt,
		Result: scoring.Result{
			TrailFuelScore:   s.TrailFuel,
			ClimbScore:       s.Climb,
			BaseCampScore:    s.BaseCamp,
			ConsistencyBonus: s.ConsistencyBonus,
			CompositeScore:   s.Composite,
			GoalType:         scoring.GoalType(s.GoalType),
		},
	}
	if s.Detail != "" {
		var d scoring.Detail
		if err := json.Unmarshal([]byte(s.Detail), &d); err != nil {
			return out, fmt.Errorf("decoding score detail for %s: %w", out.Date, err)
		}
		out.Result.Detail = &d
	}
	return out, nil
}
