package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"trailscore/internal/scoring"
	"trailscore/internal/store"
)

// The document types below are the on-disk (YAML) and on-wire (JSON) shapes for
// day logs and snapshots. Dates are "2006-01-02"; timestamps are RFC 3339 or
// local "2006-01-02T15:04".

// ProfileDoc is the user profile as written in a day log or snapshot
type ProfileDoc struct {
	Sex             string   `yaml:"sex,omitempty" json:"sex,omitempty"`
	Age             *int     `yaml:"age,omitempty" json:"age,omitempty"`
	HeightCm        *float64 `yaml:"height_cm,omitempty" json:"height_cm,omitempty"`
	WeightKg        *float64 `yaml:"weight_kg,omitempty" json:"weight_kg,omitempty"`
	ActivityLevel   string   `yaml:"activity_level,omitempty" json:"activity_level,omitempty"`
	Goal            string   `yaml:"goal,omitempty" json:"goal,omitempty"`
	Phase           string   `yaml:"phase,omitempty" json:"phase,omitempty"`
	WeeklyFrequency int      `yaml:"weekly_frequency,omitempty" json:"weekly_frequency,omitempty"`
	RestDays        []string `yaml:"rest_days,omitempty" json:"rest_days,omitempty"`
	LeanBodyMassKg  *float64 `yaml:"lean_body_mass_kg,omitempty" json:"lean_body_mass_kg,omitempty"`
	TDEE            *float64 `yaml:"tdee,omitempty" json:"tdee,omitempty"`
}

// PlanDoc is the weekly plan
type PlanDoc struct {
	RestDays          []string `yaml:"rest_days,omitempty" json:"rest_days,omitempty"`
	WeeklyFrequency   int      `yaml:"weekly_frequency,omitempty" json:"weekly_frequency,omitempty"`
	WeeklyMinutes     float64  `yaml:"weekly_minutes,omitempty" json:"weekly_minutes,omitempty"`
	AvgSetsPerSession float64  `yaml:"avg_sets_per_session,omitempty" json:"avg_sets_per_session,omitempty"`
	AvgCardioMinutes  float64  `yaml:"avg_cardio_minutes,omitempty" json:"avg_cardio_minutes,omitempty"`
}

// NutritionDoc holds a day's nutrition totals
type NutritionDoc struct {
	Calories          *float64 `yaml:"calories,omitempty" json:"calories,omitempty"`
	ProteinG          *float64 `yaml:"protein_g,omitempty" json:"protein_g,omitempty"`
	FiberG            *float64 `yaml:"fiber_g,omitempty" json:"fiber_g,omitempty"`
	VegetableServings *float64 `yaml:"vegetable_servings,omitempty" json:"vegetable_servings,omitempty"`
	HydrationMl       *float64 `yaml:"hydration_ml,omitempty" json:"hydration_ml,omitempty"`
}

// SessionDoc is one training session
type SessionDoc struct {
	// ID distinguishes several manual sessions on the same day
	ID            string   `yaml:"id,omitempty" json:"id,omitempty"`
	Name          string   `yaml:"name,omitempty" json:"name,omitempty"`
	CompletedSets *float64 `yaml:"completed_sets,omitempty" json:"completed_sets,omitempty"`
	ActiveMinutes *float64 `yaml:"active_minutes,omitempty" json:"active_minutes,omitempty"`
	TotalVolume   *float64 `yaml:"total_volume,omitempty" json:"total_volume,omitempty"`
	TopSetLoad    *float64 `yaml:"top_set_load,omitempty" json:"top_set_load,omitempty"`
	ZoneMinutes   *float64 `yaml:"zone_minutes,omitempty" json:"zone_minutes,omitempty"`
	AvgRPE        *float64 `yaml:"avg_rpe,omitempty" json:"avg_rpe,omitempty"`
	AvgHRRatio    *float64 `yaml:"avg_hr_ratio,omitempty" json:"avg_hr_ratio,omitempty"`
	WarmupDone    *bool    `yaml:"warmup_done,omitempty" json:"warmup_done,omitempty"`
}

// SleepDoc is one sleep episode
type SleepDoc struct {
	Start string `yaml:"start" json:"start"`
	End   string `yaml:"end" json:"end"`
	Type  string `yaml:"type,omitempty" json:"type,omitempty"` // core (default) or nap
}

// FoodDoc is one food entry
type FoodDoc struct {
	Name     string  `yaml:"name" json:"name"`
	Calories float64 `yaml:"calories,omitempty" json:"calories,omitempty"`
}

// DayDoc is everything logged for one day. Sleep belongs to the night that
// ended on Date.
type DayDoc struct {
	Date      string               `yaml:"date" json:"date"`
	Nutrition *NutritionDoc        `yaml:"nutrition,omitempty" json:"nutrition,omitempty"`
	Steps     *int                 `yaml:"steps,omitempty" json:"steps,omitempty"`
	OnTime    *bool                `yaml:"on_time,omitempty" json:"on_time,omitempty"`
	Sessions  []SessionDoc         `yaml:"sessions,omitempty" json:"sessions,omitempty"`
	Sleep     []SleepDoc           `yaml:"sleep,omitempty" json:"sleep,omitempty"`
	Food      map[string][]FoodDoc `yaml:"food,omitempty" json:"food,omitempty"`
}

// HistoryDoc is the trailing window of earlier results
type HistoryDoc struct {
	RecentComposite     []float64 `yaml:"recent_composite,omitempty" json:"recent_composite,omitempty"`
	LastDurationScore   *float64  `yaml:"last_duration_score,omitempty" json:"last_duration_score,omitempty"`
	LastRegularityScore *float64  `yaml:"last_regularity_score,omitempty" json:"last_regularity_score,omitempty"`
	LastNeatScore       *float64  `yaml:"last_neat_score,omitempty" json:"last_neat_score,omitempty"`
}

// LogFile is a day log: an optional profile and plan plus any number of days
type LogFile struct {
	Profile *ProfileDoc `yaml:"profile,omitempty" json:"profile,omitempty"`
	Plan    *PlanDoc    `yaml:"plan,omitempty" json:"plan,omitempty"`
	Days    []DayDoc    `yaml:"days,omitempty" json:"days,omitempty"`
}

// Snapshot is a self-contained scoring request. Omitting profile, plan or day
// leaves that source missing.
type Snapshot struct {
	Profile *ProfileDoc `yaml:"profile,omitempty" json:"profile,omitempty"`
	Plan    *PlanDoc    `yaml:"plan,omitempty" json:"plan,omitempty"`
	Day     *DayDoc     `yaml:"day,omitempty" json:"day,omitempty"`

	PriorWeekSession *SessionDoc `yaml:"prior_week_session,omitempty" json:"prior_week_session,omitempty"`
	BedTimes         []string    `yaml:"bed_times,omitempty" json:"bed_times,omitempty"`
	OnTimeFlags      []bool      `yaml:"on_time_flags,omitempty" json:"on_time_flags,omitempty"`
	// StepDays is how many of the trailing 7 days had steps logged
	StepDays int        `yaml:"step_days,omitempty" json:"step_days,omitempty"`
	History  HistoryDoc `yaml:"history,omitempty" json:"history,omitempty"`
}

// Inputs converts the snapshot to engine inputs
func (s *Snapshot) Inputs() (scoring.Inputs, error) {
	var in scoring.Inputs
	if s == nil {
		return in, nil
	}

	if s.Profile != nil {
		p, err := s.Profile.toStore()
		if err != nil {
			return in, err
		}
		in.Profile = toEngineProfile(p)
	}
	if s.Plan != nil {
		p, err := s.Plan.toStore()
		if err != nil {
			return in, err
		}
		in.Plan = toEnginePlan(p)
	}

	in.History = scoring.History{
		RecentComposite:     s.History.RecentComposite,
		LastDurationScore:   s.History.LastDurationScore,
		LastRegularityScore: s.History.LastRegularityScore,
		LastNeatScore:       s.History.LastNeatScore,
	}

	if s.Day == nil {
		return in, nil
	}

	entry, err := s.Day.parse()
	if err != nil {
		return in, err
	}

	bedTimes := make([]time.Time, 0, len(s.BedTimes))
	for _, b := range s.BedTimes {
		t, err := parseTimestamp(b)
		if err != nil {
			return in, fmt.Errorf("bed_times: %w", err)
		}
		bedTimes = append(bedTimes, t)
	}

	var prior *scoring.TrainingSession
	if s.PriorWeekSession != nil {
		prior = mergeSessions([]store.Session{s.PriorWeekSession.toStore(entry.date, 0)})
	}

	stepDays := s.StepDays
	if stepDays == 0 && entry.day.Steps != nil {
		stepDays = 1
	}

	in.Recap = &scoring.DailyRecap{
		Date:             entry.date,
		Nutrition:        toEngineNutrition(entry.day),
		Session:          mergeSessions(entry.sessions),
		PriorWeekSession: prior,
		Sleep: scoring.Sleep{
			Episodes:    toEngineEpisodes(entry.sleep),
			BedTimes:    bedTimes,
			OnTimeFlags: s.OnTimeFlags,
		},
		Steps: scoring.Steps{Today: entry.day.Steps, DaysWithData: stepDays},
	}
	if s.Day.Food != nil {
		in.FoodLog = toEngineFoodLog(entry.food)
	}
	return in, nil
}

// dayEntry is a parsed DayDoc in store form
type dayEntry struct {
	date     time.Time
	day      *store.Day
	sessions []store.Session
	sleep    []store.SleepEpisode
	food     []store.FoodEntry
}

func (d *DayDoc) parse() (*dayEntry, error) {
	date, err := store.ParseDate(strings.TrimSpace(d.Date))
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", d.Date, err)
	}
	e := &dayEntry{
		date: date,
		day:  &store.Day{Date: date, Steps: d.Steps, OnTime: d.OnTime},
	}
	if d.Steps != nil && *d.Steps < 0 {
		return nil, fmt.Errorf("%s: steps cannot be negative", d.Date)
	}

	if n := d.Nutrition; n != nil {
		e.day.Calories = n.Calories
		e.day.ProteinG = n.ProteinG
		e.day.FiberG = n.FiberG
		e.day.VegetableServings = n.VegetableServings
		e.day.HydrationMl = n.HydrationMl
	}

	for i, s := range d.Sessions {
		e.sessions = append(e.sessions, s.toStore(date, i))
	}

	for _, s := range d.Sleep {
		ep, err := s.toStore(date)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", d.Date, err)
		}
		e.sleep = append(e.sleep, ep)
	}

	meals := make([]string, 0, len(d.Food))
	for meal := range d.Food {
		meals = append(meals, meal)
	}
	sort.Strings(meals)
	for _, meal := range meals {
		mt, err := parseMeal(meal)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", d.Date, err)
		}
		for _, f := range d.Food[meal] {
			e.food = append(e.food, store.FoodEntry{Date: date, Meal: string(mt), Name: f.Name, Calories: f.Calories})
		}
	}

	return e, nil
}

func (p *ProfileDoc) toStore() (*store.Profile, error) {
	restDays, err := parseWeekdays(p.RestDays)
	if err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}
	return &store.Profile{
		Sex:             strings.ToLower(strings.TrimSpace(p.Sex)),
		Age:             p.Age,
		HeightCm:        p.HeightCm,
		WeightKg:        p.WeightKg,
		ActivityLevel:   p.ActivityLevel,
		Goal:            p.Goal,
		Phase:           p.Phase,
		WeeklyFrequency: p.WeeklyFrequency,
		RestDays:        restDays,
		LeanBodyMassKg:  p.LeanBodyMassKg,
		TDEE:            p.TDEE,
	}, nil
}

func (p *PlanDoc) toStore() (*store.Plan, error) {
	restDays, err := parseWeekdays(p.RestDays)
	if err != nil {
		return nil, fmt.Errorf("plan: %w", err)
	}
	return &store.Plan{
		RestDays:          restDays,
		WeeklyFrequency:   p.WeeklyFrequency,
		WeeklyMinutes:     p.WeeklyMinutes,
		AvgSetsPerSession: p.AvgSetsPerSession,
		AvgCardioMinutes:  p.AvgCardioMinutes,
	}, nil
}

func (s SessionDoc) toStore(date time.Time, index int) store.Session {
	id := s.ID
	if id == "" && index > 0 {
		id = fmt.Sprintf("session-%d", index+1)
	}
	return store.Session{
		Date:          date,
		Source:        store.SourceManual,
		ExternalID:    id,
		Name:          s.Name,
		CompletedSets: s.CompletedSets,
		ActiveMinutes: s.ActiveMinutes,
		TotalVolume:   s.TotalVolume,
		TopSetLoad:    s.TopSetLoad,
		ZoneMinutes:   s.ZoneMinutes,
		AvgRPE:        s.AvgRPE,
		AvgHRRatio:    s.AvgHRRatio,
		WarmupDone:    s.WarmupDone,
	}
}

func (s SleepDoc) toStore(night time.Time) (store.SleepEpisode, error) {
	start, err := parseTimestamp(s.Start)
	if err != nil {
		return store.SleepEpisode{}, fmt.Errorf("sleep start: %w", err)
	}
	end, err := parseTimestamp(s.End)
	if err != nil {
		return store.SleepEpisode{}, fmt.Errorf("sleep end: %w", err)
	}
	if end.Before(start) {
		return store.SleepEpisode{}, fmt.Errorf("sleep ends at %s before it starts at %s", s.End, s.Start)
	}

	kind := scoring.SleepCore
	switch strings.ToLower(strings.TrimSpace(s.Type)) {
	case "", "core":
	case "nap":
		kind = scoring.SleepNap
	default:
		return store.SleepEpisode{}, fmt.Errorf("unknown sleep type %q: must be core or nap", s.Type)
	}

	return store.SleepEpisode{Night: night, Start: start, End: end, Type: string(kind)}, nil
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// parseTimestamp accepts RFC 3339 or a local date and time without an offset
func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range timestampLayouts[1:] {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

// parseWeekdays accepts full or three-letter weekday names in any case
func parseWeekdays(names []string) ([]time.Weekday, error) {
	if len(names) == 0 {
		return nil, nil
	}
	out := make([]time.Weekday, 0, len(names))
	for _, n := range names {
		d, err := parseWeekday(n)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func parseWeekday(name string) (time.Weekday, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := strings.ToLower(d.String())
		if n == full || (len(n) == 3 && n == full[:3]) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", name)
}

func parseMeal(name string) (scoring.MealType, error) {
	switch m := scoring.MealType(strings.ToLower(strings.TrimSpace(name))); m {
	case scoring.MealBreakfast, scoring.MealLunch, scoring.MealDinner, scoring.MealSnack:
		return m, nil
	case "snacks":
		return scoring.MealSnack, nil
	default:
		return "", fmt.Errorf("unknown meal %q: must be breakfast, lunch, dinner or snack", name)
	}
}
