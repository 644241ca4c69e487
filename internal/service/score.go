package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"trailscore/internal/scoring"
	"trailscore/internal/store"
)

// ErrInsufficientData is returned by ScoreDay when a source is missing. The
// sentinel result is returned alongside it and nothing is persisted.
var ErrInsufficientData = errors.New("insufficient data to score")

// DayScore is one day's result as shown to the user
type DayScore struct {
	Date       string         `json:"date"`
	Result     scoring.Result `json:"result"`
	Policy     string         `json:"policy,omitempty"`
	ComputedAt time.Time      `json:"computedAt,omitempty"`
}

// ScoreService assembles engine inputs from the store and persists results
type ScoreService struct {
	store  *store.DB
	engine *scoring.Engine
	now    func() time.Time
}

// NewScoreService creates a score service using the given consistency policy
func NewScoreService(db *store.DB, policy scoring.ConsistencyPolicy) *ScoreService {
	return &ScoreService{
		store:  db,
		engine: scoring.NewEngine(policy),
		now:    time.Now,
	}
}

// Policy names the consistency policy in use
func (s *ScoreService) Policy() string {
	return s.engine.Consistency.Name()
}

// Inputs gathers the engine inputs for date. Sources that were never logged
// come back nil so the engine can return its sentinel.
func (s *ScoreService) Inputs(ctx context.Context, date time.Time) (scoring.Inputs, error) {
	date = store.StartOfDay(date)
	var in scoring.Inputs

	profile, err := s.store.GetProfile(ctx)
	switch {
	case errors.Is(err, store.ErrProfileNotFound):
		slog.Debug("no profile stored")
	case err != nil:
		return in, fmt.Errorf("loading profile: %w", err)
	default:
		in.Profile = toEngineProfile(profile)
	}

	plan, err := s.store.GetPlan(ctx)
	switch {
	case errors.Is(err, store.ErrPlanNotFound):
		slog.Debug("no plan stored")
	case err != nil:
		return in, fmt.Errorf("loading plan: %w", err)
	default:
		in.Plan = toEnginePlan(plan)
	}

	day, err := s.store.GetDay(ctx, date)
	if err != nil && !errors.Is(err, store.ErrDayNotFound) {
		return in, fmt.Errorf("loading day: %w", err)
	}
	if errors.Is(err, store.ErrDayNotFound) {
		day = nil
	}

	recap, err := s.recap(ctx, date, day)
	if err != nil {
		return in, err
	}
	in.Recap = recap

	food, err := s.store.FoodForDate(ctx, date)
	if err != nil {
		return in, fmt.Errorf("loading food log: %w", err)
	}
	if day != nil || len(food) > 0 {
		in.FoodLog = toEngineFoodLog(food)
	}

	prior, err := s.store.ScoresBefore(ctx, date, HistoryWindowDays)
	if err != nil {
		return in, fmt.Errorf("loading score history: %w", err)
	}
	in.History = toEngineHistory(prior)

	return in, nil
}

// recap builds the daily recap, or nil when nothing at all was logged for date
func (s *ScoreService) recap(ctx context.Context, date time.Time, day *store.Day) (*scoring.DailyRecap, error) {
	sessions, err := s.store.SessionsForDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("loading sessions: %w", err)
	}
	episodes, err := s.store.SleepForNight(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("loading sleep: %w", err)
	}
	if day == nil && len(sessions) == 0 && len(episodes) == 0 {
		return nil, nil
	}

	prior, err := s.store.SessionsForDate(ctx, date.AddDate(0, 0, -PriorWeekOffsetDays))
	if err != nil {
		return nil, fmt.Errorf("loading prior week sessions: %w", err)
	}

	bedFrom := date.AddDate(0, 0, -(BedtimeWindowDays - 1))
	bedTimes, err := s.store.BedTimes(ctx, bedFrom, date)
	if err != nil {
		return nil, fmt.Errorf("loading bedtimes: %w", err)
	}

	flagFrom := date.AddDate(0, 0, -(OnTimeWindowDays - 1))
	flags, err := s.store.OnTimeFlags(ctx, flagFrom, date)
	if err != nil {
		return nil, fmt.Errorf("loading on-time flags: %w", err)
	}

	stepFrom := date.AddDate(0, 0, -(StepWindowDays - 1))
	stepDays, err := s.store.CountStepDays(ctx, stepFrom, date)
	if err != nil {
		return nil, fmt.Errorf("counting step days: %w", err)
	}

	recap := &scoring.DailyRecap{
		Date:             date,
		Nutrition:        toEngineNutrition(day),
		Session:          mergeSessions(sessions),
		PriorWeekSession: mergeSessions(prior),
		Sleep: scoring.Sleep{
			Episodes:    toEngineEpisodes(episodes),
			BedTimes:    bedTimes,
			OnTimeFlags: flags,
		},
		Steps: scoring.Steps{DaysWithData: stepDays},
	}
	if day != nil {
		recap.Steps.Today = day.Steps
	}
	return recap, nil
}

// ScoreDay scores date from the store and persists the result. When a source is
// missing it returns the sentinel result with ErrInsufficientData.
func (s *ScoreService) ScoreDay(ctx context.Context, date time.Time) (*DayScore, error) {
	date = store.StartOfDay(date)
	key := date.Format(store.DateFormat)

	in, err := s.Inputs(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("assembling inputs for %s: %w", key, err)
	}

	result := s.engine.Compute(in)
	out := &DayScore{Date: key, Result: result, Policy: s.Policy()}
	if !result.Sufficient() {
		slog.Debug("insufficient data", "date", key,
			"profile", in.Profile != nil, "recap", in.Recap != nil,
			"food_log", in.FoodLog != nil, "plan", in.Plan != nil)
		return out, ErrInsufficientData
	}

	now := s.now()
	row, err := toStoreScore(date, result, out.Policy, now)
	if err != nil {
		return nil, err
	}
	if err := s.store.SaveScore(ctx, row); err != nil {
		return nil, fmt.Errorf("saving score for %s: %w", key, err)
	}
	out.ComputedAt = now

	slog.Info("scored day", "date", key, "composite", round1(result.CompositeScore),
		"trail_fuel", round1(result.TrailFuelScore), "climb", round1(result.ClimbScore),
		"base_camp", round1(result.BaseCampScore), "goal", result.GoalType)
	return out, nil
}

// ScoreRange scores every day from 'from' to 'to' inclusive, oldest first, so each
// day's history includes the results just computed. Days without enough data are
// returned with the sentinel result and skipped for persistence.
func (s *ScoreService) ScoreRange(ctx context.Context, from, to time.Time) ([]DayScore, error) {
	from, to = store.StartOfDay(from), store.StartOfDay(to)
	if to.Before(from) {
		return nil, fmt.Errorf("range end %s is before start %s",
			to.Format(store.DateFormat), from.Format(store.DateFormat))
	}
	if days := daysBetween(from, to) + 1; days > MaxRescoreDays {
		return nil, fmt.Errorf("range of %d days exceeds the %d day limit", days, MaxRescoreDays)
	}

	var out []DayScore
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		select {
		case <-ctx.Done():
			return out, ctx.Err()
		default:
		}

		score, err := s.ScoreDay(ctx, d)
		if err != nil && !errors.Is(err, ErrInsufficientData) {
			return out, err
		}
		out = append(out, *score)
	}
	return out, nil
}

// Rescore refreshes scores after the given days changed. Every day from the earliest
// change through today is rescored, since a day's composite feeds the history of
// the week after it. The range is clamped to the most recent MaxRescoreDays.
func (s *ScoreService) Rescore(ctx context.Context, changed []time.Time) ([]DayScore, error) {
	if len(changed) == 0 {
		return nil, nil
	}

	from, to := store.StartOfDay(changed[0]), store.StartOfDay(changed[0])
	for _, d := range changed[1:] {
		d = store.StartOfDay(d)
		if d.Before(from) {
			from = d
		}
		if d.After(to) {
			to = d
		}
	}
	if today := store.StartOfDay(s.now()); today.After(to) {
		to = today
	}
	if earliest := to.AddDate(0, 0, -(MaxRescoreDays - 1)); from.Before(earliest) {
		slog.Warn("rescore range clamped", "from", from.Format(store.DateFormat),
			"clamped_to", earliest.Format(store.DateFormat))
		from = earliest
	}
	return s.ScoreRange(ctx, from, to)
}

// Compute scores a snapshot without touching the store
func (s *ScoreService) Compute(snap *Snapshot) (scoring.Result, error) {
	in, err := snap.Inputs()
	if err != nil {
		return scoring.InsufficientData(), err
	}
	return s.engine.Compute(in), nil
}

// Get returns the stored score for date
func (s *ScoreService) Get(ctx context.Context, date time.Time) (*DayScore, error) {
	row, err := s.store.GetScore(ctx, date)
	if err != nil {
		return nil, err
	}
	out, err := fromStoreScore(row)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// History returns the stored scores for the 'days' days ending on 'end', oldest first
func (s *ScoreService) History(ctx context.Context, end time.Time, days int) ([]DayScore, error) {
	if days <= 0 {
		days = DefaultHistoryDays
	}
	end = store.StartOfDay(end)
	from := end.AddDate(0, 0, -(days - 1))

	rows, err := s.store.ListScores(ctx, from, end)
	if err != nil {
		return nil, fmt.Errorf("listing scores: %w", err)
	}

	out := make([]DayScore, 0, len(rows))
	for i := range rows {
		ds, err := fromStoreScore(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, ds)
	}
	return out, nil
}

func daysBetween(from, to time.Time) int {
	n := 0
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		n++
	}
	return n
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
