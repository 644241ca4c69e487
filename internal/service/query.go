package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"trailscore/internal/scoring"
	"trailscore/internal/store"
)

// QueryService provides read-only queries for the TUI
type QueryService struct {
	store  *store.DB
	scores *ScoreService
}

// NewQueryService creates a new query service
func NewQueryService(db *store.DB, scores *ScoreService) *QueryService {
	return &QueryService{store: db, scores: scores}
}

// DashboardData contains all data needed for the dashboard
type DashboardData struct {
	Date time.Time

	// Score is the stored result, or a live preview when the day was never scored
	Score *DayScore
	Live  bool

	// Missing names the sources that keep the day from being scored
	Missing []string

	Steps        *int
	SleepMinutes float64
	Sessions     []store.Session
	FoodEntries  int

	// Last week's composites, oldest first, for the sparkline
	Trend []float64

	LastSync time.Time
}

// Sufficient reports whether the day has a real score
func (d *DashboardData) Sufficient() bool {
	return d.Score != nil && d.Score.Result.Sufficient()
}

// GetDashboardData fetches everything the dashboard shows for date
func (q *QueryService) GetDashboardData(ctx context.Context, date time.Time) (*DashboardData, error) {
	date = store.StartOfDay(date)
	data := &DashboardData{Date: date}

	stored, err := q.scores.Get(ctx, date)
	switch {
	case err == nil:
		data.Score = stored
	case errors.Is(err, store.ErrScoreNotFound):
	default:
		return nil, fmt.Errorf("loading score: %w", err)
	}

	in, err := q.scores.Inputs(ctx, date)
	if err != nil {
		return nil, err
	}
	data.Missing = MissingSources(in)

	if data.Score == nil {
		result := q.scores.engine.Compute(in)
		data.Score = &DayScore{Date: date.Format(store.DateFormat), Result: result, Policy: q.scores.Policy()}
		data.Live = true
	}

	if in.Recap != nil {
		data.Steps = in.Recap.Steps.Today
		data.SleepMinutes, _ = scoring.SleepMinutes(in.Recap.Sleep.Episodes)
	}
	data.FoodEntries = in.FoodLog.EntryCount()

	if data.Sessions, err = q.store.SessionsForDate(ctx, date); err != nil {
		return nil, fmt.Errorf("loading sessions: %w", err)
	}

	prior, err := q.store.ScoresBefore(ctx, date, HistoryWindowDays)
	if err != nil {
		return nil, fmt.Errorf("loading trend: %w", err)
	}
	for _, s := range prior {
		data.Trend = append(data.Trend, s.Composite)
	}

	if data.LastSync, err = q.store.LastSync(ctx, store.KeyLastStravaSync); err != nil {
		return nil, fmt.Errorf("loading sync state: %w", err)
	}

	return data, nil
}

// HistoryData is the score history shown on the history screen
type HistoryData struct {
	Scores    []DayScore // oldest first
	Composite []float64
	Average   float64
	Best      *DayScore
	Worst     *DayScore
}

// GetHistory returns stored scores for the 'days' days ending on end
func (q *QueryService) GetHistory(ctx context.Context, end time.Time, days int) (*HistoryData, error) {
	scores, err := q.scores.History(ctx, end, days)
	if err != nil {
		return nil, err
	}

	data := &HistoryData{Scores: scores}
	if len(scores) == 0 {
		return data, nil
	}

	var sum float64
	for i := range scores {
		c := scores[i].Result.CompositeScore
		data.Composite = append(data.Composite, c)
		sum += c
		if data.Best == nil || c > data.Best.Result.CompositeScore {
			data.Best = &scores[i]
		}
		if data.Worst == nil || c < data.Worst.Result.CompositeScore {
			data.Worst = &scores[i]
		}
	}
	data.Average = sum / float64(len(scores))
	return data, nil
}

// MissingSources names the inputs the engine needs but did not get
func MissingSources(in scoring.Inputs) []string {
	var missing []string
	if in.Profile == nil {
		missing = append(missing, "profile")
	}
	if in.Recap == nil {
		missing = append(missing, "daily recap")
	}
	if in.FoodLog == nil {
		missing = append(missing, "food log")
	}
	if in.Plan == nil {
		missing = append(missing, "plan")
	}
	return missing
}
