package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const scoreColumns = `date, trail_fuel, climb, base_camp, consistency_bonus, composite, goal_type,
	sleep_duration, sleep_regularity, neat, policy, detail, computed_at`

// SaveScore inserts or replaces the score for s.Date
func (db *DB) SaveScore(ctx context.Context, s *Score) error {
	computed := s.ComputedAt
	if computed.IsZero() {
		computed = time.Now()
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO scores (`+scoreColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			trail_fuel = excluded.trail_fuel,
			climb = excluded.climb,
			base_camp = excluded.base_camp,
			consistency_bonus = excluded.consistency_bonus,
			composite = excluded.composite,
			goal_type = excluded.goal_type,
			sleep_duration = excluded.sleep_duration,
			sleep_regularity = excluded.sleep_regularity,
			neat = excluded.neat,
			policy = excluded.policy,
			detail = excluded.detail,
			computed_at = excluded.computed_at
	`,
		formatDate(s.Date), s.TrailFuel, s.Climb, s.BaseCamp, s.ConsistencyBonus, s.Composite,
		s.GoalType, s.SleepDuration, s.SleepRegularity, s.Neat, s.Policy, s.Detail,
		computed.UTC().Format(time.RFC3339),
	)
	return err
}

// GetScore retrieves the score for date
func (db *DB) GetScore(ctx context.Context, date time.Time) (*Score, error) {
	row := db.QueryRowContext(ctx, `
		SELECT `+scoreColumns+`
		FROM scores
		WHERE date = ?
	`, formatDate(date))

	s, err := scanScore(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrScoreNotFound
	}
	return s, err
}

// ListScores returns scores in [from, to], oldest first
func (db *DB) ListScores(ctx context.Context, from, to time.Time) ([]Score, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+scoreColumns+`
		FROM scores
		WHERE date BETWEEN ? AND ?
		ORDER BY date
	`, formatDate(from), formatDate(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanScores(rows)
}

// ScoresBefore returns the scores from the days calendar days strictly before date,
// oldest first. Days without a score are simply absent.
func (db *DB) ScoresBefore(ctx context.Context, date time.Time, days int) ([]Score, error) {
	if days <= 0 {
		return nil, nil
	}
	from := StartOfDay(date).AddDate(0, 0, -days)
	rows, err := db.QueryContext(ctx, `
		SELECT `+scoreColumns+`
		FROM scores
		WHERE date >= ? AND date < ?
		ORDER BY date
	`, formatDate(from), formatDate(date))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanScores(rows)
}

// LatestScore returns the most recent score
func (db *DB) LatestScore(ctx context.Context) (*Score, error) {
	row := db.QueryRowContext(ctx, `
		SELECT `+scoreColumns+`
		FROM scores
		ORDER BY date DESC
		LIMIT 1
	`)

	s, err := scanScore(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrScoreNotFound
	}
	return s, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanScore(row scanner) (*Score, error) {
	var s Score
	var date, computedAt string

	err := row.Scan(
		&date, &s.TrailFuel, &s.Climb, &s.BaseCamp, &s.ConsistencyBonus, &s.Composite, &s.GoalType,
		&s.SleepDuration, &s.SleepRegularity, &s.Neat, &s.Policy, &s.Detail, &computedAt,
	)
	if err != nil {
		return nil, err
	}

	if s.Date, err = ParseDate(date); err != nil {
		return nil, err
	}
	if s.ComputedAt, err = time.Parse(time.RFC3339, computedAt); err != nil {
		return nil, fmt.Errorf("parsing computed_at %q: %w", computedAt, err)
	}
	return &s, nil
}

func scanScores(rows *sql.Rows) ([]Score, error) {
	var scores []Score
	for rows.Next() {
		s, err := scanScore(rows)
		if err != nil {
			return nil, err
		}
		scores = append(scores, *s)
	}
	return scores, rows.Err()
}
