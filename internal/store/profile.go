package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// GetProfile retrieves the user profile
func (db *DB) GetProfile(ctx context.Context) (*Profile, error) {
	row := db.QueryRowContext(ctx, `
		SELECT sex, age, height_cm, weight_kg, activity_level, goal, phase,
			weekly_frequency, rest_days, lean_body_mass_kg, tdee, created_at
		FROM profile
		WHERE id = 1
	`)

	var p Profile
	var restDays, createdAt string
	err := row.Scan(
		&p.Sex, &p.Age, &p.HeightCm, &p.WeightKg, &p.ActivityLevel, &p.Goal, &p.Phase,
		&p.WeeklyFrequency, &restDays, &p.LeanBodyMassKg, &p.TDEE, &createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}

	if p.RestDays, err = decodeWeekdays(restDays); err != nil {
		return nil, fmt.Errorf("parsing profile rest_days: %w", err)
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		p.CreatedAt = t
	}
	return &p, nil
}

// SaveProfile inserts or replaces the profile, keeping the original creation time
func (db *DB) SaveProfile(ctx context.Context, p *Profile) error {
	created := p.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO profile (
			id, sex, age, height_cm, weight_kg, activity_level, goal, phase,
			weekly_frequency, rest_days, lean_body_mass_kg, tdee, created_at, updated_at
		) VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			sex = excluded.sex,
			age = excluded.age,
			height_cm = excluded.height_cm,
			weight_kg = excluded.weight_kg,
			activity_level = excluded.activity_level,
			goal = excluded.goal,
			phase = excluded.phase,
			weekly_frequency = excluded.weekly_frequency,
			rest_days = excluded.rest_days,
			lean_body_mass_kg = excluded.lean_body_mass_kg,
			tdee = excluded.tdee,
			updated_at = CURRENT_TIMESTAMP
	`,
		p.Sex, p.Age, p.HeightCm, p.WeightKg, p.ActivityLevel, p.Goal, p.Phase,
		p.WeeklyFrequency, encodeWeekdays(p.RestDays), p.LeanBodyMassKg, p.TDEE,
		created.UTC().Format(time.RFC3339),
	)
	return err
}

// GetPlan retrieves the weekly plan
func (db *DB) GetPlan(ctx context.Context) (*Plan, error) {
	row := db.QueryRowContext(ctx, `
		SELECT rest_days, weekly_frequency, weekly_minutes, avg_sets_per_session, avg_cardio_minutes
		FROM plan
		WHERE id = 1
	`)

	var p Plan
	var restDays string
	err := row.Scan(&restDays, &p.WeeklyFrequency, &p.WeeklyMinutes, &p.AvgSetsPerSession, &p.AvgCardioMinutes)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, err
	}

	if p.RestDays, err = decodeWeekdays(restDays); err != nil {
		return nil, fmt.Errorf("parsing plan rest_days: %w", err)
	}
	return &p, nil
}

// SavePlan inserts or replaces the weekly plan
func (db *DB) SavePlan(ctx context.Context, p *Plan) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO plan (
			id, rest_days, weekly_frequency, weekly_minutes, avg_sets_per_session, avg_cardio_minutes, updated_at
		) VALUES (1, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			rest_days = excluded.rest_days,
			weekly_frequency = excluded.weekly_frequency,
			weekly_minutes = excluded.weekly_minutes,
			avg_sets_per_session = excluded.avg_sets_per_session,
			avg_cardio_minutes = excluded.avg_cardio_minutes,
			updated_at = CURRENT_TIMESTAMP
	`, encodeWeekdays(p.RestDays), p.WeeklyFrequency, p.WeeklyMinutes, p.AvgSetsPerSession, p.AvgCardioMinutes)
	return err
}
