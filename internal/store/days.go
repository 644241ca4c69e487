package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// UpsertDay stores a day's totals. Fields left nil keep whatever was logged before.
func (db *DB) UpsertDay(ctx context.Context, d *Day) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO days (
			date, calories, protein_g, fiber_g, vegetable_servings, hydration_ml, steps, on_time, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(date) DO UPDATE SET
			calories = COALESCE(excluded.calories, days.calories),
			protein_g = COALESCE(excluded.protein_g, days.protein_g),
			fiber_g = COALESCE(excluded.fiber_g, days.fiber_g),
			vegetable_servings = COALESCE(excluded.vegetable_servings, days.vegetable_servings),
			hydration_ml = COALESCE(excluded.hydration_ml, days.hydration_ml),
			steps = COALESCE(excluded.steps, days.steps),
			on_time = COALESCE(excluded.on_time, days.on_time),
			updated_at = CURRENT_TIMESTAMP
	`,
		formatDate(d.Date), d.Calories, d.ProteinG, d.FiberG, d.VegetableServings,
		d.HydrationMl, d.Steps, boolArg(d.OnTime),
	)
	return err
}

// GetDay retrieves the totals logged for date
func (db *DB) GetDay(ctx context.Context, date time.Time) (*Day, error) {
	row := db.QueryRowContext(ctx, `
		SELECT date, calories, protein_g, fiber_g, vegetable_servings, hydration_ml, steps, on_time
		FROM days
		WHERE date = ?
	`, formatDate(date))

	var d Day
	var key string
	var onTime sql.NullInt64
	err := row.Scan(&key, &d.Calories, &d.ProteinG, &d.FiberG, &d.VegetableServings, &d.HydrationMl, &d.Steps, &onTime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDayNotFound
	}
	if err != nil {
		return nil, err
	}

	if d.Date, err = ParseDate(key); err != nil {
		return nil, err
	}
	d.OnTime = nullableBool(onTime)
	return &d, nil
}

// CountStepDays returns how many days in [from, to] have a step count
func (db *DB) CountStepDays(ctx context.Context, from, to time.Time) (int, error) {
	var count int
	err := db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM days
		WHERE date BETWEEN ? AND ? AND steps IS NOT NULL
	`, formatDate(from), formatDate(to)).Scan(&count)
	return count, err
}

// OnTimeFlags returns the "in bed on time" answers in [from, to], oldest first
func (db *DB) OnTimeFlags(ctx context.Context, from, to time.Time) ([]bool, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT on_time FROM days
		WHERE date BETWEEN ? AND ? AND on_time IS NOT NULL
		ORDER BY date
	`, formatDate(from), formatDate(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var flags []bool
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		flags = append(flags, v == 1)
	}
	return flags, rows.Err()
}

// ReplaceFood swaps the food entries for date with entries
func (db *DB) ReplaceFood(ctx context.Context, date time.Time, entries []FoodEntry) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	key := formatDate(date)
	if _, err := tx.ExecContext(ctx, `DELETE FROM food_entries WHERE date = ?`, key); err != nil {
		return fmt.Errorf("clearing food entries: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO food_entries (date, meal, name, calories) VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, key, e.Meal, e.Name, e.Calories); err != nil {
			return fmt.Errorf("inserting food entry %q: %w", e.Name, err)
		}
	}

	return tx.Commit()
}

// FoodForDate returns the food entries logged for date in insertion order
func (db *DB) FoodForDate(ctx context.Context, date time.Time) ([]FoodEntry, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT meal, name, calories FROM food_entries
		WHERE date = ?
		ORDER BY id
	`, formatDate(date))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	day := StartOfDay(date)
	var entries []FoodEntry
	for rows.Next() {
		e := FoodEntry{Date: day}
		if err := rows.Scan(&e.Meal, &e.Name, &e.Calories); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
