package store

import (
	"context"
	"fmt"
	"time"
)

// ReplaceSleep swaps the episodes recorded for night with episodes
func (db *DB) ReplaceSleep(ctx context.Context, night time.Time, episodes []SleepEpisode) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	key := formatDate(night)
	if _, err := tx.ExecContext(ctx, `DELETE FROM sleep_episodes WHERE night = ?`, key); err != nil {
		return fmt.Errorf("clearing sleep episodes: %w", err)
	}

	for _, e := range episodes {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO sleep_episodes (night, start_time, end_time, type) VALUES (?, ?, ?, ?)
		`, key, e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339), e.Type)
		if err != nil {
			return fmt.Errorf("inserting sleep episode: %w", err)
		}
	}

	return tx.Commit()
}

// SleepForNight returns the episodes for night ordered by start time
func (db *DB) SleepForNight(ctx context.Context, night time.Time) ([]SleepEpisode, error) {
	return db.sleepBetween(ctx, night, night)
}

// BedTimes returns, for each night in [from, to] with a core episode, the start of the
// earliest core episode. Nights are returned oldest first.
func (db *DB) BedTimes(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	episodes, err := db.sleepBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	var bedtimes []time.Time
	var lastNight time.Time
	for _, e := range episodes {
		if e.Type != "core" {
			continue
		}
		if len(bedtimes) > 0 && e.Night.Equal(lastNight) {
			continue
		}
		bedtimes = append(bedtimes, e.Start)
		lastNight = e.Night
	}
	return bedtimes, nil
}

func (db *DB) sleepBetween(ctx context.Context, from, to time.Time) ([]SleepEpisode, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT night, start_time, end_time, type
		FROM sleep_episodes
		WHERE night BETWEEN ? AND ?
		ORDER BY night, start_time
	`, formatDate(from), formatDate(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var episodes []SleepEpisode
	for rows.Next() {
		var e SleepEpisode
		var night, start, end string
		if err := rows.Scan(&night, &start, &end, &e.Type); err != nil {
			return nil, err
		}

		var parseErr error
		if e.Night, parseErr = ParseDate(night); parseErr != nil {
			return nil, parseErr
		}
		if e.Start, parseErr = time.Parse(time.RFC3339, start); parseErr != nil {
			return nil, fmt.Errorf("parsing start_time %q: %w", start, parseErr)
		}
		if e.End, parseErr = time.Parse(time.RFC3339, end); parseErr != nil {
			return nil, fmt.Errorf("parsing end_time %q: %w", end, parseErr)
		}
		episodes = append(episodes, e)
	}
	return episodes, rows.Err()
}
