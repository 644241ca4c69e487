package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// UpsertSession inserts or updates a session. Sessions are unique per date, source and
// external id, so re-importing the same Strava activity or manual log replaces it.
func (db *DB) UpsertSession(ctx context.Context, s *Session) error {
	source := s.Source
	if source == "" {
		source = SourceManual
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO sessions (
			date, source, external_id, name, completed_sets, active_minutes, total_volume,
			top_set_load, zone_minutes, avg_rpe, avg_hr_ratio, warmup_done, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(date, source, external_id) DO UPDATE SET
			name = excluded.name,
			completed_sets = excluded.completed_sets,
			active_minutes = excluded.active_minutes,
			total_volume = excluded.total_volume,
			top_set_load = excluded.top_set_load,
			zone_minutes = excluded.zone_minutes,
			avg_rpe = excluded.avg_rpe,
			avg_hr_ratio = excluded.avg_hr_ratio,
			warmup_done = excluded.warmup_done,
			updated_at = CURRENT_TIMESTAMP
	`,
		formatDate(s.Date), source, s.ExternalID, s.Name, s.CompletedSets, s.ActiveMinutes,
		s.TotalVolume, s.TopSetLoad, s.ZoneMinutes, s.AvgRPE, s.AvgHRRatio, boolArg(s.WarmupDone),
	)
	return err
}

// SessionsForDate returns every session logged on date, manual ones first
func (db *DB) SessionsForDate(ctx context.Context, date time.Time) ([]Session, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, date, source, external_id, name, completed_sets, active_minutes, total_volume,
			top_set_load, zone_minutes, avg_rpe, avg_hr_ratio, warmup_done
		FROM sessions
		WHERE date = ?
		ORDER BY source, id
	`, formatDate(date))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSessions(rows)
}

// CountSessions returns the number of sessions from source
func (db *DB) CountSessions(ctx context.Context, source string) (int, error) {
	var count int
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sessions WHERE source = ?", source).Scan(&count)
	return count, err
}

// scanSessions scans multiple sessions from rows
func scanSessions(rows *sql.Rows) ([]Session, error) {
	var sessions []Session

	for rows.Next() {
		var s Session
		var date string
		var warmup sql.NullInt64

		err := rows.Scan(
			&s.ID, &date, &s.Source, &s.ExternalID, &s.Name, &s.CompletedSets, &s.ActiveMinutes,
			&s.TotalVolume, &s.TopSetLoad, &s.ZoneMinutes, &s.AvgRPE, &s.AvgHRRatio, &warmup,
		)
		if err != nil {
			return nil, err
		}

		s.Date, err = ParseDate(date)
		if err != nil {
			return nil, fmt.Errorf("session %d: %w", s.ID, err)
		}
		s.WarmupDone = nullableBool(warmup)

		sessions = append(sessions, s)
	}

	return sessions, rows.Err()
}
