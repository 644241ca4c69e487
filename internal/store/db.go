package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// DateFormat is how days are keyed in every table
const DateFormat = "2006-01-02"

var (
	// ErrProfileNotFound is returned when no profile has been saved
	ErrProfileNotFound = errors.New("profile not found")

	// ErrPlanNotFound is returned when no weekly plan has been saved
	ErrPlanNotFound = errors.New("plan not found")

	// ErrDayNotFound is returned when nothing was logged for a day
	ErrDayNotFound = errors.New("day not found")

	// ErrScoreNotFound is returned when a day has not been scored yet
	ErrScoreNotFound = errors.New("score not found")
)

// DB wraps the SQLite connection
type DB struct {
	*sql.DB
}

// Open opens the SQLite database inside dir, creating it if necessary
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return OpenPath(filepath.Join(dir, "data.db"))
}

// OpenPath opens the database at path. ":memory:" gives a throwaway database.
func OpenPath(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// An in-memory database lives and dies with its connection
	if path == ":memory:" {
		sqlDB.SetMaxOpenConns(1)
	}

	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	if err := migrate(sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &DB{sqlDB}, nil
}

func formatDate(t time.Time) string {
	return t.Format(DateFormat)
}

// ParseDate parses a YYYY-MM-DD day key in the local time zone
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateFormat, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return t, nil
}

// StartOfDay truncates t to midnight in its own location
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func encodeWeekdays(days []time.Weekday) string {
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(int(d))
	}
	return strings.Join(parts, ",")
}

func decodeWeekdays(s string) ([]time.Weekday, error) {
	if s == "" {
		return nil, nil
	}
	var days []time.Weekday
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 || n > 6 {
			return nil, fmt.Errorf("invalid weekday %q", part)
		}
		days = append(days, time.Weekday(n))
	}
	return days, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// nullableBool maps a nullable 0/1 column onto *bool
func nullableBool(n sql.NullInt64) *bool {
	if !n.Valid {
		return nil
	}
	b := n.Int64 == 1
	return &b
}

func boolArg(b *bool) any {
	if b == nil {
		return nil
	}
	return boolToInt(*b)
}
