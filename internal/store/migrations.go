package store

import "database/sql"

// migrate runs all database migrations
func migrate(db *sql.DB) error {
	migrations := []string{
		// Strava authentication (singleton row)
		`CREATE TABLE IF NOT EXISTS auth (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			athlete_id INTEGER NOT NULL,
			access_token TEXT NOT NULL,
			refresh_token TEXT NOT NULL,
			expires_at INTEGER NOT NULL,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		// Profile (singleton row). rest_days is a comma-separated list of weekday numbers.
		`CREATE TABLE IF NOT EXISTS profile (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			sex TEXT NOT NULL DEFAULT '',
			age INTEGER,
			height_cm REAL,
			weight_kg REAL,
			activity_level TEXT NOT NULL DEFAULT '',
			goal TEXT NOT NULL DEFAULT '',
			phase TEXT NOT NULL DEFAULT '',
			weekly_frequency INTEGER NOT NULL DEFAULT 0,
			rest_days TEXT NOT NULL DEFAULT '',
			lean_body_mass_kg REAL,
			tdee REAL,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		// Weekly plan (singleton row)
		`CREATE TABLE IF NOT EXISTS plan (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			rest_days TEXT NOT NULL DEFAULT '',
			weekly_frequency INTEGER NOT NULL DEFAULT 0,
			weekly_minutes REAL NOT NULL DEFAULT 0,
			avg_sets_per_session REAL NOT NULL DEFAULT 0,
			avg_cardio_minutes REAL NOT NULL DEFAULT 0,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		// Daily nutrition totals, steps and the "in bed on time" answer
		`CREATE TABLE IF NOT EXISTS days (
			date TEXT PRIMARY KEY,
			calories REAL,
			protein_g REAL,
			fiber_g REAL,
			vegetable_servings REAL,
			hydration_ml REAL,
			steps INTEGER,
			on_time INTEGER,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		// Training sessions. Manual sessions use an empty external_id; Strava sessions use
		// the activity id.
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY,
			date TEXT NOT NULL,
			source TEXT NOT NULL,
			external_id TEXT NOT NULL DEFAULT '',
			name TEXT NOT NULL DEFAULT '',
			completed_sets REAL,
			active_minutes REAL,
			total_volume REAL,
			top_set_load REAL,
			zone_minutes REAL,
			avg_rpe REAL,
			avg_hr_ratio REAL,
			warmup_done INTEGER,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (date, source, external_id)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_sessions_date ON sessions(date)`,

		// Sleep episodes, keyed by the night they belong to (the wake-up day)
		`CREATE TABLE IF NOT EXISTS sleep_episodes (
			id INTEGER PRIMARY KEY,
			night TEXT NOT NULL,
			start_time TEXT NOT NULL,
			end_time TEXT NOT NULL,
			type TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_sleep_night ON sleep_episodes(night)`,

		`CREATE TABLE IF NOT EXISTS food_entries (
			id INTEGER PRIMARY KEY,
			date TEXT NOT NULL,
			meal TEXT NOT NULL,
			name TEXT NOT NULL,
			calories REAL NOT NULL DEFAULT 0
		)`,

		`CREATE INDEX IF NOT EXISTS idx_food_date ON food_entries(date)`,

		// Computed scores, one row per day
		`CREATE TABLE IF NOT EXISTS scores (
			date TEXT PRIMARY KEY,
			trail_fuel REAL NOT NULL,
			climb REAL NOT NULL,
			base_camp REAL NOT NULL,
			consistency_bonus REAL NOT NULL,
			composite REAL NOT NULL,
			goal_type TEXT NOT NULL,
			sleep_duration REAL,
			sleep_regularity REAL,
			neat REAL,
			policy TEXT NOT NULL DEFAULT '',
			detail TEXT NOT NULL DEFAULT '',
			computed_at TEXT NOT NULL
		)`,

		// Sync State (key-value store for sync tracking)
		`CREATE TABLE IF NOT EXISTS sync_state (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}

	return nil
}
