package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trailscore/internal/store"
)

func TestImportFile(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)

	result, err := NewImportService(db).ImportFile(ctx, "testdata/week.yaml")
	require.NoError(t, err)

	assert.True(t, result.ProfileSaved)
	assert.True(t, result.PlanSaved)
	assert.Equal(t, 8, result.Days)
	assert.Equal(t, 2, result.Sessions)
	assert.Equal(t, 8, result.SleepNights)
	assert.Equal(t, 8, result.FoodEntries)
	assert.Equal(t, "2026-10-06", result.From.Format(store.DateFormat))
	assert.Equal(t, "2026-10-13", result.To.Format(store.DateFormat))

	profile, err := db.GetProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "m", profile.Sex)
	assert.Equal(t, 30, *profile.Age)

	plan, err := db.GetPlan(ctx)
	require.NoError(t, err)
	assert.Equal(t, []time.Weekday{time.Sunday}, plan.RestDays)
	assert.Equal(t, 16.0, plan.AvgSetsPerSession)

	food, err := db.FoodForDate(ctx, result.To)
	require.NoError(t, err)
	require.Len(t, food, 8)
	assert.Equal(t, "breakfast", food[0].Meal)
}

func TestImportIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := NewImportService(db)

	for i := 0; i < 2; i++ {
		_, err := svc.ImportFile(ctx, "testdata/week.yaml")
		require.NoError(t, err)
	}

	count, err := db.CountSessions(ctx, store.SourceManual)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	episodes, err := db.SleepForNight(ctx, date(t, "2026-10-13"))
	require.NoError(t, err)
	assert.Len(t, episodes, 1)

	food, err := db.FoodForDate(ctx, date(t, "2026-10-13"))
	require.NoError(t, err)
	assert.Len(t, food, 8)
}

func TestImportSeveralSessionsPerDay(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)

	_, err := NewImportService(db).Import(ctx, strings.NewReader(`
days:
  - date: "2026-10-13"
    sessions:
      - {name: am run, active_minutes: 30}
      - {name: pm lift, completed_sets: 12}
      - {id: core, name: core, completed_sets: 4}
`))
	require.NoError(t, err)

	sessions, err := db.SessionsForDate(ctx, date(t, "2026-10-13"))
	require.NoError(t, err)
	require.Len(t, sessions, 3)

	merged := mergeSessions(sessions)
	assert.InDelta(t, 16, *merged.CompletedSets, 1e-9)
	assert.InDelta(t, 30, *merged.ActiveMinutes, 1e-9)
}

func TestImportRejectsInvalidLogs(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "bad date",
			yaml:    "days: [{date: 13/10/2026}]",
			wantErr: "invalid date",
		},
		{
			name:    "duplicate day",
			yaml:    "days: [{date: \"2026-10-13\"}, {date: \"2026-10-13\"}]",
			wantErr: "more than once",
		},
		{
			name:    "unknown meal",
			yaml:    "days: [{date: \"2026-10-13\", food: {brunch: [{name: toast}]}}]",
			wantErr: "unknown meal",
		},
		{
			name:    "sleep ends before it starts",
			yaml:    "days: [{date: \"2026-10-13\", sleep: [{start: \"2026-10-13T06:00:00Z\", end: \"2026-10-12T22:00:00Z\"}]}]",
			wantErr: "before it starts",
		},
		{
			name:    "unknown sleep type",
			yaml:    "days: [{date: \"2026-10-13\", sleep: [{start: \"2026-10-12T22:00:00Z\", end: \"2026-10-13T06:00:00Z\", type: siesta}]}]",
			wantErr: "unknown sleep type",
		},
		{
			name:    "negative steps",
			yaml:    "days: [{date: \"2026-10-13\", steps: -5}]",
			wantErr: "negative",
		},
		{
			name:    "bad rest day",
			yaml:    "plan: {rest_days: [funday]}",
			wantErr: "unknown weekday",
		},
		{
			name:    "unknown field",
			yaml:    "days: [{date: \"2026-10-13\", mood: great}]",
			wantErr: "parsing day log",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			db := setupTestDB(t)

			_, err := NewImportService(db).Import(ctx, strings.NewReader(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)

			// Validation happens before any write
			_, err = db.GetDay(ctx, date(t, "2026-10-13"))
			assert.ErrorIs(t, err, store.ErrDayNotFound)
		})
	}
}

func TestImportEmptyLog(t *testing.T) {
	result, err := NewImportService(setupTestDB(t)).Import(context.Background(), strings.NewReader(""))
	require.NoError(t, err)
	assert.Zero(t, result.Days)
	assert.True(t, result.From.IsZero())
}

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		in   string
		want time.Weekday
	}{
		{"sunday", time.Sunday},
		{"Sun", time.Sunday},
		{" MONDAY ", time.Monday},
		{"sat", time.Saturday},
		{"Wednesday", time.Wednesday},
	}
	for _, tt := range tests {
		got, err := parseWeekday(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"", "su", "sundays", "7"} {
		_, err := parseWeekday(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseTimestamp(t *testing.T) {
	got, err := parseTimestamp("2026-10-12T22:45:00-04:00")
	require.NoError(t, err)
	assert.Equal(t, 22, got.Hour())

	got, err = parseTimestamp("2026-10-12T22:45")
	require.NoError(t, err)
	assert.Equal(t, time.Local, got.Location())
	assert.Equal(t, 45, got.Minute())

	got, err = parseTimestamp("2026-10-12 06:05:30")
	require.NoError(t, err)
	assert.Equal(t, 30, got.Second())

	_, err = parseTimestamp("last night")
	assert.Error(t, err)
}
