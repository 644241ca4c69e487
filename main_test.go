package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trailscore/internal/config"
	"trailscore/internal/service"
	"trailscore/internal/store"
)

const weekLog = "internal/service/testdata/week.yaml"

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, ExitSuccess},
		{"insufficient data", service.ErrInsufficientData, ExitInsufficient},
		{"wrapped insufficient data", fmt.Errorf("scoring: %w", service.ErrInsufficientData), ExitInsufficient},
		{"other error", errors.New("disk full"), ExitError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

// runCLI executes the root command against a fresh home directory
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func withHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(config.EnvHome, dir)
	t.Setenv(config.EnvConsistency, "")
	return dir
}

type scoreJSON struct {
	Date       string `json:"date"`
	Sufficient bool   `json:"sufficient"`
	Policy     string `json:"policy"`
	Result     struct {
		CompositeScore float64 `json:"compositeScore"`
		GoalType       string  `json:"goalType"`
	} `json:"result"`
}

func TestImportThenScore(t *testing.T) {
	withHome(t)

	out, err := runCLI(t, "", "import", weekLog, "--no-score")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved profile")
	assert.Contains(t, out, "Imported 8 days (2026-10-06 to 2026-10-13)")

	out, err = runCLI(t, "", "score", "2026-10-13", "--json")
	require.NoError(t, err)

	var got scoreJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got), out)
	assert.True(t, got.Sufficient)
	assert.Equal(t, "2026-10-13", got.Date)
	assert.Equal(t, "fixed", got.Policy)
	assert.Equal(t, "cut", got.Result.GoalType)
	assert.GreaterOrEqual(t, got.Result.CompositeScore, 90.0)
	assert.LessOrEqual(t, got.Result.CompositeScore, 97.0)

	out, err = runCLI(t, "", "score", "2026-10-13")
	require.NoError(t, err)
	assert.Contains(t, out, "Trail Score")
	assert.Contains(t, out, "Base Camp")
	assert.Contains(t, out, "sleep duration")
}

func TestScoreInsufficientData(t *testing.T) {
	withHome(t)
	_, err := runCLI(t, "", "import", weekLog, "--no-score")
	require.NoError(t, err)

	out, err := runCLI(t, "", "score", "2026-10-20")
	require.ErrorIs(t, err, service.ErrInsufficientData)
	assert.Equal(t, ExitInsufficient, exitCode(err))
	assert.Contains(t, out, "Missing: daily recap, food log")
}

func TestRescore(t *testing.T) {
	dir := withHome(t)
	_, err := runCLI(t, "", "import", weekLog, "--no-score")
	require.NoError(t, err)

	out, err := runCLI(t, "", "rescore", "--from", "2026-10-06", "--to", "2026-10-13")
	require.NoError(t, err)
	assert.Contains(t, out, "Scored 8 of 8 days")

	db, err := store.Open(dir)
	require.NoError(t, err)
	defer db.Close()
	scores, err := db.ListScores(t.Context(), mustDay(t, "2026-10-06"), mustDay(t, "2026-10-13"))
	require.NoError(t, err)
	assert.Len(t, scores, 8)

	_, err = runCLI(t, "", "rescore", "--from", "2026-10-13", "--to", "2026-10-06")
	assert.ErrorContains(t, err, "before start")

	_, err = runCLI(t, "", "rescore")
	assert.Error(t, err, "--from is required")
}

const snapshotYAML = `
profile:
  sex: f
  age: 35
  height_cm: 165
  weight_kg: 62
  activity_level: active
  goal: endurance
plan:
  rest_days: [Mon]
  weekly_frequency: 5
  avg_cardio_minutes: 45
day:
  date: "2026-10-14"
  nutrition: {calories: 2300, protein_g: 90, hydration_ml: 2500}
  steps: 9000
  sessions:
    - {active_minutes: 50, zone_minutes: 40, avg_hr_ratio: 0.72}
  sleep:
    - {start: "2026-10-13T22:30:00Z", end: "2026-10-14T06:30:00Z"}
  food:
    breakfast: [{name: toast}]
    lunch: [{name: soup}]
prior_week_session: {zone_minutes: 35}
step_days: 5
`

func TestCompute(t *testing.T) {
	dir := withHome(t)
	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(snapshotYAML), 0o644))

	out, err := runCLI(t, "", "compute", path, "--json")
	require.NoError(t, err)

	var got scoreJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got), out)
	assert.True(t, got.Sufficient)
	assert.Equal(t, "2026-10-14", got.Date)
	assert.Equal(t, "endurance", got.Result.GoalType)

	// Reading stdin gives the same answer
	stdinOut, err := runCLI(t, snapshotYAML, "compute", "-", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, out, stdinOut)

	// compute never creates the database
	_, err = os.Stat(filepath.Join(dir, "data.db"))
	assert.True(t, os.IsNotExist(err))
}

func TestComputeInsufficientAndInvalid(t *testing.T) {
	withHome(t)

	out, err := runCLI(t, "profile:\n  goal: cut\n", "compute", "-")
	require.ErrorIs(t, err, service.ErrInsufficientData)
	assert.Contains(t, out, "Missing: daily recap, food log, plan")

	_, err = runCLI(t, "mood: great\n", "compute", "-")
	require.Error(t, err)
	assert.Equal(t, ExitError, exitCode(err))
}

func TestInvalidConfig(t *testing.T) {
	dir := withHome(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"),
		[]byte(`{"scoring": {"consistency_policy": "lottery"}}`), 0o600))

	_, err := runCLI(t, "", "score")
	assert.ErrorContains(t, err, "consistency_policy")
}

func TestSyncRequiresStravaCredentials(t *testing.T) {
	withHome(t)
	_, err := runCLI(t, "", "sync")
	assert.ErrorContains(t, err, "client_id")
}

func TestParseDay(t *testing.T) {
	today := store.StartOfDay(time.Now())

	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{"", today, false},
		{"today", today, false},
		{"yesterday", today.AddDate(0, 0, -1), false},
		{"2026-10-13", mustDay(t, "2026-10-13"), false},
		{"13/10/2026", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseDay(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func mustDay(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := store.ParseDate(s)
	require.NoError(t, err)
	return d
}
