package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trailscore/internal/config"
	"trailscore/internal/service"
	"trailscore/internal/store"
	"trailscore/internal/strava"
)

func setupServices(t *testing.T) (*service.QueryService, *service.ScoreService, *store.DB) {
	t.Helper()
	db, err := store.OpenPath(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = service.NewImportService(db).ImportFile(context.Background(), "../service/testdata/week.yaml")
	require.NoError(t, err)

	scores := service.NewScoreService(db, nil)
	return service.NewQueryService(db, scores), scores, db
}

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := store.ParseDate(s)
	require.NoError(t, err)
	return d
}

func loaded(t *testing.T, m DashboardModel) DashboardModel {
	t.Helper()
	next, _ := m.Update(m.loadData())
	return next.(DashboardModel)
}

func TestDashboardShowsScores(t *testing.T) {
	qs, _, _ := setupServices(t)
	m := loaded(t, NewDashboardModel(qs, day(t, "2026-10-13"), 160, 50))

	require.NoError(t, m.err)
	require.NotNil(t, m.data)
	assert.True(t, m.data.Live)

	view := m.View()
	assert.Contains(t, view, "Trail Score")
	assert.Contains(t, view, "Trail Fuel")
	assert.Contains(t, view, "Climb")
	assert.Contains(t, view, "Base Camp")
	assert.Contains(t, view, "11,000")
}

func TestDashboardInsufficientData(t *testing.T) {
	qs, _, _ := setupServices(t)
	m := loaded(t, NewDashboardModel(qs, day(t, "2026-10-20"), 160, 50))

	view := m.View()
	assert.Contains(t, view, "Not enough data")
	assert.Contains(t, view, "daily recap")
	assert.Contains(t, view, "food log")
}

func TestDashboardStepsBetweenDays(t *testing.T) {
	qs, _, _ := setupServices(t)
	m := loaded(t, NewDashboardModel(qs, day(t, "2026-10-13"), 160, 50))

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m = next.(DashboardModel)
	require.NotNil(t, cmd)
	assert.True(t, m.loading)
	assert.Equal(t, day(t, "2026-10-12"), m.date)

	// A load for the day we left is dropped
	next, _ = m.Update(dashboardDataMsg{date: day(t, "2026-10-13")})
	m = next.(DashboardModel)
	assert.True(t, m.loading)

	next, _ = m.Update(cmd())
	m = next.(DashboardModel)
	assert.False(t, m.loading)
	assert.Equal(t, day(t, "2026-10-12"), m.data.Date)
}

func TestDashboardStopsAtToday(t *testing.T) {
	qs, _, _ := setupServices(t)
	m := NewDashboardModel(qs, time.Now(), 160, 50)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Nil(t, cmd)
	assert.Equal(t, m.today, next.(DashboardModel).date)
}

func TestHistoryScreen(t *testing.T) {
	qs, scores, _ := setupServices(t)
	_, err := scores.ScoreRange(context.Background(), day(t, "2026-10-06"), day(t, "2026-10-13"))
	require.NoError(t, err)

	m := NewHistoryModel(qs, day(t, "2026-10-13"), 120, 80)
	next, _ := m.Update(m.loadHistory())
	m = next.(HistoryModel)

	require.NoError(t, m.err)
	require.Len(t, m.data.Scores, 8)
	view := m.View()
	assert.Contains(t, view, "last 30 days")
	assert.Contains(t, view, "8 of 30")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("w")})
	m = next.(HistoryModel)
	require.NotNil(t, cmd)
	assert.Equal(t, 90, m.days())

	// The 30 day result arriving late is ignored
	next, _ = m.Update(historyLoadedMsg{days: 30})
	assert.True(t, next.(HistoryModel).loading)
}

func TestSyncScreenWithoutStrava(t *testing.T) {
	_, scores, _ := setupServices(t)
	m := NewSyncModel(nil, scores)

	assert.Contains(t, m.View(), "No Strava account linked")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	assert.Nil(t, cmd)
}

type stubActivities struct {
	activities []strava.Activity
}

func (s stubActivities) GetAllActivities(_ context.Context, _ time.Time, onProgress func(int)) ([]strava.Activity, error) {
	onProgress(len(s.activities))
	return s.activities, nil
}

func TestSyncScreenRunsSync(t *testing.T) {
	_, scores, db := setupServices(t)
	src := stubActivities{activities: []strava.Activity{
		{ID: 7, Name: "Easy run", SportType: "Run", StartDateLocal: time.Date(2026, 10, 13, 7, 0, 0, 0, time.UTC),
			MovingTime: 1800, HasHeartrate: true, AverageHeartrate: 140},
	}}
	ss := service.NewSyncService(src, db, config.AthleteConfig{MaxHR: 190})
	m := NewSyncModel(ss, scores)

	progress := make(chan service.SyncProgress, 16)
	msg := m.runSync(progress)()
	done, ok := msg.(SyncDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.Err)
	assert.Equal(t, 1, done.Result.SessionsStored)

	var phases []string
	for p := range progress {
		phases = append(phases, p.Phase)
	}
	assert.Contains(t, phases, "sessions")

	next, cmd := m.Update(done)
	require.NotNil(t, cmd)
	assert.IsType(t, SyncCompleteMsg{}, cmd())
	assert.Contains(t, next.(SyncModel).View(), "Sync complete")
}

func TestAppNavigation(t *testing.T) {
	qs, scores, _ := setupServices(t)
	app := NewApp(qs, scores, nil, day(t, "2026-10-13"))

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("2")})
	require.NotNil(t, cmd)
	assert.Equal(t, ScreenHistory, app.screen)

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	assert.Equal(t, ScreenHelp, app.screen)
	assert.Contains(t, app.View(), "Scores Explained")

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ScreenHistory, app.screen)

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	assert.Equal(t, ScreenSync, app.screen)
	assert.Contains(t, app.View(), "sync disabled")

	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestBars(t *testing.T) {
	tests := []struct {
		fraction    float64
		full, empty int
	}{
		{0.5, 5, 5},
		{0, 0, 10},
		{1.4, 10, 0},
		{-0.2, 0, 10},
	}
	for _, tt := range tests {
		got := RenderProgressBar(tt.fraction, 10)
		assert.Equal(t, tt.full, strings.Count(got, "█"), "fraction %v", tt.fraction)
		assert.Equal(t, tt.empty, strings.Count(got, "░"), "fraction %v", tt.fraction)
	}

	assert.Equal(t, 7, strings.Count(RenderScoreBar(72, 10), "█"))
	assert.Equal(t, goodColor, bandColor(80))
	assert.Equal(t, fairColor, bandColor(79.9))
	assert.Equal(t, fairColor, bandColor(60))
	assert.Equal(t, poorColor, bandColor(59))
}
