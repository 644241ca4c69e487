package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trailscore/internal/scoring"
	"trailscore/internal/store"
)

func floatPtr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool        { return &v }

func TestMergeSessions(t *testing.T) {
	assert.Nil(t, mergeSessions(nil))

	merged := mergeSessions([]store.Session{
		{
			CompletedSets: floatPtr(10),
			TotalVolume:   floatPtr(6000),
			TopSetLoad:    floatPtr(100),
			AvgRPE:        floatPtr(7),
			ActiveMinutes: floatPtr(45),
			WarmupDone:    boolPtr(false),
		},
		{
			ActiveMinutes: floatPtr(15),
			ZoneMinutes:   floatPtr(12),
			AvgRPE:        floatPtr(9),
			AvgHRRatio:    floatPtr(0.8),
			TopSetLoad:    floatPtr(80),
			WarmupDone:    boolPtr(true),
		},
		{Name: "stretch"},
	})
	require.NotNil(t, merged)

	assert.InDelta(t, 10, *merged.CompletedSets, 1e-9)
	assert.InDelta(t, 60, *merged.ActiveMinutes, 1e-9)
	assert.InDelta(t, 6000, *merged.TotalVolume, 1e-9)
	assert.InDelta(t, 12, *merged.ZoneMinutes, 1e-9)
	assert.InDelta(t, 100, *merged.TopSetLoad, 1e-9, "heaviest set wins")
	assert.InDelta(t, 7.5, *merged.AvgRPE, 1e-9, "weighted by active minutes")
	assert.InDelta(t, 0.8, *merged.AvgHRRatio, 1e-9)
	assert.True(t, *merged.WarmupDone)
}

func TestMergeSessionsKeepsUnloggedFieldsNil(t *testing.T) {
	merged := mergeSessions([]store.Session{{Name: "rest walk"}})
	require.NotNil(t, merged)
	assert.Nil(t, merged.CompletedSets)
	assert.Nil(t, merged.AvgRPE)
	assert.Nil(t, merged.WarmupDone)
}

func TestToEngineHistory(t *testing.T) {
	h := toEngineHistory([]store.Score{
		{Composite: 70, SleepDuration: floatPtr(30), Neat: floatPtr(35)},
		{Composite: 80, SleepRegularity: floatPtr(20)},
		{Composite: 90, SleepDuration: floatPtr(25)},
	})
	assert.Equal(t, []float64{70, 80, 90}, h.RecentComposite)
	assert.Equal(t, 25.0, *h.LastDurationScore)
	assert.Equal(t, 20.0, *h.LastRegularityScore)
	assert.Equal(t, 35.0, *h.LastNeatScore)

	empty := toEngineHistory(nil)
	assert.Empty(t, empty.RecentComposite)
	assert.Nil(t, empty.LastNeatScore)
}

func TestToEngineFoodLog(t *testing.T) {
	log := toEngineFoodLog([]store.FoodEntry{
		{Meal: "breakfast", Name: "oats", Calories: 300},
		{Meal: "breakfast", Name: "coffee"},
		{Meal: "dinner", Name: "stew", Calories: 650},
	})
	assert.Equal(t, 3, log.EntryCount())
	assert.Len(t, log.Meals[scoring.MealBreakfast], 2)

	assert.Equal(t, 0, toEngineFoodLog(nil).EntryCount())
	assert.NotNil(t, toEngineFoodLog(nil))
}

func TestToStoreScore(t *testing.T) {
	day := time.Date(2026, 10, 13, 0, 0, 0, 0, time.Local)

	_, err := toStoreScore(day, scoring.InsufficientData(), "fixed", fixedNow)
	assert.ErrorContains(t, err, "insufficient")

	result := scoring.Result{
		CompositeScore: 84,
		GoalType:       scoring.GoalRecomp,
		Detail: &scoring.Detail{
			BaseCamp: scoring.ComponentScore{Breakdown: map[string]float64{
				scoring.KeySleepDuration: 30,
				scoring.KeyNeat:          28,
			}},
		},
	}
	row, err := toStoreScore(day, result, "streak", fixedNow)
	require.NoError(t, err)
	assert.Equal(t, 84.0, row.Composite)
	assert.Equal(t, "recomp", row.GoalType)
	assert.Equal(t, 30.0, *row.SleepDuration)
	assert.Nil(t, row.SleepRegularity)
	assert.Equal(t, 28.0, *row.Neat)
	assert.Equal(t, "streak", row.Policy)
	assert.Contains(t, row.Detail, `"base_camp"`)

	back, err := fromStoreScore(row)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-13", back.Date)
	assert.Equal(t, result.Detail.BaseCamp.Breakdown, back.Result.Detail.BaseCamp.Breakdown)
}
