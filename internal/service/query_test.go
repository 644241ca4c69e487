package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDashboardDataLivePreview(t *testing.T) {
	ctx := context.Background()
	svc, db := seededService(t, nil)
	q := NewQueryService(db, svc)

	data, err := q.GetDashboardData(ctx, date(t, "2026-10-13"))
	require.NoError(t, err)

	assert.True(t, data.Live, "an unscored day is previewed")
	assert.True(t, data.Sufficient())
	assert.Empty(t, data.Missing)
	assert.Equal(t, 11000, *data.Steps)
	assert.InDelta(t, 480, data.SleepMinutes, 1e-9)
	assert.Len(t, data.Sessions, 1)
	assert.Equal(t, 8, data.FoodEntries)
	assert.Empty(t, data.Trend)
	assert.True(t, data.LastSync.IsZero())

	// Previewing does not persist
	_, err = svc.Get(ctx, date(t, "2026-10-13"))
	assert.Error(t, err)
}

func TestGetDashboardDataStored(t *testing.T) {
	ctx := context.Background()
	svc, db := seededService(t, nil)
	out, err := svc.ScoreRange(ctx, date(t, "2026-10-11"), date(t, "2026-10-13"))
	require.NoError(t, err)

	data, err := NewQueryService(db, svc).GetDashboardData(ctx, date(t, "2026-10-13"))
	require.NoError(t, err)
	assert.False(t, data.Live)
	assert.Equal(t, out[2].Result.CompositeScore, data.Score.Result.CompositeScore)
	assert.Equal(t, []float64{out[0].Result.CompositeScore, out[1].Result.CompositeScore}, data.Trend)
}

func TestGetDashboardDataMissingSources(t *testing.T) {
	svc := NewScoreService(setupTestDB(t), nil)
	data, err := NewQueryService(svc.store, svc).GetDashboardData(context.Background(), date(t, "2026-10-13"))
	require.NoError(t, err)

	assert.False(t, data.Sufficient())
	assert.Equal(t, []string{"profile", "daily recap", "food log", "plan"}, data.Missing)
	assert.Nil(t, data.Steps)
}

func TestGetHistory(t *testing.T) {
	ctx := context.Background()
	svc, db := seededService(t, nil)
	_, err := svc.ScoreRange(ctx, date(t, "2026-10-06"), date(t, "2026-10-13"))
	require.NoError(t, err)

	h, err := NewQueryService(db, svc).GetHistory(ctx, date(t, "2026-10-13"), 30)
	require.NoError(t, err)
	require.Len(t, h.Scores, 8)
	require.Len(t, h.Composite, 8)

	var sum float64
	for _, c := range h.Composite {
		sum += c
		assert.LessOrEqual(t, c, h.Best.Result.CompositeScore)
		assert.GreaterOrEqual(t, c, h.Worst.Result.CompositeScore)
	}
	assert.InDelta(t, sum/8, h.Average, 1e-9)
	assert.Equal(t, "2026-10-13", h.Best.Date, "the full day scores highest")

	empty, err := NewQueryService(db, svc).GetHistory(ctx, date(t, "2026-09-01"), 7)
	require.NoError(t, err)
	assert.Empty(t, empty.Scores)
	assert.Nil(t, empty.Best)
}
