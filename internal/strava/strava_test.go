package strava

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time           { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestRateLimiterReserve(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 10, 13, 12, 0, 0, 0, time.UTC)}
	r := newRateLimiter(clock.now)

	assert.Zero(t, r.reserve())

	// Too soon after the previous request
	clock.advance(50 * time.Millisecond)
	assert.Equal(t, 100*time.Millisecond, r.reserve())

	clock.advance(100 * time.Millisecond)
	assert.Zero(t, r.reserve())

	short, daily := r.Status()
	assert.Equal(t, 98, short)
	assert.Equal(t, 998, daily)
}

func TestRateLimiterWindows(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 10, 13, 12, 0, 0, 0, time.UTC)}
	r := newRateLimiter(clock.now)

	r.UpdateFromHeaders(http.Header{
		"X-Ratelimit-Limit": []string{"100,1000"},
		"X-Ratelimit-Usage": []string{"100,400"},
	})
	clock.advance(time.Second)
	assert.Equal(t, 15*time.Minute-time.Second, r.reserve(), "waits for the 15 minute window")

	clock.advance(15 * time.Minute)
	assert.Zero(t, r.reserve(), "window resets")

	r.UpdateFromHeaders(http.Header{"X-Ratelimit-Usage": []string{"5,1000"}})
	clock.advance(time.Second)
	wait := r.reserve()
	assert.Equal(t, nextUTCMidnight(clock.t).Sub(clock.t), wait, "daily limit waits for UTC midnight")
}

func TestUpdateFromHeadersIgnoresGarbage(t *testing.T) {
	r := NewRateLimiter()
	r.UpdateFromHeaders(http.Header{"X-Ratelimit-Usage": []string{"abc"}})
	r.UpdateFromHeaders(http.Header{"X-Ratelimit-Limit": []string{"10,x"}})

	short, daily := r.Status()
	assert.Equal(t, defaultShortLimit, short)
	assert.Equal(t, defaultDailyLimit, daily)
}

func TestWaitHonoursContext(t *testing.T) {
	r := NewRateLimiter()
	r.UpdateFromHeaders(http.Header{"X-Ratelimit-Usage": []string{"100,100"}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, r.Wait(ctx), context.Canceled)
}

func TestGetAllActivitiesPaginates(t *testing.T) {
	var pages []int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/athlete/activities", r.URL.Path)
		assert.Equal(t, "1760000000", r.URL.Query().Get("after"))
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		pages = append(pages, page)

		n := perPage
		if page == 2 {
			n = 3
		}
		activities := make([]Activity, n)
		for i := range activities {
			activities[i] = Activity{ID: int64(page*1000 + i), SportType: "Run", MovingTime: 1800}
		}

		w.Header().Set("X-RateLimit-Limit", "200,2000")
		w.Header().Set("X-RateLimit-Usage", fmt.Sprintf("%d,%d", page, page))
		json.NewEncoder(w).Encode(activities)
	}))
	defer srv.Close()

	c := NewClientWithHTTP(srv.URL, srv.Client())
	var progress []int
	got, err := c.GetAllActivities(context.Background(), time.Unix(1760000000, 0), func(n int) {
		progress = append(progress, n)
	})
	require.NoError(t, err)

	assert.Len(t, got, perPage+3)
	assert.Equal(t, []int{1, 2}, pages)
	assert.Equal(t, []int{perPage, perPage + 3}, progress)

	short, daily := c.RateLimitStatus()
	assert.Equal(t, 198, short)
	assert.Equal(t, 1998, daily)
}

func TestGetActivitiesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Authorization Error"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClientWithHTTP(srv.URL, srv.Client())
	_, err := c.GetAllActivities(context.Background(), time.Time{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "page 1")
}

func TestActivityHelpers(t *testing.T) {
	a := Activity{
		Type:           "Ride",
		StartDateLocal: time.Date(2026, 10, 13, 23, 30, 0, 0, time.UTC),
		MovingTime:     2700,
	}
	assert.True(t, a.IsEndurance())
	assert.Equal(t, 45.0, a.MovingMinutes())

	loc := time.FixedZone("east", 9*3600)
	day := a.LocalDay(loc)
	assert.Equal(t, 13, day.Day())
	assert.Equal(t, loc, day.Location())

	assert.False(t, Activity{SportType: "WeightTraining"}.IsEndurance())
	assert.True(t, Activity{SportType: "TrailRun", Type: "Run"}.IsEndurance())
}
