package strava

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Strava's default read limits: 100 requests per 15 minutes and 1000 per day.
// The limits actually granted come back in response headers.
const (
	defaultShortLimit = 100
	defaultDailyLimit = 1000
	shortWindow       = 15 * time.Minute
	minInterval       = 150 * time.Millisecond
)

// RateLimiter manages Strava API rate limits
type RateLimiter struct {
	mu  sync.Mutex
	now func() time.Time

	shortLimit, shortUsage int
	shortResetsAt          time.Time

	dailyLimit, dailyUsage int
	dailyResetsAt          time.Time

	lastRequest time.Time
}

// NewRateLimiter creates a new rate limiter with Strava's default limits
func NewRateLimiter() *RateLimiter {
	return newRateLimiter(time.Now)
}

func newRateLimiter(now func() time.Time) *RateLimiter {
	t := now()
	return &RateLimiter{
		now:           now,
		shortLimit:    defaultShortLimit,
		shortResetsAt: t.Add(shortWindow),
		dailyLimit:    defaultDailyLimit,
		dailyResetsAt: nextUTCMidnight(t),
	}
}

// Wait blocks until a request can be made without exceeding rate limits
func (r *RateLimiter) Wait(ctx context.Context) error {
	for {
		delay := r.reserve()
		if delay <= 0 {
			return nil
		}

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
}

// reserve claims a request slot and returns zero, or returns how long to wait first
func (r *RateLimiter) reserve() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if !now.Before(r.shortResetsAt) {
		r.shortUsage = 0
		r.shortResetsAt = now.Add(shortWindow)
	}
	if !now.Before(r.dailyResetsAt) {
		r.dailyUsage = 0
		r.dailyResetsAt = nextUTCMidnight(now)
	}

	switch {
	case r.dailyUsage >= r.dailyLimit:
		return r.dailyResetsAt.Sub(now)
	case r.shortUsage >= r.shortLimit:
		return r.shortResetsAt.Sub(now)
	}
	if since := now.Sub(r.lastRequest); since < minInterval {
		return minInterval - since
	}

	r.shortUsage++
	r.dailyUsage++
	r.lastRequest = now
	return 0
}

// UpdateFromHeaders syncs usage and limits with Strava's view.
// Strava returns X-RateLimit-Limit: "100,1000" and X-RateLimit-Usage: "34,512".
func (r *RateLimiter) UpdateFromHeaders(h http.Header) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if short, daily, ok := parsePair(h.Get("X-RateLimit-Usage")); ok {
		r.shortUsage, r.dailyUsage = short, daily
	}
	if short, daily, ok := parsePair(h.Get("X-RateLimit-Limit")); ok {
		r.shortLimit, r.dailyLimit = short, daily
	}
}

// Status returns the requests remaining in each window
func (r *RateLimiter) Status() (shortRemaining, dailyRemaining int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.shortLimit - r.shortUsage, r.dailyLimit - r.dailyUsage
}

func parsePair(v string) (int, int, bool) {
	parts := strings.Split(v, ",")
	if len(parts) < 2 {
		return 0, 0, false
	}
	a, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, false
	}
	b, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, false
	}
	return a, b, true
}

// nextUTCMidnight is when Strava resets the daily window
func nextUTCMidnight(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour).Add(24 * time.Hour)
}
