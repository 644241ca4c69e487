package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"golang.org/x/oauth2"

	"trailscore/internal/auth"
	"trailscore/internal/config"
	"trailscore/internal/store"
	"trailscore/internal/strava"
)

// ActivitySource lists Strava activities. *strava.Client satisfies it.
type ActivitySource interface {
	GetAllActivities(ctx context.Context, after time.Time, onProgress func(fetched int)) ([]strava.Activity, error)
}

// SyncService orchestrates importing training from Strava
type SyncService struct {
	client ActivitySource
	store  *store.DB
	maxHR  float64
	loc    *time.Location
	now    func() time.Time
}

// NewSyncService creates a new sync service; athleteCfg supplies the max HR used
// to turn average heart rate into an intensity ratio
func NewSyncService(client ActivitySource, db *store.DB, athleteCfg config.AthleteConfig) *SyncService {
	maxHR := athleteCfg.MaxHR
	if maxHR <= 0 {
		maxHR = DefaultMaxHR
	}
	return &SyncService{
		client: client,
		store:  db,
		maxHR:  maxHR,
		loc:    time.Local,
		now:    time.Now,
	}
}

// SyncProgress reports progress during sync
type SyncProgress struct {
	Phase           string // "activities", "sessions"
	Total           int
	Completed       int
	CurrentActivity string
	Error           error
}

// SyncResult contains the results of a sync operation
type SyncResult struct {
	ActivitiesFetched int
	SessionsStored    int
	Skipped           int // non-endurance activities
	WithHR            int

	// Days that gained or changed a session, oldest first
	Days   []time.Time
	Errors []error
}

// SyncAll fetches activities since the last sync and stores the endurance ones
// as sessions. progress, when non-nil, is closed on return.
func (s *SyncService) SyncAll(ctx context.Context, progress chan<- SyncProgress) (*SyncResult, error) {
	if progress != nil {
		defer close(progress)
	}

	result := &SyncResult{}
	started := s.now()

	after, err := s.store.LastSync(ctx, store.KeyLastStravaSync)
	if err != nil {
		return result, fmt.Errorf("reading last sync: %w", err)
	}

	send(ctx, progress, SyncProgress{Phase: "activities"})
	activities, err := s.client.GetAllActivities(ctx, after, func(fetched int) {
		send(ctx, progress, SyncProgress{Phase: "activities", Total: fetched, Completed: fetched})
	})
	result.ActivitiesFetched = len(activities)
	if err != nil {
		// Keep whatever arrived before the failure
		result.Errors = append(result.Errors, err)
		if errors.Is(err, context.Canceled) || len(activities) == 0 {
			return result, fmt.Errorf("syncing activities: %w", err)
		}
	}

	days := make(map[string]time.Time)
	for i, a := range activities {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		send(ctx, progress, SyncProgress{
			Phase:           "sessions",
			Total:           len(activities),
			Completed:       i,
			CurrentActivity: a.Name,
		})

		if !a.IsEndurance() {
			result.Skipped++
			continue
		}

		session := s.convertActivity(a)
		if session.AvgHRRatio != nil {
			result.WithHR++
		}
		if err := s.store.UpsertSession(ctx, session); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("storing activity %d: %w", a.ID, err))
			continue
		}
		result.SessionsStored++
		days[session.Date.Format(store.DateFormat)] = session.Date
	}

	send(ctx, progress, SyncProgress{Phase: "sessions", Total: len(activities), Completed: len(activities)})

	for _, d := range days {
		result.Days = append(result.Days, d)
	}
	sort.Slice(result.Days, func(i, j int) bool { return result.Days[i].Before(result.Days[j]) })

	// A partial fetch leaves the watermark alone so the next run retries
	if err == nil {
		if err := s.store.SetLastSync(ctx, store.KeyLastStravaSync, started); err != nil {
			return result, fmt.Errorf("saving sync state: %w", err)
		}
	}

	slog.Info("strava sync finished", "fetched", result.ActivitiesFetched,
		"stored", result.SessionsStored, "skipped", result.Skipped, "errors", len(result.Errors))
	return result, nil
}

// convertActivity maps an endurance activity onto a session. Moving time is the
// active time; average HR over max HR is the intensity; the whole session counts
// as zone time when that ratio reaches ZoneRatioThreshold.
func (s *SyncService) convertActivity(a strava.Activity) *store.Session {
	minutes := a.MovingMinutes()
	session := &store.Session{
		Date:          a.LocalDay(s.loc),
		Source:        store.SourceStrava,
		ExternalID:    strconv.FormatInt(a.ID, 10),
		Name:          a.Name,
		ActiveMinutes: &minutes,
	}

	if a.HasHeartrate && a.AverageHeartrate >= MinValidHeartrate && a.AverageHeartrate <= MaxValidHeartrate {
		ratio := a.AverageHeartrate / s.maxHR
		zone := 0.0
		if ratio >= ZoneRatioThreshold {
			zone = minutes
		}
		session.AvgHRRatio = &ratio
		session.ZoneMinutes = &zone
	}
	return session
}

// send blocks until the update is received or ctx is done
func send(ctx context.Context, progress chan<- SyncProgress, p SyncProgress) {
	if progress == nil {
		return
	}
	select {
	case progress <- p:
	case <-ctx.Done():
	}
}

// NewStravaClient builds an authenticated Strava client from the stored tokens.
// Refreshed tokens are written back to the store.
func NewStravaClient(ctx context.Context, db *store.DB, cfg config.StravaConfig) (*strava.Client, error) {
	stored, err := db.GetAuth(ctx)
	if err != nil {
		return nil, err
	}

	oauthCfg := auth.NewOAuthConfig(auth.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
	})
	token := auth.NewToken(stored.AccessToken, stored.RefreshToken, stored.ExpiresAt)

	ts := auth.NewTokenSource(ctx, oauthCfg, token, func(ctx context.Context, t *oauth2.Token) error {
		return db.UpdateTokens(ctx, t.AccessToken, t.RefreshToken, t.Expiry)
	})
	return strava.NewClient(ctx, ts), nil
}
