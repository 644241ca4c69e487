package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

// refreshBuffer refreshes tokens this long before they actually expire
const refreshBuffer = 60 * time.Second

// PersistFunc stores a refreshed token
type PersistFunc func(ctx context.Context, token *oauth2.Token) error

// TokenSource refreshes Strava tokens on demand and persists every new token.
// It is safe for concurrent use.
type TokenSource struct {
	ctx     context.Context
	config  *oauth2.Config
	persist PersistFunc

	mu    sync.Mutex
	token *oauth2.Token
}

// NewTokenSource returns a TokenSource starting from token. ctx is used for refresh
// requests and is handed to persist.
func NewTokenSource(ctx context.Context, cfg *oauth2.Config, token *oauth2.Token, persist PersistFunc) *TokenSource {
	return &TokenSource{
		ctx:     ctx,
		config:  cfg,
		token:   token,
		persist: persist,
	}
}

// Token returns a valid token, refreshing if it expires within the buffer
func (ts *TokenSource) Token() (*oauth2.Token, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.token == nil {
		return nil, errors.New("no token: run login first")
	}
	if !needsRefresh(ts.token) {
		return ts.token, nil
	}

	slog.Debug("refreshing strava token", "expiry", ts.token.Expiry)

	// Expire the copy so the oauth2 package always hits the token endpoint
	stale := *ts.token
	stale.Expiry = time.Unix(1, 0)
	fresh, err := ts.config.TokenSource(ts.ctx, &stale).Token()
	if err != nil {
		return nil, fmt.Errorf("refreshing token: %w", err)
	}

	if ts.persist != nil {
		if err := ts.persist(ts.ctx, fresh); err != nil {
			return nil, fmt.Errorf("saving refreshed token: %w", err)
		}
	}

	ts.token = fresh
	return fresh, nil
}

// CurrentToken returns the current token without refreshing
func (ts *TokenSource) CurrentToken() *oauth2.Token {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.token
}

func needsRefresh(t *oauth2.Token) bool {
	return time.Until(t.Expiry) <= refreshBuffer
}
