package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestNewOAuthConfig(t *testing.T) {
	cfg := NewOAuthConfig(Config{ClientID: "id", ClientSecret: "secret"})
	assert.Equal(t, "http://localhost:8089/callback", cfg.RedirectURL)
	assert.Equal(t, TokenURL, cfg.Endpoint.TokenURL)

	cfg = NewOAuthConfig(Config{ClientID: "id", CallbackPort: 9000})
	assert.Equal(t, "http://localhost:9000/callback", cfg.RedirectURL)
}

func TestExtractAthleteID(t *testing.T) {
	token := (&oauth2.Token{AccessToken: "a"}).WithExtra(map[string]any{
		"athlete": map[string]any{"id": float64(12345)},
	})
	assert.Equal(t, int64(12345), ExtractAthleteID(token))
	assert.Equal(t, int64(0), ExtractAthleteID(&oauth2.Token{}))
}

func TestCallbackHandler(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantCode   string
		wantErr    bool
	}{
		{"success", "?state=abc&code=xyz", http.StatusOK, "xyz", false},
		{"state mismatch", "?state=nope&code=xyz", http.StatusBadRequest, "", true},
		{"denied", "?state=abc&error=access_denied", http.StatusBadRequest, "", true},
		{"missing code", "?state=abc", http.StatusBadRequest, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codeCh := make(chan string, 1)
			errCh := make(chan error, 1)

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/callback"+tt.query, nil)
			callbackHandler("abc", codeCh, errCh).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantErr {
				require.Len(t, errCh, 1)
				assert.Empty(t, codeCh)
				return
			}
			require.Len(t, codeCh, 1)
			assert.Equal(t, tt.wantCode, <-codeCh)
		})
	}
}

func newTokenServer(t *testing.T, calls *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
		assert.Equal(t, "old-refresh", r.PostForm.Get("refresh_token"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"new-access","refresh_token":"new-refresh","token_type":"Bearer","expires_in":21600}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestTokenSourceRefreshes(t *testing.T) {
	var calls int32
	srv := newTokenServer(t, &calls)

	cfg := NewOAuthConfig(Config{
		ClientID:     "id",
		ClientSecret: "secret",
		Endpoint:     &oauth2.Endpoint{TokenURL: srv.URL, AuthStyle: oauth2.AuthStyleInParams},
	})

	var persisted *oauth2.Token
	expired := NewToken("old-access", "old-refresh", time.Now().Add(30*time.Second))
	ts := NewTokenSource(context.Background(), cfg, expired, func(_ context.Context, tok *oauth2.Token) error {
		persisted = tok
		return nil
	})

	tok, err := ts.Token()
	require.NoError(t, err)
	assert.Equal(t, "new-access", tok.AccessToken)
	assert.Equal(t, "new-refresh", tok.RefreshToken)
	require.NotNil(t, persisted)
	assert.Equal(t, "new-access", persisted.AccessToken)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	// The fresh token is reused until it nears expiry
	tok, err = ts.Token()
	require.NoError(t, err)
	assert.Equal(t, "new-access", tok.AccessToken)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, "new-access", ts.CurrentToken().AccessToken)
}

func TestTokenSourceValidToken(t *testing.T) {
	var calls int32
	srv := newTokenServer(t, &calls)
	cfg := NewOAuthConfig(Config{Endpoint: &oauth2.Endpoint{TokenURL: srv.URL}})

	valid := NewToken("access", "old-refresh", time.Now().Add(time.Hour))
	ts := NewTokenSource(context.Background(), cfg, valid, nil)

	tok, err := ts.Token()
	require.NoError(t, err)
	assert.Equal(t, "access", tok.AccessToken)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestTokenSourceWithoutToken(t *testing.T) {
	ts := NewTokenSource(context.Background(), NewOAuthConfig(Config{}), nil, nil)
	_, err := ts.Token()
	assert.ErrorContains(t, err, "login")
}
