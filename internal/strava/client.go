package strava

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/oauth2"
)

// BaseURL is the Strava v3 API root
const BaseURL = "https://www.strava.com/api/v3"

// perPage is the largest page Strava allows
const perPage = 100

// Client is a Strava API client
type Client struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *RateLimiter
}

// NewClient creates a client that authenticates with tokenSource
func NewClient(ctx context.Context, tokenSource oauth2.TokenSource) *Client {
	return NewClientWithHTTP(BaseURL, oauth2.NewClient(ctx, tokenSource))
}

// NewClientWithHTTP creates a client against baseURL using an already
// authenticated http.Client
func NewClientWithHTTP(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:     baseURL,
		httpClient:  httpClient,
		rateLimiter: NewRateLimiter(),
	}
}

// GetActivities fetches one page of activities started after 'after'
func (c *Client) GetActivities(ctx context.Context, after time.Time, page int) ([]Activity, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	if !after.IsZero() {
		params.Set("after", strconv.FormatInt(after.Unix(), 10))
	}
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))

	resp, err := c.get(ctx, "/athlete/activities", params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var activities []Activity
	if err := json.NewDecoder(resp.Body).Decode(&activities); err != nil {
		return nil, fmt.Errorf("decoding activities: %w", err)
	}

	return activities, nil
}

// GetAllActivities pages through every activity after 'after'. Activities fetched
// before an error are returned along with it.
func (c *Client) GetAllActivities(ctx context.Context, after time.Time, onProgress func(fetched int)) ([]Activity, error) {
	var all []Activity

	for page := 1; ; page++ {
		activities, err := c.GetActivities(ctx, after, page)
		if err != nil {
			return all, fmt.Errorf("fetching page %d: %w", page, err)
		}

		all = append(all, activities...)
		if onProgress != nil && len(activities) > 0 {
			onProgress(len(all))
		}

		if len(activities) < perPage {
			return all, nil
		}
	}
}

// RateLimitStatus returns the current rate limit status
func (c *Client) RateLimitStatus() (shortRemaining, dailyRemaining int) {
	return c.rateLimiter.Status()
}

func (c *Client) get(ctx context.Context, path string, params url.Values) (*http.Response, error) {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	c.rateLimiter.UpdateFromHeaders(resp.Header)
	slog.Debug("strava request", "path", path, "status", resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, fmt.Errorf("strava API error %d: %s", resp.StatusCode, string(body))
	}

	return resp, nil
}
