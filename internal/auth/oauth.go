package auth

import (
	"fmt"
	"time"

	"golang.org/x/oauth2"
)

const (
	// Strava OAuth endpoints
	AuthURL  = "https://www.strava.com/oauth/authorize"
	TokenURL = "https://www.strava.com/oauth/token"
)

// Scopes needed to read activity summaries (Strava uses comma-separated scopes)
var Scopes = []string{
	"read,activity:read",
}

// Config holds the OAuth client credentials
type Config struct {
	ClientID     string
	ClientSecret string
	// CallbackPort is the local port Strava redirects to; zero means DefaultCallbackPort
	CallbackPort int
	// Endpoint overrides the Strava endpoints; used by tests
	Endpoint *oauth2.Endpoint
}

// NewOAuthConfig creates an oauth2.Config from our Config
func NewOAuthConfig(cfg Config) *oauth2.Config {
	endpoint := oauth2.Endpoint{
		AuthURL:   AuthURL,
		TokenURL:  TokenURL,
		AuthStyle: oauth2.AuthStyleInParams,
	}
	if cfg.Endpoint != nil {
		endpoint = *cfg.Endpoint
	}

	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     endpoint,
		RedirectURL:  fmt.Sprintf("http://localhost:%d/callback", cfg.port()),
		Scopes:       Scopes,
	}
}

func (c Config) port() int {
	if c.CallbackPort == 0 {
		return DefaultCallbackPort
	}
	return c.CallbackPort
}

// Result contains the token and athlete info from a successful login
type Result struct {
	Token     *oauth2.Token
	AthleteID int64
}

// ExtractAthleteID reads the athlete ID Strava embeds in the token response
func ExtractAthleteID(token *oauth2.Token) int64 {
	if athlete, ok := token.Extra("athlete").(map[string]any); ok {
		if id, ok := athlete["id"].(float64); ok {
			return int64(id)
		}
	}
	return 0
}

// NewToken builds an oauth2 token from stored values
func NewToken(accessToken, refreshToken string, expiresAt time.Time) *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		Expiry:       expiresAt,
	}
}
