package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Environment variables that override the config file
const (
	EnvHome        = "TRAILSCORE_HOME"
	EnvAddr        = "TRAILSCORE_ADDR"
	EnvConsistency = "TRAILSCORE_CONSISTENCY"
)

// Config represents the application configuration
type Config struct {
	Strava  StravaConfig  `json:"strava"`
	Athlete AthleteConfig `json:"athlete"`
	Scoring ScoringConfig `json:"scoring"`
	Server  ServerConfig  `json:"server"`
	Display DisplayConfig `json:"display"`
}

// StravaConfig holds Strava API credentials. Only sync and login need them.
type StravaConfig struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// AthleteConfig holds heart rate settings used to convert Strava activities
type AthleteConfig struct {
	RestingHR float64 `json:"resting_hr"`
	MaxHR     float64 `json:"max_hr"`
}

// ScoringConfig selects the consistency bonus policy
type ScoringConfig struct {
	ConsistencyPolicy string `json:"consistency_policy"` // "fixed" or "streak"
	// FixedBonus is the points the fixed policy awards; nil means the default
	FixedBonus *float64 `json:"fixed_bonus,omitempty"`
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Addr string `json:"addr"`
}

// DisplayConfig holds display preferences
type DisplayConfig struct {
	ChartDays int `json:"chart_days"`
}

// ErrNoConfig is returned when the config file doesn't exist
var ErrNoConfig = errors.New("config file not found")

const (
	defaultFixedBonus = 2.0
	maxFixedBonus     = 5.0
)

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	bonus := defaultFixedBonus
	return Config{
		Athlete: AthleteConfig{
			RestingHR: 50,
			MaxHR:     185,
		},
		Scoring: ScoringConfig{
			ConsistencyPolicy: "fixed",
			FixedBonus:        &bonus,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8090",
		},
		Display: DisplayConfig{
			ChartDays: 30,
		},
	}
}

// Load reads the configuration from the config directory and applies environment
// overrides. It returns ErrNoConfig when the file does not exist.
func Load() (*Config, error) {
	path, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNoConfig
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()
	cfg.ApplyEnv()
	return &cfg, nil
}

// LoadOrDefault is Load, except a missing file yields the defaults
func LoadOrDefault() (*Config, error) {
	cfg, err := Load()
	if errors.Is(err, ErrNoConfig) {
		def := DefaultConfig()
		def.ApplyEnv()
		return &def, nil
	}
	return cfg, err
}

// applyDefaults fills in missing values
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Athlete.RestingHR == 0 {
		c.Athlete.RestingHR = defaults.Athlete.RestingHR
	}
	if c.Athlete.MaxHR == 0 {
		c.Athlete.MaxHR = defaults.Athlete.MaxHR
	}
	if c.Scoring.ConsistencyPolicy == "" {
		c.Scoring.ConsistencyPolicy = defaults.Scoring.ConsistencyPolicy
	}
	if c.Scoring.FixedBonus == nil {
		c.Scoring.FixedBonus = defaults.Scoring.FixedBonus
	}
	if c.Server.Addr == "" {
		c.Server.Addr = defaults.Server.Addr
	}
	if c.Display.ChartDays == 0 {
		c.Display.ChartDays = defaults.Display.ChartDays
	}
}

// ApplyEnv overrides file settings with TRAILSCORE_ADDR and TRAILSCORE_CONSISTENCY
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvAddr)); v != "" {
		c.Server.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvConsistency)); v != "" {
		c.Scoring.ConsistencyPolicy = v
	}
}

// Bonus returns the configured fixed bonus points
func (s ScoringConfig) Bonus() float64 {
	if s.FixedBonus == nil {
		return defaultFixedBonus
	}
	return *s.FixedBonus
}

// Save writes the configuration to the config directory
func Save(cfg *Config) error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// CreateExample creates an example config file if none exists
func CreateExample() error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil {
		return nil // Config exists, don't overwrite
	}

	example := DefaultConfig()
	example.Strava = StravaConfig{
		ClientID:     "YOUR_CLIENT_ID",
		ClientSecret: "YOUR_CLIENT_SECRET",
	}

	return Save(&example)
}

// Validate checks the scoring, server and display settings
func (c *Config) Validate() error {
	switch strings.ToLower(c.Scoring.ConsistencyPolicy) {
	case "", "fixed", "streak":
	default:
		return fmt.Errorf("scoring.consistency_policy must be \"fixed\" or \"streak\", got %q", c.Scoring.ConsistencyPolicy)
	}
	if b := c.Scoring.Bonus(); b < 0 || b > maxFixedBonus {
		return fmt.Errorf("scoring.fixed_bonus must be between 0 and %v, got %v", maxFixedBonus, b)
	}

	if c.Display.ChartDays < 0 {
		return fmt.Errorf("display.chart_days must not be negative, got %d", c.Display.ChartDays)
	}

	if c.Athlete.RestingHR > 0 && c.Athlete.MaxHR > 0 && c.Athlete.RestingHR >= c.Athlete.MaxHR {
		return fmt.Errorf("athlete.resting_hr (%v) must be less than athlete.max_hr (%v)", c.Athlete.RestingHR, c.Athlete.MaxHR)
	}

	return nil
}

// ValidateStrava checks that real Strava credentials are configured
func (c *Config) ValidateStrava() error {
	if c.Strava.ClientID == "" || c.Strava.ClientID == "YOUR_CLIENT_ID" {
		return errors.New("strava.client_id is required - get it from https://www.strava.com/settings/api")
	}
	if c.Strava.ClientSecret == "" || c.Strava.ClientSecret == "YOUR_CLIENT_SECRET" {
		return errors.New("strava.client_secret is required - get it from https://www.strava.com/settings/api")
	}
	return nil
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// GetConfigDir returns the directory holding config.json and the database.
// TRAILSCORE_HOME overrides the default ~/.trailscore.
func GetConfigDir() (string, error) {
	if dir := os.Getenv(EnvHome); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".trailscore"), nil
}
