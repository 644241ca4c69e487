package strava

import (
	"slices"
	"time"
)

// Activity is the summary Strava returns from /athlete/activities
type Activity struct {
	ID               int64     `json:"id"`
	Athlete          Athlete   `json:"athlete"`
	Name             string    `json:"name"`
	Type             string    `json:"type"`
	SportType        string    `json:"sport_type"`
	StartDate        time.Time `json:"start_date"`
	StartDateLocal   time.Time `json:"start_date_local"`
	Distance         float64   `json:"distance"`     // meters
	MovingTime       int       `json:"moving_time"`  // seconds
	ElapsedTime      int       `json:"elapsed_time"` // seconds
	AverageHeartrate float64   `json:"average_heartrate"`
	MaxHeartrate     float64   `json:"max_heartrate"`
	HasHeartrate     bool      `json:"has_heartrate"`
}

// Athlete represents a Strava athlete (minimal info in activity response)
type Athlete struct {
	ID int64 `json:"id"`
}

// enduranceSports are the sport types imported as cardio sessions
var enduranceSports = []string{
	"Run", "TrailRun", "VirtualRun",
	"Ride", "GravelRide", "MountainBikeRide", "VirtualRide", "EBikeRide",
	"Swim", "Walk", "Hike", "Rowing", "VirtualRow", "NordicSki", "BackcountrySki",
	"Elliptical", "StairStepper",
}

// IsEndurance reports whether the activity counts as endurance training
func (a Activity) IsEndurance() bool {
	sport := a.SportType
	if sport == "" {
		sport = a.Type
	}
	return slices.Contains(enduranceSports, sport)
}

// LocalDay returns the athlete's calendar day for the activity in loc.
// Strava encodes local wall time with a Z suffix, so only its date fields are meaningful.
func (a Activity) LocalDay(loc *time.Location) time.Time {
	y, m, d := a.StartDateLocal.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// MovingMinutes returns the moving time in minutes
func (a Activity) MovingMinutes() float64 {
	return float64(a.MovingTime) / 60
}
