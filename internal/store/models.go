package store

import "time"

// Auth represents OAuth tokens for Strava API access
type Auth struct {
	AthleteID    int64     `db:"athlete_id"`
	AccessToken  string    `db:"access_token"`
	RefreshToken string    `db:"refresh_token"`
	ExpiresAt    time.Time `db:"expires_at"`
}

// Profile is the stored user profile
type Profile struct {
	Sex             string         `db:"sex"`
	Age             *int           `db:"age"`
	HeightCm        *float64       `db:"height_cm"`
	WeightKg        *float64       `db:"weight_kg"`
	ActivityLevel   string         `db:"activity_level"`
	Goal            string         `db:"goal"`  // free text from onboarding
	Phase           string         `db:"phase"` // base, build, peak, deload
	WeeklyFrequency int            `db:"weekly_frequency"`
	RestDays        []time.Weekday `db:"rest_days"`
	LeanBodyMassKg  *float64       `db:"lean_body_mass_kg"`
	TDEE            *float64       `db:"tdee"`
	CreatedAt       time.Time      `db:"created_at"`
}

// Plan is the stored weekly plan
type Plan struct {
	RestDays          []time.Weekday `db:"rest_days"`
	WeeklyFrequency   int            `db:"weekly_frequency"`
	WeeklyMinutes     float64        `db:"weekly_minutes"`
	AvgSetsPerSession float64        `db:"avg_sets_per_session"`
	AvgCardioMinutes  float64        `db:"avg_cardio_minutes"`
}

// Day holds one day's nutrition totals, steps and on-time answer. Nil means not logged.
type Day struct {
	Date              time.Time `db:"date"`
	Calories          *float64  `db:"calories"`
	ProteinG          *float64  `db:"protein_g"`
	FiberG            *float64  `db:"fiber_g"`
	VegetableServings *float64  `db:"vegetable_servings"`
	HydrationMl       *float64  `db:"hydration_ml"`
	Steps             *int      `db:"steps"`
	OnTime            *bool     `db:"on_time"`
}

// Session sources
const (
	SourceManual = "manual"
	SourceStrava = "strava"
)

// Session is one logged training session
type Session struct {
	ID            int64     `db:"id"`
	Date          time.Time `db:"date"`
	Source        string    `db:"source"`
	ExternalID    string    `db:"external_id"`
	Name          string    `db:"name"`
	CompletedSets *float64  `db:"completed_sets"`
	ActiveMinutes *float64  `db:"active_minutes"`
	TotalVolume   *float64  `db:"total_volume"`  // kg
	TopSetLoad    *float64  `db:"top_set_load"`  // kg
	ZoneMinutes   *float64  `db:"zone_minutes"`
	AvgRPE        *float64  `db:"avg_rpe"`
	AvgHRRatio    *float64  `db:"avg_hr_ratio"`  // avg HR / max HR
	WarmupDone    *bool     `db:"warmup_done"`
}

// SleepEpisode is one block of sleep belonging to a night
type SleepEpisode struct {
	Night time.Time `db:"night"` // the day the user woke up
	Start time.Time `db:"start_time"`
	End   time.Time `db:"end_time"`
	Type  string    `db:"type"` // core or nap
}

// FoodEntry is one logged food item
type FoodEntry struct {
	Date     time.Time `db:"date"`
	Meal     string    `db:"meal"`
	Name     string    `db:"name"`
	Calories float64   `db:"calories"`
}

// Score is a persisted composite result
type Score struct {
	Date             time.Time `db:"date"`
	TrailFuel        float64   `db:"trail_fuel"`
	Climb            float64   `db:"climb"`
	BaseCamp         float64   `db:"base_camp"`
	ConsistencyBonus float64   `db:"consistency_bonus"`
	Composite        float64   `db:"composite"`
	GoalType         string    `db:"goal_type"`
	SleepDuration    *float64  `db:"sleep_duration"`
	SleepRegularity  *float64  `db:"sleep_regularity"`
	Neat             *float64  `db:"neat"`
	Policy           string    `db:"policy"`
	Detail           string    `db:"detail"` // JSON breakdowns and targets
	ComputedAt       time.Time `db:"computed_at"`
}
