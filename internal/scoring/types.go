package scoring

import "time"

// GoalType is the user's body-composition or performance goal
type GoalType string

const (
	GoalCut       GoalType = "cut"
	GoalLeanBulk  GoalType = "lean_bulk"
	GoalRecomp    GoalType = "recomp"
	GoalEndurance GoalType = "endurance"
	GoalWellness  GoalType = "wellness"
)

// Phase is the periodization stage of the user's program
type Phase string

const (
	PhaseBase   Phase = "base"
	PhaseBuild  Phase = "build"
	PhasePeak   Phase = "peak"
	PhaseDeload Phase = "deload"
)

// Modality selects which training metrics a session is judged on
type Modality string

const (
	ModalityStrength  Modality = "strength"
	ModalityEndurance Modality = "endurance"
)

// SleepType distinguishes the main sleep from naps
type SleepType string

const (
	SleepCore SleepType = "core"
	SleepNap  SleepType = "nap"
)

// MealType keys the food log
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

// Profile holds the user's biometrics and goal. Nil fields were never entered.
type Profile struct {
	Sex           string   `json:"sex,omitempty"` // "m" or "f"
	Age           *int     `json:"age,omitempty"`
	HeightCm      *float64 `json:"height_cm,omitempty"`
	WeightKg      *float64 `json:"weight_kg,omitempty"`
	ActivityLevel string   `json:"activity_level,omitempty"`

	// Goal is the free-text goal from onboarding, classified with ClassifyGoal
	Goal  string `json:"goal,omitempty"`
	Phase string `json:"phase,omitempty"`

	Program   Program   `json:"program"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Program holds plan-level facts stored with the profile
type Program struct {
	WeeklyFrequency int            `json:"weekly_frequency,omitempty"`
	RestDays        []time.Weekday `json:"rest_days,omitempty"`
	LeanBodyMassKg  *float64       `json:"lean_body_mass_kg,omitempty"`
	TDEE            *float64       `json:"tdee,omitempty"`
}

// Plan is the personalized weekly schedule
type Plan struct {
	RestDays        []time.Weekday `json:"rest_days,omitempty"`
	WeeklyFrequency int            `json:"weekly_frequency,omitempty"`
	WeeklyMinutes   float64        `json:"weekly_minutes,omitempty"`

	// Recent averages used as the completion baseline
	AvgSetsPerSession float64 `json:"avg_sets_per_session,omitempty"`
	AvgCardioMinutes  float64 `json:"avg_cardio_minutes,omitempty"`
}

// DailyRecap is everything logged for one day
type DailyRecap struct {
	Date      time.Time        `json:"date"`
	Nutrition Nutrition        `json:"nutrition"`
	Session   *TrainingSession `json:"session,omitempty"`
	// PriorWeekSession is the same session slot exactly one week earlier
	PriorWeekSession *TrainingSession `json:"prior_week_session,omitempty"`
	Sleep            Sleep            `json:"sleep"`
	Steps            Steps            `json:"steps"`
}

// Nutrition holds daily nutrition totals
type Nutrition struct {
	Calories          *float64 `json:"calories,omitempty"`
	ProteinG          *float64 `json:"protein_g,omitempty"`
	FiberG            *float64 `json:"fiber_g,omitempty"`
	VegetableServings *float64 `json:"vegetable_servings,omitempty"`
	HydrationMl       *float64 `json:"hydration_ml,omitempty"`
}

// TrainingSession is one day's logged training
type TrainingSession struct {
	CompletedSets *float64 `json:"completed_sets,omitempty"`
	ActiveMinutes *float64 `json:"active_minutes,omitempty"`
	TotalVolume   *float64 `json:"total_volume,omitempty"` // kg lifted
	TopSetLoad    *float64 `json:"top_set_load,omitempty"` // kg
	ZoneMinutes   *float64 `json:"zone_minutes,omitempty"`
	AvgRPE        *float64 `json:"avg_rpe,omitempty"`
	AvgHRRatio    *float64 `json:"avg_hr_ratio,omitempty"` // avg HR / max HR
	WarmupDone    *bool    `json:"warmup_done,omitempty"`
}

// Sleep holds the night's episodes and the trailing week's bedtimes
type Sleep struct {
	Episodes []SleepEpisode `json:"episodes,omitempty"`
	// BedTimes covers the trailing 7 nights; only the clock time is used
	BedTimes []time.Time `json:"bed_times,omitempty"`
	// OnTimeFlags are quick yes/no "in bed on time" answers for the trailing 7 nights
	OnTimeFlags []bool `json:"on_time_flags,omitempty"`
}

// SleepEpisode is a single block of sleep
type SleepEpisode struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Type  SleepType `json:"type"`
}

// Minutes returns the episode length, never negative
func (e SleepEpisode) Minutes() float64 {
	m := e.End.Sub(e.Start).Minutes()
	if m < 0 {
		return 0
	}
	return m
}

// Steps holds today's step count and how many days in the trailing window had data
type Steps struct {
	Today        *int `json:"today,omitempty"`
	DaysWithData int  `json:"days_with_data"`
}

// FoodEntry is one logged food item
type FoodEntry struct {
	Name     string  `json:"name"`
	Calories float64 `json:"calories,omitempty"`
}

// FoodLog holds the day's entries keyed by meal type
type FoodLog struct {
	Meals map[MealType][]FoodEntry `json:"meals"`
}

// EntryCount returns the total number of logged entries
func (f *FoodLog) EntryCount() int {
	if f == nil {
		return 0
	}
	n := 0
	for _, entries := range f.Meals {
		n += len(entries)
	}
	return n
}

// History is the trailing window of earlier results
type History struct {
	// RecentComposite holds up to 7 prior composite scores, most recent last
	RecentComposite []float64 `json:"recent_composite,omitempty"`

	LastDurationScore   *float64 `json:"last_duration_score,omitempty"`
	LastRegularityScore *float64 `json:"last_regularity_score,omitempty"`
	LastNeatScore       *float64 `json:"last_neat_score,omitempty"`
}

// NutritionTargets are the day's nutrition goals
type NutritionTargets struct {
	CaloriesKcal    float64 `json:"calories_kcal"`
	ProteinG        float64 `json:"protein_g"`
	FiberG          float64 `json:"fiber_g"`
	HydrationLiters float64 `json:"hydration_liters"`
}

// CompletionTarget is the planned training volume for a session
type CompletionTarget struct {
	Type        string  `json:"type"` // "sets" or "minutes"
	Planned     float64 `json:"planned"`
	FreqPerWeek int     `json:"freq_per_week"`
}

// IntensityTarget is the RPE or HR-ratio band a session should land in
type IntensityTarget struct {
	Type       string  `json:"type"` // "rpe" or "hr_ratio"
	Low        float64 `json:"low"`
	High       float64 `json:"high"`
	BaseCredit float64 `json:"base_credit"`
}

// ProgressionTarget names the week-over-week metric and the growth that earns full credit
type ProgressionTarget struct {
	Rule    string  `json:"rule"` // "total_volume", "top_set_load" or "zone_minutes"
	Ceiling float64 `json:"ceiling"`
}

// TrainingTargets are the day's training goals
type TrainingTargets struct {
	Modality    Modality          `json:"modality"`
	Completion  CompletionTarget  `json:"completion"`
	Intensity   IntensityTarget   `json:"intensity"`
	Progression ProgressionTarget `json:"progression"`
	RestDay     bool              `json:"rest_day"`
}

// RecoveryTargets are the day's sleep and activity goals
type RecoveryTargets struct {
	SleepGoalMinutes float64    `json:"sleep_goal_minutes"`
	NeatStepRange    [2]float64 `json:"neat_step_range"`
}

// Targets groups all derived targets
type Targets struct {
	Goal      GoalType         `json:"goal"`
	Phase     Phase            `json:"phase"`
	Nutrition NutritionTargets `json:"nutrition"`
	Training  TrainingTargets  `json:"training"`
	Recovery  RecoveryTargets  `json:"recovery"`
}

// ComponentScore is a 0-100 sub-score with the points that made it up
type ComponentScore struct {
	Value      float64            `json:"value"`
	Breakdown  map[string]float64 `json:"breakdown"`
	Confidence float64            `json:"confidence"`
}

// Result is the composite output for one day
type Result struct {
	TrailFuelScore   float64  `json:"trailFuelScore"`
	ClimbScore       float64  `json:"climbScore"`
	BaseCampScore    float64  `json:"baseCampScore"`
	ConsistencyBonus float64  `json:"consistencyBonus"`
	CompositeScore   float64  `json:"compositeScore"`
	GoalType         GoalType `json:"goalType"`

	// Detail is nil for the insufficient-data result
	Detail *Detail `json:"detail,omitempty"`
}

// Detail carries the per-component breakdowns and the targets they were scored against
type Detail struct {
	TrailFuel ComponentScore `json:"trail_fuel"`
	Climb     ComponentScore `json:"climb"`
	BaseCamp  ComponentScore `json:"base_camp"`
	Targets   Targets        `json:"targets"`
}

// Sufficient reports whether the result was computed from real data
func (r Result) Sufficient() bool {
	return r.Detail != nil
}
