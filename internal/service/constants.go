package service

const (
	// HR validation thresholds
	MinValidHeartrate = 50
	MaxValidHeartrate = 220
	DefaultMaxHR      = 185

	// ZoneRatioThreshold is the avg HR / max HR at which moving time counts as zone time
	ZoneRatioThreshold = 0.60

	// Trailing windows, in days, ending on the scored date
	HistoryWindowDays = 7
	BedtimeWindowDays = 7
	StepWindowDays    = 7
	OnTimeWindowDays  = 7

	// PriorWeekOffsetDays locates the same weekday one week earlier
	PriorWeekOffsetDays = 7

	// DefaultHistoryDays is how far back History looks when no range is given
	DefaultHistoryDays = 30

	// MaxRescoreDays bounds a single ScoreRange call
	MaxRescoreDays = 366
)
