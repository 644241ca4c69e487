package scoring

import (
	"math"
	"time"
)

// MinutesPerDay is the period used for time-of-day statistics
const MinutesPerDay = 1440.0

// ClockMinutes returns minutes after local midnight
func ClockMinutes(t time.Time) float64 {
	return float64(t.Hour()*60+t.Minute()) + float64(t.Second())/60
}

// CircularMeanMinutes returns the circular mean of clock times (minutes after midnight)
// and the mean resultant length R in [0,1]. R near 1 means the times are tightly grouped.
func CircularMeanMinutes(minutes []float64) (mean, resultant float64) {
	if len(minutes) == 0 {
		return 0, 0
	}
	var sumSin, sumCos float64
	for _, m := range minutes {
		theta := 2 * math.Pi * m / MinutesPerDay
		sumSin += math.Sin(theta)
		sumCos += math.Cos(theta)
	}
	n := float64(len(minutes))
	sumSin /= n
	sumCos /= n

	angle := math.Atan2(sumSin, sumCos)
	if angle < 0 {
		angle += 2 * math.Pi
	}
	return angle * MinutesPerDay / (2 * math.Pi), math.Hypot(sumSin, sumCos)
}

// CircularSpreadMinutes returns the root-mean-square distance, in minutes, of each time
// from the circular mean. Differences wrap at midnight, so 23:30 and 00:30 are 60 apart.
func CircularSpreadMinutes(minutes []float64) float64 {
	if len(minutes) < 2 {
		return 0
	}
	mean, _ := CircularMeanMinutes(minutes)
	var sumSq float64
	for _, m := range minutes {
		d := wrapMinutes(m - mean)
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(minutes)))
}

// wrapMinutes folds a difference into [-720, 720)
func wrapMinutes(d float64) float64 {
	d = math.Mod(d+MinutesPerDay/2, MinutesPerDay)
	if d < 0 {
		d += MinutesPerDay
	}
	return d - MinutesPerDay/2
}
