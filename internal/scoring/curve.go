package scoring

import "math"

// epsilon guards divisions by targets that might be zero
const epsilon = 1e-6

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}

// safeDiv divides by max(epsilon, d)
func safeDiv(n, d float64) float64 {
	return n / math.Max(epsilon, d)
}

// lerp maps x from [x0,x1] onto [y0,y1], clamping outside the interval
func lerp(x, x0, x1, y0, y1 float64) float64 {
	if x1 == x0 {
		return y1
	}
	t := clamp01((x - x0) / (x1 - x0))
	return y0 + t*(y1-y0)
}

// rampedRatio scores a ratio with a knee: 0 → 0, knee → kneeCredit, 1+ → 1.
// Protein and hydration both use this shape with different knees.
func rampedRatio(ratio, knee, kneeCredit float64) float64 {
	switch {
	case ratio >= 1:
		return 1
	case ratio >= knee:
		return lerp(ratio, knee, 1, kneeCredit, 1)
	case ratio <= 0:
		return 0
	default:
		return kneeCredit * ratio / knee
	}
}

func deref(p *float64) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}

func floatPtr(v float64) *float64 {
	return &v
}
