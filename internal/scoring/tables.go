package scoring

// Every goal × phase table lives in this file so targets and scorers read the same numbers.

// band holds the low-end (base/deload) and high-end (build/peak) value of a goal's range
type band struct {
	low, high float64
}

func (b band) pick(p Phase) float64 {
	if isHardPhase(p) {
		return b.high
	}
	return b.low
}

// isHardPhase reports whether the phase pushes load (build or peak)
func isHardPhase(p Phase) bool {
	return p == PhaseBuild || p == PhasePeak
}

// calorieMultipliers scale TDEE into the daily calorie target
var calorieMultipliers = map[GoalType]band{
	GoalCut:       {0.82, 0.85},
	GoalLeanBulk:  {1.06, 1.10},
	GoalRecomp:    {0.97, 1.00},
	GoalEndurance: {1.00, 1.03},
	GoalWellness:  {1.00, 1.00},
}

// proteinPerKg is grams of protein per kg of lean (or total) body mass
var proteinPerKg = map[GoalType]band{
	GoalCut:       {1.9, 2.0},
	GoalLeanBulk:  {1.7, 1.8},
	GoalRecomp:    {1.8, 1.9},
	GoalEndurance: {1.5, 1.6},
	GoalWellness:  {1.4, 1.4},
}

const (
	defaultCalorieMultiplier = 1.00
	defaultProteinPerKg      = 1.6
)

// CalorieMultiplier returns the TDEE multiplier for a goal and phase
func CalorieMultiplier(g GoalType, p Phase) float64 {
	if b, ok := calorieMultipliers[g]; ok {
		return b.pick(p)
	}
	return defaultCalorieMultiplier
}

// ProteinPerKg returns the protein target in g/kg for a goal and phase
func ProteinPerKg(g GoalType, p Phase) float64 {
	if b, ok := proteinPerKg[g]; ok {
		return b.pick(p)
	}
	return defaultProteinPerKg
}

// activityMultipliers maps activity level to the BMR → TDEE multiplier
var activityMultipliers = map[string]float64{
	"sedentary":   1.2,
	"light":       1.375,
	"moderate":    1.55,
	"active":      1.725,
	"very_active": 1.9,
}

// activityStepNudge shifts the NEAT band with the user's self-reported activity level
var activityStepNudge = map[string]float64{
	"sedentary":   -0.10,
	"light":       -0.05,
	"moderate":    0,
	"active":      0.05,
	"very_active": 0.10,
}

// ActivityMultiplier returns the TDEE multiplier, defaulting to moderate
func ActivityMultiplier(level string) float64 {
	if m, ok := activityMultipliers[level]; ok {
		return m
	}
	return activityMultipliers[DefaultActivityLevel]
}

// intensityBands are the target RPE (strength) or HR-ratio (endurance) ranges per phase
var intensityBands = map[Modality]map[Phase][2]float64{
	ModalityStrength: {
		PhaseBase:   {6.5, 7.5},
		PhaseBuild:  {7.0, 8.5},
		PhasePeak:   {8.0, 9.0},
		PhaseDeload: {5.5, 6.5},
	},
	ModalityEndurance: {
		PhaseBase:   {0.60, 0.72},
		PhaseBuild:  {0.65, 0.80},
		PhasePeak:   {0.70, 0.85},
		PhaseDeload: {0.55, 0.65},
	},
}

// intensitySoftMargin is how far outside the band still earns partial proximity credit
var intensitySoftMargin = map[Modality]float64{
	ModalityStrength:  1.0,
	ModalityEndurance: 0.05,
}

// IntensityBand returns the target band for a modality and phase
func IntensityBand(m Modality, p Phase) (low, high float64) {
	bands, ok := intensityBands[m]
	if !ok {
		bands = intensityBands[ModalityStrength]
	}
	b, ok := bands[p]
	if !ok {
		b = bands[PhaseBase]
	}
	return b[0], b[1]
}

// IntensitySoftMargin returns the soft margin for a modality
func IntensitySoftMargin(m Modality) float64 {
	if v, ok := intensitySoftMargin[m]; ok {
		return v
	}
	return intensitySoftMargin[ModalityStrength]
}

const (
	minBaseCredit = 2.0
	maxBaseCredit = 4.0
)

// intensityGoalBonus raises the base credit for goals that lean on training intensity
var intensityGoalBonus = map[GoalType]float64{
	GoalLeanBulk:  1.0,
	GoalEndurance: 1.0,
	GoalRecomp:    0.5,
}

// BaseCredit returns the intensity points awarded for turning up at all
func BaseCredit(g GoalType, p Phase) float64 {
	credit := minBaseCredit
	if isHardPhase(p) {
		credit += 1.0
	}
	credit += intensityGoalBonus[g]
	return clamp(credit, minBaseCredit, maxBaseCredit)
}

// progressionCeilings is the weekly growth rate that earns full progression credit
var progressionCeilings = map[Modality]map[Phase]float64{
	ModalityStrength: {
		PhaseBase:   0.08,
		PhaseBuild:  0.08,
		PhasePeak:   0.06,
		PhaseDeload: 0.06,
	},
	ModalityEndurance: {
		PhaseBase:   0.15,
		PhaseBuild:  0.20,
		PhasePeak:   0.25,
		PhaseDeload: 0.10,
	},
}

var progressionGoalAdjust = map[GoalType]float64{
	GoalLeanBulk: 0.02,
	GoalCut:      -0.02,
}

const (
	minProgressionCeiling = 0.06
	maxProgressionCeiling = 0.25
)

// ProgressionCeiling returns the capped weekly growth rate for full progression credit
func ProgressionCeiling(m Modality, g GoalType, p Phase) float64 {
	byPhase, ok := progressionCeilings[m]
	if !ok {
		byPhase = progressionCeilings[ModalityStrength]
	}
	c, ok := byPhase[p]
	if !ok {
		c = byPhase[PhaseBase]
	}
	return clamp(c+progressionGoalAdjust[g], minProgressionCeiling, maxProgressionCeiling)
}

// Weights are the composite percentages for each component; they sum to 100
type Weights struct {
	TrailFuel float64 `json:"trail_fuel"`
	Climb     float64 `json:"climb"`
	BaseCamp  float64 `json:"base_camp"`
}

var compositeWeights = map[GoalType]Weights{
	GoalCut:       {50, 30, 20},
	GoalLeanBulk:  {35, 45, 20},
	GoalRecomp:    {40, 40, 20},
	GoalEndurance: {35, 40, 25},
	GoalWellness:  {40, 30, 30},
}

// CompositeWeights returns the component weights for a goal, defaulting to wellness
func CompositeWeights(g GoalType) Weights {
	if w, ok := compositeWeights[g]; ok {
		return w
	}
	return compositeWeights[GoalWellness]
}

// neatBands are the base daily step ranges per goal
var neatBands = map[GoalType][2]float64{
	GoalCut:       {8000, 12000},
	GoalLeanBulk:  {6000, 9000},
	GoalRecomp:    {7000, 10000},
	GoalEndurance: {6000, 10000},
	GoalWellness:  {7000, 11000},
}

var defaultNeatBand = [2]float64{7000, 10000}

// NeatBand returns the unadjusted step range for a goal
func NeatBand(g GoalType) (low, high float64) {
	b, ok := neatBands[g]
	if !ok {
		b = defaultNeatBand
	}
	return b[0], b[1]
}
