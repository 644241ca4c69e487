package scoring

// Inputs is the snapshot the engine scores. Profile, Recap, FoodLog and Plan are each
// fetched independently by the caller and may be missing.
type Inputs struct {
	Profile *Profile
	Recap   *DailyRecap
	FoodLog *FoodLog
	Plan    *Plan
	History History
}

// Engine combines the three component scorers into the composite score.
// An Engine holds no mutable state and is safe for concurrent use.
type Engine struct {
	Consistency ConsistencyPolicy

	nutrition NutritionScorer
	training  TrainingScorer
	recovery  RecoveryScorer
}

// NewEngine returns an engine using the given consistency policy, or the fixed
// bonus when policy is nil.
func NewEngine(policy ConsistencyPolicy) *Engine {
	if policy == nil {
		policy = FixedBonus{Points: DefaultFixedBonus}
	}
	return &Engine{Consistency: policy}
}

// InsufficientData is returned when any of the four sources is missing
func InsufficientData() Result {
	return Result{GoalType: GoalWellness}
}

// Compute scores one day. It never fails; a missing source yields InsufficientData.
func (e *Engine) Compute(in Inputs) Result {
	if in.Profile == nil || in.Recap == nil || in.FoodLog == nil || in.Plan == nil {
		return InsufficientData()
	}

	targets := CalculateTargets(in.Profile, in.Plan, in.Recap.Date)

	trailFuel := e.nutrition.Score(in.Recap.Nutrition, targets.Nutrition, in.FoodLog.EntryCount())
	climb := e.training.Score(in.Recap.Session, in.Recap.PriorWeekSession, targets.Training)
	baseCamp := e.recovery.Score(in.Recap.Sleep, in.Recap.Steps, targets.Recovery, in.History)

	policy := e.Consistency
	if policy == nil {
		policy = FixedBonus{Points: DefaultFixedBonus}
	}
	bonus := clamp(policy.Bonus(in.History.RecentComposite), 0, MaxConsistencyBonus)

	w := CompositeWeights(targets.Goal)
	weighted := (trailFuel.Value*w.TrailFuel + climb.Value*w.Climb + baseCamp.Value*w.BaseCamp) / 100

	return Result{
		TrailFuelScore:   trailFuel.Value,
		ClimbScore:       climb.Value,
		BaseCampScore:    baseCamp.Value,
		ConsistencyBonus: bonus,
		CompositeScore:   clamp(weighted+bonus, 0, 100),
		GoalType:         targets.Goal,
		Detail: &Detail{
			TrailFuel: trailFuel,
			Climb:     climb,
			BaseCamp:  baseCamp,
			Targets:   targets,
		},
	}
}

// ComputeCompositeScore scores one day with the default fixed consistency bonus
func ComputeCompositeScore(profile *Profile, recap *DailyRecap, foodLog *FoodLog, plan *Plan, history History) Result {
	return NewEngine(nil).Compute(Inputs{
		Profile: profile,
		Recap:   recap,
		FoodLog: foodLog,
		Plan:    plan,
		History: history,
	})
}
