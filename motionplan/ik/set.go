package ik

import (
	"github.com/samber/lo"

	"go.viam.com/grooveik/logging"
	"go.viam.com/grooveik/referenceframe"
	"go.viam.com/grooveik/utils"
)

type setOptions struct {
	selfCollision bool
	parallelism   int
}

// SetOption configures NewObjectiveSet.
type SetOption func(*setOptions)

// WithSelfCollision adds the learned self collision objective. Snapshots used with the set must then carry a
// predictor.
func WithSelfCollision() SetOption {
	return func(o *setOptions) {
		o.selfCollision = true
	}
}

// WithParallelObjectives evaluates up to limit objectives at once. A limit of 0 uses utils.ParallelFactor.
func WithParallelObjectives(limit int) SetOption {
	return func(o *setOptions) {
		if limit <= 0 {
			limit = utils.ParallelFactor
		}
		o.parallelism = limit
	}
}

// ObjectiveSet is the standard list of objectives for a robot with a given number of arms, in a fixed order: for each
// arm its position, orientation and environment collision objectives, then velocity, acceleration, jerk, joint limits
// and, when enabled, self collision. Results are returned one per objective in that order and are never weighted or
// summed here.
type ObjectiveSet struct {
	objectives    []Objective
	numArms       int
	selfCollision bool
	parallelism   int
	dispatcher    *Dispatcher
	logger        logging.Logger
}

// NewObjectiveSet validates cfg and builds the objective list.
func NewObjectiveSet(cfg Config, numArms int, logger logging.Logger, opts ...SetOption) (*ObjectiveSet, error) {
	if numArms < 1 {
		return nil, errNoArms
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var so setOptions
	for _, opt := range opts {
		opt(&so)
	}

	setLogger := logger.Sublogger("ik")
	dispatcherLogger := setLogger.Sublogger("dispatcher")
	if err := logging.ApplyPatterns(cfg.Logging, setLogger, dispatcherLogger); err != nil {
		return nil, err
	}

	objectives := make([]Objective, 0, 3*numArms+5)
	for arm := 0; arm < numArms; arm++ {
		objectives = append(objectives,
			NewPositionMatch(arm, cfg.Position),
			NewOrientationMatch(arm, cfg.Orientation),
			NewEnvCollision(arm, cfg.EnvCollision),
		)
	}
	objectives = append(objectives,
		NewMinVelocity(cfg.Smoothness),
		NewMinAcceleration(cfg.Smoothness),
		NewMinJerk(cfg.Smoothness),
		NewJointLimits(cfg.JointLimits),
	)
	if so.selfCollision {
		objectives = append(objectives, NewSelfCollision(cfg.SelfCollision))
	}

	s := &ObjectiveSet{
		objectives:    objectives,
		numArms:       numArms,
		selfCollision: so.selfCollision,
		parallelism:   so.parallelism,
		dispatcher:    NewDispatcher(cfg.Gradient, dispatcherLogger),
		logger:        setLogger,
	}
	s.logger.Debugw("built objective set",
		"arms", numArms,
		"objectives", s.Names(),
		"analytic", len(s.AnalyticObjectives()),
		"fd_parallelism", cfg.Gradient.Parallelism,
	)
	return s, nil
}

// Objectives returns the objectives in evaluation order.
func (s *ObjectiveSet) Objectives() []Objective {
	return append([]Objective(nil), s.objectives...)
}

// Names returns the name of every objective in evaluation order.
func (s *ObjectiveSet) Names() []string {
	return lo.Map(s.objectives, func(o Objective, _ int) string { return o.Name() })
}

// AnalyticObjectives returns the objectives that supply their own gradient.
func (s *ObjectiveSet) AnalyticObjectives() []Objective {
	return lo.Filter(s.objectives, func(o Objective, _ int) bool { return o.GradientKind() == Analytic })
}

// FiniteDifferenceObjectives returns the objectives differentiated by the dispatcher.
func (s *ObjectiveSet) FiniteDifferenceObjectives() []Objective {
	return lo.Filter(s.objectives, func(o Objective, _ int) bool { return o.GradientKind() == FiniteDifference })
}

// Dispatcher returns the gradient dispatcher used by GradientAll and GradientAllLite.
func (s *ObjectiveSet) Dispatcher() *Dispatcher {
	return s.dispatcher
}

// CheckSnapshot verifies that snap fits the set: the arm count matches, and when self collision is enabled a
// predictor is present and sized for the model. Run it once per snapshot before evaluating on the hot path.
func (s *ObjectiveSet) CheckSnapshot(snap *Snapshot) error {
	switch {
	case snap.NumArms() < s.numArms:
		return NewArmIndexError(s.numArms-1, snap.NumArms())
	case snap.NumArms() > s.numArms:
		return NewArmCountError(s.numArms, snap.NumArms())
	}
	if s.selfCollision && snap.Predictor() == nil {
		return errMissingPredictor
	}
	if s.selfCollision {
		return checkPredictor(snap.Predictor(), snap.DoF())
	}
	return nil
}

func (s *ObjectiveSet) check(x []float64, snap *Snapshot) error {
	if err := referenceframe.CheckInputs(snap.Model(), x); err != nil {
		return err
	}
	return s.CheckSnapshot(snap)
}

// EvaluateAll returns the full path cost of every objective at x.
func (s *ObjectiveSet) EvaluateAll(x []float64, snap *Snapshot) ([]float64, error) {
	if err := s.check(x, snap); err != nil {
		return nil, err
	}
	frames := snap.Model().Frames(x)
	costs := make([]float64, len(s.objectives))
	s.each(func(i int) {
		costs[i] = s.objectives[i].Evaluate(x, snap, frames)
	})
	return costs, nil
}

// EvaluateAllLite returns the lite path cost of every objective at x.
func (s *ObjectiveSet) EvaluateAllLite(x []float64, snap *Snapshot) ([]float64, error) {
	if err := s.check(x, snap); err != nil {
		return nil, err
	}
	poses := snap.Model().EndEffectorPoses(x)
	costs := make([]float64, len(s.objectives))
	s.each(func(i int) {
		costs[i] = s.objectives[i].EvaluateLite(x, snap, poses)
	})
	return costs, nil
}

// GradientAll returns the full path cost and gradient of every objective at x.
func (s *ObjectiveSet) GradientAll(x []float64, snap *Snapshot) ([]CostSample, error) {
	if err := s.check(x, snap); err != nil {
		return nil, err
	}
	frames := snap.Model().Frames(x)
	samples := make([]CostSample, len(s.objectives))
	s.each(func(i int) {
		samples[i] = s.dispatcher.Gradient(s.objectives[i], x, snap, frames)
	})
	return samples, nil
}

// GradientAllLite returns the lite path cost and gradient of every objective at x.
func (s *ObjectiveSet) GradientAllLite(x []float64, snap *Snapshot) ([]CostSample, error) {
	if err := s.check(x, snap); err != nil {
		return nil, err
	}
	poses := snap.Model().EndEffectorPoses(x)
	samples := make([]CostSample, len(s.objectives))
	s.each(func(i int) {
		samples[i] = s.dispatcher.GradientLite(s.objectives[i], x, snap, poses)
	})
	return samples, nil
}

func (s *ObjectiveSet) each(f func(i int)) {
	if s.parallelism <= 1 {
		for i := range s.objectives {
			f(i)
		}
		return
	}
	runInParallel(len(s.objectives), s.parallelism, f)
}
