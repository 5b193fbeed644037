package ik

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/grooveik/logging"
	"go.viam.com/grooveik/referenceframe"
	"go.viam.com/grooveik/spatialmath"
	"go.viam.com/grooveik/utils"
)

// Predictor estimates a self collision proxy distance directly from a joint vector. Implementations must be safe for
// concurrent use.
type Predictor interface {
	Predict(x []float64) float64
	Gradient(x []float64) (float64, []float64)
}

// inputSized is implemented by predictors that know how many joints they expect.
type inputSized interface {
	InputDim() int
}

func checkPredictor(p Predictor, dof int) error {
	if sized, ok := p.(inputSized); ok && sized.InputDim() != dof {
		return NewPredictorInputError(sized.InputDim(), dof)
	}
	return nil
}

// Goals holds one target position and one target orientation per arm.
type Goals struct {
	Positions    []r3.Vector
	Orientations []quat.Number
}

// Environment is the static scene the links must stay clear of. Every link is treated as a capsule of LinkRadius.
type Environment struct {
	LinkRadius float64
	Obstacles  []spatialmath.Geometry
}

// History holds the last accepted optimum and the two before it, newest first.
type History struct {
	XOpt  []float64
	Prev  []float64
	Prev2 []float64
}

// NewHistory returns a history in which the robot has been at rest at x0.
func NewHistory(x0 []float64) History {
	return History{
		XOpt:  append([]float64(nil), x0...),
		Prev:  append([]float64(nil), x0...),
		Prev2: append([]float64(nil), x0...),
	}
}

// Advance returns the history after x has been accepted as the new optimum. The result shares no memory with h or x.
func (h History) Advance(x []float64) History {
	return History{
		XOpt:  append([]float64(nil), x...),
		Prev:  append([]float64(nil), h.XOpt...),
		Prev2: append([]float64(nil), h.Prev...),
	}
}

func (h History) copy() History {
	return History{
		XOpt:  append([]float64(nil), h.XOpt...),
		Prev:  append([]float64(nil), h.Prev...),
		Prev2: append([]float64(nil), h.Prev2...),
	}
}

// Snapshot is the read-only context every objective evaluates against. It is built once per planning cycle and
// shared by all objectives and goroutines; nothing mutates it after NewSnapshot returns.
type Snapshot struct {
	model     referenceframe.Model
	limits    []referenceframe.Limit
	goals     Goals
	env       Environment
	history   History
	predictor Predictor
}

// SnapshotOption configures optional parts of a Snapshot.
type SnapshotOption func(*Snapshot)

// WithPredictor attaches the learned self collision predictor.
func WithPredictor(p Predictor) SnapshotOption {
	return func(s *Snapshot) {
		s.predictor = p
	}
}

// WithEnvironment sets the obstacle scene and link radius.
func WithEnvironment(env Environment) SnapshotOption {
	return func(s *Snapshot) {
		s.env = Environment{
			LinkRadius: env.LinkRadius,
			Obstacles:  append([]spatialmath.Geometry(nil), env.Obstacles...),
		}
	}
}

// NewSnapshot validates and freezes the evaluation context. Goal orientations that are not unit length are normalized
// with a warning; a zero goal orientation, a goal count that does not match the number of arms, bad joint limits or a
// history of the wrong length are all rejected.
func NewSnapshot(
	model referenceframe.Model,
	goals Goals,
	history History,
	logger logging.Logger,
	opts ...SnapshotOption,
) (*Snapshot, error) {
	if model == nil {
		return nil, errNilModel
	}
	snap := &Snapshot{
		model:   model,
		limits:  append([]referenceframe.Limit(nil), model.DoF()...),
		history: history.copy(),
	}
	for _, opt := range opts {
		opt(snap)
	}

	var err error
	numArms := model.NumArms()
	if len(goals.Positions) != numArms {
		err = multierr.Append(err, NewGoalCountError("positions", len(goals.Positions), numArms))
	}
	if len(goals.Orientations) != numArms {
		err = multierr.Append(err, NewGoalCountError("orientations", len(goals.Orientations), numArms))
	}
	err = multierr.Append(err, referenceframe.ValidateLimits(snap.limits))

	snap.goals.Positions = append([]r3.Vector(nil), goals.Positions...)
	snap.goals.Orientations = make([]quat.Number, 0, len(goals.Orientations))
	for i, q := range goals.Orientations {
		switch {
		case quat.Abs(q) == 0 || !utils.IsFinite(quat.Abs(q)):
			err = multierr.Append(err, errors.Errorf("goal orientation %d is not a valid rotation: %v", i, q))
		case !spatialmath.IsUnitQuaternion(q):
			logger.Warnw("normalizing non-unit goal orientation", "arm", i, "norm", quat.Abs(q))
			q = spatialmath.Normalize(q)
		}
		snap.goals.Orientations = append(snap.goals.Orientations, q)
	}

	dof := len(snap.limits)
	err = multierr.Combine(
		err,
		checkLen("x_opt", snap.history.XOpt, dof),
		checkLen("prev", snap.history.Prev, dof),
		checkLen("prev2", snap.history.Prev2, dof),
	)

	if snap.predictor != nil {
		err = multierr.Append(err, checkPredictor(snap.predictor, dof))
	}
	if snap.env.LinkRadius < 0 || !utils.IsFinite(snap.env.LinkRadius) {
		err = multierr.Append(err, errors.Errorf("link radius must be a non-negative finite number, got %v", snap.env.LinkRadius))
	}
	for i, g := range snap.env.Obstacles {
		if g == nil {
			err = multierr.Append(err, errors.Errorf("obstacle %d is nil", i))
		}
	}
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// WithHistory returns a copy of the snapshot carrying a new temporal history. The receiver is left untouched.
func (s *Snapshot) WithHistory(h History) (*Snapshot, error) {
	dof := len(s.limits)
	if err := multierr.Combine(
		checkLen("x_opt", h.XOpt, dof),
		checkLen("prev", h.Prev, dof),
		checkLen("prev2", h.Prev2, dof),
	); err != nil {
		return nil, err
	}
	cp := *s
	cp.history = h.copy()
	return &cp, nil
}

// WithGoals returns a copy of the snapshot aimed at new goals. Validation matches NewSnapshot.
func (s *Snapshot) WithGoals(goals Goals, logger logging.Logger) (*Snapshot, error) {
	opts := []SnapshotOption{WithEnvironment(s.env)}
	if s.predictor != nil {
		opts = append(opts, WithPredictor(s.predictor))
	}
	return NewSnapshot(s.model, goals, s.history, logger, opts...)
}

func checkLen(name string, x []float64, dof int) error {
	if len(x) != dof {
		return NewHistoryLengthError(name, len(x), dof)
	}
	return nil
}

// Model returns the robot model.
func (s *Snapshot) Model() referenceframe.Model {
	return s.model
}

// Limits returns the joint limits. Callers must not modify the returned slice.
func (s *Snapshot) Limits() []referenceframe.Limit {
	return s.limits
}

// DoF is the length of every joint vector evaluated against this snapshot.
func (s *Snapshot) DoF() int {
	return len(s.limits)
}

// NumArms is the number of arms in the model.
func (s *Snapshot) NumArms() int {
	return s.model.NumArms()
}

// GoalPosition returns the target position of arm.
func (s *Snapshot) GoalPosition(arm int) r3.Vector {
	return s.goals.Positions[arm]
}

// GoalOrientation returns the unit target orientation of arm.
func (s *Snapshot) GoalOrientation(arm int) quat.Number {
	return s.goals.Orientations[arm]
}

// Environment returns the obstacle scene. Callers must not modify the returned obstacle slice.
func (s *Snapshot) Environment() Environment {
	return s.env
}

// History returns the temporal history. Callers must not modify the returned slices.
func (s *Snapshot) History() History {
	return s.history
}

// Predictor returns the self collision predictor, or nil if none was attached.
func (s *Snapshot) Predictor() Predictor {
	return s.predictor
}
