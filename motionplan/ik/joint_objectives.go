package ik

import (
	"go.viam.com/grooveik/referenceframe"
)

// JointLimits keeps every joint away from the ends of its range. The lite path uses a tighter cutoff than the full
// path.
type JointLimits struct {
	cfg JointLimitsConfig
}

// NewJointLimits returns the joint limit objective.
func NewJointLimits(cfg JointLimitsConfig) *JointLimits {
	return &JointLimits{cfg: cfg}
}

// Name implements Objective.
func (o *JointLimits) Name() string {
	return "joint_limits"
}

// Evaluate implements Objective.
func (o *JointLimits) Evaluate(x []float64, snap *Snapshot, _ []referenceframe.LinkFrames) float64 {
	return o.cfg.Shape.Loss(JointLimitPenalty(x, snap.Limits(), o.cfg.Scale, o.cfg.FullCutoff, o.cfg.Power))
}

// EvaluateLite implements Objective.
func (o *JointLimits) EvaluateLite(x []float64, snap *Snapshot, _ []referenceframe.EndEffectorPose) float64 {
	return o.cfg.Shape.Loss(JointLimitPenalty(x, snap.Limits(), o.cfg.Scale, o.cfg.LiteCutoff, o.cfg.Power))
}

// GradientKind implements Objective.
func (o *JointLimits) GradientKind() GradientKind {
	return FiniteDifference
}

// temporalError measures how far x departs from a smooth continuation of the history.
type temporalError func(x []float64, h History) float64

// Smoothness penalizes one order of finite difference across the candidate and the history. Both evaluation paths
// are identical since neither needs kinematics.
type Smoothness struct {
	name  string
	shape GrooveParams
	err   temporalError
}

// NewMinVelocity returns the objective penalizing |x - xopt|.
func NewMinVelocity(cfg SmoothnessConfig) *Smoothness {
	return &Smoothness{name: "min_velocity", shape: cfg.Shape, err: VelocityError}
}

// NewMinAcceleration returns the objective penalizing the second difference of x and the history.
func NewMinAcceleration(cfg SmoothnessConfig) *Smoothness {
	return &Smoothness{name: "min_acceleration", shape: cfg.Shape, err: AccelerationError}
}

// NewMinJerk returns the objective penalizing the third difference of x and the history.
func NewMinJerk(cfg SmoothnessConfig) *Smoothness {
	return &Smoothness{name: "min_jerk", shape: cfg.Shape, err: JerkError}
}

// Name implements Objective.
func (o *Smoothness) Name() string {
	return o.name
}

// Evaluate implements Objective.
func (o *Smoothness) Evaluate(x []float64, snap *Snapshot, _ []referenceframe.LinkFrames) float64 {
	return o.shape.Loss(o.err(x, snap.History()))
}

// EvaluateLite implements Objective.
func (o *Smoothness) EvaluateLite(x []float64, snap *Snapshot, _ []referenceframe.EndEffectorPose) float64 {
	return o.shape.Loss(o.err(x, snap.History()))
}

// GradientKind implements Objective.
func (o *Smoothness) GradientKind() GradientKind {
	return FiniteDifference
}
