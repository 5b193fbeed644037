package ik

import (
	"fmt"

	"go.viam.com/grooveik/referenceframe"
)

// SelfCollision shapes the proxy distance of the snapshot's learned predictor. Its gradient is the predictor's own
// gradient scaled by the slope of the groove, so no kinematics are re-run to differentiate it.
type SelfCollision struct {
	shape GrooveParams
}

// NewSelfCollision returns the self collision objective.
func NewSelfCollision(cfg SelfCollisionConfig) *SelfCollision {
	return &SelfCollision{shape: cfg.Shape}
}

// Name implements Objective.
func (o *SelfCollision) Name() string {
	return "self_collision"
}

// Evaluate implements Objective.
func (o *SelfCollision) Evaluate(x []float64, snap *Snapshot, _ []referenceframe.LinkFrames) float64 {
	return o.shape.Loss(snap.Predictor().Predict(x))
}

// EvaluateLite implements Objective.
func (o *SelfCollision) EvaluateLite(x []float64, snap *Snapshot, _ []referenceframe.EndEffectorPose) float64 {
	return o.shape.Loss(snap.Predictor().Predict(x))
}

// GradientKind implements Objective.
func (o *SelfCollision) GradientKind() GradientKind {
	return Analytic
}

// AnalyticGradient implements AnalyticObjective.
func (o *SelfCollision) AnalyticGradient(x []float64, snap *Snapshot, _ []referenceframe.LinkFrames) CostSample {
	return o.chainRule(x, snap)
}

// AnalyticGradientLite implements AnalyticObjective. The predictor only looks at x so both paths agree.
func (o *SelfCollision) AnalyticGradientLite(x []float64, snap *Snapshot, _ []referenceframe.EndEffectorPose) CostSample {
	return o.chainRule(x, snap)
}

func (o *SelfCollision) chainRule(x []float64, snap *Snapshot) CostSample {
	proxy, raw := snap.Predictor().Gradient(x)
	slope := o.shape.Derivative(proxy)
	grad := make([]float64, len(raw))
	for i, g := range raw {
		grad[i] = g * slope
	}
	return CostSample{Cost: o.shape.Loss(proxy), Gradient: grad}
}

// EnvCollision keeps the links of one arm away from the snapshot's obstacles.
type EnvCollision struct {
	arm int
	cfg EnvCollisionConfig
}

// NewEnvCollision returns the environment collision objective for arm.
func NewEnvCollision(arm int, cfg EnvCollisionConfig) *EnvCollision {
	return &EnvCollision{arm: arm, cfg: cfg}
}

// Name implements Objective.
func (o *EnvCollision) Name() string {
	return fmt.Sprintf("env_collision[%d]", o.arm)
}

// Evaluate implements Objective.
func (o *EnvCollision) Evaluate(_ []float64, snap *Snapshot, frames []referenceframe.LinkFrames) float64 {
	return o.cfg.Shape.Loss(EnvCollisionPenalty(frames[o.arm], snap.Environment(), o.cfg))
}

// EvaluateLite implements Objective. End effector poses carry no link geometry, so the lite path always reports the
// configured stand-in and never steers around obstacles.
func (o *EnvCollision) EvaluateLite(_ []float64, _ *Snapshot, _ []referenceframe.EndEffectorPose) float64 {
	return o.cfg.Shape.Loss(o.cfg.LiteValue)
}

// GradientKind implements Objective.
func (o *EnvCollision) GradientKind() GradientKind {
	return FiniteDifference
}
