package ik

import (
	"go.viam.com/grooveik/referenceframe"
)

// GradientKind tells the caller how an objective's gradient is produced, so finite difference terms can be batched
// separately from the cheap analytic ones.
type GradientKind int

const (
	// FiniteDifference gradients perturb one joint at a time and re-run the kinematics for every perturbation.
	FiniteDifference GradientKind = iota
	// Analytic gradients are computed in closed form without extra kinematics calls.
	Analytic
)

func (k GradientKind) String() string {
	switch k {
	case FiniteDifference:
		return "finite_difference"
	case Analytic:
		return "analytic"
	default:
		return "unknown"
	}
}

// CostSample is the shaped cost of one objective and, when requested, its gradient with one entry per joint.
type CostSample struct {
	Cost     float64
	Gradient []float64
}

// Objective is one cost term. Implementations never mutate their arguments and are safe to call concurrently with
// the same snapshot.
type Objective interface {
	// Name identifies the objective, including its arm where it has one, e.g. "position_match[0]".
	Name() string

	// Evaluate scores x given the link frames of every arm computed from x.
	Evaluate(x []float64, snap *Snapshot, frames []referenceframe.LinkFrames) float64

	// EvaluateLite scores x given only the end effector pose of every arm.
	EvaluateLite(x []float64, snap *Snapshot, poses []referenceframe.EndEffectorPose) float64

	// GradientKind reports whether the objective supplies its own gradient.
	GradientKind() GradientKind
}

// AnalyticObjective is an Objective with a closed form gradient. Objectives implementing it report Analytic from
// GradientKind.
type AnalyticObjective interface {
	Objective
	AnalyticGradient(x []float64, snap *Snapshot, frames []referenceframe.LinkFrames) CostSample
	AnalyticGradientLite(x []float64, snap *Snapshot, poses []referenceframe.EndEffectorPose) CostSample
}
