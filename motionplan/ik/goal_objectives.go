package ik

import (
	"fmt"

	"go.viam.com/grooveik/referenceframe"
)

// PositionMatch pulls the end effector of one arm toward its goal position.
type PositionMatch struct {
	arm   int
	shape GrooveParams
}

// NewPositionMatch returns the position objective for arm.
func NewPositionMatch(arm int, cfg GoalConfig) *PositionMatch {
	return &PositionMatch{arm: arm, shape: cfg.Shape}
}

// Name implements Objective.
func (o *PositionMatch) Name() string {
	return fmt.Sprintf("position_match[%d]", o.arm)
}

// Evaluate implements Objective.
func (o *PositionMatch) Evaluate(_ []float64, snap *Snapshot, frames []referenceframe.LinkFrames) float64 {
	return o.shape.Loss(PositionError(frames[o.arm].EndEffector().Position, snap.GoalPosition(o.arm)))
}

// EvaluateLite implements Objective.
func (o *PositionMatch) EvaluateLite(_ []float64, snap *Snapshot, poses []referenceframe.EndEffectorPose) float64 {
	return o.shape.Loss(PositionError(poses[o.arm].Position, snap.GoalPosition(o.arm)))
}

// GradientKind implements Objective.
func (o *PositionMatch) GradientKind() GradientKind {
	return FiniteDifference
}

// OrientationMatch pulls the end effector of one arm toward its goal orientation.
type OrientationMatch struct {
	arm   int
	shape GrooveParams
}

// NewOrientationMatch returns the orientation objective for arm.
func NewOrientationMatch(arm int, cfg GoalConfig) *OrientationMatch {
	return &OrientationMatch{arm: arm, shape: cfg.Shape}
}

// Name implements Objective.
func (o *OrientationMatch) Name() string {
	return fmt.Sprintf("orientation_match[%d]", o.arm)
}

// Evaluate implements Objective.
func (o *OrientationMatch) Evaluate(_ []float64, snap *Snapshot, frames []referenceframe.LinkFrames) float64 {
	return o.shape.Loss(OrientationError(frames[o.arm].EndEffector().Orientation, snap.GoalOrientation(o.arm)))
}

// EvaluateLite implements Objective.
func (o *OrientationMatch) EvaluateLite(_ []float64, snap *Snapshot, poses []referenceframe.EndEffectorPose) float64 {
	return o.shape.Loss(OrientationError(poses[o.arm].Orientation, snap.GoalOrientation(o.arm)))
}

// GradientKind implements Objective.
func (o *OrientationMatch) GradientKind() GradientKind {
	return FiniteDifference
}
