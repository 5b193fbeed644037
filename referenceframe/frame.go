// Package referenceframe describes the kinematic structure the cost layer evaluates against: joint limits, the link
// frames of each arm and the model contract that turns a joint vector into them.
package referenceframe

import (
	"github.com/golang/geo/r3"
	"go.uber.org/multierr"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/grooveik/utils"
)

// Limit represents the limits of motion for a single degree of freedom.
type Limit struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Range returns Max - Min.
func (l Limit) Range() float64 {
	return l.Max - l.Min
}

// ValidateLimits checks that every limit has a finite, non-empty range. Equal bounds would divide by zero when
// normalizing a joint value, so they are rejected here instead of at evaluation time.
func ValidateLimits(limits []Limit) error {
	var err error
	for i, l := range limits {
		if !utils.IsFinite(l.Min) || !utils.IsFinite(l.Max) || !(l.Min < l.Max) {
			err = multierr.Append(err, NewBadLimitError(i, l))
		}
	}
	return err
}

// LinkFrames holds the frames of one arm, ordered from the base to the tip. Positions[i] and Orientations[i] describe
// the same frame, and the last entry is the end effector.
type LinkFrames struct {
	Positions    []r3.Vector
	Orientations []quat.Number
}

// Len returns the number of frames in the chain.
func (lf LinkFrames) Len() int {
	return len(lf.Positions)
}

// EndEffector returns the pose of the last frame of the chain.
func (lf LinkFrames) EndEffector() EndEffectorPose {
	n := len(lf.Positions) - 1
	return EndEffectorPose{Position: lf.Positions[n], Orientation: lf.Orientations[n]}
}

// EndEffectorPose is the position and unit orientation of the tip of one arm.
type EndEffectorPose struct {
	Position    r3.Vector
	Orientation quat.Number
}

// EndEffectors projects full link frame sets down to their end effector poses.
func EndEffectors(frames []LinkFrames) []EndEffectorPose {
	poses := make([]EndEffectorPose, 0, len(frames))
	for _, f := range frames {
		poses = append(poses, f.EndEffector())
	}
	return poses
}
