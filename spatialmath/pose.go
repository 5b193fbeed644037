package spatialmath

import (
	"fmt"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/grooveik/utils"
)

// Pose represents a 6dof pose, position and orientation, with respect to the origin.
// The Point() method returns the position in (x,y,z) and the Orientation() method returns the orientation.
type Pose interface {
	Point() r3.Vector
	Orientation() Orientation
}

// pose stores the translation and a unit quaternion rotation.
type pose struct {
	point r3.Vector
	q     quat.Number
}

// NewZeroPose returns a pose at (0,0,0) with same orientation as whatever frame it is placed in.
func NewZeroPose() Pose {
	return &pose{q: quat.Number{Real: 1}}
}

// NewPose takes in a position and orientation and returns a Pose. A nil orientation is the zero orientation.
func NewPose(p r3.Vector, o Orientation) Pose {
	if o == nil {
		return NewPoseFromPoint(p)
	}
	return &pose{point: p, q: Normalize(o.Quaternion())}
}

// NewPoseFromPoint takes in a cartesian (x,y,z) and stores it as a vector.
// It will have the same orientation as the frame it is in.
func NewPoseFromPoint(point r3.Vector) Pose {
	return &pose{point: point, q: quat.Number{Real: 1}}
}

// NewPoseFromOrientation returns a pose at the origin with the given orientation.
func NewPoseFromOrientation(o Orientation) Pose {
	return NewPose(r3.Vector{}, o)
}

func (p *pose) Point() r3.Vector {
	return p.point
}

func (p *pose) Orientation() Orientation {
	q := quaternion(p.q)
	return &q
}

func (p *pose) String() string {
	return fmt.Sprintf("{X:%.3f Y:%.3f Z:%.3f | W:%.4f I:%.4f J:%.4f K:%.4f}",
		p.point.X, p.point.Y, p.point.Z, p.q.Real, p.q.Imag, p.q.Jmag, p.q.Kmag)
}

// Compose returns the result of applying b in the frame of a, so Compose(a, b).Point() is a applied to b's point.
func Compose(a, b Pose) Pose {
	qa := a.Orientation().Quaternion()
	return &pose{
		point: a.Point().Add(RotateVector(qa, b.Point())),
		q:     Normalize(quat.Mul(qa, b.Orientation().Quaternion())),
	}
}

// PoseAlmostEqual will return a bool describing whether 2 poses are approximately the same.
func PoseAlmostEqual(a, b Pose) bool {
	return PoseAlmostEqualEps(a, b, 1e-6)
}

// PoseAlmostEqualEps will return a bool describing whether 2 poses are approximately the same, with a given epsilon.
// Orientations are compared up to sign.
func PoseAlmostEqualEps(a, b Pose, epsilon float64) bool {
	if !R3VectorAlmostEqual(a.Point(), b.Point(), epsilon) {
		return false
	}
	return ShortestAngleBetween(a.Orientation().Quaternion(), b.Orientation().Quaternion()) <= epsilon
}

// R3VectorAlmostEqual compares two r3.Vector objects and returns if the all elementwise differences are less than
// epsilon.
func R3VectorAlmostEqual(a, b r3.Vector, epsilon float64) bool {
	return utils.Float64AlmostEqual(a.X, b.X, epsilon) &&
		utils.Float64AlmostEqual(a.Y, b.Y, epsilon) &&
		utils.Float64AlmostEqual(a.Z, b.Z, epsilon)
}
