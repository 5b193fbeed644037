package referenceframe

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/grooveik/spatialmath"
)

// Model turns a joint vector into the geometry of every arm. Implementations must be safe for concurrent use: the
// finite difference gradient calls Frames and EndEffectorPoses from several goroutines at once.
type Model interface {
	Name() string

	// DoF returns one limit per joint value, across all arms, in the order the joint vector is laid out.
	DoF() []Limit

	// NumArms is the number of independent chains the model describes.
	NumArms() int

	// Frames returns the link frames of every arm for the joint vector x. len(x) must equal len(DoF()).
	Frames(x []float64) []LinkFrames

	// EndEffectorPoses returns only the tip pose of every arm for the joint vector x.
	EndEffectorPoses(x []float64) []EndEffectorPose
}

// CheckInputs verifies that x has one value per degree of freedom of m.
func CheckInputs(m Model, x []float64) error {
	if len(x) != len(m.DoF()) {
		return NewIncorrectDoFError(len(x), len(m.DoF()))
	}
	return nil
}

// JointType is the kind of motion a joint allows.
type JointType string

// The supported joint types.
const (
	RevoluteJoint  = JointType("revolute")
	PrismaticJoint = JointType("prismatic")
)

// Joint is one actuated degree of freedom. Offset is the fixed transform from the previous frame to the joint, applied
// before the joint's own motion.
type Joint struct {
	ID     string
	Type   JointType
	Axis   r3.Vector
	Limit  Limit
	Offset spatialmath.Pose
}

// Chain is a single serial arm.
type Chain struct {
	Name   string
	Base   spatialmath.Pose
	Joints []Joint
	// Tool, when set, is a fixed transform from the last joint to the end effector and adds one frame to the chain.
	Tool spatialmath.Pose
}

// SerialChain is a Model made of independent serial arms. The joint vector holds the values of the first arm's
// joints, then the second's, and so on.
type SerialChain struct {
	name   string
	chains []Chain
	limits []Limit
	// offsets[i] is the index in the joint vector of the first joint of chain i.
	offsets []int
}

// NewSerialChain validates the chains and builds a model from them. Axes are normalized.
func NewSerialChain(name string, chains ...Chain) (*SerialChain, error) {
	if len(chains) == 0 {
		return nil, errors.New("a model needs at least one chain")
	}
	chains = append([]Chain(nil), chains...)
	m := &SerialChain{name: name}
	var err error
	for ci, c := range chains {
		if c.Base == nil {
			c.Base = spatialmath.NewZeroPose()
		}
		joints := make([]Joint, len(c.Joints))
		for ji, j := range c.Joints {
			switch j.Type {
			case RevoluteJoint, PrismaticJoint:
			default:
				err = multierr.Append(err, NewUnsupportedJointTypeError(string(j.Type)))
			}
			if j.Axis.Norm2() == 0 {
				err = multierr.Append(err, NewZeroAxisError(j.ID))
			} else {
				j.Axis = j.Axis.Normalize()
			}
			if j.Offset == nil {
				j.Offset = spatialmath.NewZeroPose()
			}
			joints[ji] = j
			m.limits = append(m.limits, j.Limit)
		}
		c.Joints = joints
		chains[ci] = c
		m.offsets = append(m.offsets, len(m.limits)-len(joints))
	}
	err = multierr.Append(err, ValidateLimits(m.limits))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid model %q", name)
	}
	m.chains = chains
	return m, nil
}

// Name returns the name of this model.
func (m *SerialChain) Name() string {
	return m.name
}

// DoF returns the limits of every joint of every chain.
func (m *SerialChain) DoF() []Limit {
	return m.limits
}

// NumArms returns the number of chains.
func (m *SerialChain) NumArms() int {
	return len(m.chains)
}

// Frames returns the base frame, one frame per joint and the tool frame if any, for every chain.
func (m *SerialChain) Frames(x []float64) []LinkFrames {
	out := make([]LinkFrames, len(m.chains))
	for ci := range m.chains {
		c := &m.chains[ci]
		n := len(c.Joints) + 1
		if c.Tool != nil {
			n++
		}
		lf := LinkFrames{Positions: make([]r3.Vector, 0, n), Orientations: make([]quat.Number, 0, n)}
		m.walk(ci, x, func(p r3.Vector, q quat.Number) {
			lf.Positions = append(lf.Positions, p)
			lf.Orientations = append(lf.Orientations, q)
		})
		out[ci] = lf
	}
	return out
}

// EndEffectorPoses returns the pose of the last frame of every chain.
func (m *SerialChain) EndEffectorPoses(x []float64) []EndEffectorPose {
	out := make([]EndEffectorPose, len(m.chains))
	for ci := range m.chains {
		m.walk(ci, x, func(p r3.Vector, q quat.Number) {
			out[ci] = EndEffectorPose{Position: p, Orientation: q}
		})
	}
	return out
}

// walk composes the transforms of chain ci from its base outward, calling visit with every frame in order.
func (m *SerialChain) walk(ci int, x []float64, visit func(r3.Vector, quat.Number)) {
	c := &m.chains[ci]
	cur := c.Base
	visit(cur.Point(), cur.Orientation().Quaternion())

	xs := x[m.offsets[ci] : m.offsets[ci]+len(c.Joints)]
	for ji := range c.Joints {
		j := &c.Joints[ji]
		var motion spatialmath.Pose
		switch j.Type {
		case RevoluteJoint:
			motion = spatialmath.NewPoseFromOrientation(spatialmath.NewR4AAFromAxis(j.Axis, xs[ji]))
		case PrismaticJoint:
			motion = spatialmath.NewPoseFromPoint(j.Axis.Mul(xs[ji]))
		}
		cur = spatialmath.Compose(spatialmath.Compose(cur, j.Offset), motion)
		visit(cur.Point(), cur.Orientation().Quaternion())
	}
	if c.Tool != nil {
		cur = spatialmath.Compose(cur, c.Tool)
		visit(cur.Point(), cur.Orientation().Quaternion())
	}
}
