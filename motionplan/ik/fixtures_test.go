package ik

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.uber.org/goleak"
	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/grooveik/logging"
	"go.viam.com/grooveik/ml/collisionnn"
	"go.viam.com/grooveik/referenceframe"
	"go.viam.com/grooveik/spatialmath"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var identity = quat.Number{Real: 1}

// planarArm is a two link arm in the XY plane with unit links, reaching (2, 0, 0) at rest.
func planarArm(t *testing.T) *referenceframe.SerialChain {
	t.Helper()
	m, err := referenceframe.NewSerialChain("planar", referenceframe.Chain{
		Name: "arm",
		Joints: []referenceframe.Joint{
			{
				ID: "shoulder", Type: referenceframe.RevoluteJoint, Axis: r3.Vector{Z: 1},
				Limit: referenceframe.Limit{Min: -math.Pi, Max: math.Pi},
			},
			{
				ID: "elbow", Type: referenceframe.RevoluteJoint, Axis: r3.Vector{Z: 1},
				Limit:  referenceframe.Limit{Min: -math.Pi, Max: math.Pi},
				Offset: spatialmath.NewPoseFromPoint(r3.Vector{X: 1}),
			},
		},
		Tool: spatialmath.NewPoseFromPoint(r3.Vector{X: 1}),
	})
	test.That(t, err, test.ShouldBeNil)
	return m
}

// slider is a single prismatic joint with limits [-1, 1].
func slider(t *testing.T) *referenceframe.SerialChain {
	t.Helper()
	m, err := referenceframe.NewSerialChain("slider", referenceframe.Chain{
		Name: "rail",
		Joints: []referenceframe.Joint{{
			ID: "carriage", Type: referenceframe.PrismaticJoint, Axis: r3.Vector{X: 1},
			Limit: referenceframe.Limit{Min: -1, Max: 1},
		}},
	})
	test.That(t, err, test.ShouldBeNil)
	return m
}

func planarOffset(length float64) spatialmath.Pose {
	return spatialmath.NewPoseFromPoint(r3.Vector{X: length})
}

// fixedModel returns the same frames for every input. It lets tests place links exactly.
type fixedModel struct {
	limits []referenceframe.Limit
	frames []referenceframe.LinkFrames
}

func (m *fixedModel) Name() string { return "fixed" }
func (m *fixedModel) DoF() []referenceframe.Limit { return m.limits }
func (m *fixedModel) NumArms() int { return len(m.frames) }
func (m *fixedModel) Frames([]float64) []referenceframe.LinkFrames { return m.frames }
func (m *fixedModel) EndEffectorPoses([]float64) []referenceframe.EndEffectorPose {
	return referenceframe.EndEffectors(m.frames)
}

func straightLink(from, to r3.Vector) referenceframe.LinkFrames {
	return referenceframe.LinkFrames{
		Positions:    []r3.Vector{from, to},
		Orientations: []quat.Number{identity, identity},
	}
}

// restGoals aims every arm of m at the pose it has at x.
func restGoals(m referenceframe.Model, x []float64) Goals {
	var goals Goals
	for _, p := range m.EndEffectorPoses(x) {
		goals.Positions = append(goals.Positions, p.Position)
		goals.Orientations = append(goals.Orientations, p.Orientation)
	}
	return goals
}

func newTestSnapshot(t *testing.T, m referenceframe.Model, goals Goals, x0 []float64, opts ...SnapshotOption) *Snapshot {
	t.Helper()
	snap, err := NewSnapshot(m, goals, NewHistory(x0), logging.NewTestLogger(t), opts...)
	test.That(t, err, test.ShouldBeNil)
	return snap
}

// quadraticPredictor reports 0.5 + sum((x_i - 0.3)^2) as the proxy distance.
type quadraticPredictor struct{}

func (quadraticPredictor) Predict(x []float64) float64 {
	y, _ := quadraticPredictor{}.Gradient(x)
	return y
}

func (quadraticPredictor) Gradient(x []float64) (float64, []float64) {
	y := 0.5
	grad := make([]float64, len(x))
	for i, v := range x {
		y += (v - 0.3) * (v - 0.3)
		grad[i] = 2 * (v - 0.3)
	}
	return y, grad
}

// twoInputNet is a small ReLU network over two joints. Both hidden units are active near (1, 0.5).
func twoInputNet(t *testing.T) *collisionnn.MLP {
	t.Helper()
	m, err := collisionnn.NewMLP([]collisionnn.Layer{
		{Weights: mat.NewDense(2, 2, []float64{1, -1, 2, 1}), Bias: mat.NewVecDense(2, []float64{0, -1})},
		{Weights: mat.NewDense(1, 2, []float64{3, -2}), Bias: mat.NewVecDense(1, []float64{0.5})},
	})
	test.That(t, err, test.ShouldBeNil)
	return m
}
