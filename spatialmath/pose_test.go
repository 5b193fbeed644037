package spatialmath

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestCompose(t *testing.T) {
	base := NewPose(r3.Vector{X: 1}, NewR4AAFromAxis(r3.Vector{Z: 3}, math.Pi/2))
	child := NewPose(r3.Vector{X: 2}, NewR4AAFromAxis(r3.Vector{Z: 1}, math.Pi/2))
	composed := Compose(base, child)
	test.That(t, R3VectorAlmostEqual(composed.Point(), r3.Vector{X: 1, Y: 2}, 1e-9), test.ShouldBeTrue)
	expected := NewPose(r3.Vector{X: 1, Y: 2}, NewR4AAFromAxis(r3.Vector{Z: 1}, math.Pi))
	test.That(t, PoseAlmostEqual(composed, expected), test.ShouldBeTrue)

	test.That(t, PoseAlmostEqual(Compose(NewZeroPose(), child), child), test.ShouldBeTrue)
	test.That(t, PoseAlmostEqual(Compose(child, NewZeroPose()), child), test.ShouldBeTrue)
}

func TestPoseAlmostEqualDoubleCover(t *testing.T) {
	a := NewPose(r3.Vector{}, NewOrientationFromQuaternion(quarterTurnZ))
	b := NewPose(r3.Vector{}, NewOrientationFromQuaternion(Negate(quarterTurnZ)))
	test.That(t, PoseAlmostEqual(a, b), test.ShouldBeTrue)
	test.That(t, PoseAlmostEqual(a, NewZeroPose()), test.ShouldBeFalse)
	test.That(t, PoseAlmostEqual(NewPose(r3.Vector{X: 1}, nil), NewPoseFromPoint(r3.Vector{X: 1})), test.ShouldBeTrue)
}
