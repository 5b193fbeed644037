package spatialmath

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"gonum.org/v1/gonum/num/quat"
)

func TestEulerAnglesConvention(t *testing.T) {
	roll := (&R4AA{Theta: 0.4, RX: 1}).ToQuat()
	pitch := (&R4AA{Theta: -0.7, RY: 1}).ToQuat()
	yaw := (&R4AA{Theta: 1.9, RZ: 1}).ToQuat()
	expected := quat.Mul(yaw, quat.Mul(pitch, roll))

	ea := &EulerAngles{Roll: 0.4, Pitch: -0.7, Yaw: 1.9}
	test.That(t, QuaternionAlmostEqual(ea.Quaternion(), expected, 1e-9), test.ShouldBeTrue)

	rolled := RotateVector((&EulerAngles{Roll: math.Pi / 2}).Quaternion(), r3.Vector{Y: 1})
	test.That(t, R3VectorAlmostEqual(rolled, r3.Vector{Z: 1}, 1e-9), test.ShouldBeTrue)
}

func TestAxisAngleRoundTrip(t *testing.T) {
	aa := QuatToR4AA(quarterTurnZ)
	test.That(t, aa.Theta, test.ShouldAlmostEqual, math.Pi/2)
	test.That(t, aa.RZ, test.ShouldAlmostEqual, 1)
	test.That(t, QuaternionAlmostEqual(aa.ToQuat(), quarterTurnZ, 1e-9), test.ShouldBeTrue)

	// the negated quaternion maps onto the same axis angle
	neg := QuatToR4AA(Negate(quarterTurnZ))
	test.That(t, neg.Theta, test.ShouldAlmostEqual, math.Pi/2)
	test.That(t, neg.RZ, test.ShouldAlmostEqual, 1)

	test.That(t, QuatToR4AA(quat.Number{Real: 1}), test.ShouldResemble, R4AA{RZ: 1})
	test.That(t, (&R4AA{Theta: 1}).ToQuat(), test.ShouldResemble, quat.Number{Real: 1})
}

func TestRotationMatrixRows(t *testing.T) {
	rm := QuatToRotationMatrix(quarterTurnZ)
	test.That(t, R3VectorAlmostEqual(rm.Row(0), r3.Vector{Y: 1}, 1e-12), test.ShouldBeTrue)
	test.That(t, R3VectorAlmostEqual(rm.Row(1), r3.Vector{X: -1}, 1e-12), test.ShouldBeTrue)
	test.That(t, R3VectorAlmostEqual(rm.Row(2), r3.Vector{Z: 1}, 1e-12), test.ShouldBeTrue)
	test.That(t, rm.At(0, 1), test.ShouldAlmostEqual, 1)
}

func TestOrientationBetween(t *testing.T) {
	a := &EulerAngles{Yaw: 0.5}
	b := &EulerAngles{Yaw: 1.25}
	diff := OrientationBetween(a, b)
	test.That(t, diff.AxisAngles().Theta, test.ShouldAlmostEqual, 0.75)
	test.That(t, OrientationAlmostEqual(NewOrientationFromQuaternion(quat.Number{Real: 3}), NewZeroOrientation()), test.ShouldBeTrue)
}

func TestParseOrientation(t *testing.T) {
	o, err := ParseOrientation(RawOrientation{})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, o.Quaternion(), test.ShouldResemble, quat.Number{Real: 1})

	o, err = ParseOrientation(RawOrientation{Type: EulerAnglesType, Value: json.RawMessage(`{"yaw": 1.5707963267948966}`)})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, QuaternionAlmostEqual(o.Quaternion(), quarterTurnZ, 1e-9), test.ShouldBeTrue)

	o, err = ParseOrientation(RawOrientation{Type: QuaternionType, Value: json.RawMessage(`{"w": 2, "x": 0, "y": 0, "z": 0}`)})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, o.Quaternion(), test.ShouldResemble, quat.Number{Real: 1})

	_, err = ParseOrientation(RawOrientation{Type: QuaternionType, Value: json.RawMessage(`{"w": 0}`)})
	test.That(t, err, test.ShouldNotBeNil)

	_, err = ParseOrientation(RawOrientation{Type: "oiler_angles"})
	test.That(t, err.Error(), test.ShouldEqual, "orientation type oiler_angles not recognized")

	raw, err := OrientationMap(&R4AA{Theta: 1, RX: 1})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, raw.Type, test.ShouldEqual, AxisAnglesType)
	back, err := ParseOrientation(raw)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, back, test.ShouldResemble, &R4AA{Theta: 1, RX: 1})
}
