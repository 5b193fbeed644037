package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// unitTolerance is how far from 1 a quaternion magnitude may drift before it is no longer treated as unit.
const unitTolerance = 1e-9

// Normalize returns q scaled to unit magnitude. The zero quaternion has no direction and is returned unchanged.
func Normalize(q quat.Number) quat.Number {
	norm := quat.Abs(q)
	if norm == 0 {
		return q
	}
	return quat.Scale(1/norm, q)
}

// IsUnitQuaternion reports whether q has magnitude 1 within a small tolerance.
func IsUnitQuaternion(q quat.Number) bool {
	return math.Abs(quat.Abs(q)-1) <= unitTolerance
}

// Negate returns -q. A unit quaternion and its negation encode the same rotation.
func Negate(q quat.Number) quat.Number {
	return quat.Scale(-1, q)
}

// QuaternionAlmostEqual is an equality test for all the float components of a quaternion. Quaternions have double
// coverage, q == -q, and this function will *not* account for that. Use only if you're certain that the orientations
// share the same sign, or use OrientationAlmostEqual.
func QuaternionAlmostEqual(a, b quat.Number, tol float64) bool {
	return math.Abs(a.Real-b.Real) < tol &&
		math.Abs(a.Imag-b.Imag) < tol &&
		math.Abs(a.Jmag-b.Jmag) < tol &&
		math.Abs(a.Kmag-b.Kmag) < tol
}

// RotateVector rotates v by the unit quaternion q.
func RotateVector(q quat.Number, v r3.Vector) r3.Vector {
	p := quat.Mul(quat.Mul(q, quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}), quat.Conj(q))
	return r3.Vector{X: p.Imag, Y: p.Jmag, Z: p.Kmag}
}

// AngleBetween returns the rotation angle, in radians, of the rotation taking q1 to q2. The result is taken directly
// from the relative quaternion conj(q1)*q2 and lies in [0, 2π]: it is NOT folded onto the shorter of the two
// equivalent rotations, so AngleBetween(q1, q2) and AngleBetween(q1, -q2) differ unless one of them is π.
func AngleBetween(q1, q2 quat.Number) float64 {
	rel := quat.Mul(quat.Conj(q1), q2)
	imag := math.Sqrt(rel.Imag*rel.Imag + rel.Jmag*rel.Jmag + rel.Kmag*rel.Kmag)
	return 2 * math.Atan2(imag, rel.Real)
}

// ShortestAngleBetween returns the smaller of the angles from goal to q and from goal to -q. Because q and -q encode
// the same rotation this is the true angular distance, and it stays continuous when the sign of q flips between
// consecutive solves.
func ShortestAngleBetween(goal, q quat.Number) float64 {
	return math.Min(AngleBetween(goal, q), AngleBetween(goal, Negate(q)))
}
