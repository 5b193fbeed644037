package spatialmath

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// RotationMatrix is a 3x3 matrix in row major order. Row i is the i-th axis of the rotated frame expressed in the
// parent frame, which is the form box distance queries consume.
type RotationMatrix struct {
	mat [9]float64
}

// QuatToRotationMatrix converts a unit quaternion into a rotation matrix.
func QuatToRotationMatrix(q quat.Number) *RotationMatrix {
	x := RotateVector(q, r3.Vector{X: 1})
	y := RotateVector(q, r3.Vector{Y: 1})
	z := RotateVector(q, r3.Vector{Z: 1})
	return &RotationMatrix{[9]float64{
		x.X, x.Y, x.Z,
		y.X, y.Y, y.Z,
		z.X, z.Y, z.Z,
	}}
}

// At returns the element at row, col.
func (rm *RotationMatrix) At(row, col int) float64 {
	return rm.mat[row*3+col]
}

// Row returns the row at index i as an r3.Vector.
func (rm *RotationMatrix) Row(i int) r3.Vector {
	return r3.Vector{X: rm.mat[3*i], Y: rm.mat[3*i+1], Z: rm.mat[3*i+2]}
}
