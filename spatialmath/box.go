package spatialmath

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

// gjk tuning.
const (
	gjkMaxIter = 64
	gjkRelTol  = 1e-10
	// below this squared distance the origin is considered inside the Minkowski difference.
	gjkContact = 1e-20
)

// box is a collision geometry that represents a 3D rectangular prism, it has a pose and half size that fully define it.
// The rotation matrix is cached at construction since every distance query needs the box axes.
type box struct {
	center    Pose
	centerPt  r3.Vector
	halfSize  [3]float64
	rotMatrix *RotationMatrix
	label     string
}

// NewBox instantiates a new box Geometry. dims are the full side lengths along the box's local axes.
func NewBox(pose Pose, dims r3.Vector, label string) (Geometry, error) {
	// Negative dimensions not allowed. Zero dimensions are allowed for flat plates.
	if dims.X < 0 || dims.Y < 0 || dims.Z < 0 {
		return nil, newBadGeometryDimensionsError(&box{})
	}
	if pose == nil {
		pose = NewZeroPose()
	}
	halfSize := dims.Mul(0.5)
	return &box{
		center:    pose,
		centerPt:  pose.Point(),
		halfSize:  [3]float64{halfSize.X, halfSize.Y, halfSize.Z},
		rotMatrix: pose.Orientation().RotationMatrix(),
		label:     label,
	}, nil
}

// String returns a human readable string that represents the box.
func (b *box) String() string {
	return fmt.Sprintf("Type: Box | Position: X:%.1f, Y:%.1f, Z:%.1f | Dims: X:%.2f, Y:%.2f, Z:%.2f",
		b.centerPt.X, b.centerPt.Y, b.centerPt.Z, 2*b.halfSize[0], 2*b.halfSize[1], 2*b.halfSize[2])
}

// Label returns the label of the box.
func (b *box) Label() string {
	return b.label
}

// Pose returns the pose of the box's center.
func (b *box) Pose() Pose {
	return b.center
}

// HalfSize returns the half extents of the box along its local axes.
func (b *box) HalfSize() r3.Vector {
	return r3.Vector{X: b.halfSize[0], Y: b.halfSize[1], Z: b.halfSize[2]}
}

func (b *box) geometryType() GeometryType {
	return BoxType
}

// MarshalJSON converts the box to its config representation.
func (b *box) MarshalJSON() ([]byte, error) {
	config, err := NewGeometryConfig(b)
	if err != nil {
		return nil, err
	}
	return json.Marshal(config)
}

// SegmentDistance returns the distance between the box, treated as a solid, and the segment [a, b].
// Zero-length segments reduce to a point query.
func (b *box) SegmentDistance(a, c r3.Vector) float64 {
	if c.Sub(a).Norm2() < segmentEpsilon {
		return b.closestPoint(a).Sub(a).Norm()
	}
	return boxVsSegmentGJKDistance(b, a, c)
}

// closestPoint returns the closest point on the specified box to the specified point
// Reference: https://github.com/gszauer/GamePhysicsCookbook/blob/a0b8ee0c39fed6d4b90bb6d2195004dfcf5a1115/Code/Geometry3D.cpp#L165
func (b *box) closestPoint(pt r3.Vector) r3.Vector {
	result := b.centerPt
	direction := pt.Sub(result)
	for i := 0; i < 3; i++ {
		axis := b.rotMatrix.Row(i)
		distance := direction.Dot(axis)
		if distance > b.halfSize[i] {
			distance = b.halfSize[i]
		} else if distance < -b.halfSize[i] {
			distance = -b.halfSize[i]
		}
		result = result.Add(axis.Mul(distance))
	}
	return result
}

// gjkBoxSupport returns the support point (farthest vertex) of a box in the given direction.
func gjkBoxSupport(b *box, d r3.Vector) r3.Vector {
	result := b.centerPt
	for i := 0; i < 3; i++ {
		axis := b.rotMatrix.Row(i)
		if d.Dot(axis) >= 0 {
			result = result.Add(axis.Mul(b.halfSize[i]))
		} else {
			result = result.Sub(axis.Mul(b.halfSize[i]))
		}
	}
	return result
}

// gjkSegmentSupport returns the endpoint of [a, b] farthest along d.
func gjkSegmentSupport(a, b, d r3.Vector) r3.Vector {
	if d.Dot(a) >= d.Dot(b) {
		return a
	}
	return b
}

// gjkMinkowskiSupport returns support_box(d) - support_segment(-d), a support point
// of the Minkowski difference box - segment in direction d.
func gjkMinkowskiSupport(bx *box, a, b, d r3.Vector) r3.Vector {
	return gjkBoxSupport(bx, d).Sub(gjkSegmentSupport(a, b, d.Mul(-1)))
}

// gjkClosestOnSegment returns the closest point on segment [a,b] to the origin,
// along with the reduced simplex.
func gjkClosestOnSegment(a, b r3.Vector) (r3.Vector, []r3.Vector) {
	ab := b.Sub(a)
	denom := ab.Norm2()
	if denom < 1e-30 {
		return a, []r3.Vector{a}
	}
	t := a.Mul(-1).Dot(ab) / denom
	if t <= 0 {
		return a, []r3.Vector{a}
	}
	if t >= 1 {
		return b, []r3.Vector{b}
	}
	return a.Add(ab.Mul(t)), []r3.Vector{a, b}
}

// gjkClosestOnTriangle returns the closest point on triangle [a,b,c] to the origin,
// along with the reduced simplex. Uses Ericson's Voronoi region method from
// "Real-Time Collision Detection".
func gjkClosestOnTriangle(a, b, c r3.Vector) (r3.Vector, []r3.Vector) {
	ab := b.Sub(a)
	ac := c.Sub(a)
	ao := a.Mul(-1)

	d1 := ab.Dot(ao)
	d2 := ac.Dot(ao)
	if d1 <= 0 && d2 <= 0 {
		return a, []r3.Vector{a}
	}

	bo := b.Mul(-1)
	d3 := ab.Dot(bo)
	d4 := ac.Dot(bo)
	if d3 >= 0 && d4 <= d3 {
		return b, []r3.Vector{b}
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return a.Add(ab.Mul(v)), []r3.Vector{a, b}
	}

	co := c.Mul(-1)
	d5 := ab.Dot(co)
	d6 := ac.Dot(co)
	if d6 >= 0 && d5 <= d6 {
		return c, []r3.Vector{c}
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return a.Add(ac.Mul(w)), []r3.Vector{a, c}
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return b.Add(c.Sub(b).Mul(w)), []r3.Vector{b, c}
	}

	sum := va + vb + vc
	if math.Abs(sum) < 1e-30 {
		// collinear points, the closest point lies on one of the edges
		best, bestS := gjkClosestOnSegment(a, b)
		for _, e := range [2][2]r3.Vector{{a, c}, {b, c}} {
			if v, s := gjkClosestOnSegment(e[0], e[1]); v.Norm2() < best.Norm2() {
				best, bestS = v, s
			}
		}
		return best, bestS
	}
	denom := 1.0 / sum
	v := vb * denom
	w := vc * denom
	return a.Add(ab.Mul(v)).Add(ac.Mul(w)), []r3.Vector{a, b, c}
}

// gjkOriginInTetrahedron checks whether the origin is inside the tetrahedron
// defined by the four given points, by verifying the origin is on the interior
// side of every face. A flat tetrahedron contains nothing.
func gjkOriginInTetrahedron(pts []r3.Vector) bool {
	type face struct{ v0, v1, v2, opp int }
	faces := [4]face{
		{0, 1, 2, 3},
		{0, 1, 3, 2},
		{0, 2, 3, 1},
		{1, 2, 3, 0},
	}
	for _, f := range faces {
		p0, p1, p2 := pts[f.v0], pts[f.v1], pts[f.v2]
		normal := p1.Sub(p0).Cross(p2.Sub(p0))
		dOrigin := normal.Dot(p0.Mul(-1))
		dOpp := normal.Dot(pts[f.opp].Sub(p0))
		if math.Abs(dOpp) < 1e-12 {
			return false
		}
		if dOrigin*dOpp < 0 {
			return false
		}
	}
	return true
}

// gjkClosestOnTetrahedron returns the closest point on the tetrahedron to the origin.
// If the origin is inside, returns the zero vector (collision detected).
func gjkClosestOnTetrahedron(pts []r3.Vector) (r3.Vector, []r3.Vector) {
	if gjkOriginInTetrahedron(pts) {
		return r3.Vector{}, pts
	}
	faces := [4][3]int{{0, 1, 2}, {0, 1, 3}, {0, 2, 3}, {1, 2, 3}}
	bestDist := math.Inf(1)
	var bestV r3.Vector
	var bestS []r3.Vector

	for _, f := range faces {
		v, s := gjkClosestOnTriangle(pts[f[0]], pts[f[1]], pts[f[2]])
		if d := v.Norm2(); d < bestDist {
			bestDist = d
			bestV = v
			bestS = s
		}
	}
	return bestV, bestS
}

// boxVsSegmentGJKDistance computes the exact Euclidean distance between a box and the segment [a, c]
// using the GJK (Gilbert-Johnson-Keerthi) algorithm. Returns 0 when the segment touches or enters the box.
func boxVsSegmentGJKDistance(bx *box, a, c r3.Vector) float64 {
	// seed with the direction from the segment midpoint to the box center
	d := bx.centerPt.Sub(a.Add(c).Mul(0.5))
	if d.Norm2() < gjkContact {
		d = r3.Vector{X: 1}
	}

	w := gjkMinkowskiSupport(bx, a, c, d)
	simplex := []r3.Vector{w}
	v := w

	for iter := 0; iter < gjkMaxIter; iter++ {
		vv := v.Norm2()
		if vv < gjkContact {
			return 0
		}

		d = v.Mul(-1)
		w = gjkMinkowskiSupport(bx, a, c, d)

		if vv-v.Dot(w) <= gjkRelTol*vv {
			break
		}

		simplex = append(simplex, w)
		switch len(simplex) {
		case 2:
			v, simplex = gjkClosestOnSegment(simplex[0], simplex[1])
		case 3:
			v, simplex = gjkClosestOnTriangle(simplex[0], simplex[1], simplex[2])
		case 4:
			v, simplex = gjkClosestOnTetrahedron(simplex)
		}
	}

	return v.Norm()
}
