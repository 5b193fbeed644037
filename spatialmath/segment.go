package spatialmath

import (
	"github.com/golang/geo/r3"
)

// segmentEpsilon is the squared length below which a segment is treated as a single point.
const segmentEpsilon = 1e-18

// ClosestPointSegmentPoint takes a line segment defined by two points and a third point, and returns the point on
// the segment closest to the third point. A zero-length segment returns its start.
func ClosestPointSegmentPoint(segA, segB, pt r3.Vector) r3.Vector {
	ab := segB.Sub(segA)
	denom := ab.Norm2()
	if denom < segmentEpsilon {
		return segA
	}
	t := pt.Sub(segA).Dot(ab) / denom
	switch {
	case t <= 0:
		return segA
	case t >= 1:
		return segB
	default:
		return segA.Add(ab.Mul(t))
	}
}

// DistToLineSegment takes a line segment defined by pt1 and pt2, plus some query point, and returns the shortest
// distance from the query point to the segment.
// Projections that fall before the start or past the end of the segment use the endpoint distance; otherwise the
// perpendicular distance is the magnitude of the cross product over the segment length.
func DistToLineSegment(pt1, pt2, query r3.Vector) float64 {
	ab := pt2.Sub(pt1)
	denom := ab.Norm2()
	if denom < segmentEpsilon {
		return query.Sub(pt1).Norm()
	}
	t := query.Sub(pt1).Dot(ab) / denom
	if t <= 0 {
		return query.Sub(pt1).Norm()
	}
	if t >= 1 {
		return query.Sub(pt2).Norm()
	}
	return ab.Cross(query.Sub(pt1)).Norm() / ab.Norm()
}
