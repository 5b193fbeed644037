package spatialmath

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// GeometryType defines what geometry creator representations are known.
type GeometryType string

// The set of allowed representations for collision geometry.
const (
	UnknownType = GeometryType("")
	BoxType     = GeometryType("box")
	SphereType  = GeometryType("sphere")
)

// Geometry is an entry in a static collision scene. The set of implementations is closed; the unexported method
// keeps callers from adding new shapes the distance queries do not know about.
type Geometry interface {
	// SegmentDistance returns the minimum distance between the solid and the segment [a, b], or 0 if they touch.
	SegmentDistance(a, b r3.Vector) float64
	Label() string
	String() string
	geometryType() GeometryType
}

// TypeOf returns the kind of g.
func TypeOf(g Geometry) GeometryType {
	if g == nil {
		return UnknownType
	}
	return g.geometryType()
}

// newBadGeometryDimensionsError returns an error indicating that the dimensions of a geometry are invalid.
func newBadGeometryDimensionsError(g Geometry) error {
	return errors.Errorf("invalid dimension(s) for Geometry type %T", g)
}

// NewBadGeometryTypeError returns an error for a geometry description whose type is not understood.
func NewBadGeometryTypeError(t GeometryType) error {
	return errors.Errorf("unknown geometry type %q", string(t))
}
