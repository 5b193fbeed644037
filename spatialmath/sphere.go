package spatialmath

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

// sphere is a collision geometry that represents a sphere, it has a center point and a radius that fully define it.
type sphere struct {
	center r3.Vector
	radius float64
	label  string
}

// NewSphere instantiates a new sphere Geometry.
func NewSphere(center r3.Vector, radius float64, label string) (Geometry, error) {
	if radius < 0 || math.IsNaN(radius) {
		return nil, newBadGeometryDimensionsError(&sphere{})
	}
	return &sphere{center: center, radius: radius, label: label}, nil
}

// String returns a human readable string that represents the sphere.
func (s *sphere) String() string {
	return fmt.Sprintf("Type: Sphere | Position: X:%.1f, Y:%.1f, Z:%.1f | Radius: %.2f",
		s.center.X, s.center.Y, s.center.Z, s.radius)
}

// Label returns the label of the sphere.
func (s *sphere) Label() string {
	return s.label
}

func (s *sphere) geometryType() GeometryType {
	return SphereType
}

// MarshalJSON converts the sphere to its config representation.
func (s *sphere) MarshalJSON() ([]byte, error) {
	config, err := NewGeometryConfig(s)
	if err != nil {
		return nil, err
	}
	return json.Marshal(config)
}

// SegmentDistance is the distance from the segment to the closest point of the sphere surface, or 0 when the segment
// passes through the sphere.
func (s *sphere) SegmentDistance(a, b r3.Vector) float64 {
	return math.Max(0, DistToLineSegment(a, b, s.center)-s.radius)
}
