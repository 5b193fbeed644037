package spatialmath

import (
	"encoding/json"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/num/quat"
)

// OrientationType defines what orientation representations are known.
type OrientationType string

// The set of allowed representations for orientation.
const (
	NoOrientation           = OrientationType("")
	AxisAnglesType          = OrientationType("axis_angles")
	EulerAnglesType         = OrientationType("euler_angles")
	QuaternionType          = OrientationType("quaternion")
	quaternionJSONTolerance = 1e-6
)

// RawOrientation holds the type and value of an orientation as read from a scene or robot file.
type RawOrientation struct {
	Type  OrientationType `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

type quaternionJSON struct {
	W float64 `json:"w"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// ParseOrientation will use the Type in RawOrientation to unmarshal the Value into the correct struct that
// implements Orientation.
func ParseOrientation(ro RawOrientation) (Orientation, error) {
	switch ro.Type {
	case NoOrientation:
		return NewZeroOrientation(), nil
	case AxisAnglesType:
		var aa R4AA
		if err := json.Unmarshal(ro.Value, &aa); err != nil {
			return nil, err
		}
		return &aa, nil
	case EulerAnglesType:
		var ea EulerAngles
		if err := json.Unmarshal(ro.Value, &ea); err != nil {
			return nil, err
		}
		return &ea, nil
	case QuaternionType:
		var qj quaternionJSON
		if err := json.Unmarshal(ro.Value, &qj); err != nil {
			return nil, err
		}
		q := quat.Number{Real: qj.W, Imag: qj.X, Jmag: qj.Y, Kmag: qj.Z}
		if quat.Abs(q) < quaternionJSONTolerance {
			return nil, errors.New("quaternion orientation must be non-zero")
		}
		return NewOrientationFromQuaternion(q), nil
	default:
		return nil, errors.Errorf("orientation type %s not recognized", ro.Type)
	}
}

// OrientationMap encodes the orientation as a RawOrientation. Anything that is not euler or axis angles is written
// as a quaternion.
func OrientationMap(o Orientation) (RawOrientation, error) {
	var (
		t   OrientationType
		val interface{}
	)
	switch oj := o.(type) {
	case nil:
		return RawOrientation{}, nil
	case *R4AA:
		t, val = AxisAnglesType, oj
	case *EulerAngles:
		t, val = EulerAnglesType, oj
	default:
		q := o.Quaternion()
		t, val = QuaternionType, quaternionJSON{W: q.Real, X: q.Imag, Y: q.Jmag, Z: q.Kmag}
	}
	data, err := json.Marshal(val)
	if err != nil {
		return RawOrientation{}, err
	}
	return RawOrientation{Type: t, Value: data}, nil
}

// GeometryConfig specifies the format of geometries specified through the configuration file.
// Boxes use X, Y, Z as full side lengths; spheres use R.
type GeometryConfig struct {
	Type GeometryType `json:"type"`

	// parameters used for defining a box's rectangular cross section
	X float64 `json:"x,omitempty"`
	Y float64 `json:"y,omitempty"`
	Z float64 `json:"z,omitempty"`

	// parameters used for defining a sphere, its radius
	R float64 `json:"r,omitempty"`

	// define an offset to position the geometry
	TranslationOffset r3.Vector      `json:"translation,omitempty"`
	OrientationOffset RawOrientation `json:"orientation,omitempty"`

	Label string `json:"label,omitempty"`
}

// ParseConfig converts a GeometryConfig into the correct Geometry. A missing type is inferred from which dimensions
// are set.
func (config *GeometryConfig) ParseConfig() (Geometry, error) {
	orientation, err := ParseOrientation(config.OrientationOffset)
	if err != nil {
		return nil, err
	}
	offset := NewPose(config.TranslationOffset, orientation)

	if config.Type == UnknownType {
		switch {
		case config.X != 0 || config.Y != 0 || config.Z != 0:
			config.Type = BoxType
		case config.R != 0:
			config.Type = SphereType
		default:
			return nil, errors.New("cannot infer geometry type from an empty config")
		}
	}

	switch config.Type {
	case BoxType:
		return NewBox(offset, r3.Vector{X: config.X, Y: config.Y, Z: config.Z}, config.Label)
	case SphereType:
		return NewSphere(config.TranslationOffset, config.R, config.Label)
	default:
		return nil, NewBadGeometryTypeError(config.Type)
	}
}

// NewGeometryConfig returns the config representation of g.
func NewGeometryConfig(g Geometry) (*GeometryConfig, error) {
	switch gt := g.(type) {
	case *box:
		raw, err := OrientationMap(gt.center.Orientation())
		if err != nil {
			return nil, err
		}
		return &GeometryConfig{
			Type:              BoxType,
			X:                 2 * gt.halfSize[0],
			Y:                 2 * gt.halfSize[1],
			Z:                 2 * gt.halfSize[2],
			TranslationOffset: gt.centerPt,
			OrientationOffset: raw,
			Label:             gt.label,
		}, nil
	case *sphere:
		return &GeometryConfig{Type: SphereType, R: gt.radius, TranslationOffset: gt.center, Label: gt.label}, nil
	default:
		return nil, NewBadGeometryTypeError(TypeOf(g))
	}
}

// UnmarshalGeometriesJSON parses a JSON array of geometry configs into a scene.
func UnmarshalGeometriesJSON(data []byte) ([]Geometry, error) {
	var configs []GeometryConfig
	if err := json.Unmarshal(data, &configs); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal geometries")
	}
	geoms := make([]Geometry, 0, len(configs))
	for i := range configs {
		g, err := configs[i].ParseConfig()
		if err != nil {
			return nil, errors.Wrapf(err, "geometry %d", i)
		}
		geoms = append(geoms, g)
	}
	return geoms, nil
}
