package referenceframe

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/grooveik/spatialmath"
)

const twoLinkJSON = `{
	"name": "two_link",
	"arms": [{
		"name": "arm",
		"base": {"translation": {"x": 0, "y": 0, "z": 0.5}},
		"joints": [
			{"id": "j0", "type": "revolute", "axis": {"x": 0, "y": 0, "z": 1}, "min": -3.14, "max": 3.14},
			{"id": "j1", "type": "revolute", "axis": {"x": 0, "y": 1, "z": 0}, "min": -1.5, "max": 1.5,
			 "offset": {"translation": {"x": 0, "y": 0, "z": 1}}}
		],
		"tool": {
			"translation": {"x": 0, "y": 0, "z": 1},
			"orientation": {"type": "euler_angles", "value": {"roll": 0, "pitch": 0, "yaw": 0}}
		}
	}]
}`

func TestUnmarshalModelJSON(t *testing.T) {
	m, err := UnmarshalModelJSON([]byte(twoLinkJSON), "")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m.Name(), test.ShouldEqual, "two_link")
	test.That(t, m.DoF(), test.ShouldResemble, []Limit{{-3.14, 3.14}, {-1.5, 1.5}})

	frames := m.Frames([]float64{0, 0})
	test.That(t, frames[0].Len(), test.ShouldEqual, 4)
	test.That(t, spatialmath.R3VectorAlmostEqual(frames[0].EndEffector().Position, r3.Vector{Z: 2.5}, 1e-9), test.ShouldBeTrue)

	// bending the second joint by a quarter turn about y swings the tool onto +x
	ee := m.EndEffectorPoses([]float64{0, math.Pi / 2})[0]
	test.That(t, spatialmath.R3VectorAlmostEqual(ee.Position, r3.Vector{X: 1, Z: 1.5}, 1e-9), test.ShouldBeTrue)

	renamed, err := UnmarshalModelJSON([]byte(twoLinkJSON), "renamed")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, renamed.Name(), test.ShouldEqual, "renamed")
}

func TestUnmarshalModelJSONErrors(t *testing.T) {
	_, err := UnmarshalModelJSON(nil, "")
	test.That(t, err, test.ShouldEqual, ErrNoModelInformation)

	_, err = UnmarshalModelJSON([]byte(`{"arms": 3}`), "")
	test.That(t, err.Error(), test.ShouldContainSubstring, "failed to unmarshal json file")

	_, err = UnmarshalModelJSON([]byte(`{"arms": [{"joints": [{"id": "j", "type": "revolute",
		"axis": {"z": 1}, "min": 0, "max": 0}]}]}`), "")
	test.That(t, err.Error(), test.ShouldContainSubstring, "limit 0 is invalid")

	_, err = UnmarshalModelJSON([]byte(`{"arms": [{"base": {"orientation": {"type": "bad"}}, "joints": []}]}`), "")
	test.That(t, err, test.ShouldNotBeNil)
}
