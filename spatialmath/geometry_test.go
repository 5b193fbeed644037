package spatialmath

import (
	"encoding/json"
	"math"
	"math/rand"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func makeTestBox(o Orientation, pt, dims r3.Vector, label string) *box {
	b, _ := NewBox(NewPose(pt, o), dims, label)
	return b.(*box)
}

func makeTestSphere(pt r3.Vector, radius float64, label string) *sphere {
	s, _ := NewSphere(pt, radius, label)
	return s.(*sphere)
}

// sampledSegmentDistance brute forces the box to segment distance by walking the segment.
func sampledSegmentDistance(b *box, a, c r3.Vector) float64 {
	best := math.Inf(1)
	const steps = 4000
	for i := 0; i <= steps; i++ {
		p := a.Add(c.Sub(a).Mul(float64(i) / steps))
		best = math.Min(best, b.closestPoint(p).Sub(p).Norm())
	}
	return best
}

func TestDistToLineSegment(t *testing.T) {
	a := r3.Vector{}
	b := r3.Vector{X: 1}

	test.That(t, DistToLineSegment(a, b, r3.Vector{X: 0.5, Y: 2}), test.ShouldAlmostEqual, 2)
	test.That(t, DistToLineSegment(a, b, r3.Vector{X: -3, Y: 4}), test.ShouldAlmostEqual, 5)
	test.That(t, DistToLineSegment(a, b, r3.Vector{X: 4, Z: 4}), test.ShouldAlmostEqual, 5)
	test.That(t, DistToLineSegment(a, b, r3.Vector{X: 0.5}), test.ShouldAlmostEqual, 0)

	// zero length segments degrade to point distance
	test.That(t, DistToLineSegment(b, b, r3.Vector{X: 1, Y: 3}), test.ShouldAlmostEqual, 3)
	test.That(t, ClosestPointSegmentPoint(b, b, r3.Vector{Y: 3}), test.ShouldResemble, b)
	test.That(t, ClosestPointSegmentPoint(a, b, r3.Vector{X: 0.25, Y: 3}), test.ShouldResemble, r3.Vector{X: 0.25})
}

func TestSphereSegmentDistance(t *testing.T) {
	seg0, seg1 := r3.Vector{}, r3.Vector{X: 1}
	test.That(t, makeTestSphere(r3.Vector{X: 0.5, Y: 1}, 0.25, "").SegmentDistance(seg0, seg1), test.ShouldAlmostEqual, 0.75)
	test.That(t, makeTestSphere(r3.Vector{X: 2}, 0.5, "").SegmentDistance(seg0, seg1), test.ShouldAlmostEqual, 0.5)
	test.That(t, makeTestSphere(r3.Vector{X: 0.5}, 0.1, "").SegmentDistance(seg0, seg1), test.ShouldEqual, 0.)

	_, err := NewSphere(r3.Vector{}, -1, "")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestBoxSegmentDistance(t *testing.T) {
	cube := makeTestBox(NewZeroOrientation(), r3.Vector{}, r3.Vector{X: 2, Y: 2, Z: 2}, "cube")
	rotated := makeTestBox(&EulerAngles{Yaw: math.Pi / 4}, r3.Vector{}, r3.Vector{X: 2, Y: 2, Z: 2}, "rotated")

	cases := []struct {
		name     string
		b        *box
		a, c     r3.Vector
		expected float64
	}{
		{"face", cube, r3.Vector{X: 3, Y: -1}, r3.Vector{X: 3, Y: 1}, 2},
		{"edge", cube, r3.Vector{X: 2, Y: 2, Z: -1}, r3.Vector{X: 2, Y: 2, Z: 1}, math.Sqrt2},
		{"vertex", cube, r3.Vector{X: 2, Y: 2, Z: 2}, r3.Vector{X: 2, Y: 2, Z: 2}, math.Sqrt(3)},
		{"through", cube, r3.Vector{X: -5}, r3.Vector{X: 5}, 0},
		{"inside", cube, r3.Vector{X: -0.5}, r3.Vector{X: 0.5}, 0},
		{"touching", cube, r3.Vector{X: 1, Y: -3}, r3.Vector{X: 1, Y: 3}, 0},
		{"rotated corner", rotated, r3.Vector{X: 3, Y: -1}, r3.Vector{X: 3, Y: 1}, 3 - math.Sqrt2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			test.That(t, tc.b.SegmentDistance(tc.a, tc.c), test.ShouldAlmostEqual, tc.expected, 1e-6)
		})
	}
}

func TestBoxSegmentDistanceMatchesSampling(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	randVec := func(scale float64) r3.Vector {
		return r3.Vector{X: (rnd.Float64() - 0.5) * scale, Y: (rnd.Float64() - 0.5) * scale, Z: (rnd.Float64() - 0.5) * scale}
	}
	for i := 0; i < 50; i++ {
		o := &EulerAngles{Roll: rnd.Float64() * math.Pi, Pitch: rnd.Float64() * math.Pi, Yaw: rnd.Float64() * math.Pi}
		dims := r3.Vector{X: 0.2 + rnd.Float64(), Y: 0.2 + rnd.Float64(), Z: 0.2 + rnd.Float64()}
		b := makeTestBox(o, randVec(1), dims, "")
		a, c := randVec(6), randVec(6)

		exact := b.SegmentDistance(a, c)
		sampled := sampledSegmentDistance(b, a, c)
		// sampling can only overestimate
		test.That(t, exact, test.ShouldBeLessThanOrEqualTo, sampled+1e-9)
		test.That(t, exact, test.ShouldAlmostEqual, sampled, 5e-3)
	}
}

func TestNewBoxBadDims(t *testing.T) {
	_, err := NewBox(NewZeroPose(), r3.Vector{X: 1, Y: -1, Z: 1}, "")
	test.That(t, err, test.ShouldNotBeNil)

	flat, err := NewBox(nil, r3.Vector{X: 1, Y: 0, Z: 1}, "plate")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, flat.SegmentDistance(r3.Vector{Y: 1}, r3.Vector{Y: 2}), test.ShouldAlmostEqual, 1, 1e-6)
	test.That(t, TypeOf(flat), test.ShouldEqual, BoxType)
}

func TestGeometrySerializationJSON(t *testing.T) {
	euler, err := OrientationMap(&EulerAngles{Yaw: 0.5})
	test.That(t, err, test.ShouldBeNil)
	translation := r3.Vector{X: 1, Y: 1, Z: 1}

	testCases := []struct {
		name    string
		config  GeometryConfig
		success bool
	}{
		{"box", GeometryConfig{Type: "box", X: 1, Y: 1, Z: 1, TranslationOffset: translation, OrientationOffset: euler, Label: "box"}, true},
		{"flat box dims", GeometryConfig{Type: "box", X: 1, Y: 0, Z: 1, Label: "flat box dims"}, true},
		{"box bad dims", GeometryConfig{Type: "box", X: 1, Y: 0, Z: -1}, false},
		{"infer box", GeometryConfig{X: 1, Y: 1, Z: 1, Label: "infer box"}, true},
		{"sphere", GeometryConfig{Type: "sphere", R: 1, TranslationOffset: translation, Label: "sphere"}, true},
		{"sphere bad dims", GeometryConfig{Type: "sphere", R: -1}, false},
		{"infer sphere", GeometryConfig{R: 1, Label: "infer sphere"}, true},
		{"infer nothing", GeometryConfig{}, false},
		{"bad type", GeometryConfig{Type: "capsule", R: 1}, false},
	}

	seg0, seg1 := r3.Vector{X: -4, Y: 3}, r3.Vector{X: 4, Y: 3, Z: 1}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			gc, err := testCase.config.ParseConfig()
			if !testCase.success {
				test.That(t, err, test.ShouldNotBeNil)
				return
			}
			test.That(t, err, test.ShouldBeNil)
			data, err := json.Marshal(gc)
			test.That(t, err, test.ShouldBeNil)
			config := GeometryConfig{}
			test.That(t, json.Unmarshal(data, &config), test.ShouldBeNil)
			newGeom, err := config.ParseConfig()
			test.That(t, err, test.ShouldBeNil)
			test.That(t, newGeom.SegmentDistance(seg0, seg1), test.ShouldAlmostEqual, gc.SegmentDistance(seg0, seg1), 1e-9)
			test.That(t, config.Label, test.ShouldEqual, testCase.name)
		})
	}
}

func TestUnmarshalGeometriesJSON(t *testing.T) {
	data := []byte(`[
		{"type": "sphere", "r": 0.1, "translation": {"x": 0.5, "y": 0, "z": 0}, "label": "ball"},
		{"x": 0.2, "y": 0.4, "z": 0.2, "translation": {"x": 0, "y": 1, "z": 0},
		 "orientation": {"type": "euler_angles", "value": {"roll": 0, "pitch": 0, "yaw": 0.3}}, "label": "shelf"}
	]`)
	geoms, err := UnmarshalGeometriesJSON(data)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(geoms), test.ShouldEqual, 2)
	test.That(t, TypeOf(geoms[0]), test.ShouldEqual, SphereType)
	test.That(t, TypeOf(geoms[1]), test.ShouldEqual, BoxType)
	test.That(t, geoms[1].Label(), test.ShouldEqual, "shelf")

	_, err = UnmarshalGeometriesJSON([]byte(`[{"type": "cone"}]`))
	test.That(t, err, test.ShouldNotBeNil)
}
