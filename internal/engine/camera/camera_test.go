package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func newTestCamera() *OrbitCamera {
	return NewOrbitCamera(55, 16.0/9.0, 1, 20000, mgl32.Vec3{0, 10, 20}, mgl32.Vec3{})
}

func TestPositionRoundTrip(t *testing.T) {
	c := newTestCamera()

	pos := c.Position()
	want := mgl32.Vec3{0, 10, 20}
	if !vecNear(pos, want, 1e-4) {
		t.Errorf("expected position %v, got %v", want, pos)
	}

	wantDist := float32(math.Sqrt(500))
	if math.Abs(float64(c.Distance-wantDist)) > 1e-4 {
		t.Errorf("expected distance %f, got %f", wantDist, c.Distance)
	}
	if c.Azimuth != 0 {
		t.Errorf("expected azimuth 0, got %f", c.Azimuth)
	}
}

func TestResizeAspect(t *testing.T) {
	tests := []struct {
		w, h int
		want float32
	}{
		{1920, 1080, float32(1920) / float32(1080)},
		{800, 600, float32(800) / float32(600)},
		{1000, 1000, 1},
		{333, 777, float32(333) / float32(777)},
	}

	for _, tt := range tests {
		c := newTestCamera()
		c.Resize(tt.w, tt.h)
		if c.Aspect != tt.want {
			t.Errorf("Resize(%d, %d): aspect %v, want %v", tt.w, tt.h, c.Aspect, tt.want)
		}
	}
}

func TestResizeIgnoresZero(t *testing.T) {
	c := newTestCamera()
	before := c.Aspect
	c.Resize(0, 0)
	c.Resize(800, 0)
	if c.Aspect != before {
		t.Errorf("aspect changed on zero size: %v", c.Aspect)
	}
}

func TestProjectionFollowsAspect(t *testing.T) {
	c := newTestCamera()
	c.Resize(1000, 500)
	p := c.ProjectionMatrix()

	want := mgl32.Perspective(mgl32.DegToRad(55), 2, 1, 20000)
	if !p.ApproxFuncEqual(want, func(a, b float32) bool { return mgl32.Abs(a-b) <= 1e-6 }) {
		t.Errorf("projection mismatch:\n%v\n%v", p, want)
	}
}

func TestZoomClamped(t *testing.T) {
	c := newTestCamera()
	c.Constrain(5, 100, 0.495*math.Pi)

	for i := 0; i < 100; i++ {
		c.HandleZoom(1)
	}
	if c.Distance != 5 {
		t.Errorf("expected distance clamped to 5, got %f", c.Distance)
	}

	for i := 0; i < 100; i++ {
		c.HandleZoom(-1)
	}
	if c.Distance != 100 {
		t.Errorf("expected distance clamped to 100, got %f", c.Distance)
	}
}

func TestDragClampsPolar(t *testing.T) {
	c := newTestCamera()
	maxPolar := float32(0.495 * math.Pi)
	c.Constrain(5, 100, maxPolar)

	// Drag far downward: camera must not go below the horizon.
	c.HandleDrag(0, -10000)
	if c.Polar > maxPolar {
		t.Errorf("polar %f exceeds max %f", c.Polar, maxPolar)
	}
	if c.Position().Y() < 0 {
		t.Errorf("camera went below horizon: %v", c.Position())
	}

	c.HandleDrag(0, 10000)
	if c.Polar <= 0 {
		t.Errorf("polar must stay positive, got %f", c.Polar)
	}
}

func TestSphericalConvention(t *testing.T) {
	tests := []struct {
		polar, azimuth float32
		want           mgl32.Vec3
	}{
		{0, 0, mgl32.Vec3{0, 1, 0}},
		{math.Pi / 2, 0, mgl32.Vec3{0, 0, 1}},
		{math.Pi / 2, math.Pi / 2, mgl32.Vec3{1, 0, 0}},
		{math.Pi / 2, math.Pi, mgl32.Vec3{0, 0, -1}},
	}

	for _, tt := range tests {
		got := FromSpherical(1, tt.polar, tt.azimuth)
		if !vecNear(got, tt.want, 1e-5) {
			t.Errorf("FromSpherical(1, %f, %f) = %v, want %v", tt.polar, tt.azimuth, got, tt.want)
		}
	}
}

// vecNear compares component-wise with an absolute tolerance.
func vecNear(got, want mgl32.Vec3, eps float32) bool {
	return got.ApproxFuncEqual(want, func(a, b float32) bool {
		return mgl32.Abs(a-b) <= eps
	})
}
