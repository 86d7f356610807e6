// Package camera provides a perspective orbit camera.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// OrbitCamera is a perspective camera orbiting a target point. Its position
// is kept in spherical coordinates around Target: Polar is measured from +Y,
// Azimuth around +Y starting at +Z.
type OrbitCamera struct {
	// Projection
	FOV    float32 // vertical, degrees
	Aspect float32
	Near   float32
	Far    float32

	Target   mgl32.Vec3
	Distance float32
	Polar    float32
	Azimuth  float32

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPolar    float32
	MaxPolar    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbitCamera creates a camera at position looking at target.
func NewOrbitCamera(fov, aspect, near, far float32, position, target mgl32.Vec3) *OrbitCamera {
	c := &OrbitCamera{
		FOV:             fov,
		Aspect:          aspect,
		Near:            near,
		Far:             far,
		Target:          target,
		MinDistance:     0,
		MaxDistance:     float32(math.Inf(1)),
		MinPolar:        0,
		MaxPolar:        math.Pi,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
	c.SetPosition(position)
	return c
}

// SetPosition moves the camera to p without changing its target.
func (c *OrbitCamera) SetPosition(p mgl32.Vec3) {
	r, polar, azimuth := ToSpherical(p.Sub(c.Target))
	c.Distance = r
	c.Polar = polar
	c.Azimuth = azimuth
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() mgl32.Vec3 {
	return c.Target.Add(FromSpherical(c.Distance, c.Polar, c.Azimuth))
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Target, mgl32.Vec3{0, 1, 0})
}

// ProjectionMatrix returns the perspective projection.
func (c *OrbitCamera) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
}

// ViewProjection returns projection * view.
func (c *OrbitCamera) ViewProjection() mgl32.Mat4 {
	return c.ProjectionMatrix().Mul4(c.ViewMatrix())
}

// Resize sets the aspect ratio to width/height. Zero sizes (a minimized
// window) are ignored.
func (c *OrbitCamera) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float32(width) / float32(height)
}

// HandleDrag rotates the camera around the target by a mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.Azimuth -= deltaX * c.DragSensitivity
	c.Polar -= deltaY * c.DragSensitivity
	c.clamp()
}

// HandleZoom moves the camera towards (positive delta) or away from the target.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	c.clamp()
}

// clamp keeps the spherical coordinates inside the constraints. The polar
// angle stays a hair away from the poles so LookAt keeps a valid up vector.
func (c *OrbitCamera) clamp() {
	const eps = 1e-6
	c.Polar = mgl32.Clamp(c.Polar, max(c.MinPolar, eps), min(c.MaxPolar, math.Pi-eps))
	c.Distance = mgl32.Clamp(c.Distance, c.MinDistance, c.MaxDistance)
}

// Constrain sets the orbit limits and applies them immediately.
func (c *OrbitCamera) Constrain(minDistance, maxDistance, maxPolar float32) {
	c.MinDistance = minDistance
	c.MaxDistance = maxDistance
	c.MaxPolar = maxPolar
	c.clamp()
}

// FromSpherical converts radius, polar angle (from +Y) and azimuth (around
// +Y from +Z) into a cartesian offset.
func FromSpherical(radius, polar, azimuth float32) mgl32.Vec3 {
	sp, cp := math.Sincos(float64(polar))
	sa, ca := math.Sincos(float64(azimuth))
	return mgl32.Vec3{
		radius * float32(sp*sa),
		radius * float32(cp),
		radius * float32(sp*ca),
	}
}

// ToSpherical is the inverse of FromSpherical.
func ToSpherical(v mgl32.Vec3) (radius, polar, azimuth float32) {
	radius = v.Len()
	if radius == 0 {
		return 0, 0, 0
	}
	azimuth = float32(math.Atan2(float64(v.X()), float64(v.Z())))
	polar = float32(math.Acos(float64(mgl32.Clamp(v.Y()/radius, -1, 1))))
	return radius, polar, azimuth
}
