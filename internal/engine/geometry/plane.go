// Package geometry builds simple meshes and their transforms.
package geometry

import "github.com/go-gl/mathgl/mgl32"

// FloatsPerVertex is the vertex layout: position (3), normal (3), uv (2).
const FloatsPerVertex = 8

// Plane is a width x height quad in the XY plane, centred on the origin and
// facing +Z.
type Plane struct {
	Width  float32
	Height float32
}

// Vertices returns the quad as a triangle strip: BL, BR, TL, TR.
func (p Plane) Vertices() []float32 {
	hw, hh := p.Width/2, p.Height/2
	return []float32{
		-hw, -hh, 0, 0, 0, 1, 0, 0,
		hw, -hh, 0, 0, 0, 1, 1, 0,
		-hw, hh, 0, 0, 0, 1, 0, 1,
		hw, hh, 0, 0, 0, 1, 1, 1,
	}
}

// VertexCount is the number of vertices Vertices returns.
func (p Plane) VertexCount() int32 {
	return 4
}

// Transform places a mesh in the world. Rotation is Euler XYZ in radians,
// applied before translation.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3
}

// Matrix returns the model matrix.
func (t Transform) Matrix() mgl32.Mat4 {
	rot := mgl32.AnglesToQuat(t.Rotation.X(), t.Rotation.Y(), t.Rotation.Z(), mgl32.XYZ).Mat4()
	return mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z()).Mul4(rot)
}

// Apply transforms a point.
func (t Transform) Apply(p mgl32.Vec3) mgl32.Vec3 {
	return mgl32.TransformCoordinate(p, t.Matrix())
}

// Normal returns the world-space normal of a plane (local +Z) under t.
func (t Transform) Normal() mgl32.Vec3 {
	return mgl32.TransformNormal(mgl32.Vec3{0, 0, 1}, t.Matrix()).Normalize()
}
