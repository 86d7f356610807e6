// Package water holds the animated water surface parameters fed to the
// water shader.
package water

import "github.com/go-gl/mathgl/mgl32"

// FrameStep is the time added to the surface clock on every rendered frame.
const FrameStep float32 = 1.0 / 60.0

// Params are the per-surface shader inputs.
type Params struct {
	Color           mgl32.Vec3
	Alpha           float32
	DistortionScale float32
	SunDirection    mgl32.Vec3
	SunColor        mgl32.Vec3

	// Time drives the normal map scroll. It only grows.
	Time float32

	// Size scales normal map tiling.
	Size float32
}

// Advance moves the surface clock forward by dt.
func (p *Params) Advance(dt float32) {
	if dt > 0 {
		p.Time += dt
	}
}

// NormalOffsets returns the two UV scroll offsets the shader samples the
// normal map at. The two layers scroll in different directions.
func (p *Params) NormalOffsets() (a, b mgl32.Vec2) {
	t := p.Time
	a = mgl32.Vec2{t / 103, t / 97}
	b = mgl32.Vec2{-t / 107, t / 109}
	return a, b
}
