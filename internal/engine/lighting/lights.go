package lighting

import "github.com/go-gl/mathgl/mgl32"

// Ambient lights every surface evenly.
type Ambient struct {
	Color     mgl32.Vec3
	Intensity float32
}

// Radiance returns colour scaled by intensity.
func (a Ambient) Radiance() mgl32.Vec3 {
	return a.Color.Mul(a.Intensity)
}

// Directional is a light infinitely far away, shining from Position
// towards Target.
type Directional struct {
	Color     mgl32.Vec3
	Intensity float32
	Position  mgl32.Vec3
	Target    mgl32.Vec3
}

// Direction returns the unit vector from the lit surface towards the light.
func (d Directional) Direction() mgl32.Vec3 {
	v := d.Position.Sub(d.Target)
	if v.Len() == 0 {
		return mgl32.Vec3{0, 1, 0}
	}
	return v.Normalize()
}

// Radiance returns colour scaled by intensity.
func (d Directional) Radiance() mgl32.Vec3 {
	return d.Color.Mul(d.Intensity)
}
