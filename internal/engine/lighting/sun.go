// Package lighting provides light sources and sun position helpers.
package lighting

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// SunDirection converts a sun elevation above the horizon and an azimuth
// (both in degrees) to a unit vector pointing towards the sun.
//
// The polar angle is measured from +Y (phi = 90 - elevation) and the azimuth
// turns around +Y starting at +Z, so azimuth 180 puts the sun towards -Z.
func SunDirection(elevation, azimuth float32) mgl32.Vec3 {
	phi := float64(mgl32.DegToRad(90 - elevation))
	theta := float64(mgl32.DegToRad(azimuth))

	sp, cp := math.Sincos(phi)
	st, ct := math.Sincos(theta)

	return mgl32.Vec3{
		float32(sp * st),
		float32(cp),
		float32(sp * ct),
	}.Normalize()
}
