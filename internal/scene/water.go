package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/glasspool/internal/engine/geometry"
	"github.com/Faultbox/glasspool/internal/engine/water"
	"github.com/Faultbox/glasspool/internal/pool"
)

// Water is the animated water surface inside the pool.
type Water struct {
	Geometry  geometry.Plane
	Transform geometry.Transform
	Params    water.Params

	NormalMapURL string
	TextureSize  int
	Transparent  bool

	depth      float32
	generation uint64
}

func newWater(d pool.Dimensions, snap pool.Snapshot, sun mgl32.Vec3, opts Options) *Water {
	w := &Water{
		Geometry: geometry.Plane{
			Width:  d.Width - waterInset,
			Height: d.Length - waterInset,
		},
		Transform: geometry.Transform{
			Rotation: mgl32.Vec3{-math.Pi / 2, 0, 0},
		},
		Params: water.Params{
			SunDirection: sun.Normalize(),
			SunColor:     pool.MustParseColor("#ffffff").RGB(),
			Size:         1,
		},
		NormalMapURL: opts.NormalMapURL,
		TextureSize:  opts.TextureSize,
		Transparent:  true,
		depth:        d.Depth,
	}
	w.apply(snap)
	w.generation = snap.Generation
	return w
}

// Sync binds a state snapshot to the surface: height, tint, opacity and
// distortion. Geometry is untouched. It reports whether anything changed.
func (w *Water) Sync(snap pool.Snapshot) bool {
	if snap.Generation == w.generation {
		return false
	}
	w.apply(snap)
	w.generation = snap.Generation
	return true
}

func (w *Water) apply(snap pool.Snapshot) {
	w.Transform.Position = mgl32.Vec3{0, snap.Level - w.depth, 0}
	w.Params.Color = snap.Color.RGB()
	w.Params.Alpha = snap.Opacity
	w.Params.DistortionScale = snap.Movement
}

// Advance moves the surface animation clock forward.
func (w *Water) Advance(dt float32) {
	w.Params.Advance(dt)
}

// Height returns the world y of the surface.
func (w *Water) Height() float32 {
	return w.Transform.Position.Y()
}
