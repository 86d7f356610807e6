// Package scene builds the pool scene graph: camera, sky, lights, the glass
// pool boundary and the water surface. The graph is plain data; the
// renderer draws it and the render loop keeps the water bound to the
// current pool state.
package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/glasspool/internal/engine/camera"
	"github.com/Faultbox/glasspool/internal/engine/lighting"
	"github.com/Faultbox/glasspool/internal/pool"
)

// Camera settings.
const (
	CameraFOV         = 55
	CameraNear        = 1
	CameraFar         = 20000
	CameraMinDistance = 5
	CameraMaxDistance = 100
	CameraMaxPolar    = 0.495 * math.Pi
)

// Sun placement, fixed for the process lifetime.
const (
	SunElevation = 5
	SunAzimuth   = 180
)

// waterInset is how much smaller the water is than the pool on each axis.
const waterInset = 0.2

// ToneMapping selects the renderer's tone mapping operator.
type ToneMapping int

const (
	ToneMappingNone ToneMapping = iota
	ToneMappingACESFilmic
)

// RenderHints are renderer-wide settings.
type RenderHints struct {
	ToneMapping             ToneMapping
	Exposure                float32
	PhysicallyCorrectLights bool
	Antialias               bool
	Alpha                   bool
}

// Sky is the atmospheric sky dome.
type Sky struct {
	Scale           float32
	Turbidity       float32
	Rayleigh        float32
	MieCoefficient  float32
	MieDirectionalG float32
	SunPosition     mgl32.Vec3
}

// Options configures Build.
type Options struct {
	// Initial viewport size; only the ratio matters.
	Width  int
	Height int

	NormalMapURL string
	TextureSize  int
}

// Scene is everything the renderer draws.
type Scene struct {
	Camera  *camera.OrbitCamera
	Sky     Sky
	Ambient lighting.Ambient
	Light   lighting.Directional
	Glass   *GlassMaterial
	Panels  []Panel
	Water   *Water
	Hints   RenderHints
}

// Build constructs the scene from the current pool state. Pool dimensions
// are read once here; geometry is never rebuilt afterwards.
func Build(st *pool.State, opts Options) *Scene {
	snap := st.Snapshot()
	dims := st.Dimensions()

	aspect := float32(1)
	if opts.Width > 0 && opts.Height > 0 {
		aspect = float32(opts.Width) / float32(opts.Height)
	}

	cam := camera.NewOrbitCamera(CameraFOV, aspect, CameraNear, CameraFar,
		mgl32.Vec3{0, 10, 20}, mgl32.Vec3{})
	cam.Constrain(CameraMinDistance, CameraMaxDistance, CameraMaxPolar)

	sun := lighting.SunDirection(SunElevation, SunAzimuth)
	glass := DefaultGlass()

	return &Scene{
		Camera: cam,
		Sky: Sky{
			Scale:           10000,
			Turbidity:       10,
			Rayleigh:        2,
			MieCoefficient:  0.005,
			MieDirectionalG: 0.8,
			SunPosition:     sun,
		},
		Ambient: lighting.Ambient{
			Color:     pool.MustParseColor("#404040").RGB(),
			Intensity: 1,
		},
		Light: lighting.Directional{
			Color:     pool.MustParseColor("#ffffff").RGB(),
			Intensity: 1,
			Position:  mgl32.Vec3{0, 10, 10},
		},
		Glass:  glass,
		Panels: buildPanels(dims, glass),
		Water:  newWater(dims, snap, sun, opts),
		Hints: RenderHints{
			ToneMapping:             ToneMappingACESFilmic,
			Exposure:                1,
			PhysicallyCorrectLights: true,
			Antialias:               true,
			Alpha:                   true,
		},
	}
}

// Resize updates the camera for a new viewport size.
func (s *Scene) Resize(width, height int) {
	s.Camera.Resize(width, height)
}

// Update binds the latest pool state to the water and advances its clock.
func (s *Scene) Update(snap pool.Snapshot, dt float32) {
	s.Water.Sync(snap)
	s.Water.Advance(dt)
}

// Panel returns the boundary panel with the given name.
func (s *Scene) Panel(name PanelName) (Panel, bool) {
	for _, p := range s.Panels {
		if p.Name == name {
			return p, true
		}
	}
	return Panel{}, false
}
