package scene

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/glasspool/internal/engine/water"
	"github.com/Faultbox/glasspool/internal/network/packets"
	"github.com/Faultbox/glasspool/internal/pool"
)

func buildDefault(t *testing.T) (*Scene, *pool.State) {
	t.Helper()
	st, err := pool.New(pool.DefaultValues())
	require.NoError(t, err)
	return Build(st, Options{Width: 1600, Height: 900, NormalMapURL: "n.jpg", TextureSize: 512}), st
}

func TestBuildCamera(t *testing.T) {
	s, _ := buildDefault(t)
	c := s.Camera

	assert.Equal(t, float32(55), c.FOV)
	assert.Equal(t, float32(1), c.Near)
	assert.Equal(t, float32(20000), c.Far)
	assert.Equal(t, float32(1600)/float32(900), c.Aspect)
	assert.True(t, vecNear(c.Position(), mgl32.Vec3{0, 10, 20}, 1e-4))
	assert.Equal(t, mgl32.Vec3{}, c.Target)
	assert.Equal(t, float32(5), c.MinDistance)
	assert.Equal(t, float32(100), c.MaxDistance)
	assert.InDelta(t, 0.495*math.Pi, c.MaxPolar, 1e-6)
}

func TestBuildPanels(t *testing.T) {
	s, _ := buildDefault(t)

	require.Len(t, s.Panels, 5, "four walls and a floor, no lid")

	names := map[PanelName]bool{}
	for _, p := range s.Panels {
		names[p.Name] = true
		assert.Same(t, s.Glass, p.Material)
	}
	for _, n := range []PanelName{PanelBottom, PanelFront, PanelBack, PanelLeft, PanelRight} {
		assert.True(t, names[n], "missing %s", n)
	}

	tests := []struct {
		name          PanelName
		width, height float32
		position      mgl32.Vec3
		normal        mgl32.Vec3
	}{
		{PanelBottom, 10, 20, mgl32.Vec3{0, -2, 0}, mgl32.Vec3{0, 1, 0}},
		{PanelFront, 10, 2, mgl32.Vec3{0, -1, 10}, mgl32.Vec3{0, 0, -1}},
		{PanelBack, 10, 2, mgl32.Vec3{0, -1, -10}, mgl32.Vec3{0, 0, 1}},
		{PanelLeft, 20, 2, mgl32.Vec3{-5, -1, 0}, mgl32.Vec3{1, 0, 0}},
		{PanelRight, 20, 2, mgl32.Vec3{5, -1, 0}, mgl32.Vec3{-1, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(string(tt.name), func(t *testing.T) {
			p, ok := s.Panel(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.width, p.Geometry.Width)
			assert.Equal(t, tt.height, p.Geometry.Height)
			assert.True(t, vecNear(p.Transform.Position, tt.position, 1e-5), "position %v", p.Transform.Position)
			// Every wall faces into the pool.
			assert.True(t, vecNear(p.Transform.Normal(), tt.normal, 1e-5), "normal %v", p.Transform.Normal())
		})
	}

	_, ok := s.Panel("top")
	assert.False(t, ok)
}

func TestGlassMaterial(t *testing.T) {
	g := DefaultGlass()
	assert.Equal(t, pool.Color(0x88ccee).RGB(), g.Color)
	assert.Equal(t, float32(1), g.Transmission)
	assert.Equal(t, float32(1.5), g.IOR)
	assert.Equal(t, float32(0.5), g.Reflectivity)
	assert.Equal(t, float32(1), g.Clearcoat)
	assert.Zero(t, g.Roughness)
	assert.True(t, g.DoubleSided)
}

func TestBuildSkyAndLights(t *testing.T) {
	s, _ := buildDefault(t)

	assert.Equal(t, float32(10000), s.Sky.Scale)
	assert.Equal(t, float32(10), s.Sky.Turbidity)
	assert.Equal(t, float32(2), s.Sky.Rayleigh)
	assert.Equal(t, float32(0.005), s.Sky.MieCoefficient)
	assert.Equal(t, float32(0.8), s.Sky.MieDirectionalG)

	// Low sun towards -Z.
	sun := s.Sky.SunPosition
	assert.InDelta(t, math.Sin(5*math.Pi/180), sun.Y(), 1e-5)
	assert.Less(t, sun.Z(), float32(-0.99))
	assert.True(t, vecNear(s.Water.Params.SunDirection, sun, 1e-5))

	assert.Equal(t, pool.Color(0x404040).RGB(), s.Ambient.Color)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, s.Light.Color)
	assert.Equal(t, float32(1), s.Light.Intensity)
	assert.Equal(t, mgl32.Vec3{0, 10, 10}, s.Light.Position)

	assert.Equal(t, ToneMappingACESFilmic, s.Hints.ToneMapping)
	assert.True(t, s.Hints.Antialias)
	assert.True(t, s.Hints.Alpha)
}

func TestBuildWater(t *testing.T) {
	s, _ := buildDefault(t)
	w := s.Water

	assert.InDelta(t, 9.8, w.Geometry.Width, 1e-5)
	assert.InDelta(t, 19.8, w.Geometry.Height, 1e-5)
	assert.Equal(t, float32(1.5-2), w.Height())
	assert.True(t, vecNear(w.Transform.Normal(), mgl32.Vec3{0, 1, 0}, 1e-5))
	assert.Equal(t, pool.Color(0x001e0f).RGB(), w.Params.Color)
	assert.Equal(t, float32(0.8), w.Params.Alpha)
	assert.Equal(t, float32(1), w.Params.DistortionScale)
	assert.Equal(t, 512, w.TextureSize)
	assert.Equal(t, "n.jpg", w.NormalMapURL)
	assert.True(t, w.Transparent)
	assert.Zero(t, w.Params.Time)
}

func TestWaterLevelUpdate(t *testing.T) {
	s, st := buildDefault(t)

	u, err := packets.Decode([]byte(`{"waterLevel":"2.5"}`))
	require.NoError(t, err)
	st.Apply(u.Patch())

	assert.True(t, s.Water.Sync(st.Snapshot()))
	assert.Equal(t, float32(0.5), s.Water.Height())

	// Nothing new: no work.
	assert.False(t, s.Water.Sync(st.Snapshot()))
}

func TestWaterColorUpdateLeavesOthers(t *testing.T) {
	s, st := buildDefault(t)
	before := s.Water.Params

	u, err := packets.Decode([]byte(`{"waterColor":"#ff0000"}`))
	require.NoError(t, err)
	st.Apply(u.Patch())
	s.Update(st.Snapshot(), 0)

	assert.Equal(t, mgl32.Vec3{1, 0, 0}, s.Water.Params.Color)
	assert.Equal(t, before.Alpha, s.Water.Params.Alpha)
	assert.Equal(t, before.DistortionScale, s.Water.Params.DistortionScale)
	assert.Equal(t, float32(-0.5), s.Water.Height())
}

func TestWaterOpacityAndMovement(t *testing.T) {
	s, st := buildDefault(t)

	u, err := packets.Decode([]byte(`{"waterOpacity":"0.35","waterMovement":4}`))
	require.NoError(t, err)
	st.Apply(u.Patch())
	s.Update(st.Snapshot(), 0)

	assert.Equal(t, float32(0.35), s.Water.Params.Alpha)
	assert.Equal(t, float32(4), s.Water.Params.DistortionScale)
}

func TestUpdateAdvancesTime(t *testing.T) {
	s, st := buildDefault(t)

	for i := 0; i < 120; i++ {
		s.Update(st.Snapshot(), water.FrameStep)
	}
	assert.InDelta(t, 2, s.Water.Params.Time, 1e-3)
}

func TestResize(t *testing.T) {
	s, _ := buildDefault(t)

	s.Resize(1024, 768)
	assert.Equal(t, float32(1024)/float32(768), s.Camera.Aspect)
}

func TestGeometryFixedAfterBuild(t *testing.T) {
	s, st := buildDefault(t)
	geo := s.Water.Geometry

	level := float32(10)
	st.Apply(pool.Patch{Level: &level})
	s.Update(st.Snapshot(), water.FrameStep)

	assert.Equal(t, geo, s.Water.Geometry)
	assert.Equal(t, float32(8), s.Water.Height())
}

// vecNear compares component-wise with an absolute tolerance.
func vecNear(got, want mgl32.Vec3, eps float32) bool {
	return got.ApproxFuncEqual(want, func(a, b float32) bool {
		return mgl32.Abs(a-b) <= eps
	})
}
