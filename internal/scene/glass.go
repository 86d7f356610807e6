package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/glasspool/internal/engine/geometry"
	"github.com/Faultbox/glasspool/internal/pool"
)

// GlassMaterial is a physically based transmissive material.
type GlassMaterial struct {
	Color              mgl32.Vec3
	Metalness          float32
	Roughness          float32
	Transmission       float32
	Thickness          float32
	Opacity            float32
	IOR                float32
	Reflectivity       float32
	Clearcoat          float32
	ClearcoatRoughness float32
	DoubleSided        bool
}

// DefaultGlass is clear, slightly blue glass.
func DefaultGlass() *GlassMaterial {
	return &GlassMaterial{
		Color:              pool.MustParseColor("#88ccee").RGB(),
		Metalness:          0,
		Roughness:          0,
		Transmission:       1,
		Thickness:          1,
		Opacity:            1,
		IOR:                1.5,
		Reflectivity:       0.5,
		Clearcoat:          1,
		ClearcoatRoughness: 0,
		DoubleSided:        true,
	}
}

// PanelName identifies one side of the pool.
type PanelName string

const (
	PanelBottom PanelName = "bottom"
	PanelFront  PanelName = "front"
	PanelBack   PanelName = "back"
	PanelLeft   PanelName = "left"
	PanelRight  PanelName = "right"
)

// Panel is one glass side of the pool. The pool has no lid.
type Panel struct {
	Name      PanelName
	Geometry  geometry.Plane
	Transform geometry.Transform
	Material  *GlassMaterial
}

// buildPanels lays out the pool so its rim sits at y=0 and the floor at y=-depth.
func buildPanels(d pool.Dimensions, glass *GlassMaterial) []Panel {
	w, l, h := d.Width, d.Length, d.Depth
	halfPi := float32(math.Pi / 2)

	return []Panel{
		{
			Name:     PanelBottom,
			Geometry: geometry.Plane{Width: w, Height: l},
			Transform: geometry.Transform{
				Rotation: mgl32.Vec3{-halfPi, 0, 0},
				Position: mgl32.Vec3{0, -h, 0},
			},
			Material: glass,
		},
		{
			Name:     PanelFront,
			Geometry: geometry.Plane{Width: w, Height: h},
			Transform: geometry.Transform{
				Rotation: mgl32.Vec3{0, math.Pi, 0},
				Position: mgl32.Vec3{0, -h / 2, l / 2},
			},
			Material: glass,
		},
		{
			Name:     PanelBack,
			Geometry: geometry.Plane{Width: w, Height: h},
			Transform: geometry.Transform{
				Position: mgl32.Vec3{0, -h / 2, -l / 2},
			},
			Material: glass,
		},
		{
			Name:     PanelLeft,
			Geometry: geometry.Plane{Width: l, Height: h},
			Transform: geometry.Transform{
				Rotation: mgl32.Vec3{0, halfPi, 0},
				Position: mgl32.Vec3{-w / 2, -h / 2, 0},
			},
			Material: glass,
		},
		{
			Name:     PanelRight,
			Geometry: geometry.Plane{Width: l, Height: h},
			Transform: geometry.Transform{
				Rotation: mgl32.Vec3{0, -halfPi, 0},
				Position: mgl32.Vec3{w / 2, -h / 2, 0},
			},
			Material: glass,
		},
	}
}
