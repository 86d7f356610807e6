// Package renderer draws the pool scene with OpenGL.
package renderer

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/glasspool/internal/engine/renderer/shaders"
	"github.com/Faultbox/glasspool/internal/engine/shader"
	"github.com/Faultbox/glasspool/internal/engine/texture"
	"github.com/Faultbox/glasspool/internal/logger"
	"github.com/Faultbox/glasspool/internal/scene"
)

// horizonColor is the sky tint reflected by glass and water.
var horizonColor = mgl32.Vec3{0.55, 0.68, 0.82}

// rippleSeed fixes the look of the built-in water normals.
const rippleSeed = 1880

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int

	// TextureSize is the edge of the built-in ripple normal map.
	TextureSize int
}

// Renderer handles all OpenGL rendering.
// New must be called after the OpenGL context exists.
type Renderer struct {
	config Config
	log    *zap.Logger

	skyProgram   *shader.Program
	glassProgram *shader.Program
	waterProgram *shader.Program

	// Sky is a vertexless fullscreen triangle but core profile still
	// needs a VAO bound.
	emptyVAO uint32

	panels    []*mesh
	water     *mesh
	normalMap uint32
}

// New initializes OpenGL, compiles the shader programs and uploads the
// scene's meshes.
func New(cfg Config, s *scene.Scene) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
		log:    logger.Named("renderer"),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	if s.Hints.Antialias {
		gl.Enable(gl.MULTISAMPLE)
	}
	clearAlpha := float32(1)
	if s.Hints.Alpha {
		clearAlpha = 0
	}
	gl.ClearColor(0, 0, 0, clearAlpha)

	if err := r.compilePrograms(); err != nil {
		r.Close()
		return nil, err
	}

	gl.GenVertexArrays(1, &r.emptyVAO)

	for _, p := range s.Panels {
		r.panels = append(r.panels, newPlaneMesh(p.Geometry))
	}
	r.water = newPlaneMesh(s.Water.Geometry)

	size := cfg.TextureSize
	if size <= 0 {
		size = s.Water.TextureSize
	}
	r.normalMap = uploadTexture(texture.RippleNormal(size, rippleSeed))

	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

func (r *Renderer) compilePrograms() error {
	var err error

	vert, frag := shaders.Sky()
	if r.skyProgram, err = shader.New("sky", vert, frag); err != nil {
		return err
	}
	vert, frag = shaders.Glass()
	if r.glassProgram, err = shader.New("glass", vert, frag); err != nil {
		return err
	}
	vert, frag = shaders.Water()
	if r.waterProgram, err = shader.New("water", vert, frag); err != nil {
		return err
	}

	r.log.Debug("shader programs compiled",
		zap.Uint32("sky", r.skyProgram.ID),
		zap.Uint32("glass", r.glassProgram.ID),
		zap.Uint32("water", r.waterProgram.ID),
	)
	return nil
}

// SetNormalMap replaces the water normal map.
func (r *Renderer) SetNormalMap(img *image.RGBA) {
	replaceTexture(r.normalMap, img)
	r.log.Info("water normal map bound",
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()),
	)
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	for _, m := range r.panels {
		m.destroy()
	}
	r.panels = nil
	if r.water != nil {
		r.water.destroy()
		r.water = nil
	}
	if r.normalMap != 0 {
		gl.DeleteTextures(1, &r.normalMap)
		r.normalMap = 0
	}
	if r.emptyVAO != 0 {
		gl.DeleteVertexArrays(1, &r.emptyVAO)
		r.emptyVAO = 0
	}
	for _, p := range []*shader.Program{r.skyProgram, r.glassProgram, r.waterProgram} {
		if p != nil {
			p.Delete()
		}
	}
}

// Resize sets the viewport. Sizes are in drawable pixels.
func (r *Renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// begin clears the frame.
func (r *Renderer) begin() {
	gl.DepthMask(true)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// end unbinds per-frame state.
func (r *Renderer) end() {
	gl.BindVertexArray(0)
	gl.UseProgram(0)
}

// Render draws one frame: sky, then the water, then the glass panels
// blended back to front.
func (r *Renderer) Render(s *scene.Scene) {
	r.begin()

	viewProj := s.Camera.ViewProjection()
	eye := s.Camera.Position()

	r.drawSky(s)

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.DepthMask(false)

	r.drawWater(s, viewProj, eye)
	r.drawGlass(s, viewProj, eye)

	gl.DepthMask(true)
	gl.Disable(gl.BLEND)

	r.end()
}

func (r *Renderer) setToneMapping(p *shader.Program, hints scene.RenderHints) {
	p.SetInt("uToneMapping", int32(hints.ToneMapping))
	p.SetFloat("uExposure", hints.Exposure)
}

func (r *Renderer) drawSky(s *scene.Scene) {
	p := r.skyProgram
	p.Use()
	r.setToneMapping(p, s.Hints)

	// Drop translation so the sky stays centred on the camera.
	view := s.Camera.ViewMatrix()
	view.SetCol(3, mgl32.Vec4{0, 0, 0, 1})
	inv := s.Camera.ProjectionMatrix().Mul4(view).Inv()

	p.SetMat4("uInvViewProj", inv)
	p.SetVec3("uSunPosition", s.Sky.SunPosition)
	p.SetFloat("uTurbidity", s.Sky.Turbidity)
	p.SetFloat("uRayleigh", s.Sky.Rayleigh)
	p.SetFloat("uMieCoefficient", s.Sky.MieCoefficient)
	p.SetFloat("uMieDirectionalG", s.Sky.MieDirectionalG)

	gl.DepthMask(false)
	gl.BindVertexArray(r.emptyVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	gl.DepthMask(true)
}

func (r *Renderer) drawWater(s *scene.Scene, viewProj mgl32.Mat4, eye mgl32.Vec3) {
	w := s.Water
	p := r.waterProgram
	p.Use()
	r.setToneMapping(p, s.Hints)

	a, b := w.Params.NormalOffsets()

	p.SetMat4("uModel", w.Transform.Matrix())
	p.SetMat4("uViewProj", viewProj)
	p.SetVec3("uCameraPosition", eye)
	p.SetFloat("uTime", w.Params.Time)
	p.SetVec2("uOffsetA", a)
	p.SetVec2("uOffsetB", b)
	p.SetFloat("uSize", w.Params.Size)
	p.SetFloat("uDistortionScale", w.Params.DistortionScale)
	p.SetVec3("uWaterColor", w.Params.Color)
	p.SetVec3("uSunDirection", w.Params.SunDirection)
	p.SetVec3("uSunColor", w.Params.SunColor)
	p.SetVec3("uHorizonColor", horizonColor)

	alpha := w.Params.Alpha
	if !w.Transparent {
		alpha = 1
	}
	p.SetFloat("uAlpha", alpha)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.normalMap)
	p.SetInt("uNormalSampler", 0)

	// Visible from below through the glass floor too.
	gl.Disable(gl.CULL_FACE)
	r.water.draw()

	gl.BindTexture(gl.TEXTURE_2D, 0)
}

func (r *Renderer) drawGlass(s *scene.Scene, viewProj mgl32.Mat4, eye mgl32.Vec3) {
	p := r.glassProgram
	p.Use()
	r.setToneMapping(p, s.Hints)

	m := s.Glass
	p.SetMat4("uViewProj", viewProj)
	p.SetVec3("uCameraPosition", eye)
	p.SetVec3("uColor", m.Color)
	p.SetFloat("uOpacity", m.Opacity)
	p.SetFloat("uTransmission", m.Transmission)
	p.SetFloat("uRoughness", m.Roughness)
	p.SetFloat("uIOR", m.IOR)
	p.SetFloat("uReflectivity", m.Reflectivity)
	p.SetFloat("uClearcoat", m.Clearcoat)
	p.SetFloat("uClearcoatRoughness", m.ClearcoatRoughness)
	p.SetVec3("uAmbient", s.Ambient.Radiance())
	p.SetVec3("uLightDirection", s.Light.Direction())
	p.SetVec3("uLightColor", s.Light.Radiance())
	p.SetVec3("uHorizonColor", horizonColor)

	if m.DoubleSided {
		gl.Disable(gl.CULL_FACE)
	} else {
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	}

	for _, i := range backToFront(s.Panels, eye) {
		p.SetMat4("uModel", s.Panels[i].Transform.Matrix())
		r.panels[i].draw()
	}
}
