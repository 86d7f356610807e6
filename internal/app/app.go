// Package app runs the viewer: window, scene, live parameter channel and
// the render loop.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/glasspool/internal/config"
	"github.com/Faultbox/glasspool/internal/engine/input"
	"github.com/Faultbox/glasspool/internal/engine/renderer"
	"github.com/Faultbox/glasspool/internal/engine/texture"
	"github.com/Faultbox/glasspool/internal/engine/water"
	"github.com/Faultbox/glasspool/internal/engine/window"
	"github.com/Faultbox/glasspool/internal/logger"
	"github.com/Faultbox/glasspool/internal/network"
	"github.com/Faultbox/glasspool/internal/pool"
	"github.com/Faultbox/glasspool/internal/scene"
)

// msaaSamples is used when the scene asks for antialiasing.
const msaaSamples = 4

// App is the viewer instance.
type App struct {
	cfg *config.Config
	log *zap.Logger

	state    *pool.State
	scene    *scene.Scene
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	channel  *network.Client
	loader   *texture.Loader
}

// New creates the pool state, window, scene and renderer. It must run on
// the main thread.
func New(cfg *config.Config) (*App, error) {
	a := &App{
		cfg: cfg,
		log: logger.Named("app"),
	}

	defaults, err := PoolDefaults(cfg.Pool)
	if err != nil {
		return nil, err
	}
	a.state, err = pool.New(defaults)
	if err != nil {
		return nil, fmt.Errorf("pool state: %w", err)
	}

	a.log.Info("initializing viewer",
		zap.String("title", cfg.Window.Title),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
		zap.String("endpoint", cfg.Channel.Endpoint),
	)

	a.scene = scene.Build(a.state, scene.Options{
		Width:        cfg.Window.Width,
		Height:       cfg.Window.Height,
		NormalMapURL: cfg.Scene.NormalMapURL,
		TextureSize:  cfg.Scene.TextureSize,
	})

	samples := 0
	if a.scene.Hints.Antialias {
		samples = msaaSamples
	}

	// Window creates the OpenGL context.
	a.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
		Samples:    samples,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	width, height := a.window.DrawableSize()
	a.renderer, err = renderer.New(renderer.Config{
		Width:       width,
		Height:      height,
		TextureSize: cfg.Scene.TextureSize,
	}, a.scene)
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	a.scene.Resize(width, height)

	a.input = input.New()
	a.loader = texture.NewLoader(cfg.Scene.TextureSize)
	a.channel = network.New(a.state, ChannelConfig(cfg.Channel))

	return a, nil
}

// PoolDefaults converts the pool section of the config into state defaults.
func PoolDefaults(c config.PoolConfig) (pool.Defaults, error) {
	color, err := pool.ParseColor(c.Color)
	if err != nil {
		return pool.Defaults{}, fmt.Errorf("pool.water_color: %w", err)
	}
	return pool.Defaults{
		Dimensions: pool.Dimensions{Width: c.Width, Length: c.Length, Depth: c.Depth},
		Color:      color,
		Opacity:    c.Opacity,
		Level:      c.Level,
		Movement:   c.Movement,
	}, nil
}

// ChannelConfig converts the channel section of the config into client settings.
func ChannelConfig(c config.ChannelConfig) network.Config {
	log := logger.Named("channel")
	return network.Config{
		Endpoint:         c.Endpoint,
		ReconnectDelay:   c.ReconnectDelay,
		DialTimeout:      c.DialTimeout,
		HandshakeTimeout: c.HandshakeTimeout,
		OnStateChange: func(s network.ConnState) {
			log.Debug("channel state", zap.Stringer("state", s))
		},
		OnApply: func(ch pool.Changed) {
			log.Info("pool updated", zap.Stringer("changed", ch))
		},
	}
}

// Run drives the render loop until the window closes or ctx is cancelled.
// The channel and the texture download stop before Run returns.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		a.channel.Run(ctx)
	}()
	defer wg.Wait()
	defer cancel()

	var normalMap <-chan texture.Result
	if url := a.scene.Water.NormalMapURL; url != "" {
		normalMap = a.loader.LoadAsync(ctx, url)
	}

	frames := 0
	fpsTimer := time.Now()
	lastFrame := time.Now()

	a.log.Info("starting render loop")

	for {
		if ctx.Err() != nil {
			return nil
		}

		if a.input.Update() {
			return nil
		}
		if a.handleEvents() {
			return nil
		}

		a.scene.Update(a.state.Snapshot(), water.FrameStep)

		select {
		case res := <-normalMap:
			normalMap = nil
			if res.Err != nil {
				a.log.Warn("normal map load failed; keeping built-in ripple normals",
					zap.String("url", a.scene.Water.NormalMapURL),
					zap.Error(res.Err),
				)
			} else {
				a.renderer.SetNormalMap(res.Image)
			}
		default:
		}

		a.renderer.Render(a.scene)
		a.window.SwapBuffers()

		now := time.Now()
		dt := now.Sub(lastFrame)
		lastFrame = now

		frames++
		if time.Since(fpsTimer) >= time.Second {
			a.log.Debug("fps",
				zap.Int("count", frames),
				zap.Duration("frame", dt),
				zap.Stringer("channel", a.channel.State()),
			)
			if a.cfg.Window.ShowFPS {
				a.window.SetTitle(fmt.Sprintf("%s (%d fps)", a.cfg.Window.Title, frames))
			}
			frames = 0
			fpsTimer = now
		}
	}
}

// handleEvents applies this frame's input. It returns true on quit.
func (a *App) handleEvents() bool {
	cam := a.scene.Camera
	for _, event := range a.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			width, height := a.window.DrawableSize()
			winW, winH := a.window.GetSize()
			a.log.Debug("window resized",
				zap.Int("width", winW),
				zap.Int("height", winH),
				zap.Int("drawable_width", width),
				zap.Int("drawable_height", height),
			)
			a.scene.Resize(width, height)
			a.renderer.Resize(width, height)
		case input.EventKeyDown:
			if event.Key == sdl.Scancode(sdl.SCANCODE_ESCAPE) {
				return true
			}
		case input.EventMouseMove:
			if a.input.IsButtonDown(uint8(sdl.BUTTON_LEFT)) {
				cam.HandleDrag(event.DeltaX, event.DeltaY)
			}
		case input.EventMouseWheel:
			cam.HandleZoom(event.DeltaY)
		}
	}
	return false
}

// Close releases GL and window resources.
func (a *App) Close() {
	a.log.Info("closing viewer")

	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}
