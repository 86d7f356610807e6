// Package config handles viewer configuration loading and management.
package config

import "time"

// Config holds all viewer settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Pool    PoolConfig    `yaml:"pool"`
	Scene   SceneConfig   `yaml:"scene"`
	Channel ChannelConfig `yaml:"channel"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
	ShowFPS    bool   `yaml:"show_fps"`
}

// PoolConfig holds the pool geometry and the initial water parameters.
// Geometry is fixed for the process lifetime; the water parameters are
// only starting values and change as updates arrive.
type PoolConfig struct {
	Width    float32 `yaml:"width"`
	Length   float32 `yaml:"length"`
	Depth    float32 `yaml:"depth"`
	Color    string  `yaml:"water_color"`
	Opacity  float32 `yaml:"water_opacity"`
	Level    float32 `yaml:"water_level"`
	Movement float32 `yaml:"water_movement"`
}

// SceneConfig holds asset settings for the scene.
type SceneConfig struct {
	NormalMapURL string `yaml:"normal_map_url"`
	TextureSize  int    `yaml:"texture_size"`
}

// ChannelConfig holds live parameter channel settings.
type ChannelConfig struct {
	Endpoint         string        `yaml:"endpoint"`
	ReconnectDelay   time.Duration `yaml:"reconnect_delay"`
	DialTimeout      time.Duration `yaml:"dial_timeout"`
	HandshakeTimeout time.Duration `yaml:"handshake_timeout"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// DefaultNormalMapURL is the tiling water normal map used when none is configured.
const DefaultNormalMapURL = "https://raw.githubusercontent.com/mrdoob/three.js/master/examples/textures/waternormals.jpg"

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      "Glass Pool",
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Pool: PoolConfig{
			Width:    10,
			Length:   20,
			Depth:    2,
			Color:    "#001e0f",
			Opacity:  0.8,
			Level:    1.5,
			Movement: 1.0,
		},
		Scene: SceneConfig{
			NormalMapURL: DefaultNormalMapURL,
			TextureSize:  512,
		},
		Channel: ChannelConfig{
			Endpoint:         "ws://localhost:1880/ws/pool",
			ReconnectDelay:   3 * time.Second,
			DialTimeout:      10 * time.Second,
			HandshakeTimeout: 5 * time.Second,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
