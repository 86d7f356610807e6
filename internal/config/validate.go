package config

import (
	"fmt"
	"net/url"

	"go.uber.org/multierr"
)

// Validate reports every setting that cannot be used to start the viewer.
func (c *Config) Validate() error {
	var err error

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		err = multierr.Append(err, fmt.Errorf("window: size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}

	p := c.Pool
	if p.Width <= 0 || p.Length <= 0 || p.Depth <= 0 {
		err = multierr.Append(err, fmt.Errorf("pool: dimensions %gx%gx%g must be positive", p.Width, p.Length, p.Depth))
	}
	if p.Opacity < 0 || p.Opacity > 1 {
		err = multierr.Append(err, fmt.Errorf("pool: water_opacity %g outside [0,1]", p.Opacity))
	}
	if p.Movement < 0 {
		err = multierr.Append(err, fmt.Errorf("pool: water_movement %g is negative", p.Movement))
	}

	if c.Scene.TextureSize <= 0 {
		err = multierr.Append(err, fmt.Errorf("scene: texture_size %d must be positive", c.Scene.TextureSize))
	}

	u, perr := url.Parse(c.Channel.Endpoint)
	switch {
	case perr != nil:
		err = multierr.Append(err, fmt.Errorf("channel: endpoint: %w", perr))
	case u.Scheme != "ws" && u.Scheme != "wss":
		err = multierr.Append(err, fmt.Errorf("channel: endpoint %q must use ws or wss", c.Channel.Endpoint))
	}
	if c.Channel.ReconnectDelay <= 0 {
		err = multierr.Append(err, fmt.Errorf("channel: reconnect_delay %v must be positive", c.Channel.ReconnectDelay))
	}

	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
