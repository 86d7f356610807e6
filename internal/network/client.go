// Package network implements the live parameter channel: a WebSocket client
// that announces the pool state on connect and applies inbound updates.
package network

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Faultbox/glasspool/internal/logger"
	"github.com/Faultbox/glasspool/internal/network/packets"
	"github.com/Faultbox/glasspool/internal/pool"
)

// DefaultReconnectDelay is the fixed wait between a close and the next dial.
const DefaultReconnectDelay = 3 * time.Second

// Config configures a Client.
type Config struct {
	Endpoint         string
	ReconnectDelay   time.Duration
	DialTimeout      time.Duration
	HandshakeTimeout time.Duration

	// Clock defaults to SystemClock.
	Clock Clock

	// OnStateChange is called from the channel goroutine on every transition.
	OnStateChange func(ConnState)

	// OnApply is called after an inbound update changed the state.
	OnApply func(pool.Changed)
}

// Client is the reconnecting live parameter channel.
type Client struct {
	cfg    Config
	state  *pool.State
	dialer *websocket.Dialer
	log    *zap.Logger

	mu        sync.Mutex
	connState ConnState
	session   string
}

// New creates a client that reads and writes st.
func New(st *pool.State, cfg Config) *Client {
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = DefaultReconnectDelay
	}
	if cfg.Clock == nil {
		cfg.Clock = SystemClock
	}

	return &Client{
		cfg:   cfg,
		state: st,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: cfg.HandshakeTimeout,
		},
		log:       logger.Named("channel"),
		connState: StateConnecting,
	}
}

// State returns the current connection state.
func (c *Client) State() ConnState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connState
}

// Session returns the id of the current or most recent connection.
func (c *Client) Session() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

func (c *Client) setState(s ConnState) {
	c.mu.Lock()
	if c.connState == s {
		c.mu.Unlock()
		return
	}
	c.connState = s
	c.mu.Unlock()

	c.log.Debug("state", zap.Stringer("state", s))
	if c.cfg.OnStateChange != nil {
		c.cfg.OnStateChange(s)
	}
}

// Run connects and reconnects until ctx is cancelled. Every close, clean or
// not, is followed by the same fixed delay before the next attempt.
func (c *Client) Run(ctx context.Context) {
	c.log.Info("channel started",
		zap.String("endpoint", c.cfg.Endpoint),
		zap.Duration("reconnect_delay", c.cfg.ReconnectDelay))

	for {
		c.setState(StateConnecting)

		err := c.serve(ctx)
		c.setState(StateClosed)

		if ctx.Err() != nil {
			c.log.Info("channel stopped")
			return
		}
		c.logClose(err)

		select {
		case <-ctx.Done():
			c.log.Info("channel stopped")
			return
		case <-c.cfg.Clock.After(c.cfg.ReconnectDelay):
		}
	}
}

// serve runs one connection from dial to close.
func (c *Client) serve(ctx context.Context) error {
	dialCtx := ctx
	if c.cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, c.cfg.DialTimeout)
		defer cancel()
	}

	conn, _, err := c.dialer.DialContext(dialCtx, c.cfg.Endpoint, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.cfg.Endpoint, err)
	}
	defer conn.Close()

	session := uuid.NewString()
	c.mu.Lock()
	c.session = session
	c.mu.Unlock()
	log := c.log.With(zap.String("session", session))

	// Unblock ReadMessage on shutdown.
	stop := context.AfterFunc(ctx, func() {
		msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "viewer shutting down")
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		_ = conn.Close()
	})
	defer stop()

	c.setState(StateOpen)
	log.Info("connected", zap.String("endpoint", c.cfg.Endpoint))

	if err := c.sendInit(conn, log); err != nil {
		return err
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		c.handle(data, log)
	}
}

func (c *Client) sendInit(conn *websocket.Conn, log *zap.Logger) error {
	snap := c.state.Snapshot()
	data, err := packets.NewInit(snap).Encode()
	if err != nil {
		return fmt.Errorf("encoding init: %w", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("sending init: %w", err)
	}
	log.Debug("init sent",
		zap.Float32("level", snap.Level),
		zap.Stringer("color", snap.Color),
		zap.Float32("opacity", snap.Opacity),
		zap.Float32("movement", snap.Movement))
	return nil
}

// handle decodes one inbound message and applies its valid fields.
func (c *Client) handle(data []byte, log *zap.Logger) {
	u, err := packets.Decode(data)
	if errors.Is(err, packets.ErrMalformed) {
		log.Warn("dropping message", zap.Error(err), zap.ByteString("payload", data))
		return
	}
	for _, fe := range packets.FieldErrors(err) {
		log.Warn("skipping field",
			zap.String("field", fe.Field),
			zap.String("value", fe.Value),
			zap.Error(fe.Err))
	}
	if u.Empty() {
		return
	}

	changed := c.state.Apply(u.Patch())
	log.Debug("update applied", zap.Stringer("changed", changed))
	if changed != 0 && c.cfg.OnApply != nil {
		c.cfg.OnApply(changed)
	}
}

func (c *Client) logClose(err error) {
	switch {
	case err == nil:
		return
	case websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway):
		c.log.Info("connection closed by server", zap.Error(err))
	default:
		c.log.Warn("connection lost", zap.Error(err))
	}
}
