// Package pool holds the pool render state: fixed pool geometry plus the
// water parameters that the live channel may change at any time.
package pool

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
)

// Dimensions is the pool's fixed geometry in world units.
type Dimensions struct {
	Width  float32
	Length float32
	Depth  float32
}

// Defaults are the values a State starts with.
type Defaults struct {
	Dimensions
	Color    Color
	Opacity  float32
	Level    float32
	Movement float32
}

// DefaultValues returns the stock pool: 10x20x2 with dark green water.
func DefaultValues() Defaults {
	return Defaults{
		Dimensions: Dimensions{Width: 10, Length: 20, Depth: 2},
		Color:      0x001e0f,
		Opacity:    0.8,
		Level:      1.5,
		Movement:   1.0,
	}
}

// Snapshot is a consistent copy of the whole state.
type Snapshot struct {
	Dimensions
	Color    Color
	Opacity  float32
	Level    float32
	Movement float32

	// Generation increases every time Apply changes a value.
	Generation uint64
}

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	Level    *float32
	Color    *Color
	Opacity  *float32
	Movement *float32
}

// Empty reports whether the patch carries no fields.
func (p Patch) Empty() bool {
	return p.Level == nil && p.Color == nil && p.Opacity == nil && p.Movement == nil
}

// Changed is a bit set of the fields an Apply modified.
type Changed uint8

const (
	ChangedLevel Changed = 1 << iota
	ChangedColor
	ChangedOpacity
	ChangedMovement
)

// Has reports whether all bits of f are set.
func (c Changed) Has(f Changed) bool {
	return c&f == f
}

func (c Changed) String() string {
	if c == 0 {
		return "none"
	}
	var names []string
	for _, f := range []struct {
		bit  Changed
		name string
	}{
		{ChangedLevel, "waterLevel"},
		{ChangedColor, "waterColor"},
		{ChangedOpacity, "waterOpacity"},
		{ChangedMovement, "waterMovement"},
	} {
		if c.Has(f.bit) {
			names = append(names, f.name)
		}
	}
	return strings.Join(names, ",")
}

// State is the pool render state shared by the channel (writer) and the
// render loop (reader).
type State struct {
	mu   sync.RWMutex
	dims Dimensions

	color    Color
	opacity  float32
	level    float32
	movement float32
	gen      uint64
}

// New creates a State from defaults.
func New(d Defaults) (*State, error) {
	if !(d.Width > 0 && d.Length > 0 && d.Depth > 0) {
		return nil, fmt.Errorf("pool dimensions %gx%gx%g must be positive", d.Width, d.Length, d.Depth)
	}
	if !finite(d.Level) || !finite(d.Opacity) || !finite(d.Movement) {
		return nil, errors.New("pool defaults must be finite")
	}

	return &State{
		dims:     d.Dimensions,
		color:    d.Color & 0xffffff,
		opacity:  clamp01(d.Opacity),
		level:    d.Level,
		movement: max(d.Movement, 0),
	}, nil
}

// Dimensions returns the fixed pool geometry.
func (s *State) Dimensions() Dimensions {
	return s.dims
}

// Snapshot returns a copy of the current state.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		Dimensions: s.dims,
		Color:      s.color,
		Opacity:    s.opacity,
		Level:      s.level,
		Movement:   s.movement,
		Generation: s.gen,
	}
}

// Apply writes every present field of p in one critical section, so a
// reader never sees half of a multi-field update. Non-finite numbers are
// ignored, opacity is clamped to [0,1] and movement to >= 0.
// It returns the set of fields whose value actually changed.
func (s *State) Apply(p Patch) Changed {
	s.mu.Lock()
	defer s.mu.Unlock()

	var changed Changed

	if p.Level != nil && finite(*p.Level) && *p.Level != s.level {
		s.level = *p.Level
		changed |= ChangedLevel
	}
	if p.Color != nil {
		if c := *p.Color & 0xffffff; c != s.color {
			s.color = c
			changed |= ChangedColor
		}
	}
	if p.Opacity != nil && finite(*p.Opacity) {
		if v := clamp01(*p.Opacity); v != s.opacity {
			s.opacity = v
			changed |= ChangedOpacity
		}
	}
	if p.Movement != nil && finite(*p.Movement) {
		if v := max(*p.Movement, 0); v != s.movement {
			s.movement = v
			changed |= ChangedMovement
		}
	}

	if changed != 0 {
		s.gen++
	}
	return changed
}

func finite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func clamp01(v float32) float32 {
	return min(max(v, 0), 1)
}
