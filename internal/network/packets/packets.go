// Package packets defines the JSON messages exchanged with the automation server.
package packets

import (
	"encoding/json"

	"github.com/Faultbox/glasspool/internal/pool"
)

// TypeInit is the discriminator of the snapshot sent when a connection opens.
const TypeInit = "init"

// Field names on the wire.
const (
	FieldWaterLevel    = "waterLevel"
	FieldWaterColor    = "waterColor"
	FieldWaterOpacity  = "waterOpacity"
	FieldWaterMovement = "waterMovement"
)

// Init announces the viewer's current parameters. It is sent exactly once
// per connection and expects no reply.
type Init struct {
	Type          string  `json:"type"`
	WaterLevel    float32 `json:"waterLevel"`
	WaterColor    string  `json:"waterColor"`
	WaterOpacity  float32 `json:"waterOpacity"`
	WaterMovement float32 `json:"waterMovement"`
}

// NewInit builds an Init from a state snapshot.
func NewInit(s pool.Snapshot) Init {
	return Init{
		Type:          TypeInit,
		WaterLevel:    s.Level,
		WaterColor:    s.Color.Hex(),
		WaterOpacity:  s.Opacity,
		WaterMovement: s.Movement,
	}
}

// Encode encodes the packet.
func (p Init) Encode() ([]byte, error) {
	return json.Marshal(p)
}

// Number is an optional numeric field.
type Number struct {
	Value float32
	Set   bool
}

// Color is an optional colour field.
type Color struct {
	Value pool.Color
	Set   bool
}

// Update is an inbound partial update. Only fields with Set are applied.
type Update struct {
	WaterLevel    Number
	WaterColor    Color
	WaterOpacity  Number
	WaterMovement Number
}

// Empty reports whether no field is set.
func (u Update) Empty() bool {
	return !u.WaterLevel.Set && !u.WaterColor.Set && !u.WaterOpacity.Set && !u.WaterMovement.Set
}

// Patch converts the update to a pool.Patch.
func (u Update) Patch() pool.Patch {
	var p pool.Patch
	if u.WaterLevel.Set {
		v := u.WaterLevel.Value
		p.Level = &v
	}
	if u.WaterColor.Set {
		v := u.WaterColor.Value
		p.Color = &v
	}
	if u.WaterOpacity.Set {
		v := u.WaterOpacity.Value
		p.Opacity = &v
	}
	if u.WaterMovement.Set {
		v := u.WaterMovement.Value
		p.Movement = &v
	}
	return p
}

// MarshalJSON writes the set fields, numbers as numbers and colour as "#rrggbb".
func (u Update) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, 4)
	if u.WaterLevel.Set {
		m[FieldWaterLevel] = u.WaterLevel.Value
	}
	if u.WaterColor.Set {
		m[FieldWaterColor] = u.WaterColor.Value.Hex()
	}
	if u.WaterOpacity.Set {
		m[FieldWaterOpacity] = u.WaterOpacity.Value
	}
	if u.WaterMovement.Set {
		m[FieldWaterMovement] = u.WaterMovement.Value
	}
	return json.Marshal(m)
}
