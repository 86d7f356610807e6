package packets

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/glasspool/internal/pool"
)

func TestInitEncode(t *testing.T) {
	snap := pool.Snapshot{
		Color:    0x001e0f,
		Opacity:  0.8,
		Level:    1.5,
		Movement: 1,
	}

	data, err := NewInit(snap).Encode()
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"type": "init",
		"waterLevel": 1.5,
		"waterColor": "#001e0f",
		"waterOpacity": 0.8,
		"waterMovement": 1
	}`, string(data))
}

func TestDecodeNumbersAndStrings(t *testing.T) {
	u, err := Decode([]byte(`{"waterLevel":"2.5","waterOpacity":0.25,"waterMovement":" 3 "}`))
	require.NoError(t, err)

	assert.Equal(t, Number{Value: 2.5, Set: true}, u.WaterLevel)
	assert.Equal(t, Number{Value: 0.25, Set: true}, u.WaterOpacity)
	assert.Equal(t, Number{Value: 3, Set: true}, u.WaterMovement)
	assert.False(t, u.WaterColor.Set)
}

func TestDecodeColor(t *testing.T) {
	u, err := Decode([]byte(`{"waterColor":"#FF0000"}`))
	require.NoError(t, err)

	assert.Equal(t, Color{Value: 0xff0000, Set: true}, u.WaterColor)
	assert.False(t, u.WaterLevel.Set)
	assert.False(t, u.WaterOpacity.Set)
	assert.False(t, u.WaterMovement.Set)
}

func TestDecodeIgnoresUnknownFields(t *testing.T) {
	u, err := Decode([]byte(`{"type":"init","payload":{"x":1},"waterLevel":1}`))
	require.NoError(t, err)
	assert.True(t, u.WaterLevel.Set)

	u, err = Decode([]byte(`{}`))
	require.NoError(t, err)
	assert.True(t, u.Empty())
}

func TestDecodeMalformed(t *testing.T) {
	for _, in := range []string{``, `not json`, `[1,2]`, `"waterLevel"`, `null`, `{"waterLevel":`} {
		t.Run(in, func(t *testing.T) {
			u, err := Decode([]byte(in))
			assert.ErrorIs(t, err, ErrMalformed)
			assert.True(t, u.Empty())
		})
	}
}

func TestDecodeFieldErrors(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		field string
		err   error
	}{
		{"non numeric string", `{"waterLevel":"deep"}`, FieldWaterLevel, ErrNotNumber},
		{"partial numeric string", `{"waterLevel":"2.5m"}`, FieldWaterLevel, ErrNotNumber},
		{"bool", `{"waterOpacity":true}`, FieldWaterOpacity, ErrNotNumber},
		{"null", `{"waterOpacity":null}`, FieldWaterOpacity, ErrNotNumber},
		{"nan string", `{"waterLevel":"NaN"}`, FieldWaterLevel, ErrNotFinite},
		{"inf string", `{"waterMovement":"Infinity"}`, FieldWaterMovement, ErrNotFinite},
		{"overflow", `{"waterLevel":1e300}`, FieldWaterLevel, ErrNotFinite},
		{"negative movement", `{"waterMovement":-1}`, FieldWaterMovement, ErrNegative},
		{"short color", `{"waterColor":"#fff"}`, FieldWaterColor, pool.ErrInvalidColor},
		{"color number", `{"waterColor":16711680}`, FieldWaterColor, ErrNotString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := Decode([]byte(tt.in))
			require.Error(t, err)
			assert.False(t, errors.Is(err, ErrMalformed))
			assert.ErrorIs(t, err, tt.err)

			var fe *FieldError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.field, fe.Field)
			assert.True(t, u.Empty())
		})
	}
}

// Valid fields survive next to malformed ones.
func TestDecodeFieldSkip(t *testing.T) {
	u, err := Decode([]byte(`{"waterLevel":"abc","waterColor":"#zzzzzz","waterOpacity":"0.5"}`))

	fields := FieldErrors(err)
	require.Len(t, fields, 2)
	assert.Equal(t, FieldWaterLevel, fields[0].Field)
	assert.Equal(t, `"abc"`, fields[0].Value)
	assert.Equal(t, FieldWaterColor, fields[1].Field)

	assert.False(t, u.WaterLevel.Set)
	assert.False(t, u.WaterColor.Set)
	assert.Equal(t, Number{Value: 0.5, Set: true}, u.WaterOpacity)

	p := u.Patch()
	assert.Nil(t, p.Level)
	assert.Nil(t, p.Color)
	require.NotNil(t, p.Opacity)
	assert.Equal(t, float32(0.5), *p.Opacity)
}

func TestUpdatePatchApplies(t *testing.T) {
	st, err := pool.New(pool.DefaultValues())
	require.NoError(t, err)

	u, err := Decode([]byte(`{"waterColor":"#ff0000"}`))
	require.NoError(t, err)

	changed := st.Apply(u.Patch())
	assert.Equal(t, pool.ChangedColor, changed)

	snap := st.Snapshot()
	assert.Equal(t, pool.Color(0xff0000), snap.Color)
	assert.Equal(t, float32(1.5), snap.Level)
	assert.Equal(t, float32(0.8), snap.Opacity)
	assert.Equal(t, float32(1), snap.Movement)
}

func TestColorRoundTripThroughInit(t *testing.T) {
	st, err := pool.New(pool.DefaultValues())
	require.NoError(t, err)

	u, err := Decode([]byte(`{"waterColor":"#001E0F"}`))
	require.NoError(t, err)
	st.Apply(u.Patch())

	var msg map[string]any
	data, err := NewInit(st.Snapshot()).Encode()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "#001e0f", msg["waterColor"])
}

func TestUpdateMarshalJSON(t *testing.T) {
	u := Update{
		WaterLevel: Number{Value: 2, Set: true},
		WaterColor: Color{Value: 0x00ff00, Set: true},
	}

	data, err := json.Marshal(u)
	require.NoError(t, err)
	assert.JSONEq(t, `{"waterLevel":2,"waterColor":"#00ff00"}`, string(data))

	back, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, u, back)
}
