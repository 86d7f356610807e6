package packets

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/multierr"

	"github.com/Faultbox/glasspool/internal/pool"
)

var (
	// ErrMalformed means the message is not a JSON object. Nothing in it is applied.
	ErrMalformed = errors.New("malformed message")

	ErrNotNumber = errors.New("not a number")
	ErrNotFinite = errors.New("not finite")
	ErrNegative  = errors.New("negative")
	ErrNotString = errors.New("not a string")
)

// FieldError describes one field that could not be decoded.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: invalid value %s: %v", e.Field, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// FieldErrors splits an error returned by Decode into its field errors.
func FieldErrors(err error) []*FieldError {
	var out []*FieldError
	for _, e := range multierr.Errors(err) {
		var fe *FieldError
		if errors.As(e, &fe) {
			out = append(out, fe)
		}
	}
	return out
}

// Decode parses an inbound update.
//
// If data is not a JSON object the returned error wraps ErrMalformed and the
// Update is empty. Otherwise every field is decoded on its own: fields that
// fail are reported as *FieldError values combined with multierr, and the
// remaining fields are still returned set. Unknown keys are ignored.
func Decode(data []byte) (Update, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Update{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if raw == nil {
		return Update{}, fmt.Errorf("%w: not an object", ErrMalformed)
	}

	var (
		u    Update
		errs error
	)

	if v, ok := raw[FieldWaterLevel]; ok {
		n, err := decodeNumber(v)
		errs = multierr.Append(errs, fieldErr(FieldWaterLevel, v, err))
		u.WaterLevel = n
	}
	if v, ok := raw[FieldWaterColor]; ok {
		c, err := decodeColor(v)
		errs = multierr.Append(errs, fieldErr(FieldWaterColor, v, err))
		u.WaterColor = c
	}
	if v, ok := raw[FieldWaterOpacity]; ok {
		n, err := decodeNumber(v)
		errs = multierr.Append(errs, fieldErr(FieldWaterOpacity, v, err))
		u.WaterOpacity = n
	}
	if v, ok := raw[FieldWaterMovement]; ok {
		n, err := decodeNumber(v)
		if err == nil && n.Value < 0 {
			n, err = Number{}, ErrNegative
		}
		errs = multierr.Append(errs, fieldErr(FieldWaterMovement, v, err))
		u.WaterMovement = n
	}

	return u, errs
}

func fieldErr(field string, raw json.RawMessage, err error) error {
	if err == nil {
		return nil
	}
	return &FieldError{Field: field, Value: string(raw), Err: err}
}

// decodeNumber accepts a JSON number or a string holding one.
func decodeNumber(raw json.RawMessage) (Number, error) {
	raw = bytes.TrimSpace(raw)

	var s string
	if len(raw) > 0 && raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return Number{}, ErrNotNumber
		}
		s = strings.TrimSpace(s)
	} else {
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil || n == "" {
			return Number{}, ErrNotNumber
		}
		s = n.String()
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return Number{}, ErrNotFinite
		}
		return Number{}, ErrNotNumber
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxFloat32 {
		return Number{}, ErrNotFinite
	}

	return Number{Value: float32(f), Set: true}, nil
}

func decodeColor(raw json.RawMessage) (Color, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return Color{}, ErrNotString
	}
	c, err := pool.ParseColor(s)
	if err != nil {
		return Color{}, pool.ErrInvalidColor
	}
	return Color{Value: c, Set: true}, nil
}
