// Package codec implements the schema-driven encoder (C7) and decoder
// (C8): walking a compiled schema.IR alongside a structured payload (or a
// byte stream) to produce bytes (or a structured payload), delegating
// scalar emission/parsing to wire and tag emission/parsing to wire's tag
// codec.
package codec

import (
	"fmt"
	"math"

	"github.com/dogtopus/minipb/wire"
)

// Strict typing is required by spec except for the one explicit widening:
// an integer value supplied for a float field is cast. Everything else
// (float for an integer field, string for a numeric field, etc.) is
// rejected.

func toInt64(v interface{}) (int64, error) {
	switch t := v.(type) {
	case int:
		return int64(t), nil
	case int8:
		return int64(t), nil
	case int16:
		return int64(t), nil
	case int32:
		return int64(t), nil
	case int64:
		return t, nil
	case uint:
		return int64(t), nil
	case uint8:
		return int64(t), nil
	case uint16:
		return int64(t), nil
	case uint32:
		return int64(t), nil
	case uint64:
		if t > math.MaxInt64 {
			return 0, wire.NewCodecError(wire.ValueOutOfRange, fmt.Sprintf("%d overflows int64", t))
		}
		return int64(t), nil
	default:
		return 0, wire.NewCodecError(wire.ValueOutOfRange, fmt.Sprintf("expected an integer value, got %T", v))
	}
}

func toUint64(v interface{}) (uint64, error) {
	i, err := toInt64(v)
	if err != nil {
		if u, ok := v.(uint64); ok {
			return u, nil
		}
		return 0, err
	}
	if i < 0 {
		return 0, wire.NewCodecError(wire.ValueOutOfRange, fmt.Sprintf("%d is negative, expected an unsigned value", i))
	}
	return uint64(i), nil
}

func toInt32(v interface{}) (int32, error) {
	i, err := toInt64(v)
	if err != nil {
		return 0, err
	}
	if i < math.MinInt32 || i > math.MaxInt32 {
		return 0, wire.NewCodecError(wire.ValueOutOfRange, fmt.Sprintf("%d overflows int32", i))
	}
	return int32(i), nil
}

func toUint32(v interface{}) (uint32, error) {
	u, err := toUint64(v)
	if err != nil {
		return 0, err
	}
	if u > math.MaxUint32 {
		return 0, wire.NewCodecError(wire.ValueOutOfRange, fmt.Sprintf("%d overflows uint32", u))
	}
	return uint32(u), nil
}

func toFloat64(v interface{}) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case float32:
		return float64(t), nil
	default:
		// explicit int -> float widening on encode (spec §9)
		i, err := toInt64(v)
		if err != nil {
			return 0, wire.NewCodecError(wire.ValueOutOfRange, fmt.Sprintf("expected a numeric value, got %T", v))
		}
		return float64(i), nil
	}
}

func toFloat32(v interface{}) (float32, error) {
	f, err := toFloat64(v)
	if err != nil {
		return 0, err
	}
	return float32(f), nil
}

func toBool(v interface{}) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, wire.NewCodecError(wire.ValueOutOfRange, fmt.Sprintf("expected a bool value, got %T", v))
	}
	return b, nil
}

func toBytes(v interface{}) ([]byte, error) {
	b, ok := v.([]byte)
	if !ok {
		return nil, wire.NewCodecError(wire.ValueOutOfRange, fmt.Sprintf("expected a []byte value, got %T", v))
	}
	return b, nil
}

func toString(v interface{}) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", wire.NewCodecError(wire.ValueOutOfRange, fmt.Sprintf("expected a string value, got %T", v))
	}
	return s, nil
}
