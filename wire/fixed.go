package wire

import (
	"encoding/binary"
	"math"
)

// FixedDecoder reads the little-endian fixed32/fixed64 wire types and
// their signed/float reinterpretations off a shared Decoder cursor.
type FixedDecoder struct {
	decoder *Decoder
}

// FixedEncoder is FixedDecoder's write-side counterpart.
type FixedEncoder struct {
	encoder *Encoder
}

// NewFixedDecoder wraps d for fixed-width reads.
func NewFixedDecoder(d *Decoder) *FixedDecoder {
	return &FixedDecoder{decoder: d}
}

// NewFixedEncoder wraps e for fixed-width writes.
func NewFixedEncoder(e *Encoder) *FixedEncoder {
	return &FixedEncoder{encoder: e}
}

// readFixed pulls n little-endian bytes off the cursor, failing with
// EndOfMessageError if fewer than n bytes remain (Partial iff the cursor
// is past the start of the buffer and not yet at its end).
func (fd *FixedDecoder) readFixed(n int) ([]byte, error) {
	d := fd.decoder
	if d.pos+n > len(d.buf) {
		return nil, &EndOfMessageError{Partial: d.pos > 0 && d.pos < len(d.buf)}
	}
	b := d.buf[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

// DecodeFixed32 reads a little-endian 4-byte block as uint32.
func (fd *FixedDecoder) DecodeFixed32() (uint32, error) {
	b, err := fd.readFixed(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// DecodeFixed64 reads a little-endian 8-byte block as uint64.
func (fd *FixedDecoder) DecodeFixed64() (uint64, error) {
	b, err := fd.readFixed(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// DecodeSfixed32 reads a fixed32 block, reinterpreted as signed.
func (fd *FixedDecoder) DecodeSfixed32() (int32, error) {
	v, err := fd.DecodeFixed32()
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}

// DecodeSfixed64 reads a fixed64 block, reinterpreted as signed.
func (fd *FixedDecoder) DecodeSfixed64() (int64, error) {
	v, err := fd.DecodeFixed64()
	if err != nil {
		return 0, err
	}
	return int64(v), nil
}

// DecodeFloat32 reads a fixed32 block as an IEEE-754 float.
func (fd *FixedDecoder) DecodeFloat32() (float32, error) {
	v, err := fd.DecodeFixed32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// DecodeFloat64 reads a fixed64 block as an IEEE-754 double.
func (fd *FixedDecoder) DecodeFloat64() (float64, error) {
	v, err := fd.DecodeFixed64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// EncodeFixed32 appends v as 4 little-endian bytes.
func (fe *FixedEncoder) EncodeFixed32(v uint32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	fe.encoder.buf = append(fe.encoder.buf, b[:]...)
	return nil
}

// EncodeFixed64 appends v as 8 little-endian bytes.
func (fe *FixedEncoder) EncodeFixed64(v uint64) error {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	fe.encoder.buf = append(fe.encoder.buf, b[:]...)
	return nil
}

// EncodeSfixed32 appends v's bit pattern as a fixed32 block.
func (fe *FixedEncoder) EncodeSfixed32(v int32) error { return fe.EncodeFixed32(uint32(v)) }

// EncodeSfixed64 appends v's bit pattern as a fixed64 block.
func (fe *FixedEncoder) EncodeSfixed64(v int64) error { return fe.EncodeFixed64(uint64(v)) }

// EncodeFloat32 appends v's IEEE-754 bit pattern as a fixed32 block.
func (fe *FixedEncoder) EncodeFloat32(v float32) error { return fe.EncodeFixed32(math.Float32bits(v)) }

// EncodeFloat64 appends v's IEEE-754 bit pattern as a fixed64 block.
func (fe *FixedEncoder) EncodeFloat64(v float64) error { return fe.EncodeFixed64(math.Float64bits(v)) }

// Fixed32Size is the wire size of any fixed32 value.
func Fixed32Size() int { return 4 }

// Fixed64Size is the wire size of any fixed64 value.
func Fixed64Size() int { return 8 }

// DecodeFixed32 is a convenience entry point that skips constructing a
// FixedDecoder explicitly.
func (d *Decoder) DecodeFixed32() (uint32, error) {
	return (&FixedDecoder{decoder: d}).DecodeFixed32()
}

// DecodeFixed64 is a convenience entry point that skips constructing a
// FixedDecoder explicitly.
func (d *Decoder) DecodeFixed64() (uint64, error) {
	return (&FixedDecoder{decoder: d}).DecodeFixed64()
}

// EncodeFixed32 is a convenience entry point that skips constructing a
// FixedEncoder explicitly.
func (e *Encoder) EncodeFixed32(v uint32) error {
	return (&FixedEncoder{encoder: e}).EncodeFixed32(v)
}

// EncodeFixed64 is a convenience entry point that skips constructing a
// FixedEncoder explicitly.
func (e *Encoder) EncodeFixed64(v uint64) error {
	return (&FixedEncoder{encoder: e}).EncodeFixed64(v)
}
