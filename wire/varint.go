package wire

// VarintDecoder reads the protobuf base-128 varint encoding and its
// derived integer representations (zigzag, bounded two's-complement) off
// a shared Decoder cursor.
type VarintDecoder struct {
	decoder *Decoder
}

// VarintEncoder is VarintDecoder's write-side counterpart, appending to a
// shared Encoder's buffer.
type VarintEncoder struct {
	encoder *Encoder
}

// NewVarintDecoder wraps d for varint-shaped reads.
func NewVarintDecoder(d *Decoder) *VarintDecoder {
	return &VarintDecoder{decoder: d}
}

// NewVarintEncoder wraps e for varint-shaped writes.
func NewVarintEncoder(e *Encoder) *VarintEncoder {
	return &VarintEncoder{encoder: e}
}

const maxVarintBytes = 10 // ceil(64/7)

// DecodeVarint reads a base-128 varint, least-significant group first.
// Ten groups is the most a 64-bit value can ever need; an eleventh
// continuation byte is VarintOverflow rather than silently wrapping.
func (vd *VarintDecoder) DecodeVarint() (uint64, error) {
	d := vd.decoder
	start := d.pos

	var value uint64
	for n := 0; n < maxVarintBytes; n++ {
		if d.pos >= len(d.buf) {
			return 0, &EndOfMessageError{Partial: d.pos > start}
		}
		group := d.buf[d.pos]
		d.pos++
		value |= uint64(group&0x7f) << uint(7*n)
		if group&0x80 == 0 {
			return value, nil
		}
	}
	return 0, ErrVarintOverflow
}

// signedVarint is the set of integer widths DecodeVarint's raw uint64
// result is narrowed to by plain truncation (no zigzag, no bounded
// two's-complement masking — those get their own named operations).
type signedVarint interface{ ~int32 | ~int64 }

func decodeVarintAs[T signedVarint](vd *VarintDecoder) (T, error) {
	v, err := vd.DecodeVarint()
	if err != nil {
		return 0, err
	}
	return T(v), nil
}

// DecodeInt32 reads a varint and truncates it to int32.
func (vd *VarintDecoder) DecodeInt32() (int32, error) { return decodeVarintAs[int32](vd) }

// DecodeInt64 reads a varint and reinterprets it as int64.
func (vd *VarintDecoder) DecodeInt64() (int64, error) { return decodeVarintAs[int64](vd) }

// DecodeSint32 reads a zigzag-encoded varint as int32.
func (vd *VarintDecoder) DecodeSint32() (int32, error) {
	v, err := vd.DecodeVarint()
	if err != nil {
		return 0, err
	}
	return DecodeZigZag32(v), nil
}

// DecodeSint64 reads a zigzag-encoded varint as int64.
func (vd *VarintDecoder) DecodeSint64() (int64, error) {
	v, err := vd.DecodeVarint()
	if err != nil {
		return 0, err
	}
	return DecodeZigZag64(v), nil
}

// DecodeBool reads a varint, true for any nonzero value.
func (vd *VarintDecoder) DecodeBool() (bool, error) {
	v, err := vd.DecodeVarint()
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

// DecodeTwosComplement reads a varint and sign-extends its low w bits
// (w a positive multiple of 8; 64 is plain int64 semantics).
func (vd *VarintDecoder) DecodeTwosComplement(w int) (int64, error) {
	u, err := vd.DecodeVarint()
	if err != nil {
		return 0, err
	}
	return DecodeTwosComplement(u, w), nil
}

// SkipVarint advances past a varint without materializing its value.
func (vd *VarintDecoder) SkipVarint() error {
	d := vd.decoder
	start := d.pos
	for n := 0; n < maxVarintBytes; n++ {
		if d.pos >= len(d.buf) {
			return &EndOfMessageError{Partial: d.pos > start}
		}
		group := d.buf[d.pos]
		d.pos++
		if group&0x80 == 0 {
			return nil
		}
	}
	return ErrVarintOverflow
}

// EncodeVarint appends v's base-128 varint encoding.
func (ve *VarintEncoder) EncodeVarint(v uint64) {
	for v >= 0x80 {
		ve.encoder.buf = append(ve.encoder.buf, byte(v)|0x80)
		v >>= 7
	}
	ve.encoder.buf = append(ve.encoder.buf, byte(v))
}

func encodeVarintFrom[T signedVarint](ve *VarintEncoder, v T) {
	ve.EncodeVarint(uint64(v))
}

// EncodeInt32 appends v's varint encoding (plain bit-pattern, not zigzag).
func (ve *VarintEncoder) EncodeInt32(v int32) { encodeVarintFrom(ve, v) }

// EncodeInt64 appends v's varint encoding (plain bit-pattern, not zigzag).
func (ve *VarintEncoder) EncodeInt64(v int64) { encodeVarintFrom(ve, v) }

// EncodeUint32 appends v's varint encoding.
func (ve *VarintEncoder) EncodeUint32(v uint32) { ve.EncodeVarint(uint64(v)) }

// EncodeUint64 appends v's varint encoding.
func (ve *VarintEncoder) EncodeUint64(v uint64) { ve.EncodeVarint(v) }

// EncodeSint32 zigzag-encodes v, then appends its varint encoding.
func (ve *VarintEncoder) EncodeSint32(v int32) { ve.EncodeVarint(EncodeZigZag32(v)) }

// EncodeSint64 zigzag-encodes v, then appends its varint encoding.
func (ve *VarintEncoder) EncodeSint64(v int64) { ve.EncodeVarint(EncodeZigZag64(v)) }

// EncodeBool appends 0 or 1 as a varint.
func (ve *VarintEncoder) EncodeBool(v bool) {
	if v {
		ve.EncodeVarint(1)
		return
	}
	ve.EncodeVarint(0)
}

// EncodeTwosComplement masks v into w bits of two's-complement, then
// appends the result as a varint (reproducing Protobuf's 10-byte negative
// int32/int64 convention when w == 64).
func (ve *VarintEncoder) EncodeTwosComplement(v int64, w int) {
	ve.EncodeVarint(EncodeTwosComplement(v, w))
}

// DecodeZigZag32 reverses EncodeZigZag32.
func DecodeZigZag32(encoded uint64) int32 {
	u := uint32(encoded)
	return int32(u>>1) ^ -int32(u&1)
}

// DecodeZigZag64 reverses EncodeZigZag64.
func DecodeZigZag64(encoded uint64) int64 {
	return int64(encoded>>1) ^ -int64(encoded&1)
}

// EncodeZigZag32 maps a signed 32-bit value onto the unsigned range so
// small-magnitude negatives stay small-magnitude varints.
func EncodeZigZag32(v int32) uint64 {
	return uint64(uint32(v<<1) ^ uint32(v>>31))
}

// EncodeZigZag64 maps a signed 64-bit value onto the unsigned range so
// small-magnitude negatives stay small-magnitude varints.
func EncodeZigZag64(v int64) uint64 {
	return uint64(v<<1) ^ uint64(v>>63)
}

// normalizeWidth treats a non-positive or >=64 width as the 64-bit default.
func normalizeWidth(w int) int {
	if w <= 0 || w >= 64 {
		return 64
	}
	return w
}

// EncodeTwosComplement masks v into the low w bits of its two's-complement
// representation, ready for varint emission. w must be a positive multiple
// of 8; values <= 0 or >= 64 are treated as the 64-bit default.
func EncodeTwosComplement(v int64, w int) uint64 {
	w = normalizeWidth(w)
	if w == 64 {
		return uint64(v)
	}
	mask := uint64(1)<<uint(w) - 1
	return uint64(v) & mask
}

// DecodeTwosComplement sign-extends the low w bits of u (as produced by
// EncodeTwosComplement) back into a signed 64-bit integer.
func DecodeTwosComplement(u uint64, w int) int64 {
	w = normalizeWidth(w)
	if w == 64 {
		return int64(u)
	}
	signBit := uint64(1) << uint(w-1)
	u &= uint64(1)<<uint(w) - 1
	if u&signBit != 0 {
		return int64(u) - int64(uint64(1)<<uint(w))
	}
	return int64(u)
}

// VarintSize reports how many bytes v's varint encoding occupies.
func VarintSize(v uint64) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}

// DecodeVarint is a convenience entry point that skips constructing a
// VarintDecoder explicitly.
func (d *Decoder) DecodeVarint() (uint64, error) {
	return (&VarintDecoder{decoder: d}).DecodeVarint()
}

// EncodeVarint is a convenience entry point that skips constructing a
// VarintEncoder explicitly.
func (e *Encoder) EncodeVarint(v uint64) {
	(&VarintEncoder{encoder: e}).EncodeVarint(v)
}
