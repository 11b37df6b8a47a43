package wire

import "unicode/utf8"

// BytesDecoder reads the length-delimited wire type: a varint length
// followed by that many raw bytes, optionally validated as UTF-8.
type BytesDecoder struct {
	decoder *Decoder
}

// BytesEncoder is BytesDecoder's write-side counterpart.
type BytesEncoder struct {
	encoder *Encoder
}

// NewBytesDecoder wraps d for length-delimited reads.
func NewBytesDecoder(d *Decoder) *BytesDecoder {
	return &BytesDecoder{decoder: d}
}

// NewBytesEncoder wraps e for length-delimited writes.
func NewBytesEncoder(e *Encoder) *BytesEncoder {
	return &BytesEncoder{encoder: e}
}

// span reads the varint length prefix and returns the byte range it
// covers in the decoder's buffer, without copying or advancing past it
// (callers decide whether to copy, share, or skip).
func (bd *BytesDecoder) span() (start, end int, err error) {
	length, err := NewVarintDecoder(bd.decoder).DecodeVarint()
	if err != nil {
		return 0, 0, err
	}
	d := bd.decoder
	start = d.pos
	end = start + int(length)
	if end > len(d.buf) {
		return 0, 0, &EndOfMessageError{Partial: true}
	}
	return start, end, nil
}

// DecodeBytes reads a length-delimited byte array into a fresh slice
// that does not alias the decoder's buffer.
func (bd *BytesDecoder) DecodeBytes() ([]byte, error) {
	start, end, err := bd.span()
	if err != nil {
		return nil, err
	}
	out := make([]byte, end-start)
	copy(out, bd.decoder.buf[start:end])
	bd.decoder.pos = end
	return out, nil
}

// DecodeString reads a length-delimited byte array and validates it as
// UTF-8, failing with a BadString CodecError otherwise.
func (bd *BytesDecoder) DecodeString() (string, error) {
	data, err := bd.DecodeBytes()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", NewCodecError(BadString, "decoded bytes are not valid UTF-8")
	}
	return string(data), nil
}

// DecodeRawBytes reads a length-delimited byte array as a slice of the
// decoder's own buffer, with no copy. Used by the raw record codec,
// which hands slices straight to the caller without further
// interpretation and outlives any single decode call.
func (bd *BytesDecoder) DecodeRawBytes() ([]byte, error) {
	start, end, err := bd.span()
	if err != nil {
		return nil, err
	}
	bd.decoder.pos = end
	return bd.decoder.buf[start:end], nil
}

// SkipBytes advances past a length-delimited byte array without
// materializing it.
func (bd *BytesDecoder) SkipBytes() error {
	_, end, err := bd.span()
	if err != nil {
		return err
	}
	bd.decoder.pos = end
	return nil
}

// EncodeBytes appends data as a varint length prefix followed by data
// itself.
func (be *BytesEncoder) EncodeBytes(data []byte) {
	NewVarintEncoder(be.encoder).EncodeVarint(uint64(len(data)))
	be.encoder.buf = append(be.encoder.buf, data...)
}

// EncodeString appends s's bytes as a length-delimited block.
func (be *BytesEncoder) EncodeString(s string) {
	be.EncodeBytes([]byte(s))
}

// BytesSize reports the wire size of data as a length-delimited block.
func BytesSize(data []byte) int {
	return VarintSize(uint64(len(data))) + len(data)
}

// StringSize reports the wire size of s as a length-delimited block.
func StringSize(s string) int {
	return BytesSize([]byte(s))
}

// DecodeBytes is a convenience entry point that skips constructing a
// BytesDecoder explicitly.
func (d *Decoder) DecodeBytes() ([]byte, error) {
	return (&BytesDecoder{decoder: d}).DecodeBytes()
}

// EncodeBytes is a convenience entry point that skips constructing a
// BytesEncoder explicitly.
func (e *Encoder) EncodeBytes(data []byte) {
	(&BytesEncoder{encoder: e}).EncodeBytes(data)
}

// EncodeString is a convenience entry point that skips constructing a
// BytesEncoder explicitly.
func (e *Encoder) EncodeString(s string) {
	(&BytesEncoder{encoder: e}).EncodeString(s)
}
