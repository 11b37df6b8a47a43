package wire

// Encoder handles low-level protobuf wire format encoding. It is a pure
// byte-accumulating buffer; it knows nothing about schemas.
type Encoder struct {
	buf []byte
}

// NewEncoder creates a new wire format encoder
func NewEncoder() *Encoder {
	return &Encoder{
		buf: make([]byte, 0),
	}
}

// Bytes returns the encoded bytes
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// Reset clears the encoder buffer
func (e *Encoder) Reset() {
	e.buf = e.buf[:0]
}

// EncodeTag writes a field tag (field number + wire type) as a varint.
func (e *Encoder) EncodeTag(fieldNumber FieldNumber, wireType WireType) {
	ve := NewVarintEncoder(e)
	ve.EncodeVarint(uint64(MakeTag(fieldNumber, wireType)))
}

// Append appends raw, already-encoded bytes to the buffer as-is, with no
// length prefix.
func (e *Encoder) Append(b []byte) {
	e.buf = append(e.buf, b...)
}
