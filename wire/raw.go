package wire

// RawDecoder is a restartable cursor over a byte buffer that yields one
// schema-less Record at a time (C3, spec §4.3). It never looks up a
// schema, never validates values, and never recurses into nested
// messages — a length-delimited record's payload is returned as the raw
// byte slice it contains, not interpreted further.
type RawDecoder struct {
	d *Decoder
}

// NewRawDecoder creates a restartable raw-record cursor over buf.
func NewRawDecoder(buf []byte) *RawDecoder {
	return &RawDecoder{d: NewDecoder(buf)}
}

// Done reports whether the cursor has reached the end of the input.
func (r *RawDecoder) Done() bool { return r.d.Done() }

// Next reads and returns the next record, advancing the cursor. It
// returns (nil, nil) once the input is exhausted. Truncation partway
// through a record fails with *EndOfMessageError; Partial is true when
// bytes were already consumed past the last complete record boundary.
func (r *RawDecoder) Next() (*Record, error) {
	if r.d.Done() {
		return nil, nil
	}

	boundary := r.d.pos
	fieldNumber, wireType, err := r.d.DecodeTag()
	if err != nil {
		if eom, ok := err.(*EndOfMessageError); ok {
			return nil, &EndOfMessageError{Partial: r.d.pos > boundary, Msg: eom.Msg}
		}
		return nil, err
	}

	data, err := r.d.decodeRawValue(wireType)
	if err != nil {
		if eom, ok := err.(*EndOfMessageError); ok {
			return nil, &EndOfMessageError{Partial: r.d.pos > boundary, Msg: eom.Msg}
		}
		return nil, err
	}

	return &Record{FieldNumber: fieldNumber, WireType: wireType, Data: data}, nil
}

// DecodeRaw drains a RawDecoder over data into a slice of records. Use
// NewRawDecoder directly for streaming (one-at-a-time) consumption.
func DecodeRaw(data []byte) ([]Record, error) {
	rd := NewRawDecoder(data)
	var records []Record
	for {
		rec, err := rd.Next()
		if err != nil {
			return nil, err
		}
		if rec == nil {
			break
		}
		records = append(records, *rec)
	}
	return records, nil
}

// EncodeRaw emits tag||payload for each record, in order, concatenated.
func EncodeRaw(records []Record) ([]byte, error) {
	e := NewEncoder()
	for _, rec := range records {
		e.EncodeTag(rec.FieldNumber, rec.WireType)
		if err := encodeRawPayload(e, rec.WireType, rec.Data); err != nil {
			return nil, err
		}
	}
	return e.Bytes(), nil
}

func encodeRawPayload(e *Encoder, wireType WireType, data interface{}) error {
	switch wireType {
	case WireVarint:
		v, err := toUint64(data)
		if err != nil {
			return err
		}
		NewVarintEncoder(e).EncodeVarint(v)
		return nil
	case WireFixed32:
		v, err := toUint32(data)
		if err != nil {
			return err
		}
		return NewFixedEncoder(e).EncodeFixed32(v)
	case WireFixed64:
		v, err := toUint64(data)
		if err != nil {
			return err
		}
		return NewFixedEncoder(e).EncodeFixed64(v)
	case WireBytes:
		b, ok := data.([]byte)
		if !ok {
			return NewCodecError(ValueOutOfRange, "length-delimited record payload must be []byte")
		}
		NewBytesEncoder(e).EncodeBytes(b)
		return nil
	default:
		return NewCodecError(WireTypeMismatch, "unknown wire type")
	}
}

func toUint64(v interface{}) (uint64, error) {
	switch t := v.(type) {
	case uint64:
		return t, nil
	case uint32:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case int:
		return uint64(t), nil
	default:
		return 0, NewCodecError(ValueOutOfRange, "expected an integer record payload")
	}
}

func toUint32(v interface{}) (uint32, error) {
	switch t := v.(type) {
	case uint32:
		return t, nil
	case uint64:
		return uint32(t), nil
	case int32:
		return uint32(t), nil
	case int:
		return uint32(t), nil
	default:
		return 0, NewCodecError(ValueOutOfRange, "expected an integer record payload")
	}
}
