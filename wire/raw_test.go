package wire

import (
	"bytes"
	"testing"
)

func TestEncodeRawDecodeRawRoundTrip(t *testing.T) {
	records := []Record{
		{FieldNumber: 1, WireType: WireVarint, Data: uint64(42)},
		{FieldNumber: 2, WireType: WireBytes, Data: []byte("hello")},
		{FieldNumber: 3, WireType: WireFixed32, Data: uint32(0xdeadbeef)},
		{FieldNumber: 4, WireType: WireFixed64, Data: uint64(0x0102030405060708)},
		{FieldNumber: 1, WireType: WireVarint, Data: uint64(7)}, // duplicate tag, preserved as-is
	}

	encoded, err := EncodeRaw(records)
	if err != nil {
		t.Fatalf("EncodeRaw: %v", err)
	}

	decoded, err := DecodeRaw(encoded)
	if err != nil {
		t.Fatalf("DecodeRaw: %v", err)
	}
	if len(decoded) != len(records) {
		t.Fatalf("got %d records, want %d", len(decoded), len(records))
	}
	for i, rec := range records {
		got := decoded[i]
		if got.FieldNumber != rec.FieldNumber || got.WireType != rec.WireType {
			t.Fatalf("record %d: got (%d, %d), want (%d, %d)", i, got.FieldNumber, got.WireType, rec.FieldNumber, rec.WireType)
		}
		if b, ok := rec.Data.([]byte); ok {
			if !bytes.Equal(got.Data.([]byte), b) {
				t.Fatalf("record %d: got %v, want %v", i, got.Data, b)
			}
		} else if got.Data != rec.Data {
			t.Fatalf("record %d: got %v, want %v", i, got.Data, rec.Data)
		}
	}
}

func TestRawDecoderRestartable(t *testing.T) {
	records := []Record{
		{FieldNumber: 1, WireType: WireVarint, Data: uint64(1)},
		{FieldNumber: 2, WireType: WireVarint, Data: uint64(2)},
	}
	encoded, err := EncodeRaw(records)
	if err != nil {
		t.Fatalf("EncodeRaw: %v", err)
	}

	rd := NewRawDecoder(encoded)
	var got []Record
	for !rd.Done() {
		rec, err := rd.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if rec == nil {
			break
		}
		got = append(got, *rec)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
}

func TestRawDecoderTruncatedMidRecord(t *testing.T) {
	records := []Record{{FieldNumber: 1, WireType: WireBytes, Data: []byte("0123456789")}}
	encoded, err := EncodeRaw(records)
	if err != nil {
		t.Fatalf("EncodeRaw: %v", err)
	}
	truncated := encoded[:len(encoded)-4]

	rd := NewRawDecoder(truncated)
	_, err = rd.Next()
	eom, ok := err.(*EndOfMessageError)
	if !ok {
		t.Fatalf("expected *EndOfMessageError, got %T: %v", err, err)
	}
	if !eom.Partial {
		t.Fatalf("expected Partial=true, got %#v", eom)
	}
}

func TestDecodeRawEmptyInput(t *testing.T) {
	records, err := DecodeRaw(nil)
	if err != nil {
		t.Fatalf("DecodeRaw(nil): %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %v", records)
	}
}
