//go:build fuzz
// +build fuzz

package codec

import (
	"bytes"
	"testing"
)

// FuzzRecordCodec_RoundTrip tests encode/decode round-trip with random inputs
func FuzzRecordCodec_RoundTrip(f *testing.F) {
	codec := NewRecordCodec()

	f.Add("", uint32(0), uint32(0))
	f.Add("sedan", uint32(10000), uint32(2020))
	f.Add("overflow", uint32(2_097_152), uint32(2048))
	f.Add("max", uint32(0xFFFFFFFF), uint32(0xFFFFFFFF))

	f.Fuzz(func(t *testing.T, description string, value, year uint32) {
		if len(description) > 100000 {
			t.Skip("Input too large for fuzz test")
		}

		rec, err := codec.Encode(description, value, year)
		if bytes.IndexByte([]byte(description), Sentinel) >= 0 {
			if err == nil {
				t.Fatalf("Encode accepted description with sentinel: %q", description)
			}
			return
		}
		if err != nil {
			t.Fatalf("Encode failed for %q: %v", description, err)
		}

		if rec.Size() != HeaderSize+len(description)+1 {
			t.Errorf("Size mismatch: got %d, want %d", rec.Size(), HeaderSize+len(description)+1)
		}

		v, err := codec.Decode(rec)
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}

		if v.Value != value&0x1FFFFF {
			t.Errorf("Value mismatch: got %d, want %d", v.Value, value&0x1FFFFF)
		}
		if v.Year != year&0x7FF {
			t.Errorf("Year mismatch: got %d, want %d", v.Year, year&0x7FF)
		}
		if v.Description != description {
			t.Errorf("Description mismatch: got %q, want %q", v.Description, description)
		}
	})
}

// FuzzRecordCodec_DecodeBytes ensures arbitrary input never panics
func FuzzRecordCodec_DecodeBytes(f *testing.F) {
	codec := NewRecordCodec()

	f.Add([]byte{})
	f.Add([]byte{0x01, 0x02, 0x03})
	f.Add([]byte{0x00, 0x00, 0x00, 0x00, 0x00})
	f.Add([]byte{0xFF, 0xFF, 0xFF, 0xFF, 'a', 'b'})

	f.Fuzz(func(t *testing.T, data []byte) {
		v, err := codec.DecodeBytes(data)
		if err != nil {
			return
		}
		if len(v.Description) > len(data)-MinRecordSize {
			t.Errorf("Description longer than buffer allows: %d > %d", len(v.Description), len(data)-MinRecordSize)
		}
		if v.Value > MaxValue || v.Year > MaxYear {
			t.Errorf("Fields out of range: value=%d year=%d", v.Value, v.Year)
		}
	})
}
