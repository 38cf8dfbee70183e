package codec

import (
	"encoding/binary"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordCodec_EncodeDecodeRoundTrip(t *testing.T) {
	codec := NewRecordCodec()

	testCases := []struct {
		name        string
		description string
		value       uint32
		year        uint32
		wantValue   uint32
		wantYear    uint32
	}{
		{
			name:        "simple vehicle",
			description: "sedan",
			value:       10000,
			year:        2020,
			wantValue:   10000,
			wantYear:    2020,
		},
		{
			name:        "empty description",
			description: "",
			value:       1,
			year:        1,
			wantValue:   1,
			wantYear:    1,
		},
		{
			name:        "zero fields",
			description: "scrap",
			wantValue:   0,
			wantYear:    0,
		},
		{
			name:        "maximum in range",
			description: "hypercar",
			value:       2_097_151,
			year:        2047,
			wantValue:   2_097_151,
			wantYear:    2047,
		},
		{
			name:        "wraps at bit boundary",
			description: "overflow",
			value:       2_097_152,
			year:        2048,
			wantValue:   0,
			wantYear:    0,
		},
		{
			name:        "all ones",
			description: "max input",
			value:       0xFFFFFFFF,
			year:        0xFFFFFFFF,
			wantValue:   MaxValue,
			wantYear:    MaxYear,
		},
		{
			name:        "high bits dropped",
			description: "truck",
			value:       1<<21 | 25000,
			year:        1<<11 | 2022,
			wantValue:   25000,
			wantYear:    2022,
		},
		{
			name:        "long description",
			description: strings.Repeat("v", 10240),
			value:       15000,
			year:        2019,
			wantValue:   15000,
			wantYear:    2019,
		},
		{
			name:        "unicode description",
			description: "🚗 voiture électrique",
			value:       42000,
			year:        2024,
			wantValue:   42000,
			wantYear:    2024,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec, err := codec.Encode(tc.description, tc.value, tc.year)
			require.NoError(t, err)

			assert.Equal(t, HeaderSize+len(tc.description)+1, rec.Size())
			assert.Equal(t, RecordSize(tc.description), rec.Size())

			v, err := codec.Decode(rec)
			require.NoError(t, err)

			assert.Equal(t, tc.wantValue, v.Value)
			assert.Equal(t, tc.wantYear, v.Year)
			assert.Equal(t, tc.description, v.Description)
		})
	}
}

func TestRecordCodec_Layout(t *testing.T) {
	codec := NewRecordCodec()

	rec, err := codec.Encode("van", 15000, 2019)
	require.NoError(t, err)

	buf := rec.Bytes()
	require.Len(t, buf, 8)

	header := binary.LittleEndian.Uint32(buf[0:4])
	assert.Equal(t, uint32(15000)<<11|2019, header)
	assert.Equal(t, byte(header), buf[0], "least significant byte first")
	assert.Equal(t, []byte("van"), buf[4:7])
	assert.Equal(t, Sentinel, buf[7])
}

func TestPackHeader(t *testing.T) {
	assert.Equal(t, uint32(0xFFFFFFFF), PackHeader(MaxValue, MaxYear))
	assert.Equal(t, uint32(0), PackHeader(1<<21, 1<<11))
	assert.Equal(t, uint32(1<<11), PackHeader(1, 0))
	assert.Equal(t, uint32(1), PackHeader(0, 1))

	value, year := UnpackHeader(PackHeader(10000, 2020))
	assert.Equal(t, uint32(10000), value)
	assert.Equal(t, uint32(2020), year)
}

func TestRecordCodec_EncodeErrors(t *testing.T) {
	t.Run("embedded sentinel", func(t *testing.T) {
		codec := NewRecordCodec()
		rec, err := codec.Encode("bad\x00desc", 1, 1)
		assert.ErrorIs(t, err, ErrInvalidDescription)
		assert.Nil(t, rec)
	})

	t.Run("exceeds max record size", func(t *testing.T) {
		codec := NewRecordCodec(WithMaxRecordSize(10))

		rec, err := codec.Encode("12345", 1, 1)
		require.NoError(t, err, "exactly at the limit")
		assert.Equal(t, 10, rec.Size())

		rec, err = codec.Encode("123456", 1, 1)
		assert.ErrorIs(t, err, ErrAllocationFailure)
		assert.Nil(t, rec)
	})

	t.Run("allocator failure", func(t *testing.T) {
		codec := NewRecordCodec(WithAllocator(AllocatorFunc(func(int) ([]byte, error) {
			return nil, ErrAllocationFailure
		})))
		rec, err := codec.Encode("sedan", 1, 1)
		assert.ErrorIs(t, err, ErrAllocationFailure)
		assert.Nil(t, rec)
	})

	t.Run("allocator error is an allocation failure", func(t *testing.T) {
		codec := NewRecordCodec(WithAllocator(AllocatorFunc(func(int) ([]byte, error) {
			return nil, errors.New("oom")
		})))
		rec, err := codec.Encode("sedan", 1, 1)
		assert.ErrorIs(t, err, ErrAllocationFailure)
		assert.ErrorContains(t, err, "oom")
		assert.Nil(t, rec)
	})

	t.Run("short allocation", func(t *testing.T) {
		codec := NewRecordCodec(WithAllocator(AllocatorFunc(func(size int) ([]byte, error) {
			return make([]byte, size-1), nil
		})))
		_, err := codec.Encode("sedan", 1, 1)
		assert.ErrorIs(t, err, ErrAllocationFailure)
	})
}

func TestRecordCodec_DecodeMalformed(t *testing.T) {
	codec := NewRecordCodec()

	testCases := []struct {
		name string
		data []byte
	}{
		{name: "nil", data: nil},
		{name: "empty", data: []byte{}},
		{name: "header only", data: []byte{0x01, 0x02, 0x03, 0x04}},
		{name: "no sentinel", data: []byte{0x01, 0x02, 0x03, 0x04, 'a', 'b', 'c'}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := codec.DecodeBytes(tc.data)
			assert.ErrorIs(t, err, ErrMalformedRecord)
		})
	}

	t.Run("nil record", func(t *testing.T) {
		_, err := codec.Decode(nil)
		assert.ErrorIs(t, err, ErrMalformedRecord)
	})

	t.Run("stops at first sentinel", func(t *testing.T) {
		data := []byte{0x00, 0x00, 0x00, 0x00, 'a', 0x00, 'b', 0x00}
		v, err := codec.DecodeBytes(data)
		require.NoError(t, err)
		assert.Equal(t, "a", v.Description)
	})
}

func TestRecord_Release(t *testing.T) {
	codec := NewRecordCodec()

	rec, err := codec.Encode("sedan", 10000, 2020)
	require.NoError(t, err)
	assert.False(t, rec.Released())

	require.NoError(t, rec.Release())
	assert.True(t, rec.Released())
	assert.Equal(t, 0, rec.Size())

	err = rec.Release()
	assert.True(t, errors.Is(err, ErrReleased))

	_, err = codec.Decode(rec)
	assert.ErrorIs(t, err, ErrReleased)
}

func TestDecode_ReturnsCopy(t *testing.T) {
	codec := NewRecordCodec()

	rec, err := codec.Encode("sedan", 10000, 2020)
	require.NoError(t, err)

	v, err := codec.Decode(rec)
	require.NoError(t, err)

	require.NoError(t, rec.Release())
	assert.Equal(t, "sedan", v.Description)
}
