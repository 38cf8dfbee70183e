package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

const (
	// HeaderSize is the size of the packed value/year word
	HeaderSize = 4
	// MinRecordSize is a header plus the sentinel of an empty description
	MinRecordSize = HeaderSize + 1

	// Sentinel terminates the description
	Sentinel byte = 0x00

	ValueBits = 21
	YearBits  = 11

	MaxValue uint32 = 1<<ValueBits - 1 // 2,097,151
	MaxYear  uint32 = 1<<YearBits - 1  // 2047
)

// Errors
var (
	ErrAllocationFailure  = errors.New("allocation failure")
	ErrMalformedRecord    = errors.New("malformed record")
	ErrInvalidDescription = errors.New("description contains sentinel byte")
	ErrReleased           = errors.New("record already released")
)

// Vehicle is the decoded form of a record
type Vehicle struct {
	Value       uint32 `json:"value"`
	Year        uint32 `json:"year"`
	Description string `json:"description"`
}

// Record is a single owned vehicle buffer:
//
//	[Header(4)][Description][Sentinel(1)]
//
// Records are immutable once encoded. A record is released exactly once,
// either on removal from its garage or when the garage itself is released.
type Record struct {
	buf      []byte
	released bool
}

// Bytes returns the packed buffer. Callers must not modify it.
func (r *Record) Bytes() []byte {
	return r.buf
}

// Size returns the length of the packed buffer, 0 once released
func (r *Record) Size() int {
	return len(r.buf)
}

// Released reports whether the record's storage has been given up
func (r *Record) Released() bool {
	return r.released
}

// Release drops the record's buffer. Releasing twice is a defect and is
// reported as ErrReleased.
func (r *Record) Release() error {
	if r.released {
		return ErrReleased
	}
	r.buf = nil
	r.released = true
	return nil
}

// PackHeader masks value to 21 bits and year to 11 bits and combines them
// into the header word. Out of range inputs wrap, they are not rejected.
func PackHeader(value, year uint32) uint32 {
	return (value&MaxValue)<<YearBits | year&MaxYear
}

// UnpackHeader splits a header word back into value and year
func UnpackHeader(header uint32) (value, year uint32) {
	return header >> YearBits, header & MaxYear
}

// RecordSize returns the exact encoded size for a description
func RecordSize(description string) int {
	return HeaderSize + len(description) + 1
}

// RecordCodec handles serialization and deserialization of vehicle records
type RecordCodec struct {
	allocator Allocator
}

// Option configures a RecordCodec
type Option func(*RecordCodec)

// WithAllocator replaces the buffer allocator
func WithAllocator(a Allocator) Option {
	return func(c *RecordCodec) {
		c.allocator = a
	}
}

// WithMaxRecordSize bounds the size of a single record buffer. Zero means no limit.
func WithMaxRecordSize(size int) Option {
	return func(c *RecordCodec) {
		c.allocator = NewHeapAllocator(size)
	}
}

// NewRecordCodec creates a new record codec instance
func NewRecordCodec(opts ...Option) *RecordCodec {
	c := &RecordCodec{allocator: NewHeapAllocator(0)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Encode packs a vehicle into a newly allocated record. Ownership of the
// record passes to the caller.
func (c *RecordCodec) Encode(description string, value, year uint32) (*Record, error) {
	if strings.IndexByte(description, Sentinel) >= 0 {
		return nil, ErrInvalidDescription
	}

	size := RecordSize(description)
	buf, err := c.allocator.Allocate(size)
	if err != nil {
		if !errors.Is(err, ErrAllocationFailure) {
			err = fmt.Errorf("%w: %w", ErrAllocationFailure, err)
		}
		return nil, fmt.Errorf("record of %d bytes: %w", size, err)
	}
	if len(buf) != size {
		return nil, fmt.Errorf("allocator returned %d bytes, want %d: %w", len(buf), size, ErrAllocationFailure)
	}

	binary.LittleEndian.PutUint32(buf[0:HeaderSize], PackHeader(value, year))
	copy(buf[HeaderSize:], description)
	buf[size-1] = Sentinel

	return &Record{buf: buf}, nil
}

// Decode unpacks a record into a Vehicle. The description is copied out.
func (c *RecordCodec) Decode(r *Record) (Vehicle, error) {
	if r == nil {
		return Vehicle{}, fmt.Errorf("nil record: %w", ErrMalformedRecord)
	}
	if r.released {
		return Vehicle{}, ErrReleased
	}
	return c.DecodeBytes(r.buf)
}

// DecodeBytes unpacks a raw buffer laid out as an encoded record
func (c *RecordCodec) DecodeBytes(data []byte) (Vehicle, error) {
	if len(data) < MinRecordSize {
		return Vehicle{}, fmt.Errorf("data too short for record: %d < %d: %w", len(data), MinRecordSize, ErrMalformedRecord)
	}

	end := bytes.IndexByte(data[HeaderSize:], Sentinel)
	if end < 0 {
		return Vehicle{}, fmt.Errorf("no sentinel in %d bytes: %w", len(data), ErrMalformedRecord)
	}

	value, year := UnpackHeader(binary.LittleEndian.Uint32(data[0:HeaderSize]))
	return Vehicle{
		Value:       value,
		Year:        year,
		Description: string(data[HeaderSize : HeaderSize+end]),
	}, nil
}
