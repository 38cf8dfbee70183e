// Package codec provides vehicle record serialization and deserialization for
// the garage.
//
// # Record Format
//
// A vehicle is packed into one buffer with the following structure:
//
//	[Header(4)][Description][Sentinel(1)]
//
// Fields:
//   - Header: 32-bit word (little-endian) equal to (value << 11) | year
//   - Description: raw description bytes, no embedded sentinel
//   - Sentinel: a single 0x00 byte marking the end of the description
//
// The value occupies the upper 21 bits of the header (0..2,097,151) and the
// model year the lower 11 bits (0..2047). Encode masks both inputs to their
// widths; values outside the range wrap silently rather than failing.
//
// The total record size is: 4 bytes (header) + len(description) + 1
//
// # Usage
//
//	c := codec.NewRecordCodec()
//
//	rec, err := c.Encode("sedan", 10000, 2020)
//	if err != nil {
//	    return err
//	}
//
//	v, err := c.Decode(rec)
//	if err != nil {
//	    return err
//	}
//
// # Error Handling
//
//   - ErrAllocationFailure: the allocator could not supply the buffer
//   - ErrMalformedRecord: a buffer shorter than 5 bytes or without a sentinel
//   - ErrInvalidDescription: the description contains the sentinel byte
//   - ErrReleased: the record was already released
//
// Decode bounds its sentinel search by the buffer length, so a malformed
// buffer is reported instead of read past.
package codec
