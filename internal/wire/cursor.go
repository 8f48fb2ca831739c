// Forward-only byte cursor for protobuf-style metadata payloads.
// Implements the base-128 varint and little-endian fixed-width encodings.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	ErrUnexpectedEOF = errors.New("wire: unexpected end of data")
	ErrVarintTooLong = errors.New("wire: malformed varint")
)

// Cursor reads a byte buffer front to back. It never moves backwards; a
// bounded sub-view is obtained with Slice, which advances the outer cursor
// past the sub-view.
type Cursor struct {
	data []byte
	pos  int
	end  int
}

// NewCursor creates a cursor over the whole of data.
func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data, pos: 0, end: len(data)}
}

// Position returns the current read offset relative to the underlying buffer.
func (c *Cursor) Position() int { return c.pos }

// Remaining returns bytes left to read.
func (c *Cursor) Remaining() int { return c.end - c.pos }

// ReadByte reads a single byte.
func (c *Cursor) ReadByte() (byte, error) {
	if c.pos >= c.end {
		return 0, ErrUnexpectedEOF
	}
	b := c.data[c.pos]
	c.pos++
	return b, nil
}

// ReadExact returns the next n bytes without copying.
func (c *Cursor) ReadExact(n int) ([]byte, error) {
	if err := c.ensure(n); err != nil {
		return nil, err
	}
	out := c.data[c.pos : c.pos+n : c.pos+n]
	c.pos += n
	return out, nil
}

// Slice returns a cursor over the next n bytes and advances past them.
func (c *Cursor) Slice(n int) (*Cursor, error) {
	if err := c.ensure(n); err != nil {
		return nil, err
	}
	sub := &Cursor{data: c.data, pos: c.pos, end: c.pos + n}
	c.pos += n
	return sub, nil
}

// ReadFixed32 reads a little-endian uint32.
func (c *Cursor) ReadFixed32() (uint32, error) {
	if err := c.ensure(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(c.data[c.pos:])
	c.pos += 4
	return v, nil
}

// ReadFixed64 reads a little-endian uint64.
func (c *Cursor) ReadFixed64() (uint64, error) {
	if err := c.ensure(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(c.data[c.pos:])
	c.pos += 8
	return v, nil
}

// Varint encoding constants.
const (
	dataBitsPerByte = 7
	payloadMask     = (1 << dataBitsPerByte) - 1 // 0x7f
	continuationBit = 1 << dataBitsPerByte       // 0x80
)

// ReadVarint32 reads a base-128 varint of at most 32 bits.
//
// Values below 2^14 take the fast path; everything else goes through a loop
// that fails with ErrVarintTooLong once the 32-bit budget is spent.
func (c *Cursor) ReadVarint32() (uint32, error) {
	if c.pos >= c.end {
		return 0, ErrUnexpectedEOF
	}
	b0 := c.data[c.pos]
	if b0 < continuationBit {
		c.pos++
		return uint32(b0), nil
	}
	if c.end-c.pos > 1 {
		b1 := c.data[c.pos+1]
		if b1 < continuationBit {
			c.pos += 2
			return uint32(b0&payloadMask) | uint32(b1)<<dataBitsPerByte, nil
		}
	}
	return c.readVarint32Slow()
}

func (c *Cursor) readVarint32Slow() (uint32, error) {
	var r uint32
	for shift := uint(0); shift < 32; shift += dataBitsPerByte {
		b, err := c.ReadByte()
		if err != nil {
			return 0, err
		}
		r |= uint32(b&payloadMask) << shift
		if b < continuationBit {
			return r, nil
		}
	}
	return 0, fmt.Errorf("%w: exceeded 32 bits at offset %d", ErrVarintTooLong, c.pos)
}

// ReadVarint64 reads a base-128 varint of at most 64 bits. When eofAllowed is
// set and the cursor is already exhausted it returns (0, false, nil) instead
// of ErrUnexpectedEOF; a varint truncated midway is always an error.
func (c *Cursor) ReadVarint64(eofAllowed bool) (uint64, bool, error) {
	if c.pos >= c.end {
		if eofAllowed {
			return 0, false, nil
		}
		return 0, false, ErrUnexpectedEOF
	}
	b0 := c.data[c.pos]
	if b0 < continuationBit {
		c.pos++
		return uint64(b0), true, nil
	}
	if c.end-c.pos > 1 {
		b1 := c.data[c.pos+1]
		if b1 < continuationBit {
			c.pos += 2
			return uint64(b0&payloadMask) | uint64(b1)<<dataBitsPerByte, true, nil
		}
	}
	v, err := c.readVarint64Slow()
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}

func (c *Cursor) readVarint64Slow() (uint64, error) {
	var r uint64
	for shift := uint(0); shift < 64; shift += dataBitsPerByte {
		b, err := c.ReadByte()
		if err != nil {
			return 0, err
		}
		r |= uint64(b&payloadMask) << shift
		if b < continuationBit {
			return r, nil
		}
	}
	return 0, fmt.Errorf("%w: exceeded 64 bits at offset %d", ErrVarintTooLong, c.pos)
}

func (c *Cursor) ensure(n int) error {
	if n < 0 || n > c.end-c.pos {
		return fmt.Errorf("%w: %d bytes available, %d requested", ErrUnexpectedEOF, c.end-c.pos, n)
	}
	return nil
}
