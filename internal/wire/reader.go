package wire

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidTag          = errors.New("wire: invalid tag")
	ErrUnsupportedWireType = errors.New("wire: unsupported wire type")
	ErrWireTypeMismatch    = errors.New("wire: wire type mismatch")
	ErrNegativeLength      = errors.New("wire: negative length")
)

// Type is the 3-bit wire type carried in every field tag.
type Type uint8

const (
	TypeVarint  Type = 0
	TypeFixed64 Type = 1
	TypeBytes   Type = 2
	TypeFixed32 Type = 5
)

func (t Type) String() string {
	switch t {
	case TypeVarint:
		return "varint"
	case TypeFixed64:
		return "fixed64"
	case TypeBytes:
		return "bytes"
	case TypeFixed32:
		return "fixed32"
	default:
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
}

// IntKind selects the integer encoding a field is read with.
type IntKind int

const (
	IntDefault IntKind = iota // varint
	IntFixed                  // little-endian fixed width
)

// maxField is the largest field number the format allows (2^29-1).
const maxField = 1<<29 - 1

// Tag identifies the field whose value the reader is positioned at.
type Tag struct {
	Field int32
	Type  Type
}

// Reader decodes tag/value records from a bounded region. A message body is
// consumed with a loop:
//
//	for {
//		tag, ok, err := r.ReadTag()
//		if err != nil || !ok { ... }
//		switch tag.Field { ...; default: err = r.Skip() }
//	}
//
// A Reader never reads past the region it was created over, so a malformed
// submessage cannot consume bytes belonging to its parent.
type Reader struct {
	cur *Cursor
	tag Tag
}

// NewReader creates a reader over data.
func NewReader(data []byte) *Reader {
	return &Reader{cur: NewCursor(data)}
}

func newReaderFrom(c *Cursor) *Reader {
	return &Reader{cur: c}
}

// Position returns the absolute offset of the next byte to be read.
func (r *Reader) Position() int { return r.cur.Position() }

// Remaining returns bytes left in this reader's region.
func (r *Reader) Remaining() int { return r.cur.Remaining() }

// Tag returns the most recently read tag.
func (r *Reader) Tag() Tag { return r.tag }

// ReadTag reads the next field tag. ok is false once the region is exhausted.
func (r *Reader) ReadTag() (tag Tag, ok bool, err error) {
	off := r.cur.Position()
	v, ok, err := r.cur.ReadVarint64(true)
	if err != nil {
		return Tag{}, false, err
	}
	if !ok {
		r.tag = Tag{Field: -1, Type: 0}
		return Tag{}, false, nil
	}
	field := v >> 3
	if field == 0 || field > maxField {
		return Tag{}, false, fmt.Errorf("%w: field %d at offset %d", ErrInvalidTag, field, off)
	}
	r.tag = Tag{Field: int32(field), Type: Type(v & 7)}
	return r.tag, true, nil
}

// Skip discards the value of the current field according to its wire type.
func (r *Reader) Skip() error {
	switch r.tag.Type {
	case TypeVarint:
		_, _, err := r.cur.ReadVarint64(false)
		return err
	case TypeFixed64:
		_, err := r.cur.ReadExact(8)
		return err
	case TypeBytes:
		n, err := r.readLength()
		if err != nil {
			return err
		}
		_, err = r.cur.ReadExact(n)
		return err
	case TypeFixed32:
		_, err := r.cur.ReadExact(4)
		return err
	default:
		return fmt.Errorf("%w: %d (field %d)", ErrUnsupportedWireType, uint8(r.tag.Type), r.tag.Field)
	}
}

// ReadInt32 reads the current field as a 32-bit integer. Default varints are
// read with the full 64-bit budget and truncated, so negative int32 values
// encoded as ten-byte varints decode correctly.
func (r *Reader) ReadInt32(kind IntKind) (int32, error) {
	if kind == IntFixed {
		if err := r.expect(TypeFixed32); err != nil {
			return 0, err
		}
		v, err := r.cur.ReadFixed32()
		return int32(v), err
	}
	if err := r.expect(TypeVarint); err != nil {
		return 0, err
	}
	v, _, err := r.cur.ReadVarint64(false)
	return int32(v), err
}

// ReadInt64 reads the current field as a 64-bit integer.
func (r *Reader) ReadInt64(kind IntKind) (int64, error) {
	if kind == IntFixed {
		if err := r.expect(TypeFixed64); err != nil {
			return 0, err
		}
		v, err := r.cur.ReadFixed64()
		return int64(v), err
	}
	if err := r.expect(TypeVarint); err != nil {
		return 0, err
	}
	v, _, err := r.cur.ReadVarint64(false)
	return int64(v), err
}

// ReadBool reads a varint field as a flag; any nonzero value is true.
func (r *Reader) ReadBool() (bool, error) {
	v, err := r.ReadInt64(IntDefault)
	return v != 0, err
}

// ReadMessage returns a reader scoped to the current length-delimited field.
func (r *Reader) ReadMessage() (*Reader, error) {
	if err := r.expect(TypeBytes); err != nil {
		return nil, err
	}
	return r.ReadDelimited()
}

// ReadDelimited reads a varint length with no preceding tag and returns a
// reader over that many bytes.
func (r *Reader) ReadDelimited() (*Reader, error) {
	n, err := r.readLength()
	if err != nil {
		return nil, err
	}
	sub, err := r.cur.Slice(n)
	if err != nil {
		return nil, err
	}
	return newReaderFrom(sub), nil
}

// ReadString reads the current length-delimited field as a string.
func (r *Reader) ReadString() (string, error) {
	if err := r.expect(TypeBytes); err != nil {
		return "", err
	}
	n, err := r.readLength()
	if err != nil {
		return "", err
	}
	b, err := r.cur.ReadExact(n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadPackedInt32s reads a repeated int32 field that may be encoded either as
// a single varint or as a packed length-delimited run.
func (r *Reader) ReadPackedInt32s(dst []int32) ([]int32, error) {
	switch r.tag.Type {
	case TypeVarint:
		v, err := r.ReadInt32(IntDefault)
		if err != nil {
			return dst, err
		}
		return append(dst, v), nil
	case TypeBytes:
		sub, err := r.ReadMessage()
		if err != nil {
			return dst, err
		}
		for sub.Remaining() > 0 {
			v, _, err := sub.cur.ReadVarint64(false)
			if err != nil {
				return dst, err
			}
			dst = append(dst, int32(v))
		}
		return dst, nil
	default:
		return dst, fmt.Errorf("%w: field %d is %s, want varint or bytes", ErrWireTypeMismatch, r.tag.Field, r.tag.Type)
	}
}

func (r *Reader) readLength() (int, error) {
	off := r.cur.Position()
	v, _, err := r.cur.ReadVarint64(false)
	if err != nil {
		return 0, err
	}
	if int64(v) < 0 {
		return 0, fmt.Errorf("%w: %d at offset %d", ErrNegativeLength, int64(v), off)
	}
	if v > math.MaxInt32 {
		return 0, fmt.Errorf("%w: length %d at offset %d", ErrUnexpectedEOF, v, off)
	}
	return int(v), nil
}

func (r *Reader) expect(want Type) error {
	if r.tag.Type != want {
		return fmt.Errorf("%w: field %d is %s, want %s", ErrWireTypeMismatch, r.tag.Field, r.tag.Type, want)
	}
	return nil
}
