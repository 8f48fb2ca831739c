// Package strtab decodes the compact string table that accompanies class
// metadata and resolves string indices against it.
//
// The table is a list of records. A record either carries a literal, points
// into a fixed pool of predefined names, or defers to the host-supplied
// string pool at the same index. Each resolved string may then be cut to a
// substring, have one character replaced by another, and be passed through a
// final normalizing operation, in that order.
package strtab

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf16"

	"ktmeta/internal/diag"
	"ktmeta/internal/wire"
)

var (
	ErrIndexOutOfBounds = errors.New("strtab: string index out of bounds")
	ErrTableTooLarge    = errors.New("strtab: expanded table too large")
)

// Operation is the normalization applied after substring and replace.
type Operation int32

const (
	OpNone Operation = iota
	// OpDollarToDot turns an internal name into a dotted class id: '$' -> '.'.
	OpDollarToDot
	// OpDescToDotted drops the enclosing 'L' and ';' of a descriptor, then
	// applies '$' -> '.'.
	OpDescToDotted
)

func (o Operation) String() string {
	switch o {
	case OpNone:
		return "none"
	case OpDollarToDot:
		return "dollar_to_dot"
	case OpDescToDotted:
		return "desc_to_dotted"
	default:
		return fmt.Sprintf("Operation(%d)", int32(o))
	}
}

// Field numbers of the string table messages.
const (
	fieldRecord = 1

	fieldRange           = 1
	fieldPredefinedIndex = 2
	fieldOperation       = 3
	fieldSubstringIndex  = 4
	fieldReplaceChar     = 5
	fieldString          = 6
)

// DefaultMaxStrings bounds the range-expanded table size.
const DefaultMaxStrings = 1 << 20

// Record is one entry of the string table before range expansion.
type Record struct {
	Range           int32     `json:"range"`
	PredefinedIndex int32     `json:"predefined_index"`
	Operation       Operation `json:"operation"`
	String          string    `json:"string,omitempty"`
	HasString       bool      `json:"has_string"`
	SubstringIndex  []int32   `json:"substring_index,omitempty"`
	ReplaceChar     []int32   `json:"replace_char,omitempty"`
}

// Options controls table decoding.
type Options struct {
	MaxStrings int         // cap on expanded slots; 0 = DefaultMaxStrings
	Diags      *diag.Diags // optional sink for skipped fields
}

func (o Options) maxStrings() int {
	if o.MaxStrings > 0 {
		return o.MaxStrings
	}
	return DefaultMaxStrings
}

// Table is the range-expanded string table bound to a host string pool.
type Table struct {
	slots   []*Record
	records []*Record
	pool    []string
}

// Parse decodes a string table message from r. pool is the parallel raw
// string array referenced by records that carry neither a literal nor a
// predefined index.
func Parse(r *wire.Reader, pool []string, opts Options) (*Table, error) {
	t := &Table{pool: pool}
	limit := opts.maxStrings()
	for {
		tag, ok, err := r.ReadTag()
		if err != nil {
			return nil, fmt.Errorf("strtab: %w", err)
		}
		if !ok {
			break
		}
		if tag.Field != fieldRecord {
			opts.Diags.Addf(r.Position(), diag.KindUnknownField, "string table field %d (%s)", tag.Field, tag.Type)
			if err := r.Skip(); err != nil {
				return nil, fmt.Errorf("strtab: %w", err)
			}
			continue
		}
		off := r.Position()
		sub, err := r.ReadMessage()
		if err != nil {
			return nil, fmt.Errorf("strtab: record at 0x%x: %w", off, err)
		}
		rec, err := parseRecord(sub, opts.Diags)
		if err != nil {
			return nil, fmt.Errorf("strtab: record at 0x%x: %w", off, err)
		}
		t.records = append(t.records, rec)
		if rec.Range < 1 {
			opts.Diags.Addf(off, diag.KindIgnored, "record with range %d occupies no slots", rec.Range)
			continue
		}
		if int64(len(t.slots))+int64(rec.Range) > int64(limit) {
			return nil, fmt.Errorf("%w: %d slots exceeds limit %d", ErrTableTooLarge, int64(len(t.slots))+int64(rec.Range), limit)
		}
		for i := int32(0); i < rec.Range; i++ {
			t.slots = append(t.slots, rec)
		}
	}
	return t, nil
}

func parseRecord(r *wire.Reader, diags *diag.Diags) (*Record, error) {
	rec := &Record{Range: 1, PredefinedIndex: -1}
	for {
		tag, ok, err := r.ReadTag()
		if err != nil {
			return nil, err
		}
		if !ok {
			return rec, nil
		}
		switch tag.Field {
		case fieldRange:
			rec.Range, err = r.ReadInt32(wire.IntDefault)
		case fieldPredefinedIndex:
			rec.PredefinedIndex, err = r.ReadInt32(wire.IntDefault)
		case fieldOperation:
			var op int32
			op, err = r.ReadInt32(wire.IntDefault)
			rec.Operation = Operation(op)
		case fieldSubstringIndex:
			rec.SubstringIndex, err = r.ReadPackedInt32s(rec.SubstringIndex)
		case fieldReplaceChar:
			rec.ReplaceChar, err = r.ReadPackedInt32s(rec.ReplaceChar)
		case fieldString:
			rec.String, err = r.ReadString()
			rec.HasString = err == nil
		default:
			diags.Addf(r.Position(), diag.KindUnknownField, "string table record field %d (%s)", tag.Field, tag.Type)
			err = r.Skip()
		}
		if err != nil {
			return nil, err
		}
	}
}

// Len returns the number of resolvable slots.
func (t *Table) Len() int { return len(t.slots) }

// Records returns the records as they appeared on the wire, before expansion.
func (t *Table) Records() []*Record { return t.records }

// Slot returns the record backing index i.
func (t *Table) Slot(i int) (*Record, bool) {
	if i < 0 || i >= len(t.slots) {
		return nil, false
	}
	return t.slots[i], true
}

// Resolve returns the string at index i.
func (t *Table) Resolve(i int32) (string, error) {
	if i < 0 || int(i) >= len(t.slots) {
		return "", fmt.Errorf("%w: %d (table has %d)", ErrIndexOutOfBounds, i, len(t.slots))
	}
	rec := t.slots[i]

	var s string
	switch {
	case rec.HasString:
		s = rec.String
	case rec.PredefinedIndex >= 0 && int(rec.PredefinedIndex) < NumPredefined:
		s = predefined[rec.PredefinedIndex]
	default:
		if int(i) >= len(t.pool) {
			return "", fmt.Errorf("%w: %d (pool has %d)", ErrIndexOutOfBounds, i, len(t.pool))
		}
		s = t.pool[i]
	}
	return rec.apply(s), nil
}

// apply runs the substring, replace and operation steps in order. Indices
// and characters are UTF-16 code units.
func (rec *Record) apply(s string) string {
	if len(rec.SubstringIndex) >= 2 {
		begin, end := int(rec.SubstringIndex[0]), int(rec.SubstringIndex[1])
		u := utf16.Encode([]rune(s))
		if 0 <= begin && begin <= end && end <= len(u) {
			s = string(utf16.Decode(u[begin:end]))
		}
	}

	if len(rec.ReplaceChar) >= 2 {
		from, to := uint16(rec.ReplaceChar[0]), uint16(rec.ReplaceChar[1])
		u := utf16.Encode([]rune(s))
		for i := range u {
			if u[i] == from {
				u[i] = to
			}
		}
		s = string(utf16.Decode(u))
	}

	switch rec.Operation {
	case OpDollarToDot:
		s = strings.ReplaceAll(s, "$", ".")
	case OpDescToDotted:
		if u := utf16.Encode([]rune(s)); len(u) >= 2 {
			s = string(utf16.Decode(u[1 : len(u)-1]))
		}
		s = strings.ReplaceAll(s, "$", ".")
	}
	return s
}
