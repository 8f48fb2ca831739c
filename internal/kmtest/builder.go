// Package kmtest assembles class metadata payloads for tests.
package kmtest

import (
	"google.golang.org/protobuf/encoding/protowire"

	"ktmeta/internal/header"
)

// Record describes one string table record. Zero-valued optional fields are
// omitted from the encoding.
type Record struct {
	Range      int32 // 0 = omit (decoder default 1)
	Predefined int32 // -1 = omit
	Operation  int32
	String     *string
	Substring  []int32
	Replace    []int32
	// Packed encodes Substring/Replace as one packed run instead of
	// repeated varints.
	Packed bool
	// Pool is the host string stored at each slot this record occupies.
	Pool string
}

// Function describes one function record. Index fields use -1 for "omit".
type Function struct {
	Name        int32
	ReturnClass int32
	Nullable    bool
	NoReturn    bool
	SigName     int32
	SigDesc     int32
	NoSignature bool
}

// Builder collects string table records and functions.
type Builder struct {
	records  [][]byte
	pool     []string
	literals map[string]int32
	funcs    [][]byte
	// Unknown adds fields the decoder must skip to every message.
	Unknown bool
}

// New returns an empty builder.
func New() *Builder {
	return &Builder{literals: make(map[string]int32)}
}

// Str returns a pointer to s, for Record.String.
func Str(s string) *string { return &s }

// Add appends a record and returns the first slot it occupies.
func (b *Builder) Add(r Record) int32 {
	first := int32(len(b.pool))
	var m []byte
	if r.Range != 0 {
		m = appendVarintField(m, 1, int64(r.Range))
	}
	if r.Predefined >= 0 {
		m = appendVarintField(m, 2, int64(r.Predefined))
	}
	if r.Operation != 0 {
		m = appendVarintField(m, 3, int64(r.Operation))
	}
	m = appendInts(m, 4, r.Substring, r.Packed)
	m = appendInts(m, 5, r.Replace, r.Packed)
	if r.String != nil {
		m = protowire.AppendTag(m, 6, protowire.BytesType)
		m = protowire.AppendString(m, *r.String)
	}
	if b.Unknown {
		m = protowire.AppendTag(m, 15, protowire.Fixed32Type)
		m = protowire.AppendFixed32(m, 0xdeadbeef)
	}
	b.records = append(b.records, m)

	n := r.Range
	if n == 0 {
		n = 1
	}
	for i := int32(0); i < n; i++ {
		b.pool = append(b.pool, r.Pool)
	}
	return first
}

// Literal interns s as a literal record and returns its slot.
func (b *Builder) Literal(s string) int32 {
	if i, ok := b.literals[s]; ok {
		return i
	}
	i := b.Add(Record{Predefined: -1, String: Str(s)})
	b.literals[s] = i
	return i
}

// Pooled adds a record that resolves through the host string pool.
func (b *Builder) Pooled(s string) int32 {
	return b.Add(Record{Predefined: -1, Pool: s})
}

// Predefined adds a record that references predefined constant i.
func (b *Builder) Predefined(i int32) int32 {
	return b.Add(Record{Predefined: i})
}

// AddFunction appends a function record.
func (b *Builder) AddFunction(f Function) {
	var m []byte
	if b.Unknown {
		m = appendVarintField(m, 1, 6) // flags
	}
	if f.Name >= 0 {
		m = appendVarintField(m, 2, int64(f.Name))
	}
	if !f.NoReturn {
		var t []byte
		if b.Unknown {
			t = protowire.AppendTag(t, 2, protowire.BytesType)
			t = protowire.AppendBytes(t, []byte{0x08, 0x01})
		}
		if f.Nullable {
			t = appendVarintField(t, 3, 1)
		}
		if f.ReturnClass >= 0 {
			t = appendVarintField(t, 6, int64(f.ReturnClass))
		}
		m = protowire.AppendTag(m, 3, protowire.BytesType)
		m = protowire.AppendBytes(m, t)
	}
	if b.Unknown {
		m = protowire.AppendTag(m, 6, protowire.BytesType) // value parameter
		m = protowire.AppendBytes(m, []byte{0x10, 0x00})
	}
	if !f.NoSignature {
		var s []byte
		if f.SigName >= 0 {
			s = appendVarintField(s, 1, int64(f.SigName))
		}
		if f.SigDesc >= 0 {
			s = appendVarintField(s, 2, int64(f.SigDesc))
		}
		m = protowire.AppendTag(m, 100, protowire.BytesType)
		m = protowire.AppendBytes(m, s)
	}
	b.funcs = append(b.funcs, m)
}

// Fun interns name, descriptor and return class as literals and appends a
// function whose JVM key is name+desc.
func (b *Builder) Fun(name, desc, returnClass string, nullable bool) {
	b.AddFunction(Function{
		Name:        b.Literal(name),
		ReturnClass: b.Literal(returnClass),
		Nullable:    nullable,
		SigName:     -1,
		SigDesc:     b.Literal(desc),
	})
}

// Pool returns the host string pool, parallel to the expanded table.
func (b *Builder) Pool() []string {
	out := make([]string, len(b.pool))
	copy(out, b.pool)
	return out
}

// StringTable returns the encoded string table message body.
func (b *Builder) StringTable() []byte {
	var st []byte
	for _, r := range b.records {
		st = protowire.AppendTag(st, 1, protowire.BytesType)
		st = protowire.AppendBytes(st, r)
	}
	if b.Unknown {
		st = appendVarintField(st, 2, 7) // local name list
	}
	return st
}

// Class returns the encoded class message body.
func (b *Builder) Class() []byte {
	var c []byte
	if b.Unknown {
		c = appendVarintField(c, 1, 6) // flags
		c = appendVarintField(c, 3, 0) // fq name
		c = protowire.AppendTag(c, 2, protowire.Fixed64Type)
		c = protowire.AppendFixed64(c, 1)
	}
	for _, f := range b.funcs {
		c = protowire.AppendTag(c, 9, protowire.BytesType)
		c = protowire.AppendBytes(c, f)
	}
	if b.Unknown {
		c = protowire.AppendTag(c, 10, protowire.BytesType) // property
		c = protowire.AppendBytes(c, []byte{0x10, 0x03})
	}
	return c
}

// Payload returns the full payload: length-prefixed string table followed by
// the class message.
func (b *Builder) Payload() []byte {
	out := protowire.AppendBytes(nil, b.StringTable())
	return append(out, b.Class()...)
}

// Header wraps the payload in a class-kind annotation header at the
// baseline version, packed in UTF-8 mode.
func (b *Builder) Header(class string) *header.Header {
	return &header.Header{
		Class:   class,
		Kind:    header.KindClass,
		Version: header.Baseline.Ints(),
		Data1:   PackUTF8(b.Payload()),
		Data2:   b.Pool(),
	}
}

// PackUTF8 packs payload bytes one per character behind the UTF-8 mode
// marker.
func PackUTF8(payload []byte) []string {
	rs := make([]rune, 0, len(payload)+1)
	rs = append(rs, 0)
	for _, c := range payload {
		rs = append(rs, rune(c))
	}
	return []string{string(rs)}
}

func appendVarintField(b []byte, num protowire.Number, v int64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(v))
}

func appendInts(b []byte, num protowire.Number, vs []int32, packed bool) []byte {
	if len(vs) == 0 {
		return b
	}
	if packed {
		var run []byte
		for _, v := range vs {
			run = protowire.AppendVarint(run, uint64(int64(v)))
		}
		b = protowire.AppendTag(b, num, protowire.BytesType)
		return protowire.AppendBytes(b, run)
	}
	for _, v := range vs {
		b = appendVarintField(b, num, int64(v))
	}
	return b
}
