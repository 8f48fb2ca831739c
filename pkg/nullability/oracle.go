// Package nullability answers whether a compiled method's declared return
// type admits an absent value, using the class metadata the compiler embeds
// next to the method.
//
// A suspending method such as
//
//	suspend fun user(id: Int): User?
//
// compiles to a method returning java.lang.Object with an extra
// continuation parameter, so reflection cannot see the "?". The class's
// metadata still records it. The Oracle decodes that metadata once per
// declaring type, pairs the reflected method with its function record by
// JVM descriptor, and reports whether the return type is nullable or Unit.
package nullability

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"ktmeta/internal/header"
	"ktmeta/internal/jvm"
	"ktmeta/internal/schema"
)

// Metadata is the content of a class's metadata annotation.
type Metadata struct {
	Kind    header.Kind
	Version header.Version
	Strict  bool

	// Bytes is the protobuf payload. When nil, Packed is unpacked instead.
	Bytes  []byte
	Packed []string
	// Strings is the interned string pool.
	Strings []string
}

// FromHeader converts an annotation header into Metadata. The payload stays
// packed until a decode needs it.
func FromHeader(h *header.Header) Metadata {
	return Metadata{
		Kind:    h.Kind,
		Version: h.MetadataVersion(),
		Strict:  h.Strict(),
		Packed:  h.Data1,
		Strings: h.Data2,
	}
}

// Query asks about one method of one declaring type.
type Query struct {
	// Class identifies the declaring type; it is the cache key.
	Class    string
	Metadata Metadata
	Method   jvm.Method
}

// Options configures an Oracle.
type Options struct {
	Cache      *Cache         // nil = private cache
	Baseline   header.Version // zero = header.Baseline
	MaxStrings int            // string table expansion cap; 0 = default
	Logger     *zap.Logger    // nil = no logging
}

// Oracle answers nullability queries. It is safe for concurrent use.
type Oracle struct {
	cache      *Cache
	baseline   header.Version
	maxStrings int
	log        *zap.Logger
}

// New creates an Oracle.
func New(opts Options) *Oracle {
	o := &Oracle{
		cache:      opts.Cache,
		baseline:   opts.Baseline,
		maxStrings: opts.MaxStrings,
		log:        opts.Logger,
	}
	if o.cache == nil {
		o.cache = NewCache()
	}
	if o.baseline == (header.Version{}) {
		o.baseline = header.Baseline
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}
	return o
}

// Cache returns the oracle's function cache.
func (o *Oracle) Cache() *Cache { return o.cache }

// IsNullable reports whether q.Method's declared return type is nullable or
// Unit.
func (o *Oracle) IsNullable(q Query) (bool, error) {
	fn, err := o.Lookup(q)
	if err != nil {
		return false, err
	}
	return fn.NullableOrUnit(), nil
}

// Lookup returns the function record matching q.Method.
func (o *Oracle) Lookup(q Query) (*schema.Function, error) {
	fns, err := o.Functions(q.Class, q.Metadata)
	if err != nil {
		return nil, err
	}
	return Match(q.Class, fns, q.Method)
}

// Functions returns the decoded function list of a declaring type, decoding
// md on the first call for class.
func (o *Oracle) Functions(class string, md Metadata) ([]schema.Function, error) {
	return o.cache.Load(class, func() ([]schema.Function, error) {
		start := time.Now()
		fns, err := o.decode(md)
		if err != nil {
			o.log.Warn("class metadata rejected", zap.String("class", class), zap.Error(err))
			return nil, fmt.Errorf("metadata of %s: %w", class, err)
		}
		o.log.Debug("class metadata decoded",
			zap.String("class", class),
			zap.Int("functions", len(fns)),
			zap.Duration("took", time.Since(start)))
		return fns, nil
	})
}

func (o *Oracle) decode(md Metadata) ([]schema.Function, error) {
	if err := header.CheckVersion(md.Version, o.baseline, md.Strict); err != nil {
		return nil, err
	}
	if md.Kind != header.KindClass {
		return nil, fmt.Errorf("%w: %s", header.ErrWrongKind, md.Kind)
	}
	payload := md.Bytes
	if payload == nil && len(md.Packed) > 0 {
		payload = header.DecodeBytes(md.Packed)
	}
	if len(payload) == 0 {
		return nil, header.ErrEmptyPayload
	}
	dec, err := schema.Decode(payload, md.Strings, schema.Options{MaxStrings: o.maxStrings})
	if err != nil {
		return nil, err
	}
	return dec.Class.Functions, nil
}

// Match returns the single function in fns whose JVM key equals m's
// descriptor.
func Match(class string, fns []schema.Function, m jvm.Method) (*schema.Function, error) {
	target := m.Descriptor()
	idx, n := -1, 0
	for i := range fns {
		if fns[i].Key == target {
			idx = i
			n++
		}
	}
	if n != 1 {
		return nil, &MatchError{Class: class, Method: target, Candidates: n}
	}
	// Cached lists are shared; hand out a copy.
	fn := fns[idx]
	return &fn, nil
}
