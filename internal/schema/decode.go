package schema

import (
	"fmt"

	"ktmeta/internal/diag"
	"ktmeta/internal/strtab"
	"ktmeta/internal/wire"
)

// Options controls Decode.
type Options struct {
	MaxStrings int         // forwarded to strtab; 0 = default
	Diags      *diag.Diags // optional
}

// Decoded is the result of decoding one class payload.
type Decoded struct {
	Strings *strtab.Table
	Class   *Class
}

// Decode parses a class payload: a length-prefixed string table message
// followed by the class message, which runs to the end of data. pool is the
// host string array the table falls back to.
func Decode(data []byte, pool []string, opts Options) (*Decoded, error) {
	r := wire.NewReader(data)
	sr, err := r.ReadDelimited()
	if err != nil {
		return nil, fmt.Errorf("schema: string table: %w", err)
	}
	table, err := strtab.Parse(sr, pool, strtab.Options{MaxStrings: opts.MaxStrings, Diags: opts.Diags})
	if err != nil {
		return nil, err
	}
	class, err := ParseClass(r, table, opts.Diags)
	if err != nil {
		return nil, err
	}
	return &Decoded{Strings: table, Class: class}, nil
}
