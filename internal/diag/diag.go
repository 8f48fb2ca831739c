// Package diag collects non-fatal observations made while walking metadata.
package diag

import "fmt"

// Kind classifies a diagnostic message.
type Kind string

const (
	KindUnknownField Kind = "unknown_field"
	KindIgnored      Kind = "ignored"
	KindMissing      Kind = "missing"
)

// Diag records a non-fatal issue encountered during decoding.
type Diag struct {
	Offset int    `json:"offset"`
	Kind   Kind   `json:"kind"`
	Msg    string `json:"msg"`
}

func (d Diag) String() string {
	return fmt.Sprintf("[%s] 0x%x: %s", d.Kind, d.Offset, d.Msg)
}

// Diags accumulates diagnostics. A nil *Diags discards everything, so
// decoders can take one unconditionally.
type Diags struct {
	items []Diag
}

func (d *Diags) Add(offset int, kind Kind, msg string) {
	if d == nil {
		return
	}
	d.items = append(d.items, Diag{Offset: offset, Kind: kind, Msg: msg})
}

func (d *Diags) Addf(offset int, kind Kind, format string, args ...any) {
	if d == nil {
		return
	}
	d.items = append(d.items, Diag{Offset: offset, Kind: kind, Msg: fmt.Sprintf(format, args...)})
}

func (d *Diags) Items() []Diag {
	if d == nil {
		return nil
	}
	return d.items
}

func (d *Diags) Len() int {
	if d == nil {
		return 0
	}
	return len(d.items)
}
