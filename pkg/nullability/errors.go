package nullability

import (
	"errors"
	"fmt"

	"ktmeta/internal/header"
	"ktmeta/internal/strtab"
	"ktmeta/internal/wire"
)

// Errors returned by IsNullable, for use with errors.Is. None of them are
// transient: the metadata is a fixed compiled artifact.
var (
	ErrIncompatibleMetadataVersion = header.ErrIncompatibleVersion
	ErrWrongMetadataKind           = header.ErrWrongKind
	ErrEmptyMetadataPayload        = header.ErrEmptyPayload

	ErrUnexpectedEOF       = wire.ErrUnexpectedEOF
	ErrVarintTooLong       = wire.ErrVarintTooLong
	ErrNegativeLength      = wire.ErrNegativeLength
	ErrUnsupportedWireType = wire.ErrUnsupportedWireType
	ErrInvalidTag          = wire.ErrInvalidTag
	ErrWireTypeMismatch    = wire.ErrWireTypeMismatch

	ErrStringIndexOutOfBounds = strtab.ErrIndexOutOfBounds
	ErrStringTableTooLarge    = strtab.ErrTableTooLarge

	ErrNoMatchingFunction     = errors.New("nullability: no matching function in metadata")
	ErrAmbiguousFunctionMatch = errors.New("nullability: multiple matching functions in metadata")
)

// MatchError reports a method that matched zero or several function records.
type MatchError struct {
	Class      string
	Method     string // target descriptor key
	Candidates int
}

func (e *MatchError) Error() string {
	if e.Candidates == 0 {
		return fmt.Sprintf("no match found in metadata of %s for %s", e.Class, e.Method)
	}
	return fmt.Sprintf("%d function matches found in metadata of %s for %s", e.Candidates, e.Class, e.Method)
}

func (e *MatchError) Unwrap() error {
	if e.Candidates == 0 {
		return ErrNoMatchingFunction
	}
	return ErrAmbiguousFunctionMatch
}
