// Package header models the metadata annotation attached to a compiled
// class and validates it before any payload byte is decoded.
package header

import (
	"errors"
	"fmt"
)

var (
	ErrWrongKind    = errors.New("header: metadata is not of class kind")
	ErrEmptyPayload = errors.New("header: metadata payload is empty")
)

// Kind identifies the kind of declaration a metadata annotation describes.
type Kind int32

const (
	KindClass              Kind = 1
	KindFileFacade         Kind = 2
	KindSyntheticClass     Kind = 3
	KindMultiFileFacade    Kind = 4
	KindMultiFileClassPart Kind = 5
)

func (k Kind) String() string {
	switch k {
	case KindClass:
		return "Class"
	case KindFileFacade:
		return "FileFacade"
	case KindSyntheticClass:
		return "SyntheticClass"
	case KindMultiFileFacade:
		return "MultiFileFacade"
	case KindMultiFileClassPart:
		return "MultiFileClassPart"
	default:
		return fmt.Sprintf("Unknown(%d)", int32(k))
	}
}

// strictSemanticsFlag is the extra-int bit that requests strict version
// checking.
const strictSemanticsFlag = 1 << 3

// Header holds the fields of a class's metadata annotation.
//
//	k   kind
//	mv  metadata version
//	xi  extra flags
//	d1  packed protobuf payload
//	d2  interned string pool
type Header struct {
	Class    string   `json:"class,omitempty"`
	Kind     Kind     `json:"kind"`
	Version  []int32  `json:"version"`
	ExtraInt int32    `json:"extra_int"`
	Data1    []string `json:"data1"`
	Data2    []string `json:"data2"`
}

// Strict reports whether the annotation requests strict version semantics.
func (h *Header) Strict() bool { return h.ExtraInt&strictSemanticsFlag != 0 }

// MetadataVersion returns the annotation's version triple.
func (h *Header) MetadataVersion() Version { return VersionFromInts(h.Version) }

// Validate checks version, kind and payload presence, in that order.
func (h *Header) Validate(baseline Version) error {
	if err := CheckVersion(h.MetadataVersion(), baseline, h.Strict()); err != nil {
		return err
	}
	if h.Kind != KindClass {
		return fmt.Errorf("%w: %s", ErrWrongKind, h.Kind)
	}
	if len(h.Data1) == 0 {
		return ErrEmptyPayload
	}
	return nil
}

// Payload validates h and unpacks Data1 into protobuf bytes.
func (h *Header) Payload(baseline Version) ([]byte, error) {
	if err := h.Validate(baseline); err != nil {
		return nil, err
	}
	b := DecodeBytes(h.Data1)
	if len(b) == 0 {
		return nil, ErrEmptyPayload
	}
	return b, nil
}
