// Version gating for class metadata format revisions.
package header

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrIncompatibleVersion = errors.New("header: incompatible metadata version")

// Version is a metadata format version triple.
type Version struct {
	Major int32 `json:"major"`
	Minor int32 `json:"minor"`
	Patch int32 `json:"patch"`
}

// Baseline is the newest metadata version this decoder was written against.
// Non-strict metadata up to one minor version ahead is still accepted.
var Baseline = Version{Major: 1, Minor: 9, Patch: 0}

// VersionFromInts builds a Version from the annotation's int array. Missing
// components are -1.
func VersionFromInts(v []int32) Version {
	get := func(i int) int32 {
		if i < len(v) {
			return v[i]
		}
		return -1
	}
	return Version{Major: get(0), Minor: get(1), Patch: get(2)}
}

// ParseVersion parses "major.minor.patch"; the patch component is optional.
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) < 2 || len(parts) > 3 {
		return Version{}, fmt.Errorf("header: bad version %q", s)
	}
	var out [3]int32
	for i, p := range parts {
		n, err := strconv.ParseInt(p, 10, 32)
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("header: bad version %q", s)
		}
		out[i] = int32(n)
	}
	return Version{Major: out[0], Minor: out[1], Patch: out[2]}, nil
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Ints returns v as the annotation's int array.
func (v Version) Ints() []int32 { return []int32{v.Major, v.Minor, v.Patch} }

// atMost reports whether every component of v is no greater than o's.
func (v Version) atMost(o Version) bool {
	return v.Major <= o.Major && v.Minor <= o.Minor && v.Patch <= o.Patch
}

// CompatibleWith reports whether metadata of version v can be read by a
// decoder built against baseline.
//
// 1.0.x predates the stable format and is always rejected. Strict metadata
// must share the baseline's major with no component above the baseline's.
// Otherwise the major must match and the minor may run at most one ahead.
func (v Version) CompatibleWith(baseline Version, strict bool) bool {
	if v.Major == 1 && v.Minor == 0 {
		return false
	}
	if v.Major != baseline.Major {
		return false
	}
	if strict {
		return v.atMost(baseline)
	}
	return v.Minor <= baseline.Minor+1
}

// CheckVersion returns ErrIncompatibleVersion when v fails the gate.
func CheckVersion(v, baseline Version, strict bool) error {
	if !v.CompatibleWith(baseline, strict) {
		mode := "lenient"
		if strict {
			mode = "strict"
		}
		return fmt.Errorf("%w: %s (%s, baseline %s)", ErrIncompatibleVersion, v, mode, baseline)
	}
	return nil
}
