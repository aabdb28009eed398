package gbms

import (
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// ScanObject identifies what the scanner is asked to acquire.
type ScanObject int

// NoObject is returned when an object name cannot be resolved.
const NoObject ScanObject = 0

const (
	FlatSingleFinger ScanObject = 0x0100 + iota
	FlatRightThumb
	FlatRightIndex
	FlatRightMiddle
	FlatRightRing
	FlatRightLittle
	FlatLeftThumb
	FlatLeftIndex
	FlatLeftMiddle
	FlatLeftRing
	FlatLeftLittle
)

const (
	FlatSlapRight ScanObject = 0x0200 + iota
	FlatSlapLeft
	FlatTwoThumbs
)

const (
	RollSingleFinger ScanObject = 0x0400 + iota
	RollRightThumb
	RollRightIndex
	RollLeftThumb
	RollLeftIndex
)

// ObjectType is the type mask of a scan object.
type ObjectType uint32

const (
	TypeFlatSingleFinger ObjectType = 0x0001
	TypeFlatSlap         ObjectType = 0x0002
	TypeRolledFinger     ObjectType = 0x0004
)

// IsFlat reports whether t describes a flat (not rolled) acquisition.
func (t ObjectType) IsFlat() bool {
	return t&(TypeFlatSingleFinger|TypeFlatSlap) != 0
}

var objectNames = map[string]ScanObject{
	"FLAT_SINGLE_FINGER": FlatSingleFinger,
	"FLAT_RIGHT_THUMB":   FlatRightThumb,
	"FLAT_RIGHT_INDEX":   FlatRightIndex,
	"FLAT_RIGHT_MIDDLE":  FlatRightMiddle,
	"FLAT_RIGHT_RING":    FlatRightRing,
	"FLAT_RIGHT_LITTLE":  FlatRightLittle,
	"FLAT_LEFT_THUMB":    FlatLeftThumb,
	"FLAT_LEFT_INDEX":    FlatLeftIndex,
	"FLAT_LEFT_MIDDLE":   FlatLeftMiddle,
	"FLAT_LEFT_RING":     FlatLeftRing,
	"FLAT_LEFT_LITTLE":   FlatLeftLittle,
	"FLAT_SLAP_RIGHT":    FlatSlapRight,
	"FLAT_SLAP_LEFT":     FlatSlapLeft,
	"FLAT_TWO_THUMBS":    FlatTwoThumbs,
	"ROLL_SINGLE_FINGER": RollSingleFinger,
	"ROLL_RIGHT_THUMB":   RollRightThumb,
	"ROLL_RIGHT_INDEX":   RollRightIndex,
	"ROLL_LEFT_THUMB":    RollLeftThumb,
	"ROLL_LEFT_INDEX":    RollLeftIndex,
}

// LookupObject resolves an object name such as FLAT_RIGHT_INDEX. Unknown
// names resolve to NoObject.
func LookupObject(name string) ScanObject {
	return objectNames[strings.ToUpper(strings.TrimSpace(name))]
}

// ObjectNames lists the resolvable object names, sorted.
func ObjectNames() []string {
	names := maps.Keys(objectNames)
	slices.Sort(names)
	return names
}

// TypeOf returns the type mask of an object; NoObject has no type.
func TypeOf(obj ScanObject) ObjectType {
	switch {
	case obj >= FlatSingleFinger && obj <= FlatLeftLittle:
		return TypeFlatSingleFinger
	case obj >= FlatSlapRight && obj <= FlatTwoThumbs:
		return TypeFlatSlap
	case obj >= RollSingleFinger && obj <= RollLeftIndex:
		return TypeRolledFinger
	}
	return 0
}
