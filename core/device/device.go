// Package device unifies the historical binary encodings of a device number.
//
// A device number is a logical (major, minor) pair. The kernel has handed it
// out as a packed 32-bit word (mips64 stat), as an explicit pair (statx) and
// as a packed 64-bit word (every other stat). ID carries whichever encoding it
// was built from; comparisons always use the decomposed pair, never the raw
// bits, so IDs must be compared with Equal or Compare rather than ==.
package device

import (
	"cmp"
	"fmt"
)

// Kind tells which encoding an ID holds.
type Kind uint8

const (
	KindPacked32 Kind = iota + 1
	KindPair
	KindPacked64
)

func (k Kind) String() string {
	switch k {
	case KindPacked32:
		return "packed32"
	case KindPair:
		return "pair"
	case KindPacked64:
		return "packed64"
	default:
		return "invalid"
	}
}

// Pair is the decomposed form. It is comparable and safe to use as a map key.
type Pair struct {
	Major uint32
	Minor uint32
}

func (p Pair) String() string { return fmt.Sprintf("%d:%d", p.Major, p.Minor) }

// Dev32 is the packed 32-bit encoding.
type Dev32 uint32

// Major returns bits 8..15.
func (d Dev32) Major() uint32 { return (uint32(d) >> 8) & 0xff }

// Minor folds the low byte with everything from bit 19 up.
func (d Dev32) Minor() uint32 { return (uint32(d) >> 19) | (uint32(d) & 0xff) }

func (d Dev32) Pair() Pair { return Pair{Major: d.Major(), Minor: d.Minor()} }

// Dev64 is the packed 64-bit encoding used by glibc's makedev and the
// kernel's stat structures.
type Dev64 uint64

// Major returns the 32-bit major number.
func (d Dev64) Major() uint32 {
	return uint32(((uint64(d) >> 32) & 0xfffff000) | ((uint64(d) >> 8) & 0xfff))
}

// Minor returns the 32-bit minor number.
func (d Dev64) Minor() uint32 {
	return uint32(((uint64(d) >> 12) & 0xffffff00) | (uint64(d) & 0xff))
}

func (d Dev64) Pair() Pair { return Pair{Major: d.Major(), Minor: d.Minor()} }

// Pack64 encodes a pair in the packed 64-bit layout. It is lossless for every
// (major, minor) pair.
func Pack64(major, minor uint32) Dev64 {
	return Dev64(((uint64(major) & 0xfffff000) << 32) |
		((uint64(major) & 0xfff) << 8) |
		((uint64(minor) & 0xffffff00) << 12) |
		(uint64(minor) & 0xff))
}

// Pack32 encodes a pair in the packed 32-bit layout. ok is false when major
// exceeds 0xff or minor exceeds 0x1fff, the largest values that decompose
// back unchanged.
func Pack32(major, minor uint32) (d Dev32, ok bool) {
	if major > 0xff || minor > 0x1fff {
		return 0, false
	}
	return Dev32((major << 8) | (minor & 0xff) | ((minor &^ 0xff) << 19)), true
}

// ID is a device number in one of the three encodings.
type ID struct {
	kind  Kind
	bits  uint64 // Dev32, Dev64 or the major of a pair
	minor uint32 // pair only
}

// FromPacked32 wraps a packed 32-bit device number.
func FromPacked32(v uint32) ID { return ID{kind: KindPacked32, bits: uint64(v)} }

// FromPacked64 wraps a packed 64-bit device number.
func FromPacked64(v uint64) ID { return ID{kind: KindPacked64, bits: v} }

// FromPair wraps an explicit (major, minor) pair.
func FromPair(major, minor uint32) ID {
	return ID{kind: KindPair, bits: uint64(major), minor: minor}
}

// Kind returns the encoding held by id. The zero ID has no kind.
func (id ID) Kind() Kind { return id.kind }

// IsZero reports whether id was never set.
func (id ID) IsZero() bool { return id.kind == 0 }

// Pair decomposes id.
func (id ID) Pair() Pair {
	switch id.kind {
	case KindPacked32:
		return Dev32(id.bits).Pair()
	case KindPair:
		return Pair{Major: uint32(id.bits), Minor: id.minor}
	case KindPacked64:
		return Dev64(id.bits).Pair()
	default:
		return Pair{}
	}
}

func (id ID) Major() uint32 { return id.Pair().Major }

func (id ID) Minor() uint32 { return id.Pair().Minor }

// Packed64 re-encodes id in the packed 64-bit layout.
func (id ID) Packed64() uint64 {
	if id.kind == KindPacked64 {
		return id.bits
	}
	p := id.Pair()
	return uint64(Pack64(p.Major, p.Minor))
}

// Packed32 re-encodes id in the packed 32-bit layout, if it fits.
func (id ID) Packed32() (uint32, bool) {
	if id.kind == KindPacked32 {
		return uint32(id.bits), true
	}
	p := id.Pair()
	d, ok := Pack32(p.Major, p.Minor)
	return uint32(d), ok
}

// Raw returns the encoded bits as held. For a pair it is the packed 64-bit
// form.
func (id ID) Raw() uint64 {
	if id.kind == KindPair {
		return id.Packed64()
	}
	return id.bits
}

// Equal reports whether both IDs name the same device.
func (id ID) Equal(other ID) bool { return id.Pair() == other.Pair() }

// Compare orders by major, then minor.
func (id ID) Compare(other ID) int {
	a, b := id.Pair(), other.Pair()
	if c := cmp.Compare(a.Major, b.Major); c != 0 {
		return c
	}
	return cmp.Compare(a.Minor, b.Minor)
}

func (id ID) String() string { return id.Pair().String() }

// GoString shows the encoding, e.g. Dev64(8:1).
func (id ID) GoString() string {
	switch id.kind {
	case KindPacked32:
		return "Dev32(" + id.String() + ")"
	case KindPair:
		return "DevPair(" + id.String() + ")"
	case KindPacked64:
		return "Dev64(" + id.String() + ")"
	default:
		return "Dev(invalid)"
	}
}

// MarshalText renders id as "major:minor".
func (id ID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

// UnmarshalText parses "major:minor" into a pair.
func (id *ID) UnmarshalText(b []byte) error {
	var major, minor uint32
	if _, err := fmt.Sscanf(string(b), "%d:%d", &major, &minor); err != nil {
		return fmt.Errorf("failed to parse device number %q: %w", b, err)
	}
	*id = FromPair(major, minor)
	return nil
}
