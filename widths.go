package x64enc

import (
	"fmt"
	"math/bits"
	"strings"
)

// Width is a combination of processor modes, address sizes, or operand sizes. Flags may be combined:
// a descriptor legal in 32-bit and 64-bit mode carries Width32|Width64.
type Width uint8

const (
	WidthInvalid Width = 0x00
	Width16      Width = 0x01
	Width32      Width = 0x02
	Width64      Width = 0x04
	WidthAll           = Width16 | Width32 | Width64

	WidthMaxValue = Width64 | (Width64 - 1)
	// The minimum number of bits required to represent all values of Width.
	WidthRequiredBits = 3
)

// MandatoryPrefix is an opcode-selecting prefix byte. Exactly one value applies to a descriptor.
type MandatoryPrefix uint8

const (
	PrefixNone MandatoryPrefix = iota
	Prefix66
	PrefixF2
	PrefixF3

	MandatoryPrefixMaxValue = PrefixF3
	// The minimum number of bits required to represent all values of MandatoryPrefix.
	MandatoryPrefixRequiredBits = 2
)

// VectorLength is the width of a vector-register operand class. VectorLengthInvalid marks scalar and
// non-vector descriptors.
type VectorLength uint8

const (
	VectorLengthInvalid VectorLength = iota
	VectorLength128
	VectorLength256
	VectorLength512

	VectorLengthMaxValue = VectorLength512
	// The minimum number of bits required to represent all values of VectorLength.
	VectorLengthRequiredBits = 2
)

// SizeHint requests an address-size or operand-size override to be emitted.
type SizeHint uint8

const (
	SizeHintNone SizeHint = iota
	SizeHintASZ
	SizeHintOSZ

	SizeHintMaxValue = SizeHintOSZ
	// The minimum number of bits required to represent all values of SizeHint.
	SizeHintRequiredBits = 2
)

// A RequiredBits constant which is too narrow for its MaxValue fails to compile here.
func _() {
	var x [1]struct{}
	_ = x[WidthMaxValue>>WidthRequiredBits]
	_ = x[MandatoryPrefixMaxValue>>MandatoryPrefixRequiredBits]
	_ = x[VectorLengthMaxValue>>VectorLengthRequiredBits]
	_ = x[SizeHintMaxValue>>SizeHintRequiredBits]
}

// Has reports whether w and other share at least one flag.
func (w Width) Has(other Width) bool { return w&other != 0 }

// Count returns the number of flags set in w.
func (w Width) Count() int { return bits.OnesCount8(uint8(w)) }

// Bits returns 16, 32, or 64 for a single flag, and 0 otherwise.
func (w Width) Bits() int {
	switch w {
	case Width16:
		return 16
	case Width32:
		return 32
	case Width64:
		return 64
	}
	return 0
}

// WidthOf converts a bit size (16, 32, or 64) to its Width flag.
func WidthOf(size int) Width {
	switch size {
	case 16:
		return Width16
	case 32:
		return Width32
	case 64:
		return Width64
	}
	return WidthInvalid
}

func (w Width) String() string {
	if w == WidthInvalid {
		return "none"
	}
	if w > WidthMaxValue {
		return fmt.Sprintf("Width(%#x)", uint8(w))
	}
	var parts [3]string
	n := 0
	for _, f := range [...]Width{Width16, Width32, Width64} {
		if w&f != 0 {
			parts[n] = fmt.Sprint(f.Bits())
			n++
		}
	}
	return strings.Join(parts[:n], "|")
}

// ParseWidth parses a bit size or a '|'-separated combination of bit sizes, e.g. "64" or "32|64".
func ParseWidth(s string) (Width, error) {
	var w Width
	for _, part := range strings.Split(s, "|") {
		switch strings.TrimSpace(part) {
		case "16":
			w |= Width16
		case "32":
			w |= Width32
		case "64":
			w |= Width64
		default:
			return WidthInvalid, fmt.Errorf("invalid width %q: expected 16, 32, or 64", part)
		}
	}
	return w, nil
}

// Byte returns the prefix byte, or 0 for PrefixNone.
func (p MandatoryPrefix) Byte() byte {
	switch p {
	case Prefix66:
		return 0x66
	case PrefixF2:
		return 0xf2
	case PrefixF3:
		return 0xf3
	}
	return 0
}

func (p MandatoryPrefix) String() string {
	switch p {
	case PrefixNone:
		return "none"
	case Prefix66:
		return "66"
	case PrefixF2:
		return "F2"
	case PrefixF3:
		return "F3"
	}
	return fmt.Sprintf("MandatoryPrefix(%d)", uint8(p))
}

// ParseMandatoryPrefix parses "none", "66", "f2", or "f3" (case-insensitive, optional 0x).
func ParseMandatoryPrefix(s string) (MandatoryPrefix, error) {
	switch strings.TrimPrefix(strings.ToLower(s), "0x") {
	case "", "none":
		return PrefixNone, nil
	case "66":
		return Prefix66, nil
	case "f2":
		return PrefixF2, nil
	case "f3":
		return PrefixF3, nil
	}
	return PrefixNone, fmt.Errorf("invalid mandatory prefix %q: expected none, 66, f2, or f3", s)
}

// Bits returns 128, 256, or 512, or 0 for VectorLengthInvalid.
func (l VectorLength) Bits() int {
	switch l {
	case VectorLength128:
		return 128
	case VectorLength256:
		return 256
	case VectorLength512:
		return 512
	}
	return 0
}

func (l VectorLength) String() string {
	if l == VectorLengthInvalid {
		return "scalar"
	}
	if l > VectorLengthMaxValue {
		return fmt.Sprintf("VectorLength(%d)", uint8(l))
	}
	return fmt.Sprint(l.Bits())
}

// ParseVectorLength parses "0"/"scalar", "128", "256", or "512".
func ParseVectorLength(s string) (VectorLength, error) {
	switch strings.ToLower(s) {
	case "", "0", "scalar", "none":
		return VectorLengthInvalid, nil
	case "128":
		return VectorLength128, nil
	case "256":
		return VectorLength256, nil
	case "512":
		return VectorLength512, nil
	}
	return VectorLengthInvalid, fmt.Errorf("invalid vector length %q: expected 0, 128, 256, or 512", s)
}

func (h SizeHint) String() string {
	switch h {
	case SizeHintNone:
		return "none"
	case SizeHintASZ:
		return "asz"
	case SizeHintOSZ:
		return "osz"
	}
	return fmt.Sprintf("SizeHint(%d)", uint8(h))
}

// ParseSizeHint parses "none", "asz", or "osz".
func ParseSizeHint(s string) (SizeHint, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return SizeHintNone, nil
	case "asz":
		return SizeHintASZ, nil
	case "osz":
		return SizeHintOSZ, nil
	}
	return SizeHintNone, fmt.Errorf("invalid size hint %q: expected none, asz, or osz", s)
}
