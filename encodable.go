package x64enc

import (
	"fmt"
	"strings"

	x64defs "github.com/wdamron/x64enc/defs"
)

// Encodable is the packed descriptor of one encodable variant of an instruction. It occupies 8 bytes
// with no implicit padding:
//
//	ref     uint16  index into the decoder's instruction-definition array
//	opcode  uint8
//	modrm   uint8   fixed ModR/M value when mod == 0b11
//	bits    uint32  fields packed LSB first, each as wide as its enum requires
//
// Bit positions of the packed fields:
//
//	[0..2]    instruction-encoding
//	[3..6]    opcode map
//	[7..9]    modes
//	[10..12]  address sizes
//	[13..15]  operand sizes
//	[16..17]  mandatory prefix
//	[18]      REX.W
//	[19..20]  vector length
//	[21..22]  accepted size hint
//
// Encodable values are compared bitwise with ==.
type Encodable struct {
	ref    uint16
	opcode uint8
	modrm  uint8
	bits   uint32
}

const (
	encodingShift        = 0
	opcodeMapShift       = encodingShift + x64defs.EncodingRequiredBits
	modesShift           = opcodeMapShift + x64defs.OpcodeMapRequiredBits
	addressSizesShift    = modesShift + WidthRequiredBits
	operandSizesShift    = addressSizesShift + WidthRequiredBits
	mandatoryPrefixShift = operandSizesShift + WidthRequiredBits
	rexWShift            = mandatoryPrefixShift + MandatoryPrefixRequiredBits
	vectorLengthShift    = rexWShift + 1
	acceptsHintShift     = vectorLengthShift + VectorLengthRequiredBits

	// total number of bits used by the packed fields
	packedBits = acceptsHintShift + SizeHintRequiredBits
)

// The packed fields must fit the 24-bit word of the binary form (and so the 32-bit word in memory).
var _ [24 - packedBits]struct{}

func field(bits uint32, shift, width uint) uint32 { return (bits >> shift) & (1<<width - 1) }

func (e Encodable) InstructionRef() uint16 { return e.ref }
func (e Encodable) Opcode() byte           { return e.opcode }

// Get the fixed ModR/M byte. Only meaningful if HasFixedModRM returns true.
func (e Encodable) ModRM() byte { return e.modrm }

// Check if the variant mandates a fixed (register-direct) ModR/M byte.
func (e Encodable) HasFixedModRM() bool { return e.modrm>>6 == 3 }

func (e Encodable) Encoding() x64defs.InstructionEncoding {
	return x64defs.InstructionEncoding(field(e.bits, encodingShift, x64defs.EncodingRequiredBits))
}

func (e Encodable) OpcodeMap() x64defs.OpcodeMap {
	return x64defs.OpcodeMap(field(e.bits, opcodeMapShift, x64defs.OpcodeMapRequiredBits))
}

// Get the processor modes in which the variant is legal.
func (e Encodable) Modes() Width { return Width(field(e.bits, modesShift, WidthRequiredBits)) }

func (e Encodable) AddressSizes() Width {
	return Width(field(e.bits, addressSizesShift, WidthRequiredBits))
}

func (e Encodable) OperandSizes() Width {
	return Width(field(e.bits, operandSizesShift, WidthRequiredBits))
}

func (e Encodable) MandatoryPrefix() MandatoryPrefix {
	return MandatoryPrefix(field(e.bits, mandatoryPrefixShift, MandatoryPrefixRequiredBits))
}

// Check if REX.W (or VEX.W/EVEX.W/XOP.W) must be set.
func (e Encodable) RexW() bool { return field(e.bits, rexWShift, 1) != 0 }

func (e Encodable) VectorLength() VectorLength {
	return VectorLength(field(e.bits, vectorLengthShift, VectorLengthRequiredBits))
}

func (e Encodable) AcceptsHint() SizeHint {
	return SizeHint(field(e.bits, acceptsHintShift, SizeHintRequiredBits))
}

// specificity is the total number of width flags; fewer flags make a more specific match.
func (e Encodable) specificity() int {
	return e.Modes().Count() + e.AddressSizes().Count() + e.OperandSizes().Count()
}

// Fields is the unpacked form of an Encodable.
type Fields struct {
	InstructionRef  uint16
	Opcode          byte
	ModRM           byte
	Encoding        x64defs.InstructionEncoding
	OpcodeMap       x64defs.OpcodeMap
	Modes           Width
	AddressSizes    Width
	OperandSizes    Width
	MandatoryPrefix MandatoryPrefix
	RexW            bool
	VectorLength    VectorLength
	AcceptsHint     SizeHint
}

// Pack the fields into an Encodable. Width masks must be non-zero and every enum value must fit its
// packed field; otherwise the returned error wraps ErrDataIntegrity.
func (f Fields) Pack() (Encodable, error) {
	switch {
	case f.Encoding > x64defs.EncodingMaxValue:
		return Encodable{}, fmt.Errorf("%w: invalid encoding %d", ErrDataIntegrity, f.Encoding)
	case f.OpcodeMap > x64defs.OpcodeMapMaxValue:
		return Encodable{}, fmt.Errorf("%w: invalid opcode map %d", ErrDataIntegrity, f.OpcodeMap)
	case f.Modes == WidthInvalid || f.Modes > WidthMaxValue:
		return Encodable{}, fmt.Errorf("%w: invalid modes %#x", ErrDataIntegrity, uint8(f.Modes))
	case f.AddressSizes == WidthInvalid || f.AddressSizes > WidthMaxValue:
		return Encodable{}, fmt.Errorf("%w: invalid address sizes %#x", ErrDataIntegrity, uint8(f.AddressSizes))
	case f.OperandSizes == WidthInvalid || f.OperandSizes > WidthMaxValue:
		return Encodable{}, fmt.Errorf("%w: invalid operand sizes %#x", ErrDataIntegrity, uint8(f.OperandSizes))
	case f.MandatoryPrefix > MandatoryPrefixMaxValue:
		return Encodable{}, fmt.Errorf("%w: invalid mandatory prefix %d", ErrDataIntegrity, f.MandatoryPrefix)
	case f.VectorLength > VectorLengthMaxValue:
		return Encodable{}, fmt.Errorf("%w: invalid vector length %d", ErrDataIntegrity, f.VectorLength)
	case f.AcceptsHint > SizeHintMaxValue:
		return Encodable{}, fmt.Errorf("%w: invalid size hint %d", ErrDataIntegrity, f.AcceptsHint)
	}
	var rexW uint32
	if f.RexW {
		rexW = 1
	}
	return Encodable{
		ref:    f.InstructionRef,
		opcode: f.Opcode,
		modrm:  f.ModRM,
		bits: uint32(f.Encoding)<<encodingShift |
			uint32(f.OpcodeMap)<<opcodeMapShift |
			uint32(f.Modes)<<modesShift |
			uint32(f.AddressSizes)<<addressSizesShift |
			uint32(f.OperandSizes)<<operandSizesShift |
			uint32(f.MandatoryPrefix)<<mandatoryPrefixShift |
			rexW<<rexWShift |
			uint32(f.VectorLength)<<vectorLengthShift |
			uint32(f.AcceptsHint)<<acceptsHintShift,
	}, nil
}

// Unpack the descriptor into its fields.
func (e Encodable) Unpack() Fields {
	return Fields{
		InstructionRef:  e.ref,
		Opcode:          e.opcode,
		ModRM:           e.modrm,
		Encoding:        e.Encoding(),
		OpcodeMap:       e.OpcodeMap(),
		Modes:           e.Modes(),
		AddressSizes:    e.AddressSizes(),
		OperandSizes:    e.OperandSizes(),
		MandatoryPrefix: e.MandatoryPrefix(),
		RexW:            e.RexW(),
		VectorLength:    e.VectorLength(),
		AcceptsHint:     e.AcceptsHint(),
	}
}

// String renders the opcode part of the descriptor in the notation of the Intel/AMD manuals,
// e.g. "66 REX.W 0F 3A 16", "VEX.256.66.0F38.W1 B8", or "0F 01 F9".
func (e Encodable) String() string {
	var b strings.Builder
	switch enc := e.Encoding(); enc {
	case x64defs.EncodingVEX, x64defs.EncodingEVEX, x64defs.EncodingXOP, x64defs.EncodingMVEX:
		b.WriteString(strings.ToUpper(enc.String()))
		if l := e.VectorLength(); l != VectorLengthInvalid {
			fmt.Fprintf(&b, ".%d", l.Bits())
		} else {
			b.WriteString(".LIG")
		}
		if p := e.MandatoryPrefix(); p != PrefixNone {
			b.WriteString("." + p.String())
		}
		switch m := e.OpcodeMap(); m {
		case x64defs.MapXOP8, x64defs.MapXOP9, x64defs.MapXOPA:
			fmt.Fprintf(&b, ".%02X", 8+int(m-x64defs.MapXOP8))
		default:
			b.WriteString("." + m.String())
		}
		if e.RexW() {
			b.WriteString(".W1")
		} else {
			b.WriteString(".W0")
		}
		fmt.Fprintf(&b, " %02X", e.opcode)
	case x64defs.Encoding3DNow:
		fmt.Fprintf(&b, "0F 0F /r %02X", e.opcode)
	default:
		if p := e.MandatoryPrefix(); p != PrefixNone {
			b.WriteString(p.String() + " ")
		}
		if e.RexW() {
			b.WriteString("REX.W ")
		}
		esc := e.OpcodeMap().Escape()
		if esc == nil {
			// no escape bytes select this map
			b.WriteString(e.OpcodeMap().String() + " ")
		}
		for _, c := range esc {
			fmt.Fprintf(&b, "%02X ", c)
		}
		fmt.Fprintf(&b, "%02X", e.opcode)
	}
	if e.HasFixedModRM() {
		fmt.Fprintf(&b, " %02X", e.modrm)
	}
	return b.String()
}
