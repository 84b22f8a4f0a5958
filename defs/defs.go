// package x64defs holds the enumerations shared between the instruction decoder and the encoder tables:
// mnemonic identifiers, instruction-encoding classes, and opcode maps. The encoder tables only reference
// these values; they do not define them.
package x64defs

import (
	"fmt"
	"math/bits"
)

// BitsToRepresent returns the minimum number of bits required to represent v, i.e. ceil(log2(v+1)).
func BitsToRepresent(v uint64) uint { return uint(bits.Len64(v)) }

// InstructionEncoding identifies the encoding class of an instruction.
type InstructionEncoding uint8

const (
	EncodingLegacy InstructionEncoding = iota
	Encoding3DNow
	EncodingXOP
	EncodingVEX
	EncodingEVEX
	EncodingMVEX

	EncodingMaxValue = EncodingMVEX
	// The minimum number of bits required to represent all encodings.
	EncodingRequiredBits = 3
)

// Opcode map, i.e. the namespace an opcode byte is interpreted within.
type OpcodeMap uint8

const (
	MapDefault OpcodeMap = iota
	Map0F
	Map0F38
	Map0F3A
	Map4
	Map5
	Map6
	Map7
	Map0F0F
	MapXOP8
	MapXOP9
	MapXOPA

	OpcodeMapMaxValue = MapXOPA
	// The minimum number of bits required to represent all opcode maps.
	OpcodeMapRequiredBits = 4
)

// Stale RequiredBits constants fail to compile:
func _() {
	var x [1]struct{}
	_ = x[EncodingMaxValue>>EncodingRequiredBits]
	_ = x[OpcodeMapMaxValue>>OpcodeMapRequiredBits]
}

var encodingNames = [...]string{
	EncodingLegacy: "legacy",
	Encoding3DNow:  "3dnow",
	EncodingXOP:    "xop",
	EncodingVEX:    "vex",
	EncodingEVEX:   "evex",
	EncodingMVEX:   "mvex",
}

func (e InstructionEncoding) String() string {
	if int(e) < len(encodingNames) {
		return encodingNames[e]
	}
	return fmt.Sprintf("InstructionEncoding(%d)", uint8(e))
}

var opcodeMapNames = [...]string{
	MapDefault: "default",
	Map0F:      "0F",
	Map0F38:    "0F38",
	Map0F3A:    "0F3A",
	Map4:       "MAP4",
	Map5:       "MAP5",
	Map6:       "MAP6",
	Map7:       "MAP7",
	Map0F0F:    "0F0F",
	MapXOP8:    "XOP8",
	MapXOP9:    "XOP9",
	MapXOPA:    "XOPA",
}

func (m OpcodeMap) String() string {
	if int(m) < len(opcodeMapNames) {
		return opcodeMapNames[m]
	}
	return fmt.Sprintf("OpcodeMap(%d)", uint8(m))
}

// Escape returns the escape bytes which select the opcode map in a legacy or 3DNow! encoding.
// Maps which can only be selected through a VEX/EVEX/XOP prefix return nil.
func (m OpcodeMap) Escape() []byte {
	switch m {
	case MapDefault:
		return []byte{}
	case Map0F:
		return []byte{0x0f}
	case Map0F38:
		return []byte{0x0f, 0x38}
	case Map0F3A:
		return []byte{0x0f, 0x3a}
	case Map0F0F:
		return []byte{0x0f, 0x0f}
	}
	return nil
}
