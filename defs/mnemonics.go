package x64defs

import "fmt"

// Mnemonic is a dense identifier for an instruction mnemonic. The zero value is INVALID.
type Mnemonic uint16

const (
	INVALID Mnemonic = iota
	AAA
	ADD
	ADDPD
	ADDPS
	ADDSD
	ADDSS
	ENDBR32
	ENDBR64
	JECXZ
	JMPE
	JRCXZ
	LEA
	MONITOR
	MOV
	MWAIT
	NOP
	PEXTRD
	PEXTRQ
	PFADD
	PUSHF
	RDTSCP
	RET
	SWAPGS
	VADDPD
	VADDPS
	VFMADD231PD
	VFMADD231PS
	VPCMOV
	VZEROALL
	VZEROUPPER
	XGETBV

	MnemonicMaxValue = XGETBV
)

// MnemonicCount is the size of the mnemonic identifier space, INVALID included.
const MnemonicCount = int(MnemonicMaxValue) + 1

var mnemonicNames = [MnemonicCount]string{
	INVALID:     "INVALID",
	AAA:         "AAA",
	ADD:         "ADD",
	ADDPD:       "ADDPD",
	ADDPS:       "ADDPS",
	ADDSD:       "ADDSD",
	ADDSS:       "ADDSS",
	ENDBR32:     "ENDBR32",
	ENDBR64:     "ENDBR64",
	JECXZ:       "JECXZ",
	JMPE:        "JMPE",
	JRCXZ:       "JRCXZ",
	LEA:         "LEA",
	MONITOR:     "MONITOR",
	MOV:         "MOV",
	MWAIT:       "MWAIT",
	NOP:         "NOP",
	PEXTRD:      "PEXTRD",
	PEXTRQ:      "PEXTRQ",
	PFADD:       "PFADD",
	PUSHF:       "PUSHF",
	RDTSCP:      "RDTSCP",
	RET:         "RET",
	SWAPGS:      "SWAPGS",
	VADDPD:      "VADDPD",
	VADDPS:      "VADDPS",
	VFMADD231PD: "VFMADD231PD",
	VFMADD231PS: "VFMADD231PS",
	VPCMOV:      "VPCMOV",
	VZEROALL:    "VZEROALL",
	VZEROUPPER:  "VZEROUPPER",
	XGETBV:      "XGETBV",
}

// Get the name of the mnemonic.
func (m Mnemonic) String() string {
	if m.Valid() {
		return mnemonicNames[m]
	}
	return fmt.Sprintf("Mnemonic(%d)", uint16(m))
}

// Check if the mnemonic is inside the identifier space.
func (m Mnemonic) Valid() bool { return int(m) < MnemonicCount }

// Mnemonics returns every identifier in the space, in ascending order.
func Mnemonics() []Mnemonic {
	ms := make([]Mnemonic, MnemonicCount)
	for i := range ms {
		ms[i] = Mnemonic(i)
	}
	return ms
}
