package x64defs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBitsToRepresent(t *testing.T) {
	for _, tc := range []struct {
		v    uint64
		want uint
	}{
		{0, 0}, {1, 1}, {2, 2}, {3, 2}, {4, 3}, {7, 3}, {8, 4}, {11, 4}, {255, 8}, {256, 9},
	} {
		require.Equal(t, tc.want, BitsToRepresent(tc.v), "BitsToRepresent(%d)", tc.v)
	}
}

func TestRequiredBits(t *testing.T) {
	require.Equal(t, BitsToRepresent(uint64(EncodingMaxValue)), uint(EncodingRequiredBits))
	require.Equal(t, BitsToRepresent(uint64(OpcodeMapMaxValue)), uint(OpcodeMapRequiredBits))
	require.Equal(t, len(encodingNames), int(EncodingMaxValue)+1)
	require.Equal(t, len(opcodeMapNames), int(OpcodeMapMaxValue)+1)
}

func TestMnemonicNames(t *testing.T) {
	seen := make(map[string]Mnemonic, MnemonicCount)
	for _, m := range Mnemonics() {
		name := m.String()
		require.NotEmpty(t, mnemonicNames[m], "mnemonic %d has no name", uint16(m))
		prev, dup := seen[name]
		require.False(t, dup, "%s is shared by %d and %d", name, prev, m)
		seen[name] = m
	}
	require.Equal(t, "ADD", ADD.String())
	require.Equal(t, "XGETBV", MnemonicMaxValue.String())
	require.Equal(t, "Mnemonic(65535)", Mnemonic(0xffff).String())
	require.False(t, Mnemonic(MnemonicCount).Valid())
}

func TestEnumStrings(t *testing.T) {
	require.Equal(t, "vex", EncodingVEX.String())
	require.Equal(t, "InstructionEncoding(9)", InstructionEncoding(9).String())
	require.Equal(t, "0F38", Map0F38.String())
	require.Equal(t, "OpcodeMap(12)", OpcodeMap(12).String())
}

func TestEscape(t *testing.T) {
	require.Equal(t, []byte{}, MapDefault.Escape())
	require.Equal(t, []byte{0x0f, 0x3a}, Map0F3A.Escape())
	require.Equal(t, []byte{0x0f, 0x0f}, Map0F0F.Escape())
	require.Nil(t, MapXOP8.Escape())
	require.Nil(t, Map5.Escape())
}
