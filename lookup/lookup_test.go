package x64lookup

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wdamron/x64enc"
	x64defs "github.com/wdamron/x64enc/defs"
)

func TestLookup(t *testing.T) {
	m, ok := Mnemonic("mov")
	if !ok || m != x64defs.MOV {
		t.Fatal("failed to find mov")
	}
	m, ok = Mnemonic("MOV")
	if !ok || m != x64defs.MOV {
		t.Fatal("failed to find MOV")
	}
	m, ok = Mnemonic("vfmadd231Pd")
	if !ok || m != x64defs.VFMADD231PD {
		t.Fatal("failed to find vfmadd231Pd")
	}
	for _, name := range []string{"", "INVALID", "movx", "averyveryverylongmnemonic"} {
		if _, ok := Mnemonic(name); ok {
			t.Fatalf("found %q", name)
		}
	}
}

func TestVariants(t *testing.T) {
	n, ok := Variants("add")
	require.True(t, ok)
	require.Equal(t, 3, n)

	n, ok = Variants("jmpe") // decode-only
	require.True(t, ok)
	require.Zero(t, n)

	_, ok = Variants("bogus")
	require.False(t, ok)
}

func TestResolve(t *testing.T) {
	ctx := x64enc.Context{Mode: x64enc.Width64, AddressSize: x64enc.Width64, OperandSize: x64enc.Width64, RexW: true}

	enc, err := Resolve("add", ctx)
	require.NoError(t, err)
	require.Equal(t, byte(0x01), enc.Opcode())
	require.True(t, enc.RexW())

	t.Run("unknown name", func(t *testing.T) {
		_, err := Resolve("bogus", ctx)
		var ee *EncodeError
		require.True(t, errors.As(err, &ee))
		require.ErrorIs(t, err, x64enc.ErrUnknownMnemonic)
		require.Equal(t, "cannot encode bogus: no encodable variants", err.Error())
	})

	t.Run("decode-only", func(t *testing.T) {
		_, err := Resolve("jmpe", ctx)
		require.ErrorIs(t, err, x64enc.ErrUnknownMnemonic)
		require.Equal(t, "cannot encode JMPE: no encodable variants", err.Error())
	})

	t.Run("no match", func(t *testing.T) {
		_, err := Resolve("aaa", ctx) // not available in 64-bit mode
		require.ErrorIs(t, err, x64enc.ErrNoMatch)
		require.Equal(t,
			"cannot encode AAA with mode=64 asz=64 osz=64 prefix=none vl=scalar rexw=true hint=none: "+
				"this mode/size/prefix combination has no encoding",
			err.Error())
	})
}

func TestResolveIn(t *testing.T) {
	table, err := x64enc.BuildTable(x64defs.MnemonicCount, map[x64defs.Mnemonic][]x64enc.Fields{
		x64defs.NOP: {{InstructionRef: 7, Opcode: 0x90, Modes: x64enc.Width64, AddressSizes: x64enc.WidthAll, OperandSizes: x64enc.WidthAll}},
	})
	require.NoError(t, err)

	ctx := x64enc.Context{Mode: x64enc.Width64, AddressSize: x64enc.Width64, OperandSize: x64enc.Width32}
	enc, err := ResolveIn(table, "nop", ctx)
	require.NoError(t, err)
	require.Equal(t, uint16(7), enc.InstructionRef())

	_, err = ResolveIn(table, "add", ctx)
	require.ErrorIs(t, err, x64enc.ErrUnknownMnemonic)

	ctx.Mode = x64enc.Width32
	_, err = ResolveIn(table, "nop", ctx)
	require.ErrorIs(t, err, x64enc.ErrNoMatch)
}

func BenchmarkLookup(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Mnemonic("vzeroupper")
	}
}
