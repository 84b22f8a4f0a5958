package x64enc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	x64defs "github.com/wdamron/x64enc/defs"
)

func ctx(mode, asz, osz int) Context {
	return Context{Mode: WidthOf(mode), AddressSize: WidthOf(asz), OperandSize: WidthOf(osz)}
}

func (c Context) with(f func(*Context)) Context {
	f(&c)
	return c
}

func TestResolve(t *testing.T) {
	rexW := func(c *Context) { c.RexW = true }

	tests := []struct {
		name string
		m    x64defs.Mnemonic
		ctx  Context
		ref  uint16 // InstructionRef of the expected descriptor
		err  error
	}{
		{"narrower operand sizes win", x64defs.ADD, ctx(64, 64, 32), 3, nil},
		{"rex.w selects the 64-bit form", x64defs.ADD, ctx(64, 64, 64).with(rexW), 4, nil},
		{"without rex.w only the byte form remains", x64defs.ADD, ctx(64, 64, 64), 2, nil},
		{"rex.w form is 64-bit mode only", x64defs.ADD, ctx(32, 32, 64).with(rexW), 0, ErrNoMatch},
		{"table order breaks equal specificity", x64defs.MOV, ctx(32, 32, 32), 18, nil},
		{"16-bit mode", x64defs.MOV, ctx(16, 16, 16), 18, nil},
		{"legacy-only instruction", x64defs.AAA, ctx(32, 32, 32), 1, nil},
		{"legacy-only instruction in 64-bit mode", x64defs.AAA, ctx(64, 64, 32), 0, ErrNoMatch},
		{"64-bit-only instruction", x64defs.SWAPGS, ctx(32, 32, 32), 0, ErrNoMatch},
		{"address size", x64defs.JRCXZ, ctx(64, 64, 64), 13, nil},
		{"address size mismatch", x64defs.JRCXZ, ctx(64, 32, 64), 0, ErrNoMatch},
		{"size hint required", x64defs.JECXZ, ctx(64, 32, 64), 0, ErrNoMatch},
		{"size hint accepted", x64defs.JECXZ, ctx(64, 32, 64).with(func(c *Context) { c.SizeHint = SizeHintASZ }), 12, nil},
		{"size hint not accepted", x64defs.JECXZ, ctx(32, 32, 32).with(func(c *Context) { c.SizeHint = SizeHintASZ }), 0, ErrNoMatch},
		{"no hint", x64defs.JECXZ, ctx(32, 32, 32), 11, nil},
		{"default operand size", x64defs.PUSHF, ctx(64, 64, 64), 27, nil},
		{"operand-size override without hint", x64defs.PUSHF, ctx(64, 64, 16), 0, ErrNoMatch},
		{"operand-size override with hint", x64defs.PUSHF, ctx(64, 64, 16).with(func(c *Context) { c.SizeHint = SizeHintOSZ }), 28, nil},
		{"mandatory prefix", x64defs.ADDSD, ctx(64, 64, 32).with(func(c *Context) { c.MandatoryPrefix = PrefixF2 }), 7, nil},
		{"missing mandatory prefix", x64defs.ADDSD, ctx(64, 64, 32), 0, ErrNoMatch},
		{"wrong mandatory prefix", x64defs.ENDBR64, ctx(64, 64, 32).with(func(c *Context) { c.MandatoryPrefix = Prefix66 }), 0, ErrNoMatch},
		{"vex form", x64defs.VADDPS, ctx(64, 64, 32).with(func(c *Context) { c.VectorLength = VectorLength128 }), 37, nil},
		{"evex only", x64defs.VADDPS, ctx(64, 64, 32).with(func(c *Context) { c.VectorLength = VectorLength512 }), 41, nil},
		{"vex.w", x64defs.VFMADD231PD, ctx(64, 64, 32).with(func(c *Context) {
			c.MandatoryPrefix, c.VectorLength, c.RexW = Prefix66, VectorLength256, true
		}), 43, nil},
		{"evex.w1", x64defs.VADDPD, ctx(32, 32, 32).with(func(c *Context) {
			c.MandatoryPrefix, c.VectorLength, c.RexW = Prefix66, VectorLength128, true
		}), 34, nil},
		{"scalar request for vector instruction", x64defs.VZEROUPPER, ctx(64, 64, 32), 0, ErrNoMatch},
		{"vector request for scalar instruction", x64defs.ADD, ctx(64, 64, 32).with(func(c *Context) { c.VectorLength = VectorLength128 }), 0, ErrNoMatch},
		{"empty request", x64defs.NOP, Context{}, 0, ErrNoMatch},
		{"decode-only mnemonic", x64defs.JMPE, ctx(64, 64, 32), 0, ErrUnknownMnemonic},
		{"invalid mnemonic", x64defs.INVALID, ctx(64, 64, 32), 0, ErrUnknownMnemonic},
		{"mnemonic outside the table", x64defs.Mnemonic(0xffff), ctx(64, 64, 32), 0, ErrUnknownMnemonic},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			e, err := Resolve(tc.m, tc.ctx)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				require.Equal(t, Encodable{}, e)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.ref, e.InstructionRef(), "resolved %s", e)
		})
	}
}

func mustTable(t *testing.T, variants ...Fields) *Table {
	t.Helper()
	table, err := BuildTable(2, map[x64defs.Mnemonic][]Fields{1: variants})
	require.NoError(t, err)
	return table
}

func variant(ref uint16, modes, asz, osz Width, prefix MandatoryPrefix) Fields {
	return Fields{InstructionRef: ref, Opcode: byte(ref), Modes: modes, AddressSizes: asz, OperandSizes: osz, MandatoryPrefix: prefix}
}

func TestResolveTieBreak(t *testing.T) {
	t.Run("exact fields filter before specificity", func(t *testing.T) {
		table := mustTable(t,
			variant(1, WidthAll, WidthAll, Width16|Width32, PrefixNone),
			variant(2, WidthAll, WidthAll, Width16, Prefix66),
		)
		e, err := table.Resolve(1, ctx(32, 32, 16))
		require.NoError(t, err)
		require.Equal(t, uint16(1), e.InstructionRef())
	})

	t.Run("narrower bitmask wins", func(t *testing.T) {
		table := mustTable(t,
			variant(1, WidthAll, WidthAll, WidthAll, PrefixNone),
			variant(2, WidthAll, WidthAll, Width32, PrefixNone),
		)
		e, err := table.Resolve(1, ctx(32, 32, 32))
		require.NoError(t, err)
		require.Equal(t, uint16(2), e.InstructionRef())

		e, err = table.Resolve(1, ctx(32, 32, 64))
		require.NoError(t, err)
		require.Equal(t, uint16(1), e.InstructionRef())
	})

	t.Run("specificity spans all three masks", func(t *testing.T) {
		table := mustTable(t,
			variant(1, WidthAll, Width32, Width32, PrefixNone),         // 3+1+1
			variant(2, Width32, Width32, Width32|Width64, PrefixNone),  // 1+1+2
			variant(3, Width32, WidthAll, Width32|Width64, PrefixNone), // 1+3+2
		)
		e, err := table.Resolve(1, ctx(32, 32, 32))
		require.NoError(t, err)
		require.Equal(t, uint16(2), e.InstructionRef())
	})

	t.Run("earliest wins a tie", func(t *testing.T) {
		table := mustTable(t,
			variant(1, WidthAll, WidthAll, Width16|Width32, PrefixNone),
			variant(2, WidthAll, WidthAll, Width32|Width64, PrefixNone),
		)
		e, err := table.Resolve(1, ctx(64, 64, 32))
		require.NoError(t, err)
		require.Equal(t, uint16(1), e.InstructionRef())
	})

	t.Run("duplicate winner is a data fault", func(t *testing.T) {
		table := mustTable(t,
			variant(1, WidthAll, WidthAll, WidthAll, PrefixNone),
			variant(2, WidthAll, WidthAll, Width32, PrefixNone),
			variant(2, WidthAll, WidthAll, Width32, PrefixNone),
		)
		_, err := table.Resolve(1, ctx(32, 32, 32))
		require.ErrorIs(t, err, ErrDataIntegrity)

		// the duplicates don't take part in this request
		e, err := table.Resolve(1, ctx(32, 32, 16))
		require.NoError(t, err)
		require.Equal(t, uint16(1), e.InstructionRef())
	})

	t.Run("duplicate outranked by a narrower candidate", func(t *testing.T) {
		table := mustTable(t,
			variant(1, WidthAll, WidthAll, WidthAll, PrefixNone),
			variant(1, WidthAll, WidthAll, WidthAll, PrefixNone),
			variant(2, WidthAll, WidthAll, Width32, PrefixNone),
		)
		e, err := table.Resolve(1, ctx(32, 32, 32))
		require.NoError(t, err)
		require.Equal(t, uint16(2), e.InstructionRef())
	})
}

var (
	allWidths  = [...]Width{WidthInvalid, Width16, Width32, Width64}
	allPrefix  = [...]MandatoryPrefix{PrefixNone, Prefix66, PrefixF2, PrefixF3}
	allVectors = [...]VectorLength{VectorLengthInvalid, VectorLength128, VectorLength256, VectorLength512}
	allHints   = [...]SizeHint{SizeHintNone, SizeHintASZ, SizeHintOSZ}
)

func forEachContext(f func(Context)) {
	for _, mode := range allWidths {
		for _, asz := range allWidths {
			for _, osz := range allWidths {
				for _, prefix := range allPrefix {
					for _, vl := range allVectors {
						for _, hint := range allHints {
							for _, rexW := range [...]bool{false, true} {
								f(Context{mode, asz, osz, prefix, vl, rexW, hint})
							}
						}
					}
				}
			}
		}
	}
}

// Every request resolves to a candidate with the fewest width flags, which no earlier candidate ties,
// or fails with one of the three classified errors.
func TestResolveProperties(t *testing.T) {
	candidate := func(e Encodable, c Context) bool {
		return e.Modes().Has(c.Mode) && e.AddressSizes().Has(c.AddressSize) && e.OperandSizes().Has(c.OperandSize) &&
			e.MandatoryPrefix() == c.MandatoryPrefix && e.VectorLength() == c.VectorLength &&
			e.RexW() == c.RexW && e.AcceptsHint() == c.SizeHint
	}
	resolved := 0
	for _, m := range x64defs.Mnemonics() {
		encs := Encodables(m)
		forEachContext(func(c Context) {
			e, err := Resolve(m, c)
			again, errAgain := Resolve(m, c)
			require.Equal(t, e, again)
			require.Equal(t, err, errAgain)

			switch {
			case err == nil:
			case errors.Is(err, ErrUnknownMnemonic):
				require.Empty(t, encs)
				return
			case errors.Is(err, ErrNoMatch):
				for _, other := range encs {
					require.False(t, candidate(other, c), "%s: %s matches %s", m, other, c)
				}
				return
			case errors.Is(err, ErrDataIntegrity):
				t.Fatalf("%s: built-in table is ambiguous for %s", m, c)
			default:
				t.Fatalf("%s: unclassified error %v", m, err)
			}

			resolved++
			require.True(t, candidate(e, c), "%s: %s does not match %s", m, e, c)
			seen := false
			for _, other := range encs {
				if other == e {
					seen = true
					continue
				}
				if !candidate(other, c) {
					continue
				}
				if seen {
					require.GreaterOrEqual(t, other.specificity(), e.specificity(), "%s: %s outranks %s for %s", m, other, e, c)
				} else {
					require.Greater(t, other.specificity(), e.specificity(), "%s: earlier %s ties %s for %s", m, other, e, c)
				}
			}
			require.True(t, seen)
		})
	}
	require.NotZero(t, resolved)
}

// Every built-in variant is selected by at least one request.
func TestEveryVariantReachable(t *testing.T) {
	for _, m := range x64defs.Mnemonics() {
		encs := Encodables(m)
		selected := make(map[Encodable]bool, len(encs))
		forEachContext(func(c Context) {
			if e, err := Resolve(m, c); err == nil {
				selected[e] = true
			}
		})
		for i, e := range encs {
			require.True(t, selected[e], "%s[%d] (%s) is never selected", m, i, e)
		}
	}
}

func TestResolveAllocations(t *testing.T) {
	ok := ctx(64, 64, 32)
	allocs := testing.AllocsPerRun(100, func() {
		_, _ = Resolve(x64defs.MOV, ok)
		_, _ = Resolve(x64defs.AAA, ok)
		_, _ = Resolve(x64defs.JMPE, ok)
	})
	require.Zero(t, allocs)
}

func TestResolveConcurrent(t *testing.T) {
	c := ctx(64, 64, 32).with(func(c *Context) { c.VectorLength = VectorLength256 })
	want := make([]Encodable, x64defs.MnemonicCount)
	for _, m := range x64defs.Mnemonics() {
		want[m], _ = Resolve(m, c)
	}

	var g errgroup.Group
	for i := 0; i < 16; i++ {
		g.Go(func() error {
			for n := 0; n < 100; n++ {
				for _, m := range x64defs.Mnemonics() {
					if got, _ := Resolve(m, c); got != want[m] {
						return errors.New(m.String() + " resolved differently")
					}
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}

func BenchmarkResolve(b *testing.B) {
	c := ctx(64, 64, 64)
	c.MandatoryPrefix, c.VectorLength, c.RexW = Prefix66, VectorLength512, true
	for i := 0; i < b.N; i++ {
		Resolve(x64defs.VADDPD, c)
	}
}
