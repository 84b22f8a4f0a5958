package x64enc

import (
	"errors"
	"fmt"

	x64defs "github.com/wdamron/x64enc/defs"
)

var (
	// ErrUnknownMnemonic is returned for mnemonics with no encodable variant (unknown or decode-only).
	ErrUnknownMnemonic = errors.New("x64enc: mnemonic has no encodable variants")
	// ErrNoMatch is returned when a mnemonic has variants, but none of them satisfies the request.
	ErrNoMatch = errors.New("x64enc: no matching instruction-encoding")
	// ErrDataIntegrity reports a malformed or ambiguous table. It indicates a defect in the table data
	// and should not be retried.
	ErrDataIntegrity = errors.New("x64enc: malformed encoding table")
)

// Context is an encoding request. Each width is a single flag (Width16, Width32, or Width64), chosen
// by the caller; the request is not checked for semantic validity, only for encodability.
type Context struct {
	Mode            Width
	AddressSize     Width
	OperandSize     Width
	MandatoryPrefix MandatoryPrefix
	VectorLength    VectorLength
	RexW            bool
	SizeHint        SizeHint
}

func (ctx Context) String() string {
	return fmt.Sprintf("mode=%s asz=%s osz=%s prefix=%s vl=%s rexw=%t hint=%s",
		ctx.Mode, ctx.AddressSize, ctx.OperandSize, ctx.MandatoryPrefix, ctx.VectorLength, ctx.RexW, ctx.SizeHint)
}

// Resolve the descriptor of m which best satisfies ctx.
//
// A descriptor is a candidate if each of its width masks contains the requested width, and its
// mandatory prefix, vector length, REX.W requirement, and accepted size hint equal the requested ones.
// Among candidates, the descriptor with the fewest width flags wins; remaining ties go to the earliest
// descriptor in the mnemonic's range.
//
// The returned error is always ErrUnknownMnemonic, ErrNoMatch, or ErrDataIntegrity. Resolve does not
// allocate and is safe for concurrent use.
func (t *Table) Resolve(m x64defs.Mnemonic, ctx Context) (Encodable, error) {
	encs := t.Encodables(m)
	if len(encs) == 0 {
		return Encodable{}, ErrUnknownMnemonic
	}

	best, bestRank, twin := -1, 0, false
	for i := range encs {
		e := encs[i]
		if e.Modes()&ctx.Mode == 0 ||
			e.AddressSizes()&ctx.AddressSize == 0 ||
			e.OperandSizes()&ctx.OperandSize == 0 {
			continue
		}
		if e.MandatoryPrefix() != ctx.MandatoryPrefix ||
			e.VectorLength() != ctx.VectorLength ||
			e.RexW() != ctx.RexW ||
			e.AcceptsHint() != ctx.SizeHint {
			continue
		}

		rank := e.specificity()
		switch {
		case best < 0 || rank < bestRank:
			best, bestRank, twin = i, rank, false
		case rank == bestRank && e == encs[best]:
			// a bitwise duplicate of the current winner can't be told apart from it
			twin = true
		}
	}

	switch {
	case best < 0:
		return Encodable{}, ErrNoMatch
	case twin:
		return Encodable{}, ErrDataIntegrity
	}
	return encs[best], nil
}

// Resolve the descriptor of m which best satisfies ctx, using the built-in table.
//
// See Table.Resolve.
func Resolve(m x64defs.Mnemonic, ctx Context) (Encodable, error) { return defaultTable.Resolve(m, ctx) }
