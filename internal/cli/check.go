package cli

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/wdamron/x64enc"
	x64defs "github.com/wdamron/x64enc/defs"
)

const maxReported = 10

type checkParams struct {
	table string
}

func newCheckCommand(logger *logrus.Logger) *cobra.Command {
	params := checkParams{}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check an encoding table",
		Long: `Check the built-in encoding table, or a persisted one.

The table is validated (ranges in bounds, non-empty width masks, no duplicate variants), then
every mnemonic is resolved under every combination of mode, address size, operand size,
mandatory prefix, vector length, REX.W, and size hint. A variant which no request selects
is reported as unreachable.
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return doCheck(cmd.OutOrStdout(), logger, params)
		},
	}
	addTableFlag(cmd, &params.table)
	return cmd
}

func doCheck(w io.Writer, logger logrus.FieldLogger, params checkParams) error {
	t, err := loadTable(logger, params.table)
	if err != nil {
		return err
	}
	if err := t.Validate(); err != nil {
		return err
	}

	missed := unreachable(t)
	for i, v := range missed {
		if i == maxReported {
			break
		}
		logger.WithFields(logrus.Fields{
			"mnemonic": v.mnemonic.String(),
			"variant":  v.index,
			"form":     v.enc.String(),
		}).Error("Unreachable descriptor.")
	}
	if len(missed) > 0 {
		return fmt.Errorf("%w: %d unreachable descriptors", x64enc.ErrDataIntegrity, len(missed))
	}

	_, err = fmt.Fprintf(w, "ok: %d mnemonics (%d encodable), %d descriptors\n", t.Mnemonics(), variantCount(t), t.Len())
	return err
}

type variantRef struct {
	mnemonic x64defs.Mnemonic
	index    int
	enc      x64enc.Encodable
}

// unreachable returns the variants of t which no well-formed request selects, in table order.
// Variants shadowed by an earlier variant with the same constraints and specificity end up here.
func unreachable(t *x64enc.Table) []variantRef {
	var missed []variantRef
	for i := 0; i < t.Mnemonics(); i++ {
		m := x64defs.Mnemonic(i)
		encs := t.Encodables(m)
		if len(encs) == 0 {
			continue
		}
		selected := make([]bool, len(encs))
		forEachContext(func(ctx x64enc.Context) {
			e, err := t.Resolve(m, ctx)
			if err != nil {
				return
			}
			for j := range encs {
				if encs[j] == e {
					selected[j] = true
					return
				}
			}
		})
		for j, ok := range selected {
			if !ok {
				missed = append(missed, variantRef{mnemonic: m, index: j, enc: encs[j]})
			}
		}
	}
	return missed
}

// forEachContext calls f with every well-formed request context: one flag per width.
func forEachContext(f func(x64enc.Context)) {
	widths := [...]x64enc.Width{x64enc.Width16, x64enc.Width32, x64enc.Width64}
	var ctx x64enc.Context
	for _, ctx.Mode = range widths {
		for _, ctx.AddressSize = range widths {
			for _, ctx.OperandSize = range widths {
				for ctx.MandatoryPrefix = 0; ctx.MandatoryPrefix <= x64enc.MandatoryPrefixMaxValue; ctx.MandatoryPrefix++ {
					for ctx.VectorLength = 0; ctx.VectorLength <= x64enc.VectorLengthMaxValue; ctx.VectorLength++ {
						for ctx.SizeHint = 0; ctx.SizeHint <= x64enc.SizeHintMaxValue; ctx.SizeHint++ {
							for _, ctx.RexW = range [...]bool{false, true} {
								f(ctx)
							}
						}
					}
				}
			}
		}
	}
}
