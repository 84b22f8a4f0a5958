package cli

import (
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/wdamron/x64enc"
	x64lookup "github.com/wdamron/x64enc/lookup"
)

type resolveParams struct {
	mode         int
	addressSize  int
	operandSize  int
	prefix       string
	vectorLength string
	rexW         bool
	hint         string
	format       string
	table        string
}

func newResolveParams() resolveParams {
	return resolveParams{
		mode:         64,
		addressSize:  64,
		operandSize:  32,
		prefix:       "none",
		vectorLength: "scalar",
		hint:         "none",
		format:       formatText,
	}
}

func (p *resolveParams) context() (x64enc.Context, error) {
	var ctx x64enc.Context
	for _, w := range []struct {
		flag string
		size int
		dst  *x64enc.Width
	}{
		{"mode", p.mode, &ctx.Mode},
		{"address-size", p.addressSize, &ctx.AddressSize},
		{"operand-size", p.operandSize, &ctx.OperandSize},
	} {
		if *w.dst = x64enc.WidthOf(w.size); *w.dst == x64enc.WidthInvalid {
			return ctx, fmt.Errorf("invalid --%s %d: must be 16, 32, or 64", w.flag, w.size)
		}
	}

	var err error
	if ctx.MandatoryPrefix, err = x64enc.ParseMandatoryPrefix(p.prefix); err != nil {
		return ctx, err
	}
	if ctx.VectorLength, err = x64enc.ParseVectorLength(p.vectorLength); err != nil {
		return ctx, err
	}
	if ctx.SizeHint, err = x64enc.ParseSizeHint(p.hint); err != nil {
		return ctx, err
	}
	ctx.RexW = p.rexW
	return ctx, nil
}

func newResolveCommand(logger *logrus.Logger) *cobra.Command {
	params := newResolveParams()

	cmd := &cobra.Command{
		Use:   "resolve <mnemonic>",
		Short: "Resolve the encoding descriptor of a mnemonic",
		Long: `Resolve the encoding descriptor of a mnemonic.

The 'resolve' command selects the single descriptor which an encoder would use for the mnemonic
under the given processor mode, address size, operand size, mandatory prefix, vector length,
REX.W requirement, and size hint.

    $ x64enc resolve add --operand-size 64 --rex-w
    ADD: REX.W 01

    $ x64enc resolve vaddpd --prefix 66 --vector-length 512 --rex-w --format json

Every flag may also be set through the environment, e.g. X64ENC_RESOLVE_MODE=32.
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return doResolve(cmd.OutOrStdout(), logger, params, args[0])
		},
	}
	cmd.Flags().IntVar(&params.mode, "mode", params.mode, "processor mode: 16, 32, or 64")
	cmd.Flags().IntVar(&params.addressSize, "address-size", params.addressSize, "effective address size: 16, 32, or 64")
	cmd.Flags().IntVar(&params.operandSize, "operand-size", params.operandSize, "effective operand size: 16, 32, or 64")
	cmd.Flags().StringVar(&params.prefix, "prefix", params.prefix, "mandatory prefix: none, 66, F2, or F3")
	cmd.Flags().StringVar(&params.vectorLength, "vector-length", params.vectorLength, "vector length: scalar, 128, 256, or 512")
	cmd.Flags().BoolVar(&params.rexW, "rex-w", params.rexW, "require REX.W (or VEX.W/EVEX.W/XOP.W)")
	cmd.Flags().StringVar(&params.hint, "hint", params.hint, "size hint: none, asz, or osz")
	addFormatFlag(cmd, &params.format)
	addTableFlag(cmd, &params.table)
	return cmd
}

func doResolve(w io.Writer, logger *logrus.Logger, params resolveParams, name string) error {
	if err := checkFormat(params.format); err != nil {
		return err
	}
	ctx, err := params.context()
	if err != nil {
		return err
	}
	t, err := loadTable(logger, params.table)
	if err != nil {
		return err
	}
	e, err := x64lookup.ResolveIn(t, name, ctx)
	if err != nil {
		return err
	}
	m, _ := x64lookup.Mnemonic(name)
	if logger.IsLevelEnabled(logrus.DebugLevel) {
		logger.WithField("context", ctx.String()).Debugf("Resolved %s:\n%s", m, spew.Sdump(e.Unpack()))
	}

	d := newDescriptor(m, e)
	if params.format == formatText {
		_, err := fmt.Fprintf(w, "%s: %s\n", d.Mnemonic, d.Form)
		return err
	}
	return writeStructured(w, params.format, d)
}

func addFormatFlag(cmd *cobra.Command, format *string) {
	cmd.Flags().StringVarP(format, "format", "f", *format, "output format: text, json, or yaml")
}

func addTableFlag(cmd *cobra.Command, table *string) {
	cmd.Flags().StringVar(table, "table", "", "read a persisted table instead of the built-in one")
}
