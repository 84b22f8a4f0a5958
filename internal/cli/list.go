package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/wdamron/x64enc"
	x64defs "github.com/wdamron/x64enc/defs"
	x64lookup "github.com/wdamron/x64enc/lookup"
)

type listParams struct {
	format string
	table  string
}

func newListCommand(logger *logrus.Logger) *cobra.Command {
	params := listParams{format: formatText}

	cmd := &cobra.Command{
		Use:   "list [mnemonic...]",
		Short: "List the encodable variants of mnemonics",
		Long: `List the encodable variants of mnemonics, in table order.

Without arguments, every mnemonic with at least one encodable variant is listed.

    $ x64enc list add mov
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return doList(cmd.OutOrStdout(), logger, params, args)
		},
	}
	addFormatFlag(cmd, &params.format)
	addTableFlag(cmd, &params.table)
	return cmd
}

func doList(w io.Writer, logger logrus.FieldLogger, params listParams, names []string) error {
	if err := checkFormat(params.format); err != nil {
		return err
	}
	t, err := loadTable(logger, params.table)
	if err != nil {
		return err
	}

	var mnemonics []x64defs.Mnemonic
	if len(names) == 0 {
		for m := 0; m < t.Mnemonics(); m++ {
			if _, n := t.RangeFor(x64defs.Mnemonic(m)); n > 0 {
				mnemonics = append(mnemonics, x64defs.Mnemonic(m))
			}
		}
	}
	for _, name := range names {
		m, ok := x64lookup.Mnemonic(name)
		if !ok {
			return fmt.Errorf("unknown mnemonic %q", name)
		}
		if _, n := t.RangeFor(m); n == 0 {
			logger.WithField("mnemonic", m.String()).Warn("Mnemonic has no encodable variants.")
			continue
		}
		mnemonics = append(mnemonics, m)
	}

	ds := []descriptor{}
	for _, m := range mnemonics {
		for _, e := range t.Encodables(m) {
			ds = append(ds, newDescriptor(m, e))
		}
	}
	if params.format != formatText {
		return writeStructured(w, params.format, ds)
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Mnemonic", "Ref", "Form", "Modes", "ASZ", "OSZ", "Hint"})
	table.SetAutoWrapText(false)
	for _, d := range ds {
		table.Append([]string{d.Mnemonic, strconv.Itoa(int(d.InstructionRef)), d.Form, d.Modes, d.AddressSizes, d.OperandSizes, d.AcceptsHint})
	}
	table.Render()
	return nil
}

// variantCount reports how many of t's mnemonics have encodable variants.
func variantCount(t *x64enc.Table) int {
	n := 0
	for m := 0; m < t.Mnemonics(); m++ {
		if _, count := t.RangeFor(x64defs.Mnemonic(m)); count > 0 {
			n++
		}
	}
	return n
}
