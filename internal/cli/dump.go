package cli

import (
	"errors"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type dumpParams struct {
	output string
}

func newDumpCommand(logger *logrus.Logger) *cobra.Command {
	params := dumpParams{}

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Write the built-in encoding table in its binary form",
		Long: `Write the built-in encoding table in its binary form.

The output can be read back with the --table flag of the other commands.

    $ x64enc dump --output table.bin
    $ x64enc check --table table.bin
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return doDump(cmd.OutOrStdout(), logger, params)
		},
	}
	cmd.Flags().StringVarP(&params.output, "output", "o", "", `output file, or "-" for stdout`)
	return cmd
}

func doDump(stdout io.Writer, logger logrus.FieldLogger, params dumpParams) error {
	if params.output == "" {
		return errors.New("--output is required")
	}
	t, err := loadTable(logger, "")
	if err != nil {
		return err
	}
	data, err := t.MarshalBinary()
	if err != nil {
		return err
	}
	if params.output == "-" {
		_, err = stdout.Write(data)
		return err
	}
	if err := os.WriteFile(params.output, data, 0o644); err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{"file": params.output, "bytes": len(data)}).Info("Wrote table.")
	return nil
}
