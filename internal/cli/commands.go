// Package cli implements the x64enc command, which inspects and checks instruction-encoding tables.
package cli

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/wdamron/x64enc"
)

type rootParams struct {
	logLevel  string
	logFormat string
}

// NewCommand returns the x64enc command tree.
func NewCommand() *cobra.Command {
	params := rootParams{}
	logger := logrus.New()

	root := &cobra.Command{
		Use:          envPrefix,
		Short:        "Inspect x86/x86-64 instruction-encoding descriptors",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkEnvironmentVariables(cmd); err != nil {
				return err
			}
			level, err := getLevel(params.logLevel)
			if err != nil {
				return err
			}
			logger.SetLevel(level)
			logger.SetFormatter(getFormatter(params.logFormat))
			logger.SetOutput(cmd.ErrOrStderr())
			return nil
		},
	}
	root.PersistentFlags().StringVar(&params.logLevel, "log-level", "info", "set log level: debug, info, warn, or error")
	root.PersistentFlags().StringVar(&params.logFormat, "log-format", "text", "set log format: text, json, or json-pretty")

	root.AddCommand(
		newResolveCommand(logger),
		newListCommand(logger),
		newCheckCommand(logger),
		newDumpCommand(logger),
	)
	return root
}

// loadTable reads a persisted table, or returns the built-in table if path is empty.
func loadTable(logger logrus.FieldLogger, path string) (*x64enc.Table, error) {
	if path == "" {
		return x64enc.Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	t, err := x64enc.ReadTable(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logger.WithFields(logrus.Fields{"file": path, "mnemonics": t.Mnemonics(), "descriptors": t.Len()}).Debug("Loaded table.")
	return t, nil
}
