package main

import (
	"os"

	"github.com/wdamron/x64enc/internal/cli"
)

func main() {
	if err := cli.NewCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
