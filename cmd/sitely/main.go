package main

import (
	"os"

	"github.com/Rushilchauhan45/sitely/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
