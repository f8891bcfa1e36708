package main

import (
	"os"

	"github.com/cwbudde/algo-bandsplit/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
