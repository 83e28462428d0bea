package main

import (
	"os"

	"github.com/Kavirubc/findora/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
