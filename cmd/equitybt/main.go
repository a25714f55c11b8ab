package main

import (
	"os"

	"github.com/quantbox/equitybt/cmd/equitybt/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
