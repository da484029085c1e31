package main

import (
	"os"

	"github.com/NikDrummond/pntools/cmd/pntools/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
