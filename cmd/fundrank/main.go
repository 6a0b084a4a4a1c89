package main

import (
	"os"

	"github.com/niveshlab/fundrank/backend/cmd/fundrank/commands"
)

// main is the entry point for the fundrank CLI
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
