package main

import (
	"os"

	"github.com/spigell/visa-hunter/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
