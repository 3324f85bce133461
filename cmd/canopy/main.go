package main

import (
	"os"

	"github.com/hollyoak/canopy/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
