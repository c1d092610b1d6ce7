package main

import (
	"os"

	litemindcmder "github.com/litemindhq/litemind/cmd/litemind"
)

func main() {
	cmd := litemindcmder.NewLitemindCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
