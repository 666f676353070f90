package main

import (
	"os"

	"github.com/swiftbridge/swiftbridge/cmd"
)

func main() {
	root, _ := cmd.NewRoot()

	// Execute has already printed the error
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
