package main

import (
	"os"

	"github.com/parakeep/parakeep/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
