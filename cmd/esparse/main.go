package main

import (
	"os"

	"github.com/example/esparse/cmd/esparse/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
