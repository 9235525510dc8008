package main

import (
	"os"

	"github.com/msto63/actionvm/cmd/actionvm/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
