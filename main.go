package main

import (
	"os"

	"github.com/lfarias/normanav/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
