package main

import (
	"os"

	"github.com/quantlab/marketsim/cmd/marketsim/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
