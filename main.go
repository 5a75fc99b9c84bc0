package main

import (
	"os"

	"github.com/censys-research/censys-search-go/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
