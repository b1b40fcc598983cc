package main

import (
	"os"

	"github.com/abhisek/robosim/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
