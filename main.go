package main

import (
	"os"

	"github.com/pashagur/betapbbs/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
