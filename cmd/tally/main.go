package main

import (
	"github.com/crimson-sun/tally/internal/cli"

	// Register store backends.
	_ "github.com/crimson-sun/tally/internal/store/csvfile"
	_ "github.com/crimson-sun/tally/internal/store/sheets"
)

func main() {
	cli.Execute()
}
