// The streampack command turns declarative job files into encoder argument
// lists for adaptive streaming outputs.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
)

const (
	version = "1.0.0"
)

func main() {
	root := newRootCmd(afero.NewOsFs())
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
