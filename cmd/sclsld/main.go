// Command sclsld loads an IEC 61850 SCL file, runs the SLD synthesis
// pipeline, and prints one of the pipeline's JSON forms. It is a thin
// wrapper: all logic lives in pkg/engine.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
