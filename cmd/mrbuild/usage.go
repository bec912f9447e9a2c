package main

import (
	"flag"
	"fmt"
	"os"
)

// usage returns a flag.FlagSet usage func printing helpText above the
// flag defaults.
func usage(fset *flag.FlagSet, helpText string) func() {
	return func() {
		fmt.Fprintf(os.Stderr, "%s\nUsage of %s:\n", helpText, fset.Name())
		fset.PrintDefaults()
	}
}
