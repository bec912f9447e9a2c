// mrbuild configures and builds the MixedReality-WebRTC native dependencies:
// it checks out the pinned libwebrtc tree and drives gn/ninja for each
// requested target/cpu/config variant.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/mrwebrtc/mrbuild/internal/run"
)

func main() {
	flag.Parse()

	type cmd struct {
		helpText string
		fn       func(args []string) error
	}
	verbs := map[string]cmd{
		"build":    {buildHelp, build},
		"checkout": {checkoutHelp, checkoutTree},
		"env":      {envHelp, printenv},
	}

	args := flag.Args()
	verb := "build"
	if len(args) > 0 {
		verb, args = args[0], args[1:]
	}

	if verb == "help" {
		if len(args) != 1 {
			fmt.Fprintf(os.Stderr, "syntax: mrbuild help <verb>\n")
			fmt.Fprintf(os.Stderr, "\n")
			fmt.Fprintf(os.Stderr, "Verbs:\n")
			fmt.Fprintf(os.Stderr, "\tbuild - build one or more libwebrtc variants\n")
			fmt.Fprintf(os.Stderr, "\tcheckout - fetch and patch the libwebrtc tree without building\n")
			fmt.Fprintf(os.Stderr, "\tenv - display the resolved build environment\n")
			os.Exit(2)
		}
		verb, args = args[0], []string{"-help"}
	}

	v, ok := verbs[verb]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown verb %q\n", verb)
		fmt.Fprintf(os.Stderr, "syntax: mrbuild <verb> [options]\n")
		os.Exit(2)
	}

	if err := v.fn(args); err != nil {
		log.Print(err)
		os.Exit(run.ExitCode(err, 1))
	}
}
