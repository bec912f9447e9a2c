package main

import (
	"flag"
	"fmt"

	"github.com/mrwebrtc/mrbuild/internal/env"
)

const envHelp = `mrbuild env

Display the resolved build environment: repository root, depot_tools and
checkout locations, and the variables pinned for the external tools.

Example:
  % mrbuild env
`

func printenv(args []string) error {
	fset := flag.NewFlagSet("env", flag.ExitOnError)
	fset.Usage = usage(fset, envHelp)
	fset.Parse(args)
	b := env.New(env.Root)
	fmt.Printf("MRWEBRTC_ROOT=%q\n", b.Root)
	fmt.Printf("DEPOT_TOOLS=%q\n", b.DepotToolsDir)
	fmt.Printf("WEBRTC_CHECKOUT=%q\n", b.WebRTCDir)
	fmt.Printf("WEBRTC_SRC=%q\n", b.SrcDir)
	fmt.Printf("WINRTC_PATCHES=%q\n", b.PatchDir)
	fmt.Printf("DEPOT_TOOLS_WIN_TOOLCHAIN=%q\n", "0")
	fmt.Printf("GYP_MSVS_VERSION=%q\n", "2019")
	return nil
}
