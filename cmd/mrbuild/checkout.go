package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/mrwebrtc/mrbuild"
	"github.com/mrwebrtc/mrbuild/internal/checkout"
	"github.com/mrwebrtc/mrbuild/internal/env"
	"github.com/mrwebrtc/mrbuild/internal/run"
)

const checkoutHelp = `mrbuild checkout [-flags]

Fetch the pinned libwebrtc tree and apply the WinRTC patches without building
anything. Useful for priming a build machine. A no-op if the checkout already
exists.

Example:
  % mrbuild checkout -target=android
`

func checkoutTree(args []string) error {
	fset := flag.NewFlagSet("checkout", flag.ExitOnError)
	var (
		target = fset.String("target", "", "comma-separated target platforms the checkout will be used for (android fetches a different bundle)")
	)
	fset.Usage = usage(fset, checkoutHelp)
	fset.Parse(args)

	targets := splitList(*target)
	for _, tgt := range targets {
		if !mrbuild.Targets[tgt] {
			log.Printf("warning: invalid platform target %q", tgt)
		}
	}

	// Only the target matters here (android fetches webrtc_android); expand
	// against the full CPU matrix so any valid target makes it into the set.
	set := mrbuild.Expand(targets, []string{"x86", "x64", "arm", "arm64"}, []string{"release"})

	co := &checkout.Ctx{
		Env:    env.New(env.Root),
		Runner: &run.ExecRunner{},
		Log:    log.New(os.Stderr, "", log.LstdFlags),
	}
	return co.Ensure(context.Background(), set)
}
