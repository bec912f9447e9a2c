package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/mrwebrtc/mrbuild"
	buildpkg "github.com/mrwebrtc/mrbuild/internal/build"
	"github.com/mrwebrtc/mrbuild/internal/checkout"
	"github.com/mrwebrtc/mrbuild/internal/config"
	"github.com/mrwebrtc/mrbuild/internal/env"
	"github.com/mrwebrtc/mrbuild/internal/run"
)

const buildHelp = `mrbuild build [-flags]

Build libwebrtc for one or more target/cpu/config variants. Incompatible
combinations are skipped with a warning; the first failing external tool
aborts the run.

A selection that yields no buildable variants (including an empty -target or
-cpu list) is a no-op, not an error: the run reports zero variants and exits
successfully without touching the checkout.

Example:
  % mrbuild build -target=win -cpu=x86,x64 -debug -release
`

// buildRequest is the variant selection after flags and the optional defaults
// file have been merged.
type buildRequest struct {
	Targets []string
	CPUs    []string
	Debug   bool
	Release bool
	Quiet   bool
}

// configs returns the requested build configurations in build order. Neither
// flag selects release only; both select debug first.
func (r buildRequest) configs() []string {
	var configs []string
	if r.Debug {
		configs = append(configs, "debug")
	}
	if r.Release || !r.Debug {
		configs = append(configs, "release")
	}
	return configs
}

// merge fills in request fields that were not set explicitly on the command
// line from the defaults file. explicit contains the flag names the user
// passed.
func merge(r buildRequest, explicit map[string]bool, cfg *config.Config) buildRequest {
	if cfg == nil {
		return r
	}
	if !explicit["target"] && len(r.Targets) == 0 {
		r.Targets = cfg.Targets
	}
	if !explicit["cpu"] && len(r.CPUs) == 0 {
		r.CPUs = cfg.CPUs
	}
	if !explicit["debug"] && !explicit["release"] {
		r.Debug = cfg.Debug
		r.Release = cfg.Release
	}
	if !explicit["quiet"] {
		r.Quiet = r.Quiet || cfg.Quiet
	}
	return r
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var result []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

// confirm asks the user whether to proceed with n variants and reads a yes/no
// answer. Anything but an explicit yes declines.
func confirm(in io.Reader, out io.Writer, n int) bool {
	fmt.Fprintf(out, "About to build %d variants. Continue? [y/N] ", n)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

func build(args []string) error {
	fset := flag.NewFlagSet("build", flag.ExitOnError)
	var (
		target     = fset.String("target", "", "comma-separated target platforms (android, win, winuwp)")
		cpu        = fset.String("cpu", "", "comma-separated CPU architectures (x86, x64, arm, arm64)")
		debug      = fset.Bool("debug", false, "build the debug configuration")
		release    = fset.Bool("release", false, "build the release configuration (default when neither -debug nor -release is given)")
		quiet      = fset.Bool("quiet", false, "never prompt for confirmation")
		configPath = fset.String("config", "", "YAML defaults file (default: .mrbuild.yaml in the repository root, if present)")
	)
	fset.Usage = usage(fset, buildHelp)
	fset.Parse(args)

	explicit := make(map[string]bool)
	fset.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	path := *configPath
	if path == "" {
		path = filepath.Join(env.Root, config.DefaultPath)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	req := merge(buildRequest{
		Targets: splitList(*target),
		CPUs:    splitList(*cpu),
		Debug:   *debug,
		Release: *release,
		Quiet:   *quiet,
	}, explicit, cfg)

	logger := log.New(os.Stderr, "", log.LstdFlags)
	return runBuild(req, env.New(env.Root), &run.ExecRunner{Log: logger}, os.Stdin, logger)
}

// runBuild is the flow behind the build verb, after flag parsing: expand and
// report the variant selection, confirm if needed, check out, build. The
// runner and confirmation reader are injected so tests run the full flow
// without spawning tools or blocking on stdin.
func runBuild(req buildRequest, benv *env.Build, runner run.Runner, in io.Reader, logger *log.Logger) error {
	set := mrbuild.Expand(req.Targets, req.CPUs, req.configs())
	for _, r := range set.Rejected {
		logger.Printf("warning: skipping %s: %s", r.Variant, r.Reason)
	}
	if len(set.Accepted) == 0 {
		logger.Printf("no variants to build")
		return nil
	}

	logger.Printf("building MixedReality-WebRTC")
	logger.Printf("  targets: %s", run.Cyan(strings.Join(set.Targets(), ", ")))
	logger.Printf("     cpus: %s", run.Cyan(strings.Join(set.CPUs(), ", ")))
	logger.Printf("  configs: %s", run.Cyan(strings.Join(set.Configs(), ", ")))
	logger.Printf("     root: %s", benv.Root)

	if len(set.Accepted) >= 2 && !req.Quiet {
		if !confirm(in, os.Stderr, len(set.Accepted)) {
			logger.Printf("aborted")
			return nil
		}
	}

	ctx := context.Background()

	co := &checkout.Ctx{Env: benv, Runner: runner, Log: logger}
	if err := co.Ensure(ctx, set); err != nil {
		return err
	}

	b := &buildpkg.Ctx{Env: benv, Runner: runner, Log: logger}
	for _, v := range set.Accepted {
		logger.Printf("building variant %s", run.Cyan(v.String()))
		if err := b.Build(ctx, v); err != nil {
			return err
		}
	}
	logger.Printf("built %d variants", len(set.Accepted))
	return nil
}
