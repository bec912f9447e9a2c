// Package build drives the per-variant build: write the gn build options
// file, generate build files, and run ninja. It never compiles anything
// itself; everything is delegated to the tools from the checkout.
package build

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio"
	"golang.org/x/xerrors"

	"github.com/mrwebrtc/mrbuild"
	"github.com/mrwebrtc/mrbuild/internal/env"
	"github.com/mrwebrtc/mrbuild/internal/run"
)

// Ctx is a build context, containing configuration and state.
type Ctx struct {
	Env    *env.Build
	Runner run.Runner
	Log    *log.Logger
}

// Args renders the args.gn contents for a variant: one key=value per line,
// keys in the order gn conventionally lists them, no trailing newline.
//
// Apart from is_debug, target_os and target_cpu the flags are fixed: tests,
// examples and tooling excluded, the WinRT capture and Media Foundation H.264
// codecs enabled, AV1 enabled, protobuf disabled.
func Args(v mrbuild.Variant) string {
	isDebug := "false"
	if v.Config == "debug" {
		isDebug = "true"
	}
	options := []string{
		"is_debug=" + isDebug,
		"use_lld=false",
		"is_clang=false",
		"rtc_include_tests=false",
		"rtc_build_examples=false",
		"rtc_build_tools=false",
		"rtc_win_video_capture_winrt=true",
		"rtc_win_use_mf_h264=true",
		"enable_libaom=true",
		"rtc_enable_protobuf=false",
		`target_os="` + v.Target + `"`,
		`target_cpu="` + v.CPU + `"`,
	}
	return strings.Join(options, "\n")
}

// Build compiles one variant. The args.gn file is rewritten unconditionally
// on every invocation; gn and ninja decide what actually needs rebuilding.
func (c *Ctx) Build(ctx context.Context, v mrbuild.Variant) error {
	outDirRel := v.OutDir()
	outDir := filepath.Join(c.Env.SrcDir, filepath.FromSlash(outDirRel))
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return xerrors.Errorf("build %s: %w", v, err)
	}

	argsPath := filepath.Join(outDir, "args.gn")
	if err := renameio.WriteFile(argsPath, []byte(Args(v)), 0644); err != nil {
		return xerrors.Errorf("build %s: writing %s: %w", v, argsPath, err)
	}

	environ := c.Env.Environ()

	if err := c.Runner.Run(ctx, run.Command{
		Path: "gn",
		Args: []string{"gen", outDirRel, "--filters=//:webrtc"},
		Dir:  c.Env.SrcDir,
		Env:  environ,
	}); err != nil {
		return err
	}

	if err := c.Runner.Run(ctx, run.Command{
		Path: "ninja",
		Args: []string{"-C", outDirRel},
		Dir:  c.Env.SrcDir,
		Env:  environ,
	}); err != nil {
		return err
	}

	return nil
}
