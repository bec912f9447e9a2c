package main

import (
	"bytes"
	"context"
	"io/ioutil"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mrwebrtc/mrbuild/internal/config"
	"github.com/mrwebrtc/mrbuild/internal/env"
	"github.com/mrwebrtc/mrbuild/internal/run"
)

type fakeRunner struct {
	commands []run.Command
}

func (f *fakeRunner) Run(ctx context.Context, cmd run.Command) error {
	f.commands = append(f.commands, cmd)
	return nil
}

// failingReader fails the test as soon as anything tries to read from it.
type failingReader struct {
	t *testing.T
}

func (r failingReader) Read([]byte) (int, error) {
	r.t.Fatal("read from the confirmation input")
	return 0, nil
}

func TestConfigs(t *testing.T) {
	for _, tt := range []struct {
		debug, release bool
		want           []string
	}{
		{false, false, []string{"release"}},
		{true, false, []string{"debug"}},
		{false, true, []string{"release"}},
		{true, true, []string{"debug", "release"}},
	} {
		got := buildRequest{Debug: tt.debug, Release: tt.release}.configs()
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("configs(debug=%v, release=%v): diff (-want +got):\n%s", tt.debug, tt.release, diff)
		}
	}
}

func TestSplitList(t *testing.T) {
	for _, tt := range []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"win", []string{"win"}},
		{"win,winuwp", []string{"win", "winuwp"}},
		{" win , winuwp ,", []string{"win", "winuwp"}},
	} {
		if diff := cmp.Diff(tt.want, splitList(tt.in)); diff != "" {
			t.Errorf("splitList(%q): diff (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestMergeDefaults(t *testing.T) {
	cfg := &config.Config{
		Targets: []string{"win", "winuwp"},
		CPUs:    []string{"x86", "x64"},
		Debug:   true,
		Quiet:   true,
	}

	// Nothing explicit: the file fills in everything.
	got := merge(buildRequest{}, map[string]bool{}, cfg)
	want := buildRequest{
		Targets: []string{"win", "winuwp"},
		CPUs:    []string{"x86", "x64"},
		Debug:   true,
		Quiet:   true,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("merge(): diff (-want +got):\n%s", diff)
	}

	// Explicit flags win over the file.
	got = merge(buildRequest{
		Targets: []string{"android"},
		CPUs:    []string{"arm64"},
		Release: true,
	}, map[string]bool{"target": true, "cpu": true, "release": true}, cfg)
	want = buildRequest{
		Targets: []string{"android"},
		CPUs:    []string{"arm64"},
		Release: true,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("merge() with explicit flags: diff (-want +got):\n%s", diff)
	}

	// No defaults file at all.
	got = merge(buildRequest{Targets: []string{"win"}}, map[string]bool{}, nil)
	if diff := cmp.Diff(buildRequest{Targets: []string{"win"}}, got); diff != "" {
		t.Errorf("merge(nil config): diff (-want +got):\n%s", diff)
	}
}

func TestConfirm(t *testing.T) {
	for _, tt := range []struct {
		answer string
		want   bool
	}{
		{"y\n", true},
		{"Y\n", true},
		{"yes\n", true},
		{"n\n", false},
		{"no\n", false},
		{"\n", false},
		{"", false}, // EOF declines
	} {
		var out bytes.Buffer
		got := confirm(strings.NewReader(tt.answer), &out, 5)
		if got != tt.want {
			t.Errorf("confirm(%q) = %v, want %v", tt.answer, got, tt.want)
		}
		if !strings.Contains(out.String(), "5 variants") {
			t.Errorf("confirm() prompt = %q, want variant count", out.String())
		}
	}
}

func TestRunBuildEmptySelectionSkipsCheckout(t *testing.T) {
	runner := &fakeRunner{}
	benv := env.New(t.TempDir())
	logger := log.New(ioutil.Discard, "", 0)

	// Zero targets, zero cpus, and a selection where every triple is
	// rejected must all terminate before the checkout step.
	for _, req := range []buildRequest{
		{},
		{Targets: []string{"win"}},
		{CPUs: []string{"x64"}},
		{Targets: []string{"android"}, CPUs: []string{"x86"}},
	} {
		if err := runBuild(req, benv, runner, failingReader{t}, logger); err != nil {
			t.Fatalf("runBuild(%+v): %v", req, err)
		}
	}
	if len(runner.commands) != 0 {
		t.Errorf("runBuild() ran %d commands for empty selections, want 0: %v", len(runner.commands), runner.commands)
	}
	if _, err := os.Stat(benv.WebRTCDir); !os.IsNotExist(err) {
		t.Errorf("runBuild() created the checkout directory for an empty selection")
	}
}

func TestRunBuildQuietNeverPrompts(t *testing.T) {
	runner := &fakeRunner{}
	benv := env.New(t.TempDir())
	logger := log.New(ioutil.Discard, "", 0)

	// android-arm64 plus winuwp on all four CPUs: five accepted variants.
	req := buildRequest{
		Targets: []string{"android", "winuwp"},
		CPUs:    []string{"arm64", "x86", "x64", "arm"},
		Release: true,
		Quiet:   true,
	}
	// failingReader makes any confirmation read fail the test.
	if err := runBuild(req, benv, runner, failingReader{t}, logger); err != nil {
		t.Fatalf("runBuild: %v", err)
	}

	// 3 checkout steps, then gn+ninja per accepted variant.
	if got, want := len(runner.commands), 3+2*5; got != want {
		t.Errorf("runBuild() ran %d commands, want %d", got, want)
	}
}
