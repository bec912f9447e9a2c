// Package env captures details about the build environment: where the
// repository was checked out, where depot_tools and the WebRTC checkout live,
// and the environment variables passed to every external tool invocation.
// Inspect the environment using `mrbuild env`.
package env

import (
	"os"
	"path/filepath"
	"strings"
)

// Root is the root directory of where the repository was checked out.
var Root = findRoot()

func findRoot() string {
	if env := os.Getenv("MRWEBRTC_ROOT"); env != "" {
		return env
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

// Build holds the resolved directory layout for one run. Construct it once
// with New and pass it to the checkout and build components instead of
// mutating process-global state.
type Build struct {
	// Root is the repository root, e.g. /home/build/mixedreality-webrtc.
	Root string

	// DepotToolsDir is Root/external/depot_tools.
	DepotToolsDir string

	// WebRTCDir is Root/external/libwebrtc, the checkout destination.
	WebRTCDir string

	// SrcDir is WebRTCDir/src, the WebRTC source tree once fetched.
	SrcDir string

	// WinRTCDir is Root/external/winrtc, the UWP patch repository.
	WinRTCDir string

	// PatchDir is the directory the patch script runs from.
	PatchDir string
}

// New resolves the directory layout below root.
func New(root string) *Build {
	webrtc := filepath.Join(root, "external", "libwebrtc")
	winrtc := filepath.Join(root, "external", "winrtc")
	return &Build{
		Root:          root,
		DepotToolsDir: filepath.Join(root, "external", "depot_tools"),
		WebRTCDir:     webrtc,
		SrcDir:        filepath.Join(webrtc, "src"),
		WinRTCDir:     winrtc,
		PatchDir:      filepath.Join(winrtc, "patches_for_WebRTC_org", "m84"),
	}
}

// Environ returns a copy of the process environment prepared for invoking the
// external build tools: depot_tools is prepended to PATH unless some PATH
// component already points at it, and the depot_tools configuration variables
// are pinned so that gn picks up the MSVC toolchain the checkout expects.
func (b *Build) Environ() []string {
	environ := os.Environ()
	environ = setenv(environ, "PATH", b.pathWithDepotTools(getenv(environ, "PATH")))
	environ = setenv(environ, "DEPOT_TOOLS_WIN_TOOLCHAIN", "0")
	environ = setenv(environ, "GYP_MSVS_VERSION", "2019")
	return environ
}

func (b *Build) pathWithDepotTools(path string) string {
	want := filepath.Clean(b.DepotToolsDir)
	for _, dir := range filepath.SplitList(path) {
		if filepath.Clean(dir) == want {
			return path
		}
	}
	if path == "" {
		return b.DepotToolsDir
	}
	return b.DepotToolsDir + string(os.PathListSeparator) + path
}

func getenv(environ []string, key string) string {
	prefix := key + "="
	for _, kv := range environ {
		if strings.HasPrefix(kv, prefix) {
			return strings.TrimPrefix(kv, prefix)
		}
	}
	return ""
}

func setenv(environ []string, key, value string) []string {
	prefix := key + "="
	for idx, kv := range environ {
		if strings.HasPrefix(kv, prefix) {
			environ[idx] = prefix + value
			return environ
		}
	}
	return append(environ, prefix+value)
}
