// Package checkout materializes the external WebRTC source tree that the
// build delegates to: fetch, sync to the pinned milestone branch, and apply
// the WinRTC patch set.
package checkout

import (
	"context"
	"log"
	"os"

	"golang.org/x/xerrors"

	"github.com/mrwebrtc/mrbuild"
	"github.com/mrwebrtc/mrbuild/internal/env"
	"github.com/mrwebrtc/mrbuild/internal/run"
)

// Revision is the pinned libwebrtc revision the checkout is synced to.
const Revision = "branch-heads/4147"

// Ctx is a checkout context, containing configuration and state.
type Ctx struct {
	Env    *env.Build
	Runner run.Runner
	Log    *log.Logger
}

// Ensure makes sure the WebRTC checkout exists, fetching it if necessary.
//
// If the checkout directory already exists it is reused as-is, whatever its
// state: a checkout interrupted halfway is indistinguishable from a complete
// one, and only deleting the directory forces a clean fetch. Otherwise the
// three checkout steps run in strict order (fetch, sync, patch) and the first
// failure aborts with no rollback of the partially created tree.
//
// The fetch bundle is chosen once for the whole run: webrtc_android if any
// accepted variant targets android, the default webrtc bundle otherwise.
func (c *Ctx) Ensure(ctx context.Context, set mrbuild.Set) error {
	if _, err := os.Stat(c.Env.WebRTCDir); err == nil {
		c.Log.Printf("reusing existing checkout; delete %s to force a clean checkout", c.Env.WebRTCDir)
		return nil
	}
	if err := os.MkdirAll(c.Env.WebRTCDir, 0755); err != nil {
		return xerrors.Errorf("checkout: %w", err)
	}

	environ := c.Env.Environ()

	bundle := "webrtc"
	if set.HasTarget("android") {
		bundle = "webrtc_android"
	}
	if err := c.Runner.Run(ctx, run.Command{
		Path: "fetch",
		Args: []string{"--nohooks", bundle},
		Dir:  c.Env.WebRTCDir,
		Env:  environ,
	}); err != nil {
		return err
	}

	if err := c.Runner.Run(ctx, run.Command{
		Path: "gclient",
		Args: []string{"sync", "-D", "-r", Revision},
		Dir:  c.Env.WebRTCDir,
		Env:  environ,
	}); err != nil {
		return err
	}

	// The WinRTC patches are UWP-specific but applied for every fresh
	// checkout, not only when winuwp was requested. Known quirk: the other
	// targets tolerate the patched tree, and scoping the patch to winuwp
	// would make the checkout contents depend on the first run's targets.
	c.Log.Printf("applying WinRTC patches from %s", c.Env.PatchDir)
	if err := c.Runner.Run(ctx, run.Command{
		Path: "patchWebRTCM84.cmd",
		Dir:  c.Env.PatchDir,
		Env:  append(append([]string(nil), environ...), "WEBRTCM84_ROOT="+c.Env.SrcDir),
	}); err != nil {
		return err
	}

	return nil
}
