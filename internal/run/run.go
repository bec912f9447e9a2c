// Package run invokes the external build tools (fetch, gclient, gn, ninja).
// Commands are plain records so that callers construct them without spawning
// anything, and tests substitute a fake Runner to assert on what would run.
package run

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/xerrors"
)

// Command describes one external tool invocation.
type Command struct {
	Path string   // executable name or path, resolved via PATH from Env
	Args []string // arguments, not including the executable itself
	Dir  string   // working directory
	Env  []string // full environment; nil means inherit the process env
}

func (c Command) String() string {
	return strings.Join(append([]string{c.Path}, c.Args...), " ")
}

// Error reports a command that exited non-zero (or failed to start). The exit
// code is preserved so that main can terminate with the failing tool's own
// status.
type Error struct {
	Cmd      Command
	ExitCode int
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("command failed with exit code %d: %s", e.ExitCode, e.Cmd)
}

func (e *Error) Unwrap() error { return e.Err }

// ExitCode extracts the exit status from err if it wraps an *Error, or
// returns the fallback otherwise.
func ExitCode(err error, fallback int) int {
	var re *Error
	if xerrors.As(err, &re) && re.ExitCode > 0 {
		return re.ExitCode
	}
	return fallback
}

// Runner runs commands. The process-spawning implementation is ExecRunner;
// tests provide their own.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// ExecRunner runs commands via os/exec, streaming output to the process
// stdout/stderr and blocking until completion.
type ExecRunner struct {
	Log *log.Logger
}

func (r *ExecRunner) Run(ctx context.Context, c Command) error {
	r.logf("%s %s", colored("run:", ansiMagenta), c)
	// os/exec resolves bare names against the process PATH, but depot_tools
	// is only prepended to the command env. Resolve against c.Env instead.
	path := c.Path
	if p, ok := lookPath(c.Path, c.Env); ok {
		path = p
	}
	cmd := exec.CommandContext(ctx, path, c.Args...)
	cmd.Dir = c.Dir
	cmd.Env = c.Env
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		code := 1
		var exitErr *exec.ExitError
		if xerrors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		return &Error{Cmd: c, ExitCode: code, Err: err}
	}
	return nil
}

func (r *ExecRunner) logf(format string, args ...interface{}) {
	if r.Log != nil {
		r.Log.Printf(format, args...)
		return
	}
	log.Printf(format, args...)
}

// lookPath searches the PATH entries of environ for an executable called
// name. Names already containing a path separator are returned as-is.
func lookPath(name string, environ []string) (string, bool) {
	if environ == nil || strings.ContainsRune(name, filepath.Separator) {
		return name, true
	}
	var path string
	for _, kv := range environ {
		if strings.HasPrefix(kv, "PATH=") {
			path = strings.TrimPrefix(kv, "PATH=")
			break
		}
	}
	for _, dir := range filepath.SplitList(path) {
		candidate := filepath.Join(dir, name)
		if fi, err := os.Stat(candidate); err == nil && fi.Mode().IsRegular() && fi.Mode()&0111 != 0 {
			return candidate, true
		}
	}
	return "", false
}

const (
	ansiReset   = "\x1b[0m"
	ansiMagenta = "\x1b[1;35m"
	ansiCyan    = "\x1b[1;36m"
)

var stderrIsTTY = isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())

func colored(s, color string) string {
	if !stderrIsTTY {
		return s
	}
	return color + s + ansiReset
}

// Cyan highlights s for terminal output, matching the accent color the
// progress messages use. Returns s unchanged when stderr is not a terminal.
func Cyan(s string) string {
	return colored(s, ansiCyan)
}
