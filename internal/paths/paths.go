// Package paths lays out the daemon's per-session scratch directory and
// guards it against concurrent daemons.
package paths

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// Layout is the set of scratch paths a running daemon instance uses:
// <tmp-dir>/{log, goal, result, cmd.sock}, truncated on restart.
type Layout struct {
	Root       string
	LogFile    string
	GoalFile   string
	ResultFile string
	CmdSocket  string
	LockFile   string
}

// NewLayout derives every scratch path from a single tmp-dir root, the
// fourth positional argument to the coqd binary.
func NewLayout(tmpDir string) Layout {
	return Layout{
		Root:       tmpDir,
		LogFile:    filepath.Join(tmpDir, "log"),
		GoalFile:   filepath.Join(tmpDir, "goal"),
		ResultFile: filepath.Join(tmpDir, "result"),
		CmdSocket:  filepath.Join(tmpDir, "cmd.sock"),
		LockFile:   filepath.Join(tmpDir, "daemon.lock"),
	}
}

// EnsureDir creates the directory and all parents if they don't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}

// Prepare creates the scratch root and truncates the result/goal/log
// files left over from a previous run.
func (l Layout) Prepare() error {
	if err := EnsureDir(l.Root); err != nil {
		return fmt.Errorf("create scratch root %s: %w", l.Root, err)
	}
	for _, p := range []string{l.LogFile, l.GoalFile, l.ResultFile} {
		f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
		if err != nil {
			return fmt.Errorf("truncate scratch file %s: %w", p, err)
		}
		f.Close()
	}
	return nil
}

// Lock acquires the single-instance lock for this scratch directory. The
// returned flock.Flock must be unlocked (via Close) on shutdown.
func (l Layout) Lock() (*flock.Flock, error) {
	lock := flock.New(l.LockFile)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", l.LockFile, err)
	}
	if !ok {
		return nil, fmt.Errorf("another coqd instance already holds %s", l.LockFile)
	}
	return lock, nil
}
