package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gofrs/flock"

	"mp3-batch/domain/conversion"
)

// BundleName is the fixed file name of the batch archive
const BundleName = "all_mp3.zip"

// lockName is the advisory lock file guarding the workspace
const lockName = ".mp3-batch.lock"

// bundleTempPattern matches in-progress bundle files written before rename
const bundleTempPattern = ".all_mp3-*.zip.tmp"

// ErrBusy is returned by Lock when another batch holds the workspace
var ErrBusy = errors.New("workspace is in use by another batch")

// Workspace is the single directory holding the current batch's outputs
type Workspace struct {
	dir  string
	lock *flock.Flock
}

// New creates a Workspace rooted at dir. The directory is not created until
// EnsureExists is called.
func New(dir string) *Workspace {
	return &Workspace{
		dir:  dir,
		lock: flock.New(filepath.Join(dir, lockName)),
	}
}

// Dir returns the workspace directory
func (w *Workspace) Dir() string {
	return w.dir
}

// EnsureExists creates the workspace directory if needed
func (w *Workspace) EnsureExists() error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create workspace %s: %w", w.dir, err)
	}
	return nil
}

// Reset removes every output, the bundle and any stray bundle temp files.
// Files that are not produced by a batch are left alone.
func (w *Workspace) Reset() error {
	if err := w.EnsureExists(); err != nil {
		return err
	}

	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("read workspace: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !isBatchFile(entry.Name()) {
			continue
		}
		if err := os.Remove(filepath.Join(w.dir, entry.Name())); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", entry.Name(), err)
		}
	}
	return nil
}

func isBatchFile(name string) bool {
	if name == BundleName {
		return true
	}
	if strings.EqualFold(filepath.Ext(name), conversion.OutputExtension) {
		return true
	}
	matched, _ := filepath.Match(bundleTempPattern, name)
	return matched
}

// OutputPath returns the path for an output file name inside the workspace
func (w *Workspace) OutputPath(name string) string {
	return filepath.Join(w.dir, filepath.Base(name))
}

// BundlePath returns the path of the batch archive
func (w *Workspace) BundlePath() string {
	return filepath.Join(w.dir, BundleName)
}

// BundleTempPattern returns the os.CreateTemp pattern for in-progress bundles
func (w *Workspace) BundleTempPattern() string {
	return bundleTempPattern
}

// Outputs lists the output files currently in the workspace, sorted by name
func (w *Workspace) Outputs() ([]string, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read workspace: %w", err)
	}

	var outputs []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), conversion.OutputExtension) {
			continue
		}
		outputs = append(outputs, filepath.Join(w.dir, entry.Name()))
	}
	sort.Strings(outputs)
	return outputs, nil
}

// HasBundle reports whether the batch archive exists
func (w *Workspace) HasBundle() bool {
	info, err := os.Stat(w.BundlePath())
	return err == nil && !info.IsDir()
}

// Lock acquires the advisory workspace lock without blocking
func (w *Workspace) Lock() error {
	if err := w.EnsureExists(); err != nil {
		return err
	}
	ok, err := w.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire workspace lock: %w", err)
	}
	if !ok {
		return ErrBusy
	}
	return nil
}

// Unlock releases the workspace lock
func (w *Workspace) Unlock() error {
	if err := w.lock.Unlock(); err != nil {
		return fmt.Errorf("release workspace lock: %w", err)
	}
	return nil
}

// Ensure Workspace implements conversion.Workspace
var _ conversion.Workspace = (*Workspace)(nil)
