package archive

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zip"

	"mp3-batch/domain/conversion"
)

// Bundler implements conversion.Bundler by writing a flat deflate zip
type Bundler struct {
	dir         string
	name        string
	tempPattern string
}

// Option is a functional option for configuring Bundler
type Option func(*Bundler)

// WithTempPattern sets the os.CreateTemp pattern for the in-progress archive
func WithTempPattern(pattern string) Option {
	return func(b *Bundler) {
		if pattern != "" {
			b.tempPattern = pattern
		}
	}
}

// NewBundler creates a bundler that writes dir/name
func NewBundler(dir, name string, opts ...Option) *Bundler {
	b := &Bundler{
		dir:         dir,
		name:        name,
		tempPattern: "." + name + "-*.tmp",
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Bundle writes every path into the archive under its base name and returns
// the archive path. An existing archive is replaced only once the new one is
// complete.
func (b *Bundler) Bundle(paths []string) (string, error) {
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || info.IsDir() {
			return "", fmt.Errorf("%w: %s", conversion.ErrMissingOutput, p)
		}
	}

	tmp, err := os.CreateTemp(b.dir, b.tempPattern)
	if err != nil {
		return "", fmt.Errorf("create archive: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpPath)
		}
	}()

	if err := writeArchive(tmp, paths); err != nil {
		_ = tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close archive: %w", err)
	}

	dest := filepath.Join(b.dir, b.name)
	if err := os.Rename(tmpPath, dest); err != nil {
		return "", fmt.Errorf("finalize archive: %w", err)
	}
	committed = true
	return dest, nil
}

func writeArchive(w io.Writer, paths []string) error {
	zw := zip.NewWriter(w)
	for _, p := range paths {
		if err := addFile(zw, p); err != nil {
			_ = zw.Close()
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finish archive: %w", err)
	}
	return nil
}

func addFile(zw *zip.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", conversion.ErrMissingOutput, path)
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("zip header %s: %w", path, err)
	}
	header.Name = filepath.Base(path)
	header.Method = zip.Deflate

	entry, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("add %s: %w", header.Name, err)
	}
	if _, err := io.Copy(entry, f); err != nil {
		return fmt.Errorf("write %s: %w", header.Name, err)
	}
	return nil
}

// Ensure Bundler implements conversion.Bundler
var _ conversion.Bundler = (*Bundler)(nil)
