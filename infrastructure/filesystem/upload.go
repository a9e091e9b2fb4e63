package filesystem

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"mp3-batch/domain/conversion"
)

// NewFileUpload turns a local file into an Upload. The name is the file's
// base name and the size is taken at call time; content is opened lazily.
func NewFileUpload(path string) (conversion.Upload, error) {
	info, err := os.Stat(path)
	if err != nil {
		return conversion.Upload{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return conversion.Upload{}, fmt.Errorf("%s is a directory", path)
	}

	return conversion.Upload{
		Name: filepath.Base(path),
		Size: info.Size(),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

// CollectUploads expands paths into uploads. Directories contribute their
// immediate regular files in name order; validation happens later, so files
// of any type are included.
func CollectUploads(paths []string) ([]conversion.Upload, error) {
	var uploads []conversion.Upload
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}

		if !info.IsDir() {
			u, err := NewFileUpload(p)
			if err != nil {
				return nil, err
			}
			uploads = append(uploads, u)
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		for _, entry := range entries {
			if !entry.Type().IsRegular() {
				continue
			}
			u, err := NewFileUpload(filepath.Join(p, entry.Name()))
			if err != nil {
				return nil, err
			}
			uploads = append(uploads, u)
		}
	}
	return uploads, nil
}
