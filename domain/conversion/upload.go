package conversion

import (
	"bytes"
	"io"
)

// Fixed pipeline constants. These are part of the transcoder contract and are
// intentionally not exposed through configuration.
const (
	InputExtension  = ".mp4"
	OutputExtension = ".mp3"
	MaxUploadBytes  = 500 * 1024 * 1024
)

// Upload is one user-supplied video waiting to be validated and converted
// Its content is opened lazily so a batch holds at most one input open at a time
type Upload struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

// NewUploadFromBytes creates an in-memory Upload, mainly for callers that already hold the content
func NewUploadFromBytes(name string, content []byte) Upload {
	return Upload{
		Name: name,
		Size: int64(len(content)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(content)), nil
		},
	}
}
