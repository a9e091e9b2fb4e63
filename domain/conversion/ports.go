package conversion

import "context"

// Transcoder converts one local input file into an audio output file.
// This is a port that can be implemented by different infrastructure adapters.
// Implementations enforce their own time limit and classify failures as
// ErrConversionTimeout, *ToolError or ErrLaunchFailed.
type Transcoder interface {
	Transcode(ctx context.Context, inputPath, outputPath string) error
}

// Prober reports whether the transcoder is present and runnable
type Prober interface {
	Probe(ctx context.Context) bool
}

// Converter runs one upload through the transcoder and classifies the result
type Converter interface {
	Convert(ctx context.Context, upload Upload, outputPath string) Outcome
}

// Workspace is the directory holding the current batch's outputs
type Workspace interface {
	// Reset removes every output and the bundle left by a previous batch
	Reset() error
	// OutputPath returns the path an output with the given name is written to
	OutputPath(name string) string
}

// Bundler packages output files into a single archive and returns its path
type Bundler interface {
	Bundle(paths []string) (string, error)
}

// FileChecker defines the interface for checking file existence and size
type FileChecker interface {
	Exists(path string) bool
	Size(path string) int64
}
