package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"mp3-batch/domain/conversion"
)

// Fixed encoding parameters
const (
	AudioCodec      = "libmp3lame"
	AudioBitrate    = "192k"
	AudioSampleRate = "44100"

	// ConversionTimeout is the hard wall-clock limit for one conversion
	ConversionTimeout = 300 * time.Second
)

// Transcoder implements conversion.Transcoder and conversion.Prober using ffmpeg
type Transcoder struct {
	ffmpegPath   string
	runner       CommandRunner
	timeout      time.Duration
	probeTimeout time.Duration
	logger       *slog.Logger
}

// Option is a functional option for configuring Transcoder
type Option func(*Transcoder)

// WithFFmpegPath sets a custom ffmpeg executable path
func WithFFmpegPath(path string) Option {
	return func(t *Transcoder) {
		if path != "" {
			t.ffmpegPath = path
		}
	}
}

// WithCommandRunner sets a custom command runner (for testing)
func WithCommandRunner(runner CommandRunner) Option {
	return func(t *Transcoder) {
		t.runner = runner
	}
}

// WithTimeout overrides the conversion time limit (for testing)
func WithTimeout(d time.Duration) Option {
	return func(t *Transcoder) {
		t.timeout = d
	}
}

// WithProbeTimeout overrides the capability probe time limit (for testing)
func WithProbeTimeout(d time.Duration) Option {
	return func(t *Transcoder) {
		t.probeTimeout = d
	}
}

// WithLogger sets the logger used for ffmpeg invocations
func WithLogger(logger *slog.Logger) Option {
	return func(t *Transcoder) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// NewTranscoder creates a new FFmpeg-based transcoder
func NewTranscoder(opts ...Option) *Transcoder {
	t := &Transcoder{
		ffmpegPath:   "ffmpeg",
		runner:       &ExecCommandRunner{},
		timeout:      ConversionTimeout,
		probeTimeout: ProbeTimeout,
		logger:       slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(t)
	}

	t.logger = t.logger.With(slog.String("component", "ffmpeg"))
	return t
}

// Args returns the fixed ffmpeg argument list for one conversion
func Args(inputPath, outputPath string) []string {
	return []string{
		"-y", // Overwrite output file if it exists
		"-i", inputPath,
		"-vn", // No video
		"-acodec", AudioCodec,
		"-ab", AudioBitrate,
		"-ar", AudioSampleRate,
		outputPath,
	}
}

// Transcode implements conversion.Transcoder
func (t *Transcoder) Transcode(ctx context.Context, inputPath, outputPath string) error {
	runCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	t.logger.Debug("running ffmpeg", slog.String("input", inputPath), slog.String("output", outputPath))

	stderr, err := t.runner.Run(runCtx, t.ffmpegPath, Args(inputPath, outputPath)...)
	if err == nil {
		return nil
	}

	// The parent context takes precedence: a host shutdown is not a timeout
	if ctx.Err() != nil {
		return fmt.Errorf("conversion cancelled: %w", ctx.Err())
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return conversion.ErrConversionTimeout
	}

	var exitErr interface{ ExitCode() int }
	if errors.As(err, &exitErr) {
		return &conversion.ToolError{
			ExitCode:   exitErr.ExitCode(),
			Diagnostic: LastDiagnosticLine(stderr),
		}
	}

	return fmt.Errorf("%w: %v", conversion.ErrLaunchFailed, err)
}

// Ensure Transcoder implements conversion.Transcoder
var _ conversion.Transcoder = (*Transcoder)(nil)
