package conversion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"mp3-batch/domain/conversion"
)

// Worker converts a single upload into an audio file in the workspace
type Worker struct {
	transcoder  conversion.Transcoder
	fileChecker conversion.FileChecker
	tempDir     string
	logger      *slog.Logger
}

// NewWorker creates a new Worker. An empty tempDir uses the system default.
func NewWorker(transcoder conversion.Transcoder, fileChecker conversion.FileChecker, tempDir string, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Worker{
		transcoder:  transcoder,
		fileChecker: fileChecker,
		tempDir:     tempDir,
		logger:      logger.With(slog.String("component", "worker")),
	}
}

// Convert stages the upload in a temporary file, runs the transcoder on it and
// verifies the output. It never returns an error: every failure is folded into
// the returned Outcome. The temporary input is removed on every path.
func (w *Worker) Convert(ctx context.Context, upload conversion.Upload, outputPath string) conversion.Outcome {
	started := time.Now()

	inputPath, release, err := w.stage(upload)
	if err != nil {
		return w.fail(upload, outputPath, fmt.Errorf("stage input: %w", err))
	}
	defer release()

	if err := w.transcoder.Transcode(ctx, inputPath, outputPath); err != nil {
		return w.fail(upload, outputPath, err)
	}

	// The tool can exit 0 without writing anything
	if !w.fileChecker.Exists(outputPath) || w.fileChecker.Size(outputPath) <= 0 {
		return w.fail(upload, outputPath, conversion.ErrOutputMissing)
	}

	w.logger.Info("conversion succeeded",
		slog.String("input", upload.Name),
		slog.String("output", outputPath),
		slog.Duration("elapsed", time.Since(started)),
	)
	return conversion.Succeeded(outputPath)
}

// stage copies the upload content into a temporary file and returns a release
// func that removes it
func (w *Worker) stage(upload conversion.Upload) (string, func(), error) {
	if upload.Open == nil {
		return "", nil, errors.New("upload has no content")
	}

	src, err := upload.Open()
	if err != nil {
		return "", nil, err
	}
	defer src.Close()

	tmp, err := os.CreateTemp(w.tempDir, "upload-*"+conversion.InputExtension)
	if err != nil {
		return "", nil, err
	}
	release := func() {
		if err := os.Remove(tmp.Name()); err != nil && !os.IsNotExist(err) {
			w.logger.Warn("failed to remove temporary input",
				slog.String("path", tmp.Name()),
				slog.Any("error", err),
			)
		}
	}

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		release()
		return "", nil, err
	}
	if err := tmp.Close(); err != nil {
		release()
		return "", nil, err
	}

	return tmp.Name(), release, nil
}

// fail removes any partial output and builds the failed Outcome
func (w *Worker) fail(upload conversion.Upload, outputPath string, err error) conversion.Outcome {
	if rmErr := os.Remove(outputPath); rmErr != nil && !os.IsNotExist(rmErr) {
		w.logger.Warn("failed to remove partial output",
			slog.String("path", outputPath),
			slog.Any("error", rmErr),
		)
	}

	w.logger.Warn("conversion failed",
		slog.String("input", upload.Name),
		slog.Any("error", err),
	)
	return conversion.Failed(err)
}

// Ensure Worker implements conversion.Converter
var _ conversion.Converter = (*Worker)(nil)
