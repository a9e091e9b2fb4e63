package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	appbatch "mp3-batch/application/batch"
	appconversion "mp3-batch/application/conversion"
	appdelivery "mp3-batch/application/delivery"
	"mp3-batch/domain/conversion"
	"mp3-batch/domain/delivery"
	"mp3-batch/infrastructure/archive"
	"mp3-batch/infrastructure/config"
	"mp3-batch/infrastructure/drive"
	"mp3-batch/infrastructure/ffmpeg"
	"mp3-batch/infrastructure/filesystem"
	"mp3-batch/infrastructure/workspace"
)

// newWorkspace opens the configured workspace, creating it if needed
func newWorkspace(c *config.Config) (*workspace.Workspace, error) {
	ws := workspace.New(c.Paths.WorkspaceDirectory)
	if err := ws.EnsureExists(); err != nil {
		return nil, err
	}
	return ws, nil
}

func newTranscoder(c *config.Config, logger *slog.Logger) *ffmpeg.Transcoder {
	return ffmpeg.NewTranscoder(
		ffmpeg.WithFFmpegPath(c.FFmpeg.Path),
		ffmpeg.WithLogger(logger),
	)
}

// newBatchService wires the worker, bundler and workspace into a batch service
func newBatchService(c *config.Config, ws *workspace.Workspace, transcoder conversion.Transcoder, observer conversion.ProgressObserver, logger *slog.Logger) *appbatch.Service {
	worker := appconversion.NewWorker(transcoder, filesystem.NewChecker(), c.Paths.TempDirectory, logger)
	bundler := archive.NewBundler(ws.Dir(), workspace.BundleName, archive.WithTempPattern(ws.BundleTempPattern()))

	return appbatch.NewService(ws, worker, bundler,
		appbatch.WithObserver(observer),
		appbatch.WithLogger(logger),
	)
}

// publishMode selects how the delivery service talks to Google Drive
type publishMode struct {
	enabled bool
	prune   bool // Delete the oldest published files when the quota is short
}

// newDeliveryService builds the delivery service. The Drive client is only
// created when publishing, since it may start an interactive OAuth flow.
func newDeliveryService(ctx context.Context, c *config.Config, mode publishMode, logger *slog.Logger) (*appdelivery.Service, error) {
	opts := []appdelivery.Option{
		appdelivery.WithOutput(os.Stdout),
		appdelivery.WithLogger(logger),
	}

	if mode.enabled {
		if c.Google.FolderID == "" {
			return nil, fmt.Errorf("google.folder_id is not set; run '%s'", config.SuggestSetCommand("google.folder_id"))
		}
		client, err := drive.NewClientFromCredentials(ctx, c.Google.CredentialsFile, c.Google.TokenFile, os.Stdout)
		if err != nil {
			return nil, fmt.Errorf("failed to create Google Drive client: %w", err)
		}
		opts = append(opts, appdelivery.WithRemoteStore(client, c.Google.FolderID))
		if mode.prune {
			opts = append(opts, appdelivery.WithPruner(appdelivery.NewPruner(client, c.Google.FolderID)))
		}
	}

	return appdelivery.NewService(filesystem.NewChecker(), opts...), nil
}

// lazyPublisher builds its publisher on the first Publish call. Creating the
// Drive client can start an interactive OAuth flow, which must not happen
// before ffmpeg has been probed and something has been converted.
type lazyPublisher struct {
	build     func() (Publisher, error)
	publisher Publisher
}

func (l *lazyPublisher) Publish(ctx context.Context, artifacts []delivery.Artifact) (*delivery.UploadResult, error) {
	if l.publisher == nil {
		p, err := l.build()
		if err != nil {
			return nil, err
		}
		l.publisher = p
	}
	return l.publisher.Publish(ctx, artifacts)
}
