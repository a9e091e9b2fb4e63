package delivery

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"mp3-batch/domain/conversion"
	"mp3-batch/domain/delivery"
)

// ResultStore is the read side of the workspace
type ResultStore interface {
	Outputs() ([]string, error)
	BundlePath() string
	HasBundle() bool
}

// Service exposes batch results as artifacts and publishes them
type Service struct {
	fileChecker conversion.FileChecker
	store       delivery.RemoteStore
	folderID    string
	pruner      *Pruner
	output      io.Writer
	logger      *slog.Logger
}

// Option is a functional option for configuring Service
type Option func(*Service)

// WithRemoteStore enables publishing into folderID
func WithRemoteStore(store delivery.RemoteStore, folderID string) Option {
	return func(s *Service) {
		s.store = store
		s.folderID = folderID
	}
}

// WithPruner frees remote space before each upload
func WithPruner(p *Pruner) Option {
	return func(s *Service) {
		s.pruner = p
	}
}

// WithOutput sets where publishing progress is written
func WithOutput(w io.Writer) Option {
	return func(s *Service) {
		if w != nil {
			s.output = w
		}
	}
}

// WithLogger sets the service logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService creates a new delivery service
func NewService(fileChecker conversion.FileChecker, opts ...Option) *Service {
	s := &Service{
		fileChecker: fileChecker,
		output:      io.Discard,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(slog.String("component", "delivery"))
	return s
}

// Artifacts lists the retrievable results of a batch: every output in
// processing order, then the bundle when one was produced
func (s *Service) Artifacts(result *conversion.BatchResult) []delivery.Artifact {
	if result == nil {
		return nil
	}

	artifacts := make([]delivery.Artifact, 0, len(result.Successes)+1)
	for _, p := range result.Successes {
		artifacts = append(artifacts, s.artifact(delivery.KindOutput, p))
	}
	if result.HasBundle() {
		artifacts = append(artifacts, s.artifact(delivery.KindBundle, result.BundlePath))
	}
	return artifacts
}

// WorkspaceArtifacts lists the artifacts currently present in the workspace
func (s *Service) WorkspaceArtifacts(store ResultStore) ([]delivery.Artifact, error) {
	outputs, err := store.Outputs()
	if err != nil {
		return nil, fmt.Errorf("list outputs: %w", err)
	}

	result := &conversion.BatchResult{Successes: outputs}
	if store.HasBundle() {
		result.BundlePath = store.BundlePath()
	}
	return s.Artifacts(result), nil
}

func (s *Service) artifact(kind delivery.Kind, path string) delivery.Artifact {
	mediaType := delivery.MediaTypeAudio
	if kind == delivery.KindBundle {
		mediaType = delivery.MediaTypeArchive
	}
	return delivery.Artifact{
		Kind:      kind,
		Name:      filepath.Base(path),
		Path:      path,
		MediaType: mediaType,
		Size:      s.fileChecker.Size(path),
	}
}

// Publish uploads the bundle, or the single output when there is no bundle,
// replacing a remote file of the same name
func (s *Service) Publish(ctx context.Context, artifacts []delivery.Artifact) (*delivery.UploadResult, error) {
	if s.store == nil {
		return nil, delivery.ErrNoRemoteStore
	}

	target, err := delivery.SelectPublishTarget(artifacts)
	if err != nil {
		return nil, err
	}
	if !s.fileChecker.Exists(target.Path) {
		return nil, fmt.Errorf("file does not exist: %s", target.Path)
	}

	existing, err := s.store.FindFileByName(ctx, s.folderID, target.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing file: %w", err)
	}
	if existing != nil {
		fmt.Fprintf(s.output, "Replacing existing %s (%s)\n", existing.Name, humanize.IBytes(uint64(existing.Size)))
		if err := s.store.DeletePermanently(ctx, existing.ID); err != nil {
			return nil, fmt.Errorf("failed to delete existing file %s: %w", existing.Name, err)
		}
	}

	if s.pruner != nil {
		pruned, err := s.pruner.EnsureSpaceAvailable(ctx, target.Size)
		if pruned != nil {
			for _, f := range pruned.Deleted {
				fmt.Fprintf(s.output, "Deleted old %s (%s)\n", f.Name, humanize.IBytes(uint64(f.Size)))
			}
			if len(pruned.Deleted) > 0 {
				s.logger.Info("pruned remote storage",
					slog.Int("deleted", len(pruned.Deleted)),
					slog.Int64("freed_bytes", pruned.FreedBytes),
				)
			}
		}
		if err != nil {
			return nil, fmt.Errorf("failed to free space for %s: %w", target.Name, err)
		}
	}

	fmt.Fprintf(s.output, "Uploading %s (%s)...\n", target.Name, humanize.IBytes(uint64(target.Size)))
	result, err := s.store.UploadAndShare(ctx, delivery.UploadRequest{
		LocalPath: target.Path,
		FileName:  target.Name,
		FolderID:  s.folderID,
		MimeType:  target.MediaType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload and share %s: %w", target.Name, err)
	}

	s.logger.Info("published artifact",
		slog.String("name", result.FileName),
		slog.String("file_id", result.FileID),
		slog.String("kind", string(target.Kind)),
	)
	return result, nil
}
