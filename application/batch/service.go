package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"mp3-batch/domain/conversion"

	"github.com/google/uuid"
)

// Locker is implemented by workspaces that can guard against a concurrent batch
type Locker interface {
	Lock() error
	Unlock() error
}

// Service orchestrates one batch: clear the workspace, convert each upload in
// order, then bundle the outputs when there is more than one
type Service struct {
	workspace conversion.Workspace
	converter conversion.Converter
	bundler   conversion.Bundler
	observer  conversion.ProgressObserver
	logger    *slog.Logger
	newID     func() string
}

// Option is a functional option for configuring Service
type Option func(*Service)

// WithObserver attaches a progress observer
func WithObserver(observer conversion.ProgressObserver) Option {
	return func(s *Service) {
		s.observer = observer
	}
}

// WithLogger sets the logger used for batch events
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithIDGenerator sets a custom batch ID generator (for testing)
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		s.newID = fn
	}
}

// NewService creates a new batch service
func NewService(workspace conversion.Workspace, converter conversion.Converter, bundler conversion.Bundler, opts ...Option) *Service {
	s := &Service{
		workspace: workspace,
		converter: converter,
		bundler:   bundler,
		logger:    slog.New(slog.DiscardHandler),
		newID:     uuid.NewString,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.logger = s.logger.With(slog.String("component", "batch"))
	return s
}

// Submit validates the uploads and runs a batch over the accepted ones.
// Rejected uploads never reach the converter.
func (s *Service) Submit(ctx context.Context, uploads []conversion.Upload) (*conversion.Report, error) {
	accepted, rejected := conversion.Partition(uploads)
	for _, r := range rejected {
		s.logger.Info("upload rejected", slog.String("name", r.Name), slog.String("reason", r.Reason))
	}

	result, err := s.RunBatch(ctx, accepted)
	return &conversion.Report{Rejected: rejected, Result: result}, err
}

// RunBatch converts every upload in order and aggregates the outcomes.
// A failed item never stops the batch. An error is returned when the
// workspace cannot be prepared (nothing is processed), when ctx is cancelled
// (remaining uploads are skipped, nothing is bundled) or when bundling fails.
// In the last two cases the collected result is returned alongside the error.
func (s *Service) RunBatch(ctx context.Context, uploads []conversion.Upload) (*conversion.BatchResult, error) {
	started := time.Now()
	total := len(uploads)
	result := &conversion.BatchResult{ID: s.newID()}
	logger := s.logger.With(slog.String("batch_id", result.ID))

	if locker, ok := s.workspace.(Locker); ok {
		if err := locker.Lock(); err != nil {
			return nil, fmt.Errorf("lock workspace: %w", err)
		}
		defer func() {
			if err := locker.Unlock(); err != nil {
				logger.Warn("failed to unlock workspace", slog.Any("error", err))
			}
		}()
	}

	// Step 1: Clear outputs of the previous batch before anything new is written
	s.emit(conversion.Progress{State: conversion.StateClearing, Total: total})
	if err := s.workspace.Reset(); err != nil {
		return nil, fmt.Errorf("clear workspace: %w", err)
	}

	// Step 2: Convert each upload exactly once, in upload order
	namer := conversion.NewOutputNamer()
	for i, upload := range uploads {
		if ctx.Err() != nil {
			break
		}
		s.emit(conversion.Progress{
			State:     conversion.StateProcessing,
			Completed: i,
			Total:     total,
			Current:   upload.Name,
		})

		outputPath := s.workspace.OutputPath(namer.Claim(upload.Name))
		outcome := s.converter.Convert(ctx, upload, outputPath)
		if outcome.Succeeded {
			result.Successes = append(result.Successes, outcome.OutputPath)
			continue
		}
		result.Failures = append(result.Failures, conversion.Failure{
			Name:    upload.Name,
			Message: outcome.ErrorMessage,
		})
	}

	if err := ctx.Err(); err != nil {
		s.emit(conversion.Progress{State: conversion.StateDone, Completed: total, Total: total})
		logger.Warn("batch interrupted",
			slog.Int("processed", result.Total()),
			slog.Int("total", total),
		)
		return result, fmt.Errorf("batch interrupted: %w", err)
	}

	// Step 3: Bundle only when there is more than one output to hand out
	if len(result.Successes) > 1 {
		s.emit(conversion.Progress{State: conversion.StateBundling, Completed: total, Total: total})
		bundlePath, err := s.bundler.Bundle(result.Successes)
		if err != nil {
			s.emit(conversion.Progress{State: conversion.StateDone, Completed: total, Total: total})
			logger.Error("bundling failed", slog.Any("error", err))
			return result, fmt.Errorf("bundle outputs: %w", err)
		}
		result.BundlePath = bundlePath
	}

	s.emit(conversion.Progress{State: conversion.StateDone, Completed: total, Total: total})
	logger.Info("batch finished",
		slog.Int("total", total),
		slog.Int("succeeded", len(result.Successes)),
		slog.Int("failed", len(result.Failures)),
		slog.Bool("bundled", result.HasBundle()),
		slog.Duration("elapsed", time.Since(started)),
	)
	return result, nil
}

func (s *Service) emit(p conversion.Progress) {
	if s.observer != nil {
		s.observer.OnProgress(p)
	}
}
