package delivery

import (
	"context"
	"fmt"

	"mp3-batch/domain/delivery"
)

// Pruner frees remote storage by deleting the oldest published artifacts
type Pruner struct {
	store    delivery.QuotaStore
	folderID string
}

// NewPruner creates a pruner for one folder
func NewPruner(store delivery.QuotaStore, folderID string) *Pruner {
	return &Pruner{
		store:    store,
		folderID: folderID,
	}
}

// EnsureSpaceAvailable deletes the oldest published artifacts until neededBytes fit.
// The partial result is returned alongside any error.
func (p *Pruner) EnsureSpaceAvailable(ctx context.Context, neededBytes int64) (*delivery.PruneResult, error) {
	result := &delivery.PruneResult{}
	deleted := make(map[string]bool)

	// Drive updates quota and listings eventually, so both are re-read after
	// every delete and files already deleted here are skipped
	for {
		quota, err := p.store.StorageQuota(ctx)
		if err != nil {
			return result, fmt.Errorf("failed to check storage: %w", err)
		}
		if quota.HasSpaceFor(neededBytes) {
			return result, nil
		}

		files, err := p.store.ListPublished(ctx, p.folderID)
		if err != nil {
			return result, fmt.Errorf("failed to list published files: %w", err)
		}

		oldest, ok := oldestRemaining(files, deleted)
		if !ok {
			return result, fmt.Errorf("no published files to delete, need %d bytes but only %d available",
				neededBytes, quota.AvailableBytes)
		}

		if err := p.store.DeletePermanently(ctx, oldest.ID); err != nil {
			return result, fmt.Errorf("failed to delete %s: %w", oldest.Name, err)
		}
		deleted[oldest.ID] = true

		result.Deleted = append(result.Deleted, oldest)
		result.FreedBytes += oldest.Size
	}
}

// oldestRemaining returns the first listed file not yet deleted
func oldestRemaining(files []delivery.RemoteFile, deleted map[string]bool) (delivery.RemoteFile, bool) {
	for _, f := range files {
		if !deleted[f.ID] {
			return f, true
		}
	}
	return delivery.RemoteFile{}, false
}
