package delivery

import "context"

// StorageQuota describes the remote store's capacity. A zero TotalBytes
// means the account has no limit.
type StorageQuota struct {
	TotalBytes     int64
	UsedBytes      int64
	AvailableBytes int64
}

// HasSpaceFor returns true if there's enough space for the given bytes
func (q StorageQuota) HasSpaceFor(bytes int64) bool {
	if q.TotalBytes == 0 {
		return true
	}
	return q.AvailableBytes >= bytes
}

// PruneResult lists the remote files removed to make room for an upload
type PruneResult struct {
	Deleted    []RemoteFile
	FreedBytes int64
}

// QuotaStore is the remote store's capacity side, used to free space before publishing
type QuotaStore interface {
	// StorageQuota returns the current quota
	StorageQuota(ctx context.Context) (*StorageQuota, error)

	// ListPublished lists previously published artifacts in a folder, oldest first
	ListPublished(ctx context.Context, folderID string) ([]RemoteFile, error)

	// DeletePermanently deletes a file, bypassing trash
	DeletePermanently(ctx context.Context, fileID string) error
}
