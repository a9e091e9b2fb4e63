package delivery

import "context"

// UploadRequest contains the parameters needed to publish a file to remote storage
type UploadRequest struct {
	LocalPath string // Full path to the local file
	FileName  string // Target filename in remote storage
	FolderID  string // Target folder ID
	MimeType  string // MIME type of the file
}

// UploadResult contains the result of a successful upload
type UploadResult struct {
	FileID       string
	FileName     string
	ShareableURL string
	Size         int64
}

// RemoteFile is metadata about a file that already exists remotely
type RemoteFile struct {
	ID   string
	Name string
	Size int64
}

// RemoteStore defines the interface for publishing artifacts.
// This is a port that can be implemented by different infrastructure adapters.
type RemoteStore interface {
	// FindFileByName returns the file with the given name in a folder, or nil if absent
	FindFileByName(ctx context.Context, folderID, fileName string) (*RemoteFile, error)

	// DeletePermanently deletes a file, bypassing trash
	DeletePermanently(ctx context.Context, fileID string) error

	// UploadAndShare uploads a file and makes it readable by anyone with the link
	UploadAndShare(ctx context.Context, req UploadRequest) (*UploadResult, error)
}
