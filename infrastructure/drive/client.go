package drive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"mp3-batch/domain/delivery"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// DriveService defines the interface for Google Drive API operations
// This allows mocking the Google Drive API in tests
type DriveService interface {
	ListFiles(ctx context.Context, query string, fields string, orderBy string) ([]*drive.File, error)
	GetAbout(ctx context.Context, fields string) (*drive.About, error)
	DeleteFile(ctx context.Context, fileID string) error
	UploadFile(ctx context.Context, fileName, mimeType, folderID, localPath string) (*drive.File, error)
	CreatePermission(ctx context.Context, fileID string, permission *drive.Permission) error
}

// GoogleDriveService is the production implementation using the Google Drive API
type GoogleDriveService struct {
	service *drive.Service
}

// ListFiles lists files matching the query
func (s *GoogleDriveService) ListFiles(ctx context.Context, query string, fields string, orderBy string) ([]*drive.File, error) {
	r, err := s.service.Files.List().
		Q(query).
		Fields(googleapi.Field("files(" + fields + ")")).
		OrderBy(orderBy).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	return r.Files, nil
}

// GetAbout returns account information limited to fields
func (s *GoogleDriveService) GetAbout(ctx context.Context, fields string) (*drive.About, error) {
	return s.service.About.Get().Fields(googleapi.Field(fields)).Context(ctx).Do()
}

// DeleteFile permanently deletes a file, bypassing the trash
func (s *GoogleDriveService) DeleteFile(ctx context.Context, fileID string) error {
	return s.service.Files.Delete(fileID).Context(ctx).Do()
}

// UploadFile uploads a local file into folderID
func (s *GoogleDriveService) UploadFile(ctx context.Context, fileName, mimeType, folderID, localPath string) (*drive.File, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	meta := &drive.File{
		Name:     fileName,
		MimeType: mimeType,
	}
	if folderID != "" {
		meta.Parents = []string{folderID}
	}

	return s.service.Files.Create(meta).
		Media(f, googleapi.ContentType(mimeType)).
		Fields("id, name, size, webViewLink").
		Context(ctx).
		Do()
}

// CreatePermission grants a permission on a file
func (s *GoogleDriveService) CreatePermission(ctx context.Context, fileID string, permission *drive.Permission) error {
	_, err := s.service.Permissions.Create(fileID, permission).Context(ctx).Do()
	return err
}

// Client implements delivery.RemoteStore using Google Drive API
type Client struct {
	driveService DriveService
}

// ClientOption is a functional option for configuring Client
type ClientOption func(*Client)

// WithDriveService sets a custom drive service (for testing)
func WithDriveService(svc DriveService) ClientOption {
	return func(c *Client) {
		c.driveService = svc
	}
}

// NewClient creates a new Google Drive client authenticated as a service account
// If no options are provided, it initializes a real Google Drive service
func NewClient(ctx context.Context, credentialsPath string, opts ...ClientOption) (*Client, error) {
	c := &Client{}

	for _, opt := range opts {
		opt(c)
	}

	// If no custom drive service was provided, create a real one
	if c.driveService == nil {
		svc, err := newGoogleDriveService(ctx, credentialsPath)
		if err != nil {
			return nil, err
		}
		c.driveService = svc
	}

	return c, nil
}

// NewClientFromCredentials picks service-account or OAuth authentication
// based on the credentials file type. Prompts for the OAuth flow go to out.
func NewClientFromCredentials(ctx context.Context, credentialsPath, tokenPath string, out io.Writer, opts ...ClientOption) (*Client, error) {
	serviceAccount, err := isServiceAccount(credentialsPath)
	if err != nil {
		return nil, err
	}
	if serviceAccount {
		return NewClient(ctx, credentialsPath, opts...)
	}
	return NewClientWithOAuth(ctx, credentialsPath, tokenPath, out, opts...)
}

func isServiceAccount(credentialsPath string) (bool, error) {
	b, err := os.ReadFile(credentialsPath)
	if err != nil {
		return false, fmt.Errorf("unable to read credentials file: %w", err)
	}
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(b, &probe); err != nil {
		return false, fmt.Errorf("unable to parse credentials: %w", err)
	}
	return probe.Type == "service_account", nil
}

// newGoogleDriveService creates a production Google Drive service
func newGoogleDriveService(ctx context.Context, credentialsPath string) (*GoogleDriveService, error) {
	b, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %w", err)
	}

	config, err := google.JWTConfigFromJSON(b, drive.DriveScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %w", err)
	}

	client := config.Client(ctx)
	srv, err := drive.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create drive service: %w", err)
	}

	return &GoogleDriveService{service: srv}, nil
}

// FindFileByName implements delivery.RemoteStore. Returns nil when no file matches.
func (c *Client) FindFileByName(ctx context.Context, folderID, fileName string) (*delivery.RemoteFile, error) {
	query := fmt.Sprintf("name = '%s' and trashed = false", escapeQuery(fileName))
	if folderID != "" {
		query = fmt.Sprintf("'%s' in parents and %s", escapeQuery(folderID), query)
	}

	files, err := c.driveService.ListFiles(ctx, query, "id, name, size", "createdTime desc")
	if err != nil {
		return nil, fmt.Errorf("failed to search for %s: %w", fileName, err)
	}
	if len(files) == 0 {
		return nil, nil
	}

	f := files[0]
	return &delivery.RemoteFile{ID: f.Id, Name: f.Name, Size: f.Size}, nil
}

// DeletePermanently implements delivery.RemoteStore
func (c *Client) DeletePermanently(ctx context.Context, fileID string) error {
	if err := c.driveService.DeleteFile(ctx, fileID); err != nil {
		return fmt.Errorf("failed to delete file %s: %w", fileID, err)
	}
	return nil
}

// UploadAndShare implements delivery.RemoteStore. The uploaded file is
// readable by anyone with the link.
func (c *Client) UploadAndShare(ctx context.Context, req delivery.UploadRequest) (*delivery.UploadResult, error) {
	f, err := c.driveService.UploadFile(ctx, req.FileName, req.MimeType, req.FolderID, req.LocalPath)
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", req.FileName, err)
	}

	perm := &drive.Permission{
		Type: "anyone",
		Role: "reader",
	}
	if err := c.driveService.CreatePermission(ctx, f.Id, perm); err != nil {
		// An unshared upload is useless to the caller; remove it
		if delErr := c.driveService.DeleteFile(ctx, f.Id); delErr != nil {
			return nil, fmt.Errorf("failed to share %s (unshared file %s left in folder: %v): %w", req.FileName, f.Id, delErr, err)
		}
		return nil, fmt.Errorf("failed to share %s: %w", req.FileName, err)
	}

	link := f.WebViewLink
	if link == "" {
		link = ShareableURL(f.Id)
	}

	return &delivery.UploadResult{
		FileID:       f.Id,
		FileName:     f.Name,
		ShareableURL: link,
		Size:         f.Size,
	}, nil
}

// StorageQuota implements delivery.QuotaStore
func (c *Client) StorageQuota(ctx context.Context) (*delivery.StorageQuota, error) {
	about, err := c.driveService.GetAbout(ctx, "storageQuota")
	if err != nil {
		return nil, fmt.Errorf("failed to get storage quota: %w", err)
	}
	if about.StorageQuota == nil {
		return &delivery.StorageQuota{}, nil
	}

	q := about.StorageQuota
	quota := &delivery.StorageQuota{
		TotalBytes: q.Limit,
		UsedBytes:  q.Usage,
	}
	if q.Limit > 0 {
		quota.AvailableBytes = q.Limit - q.Usage
	}
	return quota, nil
}

// ListPublished implements delivery.QuotaStore. Only mp3 and zip files are
// returned, oldest first.
func (c *Client) ListPublished(ctx context.Context, folderID string) ([]delivery.RemoteFile, error) {
	query := "trashed = false and (name contains '.mp3' or name contains '.zip')"
	if folderID != "" {
		query = fmt.Sprintf("'%s' in parents and %s", escapeQuery(folderID), query)
	}

	files, err := c.driveService.ListFiles(ctx, query, "id, name, size, createdTime", "createdTime")
	if err != nil {
		return nil, fmt.Errorf("failed to list published files: %w", err)
	}

	result := make([]delivery.RemoteFile, 0, len(files))
	for _, f := range files {
		// "contains" matches anywhere in the name
		ext := strings.ToLower(path.Ext(f.Name))
		if ext != ".mp3" && ext != ".zip" {
			continue
		}
		result = append(result, delivery.RemoteFile{ID: f.Id, Name: f.Name, Size: f.Size})
	}
	return result, nil
}

// ShareableURL returns the browser link for a Drive file ID
func ShareableURL(fileID string) string {
	return fmt.Sprintf("https://drive.google.com/file/d/%s/view?usp=sharing", fileID)
}

// escapeQuery escapes a value for a single-quoted Drive query literal
func escapeQuery(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}

// Ensure Client implements the delivery ports
var (
	_ delivery.RemoteStore = (*Client)(nil)
	_ delivery.QuotaStore  = (*Client)(nil)
)
