package delivery

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"mp3-batch/domain/delivery"
)

// mockQuotaStore frees each deleted file's size from usage. With stale set,
// deleted files keep appearing in listings.
type mockQuotaStore struct {
	stale     bool
	limit     int64
	usage     int64
	files     []delivery.RemoteFile
	quotaErr  error
	deleteErr error
	deleted   []string
}

func (m *mockQuotaStore) StorageQuota(ctx context.Context) (*delivery.StorageQuota, error) {
	if m.quotaErr != nil {
		return nil, m.quotaErr
	}
	return &delivery.StorageQuota{
		TotalBytes:     m.limit,
		UsedBytes:      m.usage,
		AvailableBytes: m.limit - m.usage,
	}, nil
}

func (m *mockQuotaStore) ListPublished(ctx context.Context, folderID string) ([]delivery.RemoteFile, error) {
	return m.files, nil
}

func (m *mockQuotaStore) DeletePermanently(ctx context.Context, fileID string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, fileID)
	for i, f := range m.files {
		if f.ID == fileID {
			m.usage -= f.Size
			if !m.stale {
				m.files = append(m.files[:i], m.files[i+1:]...)
			}
			break
		}
	}
	return nil
}

func TestPruner_EnsureSpaceAvailable(t *testing.T) {
	published := func() []delivery.RemoteFile {
		return []delivery.RemoteFile{
			{ID: "old", Name: "old.mp3", Size: 300},
			{ID: "mid", Name: "mid.mp3", Size: 300},
			{ID: "new", Name: "all_mp3.zip", Size: 300},
		}
	}

	tests := []struct {
		name        string
		store       *mockQuotaStore
		needed      int64
		wantDeleted []string
		wantFreed   int64
		wantErr     string
	}{
		{
			name:   "enough space deletes nothing",
			store:  &mockQuotaStore{limit: 1000, usage: 100, files: published()},
			needed: 500,
		},
		{
			name:        "deletes oldest first until it fits",
			store:       &mockQuotaStore{limit: 1000, usage: 900, files: published()},
			needed:      500,
			wantDeleted: []string{"old", "mid"},
			wantFreed:   600,
		},
		{
			name:        "stale listing does not repeat deletes",
			store:       &mockQuotaStore{limit: 1000, usage: 900, files: published(), stale: true},
			needed:      500,
			wantDeleted: []string{"old", "mid"},
			wantFreed:   600,
		},
		{
			name:        "stale listing runs out of files",
			store:       &mockQuotaStore{limit: 1000, usage: 990, files: published()[:1], stale: true},
			needed:      500,
			wantDeleted: []string{"old"},
			wantFreed:   300,
			wantErr:     "no published files to delete",
		},
		{
			name:        "runs out of files",
			store:       &mockQuotaStore{limit: 1000, usage: 950, files: published()[:1]},
			needed:      500,
			wantDeleted: []string{"old"},
			wantFreed:   300,
			wantErr:     "no published files to delete",
		},
		{
			name:    "quota error",
			store:   &mockQuotaStore{quotaErr: errors.New("API error")},
			needed:  1,
			wantErr: "failed to check storage",
		},
		{
			name:    "delete error",
			store:   &mockQuotaStore{limit: 1000, usage: 1000, files: published(), deleteErr: errors.New("forbidden")},
			needed:  1,
			wantErr: "failed to delete old.mp3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NewPruner(tt.store, "folder-1").EnsureSpaceAvailable(context.Background(), tt.needed)

			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("EnsureSpaceAvailable() error = %v, want %q", err, tt.wantErr)
				}
			} else if err != nil {
				t.Fatalf("EnsureSpaceAvailable() unexpected error: %v", err)
			}

			if !reflect.DeepEqual(tt.store.deleted, tt.wantDeleted) {
				t.Errorf("deleted = %v, want %v", tt.store.deleted, tt.wantDeleted)
			}
			if result.FreedBytes != tt.wantFreed {
				t.Errorf("FreedBytes = %d, want %d", result.FreedBytes, tt.wantFreed)
			}
		})
	}
}

func TestService_PublishPrunesBeforeUpload(t *testing.T) {
	remote := &mockRemoteStore{}
	quota := &mockQuotaStore{
		limit: 1000,
		usage: 900,
		files: []delivery.RemoteFile{{ID: "old", Name: "old.mp3", Size: 400}},
	}
	var out bytes.Buffer
	svc := NewService(newChecker(),
		WithRemoteStore(remote, "folder-1"),
		WithPruner(NewPruner(quota, "folder-1")),
		WithOutput(&out),
	)

	artifacts := []delivery.Artifact{{Kind: delivery.KindOutput, Name: "a.mp3", Path: "/out/a.mp3", MediaType: delivery.MediaTypeAudio, Size: 150}}
	if _, err := svc.Publish(context.Background(), artifacts); err != nil {
		t.Fatalf("Publish() unexpected error: %v", err)
	}

	if !reflect.DeepEqual(quota.deleted, []string{"old"}) {
		t.Errorf("pruned = %v, want [old]", quota.deleted)
	}
	if !strings.Contains(out.String(), "Deleted old old.mp3") {
		t.Errorf("output = %q", out.String())
	}
	if remote.lastReq.FileName != "a.mp3" {
		t.Errorf("uploaded %q, want a.mp3", remote.lastReq.FileName)
	}
}

func TestService_PublishStopsWhenPruningFails(t *testing.T) {
	remote := &mockRemoteStore{}
	quota := &mockQuotaStore{limit: 100, usage: 100}
	svc := NewService(newChecker(),
		WithRemoteStore(remote, "folder-1"),
		WithPruner(NewPruner(quota, "folder-1")),
	)

	artifacts := []delivery.Artifact{{Kind: delivery.KindOutput, Name: "a.mp3", Path: "/out/a.mp3", MediaType: delivery.MediaTypeAudio, Size: 150}}
	_, err := svc.Publish(context.Background(), artifacts)
	if err == nil || !strings.Contains(err.Error(), "failed to free space for a.mp3") {
		t.Fatalf("Publish() error = %v, want pruning failure", err)
	}
	for _, c := range remote.calls {
		if strings.HasPrefix(c, "upload") {
			t.Errorf("upload attempted after pruning failed: %v", remote.calls)
		}
	}
}
