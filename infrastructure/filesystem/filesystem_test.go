package filesystem

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestChecker(t *testing.T) {
	dir := t.TempDir()
	full := filepath.Join(dir, "full.mp3")
	empty := filepath.Join(dir, "empty.mp3")
	if err := os.WriteFile(full, []byte("12345"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	c := NewChecker()

	tests := []struct {
		name       string
		path       string
		wantExists bool
		wantSize   int64
	}{
		{"regular file", full, true, 5},
		{"empty file", empty, true, 0},
		{"missing file", filepath.Join(dir, "missing.mp3"), false, 0},
		{"directory", dir, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Exists(tt.path); got != tt.wantExists {
				t.Errorf("Exists() = %v, want %v", got, tt.wantExists)
			}
			if tt.name == "directory" {
				return
			}
			if got := c.Size(tt.path); got != tt.wantSize {
				t.Errorf("Size() = %d, want %d", got, tt.wantSize)
			}
		})
	}
}

func TestNewFileUpload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Clip One.mp4")
	if err := os.WriteFile(path, []byte("video bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	u, err := NewFileUpload(path)
	if err != nil {
		t.Fatalf("NewFileUpload() unexpected error: %v", err)
	}
	if u.Name != "Clip One.mp4" || u.Size != 11 {
		t.Errorf("upload = {%q, %d}, want {Clip One.mp4, 11}", u.Name, u.Size)
	}

	rc, err := u.Open()
	if err != nil {
		t.Fatalf("Open() unexpected error: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "video bytes" {
		t.Errorf("content = %q", data)
	}
}

func TestNewFileUpload_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := NewFileUpload(filepath.Join(dir, "missing.mp4")); err == nil {
		t.Error("NewFileUpload() on missing file expected error")
	}
	if _, err := NewFileUpload(dir); err == nil {
		t.Error("NewFileUpload() on directory expected error")
	}
}

func TestCollectUploads(t *testing.T) {
	dir := t.TempDir()
	batchDir := filepath.Join(dir, "batch")
	if err := os.MkdirAll(filepath.Join(batchDir, "skip"), 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"b.mp4", "a.mp4", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(batchDir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	single := filepath.Join(dir, "single.mp4")
	if err := os.WriteFile(single, []byte("y"), 0o644); err != nil {
		t.Fatal(err)
	}

	uploads, err := CollectUploads([]string{single, batchDir})
	if err != nil {
		t.Fatalf("CollectUploads() unexpected error: %v", err)
	}

	var names []string
	for _, u := range uploads {
		names = append(names, u.Name)
	}
	want := []string{"single.mp4", "a.mp4", "b.mp4", "notes.txt"}
	if len(names) != len(want) {
		t.Fatalf("CollectUploads() names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}

	if _, err := CollectUploads([]string{filepath.Join(dir, "nope")}); err == nil {
		t.Error("CollectUploads() with missing path expected error")
	}
}
