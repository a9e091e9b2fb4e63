package conversion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"mp3-batch/domain/conversion"
)

// --- Mock implementations for testing ---

// mockTranscoder implements conversion.Transcoder for testing
type mockTranscoder struct {
	output     []byte // written to outputPath when non-nil
	err        error
	inputSeen  string
	inputBytes []byte
	calls      int
}

func (m *mockTranscoder) Transcode(ctx context.Context, inputPath, outputPath string) error {
	m.calls++
	m.inputSeen = inputPath
	m.inputBytes, _ = os.ReadFile(inputPath)
	if m.output != nil {
		if err := os.WriteFile(outputPath, m.output, 0o644); err != nil {
			return err
		}
	}
	return m.err
}

// osFileChecker implements conversion.FileChecker against the real filesystem
type osFileChecker struct{}

func (osFileChecker) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (osFileChecker) Size(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}

func newTestWorker(t *testing.T, tr conversion.Transcoder) (*Worker, string, string) {
	t.Helper()
	tempDir := t.TempDir()
	outDir := t.TempDir()
	return NewWorker(tr, osFileChecker{}, tempDir, nil), tempDir, outDir
}

func assertDirEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read %s: %v", dir, err)
	}
	if len(entries) != 0 {
		t.Errorf("expected %s to be empty, found %d entries", dir, len(entries))
	}
}

func TestWorker_Convert_Success(t *testing.T) {
	tr := &mockTranscoder{output: []byte("ID3 audio")}
	w, tempDir, outDir := newTestWorker(t, tr)
	outputPath := filepath.Join(outDir, "a.mp3")

	got := w.Convert(context.Background(), conversion.NewUploadFromBytes("a.mp4", []byte("video bytes")), outputPath)

	if !got.Succeeded {
		t.Fatalf("Convert() failed: %s", got.ErrorMessage)
	}
	if got.OutputPath != outputPath {
		t.Errorf("Convert() OutputPath = %q, want %q", got.OutputPath, outputPath)
	}
	if string(tr.inputBytes) != "video bytes" {
		t.Errorf("transcoder saw input %q, want staged upload content", tr.inputBytes)
	}
	if filepath.Dir(tr.inputSeen) != tempDir {
		t.Errorf("input staged in %q, want %q", filepath.Dir(tr.inputSeen), tempDir)
	}
	if filepath.Ext(tr.inputSeen) != ".mp4" {
		t.Errorf("staged input %q should keep the .mp4 extension", tr.inputSeen)
	}
	assertDirEmpty(t, tempDir)
}

func TestWorker_Convert_Failures(t *testing.T) {
	tests := []struct {
		name        string
		transcoder  *mockTranscoder
		wantMessage string
		wantErr     error
	}{
		{
			name:        "tool exits nonzero",
			transcoder:  &mockTranscoder{err: &conversion.ToolError{ExitCode: 1, Diagnostic: "unsupported codec"}},
			wantMessage: "unsupported codec",
		},
		{
			name:        "timeout leaves partial output",
			transcoder:  &mockTranscoder{output: []byte("partial"), err: conversion.ErrConversionTimeout},
			wantMessage: "conversion exceeded time limit",
			wantErr:     conversion.ErrConversionTimeout,
		},
		{
			name:        "success without output",
			transcoder:  &mockTranscoder{},
			wantMessage: "output file missing or empty",
			wantErr:     conversion.ErrOutputMissing,
		},
		{
			name:        "success with empty output",
			transcoder:  &mockTranscoder{output: []byte{}},
			wantMessage: "output file missing or empty",
			wantErr:     conversion.ErrOutputMissing,
		},
		{
			name:        "launch failure",
			transcoder:  &mockTranscoder{err: fmt.Errorf("%w: exec: permission denied", conversion.ErrLaunchFailed)},
			wantMessage: "failed to start transcoder: exec: permission denied",
			wantErr:     conversion.ErrLaunchFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, tempDir, outDir := newTestWorker(t, tt.transcoder)
			outputPath := filepath.Join(outDir, "b.mp3")

			got := w.Convert(context.Background(), conversion.NewUploadFromBytes("b.mp4", []byte("x")), outputPath)

			if got.Succeeded {
				t.Fatal("Convert() succeeded, want failure")
			}
			if got.ErrorMessage != tt.wantMessage {
				t.Errorf("Convert() ErrorMessage = %q, want %q", got.ErrorMessage, tt.wantMessage)
			}
			if tt.wantErr != nil && !errors.Is(got.Err, tt.wantErr) {
				t.Errorf("Convert() Err = %v, want %v", got.Err, tt.wantErr)
			}
			if _, err := os.Stat(outputPath); !os.IsNotExist(err) {
				t.Errorf("output %s should not exist after a failure", outputPath)
			}
			assertDirEmpty(t, tempDir)
		})
	}
}

func TestWorker_Convert_OpenFails(t *testing.T) {
	tr := &mockTranscoder{}
	w, tempDir, outDir := newTestWorker(t, tr)

	upload := conversion.Upload{
		Name: "c.mp4",
		Size: 10,
		Open: func() (io.ReadCloser, error) { return nil, errors.New("disk unplugged") },
	}
	got := w.Convert(context.Background(), upload, filepath.Join(outDir, "c.mp3"))

	if got.Succeeded {
		t.Fatal("Convert() succeeded, want failure")
	}
	if got.ErrorMessage != "stage input: disk unplugged" {
		t.Errorf("Convert() ErrorMessage = %q", got.ErrorMessage)
	}
	if tr.calls != 0 {
		t.Errorf("transcoder called %d times, want 0", tr.calls)
	}
	assertDirEmpty(t, tempDir)
}

func TestWorker_Convert_NoContent(t *testing.T) {
	w, _, outDir := newTestWorker(t, &mockTranscoder{})

	got := w.Convert(context.Background(), conversion.Upload{Name: "d.mp4", Size: 1}, filepath.Join(outDir, "d.mp3"))

	if got.Succeeded || got.ErrorMessage != "stage input: upload has no content" {
		t.Errorf("Convert() = %+v, want staging failure", got)
	}
}

func TestWorker_Convert_TempDirMissing(t *testing.T) {
	tr := &mockTranscoder{}
	w := NewWorker(tr, osFileChecker{}, filepath.Join(t.TempDir(), "does-not-exist"), nil)

	got := w.Convert(context.Background(), conversion.NewUploadFromBytes("e.mp4", []byte("x")), filepath.Join(t.TempDir(), "e.mp3"))

	if got.Succeeded {
		t.Fatal("Convert() succeeded, want failure")
	}
	if tr.calls != 0 {
		t.Errorf("transcoder called %d times, want 0", tr.calls)
	}
}
