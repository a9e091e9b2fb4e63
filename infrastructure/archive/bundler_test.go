package archive

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"

	"mp3-batch/domain/conversion"
)

func writeOutputs(t *testing.T, dir string, files map[string]string) []string {
	t.Helper()
	var paths []string
	for name, content := range files {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func readArchive(t *testing.T, path string) map[string]string {
	t.Helper()
	r, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer r.Close()

	entries := map[string]string{}
	for _, f := range r.File {
		if f.Method != zip.Deflate {
			t.Errorf("entry %s method = %d, want deflate", f.Name, f.Method)
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatal(err)
		}
		entries[f.Name] = string(data)
	}
	return entries
}

func TestBundler_Bundle(t *testing.T) {
	dir := t.TempDir()
	paths := writeOutputs(t, dir, map[string]string{
		"a.mp3": "audio a",
		"b.mp3": strings.Repeat("audio b ", 100),
	})

	b := NewBundler(dir, "all_mp3.zip")
	got, err := b.Bundle(paths)
	if err != nil {
		t.Fatalf("Bundle() unexpected error: %v", err)
	}
	if got != filepath.Join(dir, "all_mp3.zip") {
		t.Errorf("Bundle() path = %q", got)
	}

	want := map[string]string{
		"a.mp3": "audio a",
		"b.mp3": strings.Repeat("audio b ", 100),
	}
	if entries := readArchive(t, got); !reflect.DeepEqual(entries, want) {
		t.Errorf("archive entries = %v, want %v", entries, want)
	}
}

func TestBundler_EntriesAreFlat(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "nested")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	paths := writeOutputs(t, sub, map[string]string{"deep.mp3": "x"})

	got, err := NewBundler(dir, "all_mp3.zip").Bundle(paths)
	if err != nil {
		t.Fatalf("Bundle() unexpected error: %v", err)
	}
	if _, ok := readArchive(t, got)["deep.mp3"]; !ok {
		t.Error("entry not stored under its base name")
	}
}

func TestBundler_OverwritesExisting(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "all_mp3.zip"), []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}
	paths := writeOutputs(t, dir, map[string]string{"new.mp3": "fresh"})

	got, err := NewBundler(dir, "all_mp3.zip").Bundle(paths)
	if err != nil {
		t.Fatalf("Bundle() unexpected error: %v", err)
	}
	entries := readArchive(t, got)
	if len(entries) != 1 || entries["new.mp3"] != "fresh" {
		t.Errorf("archive entries = %v, want only new.mp3", entries)
	}
}

func TestBundler_MissingInput(t *testing.T) {
	dir := t.TempDir()
	paths := writeOutputs(t, dir, map[string]string{"a.mp3": "a"})
	paths = append(paths, filepath.Join(dir, "gone.mp3"))

	_, err := NewBundler(dir, "all_mp3.zip", WithTempPattern(".bundle-*.tmp")).Bundle(paths)
	if !errors.Is(err, conversion.ErrMissingOutput) {
		t.Fatalf("Bundle() error = %v, want ErrMissingOutput", err)
	}

	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if e.Name() != "a.mp3" {
			t.Errorf("unexpected file left behind: %s", e.Name())
		}
	}
}
