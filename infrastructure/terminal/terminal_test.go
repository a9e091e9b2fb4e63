package terminal

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mp3-batch/domain/conversion"
)

func TestRenderTable(t *testing.T) {
	out := RenderTable(
		[]string{"File", "Size"},
		[][]string{{"a.mp3", "1.0 MiB"}, {"b.mp3"}},
		[]Alignment{AlignLeft, AlignRight},
	)

	for _, want := range []string{"File", "Size", "a.mp3", "1.0 MiB", "b.mp3", "╭"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderTable() missing %q:\n%s", want, out)
		}
	}

	if got := RenderTable(nil, [][]string{{"x"}}, nil); got != "" {
		t.Errorf("RenderTable() without headers = %q, want empty", got)
	}
}

func TestIsInteractive(t *testing.T) {
	if IsInteractive(&bytes.Buffer{}) {
		t.Error("IsInteractive(buffer) = true")
	}

	f, err := os.Create(filepath.Join(t.TempDir(), "out.txt"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if IsInteractive(f) {
		t.Error("IsInteractive(regular file) = true")
	}
}

func TestNewProgressObserver_NonTerminal(t *testing.T) {
	var buf bytes.Buffer
	obs := NewProgressObserver(&buf)
	if _, ok := obs.(*ProgressLog); !ok {
		t.Fatalf("NewProgressObserver(buffer) = %T, want *ProgressLog", obs)
	}

	obs.OnProgress(conversion.Progress{State: conversion.StateClearing, Total: 2})
	obs.OnProgress(conversion.Progress{State: conversion.StateProcessing, Completed: 0, Total: 2, Current: "a.mp4"})
	obs.OnProgress(conversion.Progress{State: conversion.StateProcessing, Completed: 1, Total: 2, Current: "b.mp4"})
	obs.OnProgress(conversion.Progress{State: conversion.StateBundling, Completed: 2, Total: 2})
	obs.OnProgress(conversion.Progress{State: conversion.StateDone, Completed: 2, Total: 2})

	want := "[1/2] Converting a.mp4\n[2/2] Converting b.mp4\nBundling outputs...\n"
	if buf.String() != want {
		t.Errorf("progress log = %q, want %q", buf.String(), want)
	}
}

func TestProgressBar(t *testing.T) {
	var buf bytes.Buffer
	bar := NewProgressBar(&buf)

	// Empty batches never create a bar
	bar.OnProgress(conversion.Progress{State: conversion.StateDone})
	if bar.bar != nil {
		t.Fatal("bar created for empty batch")
	}

	bar.OnProgress(conversion.Progress{State: conversion.StateClearing, Total: 2})
	bar.OnProgress(conversion.Progress{State: conversion.StateProcessing, Completed: 0, Total: 2, Current: "a.mp4"})
	bar.OnProgress(conversion.Progress{State: conversion.StateProcessing, Completed: 1, Total: 2, Current: "b.mp4"})
	bar.OnProgress(conversion.Progress{State: conversion.StateDone, Completed: 2, Total: 2})

	if bar.bar == nil {
		t.Fatal("bar not created")
	}
	if !bar.bar.IsFinished() {
		t.Error("bar not finished after Done")
	}
}
