package conversion

import (
	"errors"
	"fmt"
	"testing"
)

func TestFailed_Messages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"timeout", ErrConversionTimeout, "conversion exceeded time limit"},
		{"missing output", ErrOutputMissing, "output file missing or empty"},
		{"tool diagnostic", &ToolError{ExitCode: 1, Diagnostic: "unsupported codec"}, "unsupported codec"},
		{"tool without diagnostic", &ToolError{ExitCode: 69}, "transcoder exited with code 69"},
		{"launch failure", fmt.Errorf("%w: permission denied", ErrLaunchFailed), "failed to start transcoder: permission denied"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Failed(tt.err)
			if got.Succeeded {
				t.Error("Failed() outcome reports success")
			}
			if got.ErrorMessage != tt.want {
				t.Errorf("Failed() ErrorMessage = %q, want %q", got.ErrorMessage, tt.want)
			}
			if !errors.Is(got.Err, tt.err) {
				t.Errorf("Failed() Err = %v, want %v", got.Err, tt.err)
			}
		})
	}
}

func TestSucceeded(t *testing.T) {
	got := Succeeded("/out/a.mp3")
	if !got.Succeeded || got.OutputPath != "/out/a.mp3" || got.ErrorMessage != "" {
		t.Errorf("Succeeded() = %+v", got)
	}
}

func TestState_String(t *testing.T) {
	if got := StateBundling.String(); got != "bundling" {
		t.Errorf("StateBundling.String() = %q", got)
	}
	if got := State(99).String(); got != "unknown" {
		t.Errorf("State(99).String() = %q", got)
	}
}
