package conversion

import (
	"errors"
	"fmt"
)

var (
	// ErrTranscoderUnavailable is returned when the external transcoder cannot be run at all
	ErrTranscoderUnavailable = errors.New("transcoder not found or not executable")

	// ErrConversionTimeout is returned when a conversion runs past its time limit
	ErrConversionTimeout = errors.New("conversion exceeded time limit")

	// ErrOutputMissing is returned when the transcoder reports success but wrote nothing
	ErrOutputMissing = errors.New("output file missing or empty")

	// ErrLaunchFailed is returned when the transcoder process could not be started
	ErrLaunchFailed = errors.New("failed to start transcoder")

	// ErrMissingOutput is returned by the bundler when a confirmed output has vanished.
	// This indicates a defect rather than a user error.
	ErrMissingOutput = errors.New("bundled output no longer exists")
)

// ToolError describes a transcoder run that exited with a nonzero status
type ToolError struct {
	ExitCode   int
	Diagnostic string // Last non-empty line of the diagnostic stream
}

func (e *ToolError) Error() string {
	if e.Diagnostic != "" {
		return e.Diagnostic
	}
	return fmt.Sprintf("transcoder exited with code %d", e.ExitCode)
}
