package ffmpeg

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mp3-batch/domain/conversion"
)

// ProbeTimeout is the limit for the side-effect-free version query
const ProbeTimeout = 10 * time.Second

// Version runs `ffmpeg -version` and returns the first line of its output
func (t *Transcoder) Version(ctx context.Context) (string, error) {
	probeCtx, cancel := context.WithTimeout(ctx, t.probeTimeout)
	defer cancel()

	out, err := t.runner.Output(probeCtx, t.ffmpegPath, "-version")
	if err != nil {
		if probeCtx.Err() != nil {
			return "", fmt.Errorf("%w: version query timed out after %s", conversion.ErrTranscoderUnavailable, t.probeTimeout)
		}
		return "", fmt.Errorf("%w: %v", conversion.ErrTranscoderUnavailable, err)
	}

	firstLine, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	return strings.TrimSpace(firstLine), nil
}

// VerifyInstalled checks that ffmpeg is available
func (t *Transcoder) VerifyInstalled(ctx context.Context) error {
	_, err := t.Version(ctx)
	return err
}

// Probe implements conversion.Prober. Every failure mode collapses to false.
func (t *Transcoder) Probe(ctx context.Context) bool {
	return t.VerifyInstalled(ctx) == nil
}

// Ensure Transcoder implements conversion.Prober
var _ conversion.Prober = (*Transcoder)(nil)
