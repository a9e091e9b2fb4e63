package terminal

import (
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"

	"mp3-batch/domain/conversion"
)

// ProgressBar renders batch progress as a terminal progress bar.
// The bar is created on the first event that carries a total.
type ProgressBar struct {
	out io.Writer
	bar *progressbar.ProgressBar
}

// NewProgressBar creates a progress observer writing to out
func NewProgressBar(out io.Writer) *ProgressBar {
	return &ProgressBar{out: out}
}

// OnProgress implements conversion.ProgressObserver
func (p *ProgressBar) OnProgress(ev conversion.Progress) {
	if ev.Total == 0 {
		return
	}
	if p.bar == nil {
		p.bar = progressbar.NewOptions(ev.Total,
			progressbar.OptionSetWriter(p.out),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(30),
			progressbar.OptionClearOnFinish(),
		)
	}

	switch ev.State {
	case conversion.StateClearing:
		p.bar.Describe("Clearing workspace")
	case conversion.StateProcessing:
		p.bar.Describe(fmt.Sprintf("Converting %d/%d: %s", ev.Completed+1, ev.Total, ev.Current))
		_ = p.bar.Set(ev.Completed)
	case conversion.StateBundling:
		p.bar.Describe("Bundling")
		_ = p.bar.Set(ev.Completed)
	case conversion.StateDone:
		_ = p.bar.Finish()
	}
}

// ProgressLog writes one line per progress event; used when output is not a terminal
type ProgressLog struct {
	out io.Writer
}

// NewProgressLog creates a line-oriented progress observer
func NewProgressLog(out io.Writer) *ProgressLog {
	return &ProgressLog{out: out}
}

// OnProgress implements conversion.ProgressObserver
func (p *ProgressLog) OnProgress(ev conversion.Progress) {
	switch ev.State {
	case conversion.StateProcessing:
		fmt.Fprintf(p.out, "[%d/%d] Converting %s\n", ev.Completed+1, ev.Total, ev.Current)
	case conversion.StateBundling:
		fmt.Fprintln(p.out, "Bundling outputs...")
	}
}

// NewProgressObserver picks a progress bar for terminals and plain lines otherwise
func NewProgressObserver(out io.Writer) conversion.ProgressObserver {
	if IsInteractive(out) {
		return NewProgressBar(out)
	}
	return NewProgressLog(out)
}

var (
	_ conversion.ProgressObserver = (*ProgressBar)(nil)
	_ conversion.ProgressObserver = (*ProgressLog)(nil)
)
