package terminal

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// IsInteractive reports whether w is a terminal
func IsInteractive(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
