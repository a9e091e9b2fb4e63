package ffmpeg

import "strings"

// LastDiagnosticLine returns the last non-empty line of a diagnostic stream.
// ffmpeg rewrites its progress line with carriage returns, so both \r and \n
// are treated as line breaks.
func LastDiagnosticLine(stderr string) string {
	lines := strings.FieldsFunc(stderr, func(r rune) bool {
		return r == '\n' || r == '\r'
	})
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}

// tailBuffer is an io.Writer that retains only the last limit bytes written
type tailBuffer struct {
	limit int
	buf   []byte
}

func newTailBuffer(limit int) *tailBuffer {
	return &tailBuffer{limit: limit}
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	n := len(p)
	if len(p) >= b.limit {
		b.buf = append(b.buf[:0], p[len(p)-b.limit:]...)
		return n, nil
	}
	b.buf = append(b.buf, p...)
	if over := len(b.buf) - b.limit; over > 0 {
		b.buf = append(b.buf[:0], b.buf[over:]...)
	}
	return n, nil
}

func (b *tailBuffer) String() string {
	return string(b.buf)
}
