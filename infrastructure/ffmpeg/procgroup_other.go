//go:build !unix

package ffmpeg

import "os/exec"

// configureProcessGroup keeps the default behaviour of killing the direct child
func configureProcessGroup(cmd *exec.Cmd) {}
