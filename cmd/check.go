package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that ffmpeg is installed and runnable",
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

// VersionReporter reports the transcoder version
type VersionReporter interface {
	Version(ctx context.Context) (string, error)
}

func runCheck(cmd *cobra.Command, args []string) error {
	c, err := GetConfig()
	if err != nil {
		return err
	}
	return RunCheckWithDependencies(cmd.Context(), newTranscoder(c, newLogger(c)), os.Stdout)
}

// RunCheckWithDependencies runs the check command with injected dependencies (for testing)
func RunCheckWithDependencies(ctx context.Context, reporter VersionReporter, output OutputWriter) error {
	version, err := reporter.Version(ctx)
	if err != nil {
		fmt.Fprint(output, installHint)
		return err
	}
	fmt.Fprintf(output, "ffmpeg OK: %s\n", version)
	return nil
}
