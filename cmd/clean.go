package cmd

import (
	"fmt"
	"os"

	appbatch "mp3-batch/application/batch"

	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove all outputs and the bundle from the workspace",
	RunE:  runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}

// Resetter clears the workspace
type Resetter interface {
	Reset() error
}

func runClean(cmd *cobra.Command, args []string) error {
	c, err := GetConfig()
	if err != nil {
		return err
	}
	ws, err := newWorkspace(c)
	if err != nil {
		return err
	}
	return RunCleanWithDependencies(ws, os.Stdout)
}

// RunCleanWithDependencies runs the clean command with injected dependencies (for testing).
// A workspace that supports locking is locked so a running batch is not disturbed.
func RunCleanWithDependencies(ws Resetter, output OutputWriter) error {
	if locker, ok := ws.(appbatch.Locker); ok {
		if err := locker.Lock(); err != nil {
			return fmt.Errorf("lock workspace: %w", err)
		}
		defer locker.Unlock()
	}

	if err := ws.Reset(); err != nil {
		return fmt.Errorf("clear workspace: %w", err)
	}
	fmt.Fprintln(output, "Workspace cleared.")
	return nil
}
