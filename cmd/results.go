package cmd

import (
	"fmt"
	"os"

	appdelivery "mp3-batch/application/delivery"
	"mp3-batch/domain/delivery"

	"github.com/spf13/cobra"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "List the outputs and bundle currently in the workspace",
	RunE:  runResults,
}

func init() {
	rootCmd.AddCommand(resultsCmd)
}

// WorkspaceArtifactLister lists artifacts present in a workspace
type WorkspaceArtifactLister interface {
	WorkspaceArtifacts(store appdelivery.ResultStore) ([]delivery.Artifact, error)
}

func runResults(cmd *cobra.Command, args []string) error {
	c, err := GetConfig()
	if err != nil {
		return err
	}
	ws, err := newWorkspace(c)
	if err != nil {
		return err
	}
	svc, err := newDeliveryService(cmd.Context(), c, publishMode{}, newLogger(c))
	if err != nil {
		return err
	}
	return RunResultsWithDependencies(svc, ws, os.Stdout)
}

// RunResultsWithDependencies runs the results command with injected dependencies (for testing)
func RunResultsWithDependencies(lister WorkspaceArtifactLister, store appdelivery.ResultStore, output OutputWriter) error {
	artifacts, err := lister.WorkspaceArtifacts(store)
	if err != nil {
		return err
	}
	if len(artifacts) == 0 {
		fmt.Fprintln(output, "No results in workspace. Run 'mp3-batch convert' first.")
		return nil
	}
	fmt.Fprintln(output, renderArtifacts(artifacts))
	return nil
}
