package cmd

import (
	"context"
	"fmt"
	"os"

	appdelivery "mp3-batch/application/delivery"

	"github.com/spf13/cobra"
)

var publishPrune bool

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Upload the workspace results to Google Drive with public sharing",
	Long: `Upload the bundle (or the single output when there is no bundle) from the
workspace to the configured Google Drive folder and make it readable by anyone
with the link. A file with the same name in the folder is replaced.

With --prune, the oldest .mp3 and .zip files in the folder are deleted until
the upload fits in the Drive storage quota.

Example:
  mp3-batch publish
  mp3-batch publish --prune`,
	RunE: runPublish,
}

func init() {
	rootCmd.AddCommand(publishCmd)
	publishCmd.Flags().BoolVar(&publishPrune, "prune", false, "Delete the oldest published files when Drive is out of space")
}

func runPublish(cmd *cobra.Command, args []string) error {
	c, err := GetConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	ws, err := newWorkspace(c)
	if err != nil {
		return err
	}
	svc, err := newDeliveryService(ctx, c, publishMode{enabled: true, prune: publishPrune}, newLogger(c))
	if err != nil {
		return err
	}
	return RunPublishWithDependencies(ctx, svc, svc, ws, os.Stdout)
}

// RunPublishWithDependencies runs the publish command with injected dependencies (for testing)
func RunPublishWithDependencies(
	ctx context.Context,
	lister WorkspaceArtifactLister,
	publisher Publisher,
	store appdelivery.ResultStore,
	output OutputWriter,
) error {
	artifacts, err := lister.WorkspaceArtifacts(store)
	if err != nil {
		return err
	}
	if len(artifacts) == 0 {
		return fmt.Errorf("no results in workspace; run 'mp3-batch convert' first")
	}
	return publish(ctx, publisher, artifacts, output)
}
