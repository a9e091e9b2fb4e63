package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"mp3-batch/domain/conversion"
	"mp3-batch/domain/delivery"
	"mp3-batch/infrastructure/filesystem"
	"mp3-batch/infrastructure/terminal"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// installHint is shown when ffmpeg cannot be run
const installHint = `ffmpeg not found or not runnable.

Install ffmpeg:
  - Ubuntu/Debian: sudo apt install ffmpeg
  - Mac:           brew install ffmpeg
  - Windows:       https://ffmpeg.org/download.html

Or point ffmpeg.path in the config at an existing binary.
`

var (
	convertPublish bool
	convertPrune   bool
)

var convertCmd = &cobra.Command{
	Use:   "convert <file|dir>...",
	Short: "Convert .mp4 files to .mp3",
	Long: `Convert a batch of .mp4 files to .mp3.

Each argument is a file or a directory; directories contribute the files they
contain. Files that are not .mp4, are empty or exceed 500 MiB are rejected and
listed. The workspace is cleared before the batch starts. When more than one
file converts successfully, all outputs are also bundled into all_mp3.zip.

Example:
  mp3-batch convert talk1.mp4 talk2.mp4
  mp3-batch convert ./recordings --publish`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().BoolVar(&convertPublish, "publish", false, "Upload the bundle (or single output) to Google Drive")
	convertCmd.Flags().BoolVar(&convertPrune, "prune", false, "With --publish, delete the oldest published files when Drive is out of space")
}

// BatchSubmitter validates uploads and runs a batch over the accepted ones
type BatchSubmitter interface {
	Submit(ctx context.Context, uploads []conversion.Upload) (*conversion.Report, error)
}

// ArtifactPresenter turns a batch result into retrievable artifacts
type ArtifactPresenter interface {
	Artifacts(result *conversion.BatchResult) []delivery.Artifact
}

// Publisher uploads artifacts to remote storage
type Publisher interface {
	Publish(ctx context.Context, artifacts []delivery.Artifact) (*delivery.UploadResult, error)
}

func runConvert(cmd *cobra.Command, args []string) error {
	c, err := GetConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	logger := newLogger(c)

	uploads, err := filesystem.CollectUploads(args)
	if err != nil {
		return err
	}

	ws, err := newWorkspace(c)
	if err != nil {
		return err
	}

	deliverySvc, err := newDeliveryService(ctx, c, publishMode{}, logger)
	if err != nil {
		return err
	}

	transcoder := newTranscoder(c, logger)
	batchSvc := newBatchService(c, ws, transcoder, terminal.NewProgressObserver(os.Stdout), logger)

	var publisher Publisher
	if convertPublish {
		publisher = &lazyPublisher{build: func() (Publisher, error) {
			svc, err := newDeliveryService(ctx, c, publishMode{enabled: true, prune: convertPrune}, logger)
			if err != nil {
				return nil, err
			}
			return svc, nil
		}}
	}

	return RunConvertWithDependencies(ctx, transcoder, batchSvc, deliverySvc, publisher, uploads, os.Stdout)
}

// RunConvertWithDependencies runs the convert command with injected dependencies (for testing).
// publisher may be nil to skip publishing.
func RunConvertWithDependencies(
	ctx context.Context,
	prober conversion.Prober,
	submitter BatchSubmitter,
	presenter ArtifactPresenter,
	publisher Publisher,
	uploads []conversion.Upload,
	output OutputWriter,
) error {
	if !prober.Probe(ctx) {
		fmt.Fprint(output, installHint)
		return conversion.ErrTranscoderUnavailable
	}

	accepted, rejected := conversion.Partition(uploads)
	printQueue(output, accepted, rejected)

	if len(accepted) == 0 {
		fmt.Fprintln(output, "No valid files to convert.")
		return nil
	}

	report, err := submitter.Submit(ctx, uploads)
	if report == nil || report.Result == nil {
		if err == nil {
			err = errors.New("batch produced no result")
		}
		return err
	}

	artifacts := presenter.Artifacts(report.Result)
	printSummary(output, report.Result, artifacts)

	// An interrupted batch or a bundling failure still leaves the
	// individual outputs available
	if err != nil {
		return err
	}

	if publisher == nil {
		return nil
	}
	if len(artifacts) == 0 {
		fmt.Fprintln(output, "Nothing to publish.")
		return nil
	}
	return publish(ctx, publisher, artifacts, output)
}

func printQueue(output OutputWriter, accepted []conversion.Upload, rejected []conversion.Rejection) {
	fmt.Fprintf(output, "Valid files: %d   Invalid files: %d\n", len(accepted), len(rejected))

	if len(rejected) > 0 {
		fmt.Fprintln(output, "\nValidation errors:")
		for _, r := range rejected {
			fmt.Fprintf(output, "  - %s: %s\n", r.Name, r.Reason)
		}
	}

	if len(accepted) > 0 {
		fmt.Fprintln(output, "\nConversion queue:")
		for i, u := range accepted {
			fmt.Fprintf(output, "  %d. %s (%s)\n", i+1, u.Name, humanize.IBytes(uint64(u.Size)))
		}
	}
	fmt.Fprintln(output)
}

func printSummary(output OutputWriter, result *conversion.BatchResult, artifacts []delivery.Artifact) {
	fmt.Fprintf(output, "\n%d/%d file(s) converted\n", len(result.Successes), result.Total())

	if len(artifacts) > 0 {
		fmt.Fprintln(output, renderArtifacts(artifacts))
	}

	if len(result.Failures) > 0 {
		fmt.Fprintln(output, "Conversion errors:")
		for _, f := range result.Failures {
			fmt.Fprintf(output, "  - %s: %s\n", f.Name, f.Message)
		}
	}
}

func renderArtifacts(artifacts []delivery.Artifact) string {
	rows := make([][]string, 0, len(artifacts))
	for _, a := range artifacts {
		rows = append(rows, []string{
			a.Name,
			a.MediaType,
			humanize.IBytes(uint64(a.Size)),
			a.Path,
		})
	}
	return terminal.RenderTable(
		[]string{"File", "Type", "Size", "Path"},
		rows,
		[]terminal.Alignment{terminal.AlignLeft, terminal.AlignLeft, terminal.AlignRight, terminal.AlignLeft},
	)
}

func publish(ctx context.Context, publisher Publisher, artifacts []delivery.Artifact, output OutputWriter) error {
	result, err := publisher.Publish(ctx, artifacts)
	if err != nil {
		return fmt.Errorf("publish failed: %w", err)
	}
	fmt.Fprintf(output, "Published %s\n", result.FileName)
	fmt.Fprintf(output, "  File ID: %s\n", result.FileID)
	fmt.Fprintf(output, "  Shareable URL: %s\n", result.ShareableURL)
	return nil
}
