//go:build integration

package steps

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	appbatch "mp3-batch/application/batch"
	appconversion "mp3-batch/application/conversion"
	appdelivery "mp3-batch/application/delivery"
	"mp3-batch/cmd"
	"mp3-batch/domain/conversion"
	"mp3-batch/infrastructure/archive"
	"mp3-batch/infrastructure/filesystem"
	"mp3-batch/infrastructure/workspace"

	"github.com/cucumber/godog"
	"github.com/klauspost/compress/zip"
)

// fakeTranscoder stands in for ffmpeg. Behaviour is chosen per output stem.
type fakeTranscoder struct {
	available bool
	failures  map[string]*conversion.ToolError
	timeouts  map[string]bool
	silent    map[string]bool
	calls     int
}

func (f *fakeTranscoder) Probe(ctx context.Context) bool {
	return f.available
}

func (f *fakeTranscoder) Transcode(ctx context.Context, inputPath, outputPath string) error {
	f.calls++
	stem := strings.TrimSuffix(filepath.Base(outputPath), filepath.Ext(outputPath))

	if toolErr, ok := f.failures[stem]; ok {
		return toolErr
	}
	if f.timeouts[stem] {
		// A killed ffmpeg leaves a partial file behind
		_ = os.WriteFile(outputPath, []byte("partial"), 0o644)
		return conversion.ErrConversionTimeout
	}
	if f.silent[stem] {
		return nil
	}
	return os.WriteFile(outputPath, []byte("ID3 "+stem), 0o644)
}

// convertContext holds test state for conversion scenarios
type convertContext struct {
	tempDir     string
	ws          *workspace.Workspace
	transcoder  *fakeTranscoder
	uploads     []conversion.Upload
	report      *conversion.Report
	output      *bytes.Buffer
	err         error
	otherHolder *workspace.Workspace
}

// SharedConvertContext is reset before each scenario via Before hook
var SharedConvertContext *convertContext

func getConvertContext() *convertContext {
	return SharedConvertContext
}

// recordingSubmitter keeps the report so steps can inspect the batch result
type recordingSubmitter struct {
	inner *appbatch.Service
	tc    *convertContext
}

func (r *recordingSubmitter) Submit(ctx context.Context, uploads []conversion.Upload) (*conversion.Report, error) {
	report, err := r.inner.Submit(ctx, uploads)
	r.tc.report = report
	return report, err
}

func InitializeConvertScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		tempDir, err := os.MkdirTemp("", "convert-test-*")
		if err != nil {
			return c, err
		}
		ws := workspace.New(filepath.Join(tempDir, "output"))
		if err := ws.EnsureExists(); err != nil {
			return c, err
		}
		SharedConvertContext = &convertContext{
			tempDir: tempDir,
			ws:      ws,
			transcoder: &fakeTranscoder{
				failures: map[string]*conversion.ToolError{},
				timeouts: map[string]bool{},
				silent:   map[string]bool{},
			},
			output: &bytes.Buffer{},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		tc := getConvertContext()
		if tc != nil {
			if tc.otherHolder != nil {
				_ = tc.otherHolder.Unlock()
			}
			os.RemoveAll(tc.tempDir)
		}
		SharedConvertContext = nil
		return c, nil
	})

	ctx.Step(`^ffmpeg is available$`, ffmpegIsAvailable)
	ctx.Step(`^ffmpeg is not available$`, ffmpegIsNotAvailable)
	ctx.Step(`^the following uploads:$`, theFollowingUploads)
	ctx.Step(`^the transcoder fails on "([^"]*)" with exit code (\d+) and diagnostic "([^"]*)"$`, theTranscoderFailsOn)
	ctx.Step(`^the transcoder times out on "([^"]*)"$`, theTranscoderTimesOutOn)
	ctx.Step(`^the transcoder writes nothing for "([^"]*)"$`, theTranscoderWritesNothingFor)
	ctx.Step(`^the workspace already contains "([^"]*)"$`, theWorkspaceAlreadyContains)
	ctx.Step(`^the workspace already contains a bundle$`, theWorkspaceAlreadyContainsABundle)
	ctx.Step(`^another batch holds the workspace$`, anotherBatchHoldsTheWorkspace)

	ctx.Step(`^I convert the uploads$`, iConvertTheUploads)
	ctx.Step(`^I clean the workspace$`, iCleanTheWorkspace)
	ctx.Step(`^I list the results$`, iListTheResults)

	ctx.Step(`^"([^"]*)" is rejected with "([^"]*)"$`, isRejectedWith)
	ctx.Step(`^"([^"]*)" failed with "([^"]*)"$`, failedWith)
	ctx.Step(`^the batch has (\d+) success(?:es)? and (\d+) failures?$`, theBatchHasSuccessesAndFailures)
	ctx.Step(`^the workspace contains "([^"]*)"$`, theWorkspaceContains)
	ctx.Step(`^the workspace does not contain "([^"]*)"$`, theWorkspaceDoesNotContain)
	ctx.Step(`^the workspace has no outputs$`, theWorkspaceHasNoOutputs)
	ctx.Step(`^no bundle is created$`, noBundleIsCreated)
	ctx.Step(`^the bundle contains exactly "([^"]*)"$`, theBundleContainsExactly)
	ctx.Step(`^the output contains "([^"]*)"$`, theOutputContains)
	ctx.Step(`^the command fails with "([^"]*)"$`, theCommandFailsWith)
	ctx.Step(`^the transcoder was never called$`, theTranscoderWasNeverCalled)
}

func ffmpegIsAvailable() error {
	getConvertContext().transcoder.available = true
	return nil
}

func ffmpegIsNotAvailable() error {
	getConvertContext().transcoder.available = false
	return nil
}

func theFollowingUploads(table *godog.Table) error {
	tc := getConvertContext()
	for i, row := range table.Rows {
		if i == 0 {
			continue
		}
		name := row.Cells[0].Value
		sizeMB, err := strconv.ParseInt(row.Cells[1].Value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid size for %s: %w", name, err)
		}
		content := []byte("video " + name)
		tc.uploads = append(tc.uploads, conversion.Upload{
			Name: name,
			// Declared size drives validation; content stays small
			Size: sizeMB << 20,
			Open: func() (io.ReadCloser, error) {
				return io.NopCloser(bytes.NewReader(content)), nil
			},
		})
	}
	return nil
}

func theTranscoderFailsOn(stem string, code int, diagnostic string) error {
	getConvertContext().transcoder.failures[stem] = &conversion.ToolError{ExitCode: code, Diagnostic: diagnostic}
	return nil
}

func theTranscoderTimesOutOn(stem string) error {
	getConvertContext().transcoder.timeouts[stem] = true
	return nil
}

func theTranscoderWritesNothingFor(stem string) error {
	getConvertContext().transcoder.silent[stem] = true
	return nil
}

func theWorkspaceAlreadyContains(name string) error {
	tc := getConvertContext()
	return os.WriteFile(tc.ws.OutputPath(name), []byte("old"), 0o644)
}

func theWorkspaceAlreadyContainsABundle() error {
	tc := getConvertContext()
	return os.WriteFile(tc.ws.BundlePath(), []byte("old zip"), 0o644)
}

func anotherBatchHoldsTheWorkspace() error {
	tc := getConvertContext()
	tc.otherHolder = workspace.New(tc.ws.Dir())
	return tc.otherHolder.Lock()
}

func iConvertTheUploads() error {
	tc := getConvertContext()

	stageDir := filepath.Join(tc.tempDir, "stage")
	if err := os.MkdirAll(stageDir, 0o755); err != nil {
		return err
	}

	worker := appconversion.NewWorker(tc.transcoder, filesystem.NewChecker(), stageDir, nil)
	bundler := archive.NewBundler(tc.ws.Dir(), workspace.BundleName, archive.WithTempPattern(tc.ws.BundleTempPattern()))
	batchSvc := appbatch.NewService(tc.ws, worker, bundler)
	deliverySvc := appdelivery.NewService(filesystem.NewChecker())

	tc.err = cmd.RunConvertWithDependencies(
		context.Background(),
		tc.transcoder,
		&recordingSubmitter{inner: batchSvc, tc: tc},
		deliverySvc,
		nil,
		tc.uploads,
		tc.output,
	)
	return nil
}

func iCleanTheWorkspace() error {
	tc := getConvertContext()
	tc.err = cmd.RunCleanWithDependencies(tc.ws, tc.output)
	return tc.err
}

func iListTheResults() error {
	tc := getConvertContext()
	return cmd.RunResultsWithDependencies(appdelivery.NewService(filesystem.NewChecker()), tc.ws, tc.output)
}

func isRejectedWith(name, reason string) error {
	tc := getConvertContext()
	if tc.report == nil {
		return fmt.Errorf("no batch was run")
	}
	for _, r := range tc.report.Rejected {
		if r.Name == name {
			if r.Reason != reason {
				return fmt.Errorf("%s rejected with %q, want %q", name, r.Reason, reason)
			}
			return nil
		}
	}
	return fmt.Errorf("%s was not rejected; rejections: %+v", name, tc.report.Rejected)
}

func failedWith(name, message string) error {
	result, err := batchResult()
	if err != nil {
		return err
	}
	for _, f := range result.Failures {
		if f.Name == name {
			if f.Message != message {
				return fmt.Errorf("%s failed with %q, want %q", name, f.Message, message)
			}
			return nil
		}
	}
	return fmt.Errorf("%s did not fail; failures: %+v", name, result.Failures)
}

func theBatchHasSuccessesAndFailures(successes, failures int) error {
	result, err := batchResult()
	if err != nil {
		return err
	}
	if len(result.Successes) != successes || len(result.Failures) != failures {
		return fmt.Errorf("batch has %d successes and %d failures, want %d and %d (%+v)",
			len(result.Successes), len(result.Failures), successes, failures, result.Failures)
	}
	return nil
}

func batchResult() (*conversion.BatchResult, error) {
	tc := getConvertContext()
	if tc.err != nil {
		return nil, fmt.Errorf("convert failed: %w\n%s", tc.err, tc.output.String())
	}
	if tc.report == nil || tc.report.Result == nil {
		return nil, fmt.Errorf("no batch result")
	}
	return tc.report.Result, nil
}

func theWorkspaceContains(name string) error {
	tc := getConvertContext()
	info, err := os.Stat(tc.ws.OutputPath(name))
	if err != nil {
		return fmt.Errorf("expected %s in workspace: %w", name, err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("%s is empty", name)
	}
	return nil
}

func theWorkspaceDoesNotContain(name string) error {
	tc := getConvertContext()
	if _, err := os.Stat(tc.ws.OutputPath(name)); err == nil {
		return fmt.Errorf("expected %s to be absent from workspace", name)
	}
	return nil
}

func theWorkspaceHasNoOutputs() error {
	outputs, err := getConvertContext().ws.Outputs()
	if err != nil {
		return err
	}
	if len(outputs) != 0 {
		return fmt.Errorf("workspace still has outputs: %v", outputs)
	}
	return nil
}

func noBundleIsCreated() error {
	tc := getConvertContext()
	if tc.ws.HasBundle() {
		return fmt.Errorf("expected no bundle in workspace")
	}
	if tc.report != nil && tc.report.Result != nil && tc.report.Result.HasBundle() {
		return fmt.Errorf("batch result reports a bundle at %s", tc.report.Result.BundlePath)
	}
	return nil
}

func theBundleContainsExactly(list string) error {
	tc := getConvertContext()

	var want []string
	for _, name := range strings.Split(list, ",") {
		want = append(want, strings.TrimSpace(name))
	}
	sort.Strings(want)

	r, err := zip.OpenReader(tc.ws.BundlePath())
	if err != nil {
		return fmt.Errorf("open bundle: %w", err)
	}
	defer r.Close()

	var got []string
	for _, f := range r.File {
		got = append(got, f.Name)
	}
	sort.Strings(got)

	if strings.Join(got, "|") != strings.Join(want, "|") {
		return fmt.Errorf("bundle entries = %v, want %v", got, want)
	}
	return nil
}

func theOutputContains(text string) error {
	tc := getConvertContext()
	if !strings.Contains(tc.output.String(), text) {
		return fmt.Errorf("output does not contain %q:\n%s", text, tc.output.String())
	}
	return nil
}

func theCommandFailsWith(text string) error {
	tc := getConvertContext()
	if tc.err == nil {
		return fmt.Errorf("expected command to fail, output:\n%s", tc.output.String())
	}
	if !strings.Contains(tc.err.Error(), text) {
		return fmt.Errorf("error %q does not contain %q", tc.err.Error(), text)
	}
	return nil
}

func theTranscoderWasNeverCalled() error {
	if calls := getConvertContext().transcoder.calls; calls != 0 {
		return fmt.Errorf("transcoder called %d times", calls)
	}
	return nil
}
