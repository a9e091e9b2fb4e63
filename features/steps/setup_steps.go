//go:build integration

package steps

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mp3-batch/cmd"
	"mp3-batch/infrastructure/config"

	"github.com/cucumber/godog"
)

type setupContext struct {
	tempDir         string
	configPath      string
	originalContent string
	inputs          []string
	selects         []string
	confirms        []bool
	output          *bytes.Buffer
	err             error
}

var SharedSetupContext = &setupContext{}

// MockPrompter implements cmd.Prompter for testing
type MockPrompter struct {
	inputResponses   []string
	selectResponses  []string
	confirmResponses []bool
	inputIndex       int
	selectIndex      int
	confirmIndex     int
}

func NewMockPrompter(inputs, selects []string, confirms []bool) *MockPrompter {
	return &MockPrompter{
		inputResponses:   inputs,
		selectResponses:  selects,
		confirmResponses: confirms,
	}
}

func (m *MockPrompter) Input(message string, defaultValue string) (string, error) {
	if m.inputIndex >= len(m.inputResponses) {
		if defaultValue != "" {
			return defaultValue, nil
		}
		return "", fmt.Errorf("no more input responses available for message: %s", message)
	}
	response := m.inputResponses[m.inputIndex]
	m.inputIndex++
	return response, nil
}

func (m *MockPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	if m.confirmIndex >= len(m.confirmResponses) {
		return defaultValue, nil
	}
	response := m.confirmResponses[m.confirmIndex]
	m.confirmIndex++
	return response, nil
}

func (m *MockPrompter) Select(message string, options []string, defaultValue string) (string, error) {
	if m.selectIndex >= len(m.selectResponses) {
		return defaultValue, nil
	}
	response := m.selectResponses[m.selectIndex]
	m.selectIndex++
	return response, nil
}

func InitializeSetupScenario(ctx *godog.ScenarioContext) {
	testCtx := SharedSetupContext

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		tempDir, err := os.MkdirTemp("", "setup-test-*")
		if err != nil {
			return c, err
		}
		testCtx.tempDir = tempDir
		testCtx.configPath = filepath.Join(tempDir, "config", "config.yaml")
		testCtx.originalContent = ""
		testCtx.inputs = nil
		testCtx.selects = nil
		testCtx.confirms = nil
		testCtx.output = &bytes.Buffer{}
		testCtx.err = nil
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if testCtx.tempDir != "" {
			os.RemoveAll(testCtx.tempDir)
		}
		return c, nil
	})

	ctx.Step(`^no config file exists$`, noConfigFileExists)
	ctx.Step(`^a config file already exists$`, aConfigFileAlreadyExists)
	ctx.Step(`^I answer the path prompts with workspace "([^"]*)" and ffmpeg "([^"]*)"$`, iAnswerThePathPrompts)
	ctx.Step(`^I choose log level "([^"]*)" and format "([^"]*)"$`, iChooseLogLevelAndFormat)
	ctx.Step(`^I decline Google Drive publishing$`, iDeclineGoogleDrivePublishing)
	ctx.Step(`^I enable Google Drive publishing with folder "([^"]*)"$`, iEnableGoogleDrivePublishingWithFolder)
	ctx.Step(`^I decline to overwrite$`, iDeclineToOverwrite)
	ctx.Step(`^I run setup$`, iRunSetup)
	ctx.Step(`^the config file has "([^"]*)" set to "([^"]*)"$`, theConfigFileHasSetTo)
	ctx.Step(`^the config file is unchanged$`, theConfigFileIsUnchanged)
	ctx.Step(`^setup prints "([^"]*)"$`, setupPrints)
	ctx.Step(`^setup fails with "([^"]*)"$`, setupFailsWith)
}

func noConfigFileExists() error {
	if _, err := os.Stat(SharedSetupContext.configPath); err == nil {
		return fmt.Errorf("config file unexpectedly exists")
	}
	return nil
}

func aConfigFileAlreadyExists() error {
	testCtx := SharedSetupContext
	if err := os.MkdirAll(filepath.Dir(testCtx.configPath), 0o755); err != nil {
		return err
	}
	testCtx.originalContent = "paths:\n  workspace_directory: /existing\n"
	return os.WriteFile(testCtx.configPath, []byte(testCtx.originalContent), 0o644)
}

func iAnswerThePathPrompts(workspaceDir, ffmpegPath string) error {
	testCtx := SharedSetupContext
	// Workspace, temp directory, ffmpeg path
	testCtx.inputs = append(testCtx.inputs, workspaceDir, "", ffmpegPath)
	return nil
}

func iChooseLogLevelAndFormat(level, format string) error {
	SharedSetupContext.selects = append(SharedSetupContext.selects, level, format)
	return nil
}

func iDeclineGoogleDrivePublishing() error {
	SharedSetupContext.confirms = append(SharedSetupContext.confirms, false)
	return nil
}

func iEnableGoogleDrivePublishingWithFolder(folder string) error {
	testCtx := SharedSetupContext
	testCtx.confirms = append(testCtx.confirms, true)
	testCtx.inputs = append(testCtx.inputs,
		filepath.Join(testCtx.tempDir, "credentials.json"),
		filepath.Join(testCtx.tempDir, "token.json"),
		folder,
	)
	return nil
}

func iDeclineToOverwrite() error {
	SharedSetupContext.confirms = append([]bool{false}, SharedSetupContext.confirms...)
	return nil
}

func iRunSetup() error {
	testCtx := SharedSetupContext
	prompter := NewMockPrompter(testCtx.inputs, testCtx.selects, testCtx.confirms)
	testCtx.err = cmd.RunSetupWithPrompter(prompter, testCtx.configPath, testCtx.output)
	return nil
}

func theConfigFileHasSetTo(key, value string) error {
	testCtx := SharedSetupContext
	if testCtx.err != nil {
		return fmt.Errorf("setup failed: %w", testCtx.err)
	}
	c, err := config.Load(testCtx.configPath)
	if err != nil {
		return fmt.Errorf("failed to load saved config: %w", err)
	}
	s, err := config.NewConfigManager(c, testCtx.configPath).Get(key)
	if err != nil {
		return err
	}
	if s.Value != value {
		return fmt.Errorf("%s = %q, want %q", key, s.Value, value)
	}
	return nil
}

func theConfigFileIsUnchanged() error {
	testCtx := SharedSetupContext
	data, err := os.ReadFile(testCtx.configPath)
	if err != nil {
		return err
	}
	if string(data) != testCtx.originalContent {
		return fmt.Errorf("config file was modified:\n%s", data)
	}
	return nil
}

func setupPrints(text string) error {
	testCtx := SharedSetupContext
	if !strings.Contains(testCtx.output.String(), text) {
		return fmt.Errorf("output does not contain %q:\n%s", text, testCtx.output.String())
	}
	return nil
}

func setupFailsWith(text string) error {
	testCtx := SharedSetupContext
	if testCtx.err == nil {
		return fmt.Errorf("expected setup to fail")
	}
	if !strings.Contains(testCtx.err.Error(), text) {
		return fmt.Errorf("error %q does not contain %q", testCtx.err.Error(), text)
	}
	return nil
}
