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

type configContext struct {
	tempDir    string
	configPath string
	config     *config.Config
	output     *bytes.Buffer
	err        error
}

var SharedConfigContext = &configContext{}

func InitializeConfigScenario(ctx *godog.ScenarioContext) {
	testCtx := SharedConfigContext

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		tempDir, err := os.MkdirTemp("", "config-test-*")
		if err != nil {
			return c, err
		}
		testCtx.tempDir = tempDir
		testCtx.configPath = filepath.Join(tempDir, "config.yaml")
		testCtx.config = nil
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

	ctx.Step(`^a config file with workspace "([^"]*)"$`, aConfigFileWithWorkspace)
	ctx.Step(`^I run config set "([^"]*)" "([^"]*)"$`, iRunConfigSet)
	ctx.Step(`^I run config get "([^"]*)"$`, iRunConfigGet)
	ctx.Step(`^I run config list$`, iRunConfigList)
	ctx.Step(`^config prints "([^"]*)"$`, configPrints)
	ctx.Step(`^config fails with "([^"]*)"$`, configFailsWith)
	ctx.Step(`^the saved config has "([^"]*)" set to "([^"]*)"$`, theSavedConfigHasSetTo)
}

func aConfigFileWithWorkspace(dir string) error {
	testCtx := SharedConfigContext
	content := fmt.Sprintf("paths:\n  workspace_directory: %s\n", dir)
	if err := os.WriteFile(testCtx.configPath, []byte(content), 0o644); err != nil {
		return err
	}
	c, err := config.Load(testCtx.configPath)
	if err != nil {
		return err
	}
	testCtx.config = c
	return nil
}

func iRunConfigSet(key, value string) error {
	testCtx := SharedConfigContext
	testCtx.err = cmd.RunConfigSetWithDependencies(testCtx.config, testCtx.configPath, key, value, testCtx.output)
	return nil
}

func iRunConfigGet(key string) error {
	testCtx := SharedConfigContext
	testCtx.err = cmd.RunConfigGetWithDependencies(testCtx.config, testCtx.configPath, key, testCtx.output)
	return nil
}

func iRunConfigList() error {
	testCtx := SharedConfigContext
	testCtx.err = cmd.RunConfigListWithDependencies(testCtx.config, testCtx.configPath, testCtx.output)
	return nil
}

func configPrints(text string) error {
	testCtx := SharedConfigContext
	if testCtx.err != nil {
		return fmt.Errorf("config command failed: %w", testCtx.err)
	}
	if !strings.Contains(testCtx.output.String(), text) {
		return fmt.Errorf("output does not contain %q:\n%s", text, testCtx.output.String())
	}
	return nil
}

func configFailsWith(text string) error {
	testCtx := SharedConfigContext
	if testCtx.err == nil {
		return fmt.Errorf("expected config command to fail")
	}
	if !strings.Contains(testCtx.err.Error(), text) {
		return fmt.Errorf("error %q does not contain %q", testCtx.err.Error(), text)
	}
	return nil
}

func theSavedConfigHasSetTo(key, value string) error {
	testCtx := SharedConfigContext
	c, err := config.Load(testCtx.configPath)
	if err != nil {
		return err
	}
	s, err := config.NewConfigManager(c, testCtx.configPath).Get(key)
	if err != nil {
		return err
	}
	if s.Value != value {
		return fmt.Errorf("saved %s = %q, want %q", key, s.Value, value)
	}
	return nil
}
