package cmd

import (
	"fmt"
	"os"

	"mp3-batch/infrastructure/config"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
)

// Prompter interface for interactive prompts (allows mocking in tests)
type Prompter interface {
	Input(message string, defaultValue string) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
	Select(message string, options []string, defaultValue string) (string, error)
}

// SurveyPrompter implements Prompter using the survey library
type SurveyPrompter struct{}

func (p *SurveyPrompter) Input(message string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (p *SurveyPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	result := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

func (p *SurveyPrompter) Select(message string, options []string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Select{
		Message: message,
		Options: options,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

// DefaultPrompter is the prompter used in production
var DefaultPrompter Prompter = &SurveyPrompter{}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create configuration file interactively",
	Long: `Prompts for configuration values and creates config.yaml.

This command guides you through setting up the workspace directory, the
ffmpeg location, logging and the optional Google Drive publishing target.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if path == "" {
		path = "config/config.yaml"
	}
	return RunSetupWithPrompter(DefaultPrompter, path, os.Stdout)
}

// RunSetupWithPrompter runs the setup with a given prompter (for testing)
func RunSetupWithPrompter(prompter Prompter, configPath string, output OutputWriter) error {
	if _, err := os.Stat(configPath); err == nil {
		overwrite, err := prompter.Confirm("config.yaml already exists. Overwrite?", false)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if !overwrite {
			fmt.Fprintln(output, "Setup cancelled.")
			return nil
		}
	}

	fmt.Fprintln(output, "Welcome to mp3-batch setup!")
	fmt.Fprintln(output)

	c := config.Default()

	if err := promptPaths(prompter, c); err != nil {
		return err
	}
	if err := promptLogging(prompter, c); err != nil {
		return err
	}
	if err := promptGoogle(prompter, c); err != nil {
		return err
	}

	if err := c.Validate(); err != nil {
		return err
	}

	if err := config.Save(c, configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Fprintln(output)
	fmt.Fprintf(output, "Configuration saved to %s\n", configPath)
	return nil
}

func promptPaths(prompter Prompter, c *config.Config) error {
	workspaceDir, err := prompter.Input("Where should converted files go?", c.Paths.WorkspaceDirectory)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if workspaceDir == "" {
		return fmt.Errorf("workspace directory is required")
	}
	c.Paths.WorkspaceDirectory = workspaceDir

	tempDir, err := prompter.Input("Directory for staged inputs? (empty for system temp)", "")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	c.Paths.TempDirectory = tempDir

	ffmpegPath, err := prompter.Input("Path to ffmpeg?", c.FFmpeg.Path)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if ffmpegPath != "" {
		c.FFmpeg.Path = ffmpegPath
	}

	return nil
}

func promptLogging(prompter Prompter, c *config.Config) error {
	level, err := prompter.Select("Log level?", []string{"debug", "info", "warn", "error"}, c.Logging.Level)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	c.Logging.Level = level

	format, err := prompter.Select("Log format?", []string{"console", "json"}, c.Logging.Format)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	c.Logging.Format = format
	return nil
}

func promptGoogle(prompter Prompter, c *config.Config) error {
	enable, err := prompter.Confirm("Publish results to Google Drive?", false)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if !enable {
		return nil
	}

	credentials, err := prompter.Input("Path to Google credentials file?", c.Google.CredentialsFile)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if credentials != "" {
		c.Google.CredentialsFile = credentials
	}

	token, err := prompter.Input("Where should the OAuth token be stored?", c.Google.TokenFile)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if token != "" {
		c.Google.TokenFile = token
	}

	folder, err := prompter.Input("Google Drive folder ID?", "")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if folder == "" {
		return fmt.Errorf("folder ID is required")
	}
	c.Google.FolderID = folder

	return nil
}
