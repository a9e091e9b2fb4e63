package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the complete application configuration
type Config struct {
	Paths   PathsConfig   `yaml:"paths"`
	FFmpeg  FFmpegConfig  `yaml:"ffmpeg"`
	Logging LoggingConfig `yaml:"logging"`
	Google  GoogleConfig  `yaml:"google"`
}

// PathsConfig contains directory paths for batch processing
type PathsConfig struct {
	WorkspaceDirectory string `yaml:"workspace_directory"`
	// TempDirectory holds staged inputs; os.TempDir() when empty
	TempDirectory string `yaml:"temp_directory"`
}

// FFmpegConfig locates the transcoder. The encoding parameters are fixed.
type FFmpegConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig controls log verbosity and format
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// GoogleConfig contains Google Drive settings used by publish
type GoogleConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
	TokenFile       string `yaml:"token_file"`
	FolderID        string `yaml:"folder_id"`
}

// Defaults
const (
	DefaultWorkspaceDirectory = "output"
	DefaultFFmpegPath         = "ffmpeg"
	DefaultLogLevel           = "info"
	DefaultLogFormat          = "console"
	DefaultCredentialsFile    = "credentials.json"
	DefaultTokenFile          = "token.json"
)

var (
	validLevels  = []string{"debug", "info", "warn", "error"}
	validFormats = []string{"console", "json"}
)

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("invalid configuration")

// Default returns a configuration with every field at its default
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Paths.WorkspaceDirectory == "" {
		c.Paths.WorkspaceDirectory = DefaultWorkspaceDirectory
	}
	if c.FFmpeg.Path == "" {
		c.FFmpeg.Path = DefaultFFmpegPath
	}
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}
	if c.Google.CredentialsFile == "" {
		c.Google.CredentialsFile = DefaultCredentialsFile
	}
	if c.Google.TokenFile == "" {
		c.Google.TokenFile = DefaultTokenFile
	}
}

// Validate checks enumerated fields
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Paths.WorkspaceDirectory) == "" {
		return fmt.Errorf("%w: paths.workspace_directory is required", ErrInvalid)
	}
	if !contains(validLevels, c.Logging.Level) {
		return fmt.Errorf("%w: logging.level %q (use %s)", ErrInvalid, c.Logging.Level, strings.Join(validLevels, ", "))
	}
	if !contains(validFormats, c.Logging.Format) {
		return fmt.Errorf("%w: logging.format %q (use %s)", ErrInvalid, c.Logging.Format, strings.Join(validFormats, ", "))
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

// Load reads and parses the configuration from the specified YAML file.
// A missing file yields the defaults; empty fields are defaulted.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the configuration to the specified YAML file
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
