package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownKey is returned for a setting name that does not exist
var ErrUnknownKey = errors.New("unknown config key")

// Setting is one named configuration value
type Setting struct {
	Key   string
	Value string
}

// field binds a dotted key to a string field of Config
type field struct {
	key string
	ptr func(*Config) *string
}

var fields = []field{
	{"paths.workspace_directory", func(c *Config) *string { return &c.Paths.WorkspaceDirectory }},
	{"paths.temp_directory", func(c *Config) *string { return &c.Paths.TempDirectory }},
	{"ffmpeg.path", func(c *Config) *string { return &c.FFmpeg.Path }},
	{"logging.level", func(c *Config) *string { return &c.Logging.Level }},
	{"logging.format", func(c *Config) *string { return &c.Logging.Format }},
	{"google.credentials_file", func(c *Config) *string { return &c.Google.CredentialsFile }},
	{"google.token_file", func(c *Config) *string { return &c.Google.TokenFile }},
	{"google.folder_id", func(c *Config) *string { return &c.Google.FolderID }},
}

// ConfigManager reads and updates individual settings and persists them
type ConfigManager struct {
	config     *Config
	configPath string
}

// NewConfigManager creates a new config manager
func NewConfigManager(cfg *Config, configPath string) *ConfigManager {
	return &ConfigManager{
		config:     cfg,
		configPath: configPath,
	}
}

// Keys returns every settable key in display order
func Keys() []string {
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = f.key
	}
	return keys
}

func lookup(key string) (field, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, f := range fields {
		if f.key == key {
			return f, nil
		}
	}
	return field{}, fmt.Errorf("%w: %q", ErrUnknownKey, key)
}

// List returns every setting in display order
func (m *ConfigManager) List() []Setting {
	result := make([]Setting, 0, len(fields))
	for _, f := range fields {
		result = append(result, Setting{Key: f.key, Value: *f.ptr(m.config)})
	}
	return result
}

// Get returns one setting by key (case-insensitive)
func (m *ConfigManager) Get(key string) (Setting, error) {
	f, err := lookup(key)
	if err != nil {
		return Setting{}, err
	}
	return Setting{Key: f.key, Value: *f.ptr(m.config)}, nil
}

// Set updates one setting, validates the result and saves the file.
// The in-memory config is left unchanged when validation fails.
func (m *ConfigManager) Set(key, value string) error {
	f, err := lookup(key)
	if err != nil {
		return err
	}

	candidate := *m.config
	*f.ptr(&candidate) = strings.TrimSpace(value)
	if err := candidate.Validate(); err != nil {
		return err
	}

	*m.config = candidate
	return Save(m.config, m.configPath)
}

// SuggestSetCommand returns the command that sets a missing value
func SuggestSetCommand(key string) string {
	return fmt.Sprintf("mp3-batch config set %s <value>", key)
}
