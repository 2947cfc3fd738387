package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration structure.
// It covers the backup location the file browser starts in, browser
// behavior, logging, and the color theme.
type Config struct {
	Backups struct {
		Directory   string `yaml:"directory"`    // Where backup files are written and browsed
		FilePattern string `yaml:"file_pattern"` // Glob for selectable files, e.g. "*.xml"
	} `yaml:"backups"`
	Browser struct {
		AutoRefresh bool `yaml:"auto_refresh"` // Re-list when the current directory changes on disk
		ShowHidden  bool `yaml:"show_hidden"`  // Include dotfiles in listings
	} `yaml:"browser"`
	Log struct {
		File  string `yaml:"file"`  // Log file path; empty disables logging
		Level string `yaml:"level"` // debug, info, warn, or error
	} `yaml:"log"`
	Theme struct {
		Primary string `yaml:"primary"` // Title and border accents
		Success string `yaml:"success"` // Successful outcome text
		Error   string `yaml:"error"`   // Failed outcome text
		Subtle  string `yaml:"subtle"`  // Footer and inactive text
	} `yaml:"theme"`
}

// DefaultPath returns the default config file location
// (~/.config/srvhelper/config.yaml).
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "srvhelper", "config.yaml"), nil
}

// LoadConfig loads configuration from the default location.
func LoadConfig() (*Config, error) {
	configPath, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFile(configPath)
}

// fileConfig mirrors Config for parsing only. The booleans are pointers so
// a key omitted from the file can be told apart from an explicit false.
type fileConfig struct {
	Backups struct {
		Directory   string `yaml:"directory"`
		FilePattern string `yaml:"file_pattern"`
	} `yaml:"backups"`
	Browser struct {
		AutoRefresh *bool `yaml:"auto_refresh"`
		ShowHidden  *bool `yaml:"show_hidden"`
	} `yaml:"browser"`
	Log struct {
		File  string `yaml:"file"`
		Level string `yaml:"level"`
	} `yaml:"log"`
	Theme struct {
		Primary string `yaml:"primary"`
		Success string `yaml:"success"`
		Error   string `yaml:"error"`
		Subtle  string `yaml:"subtle"`
	} `yaml:"theme"`
}

// LoadConfigFile loads configuration from a specific file path.
// If the file doesn't exist, returns default configuration.
func LoadConfigFile(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Unmarshal into a temporary config to preserve defaults for unset fields
	var tempCfg fileConfig
	if err := yaml.Unmarshal(data, &tempCfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if tempCfg.Backups.Directory != "" {
		cfg.Backups.Directory = tempCfg.Backups.Directory
	}
	if tempCfg.Backups.FilePattern != "" {
		cfg.Backups.FilePattern = tempCfg.Backups.FilePattern
	}
	if tempCfg.Browser.AutoRefresh != nil {
		cfg.Browser.AutoRefresh = *tempCfg.Browser.AutoRefresh
	}
	if tempCfg.Browser.ShowHidden != nil {
		cfg.Browser.ShowHidden = *tempCfg.Browser.ShowHidden
	}
	if tempCfg.Log.File != "" {
		cfg.Log.File = tempCfg.Log.File
	}
	if tempCfg.Log.Level != "" {
		cfg.Log.Level = tempCfg.Log.Level
	}
	if tempCfg.Theme.Primary != "" {
		cfg.Theme.Primary = tempCfg.Theme.Primary
	}
	if tempCfg.Theme.Success != "" {
		cfg.Theme.Success = tempCfg.Theme.Success
	}
	if tempCfg.Theme.Error != "" {
		cfg.Theme.Error = tempCfg.Theme.Error
	}
	if tempCfg.Theme.Subtle != "" {
		cfg.Theme.Subtle = tempCfg.Theme.Subtle
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns the default configuration with safe defaults.
func defaultConfig() *Config {
	cfg := &Config{}

	// Backups live under the user's documents folder, matching where the
	// backup action writes them
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	cfg.Backups.Directory = filepath.Join(home, "Documents", "ServerBackups")
	cfg.Backups.FilePattern = "*.xml"

	cfg.Browser.AutoRefresh = true
	cfg.Browser.ShowHidden = false

	cfg.Log.File = filepath.Join(home, ".config", "srvhelper", "srvhelper.log")
	cfg.Log.Level = "info"

	cfg.Theme.Primary = "39"  // Blue
	cfg.Theme.Success = "114" // Green
	cfg.Theme.Error = "196"   // Red
	cfg.Theme.Subtle = "241"  // Grey

	return cfg
}

// SaveConfig saves the configuration to the specified file.
// It creates parent directories if they don't exist.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid.
// Returns error if any settings are invalid.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("nil config")
	}

	if c.Backups.Directory == "" {
		return fmt.Errorf("backups directory is required")
	}

	if _, err := glob.Compile(c.Backups.FilePattern); err != nil {
		return fmt.Errorf("invalid file pattern %q: %w", c.Backups.FilePattern, err)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Log.Level] {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}

	return nil
}

// FileGlob compiles the backup file pattern. Validate guarantees this
// cannot fail for a validated config.
func (c *Config) FileGlob() (glob.Glob, error) {
	return glob.Compile(c.Backups.FilePattern)
}

// New creates a new configuration instance with default values.
func New() *Config {
	return defaultConfig()
}
