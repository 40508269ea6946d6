package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Database settings
	Database DatabaseConfig `yaml:"database"`

	// Listing settings
	Display DisplayConfig `yaml:"display"`

	// Birthday input rules and reports
	Birthday BirthdayConfig `yaml:"birthday"`

	// Log output
	Log LogConfig `yaml:"log"`
}

type DatabaseConfig struct {
	Path string `yaml:"path" validate:"required"` // Path to the encrypted SQLite database
}

type DisplayConfig struct {
	PageSize int `yaml:"page_size" validate:"min=1"` // Contacts per page in listings
}

type BirthdayConfig struct {
	MinYear      int `yaml:"min_year" validate:"min=1"`      // Earliest accepted birth year
	MaxYear      int `yaml:"max_year" validate:"min=0"`      // Latest accepted birth year, 0 = current year
	UpcomingDays int `yaml:"upcoming_days" validate:"min=0"` // Window for the upcoming birthdays report, 0 = all
}

type LogConfig struct {
	File  string `yaml:"file"`                                                   // Log file, empty = stderr
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"` // Minimum level
}

// MaxYearFor resolves the upper bound for birth years as of now
func (b BirthdayConfig) MaxYearFor(now time.Time) int {
	if b.MaxYear == 0 {
		return now.Year()
	}
	return b.MaxYear
}

// configDir returns ~/.config/contactbook
func configDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home dir unavailable
		return filepath.Join(".", ".config", "contactbook")
	}
	return filepath.Join(homeDir, ".config", "contactbook")
}

// DefaultConfigPath returns ~/.config/contactbook/config.yaml
func DefaultConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	dir := configDir()

	return &Config{
		Database: DatabaseConfig{
			Path: filepath.Join(dir, "contactbook.db"),
		},
		Display: DisplayConfig{
			PageSize: 2,
		},
		Birthday: BirthdayConfig{
			MinYear:      1900,
			MaxYear:      0,
			UpcomingDays: 30,
		},
		Log: LogConfig{
			File:  filepath.Join(dir, "contactbook.log"),
			Level: "info",
		},
	}
}

// Load loads config from the given path, or returns defaults if file doesn't exist
func Load(path string) (*Config, error) {
	// If file doesn't exist, return defaults
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadDefault loads from the default config path
func LoadDefault() (*Config, error) {
	return Load(DefaultConfigPath())
}

// Validate checks field constraints and cross-field rules
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Birthday.MaxYear != 0 && c.Birthday.MaxYear < c.Birthday.MinYear {
		return fmt.Errorf("invalid config: birthday.max_year %d is before birthday.min_year %d",
			c.Birthday.MaxYear, c.Birthday.MinYear)
	}
	return nil
}

// Save writes the config to the given path
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// EnsureDirectories creates the directories holding the database and log file
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(filepath.Dir(c.Database.Path), 0700); err != nil {
		return err
	}

	if c.Log.File != "" {
		if err := os.MkdirAll(filepath.Dir(c.Log.File), 0700); err != nil {
			return err
		}
	}

	return nil
}
