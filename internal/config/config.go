package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Nomadcxx/findedupe/internal/exclusion"
	"github.com/Nomadcxx/findedupe/internal/logging"
	"github.com/Nomadcxx/findedupe/internal/matching"
	"github.com/Nomadcxx/findedupe/internal/media"
	"github.com/Nomadcxx/findedupe/internal/paths"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Enabled                   bool               `mapstructure:"enabled" toml:"enabled" comment:"Master switch for duplicate detection"`
	DefaultOperationMode      string             `mapstructure:"default_operation_mode" toml:"default_operation_mode" comment:"dry-run or execute"`
	LogRetentionDays          int                `mapstructure:"log_retention_days" toml:"log_retention_days"`
	ExactMatchThreshold       int                `mapstructure:"exact_match_threshold" toml:"exact_match_threshold" comment:"Similarity (0-100) at which titles match outright"`
	ConditionalMatchThreshold int                `mapstructure:"conditional_match_threshold" toml:"conditional_match_threshold" comment:"Similarity (0-100) that matches when years or provider keys agree"`
	ScanPageSize              int                `mapstructure:"scan_page_size" toml:"scan_page_size"`
	Libraries                 LibrariesConfig    `mapstructure:"libraries" toml:"libraries"`
	Exclusions                exclusion.Settings `mapstructure:"exclusions" toml:"exclusions"`
	Logging                   logging.Config     `mapstructure:"logging" toml:"logging"`
}

// LibrariesConfig lists the library root folders. Items outside every root
// are never considered for deletion.
type LibrariesConfig struct {
	Roots []string `mapstructure:"roots" toml:"roots"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Enabled:                   true,
		DefaultOperationMode:      media.DryRun.String(),
		LogRetentionDays:          45,
		ExactMatchThreshold:       matching.DefaultExactThreshold,
		ConditionalMatchThreshold: matching.DefaultConditionalThreshold,
		ScanPageSize:              50,
		Libraries: LibrariesConfig{
			Roots: []string{},
		},
		Exclusions: exclusion.Settings{
			LibraryIDs:   []string{},
			PathPrefixes: []string{},
			GlobPatterns: []string{},
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load reads the config file at path over the defaults. An empty path means
// the default location; a missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := paths.ConfigPath()
		if err != nil {
			return nil, fmt.Errorf("unable to get config path: %w", err)
		}
		path = p
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("unable to read config file: %w", err)
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config: %w", err)
	}

	return cfg, nil
}

// Validate checks ranges and enum values.
func (c *Config) Validate() error {
	var problems []string

	if err := c.Thresholds().Validate(); err != nil {
		problems = append(problems, err.Error())
	}
	if c.ScanPageSize <= 0 {
		problems = append(problems, fmt.Sprintf("scan_page_size must be positive, got %d", c.ScanPageSize))
	}
	if c.LogRetentionDays < 0 {
		problems = append(problems, fmt.Sprintf("log_retention_days must not be negative, got %d", c.LogRetentionDays))
	}
	if _, err := c.OperationMode(); err != nil {
		problems = append(problems, err.Error())
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// Thresholds returns the matcher thresholds configured here.
func (c *Config) Thresholds() matching.Thresholds {
	return matching.Thresholds{
		Exact:       c.ExactMatchThreshold,
		Conditional: c.ConditionalMatchThreshold,
	}
}

func (c *Config) OperationMode() (media.OperationMode, error) {
	return media.ParseOperationMode(c.DefaultOperationMode)
}

// Save writes the config as TOML, creating the parent directory.
func (c *Config) Save(path string) error {
	if path == "" {
		p, err := paths.ConfigPath()
		if err != nil {
			return err
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("unable to create config dir: %w", err)
	}

	content, err := c.ToTOML()
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}

func (c *Config) ToTOML() (string, error) {
	body, err := toml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("unable to encode config: %w", err)
	}
	return "# findedupe configuration\n# Generated by: findedupe config init\n\n" + string(body), nil
}

// Exists reports whether a config file is present at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
