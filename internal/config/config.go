package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds generation settings shared by the catalog binaries.
type Config struct {
	// ClientsDir is the directory holding client definition files
	// (clients.json plus community/*.json).
	ClientsDir string `yaml:"clients_dir"`
	// OutputDir is where catalog files are written.
	OutputDir string `yaml:"output_dir"`
	// APIBaseURL is the base URL of the release source REST API.
	APIBaseURL string `yaml:"api_base_url"`
	// RequestTimeout is the duration for a single HTTP request.
	RequestTimeout time.Duration `yaml:"request_timeout"`
	// Concurrency bounds parallel asset resolution to respect upstream rate limits.
	Concurrency int `yaml:"concurrency"`
	// LogLevel is the minimum log level (debug, info, warn, error, fatal).
	LogLevel string `yaml:"log_level"`
}

const (
	// DefaultConfigFilename is the default filename for generation settings.
	DefaultConfigFilename = "version-catalog-settings.yaml"

	// DefaultClientsDir is the default directory with client definitions.
	DefaultClientsDir = "clients"

	// DefaultOutputDir is the default directory for catalog output.
	DefaultOutputDir = "."

	// DefaultAPIBaseURL points at the public GitHub REST API.
	DefaultAPIBaseURL = "https://api.github.com"

	// DefaultRequestTimeout is the default duration for a single HTTP request.
	DefaultRequestTimeout = 30 * time.Second

	// DefaultConcurrency is the default bound on parallel resolution tasks.
	DefaultConcurrency = 4

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

// errConfigIsNotSet is returned when a nil configuration is provided.
var errConfigIsNotSet = errors.New("configuration is not set")

// Default returns a configuration populated with default values.
func Default() *Config {
	return &Config{
		ClientsDir:     DefaultClientsDir,
		OutputDir:      DefaultOutputDir,
		APIBaseURL:     DefaultAPIBaseURL,
		RequestTimeout: DefaultRequestTimeout,
		Concurrency:    DefaultConcurrency,
		LogLevel:       "info",
	}
}

// Load reads configuration from the provided path and validates essential fields.
// An empty path yields the defaults without touching the filesystem.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(contents, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings for required fields and formatting,
// filling omitted values with defaults.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.ClientsDir == "" {
		cfg.ClientsDir = DefaultClientsDir
	}

	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDir
	}

	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = DefaultAPIBaseURL
	}

	parsed, err := url.Parse(cfg.APIBaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("invalid API base URL %q", cfg.APIBaseURL)
	}

	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}

	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return nil
}

// Token returns the release source API token from the environment.
// Tokens are never persisted to the settings file.
func Token() string {
	if tok := strings.TrimSpace(os.Getenv("GH_TOKEN")); tok != "" {
		return tok
	}

	return strings.TrimSpace(os.Getenv("GITHUB_TOKEN"))
}
