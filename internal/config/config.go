// Package config provides the configuration structure for specfuzzer. `tui init`
// writes a file with the default values and `tui setup` edits one.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

const (
	EnvBackendURL = "SPECFUZZER_BACKEND_URL"
	EnvConfig     = "SPECFUZZER_CONFIG"

	DefaultPath          = "specfuzzer.yaml"
	DefaultBackendURL    = "http://localhost:8000"
	DefaultDashboardAddr = "127.0.0.1:8080"
)

// Config represents the full specfuzzer configuration file.
type Config struct {
	// BackendURL is the analysis service base URL. It is read once at startup.
	BackendURL string `yaml:"backend_url"`
	// TargetBaseURL is forwarded to the service as the API under test.
	TargetBaseURL string `yaml:"target_base_url,omitempty"`

	LogLevel string `yaml:"loglevel"`
	LogFile  string `yaml:"logfile"`

	Dashboard DashboardConfig `yaml:"dashboard"`
	Intake    IntakeConfig    `yaml:"intake"`
}

// DashboardConfig holds the web front end settings.
type DashboardConfig struct {
	Addr string `yaml:"addr"`
}

// IntakeConfig controls how file selections are accepted.
type IntakeConfig struct {
	// ExclusiveUploads rejects new selections while a request is in flight.
	ExclusiveUploads bool `yaml:"exclusive_uploads"`
	// StartDir is where the terminal file picker opens.
	StartDir string `yaml:"start_dir,omitempty"`
}

// NewDefaultConfig returns a Config populated with safe defaults.
func NewDefaultConfig() *Config {
	return &Config{
		BackendURL: DefaultBackendURL,
		LogLevel:   "info",
		Dashboard: DashboardConfig{
			Addr: DefaultDashboardAddr,
		},
	}
}

// ReadConfig parses the YAML file at path over the defaults.
func ReadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := NewDefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// WriteConfig writes cfg to path as YAML, creating parent directories.
func WriteConfig(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	header := []byte("# specfuzzer configuration\n")
	if err := os.WriteFile(path, append(header, data...), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load reads the config at path, treating a missing file as all defaults,
// then applies environment overrides. An empty path uses $SPECFUZZER_CONFIG
// or DefaultPath.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path == "" {
		path = DefaultPath
	}
	cfg, err := ReadConfig(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg, err = NewDefaultConfig(), nil
	}
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// ApplyEnv overrides fields set in the environment.
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvBackendURL)); v != "" {
		c.BackendURL = v
	}
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var result *multierror.Error
	if err := ValidateHTTPURL(c.BackendURL); err != nil {
		result = multierror.Append(result, fmt.Errorf("backend_url: %w", err))
	}
	if err := ValidateOptionalHTTPURL(c.TargetBaseURL); err != nil {
		result = multierror.Append(result, fmt.Errorf("target_base_url: %w", err))
	}
	if err := ValidateLogLevel(c.LogLevel); err != nil {
		result = multierror.Append(result, fmt.Errorf("loglevel: %w", err))
	}
	if err := ValidateHostPort(c.Dashboard.Addr); err != nil {
		result = multierror.Append(result, fmt.Errorf("dashboard.addr: %w", err))
	}
	if err := ValidateOptionalDir(c.Intake.StartDir); err != nil {
		result = multierror.Append(result, fmt.Errorf("intake.start_dir: %w", err))
	}
	return result.ErrorOrNil()
}
