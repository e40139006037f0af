package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v9"
	"gopkg.in/yaml.v3"

	"github.com/imamik/vmprov/internal/audit"
)

const (
	// DefaultSettingsFile is looked up in the work directory when no
	// settings file is given.
	DefaultSettingsFile = "vmprov.yaml"

	// EnvPrefix prefixes every settings environment variable.
	EnvPrefix = "VMPROV_"
)

// Settings controls where a run reads its input, which CLIs it calls,
// and where it writes its artifacts.
type Settings struct {
	// WorkDir holds the provider files and receives the audit artifacts.
	WorkDir string `yaml:"work_dir" env:"WORK_DIR"`

	AzureFile string `yaml:"azure_file" env:"AZURE_FILE"`
	GCPFile   string `yaml:"gcp_file" env:"GCP_FILE"`

	// AuditPrefix names the audit record, <prefix>_<timestamp>.
	AuditPrefix string `yaml:"audit_prefix" env:"AUDIT_PREFIX"`

	AzureCLI  string `yaml:"azure_cli" env:"AZURE_CLI"`
	GCloudCLI string `yaml:"gcloud_cli" env:"GCLOUD_CLI"`

	// MetricsFile, when set, receives run counters in the Prometheus
	// text format.
	MetricsFile string `yaml:"metrics_file" env:"METRICS_FILE"`
}

// Default returns the built-in settings.
func Default() *Settings {
	return &Settings{
		WorkDir:     ".",
		AzureFile:   "azure.conf",
		GCPFile:     "gcp.conf",
		AuditPrefix: audit.DefaultPrefix,
		AzureCLI:    "az",
		GCloudCLI:   "gcloud",
	}
}

// Load resolves settings from the process environment. path is an explicit
// settings file; when empty, vmprov.yaml in the work directory is used if
// present. workDir, when set, overrides every other source.
func Load(path, workDir string) (*Settings, error) {
	return LoadWithEnvironment(path, workDir, nil)
}

// LoadWithEnvironment is Load with an explicit environment. A nil environ
// reads the process environment.
func LoadWithEnvironment(path, workDir string, environ map[string]string) (*Settings, error) {
	s := Default()
	if workDir != "" {
		s.WorkDir = workDir
	}

	explicit := path != ""
	if !explicit {
		path = filepath.Join(s.WorkDir, DefaultSettingsFile)
	}
	if err := s.loadFile(path, explicit); err != nil {
		return nil, err
	}

	opts := env.Options{Prefix: EnvPrefix, Environment: environ}
	if err := env.ParseWithOptions(s, opts); err != nil {
		return nil, fmt.Errorf("parsing settings environment: %w", err)
	}

	if workDir != "" {
		s.WorkDir = workDir
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("settings validation failed: %w", err)
	}
	return s, nil
}

func (s *Settings) loadFile(path string, required bool) error {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		if !required && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read settings file: %w", err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return fmt.Errorf("failed to unmarshal settings %s: %w", path, err)
	}
	return nil
}

// Validate checks that every setting a run depends on is present.
func (s *Settings) Validate() error {
	var errs []error
	check := func(name, value string) {
		if value == "" {
			errs = append(errs, fmt.Errorf("%s must not be empty", name))
		}
	}
	check("work_dir", s.WorkDir)
	check("azure_file", s.AzureFile)
	check("gcp_file", s.GCPFile)
	check("audit_prefix", s.AuditPrefix)
	check("azure_cli", s.AzureCLI)
	check("gcloud_cli", s.GCloudCLI)
	return errors.Join(errs...)
}

// AzurePath returns the Azure file resolved against the work directory.
func (s *Settings) AzurePath() string {
	return s.resolve(s.AzureFile)
}

// GCPPath returns the GCP file resolved against the work directory.
func (s *Settings) GCPPath() string {
	return s.resolve(s.GCPFile)
}

// MetricsPath returns the metrics file resolved against the work directory,
// or "" when metrics are disabled.
func (s *Settings) MetricsPath() string {
	if s.MetricsFile == "" {
		return ""
	}
	return s.resolve(s.MetricsFile)
}

func (s *Settings) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(s.WorkDir, p)
}
