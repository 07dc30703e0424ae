// Package config loads the procflow profile and timeout configuration.
//
// A profile is a small YAML document naming the target project and region
// plus how credentials are resolved. Everything an operator needs beyond
// the request payload itself comes from here.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Credentials describes how API credentials are resolved.
// At most one of KeyFile and KeyJSON may be set; with neither set,
// application default credentials are used.
type Credentials struct {
	// KeyFile is a path to a service account key file.
	KeyFile string `yaml:"key_file,omitempty"`

	// KeyJSON is an inline service account key document.
	KeyJSON string `yaml:"key_json,omitempty"`

	// ImpersonationChain is an optional list of service accounts to
	// impersonate, in order. The last entry is the target principal;
	// the preceding entries are delegates.
	ImpersonationChain []string `yaml:"impersonation_chain,omitempty"`

	// Scopes overrides the default OAuth scopes.
	Scopes []string `yaml:"scopes,omitempty"`
}

// Config is the procflow profile.
type Config struct {
	ProjectID   string      `yaml:"project_id"`
	Region      string      `yaml:"region"`
	Credentials Credentials `yaml:"credentials,omitempty"`

	// Labels are applied to every cluster and job created through this
	// profile, merged with per-operator labels.
	Labels map[string]string `yaml:"labels,omitempty"`
}

// Load reads and validates a profile from path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the profile for required fields and inconsistencies.
func (c *Config) Validate() error {
	if c.ProjectID == "" {
		return fmt.Errorf("project_id is required")
	}
	if c.Region == "" {
		return fmt.Errorf("region is required")
	}
	if c.Credentials.KeyFile != "" && c.Credentials.KeyJSON != "" {
		return fmt.Errorf("credentials: key_file and key_json are mutually exclusive")
	}
	return nil
}
