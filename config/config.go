// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Pipevet Authors

// Package config provides system-level configuration for pipevet
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/invopop/jsonschema"
	"github.com/spf13/afero"
)

// DefaultFileName is the default file name for the config file
const DefaultFileName = "config.yaml"

// Config is the system configuration file for pipevet
type Config struct {
	// FetchPolicy is the default policy used when fetching remote pipelines
	FetchPolicy FetchPolicy `yaml:"fetch-policy" json:"fetch-policy,omitempty"`
	// Hosts maps hostnames to repository host overrides
	Hosts map[string]Host `yaml:"hosts" json:"hosts,omitempty"`
}

// Host defines how to talk to a self-managed repository host
type Host struct {
	Type         string `yaml:"type" json:"type"`
	Base         string `yaml:"base" json:"base,omitempty"`
	TokenFromEnv string `yaml:"token-from-env" json:"token-from-env,omitempty"`
}

// JSONSchemaExtend extends the JSON schema for a host
func (Host) JSONSchemaExtend(s *jsonschema.Schema) {
	if typ, ok := s.Properties.Get("type"); ok && typ != nil {
		typ.Description = "Kind of host, decides the API client"
		typ.Enum = []any{"github", "gitlab"}
	}

	if base, ok := s.Properties.Get("base"); ok && base != nil {
		base.Description = "Base URL for the underlying client (e.g. https://mygitlab.com )"
	}

	if tokenFromEnv, ok := s.Properties.Get("token-from-env"); ok && tokenFromEnv != nil {
		tokenFromEnv.Description = "Environment variable containing the token for authentication"
		tokenFromEnv.Pattern = "^[a-zA-Z_]+[a-zA-Z0-9_]*$"
	}
}

// DefaultDirectory returns the default directory for pipevet configuration
func DefaultDirectory() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".pipevet"), nil
}

// LoadConfig loads configuration from a reader
func LoadConfig(r io.Reader) (*Config, error) {
	config := &Config{
		Hosts:       map[string]Host{},
		FetchPolicy: DefaultFetchPolicy,
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if config.FetchPolicy == "" {
		config.FetchPolicy = DefaultFetchPolicy
	}
	if err := config.FetchPolicy.Set(config.FetchPolicy.String()); err != nil {
		return nil, err
	}

	for name, host := range config.Hosts {
		switch host.Type {
		case "github", "gitlab":
		default:
			return nil, fmt.Errorf("host %q has unsupported type %q", name, host.Type)
		}
	}

	return config, nil
}

// LoadDefaultConfig loads configuration from the default location,
// returning defaults when no config file exists
func LoadDefaultConfig() (*Config, error) {
	dir, err := DefaultDirectory()
	if err != nil {
		return nil, err
	}

	loader := &FileSystemConfigLoader{Fs: afero.NewBasePathFs(afero.NewOsFs(), dir)}
	return loader.LoadConfig()
}

// FileSystemConfigLoader loads configuration from the file system
type FileSystemConfigLoader struct {
	Fs afero.Fs
}

// LoadConfig loads the configuration from the file system
func (l *FileSystemConfigLoader) LoadConfig() (*Config, error) {
	f, err := l.Fs.Open(DefaultFileName)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{
				Hosts:       map[string]Host{},
				FetchPolicy: DefaultFetchPolicy,
			}, nil
		}
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	return LoadConfig(f)
}
