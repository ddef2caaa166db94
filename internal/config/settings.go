package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Settings holds persistent CLI defaults loaded from a config file.
// Flags explicitly set on the command line take precedence.
type Settings struct {
	DataDir    string   `yaml:"data_dir"`
	OutputDir  string   `yaml:"output_dir"`
	Ratio      string   `yaml:"ratio"` // "train,val,test", e.g. "0.7,0.2,0.1"
	Move       bool     `yaml:"move"`
	Seed       *int64   `yaml:"seed,omitempty"`
	Shuffle    *bool    `yaml:"shuffle,omitempty"`
	Extensions []string `yaml:"extensions,omitempty"`
	HistoryDB  string   `yaml:"history_db,omitempty"`

	Fetch *FetchConfig `yaml:"fetch,omitempty"`
}

// FetchConfig holds settings for the fetch command.
type FetchConfig struct {
	OutDir      string    `yaml:"out_dir,omitempty"`
	KeepArchive bool      `yaml:"keep_archive,omitempty"`
	S3          *S3Config `yaml:"s3,omitempty"`
}

// S3Config describes the object-store endpoint used for s3:// refs.
// Keys may be literals or "env:VAR_NAME" references.
type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region,omitempty"`
	AccessKey string `yaml:"access_key,omitempty"`
	SecretKey string `yaml:"secret_key,omitempty"`
	UseSSL    bool   `yaml:"use_ssl,omitempty"`
}

// LoadSettings reads a YAML config file into Settings.
// If the file does not exist, it returns zero-value Settings and nil error.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Settings{}, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return &s, nil
}

// ResolveSecret expands "env:VAR_NAME" references; literals pass through.
func ResolveSecret(v string) (string, error) {
	if !strings.HasPrefix(v, "env:") {
		return v, nil
	}
	key := strings.TrimPrefix(v, "env:")
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("env var %q is not set", key)
	}
	return val, nil
}
