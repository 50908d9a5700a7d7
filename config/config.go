// Package config loads the service configuration from a YAML file and
// can watch it for runtime log-level changes.
package config

import (
	"os"

	"gopkg.in/yaml.v2"
)

type Config struct {
	HTTP struct {
		Port           int      `yaml:"port"`
		TimeoutSeconds int      `yaml:"timeout_seconds"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"http"`
	Dataset struct {
		// Source is a URL or a local file path; empty uses the
		// published UCI location.
		Source string `yaml:"source"`
	} `yaml:"dataset"`
	Model struct {
		Rounds       int     `yaml:"rounds"`
		MaxDepth     int     `yaml:"max_depth"`
		LearningRate float64 `yaml:"learning_rate"`
		TestRatio    float64 `yaml:"test_ratio"`
		Seed         int64   `yaml:"seed"`
		// TopFeatures > 0 enables the reduced-feature variant.
		TopFeatures int `yaml:"top_features"`
	} `yaml:"model"`
	Database struct {
		// Path to the SQLite history database; empty disables
		// persistence entirely.
		Path string `yaml:"path"`
	} `yaml:"database"`
	Log struct {
		Level      string `yaml:"level"`
		File       string `yaml:"file"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
	} `yaml:"log"`
}

// Default returns the configuration used when config.yaml is absent.
func Default() *Config {
	var c Config
	c.HTTP.Port = 8080
	c.HTTP.TimeoutSeconds = 30
	c.HTTP.AllowedOrigins = []string{"*"}
	c.Model.Rounds = 100
	c.Model.MaxDepth = 3
	c.Model.LearningRate = 0.1
	c.Model.TestRatio = 0.2
	c.Model.Seed = 42
	c.Model.TopFeatures = 10
	c.Log.Level = "info"
	c.Log.MaxSizeMB = 50
	c.Log.MaxBackups = 3
	return &c
}

// Load reads a YAML config file over the defaults.
func Load(path string) (*Config, error) {
	config := Default()
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	if err := yaml.NewDecoder(file).Decode(config); err != nil {
		return nil, err
	}
	return config, nil
}
