package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds application configuration
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`

	Database struct {
		// SQLite file path. The ANNOTATION_DB environment variable
		// overrides it and forces the SQLite backend.
		Path string `yaml:"path"`
	} `yaml:"database"`

	Excel struct {
		// Workbook used as fallback store and as seed source.
		Path  string `yaml:"path"`
		Sheet string `yaml:"sheet"`
	} `yaml:"excel"`

	Static struct {
		Dir string `yaml:"dir"`
	} `yaml:"static"`
}

// LoadConfig loads configuration from a YAML file. A missing file yields the
// defaults, so the server can run with no config at all.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	file, err := os.Open(configPath)
	if err == nil {
		defer file.Close()
		decoder := yaml.NewDecoder(file)
		if err := decoder.Decode(config); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}

	// Set defaults
	if config.Server.Port == "" {
		config.Server.Port = "5050"
	}

	if config.Database.Path == "" {
		config.Database.Path = "./data/annotations.db"
	}

	if config.Excel.Path == "" {
		config.Excel.Path = "./data/dr_questions.xlsx"
	}

	if config.Excel.Sheet == "" {
		config.Excel.Sheet = "dr_questions"
	}

	if config.Static.Dir == "" {
		config.Static.Dir = "./web/static"
	}

	// Expand environment variables in paths
	config.Database.Path = os.ExpandEnv(config.Database.Path)
	config.Excel.Path = os.ExpandEnv(config.Excel.Path)

	// ANNOTATION_DB overrides the configured path and pins the SQLite
	// backend (e.g. a mounted volume at /data/annotations.db).
	if env := os.Getenv("ANNOTATION_DB"); env != "" {
		config.Database.Path = env
	}

	return config, nil
}

// DatabaseForced reports whether ANNOTATION_DB explicitly selects SQLite.
func DatabaseForced() bool {
	_, ok := os.LookupEnv("ANNOTATION_DB")
	return ok
}
