package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the optional YAML configuration file. Flags override any
// value set here.
type Config struct {
	// DB is the SQLite database file path.
	DB string `yaml:"db"`
	// Legacy is the old flat key-value store file to migrate from.
	Legacy string `yaml:"legacy"`
	// LogLevel is a logrus level name ("debug", "info", "warn", ...).
	LogLevel string `yaml:"log_level"`
}

// LoadConfig reads the YAML config at path. A missing file yields the
// zero config and no error, so the file stays optional.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
