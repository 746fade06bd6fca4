package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/treetab/treetab/core"
)

// Config holds the persistent connections, loaded from a toml file.
//
//	[[connections]]
//	id = "dev"
//	name = "dev postgres"
//	type = "postgres"
//	url = "postgres://localhost:5432/dev?sslmode=disable"
//
// Urls support {{env "VAR"}} and {{exec "cmd"}} template expansion, so
// secrets can stay out of the file.
type Config struct {
	Connections []*core.ConnectionParams `toml:"connections"`
}

var errConnectionNotFound = func(name string) error { return fmt.Errorf("no connection with id or name: %q", name) }

// DefaultConfigPath returns the config location inside the user config
// directory.
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("os.UserConfigDir: %w", err)
	}
	return filepath.Join(dir, "treetab", "config.toml"), nil
}

// LoadConfig reads the config from path. A missing file is not an
// error, it yields an empty config.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("toml.Unmarshal: %w", err)
	}

	return &cfg, nil
}

// Connection finds a configured connection by id or name.
func (c *Config) Connection(name string) (*core.ConnectionParams, error) {
	for _, params := range c.Connections {
		if string(params.ID) == name || params.Name == name {
			return params, nil
		}
	}
	return nil, errConnectionNotFound(name)
}
