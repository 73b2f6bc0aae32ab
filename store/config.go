package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config declares the named connections an application wants registered.
type Config struct {
	Connections []ConnConfig `yaml:"connections"`
}

// ConnConfig declares one named connection.
type ConnConfig struct {
	// Name is the logical connection name, "default" if empty.
	Name string `yaml:"name"`
	// Engine selects the backing engine. Only "memory" is built in;
	// network engines register their connections with the Manager
	// directly.
	Engine string `yaml:"engine"`
}

// LoadConfigFile loads and parses a YAML connection config from the given path.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read store config %s: %w", path, err)
	}

	return ParseConfig(data)
}

// ParseConfig parses YAML data into a Config.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config

	err := yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse store config: %w", err)
	}

	// Apply defaults and normalize
	applyDefaults(&cfg)

	return &cfg, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(cfg *Config) {
	for i := range cfg.Connections {
		c := &cfg.Connections[i]
		if c.Name == "" {
			c.Name = DefaultConnection
		}
		if c.Engine == "" {
			c.Engine = "memory"
		}
	}
}

// Apply registers every configured connection with the manager.
func (cfg *Config) Apply(m *Manager) error {
	for _, c := range cfg.Connections {
		switch c.Engine {
		case "memory":
			m.Register(c.Name, NewMemory())
		default:
			return fmt.Errorf("connection %q: unknown engine %q", c.Name, c.Engine)
		}
	}

	return nil
}
