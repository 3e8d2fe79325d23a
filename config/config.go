// Package config loads the tool server configuration.
package config

import (
	"github.com/effective-security/x/configloader"
)

// Config is the top level server configuration.
type Config struct {
	Server ServerConfig `json:"server" yaml:"server"`
	Places PlacesConfig `json:"places" yaml:"places"`
	Redis  RedisConfig  `json:"redis" yaml:"redis"`
}

// ServerConfig describes the MCP server identity.
type ServerConfig struct {
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
}

// PlacesConfig specifies the Google Places client options.
// Values support ${ENV} expansion.
type PlacesConfig struct {
	APIKey  string `json:"api_key" yaml:"api_key"`
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
}

// RedisConfig enables the redis-backed reservation store when Addr is set;
// otherwise reservations are kept in process memory.
type RedisConfig struct {
	Addr     string `json:"addr,omitempty" yaml:"addr,omitempty"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
	DB       int    `json:"db,omitempty" yaml:"db,omitempty"`
	Prefix   string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
}

// Load reads the configuration from file
func Load(file string) (*Config, error) {
	cfg := new(Config)
	if file == "" {
		return cfg, nil
	}

	err := configloader.UnmarshalAndExpand(file, cfg)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}
