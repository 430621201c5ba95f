// Package config loads the Face connection endpoint and command-signing
// identity from a YAML file, using the teacher's go.mod dependency
// goccy/go-yaml (no example call site for it survived retrieval, so the
// struct-tag usage here follows the library's own documented convention).
package config

import (
	"os"

	"github.com/goccy/go-yaml"

	"github.com/ndncomm/ndn-js/face"
)

// Config is the on-disk shape of a client's connection and identity
// configuration.
type Config struct {
	Connection ConnectionConfig `yaml:"connection"`
	Identity   IdentityConfig   `yaml:"identity"`
}

// ConnectionConfig names the forwarder endpoint to dial (spec.md §4.1, §6).
type ConnectionConfig struct {
	// Scheme is one of "tcp", "unix", "ws".
	Scheme string `yaml:"scheme"`
	Host   string `yaml:"host,omitempty"`
	Port   uint16 `yaml:"port,omitempty"`
	Path   string `yaml:"path,omitempty"`
	Url    string `yaml:"url,omitempty"`
	Local  bool   `yaml:"local"`
}

// IdentityConfig names the key material used to sign command Interests
// (spec.md §4.4/§4.5). KeyFile names a raw Ed25519 seed file. Load only
// parses these fields; it neither reads the key file nor generates a key.
type IdentityConfig struct {
	Name    string `yaml:"name"`
	KeyFile string `yaml:"keyFile,omitempty"`
}

// Load reads and parses a YAML config file at path.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ConnectionInfo converts the parsed connection section into a
// face.ConnectionInfo.
func (c *Config) ConnectionInfo() face.ConnectionInfo {
	return face.ConnectionInfo{
		Scheme: c.Connection.Scheme,
		Host:   c.Connection.Host,
		Port:   c.Connection.Port,
		Path:   c.Connection.Path,
		Url:    c.Connection.Url,
		Local:  c.Connection.Local,
	}
}
