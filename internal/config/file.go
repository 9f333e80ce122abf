package config

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/nicholaswilde/rescue-groups-mcp/internal/mcperror"
)

// FileConfig is the shape of a config.toml/config.yaml/config.json file.
// Pointer and zero-value fields distinguish "absent" from "set to the zero
// value" where that distinction matters (Lazy).
type FileConfig struct {
	APIKey              string `toml:"api_key" yaml:"api_key" json:"api_key"`
	BaseURL             string `toml:"base_url" yaml:"base_url" json:"base_url"`
	PostalCode          string `toml:"postal_code" yaml:"postal_code" json:"postal_code"`
	Miles               int    `toml:"miles" yaml:"miles" json:"miles"`
	Species             string `toml:"species" yaml:"species" json:"species"`
	Lazy                *bool  `toml:"lazy" yaml:"lazy" json:"lazy"`
	RateLimitRequests   int    `toml:"rate_limit_requests" yaml:"rate_limit_requests" json:"rate_limit_requests"`
	RateLimitWindowSecs int    `toml:"rate_limit_window_secs" yaml:"rate_limit_window_secs" json:"rate_limit_window_secs"`
	AuthToken           string `toml:"auth_token" yaml:"auth_token" json:"auth_token"`
}

// LoadFile reads and parses a config file, dispatching on its extension.
// An unsupported extension is a ConfigError; an unreadable or malformed
// file is a ConfigError wrapping the underlying parse failure.
func LoadFile(path string) (*FileConfig, error) {
	raw, err := readFile(path)
	if err != nil {
		return nil, mcperror.Wrap(mcperror.KindConfig, err, "read config file %s", path)
	}

	var fc FileConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(raw, &fc); err != nil {
			return nil, mcperror.Wrap(mcperror.KindConfig, err, "parse toml config %s", path)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &fc); err != nil {
			return nil, mcperror.Wrap(mcperror.KindConfig, err, "parse yaml config %s", path)
		}
	case ".json":
		if err := json.Unmarshal(raw, &fc); err != nil {
			return nil, mcperror.Wrap(mcperror.KindConfig, err, "parse json config %s", path)
		}
	default:
		return nil, mcperror.Config("unsupported config file extension %q", ext)
	}
	return &fc, nil
}

// readFile is overridden in tests via a package-level var so file-format
// dispatch can be exercised without touching the real filesystem.
var readFile = defaultReadFile
