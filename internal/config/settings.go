// Package config resolves the engine's Settings from a config file,
// environment variables, and CLI flags, in that order of increasing
// precedence.
package config

import (
	"log/slog"
	"os"
	"time"

	"github.com/nicholaswilde/rescue-groups-mcp/internal/mcperror"
)

// Settings is the fully resolved configuration the engine runs with.
type Settings struct {
	APIKey     string
	BaseURL    string
	PostalCode string
	Miles      int
	Species    string
	Lazy       bool

	RateLimitRequests int
	RateLimitWindow   time.Duration

	AuthToken string // Bearer token required on HTTP transport; empty disables the gate

	CacheCapacity int
	CacheTTL      time.Duration

	RequestTimeout time.Duration
	ConnectTimeout time.Duration

	LogLevel  slog.Level
	LogFormat string // "json" or "text"
}

// Defaults mirrors the original implementation's defaults, carried forward
// verbatim except where SPEC_FULL.md documents a deliberate change.
func Defaults() Settings {
	return Settings{
		BaseURL:           "https://api.rescuegroups.org/v5",
		PostalCode:        "90210",
		Miles:             50,
		Species:           "dogs",
		Lazy:              true,
		RateLimitRequests: 60,
		RateLimitWindow:   60 * time.Second,
		CacheCapacity:     1000,
		CacheTTL:          15 * time.Minute,
		RequestTimeout:    30 * time.Second,
		ConnectTimeout:    10 * time.Second,
		LogLevel:          slog.LevelInfo,
		LogFormat:         "json",
	}
}

// Flags carries the subset of Settings that the CLI front end may override.
// Zero values mean "not set on the command line" and leave the lower layers'
// values untouched in Load.
type Flags struct {
	APIKey     string
	BaseURL    string
	PostalCode string
	Miles      int
	Species    string
	ConfigFile string
	AuthToken  string
	Lazy       *bool
}

// Load resolves Settings from, in increasing precedence: the process
// defaults, an optional config file (toml/yaml/json dispatched by
// extension), environment variables, then CLI flags. A missing or
// unparseable API key after all three layers is a ConfigError.
func Load(configPath string, flags Flags) (Settings, error) {
	s := Defaults()

	if configPath != "" {
		fc, err := LoadFile(configPath)
		if err != nil {
			return Settings{}, err
		}
		applyFile(&s, fc)
	}

	applyEnv(&s)
	applyFlags(&s, flags)

	if s.APIKey == "" {
		return Settings{}, mcperror.Config(
			"API key is missing; set RESCUE_GROUPS_API_KEY, add api_key to a config file, or pass --api-key")
	}
	return s, nil
}

func applyFile(s *Settings, fc *FileConfig) {
	if fc.APIKey != "" {
		s.APIKey = fc.APIKey
	}
	if fc.BaseURL != "" {
		s.BaseURL = fc.BaseURL
	}
	if fc.PostalCode != "" {
		s.PostalCode = fc.PostalCode
	}
	if fc.Miles != 0 {
		s.Miles = fc.Miles
	}
	if fc.Species != "" {
		s.Species = fc.Species
	}
	if fc.Lazy != nil {
		s.Lazy = *fc.Lazy
	}
	if fc.RateLimitRequests != 0 {
		s.RateLimitRequests = fc.RateLimitRequests
	}
	if fc.RateLimitWindowSecs != 0 {
		s.RateLimitWindow = time.Duration(fc.RateLimitWindowSecs) * time.Second
	}
	if fc.AuthToken != "" {
		s.AuthToken = fc.AuthToken
	}
}

func applyEnv(s *Settings) {
	if v := os.Getenv("RESCUE_GROUPS_API_KEY"); v != "" {
		s.APIKey = v
	}
	if v := os.Getenv("RESCUE_GROUPS_BASE_URL"); v != "" {
		s.BaseURL = v
	}
	if v := os.Getenv("MCP_AUTH_TOKEN"); v != "" {
		s.AuthToken = v
	}
	// RUST_LOG/RUST_LOG_FORMAT: names retained for compatibility with
	// existing operator expectations, per spec.
	if v := os.Getenv("RUST_LOG"); v != "" {
		s.LogLevel = parseLevel(v)
	}
	if v := os.Getenv("RUST_LOG_FORMAT"); v != "" {
		s.LogFormat = v
	}
}

func applyFlags(s *Settings, f Flags) {
	if f.APIKey != "" {
		s.APIKey = f.APIKey
	}
	if f.BaseURL != "" {
		s.BaseURL = f.BaseURL
	}
	if f.PostalCode != "" {
		s.PostalCode = f.PostalCode
	}
	if f.Miles != 0 {
		s.Miles = f.Miles
	}
	if f.Species != "" {
		s.Species = f.Species
	}
	if f.AuthToken != "" {
		s.AuthToken = f.AuthToken
	}
	if f.Lazy != nil {
		s.Lazy = *f.Lazy
	}
}

func parseLevel(v string) slog.Level {
	switch v {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
