package main

import (
	"log/slog"
	"os"

	"github.com/nicholaswilde/rescue-groups-mcp/internal/cache"
	"github.com/nicholaswilde/rescue-groups-mcp/internal/config"
	"github.com/nicholaswilde/rescue-groups-mcp/internal/ratelimit"
	"github.com/nicholaswilde/rescue-groups-mcp/internal/registry"
	"github.com/nicholaswilde/rescue-groups-mcp/internal/rescuegroups"
)

// engine bundles the process-wide singletons every subcommand needs: a
// configured upstream client and the tool registry. cmdServer/cmdHTTP wrap
// these with the MCP protocol core; the direct CLI subcommands call the
// client straight through, bypassing the protocol layer entirely.
type engine struct {
	settings config.Settings
	client   *rescuegroups.Client
	registry *registry.Registry
}

func buildEngine(flags map[string]string) (*engine, error) {
	configureLogging(flags)

	cfgFlags := config.Flags{
		APIKey:     flags["api-key"],
		BaseURL:    flags["base-url"],
		PostalCode: flags["postal-code"],
		Miles:      intFlag(flags, "miles", 0),
		Species:    flags["species"],
		AuthToken:  flags["auth-token"],
	}
	if v, ok := flags["lazy"]; ok {
		b := v != "false"
		cfgFlags.Lazy = &b
	}

	settings, err := config.Load(flags["config"], cfgFlags)
	if err != nil {
		return nil, err
	}

	limiter := ratelimit.New(settings.RateLimitRequests, settings.RateLimitWindow)
	respCache := cache.New[string, *rescuegroups.Document](settings.CacheCapacity, settings.CacheTTL)
	client := rescuegroups.New(settings.BaseURL, settings.APIKey, settings.ConnectTimeout, settings.RequestTimeout, limiter, respCache)

	return &engine{settings: settings, client: client, registry: registry.New()}, nil
}

func configureLogging(flags map[string]string) {
	// RUST_LOG/RUST_LOG_FORMAT: names retained for compatibility with
	// existing operator expectations, per spec.
	level := slog.LevelInfo
	switch os.Getenv("RUST_LOG") {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: level}
	if os.Getenv("RUST_LOG_FORMAT") == "text" {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
