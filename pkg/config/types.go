// Package config loads crabdb's process-level configuration from CLI
// flags, environment variables, and an optional YAML file, merging them
// with a single-source-per-field precedence: flag beats env beats file
// beats built-in default.
package config

import "fmt"

// Config holds every process-level input the core depends on, per the
// spec's "the core exposes them as a configuration record" contract.
type Config struct {
	// Listen is the TCP address the KV wire protocol listens on.
	Listen string
	// AdminListen is the address the observability-only HTTP surface
	// listens on.
	AdminListen string
	// AOLDir is the directory the append-only log's files live under.
	AOLDir string
	// AOLFiles is the number of AOL files (M in the spec).
	AOLFiles int
	// StoreShards is the number of in-memory map shards (N in the spec).
	StoreShards int
	// Workers is the fixed worker pool size.
	Workers int
	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string
	// AcceptRatePerSecond throttles how fast new connections are handed
	// to the worker pool. Zero or negative disables throttling.
	AcceptRatePerSecond float64
}

// Default returns crabdb's built-in defaults, the last-resort source in
// the flag > env > file > default precedence chain.
func Default() Config {
	return Config{
		Listen:              ":7227",
		AdminListen:         ":7228",
		AOLDir:              "./data/aol",
		AOLFiles:            4,
		StoreShards:         4,
		Workers:             4,
		LogLevel:            "info",
		AcceptRatePerSecond: 0,
	}
}

// Validate rejects configurations the core cannot run with.
func (c Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("config: listen address must not be empty")
	}
	if c.AOLDir == "" {
		return fmt.Errorf("config: aol directory must not be empty")
	}
	if c.AOLFiles <= 0 {
		return fmt.Errorf("config: aol file count must be positive, got %d", c.AOLFiles)
	}
	if c.StoreShards <= 0 {
		return fmt.Errorf("config: store shard count must be positive, got %d", c.StoreShards)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("config: worker count must be positive, got %d", c.Workers)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log level %q", c.LogLevel)
	}
	return nil
}
