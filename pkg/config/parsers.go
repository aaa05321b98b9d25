package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// overlay is a partial Config: nil fields mean "this source didn't set
// this field", letting LoadEffectiveConfig apply each source only where
// it actually spoke.
type overlay struct {
	Listen      *string  `yaml:"listen"`
	AdminListen *string  `yaml:"admin_listen"`
	AOLDir      *string  `yaml:"aol_dir"`
	AOLFiles    *int     `yaml:"aol_files"`
	StoreShards *int     `yaml:"store_shards"`
	Workers     *int     `yaml:"workers"`
	LogLevel    *string  `yaml:"log_level"`
	AcceptRate  *float64 `yaml:"accept_rate_per_second"`
}

func strPtr(s string) *string     { return &s }
func intPtr(i int) *int           { return &i }
func floatPtr(f float64) *float64 { return &f }

// parsedFlags holds the result of ParseFlags: the overlay built from
// explicitly-passed flags (flag.Visit only reports those — unset flags
// keep their zero value in the FlagSet but are absent from this
// overlay) plus the config file path to load, which may itself come
// from a flag.
type parsedFlags struct {
	overlay    overlay
	configPath string
}

// ParseFlags parses args (normally os.Args[1:]) against crabdb's flag
// set. Only flags the caller actually passed end up set in the returned
// overlay — flag.Visit, not flag.VisitAll, drives this, so an
// unspecified flag does not shadow a value from env or file.
func ParseFlags(args []string) (parsedFlags, error) {
	fs := flag.NewFlagSet("crabdb", flag.ContinueOnError)

	listen := fs.String("listen", "", "TCP listen address for the KV protocol")
	adminListen := fs.String("admin-listen", "", "HTTP listen address for the admin surface")
	aolDir := fs.String("aol-dir", "", "directory holding append-only log files")
	aolFiles := fs.Int("aol-files", 0, "number of append-only log files")
	storeShards := fs.Int("store-shards", 0, "number of in-memory store shards")
	workers := fs.Int("workers", 0, "fixed worker pool size")
	logLevel := fs.String("log-level", "", "log level: debug, info, warn, error")
	acceptRate := fs.Float64("accept-rate", 0, "max new connections accepted per second (0 disables throttling)")
	configPath := fs.String("config", "./crabdb.yaml", "path to an optional YAML config file")

	if err := fs.Parse(args); err != nil {
		return parsedFlags{}, err
	}

	var o overlay
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "listen":
			o.Listen = strPtr(*listen)
		case "admin-listen":
			o.AdminListen = strPtr(*adminListen)
		case "aol-dir":
			o.AOLDir = strPtr(*aolDir)
		case "aol-files":
			o.AOLFiles = intPtr(*aolFiles)
		case "store-shards":
			o.StoreShards = intPtr(*storeShards)
		case "workers":
			o.Workers = intPtr(*workers)
		case "log-level":
			o.LogLevel = strPtr(*logLevel)
		case "accept-rate":
			o.AcceptRate = floatPtr(*acceptRate)
		}
	})

	return parsedFlags{overlay: o, configPath: *configPath}, nil
}

// envPrefix is the common prefix for every environment variable
// crabdb reads, mirroring the teacher's PROGRESSDB_ convention.
const envPrefix = "CRABDB_"

// ParseEnv reads CRABDB_* environment variables into an overlay. An
// unset or malformed integer variable is simply omitted, not an error —
// Validate catches anything left genuinely wrong in the merged result.
func ParseEnv() overlay {
	var o overlay
	if v, ok := os.LookupEnv(envPrefix + "LISTEN"); ok {
		o.Listen = strPtr(v)
	}
	if v, ok := os.LookupEnv(envPrefix + "ADMIN_LISTEN"); ok {
		o.AdminListen = strPtr(v)
	}
	if v, ok := os.LookupEnv(envPrefix + "AOL_DIR"); ok {
		o.AOLDir = strPtr(v)
	}
	if v, ok := os.LookupEnv(envPrefix + "AOL_FILES"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			o.AOLFiles = intPtr(n)
		}
	}
	if v, ok := os.LookupEnv(envPrefix + "STORE_SHARDS"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			o.StoreShards = intPtr(n)
		}
	}
	if v, ok := os.LookupEnv(envPrefix + "WORKERS"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			o.Workers = intPtr(n)
		}
	}
	if v, ok := os.LookupEnv(envPrefix + "LOG_LEVEL"); ok {
		o.LogLevel = strPtr(v)
	}
	if v, ok := os.LookupEnv(envPrefix + "ACCEPT_RATE"); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			o.AcceptRate = floatPtr(f)
		}
	}
	return o
}

// LoadFile reads a YAML overlay from path. A missing file is not an
// error — it simply yields a zero-value (all-nil) overlay, so the
// config file is genuinely optional.
func LoadFile(path string) (overlay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return overlay{}, nil
		}
		return overlay{}, fmt.Errorf("config: read file %s: %w", path, err)
	}
	var o overlay
	if err := yaml.Unmarshal(data, &o); err != nil {
		return overlay{}, fmt.Errorf("config: parse file %s: %w", path, err)
	}
	return o, nil
}
