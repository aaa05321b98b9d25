package config

import (
	"strings"

	"github.com/joho/godotenv"
)

// EffectiveConfigResult is the merged Config plus a human-readable
// record of which sources actually contributed a value, printed by
// pkg/banner and useful in a support request.
type EffectiveConfigResult struct {
	Config     Config
	Source     string
	ConfigPath string
}

// LoadEffectiveConfig is crabdb's single entry point for configuration:
// it loads a .env file (if present, exactly like the teacher's main.go
// does before anything else), parses flags, reads the environment, and
// reads the YAML config file named by --config, then merges them with
// flag > env > file > default precedence, one winner per field.
func LoadEffectiveConfig(args []string) (EffectiveConfigResult, error) {
	_ = godotenv.Load() // absence of .env is not an error

	pf, err := ParseFlags(args)
	if err != nil {
		return EffectiveConfigResult{}, err
	}
	env := ParseEnv()
	file, err := LoadFile(pf.configPath)
	if err != nil {
		return EffectiveConfigResult{}, err
	}
	def := Default()

	var sources []string
	merged := def

	mergeString(&merged.Listen, &sources, "listen", pf.overlay.Listen, env.Listen, file.Listen)
	mergeString(&merged.AdminListen, &sources, "admin_listen", pf.overlay.AdminListen, env.AdminListen, file.AdminListen)
	mergeString(&merged.AOLDir, &sources, "aol_dir", pf.overlay.AOLDir, env.AOLDir, file.AOLDir)
	mergeInt(&merged.AOLFiles, &sources, "aol_files", pf.overlay.AOLFiles, env.AOLFiles, file.AOLFiles)
	mergeInt(&merged.StoreShards, &sources, "store_shards", pf.overlay.StoreShards, env.StoreShards, file.StoreShards)
	mergeInt(&merged.Workers, &sources, "workers", pf.overlay.Workers, env.Workers, file.Workers)
	mergeString(&merged.LogLevel, &sources, "log_level", pf.overlay.LogLevel, env.LogLevel, file.LogLevel)
	mergeFloat(&merged.AcceptRatePerSecond, &sources, "accept_rate_per_second", pf.overlay.AcceptRate, env.AcceptRate, file.AcceptRate)

	src := "defaults"
	if len(sources) > 0 {
		src = strings.Join(sources, ",")
	}

	return EffectiveConfigResult{Config: merged, Source: src, ConfigPath: pf.configPath}, nil
}

// mergeString sets *dst to the first non-nil of flag, env, file (in that
// precedence order) and records which source won, leaving *dst at its
// current (default) value if none of the three spoke.
func mergeString(dst *string, sources *[]string, field string, flag, env, file *string) {
	switch {
	case flag != nil:
		*dst = *flag
		*sources = append(*sources, field+"=flag")
	case env != nil:
		*dst = *env
		*sources = append(*sources, field+"=env")
	case file != nil:
		*dst = *file
		*sources = append(*sources, field+"=file")
	}
}

func mergeInt(dst *int, sources *[]string, field string, flag, env, file *int) {
	switch {
	case flag != nil:
		*dst = *flag
		*sources = append(*sources, field+"=flag")
	case env != nil:
		*dst = *env
		*sources = append(*sources, field+"=env")
	case file != nil:
		*dst = *file
		*sources = append(*sources, field+"=file")
	}
}

func mergeFloat(dst *float64, sources *[]string, field string, flag, env, file *float64) {
	switch {
	case flag != nil:
		*dst = *flag
		*sources = append(*sources, field+"=flag")
	case env != nil:
		*dst = *env
		*sources = append(*sources, field+"=env")
	case file != nil:
		*dst = *file
		*sources = append(*sources, field+"=file")
	}
}
