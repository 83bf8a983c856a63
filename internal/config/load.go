package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix for environment-variable overrides.
//
// Overrides apply to the environment section only; catalogs and category
// flags always come from the file. Recognized variables:
//
//	REQTRACE_API_URL        → environment.apiUrl
//	REQTRACE_SPREADSHEET_ID → environment.spreadsheetId
//	REQTRACE_TIMEOUT_MS     → environment.timeoutMs
//	REQTRACE_RETRIES        → environment.retries
const EnvPrefix = "REQTRACE_"

// envKeys maps environment-variable suffixes to koanf paths. Explicit
// rather than derived: the YAML keys are camelCase and a mechanical
// lower-casing transform would never land on them.
var envKeys = map[string]string{
	"API_URL":        "environment::apiUrl",
	"SPREADSHEET_ID": "environment::spreadsheetId",
	"TIMEOUT_MS":     "environment::timeoutMs",
	"RETRIES":        "environment::retries",
}

// keyDelim separates nested koanf keys. Requirement IDs contain dots
// ("auth.1"), so the default "." delimiter would split them apart.
const keyDelim = "::"

// Load parses configuration from raw YAML bytes, then applies environment
// overrides and defaults.
//
// Load errors only on malformed input. Semantically invalid values (zero
// thresholds, no enabled categories) pass through so Validate can report
// them all together.
func Load(data []byte) (*Config, error) {
	k := koanf.New(keyDelim)

	if err := k.Load(rawbytes.Provider(data), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}

	if err := k.Load(env.Provider(EnvPrefix, keyDelim, func(s string) string {
		key := strings.TrimPrefix(s, EnvPrefix)
		return envKeys[key]
	}), nil); err != nil {
		return nil, fmt.Errorf("apply environment overrides: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	if cfg.Environment.TimeoutMs == 0 {
		cfg.Environment.TimeoutMs = DefaultTimeoutMs
	}

	return &cfg, nil
}

// LoadFile reads a YAML configuration file and parses it with Load.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read configuration file: %w", err)
	}
	return Load(data)
}
