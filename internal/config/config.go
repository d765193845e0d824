// Package config implements the ambient operator-preference file described
// in SPEC_FULL.md §2a: an optional config.yaml under the persistent root
// holding defaults (theme, editor, script runner, default history size)
// that environment variables always override.
//
// Grounded on the teacher's internal/config/config.go: the Config struct
// shape, Load/Save, and overrideFromEnv pattern, narrowed from daemon-sync
// settings to this project's much smaller operator-preference surface.
package config

import (
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/berrythewa/clipman-daemon/pkg/utils"
)

// FileName is the config file's name under the persistent root.
const FileName = "config.yaml"

// Config holds operator preferences that seed defaults before the
// environment variables in spec §6 override them.
type Config struct {
	Theme              string `yaml:"theme"`
	MaximumHistorySize int    `yaml:"maximum_history_size"`
	Editor             string `yaml:"editor"`
	ScriptRunner       string `yaml:"script_runner"`
	NoProgress         bool   `yaml:"no_progress"`
	NoGui              bool   `yaml:"no_gui"`
	NoRemote           bool   `yaml:"no_remote"`
	Silent             bool   `yaml:"silent"`
	Locale             string `yaml:"locale"`
}

// Default returns the zero-preferences config: no theme override, unlimited
// history, editor/script-runner resolved from the platform default at use
// time.
func Default() Config {
	return Config{}
}

// Load reads persistDir/config.yaml, returning Default() if it doesn't
// exist. A malformed file is a hard error — unlike the env vars layered on
// top, an operator-authored file is assumed intentional.
func Load(persistDir string) (Config, error) {
	path := filepath.Join(persistDir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes cfg to persistDir/config.yaml, creating the directory if
// needed.
func Save(persistDir string, cfg Config) error {
	if err := utils.EnsureDir(persistDir); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(persistDir, FileName), data, 0644)
}

// OverrideFromEnv layers the spec §6 environment variables on top of cfg,
// following the teacher's overrideFromEnv pattern: env vars always win when
// set, file values otherwise stand.
func OverrideFromEnv(cfg Config) Config {
	if v := os.Getenv("CLIPBOARD_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("CLIPBOARD_HISTORY"); v != "" {
		if n, err := parseNonNegativeInt(v); err == nil {
			cfg.MaximumHistorySize = n
		}
	}
	if v := os.Getenv("CLIPBOARD_EDITOR"); v != "" {
		cfg.Editor = v
	} else if v := os.Getenv("EDITOR"); v != "" {
		cfg.Editor = v
	} else if v := os.Getenv("VISUAL"); v != "" {
		cfg.Editor = v
	}
	if v := os.Getenv("CLIPBOARD_SCRIPT_RUNNER"); v != "" {
		cfg.ScriptRunner = v
	}
	if utils.EnvTruthy("CLIPBOARD_NOPROGRESS") {
		cfg.NoProgress = true
	}
	if utils.EnvTruthy("CLIPBOARD_NOGUI") {
		cfg.NoGui = true
	}
	if utils.EnvTruthy("CLIPBOARD_NOREMOTE") {
		cfg.NoRemote = true
	}
	if utils.EnvTruthy("CLIPBOARD_SILENT") {
		cfg.Silent = true
	}
	if v := os.Getenv("CLIPBOARD_LOCALE"); v != "" {
		cfg.Locale = v
	}
	return cfg
}

func parseNonNegativeInt(s string) (int, error) {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, os.ErrInvalid
		}
		n = n*10 + int(r-'0')
	}
	return n, nil
}

// DefaultScriptRunner returns the platform default shell used to invoke
// metadata/script when CLIPBOARD_SCRIPT_RUNNER is unset (SPEC_FULL.md
// §4.11).
func DefaultScriptRunner() string {
	if isWindows() {
		return "cmd"
	}
	return "sh"
}

func isWindows() bool { return runtime.GOOS == "windows" }
