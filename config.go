package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const defaultPort = 4445

// Config is the fully resolved server configuration, layered flag > env >
// JSON config file > default, covering the three W3C timeout knobs
// alongside the usual port/token/headless/profile settings.
type Config struct {
	Port       int    `json:"port"`
	Token      string `json:"token"`
	Headless   bool   `json:"headless"`
	ProfileDir string `json:"profileDir"`

	ImplicitMs int64  `json:"implicitMs"`
	PageLoadMs int64  `json:"pageLoadMs"`
	ScriptMs   *int64 `json:"scriptMs"`
}

// configFile mirrors the subset of Config a JSON config file may set; all
// fields are optional so a partial file only overrides what it names.
type configFile struct {
	Port       *int    `json:"port"`
	Token      *string `json:"token"`
	Headless   *bool   `json:"headless"`
	ProfileDir *string `json:"profileDir"`
	ImplicitMs *int64  `json:"implicitMs"`
	PageLoadMs *int64  `json:"pageLoadMs"`
	ScriptMs   *int64  `json:"scriptMs"`
}

func defaultConfig() *Config {
	t := defaultTimeouts()
	home, _ := os.UserHomeDir()
	return &Config{
		Port:       defaultPort,
		Headless:   true,
		ProfileDir: filepath.Join(home, ".pinchtab-webdriver", "chrome-profile"),
		ImplicitMs: t.ImplicitMs,
		PageLoadMs: t.PageLoadMs,
		ScriptMs:   t.ScriptMs,
	}
}

// LoadConfig resolves the server configuration in the documented precedence:
// explicit flagPort (0 means "not set") > TAURI_WEBDRIVER_PORT / PINCHTAB_*
// env vars > PINCHTAB_CONFIG JSON file > built-in defaults.
func LoadConfig(flagPort int) (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("PINCHTAB_CONFIG"); path != "" {
		if err := applyConfigFile(cfg, path); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	if v := os.Getenv("TAURI_WEBDRIVER_PORT"); v != "" {
		if p, err := parsePort(v); err == nil {
			cfg.Port = p
		}
	}
	if v := os.Getenv("PINCHTAB_TOKEN"); v != "" {
		cfg.Token = v
	}
	if v := os.Getenv("PINCHTAB_HEADLESS"); v != "" {
		cfg.Headless = v == "true" || v == "1"
	}
	if v := os.Getenv("PINCHTAB_PROFILE_DIR"); v != "" {
		cfg.ProfileDir = v
	}

	if flagPort != 0 {
		cfg.Port = flagPort
	}

	return cfg, nil
}

func parsePort(v string) (int, error) {
	var p int
	_, err := fmt.Sscanf(v, "%d", &p)
	if err != nil || p <= 0 || p > 65535 {
		return 0, fmt.Errorf("invalid port %q", v)
	}
	return p, nil
}

func applyConfigFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var f configFile
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	if f.Port != nil {
		cfg.Port = *f.Port
	}
	if f.Token != nil {
		cfg.Token = *f.Token
	}
	if f.Headless != nil {
		cfg.Headless = *f.Headless
	}
	if f.ProfileDir != nil {
		cfg.ProfileDir = *f.ProfileDir
	}
	if f.ImplicitMs != nil {
		cfg.ImplicitMs = *f.ImplicitMs
	}
	if f.PageLoadMs != nil {
		cfg.PageLoadMs = *f.PageLoadMs
	}
	if f.ScriptMs != nil {
		cfg.ScriptMs = f.ScriptMs
	}
	return nil
}

// SessionDefaultTimeouts builds the Timeouts a freshly created session
// starts with, per the config's overrides.
func (c *Config) SessionDefaultTimeouts() Timeouts {
	t := Timeouts{ImplicitMs: c.ImplicitMs, PageLoadMs: c.PageLoadMs}
	if c.ScriptMs != nil {
		ms := *c.ScriptMs
		t.ScriptMs = &ms
	}
	return t
}
