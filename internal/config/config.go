package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// EnvPrefix prefixes every environment override, e.g. DAYLOG_DATA_DIR.
const EnvPrefix = "DAYLOG"

// Config is the root configuration for daylog, stored in ~/.daylog/config.json.
// The file supports single-line // comments for documentation purposes.
type Config struct {
	// DataDir holds the per-date JSON files and timeblocks.csv.
	DataDir string        `json:"data_dir" split_words:"true"`
	Outlook OutlookConfig `json:"outlook"`
}

// OutlookConfig holds Microsoft Graph / Outlook calendar import settings.
type OutlookConfig struct {
	// TenantID is the Azure AD tenant. Use "common" for personal/multi-tenant accounts.
	TenantID string `json:"tenant_id" split_words:"true"`
	// ClientID is the Azure app (client) ID for the OAuth2 device code flow.
	ClientID string `json:"client_id" split_words:"true"`
	// Timezone is the IANA timezone for event times (e.g. "Asia/Shanghai"). Empty = UTC.
	Timezone string `json:"timezone"`
}

const (
	// DefaultTenantID is the Microsoft "common" tenant (supports personal and
	// multi-tenant organisational accounts without additional registration).
	DefaultTenantID = "common"
	// DefaultClientID is the well-known public Azure CLI app ID.
	// It supports device code flow without a client secret and requires no
	// app registration.
	DefaultClientID = "04b07795-8542-4c4a-95af-30b2c573d5ab"
)

// defaultConfig returns a Config pre-filled with defaults. home is the
// daylog home directory (~/.daylog).
func defaultConfig(home string) Config {
	return Config{
		DataDir: filepath.Join(home, "data"),
		Outlook: OutlookConfig{
			TenantID: DefaultTenantID,
			ClientID: DefaultClientID,
		},
	}
}

// configTemplate is the annotated config written on first run.
// Lines whose trimmed content starts with // are stripped before JSON parsing.
const configTemplate = `// daylog configuration – ~/.daylog/config.json
//
// All settings are optional. Every value can also be overridden with an
// environment variable, e.g. DAYLOG_DATA_DIR or DAYLOG_OUTLOOK_TIMEZONE.
{
  // Directory holding one <date>.json per day and the aggregated
  // timeblocks.csv. Empty means ~/.daylog/data.
  "data_dir": "",

  // ── Microsoft Graph / Outlook calendar import ───────────────────────────
  "outlook": {
    // Azure AD tenant ID: "common" or your organisation's tenant GUID.
    "tenant_id": "common",

    // Azure application (client) ID used for the OAuth2 device code flow.
    // The built-in value is the public Azure CLI app – no app registration needed.
    "client_id": "04b07795-8542-4c4a-95af-30b2c573d5ab",

    // IANA timezone for interpreting calendar event times, e.g. "Asia/Shanghai".
    // Leave empty to use UTC. Can be overridden with: daylog outlook sync --timezone <tz>
    "timezone": ""
  }
}
`

// HomeDir returns ~/.daylog.
func HomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".daylog"), nil
}

// stripLineComments removes lines whose leading non-whitespace content starts
// with //. Only full-line comments are handled; inline comments are not stripped.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// Load reads ~/.daylog/config.json, creating it with annotated defaults on
// first run, then applies DAYLOG_* environment overrides.
func Load() (Config, error) {
	home, err := HomeDir()
	if err != nil {
		return Config{}, err
	}
	return LoadFrom(home)
}

// LoadFrom is Load with an explicit daylog home directory.
func LoadFrom(home string) (Config, error) {
	path := filepath.Join(home, "config.json")
	cfg := defaultConfig(home)

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			log.Warn().Err(writeErr).Str("path", path).Msg("could not create config file")
		}
	case err != nil:
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	default:
		var fileCfg Config
		if err := json.Unmarshal(stripLineComments(data), &fileCfg); err != nil {
			return cfg, fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
		}
		merge(&cfg, fileCfg)
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to process environment variables: %w", err)
	}

	log.Debug().
		Str("data_dir", cfg.DataDir).
		Str("tenant_id", cfg.Outlook.TenantID).
		Str("timezone", cfg.Outlook.Timezone).
		Msg("configuration loaded")
	return cfg, nil
}

// merge copies every non-empty field of src over dst so that a partially
// filled file keeps the built-in defaults.
func merge(dst *Config, src Config) {
	if src.DataDir != "" {
		dst.DataDir = src.DataDir
	}
	if src.Outlook.TenantID != "" {
		dst.Outlook.TenantID = src.Outlook.TenantID
	}
	if src.Outlook.ClientID != "" {
		dst.Outlook.ClientID = src.Outlook.ClientID
	}
	if src.Outlook.Timezone != "" {
		dst.Outlook.Timezone = src.Outlook.Timezone
	}
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
