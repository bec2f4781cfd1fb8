// Package config resolves verse-tui settings from defaults, an optional YAML
// file, VERSE_* environment variables and command-line flags, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"

	"verse-tui/internal/api"
	"verse-tui/internal/storage"
)

const (
	AppName   = "verse-tui"
	EnvPrefix = "VERSE"

	configFileName = "config"
	configFileType = "yaml"
)

// Keys, shared by the config file, environment (upper-cased with the
// VERSE_ prefix) and flag bindings.
const (
	KeyAPIKey              = "api_key"
	KeyBaseURL             = "base_url"
	KeyDefaultVersion      = "default_version"
	KeyRecommendedVersions = "recommended_versions"
	KeyHTTPTimeout         = "http_timeout"
	KeyStorage             = "storage"
	KeyDataDir             = "data_dir"
	KeyTheme               = "theme"
	KeyLogLevel            = "log_level"
	KeyLogFormat           = "log_format"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
)

type Config struct {
	APIKey              string
	BaseURL             string
	DefaultVersion      string
	RecommendedVersions []string
	HTTPTimeout         time.Duration
	Storage             string
	DataDir             string
	Theme               string
	LogLevel            string
	LogFormat           string

	// File is the config file that was read, empty when none was found.
	File string
}

// Dir returns the per-user configuration directory for verse-tui.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, AppName), nil
}

// New returns a viper instance with defaults and environment binding set up.
// Callers bind flags on it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyAPIKey, "")
	v.SetDefault(KeyBaseURL, api.DefaultBaseURL)
	v.SetDefault(KeyDefaultVersion, api.KJV)
	v.SetDefault(KeyRecommendedVersions, api.RecommendedVersions)
	v.SetDefault(KeyHTTPTimeout, "15s")
	v.SetDefault(KeyStorage, storage.BackendSQLite)
	v.SetDefault(KeyDataDir, "")
	v.SetDefault(KeyTheme, "")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
	return v
}

// Load reads the config file and returns the resolved settings. An explicit
// file must exist; otherwise config.yaml in Dir() is read when present.
func Load(v *viper.Viper, file string) (Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		if dir, err := Dir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		APIKey:              strings.TrimSpace(v.GetString(KeyAPIKey)),
		BaseURL:             v.GetString(KeyBaseURL),
		DefaultVersion:      v.GetString(KeyDefaultVersion),
		RecommendedVersions: splitList(v.GetStringSlice(KeyRecommendedVersions)),
		HTTPTimeout:         v.GetDuration(KeyHTTPTimeout),
		Storage:             strings.ToLower(v.GetString(KeyStorage)),
		DataDir:             v.GetString(KeyDataDir),
		Theme:               v.GetString(KeyTheme),
		LogLevel:            strings.ToLower(v.GetString(KeyLogLevel)),
		LogFormat:           strings.ToLower(v.GetString(KeyLogFormat)),
		File:                v.ConfigFileUsed(),
	}

	if cfg.DataDir == "" {
		dir, err := Dir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve data dir: %w", err)
		}
		cfg.DataDir = dir
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail later in confusing ways.
// A missing API key is not a validation error: the reader still starts and
// reports it in each view.
func (c Config) Validate() error {
	var errs []error
	if !slices.Contains([]string{storage.BackendSQLite, storage.BackendFile, storage.BackendMemory}, c.Storage) {
		errs = append(errs, fmt.Errorf("%w: storage %q (want sqlite, file or memory)", ErrInvalid, c.Storage))
	}
	if !slices.Contains(logLevels, c.LogLevel) {
		errs = append(errs, fmt.Errorf("%w: log_level %q", ErrInvalid, c.LogLevel))
	}
	if !slices.Contains(logFormats, c.LogFormat) {
		errs = append(errs, fmt.Errorf("%w: log_format %q", ErrInvalid, c.LogFormat))
	}
	if c.HTTPTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%w: http_timeout must be positive", ErrInvalid))
	}
	if c.DefaultVersion == "" {
		errs = append(errs, fmt.Errorf("%w: default_version is empty", ErrInvalid))
	}
	return errors.Join(errs...)
}

// splitList accepts both YAML lists and a single comma separated value, as
// set through VERSE_RECOMMENDED_VERSIONS.
func splitList(in []string) []string {
	var out []string
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
