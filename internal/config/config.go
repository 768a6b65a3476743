// Package config loads the YAML configuration shared by the client and the
// posting service.
package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

var configLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	configLogger = l
}

const (
	BackendLocal  = "local"
	BackendRemote = "remote"
)

// Config represents the complete configuration structure
type Config struct {
	Backend   BackendConfig   `yaml:"backend"`
	Storage   StorageConfig   `yaml:"storage"`
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
	Reporting ReportingConfig `yaml:"reporting"`
	UI        UIConfig        `yaml:"ui"`
}

type BackendConfig struct {
	Mode     string `yaml:"mode" default:"local"`
	Endpoint string `yaml:"endpoint" default:"http://localhost:12700"`
	Timeout  string `yaml:"timeout" default:"10s"`
}

type StorageConfig struct {
	// Path of the SQLite database; empty means the XDG data directory
	Path string `yaml:"path" default:""`
}

type ServerConfig struct {
	Host string `yaml:"host" default:"0.0.0.0"`
	Port string `yaml:"port" default:"12700"`
}

type LoggingConfig struct {
	Level string `yaml:"level" default:"info"`
	File  string `yaml:"file" default:""`
}

type ReportingConfig struct {
	SentryDSN   string `yaml:"sentry_dsn" default:""`
	Environment string `yaml:"environment" default:"development"`
}

type UIConfig struct {
	Theme       string `yaml:"theme" default:"tokyo-night"`
	FeedLimit   int    `yaml:"feed_limit" default:"50"`
	ShowProfile bool   `yaml:"show_profile" default:"true"`
}

// RequestTimeout parses Backend.Timeout, falling back to ten seconds
func (c *Config) RequestTimeout() time.Duration {
	d, err := time.ParseDuration(c.Backend.Timeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// Addr returns the listen address of the posting service
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// Validate checks values that have a fixed set of choices
func (c *Config) Validate() error {
	switch c.Backend.Mode {
	case BackendLocal, BackendRemote:
	default:
		return fmt.Errorf("backend.mode must be %q or %q, got %q", BackendLocal, BackendRemote, c.Backend.Mode)
	}
	if c.Backend.Mode == BackendRemote && c.Backend.Endpoint == "" {
		return fmt.Errorf("backend.endpoint is required in remote mode")
	}
	return nil
}

// Load reads the config file at path on top of the defaults, then applies
// ASK_* environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	config := &Config{}

	// Apply default values first
	applyDefaults(config)

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case os.IsNotExist(err):
		configLogger.Info().Str("path", path).Msg("Config file not found, using defaults")
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	applyEnv(config, os.Getenv)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// envOverrides maps environment variables onto config fields
var envOverrides = map[string]func(*Config, string){
	"ASK_BACKEND":     func(c *Config, v string) { c.Backend.Mode = v },
	"ASK_ENDPOINT":    func(c *Config, v string) { c.Backend.Endpoint = v },
	"ASK_DB_PATH":     func(c *Config, v string) { c.Storage.Path = v },
	"ASK_LOG_LEVEL":   func(c *Config, v string) { c.Logging.Level = v },
	"ASK_LOG_FILE":    func(c *Config, v string) { c.Logging.File = v },
	"ASK_SENTRY_DSN":  func(c *Config, v string) { c.Reporting.SentryDSN = v },
	"ASK_ENVIRONMENT": func(c *Config, v string) { c.Reporting.Environment = v },
	"ASK_PORT":        func(c *Config, v string) { c.Server.Port = v },
	"ASK_UI_THEME":    func(c *Config, v string) { c.UI.Theme = v },
}

func applyEnv(config *Config, getenv func(string) string) {
	for key, set := range envOverrides {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			set(config, v)
		}
	}
}

func ApplyDefaults(config interface{}) {
	applyDefaults(config)
}

func applyDefaults(config interface{}) {
	v := reflect.ValueOf(config)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return
	}

	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.IsValid() || !field.CanSet() {
			continue
		}

		// Recursively apply defaults to nested structs
		if field.Kind() == reflect.Struct {
			applyDefaults(field.Addr().Interface())
			continue
		}

		defaultValue := fieldType.Tag.Get("default")
		if defaultValue == "" {
			continue
		}

		switch field.Kind() {
		case reflect.String:
			field.SetString(defaultValue)
		case reflect.Bool:
			if val, err := strconv.ParseBool(defaultValue); err == nil {
				field.SetBool(val)
			}
		case reflect.Int:
			if val, err := strconv.ParseInt(defaultValue, 10, 64); err == nil {
				field.SetInt(val)
			}
		default:
			configLogger.Warn().
				Str("field_name", fieldType.Name).
				Str("field_type", field.Kind().String()).
				Msg("Unsupported field type for default value")
		}
	}
}
