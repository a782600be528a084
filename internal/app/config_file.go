package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/hyperifyio/housefinder/internal/extract"
)

// FileConfig is the single-file configuration schema. Every field is
// optional; zero values leave the current setting alone.
type FileConfig struct {
	Host            string        `yaml:"host" json:"host"`
	Port            int           `yaml:"port" json:"port"`
	StaticDirectory string        `yaml:"staticDirectory" json:"staticDirectory"`
	RequestTimeout  time.Duration `yaml:"requestTimeout" json:"requestTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" json:"shutdownTimeout"`

	Database struct {
		URL string `yaml:"url" json:"url"`
	} `yaml:"database" json:"database"`

	CORS struct {
		Origins []string `yaml:"origins" json:"origins"`
	} `yaml:"cors" json:"cors"`

	Fetch struct {
		UserAgent     string        `yaml:"userAgent" json:"userAgent"`
		Timeout       time.Duration `yaml:"timeout" json:"timeout"`
		MaxAttempts   int           `yaml:"maxAttempts" json:"maxAttempts"`
		MaxConcurrent int           `yaml:"maxConcurrent" json:"maxConcurrent"`
	} `yaml:"fetch" json:"fetch"`

	Cache struct {
		Dir         string        `yaml:"dir" json:"dir"`
		MaxAge      time.Duration `yaml:"maxAge" json:"maxAge"`
		Clear       bool          `yaml:"clear" json:"clear"`
		StrictPerms bool          `yaml:"strictPerms" json:"strictPerms"`
		FreshFor    time.Duration `yaml:"freshFor" json:"freshFor"`
		MaxBytes    int64         `yaml:"maxBytes" json:"maxBytes"`
		MaxEntries  int           `yaml:"maxEntries" json:"maxEntries"`
	} `yaml:"cache" json:"cache"`

	// Markers overrides individual extraction markers; lists replace the
	// default list for that marker.
	Markers extract.Markers `yaml:"markers" json:"markers"`

	Verbose bool `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays every non-zero value of fc onto cfg.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	str := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	num := func(dst *int, v int) {
		if v != 0 {
			*dst = v
		}
	}
	dur := func(dst *time.Duration, v time.Duration) {
		if v != 0 {
			*dst = v
		}
	}

	str(&cfg.Host, fc.Host)
	num(&cfg.Port, fc.Port)
	str(&cfg.StaticDir, fc.StaticDirectory)
	dur(&cfg.RequestTimeout, fc.RequestTimeout)
	dur(&cfg.ShutdownTimeout, fc.ShutdownTimeout)
	str(&cfg.DatabaseURL, fc.Database.URL)
	if len(fc.CORS.Origins) > 0 {
		cfg.CORSOrigins = append([]string(nil), fc.CORS.Origins...)
	}

	str(&cfg.UserAgent, fc.Fetch.UserAgent)
	dur(&cfg.FetchTimeout, fc.Fetch.Timeout)
	num(&cfg.FetchMaxAttempts, fc.Fetch.MaxAttempts)
	num(&cfg.FetchMaxConcurrent, fc.Fetch.MaxConcurrent)

	str(&cfg.CacheDir, fc.Cache.Dir)
	dur(&cfg.CacheMaxAge, fc.Cache.MaxAge)
	dur(&cfg.CacheFreshFor, fc.Cache.FreshFor)
	num(&cfg.CacheMaxEntries, fc.Cache.MaxEntries)
	if fc.Cache.MaxBytes != 0 {
		cfg.CacheMaxBytes = fc.Cache.MaxBytes
	}
	if fc.Cache.Clear {
		cfg.CacheClear = true
	}
	if fc.Cache.StrictPerms {
		cfg.CacheStrictPerms = true
	}

	cfg.Markers = cfg.Markers.Overlay(fc.Markers)

	if fc.Verbose {
		cfg.Verbose = true
	}
}

// ValidateConfig rejects settings the server cannot run with.
func ValidateConfig(cfg Config) error {
	if cfg.Port < 0 || cfg.Port > 65535 {
		return fmt.Errorf("config: port %d out of range", cfg.Port)
	}
	if cfg.FetchMaxAttempts < 0 || cfg.FetchMaxConcurrent < 0 || cfg.CacheMaxEntries < 0 || cfg.CacheMaxBytes < 0 {
		return errors.New("config: negative limits are not allowed")
	}
	if cfg.FetchTimeout < 0 || cfg.CacheMaxAge < 0 || cfg.CacheFreshFor < 0 {
		return errors.New("config: negative durations are not allowed")
	}
	if strings.TrimSpace(cfg.StaticDir) != "" {
		info, err := os.Stat(cfg.StaticDir)
		if err != nil {
			return fmt.Errorf("config: static directory: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("config: static directory %q is not a directory", cfg.StaticDir)
		}
	}
	return nil
}
