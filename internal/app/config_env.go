package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// ApplyEnvOverrides overrides cfg fields with environment variables that are
// set. It runs after the config file so env wins over the file, and before
// explicit flags so flags win over env.
func ApplyEnvOverrides(cfg *Config) {
	if cfg == nil {
		return
	}

	setString := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	setInt := func(dst *int, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				log.Warn().Str("key", key).Str("value", v).Msg("ignoring non-integer env value")
				return
			}
			*dst = n
		}
	}
	setInt64 := func(dst *int64, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				log.Warn().Str("key", key).Str("value", v).Msg("ignoring non-integer env value")
				return
			}
			*dst = n
		}
	}
	setDuration := func(dst *time.Duration, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				log.Warn().Str("key", key).Str("value", v).Msg("ignoring invalid duration env value")
				return
			}
			*dst = d
		}
	}
	setBool := func(dst *bool, key string) {
		switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
		case "1", "true", "yes", "on":
			*dst = true
		case "0", "false", "no", "off":
			*dst = false
		}
	}

	setString(&cfg.Host, "HOST")
	setInt(&cfg.Port, "PORT")
	setString(&cfg.StaticDir, "STATIC_DIRECTORY")
	if v := strings.TrimSpace(os.Getenv("CORS_ORIGINS")); v != "" {
		cfg.CORSOrigins = SplitList(v)
	}
	setString(&cfg.DatabaseURL, "DATABASE_URL")

	setString(&cfg.UserAgent, "FETCH_USER_AGENT")
	setDuration(&cfg.FetchTimeout, "FETCH_TIMEOUT")
	setInt(&cfg.FetchMaxAttempts, "FETCH_MAX_ATTEMPTS")
	setInt(&cfg.FetchMaxConcurrent, "FETCH_MAX_CONCURRENT")

	setString(&cfg.CacheDir, "CACHE_DIR")
	setDuration(&cfg.CacheMaxAge, "CACHE_MAX_AGE")
	setBool(&cfg.CacheClear, "CACHE_CLEAR")
	setBool(&cfg.CacheStrictPerms, "CACHE_STRICT_PERMS")
	setDuration(&cfg.CacheFreshFor, "CACHE_FRESH_FOR")
	setInt(&cfg.CacheMaxEntries, "CACHE_MAX_ENTRIES")
	setInt64(&cfg.CacheMaxBytes, "CACHE_MAX_BYTES")

	setBool(&cfg.Verbose, "VERBOSE")
}

// SplitList splits a comma-separated list, dropping blanks.
func SplitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
