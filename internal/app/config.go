package app

import (
	"time"

	"github.com/hyperifyio/housefinder/internal/extract"
)

// Config holds runtime configuration for the server and the discover CLI.
type Config struct {
	// HTTP server
	Host            string
	Port            int
	StaticDir       string
	CORSOrigins     []string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration

	// Persistence. Empty keeps houses in memory.
	DatabaseURL string

	// Fetch
	UserAgent          string
	FetchTimeout       time.Duration
	FetchMaxAttempts   int
	FetchMaxConcurrent int

	// Page cache. Empty CacheDir disables caching.
	CacheDir         string
	CacheMaxAge      time.Duration
	CacheClear       bool
	CacheStrictPerms bool
	CacheFreshFor    time.Duration
	CacheMaxBytes    int64
	CacheMaxEntries  int

	// Extraction
	Markers extract.Markers

	Verbose bool
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Port:             8080,
		RequestTimeout:   60 * time.Second,
		ShutdownTimeout:  10 * time.Second,
		FetchTimeout:     20 * time.Second,
		FetchMaxAttempts: 1,
		Markers:          extract.DefaultMarkers(),
	}
}
