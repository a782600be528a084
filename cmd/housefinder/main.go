package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/housefinder/internal/app"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := app.LoadEnvFiles(".env"); err != nil {
		log.Warn().Err(err).Msg("could not load .env")
	}

	cfg, showVersion, err := parseConfig(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		log.Error().Err(err).Msg("invalid configuration")
		os.Exit(2)
	}
	if showVersion {
		fmt.Println(app.VersionString())
		return
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}
}

// parseConfig layers defaults, the optional config file, the environment and
// finally any flag set explicitly on the command line.
func parseConfig(args []string) (app.Config, bool, error) {
	def := app.DefaultConfig()
	fs := flag.NewFlagSet("housefinder", flag.ContinueOnError)

	var (
		configPath  string
		showVersion bool
		flagCfg     = def
		corsOrigins string
	)
	fs.StringVar(&configPath, "config", os.Getenv("HOUSEFINDER_CONFIG"), "Path to a YAML or JSON config file")
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	fs.StringVar(&flagCfg.Host, "host", def.Host, "Interface to listen on")
	fs.IntVar(&flagCfg.Port, "port", def.Port, "Port to listen on")
	fs.StringVar(&flagCfg.StaticDir, "static", def.StaticDir, "Directory of static files served at /")
	fs.StringVar(&corsOrigins, "cors.origins", "", "Comma-separated list of allowed CORS origins")
	fs.StringVar(&flagCfg.DatabaseURL, "database", "", "Postgres connection URL; empty keeps houses in memory")
	fs.DurationVar(&flagCfg.RequestTimeout, "request.timeout", def.RequestTimeout, "Per-request handler timeout")
	fs.StringVar(&flagCfg.UserAgent, "fetch.ua", "", "User-Agent for listing requests")
	fs.DurationVar(&flagCfg.FetchTimeout, "fetch.timeout", def.FetchTimeout, "Timeout per listing request attempt")
	fs.IntVar(&flagCfg.FetchMaxAttempts, "fetch.maxAttempts", def.FetchMaxAttempts, "Attempts per listing request on 5xx or timeout")
	fs.IntVar(&flagCfg.FetchMaxConcurrent, "fetch.maxConcurrent", 0, "Maximum concurrent listing requests (0 is unlimited)")
	fs.StringVar(&flagCfg.CacheDir, "cache.dir", "", "Page cache directory; empty disables caching")
	fs.DurationVar(&flagCfg.CacheMaxAge, "cache.maxAge", 0, "Purge cache entries older than this; 0 disables")
	fs.DurationVar(&flagCfg.CacheFreshFor, "cache.freshFor", 0, "Serve cached pages without revalidation for this long")
	fs.BoolVar(&flagCfg.CacheClear, "cache.clear", false, "Clear the cache directory on start")
	fs.BoolVar(&flagCfg.CacheStrictPerms, "cache.strictPerms", false, "Restrict cache permissions (0700 dirs, 0600 files)")
	fs.Int64Var(&flagCfg.CacheMaxBytes, "cache.maxBytes", 0, "Evict least recently used pages above this total size; 0 disables")
	fs.IntVar(&flagCfg.CacheMaxEntries, "cache.maxEntries", 0, "Evict least recently used pages above this count; 0 disables")
	fs.BoolVar(&flagCfg.Verbose, "v", false, "Verbose logging")

	if err := fs.Parse(args); err != nil {
		return app.Config{}, false, err
	}

	cfg := def
	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			return app.Config{}, false, err
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	app.ApplyEnvOverrides(&cfg)

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "host":
			cfg.Host = flagCfg.Host
		case "port":
			cfg.Port = flagCfg.Port
		case "static":
			cfg.StaticDir = flagCfg.StaticDir
		case "cors.origins":
			cfg.CORSOrigins = app.SplitList(corsOrigins)
		case "database":
			cfg.DatabaseURL = flagCfg.DatabaseURL
		case "request.timeout":
			cfg.RequestTimeout = flagCfg.RequestTimeout
		case "fetch.ua":
			cfg.UserAgent = flagCfg.UserAgent
		case "fetch.timeout":
			cfg.FetchTimeout = flagCfg.FetchTimeout
		case "fetch.maxAttempts":
			cfg.FetchMaxAttempts = flagCfg.FetchMaxAttempts
		case "fetch.maxConcurrent":
			cfg.FetchMaxConcurrent = flagCfg.FetchMaxConcurrent
		case "cache.dir":
			cfg.CacheDir = flagCfg.CacheDir
		case "cache.maxAge":
			cfg.CacheMaxAge = flagCfg.CacheMaxAge
		case "cache.freshFor":
			cfg.CacheFreshFor = flagCfg.CacheFreshFor
		case "cache.clear":
			cfg.CacheClear = flagCfg.CacheClear
		case "cache.strictPerms":
			cfg.CacheStrictPerms = flagCfg.CacheStrictPerms
		case "cache.maxBytes":
			cfg.CacheMaxBytes = flagCfg.CacheMaxBytes
		case "cache.maxEntries":
			cfg.CacheMaxEntries = flagCfg.CacheMaxEntries
		case "v":
			cfg.Verbose = flagCfg.Verbose
		}
	})

	if err := app.ValidateConfig(cfg); err != nil {
		return app.Config{}, false, err
	}
	return cfg, showVersion, nil
}

func run(ctx context.Context, cfg app.Config) error {
	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer a.Close()

	return a.Run(ctx)
}
