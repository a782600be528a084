// Command discover extracts one listing record and prints it as JSON. It takes
// a listing URL, or -file with a saved page.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/housefinder/internal/app"
	"github.com/hyperifyio/housefinder/internal/discovery"
	"github.com/hyperifyio/housefinder/internal/extract"
)

// Exit codes.
const (
	exitOK         = 0
	exitFailure    = 1
	exitNotFound   = 2
	exitParseError = 3
	exitUsage      = 64
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout))
}

func run(ctx context.Context, args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet("discover", flag.ContinueOnError)
	var (
		file       string
		configPath string
		envFile    string
		verbose    bool
		timeout    time.Duration
	)
	fs.StringVar(&file, "file", "", "Extract from a saved HTML file instead of fetching")
	fs.StringVar(&configPath, "config", "", "Path to a YAML or JSON config file (markers, fetch, cache)")
	fs.StringVar(&envFile, "env", ".env", "Dotenv file loaded into the environment when present")
	fs.BoolVar(&verbose, "v", false, "Log each extraction pass")
	fs.DurationVar(&timeout, "timeout", time.Minute, "Overall timeout")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if err := app.LoadEnvFiles(envFile); err != nil {
		log.Warn().Err(err).Str("file", envFile).Msg("could not load env file")
	}

	cfg := app.DefaultConfig()
	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Error().Err(err).Msg("config")
			return exitUsage
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	app.ApplyEnvOverrides(&cfg)

	var (
		rec extract.Record
		err error
	)
	switch {
	case file != "" && fs.NArg() == 0:
		rec, err = fromFile(file, cfg.Markers)
	case file == "" && fs.NArg() == 1:
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		var svc *discovery.Service
		if svc, err = app.NewDiscovery(cfg); err == nil {
			rec, err = svc.Discover(ctx, fs.Arg(0))
		}
	default:
		fmt.Fprintln(fs.Output(), "usage: discover [flags] URL | discover [flags] -file PAGE.html")
		return exitUsage
	}
	if err != nil {
		log.Error().Err(err).Msg("discover failed")
		var nf *discovery.NotFoundError
		var pe *extract.ParseError
		switch {
		case errors.As(err, &nf):
			return exitNotFound
		case errors.As(err, &pe):
			return exitParseError
		default:
			return exitFailure
		}
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		log.Error().Err(err).Msg("write output")
		return exitFailure
	}
	return exitOK
}

func fromFile(path string, m extract.Markers) (extract.Record, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return extract.Record{}, err
	}
	return extract.NewDefaultPipeline(m).Run(string(b), func(pass string, rec extract.Record) {
		log.Debug().Str("pass", pass).Interface("record", rec).Msg("extraction")
	})
}
