// Package discovery turns a listing URL into an extracted record: it fetches
// the page and runs the extraction pipeline over its body.
package discovery

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/housefinder/internal/extract"
	"github.com/hyperifyio/housefinder/internal/fetch"
)

// Fetcher supplies page bodies. *fetch.Client satisfies it.
type Fetcher interface {
	Get(ctx context.Context, url string) (fetch.Page, error)
}

// NotFoundError reports that the listing could not be retrieved: the fetch
// failed or the server answered with a non-2xx status.
type NotFoundError struct {
	URL    string
	Status int
	Err    error
}

func (e *NotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("listing not found: %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("listing not found: %s: status %d", e.URL, e.Status)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// Service discovers listings.
type Service struct {
	Fetcher  Fetcher
	Pipeline *extract.Pipeline
}

// New returns a Service using the default pipeline for markers.
func New(f Fetcher, markers extract.Markers) *Service {
	return &Service{Fetcher: f, Pipeline: extract.NewDefaultPipeline(markers)}
}

// Discover fetches url and extracts its record. It returns *NotFoundError
// when the page is unavailable and *extract.ParseError when a mandatory
// value is malformed.
func (s *Service) Discover(ctx context.Context, url string) (extract.Record, error) {
	log.Info().Str("url", url).Msg("discovering")

	page, err := s.Fetcher.Get(ctx, url)
	if err != nil {
		log.Warn().Err(err).Str("url", url).Msg("fetch failed")
		return extract.Record{}, &NotFoundError{URL: url, Err: err}
	}
	if !page.OK() {
		log.Warn().Int("status", page.StatusCode).Str("url", url).Msg("not success")
		return extract.Record{}, &NotFoundError{URL: url, Status: page.StatusCode}
	}
	log.Debug().Str("url", url).Bool("cached", page.FromCache).Int("bytes", len(page.Body)).Msg("fetched")

	rec, err := s.Pipeline.Run(page.Body, func(pass string, rec extract.Record) {
		log.Debug().Str("pass", pass).Interface("record", rec).Msg("extraction")
	})
	if err != nil {
		log.Error().Err(err).Str("url", url).Msg("extraction failed")
		return extract.Record{}, fmt.Errorf("extract %s: %w", url, err)
	}
	log.Info().Str("url", url).Interface("record", rec).Msg("discovered")
	return rec, nil
}
