package discovery

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hyperifyio/housefinder/internal/extract"
	"github.com/hyperifyio/housefinder/internal/fetch"
)

func listingServer(t *testing.T) *httptest.Server {
	t.Helper()
	fixture, err := os.ReadFile(filepath.Join("..", "extract", "testdata", "listing_dergano.html"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/annunci/1/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(fixture)
	})
	mux.HandleFunc("/annunci/bad/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<span class=\"im-mainFeatures__label\">locali</span>\nmolti\n"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newService() *Service {
	return New(&fetch.Client{PerRequestTimeout: 2 * time.Second}, extract.DefaultMarkers())
}

func TestDiscover_Success(t *testing.T) {
	srv := listingServer(t)
	rec, err := newService().Discover(context.Background(), srv.URL+"/annunci/1/")
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if rec.City == nil || *rec.City != "Milano" || rec.MonthlyCost == nil || *rec.MonthlyCost != 2100 {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestDiscover_NotFoundStatus(t *testing.T) {
	srv := listingServer(t)
	_, err := newService().Discover(context.Background(), srv.URL+"/missing")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("want *NotFoundError, got %v", err)
	}
	if nf.Status != http.StatusNotFound {
		t.Fatalf("status = %d", nf.Status)
	}
}

type failingFetcher struct{ err error }

func (f failingFetcher) Get(context.Context, string) (fetch.Page, error) {
	return fetch.Page{}, f.err
}

func TestDiscover_FetchErrorIsNotFound(t *testing.T) {
	boom := errors.New("connection refused")
	s := &Service{Fetcher: failingFetcher{err: boom}, Pipeline: extract.NewDefaultPipeline(extract.DefaultMarkers())}
	_, err := s.Discover(context.Background(), "https://example.invalid/")
	var nf *NotFoundError
	if !errors.As(err, &nf) || !errors.Is(err, boom) {
		t.Fatalf("want NotFoundError wrapping cause, got %v", err)
	}
}

func TestDiscover_ParseErrorPropagates(t *testing.T) {
	srv := listingServer(t)
	_, err := newService().Discover(context.Background(), srv.URL+"/annunci/bad/")
	var pe *extract.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("want *extract.ParseError, got %v", err)
	}
	var nf *NotFoundError
	if errors.As(err, &nf) {
		t.Fatal("parse failure must not look like not-found")
	}
}
