package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"

	"github.com/hyperifyio/housefinder/internal/cache"
)

// Browser identity sent with every request. Listing sites serve a reduced
// page, or none, to clients that do not look like a desktop browser.
const (
	DefaultUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/99.0.4844.74 Safari/537.36 Edg/99.0.1150.46"
	defaultAccept         = "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,image/apng,*/*;q=0.8,application/signed-exchange;v=b3;q=0.9"
	defaultAcceptLanguage = "en-US,en;q=0.9"

	defaultMaxBodyBytes = 8 << 20
)

// ErrUnsupportedContentType is returned for a successful response that is
// not an HTML document.
var ErrUnsupportedContentType = errors.New("unsupported content type")

// Page is a fetched document. Body is UTF-8 regardless of the charset the
// server used. StatusCode is the origin status, also for pages served from
// cache.
type Page struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        string
	FromCache   bool
}

// OK reports whether the page came with a 2xx status.
func (p Page) OK() bool { return p.StatusCode >= 200 && p.StatusCode <= 299 }

// Client wraps http.Client with browser headers, timeouts, limited retry on
// server errors and an optional page cache.
type Client struct {
	HTTPClient *http.Client
	UserAgent  string
	// MaxAttempts includes the initial attempt. Minimum 1.
	MaxAttempts int
	// PerRequestTimeout bounds each attempt.
	PerRequestTimeout time.Duration
	// MaxBodyBytes caps how much of a body is read. Zero means 8 MiB.
	MaxBodyBytes int64

	// Optional on-disk cache of successful pages.
	Cache *cache.PageCache
	// FreshFor serves cached entries younger than this without any request.
	// Older entries are revalidated with If-None-Match/If-Modified-Since.
	FreshFor time.Duration
	// BypassCache fetches fresh without conditional headers but still saves
	// the response.
	BypassCache bool

	// RedirectMaxHops caps redirect following. Zero means 5.
	RedirectMaxHops int
	// MaxConcurrent limits in-flight requests. Zero means unlimited.
	MaxConcurrent int

	limiter     chan struct{}
	limiterOnce sync.Once
	now         func() time.Time
}

func (c *Client) clock() time.Time {
	if c.now != nil {
		return c.now()
	}
	return time.Now()
}

func (c *Client) getHTTPClient() *http.Client {
	if c.HTTPClient != nil {
		base := *c.HTTPClient
		base.CheckRedirect = c.checkRedirectFunc()
		return &base
	}
	return &http.Client{CheckRedirect: c.checkRedirectFunc()}
}

// Get fetches rawURL. Non-2xx statuses are not errors: the page is returned
// and the caller decides. Errors are transport failures, invalid URLs and
// non-HTML success responses.
func (c *Client) Get(ctx context.Context, rawURL string) (Page, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Page{}, fmt.Errorf("parse url: %w", err)
	}
	if !isHTTPScheme(u) || u.Host == "" {
		return Page{}, fmt.Errorf("unsupported URL: %q", rawURL)
	}

	var meta *cache.PageEntry
	if c.Cache != nil && !c.BypassCache {
		if m, err := c.Cache.LoadMeta(ctx, rawURL); err == nil {
			meta = m
			if c.FreshFor > 0 && m.Age(c.clock()) < c.FreshFor {
				if p, err := c.fromCache(ctx, m); err == nil {
					return p, nil
				}
			}
		}
	}

	attempts := c.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	var page Page
	for i := 0; i < attempts; i++ {
		var cond *cache.PageEntry
		if !c.BypassCache {
			cond = meta
		}
		var r result
		r, err = c.tryOnce(ctx, rawURL, cond)
		if err == nil {
			page = r.page
			if r.page.StatusCode == http.StatusNotModified && meta != nil {
				if p, cerr := c.fromCache(ctx, meta); cerr == nil {
					_ = c.Cache.Touch(ctx, rawURL, c.clock())
					return p, nil
				}
			}
			if r.page.StatusCode == http.StatusOK && c.Cache != nil {
				_ = c.Cache.Save(ctx, cache.PageEntry{
					URL:          rawURL,
					StatusCode:   r.page.StatusCode,
					ContentType:  r.page.ContentType,
					ETag:         r.etag,
					LastModified: r.lastModified,
					SavedAt:      c.clock().UTC(),
				}, []byte(r.page.Body))
			}
			if r.page.StatusCode < 500 {
				return r.page, nil
			}
		} else if !isTransient(ctx, err) {
			return Page{}, err
		}
		if i == attempts-1 {
			break
		}
		if serr := sleep(ctx, time.Duration(i+1)*200*time.Millisecond); serr != nil {
			return Page{}, serr
		}
	}
	if err != nil {
		return Page{}, err
	}
	return page, nil
}

func (c *Client) fromCache(ctx context.Context, m *cache.PageEntry) (Page, error) {
	body, err := c.Cache.LoadBody(ctx, m.URL)
	if err != nil {
		return Page{}, err
	}
	status := m.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	return Page{URL: m.URL, StatusCode: status, ContentType: m.ContentType, Body: string(body), FromCache: true}, nil
}

type result struct {
	page         Page
	etag         string
	lastModified string
}

func (c *Client) tryOnce(ctx context.Context, rawURL string, cond *cache.PageEntry) (result, error) {
	if err := c.acquire(ctx); err != nil {
		return result{}, err
	}
	defer c.release()

	if c.PerRequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.PerRequestTimeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return result{}, fmt.Errorf("new request: %w", err)
	}
	ua := c.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", defaultAccept)
	req.Header.Set("Accept-Language", defaultAcceptLanguage)
	if cond != nil {
		if cond.ETag != "" {
			req.Header.Set("If-None-Match", cond.ETag)
		}
		if cond.LastModified != "" {
			req.Header.Set("If-Modified-Since", cond.LastModified)
		}
	}

	resp, err := c.getHTTPClient().Do(req)
	if err != nil {
		return result{}, err
	}
	defer resp.Body.Close()

	ct := resp.Header.Get("Content-Type")
	r := result{
		page:         Page{URL: rawURL, StatusCode: resp.StatusCode, ContentType: ct},
		etag:         resp.Header.Get("ETag"),
		lastModified: resp.Header.Get("Last-Modified"),
	}
	if resp.StatusCode == http.StatusNotModified {
		return r, nil
	}
	success := resp.StatusCode >= 200 && resp.StatusCode <= 299
	if success && !isAllowedHTMLContentType(ct) {
		return result{}, fmt.Errorf("%w: %s", ErrUnsupportedContentType, ct)
	}

	limit := c.MaxBodyBytes
	if limit <= 0 {
		limit = defaultMaxBodyBytes
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return result{}, fmt.Errorf("read body: %w", err)
	}
	body, err := decodeUTF8(raw, ct)
	if err != nil {
		return result{}, fmt.Errorf("decode body: %w", err)
	}
	r.page.Body = body
	return r, nil
}

// decodeUTF8 converts raw to UTF-8 using the charset from the Content-Type
// header, a <meta> declaration or content sniffing, in that order.
func decodeUTF8(raw []byte, contentType string) (string, error) {
	enc, name, _ := charset.DetermineEncoding(raw, contentType)
	if name == "utf-8" || enc == nil {
		return string(bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))), nil
	}
	out, _, err := transform.Bytes(enc.NewDecoder(), raw)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// isTransient reports whether a failed attempt is worth repeating. A timeout
// of the attempt itself is; cancellation of the caller's context is not.
func isTransient(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	return errors.Is(err, context.DeadlineExceeded)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (c *Client) checkRedirectFunc() func(req *http.Request, via []*http.Request) error {
	max := c.RedirectMaxHops
	if max <= 0 {
		max = 5
	}
	return func(req *http.Request, via []*http.Request) error {
		if len(via) >= max {
			return errors.New("too many redirects")
		}
		if req.URL == nil || !isHTTPScheme(req.URL) {
			return errors.New("redirect to unsupported scheme")
		}
		return nil
	}
}

func isHTTPScheme(u *url.URL) bool {
	if u == nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}

func isAllowedHTMLContentType(ct string) bool {
	ct = strings.ToLower(strings.TrimSpace(ct))
	return strings.HasPrefix(ct, "text/html") || strings.HasPrefix(ct, "application/xhtml+xml")
}

// acquire waits for a request slot or for ctx to end.
func (c *Client) acquire(ctx context.Context) error {
	if c.MaxConcurrent <= 0 {
		return nil
	}
	c.limiterOnce.Do(func() {
		c.limiter = make(chan struct{}, c.MaxConcurrent)
	})
	select {
	case c.limiter <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) release() {
	if c.MaxConcurrent <= 0 || c.limiter == nil {
		return
	}
	select {
	case <-c.limiter:
	default:
	}
}
