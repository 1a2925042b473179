package fetch

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"restaurant-catalog/utils"
)

// HTTPFetcher fetches pages with a resty client. The timeout is process-wide
// and set once at construction.
type HTTPFetcher struct {
	client   *resty.Client
	throttle *utils.Throttle
}

// HTTPOptions configures an HTTPFetcher.
type HTTPOptions struct {
	Timeout     time.Duration
	UserAgent   string
	RateLimitMs int
}

// NewHTTPFetcher creates an HTTPFetcher.
func NewHTTPFetcher(opts HTTPOptions) *HTTPFetcher {
	client := resty.New()
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	client.SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	if opts.UserAgent != "" {
		client.SetHeader("User-Agent", opts.UserAgent)
	}
	return &HTTPFetcher{
		client:   client,
		throttle: utils.NewThrottle(opts.RateLimitMs),
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid url %q", rawURL)
	}
	if err := f.throttle.Wait(ctx); err != nil {
		return nil, err
	}

	res, err := f.client.R().SetContext(ctx).Get(u.String())
	if err != nil {
		return nil, err
	}
	if res.StatusCode() < 200 || res.StatusCode() >= 400 {
		return nil, &StatusError{Code: res.StatusCode()}
	}

	finalURL := u.String()
	if raw := res.RawResponse; raw != nil && raw.Request != nil && raw.Request.URL != nil {
		finalURL = raw.Request.URL.String()
	}
	return &Page{
		URL:         finalURL,
		Status:      res.StatusCode(),
		ContentType: res.Header().Get("Content-Type"),
		Body:        res.Body(),
	}, nil
}
