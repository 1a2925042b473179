package fetch

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"

	"restaurant-catalog/utils"
)

// BrowserFetcher renders pages in headless Chrome and returns the resulting
// DOM. Use it when the directory only renders its cards client-side.
type BrowserFetcher struct {
	browserCtx context.Context
	cancel     func()
	timeout    time.Duration
	settle     time.Duration
	throttle   *utils.Throttle
	logger     *utils.Logger
}

// BrowserOptions configures a BrowserFetcher.
type BrowserOptions struct {
	ChromeBin   string
	UserAgent   string
	Timeout     time.Duration
	RateLimitMs int
	// Settle is how long to wait after navigation before reading the DOM.
	Settle time.Duration
}

// NewBrowserFetcher starts a headless browser. Close must be called to stop it.
func NewBrowserFetcher(opts BrowserOptions, logger *utils.Logger) (*BrowserFetcher, error) {
	chromeBin := opts.ChromeBin
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}
	logger.Info("[browser] Using browser binary: %s", chromeBin)

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}
	if chromeBin != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	// Suppress chromedp log noise
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	// Start the browser now so a missing binary fails at construction.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("browser: start: %w", err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &BrowserFetcher{
		browserCtx: browserCtx,
		cancel: func() {
			cancelBrowser()
			cancelAlloc()
		},
		timeout:  timeout,
		settle:   opts.Settle,
		throttle: utils.NewThrottle(opts.RateLimitMs),
		logger:   logger,
	}, nil
}

func (b *BrowserFetcher) Fetch(ctx context.Context, url string) (*Page, error) {
	if err := b.throttle.Wait(ctx); err != nil {
		return nil, err
	}

	tabCtx, cancelTab := chromedp.NewContext(b.browserCtx)
	defer cancelTab()
	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, b.timeout)
	defer cancelTimeout()
	stop := context.AfterFunc(ctx, cancelTimeout)
	defer stop()

	resp, err := chromedp.RunResponse(tabCtx, chromedp.Navigate(url))
	if err != nil {
		return nil, fmt.Errorf("chromedp navigate: %w", err)
	}
	status := 200
	contentType := "text/html"
	if resp != nil {
		status = int(resp.Status)
		if resp.MimeType != "" {
			contentType = resp.MimeType
		}
	}
	if status < 200 || status >= 400 {
		return nil, &StatusError{Code: status}
	}

	var html, finalURL string
	err = chromedp.Run(tabCtx,
		chromedp.Sleep(b.settle),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
		chromedp.Location(&finalURL),
	)
	if err != nil {
		return nil, fmt.Errorf("chromedp extract: %w", err)
	}
	b.logger.Debug("[browser] Rendered %s (%d bytes)", finalURL, len(html))

	return &Page{
		URL:         finalURL,
		Status:      status,
		ContentType: contentType + "; charset=utf-8",
		Body:        []byte(html),
	}, nil
}

// Close shuts the browser down.
func (b *BrowserFetcher) Close() error {
	b.cancel()
	return nil
}

// findChromeBinary locates Chrome/Chromium binary.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
