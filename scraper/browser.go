package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/aluiziolira/go-scrape-drinks/config"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// BrowserFetcher renders pages in headless Chromium before parsing them.
// Retailer search pages build their product grid client-side.
type BrowserFetcher struct {
	browser   *rod.Browser
	timeout   time.Duration
	userAgent string
	tabs      chan struct{}
	metrics   *Metrics
}

// NewBrowserFetcher launches a browser sized for cfg.Parallelism open tabs.
func NewBrowserFetcher(cfg *config.Config, metrics *Metrics) (*BrowserFetcher, error) {
	launchURL, err := launcher.New().
		Headless(true).
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("no-sandbox").
		Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(launchURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	slog.Info("browser fetcher ready", slog.Int("max_tabs", cfg.Parallelism))

	return &BrowserFetcher{
		browser:   browser,
		timeout:   cfg.Timeout,
		userAgent: cfg.UserAgent,
		tabs:      make(chan struct{}, cfg.Parallelism),
		metrics:   metrics,
	}, nil
}

// Fetch navigates a fresh tab to rawURL and parses the rendered HTML.
func (bf *BrowserFetcher) Fetch(ctx context.Context, rawURL string) (*goquery.Document, error) {
	select {
	case bf.tabs <- struct{}{}:
	case <-ctx.Done():
		return nil, ErrTransport{URL: rawURL, Err: classifyError(ctx.Err(), 0)}
	}
	defer func() { <-bf.tabs }()

	start := time.Now()
	html, status, err := bf.render(ctx, rawURL)
	bf.metrics.ObserveDuration(time.Since(start))
	if err != nil {
		bf.metrics.IncRequest("failed")
		return nil, ErrTransport{URL: rawURL, Err: classifyError(err, status)}
	}
	if cause := navigationError(status); cause != nil {
		bf.metrics.IncRequest("failed")
		return nil, ErrTransport{URL: rawURL, Err: cause}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		bf.metrics.IncRequest("failed")
		return nil, ErrTransport{URL: rawURL, Err: fmt.Errorf("parse html: %w", err)}
	}
	bf.metrics.IncRequest("ok")
	return doc, nil
}

// render loads rawURL in a new tab and returns the rendered HTML together
// with the HTTP status of the main document.
func (bf *BrowserFetcher) render(ctx context.Context, rawURL string) (string, int, error) {
	page, err := bf.browser.Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", 0, fmt.Errorf("open tab: %w", err)
	}
	defer func() {
		if err := page.Close(); err != nil {
			slog.Debug("close tab", slog.String("url", rawURL), slog.Any("error", err))
		}
	}()

	if bf.userAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: bf.userAgent}); err != nil {
			slog.Warn("failed to set user agent", slog.Any("error", err))
		}
	}

	p := page.Timeout(bf.timeout)

	var status int
	waitDocument := p.EachEvent(func(e *proto.NetworkResponseReceived) bool {
		if e.Type != proto.NetworkResourceTypeDocument {
			return false
		}
		status = e.Response.Status
		return true
	})

	if err := p.Navigate(rawURL); err != nil {
		return "", 0, fmt.Errorf("navigate: %w", err)
	}
	waitDocument()
	if err := p.WaitLoad(); err != nil {
		return "", status, fmt.Errorf("wait load: %w", err)
	}
	html, err := p.HTML()
	if err != nil {
		return "", status, fmt.Errorf("read html: %w", err)
	}
	return html, status, nil
}

// navigationError maps the main document status to a transport cause. A zero
// status means no response event was seen and is not treated as a failure.
func navigationError(status int) error {
	if status < http.StatusBadRequest {
		return nil
	}
	return classifyError(nil, status)
}

// Close shuts the browser down.
func (bf *BrowserFetcher) Close() error {
	return bf.browser.Close()
}
