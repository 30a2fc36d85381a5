package scraper

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/aluiziolira/go-scrape-drinks/config"
	"github.com/gocolly/colly/v2"
)

// HTTPFetcher fetches documents with a colly collector. Each call runs on a
// clone so concurrent fetches never share callbacks.
type HTTPFetcher struct {
	collector *colly.Collector
	metrics   *Metrics
}

// NewHTTPFetcher builds a fetcher configured from cfg.
func NewHTTPFetcher(cfg *config.Config, metrics *Metrics) (*HTTPFetcher, error) {
	collector := colly.NewCollector(
		colly.UserAgent(cfg.UserAgent),
		colly.AllowURLRevisit(),
	)

	collector.SetRequestTimeout(cfg.Timeout)
	collector.IgnoreRobotsTxt = !cfg.RespectRobotsTxt
	collector.WithTransport(&http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	})

	if err := collector.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: cfg.Parallelism,
		Delay:       cfg.Delay,
		RandomDelay: cfg.RandomDelay,
	}); err != nil {
		return nil, fmt.Errorf("configure rate limits: %w", err)
	}

	return &HTTPFetcher{collector: collector, metrics: metrics}, nil
}

// WithTransport replaces the HTTP transport used by every fetch.
func (f *HTTPFetcher) WithTransport(rt http.RoundTripper) {
	f.collector.WithTransport(rt)
}

// Fetch downloads rawURL and parses it as HTML.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (*goquery.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, ErrTransport{URL: rawURL, Err: classifyError(err, 0)}
	}

	c := f.collector.Clone()

	var body []byte
	var status int
	var fetchErr error
	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = r.Body
	})
	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			status = r.StatusCode
		}
		fetchErr = err
	})

	start := time.Now()
	visitErr := c.Visit(rawURL)
	f.metrics.ObserveDuration(time.Since(start))

	if fetchErr == nil {
		fetchErr = visitErr
	}
	if fetchErr != nil || status >= http.StatusBadRequest {
		f.metrics.IncRequest("failed")
		return nil, ErrTransport{URL: rawURL, Err: classifyError(fetchErr, status)}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		f.metrics.IncRequest("failed")
		return nil, ErrTransport{URL: rawURL, Err: fmt.Errorf("parse html: %w", err)}
	}
	f.metrics.IncRequest("ok")
	return doc, nil
}
