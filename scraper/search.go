// Package scraper runs the multi-retailer search: it crawls listing pages,
// extracts products concurrently and ranks the combined result.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/aluiziolira/go-scrape-drinks/config"
	"github.com/aluiziolira/go-scrape-drinks/models"
	"github.com/aluiziolira/go-scrape-drinks/pipeline"
	"github.com/aluiziolira/go-scrape-drinks/sites"
)

// Sink receives the final ranked records of a search.
type Sink interface {
	Emit(records []*models.ProductRecord) error
}

// Searcher runs a search term against every configured retailer.
type Searcher struct {
	cfg     *config.Config
	fetcher sites.Fetcher
	pool    *Pool
	Metrics *Metrics
}

// NewSearcher wires a searcher around fetcher.
func NewSearcher(cfg *config.Config, fetcher sites.Fetcher, metrics *Metrics) *Searcher {
	return &Searcher{
		cfg:     cfg,
		fetcher: fetcher,
		pool:    NewPool(fetcher, cfg.Parallelism, metrics),
		Metrics: metrics,
	}
}

// Run searches for term and emits the ranked records to sink. Only a sink
// failure is returned as an error.
func (s *Searcher) Run(ctx context.Context, term string, sink Sink) (*models.SearchResult, error) {
	result := s.Search(ctx, term)
	if sink == nil {
		return result, nil
	}
	if err := sink.Emit(result.Records); err != nil {
		return result, fmt.Errorf("emit results: %w", err)
	}
	return result, nil
}

// Search returns every product found for term across the configured
// retailers, ranked by efficiency. Per-retailer and per-item failures are
// recovered and reported in the result.
func (s *Searcher) Search(ctx context.Context, term string) *models.SearchResult {
	result := &models.SearchResult{
		Term:         term,
		StartTime:    time.Now(),
		ErrorsByType: make(map[string]int),
	}
	failures := NewFailureLog()

	size := s.cfg.DedupeMaxSize
	if size <= 0 {
		size = config.DefaultDedupeMaxSize
	}
	seen := newRefSet(size)

	var combined []*models.ProductRecord
	for _, base := range s.cfg.SearchURLs {
		searchURL := base + url.QueryEscape(term)
		records := s.searchRetailer(ctx, searchURL, seen, failures, result)
		if len(records) == 0 {
			slog.Info("no results found", slog.String("url", searchURL))
			continue
		}
		combined = append(combined, records...)
	}

	if len(combined) == 0 {
		slog.Info("no results found across any supported site", slog.String("term", term))
	}

	result.Records = pipeline.Rank(combined)
	result.FailureCount = failures.Count()
	result.FailedURLs = failures.URLs()
	for kind, n := range failures.ByKind() {
		result.ErrorsByType[kind] += n
	}
	result.EndTime = time.Now()
	return result
}

func (s *Searcher) searchRetailer(ctx context.Context, searchURL string, seen *refSet, failures *FailureLog, result *models.SearchResult) []*models.ProductRecord {
	retailer := sites.Resolve(searchURL)
	adapter, err := sites.For(retailer)
	if err != nil {
		s.skipRetailer(searchURL, err, result)
		return nil
	}

	pages, err := CrawlListings(ctx, adapter, s.fetcher, searchURL, s.cfg.MaxPages)
	result.PageCount += len(pages)
	s.Metrics.AddPages(retailer.String(), len(pages))
	if err != nil {
		switch {
		case sites.IsUnsupportedSite(err):
			s.skipRetailer(searchURL, err, result)
			return nil
		case sites.IsMalformedPage(err):
			s.recordMalformed(err, result)
		case len(pages) == 0:
			f := failures.Add(searchURL, err)
			s.Metrics.IncError(f.Kind)
			slog.Error("abandoning retailer: first listing page failed",
				slog.String("retailer", retailer.String()),
				slog.String("url", searchURL),
				slog.String("category", f.Kind),
				slog.String("cause", transportLabel(err)),
				slog.Any("error", err),
			)
			return nil
		default:
			f := failures.Add(searchURL, err)
			s.Metrics.IncError(f.Kind)
			slog.Warn("listing crawl stopped early",
				slog.String("retailer", retailer.String()),
				slog.String("url", searchURL),
				slog.Int("pages", len(pages)),
				slog.Any("error", err),
			)
		}
	}

	var refs []string
	for _, page := range pages {
		urls, err := adapter.ItemURLs(page)
		if err != nil {
			if sites.IsMalformedPage(err) {
				s.recordMalformed(err, result)
			} else {
				s.Metrics.IncError(ErrorKind(err))
				slog.Warn("listing page item extraction failed", slog.String("url", page.URL), slog.Any("error", err))
			}
			continue
		}
		for _, u := range urls {
			if !seen.firstSeen(u) {
				continue
			}
			refs = append(refs, u)
		}
	}

	slog.Info("found item urls",
		slog.String("retailer", retailer.String()),
		slog.Int("pages", len(pages)),
		slog.Int("items", len(refs)),
	)
	if len(refs) == 0 {
		return nil
	}
	result.ItemCount += len(refs)

	records, itemFailures := s.pool.Extract(ctx, refs, adapter)
	failures.Merge(itemFailures)
	return records.Records()
}

func (s *Searcher) skipRetailer(searchURL string, err error, result *models.SearchResult) {
	s.Metrics.IncError("unsupported_site")
	result.ErrorsByType["unsupported_site"]++
	result.SkippedRetailers = append(result.SkippedRetailers, searchURL)
	slog.Warn("skipping unsupported site", slog.String("url", searchURL), slog.Any("error", err))
}

func (s *Searcher) recordMalformed(err error, result *models.SearchResult) {
	var mp sites.ErrMalformedPage
	pageURL := ""
	if errors.As(err, &mp) {
		pageURL = mp.URL
	}
	s.Metrics.IncError("malformed_page")
	result.ErrorsByType["malformed_page"]++
	result.MalformedPages = append(result.MalformedPages, pageURL)
	slog.Error("malformed listing page: expected structure missing",
		slog.String("url", pageURL),
		slog.Any("error", err),
	)
}
