package scraper

import (
	"context"
	"log/slog"

	"github.com/aluiziolira/go-scrape-drinks/sites"
)

// CrawlListings drains an adapter's listing sequence. Pages fetched before an
// error are returned alongside it. maxPages caps the crawl when positive.
func CrawlListings(ctx context.Context, adapter sites.Adapter, f sites.Fetcher, firstPageURL string, maxPages int) ([]*sites.ListingPage, error) {
	var pages []*sites.ListingPage
	for page, err := range adapter.Pages(ctx, f, firstPageURL) {
		if err != nil {
			return pages, err
		}
		pages = append(pages, page)
		slog.Debug("listing page loaded",
			slog.String("retailer", adapter.Retailer().String()),
			slog.Int("page", page.Index),
			slog.String("url", page.URL),
		)
		if maxPages > 0 && len(pages) >= maxPages {
			slog.Warn("listing page cap reached",
				slog.String("url", firstPageURL),
				slog.Int("max_pages", maxPages),
			)
			break
		}
	}
	return pages, nil
}
