// Package sites holds the per-retailer adapters that traverse search results
// and pull product fields out of retailer markup.
package sites

import (
	"context"
	"iter"

	"github.com/PuerkitoBio/goquery"
	"github.com/aluiziolira/go-scrape-drinks/models"
)

// Fetcher retrieves and parses a single document.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*goquery.Document, error)
}

// ListingPage is one fetched page of search results.
type ListingPage struct {
	Retailer models.Retailer
	URL      string
	Index    int
	Doc      *goquery.Document
}

// Adapter knows how one retailer lays out its listing and detail pages.
type Adapter interface {
	Retailer() models.Retailer
	// Pages fetches listing pages lazily, starting at firstPageURL, until the
	// page no longer offers more results. A page whose paging container is
	// missing ends the sequence with ErrMalformedPage.
	Pages(ctx context.Context, f Fetcher, firstPageURL string) iter.Seq2[*ListingPage, error]
	// ItemURLs returns absolute product URLs found on a listing page.
	ItemURLs(page *ListingPage) ([]string, error)
	// Detail extracts raw product fields from a detail page.
	Detail(doc *goquery.Document) (*models.RawFields, error)
}

// For returns the adapter for a retailer. Known retailers without selectors
// get an adapter that reports ErrUnsupportedSite from every operation.
func For(retailer models.Retailer) (Adapter, error) {
	switch retailer {
	case models.RetailerBWS:
		return NewBWS(), nil
	case models.RetailerLiquorland, models.RetailerDanMurphys, models.RetailerFirstChoiceLiquor:
		return unsupported{retailer: retailer}, nil
	default:
		return nil, ErrUnsupportedSite{Retailer: retailer}
	}
}

type unsupported struct {
	retailer models.Retailer
}

func (u unsupported) Retailer() models.Retailer {
	return u.retailer
}

func (u unsupported) Pages(_ context.Context, _ Fetcher, firstPageURL string) iter.Seq2[*ListingPage, error] {
	return func(yield func(*ListingPage, error) bool) {
		yield(nil, ErrUnsupportedSite{Retailer: u.retailer, URL: firstPageURL})
	}
}

func (u unsupported) ItemURLs(page *ListingPage) ([]string, error) {
	return nil, ErrUnsupportedSite{Retailer: u.retailer, URL: page.URL}
}

func (u unsupported) Detail(_ *goquery.Document) (*models.RawFields, error) {
	return nil, ErrUnsupportedSite{Retailer: u.retailer}
}
