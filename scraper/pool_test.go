package scraper

import (
	"context"
	"fmt"
	"slices"
	"testing"

	"github.com/aluiziolira/go-scrape-drinks/sites"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func poolFixture() ([]string, map[string]string) {
	pages := make(map[string]string)
	var refs []string
	for i := 1; i <= 24; i++ {
		ref := fmt.Sprintf("https://bws.com.au/product/%d", i)
		refs = append(refs, ref)
		switch {
		case i%7 == 0:
			// not served: transport failure
		case i%11 == 0:
			pages[ref] = `<html><body><p>gone</p></body></html>`
		default:
			pages[ref] = buildDetailPage(fmt.Sprintf("Vodka %d", i), fmt.Sprint(20+i), "50", "700mL", "20")
		}
	}
	return refs, pages
}

func TestPoolExtractIndependentOfWorkerCount(t *testing.T) {
	refs, pages := poolFixture()

	var baseline []string
	for _, workers := range []int{1, 2, 8} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			fetcher := newMapFetcher(pages)
			metrics := NewMetrics()
			pool := NewPool(fetcher, workers, metrics)

			results, failures := pool.Extract(context.Background(), refs, sites.NewBWS())

			var urls []string
			for _, r := range results.Records() {
				urls = append(urls, r.URL)
			}
			if got := len(urls) + failures.Count(); got != len(refs) {
				t.Fatalf("records+failures = %d, want %d", got, len(refs))
			}
			sorted := slices.Clone(urls)
			slices.Sort(sorted)
			if len(slices.Compact(sorted)) != len(urls) {
				t.Fatalf("duplicate records: %v", urls)
			}
			if fetcher.total() != len(refs) {
				t.Fatalf("fetches = %d, want %d", fetcher.total(), len(refs))
			}

			byKind := failures.ByKind()
			if byKind["transport"] != 3 || byKind["extraction"] != 2 {
				t.Fatalf("failures by kind = %v", byKind)
			}
			if got := testutil.ToFloat64(metrics.ItemsScrapedTotal.WithLabelValues("bws")); int(got) != len(urls) {
				t.Fatalf("items metric = %v, want %d", got, len(urls))
			}

			if baseline == nil {
				baseline = urls
				return
			}
			if !slices.Equal(baseline, urls) {
				t.Fatalf("results differ from single worker run:\n got %v\nwant %v", urls, baseline)
			}
		})
	}
}

func TestPoolExtractKeepsReferenceOrder(t *testing.T) {
	refs, pages := poolFixture()
	pool := NewPool(newMapFetcher(pages), 8, nil)

	results, _ := pool.Extract(context.Background(), refs, sites.NewBWS())

	last := -1
	for _, r := range results.Records() {
		idx := slices.Index(refs, r.URL)
		if idx <= last {
			t.Fatalf("record %s out of reference order", r.URL)
		}
		last = idx
	}
}

func TestPoolExtractEmpty(t *testing.T) {
	fetcher := newMapFetcher(nil)
	pool := NewPool(fetcher, 4, nil)

	results, failures := pool.Extract(context.Background(), nil, sites.NewBWS())
	if results.Len() != 0 || failures.Count() != 0 {
		t.Fatalf("expected empty results, got %d records %d failures", results.Len(), failures.Count())
	}
	if fetcher.total() != 0 {
		t.Fatalf("fetches = %d, want 0", fetcher.total())
	}
}

func TestNewPoolDefaultsWorkers(t *testing.T) {
	if got := NewPool(nil, 0, nil).Workers(); got < 2 {
		t.Fatalf("default workers = %d, want at least 2", got)
	}
	if got := NewPool(nil, 1, nil).Workers(); got != 1 {
		t.Fatalf("workers = %d, want 1", got)
	}
}
