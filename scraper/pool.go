package scraper

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/aluiziolira/go-scrape-drinks/models"
	"github.com/aluiziolira/go-scrape-drinks/parser"
	"github.com/aluiziolira/go-scrape-drinks/sites"
)

// Pool fetches and extracts product pages with a fixed number of workers.
type Pool struct {
	fetcher sites.Fetcher
	workers int
	metrics *Metrics
}

// NewPool builds a pool. A non-positive worker count uses the number of CPUs.
func NewPool(f sites.Fetcher, workers int, metrics *Metrics) *Pool {
	if workers <= 0 {
		workers = max(runtime.NumCPU(), 2)
	}
	if workers == 1 {
		slog.Warn("extraction pool configured with a single worker; items will be fetched serially")
	}
	return &Pool{fetcher: f, workers: workers, metrics: metrics}
}

// Workers returns the configured pool size.
func (p *Pool) Workers() int {
	return p.workers
}

// Extract processes every reference and returns once all of them are done.
// Failed items are skipped and recorded in the returned log. Records come
// back in reference order regardless of completion order.
func (p *Pool) Extract(ctx context.Context, refs []string, adapter sites.Adapter) (*models.ResultSet, *FailureLog) {
	results := models.NewResultSet()
	failures := NewFailureLog()
	if len(refs) == 0 {
		return results, failures
	}

	workers := min(p.workers, len(refs))
	retailer := adapter.Retailer()
	jobs := make(chan string)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ref := range jobs {
				record, err := p.extractOne(ctx, ref, adapter)
				if err != nil {
					f := failures.Add(ref, err)
					p.metrics.IncError(f.Kind)
					slog.Warn("item extraction failed",
						slog.String("url", ref),
						slog.String("category", f.Kind),
						slog.Any("error", err),
					)
					continue
				}
				results.Append(record)
				p.metrics.IncItems(retailer.String())
				slog.Debug("item extracted",
					slog.String("url", ref),
					slog.String("name", record.Name),
					slog.Float64("efficiency", record.Efficiency),
				)
			}
		}()
	}

	for _, ref := range refs {
		jobs <- ref
	}
	close(jobs)
	wg.Wait()

	order := make(map[string]int, len(refs))
	for i, ref := range refs {
		if _, ok := order[ref]; !ok {
			order[ref] = i
		}
	}
	results.SortFunc(func(a, b *models.ProductRecord) int {
		return order[a.URL] - order[b.URL]
	})

	if n := failures.Count(); n > 0 {
		slog.Info("extraction batch finished with failures",
			slog.String("retailer", retailer.String()),
			slog.Int("ok", results.Len()),
			slog.Int("failed", n),
			slog.Any("failed_urls", failures.URLs()),
		)
	}
	return results, failures
}

func (p *Pool) extractOne(ctx context.Context, ref string, adapter sites.Adapter) (*models.ProductRecord, error) {
	doc, err := p.fetcher.Fetch(ctx, ref)
	if err != nil {
		return nil, err
	}
	raw, err := adapter.Detail(doc)
	if err != nil {
		return nil, err
	}
	return parser.Normalize(adapter.Retailer(), ref, raw)
}
