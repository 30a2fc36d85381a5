package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/aluiziolira/go-scrape-drinks/config"
	"github.com/jarcoal/httpmock"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newTestFetcher(t *testing.T, metrics *Metrics) (*HTTPFetcher, *httpmock.MockTransport) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Timeout = 5 * time.Second

	f, err := NewHTTPFetcher(cfg, metrics)
	if err != nil {
		t.Fatalf("new fetcher: %v", err)
	}
	transport := httpmock.NewMockTransport()
	f.WithTransport(transport)
	return f, transport
}

func TestHTTPFetcherStatusClassification(t *testing.T) {
	for _, status := range []int{http.StatusForbidden, http.StatusNotFound, http.StatusTooManyRequests, http.StatusServiceUnavailable} {
		t.Run(fmt.Sprintf("status_%d", status), func(t *testing.T) {
			metrics := NewMetrics()
			f, transport := newTestFetcher(t, metrics)
			transport.RegisterResponder("GET", "https://bws.com.au/product/1", httpmock.NewStringResponder(status, ""))

			_, err := f.Fetch(context.Background(), "https://bws.com.au/product/1")
			if err == nil {
				t.Fatalf("expected error for status %d", status)
			}

			var te ErrTransport
			if !errors.As(err, &te) {
				t.Fatalf("error %T is not a transport error", err)
			}
			var se ErrStatus
			if !errors.As(err, &se) || se.StatusCode != status {
				t.Fatalf("error %v does not carry status %d", err, status)
			}
			if got := transportLabel(err); got != fmt.Sprintf("status_%d", status) {
				t.Fatalf("label = %q", got)
			}
			if got := testutil.ToFloat64(metrics.RequestsTotal.WithLabelValues("failed")); got != 1 {
				t.Fatalf("failed requests = %v, want 1", got)
			}
		})
	}
}

func TestHTTPFetcherParsesDocument(t *testing.T) {
	metrics := NewMetrics()
	f, transport := newTestFetcher(t, metrics)
	transport.RegisterResponder("GET", "https://bws.com.au/product/1",
		htmlResponder(buildDetailPage("Smirnoff Red", "52", "00", "700mL", "20.4")))

	doc, err := f.Fetch(context.Background(), "https://bws.com.au/product/1")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got := doc.Find("div.detail-item_title").Text(); got != "Smirnoff Red" {
		t.Fatalf("title = %q", got)
	}
	if got := testutil.ToFloat64(metrics.RequestsTotal.WithLabelValues("ok")); got != 1 {
		t.Fatalf("ok requests = %v, want 1", got)
	}
}

func TestHTTPFetcherCancelledContext(t *testing.T) {
	f, transport := newTestFetcher(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.Fetch(ctx, "https://bws.com.au/product/1")
	var te ErrTransport
	if !errors.As(err, &te) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if transport.GetTotalCallCount() != 0 {
		t.Fatalf("cancelled fetch reached the network")
	}
}
