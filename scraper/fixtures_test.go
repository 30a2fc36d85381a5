package scraper

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/aluiziolira/go-scrape-drinks/models"
	"github.com/jarcoal/httpmock"
)

// mapFetcher serves documents from an in-memory table and counts requests.
type mapFetcher struct {
	mu       sync.Mutex
	pages    map[string]string
	requests map[string]int
}

func newMapFetcher(pages map[string]string) *mapFetcher {
	return &mapFetcher{pages: pages, requests: make(map[string]int)}
}

func (m *mapFetcher) Fetch(_ context.Context, rawURL string) (*goquery.Document, error) {
	m.mu.Lock()
	m.requests[rawURL]++
	body, ok := m.pages[rawURL]
	m.mu.Unlock()
	if !ok {
		return nil, ErrTransport{URL: rawURL, Err: ErrStatus{StatusCode: 404, Err: fmt.Errorf("Not Found")}}
	}
	return goquery.NewDocumentFromReader(strings.NewReader(body))
}

func (m *mapFetcher) total() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.requests {
		n += c
	}
	return n
}

type recordingSink struct {
	records []string
	err     error
}

func (r *recordingSink) Emit(records []*models.ProductRecord) error {
	if r.err != nil {
		return r.err
	}
	for _, rec := range records {
		r.records = append(r.records, rec.URL)
	}
	return nil
}

func htmlResponder(body string) httpmock.Responder {
	resp := httpmock.NewStringResponse(200, body)
	resp.Header.Set("Content-Type", "text/html")
	return httpmock.ResponderFromResponse(resp)
}

func buildListingPage(hrefs []string, hasMore bool) string {
	var b strings.Builder
	b.WriteString(`<html><body><div class="center-panel-ui-view ng-scope">`)
	for _, href := range hrefs {
		fmt.Fprintf(&b, `<div class="productTile"><a class="link--no-decoration" href="%s">tile</a></div>`, href)
	}
	b.WriteString(`</div><div class="progressive-paging-bar--container">`)
	if hasMore {
		b.WriteString(`<a class="btn btn-secondary btn--full-width ng-scope">Show more</a>`)
	}
	b.WriteString(`</div></body></html>`)
	return b.String()
}

func buildDetailPage(name, dollars, cents, size, drinks string) string {
	var b strings.Builder
	b.WriteString(`<html><body>`)
	fmt.Fprintf(&b, `<div class="detail-item_title">%s</div>`, name)
	fmt.Fprintf(&b, `<span class="trolley-controls_volume_price"><span class="ng-binding">%s</span><sup class="ng-binding">%s</sup></span>`, dollars, cents)
	b.WriteString(`<img class="product-image" src="https://img.test/p.png">`)
	b.WriteString(`<div class="product-additional-details_container text-center ng-isolate-scope"><ul class="text-left">`)
	details := [][2]string{
		{"Brand", strings.Fields(name)[0]},
		{"Liquor Size", size},
		{"Alcohol %", "37.5%"},
		{"Standard Drinks", drinks},
	}
	for _, kv := range details {
		fmt.Fprintf(&b, `<li><strong class="list-details_header ng-binding">%s</strong><span class="pull-right list-details_info ng-binding ng-scope">%s</span></li>`, kv[0], kv[1])
	}
	b.WriteString(`</ul></div></body></html>`)
	return b.String()
}
