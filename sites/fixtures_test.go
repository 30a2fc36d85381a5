package sites

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
)

type fetchFunc func(ctx context.Context, rawURL string) (*goquery.Document, error)

func (f fetchFunc) Fetch(ctx context.Context, rawURL string) (*goquery.Document, error) {
	return f(ctx, rawURL)
}

// pageFetcher serves listing pages keyed by their pageNumber parameter and
// records every URL requested.
type pageFetcher struct {
	mu        sync.Mutex
	pages     map[string]string
	requested []string
}

func (p *pageFetcher) Fetch(_ context.Context, rawURL string) (*goquery.Document, error) {
	p.mu.Lock()
	p.requested = append(p.requested, rawURL)
	p.mu.Unlock()

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	body, ok := p.pages[u.Query().Get("pageNumber")]
	if !ok {
		return nil, fmt.Errorf("no page for %s", rawURL)
	}
	return goquery.NewDocumentFromReader(strings.NewReader(body))
}

func mustDoc(html string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		panic(err)
	}
	return doc
}

func buildListingPage(hrefs []string, hasMore, withPagingBar bool) string {
	var b strings.Builder
	b.WriteString(`<html><body><div class="center-panel-ui-view ng-scope">`)
	for _, href := range hrefs {
		fmt.Fprintf(&b, `<div class="productTile"><a class="link--no-decoration" href="%s">tile</a></div>`, href)
	}
	b.WriteString(`</div>`)
	if withPagingBar {
		b.WriteString(`<div class="progressive-paging-bar--container">`)
		if hasMore {
			b.WriteString(`<a class="btn btn-secondary btn--full-width ng-scope">Show more</a>`)
		}
		b.WriteString(`</div>`)
	}
	b.WriteString(`</body></html>`)
	return b.String()
}

func buildDetailPage(name, dollars, cents string, details [][2]string) string {
	var b strings.Builder
	b.WriteString(`<html><body>`)
	fmt.Fprintf(&b, `<div class="detail-item_title">%s</div>`, name)
	fmt.Fprintf(&b, `<span class="trolley-controls_volume_price"><span class="ng-binding">%s</span><sup class="ng-binding">%s</sup></span>`, dollars, cents)
	b.WriteString(`<img class="product-image" src="https://img.test/p.png">`)
	b.WriteString(`<div class="product-additional-details_container text-center ng-isolate-scope"><ul class="text-left">`)
	for _, kv := range details {
		fmt.Fprintf(&b, `<li><strong class="list-details_header ng-binding">%s</strong><span class="pull-right list-details_info ng-binding ng-scope">%s</span></li>`, kv[0], kv[1])
	}
	b.WriteString(`</ul></div></body></html>`)
	return b.String()
}
