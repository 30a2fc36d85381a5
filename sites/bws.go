package sites

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/aluiziolira/go-scrape-drinks/models"
)

const (
	bwsPageParam = "pageNumber"

	bwsPagingContainer = "div.progressive-paging-bar--container"
	bwsLoadMore        = "a.btn.btn-secondary"
	bwsResultsPanel    = "div.center-panel-ui-view"
	bwsProductTile     = "div.productTile"
	bwsTileLink        = "a.link--no-decoration"

	bwsTitle        = "div.detail-item_title"
	bwsPrice        = "span.trolley-controls_volume_price"
	bwsPriceDollars = "span.ng-binding"
	bwsPriceCents   = "sup.ng-binding"
	bwsImage        = "img.product-image"
	bwsDetailsList  = "div.product-additional-details_container ul.text-left"
	bwsDetailLabel  = "strong.list-details_header"
	bwsDetailValue  = "span.list-details_info"
)

// BWS adapts bws.com.au search and product pages.
type BWS struct{}

// NewBWS returns the BWS adapter.
func NewBWS() *BWS {
	return &BWS{}
}

func (b *BWS) Retailer() models.Retailer {
	return models.RetailerBWS
}

func (b *BWS) Pages(ctx context.Context, f Fetcher, firstPageURL string) iter.Seq2[*ListingPage, error] {
	return paginate(ctx, f, models.RetailerBWS, firstPageURL, bwsPageParam, b.hasMore)
}

// hasMore looks for the "load more" button inside the paging bar. The bar
// itself is rendered on every results page, including the last one.
func (b *BWS) hasMore(doc *goquery.Document) (bool, error) {
	bar := doc.Find(bwsPagingContainer)
	if bar.Length() == 0 {
		return false, ErrMalformedPage{Selector: bwsPagingContainer}
	}
	return bar.Find(bwsLoadMore).Length() > 0, nil
}

func (b *BWS) ItemURLs(page *ListingPage) ([]string, error) {
	panel := page.Doc.Find(bwsResultsPanel)
	if panel.Length() == 0 {
		return nil, ErrMalformedPage{URL: page.URL, Selector: bwsResultsPanel}
	}

	var urls []string
	var resolveErr error
	panel.Find(bwsProductTile).EachWithBreak(func(_ int, tile *goquery.Selection) bool {
		href, ok := tile.Find(bwsTileLink).First().Attr("href")
		href = strings.TrimSpace(href)
		if !ok || href == "" {
			return true
		}
		abs, err := absoluteURL(page.URL, href)
		if err != nil {
			resolveErr = fmt.Errorf("resolve %q: %w", href, err)
			return false
		}
		urls = append(urls, abs)
		return true
	})
	if resolveErr != nil {
		return nil, resolveErr
	}
	return urls, nil
}

func (b *BWS) Detail(doc *goquery.Document) (*models.RawFields, error) {
	title := doc.Find(bwsTitle).First()
	if title.Length() == 0 || strings.TrimSpace(title.Text()) == "" {
		return nil, ErrExtraction{Field: "name", Selector: bwsTitle}
	}

	price := doc.Find(bwsPrice).First()
	if price.Length() == 0 {
		return nil, ErrExtraction{Field: "price", Selector: bwsPrice}
	}
	dollars := price.Find(bwsPriceDollars).First()
	if dollars.Length() == 0 {
		return nil, ErrExtraction{Field: "price", Selector: bwsPrice + " " + bwsPriceDollars}
	}
	cents := price.Find(bwsPriceCents).First()

	list := doc.Find(bwsDetailsList).First()
	if list.Length() == 0 {
		return nil, ErrExtraction{Field: "details", Selector: bwsDetailsList}
	}
	details, err := pairDetails(list.Find(bwsDetailLabel), list.Find(bwsDetailValue))
	if err != nil {
		return nil, ErrExtraction{Field: "details", Selector: bwsDetailsList, Err: err}
	}
	for _, key := range []string{models.DetailLiquorSize, models.DetailStandardDrinks} {
		if _, ok := details[key]; !ok {
			return nil, ErrExtraction{Field: key, Selector: bwsDetailLabel}
		}
	}

	image, _ := doc.Find(bwsImage).First().Attr("src")

	return &models.RawFields{
		Name:       strings.TrimSpace(title.Text()),
		PriceWhole: strings.TrimSpace(dollars.Text()),
		PriceCents: strings.TrimSpace(cents.Text()),
		ImageURL:   strings.TrimSpace(image),
		Details:    details,
	}, nil
}

// pairDetails zips label and value elements by position.
func pairDetails(labels, values *goquery.Selection) (map[string]string, error) {
	if labels.Length() != values.Length() {
		return nil, fmt.Errorf("%d labels but %d values", labels.Length(), values.Length())
	}
	details := make(map[string]string, labels.Length())
	labels.Each(func(i int, label *goquery.Selection) {
		key := strings.TrimSuffix(strings.TrimSpace(label.Text()), ":")
		details[strings.TrimSpace(key)] = strings.TrimSpace(values.Eq(i).Text())
	})
	return details, nil
}
