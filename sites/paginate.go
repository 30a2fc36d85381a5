package sites

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"net/url"
	"strconv"

	"github.com/PuerkitoBio/goquery"
	"github.com/aluiziolira/go-scrape-drinks/models"
)

// moreProbe reports whether a listing document offers another page.
type moreProbe func(doc *goquery.Document) (bool, error)

// paginate walks listing pages by incrementing a page-number query parameter,
// starting at 1, for as long as probe reports more results.
func paginate(ctx context.Context, f Fetcher, retailer models.Retailer, firstPageURL, param string, probe moreProbe) iter.Seq2[*ListingPage, error] {
	return func(yield func(*ListingPage, error) bool) {
		for index := 1; ; index++ {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}

			pageURL, err := withPageNumber(firstPageURL, param, index)
			if err != nil {
				yield(nil, err)
				return
			}

			doc, err := f.Fetch(ctx, pageURL)
			if err != nil {
				yield(nil, err)
				return
			}

			page := &ListingPage{Retailer: retailer, URL: pageURL, Index: index, Doc: doc}
			if !yield(page, nil) {
				return
			}

			more, err := probe(doc)
			if err != nil {
				var mp ErrMalformedPage
				if errors.As(err, &mp) && mp.URL == "" {
					mp.URL = pageURL
					err = mp
				}
				yield(nil, err)
				return
			}
			if !more {
				return
			}
		}
	}
}

func withPageNumber(rawURL, param string, page int) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse listing url: %w", err)
	}
	q := u.Query()
	q.Set(param, strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// absoluteURL resolves href against the origin of pageURL.
func absoluteURL(pageURL, href string) (string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", err
	}
	origin := &url.URL{Scheme: base.Scheme, Host: base.Host}
	return origin.ResolveReference(ref).String(), nil
}
