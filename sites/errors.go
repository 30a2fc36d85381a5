package sites

import (
	"errors"
	"fmt"

	"github.com/aluiziolira/go-scrape-drinks/models"
)

// ErrUnsupportedSite indicates there is no working adapter for a retailer.
type ErrUnsupportedSite struct {
	Retailer models.Retailer
	URL      string
}

func (e ErrUnsupportedSite) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("unsupported_site: %s", e.Retailer)
	}
	return fmt.Sprintf("unsupported_site: %s (%s)", e.Retailer, e.URL)
}

// ErrMalformedPage indicates a structural container that must exist on a
// listing page was absent. It is never used to signal the end of results.
type ErrMalformedPage struct {
	URL      string
	Selector string
}

func (e ErrMalformedPage) Error() string {
	return fmt.Sprintf("malformed_page: %s missing %q", e.URL, e.Selector)
}

// ErrExtraction indicates a mandatory field was absent from a detail page.
type ErrExtraction struct {
	Field    string
	Selector string
	Err      error
}

func (e ErrExtraction) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extraction: %s (selector=%q): %v", e.Field, e.Selector, e.Err)
	}
	return fmt.Sprintf("extraction: %s (selector=%q) not found", e.Field, e.Selector)
}

func (e ErrExtraction) Unwrap() error {
	return e.Err
}

// IsMalformedPage reports whether err is or wraps ErrMalformedPage.
func IsMalformedPage(err error) bool {
	var mp ErrMalformedPage
	return errors.As(err, &mp)
}

// IsUnsupportedSite reports whether err is or wraps ErrUnsupportedSite.
func IsUnsupportedSite(err error) bool {
	var us ErrUnsupportedSite
	return errors.As(err, &us)
}
