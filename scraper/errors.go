package scraper

import (
	"errors"
	"fmt"

	"github.com/aluiziolira/go-scrape-drinks/parser"
	"github.com/aluiziolira/go-scrape-drinks/sites"
)

// ErrTransport indicates a document could not be fetched.
type ErrTransport struct {
	URL string
	Err error
}

func (e ErrTransport) Error() string {
	return fmt.Sprintf("transport: %s: %v", e.URL, e.Err)
}

func (e ErrTransport) Unwrap() error {
	return e.Err
}

// ErrTimeout indicates a timeout while issuing a request.
type ErrTimeout struct {
	Err error
}

func (e ErrTimeout) Error() string {
	return fmt.Errorf("timeout: %w", e.Err).Error()
}

func (e ErrTimeout) Unwrap() error {
	return e.Err
}

// ErrConnection indicates a network connectivity failure.
type ErrConnection struct {
	Err error
}

func (e ErrConnection) Error() string {
	return fmt.Errorf("connection: %w", e.Err).Error()
}

func (e ErrConnection) Unwrap() error {
	return e.Err
}

// ErrStatus indicates the retailer answered with a non-success status.
type ErrStatus struct {
	StatusCode int
	Err        error
}

func (e ErrStatus) Error() string {
	return fmt.Errorf("status %d: %w", e.StatusCode, e.Err).Error()
}

func (e ErrStatus) Unwrap() error {
	return e.Err
}

// ErrorKind returns the metric label for a recovered pipeline error.
func ErrorKind(err error) string {
	if err == nil {
		return "unknown"
	}
	var transport ErrTransport
	if errors.As(err, &transport) {
		return "transport"
	}
	var unsupported sites.ErrUnsupportedSite
	if errors.As(err, &unsupported) {
		return "unsupported_site"
	}
	var malformed sites.ErrMalformedPage
	if errors.As(err, &malformed) {
		return "malformed_page"
	}
	var extraction sites.ErrExtraction
	if errors.As(err, &extraction) {
		return "extraction"
	}
	var conversion parser.ErrUnitConversion
	if errors.As(err, &conversion) {
		return "unit_conversion"
	}
	var division parser.ErrDivision
	if errors.As(err, &division) {
		return "division"
	}
	return "other"
}

// transportLabel narrows a transport failure to its cause.
func transportLabel(err error) string {
	if err == nil {
		return "unknown"
	}
	var timeout ErrTimeout
	if errors.As(err, &timeout) {
		return "timeout"
	}
	var conn ErrConnection
	if errors.As(err, &conn) {
		return "connection"
	}
	var status ErrStatus
	if errors.As(err, &status) {
		return fmt.Sprintf("status_%d", status.StatusCode)
	}
	return "other"
}
