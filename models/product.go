// Package models defines data structures for the scraper.
package models

import (
	"slices"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Retailer identifies a supported liquor retailer.
type Retailer string

const (
	RetailerUnknown           Retailer = ""
	RetailerBWS               Retailer = "bws"
	RetailerLiquorland        Retailer = "liquorland"
	RetailerDanMurphys        Retailer = "danmurphys"
	RetailerFirstChoiceLiquor Retailer = "firstchoiceliquor"
)

func (r Retailer) String() string {
	if r == RetailerUnknown {
		return "unknown"
	}
	return string(r)
}

// ProductRecord is one extracted and normalised product.
type ProductRecord struct {
	Retailer       Retailer        `json:"retailer"`
	Brand          string          `json:"brand"`
	Name           string          `json:"name"`
	Price          decimal.Decimal `json:"price"`
	URL            string          `json:"url"`
	VolumeLiters   float64         `json:"volume_liters"`
	AlcoholPercent string          `json:"alcohol_percent"`
	StandardDrinks float64         `json:"standard_drinks"`
	Efficiency     float64         `json:"efficiency"`
	ImageURL       string          `json:"image_url"`
	ScrapedAt      time.Time       `json:"scraped_at"`
}

// ResultSet collects records from concurrent extraction workers.
type ResultSet struct {
	mu      sync.Mutex
	records []*ProductRecord
}

// NewResultSet returns an empty result set.
func NewResultSet() *ResultSet {
	return &ResultSet{}
}

// Append adds a record. Safe for concurrent use.
func (rs *ResultSet) Append(r *ProductRecord) {
	rs.mu.Lock()
	rs.records = append(rs.records, r)
	rs.mu.Unlock()
}

// Len returns the number of records collected so far.
func (rs *ResultSet) Len() int {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return len(rs.records)
}

// SortFunc stably reorders the collected records.
func (rs *ResultSet) SortFunc(cmp func(a, b *ProductRecord) int) {
	rs.mu.Lock()
	slices.SortStableFunc(rs.records, cmp)
	rs.mu.Unlock()
}

// Records returns a copy of the collected records in append order.
func (rs *ResultSet) Records() []*ProductRecord {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	out := make([]*ProductRecord, len(rs.records))
	copy(out, rs.records)
	return out
}

// SearchResult holds the outcome of one search across all configured retailers.
type SearchResult struct {
	Term             string
	Records          []*ProductRecord
	StartTime        time.Time
	EndTime          time.Time
	PageCount        int
	ItemCount        int
	FailureCount     int
	FailedURLs       []string
	ErrorsByType     map[string]int
	MalformedPages   []string
	SkippedRetailers []string
}
