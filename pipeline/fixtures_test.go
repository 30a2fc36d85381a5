package pipeline

import (
	"strconv"
	"sync"
	"time"

	"github.com/aluiziolira/go-scrape-drinks/models"
	"github.com/shopspring/decimal"
)

type mockWriter struct {
	mu          sync.Mutex
	batches     [][]*models.ProductRecord
	closed      bool
	writeErr    error
	validateErr error
}

func (mw *mockWriter) Write(records []*models.ProductRecord) error {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	if mw.writeErr != nil {
		return mw.writeErr
	}
	copyBatch := make([]*models.ProductRecord, len(records))
	copy(copyBatch, records)
	mw.batches = append(mw.batches, copyBatch)
	return nil
}

func (mw *mockWriter) Close() error {
	mw.mu.Lock()
	mw.closed = true
	mw.mu.Unlock()
	return nil
}

func (mw *mockWriter) Validate() error {
	return mw.validateErr
}

func (mw *mockWriter) written() []*models.ProductRecord {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	var out []*models.ProductRecord
	for _, batch := range mw.batches {
		out = append(out, batch...)
	}
	return out
}

func (mw *mockWriter) batchSizes() []int {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	sizes := make([]int, 0, len(mw.batches))
	for _, batch := range mw.batches {
		sizes = append(sizes, len(batch))
	}
	return sizes
}

func record(i int, efficiency float64) *models.ProductRecord {
	return &models.ProductRecord{
		Retailer:       models.RetailerBWS,
		Brand:          "Smirnoff",
		Name:           "Smirnoff Red Vodka " + strconv.Itoa(i),
		Price:          decimal.RequireFromString("52.00"),
		URL:            "https://bws.com.au/product/" + strconv.Itoa(i),
		VolumeLiters:   0.7,
		AlcoholPercent: "37%",
		StandardDrinks: 20.4,
		Efficiency:     efficiency,
		ImageURL:       "https://bws.com.au/img/" + strconv.Itoa(i) + ".png",
		ScrapedAt:      time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
	}
}
