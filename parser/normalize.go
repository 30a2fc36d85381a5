// Package parser converts raw product fields into canonical units.
package parser

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/aluiziolira/go-scrape-drinks/models"
	"github.com/shopspring/decimal"
)

// ParseVolume converts a size such as "700mL" or "1.5L" to liters.
func ParseVolume(raw string) (float64, error) {
	value := strings.TrimSpace(raw)
	lower := strings.ToLower(value)

	var number string
	var scale float64
	switch {
	case strings.HasSuffix(lower, "ml"):
		number, scale = value[:len(value)-2], 1000
	case strings.HasSuffix(lower, "l"):
		number, scale = value[:len(value)-1], 1
	default:
		return 0, ErrUnitConversion{Field: "volume", Value: raw, Err: ErrUnknownUnit}
	}

	amount, ok := parseAmount(number)
	if !ok {
		return 0, ErrUnitConversion{Field: "volume", Value: raw, Err: ErrNotNumeric}
	}
	return amount / scale, nil
}

// ParsePrice joins whole currency units and cents into a decimal price.
func ParsePrice(whole, cents string) (decimal.Decimal, error) {
	w := strings.TrimSpace(whole)
	w = strings.TrimPrefix(w, "$")
	w = strings.ReplaceAll(w, ",", "")
	w = strings.TrimSpace(w)
	c := strings.TrimSpace(cents)

	if !isDigits(w) {
		return decimal.Zero, ErrUnitConversion{Field: "price", Value: whole, Err: ErrNotNumeric}
	}
	if c != "" && !isDigits(c) {
		return decimal.Zero, ErrUnitConversion{Field: "price", Value: cents, Err: ErrNotNumeric}
	}

	text := w
	if c != "" {
		text = w + "." + c
	}
	price, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, ErrUnitConversion{Field: "price", Value: text, Err: err}
	}
	return price, nil
}

// ParseStandardDrinks parses the standard drink count of a product.
func ParseStandardDrinks(raw string) (float64, error) {
	value, ok := parseAmount(raw)
	if !ok {
		return 0, ErrUnitConversion{Field: "standard_drinks", Value: raw, Err: ErrNotNumeric}
	}
	return value, nil
}

// parseAmount accepts finite, non-negative decimals only; ParseFloat alone
// admits "NaN" and "Inf".
func parseAmount(raw string) (float64, bool) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return 0, false
	}
	return value, true
}

// Efficiency returns standard drinks per currency unit.
func Efficiency(standardDrinks float64, price decimal.Decimal) (float64, error) {
	if !price.IsPositive() {
		return 0, ErrDivision{Price: price.String()}
	}
	return standardDrinks / price.InexactFloat64(), nil
}

// Normalize builds a ProductRecord from raw detail fields. It never returns a
// partially filled record.
func Normalize(retailer models.Retailer, sourceURL string, raw *models.RawFields) (*models.ProductRecord, error) {
	if raw == nil {
		return nil, fmt.Errorf("normalize %s: no fields", sourceURL)
	}

	price, err := ParsePrice(raw.PriceWhole, raw.PriceCents)
	if err != nil {
		return nil, err
	}
	volume, err := ParseVolume(raw.Details[models.DetailLiquorSize])
	if err != nil {
		return nil, err
	}
	drinks, err := ParseStandardDrinks(raw.Details[models.DetailStandardDrinks])
	if err != nil {
		return nil, err
	}
	efficiency, err := Efficiency(drinks, price)
	if err != nil {
		return nil, err
	}

	return &models.ProductRecord{
		Retailer:       retailer,
		Brand:          strings.TrimSpace(raw.Details[models.DetailBrand]),
		Name:           strings.TrimSpace(raw.Name),
		Price:          price,
		URL:            sourceURL,
		VolumeLiters:   volume,
		AlcoholPercent: strings.TrimSpace(raw.Details[models.DetailAlcohol]),
		StandardDrinks: drinks,
		Efficiency:     efficiency,
		ImageURL:       strings.TrimSpace(raw.ImageURL),
		ScrapedAt:      time.Now(),
	}, nil
}

// ValidateRecord ensures a record is complete enough to persist.
func ValidateRecord(r *models.ProductRecord) error {
	if r == nil {
		return fmt.Errorf("record is nil")
	}
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("record missing name")
	}
	if strings.TrimSpace(r.URL) == "" {
		return fmt.Errorf("record missing url for %s", r.Name)
	}
	if !r.Price.IsPositive() {
		return fmt.Errorf("record missing price for %s", r.Name)
	}
	return nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
