package pipeline

import (
	"cmp"
	"slices"

	"github.com/aluiziolira/go-scrape-drinks/models"
)

// Rank orders records by efficiency, best value first. Records with equal
// efficiency keep their input order. The input slice is not modified.
func Rank(records []*models.ProductRecord) []*models.ProductRecord {
	out := make([]*models.ProductRecord, len(records))
	copy(out, records)
	slices.SortStableFunc(out, func(a, b *models.ProductRecord) int {
		return cmp.Compare(b.Efficiency, a.Efficiency)
	})
	return out
}
