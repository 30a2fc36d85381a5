package pipeline

import (
	"testing"

	"github.com/aluiziolira/go-scrape-drinks/models"
)

func TestRankOrdersByEfficiencyDescending(t *testing.T) {
	in := []*models.ProductRecord{record(1, 0.3), record(2, 0.5), record(3, 0.4)}

	got := Rank(in)

	want := []string{in[1].URL, in[2].URL, in[0].URL}
	for i, r := range got {
		if r.URL != want[i] {
			t.Fatalf("rank[%d] = %s, want %s", i, r.URL, want[i])
		}
	}
	if in[0].Efficiency != 0.3 || in[1].Efficiency != 0.5 {
		t.Fatalf("input slice was reordered")
	}
}

func TestRankKeepsInputOrderForTies(t *testing.T) {
	in := []*models.ProductRecord{record(1, 0.4), record(2, 0.9), record(3, 0.4), record(4, 0.4)}

	got := Rank(in)

	want := []int{1, 0, 2, 3}
	for i, idx := range want {
		if got[i] != in[idx] {
			t.Fatalf("rank[%d] = %s, want %s", i, got[i].URL, in[idx].URL)
		}
	}
}

func TestRankEdgeCases(t *testing.T) {
	if got := Rank(nil); len(got) != 0 {
		t.Fatalf("Rank(nil) len = %d, want 0", len(got))
	}

	single := []*models.ProductRecord{record(1, 0.2)}
	got := Rank(single)
	if len(got) != 1 || got[0] != single[0] {
		t.Fatalf("single record not returned unchanged")
	}
}
