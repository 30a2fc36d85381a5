package models

import (
	"fmt"
	"sync"
	"testing"
)

func TestResultSetConcurrentAppend(t *testing.T) {
	rs := NewResultSet()

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rs.Append(&ProductRecord{URL: fmt.Sprintf("http://example.test/%d", i)})
		}(i)
	}
	wg.Wait()

	if got := rs.Len(); got != 64 {
		t.Fatalf("len=%d, want 64", got)
	}
	seen := make(map[string]bool)
	for _, r := range rs.Records() {
		if seen[r.URL] {
			t.Fatalf("duplicate record %s", r.URL)
		}
		seen[r.URL] = true
	}
}

func TestResultSetRecordsIsCopy(t *testing.T) {
	rs := NewResultSet()
	rs.Append(&ProductRecord{Name: "a"})

	out := rs.Records()
	out[0] = &ProductRecord{Name: "b"}

	if got := rs.Records()[0].Name; got != "a" {
		t.Fatalf("records mutated through snapshot: %q", got)
	}
}

func TestRetailerString(t *testing.T) {
	if RetailerUnknown.String() != "unknown" {
		t.Fatalf("unknown retailer string = %q", RetailerUnknown.String())
	}
	if RetailerBWS.String() != "bws" {
		t.Fatalf("bws retailer string = %q", RetailerBWS.String())
	}
}
