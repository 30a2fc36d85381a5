package scraper

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// refSet remembers item URLs already queued during one search. The cache
// starts at the configured size and doubles before it would evict, so a URL
// is never forgotten mid-search.
type refSet struct {
	cache *lru.Cache[string, struct{}]
	size  int
}

func newRefSet(size int) *refSet {
	if size <= 0 {
		size = 1
	}
	cache, err := lru.New[string, struct{}](size)
	if err != nil {
		panic(err)
	}
	return &refSet{cache: cache, size: size}
}

// firstSeen records u and reports whether it had not been seen before.
func (r *refSet) firstSeen(u string) bool {
	if r.cache.Contains(u) {
		return false
	}
	if r.cache.Len() >= r.size {
		r.size *= 2
		r.cache.Resize(r.size)
	}
	r.cache.Add(u, struct{}{})
	return true
}
