package scraper

import "sync"

// Failure records one URL that contributed no records.
type Failure struct {
	URL  string
	Kind string
	Err  error
}

// FailureLog accumulates failures from concurrent workers.
type FailureLog struct {
	mu       sync.Mutex
	failures []Failure
	byKind   map[string]int
}

// NewFailureLog returns an empty log.
func NewFailureLog() *FailureLog {
	return &FailureLog{byKind: make(map[string]int)}
}

// Add records a failure for url.
func (l *FailureLog) Add(url string, err error) Failure {
	f := Failure{URL: url, Kind: ErrorKind(err), Err: err}
	l.mu.Lock()
	l.failures = append(l.failures, f)
	l.byKind[f.Kind]++
	l.mu.Unlock()
	return f
}

// Merge appends every failure from other.
func (l *FailureLog) Merge(other *FailureLog) {
	if other == nil || other == l {
		return
	}
	for _, f := range other.Failures() {
		l.mu.Lock()
		l.failures = append(l.failures, f)
		l.byKind[f.Kind]++
		l.mu.Unlock()
	}
}

// Count returns the number of failures recorded.
func (l *FailureLog) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.failures)
}

// Failures returns a copy of the recorded failures.
func (l *FailureLog) Failures() []Failure {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Failure, len(l.failures))
	copy(out, l.failures)
	return out
}

// URLs returns the failed URLs in the order they were recorded.
func (l *FailureLog) URLs() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.failures))
	for i, f := range l.failures {
		out[i] = f.URL
	}
	return out
}

// ByKind returns a copy of the per-kind tally.
func (l *FailureLog) ByKind() map[string]int {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]int, len(l.byKind))
	for k, v := range l.byKind {
		out[k] = v
	}
	return out
}
