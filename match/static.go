package match

import (
	"context"
	"sync"
	"time"
)

// StaticMatcher replays configured results instead of looking at
// pixels.
//
// It stands in for a real matching library in tests and in the demo
// runtime, and it records every search it is asked to perform so that
// callers can verify region handling.
type StaticMatcher struct {
	sync.Mutex

	// Delay simulates search latency.  A Search honors context
	// cancellation while waiting.
	Delay time.Duration

	results map[string][]Found
	errs    map[string]error
	calls   []Call
}

// Call records one Search invocation.
type Call struct {
	Pattern string
	Region  *Region
}

func NewStaticMatcher() *StaticMatcher {
	return &StaticMatcher{
		results: make(map[string][]Found),
		errs:    make(map[string]error),
	}
}

// SetFound configures the results returned for the named pattern.
func (m *StaticMatcher) SetFound(pattern string, fs ...Found) {
	m.Lock()
	m.results[pattern] = fs
	m.Unlock()
}

// SetError makes searches for the named pattern fail.
func (m *StaticMatcher) SetError(pattern string, err error) {
	m.Lock()
	m.errs[pattern] = err
	m.Unlock()
}

// Calls returns a copy of the recorded searches.
func (m *StaticMatcher) Calls() []Call {
	m.Lock()
	defer m.Unlock()
	acc := make([]Call, len(m.calls))
	copy(acc, m.calls)
	return acc
}

func (m *StaticMatcher) Search(ctx context.Context, img Image, p *Pattern, region *Region) ([]Found, error) {
	m.Lock()
	var reg *Region
	if region != nil {
		r := *region
		reg = &r
	}
	m.calls = append(m.calls, Call{Pattern: p.Name, Region: reg})
	fs := m.results[p.Name]
	err := m.errs[p.Name]
	delay := m.Delay
	m.Unlock()

	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if err != nil {
		return nil, err
	}

	acc := make([]Found, len(fs))
	copy(acc, fs)
	return acc, nil
}
