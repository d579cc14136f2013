// Package detect decouples frame delivery from pattern-search latency.
//
// A live overlay has to stay responsive even when one search takes
// longer than the inter-frame interval.  The Detector throttles
// dispatch by a frame-skip count, runs at most one background search at
// a time, and serves whatever result set last completed -- possibly
// several frames stale, possibly absent before the first completion.
package detect

import (
	"context"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/Silemae70/TheEyeOfCthulhu-sub000/match"
)

// Result is the last completed search outcome for one pattern.
type Result struct {
	Pattern string       `json:"pattern"`
	Found   bool         `json:"found"`
	Best    *match.Found `json:"best,omitempty"`

	// Frame is the frame number the search ran against.
	Frame uint64 `json:"frame"`

	When time.Time `json:"when"`
}

// Detector runs background searches for a set of patterns.
//
// One mutex guards the busy gate, the dispatch counter, and the result
// cache, so concurrent frame producers are safe.  There is no queue:
// frames arriving while a search is in flight are simply not searched.
type Detector struct {
	// Debug turns on dispatch/completion logging.
	Debug bool

	matcher  match.Matcher
	patterns []*match.Pattern

	// skip is the minimum frame-number distance between dispatches.
	skip uint64

	mu             sync.Mutex
	busy           bool
	dispatched     bool
	lastDispatched uint64
	results        map[string]Result

	// inflight is closed when the current background search
	// finishes.  Nil when idle.
	inflight chan struct{}
}

// NewDetector makes a Detector that searches the given patterns with
// the given matcher, dispatching at most once per skip frames.
func NewDetector(m match.Matcher, patterns []*match.Pattern, skip uint64) *Detector {
	if skip == 0 {
		skip = 1
	}
	return &Detector{
		matcher:  m,
		patterns: patterns,
		skip:     skip,
	}
}

func (d *Detector) logf(format string, args ...interface{}) {
	if d.Debug {
		log.Printf("Detector."+format, args...)
	}
}

// Offer delivers one frame.
//
// If no search is in flight and the frame-skip distance has passed,
// Offer clones the frame and dispatches a background search against all
// configured patterns.  A frame number below the last dispatched one is
// treated as a counter reset (a restarted source) and dispatches
// immediately.  Regardless of whether a search was dispatched, Offer
// returns the currently cached result set (nil before the first
// completion) for annotating this frame.
func (d *Detector) Offer(frame match.Image, frameNumber uint64) map[string]Result {
	d.mu.Lock()

	reset := frameNumber < d.lastDispatched
	if !d.busy && (!d.dispatched || reset || d.skip <= frameNumber-d.lastDispatched) {
		d.busy = true
		d.dispatched = true
		d.lastDispatched = frameNumber
		done := make(chan struct{})
		d.inflight = done

		// Clone under the lock: the caller may reuse the frame
		// buffer as soon as Offer returns.
		clone := frame.Clone()
		d.mu.Unlock()

		d.logf("dispatch frame %d", frameNumber)
		go d.search(clone, frameNumber, done)

		d.mu.Lock()
	}

	snapshot := d.snapshotLocked()
	d.mu.Unlock()
	return snapshot
}

func (d *Detector) search(frame match.Image, frameNumber uint64, done chan struct{}) {
	defer close(done)

	fresh := make(map[string]Result, len(d.patterns))
	failed := false

	for _, p := range d.patterns {
		fs, err := d.matcher.Search(context.Background(), frame, p, nil)
		if err != nil {
			// Keep the previous cache; an error state would
			// flicker on a live feed.
			log.Printf("Detector search %q frame %d: %v", p.Name, frameNumber, err)
			failed = true
			break
		}
		r := Result{
			Pattern: p.Name,
			Frame:   frameNumber,
			When:    time.Now(),
		}
		if 0 < len(fs) && p.MinScore <= fs[0].Score {
			best := fs[0]
			r.Found = true
			r.Best = &best
		}
		fresh[p.Name] = r
	}

	d.mu.Lock()
	if !failed {
		d.results = fresh
	}
	d.busy = false
	d.inflight = nil
	d.mu.Unlock()

	d.logf("completed frame %d (failed=%v)", frameNumber, failed)
}

// Snapshot returns the last completed result set, or nil before the
// first completion.
func (d *Detector) Snapshot() map[string]Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshotLocked()
}

func (d *Detector) snapshotLocked() map[string]Result {
	if d.results == nil {
		return nil
	}
	acc := make(map[string]Result, len(d.results))
	for name, r := range d.results {
		acc[name] = r
	}
	return acc
}

// Export flattens the cached results for a presentation layer using the
// "<pattern>.Found" key convention shared with core.Prophecy.Export.
func (d *Detector) Export() map[string]string {
	snapshot := d.Snapshot()
	acc := make(map[string]string, 6*len(snapshot))
	for name, r := range snapshot {
		acc[name+".Found"] = strconv.FormatBool(r.Found)
		score := 0.0
		if r.Best != nil {
			score = r.Best.Score
		}
		acc[name+".Score"] = strconv.FormatFloat(score, 'f', -1, 64)
		if r.Best != nil {
			acc[name+".X"] = strconv.FormatFloat(r.Best.Position.X, 'f', -1, 64)
			acc[name+".Y"] = strconv.FormatFloat(r.Best.Position.Y, 'f', -1, 64)
			if r.Best.Angle != nil {
				acc[name+".Angle"] = strconv.FormatFloat(*r.Best.Angle, 'f', -1, 64)
			}
			if r.Best.Scale != nil {
				acc[name+".Scale"] = strconv.FormatFloat(*r.Best.Scale, 'f', -1, 64)
			}
		}
	}
	return acc
}

// Busy reports whether a search is in flight.
func (d *Detector) Busy() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.busy
}

// Dispose waits, bounded by the timeout, for an in-flight search to
// finish before the caller releases shared pattern or matcher
// resources.  After the timeout it reports false and proceeds anyway;
// in-flight searches cannot be cancelled.
func (d *Detector) Dispose(timeout time.Duration) bool {
	d.mu.Lock()
	inflight := d.inflight
	d.mu.Unlock()

	if inflight == nil {
		return true
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-inflight:
		return true
	case <-timer.C:
		log.Printf("Detector.Dispose timeout after %v with search in flight", timeout)
		return false
	}
}
