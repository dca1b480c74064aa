package reveal

import "sync"

// ID is a Region identified by a plain string, usually a section's DOM id.
type ID string

func (id ID) RegionID() string { return string(id) }

// Feed is an Observer driven by pushed samples. The browser measures
// intersections and reports them; Report fans each sample out to the
// watchers of that region.
type Feed struct {
	mu       sync.Mutex
	next     uint64
	watchers map[string]map[uint64]func(float64)
}

func NewFeed() *Feed {
	return &Feed{watchers: make(map[string]map[uint64]func(float64))}
}

// Observe implements Observer.
func (f *Feed) Observe(region Region, fn func(fraction float64)) func() {
	id := region.RegionID()

	f.mu.Lock()
	f.next++
	key := f.next
	if f.watchers[id] == nil {
		f.watchers[id] = make(map[uint64]func(float64))
	}
	f.watchers[id][key] = fn
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			delete(f.watchers[id], key)
			if len(f.watchers[id]) == 0 {
				delete(f.watchers, id)
			}
		})
	}
}

// Report delivers a visible-fraction sample for the region with the given
// id. Callbacks run outside the feed lock so they may stop themselves.
func (f *Feed) Report(id string, fraction float64) {
	f.mu.Lock()
	fns := make([]func(float64), 0, len(f.watchers[id]))
	for _, fn := range f.watchers[id] {
		fns = append(fns, fn)
	}
	f.mu.Unlock()

	for _, fn := range fns {
		fn(fraction)
	}
}

// Watching returns the number of active watchers for id.
func (f *Feed) Watching(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.watchers[id])
}
