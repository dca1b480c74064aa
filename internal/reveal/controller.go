// Package reveal drives one-shot entrance animations for page sections.
//
// A Controller watches a single region through an Observer and flips to
// revealed the first time the region's visible fraction reaches its
// threshold. It then stops watching; a revealed section never hides again.
package reveal

import (
	"errors"
	"math"
	"sync"
)

var (
	ErrInvalidThreshold = errors.New("reveal: threshold must be within [0,1]")
	ErrAlreadyAttached  = errors.New("reveal: controller already attached")
)

// Region is an opaque handle to the bounding box of a page section.
// The controller only watches it; it never creates or destroys one.
type Region interface {
	RegionID() string
}

// Observer is the host's viewport-intersection primitive. Observe delivers
// visible-fraction samples for region to fn until the returned stop func
// is called.
type Observer interface {
	Observe(region Region, fn func(fraction float64)) (stop func())
}

// Controller holds the revealed state for one region.
type Controller struct {
	threshold float64

	mu          sync.Mutex
	revealed    bool
	attached    bool
	used        bool
	stop        func()
	subscribers []func()
}

// New returns an unrevealed controller. Thresholds outside [0,1] are
// rejected rather than clamped.
func New(threshold float64) (*Controller, error) {
	if math.IsNaN(threshold) || threshold < 0 || threshold > 1 {
		return nil, ErrInvalidThreshold
	}
	return &Controller{threshold: threshold}, nil
}

// Threshold returns the fraction configured at construction.
func (c *Controller) Threshold() float64 {
	return c.threshold
}

// Attach starts observing region. A nil observer or region is ignored and
// the controller stays unrevealed and attachable. Attach succeeds at most
// once: any later call, including after Detach or the reveal, returns
// ErrAlreadyAttached.
func (c *Controller) Attach(obs Observer, region Region) error {
	if obs == nil || region == nil {
		return nil
	}

	c.mu.Lock()
	if c.used {
		c.mu.Unlock()
		return ErrAlreadyAttached
	}
	c.used = true
	c.attached = true
	c.mu.Unlock()

	stop := obs.Observe(region, c.sample)

	c.mu.Lock()
	if c.attached {
		c.stop = stop
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	// Revealed or detached while Observe was still registering.
	if stop != nil {
		stop()
	}
	return nil
}

// Revealed reports whether the reveal has fired.
func (c *Controller) Revealed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.revealed
}

// OnReveal registers fn to run once when the reveal fires. If it already
// fired, fn runs immediately.
func (c *Controller) OnReveal(fn func()) {
	if fn == nil {
		return
	}
	c.mu.Lock()
	if c.revealed {
		c.mu.Unlock()
		fn()
		return
	}
	c.subscribers = append(c.subscribers, fn)
	c.mu.Unlock()
}

// Detach stops observation. Safe to call repeatedly and after the reveal.
func (c *Controller) Detach() {
	c.mu.Lock()
	stop := c.stop
	c.stop = nil
	c.attached = false
	c.mu.Unlock()

	if stop != nil {
		stop()
	}
}

func (c *Controller) sample(fraction float64) {
	c.mu.Lock()
	if !c.attached || c.revealed || fraction < c.threshold {
		c.mu.Unlock()
		return
	}
	c.revealed = true
	c.attached = false
	stop := c.stop
	c.stop = nil
	subs := c.subscribers
	c.subscribers = nil
	c.mu.Unlock()

	if stop != nil {
		stop()
	}
	for _, fn := range subs {
		fn()
	}
}
