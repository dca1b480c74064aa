// Package page keeps the reveal state of every section for each visitor.
package page

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Zachkp/folio/internal/reveal"
)

var (
	ErrUnknownSection  = errors.New("page: unknown section")
	ErrInvalidFraction = errors.New("page: visible fraction must be within [0,1]")
)

// Section describes one block of the page. Static sections are always
// settled and get no controller.
type Section struct {
	ID        string
	Threshold float64
	Static    bool
	Stagger   reveal.Stagger
}

// DefaultSections is the layout of the portfolio page, top to bottom.
func DefaultSections() []Section {
	return []Section{
		{ID: "hero", Static: true, Stagger: reveal.Stagger{Stride: 500 * time.Millisecond}},
		{ID: "about", Threshold: 0.3, Stagger: reveal.Stagger{Base: 400 * time.Millisecond, Stride: 200 * time.Millisecond}},
		{ID: "projects", Threshold: 0.2, Stagger: reveal.Stagger{Stride: 200 * time.Millisecond}},
		{ID: "skills", Threshold: 0.3, Stagger: reveal.Stagger{Stride: 100 * time.Millisecond}},
		{ID: "contact", Threshold: 0.3, Stagger: reveal.Stagger{Base: 200 * time.Millisecond, Stride: 100 * time.Millisecond}},
	}
}

// Page is one visitor's view of the sections.
type Page struct {
	visitor     string
	feed        *reveal.Feed
	controllers map[string]*reveal.Controller
	static      map[string]bool

	mu       sync.Mutex
	lastSeen time.Time
	closed   bool
}

func newPage(visitor string, sections []Section, onReveal func(visitor, section string)) (*Page, error) {
	p := &Page{
		visitor:     visitor,
		feed:        reveal.NewFeed(),
		controllers: make(map[string]*reveal.Controller),
		static:      make(map[string]bool),
		lastSeen:    time.Now(),
	}
	for _, s := range sections {
		if s.Static {
			p.static[s.ID] = true
			continue
		}
		c, err := reveal.New(s.Threshold)
		if err != nil {
			p.teardown()
			return nil, fmt.Errorf("section %q: %w", s.ID, err)
		}
		if err := c.Attach(p.feed, reveal.ID(s.ID)); err != nil {
			p.teardown()
			return nil, fmt.Errorf("section %q: %w", s.ID, err)
		}
		if onReveal != nil {
			id := s.ID
			c.OnReveal(func() { onReveal(visitor, id) })
		}
		p.controllers[s.ID] = c
	}
	return p, nil
}

// Visitor returns the id the page was opened for.
func (p *Page) Visitor() string {
	return p.visitor
}

// Report feeds a visibility sample for section and returns whether the
// section is revealed afterwards.
func (p *Page) Report(section string, fraction float64) (bool, error) {
	c, ok := p.controllers[section]
	if !ok {
		return false, ErrUnknownSection
	}
	if !(fraction >= 0 && fraction <= 1) {
		return false, ErrInvalidFraction
	}
	p.touch()
	p.feed.Report(section, fraction)
	return c.Revealed(), nil
}

// Revealed reports the state of section. Static sections are always
// revealed; unknown ones never are.
func (p *Page) Revealed(section string) bool {
	if p.static[section] {
		return true
	}
	c, ok := p.controllers[section]
	if !ok {
		return false
	}
	return c.Revealed()
}

// Observed reports whether section has a reveal controller.
func (p *Page) Observed(section string) bool {
	_, ok := p.controllers[section]
	return ok
}

func (p *Page) touch() {
	p.mu.Lock()
	p.lastSeen = time.Now()
	p.mu.Unlock()
}

func (p *Page) idleSince() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastSeen
}

func (p *Page) teardown() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	for _, c := range p.controllers {
		c.Detach()
	}
}

// Store owns the pages of all active visitors.
type Store struct {
	sections []Section
	ttl      time.Duration
	onReveal func(visitor, section string)

	mu    sync.Mutex
	pages map[string]*Page

	cancel context.CancelFunc
	done   chan struct{}
}

// Option configures a Store.
type Option func(*Store)

// WithTTL sets how long an idle page is kept before teardown.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) { s.ttl = ttl }
}

// WithSections replaces the default layout.
func WithSections(sections []Section) Option {
	return func(s *Store) { s.sections = sections }
}

// WithRevealHook is called once for every section a visitor reveals.
func WithRevealHook(fn func(visitor, section string)) Option {
	return func(s *Store) { s.onReveal = fn }
}

// NewStore creates a store and starts its janitor.
func NewStore(opts ...Option) *Store {
	s := &Store{
		sections: DefaultSections(),
		ttl:      30 * time.Minute,
		pages:    make(map[string]*Page),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.janitor(ctx)
	return s
}

// Sections returns the configured layout.
func (s *Store) Sections() []Section {
	return s.sections
}

// Section looks up a section descriptor by id.
func (s *Store) Section(id string) (Section, bool) {
	for _, sec := range s.sections {
		if sec.ID == id {
			return sec, true
		}
	}
	return Section{}, false
}

// Open returns the visitor's page, creating it on first use.
func (s *Store) Open(visitor string) (*Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.pages[visitor]; ok {
		p.touch()
		return p, nil
	}
	p, err := newPage(visitor, s.sections, s.onReveal)
	if err != nil {
		return nil, err
	}
	s.pages[visitor] = p
	return p, nil
}

// Lookup returns the visitor's page if one is open. Unlike Open it never
// creates one.
func (s *Store) Lookup(visitor string) (*Page, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pages[visitor]
	if ok {
		p.touch()
	}
	return p, ok
}

// Len returns the number of live pages.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pages)
}

// Evict tears down pages idle since before cutoff and returns how many
// were removed.
func (s *Store) Evict(cutoff time.Time) int {
	s.mu.Lock()
	var stale []*Page
	for id, p := range s.pages {
		if p.idleSince().Before(cutoff) {
			stale = append(stale, p)
			delete(s.pages, id)
		}
	}
	s.mu.Unlock()

	for _, p := range stale {
		p.teardown()
	}
	return len(stale)
}

// Close stops the janitor and tears down every page.
func (s *Store) Close() {
	s.cancel()
	<-s.done

	s.mu.Lock()
	pages := s.pages
	s.pages = make(map[string]*Page)
	s.mu.Unlock()

	for _, p := range pages {
		p.teardown()
	}
}

func (s *Store) janitor(ctx context.Context) {
	defer close(s.done)

	interval := s.ttl / 2
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := s.Evict(now.Add(-s.ttl)); n > 0 {
				log.Printf("Released %d idle visitor pages", n)
			}
		}
	}
}
