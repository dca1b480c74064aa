package page_test

import (
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Zachkp/folio/internal/page"
	"github.com/Zachkp/folio/internal/reveal"
)

var _ = Describe("Store", func() {
	var (
		store *page.Store
		mu    sync.Mutex
		hits  []string
	)

	BeforeEach(func() {
		hits = nil
		store = page.NewStore(page.WithRevealHook(func(visitor, section string) {
			mu.Lock()
			defer mu.Unlock()
			hits = append(hits, visitor+"/"+section)
		}))
	})

	AfterEach(func() {
		store.Close()
	})

	It("returns the same page for a visitor", func() {
		a, err := store.Open("v1")
		Expect(err).NotTo(HaveOccurred())
		b, err := store.Open("v1")
		Expect(err).NotTo(HaveOccurred())
		Expect(a).To(BeIdenticalTo(b))
		Expect(a.Visitor()).To(Equal("v1"))
		Expect(store.Len()).To(Equal(1))
	})

	It("looks up pages without creating them", func() {
		_, ok := store.Lookup("v1")
		Expect(ok).To(BeFalse())
		Expect(store.Len()).To(Equal(0))

		a, err := store.Open("v1")
		Expect(err).NotTo(HaveOccurred())
		b, ok := store.Lookup("v1")
		Expect(ok).To(BeTrue())
		Expect(b).To(BeIdenticalTo(a))
		Expect(store.Len()).To(Equal(1))
	})

	It("keeps visitors independent", func() {
		a, _ := store.Open("v1")
		b, _ := store.Open("v2")

		revealed, err := a.Report("about", 0.5)
		Expect(err).NotTo(HaveOccurred())
		Expect(revealed).To(BeTrue())
		Expect(b.Revealed("about")).To(BeFalse())
	})

	It("applies each section's threshold", func() {
		p, _ := store.Open("v1")

		revealed, err := p.Report("projects", 0.2)
		Expect(err).NotTo(HaveOccurred())
		Expect(revealed).To(BeTrue())

		revealed, err = p.Report("skills", 0.25)
		Expect(err).NotTo(HaveOccurred())
		Expect(revealed).To(BeFalse())
	})

	It("treats static sections as revealed", func() {
		p, _ := store.Open("v1")
		Expect(p.Revealed("hero")).To(BeTrue())
		Expect(p.Observed("hero")).To(BeFalse())
		_, err := p.Report("hero", 1)
		Expect(err).To(MatchError(page.ErrUnknownSection))
	})

	It("validates reports", func() {
		p, _ := store.Open("v1")
		_, err := p.Report("footer", 0.5)
		Expect(err).To(MatchError(page.ErrUnknownSection))
		_, err = p.Report("about", 1.5)
		Expect(err).To(MatchError(page.ErrInvalidFraction))
		_, err = p.Report("about", -0.1)
		Expect(err).To(MatchError(page.ErrInvalidFraction))
	})

	It("calls the reveal hook once per section", func() {
		p, _ := store.Open("v1")
		for _, f := range []float64{0.1, 0.4, 0.9, 0} {
			_, err := p.Report("contact", f)
			Expect(err).NotTo(HaveOccurred())
		}
		mu.Lock()
		defer mu.Unlock()
		Expect(hits).To(Equal([]string{"v1/contact"}))
	})

	It("tears down idle pages", func() {
		p, _ := store.Open("v1")
		Expect(store.Evict(time.Now().Add(time.Minute))).To(Equal(1))
		Expect(store.Len()).To(Equal(0))

		// A torn-down page no longer reacts to samples.
		revealed, err := p.Report("about", 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(revealed).To(BeFalse())

		fresh, _ := store.Open("v1")
		Expect(fresh).NotTo(BeIdenticalTo(p))
	})

	It("keeps recently used pages", func() {
		_, _ = store.Open("v1")
		Expect(store.Evict(time.Now().Add(-time.Minute))).To(Equal(0))
		Expect(store.Len()).To(Equal(1))
	})

	It("looks up sections", func() {
		s, ok := store.Section("projects")
		Expect(ok).To(BeTrue())
		Expect(s.Threshold).To(Equal(0.2))
		_, ok = store.Section("nope")
		Expect(ok).To(BeFalse())
		Expect(store.Sections()).To(HaveLen(5))
	})

	It("rejects a layout with an invalid threshold", func() {
		bad := page.NewStore(page.WithSections([]page.Section{{ID: "x", Threshold: 2}}))
		defer bad.Close()
		_, err := bad.Open("v1")
		Expect(err).To(MatchError(reveal.ErrInvalidThreshold))
	})
})
