package content_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Zachkp/folio/internal/content"
)

var _ = Describe("Portfolio", func() {
	It("loads the built-in copy", func() {
		p, err := content.Load("")
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Owner).To(Equal("Alexey"))
		Expect(p.Projects).To(HaveLen(3))
		Expect(p.Skills).To(HaveLen(12))
		Expect(p.Contact).To(HaveLen(3))
		Expect(p.About.Features).To(HaveLen(3))
	})

	It("groups skills by declared category", func() {
		p, err := content.Load("")
		Expect(err).NotTo(HaveOccurred())
		groups := p.SkillsByCategory()
		Expect(groups).To(HaveLen(3))
		Expect(groups[0].Category).To(Equal("Frontend"))
		Expect(groups[0].Skills).To(HaveLen(6))
		Expect(groups[2].Skills[1].Name).To(Equal("Docker"))
	})

	It("finds projects by slug", func() {
		p, err := content.Load("")
		Expect(err).NotTo(HaveOccurred())
		pr, ok := p.Project("weather-dashboard")
		Expect(ok).To(BeTrue())
		Expect(pr.Technologies).To(ContainElement("Chart.js"))
		_, ok = p.Project("missing")
		Expect(ok).To(BeFalse())
	})

	It("times the hero typewriter per character", func() {
		h := content.Hero{Subtitle: "Веб"}
		Expect(h.TypingSteps()).To(Equal(3))
		Expect(h.TypingDuration()).To(Equal(450 * time.Millisecond))
	})

	It("reads a file from disk", func() {
		path := filepath.Join(GinkgoT().TempDir(), "content.yaml")
		Expect(os.WriteFile(path, []byte("owner: Zach\ncategories: [Go]\nskills:\n  - {name: Go, level: 80, category: Go}\n"), 0o600)).To(Succeed())
		p, err := content.Load(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Owner).To(Equal("Zach"))
	})

	It("reports a missing file", func() {
		_, err := content.Load(filepath.Join(GinkgoT().TempDir(), "nope.yaml"))
		Expect(err).To(MatchError(ContainSubstring("read content")))
	})

	DescribeTable("rejects inconsistent documents",
		func(doc, msg string) {
			_, err := content.Parse([]byte(doc))
			Expect(err).To(MatchError(ContainSubstring(msg)))
		},
		Entry("bad yaml", "owner: [", "decode content"),
		Entry("duplicate slug", "projects:\n  - {slug: a, title: A}\n  - {slug: a, title: B}\n", "duplicate slug"),
		Entry("missing slug", "projects:\n  - {title: A}\n", "missing slug"),
		Entry("unknown category", "categories: [Go]\nskills:\n  - {name: X, level: 1, category: Rust}\n", "unknown category"),
		Entry("duplicate category", "categories: [Go, Go]\n", "duplicate category"),
		Entry("duplicate skill", "categories: [Go, Web]\nskills:\n  - {name: X, level: 1, category: Go}\n  - {name: X, level: 2, category: Web}\n", "duplicate name"),
		Entry("level too high", "categories: [Go]\nskills:\n  - {name: X, level: 101, category: Go}\n", "outside 0..100"),
	)
})
