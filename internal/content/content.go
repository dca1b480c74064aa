// Package content loads the portfolio copy: hero text, about block,
// projects, skills and contact details.
package content

import (
	_ "embed"
	"fmt"
	"os"
	"time"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// TypingStep is how long the hero typewriter spends on each character.
const TypingStep = 150 * time.Millisecond

type Portfolio struct {
	Owner      string        `yaml:"owner"`
	Hero       Hero          `yaml:"hero"`
	About      About         `yaml:"about"`
	Projects   []Project     `yaml:"projects"`
	Categories []string      `yaml:"categories"`
	Skills     []Skill       `yaml:"skills"`
	Contact    []ContactInfo `yaml:"contact"`
	Footer     string        `yaml:"footer"`
}

type Hero struct {
	Greeting string `yaml:"greeting"`
	Subtitle string `yaml:"subtitle"`
}

// TypingDuration is the total time the subtitle takes to type out.
func (h Hero) TypingDuration() time.Duration {
	return time.Duration(utf8.RuneCountInString(h.Subtitle)) * TypingStep
}

// TypingSteps is the number of characters in the subtitle.
func (h Hero) TypingSteps() int {
	return utf8.RuneCountInString(h.Subtitle)
}

type About struct {
	Title    string    `yaml:"title"`
	Text     string    `yaml:"text"`
	Features []Feature `yaml:"features"`
}

type Feature struct {
	Icon        string `yaml:"icon"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

type Project struct {
	Slug         string   `yaml:"slug"`
	Title        string   `yaml:"title"`
	Summary      string   `yaml:"summary"`
	Description  string   `yaml:"description"`
	Technologies []string `yaml:"technologies"`
	Image        string   `yaml:"image"`
	DemoURL      string   `yaml:"demo_url"`
	SourceURL    string   `yaml:"source_url"`
}

type Skill struct {
	Name     string `yaml:"name"`
	Level    int    `yaml:"level"`
	Category string `yaml:"category"`
}

type ContactInfo struct {
	Icon  string `yaml:"icon"`
	Label string `yaml:"label"`
	Value string `yaml:"value"`
	Href  string `yaml:"href"`
}

// SkillGroup is the skills of one category, in document order.
type SkillGroup struct {
	Category string
	Skills   []Skill
}

// Load reads the portfolio from path, or the built-in copy when path is
// empty, and validates it.
func Load(path string) (*Portfolio, error) {
	data := defaultYAML
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read content: %w", err)
		}
		data = b
	}
	return Parse(data)
}

// Parse decodes and validates a YAML document.
func Parse(data []byte) (*Portfolio, error) {
	var p Portfolio
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks the cross-references yaml cannot express.
func (p *Portfolio) Validate() error {
	slugs := make(map[string]bool, len(p.Projects))
	for _, pr := range p.Projects {
		if pr.Slug == "" {
			return fmt.Errorf("project %q: missing slug", pr.Title)
		}
		if slugs[pr.Slug] {
			return fmt.Errorf("project %q: duplicate slug", pr.Slug)
		}
		slugs[pr.Slug] = true
	}

	categories := make(map[string]bool, len(p.Categories))
	for _, c := range p.Categories {
		if categories[c] {
			return fmt.Errorf("duplicate category %q", c)
		}
		categories[c] = true
	}
	names := make(map[string]bool, len(p.Skills))
	for _, s := range p.Skills {
		if names[s.Name] {
			return fmt.Errorf("skill %q: duplicate name", s.Name)
		}
		names[s.Name] = true
		if !categories[s.Category] {
			return fmt.Errorf("skill %q: unknown category %q", s.Name, s.Category)
		}
		if s.Level < 0 || s.Level > 100 {
			return fmt.Errorf("skill %q: level %d outside 0..100", s.Name, s.Level)
		}
	}
	return nil
}

// Project finds a project by slug.
func (p *Portfolio) Project(slug string) (Project, bool) {
	for _, pr := range p.Projects {
		if pr.Slug == slug {
			return pr, true
		}
	}
	return Project{}, false
}

// SkillsByCategory groups skills following the declared category order.
// Categories without skills are omitted.
func (p *Portfolio) SkillsByCategory() []SkillGroup {
	groups := make([]SkillGroup, 0, len(p.Categories))
	for _, c := range p.Categories {
		g := SkillGroup{Category: c}
		for _, s := range p.Skills {
			if s.Category == c {
				g.Skills = append(g.Skills, s)
			}
		}
		if len(g.Skills) > 0 {
			groups = append(groups, g)
		}
	}
	return groups
}
