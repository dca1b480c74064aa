package web

import (
	"html/template"

	"github.com/Zachkp/folio/internal/contact"
	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/page"
	"github.com/Zachkp/folio/internal/reveal"
)

// view is the data every page and fragment template renders from.
type view struct {
	P        *content.Portfolio
	Page     *page.Page
	sections map[string]page.Section

	Project content.Project
	Form    contact.Form
	Errors  contact.FieldErrors
	Receipt contact.Receipt
	Error   string
}

func (s *Server) newView(p *page.Page) view {
	v := view{
		P:        s.portfolio,
		Page:     p,
		sections: make(map[string]page.Section),
		Errors:   contact.FieldErrors{},
	}
	for _, sec := range s.pages.Sections() {
		v.sections[sec.ID] = sec
	}
	return v
}

// Revealed reports whether section is in its settled state.
func (v view) Revealed(section string) bool {
	if v.Page == nil {
		return false
	}
	return v.Page.Revealed(section)
}

// Observed reports whether the browser should report visibility for section.
func (v view) Observed(section string) bool {
	return v.Page != nil && v.Page.Observed(section) && !v.Page.Revealed(section)
}

// Threshold is the section's reveal threshold, for the client observer.
func (v view) Threshold(section string) float64 {
	return v.sections[section].Threshold
}

// Delay is the CSS animation delay of item i within section.
func (v view) Delay(section string, i int) string {
	return v.sections[section].Stagger.CSS(i)
}

type skillItem struct {
	content.Skill
	Index int
}

type skillGroup struct {
	Category string
	Skills   []skillItem
}

// SkillGroups groups skills by category while keeping each skill's
// position in the full list, so stagger delays run across categories.
func (v view) SkillGroups() []skillGroup {
	var out []skillGroup
	for _, g := range v.P.SkillsByCategory() {
		sg := skillGroup{Category: g.Category}
		for i, sk := range v.P.Skills {
			if sk.Category == g.Category {
				sg.Skills = append(sg.Skills, skillItem{Skill: sk, Index: i})
			}
		}
		out = append(out, sg)
	}
	return out
}

// ResetAfterMS is how long the success message stays, in milliseconds.
func (v view) ResetAfterMS() int64 {
	return v.Receipt.ResetAfter.Milliseconds()
}

var templateFuncs = template.FuncMap{
	"reveal": reveal.Classes,
	// Contact links come from the content file and may use tel: or mailto:.
	"safeURL": func(s string) template.URL {
		return template.URL(s)
	},
	"typingSeconds": func(h content.Hero) float64 {
		return h.TypingDuration().Seconds()
	},
	"width": func(revealed bool, level int) int {
		if revealed {
			return level
		}
		return 0
	},
}
