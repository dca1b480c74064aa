// Package web serves the portfolio page and its HTMX fragments.
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Zachkp/folio/internal/config"
	"github.com/Zachkp/folio/internal/contact"
	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/page"
	"github.com/Zachkp/folio/internal/store"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	visitorCookie = "visitor"
	visitorKey    = "visitor"
)

// Submitter sends a contact form.
type Submitter interface {
	Submit(ctx context.Context, f contact.Form) (contact.Receipt, error)
}

type Server struct {
	cfg       config.Config
	portfolio *content.Portfolio
	pages     *page.Store
	db        *store.Store
	submitter Submitter
	admin     *adminAuth
}

func New(cfg config.Config, portfolio *content.Portfolio, pages *page.Store, db *store.Store, submitter Submitter) (*Server, error) {
	if db == nil {
		return nil, errors.New("web: store is required")
	}
	admin, err := newAdminAuth(cfg)
	if err != nil {
		return nil, err
	}
	return &Server{
		cfg:       cfg,
		portfolio: portfolio,
		pages:     pages,
		db:        db,
		submitter: submitter,
		admin:     admin,
	}, nil
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() (*gin.Engine, error) {
	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	r := gin.Default()
	r.SetHTMLTemplate(tmpl)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Visibility samples reported by the browser's intersection observer.
	// They never mint a visitor cookie.
	r.POST("/sections/:id/visibility", s.handleVisibility)

	site := r.Group("/")
	site.Use(s.visitorTrackingMiddleware(), visitorMiddleware())

	// Home page route
	site.GET("/", s.handleIndex)

	// Project modal
	site.GET("/projects/:slug", s.handleProject)

	// HTMX contact form endpoints
	site.GET("/contact-form", s.handleContactForm)
	site.POST("/contact", s.handleContact)

	s.setupAdminRoutes(r)
	return r, nil
}

// visitorMiddleware gives every browser a stable random id, which keys its
// reveal state.
func visitorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(visitorCookie)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.NewString()
			c.SetCookie(visitorCookie, id, 3600*24*365, "/", "", false, true)
		}
		c.Set(visitorKey, id)
		c.Next()
	}
}

func (s *Server) openPage(c *gin.Context) (*page.Page, bool) {
	p, err := s.pages.Open(c.GetString(visitorKey))
	if err != nil {
		log.Printf("Error opening visitor page: %v", err)
		c.String(http.StatusInternalServerError, "internal error")
		return nil, false
	}
	return p, true
}

func (s *Server) handleIndex(c *gin.Context) {
	p, ok := s.openPage(c)
	if !ok {
		return
	}
	c.HTML(http.StatusOK, "index.html", s.newView(p))
}

func (s *Server) handleVisibility(c *gin.Context) {
	section := c.Param("id")
	fraction, err := strconv.ParseFloat(strings.TrimSpace(c.PostForm("fraction")), 64)
	if err != nil {
		c.String(http.StatusBadRequest, "fraction must be a number")
		return
	}

	// Samples only count against a page the visitor already loaded.
	id, err := c.Cookie(visitorCookie)
	if err != nil || uuid.Validate(id) != nil {
		c.Status(http.StatusNoContent)
		return
	}
	p, ok := s.pages.Lookup(id)
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	revealed, err := p.Report(section, fraction)
	switch {
	case errors.Is(err, page.ErrUnknownSection):
		c.String(http.StatusNotFound, "unknown section")
		return
	case errors.Is(err, page.ErrInvalidFraction):
		c.String(http.StatusBadRequest, err.Error())
		return
	case err != nil:
		log.Printf("Error reporting visibility for %s: %v", section, err)
		c.String(http.StatusInternalServerError, "internal error")
		return
	}

	if !revealed {
		c.Status(http.StatusNoContent)
		return
	}
	c.HTML(http.StatusOK, "section-"+section, s.newView(p))
}

func (s *Server) handleProject(c *gin.Context) {
	project, ok := s.portfolio.Project(c.Param("slug"))
	if !ok {
		c.String(http.StatusNotFound, "project not found")
		return
	}
	v := s.newView(nil)
	v.Project = project
	c.HTML(http.StatusOK, "project-modal", v)
}

func (s *Server) handleContactForm(c *gin.Context) {
	c.HTML(http.StatusOK, "contact-form", s.newView(nil))
}

// Handle contact form submission with HTMX. Fragments are returned with
// 200 so HTMX swaps them in, including the form with field errors.
func (s *Server) handleContact(c *gin.Context) {
	form := contact.Form{
		Name:    c.PostForm("name"),
		Email:   c.PostForm("email"),
		Message: c.PostForm("message"),
	}
	v := s.newView(nil)
	v.Form = form

	receipt, err := s.submitter.Submit(c.Request.Context(), form)
	var verr *contact.ValidationError
	switch {
	case errors.As(err, &verr):
		v.Errors = verr.Fields
		c.HTML(http.StatusOK, "contact-form", v)
		return
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		// The visitor left before the send finished; nobody is listening.
		log.Printf("Contact submission abandoned: %v", err)
		return
	case err != nil:
		log.Printf("Error sending contact message: %v", err)
		v.Error = "Sorry, there was an error sending your message. Please try again later."
		c.HTML(http.StatusOK, "contact-error", v)
		return
	}

	log.Printf("Contact message received from %s", receipt.Form.Name)
	v.Receipt = receipt
	c.HTML(http.StatusOK, "contact-success", v)
}

// Privacy-conscious visitor tracking middleware
func (s *Server) visitorTrackingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet || c.Request.URL.Path != "/" {
			c.Next()
			return
		}

		// Respect Do Not Track header
		if c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		ip, ua, path := c.ClientIP(), c.GetHeader("User-Agent"), c.Request.URL.Path
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.db.RecordVisit(ctx, ip, ua, path, time.Now()); err != nil {
				log.Printf("Error recording visitor: %v", err)
			}
		}()
		c.Next()
	}
}
