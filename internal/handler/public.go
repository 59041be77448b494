// Copyright (c) 2026 Northbeam Software
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/mileusna/useragent"

	"github.com/northbeam/sitecms/internal/cache"
	"github.com/northbeam/sitecms/internal/model"
	"github.com/northbeam/sitecms/internal/render"
	"github.com/northbeam/sitecms/internal/seo"
	"github.com/northbeam/sitecms/internal/settings"
	"github.com/northbeam/sitecms/internal/store"
)

// Public serves the visitor-facing site. Only published content is
// reachable here; drafts, scheduled, and archived items render as 404.
type Public struct {
	queries  *store.Queries
	cache    *cache.Manager
	renderer *render.Renderer
	siteURL  string
	isDev    bool
	logger   *slog.Logger
}

// PublicConfig collects the dependencies for NewPublic.
type PublicConfig struct {
	DB       *sql.DB
	Cache    *cache.Manager
	Renderer *render.Renderer
	SiteURL  string
	IsDev    bool
	Logger   *slog.Logger
}

// NewPublic creates the public site handler set.
func NewPublic(cfg PublicConfig) *Public {
	return &Public{
		queries:  store.New(cfg.DB),
		cache:    cfg.Cache,
		renderer: cfg.Renderer,
		siteURL:  strings.TrimSuffix(cfg.SiteURL, "/"),
		isDev:    cfg.IsDev,
		logger:   cfg.Logger,
	}
}

// Routes assembles the public site router.
func (h *Public) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.Home)
	r.Get("/services", h.Services)
	r.Get("/blog", h.BlogIndex)
	r.Get("/blog/{slug}", h.BlogPost)
	r.Get("/projects", h.Projects)
	r.Get("/projects/{slug}", h.Project)
	r.Get("/team", h.Team)
	r.Get("/careers", h.Careers)
	r.Get("/contact", h.ContactForm)
	r.Post("/contact", h.ContactSubmit)
	r.Get("/sitemap.xml", h.Sitemap)
	r.Get("/robots.txt", h.Robots)
	r.NotFound(h.NotFound)

	return r
}

// site returns the cached site settings for template rendering.
func (h *Public) site(r *http.Request) settings.Nested {
	nested, err := h.cache.Settings(r.Context())
	if err != nil {
		h.logger.Error("loading site settings", "error", err)
		return settings.Nested{"general": {"siteName": "Northbeam Software"}}
	}
	if _, ok := nested["general"]; !ok {
		nested["general"] = map[string]any{"siteName": "Northbeam Software"}
	}
	return nested
}

func (h *Public) render(w http.ResponseWriter, r *http.Request, status int, name string, data render.TemplateData) {
	data.Site = h.site(r)
	data.Path = r.URL.Path
	if err := h.renderer.Render(w, status, name, data); err != nil {
		h.logger.Error("rendering page", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Home shows the landing page with recent work and posts.
func (h *Public) Home(w http.ResponseWriter, r *http.Request) {
	projects, err := h.queries.ListProjects(r.Context(), model.StatusPublished, 3, 0)
	if err != nil {
		h.logger.Error("listing featured projects", "error", err)
	}
	posts, err := h.queries.ListPublishedPosts(r.Context(), 3, 0)
	if err != nil {
		h.logger.Error("listing recent posts", "error", err)
	}

	h.render(w, r, http.StatusOK, "home", render.TemplateData{
		Description: h.cache.String(r.Context(), "general", "siteDescription", ""),
		Data: struct {
			Projects []model.Project
			Posts    []model.BlogPost
		}{projects, posts},
	})
}

// Services shows the static services page.
func (h *Public) Services(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "services", render.TemplateData{Title: "Services"})
}

// BlogIndex lists published posts, newest first.
func (h *Public) BlogIndex(w http.ResponseWriter, r *http.Request) {
	page := ParsePageParam(r)
	perPage := h.cache.Int(r.Context(), "blog", "postsPerPage", 10)
	if perPage < 1 || perPage > 50 {
		perPage = 10
	}

	total, err := h.queries.CountPublishedPosts(r.Context())
	if err != nil {
		h.internalError(w, r, "counting posts", err)
		return
	}
	posts, err := h.queries.ListPublishedPosts(r.Context(), int64(perPage), int64((page-1)*perPage))
	if err != nil {
		h.internalError(w, r, "listing posts", err)
		return
	}

	pages := int((total + int64(perPage) - 1) / int64(perPage))
	if pages < 1 {
		pages = 1
	}

	h.render(w, r, http.StatusOK, "blog", render.TemplateData{
		Title: "Blog",
		Data: struct {
			Posts []model.BlogPost
			Page  int
			Pages int
		}{posts, page, pages},
	})
}

// BlogPost shows a single published post.
func (h *Public) BlogPost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	post, err := h.queries.GetPublishedPostBySlug(r.Context(), slug)
	if err != nil {
		if store.IsNotFound(err) {
			h.NotFound(w, r)
			return
		}
		h.internalError(w, r, "loading post", err)
		return
	}

	body, err := h.renderer.RenderMarkdown(post.Body)
	if err != nil {
		h.internalError(w, r, "rendering post body", err)
		return
	}

	authorName := ""
	if h.cache.Bool(r.Context(), "blog", "showAuthors", true) {
		if author, err := h.queries.GetUserByID(r.Context(), post.AuthorID); err == nil {
			authorName = author.Name
		}
	}

	h.render(w, r, http.StatusOK, "blog_post", render.TemplateData{
		Title:       post.Title,
		Description: post.Excerpt,
		Data: struct {
			Post       model.BlogPost
			Body       template.HTML
			AuthorName string
		}{post, body, authorName},
	})
}

// Projects lists published case studies in display order.
func (h *Public) Projects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.queries.ListProjects(r.Context(), model.StatusPublished, 100, 0)
	if err != nil {
		h.internalError(w, r, "listing projects", err)
		return
	}
	h.render(w, r, http.StatusOK, "projects", render.TemplateData{Title: "Work", Data: projects})
}

// Project shows a single published case study.
func (h *Public) Project(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	project, err := h.queries.GetPublishedProjectBySlug(r.Context(), slug)
	if err != nil {
		if store.IsNotFound(err) {
			h.NotFound(w, r)
			return
		}
		h.internalError(w, r, "loading project", err)
		return
	}

	body, err := h.renderer.RenderMarkdown(project.Body)
	if err != nil {
		h.internalError(w, r, "rendering project body", err)
		return
	}

	h.render(w, r, http.StatusOK, "project", render.TemplateData{
		Title:       project.Title,
		Description: project.Summary,
		Data: struct {
			Project model.Project
			Body    template.HTML
		}{project, body},
	})
}

// Team lists active team members.
func (h *Public) Team(w http.ResponseWriter, r *http.Request) {
	members, err := h.queries.ListTeamMembers(r.Context(), true)
	if err != nil {
		h.internalError(w, r, "listing team", err)
		return
	}
	h.render(w, r, http.StatusOK, "team", render.TemplateData{Title: "Team", Data: members})
}

// Careers shows the static careers page.
func (h *Public) Careers(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "careers", render.TemplateData{Title: "Careers"})
}

// contactFormData carries form state back into the template on
// validation failure so the visitor does not lose their message.
type contactFormData struct {
	Sent    bool
	Error   string
	Name    string
	Email   string
	Company string
	Message string
}

// ContactForm shows the contact form, or the thank-you state after a
// successful submission. Cross-origin submissions are rejected by the
// CSRF middleware, so the form carries no token field.
func (h *Public) ContactForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "contact", render.TemplateData{
		Title: "Contact",
		Data:  contactFormData{Sent: r.URL.Query().Get("sent") == "1"},
	})
}

// ContactSubmit records a contact inquiry. The raw User-Agent header
// is reduced to a browser/OS summary before storage.
func (h *Public) ContactSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	form := contactFormData{
		Name:    strings.TrimSpace(r.PostFormValue("name")),
		Email:   strings.TrimSpace(r.PostFormValue("email")),
		Company: strings.TrimSpace(r.PostFormValue("company")),
		Message: strings.TrimSpace(r.PostFormValue("message")),
	}

	switch {
	case form.Name == "" || form.Message == "":
		form.Error = "Please fill in your name and a message."
	case !ValidEmail(form.Email):
		form.Error = "Please enter a valid email address."
	case len(form.Message) > 10000:
		form.Error = "That message is too long."
	}
	if form.Error != "" {
		h.render(w, r, http.StatusUnprocessableEntity, "contact", render.TemplateData{
			Title: "Contact",
			Data:  form,
		})
		return
	}

	inquiry, err := h.queries.CreateInquiry(r.Context(), store.CreateInquiryParams{
		Name:      form.Name,
		Email:     form.Email,
		Company:   form.Company,
		Message:   form.Message,
		UserAgent: summarizeUserAgent(r.UserAgent()),
	})
	if err != nil {
		h.internalError(w, r, "recording inquiry", err)
		return
	}

	h.logger.Info("contact inquiry received", "id", inquiry.ID)
	http.Redirect(w, r, "/contact?sent=1", http.StatusSeeOther)
}

// Sitemap serves sitemap.xml covering the fixed pages and all
// published content.
func (h *Public) Sitemap(w http.ResponseWriter, r *http.Request) {
	b := seo.NewSitemapBuilder(h.siteURL)
	b.AddHomepage()
	for _, path := range []string{"/services", "/projects", "/blog", "/team", "/careers", "/contact"} {
		b.AddStatic(path)
	}

	posts, err := h.queries.ListPublishedPosts(r.Context(), 1000, 0)
	if err != nil {
		h.logger.Error("listing posts for sitemap", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	for _, p := range posts {
		b.AddPost(p.Slug, p.UpdatedAt)
	}

	projects, err := h.queries.ListProjects(r.Context(), model.StatusPublished, 1000, 0)
	if err != nil {
		h.logger.Error("listing projects for sitemap", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	for _, p := range projects {
		b.AddProject(p.Slug, p.UpdatedAt)
	}

	out, err := b.Build()
	if err != nil {
		h.logger.Error("building sitemap", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(out)
}

// Robots serves robots.txt. Development instances block all crawlers.
func (h *Public) Robots(w http.ResponseWriter, _ *http.Request) {
	out := seo.BuildRobots(seo.RobotsConfig{SiteURL: h.siteURL, DisallowAll: h.isDev})
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, out)
}

// NotFound renders the 404 page.
func (h *Public) NotFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, "error", render.TemplateData{
		Title: "Not Found",
		Data: struct {
			Status  string
			Message string
		}{"404", "The page you are looking for does not exist."},
	})
}

func (h *Public) internalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	h.logger.Error(msg, "path", r.URL.Path, "error", err)
	h.render(w, r, http.StatusInternalServerError, "error", render.TemplateData{
		Title: "Error",
		Data: struct {
			Status  string
			Message string
		}{"500", "Something went wrong on our side. Please try again."},
	})
}

// summarizeUserAgent reduces a raw User-Agent header to "Browser x.y on
// OS (device)".
func summarizeUserAgent(raw string) string {
	if raw == "" {
		return ""
	}
	ua := useragent.Parse(raw)
	browser := ua.Name
	if browser == "" {
		browser = "Unknown"
	}
	os := ua.OS
	if os == "" {
		os = "Unknown"
	}

	device := "desktop"
	switch {
	case ua.Mobile:
		device = "mobile"
	case ua.Tablet:
		device = "tablet"
	case ua.Bot:
		device = "bot"
	}

	if ua.Version != "" {
		return fmt.Sprintf("%s %s on %s (%s)", browser, ua.Version, os, device)
	}
	return fmt.Sprintf("%s on %s (%s)", browser, os, device)
}
