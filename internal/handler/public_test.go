// Copyright (c) 2026 Northbeam Software
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"encoding/xml"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/northbeam/sitecms/internal/cache"
	"github.com/northbeam/sitecms/internal/model"
	"github.com/northbeam/sitecms/internal/render"
	"github.com/northbeam/sitecms/internal/settings"
	"github.com/northbeam/sitecms/internal/store"
	"github.com/northbeam/sitecms/internal/testutil"
	"github.com/northbeam/sitecms/web"
)

type publicEnv struct {
	router  chi.Router
	queries *store.Queries
}

func newPublicEnv(t *testing.T, isDev bool) (*publicEnv, func()) {
	t.Helper()

	db, dbCleanup := testutil.TestDB(t)
	logger := testutil.TestLogger()
	cacheManager := cache.NewManager(cache.NewMemory(time.Minute),
		settings.NewService(db), logger)

	renderer, err := render.New(render.Config{TemplatesFS: web.Templates, IsDev: isDev})
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	public := NewPublic(PublicConfig{
		DB:       db,
		Cache:    cacheManager,
		Renderer: renderer,
		SiteURL:  "https://northbeam.example",
		IsDev:    isDev,
		Logger:   logger,
	})

	env := &publicEnv{router: public.Routes(), queries: store.New(db)}
	cleanup := func() {
		cacheManager.Close()
		dbCleanup()
	}
	return env, cleanup
}

func (e *publicEnv) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, r)
	return w
}

func (e *publicEnv) postForm(t *testing.T, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, r)
	return w
}

func (e *publicEnv) seedPublishedPost(t *testing.T, title, slug string) model.BlogPost {
	t.Helper()
	ctx := context.Background()
	author, err := e.queries.CreateUser(ctx, store.CreateUserParams{
		Name:     "Author",
		Email:    slug + "@example.com",
		Role:     model.RoleEditor,
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	post, err := e.queries.CreatePost(ctx, store.CreatePostParams{
		Title:       title,
		Slug:        slug,
		Body:        "Some **bold** body text.",
		Status:      model.StatusPublished,
		AuthorID:    author.ID,
		PublishedAt: sql.NullTime{Time: time.Now(), Valid: true},
	})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	return post
}

func TestStaticPages(t *testing.T) {
	env, cleanup := newPublicEnv(t, false)
	defer cleanup()

	for _, path := range []string{"/", "/services", "/blog", "/projects", "/team", "/careers", "/contact"} {
		t.Run(path, func(t *testing.T) {
			w := env.get(t, path)
			if w.Code != http.StatusOK {
				t.Errorf("GET %s = %d, want 200", path, w.Code)
			}
			if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
				t.Errorf("Content-Type = %q", ct)
			}
		})
	}
}

func TestBlogPostVisibility(t *testing.T) {
	env, cleanup := newPublicEnv(t, false)
	defer cleanup()

	env.seedPublishedPost(t, "Public Post", "public-post")

	ctx := context.Background()
	author, _ := env.queries.GetUserByEmail(ctx, "public-post@example.com")
	_, err := env.queries.CreatePost(ctx, store.CreatePostParams{
		Title:    "Secret Draft",
		Slug:     "secret-draft",
		Body:     "not yet",
		Status:   model.StatusDraft,
		AuthorID: author.ID,
	})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	w := env.get(t, "/blog/public-post")
	if w.Code != http.StatusOK {
		t.Fatalf("published post = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Public Post") {
		t.Error("expected the post title in the page")
	}
	// Markdown is rendered, not echoed.
	if !strings.Contains(w.Body.String(), "<strong>bold</strong>") {
		t.Error("expected rendered markdown in the page")
	}

	// Drafts 404 on the public site.
	w = env.get(t, "/blog/secret-draft")
	if w.Code != http.StatusNotFound {
		t.Errorf("draft post = %d, want 404", w.Code)
	}

	w = env.get(t, "/blog/never-existed")
	if w.Code != http.StatusNotFound {
		t.Errorf("missing post = %d, want 404", w.Code)
	}
}

func TestProjectVisibility(t *testing.T) {
	env, cleanup := newPublicEnv(t, false)
	defer cleanup()

	ctx := context.Background()
	_, err := env.queries.CreateProject(ctx, store.CreateProjectParams{
		Title:  "Shipped Project",
		Slug:   "shipped",
		Client: "Acme",
		Body:   "Case study body.",
		Status: model.StatusPublished,
	})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	_, err = env.queries.CreateProject(ctx, store.CreateProjectParams{
		Title:  "In Progress",
		Slug:   "in-progress",
		Status: model.StatusDraft,
	})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}

	w := env.get(t, "/projects/shipped")
	if w.Code != http.StatusOK {
		t.Errorf("published project = %d, want 200", w.Code)
	}

	w = env.get(t, "/projects/in-progress")
	if w.Code != http.StatusNotFound {
		t.Errorf("draft project = %d, want 404", w.Code)
	}

	// The index only lists published work.
	w = env.get(t, "/projects")
	if strings.Contains(w.Body.String(), "In Progress") {
		t.Error("draft project leaked into the index")
	}
}

func TestContactSubmit(t *testing.T) {
	env, cleanup := newPublicEnv(t, false)
	defer cleanup()

	w := env.postForm(t, "/contact", url.Values{
		"name":    {"Prospect"},
		"email":   {"prospect@example.com"},
		"company": {"Acme"},
		"message": {"We need help with a Go backend."},
	})
	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303: %s", w.Code, w.Body.String())
	}
	if loc := w.Header().Get("Location"); loc != "/contact?sent=1" {
		t.Errorf("Location = %q", loc)
	}

	inquiries, err := env.queries.ListInquiries(context.Background(), false, 10, 0)
	if err != nil {
		t.Fatalf("ListInquiries: %v", err)
	}
	if len(inquiries) != 1 {
		t.Fatalf("len(inquiries) = %d, want 1", len(inquiries))
	}
	if inquiries[0].Name != "Prospect" || inquiries[0].Company != "Acme" {
		t.Errorf("inquiry = %+v", inquiries[0])
	}
}

func TestContactSubmitValidation(t *testing.T) {
	env, cleanup := newPublicEnv(t, false)
	defer cleanup()

	cases := []struct {
		name string
		form url.Values
	}{
		{"missing name", url.Values{"email": {"a@b.com"}, "message": {"hi"}}},
		{"bad email", url.Values{"name": {"A"}, "email": {"nope"}, "message": {"hi"}}},
		{"missing message", url.Values{"name": {"A"}, "email": {"a@b.com"}}},
		{"oversized message", url.Values{
			"name":    {"A"},
			"email":   {"a@b.com"},
			"message": {strings.Repeat("x", 10001)},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := env.postForm(t, "/contact", tc.form)
			if w.Code != http.StatusUnprocessableEntity {
				t.Errorf("status = %d, want 422", w.Code)
			}
		})
	}

	inquiries, err := env.queries.ListInquiries(context.Background(), false, 10, 0)
	if err != nil {
		t.Fatalf("ListInquiries: %v", err)
	}
	if len(inquiries) != 0 {
		t.Errorf("rejected submissions must not be stored, got %d", len(inquiries))
	}
}

func TestSitemap(t *testing.T) {
	env, cleanup := newPublicEnv(t, false)
	defer cleanup()

	env.seedPublishedPost(t, "Indexed Post", "indexed-post")

	w := env.get(t, "/sitemap.xml")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/xml") {
		t.Errorf("Content-Type = %q", ct)
	}

	var urlset struct {
		URLs []struct {
			Loc string `xml:"loc"`
		} `xml:"url"`
	}
	if err := xml.Unmarshal(w.Body.Bytes(), &urlset); err != nil {
		t.Fatalf("unmarshaling sitemap: %v", err)
	}

	var found bool
	for _, u := range urlset.URLs {
		if u.Loc == "https://northbeam.example/blog/indexed-post" {
			found = true
		}
	}
	if !found {
		t.Error("expected the published post in the sitemap")
	}
}

func TestRobots(t *testing.T) {
	t.Run("production", func(t *testing.T) {
		env, cleanup := newPublicEnv(t, false)
		defer cleanup()

		w := env.get(t, "/robots.txt")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		body := w.Body.String()
		if !strings.Contains(body, "Disallow: /api/admin") {
			t.Error("expected the admin API to be disallowed")
		}
		if !strings.Contains(body, "Sitemap: https://northbeam.example/sitemap.xml") {
			t.Error("expected a sitemap reference")
		}
	})

	t.Run("development", func(t *testing.T) {
		env, cleanup := newPublicEnv(t, true)
		defer cleanup()

		w := env.get(t, "/robots.txt")
		if !strings.Contains(w.Body.String(), "Disallow: /") {
			t.Error("development robots should disallow everything")
		}
	})
}

func TestNotFoundPage(t *testing.T) {
	env, cleanup := newPublicEnv(t, false)
	defer cleanup()

	w := env.get(t, "/no-such-page")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
}
