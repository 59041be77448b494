// Copyright (c) 2026 Northbeam Software
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/northbeam/sitecms/internal/auth"
	"github.com/northbeam/sitecms/internal/cache"
	"github.com/northbeam/sitecms/internal/imaging"
	"github.com/northbeam/sitecms/internal/middleware"
	"github.com/northbeam/sitecms/internal/rbac"
	"github.com/northbeam/sitecms/internal/session"
	"github.com/northbeam/sitecms/internal/settings"
	"github.com/northbeam/sitecms/internal/store"
)

// API holds shared dependencies for all admin API handlers.
type API struct {
	db            *sql.DB
	queries       *store.Queries
	sessions      *session.Manager
	grants        *rbac.Grants
	authenticator *auth.Authenticator
	settings      *settings.Service
	cache         *cache.Manager
	processor     *imaging.Processor
	logger        *slog.Logger
}

// APIConfig collects the dependencies for NewAPI.
type APIConfig struct {
	DB        *sql.DB
	Sessions  *session.Manager
	Grants    *rbac.Grants
	Settings  *settings.Service
	Cache     *cache.Manager
	Processor *imaging.Processor
	Logger    *slog.Logger
}

// NewAPI creates the admin API handler set.
func NewAPI(cfg APIConfig) *API {
	queries := store.New(cfg.DB)
	return &API{
		db:            cfg.DB,
		queries:       queries,
		sessions:      cfg.Sessions,
		grants:        cfg.Grants,
		authenticator: auth.NewAuthenticator(queries, cfg.Logger),
		settings:      cfg.Settings,
		cache:         cfg.Cache,
		processor:     cfg.Processor,
		logger:        cfg.Logger,
	}
}

// Routes assembles the /api/admin router. Every route except login sits
// behind session verification; capability checks are declared per
// resource so the authorization surface is readable in one place.
func (h *API) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/login", h.Login)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession(h.sessions))

		r.Post("/logout", h.Logout)

		r.With(middleware.RequireCapability(h.grants, rbac.ViewDashboard)).
			Get("/me", h.Me)

		r.Route("/users", func(r chi.Router) {
			r.With(middleware.RequireCapability(h.grants, rbac.ViewUsers)).
				Get("/", h.ListUsers)
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireCapability(h.grants, rbac.ManageUsers))
				r.Post("/", h.CreateUser)
				r.Put("/{id}", h.UpdateUser)
				r.Delete("/{id}", h.DeleteUser)
			})
		})

		r.Route("/settings", func(r chi.Router) {
			r.Use(middleware.RequireCapability(h.grants, rbac.ManageSettings))
			r.Get("/", h.GetSettings)
			r.Put("/", h.UpdateSettings)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireCapability(h.grants, rbac.ViewContent))
				r.Get("/", h.ListPosts)
				r.Get("/{id}", h.GetPost)
			})
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireCapability(h.grants, rbac.ManageContent))
				r.Post("/", h.CreatePost)
				r.Put("/{id}", h.UpdatePost)
				r.Delete("/{id}", h.DeletePost)
			})
		})

		r.Route("/projects", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireCapability(h.grants, rbac.ViewContent))
				r.Get("/", h.ListProjects)
				r.Get("/{id}", h.GetProject)
			})
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireCapability(h.grants, rbac.ManageContent))
				r.Post("/", h.CreateProject)
				r.Put("/{id}", h.UpdateProject)
				r.Delete("/{id}", h.DeleteProject)
			})
		})

		r.Route("/team", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireCapability(h.grants, rbac.ViewContent))
				r.Get("/", h.ListTeamMembers)
				r.Get("/{id}", h.GetTeamMember)
			})
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireCapability(h.grants, rbac.ManageContent))
				r.Post("/", h.CreateTeamMember)
				r.Put("/{id}", h.UpdateTeamMember)
				r.Delete("/{id}", h.DeleteTeamMember)
			})
		})

		r.Route("/inquiries", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireCapability(h.grants, rbac.ViewContent))
				r.Get("/", h.ListInquiries)
				r.Get("/{id}", h.GetInquiry)
			})
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireCapability(h.grants, rbac.ManageContent))
				r.Put("/{id}/handled", h.SetInquiryHandled)
				r.Delete("/{id}", h.DeleteInquiry)
			})
		})

		r.With(middleware.RequireCapability(h.grants, rbac.UploadFiles)).
			Post("/media", h.UploadMedia)
		r.With(middleware.RequireCapability(h.grants, rbac.ViewContent)).
			Get("/media", h.ListMedia)
	})

	return r
}
