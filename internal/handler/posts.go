// Copyright (c) 2026 Northbeam Software
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/northbeam/sitecms/internal/middleware"
	"github.com/northbeam/sitecms/internal/model"
	"github.com/northbeam/sitecms/internal/store"
	"github.com/northbeam/sitecms/internal/util"
)

// PostResponse is a blog post in API responses.
type PostResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     string     `json:"excerpt"`
	Body        string     `json:"body"`
	Status      string     `json:"status"`
	AuthorID    int64      `json:"author_id"`
	PublishAt   *time.Time `json:"publish_at,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func postToResponse(p model.BlogPost) PostResponse {
	resp := PostResponse{
		ID:        p.ID,
		Title:     p.Title,
		Slug:      p.Slug,
		Excerpt:   p.Excerpt,
		Body:      p.Body,
		Status:    p.Status,
		AuthorID:  p.AuthorID,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.PublishAt.Valid {
		resp.PublishAt = &p.PublishAt.Time
	}
	if p.PublishedAt.Valid {
		resp.PublishedAt = &p.PublishedAt.Time
	}
	return resp
}

// ListPosts handles GET /api/admin/posts.
func (h *API) ListPosts(w http.ResponseWriter, r *http.Request) {
	page := ParsePageParam(r)
	perPage := ParsePerPageParam(r, 20, 100)

	params := store.ListPostsParams{
		Status: r.URL.Query().Get("status"),
		Search: r.URL.Query().Get("search"),
		Limit:  int64(perPage),
		Offset: int64((page - 1) * perPage),
	}
	if params.Status != "" && !model.ValidStatus(params.Status) {
		WriteBadRequest(w, "Invalid status filter")
		return
	}

	posts, err := h.queries.ListPosts(r.Context(), params)
	if err != nil {
		h.logger.Error("listing posts failed", "error", err)
		WriteInternalError(w)
		return
	}
	total, err := h.queries.CountPosts(r.Context(), params)
	if err != nil {
		h.logger.Error("counting posts failed", "error", err)
		WriteInternalError(w)
		return
	}

	responses := make([]PostResponse, 0, len(posts))
	for _, p := range posts {
		responses = append(responses, postToResponse(p))
	}
	WriteSuccess(w, responses, BuildMeta(total, page, perPage))
}

// GetPost handles GET /api/admin/posts/{id}. Unlike the public route,
// drafts and archived posts are visible here.
func (h *API) GetPost(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid post ID")
		return
	}
	post, err := h.queries.GetPostByID(r.Context(), id)
	if err != nil {
		if store.IsNotFound(err) {
			WriteNotFound(w, "Post not found")
		} else {
			h.logger.Error("loading post failed", "error", err)
			WriteInternalError(w)
		}
		return
	}
	WriteSuccess(w, postToResponse(post), nil)
}

// CreatePostRequest is the request body for creating a blog post.
type CreatePostRequest struct {
	Title     string     `json:"title"`
	Slug      string     `json:"slug,omitempty"`
	Excerpt   string     `json:"excerpt,omitempty"`
	Body      string     `json:"body,omitempty"`
	Status    string     `json:"status,omitempty"`
	PublishAt *time.Time `json:"publish_at,omitempty"`
}

// CreatePost handles POST /api/admin/posts. Transitioning into the
// published status stamps published_at.
func (h *API) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req CreatePostRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body")
		return
	}

	if req.Status == "" {
		req.Status = model.StatusDraft
	}
	if req.Slug == "" {
		req.Slug = util.Slugify(req.Title)
	}

	issues := make(map[string]string)
	if req.Title == "" {
		issues["title"] = "required"
	}
	if !util.IsValidSlug(req.Slug) {
		issues["slug"] = "must contain only lowercase letters, numbers, and hyphens"
	}
	if !model.ValidStatus(req.Status) {
		issues["status"] = "must be one of draft, scheduled, published, archived"
	}
	if req.Status == model.StatusScheduled && req.PublishAt == nil {
		issues["publish_at"] = "required for scheduled posts"
	}
	if len(issues) > 0 {
		WriteValidationError(w, issues)
		return
	}

	if conflict := h.postSlugTaken(w, r, req.Slug, 0); conflict {
		return
	}

	actor, _ := middleware.GetPrincipal(r)

	params := store.CreatePostParams{
		Title:    req.Title,
		Slug:     req.Slug,
		Excerpt:  req.Excerpt,
		Body:     req.Body,
		Status:   req.Status,
		AuthorID: actor.ID,
	}
	if req.PublishAt != nil {
		params.PublishAt = sql.NullTime{Time: req.PublishAt.UTC(), Valid: true}
	}
	if req.Status == model.StatusPublished {
		params.PublishedAt = sql.NullTime{Time: time.Now().UTC(), Valid: true}
	}

	post, err := h.queries.CreatePost(r.Context(), params)
	if err != nil {
		if store.IsUniqueViolation(err) {
			WriteConflict(w, "Slug already in use", map[string]string{"slug": "already exists"})
			return
		}
		h.logger.Error("creating post failed", "error", err)
		WriteInternalError(w)
		return
	}

	WriteCreated(w, postToResponse(post))
}

// UpdatePostRequest is the request body for updating a blog post.
// Omitted fields keep their current value.
type UpdatePostRequest struct {
	Title     *string    `json:"title,omitempty"`
	Slug      *string    `json:"slug,omitempty"`
	Excerpt   *string    `json:"excerpt,omitempty"`
	Body      *string    `json:"body,omitempty"`
	Status    *string    `json:"status,omitempty"`
	PublishAt *time.Time `json:"publish_at,omitempty"`
}

// UpdatePost handles PUT /api/admin/posts/{id}. published_at is set when
// a post enters the published status and cleared when it leaves it.
func (h *API) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid post ID")
		return
	}

	var req UpdatePostRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body")
		return
	}

	post, err := h.queries.GetPostByID(r.Context(), id)
	if err != nil {
		if store.IsNotFound(err) {
			WriteNotFound(w, "Post not found")
		} else {
			h.logger.Error("loading post failed", "error", err)
			WriteInternalError(w)
		}
		return
	}

	params := store.UpdatePostParams{
		ID:          post.ID,
		Title:       post.Title,
		Slug:        post.Slug,
		Excerpt:     post.Excerpt,
		Body:        post.Body,
		Status:      post.Status,
		PublishAt:   post.PublishAt,
		PublishedAt: post.PublishedAt,
	}
	issues := make(map[string]string)
	if req.Title != nil {
		if *req.Title == "" {
			issues["title"] = "required"
		}
		params.Title = *req.Title
	}
	if req.Slug != nil {
		if !util.IsValidSlug(*req.Slug) {
			issues["slug"] = "must contain only lowercase letters, numbers, and hyphens"
		}
		params.Slug = *req.Slug
	}
	if req.Excerpt != nil {
		params.Excerpt = *req.Excerpt
	}
	if req.Body != nil {
		params.Body = *req.Body
	}
	if req.PublishAt != nil {
		params.PublishAt = sql.NullTime{Time: req.PublishAt.UTC(), Valid: true}
	}
	if req.Status != nil {
		if !model.ValidStatus(*req.Status) {
			issues["status"] = "must be one of draft, scheduled, published, archived"
		}
		params.Status = *req.Status
	}
	if len(issues) > 0 {
		WriteValidationError(w, issues)
		return
	}

	// Status transition bookkeeping.
	if params.Status == model.StatusPublished && post.Status != model.StatusPublished {
		params.PublishedAt = sql.NullTime{Time: time.Now().UTC(), Valid: true}
	}
	if params.Status != model.StatusPublished && post.Status == model.StatusPublished {
		params.PublishedAt = sql.NullTime{}
	}

	if params.Slug != post.Slug {
		if conflict := h.postSlugTaken(w, r, params.Slug, post.ID); conflict {
			return
		}
	}

	updated, err := h.queries.UpdatePost(r.Context(), params)
	if err != nil {
		if store.IsUniqueViolation(err) {
			WriteConflict(w, "Slug already in use", map[string]string{"slug": "already exists"})
			return
		}
		h.logger.Error("updating post failed", "error", err)
		WriteInternalError(w)
		return
	}

	WriteSuccess(w, postToResponse(updated), nil)
}

// DeletePost handles DELETE /api/admin/posts/{id}.
func (h *API) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid post ID")
		return
	}
	if err := h.queries.DeletePost(r.Context(), id); err != nil {
		if store.IsNotFound(err) {
			WriteNotFound(w, "Post not found")
		} else {
			h.logger.Error("deleting post failed", "error", err)
			WriteInternalError(w)
		}
		return
	}
	WriteSuccess(w, map[string]string{"status": "deleted"}, nil)
}

// postSlugTaken writes a conflict response and returns true when slug is
// already used by a different post.
func (h *API) postSlugTaken(w http.ResponseWriter, r *http.Request, slug string, excludeID int64) bool {
	count, err := h.queries.CountPostsBySlug(r.Context(), slug, excludeID)
	if err != nil {
		h.logger.Error("checking slug failed", "error", err)
		WriteInternalError(w)
		return true
	}
	if count > 0 {
		WriteConflict(w, "Slug already in use", map[string]string{"slug": "already exists"})
		return true
	}
	return false
}
