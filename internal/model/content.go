// Copyright (c) 2026 Northbeam Software
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Content statuses shared by blog posts and projects.
const (
	StatusDraft     = "draft"
	StatusScheduled = "scheduled"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// ValidStatus reports whether status is a known content status.
func ValidStatus(status string) bool {
	switch status {
	case StatusDraft, StatusScheduled, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// BlogPost represents a blog article. Body is stored as Markdown and
// rendered to sanitized HTML on the public site.
type BlogPost struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Slug        string       `json:"slug"`
	Excerpt     string       `json:"excerpt"`
	Body        string       `json:"body"`
	Status      string       `json:"status"`
	AuthorID    int64        `json:"author_id"`
	PublishAt   sql.NullTime `json:"-"`
	PublishedAt sql.NullTime `json:"-"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Project represents a case study shown on the public site.
type Project struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Client    string    `json:"client"`
	Summary   string    `json:"summary"`
	Body      string    `json:"body"`
	Status    string    `json:"status"`
	SortOrder int64     `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TeamMember represents a person on the team page.
type TeamMember struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	RoleTitle string    `json:"role_title"`
	Bio       string    `json:"bio"`
	Image     string    `json:"image,omitempty"`
	SortOrder int64     `json:"sort_order"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ContactInquiry is a message submitted through the public contact form.
// UserAgent is a short browser/OS summary, not the raw header.
type ContactInquiry struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Company   string    `json:"company,omitempty"`
	Message   string    `json:"message"`
	UserAgent string    `json:"user_agent,omitempty"`
	Handled   bool      `json:"handled"`
	CreatedAt time.Time `json:"created_at"`
}
