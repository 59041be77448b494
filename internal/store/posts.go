// Copyright (c) 2026 Northbeam Software
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/northbeam/sitecms/internal/model"
)

const postColumns = `id, title, slug, excerpt, body, status, author_id,
	publish_at, published_at, created_at, updated_at`

func scanPost(row interface{ Scan(...any) error }) (model.BlogPost, error) {
	var p model.BlogPost
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Body, &p.Status,
		&p.AuthorID, &p.PublishAt, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// CreatePostParams holds the fields for creating a blog post.
type CreatePostParams struct {
	Title       string
	Slug        string
	Excerpt     string
	Body        string
	Status      string
	AuthorID    int64
	PublishAt   sql.NullTime
	PublishedAt sql.NullTime
}

// CreatePost inserts a new blog post and returns it.
func (q *Queries) CreatePost(ctx context.Context, arg CreatePostParams) (model.BlogPost, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO blog_posts (title, slug, excerpt, body, status, author_id, publish_at, published_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+postColumns,
		arg.Title, arg.Slug, arg.Excerpt, arg.Body, arg.Status,
		arg.AuthorID, arg.PublishAt, arg.PublishedAt)
	return scanPost(row)
}

// GetPostByID returns a blog post by ID regardless of status.
func (q *Queries) GetPostByID(ctx context.Context, id int64) (model.BlogPost, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM blog_posts WHERE id = ?`, id)
	return scanPost(row)
}

// GetPublishedPostBySlug returns a published post by slug.
// Draft, scheduled, and archived posts are not reachable through this query.
func (q *Queries) GetPublishedPostBySlug(ctx context.Context, slug string) (model.BlogPost, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM blog_posts WHERE slug = ? AND status = ?`,
		slug, model.StatusPublished)
	return scanPost(row)
}

// CountPostsBySlug counts posts with the given slug, excluding excludeID.
func (q *Queries) CountPostsBySlug(ctx context.Context, slug string, excludeID int64) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM blog_posts WHERE slug = ? AND id != ?`,
		slug, excludeID).Scan(&count)
	return count, err
}

// ListPostsParams holds filters and pagination for listing posts.
type ListPostsParams struct {
	Status string
	Search string // matches title substring
	Limit  int64
	Offset int64
}

func buildPostFilter(arg ListPostsParams) (string, []any) {
	var conds []string
	var args []any
	if arg.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, arg.Status)
	}
	if arg.Search != "" {
		conds = append(conds, "title LIKE ?")
		args = append(args, "%"+arg.Search+"%")
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// ListPosts returns posts matching the filters, newest first.
func (q *Queries) ListPosts(ctx context.Context, arg ListPostsParams) ([]model.BlogPost, error) {
	where, args := buildPostFilter(arg)
	args = append(args, arg.Limit, arg.Offset)
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+postColumns+` FROM blog_posts`+where+
			` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPosts(rows)
}

// CountPosts returns the number of posts matching the filters.
func (q *Queries) CountPosts(ctx context.Context, arg ListPostsParams) (int64, error) {
	where, args := buildPostFilter(arg)
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM blog_posts`+where, args...).Scan(&count)
	return count, err
}

// ListPublishedPosts returns published posts ordered by publication date.
func (q *Queries) ListPublishedPosts(ctx context.Context, limit, offset int64) ([]model.BlogPost, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+postColumns+` FROM blog_posts WHERE status = ?
		 ORDER BY published_at DESC, id DESC LIMIT ? OFFSET ?`,
		model.StatusPublished, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPosts(rows)
}

// CountPublishedPosts returns the number of published posts.
func (q *Queries) CountPublishedPosts(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM blog_posts WHERE status = ?`,
		model.StatusPublished).Scan(&count)
	return count, err
}

// UpdatePostParams holds the fields for updating a blog post.
type UpdatePostParams struct {
	ID          int64
	Title       string
	Slug        string
	Excerpt     string
	Body        string
	Status      string
	PublishAt   sql.NullTime
	PublishedAt sql.NullTime
}

// UpdatePost updates a blog post and returns the updated row.
func (q *Queries) UpdatePost(ctx context.Context, arg UpdatePostParams) (model.BlogPost, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE blog_posts
		SET title = ?, slug = ?, excerpt = ?, body = ?, status = ?,
		    publish_at = ?, published_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
		RETURNING `+postColumns,
		arg.Title, arg.Slug, arg.Excerpt, arg.Body, arg.Status,
		arg.PublishAt, arg.PublishedAt, arg.ID)
	return scanPost(row)
}

// DeletePost removes a blog post by ID.
func (q *Queries) DeletePost(ctx context.Context, id int64) error {
	result, err := q.db.ExecContext(ctx, `DELETE FROM blog_posts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListScheduledPostsDue returns scheduled posts whose publish time has passed.
func (q *Queries) ListScheduledPostsDue(ctx context.Context, now time.Time) ([]model.BlogPost, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+postColumns+` FROM blog_posts
		 WHERE status = ? AND publish_at IS NOT NULL AND publish_at <= ?`,
		model.StatusScheduled, now.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPosts(rows)
}

// PublishPost flips a post to published and stamps published_at.
func (q *Queries) PublishPost(ctx context.Context, id int64, at time.Time) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE blog_posts
		SET status = ?, published_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		model.StatusPublished, at.UTC(), id)
	return err
}

func collectPosts(rows *sql.Rows) ([]model.BlogPost, error) {
	var posts []model.BlogPost
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}
