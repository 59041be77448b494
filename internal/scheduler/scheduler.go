// Copyright (c) 2026 Northbeam Software
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs background jobs, currently publishing blog
// posts whose scheduled time has arrived.
package scheduler

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/northbeam/sitecms/internal/store"
)

// Scheduler owns the cron runner.
type Scheduler struct {
	db     *sql.DB
	cron   *cron.Cron
	logger *slog.Logger
}

// New creates a scheduler instance.
func New(db *sql.DB, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		db:     db,
		cron:   cron.New(),
		logger: logger,
	}
}

// Start registers the publishing job to run every minute and starts
// the cron runner.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc("* * * * *", func() {
		if err := s.PublishDuePosts(context.Background()); err != nil {
			s.logger.Error("processing scheduled posts", "error", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop stops the runner and waits for in-flight jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// PublishDuePosts publishes every scheduled post whose publish time
// has passed. A failure on one post does not block the others.
func (s *Scheduler) PublishDuePosts(ctx context.Context) error {
	queries := store.New(s.db)
	now := time.Now()

	posts, err := queries.ListScheduledPostsDue(ctx, now)
	if err != nil {
		return err
	}
	if len(posts) == 0 {
		return nil
	}

	s.logger.Info("publishing scheduled posts", "count", len(posts))
	for _, post := range posts {
		if err := queries.PublishPost(ctx, post.ID, now); err != nil {
			s.logger.Error("publishing scheduled post",
				"post_id", post.ID,
				"title", post.Title,
				"error", err,
			)
			continue
		}
		s.logger.Info("published scheduled post",
			"post_id", post.ID,
			"title", post.Title,
			"slug", post.Slug,
		)
	}
	return nil
}
