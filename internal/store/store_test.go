// Copyright (c) 2026 Northbeam Software
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/northbeam/sitecms/internal/model"
)

// testDB creates a temporary test database.
func testDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "sitecms-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	f.Close()

	db, err := NewDB(dbPath)
	if err != nil {
		os.Remove(dbPath)
		t.Fatalf("NewDB: %v", err)
	}

	if err := Migrate(db); err != nil {
		db.Close()
		os.Remove(dbPath)
		t.Fatalf("Migrate: %v", err)
	}

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}

	return db, cleanup
}

func TestCreateUser(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	user, err := q.CreateUser(ctx, CreateUserParams{
		Name:         "Test User",
		Email:        "test@example.com",
		PasswordHash: "hashed-password",
		Role:         model.RoleEditor,
		IsActive:     true,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	if user.ID == 0 {
		t.Error("user.ID should not be 0")
	}
	if user.Email != "test@example.com" {
		t.Errorf("Email = %q, want %q", user.Email, "test@example.com")
	}
	if user.Role != model.RoleEditor {
		t.Errorf("Role = %q, want %q", user.Role, model.RoleEditor)
	}
	if !user.PasswordHash.Valid || user.PasswordHash.String != "hashed-password" {
		t.Errorf("PasswordHash = %+v, want valid %q", user.PasswordHash, "hashed-password")
	}
}

func TestCreateUserWithoutPassword(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	user, err := q.CreateUser(ctx, CreateUserParams{
		Name:     "No Password",
		Email:    "nopass@example.com",
		Role:     model.RoleViewer,
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.PasswordHash.Valid {
		t.Errorf("PasswordHash should be NULL, got %q", user.PasswordHash.String)
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	params := CreateUserParams{
		Name:     "First",
		Email:    "dup@example.com",
		Role:     model.RoleEditor,
		IsActive: true,
	}
	if _, err := q.CreateUser(ctx, params); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	params.Name = "Second"
	_, err := q.CreateUser(ctx, params)
	if err == nil {
		t.Fatal("duplicate email should fail")
	}
	if !IsUniqueViolation(err) {
		t.Errorf("IsUniqueViolation(%v) = false, want true", err)
	}
}

func TestGetUserByEmailCaseSensitive(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	if _, err := q.CreateUser(ctx, CreateUserParams{
		Name:     "Case",
		Email:    "Case@example.com",
		Role:     model.RoleEditor,
		IsActive: true,
	}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	if _, err := q.GetUserByEmail(ctx, "Case@example.com"); err != nil {
		t.Fatalf("exact match: %v", err)
	}

	_, err := q.GetUserByEmail(ctx, "case@example.com")
	if !IsNotFound(err) {
		t.Errorf("lowercased lookup: got %v, want not found", err)
	}
}

func TestCountUsersByEmail(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	user, err := q.CreateUser(ctx, CreateUserParams{
		Name:     "Counted",
		Email:    "counted@example.com",
		Role:     model.RoleEditor,
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	count, err := q.CountUsersByEmail(ctx, "counted@example.com", 0)
	if err != nil {
		t.Fatalf("CountUsersByEmail: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}

	// The row itself is excluded when checking for update conflicts.
	count, err = q.CountUsersByEmail(ctx, "counted@example.com", user.ID)
	if err != nil {
		t.Fatalf("CountUsersByEmail: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
}

func TestTouchUserLastLogin(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	user, err := q.CreateUser(ctx, CreateUserParams{
		Name:     "Login",
		Email:    "login@example.com",
		Role:     model.RoleAdmin,
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.LastLoginAt.Valid {
		t.Error("LastLoginAt should start NULL")
	}

	at := time.Now()
	if err := q.TouchUserLastLogin(ctx, user.ID, at); err != nil {
		t.Fatalf("TouchUserLastLogin: %v", err)
	}

	user, err = q.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if !user.LastLoginAt.Valid {
		t.Error("LastLoginAt should be set")
	}
}

func TestDeleteUser(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	user, err := q.CreateUser(ctx, CreateUserParams{
		Name:     "Doomed",
		Email:    "doomed@example.com",
		Role:     model.RoleViewer,
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	if err := q.DeleteUser(ctx, user.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if err := q.DeleteUser(ctx, user.ID); !IsNotFound(err) {
		t.Errorf("second delete: got %v, want not found", err)
	}
}

func createTestAuthor(t *testing.T, q *Queries) model.User {
	t.Helper()
	user, err := q.CreateUser(context.Background(), CreateUserParams{
		Name:     "Author",
		Email:    "author@example.com",
		Role:     model.RoleEditor,
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return user
}

func TestGetPublishedPostBySlug(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	author := createTestAuthor(t, q)

	_, err := q.CreatePost(ctx, CreatePostParams{
		Title:    "Draft Post",
		Slug:     "draft-post",
		Body:     "body",
		Status:   model.StatusDraft,
		AuthorID: author.ID,
	})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	published, err := q.CreatePost(ctx, CreatePostParams{
		Title:       "Published Post",
		Slug:        "published-post",
		Body:        "body",
		Status:      model.StatusPublished,
		AuthorID:    author.ID,
		PublishedAt: sql.NullTime{Time: time.Now(), Valid: true},
	})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	got, err := q.GetPublishedPostBySlug(ctx, "published-post")
	if err != nil {
		t.Fatalf("GetPublishedPostBySlug: %v", err)
	}
	if got.ID != published.ID {
		t.Errorf("ID = %d, want %d", got.ID, published.ID)
	}

	// Drafts are invisible through the published lookup.
	_, err = q.GetPublishedPostBySlug(ctx, "draft-post")
	if !IsNotFound(err) {
		t.Errorf("draft lookup: got %v, want not found", err)
	}
}

func TestCountPostsBySlug(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	author := createTestAuthor(t, q)

	post, err := q.CreatePost(ctx, CreatePostParams{
		Title:    "Taken",
		Slug:     "taken",
		Status:   model.StatusDraft,
		AuthorID: author.ID,
	})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	count, err := q.CountPostsBySlug(ctx, "taken", 0)
	if err != nil {
		t.Fatalf("CountPostsBySlug: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}

	count, err = q.CountPostsBySlug(ctx, "taken", post.ID)
	if err != nil {
		t.Fatalf("CountPostsBySlug: %v", err)
	}
	if count != 0 {
		t.Errorf("count excluding self = %d, want 0", count)
	}
}

func TestListScheduledPostsDue(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	author := createTestAuthor(t, q)
	now := time.Now()

	due, err := q.CreatePost(ctx, CreatePostParams{
		Title:     "Due",
		Slug:      "due",
		Status:    model.StatusScheduled,
		AuthorID:  author.ID,
		PublishAt: sql.NullTime{Time: now.Add(-time.Hour), Valid: true},
	})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	_, err = q.CreatePost(ctx, CreatePostParams{
		Title:     "Future",
		Slug:      "future",
		Status:    model.StatusScheduled,
		AuthorID:  author.ID,
		PublishAt: sql.NullTime{Time: now.Add(time.Hour), Valid: true},
	})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	// A draft with a past publish_at is not due, only scheduled posts are.
	_, err = q.CreatePost(ctx, CreatePostParams{
		Title:     "Draft",
		Slug:      "draft",
		Status:    model.StatusDraft,
		AuthorID:  author.ID,
		PublishAt: sql.NullTime{Time: now.Add(-time.Hour), Valid: true},
	})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	posts, err := q.ListScheduledPostsDue(ctx, now)
	if err != nil {
		t.Fatalf("ListScheduledPostsDue: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("len(posts) = %d, want 1", len(posts))
	}
	if posts[0].ID != due.ID {
		t.Errorf("ID = %d, want %d", posts[0].ID, due.ID)
	}
}

func TestPublishPost(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	author := createTestAuthor(t, q)

	post, err := q.CreatePost(ctx, CreatePostParams{
		Title:     "Scheduled",
		Slug:      "scheduled",
		Status:    model.StatusScheduled,
		AuthorID:  author.ID,
		PublishAt: sql.NullTime{Time: time.Now().Add(-time.Minute), Valid: true},
	})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	at := time.Now()
	if err := q.PublishPost(ctx, post.ID, at); err != nil {
		t.Fatalf("PublishPost: %v", err)
	}

	post, err = q.GetPostByID(ctx, post.ID)
	if err != nil {
		t.Fatalf("GetPostByID: %v", err)
	}
	if post.Status != model.StatusPublished {
		t.Errorf("Status = %q, want %q", post.Status, model.StatusPublished)
	}
	if !post.PublishedAt.Valid {
		t.Error("PublishedAt should be stamped")
	}
}

func TestGetPublishedProjectBySlug(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	_, err := q.CreateProject(ctx, CreateProjectParams{
		Title:  "Hidden",
		Slug:   "hidden",
		Status: model.StatusDraft,
	})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}

	published, err := q.CreateProject(ctx, CreateProjectParams{
		Title:  "Visible",
		Slug:   "visible",
		Client: "Acme",
		Status: model.StatusPublished,
	})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}

	got, err := q.GetPublishedProjectBySlug(ctx, "visible")
	if err != nil {
		t.Fatalf("GetPublishedProjectBySlug: %v", err)
	}
	if got.ID != published.ID {
		t.Errorf("ID = %d, want %d", got.ID, published.ID)
	}

	_, err = q.GetPublishedProjectBySlug(ctx, "hidden")
	if !IsNotFound(err) {
		t.Errorf("draft lookup: got %v, want not found", err)
	}
}

func TestListProjectsByStatus(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	for i, status := range []string{model.StatusPublished, model.StatusDraft, model.StatusPublished} {
		_, err := q.CreateProject(ctx, CreateProjectParams{
			Title:     "Project",
			Slug:      "project-" + string(rune('a'+i)),
			Status:    status,
			SortOrder: int64(i),
		})
		if err != nil {
			t.Fatalf("CreateProject: %v", err)
		}
	}

	published, err := q.ListProjects(ctx, model.StatusPublished, 10, 0)
	if err != nil {
		t.Fatalf("ListProjects: %v", err)
	}
	if len(published) != 2 {
		t.Errorf("len(published) = %d, want 2", len(published))
	}

	all, err := q.ListProjects(ctx, "", 10, 0)
	if err != nil {
		t.Fatalf("ListProjects: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("len(all) = %d, want 3", len(all))
	}
}

func TestListTeamMembers(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	_, err := q.CreateTeamMember(ctx, CreateTeamMemberParams{
		Name:      "Second",
		RoleTitle: "Engineer",
		SortOrder: 2,
		IsActive:  true,
	})
	if err != nil {
		t.Fatalf("CreateTeamMember: %v", err)
	}
	_, err = q.CreateTeamMember(ctx, CreateTeamMemberParams{
		Name:      "First",
		RoleTitle: "Founder",
		SortOrder: 1,
		IsActive:  true,
	})
	if err != nil {
		t.Fatalf("CreateTeamMember: %v", err)
	}
	_, err = q.CreateTeamMember(ctx, CreateTeamMemberParams{
		Name:      "Gone",
		RoleTitle: "Alumni",
		SortOrder: 0,
		IsActive:  false,
	})
	if err != nil {
		t.Fatalf("CreateTeamMember: %v", err)
	}

	active, err := q.ListTeamMembers(ctx, true)
	if err != nil {
		t.Fatalf("ListTeamMembers: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("len(active) = %d, want 2", len(active))
	}
	if active[0].Name != "First" || active[1].Name != "Second" {
		t.Errorf("order = [%s, %s], want [First, Second]", active[0].Name, active[1].Name)
	}

	all, err := q.ListTeamMembers(ctx, false)
	if err != nil {
		t.Fatalf("ListTeamMembers: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("len(all) = %d, want 3", len(all))
	}
}

func TestInquiryHandledFlow(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	inquiry, err := q.CreateInquiry(ctx, CreateInquiryParams{
		Name:      "Prospect",
		Email:     "prospect@example.com",
		Message:   "We need a backend built.",
		UserAgent: "Firefox 130 on Linux (desktop)",
	})
	if err != nil {
		t.Fatalf("CreateInquiry: %v", err)
	}
	if inquiry.Handled {
		t.Error("new inquiry should start unhandled")
	}

	unhandled, err := q.ListInquiries(ctx, true, 10, 0)
	if err != nil {
		t.Fatalf("ListInquiries: %v", err)
	}
	if len(unhandled) != 1 {
		t.Fatalf("len(unhandled) = %d, want 1", len(unhandled))
	}

	if err := q.SetInquiryHandled(ctx, inquiry.ID, true); err != nil {
		t.Fatalf("SetInquiryHandled: %v", err)
	}

	unhandled, err = q.ListInquiries(ctx, true, 10, 0)
	if err != nil {
		t.Fatalf("ListInquiries: %v", err)
	}
	if len(unhandled) != 0 {
		t.Errorf("len(unhandled) = %d, want 0", len(unhandled))
	}

	count, err := q.CountInquiries(ctx, false)
	if err != nil {
		t.Fatalf("CountInquiries: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestUpsertSetting(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	s := model.Setting{Key: "general_siteName", Value: "Northbeam", Type: "string"}
	if err := q.UpsertSetting(ctx, s); err != nil {
		t.Fatalf("UpsertSetting: %v", err)
	}

	got, err := q.GetSetting(ctx, "general_siteName")
	if err != nil {
		t.Fatalf("GetSetting: %v", err)
	}
	if got.Value != "Northbeam" {
		t.Errorf("Value = %q, want %q", got.Value, "Northbeam")
	}

	s.Value = "Northbeam Software"
	if err := q.UpsertSetting(ctx, s); err != nil {
		t.Fatalf("UpsertSetting: %v", err)
	}

	got, err = q.GetSetting(ctx, "general_siteName")
	if err != nil {
		t.Fatalf("GetSetting: %v", err)
	}
	if got.Value != "Northbeam Software" {
		t.Errorf("Value = %q, want %q", got.Value, "Northbeam Software")
	}

	all, err := q.ListSettings(ctx)
	if err != nil {
		t.Fatalf("ListSettings: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("len(all) = %d, want 1", len(all))
	}
}
