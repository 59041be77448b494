// Copyright (c) 2026 Northbeam Software
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"time"

	"github.com/northbeam/sitecms/internal/auth"
	"github.com/northbeam/sitecms/internal/middleware"
	"github.com/northbeam/sitecms/internal/model"
	"github.com/northbeam/sitecms/internal/store"
)

// UserResponse is a user in API responses. The password hash never
// leaves the server.
type UserResponse struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	IsActive    bool       `json:"is_active"`
	Image       string     `json:"image,omitempty"`
	HasPassword bool       `json:"has_password"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

func userToResponse(u model.User) UserResponse {
	resp := UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
		IsActive:    u.IsActive,
		Image:       u.Image,
		HasPassword: u.PasswordHash.Valid && u.PasswordHash.String != "",
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
	if u.LastLoginAt.Valid {
		resp.LastLoginAt = &u.LastLoginAt.Time
	}
	return resp
}

// ListUsers handles GET /api/admin/users.
func (h *API) ListUsers(w http.ResponseWriter, r *http.Request) {
	page := ParsePageParam(r)
	perPage := ParsePerPageParam(r, 20, 100)

	params := store.ListUsersParams{
		Role:   r.URL.Query().Get("role"),
		Search: r.URL.Query().Get("search"),
		Limit:  int64(perPage),
		Offset: int64((page - 1) * perPage),
	}
	switch r.URL.Query().Get("active") {
	case "true":
		active := true
		params.Active = &active
	case "false":
		active := false
		params.Active = &active
	}

	users, err := h.queries.ListUsers(r.Context(), params)
	if err != nil {
		h.logger.Error("listing users failed", "error", err)
		WriteInternalError(w)
		return
	}
	total, err := h.queries.CountUsers(r.Context(), params)
	if err != nil {
		h.logger.Error("counting users failed", "error", err)
		WriteInternalError(w)
		return
	}

	responses := make([]UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, userToResponse(u))
	}
	WriteSuccess(w, responses, BuildMeta(total, page, perPage))
}

// CreateUserRequest is the request body for creating a user.
// Password may be empty, which creates an account that cannot log in
// until an admin sets one.
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	Role     string `json:"role"`
	IsActive *bool  `json:"is_active,omitempty"`
	Image    string `json:"image,omitempty"`
}

func (req *CreateUserRequest) validate() map[string]string {
	issues := make(map[string]string)
	if req.Name == "" {
		issues["name"] = "required"
	}
	if !ValidEmail(req.Email) {
		issues["email"] = "must be a valid email address"
	}
	if !model.ValidRole(req.Role) {
		issues["role"] = "must be one of admin, editor, viewer"
	}
	if req.Password != "" && len(req.Password) < 8 {
		issues["password"] = "must be at least 8 characters"
	}
	if len(issues) == 0 {
		return nil
	}
	return issues
}

// CreateUser handles POST /api/admin/users.
func (h *API) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body")
		return
	}
	if issues := req.validate(); issues != nil {
		WriteValidationError(w, issues)
		return
	}

	var hash string
	if req.Password != "" {
		var err error
		hash, err = auth.HashPassword(req.Password)
		if err != nil {
			h.logger.Error("hashing password failed", "error", err)
			WriteInternalError(w)
			return
		}
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	user, err := h.queries.CreateUser(r.Context(), store.CreateUserParams{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
		IsActive:     active,
		Image:        req.Image,
	})
	if err != nil {
		if store.IsUniqueViolation(err) {
			WriteConflict(w, "Email already in use", map[string]string{"email": "already exists"})
			return
		}
		h.logger.Error("creating user failed", "error", err)
		WriteInternalError(w)
		return
	}

	WriteCreated(w, userToResponse(user))
}

// UpdateUserRequest is the request body for updating a user. Omitted
// fields keep their current value; password is rehashed when present.
type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
	Role     *string `json:"role,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
	Image    *string `json:"image,omitempty"`
}

// UpdateUser handles PUT /api/admin/users/{id}. An actor may never
// change their own role or active flag through this endpoint, even with
// MANAGE_USERS; that fails before any persistence call.
func (h *API) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid user ID")
		return
	}

	var req UpdateUserRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body")
		return
	}

	actor, _ := middleware.GetPrincipal(r)
	if id == actor.ID && (req.Role != nil || req.IsActive != nil) {
		WriteSelfModification(w)
		return
	}

	user, err := h.queries.GetUserByID(r.Context(), id)
	if err != nil {
		if store.IsNotFound(err) {
			WriteNotFound(w, "User not found")
		} else {
			h.logger.Error("loading user failed", "error", err)
			WriteInternalError(w)
		}
		return
	}

	params := store.UpdateUserParams{
		ID:       user.ID,
		Name:     user.Name,
		Email:    user.Email,
		Role:     user.Role,
		IsActive: user.IsActive,
		Image:    user.Image,
	}
	issues := make(map[string]string)
	if req.Name != nil {
		if *req.Name == "" {
			issues["name"] = "required"
		}
		params.Name = *req.Name
	}
	if req.Email != nil {
		if !ValidEmail(*req.Email) {
			issues["email"] = "must be a valid email address"
		}
		params.Email = *req.Email
	}
	if req.Role != nil {
		if !model.ValidRole(*req.Role) {
			issues["role"] = "must be one of admin, editor, viewer"
		}
		params.Role = *req.Role
	}
	if req.IsActive != nil {
		params.IsActive = *req.IsActive
	}
	if req.Image != nil {
		params.Image = *req.Image
	}
	if req.Password != nil {
		if len(*req.Password) < 8 {
			issues["password"] = "must be at least 8 characters"
		} else {
			hash, err := auth.HashPassword(*req.Password)
			if err != nil {
				h.logger.Error("hashing password failed", "error", err)
				WriteInternalError(w)
				return
			}
			params.PasswordHash = hash
		}
	}
	if len(issues) > 0 {
		WriteValidationError(w, issues)
		return
	}

	updated, err := h.queries.UpdateUser(r.Context(), params)
	if err != nil {
		if store.IsUniqueViolation(err) {
			WriteConflict(w, "Email already in use", map[string]string{"email": "already exists"})
			return
		}
		h.logger.Error("updating user failed", "error", err)
		WriteInternalError(w)
		return
	}

	WriteSuccess(w, userToResponse(updated), nil)
}

// DeleteUser handles DELETE /api/admin/users/{id}. Deleting your own
// account is always rejected.
func (h *API) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid user ID")
		return
	}

	actor, _ := middleware.GetPrincipal(r)
	if id == actor.ID {
		WriteSelfModification(w)
		return
	}

	if err := h.queries.DeleteUser(r.Context(), id); err != nil {
		if store.IsNotFound(err) {
			WriteNotFound(w, "User not found")
		} else {
			h.logger.Error("deleting user failed", "error", err)
			WriteInternalError(w)
		}
		return
	}

	WriteSuccess(w, map[string]string{"status": "deleted"}, nil)
}
