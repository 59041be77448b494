// Copyright (c) 2026 Northbeam Software
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"

	"github.com/northbeam/sitecms/internal/model"
)

const inquiryColumns = `id, name, email, company, message, user_agent, handled, created_at`

func scanInquiry(row interface{ Scan(...any) error }) (model.ContactInquiry, error) {
	var i model.ContactInquiry
	err := row.Scan(&i.ID, &i.Name, &i.Email, &i.Company, &i.Message,
		&i.UserAgent, &i.Handled, &i.CreatedAt)
	return i, err
}

// CreateInquiryParams holds the fields for recording a contact inquiry.
type CreateInquiryParams struct {
	Name      string
	Email     string
	Company   string
	Message   string
	UserAgent string
}

// CreateInquiry inserts a new contact inquiry and returns it.
func (q *Queries) CreateInquiry(ctx context.Context, arg CreateInquiryParams) (model.ContactInquiry, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO contact_inquiries (name, email, company, message, user_agent)
		VALUES (?, ?, ?, ?, ?)
		RETURNING `+inquiryColumns,
		arg.Name, arg.Email, arg.Company, arg.Message, arg.UserAgent)
	return scanInquiry(row)
}

// GetInquiryByID returns a contact inquiry by ID.
func (q *Queries) GetInquiryByID(ctx context.Context, id int64) (model.ContactInquiry, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+inquiryColumns+` FROM contact_inquiries WHERE id = ?`, id)
	return scanInquiry(row)
}

// ListInquiries returns inquiries, newest first. When unhandledOnly is
// true, handled inquiries are excluded.
func (q *Queries) ListInquiries(ctx context.Context, unhandledOnly bool, limit, offset int64) ([]model.ContactInquiry, error) {
	query := `SELECT ` + inquiryColumns + ` FROM contact_inquiries`
	if unhandledOnly {
		query += ` WHERE handled = 0`
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`

	rows, err := q.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var inquiries []model.ContactInquiry
	for rows.Next() {
		i, err := scanInquiry(rows)
		if err != nil {
			return nil, err
		}
		inquiries = append(inquiries, i)
	}
	return inquiries, rows.Err()
}

// CountInquiries returns the number of inquiries.
func (q *Queries) CountInquiries(ctx context.Context, unhandledOnly bool) (int64, error) {
	query := `SELECT COUNT(*) FROM contact_inquiries`
	if unhandledOnly {
		query += ` WHERE handled = 0`
	}
	var count int64
	err := q.db.QueryRowContext(ctx, query).Scan(&count)
	return count, err
}

// SetInquiryHandled marks an inquiry handled or unhandled.
func (q *Queries) SetInquiryHandled(ctx context.Context, id int64, handled bool) error {
	result, err := q.db.ExecContext(ctx,
		`UPDATE contact_inquiries SET handled = ? WHERE id = ?`, handled, id)
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

// DeleteInquiry removes an inquiry by ID.
func (q *Queries) DeleteInquiry(ctx context.Context, id int64) error {
	result, err := q.db.ExecContext(ctx, `DELETE FROM contact_inquiries WHERE id = ?`, id)
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
