// Copyright (c) 2026 Northbeam Software
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Setting value types.
const (
	SettingTypeString  = "string"
	SettingTypeNumber  = "number"
	SettingTypeBoolean = "boolean"
	SettingTypeJSON    = "json"
)

// Well-known setting keys (category_field form).
const (
	SettingKeySiteName        = "general_siteName"
	SettingKeySiteDescription = "general_siteDescription"
	SettingKeyContactEmail    = "general_contactEmail"
	SettingKeyPostsPerPage    = "blog_postsPerPage"
)

// Setting is a flat site configuration row. Value is always stored as a
// string and decoded according to Type.
type Setting struct {
	Key       string
	Value     string
	Type      string
	UpdatedAt time.Time
}
