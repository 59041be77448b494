// Copyright (c) 2026 Northbeam Software
// SPDX-License-Identifier: GPL-3.0-or-later

// Package settings converts between the nested, typed configuration
// object used by the admin UI and the flat key/value/type rows held in
// the settings table.
package settings

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/northbeam/sitecms/internal/model"
)

// Key identifies a setting unambiguously as a category/field pair.
// The stored form is category + "_" + field; because categories are
// validated to contain no underscore, splitting the stored key on the
// first underscore always recovers the pair.
type Key struct {
	Category string
	Field    string
}

// String returns the stored form of the key.
func (k Key) String() string {
	return k.Category + "_" + k.Field
}

// ParseKey splits a stored key on the first underscore. Every underscore
// after the first belongs to the field. A key without an underscore
// becomes a category with an empty field name.
func ParseKey(s string) Key {
	category, field, _ := strings.Cut(s, "_")
	return Key{Category: category, Field: field}
}

// Nested is the grouped configuration object: category -> field -> value.
type Nested map[string]map[string]any

// Flatten converts a nested configuration object into flat rows, one per
// field. Row order is not significant; the store upserts by key.
// Categories containing an underscore are rejected because they could
// not be recovered on read.
func Flatten(nested Nested) ([]model.Setting, error) {
	var rows []model.Setting
	for category, fields := range nested {
		if category == "" {
			return nil, fmt.Errorf("settings: empty category")
		}
		if strings.Contains(category, "_") {
			return nil, fmt.Errorf("settings: category %q must not contain underscores", category)
		}
		for field, value := range fields {
			if field == "" {
				return nil, fmt.Errorf("settings: empty field in category %q", category)
			}
			row, err := encodeValue(Key{Category: category, Field: field}, value)
			if err != nil {
				return nil, err
			}
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func encodeValue(key Key, value any) (model.Setting, error) {
	row := model.Setting{Key: key.String()}

	switch v := value.(type) {
	case bool:
		row.Type = model.SettingTypeBoolean
		row.Value = strconv.FormatBool(v)
	case int:
		row.Type = model.SettingTypeNumber
		row.Value = strconv.Itoa(v)
	case int64:
		row.Type = model.SettingTypeNumber
		row.Value = strconv.FormatInt(v, 10)
	case float64:
		// JSON request bodies decode all numbers to float64.
		row.Type = model.SettingTypeNumber
		row.Value = strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		row.Type = model.SettingTypeNumber
		row.Value = v.String()
	case string:
		row.Type = model.SettingTypeString
		row.Value = v
	case nil:
		row.Type = model.SettingTypeString
		row.Value = ""
	default:
		// Objects and arrays are serialized as JSON.
		encoded, err := json.Marshal(v)
		if err != nil {
			return model.Setting{}, fmt.Errorf("settings: encoding %s: %w", row.Key, err)
		}
		row.Type = model.SettingTypeJSON
		row.Value = string(encoded)
	}

	return row, nil
}

// Unflatten groups flat rows back into the nested configuration object.
// Decoding is defensive: a corrupted row degrades to a safe default
// (empty object for bad JSON, zero for unparseable numbers) instead of
// failing the whole read.
func Unflatten(rows []model.Setting) Nested {
	nested := make(Nested)
	for _, row := range rows {
		key := ParseKey(row.Key)
		if nested[key.Category] == nil {
			nested[key.Category] = make(map[string]any)
		}
		nested[key.Category][key.Field] = decodeValue(row)
	}
	return nested
}

func decodeValue(row model.Setting) any {
	switch row.Type {
	case model.SettingTypeBoolean:
		return row.Value == "true"
	case model.SettingTypeNumber:
		if n, err := strconv.ParseInt(row.Value, 10, 64); err == nil {
			return n
		}
		// Decimal values truncate toward zero.
		if f, err := strconv.ParseFloat(row.Value, 64); err == nil {
			return int64(f)
		}
		return int64(0)
	case model.SettingTypeJSON:
		var decoded any
		if err := json.Unmarshal([]byte(row.Value), &decoded); err != nil {
			return map[string]any{}
		}
		return decoded
	default:
		// Unrecognized type tags fall back to the raw string.
		return row.Value
	}
}
