/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package inventory decodes the column/row result envelope returned by
// inventory queries and resolves columns by name.
package inventory

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingColumn is returned when a required column is absent from a result.
	ErrMissingColumn = errors.New("required column missing from inventory result")
	// ErrMalformedResult is returned when the envelope lacks fields or values.
	ErrMalformedResult = errors.New("malformed inventory result")
)

// Table is an inventory query result: an ordered list of column names and
// row-major values.
type Table struct {
	Fields []string        `json:"fields"`
	Values [][]interface{} `json:"values"`
}

// Decode parses an inventory result envelope. A missing "fields" key is
// malformed; a missing or empty "values" key is an empty result.
func Decode(data []byte) (*Table, error) {
	var raw struct {
		Fields *[]string       `json:"fields"`
		Values [][]interface{} `json:"values"`
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResult, err)
	}

	if raw.Fields == nil {
		return nil, fmt.Errorf("%w: no fields", ErrMalformedResult)
	}

	return &Table{Fields: *raw.Fields, Values: raw.Values}, nil
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}

	return len(t.Values)
}

// Schema maps column names to positions.
type Schema struct {
	index map[string]int
}

// Resolve builds a Schema and checks that every required column exists.
// All missing columns are reported together.
func (t *Table) Resolve(required ...string) (*Schema, error) {
	if t == nil {
		return nil, ErrMalformedResult
	}

	s := &Schema{index: make(map[string]int, len(t.Fields))}
	for i, name := range t.Fields {
		if _, dup := s.index[name]; !dup {
			s.index[name] = i
		}
	}

	var missing []string

	for _, name := range required {
		if _, ok := s.index[name]; !ok {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}

	return s, nil
}

// Has reports whether the column exists.
func (s *Schema) Has(name string) bool {
	_, ok := s.index[name]

	return ok
}

// Rows returns a row cursor for each value row.
func (t *Table) Rows(s *Schema) []Row {
	rows := make([]Row, 0, len(t.Values))
	for _, v := range t.Values {
		rows = append(rows, Row{schema: s, values: v})
	}

	return rows
}

// Row reads cells by column name.
type Row struct {
	schema *Schema
	values []interface{}
}

// Value returns the raw cell, or nil if the column or cell is absent.
func (r Row) Value(name string) interface{} {
	i, ok := r.schema.index[name]
	if !ok || i >= len(r.values) {
		return nil
	}

	return r.values[i]
}

// IsNull reports whether the cell is null or absent.
func (r Row) IsNull(name string) bool {
	return r.Value(name) == nil
}

// String returns the cell as a string.
func (r Row) String(name string) (string, bool) {
	return AsString(r.Value(name))
}

// Int64 returns the cell as an integer.
func (r Row) Int64(name string) (int64, bool) {
	return AsInt64(r.Value(name))
}

// Float64 returns the cell as a float.
func (r Row) Float64(name string) (float64, bool) {
	return AsFloat64(r.Value(name))
}

// Bool returns the cell as a boolean.
func (r Row) Bool(name string) (bool, bool) {
	return AsBool(r.Value(name))
}

// Label renders the cell as a metric label value.
func (r Row) Label(name string) (string, bool) {
	return AsLabel(r.Value(name))
}
