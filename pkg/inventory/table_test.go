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

package inventory

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tbl, err := Decode([]byte(`{"offset":0,"fields":["Client_filewave_id","Client_device_name"],"values":[[12,"mac-1"],[null,"win-2"]]}`))
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Len())

	_, err = Decode([]byte(`{"values":[]}`))
	require.ErrorIs(t, err, ErrMalformedResult)

	_, err = Decode([]byte(`[1,2`))
	require.ErrorIs(t, err, ErrMalformedResult)

	tbl, err = Decode([]byte(`{"fields":["a"]}`))
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Len())
}

func TestResolve_ByName(t *testing.T) {
	tbl := &Table{
		Fields: []string{"b", "a"},
		Values: [][]interface{}{{"bee", 1.0}},
	}

	s, err := tbl.Resolve("a", "b")
	require.NoError(t, err)

	rows := tbl.Rows(s)
	require.Len(t, rows, 1)

	id, ok := rows[0].Int64("a")
	assert.True(t, ok)
	assert.Equal(t, int64(1), id)

	name, ok := rows[0].String("b")
	assert.True(t, ok)
	assert.Equal(t, "bee", name)

	assert.True(t, rows[0].IsNull("not-a-column"))
}

func TestResolve_ReportsAllMissing(t *testing.T) {
	tbl := &Table{Fields: []string{"a"}}

	_, err := tbl.Resolve("a", "x", "y")
	require.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), "x, y")

	var nilTable *Table

	_, err = nilTable.Resolve("a")
	require.ErrorIs(t, err, ErrMalformedResult)
}

func TestRow_ShortRow(t *testing.T) {
	tbl := &Table{Fields: []string{"a", "b"}, Values: [][]interface{}{{"only-a"}}}

	s, err := tbl.Resolve("a", "b")
	require.NoError(t, err)

	row := tbl.Rows(s)[0]
	assert.True(t, row.IsNull("b"))

	_, ok := row.Float64("b")
	assert.False(t, ok)
}

func TestAsInt64(t *testing.T) {
	tests := []struct {
		in   interface{}
		want int64
		ok   bool
	}{
		{12.0, 12, true},
		{12.5, 0, false},
		{"42", 42, true},
		{" 7 ", 7, true},
		{"7.0", 7, true},
		{"abc", 0, false},
		{json.Number("99"), 99, true},
		{nil, 0, false},
		{true, 0, false},
		{1e300, 0, false},
		{-1e19, 0, false},
		{"1e300", 0, false},
		{json.Number("1e300"), 0, false},
		{9.007199254740992e15, 9007199254740992, true},
	}

	for _, tt := range tests {
		got, ok := AsInt64(tt.in)
		assert.Equal(t, tt.ok, ok, "%v", tt.in)
		assert.Equal(t, tt.want, got, "%v", tt.in)
	}
}

func TestAsLabel(t *testing.T) {
	tests := []struct {
		in   interface{}
		want string
		ok   bool
	}{
		{"macOS", "macOS", true},
		{true, "True", true},
		{false, "False", true},
		{3.0, "3", true},
		{3.25, "3.25", true},
		{nil, "", false},
	}

	for _, tt := range tests {
		got, ok := AsLabel(tt.in)
		assert.Equal(t, tt.ok, ok)
		assert.Equal(t, tt.want, got)
	}
}

func TestAsBoolAndFloat(t *testing.T) {
	b, ok := AsBool("true")
	assert.True(t, ok)
	assert.True(t, b)

	b, ok = AsBool(0.0)
	assert.True(t, ok)
	assert.False(t, b)

	_, ok = AsBool(nil)
	assert.False(t, ok)

	f, ok := AsFloat64("1.5")
	assert.True(t, ok)
	assert.InDelta(t, 1.5, f, 0.0001)
}

func TestQueryHasColumn(t *testing.T) {
	q := Query{Fields: []Column{{Column: "name", Component: "Application"}}}

	assert.True(t, q.HasColumn("Application", "name"))
	assert.False(t, q.HasColumn("Client", "name"))
	assert.Equal(t, "Application_name", q.Fields[0].ResultName())
}
