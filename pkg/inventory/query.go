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

// Column identifies a component/column pair in a query definition. Result
// tables name the column "<Component>_<column>".
type Column struct {
	Column    string `json:"column"`
	Component string `json:"component"`
}

// ResultName is the column's name in a result table.
func (c Column) ResultName() string {
	return c.Component + "_" + c.Column
}

type Expression struct {
	Column    string      `json:"column"`
	Component string      `json:"component"`
	Operator  string      `json:"operator"`
	Qualifier interface{} `json:"qualifier"`
}

type Criteria struct {
	Expressions []Expression `json:"expressions"`
	Logic       string       `json:"logic"`
}

// Query is an inventory query definition as stored on the server.
type Query struct {
	ID            int64     `json:"id,omitempty"`
	Name          string    `json:"name,omitempty"`
	DisplayName   string    `json:"display_name,omitempty"`
	Group         *int64    `json:"group,omitempty"`
	Favorite      bool      `json:"favorite,omitempty"`
	Version       int       `json:"version,omitempty"`
	MainComponent string    `json:"main_component"`
	Criteria      *Criteria `json:"criteria,omitempty"`
	Fields        []Column  `json:"fields"`
}

// HasColumn reports whether the query selects the given component column.
func (q *Query) HasColumn(component, column string) bool {
	for _, f := range q.Fields {
		if f.Component == component && f.Column == column {
			return true
		}
	}

	return false
}
