/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Taxinomia Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package query

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/google/safehtml"
)

// DefaultLimit is the number of rows shown when the URL does not say.
const DefaultLimit = 50

// Query represents the parsed state of a grid view URL
type Query struct {
	// Base path (e.g., "/grid")
	Path string

	Sort         SortState         // sort=col:asc,col2:desc (priority order)
	Filters      map[string]string // filter:<column>=<expression>
	Grouped      []string          // grouped=col1,col2 (outer to inner)
	ColumnWidths map[string]int    // widths=col:120,col2:80
	Offset       int               // first row of the window
	Limit        int               // number of rows in the window
}

// NewQuery creates a Query from a URL.
// Malformed parameters are ignored, the way a hand-edited URL should degrade.
func NewQuery(u *url.URL) *Query {
	state := &Query{
		Path:         u.Path,
		Filters:      make(map[string]string),
		ColumnWidths: make(map[string]int),
		Limit:        DefaultLimit,
	}

	q := u.Query()

	// Extract sort parameter (format: col:dir,col2:dir)
	if sortStr := q.Get("sort"); sortStr != "" {
		for _, part := range strings.Split(sortStr, ",") {
			col, dirStr, _ := strings.Cut(part, ":")
			if col == "" {
				continue
			}
			dir := Ascending
			if dirStr != "" {
				parsed, err := ParseDirection(dirStr)
				if err != nil {
					continue
				}
				dir = parsed
			}
			state.Sort = state.Sort.Update(col, dir)
		}
	}

	if groupedStr := q.Get("grouped"); groupedStr != "" {
		state.Grouped = strings.Split(groupedStr, ",")
	}

	// Extract widths parameter (format: col:width,col2:width)
	if widthsStr := q.Get("widths"); widthsStr != "" {
		for _, part := range strings.Split(widthsStr, ",") {
			col, widthStr, ok := strings.Cut(part, ":")
			if !ok {
				continue
			}
			if width, err := strconv.Atoi(widthStr); err == nil && width > 0 {
				state.ColumnWidths[col] = width
			}
		}
	}

	if offsetStr := q.Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset >= 0 {
			state.Offset = offset
		}
	}

	if limitStr := q.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			state.Limit = limit
		}
	}

	// Extract filter parameters (format: filter:columnName=value)
	for key, values := range q {
		if strings.HasPrefix(key, "filter:") && len(values) > 0 && values[0] != "" {
			state.Filters[strings.TrimPrefix(key, "filter:")] = values[0]
		}
	}

	return state
}

// FilterState compiles the filter expressions, ordered by column name.
func (s *Query) FilterState() (FilterState, error) {
	names := make([]string, 0, len(s.Filters))
	for name := range s.Filters {
		names = append(names, name)
	}
	sort.Strings(names)

	var state FilterState
	for _, name := range names {
		expr := s.Filters[name]
		m, err := ParseMatcher(expr)
		if err != nil {
			return nil, err
		}
		state = state.Upsert(Filter{ColumnID: name, Matcher: m, Expression: expr})
	}
	return state, nil
}

// Clone creates a deep copy of the Query
func (s *Query) Clone() *Query {
	clone := &Query{
		Path:         s.Path,
		Sort:         s.Sort.Clone(),
		Filters:      make(map[string]string, len(s.Filters)),
		Grouped:      make([]string, len(s.Grouped)),
		ColumnWidths: make(map[string]int, len(s.ColumnWidths)),
		Offset:       s.Offset,
		Limit:        s.Limit,
	}
	for col, expr := range s.Filters {
		clone.Filters[col] = expr
	}
	copy(clone.Grouped, s.Grouped)
	for col, width := range s.ColumnWidths {
		clone.ColumnWidths[col] = width
	}
	return clone
}

// ToURL converts the Query back to a URL string
func (s *Query) ToURL() string {
	u := &url.URL{
		Path: s.Path,
	}

	q := u.Query()

	if len(s.Sort) > 0 {
		parts := make([]string, 0, len(s.Sort))
		for _, c := range s.Sort {
			parts = append(parts, c.ColumnID+":"+string(c.Direction))
		}
		q.Set("sort", strings.Join(parts, ","))
	}

	if len(s.Grouped) > 0 {
		q.Set("grouped", strings.Join(s.Grouped, ","))
	}

	if len(s.ColumnWidths) > 0 {
		cols := make([]string, 0, len(s.ColumnWidths))
		for col := range s.ColumnWidths {
			cols = append(cols, col)
		}
		sort.Strings(cols)
		parts := make([]string, 0, len(cols))
		for _, col := range cols {
			parts = append(parts, col+":"+strconv.Itoa(s.ColumnWidths[col]))
		}
		q.Set("widths", strings.Join(parts, ","))
	}

	for colName, filterValue := range s.Filters {
		if filterValue != "" {
			q.Set("filter:"+colName, filterValue)
		}
	}

	if s.Offset > 0 {
		q.Set("offset", strconv.Itoa(s.Offset))
	}
	q.Set("limit", strconv.Itoa(s.Limit))

	u.RawQuery = q.Encode()
	return u.String()
}

// ToSafeURL converts the Query to a safehtml.URL
func (s *Query) ToSafeURL() safehtml.URL {
	return safehtml.URLSanitized(s.ToURL())
}

// WithSortToggled returns a URL where the column moves to its next sort
// direction. Paging restarts at the first row.
func (s *Query) WithSortToggled(column string) safehtml.URL {
	newState := s.Clone()
	newState.Sort = s.Sort.Update(column, s.Sort.Direction(column).Next())
	newState.Offset = 0
	return newState.ToSafeURL()
}

// WithOffset returns a URL showing the window starting at offset.
func (s *Query) WithOffset(offset int) safehtml.URL {
	if offset < 0 {
		offset = 0
	}
	newState := s.Clone()
	newState.Offset = offset
	return newState.ToSafeURL()
}

// WithFilter returns a URL with the filter expression for column replaced.
// An empty expression removes the filter.
func (s *Query) WithFilter(column, expr string) safehtml.URL {
	newState := s.Clone()
	if expr == "" {
		delete(newState.Filters, column)
	} else {
		newState.Filters[column] = expr
	}
	newState.Offset = 0
	return newState.ToSafeURL()
}
