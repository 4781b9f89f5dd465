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

// Matcher decides whether an extracted cell value passes a filter.
type Matcher func(value any) bool

// Filter restricts rows by the value of one column.
type Filter struct {
	ColumnID string
	Matcher  Matcher
	// Expression is the source text of Matcher when it was parsed, for display.
	Expression string
}

// Matches applies the matcher; a filter without matcher admits everything.
func (f Filter) Matches(value any) bool {
	if f.Matcher == nil {
		return true
	}
	return f.Matcher(value)
}

// FilterState is the ordered list of active filters, at most one per column.
// Rows must pass every filter.
type FilterState []Filter

// Index returns the position of the filter for columnID, or -1.
func (f FilterState) Index(columnID string) int {
	for i, c := range f {
		if c.ColumnID == columnID {
			return i
		}
	}
	return -1
}

// Update returns a new state where the filter for columnID is replaced in
// place or appended. The receiver is not modified.
func (f FilterState) Update(columnID string, matcher Matcher) FilterState {
	return f.Upsert(Filter{ColumnID: columnID, Matcher: matcher})
}

// Upsert is Update for a fully built filter.
func (f FilterState) Upsert(filter Filter) FilterState {
	result := make(FilterState, 0, len(f)+1)
	result = append(result, f...)
	if i := f.Index(filter.ColumnID); i >= 0 {
		result[i] = filter
		return result
	}
	return append(result, filter)
}

// Remove returns a new state without the filter for columnID.
func (f FilterState) Remove(columnID string) FilterState {
	result := make(FilterState, 0, len(f))
	for _, c := range f {
		if c.ColumnID != columnID {
			result = append(result, c)
		}
	}
	return result
}

// Clone returns a copy of the state.
func (f FilterState) Clone() FilterState {
	if f == nil {
		return nil
	}
	result := make(FilterState, len(f))
	copy(result, f)
	return result
}
