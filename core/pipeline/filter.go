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

package pipeline

import (
	"github.com/google/datagrid/core/columns"
	"github.com/google/datagrid/core/grouping"
	"github.com/google/datagrid/core/query"
)

type boundFilter[T any] struct {
	column *columns.Column[T]
	filter query.Filter
}

func resolveFilters[T any](filters query.FilterState, layout *columns.Layout[T]) ([]boundFilter[T], error) {
	bound := make([]boundFilter[T], len(filters))
	for i, f := range filters {
		col, err := layout.Lookup(f.ColumnID)
		if err != nil {
			return nil, err
		}
		bound[i] = boundFilter[T]{column: col, filter: f}
	}
	return bound, nil
}

func admits[T any](filters []boundFilter[T], record T) bool {
	for _, f := range filters {
		if !f.filter.Matches(f.column.ValueOf(record)) {
			return false
		}
	}
	return true
}

// FilterElements keeps the leaf rows that pass every filter. Group nodes are
// never tested themselves: each is rebuilt with its children filtered
// recursively and dropped when nothing is left under it. Aggregates of the
// kept nodes are carried over as computed before filtering.
//
// Every filter column is resolved first; an unknown column fails with
// columns.ErrUnknownColumn. The input structure is not modified.
func FilterElements[T, A any](elements []grouping.Element[T, A], filters query.FilterState, layout *columns.Layout[T]) ([]grouping.Element[T, A], error) {
	bound, err := resolveFilters(filters, layout)
	if err != nil {
		return nil, err
	}
	if len(bound) == 0 {
		return elements, nil
	}
	return filterElements(elements, bound), nil
}

func filterElements[T, A any](elements []grouping.Element[T, A], filters []boundFilter[T]) []grouping.Element[T, A] {
	result := make([]grouping.Element[T, A], 0, len(elements))
	for _, e := range elements {
		switch e.Kind {
		case grouping.KindRow:
			if admits(filters, e.Row.Content) {
				result = append(result, e)
			}
		case grouping.KindGroup:
			children := filterElements(e.Group.Children, filters)
			if len(children) > 0 {
				result = append(result, grouping.GroupElement(e.Group.WithChildren(children)))
			}
		}
	}
	return result
}
