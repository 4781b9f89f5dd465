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
	"slices"

	"github.com/google/datagrid/core/columns"
	"github.com/google/datagrid/core/grouping"
	"github.com/google/datagrid/core/query"
)

type sortKey[T any] struct {
	column *columns.Column[T]
	sign   int
}

// resolveSort maps every active criterion to its column. Criteria with
// direction None are dropped.
func resolveSort[T any](sort query.SortState, layout *columns.Layout[T]) ([]sortKey[T], error) {
	keys := make([]sortKey[T], 0, len(sort))
	for _, c := range sort {
		col, err := layout.Lookup(c.ColumnID)
		if err != nil {
			return nil, err
		}
		if sign := c.Direction.Sign(); sign != 0 {
			keys = append(keys, sortKey[T]{column: col, sign: sign})
		}
	}
	return keys, nil
}

// SortRows returns the rows ordered by the sort criteria, highest priority
// first. Every column is resolved before any work is done; an unknown
// column fails with columns.ErrUnknownColumn. The input slice is not
// modified.
//
// Criteria are applied one stable pass at a time from the lowest priority to
// the highest, so ties of a pass keep the order produced by the previous one
// and rows equal on every criterion keep their input order.
func SortRows[T any](rows []*grouping.DataRow[T], sort query.SortState, layout *columns.Layout[T]) ([]*grouping.DataRow[T], error) {
	keys, err := resolveSort(sort, layout)
	if err != nil {
		return nil, err
	}

	sorted := slices.Clone(rows)
	for i := len(keys) - 1; i >= 0; i-- {
		k := keys[i]
		slices.SortStableFunc(sorted, func(a, b *grouping.DataRow[T]) int {
			return k.sign * k.column.CompareValues(k.column.ValueOf(a.Content), k.column.ValueOf(b.Content))
		})
	}
	return sorted, nil
}
