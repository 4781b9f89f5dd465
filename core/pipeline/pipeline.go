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

// Pipeline holds the fixed configuration of a recompute: the columns sorts
// and filters refer to, the optional aggregate calculator and whether group
// headers are emitted.
type Pipeline[T, A any] struct {
	Layout           *columns.Layout[T]
	Aggregates       grouping.AggregateCalculator[T, A]
	ShowGroupHeaders bool
}

// Validate checks that every sort and filter column is part of the layout.
func (p *Pipeline[T, A]) Validate(sort query.SortState, filters query.FilterState) error {
	if _, err := resolveSort(sort, p.Layout); err != nil {
		return err
	}
	_, err := resolveFilters(filters, p.Layout)
	return err
}

// Compute runs the whole pipeline from scratch and returns the display rows.
// The result depends only on the arguments and the pipeline configuration.
func (p *Pipeline[T, A]) Compute(data []T, groups []*grouping.Group[T, A], sort query.SortState, filters query.FilterState) (Rows[T, A], error) {
	// Fail before any work on an unknown filter column
	if _, err := resolveFilters(filters, p.Layout); err != nil {
		return nil, err
	}

	rows, err := SortRows(Enrich(data), sort, p.Layout)
	if err != nil {
		return nil, err
	}

	grouped := grouping.GroupRows(rows, groups, p.Aggregates)

	filtered, err := FilterElements(grouped, filters, p.Layout)
	if err != nil {
		return nil, err
	}

	return Flatten(filtered, p.ShowGroupHeaders), nil
}
