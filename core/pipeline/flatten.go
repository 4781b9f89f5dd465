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
	"errors"
	"fmt"

	"github.com/google/datagrid/core/grouping"
)

// ErrIndexOutOfRange is returned for a row lookup outside [0, TotalCount).
var ErrIndexOutOfRange = errors.New("row index out of range")

// Flatten linearises a grouped structure depth first, keeping sibling order.
// With headers every group node is emitted as a header element right before
// its children; without, only leaf rows remain. A flat sequence passes
// through unchanged.
func Flatten[T, A any](elements []grouping.Element[T, A], headers bool) Rows[T, A] {
	rows := make(Rows[T, A], 0, len(elements))
	return flatten(rows, elements, headers)
}

func flatten[T, A any](rows Rows[T, A], elements []grouping.Element[T, A], headers bool) Rows[T, A] {
	for _, e := range elements {
		switch e.Kind {
		case grouping.KindRow:
			rows = append(rows, e)
		case grouping.KindGroup:
			if headers {
				rows = append(rows, e)
			}
			rows = flatten(rows, e.Group.Children, headers)
		}
	}
	return rows
}

// Rows is a flattened display sequence, addressed by position.
type Rows[T, A any] []grouping.Element[T, A]

// TotalCount returns the number of display rows.
func (r Rows[T, A]) TotalCount() int {
	return len(r)
}

// ElementAt returns the display row at index.
func (r Rows[T, A]) ElementAt(index int) (grouping.Element[T, A], error) {
	if index < 0 || index >= len(r) {
		return grouping.Element[T, A]{}, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, index, len(r))
	}
	return r[index], nil
}

// Leaves returns the records of the leaf rows, in display order.
func (r Rows[T, A]) Leaves() []T {
	var records []T
	for _, e := range r {
		if e.Kind == grouping.KindRow {
			records = append(records, e.Row.Content)
		}
	}
	return records
}
