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

package views

import (
	"github.com/google/datagrid/core/grouping"
)

// RowSource is what a windowed renderer needs from a grid: the number of
// display rows and random access to one of them.
type RowSource[T, A any] interface {
	TotalCount() int
	ElementAt(index int) (grouping.Element[T, A], error)
}

// Window is a contiguous range [Start, End) of display rows.
type Window struct {
	Start int
	End   int
}

// Len returns the number of rows in the window.
func (w Window) Len() int {
	return w.End - w.Start
}

// ClampWindow returns the window of at most limit rows starting at offset,
// clamped to [0, total). An offset past the end shows the last page.
func ClampWindow(total, offset, limit int) Window {
	if limit <= 0 || total <= 0 {
		return Window{}
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= total {
		offset = max(0, total-limit)
	}
	return Window{Start: offset, End: min(total, offset+limit)}
}

// ScrollWindow keeps cursor visible in a window of height rows, moving the
// previous window start as little as possible.
func ScrollWindow(total, start, height, cursor int) Window {
	if height <= 0 || total <= 0 {
		return Window{}
	}
	cursor = max(0, min(cursor, total-1))
	if cursor < start {
		start = cursor
	}
	if cursor >= start+height {
		start = cursor - height + 1
	}
	// Fill the window when rows disappeared below it
	if start+height > total {
		start = max(0, total-height)
	}
	return Window{Start: start, End: min(total, start+height)}
}
