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

package grid

// Listener is told about changes a renderer has to react to. Calls come from
// the goroutine that ran the recompute: the caller of New, Flush or
// ResizeColumn, or a timer goroutine for debounced recomputes.
type Listener interface {
	// RowsChanged is called after every successful recompute; the row
	// geometry may have changed and the visible window must be re-measured.
	RowsChanged(total int)
	// ColumnResized is called when a column or column group changes width.
	ColumnResized(columnID string, width int)
	// RecomputeFailed is called when a debounced recompute fails. The
	// previously published rows stay in place.
	RecomputeFailed(err error)
}

// NopListener ignores every notification.
type NopListener struct{}

func (NopListener) RowsChanged(int)           {}
func (NopListener) ColumnResized(string, int) {}
func (NopListener) RecomputeFailed(error)     {}

// ListenerFuncs adapts plain functions to a Listener. Nil functions are
// skipped.
type ListenerFuncs struct {
	OnRowsChanged     func(total int)
	OnColumnResized   func(columnID string, width int)
	OnRecomputeFailed func(err error)
}

func (l ListenerFuncs) RowsChanged(total int) {
	if l.OnRowsChanged != nil {
		l.OnRowsChanged(total)
	}
}

func (l ListenerFuncs) ColumnResized(columnID string, width int) {
	if l.OnColumnResized != nil {
		l.OnColumnResized(columnID, width)
	}
}

func (l ListenerFuncs) RecomputeFailed(err error) {
	if l.OnRecomputeFailed != nil {
		l.OnRecomputeFailed(err)
	}
}
