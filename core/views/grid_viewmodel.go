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
	"fmt"
	"strconv"
	"time"

	"github.com/google/datagrid/core/columns"
	"github.com/google/datagrid/core/grouping"
	"github.com/google/datagrid/core/query"
	"github.com/google/safehtml"
)

// GridViewModel contains one window of a grid formatted for template consumption
type GridViewModel struct {
	Title   string
	Headers []HeaderCell // Top-level entries; column groups span their members
	Columns []ColumnCell // Flattened columns
	Rows    []RowView

	// Pagination info
	TotalRows int  // Total number of display rows
	FirstRow  int  // 1-based position of the first row shown, 0 when empty
	LastRow   int  // 1-based position of the last row shown
	HasPrev   bool // True if rows precede the window
	HasNext   bool // True if rows follow the window
	PrevURL   safehtml.URL
	NextURL   safehtml.URL
}

// HeaderCell is one top-level header: a column or a column group.
type HeaderCell struct {
	ID      string
	Title   string
	Width   int
	Span    int // number of flattened columns below the header
	IsGroup bool
}

// ColumnCell describes a flattened column.
type ColumnCell struct {
	ID           string
	Title        string
	Width        int
	Direction    query.Direction
	SortSymbol   string // ▲, ▼ or empty
	SortPriority int    // 1-based position in the sort state, 0 if unsorted
	Filter       string // Source expression of the active filter
	Filtered     bool
	ToggleURL    safehtml.URL // URL cycling the sort direction of the column
}

// RowView is one display row: a group header or a leaf.
type RowView struct {
	Index      int // position in the display sequence
	IsGroup    bool
	Depth      int
	GroupTitle string   // Level title for group headers
	GroupValue string   // Key value for group headers
	GroupPath  string   // Full composite key for group headers
	Aggregate  string   // Formatted aggregate for group headers
	LeafCount  int      // Visible leaves under a group header
	Cells      []string // Formatted cell values for leaves, one per column
}

// Options configures BuildGridViewModel.
type Options[T, A any] struct {
	Title  string
	Layout *columns.Layout[T]
	// Query supplies the window and the base for links. Nil shows the first
	// DefaultLimit rows without links.
	Query   *query.Query
	Sort    query.SortState
	Filters query.FilterState
	Widths  map[string]int
	// GroupLevels is the number of grouping levels; leaves are indented below
	// the innermost one.
	GroupLevels int
	// FormatAggregate renders group aggregates. Nil uses fmt.Sprint.
	FormatAggregate func(A) string
}

// BuildGridViewModel reads the rows of the current window from src and
// formats them. Rows outside the window are never requested.
func BuildGridViewModel[T, A any](src RowSource[T, A], opts Options[T, A]) (GridViewModel, error) {
	q := opts.Query
	if q == nil {
		q = &query.Query{Limit: query.DefaultLimit}
	}

	vm := GridViewModel{
		Title:     opts.Title,
		TotalRows: src.TotalCount(),
	}

	for _, e := range opts.Layout.Entries() {
		h := HeaderCell{ID: e.ID(), Title: e.Title(), Width: opts.width(e.ID()), Span: 1}
		if e.Group != nil {
			h.IsGroup = true
			h.Span = len(e.Group.Columns)
		}
		vm.Headers = append(vm.Headers, h)
	}

	cols := opts.Layout.Flatten()
	for _, c := range cols {
		cell := ColumnCell{
			ID:        c.ID,
			Title:     c.Title,
			Width:     opts.width(c.ID),
			Direction: opts.Sort.Direction(c.ID),
		}
		if i := opts.Sort.Index(c.ID); i >= 0 {
			cell.SortPriority = i + 1
		}
		cell.SortSymbol = sortSymbol(cell.Direction)
		if i := opts.Filters.Index(c.ID); i >= 0 {
			cell.Filtered = true
			cell.Filter = opts.Filters[i].Expression
		}
		if opts.Query != nil {
			cell.ToggleURL = q.WithSortToggled(c.ID)
		}
		vm.Columns = append(vm.Columns, cell)
	}

	window := ClampWindow(vm.TotalRows, q.Offset, q.Limit)
	for i := window.Start; i < window.End; i++ {
		e, err := src.ElementAt(i)
		if err != nil {
			return GridViewModel{}, fmt.Errorf("building row %d: %w", i, err)
		}
		vm.Rows = append(vm.Rows, opts.rowView(i, e, cols))
	}

	if window.Len() > 0 {
		vm.FirstRow = window.Start + 1
		vm.LastRow = window.End
	}
	vm.HasPrev = window.Start > 0
	vm.HasNext = window.End < vm.TotalRows
	if opts.Query != nil {
		if vm.HasPrev {
			vm.PrevURL = q.WithOffset(window.Start - q.Limit)
		}
		if vm.HasNext {
			vm.NextURL = q.WithOffset(window.End)
		}
	}
	return vm, nil
}

func (o Options[T, A]) width(id string) int {
	if w, ok := o.Widths[id]; ok && w > 0 {
		return w
	}
	return columns.DefaultWidth
}

func (o Options[T, A]) rowView(index int, e grouping.Element[T, A], cols []*columns.Column[T]) RowView {
	switch e.Kind {
	case grouping.KindGroup:
		last := e.Group.Key.Last()
		rv := RowView{
			Index:      index,
			IsGroup:    true,
			Depth:      e.Depth(),
			GroupTitle: last.Title,
			GroupValue: FormatValue(last.Value),
			GroupPath:  e.Group.Key.String(),
			LeafCount:  e.Group.LeafCount(),
		}
		if e.Group.Aggregate != nil {
			if o.FormatAggregate != nil {
				rv.Aggregate = o.FormatAggregate(e.Group.Aggregate.Value)
			} else {
				rv.Aggregate = fmt.Sprint(e.Group.Aggregate.Value)
			}
		}
		return rv
	default:
		cells := make([]string, len(cols))
		for i, c := range cols {
			cells[i] = FormatValue(c.ValueOf(e.Row.Content))
		}
		return RowView{
			Index: index,
			Depth: o.GroupLevels,
			Cells: cells,
		}
	}
}

func sortSymbol(d query.Direction) string {
	switch d {
	case query.Ascending:
		return "▲"
	case query.Descending:
		return "▼"
	}
	return ""
}

// FormatValue renders a cell value for display.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case time.Time:
		if x.IsZero() {
			return ""
		}
		return x.Format("2006-01-02 15:04")
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}
