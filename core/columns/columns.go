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

// Package columns describes the columns of a grid: how a value is extracted
// from a record, how two values compare and how wide the column is drawn.
package columns

import (
	"errors"
	"fmt"
)

// DefaultWidth is the width used for columns that do not declare one.
const DefaultWidth = 100

// ErrUnknownColumn is returned when a sort, filter or resize refers to a
// column id that is not part of the layout.
var ErrUnknownColumn = errors.New("unknown column")

// ErrDuplicateColumn is returned by Validate when two columns or groups of a
// layout share an id.
var ErrDuplicateColumn = errors.New("duplicate column id")

// Comparator orders two extracted values.
// Returns negative if a < b, zero if equal, positive if a > b.
type Comparator func(a, b any) int

// Column describes a single column over records of type T.
type Column[T any] struct {
	ID    string // must be unique within a layout
	Title string
	Width int
	// Value extracts the cell value from a record.
	Value func(record T) any
	// Compare orders extracted values. Nil means CompareValues.
	Compare Comparator
}

// NewColumn creates a column with the default width and comparator.
func NewColumn[T any](id, title string, value func(record T) any) *Column[T] {
	return &Column[T]{
		ID:    id,
		Title: title,
		Value: value,
	}
}

// WithWidth sets the initial width of the column.
func (c *Column[T]) WithWidth(width int) *Column[T] {
	c.Width = width
	return c
}

// WithComparator replaces the comparator of the column.
func (c *Column[T]) WithComparator(cmp Comparator) *Column[T] {
	c.Compare = cmp
	return c
}

// ValueOf returns the value of this column for the given record.
func (c *Column[T]) ValueOf(record T) any {
	if c.Value == nil {
		return nil
	}
	return c.Value(record)
}

// CompareValues compares two values previously extracted by ValueOf.
func (c *Column[T]) CompareValues(a, b any) int {
	if c.Compare == nil {
		return CompareValues(a, b)
	}
	return c.Compare(a, b)
}

// InitialWidth returns the declared width, or DefaultWidth.
func (c *Column[T]) InitialWidth() int {
	if c.Width > 0 {
		return c.Width
	}
	return DefaultWidth
}

// ColumnGroup is a named cluster of columns rendered under a shared header.
type ColumnGroup[T any] struct {
	ID      string
	Title   string
	Width   int
	Columns []*Column[T]
}

// NewColumnGroup creates a column group.
func NewColumnGroup[T any](id, title string, cols ...*Column[T]) *ColumnGroup[T] {
	return &ColumnGroup[T]{
		ID:      id,
		Title:   title,
		Columns: cols,
	}
}

// Entry is one top-level element of a layout, either a column or a group.
// Exactly one of Column and Group is set.
type Entry[T any] struct {
	Column *Column[T]
	Group  *ColumnGroup[T]
}

// ID returns the id of the column or group.
func (e Entry[T]) ID() string {
	if e.Group != nil {
		return e.Group.ID
	}
	return e.Column.ID
}

// Title returns the title of the column or group.
func (e Entry[T]) Title() string {
	if e.Group != nil {
		return e.Group.Title
	}
	return e.Column.Title
}

// Layout is the ordered set of columns shown by a grid.
type Layout[T any] struct {
	entries []Entry[T]
	flat    []*Column[T]
	byID    map[string]*Column[T]
	groups  map[string]bool
	dups    []string
}

// NewLayout creates a layout with the given top-level columns.
func NewLayout[T any](cols ...*Column[T]) *Layout[T] {
	l := &Layout[T]{
		byID:   make(map[string]*Column[T]),
		groups: make(map[string]bool),
	}
	l.Add(cols...)
	return l
}

// Add appends top-level columns to the layout.
func (l *Layout[T]) Add(cols ...*Column[T]) *Layout[T] {
	for _, c := range cols {
		l.entries = append(l.entries, Entry[T]{Column: c})
		l.index(c)
	}
	return l
}

// AddGroup appends a column group to the layout.
func (l *Layout[T]) AddGroup(g *ColumnGroup[T]) *Layout[T] {
	l.entries = append(l.entries, Entry[T]{Group: g})
	if l.Has(g.ID) {
		l.dups = append(l.dups, g.ID)
	}
	l.groups[g.ID] = true
	for _, c := range g.Columns {
		l.index(c)
	}
	return l
}

// index registers c. A repeated id keeps the first column and is reported
// by Validate.
func (l *Layout[T]) index(c *Column[T]) {
	l.flat = append(l.flat, c)
	if l.Has(c.ID) {
		l.dups = append(l.dups, c.ID)
		return
	}
	l.byID[c.ID] = c
}

// Validate reports ids used by more than one column or group.
func (l *Layout[T]) Validate() error {
	if len(l.dups) == 0 {
		return nil
	}
	errs := make([]error, len(l.dups))
	for i, id := range l.dups {
		errs[i] = fmt.Errorf("%w %q", ErrDuplicateColumn, id)
	}
	return errors.Join(errs...)
}

// Entries returns the top-level entries in display order.
func (l *Layout[T]) Entries() []Entry[T] {
	result := make([]Entry[T], len(l.entries))
	copy(result, l.entries)
	return result
}

// Flatten returns every column, with groups replaced by their members.
func (l *Layout[T]) Flatten() []*Column[T] {
	result := make([]*Column[T], len(l.flat))
	copy(result, l.flat)
	return result
}

// Lookup returns the column with the given id.
func (l *Layout[T]) Lookup(id string) (*Column[T], error) {
	if c, ok := l.byID[id]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownColumn, id)
}

// Has reports whether id names a column or a column group of the layout.
func (l *Layout[T]) Has(id string) bool {
	_, ok := l.byID[id]
	return ok || l.groups[id]
}

// InitialWidths returns the starting width for every top-level entry and
// every flattened column.
func (l *Layout[T]) InitialWidths() map[string]int {
	widths := make(map[string]int, len(l.entries)+len(l.flat))
	for _, c := range l.flat {
		widths[c.ID] = c.InitialWidth()
	}
	for _, e := range l.entries {
		if e.Group == nil {
			continue
		}
		if e.Group.Width > 0 {
			widths[e.Group.ID] = e.Group.Width
		} else {
			widths[e.Group.ID] = DefaultWidth
		}
	}
	return widths
}
