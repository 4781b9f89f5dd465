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

// Package grouping holds the row and group node types of a grid and the
// recursive grouping of sorted rows into a hierarchy of group nodes.
package grouping

// Role tags what a display row stands for.
type Role int

const (
	// RoleElement marks a row wrapping one raw record.
	RoleElement Role = iota
	// RoleGroup marks a group header.
	RoleGroup
)

func (r Role) String() string {
	if r == RoleGroup {
		return "group"
	}
	return "element"
}

// DataRow wraps one raw record with its position in the input collection.
// OriginalIndex is assigned once at enrichment and identifies the record
// independently of later reordering.
type DataRow[T any] struct {
	Content       T
	Role          Role
	OriginalIndex int
}

// NewDataRow creates a leaf row.
func NewDataRow[T any](content T, originalIndex int) *DataRow[T] {
	return &DataRow[T]{
		Content:       content,
		Role:          RoleElement,
		OriginalIndex: originalIndex,
	}
}

// Aggregate is the summary value of one group node, computed from every raw
// record under the node before any filtering.
type Aggregate[A any] struct {
	GroupKey Key
	Value    A
}

// AggregateCalculator summarises the records of a group.
type AggregateCalculator[T, A any] func(records []T, key Key) A

// Kind discriminates the two element variants.
type Kind int

const (
	KindRow Kind = iota
	KindGroup
)

// Element is either a leaf row or a group node. Exactly one of Row and Group
// is set, as indicated by Kind.
type Element[T, A any] struct {
	Kind  Kind
	Row   *DataRow[T]
	Group *DataGroup[T, A]
}

// RowElement wraps a leaf row.
func RowElement[T, A any](row *DataRow[T]) Element[T, A] {
	return Element[T, A]{Kind: KindRow, Row: row}
}

// GroupElement wraps a group node.
func GroupElement[T, A any](group *DataGroup[T, A]) Element[T, A] {
	return Element[T, A]{Kind: KindGroup, Group: group}
}

// IsGroup reports whether the element is a group node.
func (e Element[T, A]) IsGroup() bool {
	return e.Kind == KindGroup
}

// Depth is 0 for a top-level group or ungrouped row and increases by one
// per grouping level. Leaf rows under groups have no depth of their own and
// report 0; renderers track nesting from the preceding headers.
func (e Element[T, A]) Depth() int {
	if e.Kind == KindGroup {
		return e.Group.Key.Len() - 1
	}
	return 0
}

// DataGroup is one bucket at one grouping depth.
// Children are leaf rows on the innermost level and group nodes otherwise.
type DataGroup[T, A any] struct {
	Key       Key
	Aggregate *Aggregate[A] // nil when no calculator is configured
	Children  []Element[T, A]
}

// WithChildren returns a copy of the node holding other children. The key and
// aggregate are carried over unchanged.
func (g *DataGroup[T, A]) WithChildren(children []Element[T, A]) *DataGroup[T, A] {
	return &DataGroup[T, A]{
		Key:       g.Key,
		Aggregate: g.Aggregate,
		Children:  children,
	}
}

// LeafCount is the number of leaf rows in the subtree.
func (g *DataGroup[T, A]) LeafCount() int {
	n := 0
	for _, child := range g.Children {
		switch child.Kind {
		case KindRow:
			n++
		case KindGroup:
			n += child.Group.LeafCount()
		}
	}
	return n
}

// Records returns the content of every leaf in the subtree, in order.
func (g *DataGroup[T, A]) Records() []T {
	var records []T
	for _, child := range g.Children {
		switch child.Kind {
		case KindRow:
			records = append(records, child.Row.Content)
		case KindGroup:
			records = append(records, child.Group.Records()...)
		}
	}
	return records
}
