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

package grouping

import (
	"github.com/google/datagrid/core/columns"
)

// GroupComparator orders sibling group nodes. It receives the composite keys
// and the aggregates (nil without a calculator) of both nodes, so groups can
// be ordered by their own summary values.
type GroupComparator[A any] func(keyA, keyB Key, aggA, aggB *Aggregate[A]) int

// Group describes one grouping level.
type Group[T, A any] struct {
	ID    string
	Title string // name of the level inside composite keys
	// KeyOf extracts the bucket key of a record.
	KeyOf func(record T) any
	// Compare orders sibling buckets. Nil orders by key value ascending.
	Compare GroupComparator[A]
}

// NewGroup creates a grouping level ordered by key value.
func NewGroup[T, A any](id, title string, keyOf func(record T) any) *Group[T, A] {
	return &Group[T, A]{
		ID:    id,
		Title: title,
		KeyOf: keyOf,
	}
}

// WithComparator replaces the sibling ordering of the level.
func (g *Group[T, A]) WithComparator(c GroupComparator[A]) *Group[T, A] {
	g.Compare = c
	return g
}

func (g *Group[T, A]) compare(a, b *DataGroup[T, A]) int {
	if g.Compare == nil {
		return columns.CompareValues(a.Key.Value(), b.Key.Value())
	}
	return g.Compare(a.Key, b.Key, a.Aggregate, b.Aggregate)
}

// ByKey orders groups by their innermost key value.
func ByKey[A any](cmp columns.Comparator) GroupComparator[A] {
	if cmp == nil {
		cmp = columns.CompareValues
	}
	return func(keyA, keyB Key, _, _ *Aggregate[A]) int {
		return cmp(keyA.Value(), keyB.Value())
	}
}

// ByAggregate orders groups by their aggregate values. Groups without an
// aggregate sort last. Ties compare equal, so groups keep first-seen order.
func ByAggregate[A any](cmp func(a, b A) int) GroupComparator[A] {
	return func(_, _ Key, aggA, aggB *Aggregate[A]) int {
		switch {
		case aggA == nil && aggB == nil:
			return 0
		case aggA == nil:
			return 1
		case aggB == nil:
			return -1
		}
		return cmp(aggA.Value, aggB.Value)
	}
}

// Descending reverses a group ordering.
func Descending[A any](c GroupComparator[A]) GroupComparator[A] {
	return func(keyA, keyB Key, aggA, aggB *Aggregate[A]) int {
		return c(keyB, keyA, aggB, aggA)
	}
}
