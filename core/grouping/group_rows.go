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
	"fmt"
	"math"
	"reflect"
	"slices"
)

// bucket collects the rows sharing one key value at one level
type bucket[T, A any] struct {
	node *DataGroup[T, A]
	rows []*DataRow[T]
}

// GroupRows arranges sorted rows into group nodes, one nesting level per
// descriptor, outermost first. Rows keep their relative order inside every
// bucket. Without descriptors the rows are returned as leaf elements and no
// group layer is created.
//
// When calc is not nil every node gets an aggregate computed from all records
// in its bucket, keyed by the node's full composite key.
func GroupRows[T, A any](rows []*DataRow[T], groups []*Group[T, A], calc AggregateCalculator[T, A]) []Element[T, A] {
	return groupRows(rows, groups, calc, Key{})
}

func groupRows[T, A any](rows []*DataRow[T], groups []*Group[T, A], calc AggregateCalculator[T, A], parent Key) []Element[T, A] {
	if len(groups) == 0 {
		elements := make([]Element[T, A], len(rows))
		for i, row := range rows {
			elements[i] = RowElement[T, A](row)
		}
		return elements
	}

	g := groups[0]
	buckets := bucketRows(rows, g, parent)

	if calc != nil {
		for _, b := range buckets {
			records := make([]T, len(b.rows))
			for i, row := range b.rows {
				records[i] = row.Content
			}
			b.node.Aggregate = &Aggregate[A]{
				GroupKey: b.node.Key,
				Value:    calc(records, b.node.Key),
			}
		}
	}

	// Stable so that buckets the comparator considers equal keep first-seen order
	slices.SortStableFunc(buckets, func(a, b *bucket[T, A]) int {
		return g.compare(a.node, b.node)
	})

	elements := make([]Element[T, A], len(buckets))
	for i, b := range buckets {
		b.node.Children = groupRows(b.rows, groups[1:], calc, b.node.Key)
		elements[i] = GroupElement(b.node)
	}
	return elements
}

// bucketRows splits rows by the level's key function in first-seen order.
func bucketRows[T, A any](rows []*DataRow[T], g *Group[T, A], parent Key) []*bucket[T, A] {
	var buckets []*bucket[T, A]
	byKey := make(map[any]*bucket[T, A])

	for _, row := range rows {
		var value any
		if g.KeyOf != nil {
			value = g.KeyOf(row.Content)
		}
		mk := mapKey(value)
		b, ok := byKey[mk]
		if !ok {
			b = &bucket[T, A]{
				node: &DataGroup[T, A]{Key: parent.With(g.Title, value)},
			}
			byKey[mk] = b
			buckets = append(buckets, b)
		}
		b.rows = append(b.rows, row)
	}
	return buckets
}

// nanKey is the single bucket shared by all NaN key values.
type nanKey struct{}

// mapKey makes any key value usable as a map key. Values that cannot be
// compared with == (slices, maps) are bucketed by their printed form. NaN is
// never equal to itself, so all NaNs share one bucket.
func mapKey(v any) any {
	switch f := v.(type) {
	case nil:
		return nil
	case float64:
		if math.IsNaN(f) {
			return nanKey{}
		}
	case float32:
		if math.IsNaN(float64(f)) {
			return nanKey{}
		}
	}
	if reflect.ValueOf(v).Comparable() {
		return v
	}
	return fmt.Sprintf("%T:%#v", v, v)
}
