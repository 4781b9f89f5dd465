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
	"cmp"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type order struct {
	Region string
	Status string
	Amount int
}

func enrich(records ...order) []*DataRow[order] {
	rows := make([]*DataRow[order], len(records))
	for i, r := range records {
		rows[i] = NewDataRow(r, i)
	}
	return rows
}

func sumAmounts(records []order, _ Key) int {
	total := 0
	for _, r := range records {
		total += r.Amount
	}
	return total
}

var testOrders = []order{
	{"North", "Open", 100},
	{"South", "Closed", 250},
	{"North", "Open", 200},
	{"North", "Closed", 150},
	{"South", "Open", 300},
	{"South", "Closed", 350},
}

func TestGroupRowsWithoutLevels(t *testing.T) {
	elements := GroupRows[order, int](enrich(testOrders...), nil, sumAmounts)

	require.Len(t, elements, len(testOrders))
	for i, e := range elements {
		assert.Equal(t, KindRow, e.Kind)
		assert.Equal(t, i, e.Row.OriginalIndex)
	}
}

func TestGroupRowsSingleLevel(t *testing.T) {
	region := NewGroup[order, int]("region", "Region", func(o order) any { return o.Region })

	elements := GroupRows(enrich(testOrders...), []*Group[order, int]{region}, sumAmounts)

	require.Len(t, elements, 2)
	north, south := elements[0].Group, elements[1].Group
	assert.Equal(t, "North", north.Key.Value())
	assert.Equal(t, "South", south.Key.Value())
	assert.Equal(t, 450, north.Aggregate.Value)
	assert.Equal(t, 900, south.Aggregate.Value)
	assert.True(t, north.Aggregate.GroupKey.Equal(north.Key))

	// Rows keep their incoming order inside a bucket
	var indices []int
	for _, c := range north.Children {
		require.Equal(t, KindRow, c.Kind)
		indices = append(indices, c.Row.OriginalIndex)
	}
	assert.Equal(t, []int{0, 2, 3}, indices)
}

func TestGroupRowsTwoLevels(t *testing.T) {
	region := NewGroup[order, int]("region", "Region", func(o order) any { return o.Region })
	status := NewGroup[order, int]("status", "Status", func(o order) any { return o.Status })

	elements := GroupRows(enrich(testOrders...), []*Group[order, int]{region, status}, sumAmounts)

	require.Len(t, elements, 2)
	north := elements[0].Group
	require.Len(t, north.Children, 2)

	closed := north.Children[0].Group
	open := north.Children[1].Group
	assert.Equal(t, "Region=North/Status=Closed", closed.Key.String())
	assert.Equal(t, 150, closed.Aggregate.Value)
	assert.Equal(t, 300, open.Aggregate.Value)
	assert.Equal(t, 1, north.Children[0].Depth())
	assert.Equal(t, 0, elements[0].Depth())
	assert.Equal(t, 3, north.LeafCount())
	assert.Len(t, north.Records(), 3)
}

func TestGroupRowsCalculatorSeesCompositeKey(t *testing.T) {
	region := NewGroup[order, string]("region", "Region", func(o order) any { return o.Region })
	status := NewGroup[order, string]("status", "Status", func(o order) any { return o.Status })

	calc := func(_ []order, key Key) string { return key.String() }
	elements := GroupRows(enrich(testOrders...), []*Group[order, string]{region, status}, calc)

	inner := elements[1].Group.Children[1].Group
	assert.Equal(t, "Region=South/Status=Open", inner.Aggregate.Value)
}

func TestGroupRowsOrderedByAggregate(t *testing.T) {
	region := NewGroup[order, int]("region", "Region", func(o order) any { return o.Region }).
		WithComparator(Descending(ByAggregate(cmp.Compare[int])))

	elements := GroupRows(enrich(testOrders...), []*Group[order, int]{region}, sumAmounts)

	require.Len(t, elements, 2)
	assert.Equal(t, "South", elements[0].Group.Key.Value(), "largest total first")
	assert.Equal(t, "North", elements[1].Group.Key.Value())
}

func TestGroupRowsWithoutCalculator(t *testing.T) {
	region := NewGroup[order, int]("region", "Region", func(o order) any { return o.Region })

	elements := GroupRows(enrich(testOrders...), []*Group[order, int]{region}, nil)
	for _, e := range elements {
		assert.Nil(t, e.Group.Aggregate)
	}
}

func TestGroupRowsStableForEqualBuckets(t *testing.T) {
	// Comparator that considers all buckets equal keeps first-seen order
	status := NewGroup[order, int]("status", "Status", func(o order) any { return o.Status }).
		WithComparator(func(_, _ Key, _, _ *Aggregate[int]) int { return 0 })

	elements := GroupRows(enrich(testOrders...), []*Group[order, int]{status}, nil)
	assert.Equal(t, "Open", elements[0].Group.Key.Value())
	assert.Equal(t, "Closed", elements[1].Group.Key.Value())
}

func TestGroupRowsUncomparableKeys(t *testing.T) {
	tags := NewGroup[order, int]("tags", "Tags", func(o order) any { return []string{o.Status} })

	elements := GroupRows(enrich(testOrders...), []*Group[order, int]{tags}, nil)
	assert.Len(t, elements, 2)
}

func TestGroupRowsNaNKeysShareOneGroup(t *testing.T) {
	values := []float64{math.NaN(), 1, math.NaN()}
	rows := make([]*DataRow[float64], len(values))
	for i, v := range values {
		rows[i] = NewDataRow(v, i)
	}
	byValue := NewGroup[float64, int]("v", "v", func(v float64) any { return v })

	elements := GroupRows(rows, []*Group[float64, int]{byValue}, nil)

	require.Len(t, elements, 2)
	assert.Equal(t, "v=1", elements[0].Group.Key.String())
	assert.Equal(t, "v=NaN", elements[1].Group.Key.String(), "NaN sorts last")
	assert.Equal(t, 2, elements[1].Group.LeafCount())
}

func TestByAggregateNilLast(t *testing.T) {
	c := ByAggregate(cmp.Compare[int])
	a := NewKey(KeyPart{"k", "a"})
	b := NewKey(KeyPart{"k", "b"})

	assert.Equal(t, 1, c(a, b, nil, &Aggregate[int]{Value: 1}))
	assert.Equal(t, -1, c(a, b, &Aggregate[int]{Value: 1}, nil))
	assert.Equal(t, 0, c(a, b, nil, nil))
	assert.Equal(t, 0, c(a, b, &Aggregate[int]{Value: 5}, &Aggregate[int]{Value: 5}), "ties compare equal")
}

func TestGroupRowsAggregateTiesKeepFirstSeenOrder(t *testing.T) {
	count := func(records []order, _ Key) int { return len(records) }
	status := NewGroup[order, int]("status", "Status", func(o order) any { return o.Status }).
		WithComparator(ByAggregate(cmp.Compare[int]))

	// Open and Closed both hold three orders; Open is seen first
	elements := GroupRows(enrich(testOrders...), []*Group[order, int]{status}, count)

	require.Len(t, elements, 2)
	assert.Equal(t, "Open", elements[0].Group.Key.Value())
	assert.Equal(t, "Closed", elements[1].Group.Key.Value())

	elements = GroupRows(enrich(testOrders...), []*Group[order, int]{
		status.WithComparator(Descending(ByAggregate(cmp.Compare[int]))),
	}, count)
	assert.Equal(t, "Open", elements[0].Group.Key.Value(), "descending ties keep first-seen order")
}
