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

package aggregates

import (
	"math"
	"testing"

	"github.com/google/datagrid/core/grouping"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sale struct {
	Region string
	Amount float64
	Valid  bool
}

func amount(s sale) (float64, bool) { return s.Amount, s.Valid }

func TestNumericAggState(t *testing.T) {
	s := NewNumericAggState()
	for _, v := range []float64{2, 4, 4, 4, 5, 5, 7, 9} {
		s.Add(v)
	}
	assert.EqualValues(t, 8, s.Count)
	assert.Equal(t, 40.0, s.Sum)
	assert.Equal(t, 5.0, s.Avg())
	assert.InDelta(t, 2.0, s.StdDev(), 1e-9)
	assert.Equal(t, 2.0, s.Min)
	assert.Equal(t, 9.0, s.Max)

	other := NewNumericAggState()
	other.Add(-1)
	s.Combine(other)
	s.Combine(NewNumericAggState())
	assert.EqualValues(t, 9, s.Count)
	assert.Equal(t, -1.0, s.Min)
}

func TestEmptyNumericAggState(t *testing.T) {
	s := NewNumericAggState()
	assert.Equal(t, 0.0, s.Avg())
	assert.Equal(t, 0.0, s.StdDev())
}

func TestSummary(t *testing.T) {
	s := NewSummary()
	s.AddRecord(3, true)
	s.AddRecord(0, false)
	s.AddRecord(1, true)
	s.AddRecord(8, true)

	assert.EqualValues(t, 4, s.Records)
	assert.EqualValues(t, 3, s.Count)
	assert.Equal(t, "4", s.Format(KindCount))
	assert.Equal(t, "12", s.Format(KindSum))
	assert.Equal(t, "4", s.Format(KindAvg))
	assert.Equal(t, "1", s.Format(KindMin))
	assert.Equal(t, "8", s.Format(KindMax))
	assert.Equal(t, 3.0, s.Median())
	assert.Equal(t, "#4 Σ12", s.String())

	empty := NewSummary()
	empty.AddRecord(0, false)
	assert.Equal(t, "-", empty.Format(KindSum))
	assert.Equal(t, 0.0, empty.Median())
	assert.Equal(t, "#1", empty.String())
}

func TestSummaryCombine(t *testing.T) {
	a := NewSummary()
	a.AddRecord(1, true)
	b := NewSummary()
	b.AddRecord(5, true)
	b.AddRecord(9, true)

	a.Combine(b)
	a.Combine(nil)
	assert.EqualValues(t, 3, a.Records)
	assert.Equal(t, 5.0, a.Median())
	assert.Equal(t, 15.0, a.Value(KindSum))
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{12, "12"},
		{-3, "-3"},
		{1.5, "1.5"},
		{2.25, "2.25"},
		{1.005, "1"},
		{math.Pi, "3.14"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatNumber(tt.in), "formatNumber(%v)", tt.in)
	}
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" Median ")
	require.NoError(t, err)
	assert.Equal(t, KindMedian, k)
	assert.Equal(t, "median", k.String())
	assert.Equal(t, "Σ", KindSum.Symbol())

	_, err = ParseKind("p99")
	assert.Error(t, err)
}

func TestCalculators(t *testing.T) {
	records := []sale{
		{"North", 10, true},
		{"North", 5, true},
		{"North", 0, false},
	}
	key := grouping.NewKey(grouping.KeyPart{Title: "Region", Value: "North"})

	assert.Equal(t, 3, Count[sale]()(records, key))
	assert.Equal(t, 15.0, Sum(amount)(records, key))

	s := Summarize(amount)(records, key)
	assert.EqualValues(t, 3, s.Records)
	assert.Equal(t, 7.5, s.Avg())
}

func TestBySummary(t *testing.T) {
	ka := grouping.NewKey(grouping.KeyPart{Title: "Region", Value: "A"})
	kb := grouping.NewKey(grouping.KeyPart{Title: "Region", Value: "B"})

	small := NewSummary()
	small.AddRecord(1, true)
	big := NewSummary()
	big.AddRecord(10, true)

	c := BySummary(KindSum)
	assert.Positive(t, c(ka, kb, &grouping.Aggregate[*Summary]{Value: big}, &grouping.Aggregate[*Summary]{Value: small}))
	assert.Negative(t, c(ka, kb, &grouping.Aggregate[*Summary]{Value: small}, &grouping.Aggregate[*Summary]{Value: big}))

	assert.Negative(t, ByCount()(ka, kb, &grouping.Aggregate[int]{Value: 1}, &grouping.Aggregate[int]{Value: 2}))
	assert.Zero(t, BySum()(ka, kb, &grouping.Aggregate[float64]{Value: 3}, &grouping.Aggregate[float64]{Value: 3}), "ties compare equal")
}
