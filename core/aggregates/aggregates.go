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

// Package aggregates provides ready-made aggregate calculators for grouped
// grids. The states keep enough intermediate values to derive count, sum,
// avg, stddev, min, max and median for the records of one group.
package aggregates

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/google/datagrid/core/grouping"
	"gonum.org/v1/gonum/stat"
)

// Kind selects one derived value of a summary.
type Kind int

const (
	KindCount Kind = iota
	KindSum
	KindAvg
	KindStdDev
	KindMin
	KindMax
	KindMedian
)

var kindNames = map[Kind]string{
	KindCount:  "count",
	KindSum:    "sum",
	KindAvg:    "avg",
	KindStdDev: "stddev",
	KindMin:    "min",
	KindMax:    "max",
	KindMedian: "median",
}

var kindSymbols = map[Kind]string{
	KindCount:  "#",
	KindSum:    "Σ",
	KindAvg:    "μ",
	KindStdDev: "σ",
	KindMin:    "↓",
	KindMax:    "↑",
	KindMedian: "~",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Symbol returns the short marker used in group headers.
func (k Kind) Symbol() string {
	return kindSymbols[k]
}

// ParseKind parses an aggregate name such as "sum" or "median".
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown aggregate %q", s)
}

// NumericAggState stores intermediate state for numeric aggregates.
type NumericAggState struct {
	Count int64   // Number of values
	Sum   float64 // Sum of values
	SumSq float64 // Sum of squared values (for stddev)
	Min   float64 // Minimum value
	Max   float64 // Maximum value
}

// NewNumericAggState creates a new empty numeric aggregate state.
func NewNumericAggState() *NumericAggState {
	return &NumericAggState{
		Min: math.MaxFloat64,
		Max: -math.MaxFloat64,
	}
}

// Add adds a single value to the aggregate state.
func (s *NumericAggState) Add(value float64) {
	s.Count++
	s.Sum += value
	s.SumSq += value * value
	if value < s.Min {
		s.Min = value
	}
	if value > s.Max {
		s.Max = value
	}
}

// Combine merges another numeric state into this one.
func (s *NumericAggState) Combine(o *NumericAggState) {
	if o == nil || o.Count == 0 {
		return
	}
	s.Count += o.Count
	s.Sum += o.Sum
	s.SumSq += o.SumSq
	if o.Min < s.Min {
		s.Min = o.Min
	}
	if o.Max > s.Max {
		s.Max = o.Max
	}
}

// Avg returns the average (mean) of the values.
func (s *NumericAggState) Avg() float64 {
	if s.Count == 0 {
		return 0
	}
	return s.Sum / float64(s.Count)
}

// StdDev returns the population standard deviation.
func (s *NumericAggState) StdDev() float64 {
	if s.Count == 0 {
		return 0
	}
	mean := s.Avg()
	// Variance = E[X²] - (E[X])²
	variance := (s.SumSq / float64(s.Count)) - (mean * mean)
	if variance < 0 {
		// Floating point noise
		variance = 0
	}
	return math.Sqrt(variance)
}

// Summary is the aggregate of one group: the numeric state of the values
// plus the values themselves for the median. Records counts every record of
// the group, including those without a numeric value.
type Summary struct {
	NumericAggState
	Records int64
	values  []float64
}

// NewSummary creates an empty summary.
func NewSummary() *Summary {
	return &Summary{NumericAggState: *NewNumericAggState()}
}

// AddRecord counts a record and, when ok, adds its value.
func (s *Summary) AddRecord(value float64, ok bool) {
	s.Records++
	if !ok {
		return
	}
	s.NumericAggState.Add(value)
	s.values = append(s.values, value)
}

// Combine merges another summary into this one.
func (s *Summary) Combine(o *Summary) {
	if o == nil {
		return
	}
	s.Records += o.Records
	s.NumericAggState.Combine(&o.NumericAggState)
	s.values = append(s.values, o.values...)
}

// Median returns the empirical median of the values.
func (s *Summary) Median() float64 {
	if len(s.values) == 0 {
		return 0
	}
	sorted := slices.Clone(s.values)
	slices.Sort(sorted)
	return stat.Quantile(0.5, stat.Empirical, sorted, nil)
}

// Value returns the derived value of the given kind.
func (s *Summary) Value(kind Kind) float64 {
	switch kind {
	case KindCount:
		return float64(s.Records)
	case KindSum:
		return s.Sum
	case KindAvg:
		return s.Avg()
	case KindStdDev:
		return s.StdDev()
	case KindMin:
		if s.Count == 0 {
			return 0
		}
		return s.Min
	case KindMax:
		if s.Count == 0 {
			return 0
		}
		return s.Max
	case KindMedian:
		return s.Median()
	}
	return 0
}

// Format returns the derived value of the given kind for display.
func (s *Summary) Format(kind Kind) string {
	if kind == KindCount {
		return fmt.Sprintf("%d", s.Records)
	}
	if s.Count == 0 {
		return "-"
	}
	return formatNumber(s.Value(kind))
}

// String renders the summary as "#n Σsum".
func (s *Summary) String() string {
	if s.Count == 0 {
		return KindCount.Symbol() + s.Format(KindCount)
	}
	return KindCount.Symbol() + s.Format(KindCount) + " " + KindSum.Symbol() + s.Format(KindSum)
}

// formatNumber formats a float64 for display, using appropriate precision.
func formatNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return fmt.Sprintf("%d", int64(v))
	}
	// Up to 2 decimal places, trailing zeros trimmed
	formatted := fmt.Sprintf("%.2f", v)
	formatted = strings.TrimRight(formatted, "0")
	return strings.TrimSuffix(formatted, ".")
}

// Count counts the records of a group.
func Count[T any]() grouping.AggregateCalculator[T, int] {
	return func(records []T, _ grouping.Key) int {
		return len(records)
	}
}

// Sum adds up a numeric value over the records of a group. Records for
// which value reports false are skipped.
func Sum[T any](value func(record T) (float64, bool)) grouping.AggregateCalculator[T, float64] {
	return func(records []T, _ grouping.Key) float64 {
		total := 0.0
		for _, r := range records {
			if v, ok := value(r); ok {
				total += v
			}
		}
		return total
	}
}

// Summarize builds a Summary over a numeric value of the records of a group.
func Summarize[T any](value func(record T) (float64, bool)) grouping.AggregateCalculator[T, *Summary] {
	return func(records []T, _ grouping.Key) *Summary {
		s := NewSummary()
		for _, r := range records {
			s.AddRecord(value(r))
		}
		return s
	}
}

// ByCount orders groups by their record count.
func ByCount() grouping.GroupComparator[int] {
	return grouping.ByAggregate(cmp.Compare[int])
}

// BySum orders groups by their sum.
func BySum() grouping.GroupComparator[float64] {
	return grouping.ByAggregate(cmp.Compare[float64])
}

// BySummary orders groups by one derived value of their summaries.
func BySummary(kind Kind) grouping.GroupComparator[*Summary] {
	return grouping.ByAggregate(func(a, b *Summary) int {
		return cmp.Compare(a.Value(kind), b.Value(kind))
	})
}
