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

package columns

import (
	"cmp"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// CompareValues compares two extracted values.
// Returns -1 if a < b, 0 if equal, 1 if a > b.
// Values of the same kind compare natively; nil sorts after everything else;
// values of different kinds fall back to their string representation.
func CompareValues(a, b any) int {
	if a == nil || b == nil {
		return compareNils(a, b)
	}

	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(x, y)
		}
	case bool:
		if y, ok := b.(bool); ok {
			return compareBools(x, y)
		}
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return compareTimes(x, y)
		}
	case time.Duration:
		if y, ok := b.(time.Duration); ok {
			return cmp.Compare(x, y)
		}
	case int:
		if y, ok := b.(int); ok {
			return cmp.Compare(x, y)
		}
	case int64:
		if y, ok := b.(int64); ok {
			return cmp.Compare(x, y)
		}
	}

	// Numbers of any width compare with each other
	if fa, ok := toFloat64(a); ok {
		if fb, ok := toFloat64(b); ok {
			return compareFloat64s(fa, fb)
		}
	}

	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

// toFloat64 converts any Go numeric value to float64.
func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// ToFloat64 exposes the numeric conversion used by CompareValues.
func ToFloat64(v any) (float64, bool) {
	return toFloat64(v)
}

// compareNils sorts nil values to the end
func compareNils(a, b any) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return 1
	}
	return -1
}

// compareTimes compares two time.Time values
func compareTimes(a, b time.Time) int {
	if a.Before(b) {
		return -1
	}
	if a.After(b) {
		return 1
	}
	return 0
}

// compareBools compares two bool values (false < true)
func compareBools(a, b bool) int {
	if a == b {
		return 0
	}
	if !a && b {
		return -1
	}
	return 1
}

// compareFloat64s compares two float64 values with NaN handling.
// NaN values are considered greater than all other values (sort to end).
func compareFloat64s(a, b float64) int {
	aNaN := math.IsNaN(a)
	bNaN := math.IsNaN(b)

	if aNaN && bNaN {
		return 0
	}
	if aNaN {
		return 1
	}
	if bNaN {
		return -1
	}

	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

// Collated returns a comparator that orders strings by the collation rules of
// the given BCP 47 language tag, e.g. "de" or "sv". Non-string values fall
// back to CompareValues.
func Collated(lang string) (Comparator, error) {
	tag, err := language.Parse(lang)
	if err != nil {
		return nil, fmt.Errorf("invalid collation language %q: %w", lang, err)
	}
	// A collator keeps scratch buffers and is not safe for concurrent use
	var mu sync.Mutex
	c := collate.New(tag, collate.IgnoreCase)
	return func(a, b any) int {
		x, okA := a.(string)
		y, okB := b.(string)
		if !okA || !okB {
			return CompareValues(a, b)
		}
		mu.Lock()
		defer mu.Unlock()
		return c.CompareString(x, y)
	}, nil
}

// Reverse inverts a comparator.
func Reverse(c Comparator) Comparator {
	return func(a, b any) int {
		return c(b, a)
	}
}
