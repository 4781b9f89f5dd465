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
	"math"
	"testing"
	"time"
)

func TestCompareValues(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		a, b any
		want int
	}{
		{"strings less", "apple", "banana", -1},
		{"strings equal", "pear", "pear", 0},
		{"ints", 3, 10, -1},
		{"int64 greater", int64(10), int64(3), 1},
		{"mixed numeric widths", int32(2), 2.5, -1},
		{"uint vs float", uint8(7), 7.0, 0},
		{"floats", 1.5, 0.5, 1},
		{"NaN sorts last", math.NaN(), 1e9, 1},
		{"number before NaN", -1.0, math.NaN(), -1},
		{"both NaN", math.NaN(), math.NaN(), 0},
		{"bools", false, true, -1},
		{"times", now, now.Add(time.Hour), -1},
		{"durations", 2 * time.Second, time.Second, 1},
		{"nil sorts last", nil, "a", 1},
		{"value before nil", 0, nil, -1},
		{"both nil", nil, nil, 0},
		{"mixed kinds use string form", "10", 9, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CompareValues(tt.a, tt.b); got != tt.want {
				t.Errorf("CompareValues(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestCollated(t *testing.T) {
	cmp, err := Collated("de")
	if err != nil {
		t.Fatalf("Collated failed: %v", err)
	}

	// Byte order puts "Zebra" before "apfel"; collation does not
	if got := cmp("apfel", "Zebra"); got >= 0 {
		t.Errorf("expected apfel < Zebra under German collation, got %d", got)
	}
	if got := cmp("Äpfel", "Birne"); got >= 0 {
		t.Errorf("expected Äpfel < Birne under German collation, got %d", got)
	}
	if got := cmp(1, 2); got != -1 {
		t.Errorf("expected numeric fallback, got %d", got)
	}

	if _, err := Collated("not a language!"); err == nil {
		t.Error("expected error for invalid language tag")
	}
}

func TestReverse(t *testing.T) {
	rev := Reverse(CompareValues)
	if got := rev(1, 2); got != 1 {
		t.Errorf("Reverse(CompareValues)(1, 2) = %d, want 1", got)
	}
}
