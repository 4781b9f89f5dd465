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

package query

import (
	"fmt"
)

// Direction is the sort direction of a column.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
	// None removes a column from the sort state.
	None Direction = "none"
)

// ParseDirection parses "asc", "desc" or "none". An empty string is None.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case Ascending, Descending, None:
		return Direction(s), nil
	case "":
		return None, nil
	}
	return None, fmt.Errorf("invalid sort direction %q", s)
}

// Sign returns 1 for ascending, -1 for descending and 0 for none.
func (d Direction) Sign() int {
	switch d {
	case Ascending:
		return 1
	case Descending:
		return -1
	}
	return 0
}

// Next returns the direction a header toggle moves to: none, asc, desc, none.
func (d Direction) Next() Direction {
	switch d {
	case Ascending:
		return Descending
	case Descending:
		return None
	}
	return Ascending
}

// SortCriterion sorts by one column in one direction.
type SortCriterion struct {
	ColumnID  string
	Direction Direction
}

// SortState is an ordered list of sort criteria, highest priority first,
// with at most one criterion per column.
type SortState []SortCriterion

// Index returns the position of the criterion for columnID, or -1.
func (s SortState) Index(columnID string) int {
	for i, c := range s {
		if c.ColumnID == columnID {
			return i
		}
	}
	return -1
}

// Direction returns the direction for columnID, None if it is not sorted.
func (s SortState) Direction(columnID string) Direction {
	if i := s.Index(columnID); i >= 0 {
		return s[i].Direction
	}
	return None
}

// Update returns a new state where the criterion for columnID is replaced in
// place, appended, or removed when direction is None. The receiver is not
// modified.
func (s SortState) Update(columnID string, direction Direction) SortState {
	i := s.Index(columnID)
	result := make(SortState, 0, len(s)+1)
	result = append(result, s...)

	switch {
	case i == -1 && direction == None:
		return result
	case i == -1:
		return append(result, SortCriterion{ColumnID: columnID, Direction: direction})
	case direction == None:
		return append(result[:i], result[i+1:]...)
	default:
		result[i] = SortCriterion{ColumnID: columnID, Direction: direction}
		return result
	}
}

// Clone returns a copy of the state.
func (s SortState) Clone() SortState {
	if s == nil {
		return nil
	}
	result := make(SortState, len(s))
	copy(result, s)
	return result
}
