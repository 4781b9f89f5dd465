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

// Package pipeline turns raw records into the flat sequence of display rows
// a grid shows: enrich, sort, group, filter and flatten.
package pipeline

import (
	"github.com/google/datagrid/core/grouping"
)

// Enrich wraps every record in a leaf row tagged with its position in data.
func Enrich[T any](data []T) []*grouping.DataRow[T] {
	rows := make([]*grouping.DataRow[T], len(data))
	for i, record := range data {
		rows[i] = grouping.NewDataRow(record, i)
	}
	return rows
}
