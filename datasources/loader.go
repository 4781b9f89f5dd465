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

// Package datasources loads records into grids from files and databases
// (JSON, CSV, SQLite) through a common loader interface.
package datasources

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/datagrid/core/columns"
)

// ColumnType represents the data type of a column.
type ColumnType int

const (
	TypeString ColumnType = iota
	TypeInt64
	TypeFloat64
	TypeBool
	TypeDatetime
	TypeDuration
)

// String returns the string representation of the column type.
func (t ColumnType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInt64:
		return "int64"
	case TypeFloat64:
		return "float64"
	case TypeBool:
		return "bool"
	case TypeDatetime:
		return "datetime"
	case TypeDuration:
		return "duration"
	default:
		return "unknown"
	}
}

// ParseColumnType parses the names returned by ColumnType.String.
func ParseColumnType(s string) (ColumnType, error) {
	for t := TypeString; t <= TypeDuration; t++ {
		if t.String() == s {
			return t, nil
		}
	}
	return TypeString, fmt.Errorf("unknown column type %q", s)
}

// IsNumeric reports whether values of the type convert to float64.
func (t ColumnType) IsNumeric() bool {
	return t == TypeInt64 || t == TypeFloat64 || t == TypeDuration
}

// ColumnSchema represents a single column's schema discovered from a data source.
type ColumnSchema struct {
	Name string
	Type ColumnType
}

// TableSchema represents the full table schema discovered from a data source.
type TableSchema struct {
	Columns []*ColumnSchema
}

// Column returns the schema of the named column, or nil.
func (s *TableSchema) Column(name string) *ColumnSchema {
	for _, c := range s.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Record is one loaded row, keyed by column name. Values are string, int64,
// float64, bool, time.Time, time.Duration or nil.
type Record map[string]any

// Value returns the raw value of a column.
func (r Record) Value(name string) any {
	return r[name]
}

// String returns the value of a column formatted as text.
func (r Record) String(name string) string {
	switch v := r[name].(type) {
	case nil:
		return ""
	case string:
		return v
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprint(v)
	}
}

// Float returns the numeric value of a column. Durations convert to seconds.
func (r Record) Float(name string) (float64, bool) {
	switch v := r[name].(type) {
	case time.Duration:
		return v.Seconds(), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return columns.ToFloat64(v)
	}
}

// Time returns the time value of a column.
func (r Record) Time(name string) (time.Time, bool) {
	t, ok := r[name].(time.Time)
	return t, ok
}

// Table is the result of a load: the discovered schema and the records.
type Table struct {
	Schema  *TableSchema
	Records []Record
}

// Loader is the interface that all data source loaders must implement.
type Loader interface {
	// SourceType returns the type identifier used in config (e.g. "json", "csv", "sqlite").
	SourceType() string

	// Load reads the records of the source described by config.
	Load(ctx context.Context, config map[string]string) (*Table, error)
}

// parseValue converts a text cell to the most specific type it parses as.
func parseValue(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if s == "true" || s == "false" {
		return s == "true"
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return s
}

// typeOf returns the column type of a normalised value
func typeOf(v any) (ColumnType, bool) {
	switch v.(type) {
	case string:
		return TypeString, true
	case int64:
		return TypeInt64, true
	case float64:
		return TypeFloat64, true
	case bool:
		return TypeBool, true
	case time.Time:
		return TypeDatetime, true
	case time.Duration:
		return TypeDuration, true
	}
	return TypeString, false
}

// inferSchema types every named column from the values in records. Columns
// mixing ints and floats are float64; any other mix is string.
func inferSchema(names []string, records []Record) *TableSchema {
	schema := &TableSchema{Columns: make([]*ColumnSchema, len(names))}
	for i, name := range names {
		typ, seen := TypeString, false
		for _, r := range records {
			t, ok := typeOf(r[name])
			if !ok {
				continue
			}
			switch {
			case !seen:
				typ, seen = t, true
			case typ == t:
			case (typ == TypeInt64 && t == TypeFloat64) || (typ == TypeFloat64 && t == TypeInt64):
				typ = TypeFloat64
			default:
				typ = TypeString
			}
		}
		schema.Columns[i] = &ColumnSchema{Name: name, Type: typ}
	}
	return schema
}

// normalize converts the values of every non-string column to its schema
// type, and values of string columns to text.
func normalize(schema *TableSchema, records []Record) {
	for _, col := range schema.Columns {
		for _, r := range records {
			v, ok := r[col.Name]
			if !ok || v == nil {
				continue
			}
			switch col.Type {
			case TypeString:
				if _, isString := v.(string); !isString {
					r[col.Name] = r.String(col.Name)
				}
			case TypeFloat64:
				if i, isInt := v.(int64); isInt {
					r[col.Name] = float64(i)
				}
			}
		}
	}
}
