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

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/datagrid/core/aggregates"
	"github.com/google/datagrid/core/columns"
	"github.com/google/datagrid/core/query"
	"github.com/google/go-cmp/cmp"
)

const ordersView = `
title: Orders
debounce: 100ms
show_group_headers: true
source:
  file: orders.json
columns:
  - id: region
    title: Region
    collate: sv
  - id: status
  - id: figures
    title: Figures
    columns:
      - id: amount
        title: Amount
        width: 80
groups:
  - column: region
    order: sum
    direction: desc
sort: ["amount:desc", "status"]
filters:
  - column: status
    match: Open
aggregate:
  column: amount
  show: avg
logging:
  level: debug
`

func TestDefaultView(t *testing.T) {
	v := DefaultView()
	if v.Title != "Grid" {
		t.Errorf("expected Title=Grid, got %s", v.Title)
	}
	if got := v.GetDebounce(); got != 250*time.Millisecond {
		t.Errorf("expected debounce 250ms, got %v", got)
	}
	if !v.GroupHeaders() {
		t.Error("group headers should be shown by default")
	}
	if err := v.Validate(); err != nil {
		t.Errorf("default view should be valid: %v", err)
	}
}

func TestParse(t *testing.T) {
	v, err := Parse([]byte(ordersView))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if v.Title != "Orders" {
		t.Errorf("expected Title=Orders, got %s", v.Title)
	}
	if got := v.GetDebounce(); got != 100*time.Millisecond {
		t.Errorf("expected debounce 100ms, got %v", got)
	}
	if v.Logging.Level != "debug" {
		t.Errorf("expected level debug, got %s", v.Logging.Level)
	}
	// Unset fields keep their defaults
	if v.Logging.Format != "console" {
		t.Errorf("expected format console, got %s", v.Logging.Format)
	}
	want := []GroupConfig{{Column: "region", Order: "sum", Direction: "desc"}}
	if diff := cmp.Diff(want, v.Groups); diff != "" {
		t.Errorf("groups mismatch (-want +got):\n%s", diff)
	}
	if len(v.Columns) != 3 || len(v.Columns[2].Columns) != 1 {
		t.Fatalf("unexpected columns: %+v", v.Columns)
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("columns: [unterminated"))
	if err == nil || !strings.Contains(err.Error(), "failed to parse view") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"duplicate column", "columns: [{id: a}, {id: a}]", `duplicate column id "a"`},
		{"missing id", "columns: [{title: A}]", "column without id"},
		{"nested group", "columns: [{id: g, columns: [{id: h, columns: [{id: a}]}]}]", "cannot nest"},
		{"bad order", "groups: [{column: a, order: biggest}]", "unknown aggregate"},
		{"bad direction", "groups: [{column: a, direction: up}]", "invalid sort direction"},
		{"bad sort", `sort: ["a:sideways"]`, "invalid sort direction"},
		{"empty sort", `sort: [":desc"]`, "column is required"},
		{"bad filter", "filters: [{column: a, match: '>ten'}]", "is not a number"},
		{"bad debounce", "debounce: soon", "debounce"},
		{"bad level", "logging: {level: loud}", "unknown level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Parse(%q) error = %v, want containing %q", tt.yaml, err, tt.want)
			}
		})
	}
}

func TestValidate_ReportsAllErrors(t *testing.T) {
	_, err := Parse([]byte("columns: [{id: a}, {id: a}]\ngroups: [{column: a, order: biggest}]"))
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"duplicate column", "unknown aggregate"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

func TestValidate_DuplicateInsideGroup(t *testing.T) {
	_, err := Parse([]byte("columns: [{id: region}, {id: place, columns: [{id: region}]}]"))
	if !errors.Is(err, columns.ErrDuplicateColumn) {
		t.Fatalf("expected ErrDuplicateColumn, got %v", err)
	}
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "view.yaml")

	v := DefaultView()
	v.Title = "Saved"
	v.Source.File = "data.csv"
	v.Sort = []string{"amount:desc"}
	if err := v.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Title != "Saved" {
		t.Errorf("expected Title=Saved, got %s", loaded.Title)
	}
	// Relative sources resolve against the view directory
	if want := filepath.Join(dir, "data.csv"); loaded.Source.File != want {
		t.Errorf("expected source %s, got %s", want, loaded.Source.File)
	}
	if diff := cmp.Diff([]string{"amount:desc"}, loaded.Sort); diff != "" {
		t.Errorf("sort mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("DATAGRID_LOG_LEVEL", "warn")
	t.Setenv("DATAGRID_DEBOUNCE", "2s")

	v, err := Parse([]byte("title: Env"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if v.Logging.Level != "warn" {
		t.Errorf("expected level warn, got %s", v.Logging.Level)
	}
	if got := v.GetDebounce(); got != 2*time.Second {
		t.Errorf("expected debounce 2s, got %v", got)
	}
}

func TestGroupHeaders_Off(t *testing.T) {
	v, err := Parse([]byte("show_group_headers: false"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if v.GroupHeaders() {
		t.Error("group headers should be hidden")
	}
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		in   string
		want query.SortCriterion
	}{
		{"amount", query.SortCriterion{ColumnID: "amount", Direction: query.Ascending}},
		{"amount:", query.SortCriterion{ColumnID: "amount", Direction: query.Ascending}},
		{" amount:desc ", query.SortCriterion{ColumnID: "amount", Direction: query.Descending}},
	}
	for _, tt := range tests {
		got, err := parseSort(tt.in)
		if err != nil {
			t.Fatalf("parseSort(%q) failed: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("parseSort(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestParseGroupOrder(t *testing.T) {
	order, err := parseGroupOrder("key")
	if err != nil || order != nil {
		t.Errorf("key order = %v, %v; want nil, nil", order, err)
	}
	order, err = parseGroupOrder("median")
	if err != nil || order == nil || *order != aggregates.KindMedian {
		t.Errorf("median order = %v, %v", order, err)
	}
}
