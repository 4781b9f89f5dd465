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
	"strings"
	"testing"

	"github.com/google/datagrid/core/columns"
	"github.com/google/datagrid/core/grid"
	"github.com/google/datagrid/datasources"
	"github.com/google/go-cmp/cmp"
)

const ordersJSON = `[
	{"region": "North", "status": "Open",   "amount": 100},
	{"region": "South", "status": "Open",   "amount": 400},
	{"region": "North", "status": "Closed", "amount": 250.5},
	{"region": "South", "status": "Closed", "amount": 50}
]`

func loadOrders(t *testing.T) *datasources.Table {
	t.Helper()
	table, err := datasources.ParseJSON([]byte(ordersJSON))
	if err != nil {
		t.Fatalf("ParseJSON failed: %v", err)
	}
	return table
}

// describe renders the display sequence as "group key aggregate" and
// "row region/status" lines.
func describe(t *testing.T, g *grid.Grid[Record, Summary], b *Built) []string {
	t.Helper()
	var lines []string
	for i := range g.TotalCount() {
		e, err := g.ElementAt(i)
		if err != nil {
			t.Fatalf("ElementAt(%d): %v", i, err)
		}
		if e.IsGroup() {
			lines = append(lines, "group "+e.Group.Key.String()+" "+b.FormatAggregate(e.Group.Aggregate.Value))
			continue
		}
		r := e.Row.Content
		lines = append(lines, "row "+r.String("region")+"/"+r.String("status")+"/"+r.String("amount"))
	}
	return lines
}

func TestBuild(t *testing.T) {
	table := loadOrders(t)
	v, err := Parse([]byte(ordersView))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	b, err := v.Build(table.Schema)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	entries := b.Layout.Entries()
	if len(entries) != 3 || entries[2].Group == nil || entries[2].Title() != "Figures" {
		t.Fatalf("unexpected layout entries: %+v", entries)
	}
	if widths := b.Layout.InitialWidths(); widths["amount"] != 80 || widths["status"] != columns.DefaultWidth {
		t.Errorf("unexpected widths: %v", widths)
	}

	g, err := grid.New(b.GridConfig(table.Records))
	if err != nil {
		t.Fatalf("grid.New failed: %v", err)
	}
	defer g.Close()

	// South sums to 450 and North to 350.5 before the Open filter applies.
	want := []string{
		"group Region=South #2 μ225",
		"row South/Open/400",
		"group Region=North #2 μ175.25",
		"row North/Open/100",
	}
	if diff := cmp.Diff(want, describe(t, g, b)); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_DefaultColumns(t *testing.T) {
	table := loadOrders(t)
	b, err := DefaultView().Build(table.Schema)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	var ids []string
	for _, c := range b.Layout.Flatten() {
		ids = append(ids, c.ID)
	}
	var want []string
	for _, c := range table.Schema.Columns {
		want = append(want, c.Name)
	}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}

	g, err := grid.New(b.GridConfig(table.Records))
	if err != nil {
		t.Fatalf("grid.New failed: %v", err)
	}
	defer g.Close()
	if g.TotalCount() != len(table.Records) {
		t.Errorf("expected %d ungrouped rows, got %d", len(table.Records), g.TotalCount())
	}
}

func TestBuild_HiddenHeadersAndCountOnly(t *testing.T) {
	table := loadOrders(t)
	v, err := Parse([]byte("show_group_headers: false\ngroups: [{column: status, order: count}]\nsort: [region]"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	b, err := v.Build(table.Schema)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	g, err := grid.New(b.GridConfig(table.Records))
	if err != nil {
		t.Fatalf("grid.New failed: %v", err)
	}
	defer g.Close()

	// Count ties keep first-seen order; Open comes first.
	want := []string{
		"row North/Open/100",
		"row South/Open/400",
		"row North/Closed/250.5",
		"row South/Closed/50",
	}
	if diff := cmp.Diff(want, describe(t, g, b)); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_UnknownColumns(t *testing.T) {
	table := loadOrders(t)
	v, err := Parse([]byte(`
columns: [{id: region}, {id: owner}]
groups: [{column: team}]
sort: [price]
filters: [{column: colour, match: red}]
`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	_, err = v.Build(table.Schema)
	if !errors.Is(err, columns.ErrUnknownColumn) {
		t.Fatalf("expected ErrUnknownColumn, got %v", err)
	}
	if !strings.Contains(err.Error(), `"owner"`) {
		t.Errorf("error %q does not name the unknown column", err)
	}
}

func TestBuild_UnknownReferences(t *testing.T) {
	table := loadOrders(t)
	v, err := Parse([]byte(`
groups: [{column: team}]
sort: [price]
filters: [{column: colour, match: red}]
aggregate: {column: status}
`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	_, err = v.Build(table.Schema)
	if !errors.Is(err, columns.ErrUnknownColumn) {
		t.Fatalf("expected ErrUnknownColumn, got %v", err)
	}
	for _, want := range []string{"team", "price", "colour", "not numeric"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

func TestBuild_InvalidCollation(t *testing.T) {
	table := loadOrders(t)
	v, err := Parse([]byte("columns: [{id: region, collate: 'not a tag!'}]"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if _, err := v.Build(table.Schema); err == nil || !strings.Contains(err.Error(), "collation") {
		t.Fatalf("expected collation error, got %v", err)
	}
}

func TestDataSource(t *testing.T) {
	v := DefaultView()
	if _, err := v.DataSource("x"); err == nil {
		t.Error("expected error without a source file")
	}

	v.Source = SourceConfig{File: "/data/orders.tsv"}
	ds, err := v.DataSource("orders")
	if err != nil {
		t.Fatalf("DataSource failed: %v", err)
	}
	want := &datasources.DataSource{
		Name:       "orders",
		SourceType: "csv",
		Config:     map[string]string{"file_path": "/data/orders.tsv", "delimiter": "\t"},
	}
	if diff := cmp.Diff(want, ds); diff != "" {
		t.Errorf("source mismatch (-want +got):\n%s", diff)
	}

	v.Source = SourceConfig{File: "/data/shop.db", Table: "orders"}
	ds, err = v.DataSource("shop")
	if err != nil {
		t.Fatalf("DataSource failed: %v", err)
	}
	if ds.SourceType != "sqlite" || ds.Config["table"] != "orders" {
		t.Errorf("unexpected sqlite source: %+v", ds)
	}
}
