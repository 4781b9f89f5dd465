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
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/datagrid/core/aggregates"
	"github.com/google/datagrid/core/columns"
	"github.com/google/datagrid/core/grid"
	"github.com/google/datagrid/core/grouping"
	"github.com/google/datagrid/core/query"
	"github.com/google/datagrid/datasources"
)

// Record and Summary fix the type parameters of grids built from views.
type (
	Record  = datasources.Record
	Summary = *aggregates.Summary
)

// Built holds everything a grid over datasources records needs.
type Built struct {
	Title      string
	Layout     *columns.Layout[Record]
	Groups     []*grouping.Group[Record, Summary]
	Sort       query.SortState
	Filters    query.FilterState
	Aggregates grouping.AggregateCalculator[Record, Summary]
	// Show is the aggregate printed in group headers besides the count.
	Show             aggregates.Kind
	ShowGroupHeaders bool
	View             *View
}

// Build resolves the view against a table schema. Without configured columns
// every schema column is shown in schema order.
func (v *View) Build(schema *datasources.TableSchema) (*Built, error) {
	layout, err := v.buildLayout(schema)
	if err != nil {
		return nil, err
	}

	var errs []error
	b := &Built{
		Title:            v.Title,
		Layout:           layout,
		ShowGroupHeaders: v.GroupHeaders(),
		Show:             aggregates.KindSum,
		View:             v,
	}

	for _, gc := range v.Groups {
		g, err := buildGroup(gc, layout)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		b.Groups = append(b.Groups, g)
	}

	for _, s := range v.Sort {
		c, err := parseSort(s)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if _, err := layout.Lookup(c.ColumnID); err != nil {
			errs = append(errs, fmt.Errorf("sort: %w", err))
			continue
		}
		b.Sort = b.Sort.Update(c.ColumnID, c.Direction)
	}

	for _, fc := range v.Filters {
		if _, err := layout.Lookup(fc.Column); err != nil {
			errs = append(errs, fmt.Errorf("filter: %w", err))
			continue
		}
		m, err := query.ParseMatcher(fc.Match)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		b.Filters = b.Filters.Upsert(query.Filter{ColumnID: fc.Column, Matcher: m, Expression: fc.Match})
	}

	col := v.Aggregate.Column
	if col != "" {
		cs := schema.Column(col)
		switch {
		case cs == nil:
			errs = append(errs, fmt.Errorf("aggregate: %w %q", columns.ErrUnknownColumn, col))
		case !cs.Type.IsNumeric():
			errs = append(errs, fmt.Errorf("aggregate: column %q is %s, not numeric", col, cs.Type))
		}
	}
	b.Aggregates = aggregates.Summarize(func(r Record) (float64, bool) {
		if col == "" {
			return 0, false
		}
		return r.Float(col)
	})
	if v.Aggregate.Show != "" {
		if k, err := aggregates.ParseKind(v.Aggregate.Show); err == nil {
			b.Show = k
		}
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return b, nil
}

func (v *View) buildLayout(schema *datasources.TableSchema) (*columns.Layout[Record], error) {
	layout := columns.NewLayout[Record]()
	if len(v.Columns) == 0 {
		for _, cs := range schema.Columns {
			layout.Add(recordColumn(ColumnConfig{ID: cs.Name}, nil))
		}
		return layout, nil
	}

	var errs []error
	column := func(cc ColumnConfig) *columns.Column[Record] {
		if schema.Column(cc.ID) == nil {
			errs = append(errs, fmt.Errorf("column: %w %q", columns.ErrUnknownColumn, cc.ID))
		}
		var cmp columns.Comparator
		if cc.Collate != "" {
			c, err := columns.Collated(cc.Collate)
			if err != nil {
				errs = append(errs, fmt.Errorf("column %q: %w", cc.ID, err))
			}
			cmp = c
		}
		return recordColumn(cc, cmp)
	}

	for _, cc := range v.Columns {
		if len(cc.Columns) == 0 {
			layout.Add(column(cc))
			continue
		}
		g := columns.NewColumnGroup[Record](cc.ID, titleOr(cc.Title, cc.ID))
		g.Width = cc.Width
		for _, member := range cc.Columns {
			g.Columns = append(g.Columns, column(member))
		}
		layout.AddGroup(g)
	}
	if err := layout.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return layout, nil
}

func recordColumn(cc ColumnConfig, cmp columns.Comparator) *columns.Column[Record] {
	id := cc.ID
	return columns.NewColumn(id, titleOr(cc.Title, id), func(r Record) any {
		return r.Value(id)
	}).WithWidth(cc.Width).WithComparator(cmp)
}

func buildGroup(gc GroupConfig, layout *columns.Layout[Record]) (*grouping.Group[Record, Summary], error) {
	col, err := layout.Lookup(gc.Column)
	if err != nil {
		return nil, fmt.Errorf("group: %w", err)
	}
	order, err := parseGroupOrder(gc.Order)
	if err != nil {
		return nil, fmt.Errorf("group %q: %w", gc.Column, err)
	}
	dir, err := query.ParseDirection(gc.Direction)
	if err != nil {
		return nil, fmt.Errorf("group %q: %w", gc.Column, err)
	}

	var c grouping.GroupComparator[Summary]
	if order == nil {
		c = grouping.ByKey[Summary](col.CompareValues)
	} else {
		c = aggregates.BySummary(*order)
	}
	if dir == query.Descending {
		c = grouping.Descending(c)
	}

	title := titleOr(gc.Title, col.Title)
	return grouping.NewGroup[Record, Summary](gc.Column, title, col.ValueOf).WithComparator(c), nil
}

func titleOr(title, id string) string {
	if title != "" {
		return title
	}
	return strings.ReplaceAll(id, "_", " ")
}

// GridConfig returns the grid configuration for the built view.
func (b *Built) GridConfig(data []Record) grid.Config[Record, Summary] {
	return grid.Config[Record, Summary]{
		Layout:           b.Layout,
		Groups:           b.Groups,
		Data:             data,
		InitialSort:      b.Sort,
		InitialFilter:    b.Filters,
		Aggregates:       b.Aggregates,
		HideGroupHeaders: !b.ShowGroupHeaders,
		DebounceDelay:    b.View.GetDebounce(),
	}
}

// FormatAggregate renders a group summary as its record count and the
// configured aggregate.
func (b *Built) FormatAggregate(s Summary) string {
	if s == nil {
		return ""
	}
	if b.Show == aggregates.KindCount || s.Count == 0 {
		return fmt.Sprintf("%s%d", aggregates.KindCount.Symbol(), s.Records)
	}
	return fmt.Sprintf("%s%d %s%s", aggregates.KindCount.Symbol(), s.Records, b.Show.Symbol(), s.Format(b.Show))
}

// DataSource returns the source described by the view under the given name.
func (v *View) DataSource(name string) (*datasources.DataSource, error) {
	if v.Source.File == "" {
		return nil, errors.New("view has no source file")
	}
	typ := v.Source.Type
	if typ == "" {
		t, err := datasources.SourceTypeFor(v.Source.File)
		if err != nil {
			return nil, err
		}
		typ = t
	}
	cfg := map[string]string{"file_path": v.Source.File}
	if v.Source.Table != "" {
		cfg["table"] = v.Source.Table
	}
	if v.Source.Query != "" {
		cfg["query"] = v.Source.Query
	}
	if strings.EqualFold(filepath.Ext(v.Source.File), ".tsv") {
		cfg["delimiter"] = "\t"
	}
	return &datasources.DataSource{Name: name, SourceType: typ, Config: cfg}, nil
}
