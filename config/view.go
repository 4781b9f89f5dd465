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

// Package config reads grid view definitions from YAML: which columns to
// show, how to group, sort and filter the records and what to aggregate.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/datagrid/core/aggregates"
	"github.com/google/datagrid/core/columns"
	"github.com/google/datagrid/core/query"
	"gopkg.in/yaml.v3"
)

// View is a grid view definition.
type View struct {
	Title            string          `yaml:"title"`
	Debounce         string          `yaml:"debounce"`
	ShowGroupHeaders *bool           `yaml:"show_group_headers"`
	Source           SourceConfig    `yaml:"source"`
	Columns          []ColumnConfig  `yaml:"columns"`
	Groups           []GroupConfig   `yaml:"groups"`
	Sort             []string        `yaml:"sort"`    // "column" or "column:desc", highest priority first
	Filters          []FilterConfig  `yaml:"filters"` // all must match
	Aggregate        AggregateConfig `yaml:"aggregate"`
	Logging          LoggingConfig   `yaml:"logging"`
}

// SourceConfig points at the records of the view. Relative paths are
// resolved against the directory of the view file.
type SourceConfig struct {
	File  string `yaml:"file"`
	Type  string `yaml:"type"`  // json, csv or sqlite; default from the extension
	Table string `yaml:"table"` // sqlite only
	Query string `yaml:"query"` // sqlite only
}

// ColumnConfig is a column, or a column group when Columns is set.
type ColumnConfig struct {
	ID      string         `yaml:"id"`
	Title   string         `yaml:"title"`
	Width   int            `yaml:"width"`
	Collate string         `yaml:"collate"` // BCP 47 tag for locale-aware string order
	Columns []ColumnConfig `yaml:"columns"`
}

// GroupConfig is one grouping level, outermost first.
type GroupConfig struct {
	Column    string `yaml:"column"`
	Title     string `yaml:"title"`
	Order     string `yaml:"order"`     // key (default) or an aggregate: count, sum, avg, ...
	Direction string `yaml:"direction"` // asc (default) or desc
}

// FilterConfig filters on one column with a matcher expression.
type FilterConfig struct {
	Column string `yaml:"column"`
	Match  string `yaml:"match"`
}

// AggregateConfig selects the numeric column summarised per group. Without
// a column groups only count their records.
type AggregateConfig struct {
	Column string `yaml:"column"`
	Show   string `yaml:"show"` // aggregate shown in headers besides the count, default sum
}

// LoggingConfig configures the CLI logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// DefaultView returns the defaults every loaded view starts from.
func DefaultView() *View {
	return &View{
		Title:    "Grid",
		Debounce: "250ms",
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads a view from a YAML file. A relative source file is resolved
// against the directory of path.
func Load(path string) (*View, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read view: %w", err)
	}
	v, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if v.Source.File != "" && !filepath.IsAbs(v.Source.File) {
		v.Source.File = filepath.Join(filepath.Dir(path), v.Source.File)
	}
	return v, nil
}

// Parse decodes a view over the defaults and validates it.
func Parse(data []byte) (*View, error) {
	v := DefaultView()
	if err := yaml.Unmarshal(data, v); err != nil {
		return nil, fmt.Errorf("failed to parse view: %w", err)
	}
	v.applyEnvOverrides()
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return v, nil
}

// Save writes the view as YAML.
func (v *View) Save(path string) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal view: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write view: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (v *View) applyEnvOverrides() {
	if level := os.Getenv("DATAGRID_LOG_LEVEL"); level != "" {
		v.Logging.Level = level
	}
	if d := os.Getenv("DATAGRID_DEBOUNCE"); d != "" {
		v.Debounce = d
	}
}

// GetDebounce returns the debounce delay as a duration.
func (v *View) GetDebounce() time.Duration {
	d, err := time.ParseDuration(v.Debounce)
	if err != nil || d <= 0 {
		return 250 * time.Millisecond
	}
	return d
}

// GroupHeaders reports whether group header rows are shown; they are unless
// the view turns them off.
func (v *View) GroupHeaders() bool {
	return v.ShowGroupHeaders == nil || *v.ShowGroupHeaders
}

// Validate checks the view for errors that do not depend on the data.
// Column references are checked by Build, once the schema is known.
func (v *View) Validate() error {
	var errs []error

	if v.Debounce != "" {
		if _, err := time.ParseDuration(v.Debounce); err != nil {
			errs = append(errs, fmt.Errorf("debounce: %w", err))
		}
	}

	seen := make(map[string]bool)
	var checkColumns func(cols []ColumnConfig, nested bool)
	checkColumns = func(cols []ColumnConfig, nested bool) {
		for _, c := range cols {
			switch {
			case c.ID == "":
				errs = append(errs, errors.New("column without id"))
				continue
			case seen[c.ID]:
				errs = append(errs, fmt.Errorf("%w %q", columns.ErrDuplicateColumn, c.ID))
			}
			seen[c.ID] = true
			if len(c.Columns) > 0 {
				if nested {
					errs = append(errs, fmt.Errorf("column group %q: groups cannot nest", c.ID))
				}
				checkColumns(c.Columns, true)
			}
		}
	}
	checkColumns(v.Columns, false)

	for i, g := range v.Groups {
		if g.Column == "" {
			errs = append(errs, fmt.Errorf("group %d: column is required", i))
		}
		if _, err := parseGroupOrder(g.Order); err != nil {
			errs = append(errs, fmt.Errorf("group %q: %w", g.Column, err))
		}
		if _, err := query.ParseDirection(g.Direction); err != nil {
			errs = append(errs, fmt.Errorf("group %q: %w", g.Column, err))
		}
	}

	for _, s := range v.Sort {
		if _, err := parseSort(s); err != nil {
			errs = append(errs, err)
		}
	}

	for _, f := range v.Filters {
		if f.Column == "" {
			errs = append(errs, errors.New("filter without column"))
		}
		if _, err := query.ParseMatcher(f.Match); err != nil {
			errs = append(errs, err)
		}
	}

	if v.Aggregate.Show != "" {
		if _, err := aggregates.ParseKind(v.Aggregate.Show); err != nil {
			errs = append(errs, fmt.Errorf("aggregate: %w", err))
		}
	}

	switch strings.ToLower(v.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging: unknown level %q", v.Logging.Level))
	}

	return errors.Join(errs...)
}

// parseGroupOrder returns nil for key order, else the aggregate kind.
func parseGroupOrder(s string) (*aggregates.Kind, error) {
	if s == "" || s == "key" {
		return nil, nil
	}
	k, err := aggregates.ParseKind(s)
	if err != nil {
		return nil, err
	}
	return &k, nil
}

// parseSort parses "column" or "column:direction".
func parseSort(s string) (query.SortCriterion, error) {
	col, dirStr, hasDir := strings.Cut(strings.TrimSpace(s), ":")
	if col == "" {
		return query.SortCriterion{}, fmt.Errorf("sort %q: column is required", s)
	}
	dir := query.Ascending
	if hasDir && dirStr != "" {
		d, err := query.ParseDirection(dirStr)
		if err != nil {
			return query.SortCriterion{}, fmt.Errorf("sort %q: %w", s, err)
		}
		dir = d
	}
	return query.SortCriterion{ColumnID: col, Direction: dir}, nil
}
