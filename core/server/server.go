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

// Package server serves a grid as HTML. The URL carries the whole view
// state (sort, filters, widths and the row window), so any view can be
// bookmarked; the records come from a live grid.
package server

import (
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/google/datagrid/core/grid"
	"github.com/google/datagrid/core/query"
	"github.com/google/datagrid/core/rendering"
	"github.com/google/datagrid/core/views"
	"go.uber.org/zap"
)

// Options configures a Server.
type Options[A any] struct {
	Title string
	// FormatAggregate renders group aggregates. Nil uses fmt.Sprint.
	FormatAggregate func(A) string
	Logger          *zap.Logger
}

// Server renders views of one grid.
type Server[T, A any] struct {
	grid     *grid.Grid[T, A]
	renderer *rendering.GridRenderer
	opts     Options[A]
	logger   *zap.Logger
}

// NewServer creates a server for the given grid.
func NewServer[T, A any](g *grid.Grid[T, A], opts Options[A]) (*Server[T, A], error) {
	renderer, err := rendering.NewGridRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server[T, A]{
		grid:     g,
		renderer: renderer,
		opts:     opts,
		logger:   logger,
	}, nil
}

// HandlerResult represents the result of handling a grid request
type HandlerResult struct {
	Error      error
	StatusCode int
	Message    string
}

// ValidationResult holds the problems found in the view state of a URL
type ValidationResult struct {
	SortErrors   map[string]string // column -> error message
	FilterErrors map[string]string // column -> error message
}

// NewValidationResult creates a new ValidationResult
func NewValidationResult() *ValidationResult {
	return &ValidationResult{
		SortErrors:   make(map[string]string),
		FilterErrors: make(map[string]string),
	}
}

// HasErrors returns true if there are any validation errors
func (v *ValidationResult) HasErrors() bool {
	return len(v.SortErrors) > 0 || len(v.FilterErrors) > 0
}

// Message summarises the errors, columns in a stable order.
func (v *ValidationResult) Message() string {
	var msgs []string
	for _, errs := range []map[string]string{v.SortErrors, v.FilterErrors} {
		for _, col := range slices.Sorted(maps.Keys(errs)) {
			msgs = append(msgs, errs[col])
		}
	}
	return strings.Join(msgs, "; ")
}

// validate checks that every column named by the query exists and that
// every filter expression parses.
func (s *Server[T, A]) validate(q *query.Query) *ValidationResult {
	result := NewValidationResult()
	layout := s.grid.Layout()
	for _, c := range q.Sort {
		if _, err := layout.Lookup(c.ColumnID); err != nil {
			result.SortErrors[c.ColumnID] = fmt.Sprintf("sort: column '%s' does not exist", c.ColumnID)
		}
	}
	for col, expr := range q.Filters {
		if _, err := layout.Lookup(col); err != nil {
			result.FilterErrors[col] = fmt.Sprintf("filter: column '%s' does not exist", col)
			continue
		}
		if _, err := query.ParseMatcher(expr); err != nil {
			result.FilterErrors[col] = err.Error()
		}
	}
	return result
}

// TimingCollector collects timing information for the stages of a request
type TimingCollector struct {
	start  time.Time
	fields []zap.Field
}

// NewTimingCollector creates a new timing collector
func NewTimingCollector() *TimingCollector {
	return &TimingCollector{start: time.Now()}
}

// Record adds a timing entry
func (tc *TimingCollector) Record(operation string, duration time.Duration) {
	tc.fields = append(tc.fields, zap.Duration(operation, duration))
}

// Fields returns the recorded stages plus the total.
func (tc *TimingCollector) Fields() []zap.Field {
	return append(tc.fields, zap.Duration("total", time.Since(tc.start)))
}

// DefaultQuery returns the query reproducing the current grid state.
func (s *Server[T, A]) DefaultQuery(path string) *query.Query {
	q := &query.Query{
		Path:         path,
		Sort:         s.grid.Sort(),
		Filters:      make(map[string]string),
		ColumnWidths: make(map[string]int),
		Limit:        query.DefaultLimit,
	}
	for _, f := range s.grid.Filters() {
		if f.Expression != "" {
			q.Filters[f.ColumnID] = f.Expression
		}
	}
	return q
}

// HandleGridRequest renders the view described by requestURL.
func (s *Server[T, A]) HandleGridRequest(w io.Writer, requestURL *url.URL, setHeader func(key, value string)) *HandlerResult {
	timing := NewTimingCollector()

	q := query.NewQuery(requestURL)
	if v := s.validate(q); v.HasErrors() {
		return &HandlerResult{StatusCode: http.StatusBadRequest, Message: v.Message()}
	}
	filters, err := q.FilterState()
	if err != nil {
		return &HandlerResult{StatusCode: http.StatusBadRequest, Message: err.Error(), Error: err}
	}

	start := time.Now()
	rows, err := s.grid.ComputeView(q.Sort, filters)
	if err != nil {
		return &HandlerResult{StatusCode: http.StatusInternalServerError, Message: "failed to compute rows", Error: err}
	}
	timing.Record("compute", time.Since(start))

	widths := s.grid.ColumnWidths()
	for col, width := range q.ColumnWidths {
		widths[col] = width
	}

	start = time.Now()
	vm, err := views.BuildGridViewModel[T, A](rows, views.Options[T, A]{
		Title:           s.opts.Title,
		Layout:          s.grid.Layout(),
		Query:           q,
		Sort:            q.Sort,
		Filters:         filters,
		Widths:          widths,
		GroupLevels:     s.grid.GroupLevels(),
		FormatAggregate: s.opts.FormatAggregate,
	})
	if err != nil {
		return &HandlerResult{StatusCode: http.StatusInternalServerError, Message: "failed to build view", Error: err}
	}
	timing.Record("build", time.Since(start))

	setHeader("Content-Type", "text/html; charset=utf-8")
	start = time.Now()
	if err := s.renderer.Render(w, vm); err != nil {
		// The response may be partially written; only log
		s.logger.Error("template rendering failed", zap.Error(err))
		return nil
	}
	timing.Record("render", time.Since(start))

	s.logger.Debug("served grid",
		append(timing.Fields(), zap.String("url", requestURL.String()), zap.Int("rows", rows.TotalCount()))...)
	return nil
}

// ServeHTTP implements http.Handler. A request without parameters is
// redirected to the URL of the current grid state.
func (s *Server[T, A]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if r.URL.RawQuery == "" {
		http.Redirect(w, r, s.DefaultQuery(r.URL.Path).ToURL(), http.StatusFound)
		return
	}

	result := s.HandleGridRequest(w, r.URL, w.Header().Set)
	if result == nil {
		return
	}
	if result.Error != nil {
		s.logger.Error(result.Message, zap.Error(result.Error))
	}
	http.Error(w, result.Message, result.StatusCode)
}
