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

// Package grid owns the state of one data grid: the records, the grouping
// levels, the sort and filter state and the published display rows. Changes
// are recomputed from scratch through the pipeline; the first run is
// synchronous, later ones are debounced.
package grid

import (
	"errors"
	"fmt"
	"maps"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/datagrid/core/columns"
	"github.com/google/datagrid/core/grouping"
	"github.com/google/datagrid/core/pipeline"
	"github.com/google/datagrid/core/query"
	"go.uber.org/zap"
)

// DefaultDebounceDelay is the quiet period before a debounced recompute.
const DefaultDebounceDelay = 250 * time.Millisecond

// ErrIndexOutOfRange is returned by ElementAt for an index outside
// [0, TotalCount).
var ErrIndexOutOfRange = pipeline.ErrIndexOutOfRange

// ErrInvalidWidth is returned by ResizeColumn for a width below 1.
var ErrInvalidWidth = errors.New("invalid column width")

// Config configures a grid.
type Config[T, A any] struct {
	Layout        *columns.Layout[T]
	Groups        []*grouping.Group[T, A]
	Data          []T
	InitialSort   query.SortState
	InitialFilter query.FilterState
	// Aggregates is optional; without it group nodes carry no aggregate.
	Aggregates grouping.AggregateCalculator[T, A]
	// HideGroupHeaders drops group header rows from the display sequence.
	HideGroupHeaders bool
	Listener         Listener
	Logger           *zap.Logger
	// DebounceDelay defaults to DefaultDebounceDelay.
	DebounceDelay time.Duration
}

// Snapshot is one published result of the pipeline. It is never modified
// after publication.
type Snapshot[T, A any] struct {
	Rows    pipeline.Rows[T, A]
	Sort    query.SortState
	Filters query.FilterState
	// Version increases with every published snapshot.
	Version uint64
}

// request captures everything a recompute needs
type request[T, A any] struct {
	data    []T
	groups  []*grouping.Group[T, A]
	sort    query.SortState
	filters query.FilterState
	seq     uint64
}

// Grid is safe for concurrent use.
type Grid[T, A any] struct {
	pipeline  pipeline.Pipeline[T, A]
	listener  Listener
	logger    *zap.Logger
	debouncer *Debouncer[request[T, A]]

	mu      sync.Mutex // guards the fields below
	data    []T
	groups  []*grouping.Group[T, A]
	sort    query.SortState
	filters query.FilterState
	widths  map[string]int
	seq     uint64 // number of requests handed out

	recomputeMu sync.Mutex // serialises recomputes
	version     uint64
	published   uint64 // seq of the published request
	current     atomic.Pointer[Snapshot[T, A]]
}

// New creates a grid and runs the pipeline once, synchronously, so rows are
// available as soon as New returns. An unknown sort or filter column fails
// with columns.ErrUnknownColumn.
func New[T, A any](cfg Config[T, A]) (*Grid[T, A], error) {
	if cfg.Layout == nil {
		return nil, errors.New("grid: layout is required")
	}
	if err := cfg.Layout.Validate(); err != nil {
		return nil, fmt.Errorf("grid: %w", err)
	}
	g := &Grid[T, A]{
		pipeline: pipeline.Pipeline[T, A]{
			Layout:           cfg.Layout,
			Aggregates:       cfg.Aggregates,
			ShowGroupHeaders: !cfg.HideGroupHeaders,
		},
		listener: cfg.Listener,
		logger:   cfg.Logger,
		data:     cfg.Data,
		groups:   cfg.Groups,
		sort:     cfg.InitialSort.Clone(),
		filters:  cfg.InitialFilter.Clone(),
		widths:   cfg.Layout.InitialWidths(),
	}
	if g.listener == nil {
		g.listener = NopListener{}
	}
	if g.logger == nil {
		g.logger = zap.NewNop()
	}
	delay := cfg.DebounceDelay
	if delay <= 0 {
		delay = DefaultDebounceDelay
	}
	g.debouncer = NewDebouncer(delay, g.recomputeDebounced)

	if err := g.recompute(g.snapshotRequest()); err != nil {
		return nil, fmt.Errorf("initial recompute: %w", err)
	}
	return g, nil
}

func (g *Grid[T, A]) snapshotRequest() request[T, A] {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.requestLocked()
}

func (g *Grid[T, A]) requestLocked() request[T, A] {
	g.seq++
	return request[T, A]{
		seq:     g.seq,
		data:    g.data,
		groups:  g.groups,
		sort:    g.sort,
		filters: g.filters,
	}
}

// recompute runs the pipeline and publishes the result. On error nothing is
// published.
func (g *Grid[T, A]) recompute(req request[T, A]) error {
	g.recomputeMu.Lock()
	defer g.recomputeMu.Unlock()

	// A newer request already won a race with this one
	if req.seq < g.published {
		g.logger.Debug("dropping stale recompute", zap.Uint64("seq", req.seq))
		return nil
	}

	start := time.Now()
	rows, err := g.pipeline.Compute(req.data, req.groups, req.sort, req.filters)
	if err != nil {
		return err
	}

	g.version++
	g.published = req.seq
	g.current.Store(&Snapshot[T, A]{
		Rows:    rows,
		Sort:    req.sort,
		Filters: req.filters,
		Version: g.version,
	})
	g.logger.Debug("recomputed rows",
		zap.Int("records", len(req.data)),
		zap.Int("groups", len(req.groups)),
		zap.Int("rows", rows.TotalCount()),
		zap.Uint64("version", g.version),
		zap.Duration("elapsed", time.Since(start)))

	g.listener.RowsChanged(rows.TotalCount())
	return nil
}

func (g *Grid[T, A]) recomputeDebounced(req request[T, A]) {
	if err := g.recompute(req); err != nil {
		g.logger.Error("debounced recompute failed, keeping previous rows", zap.Error(err))
		g.listener.RecomputeFailed(err)
	}
}

// OnDataChanged replaces the records and grouping levels and schedules a
// debounced recompute. Rapid calls collapse into one recompute using the
// latest arguments.
func (g *Grid[T, A]) OnDataChanged(data []T, groups []*grouping.Group[T, A]) {
	g.mu.Lock()
	g.data = data
	g.groups = groups
	req := g.requestLocked()
	g.mu.Unlock()

	g.debouncer.Trigger(req)
}

// UpdateSort sets the direction of one column, keeping its priority when it
// is already sorted and appending it otherwise. None removes the column.
// An unknown column fails with columns.ErrUnknownColumn and leaves the state
// unchanged; otherwise a debounced recompute is scheduled.
func (g *Grid[T, A]) UpdateSort(columnID string, direction query.Direction) error {
	if _, err := g.pipeline.Layout.Lookup(columnID); err != nil {
		return err
	}

	g.mu.Lock()
	g.sort = g.sort.Update(columnID, direction)
	req := g.requestLocked()
	g.mu.Unlock()

	g.debouncer.Trigger(req)
	return nil
}

// ToggleSort moves a column to its next direction (none, asc, desc, none)
// and returns the new direction.
func (g *Grid[T, A]) ToggleSort(columnID string) (query.Direction, error) {
	next := g.Sort().Direction(columnID).Next()
	if err := g.UpdateSort(columnID, next); err != nil {
		return query.None, err
	}
	return next, nil
}

// UpdateFilter sets the matcher of one column, replacing any existing filter
// on that column. An unknown column fails with columns.ErrUnknownColumn and
// leaves the state unchanged; otherwise a debounced recompute is scheduled.
func (g *Grid[T, A]) UpdateFilter(columnID string, matcher query.Matcher) error {
	return g.UpsertFilter(query.Filter{ColumnID: columnID, Matcher: matcher})
}

// UpsertFilter is UpdateFilter for a filter carrying its source expression.
func (g *Grid[T, A]) UpsertFilter(filter query.Filter) error {
	if _, err := g.pipeline.Layout.Lookup(filter.ColumnID); err != nil {
		return err
	}

	g.mu.Lock()
	g.filters = g.filters.Upsert(filter)
	req := g.requestLocked()
	g.mu.Unlock()

	g.debouncer.Trigger(req)
	return nil
}

// ClearFilter removes the filter of one column.
func (g *Grid[T, A]) ClearFilter(columnID string) error {
	if _, err := g.pipeline.Layout.Lookup(columnID); err != nil {
		return err
	}

	g.mu.Lock()
	if g.filters.Index(columnID) < 0 {
		g.mu.Unlock()
		return nil
	}
	g.filters = g.filters.Remove(columnID)
	req := g.requestLocked()
	g.mu.Unlock()

	g.debouncer.Trigger(req)
	return nil
}

// ResizeColumn records the width of a column or column group and notifies
// the listener. Rows are not recomputed.
func (g *Grid[T, A]) ResizeColumn(columnID string, width int) error {
	if !g.pipeline.Layout.Has(columnID) {
		return fmt.Errorf("%w %q", columns.ErrUnknownColumn, columnID)
	}
	if width < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidWidth, width)
	}

	g.mu.Lock()
	g.widths[columnID] = width
	g.mu.Unlock()

	g.listener.ColumnResized(columnID, width)
	return nil
}

// Snapshot returns the latest published rows.
func (g *Grid[T, A]) Snapshot() *Snapshot[T, A] {
	return g.current.Load()
}

// TotalCount returns the number of published display rows.
func (g *Grid[T, A]) TotalCount() int {
	return g.current.Load().Rows.TotalCount()
}

// ElementAt returns the published display row at index. An index outside
// [0, TotalCount) fails with ErrIndexOutOfRange.
func (g *Grid[T, A]) ElementAt(index int) (grouping.Element[T, A], error) {
	return g.current.Load().Rows.ElementAt(index)
}

// ComputeView runs the pipeline over the current records with another sort
// and filter state. Nothing is published and the grid state is unchanged.
func (g *Grid[T, A]) ComputeView(sort query.SortState, filters query.FilterState) (pipeline.Rows[T, A], error) {
	g.mu.Lock()
	data, groups := g.data, g.groups
	g.mu.Unlock()
	return g.pipeline.Compute(data, groups, sort, filters)
}

// GroupLevels returns the number of grouping levels.
func (g *Grid[T, A]) GroupLevels() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.groups)
}

// Layout returns the columns of the grid.
func (g *Grid[T, A]) Layout() *columns.Layout[T] {
	return g.pipeline.Layout
}

// Sort returns the current sort state, including changes not yet recomputed.
func (g *Grid[T, A]) Sort() query.SortState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sort.Clone()
}

// Filters returns the current filter state, including changes not yet
// recomputed.
func (g *Grid[T, A]) Filters() query.FilterState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.filters.Clone()
}

// ColumnWidths returns a copy of the width of every column and column group.
func (g *Grid[T, A]) ColumnWidths() map[string]int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return maps.Clone(g.widths)
}

// Pending reports whether a debounced recompute is waiting.
func (g *Grid[T, A]) Pending() bool {
	return g.debouncer.Pending()
}

// Flush runs a pending debounced recompute immediately and reports whether
// there was one.
func (g *Grid[T, A]) Flush() bool {
	return g.debouncer.Flush()
}

// Close cancels any pending recompute. The published rows stay readable.
func (g *Grid[T, A]) Close() {
	g.debouncer.Stop()
}
