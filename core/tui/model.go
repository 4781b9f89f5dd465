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

// Package tui browses a grid in the terminal. The model never copies rows:
// every frame reads the visible window straight from the grid.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/datagrid/core/columns"
	"github.com/google/datagrid/core/grid"
	"github.com/google/datagrid/core/grouping"
	"github.com/google/datagrid/core/query"
	"github.com/google/datagrid/core/views"
	"github.com/mattn/go-runewidth"
)

const (
	// unitsPerCell converts grid widths to terminal cells.
	unitsPerCell = 8
	minCells     = 3
	resizeStep   = 2 * unitsPerCell
	// chromeLines are the title, header, status and help lines.
	chromeLines = 4
	// defaultHeight is used until the terminal reports its size.
	defaultHeight = 24
)

// Options configures a Model.
type Options[A any] struct {
	Title string
	// FormatAggregate renders group aggregates. Nil uses fmt.Sprint.
	FormatAggregate func(A) string
	Styles          *Styles
}

// Model is the bubbletea model of the grid browser.
type Model[T, A any] struct {
	grid   *grid.Grid[T, A]
	opts   Options[A]
	keys   KeyMap
	styles Styles
	help   help.Model
	input  textinput.Model

	width, height int
	start         int // first visible row
	cursor        int
	column        int // selected column in the flattened layout
	filtering     bool
	status        string
	err           error
}

// New creates a model browsing g.
func New[T, A any](g *grid.Grid[T, A], opts Options[A]) Model[T, A] {
	styles := DefaultStyles()
	if opts.Styles != nil {
		styles = *opts.Styles
	}
	input := textinput.New()
	input.Prompt = "filter: "
	input.Placeholder = `"exact" 'contains' >=10&<20 !x`
	return Model[T, A]{
		grid:   g,
		opts:   opts,
		keys:   DefaultKeyMap(),
		styles: styles,
		help:   help.New(),
		input:  input,
		height: defaultHeight,
	}
}

// Init implements tea.Model.
func (m Model[T, A]) Init() tea.Cmd {
	return nil
}

// Cursor returns the index of the highlighted display row.
func (m Model[T, A]) Cursor() int {
	return m.cursor
}

// Column returns the id of the selected column.
func (m Model[T, A]) Column() string {
	cols := m.grid.Layout().Flatten()
	if len(cols) == 0 {
		return ""
	}
	return cols[m.column].ID
}

// Status returns the last status message.
func (m Model[T, A]) Status() string {
	if m.err != nil {
		return m.err.Error()
	}
	return m.status
}

// Update implements tea.Model.
func (m Model[T, A]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.clampCursor(m.grid.TotalCount())
		return m, nil

	case RowsChangedMsg:
		// Messages may arrive out of order; the grid holds the latest count
		m.err = nil
		m.clampCursor(m.grid.TotalCount())
		return m, nil

	case ColumnResizedMsg:
		m.status = fmt.Sprintf("%s width %d", msg.ColumnID, msg.Width)
		return m, nil

	case RecomputeFailedMsg:
		m.err = msg.Err
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilter(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m Model[T, A]) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	total := m.grid.TotalCount()
	page := m.bodyHeight()
	ncols := len(m.grid.Layout().Flatten())

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.cursor--
	case key.Matches(msg, m.keys.Down):
		m.cursor++
	case key.Matches(msg, m.keys.PageUp):
		m.cursor -= page
	case key.Matches(msg, m.keys.PageDown):
		m.cursor += page
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = total - 1
	case key.Matches(msg, m.keys.Left):
		if m.column > 0 {
			m.column--
		}
	case key.Matches(msg, m.keys.Right):
		if m.column < ncols-1 {
			m.column++
		}
	case key.Matches(msg, m.keys.Sort):
		m.toggleSort()
	case key.Matches(msg, m.keys.Widen):
		m.resize(resizeStep)
	case key.Matches(msg, m.keys.Narrow):
		m.resize(-resizeStep)
	case key.Matches(msg, m.keys.Filter):
		return m.startFilter()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	m.clampCursor(total)
	return m, nil
}

func (m *Model[T, A]) toggleSort() {
	id := m.Column()
	if id == "" {
		return
	}
	dir, err := m.grid.ToggleSort(id)
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.status = fmt.Sprintf("sort %s %s", id, dir)
}

func (m *Model[T, A]) resize(delta int) {
	id := m.Column()
	if id == "" {
		return
	}
	width := max(minCells*unitsPerCell, m.grid.ColumnWidths()[id]+delta)
	if err := m.grid.ResizeColumn(id, width); err != nil {
		m.err = err
	}
}

func (m Model[T, A]) startFilter() (tea.Model, tea.Cmd) {
	id := m.Column()
	if id == "" {
		return m, nil
	}
	m.filtering = true
	value := ""
	filters := m.grid.Filters()
	if i := filters.Index(id); i >= 0 {
		value = filters[i].Expression
	}
	m.input.SetValue(value)
	m.input.Prompt = id + " filter: "
	return m, m.input.Focus()
}

func (m Model[T, A]) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filtering = false
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		m.filtering = false
		m.input.Blur()
		m.applyFilter(strings.TrimSpace(m.input.Value()))
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model[T, A]) applyFilter(expr string) {
	id := m.Column()
	if expr == "" {
		if err := m.grid.ClearFilter(id); err != nil {
			m.err = err
			return
		}
		m.err = nil
		m.status = "cleared filter on " + id
		return
	}
	matcher, err := query.ParseMatcher(expr)
	if err != nil {
		m.err = err
		return
	}
	if err := m.grid.UpsertFilter(query.Filter{ColumnID: id, Matcher: matcher, Expression: expr}); err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.status = fmt.Sprintf("filter %s %s", id, expr)
}

func (m *Model[T, A]) clampCursor(total int) {
	m.cursor = max(0, min(m.cursor, total-1))
	m.start = views.ScrollWindow(total, m.start, m.bodyHeight(), m.cursor).Start
}

func (m Model[T, A]) bodyHeight() int {
	return max(1, m.height-chromeLines)
}

// View implements tea.Model.
func (m Model[T, A]) View() string {
	var b strings.Builder
	cols := m.grid.Layout().Flatten()
	widths := m.grid.ColumnWidths()
	sort := m.grid.Sort()
	filters := m.grid.Filters()
	levels := m.grid.GroupLevels()

	b.WriteString(m.styles.Title.Render(m.opts.Title))
	b.WriteString("\n")

	headers := make([]string, len(cols))
	for i, c := range cols {
		title := c.Title
		if j := sort.Index(c.ID); j >= 0 {
			title += sortMarker(sort[j].Direction, j+1, len(sort))
		}
		if filters.Index(c.ID) >= 0 {
			title += "*"
		}
		text := fit(title, cells(widths[c.ID]))
		if i == m.column {
			headers[i] = m.styles.SelectedHeader.Render(text)
		} else {
			headers[i] = m.styles.Header.Render(text)
		}
	}
	b.WriteString(indent(levels) + strings.Join(headers, " "))
	b.WriteString("\n")

	total := m.grid.TotalCount()
	window := views.ScrollWindow(total, m.start, m.bodyHeight(), m.cursor)
	for i := window.Start; i < window.End; i++ {
		e, err := m.grid.ElementAt(i)
		if err != nil {
			// The grid republished between TotalCount and ElementAt
			break
		}
		line := m.renderElement(e, cols, widths, levels)
		if i == m.cursor {
			line = m.styles.Cursor.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	for i := window.Len(); i < m.bodyHeight(); i++ {
		b.WriteString("\n")
	}

	b.WriteString(m.statusLine(total, window))
	b.WriteString("\n")
	if m.filtering {
		b.WriteString(m.input.View())
	} else {
		b.WriteString(m.help.View(m.keys))
	}
	return b.String()
}

func (m Model[T, A]) renderElement(e grouping.Element[T, A], cols []*columns.Column[T], widths map[string]int, levels int) string {
	if e.IsGroup() {
		last := e.Group.Key.Last()
		line := fmt.Sprintf("%s▸ %s: %s (%d)", indent(e.Depth()), last.Title, views.FormatValue(last.Value), e.Group.LeafCount())
		line = m.styles.Group.Render(line)
		if agg := e.Group.Aggregate; agg != nil {
			line += " " + m.styles.Aggregate.Render(m.formatAggregate(agg.Value))
		}
		return line
	}
	cellsText := make([]string, len(cols))
	for i, c := range cols {
		cellsText[i] = fit(views.FormatValue(c.ValueOf(e.Row.Content)), cells(widths[c.ID]))
	}
	return indent(levels) + strings.Join(cellsText, " ")
}

func (m Model[T, A]) formatAggregate(a A) string {
	if m.opts.FormatAggregate != nil {
		return m.opts.FormatAggregate(a)
	}
	return fmt.Sprint(a)
}

func (m Model[T, A]) statusLine(total int, w views.Window) string {
	pending := ""
	if m.grid.Pending() {
		pending = " …"
	}
	pos := "no rows"
	if w.Len() > 0 {
		pos = fmt.Sprintf("row %d of %d", m.cursor+1, total)
	}
	if m.err != nil {
		return m.styles.Error.Render(pos + pending + " · " + m.err.Error())
	}
	if m.status != "" {
		return m.styles.Status.Render(pos + pending + " · " + m.status)
	}
	return m.styles.Status.Render(pos + pending)
}

func sortMarker(d query.Direction, priority, n int) string {
	marker := "▲"
	if d == query.Descending {
		marker = "▼"
	}
	if n > 1 {
		marker += fmt.Sprint(priority)
	}
	return " " + marker
}

func cells(width int) int {
	if width <= 0 {
		width = columns.DefaultWidth
	}
	return max(minCells, width/unitsPerCell)
}

func indent(depth int) string {
	return strings.Repeat("  ", depth)
}

// fit truncates or pads s to exactly n terminal cells.
func fit(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if runewidth.StringWidth(s) > n {
		s = runewidth.Truncate(s, n, "…")
	}
	return runewidth.FillRight(s, n)
}
