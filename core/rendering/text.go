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

package rendering

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/datagrid/core/views"
	"github.com/mattn/go-runewidth"
)

// DefaultMaxCellWidth caps the width of a text column, in terminal cells.
const DefaultMaxCellWidth = 32

// TextRenderer renders grid view models as a plain text table with ASCII
// borders. Widths are measured in terminal cells, so wide runes line up.
type TextRenderer struct {
	MaxCellWidth int
}

// NewTextRenderer creates a text renderer with the default cell width cap.
func NewTextRenderer() *TextRenderer {
	return &TextRenderer{MaxCellWidth: DefaultMaxCellWidth}
}

// Render writes the table to w.
func (r *TextRenderer) Render(w io.Writer, vm views.GridViewModel) error {
	var sb strings.Builder
	widths := r.columnWidths(vm)

	border := borderLine(widths)
	sb.WriteString(border)

	// Column group titles only when the layout has groups
	if hasGroupHeader(vm.Headers) {
		col := 0
		for _, h := range vm.Headers {
			span := widths[col : col+h.Span]
			// Inner width of spanned cells plus the separators between them
			inner := -3
			for _, sw := range span {
				inner += sw + 3
			}
			sb.WriteString("| ")
			title := ""
			if h.IsGroup {
				title = h.Title
			}
			sb.WriteString(fit(title, inner))
			sb.WriteString(" ")
			col += h.Span
		}
		sb.WriteString("|\n")
	}

	for i, c := range vm.Columns {
		sb.WriteString("| ")
		sb.WriteString(fit(strings.TrimSpace(c.Title+" "+c.SortSymbol), widths[i]))
		sb.WriteString(" ")
	}
	sb.WriteString("|\n")
	sb.WriteString(border)

	total := tableWidth(widths)
	for _, row := range vm.Rows {
		if row.IsGroup {
			text := fmt.Sprintf("%s%s: %s (%d)", strings.Repeat("  ", row.Depth), row.GroupTitle, row.GroupValue, row.LeafCount)
			if row.Aggregate != "" {
				text += "  " + row.Aggregate
			}
			sb.WriteString("| ")
			sb.WriteString(fit(text, total-4))
			sb.WriteString(" |\n")
			continue
		}
		for i, cell := range row.Cells {
			if i == 0 {
				cell = strings.Repeat("  ", row.Depth) + cell
			}
			sb.WriteString("| ")
			sb.WriteString(fit(cell, widths[i]))
			sb.WriteString(" ")
		}
		sb.WriteString("|\n")
	}
	sb.WriteString(border)

	if vm.FirstRow > 0 {
		fmt.Fprintf(&sb, "rows %d-%d of %d\n", vm.FirstRow, vm.LastRow, vm.TotalRows)
	} else {
		sb.WriteString("no rows\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// columnWidths returns the display width of every flattened column
func (r *TextRenderer) columnWidths(vm views.GridViewModel) []int {
	maxWidth := r.MaxCellWidth
	if maxWidth <= 0 {
		maxWidth = DefaultMaxCellWidth
	}
	widths := make([]int, len(vm.Columns))
	for i, c := range vm.Columns {
		widths[i] = max(1, runewidth.StringWidth(strings.TrimSpace(c.Title+" "+c.SortSymbol)))
	}
	for _, row := range vm.Rows {
		for i, cell := range row.Cells {
			w := runewidth.StringWidth(cell)
			if i == 0 {
				w += 2 * row.Depth
			}
			widths[i] = max(widths[i], w)
		}
	}
	for i := range widths {
		widths[i] = min(widths[i], maxWidth)
	}

	// Column group titles must fit over their members
	col := 0
	for _, h := range vm.Headers {
		if h.IsGroup && h.Span > 0 {
			need := runewidth.StringWidth(h.Title)
			have := -3
			for _, w := range widths[col : col+h.Span] {
				have += w + 3
			}
			if need > have {
				widths[col+h.Span-1] += need - have
			}
		}
		col += h.Span
	}
	return widths
}

func hasGroupHeader(headers []views.HeaderCell) bool {
	for _, h := range headers {
		if h.IsGroup {
			return true
		}
	}
	return false
}

// tableWidth is the width of a full line including the outer borders
func tableWidth(widths []int) int {
	total := 1
	for _, w := range widths {
		total += w + 3
	}
	return total
}

func borderLine(widths []int) string {
	var sb strings.Builder
	for _, w := range widths {
		sb.WriteString("+")
		sb.WriteString(strings.Repeat("-", w+2))
	}
	sb.WriteString("+\n")
	return sb.String()
}

// fit truncates or pads s to exactly width terminal cells
func fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, "…")
	}
	return runewidth.FillRight(s, width)
}
