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

package cmd

import (
	"fmt"
	"strings"

	"github.com/google/datagrid/config"
	"github.com/google/datagrid/core/query"
	"github.com/google/datagrid/core/rendering"
	"github.com/google/datagrid/core/views"
	"github.com/spf13/cobra"
)

type renderOptions struct {
	html     bool
	offset   int
	limit    int
	sort     []string
	filters  []string
	maxWidth int
}

func newRenderCmd(root *rootOptions) *cobra.Command {
	opts := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print one page of the grid as text or HTML",
		Long: `Prints a window of the grid. Sort and filter flags replace those of the view.

Examples:
  datagrid render --sort region --sort amount:desc
  datagrid render --filter "status=Open|Shipped" --limit 20
  datagrid render --html > orders.html`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, root, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.html, "html", false, "Render HTML instead of text")
	cmd.Flags().IntVar(&opts.offset, "offset", 0, "First display row")
	cmd.Flags().IntVar(&opts.limit, "limit", query.DefaultLimit, "Number of display rows")
	cmd.Flags().StringArrayVar(&opts.sort, "sort", nil, "Sort by column[:asc|desc], repeatable, highest priority first")
	cmd.Flags().StringArrayVar(&opts.filters, "filter", nil, "Filter column=expression, repeatable")
	cmd.Flags().IntVar(&opts.maxWidth, "max-cell-width", rendering.DefaultMaxCellWidth, "Truncate text cells to this width")
	return cmd
}

func (o *renderOptions) adjust(v *config.View) error {
	if len(o.sort) > 0 {
		v.Sort = o.sort
	}
	if len(o.filters) > 0 {
		v.Filters = nil
		for _, f := range o.filters {
			col, expr, ok := strings.Cut(f, "=")
			if !ok {
				return fmt.Errorf("filter %q: expected column=expression", f)
			}
			v.Filters = append(v.Filters, config.FilterConfig{Column: strings.TrimSpace(col), Match: expr})
		}
	}
	return nil
}

func runRender(cmd *cobra.Command, root *rootOptions, opts *renderOptions) error {
	var adjustErr error
	s, err := root.openSession(cmd.Context(), false, func(v *config.View) {
		adjustErr = opts.adjust(v)
	})
	if adjustErr != nil {
		return adjustErr
	}
	if err != nil {
		return err
	}

	g, err := s.newGrid(nil)
	if err != nil {
		return err
	}
	defer g.Close()

	vm, err := views.BuildGridViewModel[config.Record, config.Summary](g, views.Options[config.Record, config.Summary]{
		Title:           s.built.Title,
		Layout:          g.Layout(),
		Query:           &query.Query{Offset: opts.offset, Limit: opts.limit},
		Sort:            g.Sort(),
		Filters:         g.Filters(),
		Widths:          g.ColumnWidths(),
		GroupLevels:     g.GroupLevels(),
		FormatAggregate: s.built.FormatAggregate,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.html {
		r, err := rendering.NewGridRenderer()
		if err != nil {
			return err
		}
		return r.Render(out, vm)
	}
	r := rendering.NewTextRenderer()
	r.MaxCellWidth = opts.maxWidth
	return r.Render(out, vm)
}
