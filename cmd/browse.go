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
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/datagrid/config"
	"github.com/google/datagrid/core/tui"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newBrowseCmd(root *rootOptions) *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the grid in the terminal",
		Long: `Opens an interactive grid. Select a column with the arrow keys, press s
to cycle its sort direction and / to filter it. Press ? for all keys.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runBrowse(ctx, root, watch)
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "Reload the source file when it changes")
	return cmd
}

func runBrowse(ctx context.Context, root *rootOptions, watch bool) error {
	s, err := root.openSession(ctx, true, nil)
	if err != nil {
		return err
	}
	if watch && s.manager == nil {
		return errors.New("--watch needs a view file; write one with 'datagrid demo DIR'")
	}

	listener := &tui.ProgramListener{}
	g, err := s.newGrid(listener)
	if err != nil {
		return err
	}
	defer g.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := tui.New(g, tui.Options[config.Summary]{
		Title:           s.built.Title,
		FormatAggregate: s.built.FormatAggregate,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	listener.Attach(p)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		// Leaving the program stops the watcher
		defer cancel()
		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return err
		}
		return nil
	})
	if watch {
		eg.Go(func() error {
			return s.watch(egCtx, g)
		})
	}
	return eg.Wait()
}
