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
	"path/filepath"
	"strings"

	"github.com/google/datagrid/config"
	"github.com/google/datagrid/core/grid"
	"github.com/google/datagrid/datasources"
	"github.com/google/datagrid/demo"
	"go.uber.org/zap"
)

// session is a loaded view with its data.
type session struct {
	view    *config.View
	built   *config.Built
	table   *datasources.Table
	logger  *zap.Logger
	manager *datasources.Manager // nil for the built-in demo
	source  string
}

// openSession loads the view and its data. adjust may change the view
// before it is resolved against the data.
func (o *rootOptions) openSession(ctx context.Context, quiet bool, adjust func(*config.View)) (*session, error) {
	s := &session{}
	var err error

	if o.viewPath == "" {
		if s.view, err = demo.View(); err != nil {
			return nil, err
		}
		if s.table, err = demo.Table(); err != nil {
			return nil, err
		}
	} else {
		if s.view, err = config.Load(o.viewPath); err != nil {
			return nil, err
		}
		s.source = strings.TrimSuffix(filepath.Base(o.viewPath), filepath.Ext(o.viewPath))
		src, err := s.view.DataSource(s.source)
		if err != nil {
			return nil, err
		}
		s.manager = datasources.NewManager()
		s.manager.AddSource(src)
		if s.table, err = s.manager.LoadData(ctx, s.source); err != nil {
			return nil, err
		}
	}

	if o.logger, err = o.newLogger(s.view.Logging, quiet); err != nil {
		return nil, err
	}
	s.logger = o.logger

	if adjust != nil {
		adjust(s.view)
		if err := s.view.Validate(); err != nil {
			return nil, err
		}
	}
	if s.built, err = s.view.Build(s.table.Schema); err != nil {
		return nil, err
	}
	s.logger.Debug("view loaded",
		zap.String("title", s.view.Title),
		zap.Int("records", len(s.table.Records)),
		zap.Int("columns", len(s.table.Schema.Columns)))
	return s, nil
}

// newGrid creates the grid of the session.
func (s *session) newGrid(listener grid.Listener) (*grid.Grid[config.Record, config.Summary], error) {
	cfg := s.built.GridConfig(s.table.Records)
	cfg.Logger = s.logger
	cfg.Listener = listener
	return grid.New(cfg)
}

// watch feeds every reload of the source file into g until ctx is done.
func (s *session) watch(ctx context.Context, g *grid.Grid[config.Record, config.Summary]) error {
	if s.manager == nil {
		return errors.New("--watch needs a view file; write one with 'datagrid demo DIR'")
	}
	w, err := datasources.NewWatcher(s.manager, s.source, s.logger)
	if err != nil {
		return err
	}
	return w.Run(ctx, func(t *datasources.Table) {
		g.OnDataChanged(t.Records, s.built.Groups)
	})
}
