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

package datasources

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reloads a file source whenever the file changes on disk. Events
// are not debounced here; consumers such as the grid coalesce rapid reloads.
type Watcher struct {
	manager *Manager
	source  string
	path    string
	logger  *zap.Logger
	watcher *fsnotify.Watcher
}

// NewWatcher watches the file of a registered source.
func NewWatcher(manager *Manager, sourceName string, logger *zap.Logger) (*Watcher, error) {
	source := manager.GetSource(sourceName)
	if source == nil {
		return nil, fmt.Errorf("source %q not found", sourceName)
	}
	path := manager.resolveConfigPaths(source.Config, manager.baseDirectory())["file_path"]
	if path == "" {
		return nil, fmt.Errorf("source %q has no file to watch", sourceName)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory: editors often replace the file instead of
	// writing it, which would end a watch on the file itself
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	return &Watcher{
		manager: manager,
		source:  sourceName,
		path:    abs,
		logger:  logger,
		watcher: w,
	}, nil
}

// Run delivers every successful reload to onReload until ctx is done.
// Load errors are logged and the previous data stays in use.
func (w *Watcher) Run(ctx context.Context, onReload func(*Table)) error {
	defer w.watcher.Close()
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug("source changed", zap.String("source", w.source), zap.String("op", event.Op.String()))

			w.manager.InvalidateCache(w.source)
			table, err := w.manager.LoadData(ctx, w.source)
			if err != nil {
				// Usually a half-written file; the next write event retries
				w.logger.Warn("reload failed", zap.String("source", w.source), zap.Error(err))
				continue
			}
			w.logger.Info("source reloaded", zap.String("source", w.source), zap.Int("records", len(table.Records)))
			onReload(table)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watch error", zap.String("source", w.source), zap.Error(err))
		}
	}
}
