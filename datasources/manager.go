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
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// DataSource names a source and tells which loader reads it and how.
type DataSource struct {
	Name       string
	SourceType string
	Config     map[string]string
}

// Manager handles loading and caching of data sources.
// Sources are registered up front; data is loaded lazily on demand.
type Manager struct {
	mu sync.RWMutex

	// Source metadata indexed by name
	sources map[string]*DataSource

	// Cached tables indexed by source name - populated lazily
	tables map[string]*Table

	// Registered loaders indexed by source type
	loaders map[string]Loader

	// Base directory for resolving relative paths
	baseDir string
}

// NewManager creates a data source manager with the built-in loaders
// registered.
func NewManager() *Manager {
	m := &Manager{
		sources: make(map[string]*DataSource),
		tables:  make(map[string]*Table),
		loaders: make(map[string]Loader),
	}
	m.RegisterLoader(NewJsonLoader())
	m.RegisterLoader(NewCsvLoader())
	m.RegisterLoader(NewSqliteLoader())
	return m
}

// RegisterLoader registers a data source loader for a specific source type.
// If a loader is already registered for this type, it will be replaced.
func (m *Manager) RegisterLoader(loader Loader) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loaders[loader.SourceType()] = loader
}

// SetBaseDir sets the directory relative file paths are resolved against.
func (m *Manager) SetBaseDir(dir string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.baseDir = dir
}

// AddSource registers a source, replacing any source of the same name and
// dropping its cached data.
func (m *Manager) AddSource(source *DataSource) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sources[source.Name] = source
	delete(m.tables, source.Name)
}

// AddFile registers a file source named after the file, picking the loader
// from the extension, and returns the source name.
func (m *Manager) AddFile(path string, config map[string]string) (string, error) {
	sourceType, err := SourceTypeFor(path)
	if err != nil {
		return "", err
	}
	cfg := maps.Clone(config)
	if cfg == nil {
		cfg = make(map[string]string)
	}
	cfg["file_path"] = path
	if strings.EqualFold(filepath.Ext(path), ".tsv") && cfg["delimiter"] == "" {
		cfg["delimiter"] = "\t"
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	m.AddSource(&DataSource{Name: name, SourceType: sourceType, Config: cfg})
	return name, nil
}

// SourceTypeFor maps a file extension to a source type.
func SourceTypeFor(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonl", ".ndjson":
		return "json", nil
	case ".csv", ".tsv":
		return "csv", nil
	case ".db", ".sqlite", ".sqlite3":
		return "sqlite", nil
	}
	return "", fmt.Errorf("no loader for file %q", path)
}

// GetSourceNames returns all registered source names, sorted.
func (m *Manager) GetSourceNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Sorted(maps.Keys(m.sources))
}

// GetSource returns the source metadata for a given name.
// Returns nil if the source is not found.
func (m *Manager) GetSource(name string) *DataSource {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sources[name]
}

// LoadData loads data for a source by name.
// Returns cached data if already loaded; otherwise loads from the source.
func (m *Manager) LoadData(ctx context.Context, sourceName string) (*Table, error) {
	m.mu.RLock()
	if table, ok := m.tables[sourceName]; ok {
		m.mu.RUnlock()
		return table, nil
	}
	source, ok := m.sources[sourceName]
	if !ok {
		m.mu.RUnlock()
		return nil, fmt.Errorf("source %q not found", sourceName)
	}
	loader, hasLoader := m.loaders[source.SourceType]
	baseDir := m.baseDir
	m.mu.RUnlock()

	if !hasLoader {
		return nil, fmt.Errorf("no loader registered for source type %q", source.SourceType)
	}

	config := m.resolveConfigPaths(source.Config, baseDir)
	table, err := loader.Load(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to load source %q: %w", sourceName, err)
	}

	m.mu.Lock()
	m.tables[sourceName] = table
	m.mu.Unlock()
	return table, nil
}

func (m *Manager) baseDirectory() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.baseDir
}

// resolveConfigPaths makes a relative file_path absolute against baseDir.
func (m *Manager) resolveConfigPaths(config map[string]string, baseDir string) map[string]string {
	resolved := maps.Clone(config)
	if resolved == nil {
		resolved = make(map[string]string)
	}
	if p := resolved["file_path"]; p != "" && baseDir != "" && !filepath.IsAbs(p) {
		resolved["file_path"] = filepath.Join(baseDir, p)
	}
	return resolved
}

// InvalidateCache drops the cached data of a source; the next LoadData
// reads it again.
func (m *Manager) InvalidateCache(sourceName string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tables, sourceName)
}

// IsLoaded reports whether the data of a source is cached.
func (m *Manager) IsLoaded(sourceName string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.tables[sourceName]
	return ok
}
