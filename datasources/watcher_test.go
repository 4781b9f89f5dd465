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
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

func TestWatcherReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "orders.json")
	if err := os.WriteFile(path, []byte(`[{"id": 1}]`), 0644); err != nil {
		t.Fatal(err)
	}

	m := NewManager()
	name, err := m.AddFile(path, nil)
	if err != nil {
		t.Fatalf("AddFile failed: %v", err)
	}
	if _, err := m.LoadData(context.Background(), name); err != nil {
		t.Fatalf("LoadData failed: %v", err)
	}

	w, err := NewWatcher(m, name, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	reloads := make(chan *Table, 16)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(table *Table) {
			select {
			case reloads <- table:
			default:
			}
		})
	}()
	defer func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("Run returned %v", err)
		}
	}()

	// Other files in the directory are ignored
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(`[{"id": 1}, {"id": 2}]`), 0644); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case table := <-reloads:
			// A write may be seen half done; wait for the full file
			if len(table.Records) == 2 {
				return
			}
		case <-deadline:
			t.Fatal("no reload with the new records")
		}
	}
}

func TestNewWatcherErrors(t *testing.T) {
	m := NewManager()
	if _, err := NewWatcher(m, "missing", nil); err == nil {
		t.Error("expected error for unknown source")
	}

	m.AddSource(&DataSource{Name: "mem", SourceType: "json", Config: map[string]string{}})
	if _, err := NewWatcher(m, "mem", nil); err == nil {
		t.Error("expected error for source without file")
	}
}
