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
	"testing"
)

func TestManagerLoadFile(t *testing.T) {
	path := writeFile(t, "orders.json", `[{"region": "North"}, {"region": "South"}]`)

	manager := NewManager()
	name, err := manager.AddFile(path, nil)
	if err != nil {
		t.Fatalf("AddFile failed: %v", err)
	}
	if name != "orders" {
		t.Errorf("expected source name orders, got %q", name)
	}
	if manager.IsLoaded(name) {
		t.Error("orders should not be loaded yet")
	}

	table, err := manager.LoadData(context.Background(), name)
	if err != nil {
		t.Fatalf("failed to load data: %v", err)
	}
	if len(table.Records) != 2 {
		t.Errorf("expected 2 records, got %d", len(table.Records))
	}

	// Second load is served from the cache
	if err := os.WriteFile(path, []byte(`[]`), 0644); err != nil {
		t.Fatal(err)
	}
	table2, err := manager.LoadData(context.Background(), name)
	if err != nil {
		t.Fatal(err)
	}
	if table != table2 {
		t.Error("expected same table instance from cache")
	}

	manager.InvalidateCache(name)
	if manager.IsLoaded(name) {
		t.Error("orders should not be loaded after invalidation")
	}
	table3, err := manager.LoadData(context.Background(), name)
	if err != nil {
		t.Fatal(err)
	}
	if len(table3.Records) != 0 {
		t.Errorf("expected reloaded empty table, got %d records", len(table3.Records))
	}
}

func TestManagerRelativePaths(t *testing.T) {
	path := writeFile(t, "data.csv", "a\n1\n")

	manager := NewManager()
	manager.SetBaseDir(path[:len(path)-len("data.csv")])
	manager.AddSource(&DataSource{Name: "data", SourceType: "csv", Config: map[string]string{"file_path": "data.csv"}})

	table, err := manager.LoadData(context.Background(), "data")
	if err != nil {
		t.Fatalf("failed to load relative path: %v", err)
	}
	if len(table.Records) != 1 {
		t.Errorf("expected 1 record, got %d", len(table.Records))
	}
	if got := manager.GetSourceNames(); len(got) != 1 || got[0] != "data" {
		t.Errorf("unexpected source names %v", got)
	}
}

func TestManagerErrors(t *testing.T) {
	manager := NewManager()
	if _, err := manager.LoadData(context.Background(), "missing"); err == nil {
		t.Error("expected error for unknown source")
	}

	manager.AddSource(&DataSource{Name: "x", SourceType: "parquet"})
	if _, err := manager.LoadData(context.Background(), "x"); err == nil {
		t.Error("expected error for unknown loader")
	}

	if _, err := manager.AddFile("data.xlsx", nil); err == nil {
		t.Error("expected error for unknown extension")
	}
}

func TestSourceTypeFor(t *testing.T) {
	tests := map[string]string{
		"a.json":   "json",
		"a.JSONL":  "json",
		"a.csv":    "csv",
		"a.tsv":    "csv",
		"a.sqlite": "sqlite",
		"a.db":     "sqlite",
	}
	for path, want := range tests {
		got, err := SourceTypeFor(path)
		if err != nil || got != want {
			t.Errorf("SourceTypeFor(%q) = %q, %v; want %q", path, got, err, want)
		}
	}
}
