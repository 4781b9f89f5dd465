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

// Package demo ships a small orders dataset with a grouped view of it.
package demo

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/datagrid/config"
	"github.com/google/datagrid/datasources"
)

//go:embed orders.yaml
var viewYAML []byte

//go:embed orders.json
var ordersJSON []byte

// View returns the demo view: orders grouped by region and category.
func View() (*config.View, error) {
	v, err := config.Parse(viewYAML)
	if err != nil {
		return nil, fmt.Errorf("demo view: %w", err)
	}
	return v, nil
}

// Table returns the demo orders.
func Table() (*datasources.Table, error) {
	return datasources.ParseJSON(ordersJSON)
}

// WriteFiles writes the demo view and data to dir, so they can be edited
// and watched, and returns the path of the view.
func WriteFiles(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	for name, data := range map[string][]byte{
		"orders.yaml": viewYAML,
		"orders.json": ordersJSON,
	} {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
			return "", fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	return filepath.Join(dir, "orders.yaml"), nil
}
