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
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SqliteLoader implements Loader for SQLite databases.
//
// Required config keys:
//   - file_path: Path to the database file
//
// Optional config keys:
//   - table: Table to read (required when query is not set)
//   - query: SQL query to run instead of reading a whole table
type SqliteLoader struct{}

// NewSqliteLoader creates a new SQLite loader.
func NewSqliteLoader() *SqliteLoader {
	return &SqliteLoader{}
}

// SourceType returns "sqlite".
func (l *SqliteLoader) SourceType() string {
	return "sqlite"
}

// Load runs the configured query and converts every result row to a record.
func (l *SqliteLoader) Load(ctx context.Context, config map[string]string) (*Table, error) {
	filePath := config["file_path"]
	if filePath == "" {
		return nil, fmt.Errorf("file_path is required")
	}
	q := config["query"]
	if q == "" {
		table := config["table"]
		if table == "" {
			return nil, fmt.Errorf("table or query is required")
		}
		q = fmt.Sprintf("SELECT * FROM %q", table)
	}

	db, err := sql.Open("sqlite", filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query SQLite database: %w", err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var records []Record
	values := make([]any, len(names))
	dest := make([]any, len(names))
	for i := range values {
		dest[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		r := make(Record, len(names))
		for i, name := range names {
			r[name] = sqliteValue(values[i])
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	schema := inferSchema(names, records)
	normalize(schema, records)
	return &Table{Schema: schema, Records: records}, nil
}

// sqliteValue maps a scanned SQLite value to a record value. Text that
// looks like a timestamp is parsed, since SQLite has no date type.
func sqliteValue(v any) any {
	switch x := v.(type) {
	case []byte:
		return string(x)
	case string:
		if t, ok := parseValue(x).(time.Time); ok {
			return t
		}
		return x
	}
	return v
}
