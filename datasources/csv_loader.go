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
	"encoding/csv"
	"fmt"
	"os"
)

// CsvLoader implements Loader for CSV files. Column types are inferred from
// the data: int64, float64, bool, datetime and duration cells are converted,
// anything else stays a string.
//
// Required config keys:
//   - file_path: Path to the CSV file
//
// Optional config keys:
//   - has_header: "true" or "false" (default: "true")
//   - delimiter: Field delimiter (default: ",")
type CsvLoader struct{}

// NewCsvLoader creates a new CSV loader.
func NewCsvLoader() *CsvLoader {
	return &CsvLoader{}
}

// SourceType returns "csv".
func (l *CsvLoader) SourceType() string {
	return "csv"
}

// Load loads a CSV file.
func (l *CsvLoader) Load(_ context.Context, config map[string]string) (*Table, error) {
	filePath := config["file_path"]
	if filePath == "" {
		return nil, fmt.Errorf("file_path is required")
	}

	hasHeader := config["has_header"] != "false"

	delimiter := ','
	if d := config["delimiter"]; d != "" {
		delimiter = []rune(d)[0]
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("CSV file is empty")
	}

	// Determine column names
	var columnNames []string
	dataStart := 0
	if hasHeader {
		columnNames = rows[0]
		dataStart = 1
	} else {
		for i := range rows[0] {
			columnNames = append(columnNames, fmt.Sprintf("col_%d", i))
		}
	}

	records := make([]Record, 0, len(rows)-dataStart)
	for _, row := range rows[dataStart:] {
		r := make(Record, len(columnNames))
		for i, name := range columnNames {
			if i < len(row) {
				r[name] = parseValue(row[i])
			} else {
				r[name] = nil
			}
		}
		records = append(records, r)
	}

	schema := inferSchema(columnNames, records)
	normalize(schema, records)
	return &Table{Schema: schema, Records: records}, nil
}
