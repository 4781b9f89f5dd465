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
	"bufio"
	"bytes"
	"context"
	"fmt"
	"math"
	"os"
	"slices"
	"time"

	"github.com/goccy/go-json"
)

// JsonLoader implements Loader for JSON files holding either an array of
// objects or one object per line (JSON lines). Strings that look like
// timestamps or durations are converted the same way CSV cells are.
//
// Required config keys:
//   - file_path: Path to the JSON file
type JsonLoader struct{}

// NewJsonLoader creates a new JSON loader.
func NewJsonLoader() *JsonLoader {
	return &JsonLoader{}
}

// SourceType returns "json".
func (l *JsonLoader) SourceType() string {
	return "json"
}

// Load loads a JSON or JSON lines file.
func (l *JsonLoader) Load(_ context.Context, config map[string]string) (*Table, error) {
	filePath := config["file_path"]
	if filePath == "" {
		return nil, fmt.Errorf("file_path is required")
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON file: %w", err)
	}
	return ParseJSON(data)
}

// ParseJSON decodes records from JSON or JSON lines.
func ParseJSON(data []byte) (*Table, error) {
	var objects []map[string]any
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &objects); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	} else {
		scanner := bufio.NewScanner(bytes.NewReader(trimmed))
		scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
		line := 0
		for scanner.Scan() {
			line++
			text := bytes.TrimSpace(scanner.Bytes())
			if len(text) == 0 {
				continue
			}
			var obj map[string]any
			if err := json.Unmarshal(text, &obj); err != nil {
				return nil, fmt.Errorf("failed to parse JSON line %d: %w", line, err)
			}
			objects = append(objects, obj)
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to read JSON lines: %w", err)
		}
	}

	// Objects carry no column order; use sorted names
	seen := make(map[string]bool)
	var names []string
	records := make([]Record, len(objects))
	for i, obj := range objects {
		r := make(Record, len(obj))
		for k, v := range obj {
			r[k] = jsonValue(v)
			if !seen[k] {
				seen[k] = true
				names = append(names, k)
			}
		}
		records[i] = r
	}
	slices.Sort(names)

	schema := inferSchema(names, records)
	normalize(schema, records)
	return &Table{Schema: schema, Records: records}, nil
}

// jsonValue maps a decoded JSON value to a record value. Nested arrays and
// objects are kept as their JSON text.
func jsonValue(v any) any {
	switch x := v.(type) {
	case nil, bool:
		return x
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < 1<<53 {
			return int64(x)
		}
		return x
	case string:
		// Quoted numbers and booleans stay text
		switch parsed := parseValue(x).(type) {
		case time.Time, time.Duration:
			return parsed
		}
		return x
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
}
