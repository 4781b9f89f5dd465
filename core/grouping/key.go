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

package grouping

import (
	"fmt"
	"strings"
)

// KeyPart is one level of a composite group key.
type KeyPart struct {
	Title string
	Value any
}

// Key is the composite key of a group node: an ordered mapping from each
// ancestor grouping level's title to the key value extracted at that level.
// Keys are immutable; With returns an extended copy so sibling branches never
// share a backing array.
type Key struct {
	parts []KeyPart
}

// NewKey builds a key from parts, outermost level first.
func NewKey(parts ...KeyPart) Key {
	k := Key{}
	for _, p := range parts {
		k = k.With(p.Title, p.Value)
	}
	return k
}

// With returns a new key extended by one level.
func (k Key) With(title string, value any) Key {
	parts := make([]KeyPart, len(k.parts), len(k.parts)+1)
	copy(parts, k.parts)
	return Key{parts: append(parts, KeyPart{Title: title, Value: value})}
}

// Get returns the value recorded for the given level title.
func (k Key) Get(title string) (any, bool) {
	for _, p := range k.parts {
		if p.Title == title {
			return p.Value, true
		}
	}
	return nil, false
}

// Len is the number of levels in the key, i.e. the depth of its node.
func (k Key) Len() int {
	return len(k.parts)
}

// Parts returns a copy of the levels, outermost first.
func (k Key) Parts() []KeyPart {
	result := make([]KeyPart, len(k.parts))
	copy(result, k.parts)
	return result
}

// Last returns the innermost level. The zero KeyPart for an empty key.
func (k Key) Last() KeyPart {
	if len(k.parts) == 0 {
		return KeyPart{}
	}
	return k.parts[len(k.parts)-1]
}

// Value is the innermost key value.
func (k Key) Value() any {
	return k.Last().Value
}

// Equal reports whether both keys have the same levels and values.
func (k Key) Equal(other Key) bool {
	if len(k.parts) != len(other.parts) {
		return false
	}
	for i, p := range k.parts {
		if p.Title != other.parts[i].Title || fmt.Sprint(p.Value) != fmt.Sprint(other.parts[i].Value) {
			return false
		}
	}
	return true
}

// String renders the key as "title=value/title=value".
func (k Key) String() string {
	parts := make([]string, len(k.parts))
	for i, p := range k.parts {
		parts[i] = fmt.Sprintf("%s=%v", p.Title, p.Value)
	}
	return strings.Join(parts, "/")
}
