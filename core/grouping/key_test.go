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
	"testing"
)

func TestKeyWithDoesNotShareState(t *testing.T) {
	parent := NewKey(KeyPart{Title: "Region", Value: "North"})

	// Siblings extended from the same parent must not overwrite each other
	a := parent.With("Status", "Open")
	b := parent.With("Status", "Closed")

	if v, _ := a.Get("Status"); v != "Open" {
		t.Errorf("expected Open, got %v", v)
	}
	if v, _ := b.Get("Status"); v != "Closed" {
		t.Errorf("expected Closed, got %v", v)
	}
	if parent.Len() != 1 {
		t.Errorf("parent key was modified: %s", parent)
	}
}

func TestKeyAccessors(t *testing.T) {
	k := NewKey().With("Region", "North").With("Year", 2024)

	if k.Len() != 2 {
		t.Fatalf("expected 2 levels, got %d", k.Len())
	}
	if k.Value() != 2024 || k.Last().Title != "Year" {
		t.Errorf("unexpected innermost level %+v", k.Last())
	}
	if _, ok := k.Get("Missing"); ok {
		t.Error("Get should fail for unknown level")
	}
	if got := k.String(); got != "Region=North/Year=2024" {
		t.Errorf("unexpected String() %q", got)
	}

	parts := k.Parts()
	parts[0].Value = "changed"
	if v, _ := k.Get("Region"); v != "North" {
		t.Error("Parts must return a copy")
	}

	if !k.Equal(NewKey(KeyPart{"Region", "North"}, KeyPart{"Year", 2024})) {
		t.Error("expected equal keys")
	}
	if k.Equal(NewKey(KeyPart{"Region", "North"})) {
		t.Error("keys of different depth must differ")
	}

	var empty Key
	if empty.Last() != (KeyPart{}) || empty.String() != "" {
		t.Error("unexpected zero key behaviour")
	}
}
