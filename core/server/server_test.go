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

package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/datagrid/core/aggregates"
	"github.com/google/datagrid/core/columns"
	"github.com/google/datagrid/core/grid"
	"github.com/google/datagrid/core/grouping"
	"github.com/google/datagrid/core/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type order struct {
	Region string
	Item   string
	Amount int
}

func newServer(t *testing.T) (*Server[order, int], *grid.Grid[order, int]) {
	t.Helper()
	layout := columns.NewLayout(
		columns.NewColumn("region", "Region", func(o order) any { return o.Region }),
		columns.NewColumn("item", "Item", func(o order) any { return o.Item }),
		columns.NewColumn("amount", "Amount", func(o order) any { return o.Amount }),
	)
	g, err := grid.New(grid.Config[order, int]{
		Layout: layout,
		Groups: []*grouping.Group[order, int]{
			grouping.NewGroup[order, int]("region", "Region", func(o order) any { return o.Region }),
		},
		Data: []order{
			{"North", "apple", 30},
			{"South", "banana", 10},
			{"North", "cherry", 20},
		},
		Aggregates:  aggregates.Count[order](),
		InitialSort: query.SortState{{ColumnID: "amount", Direction: query.Descending}},
		InitialFilter: query.FilterState{{
			ColumnID:   "item",
			Matcher:    query.MustParseMatcher("!banana"),
			Expression: "!banana",
		}},
	})
	require.NoError(t, err)
	t.Cleanup(g.Close)

	s, err := NewServer(g, Options[int]{Title: "Orders", Logger: zaptest.NewLogger(t)})
	require.NoError(t, err)
	return s, g
}

func get(t *testing.T, s http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestRedirectsToCurrentState(t *testing.T) {
	s, _ := newServer(t)
	rec := get(t, s, "/grid")

	require.Equal(t, http.StatusFound, rec.Code)
	loc := rec.Header().Get("Location")
	assert.Contains(t, loc, "/grid?")
	assert.Contains(t, loc, "sort=amount%3Adesc")
	assert.Contains(t, loc, "filter%3Aitem=%21banana")
}

func TestRendersURLState(t *testing.T) {
	s, g := newServer(t)
	rec := get(t, s, "/grid?sort=amount:asc&limit=10")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "Orders")

	// No filter in the URL: banana is back, and amounts ascend within North.
	assert.Contains(t, body, "banana")
	cherry, apple := strings.Index(body, "cherry"), strings.Index(body, "apple")
	require.True(t, cherry >= 0 && apple >= 0)
	assert.Less(t, cherry, apple)

	// The grid itself is untouched
	assert.Equal(t, query.SortState{{ColumnID: "amount", Direction: query.Descending}}, g.Sort())
	assert.False(t, g.Pending())
}

func TestRendersFilter(t *testing.T) {
	s, _ := newServer(t)
	rec := get(t, s, "/grid?filter:region=South")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "banana")
	assert.NotContains(t, body, "apple")
}

func TestRejectsInvalidState(t *testing.T) {
	s, _ := newServer(t)

	rec := get(t, s, "/grid?sort=missing:asc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "column 'missing' does not exist")

	rec = get(t, s, "/grid?filter:amount=%3Eten")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "not a number")
}

func TestRejectsOtherMethods(t *testing.T) {
	s, _ := newServer(t)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/grid?limit=5", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestValidationResultMessage(t *testing.T) {
	v := NewValidationResult()
	assert.False(t, v.HasErrors())
	v.FilterErrors["b"] = "filter b"
	v.SortErrors["z"] = "sort z"
	v.SortErrors["a"] = "sort a"
	assert.True(t, v.HasErrors())
	assert.Equal(t, "sort a; sort z; filter b", v.Message())
}
