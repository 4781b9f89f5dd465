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

package grid

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type calls struct {
	mu   sync.Mutex
	seen []int
}

func (c *calls) record(v int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seen = append(c.seen, v)
}

func (c *calls) get() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]int(nil), c.seen...)
}

func TestDebouncerSingleTrigger(t *testing.T) {
	var c calls
	d := NewDebouncer(10*time.Millisecond, c.record)
	defer d.Stop()

	d.Trigger(7)
	assert.True(t, d.Pending())
	require.Eventually(t, func() bool { return len(c.get()) == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, []int{7}, c.get())
	assert.False(t, d.Pending())
}

func TestDebouncerKeepsLatestRequest(t *testing.T) {
	var c calls
	d := NewDebouncer(30*time.Millisecond, c.record)
	defer d.Stop()

	for i := 1; i <= 10; i++ {
		d.Trigger(i)
		time.Sleep(2 * time.Millisecond)
	}
	require.Eventually(t, func() bool { return len(c.get()) > 0 }, time.Second, time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, []int{10}, c.get())
}

func TestDebouncerFlush(t *testing.T) {
	var c calls
	d := NewDebouncer(time.Hour, c.record)
	defer d.Stop()

	assert.False(t, d.Flush(), "nothing pending")
	d.Trigger(1)
	d.Trigger(2)
	assert.True(t, d.Flush())
	assert.Equal(t, []int{2}, c.get())
	assert.False(t, d.Pending())
}

func TestDebouncerStop(t *testing.T) {
	var c calls
	d := NewDebouncer(5*time.Millisecond, c.record)

	d.Trigger(1)
	d.Stop()
	d.Trigger(2)
	time.Sleep(30 * time.Millisecond)

	assert.Empty(t, c.get())
	assert.False(t, d.Pending())
}
