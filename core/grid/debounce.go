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
	"time"
)

// Debouncer coalesces rapid triggers into a single call made after a quiet
// period. It holds at most one pending request: every Trigger overwrites the
// stored request and re-arms the timer, so the call always receives the most
// recent request and earlier ones are dropped, never queued.
type Debouncer[R any] struct {
	mu         sync.Mutex
	delay      time.Duration
	fire       func(R)
	timer      *time.Timer
	pending    R
	hasPending bool
	// generation identifies the latest armed timer; older timers that fire
	// anyway are ignored.
	generation uint64
	stopped    bool
}

// NewDebouncer creates a debouncer calling fire on the trailing edge.
func NewDebouncer[R any](delay time.Duration, fire func(R)) *Debouncer[R] {
	return &Debouncer[R]{
		delay: delay,
		fire:  fire,
	}
}

// Trigger stores r as the pending request and restarts the quiet period.
// Triggers after Stop are ignored.
func (d *Debouncer[R]) Trigger(r R) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.pending = r
	d.hasPending = true
	d.generation++

	if d.timer != nil {
		d.timer.Stop()
	}
	gen := d.generation
	d.timer = time.AfterFunc(d.delay, func() {
		d.run(gen)
	})
}

func (d *Debouncer[R]) run(gen uint64) {
	r, ok := d.take(gen)
	if ok {
		d.fire(r)
	}
}

// take removes the pending request if gen is still the latest generation.
func (d *Debouncer[R]) take(gen uint64) (R, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var zero R
	if d.stopped || !d.hasPending || gen != d.generation {
		return zero, false
	}
	r := d.pending
	d.pending = zero
	d.hasPending = false
	return r, true
}

// Flush runs the pending request now, on the calling goroutine, and reports
// whether there was one.
func (d *Debouncer[R]) Flush() bool {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	gen := d.generation
	d.mu.Unlock()

	r, ok := d.take(gen)
	if ok {
		d.fire(r)
	}
	return ok
}

// Pending reports whether a request is waiting for its timer.
func (d *Debouncer[R]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.hasPending
}

// Stop cancels the pending request. Later triggers are ignored.
func (d *Debouncer[R]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	var zero R
	d.pending = zero
	d.hasPending = false
}
