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

package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// RowsChangedMsg reports a published recompute. Total is the count at
// publish time and may be stale by the time the message is handled.
type RowsChangedMsg struct {
	Total int
}

// ColumnResizedMsg reports a new column width.
type ColumnResizedMsg struct {
	ColumnID string
	Width    int
}

// RecomputeFailedMsg reports a failed debounced recompute.
type RecomputeFailedMsg struct {
	Err error
}

// ProgramListener turns grid notifications into program messages. It is
// created before the program, so notifications arriving before Attach are
// dropped; the model reads the grid when it first renders anyway.
type ProgramListener struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

// Attach starts forwarding to p. Messages are sent from a new goroutine
// because the grid may notify from inside Update, where a blocking Send
// would never be received.
func (l *ProgramListener) Attach(p *tea.Program) {
	l.SetSender(func(msg tea.Msg) { go p.Send(msg) })
}

// SetSender forwards notifications to send.
func (l *ProgramListener) SetSender(send func(tea.Msg)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.send = send
}

func (l *ProgramListener) forward(msg tea.Msg) {
	l.mu.Lock()
	send := l.send
	l.mu.Unlock()
	if send != nil {
		send(msg)
	}
}

func (l *ProgramListener) RowsChanged(total int) {
	l.forward(RowsChangedMsg{Total: total})
}

func (l *ProgramListener) ColumnResized(columnID string, width int) {
	l.forward(ColumnResizedMsg{ColumnID: columnID, Width: width})
}

func (l *ProgramListener) RecomputeFailed(err error) {
	l.forward(RecomputeFailedMsg{Err: err})
}
