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

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles of the grid browser.
type Styles struct {
	Title          lipgloss.Style
	Header         lipgloss.Style
	SelectedHeader lipgloss.Style
	Group          lipgloss.Style
	Aggregate      lipgloss.Style
	Cursor         lipgloss.Style
	Status         lipgloss.Style
	Error          lipgloss.Style
}

// DefaultStyles returns the default styles.
func DefaultStyles() Styles {
	return Styles{
		Title:          lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BC34A")),
		Header:         lipgloss.NewStyle().Bold(true).Underline(true),
		SelectedHeader: lipgloss.NewStyle().Bold(true).Underline(true).Reverse(true),
		Group:          lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2196F3")),
		Aggregate:      lipgloss.NewStyle().Faint(true),
		Cursor:         lipgloss.NewStyle().Reverse(true),
		Status:         lipgloss.NewStyle().Faint(true),
		Error:          lipgloss.NewStyle().Foreground(lipgloss.Color("#e53935")),
	}
}

// PlainStyles returns styles that add no escape sequences.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Title:          plain,
		Header:         plain,
		SelectedHeader: plain,
		Group:          plain,
		Aggregate:      plain,
		Cursor:         plain,
		Status:         plain,
		Error:          plain,
	}
}
