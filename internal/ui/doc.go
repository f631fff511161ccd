// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a two-level workflow for editing pipeline settings:
//  1. [ActionListView] : Browse pipeline actions and pick one to configure
//  2. [FormView] : Edit the action's section forms, one tab per section
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Each section tab owns a value cache and a sync scheduler, so edits debounce and
// flow to the backend without blocking the render loop.
//
// Keyboard navigation uses arrow keys for field focus, tab/shift+tab for section
// tabs, and space/left/right for checkbox and option fields, with contextual help
// displayed via charmbracelet/bubbles/help.
package ui
