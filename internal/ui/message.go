package ui

import (
	"github.com/haldane/eegx/internal/services"
)

// sessionLoadedMsg delivers the hydrated session document, creating a session
// on the backend when none existed.
type sessionLoadedMsg struct {
	doc services.SessionDocument
	err error
}

// formBuiltMsg delivers the wired section tabs for a selected action.
type formBuiltMsg struct {
	action string
	forms  []*sectionForm
	err    error
}
