package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/haldane/eegx/internal/forms"
)

var _ list.Item = actionItem{}

// actionItem wraps a pipeline action name to implement [list.Item].
type actionItem struct {
	action string
}

func (i actionItem) FilterValue() string { return i.action }
func (i actionItem) Title() string       { return i.action }
func (i actionItem) Description() string {
	sections := forms.RequiredSections(i.action)
	if len(sections) == 0 {
		return "no adjustable settings"
	}
	return strings.Join(sections, " • ")
}
