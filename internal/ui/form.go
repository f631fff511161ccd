package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/haldane/eegx/internal/forms"
)

// sectionForm owns the editing state for one section tab: the schema, a value
// cache hydrated from the session document, a sync scheduler flushing edits to
// the backend, and one widget per field.
type sectionForm struct {
	section  string // display name
	endpoint string
	schema   *forms.Schema
	cache    *forms.ValueCache
	sched    *forms.SyncScheduler
	widgets  []*fieldWidget
	focus    int
}

// newSectionForm builds a fully wired section tab.
//
// The cache is hydrated with the saved session values before widgets are
// seeded, so widgets show server state where it exists and schema defaults
// where it does not. Hydration happens before the scheduler could observe an
// edit, so it never triggers a patch.
func newSectionForm(section string, schema *forms.Schema, store forms.Patcher, interval time.Duration, logger *log.Logger, saved map[string]any) *sectionForm {
	endpoint, _ := forms.SectionEndpoint(section)

	cache := forms.NewValueCache(endpoint)
	sched := forms.NewSyncScheduler(store, endpoint, interval, logger)
	sched.Bind(cache)
	cache.ReplaceAll(saved)

	widgets := make([]*fieldWidget, 0, len(schema.Fields))
	for _, field := range schema.Fields {
		// non-widget properties in the schema document are not editable
		if !field.Kind.Valid() {
			continue
		}
		current, ok := cache.Get(field.Name)
		if !ok {
			current = field.Default
		}
		widgets = append(widgets, newFieldWidget(field, current))
	}

	f := &sectionForm{
		section:  section,
		endpoint: endpoint,
		schema:   schema,
		cache:    cache,
		sched:    sched,
		widgets:  widgets,
	}
	f.focusWidget(0)
	return f
}

// close stops the scheduler. Pending edits already in flight still land.
func (f *sectionForm) close() {
	f.sched.Close()
}

func (f *sectionForm) focusWidget(i int) {
	if len(f.widgets) == 0 {
		return
	}
	f.widgets[f.focus].blur()
	f.focus = ((i % len(f.widgets)) + len(f.widgets)) % len(f.widgets)
	f.widgets[f.focus].focus()
}

func (f *sectionForm) focused() *fieldWidget {
	if len(f.widgets) == 0 {
		return nil
	}
	return f.widgets[f.focus]
}

// update routes a key to the focused widget. Text-backed widgets commit after
// every keystroke so debouncing happens in the scheduler, not the UI.
func (f *sectionForm) update(msg tea.KeyMsg) tea.Cmd {
	w := f.focused()
	if w == nil {
		return nil
	}

	switch w.field.Kind {
	case forms.FieldCheckbox:
		if msg.String() == " " || msg.String() == "enter" {
			w.toggle(f.cache)
		}
		return nil

	case forms.FieldList:
		switch msg.String() {
		case "left":
			w.cycle(f.cache, -1)
		case "right", "enter", " ":
			w.cycle(f.cache, 1)
		}
		return nil

	default:
		var cmd tea.Cmd
		before := w.input.Value()
		w.input, cmd = w.input.Update(msg)
		if w.input.Value() != before {
			w.commit(f.cache)
		}
		return cmd
	}
}

// view renders the section's fields in schema order, with group headers where
// the schema declares them.
func (f *sectionForm) view() string {
	if len(f.widgets) == 0 {
		return styles.help.Render("This section has no fields.")
	}

	var b strings.Builder
	group := ""
	for i, w := range f.widgets {
		if w.field.Group != "" && w.field.Group != group {
			group = w.field.Group
			b.WriteString(styles.group.Render(group))
			b.WriteString("\n")
		}

		cursor := "  "
		label := w.field.Label()
		if i == f.focus {
			cursor = "> "
			label = styles.focused.Render(label)
		}

		line := fmt.Sprintf("%s%s: %s", cursor, label, w.valueView())
		if w.field.Unit != "" {
			line += " " + styles.help.Render(w.field.Unit)
		}
		if w.invalid {
			line += " " + styles.warn.Render("(invalid)")
		}

		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
