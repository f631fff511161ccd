package ui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/haldane/eegx/internal/forms"
)

// fieldWidget is the editable state for one schema field.
//
// Text, integer and number fields share a textinput; checkbox and list fields
// keep their own state and render as inline toggles.
type fieldWidget struct {
	field   forms.Field
	input   textinput.Model
	checked bool
	optIdx  int
	invalid bool
}

func newFieldWidget(field forms.Field, current any) *fieldWidget {
	w := &fieldWidget{field: field}

	switch field.Kind {
	case forms.FieldCheckbox:
		w.checked, _ = current.(bool)
	case forms.FieldList:
		w.optIdx = optionIndex(field.Options, formatFieldValue(current))
	default:
		w.input = textinput.New()
		w.input.Placeholder = field.Placeholder
		w.input.CharLimit = 64
		w.input.Width = 24
		w.input.SetValue(formatFieldValue(current))
	}

	return w
}

// toggle flips a checkbox field and writes the new value into the cache.
func (w *fieldWidget) toggle(cache *forms.ValueCache) {
	if w.field.Kind != forms.FieldCheckbox {
		return
	}
	w.checked = !w.checked
	cache.SetField(w.field.Name, w.checked)
}

// cycle moves a list field's selection by delta and writes the new option.
func (w *fieldWidget) cycle(cache *forms.ValueCache, delta int) {
	if w.field.Kind != forms.FieldList || len(w.field.Options) == 0 {
		return
	}
	n := len(w.field.Options)
	w.optIdx = ((w.optIdx+delta)%n + n) % n
	cache.SetField(w.field.Name, w.field.Options[w.optIdx])
}

// commit parses the text buffer per the field kind and writes it into the
// cache. Unparseable numeric input marks the widget invalid and is not
// written, so the last good value stays in flight.
func (w *fieldWidget) commit(cache *forms.ValueCache) {
	raw := w.input.Value()

	value, err := parseFieldValue(w.field.Kind, raw)
	if err != nil {
		w.invalid = true
		return
	}

	w.invalid = false
	cache.SetField(w.field.Name, value)
}

func (w *fieldWidget) focus() {
	if w.field.Kind != forms.FieldCheckbox && w.field.Kind != forms.FieldList {
		w.input.Focus()
	}
}

func (w *fieldWidget) blur() {
	w.input.Blur()
}

// valueView renders the widget's value portion.
func (w *fieldWidget) valueView() string {
	switch w.field.Kind {
	case forms.FieldCheckbox:
		if w.checked {
			return "[x]"
		}
		return "[ ]"
	case forms.FieldList:
		if len(w.field.Options) == 0 {
			return "(no options)"
		}
		return fmt.Sprintf("◂ %s ▸", w.field.Options[w.optIdx])
	default:
		return w.input.View()
	}
}

// parseFieldValue converts raw text input into the wire value for the kind.
// A blank buffer yields the empty string, which the cache stores as nil.
func parseFieldValue(kind forms.FieldKind, raw string) (any, error) {
	if raw == "" {
		return "", nil
	}

	switch kind {
	case forms.FieldInteger:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("not an integer: %q", raw)
		}
		return n, nil
	case forms.FieldNumber:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("not a number: %q", raw)
		}
		return f, nil
	default:
		return raw, nil
	}
}

// formatFieldValue renders a stored value back into editable text.
func formatFieldValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}

func optionIndex(options []string, value string) int {
	for i, opt := range options {
		if opt == value {
			return i
		}
	}
	return 0
}
