package ui

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/haldane/eegx/internal/forms"
	"github.com/haldane/eegx/internal/shared"
)

type nopPatcher struct {
	mu    sync.Mutex
	calls int
}

func (p *nopPatcher) Patch(ctx context.Context, section string, values map[string]any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return nil
}

func (p *nopPatcher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func testSchema() *forms.Schema {
	return &forms.Schema{
		Section: "filter",
		Title:   "Filtering and Cleaning",
		Fields: []forms.Field{
			{Name: "l_freq", Kind: forms.FieldNumber, Title: "Low cutoff", Default: 1.0, Unit: "Hz"},
			{Name: "notch", Kind: forms.FieldCheckbox, Default: true},
			{Name: "method", Kind: forms.FieldList, Options: []string{"fir", "iir"}},
			{Name: "montage", Kind: forms.FieldText, Placeholder: "standard_1020"},
		},
	}
}

func TestParseFieldValue(t *testing.T) {
	t.Run("Blank Clears", func(t *testing.T) {
		v, err := parseFieldValue(forms.FieldNumber, "")
		if err != nil || v != "" {
			t.Errorf("expected empty string, got %v (%v)", v, err)
		}
	})

	t.Run("Integer", func(t *testing.T) {
		v, err := parseFieldValue(forms.FieldInteger, "40")
		if err != nil || v != 40 {
			t.Errorf("expected 40, got %v (%v)", v, err)
		}

		if _, err := parseFieldValue(forms.FieldInteger, "4.5"); err == nil {
			t.Error("expected error for fractional integer input")
		}
	})

	t.Run("Number", func(t *testing.T) {
		v, err := parseFieldValue(forms.FieldNumber, "1.5")
		if err != nil || v != 1.5 {
			t.Errorf("expected 1.5, got %v (%v)", v, err)
		}

		if _, err := parseFieldValue(forms.FieldNumber, "abc"); err == nil {
			t.Error("expected error for non-numeric input")
		}
	})

	t.Run("Text Passes Through", func(t *testing.T) {
		v, err := parseFieldValue(forms.FieldText, "standard_1020")
		if err != nil || v != "standard_1020" {
			t.Errorf("expected passthrough, got %v (%v)", v, err)
		}
	})
}

func TestFormatFieldValue(t *testing.T) {
	cases := map[string]struct {
		in   any
		want string
	}{
		"Nil":     {nil, ""},
		"String":  {"fir", "fir"},
		"Float":   {1.5, "1.5"},
		"Integer": {float64(40), "40"},
		"Bool":    {true, "true"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if got := formatFieldValue(tc.in); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestSectionForm(t *testing.T) {
	logger := shared.NewLogger(nil)

	t.Run("Hydration Seeds Widgets Without Patching", func(t *testing.T) {
		patcher := &nopPatcher{}
		saved := map[string]any{"l_freq": 2.5, "method": "iir"}

		f := newSectionForm(forms.SectionFiltering, testSchema(), patcher, time.Hour, logger, saved)
		defer f.close()

		if got := f.widgets[0].input.Value(); got != "2.5" {
			t.Errorf("expected hydrated low cutoff 2.5, got %q", got)
		}
		if f.widgets[2].optIdx != 1 {
			t.Errorf("expected hydrated method iir, got index %d", f.widgets[2].optIdx)
		}
		if !f.widgets[1].checked {
			t.Error("expected checkbox seeded from schema default")
		}

		if patcher.count() != 0 {
			t.Errorf("hydration must not patch, got %d calls", patcher.count())
		}
	})

	t.Run("Toggle And Cycle Write To Cache", func(t *testing.T) {
		patcher := &nopPatcher{}
		f := newSectionForm(forms.SectionFiltering, testSchema(), patcher, time.Hour, logger, nil)
		defer f.close()

		f.widgets[1].toggle(f.cache)
		if v, _ := f.cache.Get("notch"); v != false {
			t.Errorf("expected notch false in cache, got %v", v)
		}

		f.widgets[2].cycle(f.cache, 1)
		if v, _ := f.cache.Get("method"); v != "iir" {
			t.Errorf("expected method iir in cache, got %v", v)
		}
	})

	t.Run("Invalid Input Keeps Cache Untouched", func(t *testing.T) {
		patcher := &nopPatcher{}
		f := newSectionForm(forms.SectionFiltering, testSchema(), patcher, time.Hour, logger, nil)
		defer f.close()

		w := f.widgets[0]
		w.input.SetValue("1.x")
		w.commit(f.cache)

		if !w.invalid {
			t.Error("expected widget marked invalid")
		}
		if _, ok := f.cache.Get("l_freq"); ok {
			t.Error("expected no cache write for unparseable input")
		}
	})

	t.Run("Skips Non-Widget Fields", func(t *testing.T) {
		patcher := &nopPatcher{}
		schema := testSchema()
		schema.Fields = append(schema.Fields, forms.Field{Name: "internal_marker", Kind: "opaque"})

		f := newSectionForm(forms.SectionFiltering, schema, patcher, time.Hour, logger, nil)
		defer f.close()

		if len(f.widgets) != 4 {
			t.Fatalf("expected 4 widgets, got %d", len(f.widgets))
		}
		for _, w := range f.widgets {
			if w.field.Name == "internal_marker" {
				t.Error("expected no widget for a field without a known kind")
			}
		}
	})

	t.Run("Focus Wraps", func(t *testing.T) {
		patcher := &nopPatcher{}
		f := newSectionForm(forms.SectionFiltering, testSchema(), patcher, time.Hour, logger, nil)
		defer f.close()

		f.focusWidget(f.focus - 1)
		if f.focus != len(f.widgets)-1 {
			t.Errorf("expected focus to wrap to last widget, got %d", f.focus)
		}
	})
}
