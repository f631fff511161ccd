package forms

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/haldane/eegx/internal/shared"
)

const filterSchemaDoc = `{
	"title": "FilterParams",
	"type": "object",
	"properties": {
		"l_freq": {"default": 4.0, "title": "L Freq", "type": "number", "ui": "number", "unit": "Hz", "group": "filter", "placeholder": "4.0"},
		"h_freq": {"default": 30.0, "title": "H Freq", "type": "number", "ui": "number", "unit": "Hz", "group": "filter", "placeholder": "30.0"},
		"channels": {"default": "69-76,81-83,88,89", "title": "Channels", "type": "string", "ui": "text", "group": "channels"},
		"combine_channels": {"default": false, "title": "Combine Channels", "ui": "checkbox", "group": "channels"},
		"reference": {"title": "Reference", "ui": "list", "options": ["average", "REST"], "group": "channels"},
		"internal_marker": {"title": "Internal", "type": "string"}
	}
}`

func TestParseSchema(t *testing.T) {
	t.Run("Preserves Field Order", func(t *testing.T) {
		schema, err := ParseSchema("filter", []byte(filterSchemaDoc))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var names []string
		for _, f := range schema.Fields {
			names = append(names, f.Name)
		}

		want := []string{"l_freq", "h_freq", "channels", "combine_channels", "reference", "internal_marker"}
		if diff := cmp.Diff(want, names); diff != "" {
			t.Errorf("field order mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Decodes Descriptors", func(t *testing.T) {
		schema, err := ParseSchema("filter", []byte(filterSchemaDoc))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if schema.Title != "FilterParams" {
			t.Errorf("expected title FilterParams, got %s", schema.Title)
		}

		f, ok := schema.Field("l_freq")
		if !ok {
			t.Fatal("expected l_freq field")
		}
		if f.Kind != FieldNumber {
			t.Errorf("expected number kind, got %s", f.Kind)
		}
		if f.Default != 4.0 {
			t.Errorf("expected default 4.0, got %v", f.Default)
		}
		if f.Unit != "Hz" {
			t.Errorf("expected unit Hz, got %s", f.Unit)
		}
		if f.Label() != "L Freq" {
			t.Errorf("expected label from title, got %s", f.Label())
		}

		list, _ := schema.Field("reference")
		if diff := cmp.Diff([]string{"average", "REST"}, list.Options); diff != "" {
			t.Errorf("options mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Options From Enum Key", func(t *testing.T) {
		doc := `{"properties": {"model": {"ui": "list", "enum": ["svm", "lda"]}}}`
		schema, err := ParseSchema("models", []byte(doc))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		f, _ := schema.Field("model")
		if diff := cmp.Diff([]string{"svm", "lda"}, f.Options); diff != "" {
			t.Errorf("options mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Unknown Kind Is Kept But Invalid", func(t *testing.T) {
		schema, err := ParseSchema("filter", []byte(filterSchemaDoc))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		f, ok := schema.Field("internal_marker")
		if !ok {
			t.Fatal("expected field without ui key to be kept")
		}
		if f.Kind.Valid() {
			t.Errorf("expected kind %q to be invalid", f.Kind)
		}
	})

	t.Run("FieldsInGroups", func(t *testing.T) {
		schema, err := ParseSchema("filter", []byte(filterSchemaDoc))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		fields := schema.FieldsInGroups("filter")
		if len(fields) != 2 {
			t.Fatalf("expected 2 filter-group fields, got %d", len(fields))
		}
		if fields[0].Name != "l_freq" || fields[1].Name != "h_freq" {
			t.Errorf("unexpected group fields: %v", fields)
		}

		all := schema.FieldsInGroups()
		if len(all) != len(schema.Fields) {
			t.Errorf("expected all fields with no group filter, got %d", len(all))
		}
	})

	t.Run("Malformed Document", func(t *testing.T) {
		_, err := ParseSchema("filter", []byte(`{"properties": 12}`))
		if err == nil {
			t.Fatal("expected error for malformed document")
		}
		if !errors.Is(err, shared.ErrSchemaUnavailable) {
			t.Errorf("expected ErrSchemaUnavailable, got %v", err)
		}
	})

	t.Run("Missing Properties", func(t *testing.T) {
		_, err := ParseSchema("filter", []byte(`{"title": "Empty"}`))
		if !errors.Is(err, shared.ErrSchemaUnavailable) {
			t.Errorf("expected ErrSchemaUnavailable, got %v", err)
		}
	})
}
