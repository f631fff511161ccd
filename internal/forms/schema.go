package forms

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/haldane/eegx/internal/shared"
)

// FieldKind enumerates the widget kinds a schema field may declare.
type FieldKind string

const (
	FieldCheckbox FieldKind = "checkbox"
	FieldInteger  FieldKind = "integer"
	FieldNumber   FieldKind = "number"
	FieldText     FieldKind = "text"
	FieldList     FieldKind = "list"
)

// Valid reports whether the kind is one the renderer knows how to display.
func (k FieldKind) Valid() bool {
	switch k {
	case FieldCheckbox, FieldInteger, FieldNumber, FieldText, FieldList:
		return true
	}
	return false
}

// Field describes one editable field of a section schema.
type Field struct {
	Name        string    `json:"name"`
	Kind        FieldKind `json:"kind"`
	Title       string    `json:"title,omitempty"`
	Default     any       `json:"default,omitempty"`
	Placeholder string    `json:"placeholder,omitempty"`
	Options     []string  `json:"options,omitempty"`
	Group       string    `json:"group,omitempty"`
	Unit        string    `json:"unit,omitempty"`
}

// Label returns the display label for the field, preferring the declared title.
func (f Field) Label() string {
	if f.Title != "" {
		return f.Title
	}
	return f.Name
}

// Schema is the immutable field listing for one section.
//
// Fields preserve the order they appear in the backend document, which is the
// order the form surface renders them in.
type Schema struct {
	Section string
	Title   string
	Fields  []Field
}

// Field returns the named field descriptor.
func (s *Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// FieldsInGroups returns the fields whose declared group is in groups, in schema order.
// An empty groups argument returns all fields.
func (s *Schema) FieldsInGroups(groups ...string) []Field {
	if len(groups) == 0 {
		return append([]Field(nil), s.Fields...)
	}

	keep := make(map[string]bool, len(groups))
	for _, g := range groups {
		keep[g] = true
	}

	var out []Field
	for _, f := range s.Fields {
		if keep[f.Group] {
			out = append(out, f)
		}
	}
	return out
}

// fieldDescriptor mirrors one entry of the backend's "properties" object.
//
// The backend emits JSON-Schema-flavored documents where the widget kind
// lives under the "ui" key and list options under "options" or "enum".
type fieldDescriptor struct {
	UI          string   `json:"ui"`
	Title       string   `json:"title"`
	Default     any      `json:"default"`
	Placeholder string   `json:"placeholder"`
	Options     []string `json:"options"`
	Enum        []string `json:"enum"`
	Group       string   `json:"group"`
	Unit        string   `json:"unit"`
}

// ParseSchema decodes a backend schema document for the given section.
//
// Go's map decoding loses key order, so the "properties" object is walked
// token by token to keep the server's field ordering intact.
func ParseSchema(section string, doc []byte) (*Schema, error) {
	var head struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal(doc, &head); err != nil {
		return nil, fmt.Errorf("%w: malformed schema document for %q: %v", shared.ErrSchemaUnavailable, section, err)
	}

	schema := &Schema{Section: section, Title: head.Title}

	dec := json.NewDecoder(bytes.NewReader(doc))
	if err := seekProperties(dec); err != nil {
		return nil, fmt.Errorf("%w: schema document for %q has no properties: %v", shared.ErrSchemaUnavailable, section, err)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: truncated schema document for %q: %v", shared.ErrSchemaUnavailable, section, err)
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: unexpected token in schema document for %q", shared.ErrSchemaUnavailable, section)
		}

		var fd fieldDescriptor
		if err := dec.Decode(&fd); err != nil {
			return nil, fmt.Errorf("%w: malformed field %q in section %q: %v", shared.ErrSchemaUnavailable, name, section, err)
		}

		options := fd.Options
		if len(options) == 0 {
			options = fd.Enum
		}

		schema.Fields = append(schema.Fields, Field{
			Name:        name,
			Kind:        FieldKind(fd.UI),
			Title:       fd.Title,
			Default:     fd.Default,
			Placeholder: fd.Placeholder,
			Options:     options,
			Group:       fd.Group,
			Unit:        fd.Unit,
		})
	}

	return schema, nil
}

// seekProperties advances the decoder to just inside the top-level "properties" object.
func seekProperties(dec *json.Decoder) error {
	if _, err := dec.Token(); err != nil { // opening brace
		return err
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}

		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v", tok)
		}

		if key == "properties" {
			open, err := dec.Token()
			if err != nil {
				return err
			}
			if d, ok := open.(json.Delim); !ok || d != '{' {
				return fmt.Errorf("properties is not an object")
			}
			return nil
		}

		// skip this key's value wholesale
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return err
		}
	}

	return fmt.Errorf("properties key not found")
}
