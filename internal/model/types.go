package model

import (
	"fmt"
	"slices"
	"strings"
)

// FieldType is the data type declared on an entity.
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeInteger FieldType = "integer"
	FieldTypeFloat   FieldType = "float"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeDate    FieldType = "date"
	FieldTypeEmail   FieldType = "email"
)

// Kind tells renderers which control family a field belongs to.
type Kind string

const (
	KindText           Kind = "text"
	KindTextarea       Kind = "textarea"
	KindSelection      Kind = "selection"
	KindMultiSelection Kind = "multiselection"
	KindHidden         Kind = "hidden"
)

// Option is one selectable choice. Visible is false when the renderer filter
// rejected the option.
type Option struct {
	Label   string `json:"label"`
	Value   string `json:"value"`
	Visible bool   `json:"visible"`
}

// RendererConfig holds the per-field rendering switches.
type RendererConfig struct {
	Type           string `json:"type"`
	RemoveFiltered bool   `json:"removeFiltered"`
	Filter         string `json:"filter,omitempty"`
	Sort           bool   `json:"sort,omitempty"`
	SortOrder      string `json:"sortOrder,omitempty"`
}

// Field is a configured field with its current value and resolved options.
type Field struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Label        string         `json:"label"`
	Number       string         `json:"number,omitempty"`
	Type         FieldType      `json:"type"`
	Kind         Kind           `json:"kind"`
	CSS          string         `json:"css,omitempty"`
	Help         string         `json:"help,omitempty"`
	Readonly     bool           `json:"readonly"`
	Required     bool           `json:"required"`
	Desired      bool           `json:"desired"`
	Autocomplete string         `json:"autocomplete"`
	Value        []string       `json:"value,omitempty"`
	Renderer     RendererConfig `json:"renderer"`
	Options      []Option       `json:"options,omitempty"`
}

// IsReadonly reports whether the field must not be edited.
func (f Field) IsReadonly() bool {
	return f.Readonly
}

// StringValue returns the first value of the field or an empty string.
func (f Field) StringValue() string {
	if len(f.Value) == 0 {
		return ""
	}
	return f.Value[0]
}

// HasValue reports whether value is one of the field's current values.
func (f Field) HasValue(value string) bool {
	for _, current := range f.Value {
		if current == value {
			return true
		}
	}
	return false
}

// Form is the renderable model of a configured form.
type Form struct {
	ID           string  `json:"id"`
	CSS          string  `json:"css,omitempty"`
	Method       string  `json:"method"`
	Action       string  `json:"action"`
	Enctype      string  `json:"enctype,omitempty"`
	Autocomplete string  `json:"autocomplete"`
	Fields       []Field `json:"fields"`
}

// Field returns the field with the given name.
func (f Form) Field(name string) (Field, bool) {
	for _, field := range f.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// ApplyValues replaces the values of fields named in values. Fields not
// present keep what the builder resolved.
func (f *Form) ApplyValues(values map[string]any) {
	if len(values) == 0 {
		return
	}
	for i := range f.Fields {
		if value, ok := values[f.Fields[i].Name]; ok {
			f.Fields[i].Value = normalizeValue(value)
		}
	}
}

// normalizeValue flattens submitted or configured values into strings. The
// "{a,b}" form is how list values come back from serialised storage.
func normalizeValue(value any) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case []string:
		return slices.Clone(v)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if item == nil {
				continue
			}
			out = append(out, fmt.Sprint(item))
		}
		return out
	case string:
		if strings.HasPrefix(v, "{") && strings.HasSuffix(v, "}") {
			var out []string
			for _, item := range strings.Split(strings.Trim(v, "{}"), ",") {
				if item = strings.TrimSpace(item); item != "" {
					out = append(out, item)
				}
			}
			return out
		}
		if v == "" {
			return nil
		}
		return []string{v}
	default:
		return []string{fmt.Sprint(v)}
	}
}
