package config

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// FormConfig is the configuration of a single form.
type FormConfig struct {
	ID           string
	CSS          string
	Autocomplete string
	Method       string
	Action       string
	Enctype      string

	fields []*FieldConfig
	byName map[string]int
}

// RendererConfig controls how a field is rendered. String switches from the
// document are already normalised.
type RendererConfig struct {
	Type string
	// RemoveFiltered drops filtered options from the output instead of
	// emitting a hidden fallback input. Only the literal "true" enables it.
	RemoveFiltered bool
	Filter         string
	Sort           bool
	SortOrder      string
}

// OptionConfig is a user defined option of a selection field.
type OptionConfig struct {
	Label string
	Value string
	Attrs map[string]string
}

// FieldConfig is the configuration of a field, taken from its entity.
type FieldConfig struct {
	ID           string
	Name         string
	Label        string
	Number       string
	Type         string
	CSS          string
	Readonly     bool
	Required     bool
	Desired      bool
	Autocomplete string
	Value        string
	Help         string
	Renderer     RendererConfig
	Options      []OptionConfig
}

func newFormConfig(cfg *Config, element *Element) (*FormConfig, error) {
	form := &FormConfig{
		ID:           element.Attr("id", ""),
		CSS:          element.Attr("css", ""),
		Autocomplete: element.Attr("autocomplete", "on"),
		Method:       element.Attr("method", "POST"),
		Action:       element.Attr("action", ""),
		Enctype:      element.Attr("enctype", ""),
		byName:       make(map[string]int),
	}

	if err := form.collect(cfg, element, map[string]struct{}{}); err != nil {
		return nil, fmt.Errorf("config: form %q: %w", form.ID, err)
	}
	return form, nil
}

func (f *FormConfig) collect(cfg *Config, root *Element, snippets map[string]struct{}) error {
	for _, child := range root.Children {
		switch child.Name {
		case "field":
			ref := child.Attr("ref", "")
			if ref == "" {
				return fmt.Errorf("%w: field without ref", ErrEntityNotFound)
			}
			entity, err := cfg.Element("entity", ref)
			if err != nil {
				return err
			}
			if entity == nil {
				return fmt.Errorf("%w: %q", ErrEntityNotFound, ref)
			}
			field, err := newFieldConfig(entity)
			if err != nil {
				return err
			}
			f.add(field)
		case "snippet":
			if ref := child.Attr("ref", ""); ref != "" {
				if _, ok := snippets[ref]; ok {
					return fmt.Errorf("%w: snippet %q", ErrReferenceCycle, ref)
				}
				snippet, err := cfg.Element("snippet", ref)
				if err != nil {
					return err
				}
				if snippet == nil {
					cfg.logger.Warn("snippet reference not found", "snippet", ref, "form", f.ID)
					continue
				}
				snippets[ref] = struct{}{}
				err = f.collect(cfg, snippet, snippets)
				delete(snippets, ref)
				if err != nil {
					return err
				}
				continue
			}
			if err := f.collect(cfg, child, snippets); err != nil {
				return err
			}
		default:
			if err := f.collect(cfg, child, snippets); err != nil {
				return err
			}
		}
	}
	return nil
}

func (f *FormConfig) add(field *FieldConfig) {
	if idx, ok := f.byName[field.Name]; ok {
		f.fields[idx] = field
		return
	}
	f.byName[field.Name] = len(f.fields)
	f.fields = append(f.fields, field)
}

// Fields returns the configured fields in document order.
func (f *FormConfig) Fields() []*FieldConfig {
	out := make([]*FieldConfig, len(f.fields))
	copy(out, f.fields)
	return out
}

// Field returns the field with the given name.
func (f *FormConfig) Field(name string) (*FieldConfig, error) {
	idx, ok := f.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q in form %q", ErrFieldNotFound, name, f.ID)
	}
	return f.fields[idx], nil
}

func newFieldConfig(entity *Element) (*FieldConfig, error) {
	name := strings.TrimSpace(entity.Attr("name", ""))
	if name == "" {
		return nil, fmt.Errorf("config: entity %q has no name", entity.Attr("id", ""))
	}

	field := &FieldConfig{
		ID:           entity.Attr("id", ""),
		Name:         name,
		Label:        entity.Attr("label", capitalize(name)),
		Number:       entity.Attr("number", ""),
		Type:         entity.Attr("type", "string"),
		CSS:          entity.Attr("css", ""),
		Readonly:     entity.Attr("readonly", "") == "true",
		Required:     entity.Attr("required", "") == "true",
		Desired:      entity.Attr("desired", "") == "true",
		Autocomplete: entity.Attr("autocomplete", "on"),
		Value:        entity.Attr("value", ""),
		Renderer:     RendererConfig{Type: "text", SortOrder: "asc"},
	}

	if help := entity.Child("help"); help != nil {
		field.Help = help.Text
	}

	if renderer := entity.Child("renderer"); renderer != nil {
		field.Renderer = newRendererConfig(renderer)
	}

	if options := entity.Child("options"); options != nil {
		for _, option := range options.ChildrenNamed("option") {
			field.Options = append(field.Options, newOptionConfig(option))
		}
	}
	return field, nil
}

func newRendererConfig(element *Element) RendererConfig {
	cfg := RendererConfig{
		Type:           element.Attr("type", "text"),
		RemoveFiltered: element.Attr("remove_filtered", "") == "true",
		Filter:         strings.TrimSpace(element.Attr("filter", "")),
		Sort:           element.Attr("sort", "") == "true",
		SortOrder:      strings.ToLower(element.Attr("sortorder", "asc")),
	}
	if cfg.SortOrder != "desc" {
		cfg.SortOrder = "asc"
	}
	return cfg
}

func newOptionConfig(element *Element) OptionConfig {
	option := OptionConfig{
		Label: element.Text,
		Value: element.Attr("value", ""),
	}
	for key, value := range element.Attrs {
		if key == "value" {
			continue
		}
		if option.Attrs == nil {
			option.Attrs = make(map[string]string)
		}
		option.Attrs[key] = value
	}
	return option
}

func capitalize(value string) string {
	if value == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(value)
	return string(unicode.ToUpper(r)) + strings.ToLower(value[size:])
}
