package components

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goliatone/go-formbar/pkg/model"
)

const templatePrefix = "templates/components/"

// DefaultPartials maps every partial key to its built-in template.
func DefaultPartials() map[string]string {
	return map[string]string{
		PartialText:     templatePrefix + "text.tpl",
		PartialTextarea: templatePrefix + "textarea.tpl",
		PartialRadio:    templatePrefix + "radio.tpl",
		PartialCheckbox: templatePrefix + "checkbox.tpl",
		PartialDropdown: templatePrefix + "dropdown.tpl",
		PartialHidden:   templatePrefix + "hidden.tpl",
	}
}

// NewDefaultRegistry constructs a registry with the built-in components.
func NewDefaultRegistry() *Registry {
	partials := DefaultPartials()
	registry := New()

	registry.MustRegister(NameText, Descriptor{
		Renderer: templateComponentRenderer(PartialText, partials[PartialText], inputPayload),
	})
	registry.MustRegister(NameTextarea, Descriptor{
		Renderer: templateComponentRenderer(PartialTextarea, partials[PartialTextarea], inputPayload),
	})
	registry.MustRegister(NameHidden, Descriptor{
		Renderer: templateComponentRenderer(PartialHidden, partials[PartialHidden], inputPayload),
	})
	registry.MustRegister(NameRadio, Descriptor{
		Renderer: templateComponentRenderer(PartialRadio, partials[PartialRadio], selectionPayload(ElementRadio)),
	})
	registry.MustRegister(NameCheckbox, Descriptor{
		Renderer: templateComponentRenderer(PartialCheckbox, partials[PartialCheckbox], selectionPayload(ElementCheckbox)),
	})
	registry.MustRegister(NameDropdown, Descriptor{
		Renderer: templateComponentRenderer(PartialDropdown, partials[PartialDropdown], selectionPayload(ElementOption)),
	})

	return registry
}

type payloadFunc func(field model.Field) map[string]any

func inputPayload(field model.Field) map[string]any {
	return map[string]any{
		"field": field,
		"type":  inputType(field.Type),
		"value": field.StringValue(),
	}
}

func inputType(fieldType model.FieldType) string {
	switch fieldType {
	case model.FieldTypeInteger, model.FieldTypeFloat:
		return "number"
	case model.FieldTypeDate:
		return "date"
	case model.FieldTypeEmail:
		return "email"
	default:
		return "text"
	}
}

// selectionPayload exposes the option elements in order. Dropdowns cannot
// nest inputs inside the select, so their hidden fallbacks are split out.
func selectionPayload(kind ElementKind) payloadFunc {
	return func(field model.Field) map[string]any {
		elements := SelectionElements(field, kind)
		payload := map[string]any{
			"field":    field,
			"elements": elements,
		}
		if kind == ElementOption {
			payload["elements"], payload["hidden"] = Partition(elements)
		}
		return payload
	}
}

func templateComponentRenderer(partialKey, templateName string, payload payloadFunc) Renderer {
	return func(buf *bytes.Buffer, field model.Field, data ComponentData) error {
		if data.Template == nil {
			return fmt.Errorf("components: template renderer not configured for %q", templateName)
		}

		resolved := templateName
		if candidate := strings.TrimSpace(data.ThemePartials[partialKey]); candidate != "" {
			resolved = candidate
		}

		rendered, err := data.Template.RenderTemplate(resolved, payload(field))
		if err != nil {
			return fmt.Errorf("components: render template %q: %w", resolved, err)
		}
		buf.WriteString(rendered)
		return nil
	}
}
