package html

import (
	"bytes"
	"fmt"
	stdhtml "html"
	"strings"

	"github.com/goliatone/go-formbar/pkg/model"
	"github.com/goliatone/go-formbar/pkg/render/template"
	"github.com/goliatone/go-formbar/pkg/renderers/html/components"
)

type componentRenderer struct {
	templates template.TemplateRenderer
	registry  *components.Registry
	partials  map[string]string
	errors    map[string][]string

	used []string
	seen map[string]struct{}
}

func newComponentRenderer(templates template.TemplateRenderer, registry *components.Registry, partials map[string]string, errors map[string][]string) *componentRenderer {
	if registry == nil {
		registry = components.NewDefaultRegistry()
	}
	return &componentRenderer{
		templates: templates,
		registry:  registry,
		partials:  partials,
		errors:    errors,
		seen:      make(map[string]struct{}),
	}
}

func (r *componentRenderer) render(field model.Field) (string, error) {
	componentName := r.resolveComponent(field)
	descriptor, ok := r.registry.Descriptor(componentName)
	if !ok {
		return "", fmt.Errorf("component %q not registered for field %q", componentName, field.Name)
	}

	data := components.ComponentData{
		Template:      r.templates,
		ThemePartials: r.partials,
	}

	var control bytes.Buffer
	if err := descriptor.Renderer(&control, field, data); err != nil {
		return "", fmt.Errorf("render component %q for field %q: %w", componentName, field.Name, err)
	}

	if _, exists := r.seen[componentName]; !exists {
		r.seen[componentName] = struct{}{}
		r.used = append(r.used, componentName)
	}

	if field.Kind == model.KindHidden {
		return strings.TrimSpace(control.String()) + "\n", nil
	}
	return buildFieldMarkup(field, componentName, control.String(), r.errors[field.Name]), nil
}

// resolveComponent prefers the configured renderer type and falls back to the
// component matching the field kind.
func (r *componentRenderer) resolveComponent(field model.Field) string {
	if name := strings.TrimSpace(field.Renderer.Type); name != "" {
		if _, ok := r.registry.Descriptor(name); ok {
			return name
		}
	}
	switch field.Kind {
	case model.KindSelection:
		return components.NameRadio
	case model.KindMultiSelection:
		return components.NameCheckbox
	case model.KindHidden:
		return components.NameHidden
	case model.KindTextarea:
		return components.NameTextarea
	default:
		return components.NameText
	}
}

func (r *componentRenderer) stylesheets() []string {
	return r.registry.Stylesheets(r.used)
}

func buildFieldMarkup(field model.Field, componentName, control string, messages []string) string {
	var builder strings.Builder
	builder.Grow(len(control) + 256)

	builder.WriteString(`<div class="`)
	builder.WriteString(stdhtml.EscapeString(fieldClasses(field, len(messages) > 0)))
	builder.WriteString(`" data-component="`)
	builder.WriteString(stdhtml.EscapeString(componentName))
	builder.WriteString("\">\n")

	if label := strings.TrimSpace(field.Label); label != "" {
		builder.WriteString(`    <label class="`)
		builder.WriteString(ClassLabel)
		builder.WriteString(`"`)
		if labelSupportsFor(componentName) {
			builder.WriteString(` for="`)
			builder.WriteString(stdhtml.EscapeString(field.ID))
			builder.WriteString(`"`)
		}
		builder.WriteString(`>`)
		if number := strings.TrimSpace(field.Number); number != "" {
			builder.WriteString(`<span class="`)
			builder.WriteString(ClassNumber)
			builder.WriteString(`">`)
			builder.WriteString(stdhtml.EscapeString(number))
			builder.WriteString(`</span> `)
		}
		builder.WriteString(stdhtml.EscapeString(label))
		if field.Required {
			builder.WriteString(` *`)
		}
		builder.WriteString("</label>\n")
	}

	if preservesWhitespace(field.Kind) {
		builder.WriteString("    ")
		builder.WriteString(strings.TrimSpace(control))
		builder.WriteByte('\n')
	} else {
		for _, line := range strings.Split(control, "\n") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			builder.WriteString("    ")
			builder.WriteString(line)
			builder.WriteByte('\n')
		}
	}

	if help := sanitizeHelp(field.Help); help != "" {
		builder.WriteString(`    <small class="`)
		builder.WriteString(ClassHelp)
		builder.WriteString(`">`)
		builder.WriteString(help)
		builder.WriteString("</small>\n")
	}

	if len(messages) > 0 {
		builder.WriteString(`    <ul class="`)
		builder.WriteString(ClassFieldErrors)
		builder.WriteString(`">`)
		for _, message := range messages {
			builder.WriteString(`<li>`)
			builder.WriteString(stdhtml.EscapeString(message))
			builder.WriteString(`</li>`)
		}
		builder.WriteString("</ul>\n")
	}

	builder.WriteString("</div>\n")
	return builder.String()
}

func fieldClasses(field model.Field, invalid bool) string {
	classes := []string{ClassField}
	if css := strings.TrimSpace(field.CSS); css != "" {
		classes = append(classes, css)
	}
	if field.Readonly {
		classes = append(classes, ClassReadonly)
	}
	if field.Required {
		classes = append(classes, ClassRequired)
	}
	if field.Desired {
		classes = append(classes, ClassDesired)
	}
	if invalid {
		classes = append(classes, ClassInvalid)
	}
	return strings.Join(classes, " ")
}

// Radio and checkbox groups label every option themselves.
func labelSupportsFor(componentName string) bool {
	switch componentName {
	case components.NameRadio, components.NameCheckbox:
		return false
	default:
		return true
	}
}

func preservesWhitespace(kind model.Kind) bool {
	return kind == model.KindTextarea
}
