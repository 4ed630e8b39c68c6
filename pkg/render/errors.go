package render

import (
	"strings"

	"github.com/goliatone/go-formbar/pkg/model"
)

// ErrorMapping splits an error payload into field-level and form-level
// messages.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// MergeFormErrors concatenates form-level messages, trimming whitespace and
// dropping duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// MapErrorPayload assigns server error messages to the fields of form. Keys
// may be plain field names or paths such as "/body/name" or "data.name[0]";
// the first path segment naming a field wins. Unknown keys become form-level
// messages so nothing is lost.
func MapErrorPayload(form model.Form, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{}
	if len(payload) == 0 {
		return mapping
	}

	names := make(map[string]struct{}, len(form.Fields))
	for _, field := range form.Fields {
		names[field.Name] = struct{}{}
	}

	for key, messages := range payload {
		messages = normalizeMessages(messages)
		if len(messages) == 0 {
			continue
		}
		name := fieldForKey(key, names)
		if name == "" {
			mapping.Form = append(mapping.Form, messages...)
			continue
		}
		if mapping.Fields == nil {
			mapping.Fields = make(map[string][]string)
		}
		mapping.Fields[name] = normalizeMessages(append(mapping.Fields[name], messages...))
	}

	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

func fieldForKey(key string, names map[string]struct{}) string {
	key = strings.TrimSpace(key)
	if isFormLevelKey(key) {
		return ""
	}
	if _, ok := names[key]; ok {
		return key
	}
	for _, segment := range pathSegments(key) {
		if _, ok := names[segment]; ok {
			return segment
		}
	}
	return ""
}

func pathSegments(path string) []string {
	replacer := strings.NewReplacer("[", ".", "]", "")
	parts := strings.FieldsFunc(replacer.Replace(path), func(r rune) bool {
		return r == '.' || r == '/' || r == '#' || r == '$'
	})
	out := parts[:0]
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(key) {
	case "", ".", "/", "#", "$", "form", "__all__", "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}
