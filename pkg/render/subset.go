package render

import (
	"strings"

	"github.com/goliatone/go-formbar/pkg/model"
)

// FieldSubset selects fields by name. Include keeps only the listed fields;
// Exclude drops the listed ones. Exclude wins when a name is in both.
type FieldSubset struct {
	Include []string
	Exclude []string
}

// Empty reports whether the subset selects every field.
func (s FieldSubset) Empty() bool {
	return len(s.Include) == 0 && len(s.Exclude) == 0
}

// ApplySubset removes fields that do not match subset, keeping the order of
// the remaining ones. A nil form or empty subset leaves the form unchanged.
func ApplySubset(form *model.Form, subset FieldSubset) {
	if form == nil || subset.Empty() {
		return
	}

	include := nameSet(subset.Include)
	exclude := nameSet(subset.Exclude)

	filtered := make([]model.Field, 0, len(form.Fields))
	for _, field := range form.Fields {
		if _, skip := exclude[field.Name]; skip {
			continue
		}
		if len(include) > 0 {
			if _, keep := include[field.Name]; !keep {
				continue
			}
		}
		filtered = append(filtered, field)
	}
	form.Fields = filtered
}

// ParseSubset reads a comma separated list of names; names prefixed with "-"
// are excluded.
func ParseSubset(raw string) FieldSubset {
	var subset FieldSubset
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		switch {
		case part == "", part == "-":
		case strings.HasPrefix(part, "-"):
			subset.Exclude = append(subset.Exclude, strings.TrimPrefix(part, "-"))
		default:
			subset.Include = append(subset.Include, part)
		}
	}
	return subset
}

func nameSet(names []string) map[string]struct{} {
	if len(names) == 0 {
		return nil
	}
	out := make(map[string]struct{}, len(names))
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			out[name] = struct{}{}
		}
	}
	return out
}
