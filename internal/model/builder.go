package model

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/goliatone/go-formbar/pkg/config"
	"github.com/goliatone/go-formbar/pkg/rule"
	"github.com/goliatone/go-formbar/pkg/rule/expr"
)

// ErrInvalidCheckbox is returned when a checkbox renderer is configured on a
// field whose type cannot hold several values.
var ErrInvalidCheckbox = errors.New("model: checkbox must be of type string or integer")

// Options configures the builder.
type Options struct {
	Evaluator rule.Evaluator
	Logger    *slog.Logger
}

// Builder turns form configurations into renderable forms.
type Builder struct {
	evaluator rule.Evaluator
	logger    *slog.Logger
}

// New creates a Builder with the supplied options.
func New(options Options) *Builder {
	b := &Builder{
		evaluator: options.Evaluator,
		logger:    options.Logger,
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	return b
}

// Build resolves values and options of every field in the form. values holds
// the current form values keyed by field name; it also feeds `$name`
// references in default values and filter rules.
func (b *Builder) Build(form *config.FormConfig, values map[string]any) (Form, error) {
	if form == nil {
		return Form{}, errors.New("model: form config is nil")
	}

	out := Form{
		ID:           form.ID,
		CSS:          form.CSS,
		Method:       strings.ToUpper(form.Method),
		Action:       form.Action,
		Enctype:      form.Enctype,
		Autocomplete: form.Autocomplete,
	}

	for _, cfg := range form.Fields() {
		field, err := b.buildField(cfg, values)
		if err != nil {
			return Form{}, fmt.Errorf("model: form %q: %w", form.ID, err)
		}
		out.Fields = append(out.Fields, field)
	}
	return out, nil
}

func (b *Builder) buildField(cfg *config.FieldConfig, values map[string]any) (Field, error) {
	kind, err := kindFor(cfg)
	if err != nil {
		return Field{}, fmt.Errorf("field %q: %w", cfg.Name, err)
	}

	b.logger.Debug("creating field", "name", cfg.Name, "type", cfg.Type, "kind", kind)

	field := Field{
		ID:           cfg.ID,
		Name:         cfg.Name,
		Label:        cfg.Label,
		Number:       cfg.Number,
		Type:         FieldType(cfg.Type),
		Kind:         kind,
		CSS:          cfg.CSS,
		Help:         cfg.Help,
		Readonly:     cfg.Readonly,
		Required:     cfg.Required,
		Desired:      cfg.Desired,
		Autocomplete: cfg.Autocomplete,
		Renderer: RendererConfig{
			Type:           cfg.Renderer.Type,
			RemoveFiltered: cfg.Renderer.RemoveFiltered,
			Filter:         cfg.Renderer.Filter,
			Sort:           cfg.Renderer.Sort,
			SortOrder:      cfg.Renderer.SortOrder,
		},
	}
	if field.ID == "" {
		field.ID = cfg.Name
	}

	field.Value = normalizeValue(b.defaultValue(cfg, values))
	if current, ok := values[cfg.Name]; ok {
		field.Value = normalizeValue(current)
	}

	if kind == KindSelection || kind == KindMultiSelection {
		options, err := b.options(cfg, values)
		if err != nil {
			return Field{}, fmt.Errorf("field %q: %w", cfg.Name, err)
		}
		field.Options = options
	}
	return field, nil
}

func (b *Builder) defaultValue(cfg *config.FieldConfig, values map[string]any) any {
	if !strings.HasPrefix(cfg.Value, "$") {
		if cfg.Value == "" {
			return nil
		}
		return cfg.Value
	}
	key := strings.TrimPrefix(cfg.Value, "$")
	value, ok := values[key]
	if !ok {
		b.logger.Debug("default value reference not set", "field", cfg.Name, "ref", key)
		return nil
	}
	return value
}

func (b *Builder) options(cfg *config.FieldConfig, values map[string]any) ([]Option, error) {
	filter, err := b.filter(cfg.Renderer.Filter)
	if err != nil {
		return nil, fmt.Errorf("filter %q: %w", cfg.Renderer.Filter, err)
	}

	options := make([]Option, 0, len(cfg.Options))
	for _, opt := range cfg.Options {
		attrs := make(map[string]any, len(opt.Attrs)+1)
		for key, value := range opt.Attrs {
			attrs[key] = value
		}
		attrs["value"] = opt.Value

		visible, err := filter(rule.Context{Option: attrs, Values: values})
		if err != nil {
			return nil, fmt.Errorf("filter %q on option %q: %w", cfg.Renderer.Filter, opt.Value, err)
		}
		options = append(options, Option{Label: opt.Label, Value: opt.Value, Visible: visible})
	}

	if cfg.Renderer.Sort {
		sortOptions(options, cfg.Renderer.SortOrder == "desc")
	}
	return options, nil
}

func (b *Builder) filter(source string) (func(rule.Context) (bool, error), error) {
	if source == "" {
		return func(rule.Context) (bool, error) { return true, nil }, nil
	}
	if b.evaluator != nil {
		return func(ctx rule.Context) (bool, error) {
			return b.evaluator.Eval(source, ctx)
		}, nil
	}
	return expr.Compile(source)
}

func sortOptions(options []Option, descending bool) {
	sort.SliceStable(options, func(i, j int) bool {
		if descending {
			return options[i].Label > options[j].Label
		}
		return options[i].Label < options[j].Label
	})
}

func kindFor(cfg *config.FieldConfig) (Kind, error) {
	switch cfg.Renderer.Type {
	case "radio", "dropdown":
		return KindSelection, nil
	case "checkbox":
		switch FieldType(cfg.Type) {
		case FieldTypeString, FieldTypeInteger:
			return KindMultiSelection, nil
		}
		return "", ErrInvalidCheckbox
	case "hidden":
		return KindHidden, nil
	case "textarea":
		return KindTextarea, nil
	default:
		return KindText, nil
	}
}
