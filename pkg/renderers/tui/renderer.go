package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	stdhtml "html"
	"io"
	"log/slog"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formbar/pkg/model"
	"github.com/goliatone/go-formbar/pkg/render"
)

var _ render.Renderer = (*Renderer)(nil)

// Renderer implements render.Renderer for terminal sessions. Instead of
// markup it asks for every editable field and returns the collected values
// serialized in the configured OutputFormat.
type Renderer struct {
	driver            PromptDriver
	out               io.Writer
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
	theme             Theme
	logger            *slog.Logger
}

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		out:          os.Stdout,
		outputFormat: OutputFormatJSON,
		theme:        Theme{ErrorPrefix: "! "},
		logger:       slog.Default(),
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	switch r.outputFormat {
	case OutputFormatJSON, OutputFormatFormURLEncoded, OutputFormatPrettyText:
	default:
		return nil, fmt.Errorf("tui: unsupported output format %q", r.outputFormat)
	}

	if r.driver == nil {
		r.driver = newSurveyDriver(r.out)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}

// Render prompts for each field of the form and serializes the answers.
// Hidden fields keep their value silently; readonly fields are announced and
// kept.
func (r *Renderer) Render(ctx context.Context, form model.Form, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	form.Fields = append([]model.Field(nil), form.Fields...)
	form.ApplyValues(opts.Values)
	render.ApplySubset(&form, opts.Subset)

	for _, msg := range opts.FormErrors {
		if err := r.driver.Info(ctx, r.theme.ErrorPrefix+msg); err != nil {
			return nil, err
		}
	}

	values := make(map[string]any, len(form.Fields)+len(opts.HiddenFields))
	for name, value := range opts.HiddenFields {
		values[name] = value
	}

	for _, field := range form.Fields {
		for _, msg := range opts.Errors[field.Name] {
			if err := r.driver.Info(ctx, fmt.Sprintf("%s%s: %s", r.theme.ErrorPrefix, displayLabel(field), msg)); err != nil {
				return nil, err
			}
		}

		value, err := r.promptField(ctx, field)
		if err != nil {
			return nil, fmt.Errorf("tui: field %q: %w", field.Name, err)
		}
		if value != nil {
			values[field.Name] = value
		}
	}

	if r.submitTransformer != nil {
		var err error
		values, err = r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}

	return r.serialize(values)
}

func (r *Renderer) promptField(ctx context.Context, field model.Field) (any, error) {
	r.logger.Debug("prompting field", "name", field.Name, "kind", field.Kind, "type", field.Type)

	if field.Kind == model.KindHidden {
		return currentValue(field), nil
	}
	if field.IsReadonly() {
		msg := fmt.Sprintf("%s%s: %s (read-only)", r.theme.InfoPrefix, displayLabel(field), strings.Join(readonlyDisplay(field), ", "))
		if err := r.driver.Info(ctx, msg); err != nil {
			return nil, err
		}
		return currentValue(field), nil
	}

	switch field.Kind {
	case model.KindSelection:
		return r.promptSelection(ctx, field)
	case model.KindMultiSelection:
		return r.promptMultiSelection(ctx, field)
	case model.KindTextarea:
		return r.promptTextArea(ctx, field)
	}

	switch field.Type {
	case model.FieldTypeBoolean:
		return r.promptBoolean(ctx, field)
	case model.FieldTypeInteger, model.FieldTypeFloat:
		return r.promptNumber(ctx, field)
	default:
		return r.promptString(ctx, field)
	}
}

func (r *Renderer) promptString(ctx context.Context, field model.Field) (any, error) {
	for {
		response, err := r.driver.Input(ctx, InputConfig{
			Message: displayLabel(field),
			Default: field.StringValue(),
			Help:    displayHelp(field),
		})
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(response) == "" {
			if field.Required {
				r.invalid(ctx, field, "required")
				continue
			}
			return nil, nil
		}
		return response, nil
	}
}

func (r *Renderer) promptTextArea(ctx context.Context, field model.Field) (any, error) {
	for {
		response, err := r.driver.TextArea(ctx, TextAreaConfig{
			Message: displayLabel(field),
			Default: field.StringValue(),
			Help:    displayHelp(field),
		})
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(response) == "" {
			if field.Required {
				r.invalid(ctx, field, "required")
				continue
			}
			return nil, nil
		}
		return response, nil
	}
}

func (r *Renderer) promptBoolean(ctx context.Context, field model.Field) (any, error) {
	defaultVal, _ := strconv.ParseBool(field.StringValue())
	answer, err := r.driver.Confirm(ctx, ConfirmConfig{
		Message: displayLabel(field),
		Default: defaultVal,
		Help:    displayHelp(field),
	})
	if err != nil {
		return nil, err
	}
	return answer, nil
}

func (r *Renderer) promptNumber(ctx context.Context, field model.Field) (any, error) {
	for {
		input, err := r.driver.Input(ctx, InputConfig{
			Message: displayLabel(field),
			Default: field.StringValue(),
			Help:    displayHelp(field),
		})
		if err != nil {
			return nil, err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			if field.Required {
				r.invalid(ctx, field, "required")
				continue
			}
			return nil, nil
		}

		if field.Type == model.FieldTypeInteger {
			i, err := strconv.ParseInt(input, 10, 64)
			if err != nil {
				r.invalid(ctx, field, "expected an integer")
				continue
			}
			return i, nil
		}
		f, err := strconv.ParseFloat(input, 64)
		if err != nil {
			r.invalid(ctx, field, "expected a number")
			continue
		}
		return f, nil
	}
}

// promptSelection offers the visible options only. Filtered options can not
// be chosen in a terminal session.
func (r *Renderer) promptSelection(ctx context.Context, field model.Field) (any, error) {
	options := visibleOptions(field)
	if len(options) == 0 {
		if err := r.driver.Info(ctx, fmt.Sprintf("%s%s: no options available", r.theme.InfoPrefix, displayLabel(field))); err != nil {
			return nil, err
		}
		return currentValue(field), nil
	}

	labels := optionLabels(options)
	defaultIdx := -1
	for i, opt := range options {
		if field.HasValue(opt.Value) {
			defaultIdx = i
			break
		}
	}

	for {
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      displayLabel(field),
			Options:      labels,
			DefaultIndex: defaultIdx,
			Help:         displayHelp(field),
		})
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(options) {
			r.invalid(ctx, field, "invalid selection")
			continue
		}
		return options[idx].Value, nil
	}
}

func (r *Renderer) promptMultiSelection(ctx context.Context, field model.Field) (any, error) {
	options := visibleOptions(field)
	if len(options) == 0 {
		if err := r.driver.Info(ctx, fmt.Sprintf("%s%s: no options available", r.theme.InfoPrefix, displayLabel(field))); err != nil {
			return nil, err
		}
		return currentValue(field), nil
	}

	var defaults []int
	for i, opt := range options {
		if field.HasValue(opt.Value) {
			defaults = append(defaults, i)
		}
	}

	for {
		indices, err := r.driver.MultiSelect(ctx, SelectConfig{
			Message:  displayLabel(field),
			Options:  optionLabels(options),
			Defaults: defaults,
			Help:     displayHelp(field),
		})
		if err != nil {
			return nil, err
		}
		if len(indices) == 0 && field.Required {
			r.invalid(ctx, field, "required")
			continue
		}
		selected := make([]string, 0, len(indices))
		for _, idx := range indices {
			if idx >= 0 && idx < len(options) {
				selected = append(selected, options[idx].Value)
			}
		}
		return selected, nil
	}
}

func (r *Renderer) invalid(ctx context.Context, field model.Field, reason string) {
	_ = r.driver.Info(ctx, fmt.Sprintf("%sInvalid %s: %s", r.theme.ErrorPrefix, displayLabel(field), reason))
}

func (r *Renderer) serialize(values map[string]any) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(values)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(values)), nil
	default:
		return json.Marshal(values)
	}
}

func displayLabel(field model.Field) string {
	label := field.Label
	if label == "" {
		label = field.Name
	}
	if field.Number != "" {
		label = field.Number + " " + label
	}
	if field.Required {
		label += " *"
	}
	return label
}

var (
	helpPolicyOnce sync.Once
	helpPolicy     *bluemonday.Policy
)

// displayHelp strips markup from help texts so they read well in a terminal.
func displayHelp(field model.Field) string {
	if field.Help == "" {
		return ""
	}
	helpPolicyOnce.Do(func() {
		helpPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(stdhtml.UnescapeString(helpPolicy.Sanitize(field.Help)))
}

func visibleOptions(field model.Field) []model.Option {
	out := make([]model.Option, 0, len(field.Options))
	for _, opt := range field.Options {
		if opt.Visible {
			out = append(out, opt)
		}
	}
	return out
}

func optionLabels(options []model.Option) []string {
	out := make([]string, len(options))
	for i, opt := range options {
		out[i] = opt.Label
		if out[i] == "" {
			out[i] = opt.Value
		}
	}
	return out
}

// readonlyDisplay shows option labels for selection fields and raw values
// otherwise.
func readonlyDisplay(field model.Field) []string {
	if len(field.Value) == 0 {
		return []string{"-"}
	}
	out := make([]string, 0, len(field.Value))
	for _, value := range field.Value {
		label := value
		for _, opt := range field.Options {
			if opt.Value == value && opt.Label != "" {
				label = opt.Label
				break
			}
		}
		out = append(out, label)
	}
	return out
}

func currentValue(field model.Field) any {
	switch {
	case len(field.Value) == 0:
		return nil
	case field.Kind == model.KindMultiSelection:
		return append([]string(nil), field.Value...)
	default:
		return field.Value[0]
	}
}

func sortedKeys(values map[string]any) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func flattenForm(values map[string]any) string {
	flattened := url.Values{}
	for _, key := range sortedKeys(values) {
		switch v := values[key].(type) {
		case []string:
			for _, item := range v {
				flattened.Add(key, item)
			}
		case []any:
			for _, item := range v {
				flattened.Add(key, fmt.Sprint(item))
			}
		default:
			flattened.Set(key, fmt.Sprint(v))
		}
	}
	return flattened.Encode()
}

func prettyPrint(values map[string]any) string {
	var b strings.Builder
	for _, key := range sortedKeys(values) {
		switch v := values[key].(type) {
		case []string:
			for idx, item := range v {
				fmt.Fprintf(&b, "%s[%d]=%s\n", key, idx, item)
			}
		case []any:
			for idx, item := range v {
				fmt.Fprintf(&b, "%s[%d]=%v\n", key, idx, item)
			}
		default:
			fmt.Fprintf(&b, "%s=%v\n", key, v)
		}
	}
	return b.String()
}
