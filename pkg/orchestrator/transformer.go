package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formbar/pkg/model"
)

// Transformer mutates a built Form before it is rendered. Implementations can
// relabel fields, toggle flags, or perform arbitrary rewrites.
type Transformer interface {
	Transform(ctx context.Context, form *model.Form) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, form *model.Form) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, form *model.Form) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, form)
}

// PresetTransformer applies declarative overrides loaded from a JSON or YAML
// document:
//
//	form:
//	  css: wide
//	  action: /v2/submit
//	fields:
//	  comment:
//	    label: Notes
//	    required: false
type PresetTransformer struct {
	document presetDocument
}

type presetDocument struct {
	Form   formPatch             `json:"form" yaml:"form"`
	Fields map[string]fieldPatch `json:"fields" yaml:"fields"`
}

type formPatch struct {
	CSS    string `json:"css" yaml:"css"`
	Method string `json:"method" yaml:"method"`
	Action string `json:"action" yaml:"action"`
}

type fieldPatch struct {
	Label    string `json:"label" yaml:"label"`
	Help     string `json:"help" yaml:"help"`
	CSS      string `json:"css" yaml:"css"`
	Number   string `json:"number" yaml:"number"`
	Readonly *bool  `json:"readonly" yaml:"readonly"`
	Required *bool  `json:"required" yaml:"required"`
	Desired  *bool  `json:"desired" yaml:"desired"`
}

// NewPresetTransformer parses a JSON preset document.
func NewPresetTransformer(data []byte) (*PresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("preset transformer: document is empty")
	}
	var document presetDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("preset transformer: parse document: %w", err)
	}
	return &PresetTransformer{document: document}, nil
}

// NewYAMLPresetTransformer parses a YAML preset document.
func NewYAMLPresetTransformer(data []byte) (*PresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("preset transformer: document is empty")
	}
	var document presetDocument
	if err := yaml.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("preset transformer: parse document: %w", err)
	}
	return &PresetTransformer{document: document}, nil
}

// NewPresetTransformerFromFS loads a preset from fsys, picking the decoder
// from the file extension (.yaml/.yml or JSON otherwise).
func NewPresetTransformerFromFS(fsys fs.FS, name string) (*PresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("preset transformer: read %s: %w", name, err)
	}
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		return NewYAMLPresetTransformer(data)
	default:
		return NewPresetTransformer(data)
	}
}

// Transform applies the declarative patches onto the supplied form. Patches
// naming unknown fields fail.
func (t *PresetTransformer) Transform(ctx context.Context, form *model.Form) error {
	if form == nil {
		return errors.New("preset transformer: form is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if t.document.Form.CSS != "" {
		form.CSS = t.document.Form.CSS
	}
	if t.document.Form.Method != "" {
		form.Method = strings.ToUpper(t.document.Form.Method)
	}
	if t.document.Form.Action != "" {
		form.Action = t.document.Form.Action
	}

	for name, patch := range t.document.Fields {
		field := findField(form.Fields, name)
		if field == nil {
			return fmt.Errorf("preset transformer: field %q not found", name)
		}
		applyFieldPatch(field, patch)
	}
	return nil
}

func applyFieldPatch(field *model.Field, patch fieldPatch) {
	if patch.Label != "" {
		field.Label = patch.Label
	}
	if patch.Help != "" {
		field.Help = patch.Help
	}
	if patch.CSS != "" {
		field.CSS = patch.CSS
	}
	if patch.Number != "" {
		field.Number = patch.Number
	}
	if patch.Readonly != nil {
		field.Readonly = *patch.Readonly
	}
	if patch.Required != nil {
		field.Required = *patch.Required
	}
	if patch.Desired != nil {
		field.Desired = *patch.Desired
	}
}

func findField(fields []model.Field, name string) *model.Field {
	for idx := range fields {
		if fields[idx].Name == name {
			return &fields[idx]
		}
	}
	return nil
}
