package config

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"
)

// scalar keeps the literal text of a YAML scalar so `true`, `"true"` and `1`
// all reach the element tree the way they were written.
type scalar string

func (s *scalar) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("config: line %d: expected scalar value", node.Line)
	}
	*s = scalar(node.Value)
	return nil
}

type yamlDocument struct {
	Entities []yamlEntity  `yaml:"entities"`
	Snippets []yamlSnippet `yaml:"snippets"`
	Forms    []yamlForm    `yaml:"forms"`
}

type yamlEntity struct {
	ID           scalar        `yaml:"id"`
	Ref          scalar        `yaml:"ref"`
	Name         scalar        `yaml:"name"`
	Label        *scalar       `yaml:"label"`
	Number       scalar        `yaml:"number"`
	Type         scalar        `yaml:"type"`
	CSS          scalar        `yaml:"css"`
	Readonly     scalar        `yaml:"readonly"`
	Required     scalar        `yaml:"required"`
	Desired      scalar        `yaml:"desired"`
	Autocomplete scalar        `yaml:"autocomplete"`
	Value        scalar        `yaml:"value"`
	Help         scalar        `yaml:"help"`
	Renderer     *yamlRenderer `yaml:"renderer"`
	Options      []yamlOption  `yaml:"options"`
}

type yamlRenderer struct {
	Type           scalar `yaml:"type"`
	RemoveFiltered scalar `yaml:"remove_filtered"`
	Filter         scalar `yaml:"filter"`
	Sort           scalar `yaml:"sort"`
	SortOrder      scalar `yaml:"sortorder"`
}

type yamlOption struct {
	Label scalar            `yaml:"label"`
	Value scalar            `yaml:"value"`
	Attrs map[string]scalar `yaml:"attrs"`
}

type yamlItem struct {
	Field   scalar `yaml:"field"`
	Snippet scalar `yaml:"snippet"`
}

type yamlSnippet struct {
	ID    scalar     `yaml:"id"`
	Ref   scalar     `yaml:"ref"`
	Items []yamlItem `yaml:"items"`
}

type yamlForm struct {
	ID           scalar     `yaml:"id"`
	Ref          scalar     `yaml:"ref"`
	CSS          scalar     `yaml:"css"`
	Autocomplete scalar     `yaml:"autocomplete"`
	Method       scalar     `yaml:"method"`
	Action       scalar     `yaml:"action"`
	Enctype      scalar     `yaml:"enctype"`
	Items        []yamlItem `yaml:"items"`
}

// ParseYAML reads the YAML dialect of a configuration document.
func ParseYAML(r io.Reader, opts ...Option) (*Config, error) {
	var doc yamlDocument
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyDocument
		}
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	return New(doc.lower(), opts...)
}

func (d yamlDocument) lower() *Element {
	root := &Element{Name: "configuration"}

	source := &Element{Name: "source"}
	for _, entity := range d.Entities {
		source.Children = append(source.Children, entity.lower())
	}
	root.Children = append(root.Children, source)

	for _, snippet := range d.Snippets {
		node := &Element{Name: "snippet"}
		setAttr(node, "id", snippet.ID)
		setAttr(node, "ref", snippet.Ref)
		node.Children = lowerItems(snippet.Items)
		root.Children = append(root.Children, node)
	}

	for _, form := range d.Forms {
		node := &Element{Name: "form"}
		setAttr(node, "id", form.ID)
		setAttr(node, "ref", form.Ref)
		setAttr(node, "css", form.CSS)
		setAttr(node, "autocomplete", form.Autocomplete)
		setAttr(node, "method", form.Method)
		setAttr(node, "action", form.Action)
		setAttr(node, "enctype", form.Enctype)
		node.Children = lowerItems(form.Items)
		root.Children = append(root.Children, node)
	}
	return root
}

func (e yamlEntity) lower() *Element {
	node := &Element{Name: "entity"}
	setAttr(node, "id", e.ID)
	setAttr(node, "ref", e.Ref)
	setAttr(node, "name", e.Name)
	if e.Label != nil {
		node.setAttr("label", string(*e.Label))
	}
	setAttr(node, "number", e.Number)
	setAttr(node, "type", e.Type)
	setAttr(node, "css", e.CSS)
	setAttr(node, "readonly", e.Readonly)
	setAttr(node, "required", e.Required)
	setAttr(node, "desired", e.Desired)
	setAttr(node, "autocomplete", e.Autocomplete)
	setAttr(node, "value", e.Value)

	if e.Help != "" {
		node.Children = append(node.Children, &Element{Name: "help", Text: string(e.Help)})
	}
	if r := e.Renderer; r != nil {
		renderer := &Element{Name: "renderer"}
		setAttr(renderer, "type", r.Type)
		setAttr(renderer, "remove_filtered", r.RemoveFiltered)
		setAttr(renderer, "filter", r.Filter)
		setAttr(renderer, "sort", r.Sort)
		setAttr(renderer, "sortorder", r.SortOrder)
		node.Children = append(node.Children, renderer)
	}
	if len(e.Options) > 0 {
		options := &Element{Name: "options"}
		for _, opt := range e.Options {
			option := &Element{Name: "option", Text: string(opt.Label)}
			option.setAttr("value", string(opt.Value))
			keys := make([]string, 0, len(opt.Attrs))
			for key := range opt.Attrs {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			for _, key := range keys {
				option.setAttr(key, string(opt.Attrs[key]))
			}
			options.Children = append(options.Children, option)
		}
		node.Children = append(node.Children, options)
	}
	return node
}

func lowerItems(items []yamlItem) []*Element {
	out := make([]*Element, 0, len(items))
	for _, item := range items {
		switch {
		case item.Field != "":
			out = append(out, &Element{Name: "field", Attrs: map[string]string{"ref": string(item.Field)}})
		case item.Snippet != "":
			out = append(out, &Element{Name: "snippet", Attrs: map[string]string{"ref": string(item.Snippet)}})
		}
	}
	return out
}

func setAttr(node *Element, key string, value scalar) {
	if value == "" {
		return
	}
	node.setAttr(key, string(value))
}

func (e *Element) setAttr(key, value string) {
	if e.Attrs == nil {
		e.Attrs = make(map[string]string)
	}
	e.Attrs[key] = value
}
