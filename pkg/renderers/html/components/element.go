package components

import (
	"strconv"

	"github.com/goliatone/go-formbar/pkg/model"
)

// ElementKind identifies the markup produced for a single option.
type ElementKind string

const (
	ElementRadio    ElementKind = "radio"
	ElementCheckbox ElementKind = "checkbox"
	ElementOption   ElementKind = "option"
	ElementHidden   ElementKind = "hidden"
)

// Element is one piece of selection markup. Label is empty for hidden
// elements and Disabled is never set on them.
type Element struct {
	Kind     ElementKind `json:"kind"`
	ID       string      `json:"id,omitempty"`
	Name     string      `json:"name"`
	Value    string      `json:"value"`
	Label    string      `json:"label,omitempty"`
	Disabled bool        `json:"disabled,omitempty"`
	Checked  bool        `json:"checked,omitempty"`
}

// RadioGroup lays out the options of field as radio buttons.
//
// A visible option at index i becomes a radio with id "<field.ID>-<i>". A
// filtered option disappears when the field's renderer has RemoveFiltered
// set; otherwise its value is kept in a hidden input carrying the bare field
// id, so the current selection still submits. Output follows option order.
func RadioGroup(options []model.Option, field model.Field) []Element {
	return selection(options, field, ElementRadio)
}

// SelectionElements applies the RadioGroup rules to the options of field
// using kind for visible options (radio, checkbox or option).
func SelectionElements(field model.Field, kind ElementKind) []Element {
	return selection(field.Options, field, kind)
}

func selection(options []model.Option, field model.Field, kind ElementKind) []Element {
	elements := make([]Element, 0, len(options))
	for i, option := range options {
		if !option.Visible {
			if field.Renderer.RemoveFiltered {
				continue
			}
			elements = append(elements, Element{
				Kind:  ElementHidden,
				ID:    field.ID,
				Name:  field.Name,
				Value: option.Value,
			})
			continue
		}

		element := Element{
			Kind:     kind,
			Name:     field.Name,
			Value:    option.Value,
			Label:    option.Label,
			Disabled: field.IsReadonly(),
			Checked:  field.HasValue(option.Value),
		}
		if kind != ElementOption {
			element.ID = field.ID + "-" + strconv.Itoa(i)
		}
		elements = append(elements, element)
	}
	return elements
}

// Partition splits elements into visible controls and hidden fallbacks,
// preserving relative order.
func Partition(elements []Element) (visible, hidden []Element) {
	for _, element := range elements {
		if element.Kind == ElementHidden {
			hidden = append(hidden, element)
			continue
		}
		visible = append(visible, element)
	}
	return visible, hidden
}
