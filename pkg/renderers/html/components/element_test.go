package components

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbar/pkg/model"
)

func choiceField(readonly, removeFiltered bool) model.Field {
	return model.Field{
		ID:       "f1",
		Name:     "choice",
		Readonly: readonly,
		Renderer: model.RendererConfig{Type: "radio", RemoveFiltered: removeFiltered},
	}
}

func TestRadioGroupExample(t *testing.T) {
	options := []model.Option{
		{Label: "Yes", Value: "1", Visible: true},
		{Label: "No", Value: "0", Visible: false},
	}

	got := RadioGroup(options, choiceField(false, false))
	want := []Element{
		{Kind: ElementRadio, ID: "f1-0", Name: "choice", Value: "1", Label: "Yes"},
		{Kind: ElementHidden, ID: "f1", Name: "choice", Value: "0"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("elements mismatch (-want +got):\n%s", diff)
	}
}

func TestRadioGroupAllVisible(t *testing.T) {
	options := []model.Option{
		{Label: "Red", Value: "r", Visible: true},
		{Label: "Green", Value: "g", Visible: true},
		{Label: "Blue", Value: "b", Visible: true},
	}

	got := RadioGroup(options, choiceField(false, true))
	want := []Element{
		{Kind: ElementRadio, ID: "f1-0", Name: "choice", Value: "r", Label: "Red"},
		{Kind: ElementRadio, ID: "f1-1", Name: "choice", Value: "g", Label: "Green"},
		{Kind: ElementRadio, ID: "f1-2", Name: "choice", Value: "b", Label: "Blue"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("elements mismatch (-want +got):\n%s", diff)
	}
}

func TestRadioGroupRemoveFiltered(t *testing.T) {
	options := []model.Option{
		{Label: "A", Value: "a", Visible: false},
		{Label: "B", Value: "b", Visible: true},
		{Label: "C", Value: "c", Visible: false},
	}

	got := RadioGroup(options, choiceField(false, true))
	want := []Element{
		{Kind: ElementRadio, ID: "f1-1", Name: "choice", Value: "b", Label: "B"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("elements mismatch (-want +got):\n%s", diff)
	}
}

func TestRadioGroupHiddenFallbackKeepsBareID(t *testing.T) {
	options := []model.Option{
		{Label: "A", Value: "a", Visible: false},
		{Label: "B", Value: "b", Visible: true},
		{Label: "C", Value: "c", Visible: false},
	}

	got := RadioGroup(options, choiceField(false, false))
	want := []Element{
		{Kind: ElementHidden, ID: "f1", Name: "choice", Value: "a"},
		{Kind: ElementRadio, ID: "f1-1", Name: "choice", Value: "b", Label: "B"},
		{Kind: ElementHidden, ID: "f1", Name: "choice", Value: "c"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("elements mismatch (-want +got):\n%s", diff)
	}
}

func TestRadioGroupReadonlyDisablesOnlyRadios(t *testing.T) {
	options := []model.Option{
		{Label: "Yes", Value: "1", Visible: true},
		{Label: "No", Value: "0", Visible: false},
		{Label: "Maybe", Value: "2", Visible: true},
	}

	for _, element := range RadioGroup(options, choiceField(true, false)) {
		switch element.Kind {
		case ElementRadio:
			if !element.Disabled {
				t.Fatalf("radio %q should be disabled", element.ID)
			}
		case ElementHidden:
			if element.Disabled {
				t.Fatalf("hidden input for %q must never be disabled", element.Value)
			}
			if element.Label != "" {
				t.Fatalf("hidden input must not carry a label, got %q", element.Label)
			}
		}
	}
}

func TestRadioGroupEmpty(t *testing.T) {
	for _, field := range []model.Field{
		choiceField(false, false),
		choiceField(true, true),
		{},
	} {
		if got := RadioGroup(nil, field); len(got) != 0 {
			t.Fatalf("expected empty output, got %+v", got)
		}
	}
}

func TestRadioGroupMarksCurrentValue(t *testing.T) {
	field := choiceField(false, false)
	field.Value = []string{"g"}
	options := []model.Option{
		{Label: "Red", Value: "r", Visible: true},
		{Label: "Green", Value: "g", Visible: true},
	}

	got := RadioGroup(options, field)
	if got[0].Checked || !got[1].Checked {
		t.Fatalf("unexpected checked state: %+v", got)
	}
}

func TestSelectionElementsDropdownOmitsOptionIDs(t *testing.T) {
	field := choiceField(false, false)
	field.Options = []model.Option{
		{Label: "Red", Value: "r", Visible: true},
		{Label: "Green", Value: "g", Visible: false},
	}

	visible, hidden := Partition(SelectionElements(field, ElementOption))
	wantVisible := []Element{{Kind: ElementOption, Name: "choice", Value: "r", Label: "Red"}}
	wantHidden := []Element{{Kind: ElementHidden, ID: "f1", Name: "choice", Value: "g"}}
	if diff := cmp.Diff(wantVisible, visible); diff != "" {
		t.Fatalf("visible mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantHidden, hidden); diff != "" {
		t.Fatalf("hidden mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectionElementsCheckbox(t *testing.T) {
	field := choiceField(false, false)
	field.Value = []string{"a", "c"}
	field.Options = []model.Option{
		{Label: "A", Value: "a", Visible: true},
		{Label: "B", Value: "b", Visible: true},
		{Label: "C", Value: "c", Visible: true},
	}

	got := SelectionElements(field, ElementCheckbox)
	want := []Element{
		{Kind: ElementCheckbox, ID: "f1-0", Name: "choice", Value: "a", Label: "A", Checked: true},
		{Kind: ElementCheckbox, ID: "f1-1", Name: "choice", Value: "b", Label: "B"},
		{Kind: ElementCheckbox, ID: "f1-2", Name: "choice", Value: "c", Label: "C", Checked: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("elements mismatch (-want +got):\n%s", diff)
	}
}
