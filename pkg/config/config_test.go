package config

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func loadFixture(t *testing.T, name string) *Config {
	t.Helper()

	cfg, err := LoadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("load %s: %v", name, err)
	}
	return cfg
}

func TestConfigElements(t *testing.T) {
	cfg := loadFixture(t, "forms.xml")

	entities := cfg.Elements("entity")
	if len(entities) != 5 {
		t.Fatalf("expected 5 entities, got %d", len(entities))
	}
	if got := cfg.Elements("nothing"); len(got) != 0 {
		t.Fatalf("expected no elements, got %d", len(got))
	}
}

func TestConfigElementFollowsRef(t *testing.T) {
	cfg := loadFixture(t, "forms.xml")

	element, err := cfg.Element("entity", "e_alias")
	if err != nil {
		t.Fatalf("element: %v", err)
	}
	if element == nil || element.Attr("id", "") != "e_comment" {
		t.Fatalf("expected ref to resolve to e_comment, got %#v", element)
	}

	missing, err := cfg.Element("entity", "e_unknown")
	if err != nil {
		t.Fatalf("element: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown id, got %#v", missing)
	}
}

func TestConfigElementAmbiguous(t *testing.T) {
	cfg, err := ParseString(`<c><entity id="a" name="x"/><entity id="a" name="y"/></c>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := cfg.Element("entity", "a"); !errors.Is(err, ErrAmbiguousElement) {
		t.Fatalf("expected ErrAmbiguousElement, got %v", err)
	}
}

func TestConfigElementReferenceCycle(t *testing.T) {
	cfg, err := ParseString(`<c><entity id="a" ref="b"/><entity id="b" ref="a"/></c>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := cfg.Element("entity", "a"); !errors.Is(err, ErrReferenceCycle) {
		t.Fatalf("expected ErrReferenceCycle, got %v", err)
	}
}

func TestConfigFormAttributesAndFields(t *testing.T) {
	cfg := loadFixture(t, "forms.xml")

	form, err := cfg.Form("survey")
	if err != nil {
		t.Fatalf("form: %v", err)
	}
	if form.Method != "POST" || form.Action != "/submit" || form.CSS != "narrow" || form.Autocomplete != "on" {
		t.Fatalf("unexpected form attributes: %+v", form)
	}

	var names []string
	for _, field := range form.Fields() {
		names = append(names, field.Name)
	}
	want := []string{"choice", "comment", "colour", "owner"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}

	choice, err := form.Field("choice")
	if err != nil {
		t.Fatalf("field: %v", err)
	}
	wantChoice := &FieldConfig{
		ID:           "e_choice",
		Name:         "choice",
		Label:        "Your choice",
		Type:         "string",
		Autocomplete: "on",
		Help:         "Pick <b>one</b> answer.",
		Renderer: RendererConfig{
			Type:      "radio",
			Filter:    "%status == 'active'",
			SortOrder: "asc",
		},
		Options: []OptionConfig{
			{Label: "Yes", Value: "1", Attrs: map[string]string{"status": "active"}},
			{Label: "No", Value: "0", Attrs: map[string]string{"status": "retired"}},
		},
	}
	if diff := cmp.Diff(wantChoice, choice); diff != "" {
		t.Fatalf("choice config mismatch (-want +got):\n%s", diff)
	}

	colour, _ := form.Field("colour")
	if !colour.Readonly || !colour.Renderer.RemoveFiltered || !colour.Renderer.Sort || colour.Renderer.SortOrder != "desc" {
		t.Fatalf("unexpected colour config: %+v", colour)
	}

	comment, _ := form.Field("comment")
	if comment.Label != "Comment" || !comment.Required || comment.Renderer.Type != "textarea" {
		t.Fatalf("unexpected comment config: %+v", comment)
	}

	if _, err := form.Field("missing"); !errors.Is(err, ErrFieldNotFound) {
		t.Fatalf("expected ErrFieldNotFound, got %v", err)
	}
}

func TestConfigRemoveFilteredRequiresLiteralTrue(t *testing.T) {
	for raw, want := range map[string]bool{
		"true":  true,
		"True":  false,
		"TRUE":  false,
		"1":     false,
		"false": false,
		"":      false,
	} {
		doc := `<c><entity id="e" name="f"><renderer type="radio" remove_filtered="` + raw + `"/></entity><form id="x"><field ref="e"/></form></c>`
		cfg, err := ParseString(doc)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		form, err := cfg.Form("x")
		if err != nil {
			t.Fatalf("form: %v", err)
		}
		field, _ := form.Field("f")
		if field.Renderer.RemoveFiltered != want {
			t.Fatalf("remove_filtered=%q: want %v, got %v", raw, want, field.Renderer.RemoveFiltered)
		}
	}
}

func TestConfigFormErrors(t *testing.T) {
	cfg := loadFixture(t, "forms.xml")

	if _, err := cfg.Form("nope"); !errors.Is(err, ErrFormNotFound) {
		t.Fatalf("expected ErrFormNotFound, got %v", err)
	}
	if _, err := cfg.Form("broken"); !errors.Is(err, ErrEntityNotFound) {
		t.Fatalf("expected ErrEntityNotFound, got %v", err)
	}

	aliased, err := cfg.Form("aliased")
	if err != nil {
		t.Fatalf("form: %v", err)
	}
	if aliased.Method != "GET" || aliased.Autocomplete != "off" {
		t.Fatalf("unexpected aliased attributes: %+v", aliased)
	}
	if fields := aliased.Fields(); len(fields) != 1 || fields[0].Name != "comment" {
		t.Fatalf("expected aliased entity to resolve to comment, got %+v", fields)
	}
}

func TestConfigFormIDs(t *testing.T) {
	cfg := loadFixture(t, "forms.xml")
	if diff := cmp.Diff([]string{"survey", "broken", "aliased"}, cfg.FormIDs()); diff != "" {
		t.Fatalf("form ids mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRejectsEmptyAndMalformed(t *testing.T) {
	if _, err := ParseString(""); !errors.Is(err, ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
	if _, err := ParseString("<c><entity></c>"); err == nil {
		t.Fatalf("expected malformed xml error")
	}
}

func TestEntityWithoutNameFails(t *testing.T) {
	cfg, err := ParseString(`<c><entity id="e"/><form id="x"><field ref="e"/></form></c>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	_, err = cfg.Form("x")
	if err == nil || !strings.Contains(err.Error(), "has no name") {
		t.Fatalf("expected missing name error, got %v", err)
	}
}

func TestLoadFileErrors(t *testing.T) {
	if _, err := LoadFile(filepath.Join("testdata", "forms.txt")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	if _, err := LoadFile(filepath.Join("testdata", "missing.xml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestYAMLMatchesXML(t *testing.T) {
	xmlCfg := loadFixture(t, "forms.xml")
	yamlCfg := loadFixture(t, "forms.yaml")

	xmlForm, err := xmlCfg.Form("survey")
	if err != nil {
		t.Fatalf("xml form: %v", err)
	}
	yamlForm, err := yamlCfg.Form("survey")
	if err != nil {
		t.Fatalf("yaml form: %v", err)
	}

	for _, name := range []string{"choice", "comment"} {
		want, err := xmlForm.Field(name)
		if err != nil {
			t.Fatalf("xml field %s: %v", name, err)
		}
		got, err := yamlForm.Field(name)
		if err != nil {
			t.Fatalf("yaml field %s: %v", name, err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("field %s mismatch between dialects (-xml +yaml):\n%s", name, diff)
		}
	}
	if yamlForm.Method != "POST" || yamlForm.Action != "/submit" {
		t.Fatalf("unexpected yaml form attributes: %+v", yamlForm)
	}
}

func TestParseYAMLRejectsUnknownKeys(t *testing.T) {
	_, err := ParseYAML(strings.NewReader("entities:\n  - id: e\n    colour: red\n"))
	if err == nil {
		t.Fatalf("expected unknown key error")
	}
}
