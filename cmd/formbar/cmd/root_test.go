package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbar/pkg/renderers/tui"
	"github.com/goliatone/go-formbar/pkg/testsupport"
)

const formsFixture = "../../../pkg/config/testdata/forms.xml"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := NewRootCommand()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestFormsCommand(t *testing.T) {
	out, err := execute(t, "forms", "--config", formsFixture)
	if err != nil {
		t.Fatalf("forms: %v", err)
	}
	if diff := cmp.Diff("survey\nbroken\naliased\n", out); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderCommandMatchesGolden(t *testing.T) {
	out, err := execute(t, "render", "survey", "-c", formsFixture, "--set", "user=alice")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := testsupport.MustReadGolden(t, "../../../pkg/renderers/html/testdata/survey.golden.html")
	if diff := testsupport.CompareGolden(string(want), out); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderCommandWithValuesThemeAndPreset(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "values.yaml"), "user: bob\nchoice: \"1\"\n")
	writeFile(t, filepath.Join(dir, "acme.yaml"), "name: acme\ntokens:\n  brand: \"#123456\"\nassets:\n  prefix: /static\n")
	writeFile(t, filepath.Join(dir, "preset.json"), `{"fields": {"owner": {"label": "Assignee"}}}`)
	output := filepath.Join(dir, "out.html")

	_, err := execute(t, "render", "survey",
		"-c", formsFixture,
		"--values", filepath.Join(dir, "values.yaml"),
		"--theme-file", filepath.Join(dir, "acme.yaml"),
		"--preset", filepath.Join(dir, "preset.json"),
		"--stylesheet", "/static/formbar.css",
		"--fields", "-colour",
		"-o", output,
	)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	got := string(data)
	for _, want := range []string{
		`<link rel="stylesheet" href="/static/formbar.css"/>`,
		`style="--brand: #123456"`,
		`value="1" checked/>`,
		`>Assignee</label>`,
		`value="bob"`,
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in output:\n%s", want, got)
		}
	}
	if strings.Contains(got, `name="colour"`) {
		t.Fatalf("excluded field rendered:\n%s", got)
	}
}

func TestRenderCommandErrors(t *testing.T) {
	if _, err := execute(t, "render", "nope", "-c", formsFixture); err == nil {
		t.Fatalf("expected error for unknown form")
	}
	if _, err := execute(t, "render", "survey", "-c", formsFixture, "--set", "novalue"); err == nil {
		t.Fatalf("expected error for malformed --set")
	}
	if _, err := execute(t, "render", "-c", formsFixture); err == nil {
		t.Fatalf("expected error for missing form id")
	}
}

func TestValueFlagsBuildLists(t *testing.T) {
	flags := valueFlags{set: []string{"tags=a", "tags=b", "name=x"}}
	values, err := flags.load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := map[string]any{"tags": []any{"a", "b"}, "name": "x"}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestPromptCommand(t *testing.T) {
	promptDriver = &scriptedDriver{}
	t.Cleanup(func() { promptDriver = nil })

	out, err := execute(t, "prompt", "survey", "-c", formsFixture, "--format", "pretty", "--fields", "choice,owner")
	if err != nil {
		t.Fatalf("prompt: %v", err)
	}
	if diff := cmp.Diff("choice=1\nowner=dana\n\n", out); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// scriptedDriver picks the first option of every selection and answers
// "dana" to every text prompt.
type scriptedDriver struct{}

func (scriptedDriver) Input(context.Context, tui.InputConfig) (string, error) { return "dana", nil }
func (scriptedDriver) Confirm(context.Context, tui.ConfirmConfig) (bool, error) {
	return true, nil
}
func (scriptedDriver) Select(context.Context, tui.SelectConfig) (int, error) { return 0, nil }
func (scriptedDriver) MultiSelect(context.Context, tui.SelectConfig) ([]int, error) {
	return []int{0}, nil
}
func (scriptedDriver) TextArea(context.Context, tui.TextAreaConfig) (string, error) {
	return "dana", nil
}
func (scriptedDriver) Info(context.Context, string) error { return nil }
