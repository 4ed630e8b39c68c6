package orchestrator_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-formbar/pkg/config"
	"github.com/goliatone/go-formbar/pkg/model"
	"github.com/goliatone/go-formbar/pkg/orchestrator"
	"github.com/goliatone/go-formbar/pkg/render"
	"github.com/goliatone/go-formbar/pkg/testsupport"
)

const formsFixture = "../config/testdata/forms.xml"

func TestOrchestrator_DefaultRendererMatchesHTMLGolden(t *testing.T) {
	t.Parallel()

	cfg := testsupport.LoadConfig(t, formsFixture)
	orch := orchestrator.New()

	output, contentType, err := orch.GenerateWithContentType(testsupport.Context(), orchestrator.Request{
		Config: cfg,
		FormID: "survey",
		Values: map[string]any{"user": "alice"},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.HasPrefix(contentType, "text/html") {
		t.Fatalf("unexpected content type %q", contentType)
	}

	want := testsupport.MustReadGolden(t, filepath.Join("..", "renderers", "html", "testdata", "survey.golden.html"))
	if diff := testsupport.CompareGolden(string(want), string(output)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestOrchestrator_AppliesTransformer(t *testing.T) {
	t.Parallel()

	cfg := testsupport.LoadConfig(t, formsFixture)
	renderer := &captureRenderer{}
	registry := render.NewRegistry()
	registry.MustRegister(renderer)

	called := false
	transformer := orchestrator.TransformerFunc(func(_ context.Context, form *model.Form) error {
		called = true
		form.CSS = "patched"
		return nil
	})

	orch := orchestrator.New(
		orchestrator.WithRegistry(registry),
		orchestrator.WithDefaultRenderer(renderer.Name()),
		orchestrator.WithTransformer(transformer),
	)

	out, err := orch.Generate(context.Background(), orchestrator.Request{Config: cfg, FormID: "survey"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !called {
		t.Fatalf("expected transformer to be invoked")
	}
	if renderer.form.CSS != "patched" {
		t.Fatalf("transformer mutation missing: %q", renderer.form.CSS)
	}
	if string(out) != "survey" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestOrchestrator_TransformerErrorAborts(t *testing.T) {
	t.Parallel()

	cfg := testsupport.LoadConfig(t, formsFixture)
	registry := render.NewRegistry()
	registry.MustRegister(&captureRenderer{})

	orch := orchestrator.New(
		orchestrator.WithRegistry(registry),
		orchestrator.WithTransformer(orchestrator.TransformerFunc(func(context.Context, *model.Form) error {
			return errors.New("boom")
		})),
	)

	_, err := orch.Generate(context.Background(), orchestrator.Request{Config: cfg, FormID: "survey"})
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected transformer error, got %v", err)
	}
}

func TestOrchestrator_RequestValidation(t *testing.T) {
	t.Parallel()

	cfg := testsupport.LoadConfig(t, formsFixture)
	orch := orchestrator.New()

	cases := map[string]orchestrator.Request{
		"missing config": {FormID: "survey"},
		"missing form":   {Config: cfg},
		"unknown form":   {Config: cfg, FormID: "nope"},
		"broken form":    {Config: cfg, FormID: "broken"},
		"unknown render": {Config: cfg, FormID: "survey", Renderer: "pdf"},
	}
	for name, req := range cases {
		if _, err := orch.Generate(context.Background(), req); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestOrchestrator_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := orchestrator.New().Generate(ctx, orchestrator.Request{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestOrchestrator_FallsBackToRegistryDefault(t *testing.T) {
	t.Parallel()

	cfg := testsupport.LoadConfig(t, formsFixture)
	renderer := &captureRenderer{}
	registry := render.NewRegistry()
	registry.MustRegister(renderer)

	orch := orchestrator.New(orchestrator.WithRegistry(registry))
	if _, err := orch.Generate(context.Background(), orchestrator.Request{Config: cfg, FormID: "aliased"}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if renderer.form.ID != "aliased" {
		t.Fatalf("expected capture renderer to run, got %+v", renderer.form)
	}
}

const cityFormDoc = `<configuration>
  <source>
    <entity id="e_country" name="country"/>
    <entity id="e_city" name="city">
      <renderer type="radio" remove_filtered="true" filter="%country == $country"/>
      <options>
        <option value="berlin" country="de">Berlin</option>
        <option value="paris" country="fr">Paris</option>
      </options>
    </entity>
  </source>
  <form id="f">
    <field ref="e_country"/>
    <field ref="e_city"/>
  </form>
</configuration>`

func TestOrchestrator_RenderValuesFeedFilters(t *testing.T) {
	t.Parallel()

	cfg, err := config.ParseString(cityFormDoc)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	renderer := &captureRenderer{}
	registry := render.NewRegistry()
	registry.MustRegister(renderer)
	orch := orchestrator.New(orchestrator.WithRegistry(registry))

	_, err = orch.Generate(context.Background(), orchestrator.Request{
		Config:        cfg,
		FormID:        "f",
		Values:        map[string]any{"country": "fr"},
		RenderOptions: render.RenderOptions{Values: map[string]any{"country": "de"}},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	city, ok := renderer.form.Field("city")
	if !ok {
		t.Fatalf("city field missing: %+v", renderer.form)
	}
	visible := map[string]bool{}
	for _, option := range city.Options {
		visible[option.Value] = option.Visible
	}
	if !visible["berlin"] || visible["paris"] {
		t.Fatalf("expected only berlin visible, got %+v", city.Options)
	}
}

type captureRenderer struct {
	form    model.Form
	options render.RenderOptions
}

func (r *captureRenderer) Name() string {
	return "capture"
}

func (r *captureRenderer) ContentType() string {
	return "text/plain"
}

func (r *captureRenderer) Render(_ context.Context, form model.Form, opts render.RenderOptions) ([]byte, error) {
	r.form = form
	r.options = opts
	return []byte(form.ID), nil
}
