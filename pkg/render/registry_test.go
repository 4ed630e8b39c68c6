package render_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbar/pkg/model"
	"github.com/goliatone/go-formbar/pkg/render"
)

type namedRenderer string

func (n namedRenderer) Name() string        { return string(n) }
func (n namedRenderer) ContentType() string { return "text/plain" }
func (n namedRenderer) Render(_ context.Context, form model.Form, _ render.RenderOptions) ([]byte, error) {
	return []byte(form.ID), nil
}

func TestRegistry(t *testing.T) {
	registry := render.NewRegistry()
	registry.MustRegister(namedRenderer("html"))
	registry.MustRegister(namedRenderer("tui"))

	if err := registry.Register(namedRenderer("html")); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if err := registry.Register(nil); err == nil {
		t.Fatalf("expected error for nil renderer")
	}
	if err := registry.Register(namedRenderer(" ")); err == nil {
		t.Fatalf("expected error for empty name")
	}

	if diff := cmp.Diff([]string{"html", "tui"}, registry.List()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}

	fallback, err := registry.Get("")
	if err != nil {
		t.Fatalf("get default: %v", err)
	}
	if fallback.Name() != "html" {
		t.Fatalf("expected first registered renderer as default, got %q", fallback.Name())
	}

	if err := registry.SetDefault("tui"); err != nil {
		t.Fatalf("set default: %v", err)
	}
	fallback, _ = registry.Get("")
	if fallback.Name() != "tui" {
		t.Fatalf("expected tui default, got %q", fallback.Name())
	}

	if _, err := registry.Get("pdf"); err == nil {
		t.Fatalf("expected error for unknown renderer")
	}
	if err := registry.SetDefault("pdf"); err == nil {
		t.Fatalf("expected error for unknown default")
	}
}
