// Package formbar renders forms described by XML configuration documents.
//
// The root package re-exports the pieces most callers need: load a
// configuration, then render one of its forms with RenderHTML or through an
// orchestrator configured with custom renderers and themes.
package formbar

import (
	"context"
	"errors"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formbar/pkg/config"
	"github.com/goliatone/go-formbar/pkg/orchestrator"
	"github.com/goliatone/go-formbar/pkg/render"
)

// RenderOptions describes per-request overrides that renderers can use to
// prefill values or surface server-side validation errors.
type RenderOptions = render.RenderOptions

// FieldSubset aliases render.FieldSubset for callers rendering part of a form.
type FieldSubset = render.FieldSubset

// Request aliases orchestrator.Request.
type Request = orchestrator.Request

// LoadConfig reads and parses a configuration document from disk.
func LoadConfig(path string, options ...config.Option) (*config.Config, error) {
	return config.LoadFile(path, options...)
}

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// RenderHTML builds the form formID from cfg with values and renders it with
// the default HTML renderer.
func RenderHTML(ctx context.Context, cfg *config.Config, formID string, values map[string]any, options ...orchestrator.Option) ([]byte, error) {
	if cfg == nil {
		return nil, errors.New("formbar: config is required")
	}
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Config: cfg,
		FormID: formID,
		Values: values,
	})
}

// WithThemeSelector passes a go-theme selector through to the orchestrator so
// theme/variant choices can be resolved ahead of rendering.
func WithThemeSelector(selector theme.ThemeSelector) orchestrator.Option {
	return orchestrator.WithThemeSelector(selector)
}

// WithTheme selects the theme and variant used when a request names none.
func WithTheme(name, variant string) orchestrator.Option {
	return orchestrator.WithDefaultTheme(name, variant)
}

// WithThemeFallbacks forwards fallback partials used when deriving renderer
// configuration from a theme selection.
func WithThemeFallbacks(fallbacks map[string]string) orchestrator.Option {
	return orchestrator.WithThemeFallbacks(fallbacks)
}
