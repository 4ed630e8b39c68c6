package html

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"slices"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formbar/pkg/model"
	"github.com/goliatone/go-formbar/pkg/render"
	rendertemplate "github.com/goliatone/go-formbar/pkg/render/template"
	"github.com/goliatone/go-formbar/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formbar/pkg/renderers/html/components"
)

// StylesheetAssetKey is the theme asset key looked up for a stylesheet link.
const StylesheetAssetKey = "formbar.stylesheet"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	registry         *components.Registry
	stylesheets      []string
	logger           *slog.Logger
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithComponentRegistry replaces the built-in component registry.
func WithComponentRegistry(registry *components.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.registry = registry
		}
	}
}

// WithStylesheets adds stylesheet links emitted before every form.
func WithStylesheets(hrefs ...string) Option {
	return func(cfg *config) {
		cfg.stylesheets = append(cfg.stylesheets, hrefs...)
	}
}

// WithLogger sets the logger used for render diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// Renderer renders forms as HTML.
type Renderer struct {
	templates   rendertemplate.TemplateRenderer
	registry    *components.Registry
	stylesheets []string
	logger      *slog.Logger
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the HTML renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS: TemplatesFS(),
		logger:     slog.Default(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.registry == nil {
		cfg.registry = components.NewDefaultRegistry()
	}

	templates := cfg.templateRenderer
	if templates == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		templates = engine
	}

	return &Renderer{
		templates:   templates,
		registry:    cfg.registry,
		stylesheets: cfg.stylesheets,
		logger:      cfg.logger,
	}, nil
}

func (r *Renderer) Name() string {
	return "html"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the markup of form. Values in options replace the values
// resolved at build time; the caller's form is not modified.
func (r *Renderer) Render(ctx context.Context, form model.Form, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.templates == nil {
		return nil, fmt.Errorf("html renderer: template renderer is nil")
	}

	form.Fields = slices.Clone(form.Fields)
	form.ApplyValues(options.Values)
	render.ApplySubset(&form, options.Subset)

	r.logger.Debug("rendering form", "form", form.ID, "fields", len(form.Fields))

	fields := newComponentRenderer(r.templates, r.registry, themePartials(options.Theme), options.Errors)
	markup := make([]string, 0, len(form.Fields))
	for _, field := range form.Fields {
		rendered, err := fields.render(field)
		if err != nil {
			return nil, fmt.Errorf("html renderer: %w", err)
		}
		markup = append(markup, rendered)
	}

	payload := map[string]any{
		"form":          form,
		"fields":        markup,
		"form_errors":   render.MergeFormErrors(nil, options.FormErrors...),
		"hidden_fields": render.SortedHiddenFields(options.HiddenFields),
		"stylesheets":   r.collectStylesheets(fields, options.Theme),
		"css_vars":      themeCSSVars(options.Theme),
	}

	result, err := r.templates.RenderTemplate(formTemplate, payload)
	if err != nil {
		return nil, fmt.Errorf("html renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func (r *Renderer) collectStylesheets(fields *componentRenderer, cfg *theme.RendererConfig) []string {
	out := []string{}
	seen := make(map[string]struct{})
	add := func(href string) {
		if href == "" {
			return
		}
		if _, ok := seen[href]; ok {
			return
		}
		seen[href] = struct{}{}
		out = append(out, href)
	}

	for _, href := range r.stylesheets {
		add(href)
	}
	if cfg != nil && cfg.AssetURL != nil {
		add(cfg.AssetURL(StylesheetAssetKey))
	}
	for _, href := range fields.stylesheets() {
		add(href)
	}
	return out
}

func themePartials(cfg *theme.RendererConfig) map[string]string {
	if cfg == nil {
		return nil
	}
	return cfg.Partials
}

func themeCSSVars(cfg *theme.RendererConfig) map[string]string {
	if cfg == nil || len(cfg.CSSVars) == 0 {
		return nil
	}
	return cfg.CSSVars
}
