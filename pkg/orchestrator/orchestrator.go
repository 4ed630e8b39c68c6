package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formbar/pkg/config"
	"github.com/goliatone/go-formbar/pkg/model"
	"github.com/goliatone/go-formbar/pkg/render"
	"github.com/goliatone/go-formbar/pkg/renderers/html"
	"github.com/goliatone/go-formbar/pkg/renderers/html/components"
)

const defaultRendererName = "html"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithModelBuilder injects a custom form model builder.
func WithModelBuilder(builder model.Builder) Option {
	return func(o *Orchestrator) {
		o.builder = builder
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithTransformer registers a Transformer that can mutate form models after
// building but before rendering.
func WithTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithThemeSelector registers the selector used to resolve request themes.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(o *Orchestrator) {
		o.themeSelector = selector
	}
}

// WithDefaultTheme sets the theme and variant used when a request names none.
func WithDefaultTheme(name, variant string) Option {
	return func(o *Orchestrator) {
		o.defaultTheme = name
		o.defaultVariant = variant
	}
}

// WithThemeFallbacks replaces the partials used when a theme does not
// override a component template. Defaults to components.DefaultPartials.
func WithThemeFallbacks(fallbacks map[string]string) Option {
	return func(o *Orchestrator) {
		o.themeFallbacks = maps.Clone(fallbacks)
	}
}

// WithLogger sets the logger used for pipeline diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Orchestrator coordinates the pipeline from form configuration to rendered
// output. It applies defaults (HTML renderer, embedded templates) while
// remaining open to dependency injection.
type Orchestrator struct {
	builder         model.Builder
	registry        *render.Registry
	defaultRenderer string
	transformer     Transformer
	themeSelector   theme.ThemeSelector
	defaultTheme    string
	defaultVariant  string
	themeFallbacks  map[string]string
	logger          *slog.Logger
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes the inputs required to render a configured form.
type Request struct {
	// Config holds the parsed configuration document.
	Config *config.Config

	// FormID selects the form element to render.
	FormID string

	// Values holds the current form values. They also feed `$name`
	// references in defaults and filter rules.
	Values map[string]any

	// Renderer names the renderer to use. If empty, the orchestrator falls
	// back to the configured default renderer.
	Renderer string

	// ThemeName and ThemeVariant select the theme passed to the renderer.
	// Ignored when RenderOptions.Theme is already set.
	ThemeName    string
	ThemeVariant string

	// RenderOptions carries per-request data such as submitted values or
	// server-side errors.
	RenderOptions render.RenderOptions
}

// Generate builds the requested form and renders it.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	output, _, err := o.generate(ctx, req)
	return output, err
}

// GenerateWithContentType is Generate that also reports the content type of
// the renderer that produced the output.
func (o *Orchestrator) GenerateWithContentType(ctx context.Context, req Request) ([]byte, string, error) {
	return o.generate(ctx, req)
}

func (o *Orchestrator) generate(ctx context.Context, req Request) ([]byte, string, error) {
	if ctx == nil {
		return nil, "", errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	if err := o.initialiseErr; err != nil {
		return nil, "", err
	}
	if req.Config == nil {
		return nil, "", errors.New("orchestrator: config is required")
	}
	if req.FormID == "" {
		return nil, "", errors.New("orchestrator: form id is required")
	}

	formCfg, err := req.Config.Form(req.FormID)
	if err != nil {
		return nil, "", fmt.Errorf("orchestrator: %w", err)
	}

	form, err := o.builder.Build(formCfg, buildValues(req))
	if err != nil {
		return nil, "", fmt.Errorf("orchestrator: build form model: %w", err)
	}

	if err := o.applyTransformer(ctx, &form); err != nil {
		return nil, "", err
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, "", err
	}

	opts := req.RenderOptions
	if opts.Theme == nil {
		cfg, err := o.resolveTheme(req)
		if err != nil {
			return nil, "", err
		}
		opts.Theme = cfg
	}

	o.logger.Debug("rendering form", "form", form.ID, "renderer", renderer.Name(), "fields", len(form.Fields))

	output, err := renderer.Render(ctx, form, opts)
	if err != nil {
		return nil, "", fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, renderer.ContentType(), nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	renderer, err := o.registry.Get(target)
	if err == nil {
		return renderer, nil
	}
	if name != "" {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
	}

	// The configured default is missing; use whatever the registry defaults to.
	renderer, err = o.registry.Get("")
	if err != nil {
		return nil, errors.New("orchestrator: no renderers registered")
	}
	return renderer, nil
}

func (o *Orchestrator) resolveTheme(req Request) (*theme.RendererConfig, error) {
	if o.themeSelector == nil {
		return nil, nil
	}
	name := req.ThemeName
	variant := req.ThemeVariant
	if name == "" {
		name = o.defaultTheme
		if variant == "" {
			variant = o.defaultVariant
		}
	}
	if name == "" {
		return nil, nil
	}
	cfg, err := render.ResolveTheme(o.themeSelector, name, variant, o.themeFallbacks)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	return cfg, nil
}

func (o *Orchestrator) applyTransformer(ctx context.Context, form *model.Form) error {
	if o.transformer == nil || form == nil {
		return nil
	}
	if err := o.transformer.Transform(ctx, form); err != nil {
		return fmt.Errorf("orchestrator: transform form: %w", err)
	}
	return nil
}

func (o *Orchestrator) applyDefaults() {
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.builder == nil {
		o.builder = model.NewBuilder(model.WithLogger(o.logger))
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		renderer, err := html.New(html.WithLogger(o.logger))
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		} else {
			o.registry.MustRegister(renderer)
		}
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
	if o.themeFallbacks == nil {
		o.themeFallbacks = components.DefaultPartials()
	}
}

// buildValues merges the render values over the request values so filter
// rules and `$name` defaults see what was submitted.
func buildValues(req Request) map[string]any {
	if len(req.RenderOptions.Values) == 0 {
		return req.Values
	}
	values := make(map[string]any, len(req.Values)+len(req.RenderOptions.Values))
	for key, value := range req.Values {
		values[key] = value
	}
	for key, value := range req.RenderOptions.Values {
		values[key] = value
	}
	return values
}
