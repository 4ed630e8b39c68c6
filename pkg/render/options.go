package render

import theme "github.com/goliatone/go-theme"

// RenderOptions describe per-request data renderers use to customise their
// output without touching the built form.
type RenderOptions struct {
	// Values holds submitted values keyed by field name. Renderers prefer them
	// over the values resolved at build time.
	Values map[string]any
	// Errors surfaces server-side feedback keyed by field name. Use
	// MapErrorPayload to split arbitrary payloads into field and form errors.
	Errors map[string][]string
	// FormErrors are rendered above the fields.
	FormErrors []string
	// HiddenFields are emitted as hidden inputs before the fields, sorted by
	// name (CSRF tokens, record versions, ...).
	HiddenFields map[string]string
	// Subset limits rendering to a selection of fields.
	Subset FieldSubset
	// Theme carries resolved partials, tokens and asset URLs.
	Theme *theme.RendererConfig
}
