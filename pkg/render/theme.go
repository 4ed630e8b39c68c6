package render

import (
	"errors"
	"fmt"
	"maps"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// ResolveTheme asks selector for the named theme and variant and flattens the
// selection into a renderer configuration. Partials start from fallbacks and
// are overridden by the manifest templates, then by the variant templates.
// Tokens follow the same precedence and are mirrored as CSS custom properties
// ("brand" becomes "--brand").
func ResolveTheme(selector theme.ThemeSelector, name, variant string, fallbacks map[string]string) (*theme.RendererConfig, error) {
	if selector == nil {
		return nil, errors.New("render: theme selector is required")
	}
	selection, err := selector.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("render: select theme %q: %w", name, err)
	}
	if selection == nil {
		return nil, fmt.Errorf("render: theme %q not found", name)
	}
	return ThemeConfig(selection, fallbacks), nil
}

// ThemeConfig flattens an existing selection. See ResolveTheme.
func ThemeConfig(selection *theme.Selection, fallbacks map[string]string) *theme.RendererConfig {
	cfg := &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: make(map[string]string, len(fallbacks)),
		Tokens:   make(map[string]string),
	}
	maps.Copy(cfg.Partials, fallbacks)

	var base theme.Assets
	var overlay theme.Assets
	if manifest := selection.Manifest; manifest != nil {
		maps.Copy(cfg.Partials, manifest.Templates)
		maps.Copy(cfg.Tokens, manifest.Tokens)
		base = manifest.Assets

		if v, ok := manifest.Variants[selection.Variant]; ok {
			maps.Copy(cfg.Partials, v.Templates)
			maps.Copy(cfg.Tokens, v.Tokens)
			overlay = v.Assets
		}
	}

	cfg.CSSVars = make(map[string]string, len(cfg.Tokens))
	for key, value := range cfg.Tokens {
		cfg.CSSVars["--"+strings.TrimPrefix(key, "--")] = value
	}
	cfg.AssetURL = assetResolver(base, overlay)
	return cfg
}

func assetResolver(base, overlay theme.Assets) func(string) string {
	prefix := base.Prefix
	if overlay.Prefix != "" {
		prefix = overlay.Prefix
	}
	return func(key string) string {
		file, ok := overlay.Files[key]
		if !ok {
			file, ok = base.Files[key]
		}
		if !ok || file == "" {
			return ""
		}
		if prefix == "" || strings.Contains(file, "://") || strings.HasPrefix(file, "/") {
			return file
		}
		return strings.TrimRight(prefix, "/") + "/" + file
	}
}
