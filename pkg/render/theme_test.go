package render_test

import (
	"errors"
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formbar/pkg/render"
)

func TestResolveThemeMergesVariant(t *testing.T) {
	manifest := &theme.Manifest{
		Name:    "acme",
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand":  "#123456",
			"accent": "red",
		},
		Templates: map[string]string{
			"formbar.radio": "themes/acme/radio.tpl",
		},
		Assets: theme.Assets{
			Prefix: "/assets/themes/acme",
			Files: map[string]string{
				"formbar.stylesheet": "theme.css",
			},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"brand": "#654321",
				},
				Templates: map[string]string{
					"formbar.checkbox": "themes/acme/dark/checkbox.tpl",
				},
				Assets: theme.Assets{
					Files: map[string]string{
						"formbar.stylesheet": "theme.dark.css",
					},
				},
			},
		},
	}

	selector := &stubThemeSelector{selection: &theme.Selection{
		Theme:    "acme",
		Variant:  "dark",
		Manifest: manifest,
	}}

	fallbacks := map[string]string{
		"formbar.radio":    "templates/components/radio.tpl",
		"formbar.textarea": "templates/components/textarea.tpl",
	}

	cfg, err := render.ResolveTheme(selector, "acme", "dark", fallbacks)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(selector.calls) != 1 || selector.calls[0] != [2]string{"acme", "dark"} {
		t.Fatalf("unexpected selector calls: %v", selector.calls)
	}
	if cfg.Theme != "acme" || cfg.Variant != "dark" {
		t.Fatalf("unexpected theme identity %s/%s", cfg.Theme, cfg.Variant)
	}
	if cfg.Partials["formbar.radio"] != "themes/acme/radio.tpl" {
		t.Fatalf("expected manifest template override, got %s", cfg.Partials["formbar.radio"])
	}
	if cfg.Partials["formbar.checkbox"] != "themes/acme/dark/checkbox.tpl" {
		t.Fatalf("expected variant template override, got %s", cfg.Partials["formbar.checkbox"])
	}
	if cfg.Partials["formbar.textarea"] != fallbacks["formbar.textarea"] {
		t.Fatalf("fallback partial not applied for textarea")
	}
	if cfg.Tokens["brand"] != "#654321" || cfg.Tokens["accent"] != "red" {
		t.Fatalf("tokens not merged with variant override: %v", cfg.Tokens)
	}
	if cfg.CSSVars["--brand"] != "#654321" {
		t.Fatalf("css vars not derived from variant tokens: %v", cfg.CSSVars)
	}
	if got := cfg.AssetURL("formbar.stylesheet"); got != "/assets/themes/acme/theme.dark.css" {
		t.Fatalf("unexpected stylesheet url: %s", got)
	}
	if got := cfg.AssetURL("missing"); got != "" {
		t.Fatalf("expected empty url for unknown asset, got %s", got)
	}
	if fallbacks["formbar.radio"] != "templates/components/radio.tpl" {
		t.Fatalf("fallbacks mutated")
	}
}

func TestResolveThemeErrors(t *testing.T) {
	if _, err := render.ResolveTheme(nil, "acme", "", nil); err == nil {
		t.Fatalf("expected error without selector")
	}

	boom := errors.New("boom")
	if _, err := render.ResolveTheme(&stubThemeSelector{err: boom}, "acme", "", nil); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped selector error, got %v", err)
	}

	if _, err := render.ResolveTheme(&stubThemeSelector{}, "acme", "", nil); err == nil {
		t.Fatalf("expected error for nil selection")
	}
}

type stubThemeSelector struct {
	selection *theme.Selection
	err       error
	calls     [][2]string
}

func (s *stubThemeSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.calls = append(s.calls, [2]string{name, variant})
	return s.selection, s.err
}
