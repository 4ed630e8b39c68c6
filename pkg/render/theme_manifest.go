package render

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"sync"

	theme "github.com/goliatone/go-theme"
	"gopkg.in/yaml.v3"
)

// ManifestSelector is a theme.ThemeSelector over a fixed set of manifests,
// typically loaded from YAML files next to the form configuration.
type ManifestSelector struct {
	mu        sync.RWMutex
	manifests map[string]*theme.Manifest
}

var _ theme.ThemeSelector = (*ManifestSelector)(nil)

// NewManifestSelector registers the supplied manifests by name.
func NewManifestSelector(manifests ...*theme.Manifest) (*ManifestSelector, error) {
	s := &ManifestSelector{manifests: make(map[string]*theme.Manifest, len(manifests))}
	for _, manifest := range manifests {
		if err := s.Register(manifest); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Register adds a manifest. Names must be unique.
func (s *ManifestSelector) Register(manifest *theme.Manifest) error {
	if manifest == nil || manifest.Name == "" {
		return errors.New("render: theme manifest name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.manifests[manifest.Name]; exists {
		return fmt.Errorf("render: theme %q already registered", manifest.Name)
	}
	s.manifests[manifest.Name] = manifest
	return nil
}

// Names returns the registered theme names in sorted order.
func (s *ManifestSelector) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.manifests))
	for name := range s.manifests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select returns the named theme. An empty variant selects the base theme;
// unknown themes and variants fail.
func (s *ManifestSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.mu.RLock()
	manifest, ok := s.manifests[name]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("render: theme %q not found", name)
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("render: theme %q has no variant %q", name, variant)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

type manifestDocument struct {
	Name      string                     `yaml:"name"`
	Version   string                     `yaml:"version"`
	Tokens    map[string]string          `yaml:"tokens"`
	Templates map[string]string          `yaml:"templates"`
	Assets    assetsDocument             `yaml:"assets"`
	Variants  map[string]variantDocument `yaml:"variants"`
}

type variantDocument struct {
	Tokens    map[string]string `yaml:"tokens"`
	Templates map[string]string `yaml:"templates"`
	Assets    assetsDocument    `yaml:"assets"`
}

type assetsDocument struct {
	Prefix string            `yaml:"prefix"`
	Files  map[string]string `yaml:"files"`
}

// ParseManifest decodes a YAML theme manifest:
//
//	name: acme
//	tokens: {brand: "#123456"}
//	templates: {formbar.radio: themes/acme/radio.tpl}
//	assets:
//	  prefix: /assets/themes/acme
//	  files: {formbar.stylesheet: theme.css}
//	variants:
//	  dark:
//	    tokens: {brand: "#654321"}
func ParseManifest(data []byte) (*theme.Manifest, error) {
	var doc manifestDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("render: parse theme manifest: %w", err)
	}
	if doc.Name == "" {
		return nil, errors.New("render: theme manifest name is required")
	}

	manifest := &theme.Manifest{
		Name:      doc.Name,
		Version:   doc.Version,
		Tokens:    doc.Tokens,
		Templates: doc.Templates,
		Assets:    theme.Assets{Prefix: doc.Assets.Prefix, Files: doc.Assets.Files},
	}
	if len(doc.Variants) > 0 {
		manifest.Variants = make(map[string]theme.Variant, len(doc.Variants))
		for name, v := range doc.Variants {
			manifest.Variants[name] = theme.Variant{
				Tokens:    v.Tokens,
				Templates: v.Templates,
				Assets:    theme.Assets{Prefix: v.Assets.Prefix, Files: v.Assets.Files},
			}
		}
	}
	return manifest, nil
}

// LoadManifest reads and parses a YAML theme manifest from fsys.
func LoadManifest(fsys fs.FS, name string) (*theme.Manifest, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("render: read theme manifest %s: %w", name, err)
	}
	return ParseManifest(data)
}
