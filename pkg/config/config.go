package config

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Option configures how a configuration is loaded.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger routes load diagnostics to the supplied logger.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *options) {
		if logger != nil {
			opts.logger = logger
		}
	}
}

func newOptions(opts []Option) options {
	cfg := options{logger: slog.Default()}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return cfg
}

// Config gives access to the elements of a parsed configuration document.
type Config struct {
	root   *Element
	logger *slog.Logger
}

// Parse reads an XML configuration document.
func Parse(r io.Reader, opts ...Option) (*Config, error) {
	root, err := parseElementTree(r)
	if err != nil {
		return nil, err
	}
	return New(root, opts...)
}

// ParseString is a convenience wrapper around Parse.
func ParseString(doc string, opts ...Option) (*Config, error) {
	return Parse(strings.NewReader(doc), opts...)
}

// LoadFile reads a configuration from disk, choosing the dialect by extension.
func LoadFile(path string, opts ...Option) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml":
		return Parse(bytes.NewReader(data), opts...)
	case ".yaml", ".yml":
		return ParseYAML(bytes.NewReader(data), opts...)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// New wraps an already built element tree.
func New(root *Element, opts ...Option) (*Config, error) {
	if root == nil {
		return nil, ErrEmptyDocument
	}
	cfg := newOptions(opts)
	return &Config{root: root, logger: cfg.logger}, nil
}

// Root returns the document root.
func (c *Config) Root() *Element {
	return c.root
}

// Elements returns all elements with the given tag. The result is empty, not
// nil-erroring, when nothing matches.
func (c *Config) Elements(name string) []*Element {
	return c.root.FindAll(name)
}

// Element returns the element with the given tag and id. A nil element and
// nil error mean nothing matched. When the match carries a ref attribute the
// referenced element of the same tag is returned instead.
func (c *Config) Element(name, id string) (*Element, error) {
	return c.element(name, id, map[string]struct{}{})
}

func (c *Config) element(name, id string, seen map[string]struct{}) (*Element, error) {
	if id != "" {
		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("%w: %s %q", ErrReferenceCycle, name, id)
		}
		seen[id] = struct{}{}
	}

	var matches []*Element
	for _, candidate := range c.root.FindAll(name) {
		if id != "" && candidate.Attr("id", "") != id {
			continue
		}
		matches = append(matches, candidate)
	}

	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		if ref := matches[0].Attr("ref", ""); ref != "" {
			return c.element(name, ref, seen)
		}
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %s %q matched %d elements", ErrAmbiguousElement, name, id, len(matches))
	}
}

// Form returns the configuration of the form with the given id.
func (c *Config) Form(id string) (*FormConfig, error) {
	element, err := c.Element("form", id)
	if err != nil {
		return nil, err
	}
	if element == nil {
		c.logger.Error("form not found", "form", id)
		return nil, fmt.Errorf("%w: %q", ErrFormNotFound, id)
	}
	return newFormConfig(c, element)
}

// FormIDs lists the ids of all forms in document order.
func (c *Config) FormIDs() []string {
	var ids []string
	for _, form := range c.Elements("form") {
		if id := form.Attr("id", ""); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
