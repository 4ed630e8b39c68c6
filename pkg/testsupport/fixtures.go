package testsupport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbar/pkg/config"
	pkgmodel "github.com/goliatone/go-formbar/pkg/model"
)

// LoadConfig parses a configuration fixture. Testing helpers fail the test on
// error to keep contract tests concise.
func LoadConfig(t *testing.T, path string) *config.Config {
	t.Helper()

	cfg, err := LoadConfigFromPath(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	return cfg
}

// LoadConfigFromPath returns a Config without requiring testing.T, allowing
// callers to wire fixtures in setup functions.
func LoadConfigFromPath(path string) (*config.Config, error) {
	if path == "" {
		return nil, errors.New("testsupport: config path is required")
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testsupport: load config: %w", err)
	}
	return cfg, nil
}

// MustBuildForm loads the configuration at path and builds the form model for
// formID using the default builder.
func MustBuildForm(t *testing.T, path, formID string, values map[string]any) pkgmodel.Form {
	t.Helper()

	cfg := LoadConfig(t, path)
	formCfg, err := cfg.Form(formID)
	if err != nil {
		t.Fatalf("form %q: %v", formID, err)
	}
	form, err := pkgmodel.NewBuilder().Build(formCfg, values)
	if err != nil {
		t.Fatalf("build form %q: %v", formID, err)
	}
	return form
}

// MustLoadForm loads a JSON golden file into a Form structure.
func MustLoadForm(t *testing.T, path string) pkgmodel.Form {
	t.Helper()

	form, err := LoadForm(path)
	if err != nil {
		t.Fatalf("load form: %v", err)
	}
	return form
}

// LoadForm reads a JSON fixture into a Form, returning an error for callers
// managing setup outside of *testing.T.
func LoadForm(path string) (pkgmodel.Form, error) {
	if path == "" {
		return pkgmodel.Form{}, errors.New("testsupport: form path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return pkgmodel.Form{}, fmt.Errorf("testsupport: read form: %w", err)
	}
	var out pkgmodel.Form
	if err := json.Unmarshal(data, &out); err != nil {
		return pkgmodel.Form{}, fmt.Errorf("testsupport: unmarshal form: %w", err)
	}
	return out, nil
}

// WriteForm writes a form golden when UPDATE_GOLDENS is enabled.
func WriteForm(t *testing.T, path string, value pkgmodel.Form) {
	t.Helper()
	WriteGolden(t, path, value)
}

// WriteGolden writes arbitrary data to a golden file when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// MustReadFS reads name from fsys, failing the test on error.
func MustReadFS(t *testing.T, fsys fs.FS, name string) []byte {
	t.Helper()
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return data
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents. Tests can assert
// the renderer returns and writes the same payload without duplicating buffer
// setup.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
