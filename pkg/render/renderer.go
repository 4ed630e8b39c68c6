package render

import (
	"context"

	"github.com/goliatone/go-formbar/pkg/model"
)

// Renderer converts a built form into an output representation (HTML,
// terminal prompts, ...).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, form model.Form, options RenderOptions) ([]byte, error)
}
