package model

import (
	"log/slog"

	"github.com/goliatone/go-formbar/internal/model"
	"github.com/goliatone/go-formbar/pkg/config"
	"github.com/goliatone/go-formbar/pkg/rule"
)

// Builder converts form configurations into form models.
type Builder interface {
	Build(form *config.FormConfig, values map[string]any) (Form, error)
}

// BuilderOption configures the builder behaviour.
type BuilderOption func(*builderOptions)

type builderOptions struct {
	evaluator rule.Evaluator
	logger    *slog.Logger
}

// WithEvaluator overrides the filter rule evaluator.
func WithEvaluator(evaluator rule.Evaluator) BuilderOption {
	return func(opts *builderOptions) {
		opts.evaluator = evaluator
	}
}

// WithLogger sets the logger used for build diagnostics.
func WithLogger(logger *slog.Logger) BuilderOption {
	return func(opts *builderOptions) {
		opts.logger = logger
	}
}

// NewBuilder returns a Builder backed by the internal implementation.
func NewBuilder(options ...BuilderOption) Builder {
	cfg := builderOptions{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	return model.New(model.Options{
		Evaluator: cfg.evaluator,
		Logger:    cfg.logger,
	})
}
