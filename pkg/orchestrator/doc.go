// Package orchestrator wires the configuration → model builder → renderer
// pipeline, with optional transformers and theme resolution in between, so
// callers can render a configured form from a single entry point.
package orchestrator
