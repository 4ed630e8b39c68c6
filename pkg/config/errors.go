package config

import "errors"

var (
	// ErrEmptyDocument is returned when a document has no root element.
	ErrEmptyDocument = errors.New("config: document is empty")
	// ErrAmbiguousElement is returned when an id matches more than one element.
	ErrAmbiguousElement = errors.New("config: element is ambiguous")
	// ErrReferenceCycle is returned when ref attributes point back at themselves.
	ErrReferenceCycle = errors.New("config: reference cycle")
	// ErrFormNotFound is returned by Config.Form for unknown form ids.
	ErrFormNotFound = errors.New("config: form not found")
	// ErrFieldNotFound is returned by FormConfig.Field for unknown field names.
	ErrFieldNotFound = errors.New("config: field not found")
	// ErrEntityNotFound is returned when a field references a missing entity.
	ErrEntityNotFound = errors.New("config: entity not found")
	// ErrUnsupportedFormat is returned by LoadFile for unknown extensions.
	ErrUnsupportedFormat = errors.New("config: unsupported file format")
)
