package model

import internalmodel "github.com/goliatone/go-formbar/internal/model"

// FieldType re-exports the internal FieldType enumeration.
type FieldType = internalmodel.FieldType

const (
	FieldTypeString  = internalmodel.FieldTypeString
	FieldTypeInteger = internalmodel.FieldTypeInteger
	FieldTypeFloat   = internalmodel.FieldTypeFloat
	FieldTypeBoolean = internalmodel.FieldTypeBoolean
	FieldTypeDate    = internalmodel.FieldTypeDate
	FieldTypeEmail   = internalmodel.FieldTypeEmail
)

// Kind re-exports the control family enumeration.
type Kind = internalmodel.Kind

const (
	KindText           = internalmodel.KindText
	KindTextarea       = internalmodel.KindTextarea
	KindSelection      = internalmodel.KindSelection
	KindMultiSelection = internalmodel.KindMultiSelection
	KindHidden         = internalmodel.KindHidden
)

type Option = internalmodel.Option
type RendererConfig = internalmodel.RendererConfig
type Field = internalmodel.Field
type Form = internalmodel.Form

// ErrInvalidCheckbox is returned for checkbox renderers on single value types.
var ErrInvalidCheckbox = internalmodel.ErrInvalidCheckbox
