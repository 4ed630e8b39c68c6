package html

// Class names applied by the field chrome.
const (
	ClassField       = "formbar-field"
	ClassLabel       = "formbar-label"
	ClassNumber      = "formbar-number"
	ClassHelp        = "formbar-help"
	ClassFieldErrors = "formbar-field-errors"
	ClassReadonly    = "formbar-readonly"
	ClassRequired    = "formbar-required"
	ClassDesired     = "formbar-desired"
	ClassInvalid     = "formbar-invalid"
)
