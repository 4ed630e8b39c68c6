package components

// Component names match the renderer types accepted in configuration.
const (
	NameText     = "text"
	NameTextarea = "textarea"
	NameRadio    = "radio"
	NameCheckbox = "checkbox"
	NameDropdown = "dropdown"
	NameHidden   = "hidden"
)

// Partial keys themes use to override component templates.
const (
	PartialText     = "formbar.text"
	PartialTextarea = "formbar.textarea"
	PartialRadio    = "formbar.radio"
	PartialCheckbox = "formbar.checkbox"
	PartialDropdown = "formbar.dropdown"
	PartialHidden   = "formbar.hidden"
)
