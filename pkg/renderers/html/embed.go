package html

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tpl templates/components/*.tpl
var embeddedTemplates embed.FS

const formTemplate = "templates/form.tpl"

// TemplatesFS exposes the embedded template bundle. Callers can copy it as a
// starting point for their own templates.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}
