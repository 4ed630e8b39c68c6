package formbar

import (
	"embed"
	"io/fs"

	"github.com/goliatone/go-formbar/pkg/renderers/html"
)

//go:embed assets/*.css
var embeddedAssets embed.FS

// StylesheetName is the file name of the default stylesheet inside
// StylesheetFS.
const StylesheetName = "formbar.css"

// StylesheetFS exposes the default stylesheet so Go applications can serve it
// next to rendered forms.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(formbar.StylesheetFS()),
//	  ),
//	)
func StylesheetFS() fs.FS {
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		return embeddedAssets
	}
	return sub
}

// EmbeddedTemplates exposes the built-in HTML renderer templates so callers
// can reuse or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return html.TemplatesFS()
}
