// Package template defines the template seam used by the HTML renderer. The
// gotemplate subpackage provides the pongo2 backed implementation; tests and
// callers can swap in any TemplateRenderer.
package template
