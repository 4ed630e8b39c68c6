// Package model defines the typed form model consumed by renderers. Builders
// reside in internal/model but return the types defined here.
//
// A Field carries its resolved options in configuration order (or sorted by
// label when the renderer asks for it). Options rejected by the renderer
// filter stay in the list with Visible set to false; renderers decide, based
// on RendererConfig.RemoveFiltered, whether to drop them or keep their value
// in a hidden input.
package model
