// Package config loads formbar form configurations. A configuration is a
// single document holding entities (field definitions), snippets (reusable
// groups of field references) and forms. XML is the canonical dialect; YAML
// documents are lowered into the same element tree so lookups behave the same
// regardless of the source format.
//
// Renderer switches that arrive as strings (remove_filtered, sort) are
// normalised to booleans here so the rendering core never compares strings.
package config
