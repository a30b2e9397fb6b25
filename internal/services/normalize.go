package services

import "strings"

const (
	jsonFenceMarker = "```json"
	fenceMarker     = "```"
)

// NormalizeResponse strips the code fence the model sometimes wraps around
// JSON. It is a fixed sequence of prefix/suffix strips, not a markdown parser;
// text without fences comes back trimmed but otherwise unchanged.
func NormalizeResponse(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, jsonFenceMarker) {
		text = text[len(jsonFenceMarker):]
	}
	if strings.HasPrefix(text, fenceMarker) {
		text = text[len(fenceMarker):]
	}
	if strings.HasSuffix(text, fenceMarker) {
		text = text[:len(text)-len(fenceMarker)]
	}
	return strings.TrimSpace(text)
}
