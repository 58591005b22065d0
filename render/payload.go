package render

import "maps"

// Request describes one render call.
type Request struct {
	// TemplateID identifies the template to fill.
	TemplateID string

	// Formatting holds template properties keyed "<element>.<property>",
	// e.g. "mytext.color". It is never modified.
	Formatting map[string]any

	// ImageContainer is the image element whose src receives ImageURL.
	ImageContainer string
	ImageURL       string

	// TextContainer is the text element whose text receives ImageText.
	TextContainer string
	ImageText     string

	// Version overrides Config.Version for this call.
	Version string
}

// BuildPayload returns the data object sent to the render endpoint: a copy
// of r.Formatting plus "<ImageContainer>.src" and "<TextContainer>.text"
// when both halves of each pair are set.
func BuildPayload(r Request) map[string]any {
	data := make(map[string]any, len(r.Formatting)+2)
	maps.Copy(data, r.Formatting)
	if r.ImageContainer != "" && r.ImageURL != "" {
		data[r.ImageContainer+".src"] = r.ImageURL
	}
	if r.TextContainer != "" && r.ImageText != "" {
		data[r.TextContainer+".text"] = r.ImageText
	}
	return data
}
