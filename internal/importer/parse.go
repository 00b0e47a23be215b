package importer

// Parse extracts a recipe from an HTML page. JSON-LD wins over page
// metadata. It reports false when neither yields a title.
func Parse(body, sourceURL string) (*Imported, bool) {
	p := scanPage(body)
	if imp, ok := fromJSONLD(p.jsonLD, sourceURL); ok {
		return imp, true
	}
	return fromMetadata(p, sourceURL)
}
