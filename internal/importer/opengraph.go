package importer

import (
	"html"
	"net/url"
	"strings"
)

// fromMetadata builds a minimal record from Open Graph and Twitter card
// tags. A title is required.
func fromMetadata(p page, sourceURL string) (*Imported, bool) {
	title := cleanText(html.UnescapeString(p.first("og:title", "twitter:title")))
	if title == "" {
		return nil, false
	}
	imp := &Imported{
		Title:       title,
		Description: cleanText(html.UnescapeString(p.first("og:description", "twitter:description", "description"))),
		SourceURL:   sourceURL,
	}
	seen := make(map[string]bool)
	for _, key := range []string{"og:image", "og:image:url", "og:image:secure_url", "twitter:image"} {
		for _, img := range p.meta[key] {
			img = resolveURL(sourceURL, img)
			if !seen[img] {
				seen[img] = true
				imp.ImageURLs = append(imp.ImageURLs, img)
			}
		}
	}
	return imp, true
}

// resolveURL makes ref absolute against base when possible.
func resolveURL(base, ref string) string {
	ref = strings.TrimSpace(ref)
	b, err := url.Parse(base)
	if err != nil || base == "" {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}
