package importer

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// page holds the parts of an HTML document the parsers look at.
type page struct {
	jsonLD []string
	meta   map[string][]string
}

// scanPage collects JSON-LD script bodies and meta tags in document order.
// The html parser accepts any input, so this never fails.
func scanPage(body string) page {
	p := page{meta: make(map[string][]string)}
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return p
	}
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script:
				if strings.EqualFold(strings.TrimSpace(attr(n, "type")), "application/ld+json") {
					var sb strings.Builder
					for c := n.FirstChild; c != nil; c = c.NextSibling {
						if c.Type == html.TextNode {
							sb.WriteString(c.Data)
						}
					}
					p.jsonLD = append(p.jsonLD, sb.String())
				}
			case atom.Meta:
				key := attr(n, "property")
				if key == "" {
					key = attr(n, "name")
				}
				key = strings.ToLower(strings.TrimSpace(key))
				if content := strings.TrimSpace(attr(n, "content")); key != "" && content != "" {
					p.meta[key] = append(p.meta[key], content)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return p
}

func (p page) first(keys ...string) string {
	for _, k := range keys {
		if v := p.meta[k]; len(v) > 0 {
			return v[0]
		}
	}
	return ""
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, name) {
			return a.Val
		}
	}
	return ""
}
