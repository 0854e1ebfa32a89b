package epubdoc

import (
	"bytes"
	"encoding/xml"
	"strings"

	"golang.org/x/net/html"
)

// ncxDocument represents an EPUB 2 NCX navigation document.
type ncxDocument struct {
	XMLName xml.Name  `xml:"ncx"`
	Title   string    `xml:"docTitle>text"`
	NavMap  ncxNavMap `xml:"navMap"`
}

type ncxNavMap struct {
	NavPoints []ncxNavPoint `xml:"navPoint"`
}

type ncxNavPoint struct {
	Label    string        `xml:"navLabel>text"`
	Content  ncxContent    `xml:"content"`
	Children []ncxNavPoint `xml:"navPoint"`
}

type ncxContent struct {
	Src string `xml:"src,attr"`
}

// parseNavigation builds the table of contents: EPUB 3 nav document
// first, EPUB 2 NCX second, a spine-generated list as last resort.
func (r *Reader) parseNavigation() *TableOfContents {
	if navItem := r.findNavDocument(); navItem != nil {
		if data, err := r.archive.Read(r.resolveHref(navItem.Href)); err == nil {
			if toc := parseNavXHTML(data); toc != nil {
				return toc
			}
		}
	}

	if ncxItem := r.findNCX(); ncxItem != nil {
		if data, err := r.archive.Read(r.resolveHref(ncxItem.Href)); err == nil {
			if toc := parseNCX(data); toc != nil {
				return toc
			}
		}
	}

	return r.generateTOCFromSpine()
}

// findNavDocument finds the EPUB 3 nav document in the manifest.
func (r *Reader) findNavDocument() *ManifestItem {
	for _, item := range r.pkg.Manifest {
		for _, prop := range item.Properties {
			if prop == "nav" {
				return &item
			}
		}
	}
	return nil
}

// findNCX finds the NCX document in the manifest.
func (r *Reader) findNCX() *ManifestItem {
	for _, item := range r.pkg.Manifest {
		if item.MediaType == "application/x-dtbncx+xml" {
			return &item
		}
	}
	return nil
}

// parseNavXHTML parses an EPUB 3 nav document (XHTML with a nav element
// carrying epub:type="toc").
func parseNavXHTML(content []byte) *TableOfContents {
	doc, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return nil
	}

	var findNav func(*html.Node) *html.Node
	findNav = func(n *html.Node) *html.Node {
		if n.Type == html.ElementNode && n.Data == "nav" {
			for _, attr := range n.Attr {
				if (attr.Key == "epub:type" || attr.Key == "type") && strings.Contains(attr.Val, "toc") {
					return n
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if found := findNav(c); found != nil {
				return found
			}
		}
		return nil
	}

	nav := findNav(doc)
	if nav == nil {
		return nil
	}

	toc := &TableOfContents{}
	for _, h := range []string{"h1", "h2", "h3"} {
		if n := findElement(nav, h); n != nil {
			toc.Title = strings.TrimSpace(extractText(n))
			break
		}
	}

	if ol := findElement(nav, "ol"); ol != nil {
		toc.Entries = parseOLEntries(ol)
	}
	return toc
}

// parseOLEntries parses TOC entries from an <ol> element.
func parseOLEntries(ol *html.Node) []TOCEntry {
	var entries []TOCEntry
	for c := ol.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "li" {
			entry := parseLIEntry(c)
			if entry.Title != "" || entry.Href != "" {
				entries = append(entries, entry)
			}
		}
	}
	return entries
}

// parseLIEntry parses a single TOC entry from an <li> element.
func parseLIEntry(li *html.Node) TOCEntry {
	entry := TOCEntry{}
	for c := li.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "a":
			entry.Title = strings.TrimSpace(extractText(c))
			for _, attr := range c.Attr {
				if attr.Key == "href" {
					entry.Href = attr.Val
				}
			}
		case "span":
			if entry.Title == "" {
				entry.Title = strings.TrimSpace(extractText(c))
			}
		case "ol":
			entry.Children = parseOLEntries(c)
		}
	}
	return entry
}

// parseNCX parses an EPUB 2 NCX document.
func parseNCX(content []byte) *TableOfContents {
	var ncx ncxDocument
	if err := xml.Unmarshal(content, &ncx); err != nil {
		return nil
	}
	return &TableOfContents{
		Title:   strings.TrimSpace(ncx.Title),
		Entries: convertNCXNavPoints(ncx.NavMap.NavPoints),
	}
}

func convertNCXNavPoints(points []ncxNavPoint) []TOCEntry {
	entries := make([]TOCEntry, 0, len(points))
	for _, p := range points {
		entries = append(entries, TOCEntry{
			Title:    strings.TrimSpace(p.Label),
			Href:     p.Content.Src,
			Children: convertNCXNavPoints(p.Children),
		})
	}
	return entries
}

// generateTOCFromSpine creates a basic TOC when no navigation document
// is present.
func (r *Reader) generateTOCFromSpine() *TableOfContents {
	toc := &TableOfContents{
		Title:   r.pkg.Metadata.Title,
		Entries: make([]TOCEntry, 0, len(r.chapters)),
	}
	for _, ch := range r.chapters {
		title := ch.Title
		if title == "" {
			title = ch.ID
		}
		// Hrefs here are already resolved against the OPF directory, so
		// record them relative again for uniform mapping.
		href := ch.Href
		if r.baseDir != "" {
			href = strings.TrimPrefix(href, r.baseDir+"/")
		}
		toc.Entries = append(toc.Entries, TOCEntry{Title: title, Href: href})
	}
	return toc
}
