package epubdoc

import (
	"bytes"
	"path"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	"github.com/inkleaf/pageturn/container"
	"github.com/inkleaf/pageturn/media"
)

// extractContent parses one spine item's XHTML, strips head/script/style,
// inlines resolvable images as data URIs, and returns the body markup,
// its plain text, and the chapter title.
func extractContent(a *container.Archive, href string, data []byte) (bodyHTML, text, title string) {
	// Chapters are not always UTF-8; sniff the charset before parsing.
	r, err := charset.NewReader(bytes.NewReader(data), "text/html")
	if err != nil {
		r = bytes.NewReader(data)
	}

	doc, err := html.Parse(r)
	if err != nil {
		return "", "", ""
	}

	title = findTitle(doc)

	body := findElement(doc, "body")
	if body == nil {
		return "", "", title
	}

	rewriteImages(a, href, body)

	var markup strings.Builder
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if skipNode(c) {
			continue
		}
		html.Render(&markup, c)
	}

	return strings.TrimSpace(markup.String()), extractText(body), title
}

// skipNode reports whether a node must not reach the rendered output.
func skipNode(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.Data {
	case "head", "script", "style":
		return true
	}
	return false
}

// findTitle returns the document <title>, or the first heading text.
func findTitle(doc *html.Node) string {
	if t := findElement(doc, "title"); t != nil {
		if s := strings.TrimSpace(extractText(t)); s != "" {
			return s
		}
	}
	for _, h := range []string{"h1", "h2", "h3"} {
		if n := findElement(doc, h); n != nil {
			if s := strings.TrimSpace(extractText(n)); s != "" {
				return s
			}
		}
	}
	return ""
}

// findElement returns the first element with the given tag name.
func findElement(n *html.Node, name string) *html.Node {
	if n.Type == html.ElementNode && n.Data == name {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, name); found != nil {
			return found
		}
	}
	return nil
}

// rewriteImages walks the body and rewrites <img> elements: sources that
// resolve to a displayable archive entry become data URIs, everything
// else becomes a text placeholder.
func rewriteImages(a *container.Archive, chapterHref string, n *html.Node) {
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type != html.ElementNode || (n.Data != "img" && n.Data != "image") {
			return
		}

		src, alt := "", ""
		for _, attr := range n.Attr {
			switch attr.Key {
			case "src", "href": // svg <image> uses xlink:href
				src = attr.Val
			case "alt":
				alt = attr.Val
			}
		}

		if uri := resolveImage(a, chapterHref, src); uri != "" {
			n.Attr = []html.Attribute{{Key: "src", Val: uri}}
			if alt != "" {
				n.Attr = append(n.Attr, html.Attribute{Key: "alt", Val: alt})
			}
			return
		}

		// Unresolvable: replace the element with a placeholder.
		placeholder := "[image]"
		if alt != "" {
			placeholder = "[image: " + alt + "]"
		}
		n.Type = html.ElementNode
		n.Data = "span"
		n.Attr = []html.Attribute{{Key: "class", Val: "image-placeholder"}}
		for n.FirstChild != nil {
			n.RemoveChild(n.FirstChild)
		}
		n.AppendChild(&html.Node{Type: html.TextNode, Data: placeholder})
	}
	walk(n)
}

// resolveImage resolves an image src relative to its chapter to a data
// URI, or "" if the entry is missing or not displayable.
func resolveImage(a *container.Archive, chapterHref, src string) string {
	if src == "" || strings.Contains(src, "://") {
		return ""
	}
	target := path.Clean(path.Join(path.Dir(chapterHref), src))
	if !a.Has(target) || !media.Displayable(target) {
		return ""
	}
	data, err := a.Read(target)
	if err != nil {
		return ""
	}
	return media.DataURI(target, data)
}

// extractText returns the concatenated text content of a node tree, with
// newlines between block-level elements.
func extractText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if skipNode(n) {
			return
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			return
		}
		if n.Type == html.ElementNode && isBlock(n.Data) && b.Len() > 0 {
			b.WriteString("\n")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(collapseBlankLines(b.String()))
}

func isBlock(tag string) bool {
	switch tag {
	case "p", "div", "section", "article", "h1", "h2", "h3", "h4", "h5", "h6",
		"li", "tr", "br", "blockquote", "pre":
		return true
	}
	return false
}

// collapseBlankLines trims trailing space per line and squeezes runs of
// blank lines down to one.
func collapseBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if strings.TrimSpace(line) == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
