package docx

import (
	"fmt"
	"html"
	"strings"
)

// HTML converts the document into an HTML fragment: headings from the
// style map, paragraphs with bold/italic runs, list items, tables, and
// embedded images inlined as base64 data URIs.
func (r *Reader) HTML() string {
	var b strings.Builder

	inList := false
	closeList := func() {
		if inList {
			b.WriteString("</ul>\n")
			inList = false
		}
	}

	for i := range r.paragraphs {
		para := &r.paragraphs[i]

		if para.Table != nil {
			closeList()
			writeTable(&b, para.Table)
			continue
		}

		for _, uri := range para.Images {
			closeList()
			fmt.Fprintf(&b, "<img src=%q alt=\"\">\n", uri)
		}

		if para.Text == "" {
			continue
		}

		switch {
		case para.IsHeading:
			closeList()
			level := para.Level
			if level > 6 {
				level = 6
			}
			fmt.Fprintf(&b, "<h%d>%s</h%d>\n", level, html.EscapeString(para.Text), level)

		case para.IsListItem:
			if !inList {
				b.WriteString("<ul>\n")
				inList = true
			}
			b.WriteString("<li>")
			writeRuns(&b, para.Runs)
			b.WriteString("</li>\n")

		default:
			closeList()
			b.WriteString("<p>")
			writeRuns(&b, para.Runs)
			b.WriteString("</p>\n")
		}
	}
	closeList()

	return strings.TrimSpace(b.String())
}

// writeRuns writes a paragraph's runs, wrapping bold and italic spans.
func writeRuns(b *strings.Builder, runs []parsedRun) {
	for _, run := range runs {
		text := html.EscapeString(run.Text)
		text = strings.ReplaceAll(text, "\n", "<br>")
		switch {
		case run.Bold && run.Italic:
			b.WriteString("<strong><em>" + text + "</em></strong>")
		case run.Bold:
			b.WriteString("<strong>" + text + "</strong>")
		case run.Italic:
			b.WriteString("<em>" + text + "</em>")
		default:
			b.WriteString(text)
		}
	}
}

// writeTable writes rows of cell text as an HTML table, first row as
// headers.
func writeTable(b *strings.Builder, rows [][]string) {
	b.WriteString("<table>\n")
	for i, row := range rows {
		tag := "td"
		if i == 0 {
			tag = "th"
		}
		b.WriteString("<tr>")
		for _, cell := range row {
			fmt.Fprintf(b, "<%s>%s</%s>", tag, html.EscapeString(cell), tag)
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</table>\n")
}
