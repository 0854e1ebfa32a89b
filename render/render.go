// Package render converts extracted units into presentable HTML. Unit
// HTML comes from trusted parsing, not user input, so it is injected
// as-is; plain text and images get wrapped in styled blocks.
package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/inkleaf/pageturn/model"
)

// Options controls page presentation.
type Options struct {
	DarkMode bool
	FontSize int // relative steps from the default size, -3..5
}

// Fragment returns the display markup for one unit: its HTML payload
// when present, otherwise its embedded image with the text as fallback,
// otherwise the plain text in a styled block.
func Fragment(u *model.Unit) string {
	var b strings.Builder

	if u.Image != "" {
		// Natural size inside a fixed aspect-ratio frame; the text below
		// doubles as the fallback when the image cannot render.
		fmt.Fprintf(&b, "<figure class=\"unit-media\"><img src=%q alt=%q></figure>\n",
			u.Image, u.DisplayTitle())
	}

	switch {
	case u.HTML != "":
		b.WriteString(u.HTML)
	case u.Text != "":
		b.WriteString("<div class=\"unit-text\">")
		for i, line := range strings.Split(u.Text, "\n") {
			if i > 0 {
				b.WriteString("<br>")
			}
			b.WriteString(html.EscapeString(line))
		}
		b.WriteString("</div>")
	}

	return b.String()
}

// Page wraps a unit's fragment into a complete standalone HTML document.
func Page(u *model.Unit, opts Options) string {
	theme := "light"
	if opts.DarkMode {
		theme = "dark"
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(u.DisplayTitle()))
	fmt.Fprintf(&b, "<style>%s</style>\n", baseCSS)
	b.WriteString("</head>\n")
	fmt.Fprintf(&b, "<body class=\"theme-%s\">\n", theme)
	fmt.Fprintf(&b, "<main class=\"unit unit-%s\" style=\"font-size:%s\">\n", u.Kind, fontSize(opts.FontSize))
	b.WriteString(Fragment(u))
	b.WriteString("\n</main>\n</body>\n</html>\n")
	return b.String()
}

// fontSize maps relative steps to a CSS size.
func fontSize(steps int) string {
	if steps < -3 {
		steps = -3
	}
	if steps > 5 {
		steps = 5
	}
	return fmt.Sprintf("%d%%", 100+steps*12)
}

const baseCSS = `
body { margin: 0; font-family: Georgia, serif; line-height: 1.6; }
body.theme-light { background: #fff; color: #1a1a1a; }
body.theme-dark { background: #1e1e1e; color: #ddd; }
main.unit { max-width: 52rem; margin: 0 auto; padding: 2rem 1.5rem; }
main.unit-sheet { max-width: none; overflow-x: auto; }
.unit-media { margin: 0 0 1rem; aspect-ratio: 4 / 3; display: flex; align-items: center; justify-content: center; }
.unit-media img { max-width: 100%; max-height: 100%; }
.unit-text { white-space: pre-wrap; }
.image-placeholder { color: #888; font-style: italic; }
table { border-collapse: collapse; }
th, td { border: 1px solid #999; padding: 0.25rem 0.5rem; text-align: left; }
body.theme-dark th, body.theme-dark td { border-color: #555; }
`
