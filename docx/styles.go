package docx

import (
	"encoding/xml"
	"strings"

	"github.com/inkleaf/pageturn/container"
)

// styleMap resolves paragraph style IDs to heading levels. This is the
// style map that turns Word's named styles into <h1>..<h6> output.
type styleMap struct {
	defs map[string]*styleDefXML // lowercase style ID -> definition
}

// builtinHeadings maps Word's built-in style IDs to heading levels.
var builtinHeadings = map[string]int{
	"heading1": 1, "heading2": 2, "heading3": 3,
	"heading4": 4, "heading5": 5, "heading6": 6,
	"heading7": 7, "heading8": 8, "heading9": 9,
	"title": 1,
}

// parseStyles parses word/styles.xml. Styles are optional; a missing or
// malformed part yields a map that only knows the built-in headings.
func parseStyles(a *container.Archive) *styleMap {
	sm := &styleMap{defs: make(map[string]*styleDefXML)}

	data, err := a.Read("word/styles.xml")
	if err != nil {
		return sm
	}

	var styles stylesXML
	if err := xml.Unmarshal(data, &styles); err != nil {
		return sm
	}

	for i := range styles.Styles {
		s := &styles.Styles[i]
		sm.defs[strings.ToLower(s.StyleID)] = s
	}
	return sm
}

// headingLevel reports whether styleID names a heading style and at what
// level. Built-in IDs are checked first, then declared outline levels,
// then style names containing "heading".
func (sm *styleMap) headingLevel(styleID string) (bool, int) {
	id := strings.ToLower(styleID)

	if level, ok := builtinHeadings[id]; ok {
		return true, level
	}

	def, ok := sm.defs[id]
	if !ok {
		return false, 0
	}

	if def.PPr.OutlineLvl.Val != "" {
		// Outline levels are 0-based in OOXML.
		if lvl := atoi(def.PPr.OutlineLvl.Val); lvl <= 8 {
			return true, lvl + 1
		}
	}

	if strings.Contains(strings.ToLower(def.Name.Val), "heading") {
		return true, 1
	}

	return false, 0
}
