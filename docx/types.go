// Package docx provides DOCX (Office Open XML) document conversion to
// displayable HTML.
package docx

import "encoding/xml"

// documentXML represents the word/document.xml part.
type documentXML struct {
	XMLName xml.Name `xml:"document"`
	Body    *bodyXML `xml:"body"`
}

// bodyXML holds the document's block-level content in order. Paragraphs
// and tables interleave, so both carry their own element names.
type bodyXML struct {
	Blocks []blockXML `xml:",any"`
}

// blockXML is one block-level element: a paragraph or a table. Other body
// children (sectPr, bookmarks) unmarshal with empty content and are
// skipped downstream.
type blockXML struct {
	XMLName    xml.Name
	Properties paraPropsXML `xml:"pPr"`
	Runs       []runXML     `xml:"r"`
	Hyperlinks []hyperXML   `xml:"hyperlink"`
	Rows       []rowXML     `xml:"tr"`
}

type paraPropsXML struct {
	Style    styleRefXML `xml:"pStyle"`
	NumProps *numPrXML   `xml:"numPr"`
}

type styleRefXML struct {
	Val string `xml:"val,attr"`
}

type numPrXML struct {
	Ilvl  valXML `xml:"ilvl"`
	NumID valXML `xml:"numId"`
}

type valXML struct {
	Val string `xml:"val,attr"`
}

type hyperXML struct {
	Runs []runXML `xml:"r"`
}

// runXML represents a text run.
type runXML struct {
	Properties runPropsXML  `xml:"rPr"`
	Text       []textXML    `xml:"t"`
	Tabs       []struct{}   `xml:"tab"`
	Breaks     []breakXML   `xml:"br"`
	Drawings   []drawingXML `xml:"drawing"`
}

type runPropsXML struct {
	Bold   *toggleXML `xml:"b"`
	Italic *toggleXML `xml:"i"`
}

// toggleXML is an OOXML on/off property: present means on unless
// val="false" or val="0".
type toggleXML struct {
	Val string `xml:"val,attr"`
}

// On reports whether the toggle property is enabled.
func (t *toggleXML) On() bool {
	return t != nil && t.Val != "false" && t.Val != "0"
}

type textXML struct {
	Value string `xml:",chardata"`
	Space string `xml:"space,attr"`
}

type breakXML struct {
	Type string `xml:"type,attr"` // "page", "column", or empty for line
}

// drawingXML carries an embedded image reference. The blip's r:embed
// attribute names the image relationship; inline and floating (anchor)
// placements nest it identically.
type drawingXML struct {
	Inline *graphicHolderXML `xml:"inline"`
	Anchor *graphicHolderXML `xml:"anchor"`
}

type graphicHolderXML struct {
	Blip *blipXML `xml:"graphic>graphicData>pic>blipFill>blip"`
}

// blipRef returns the drawing's image relationship ID, or "".
func (d *drawingXML) blipRef() string {
	for _, h := range []*graphicHolderXML{d.Inline, d.Anchor} {
		if h != nil && h.Blip != nil && h.Blip.Embed != "" {
			return h.Blip.Embed
		}
	}
	return ""
}

type blipXML struct {
	Embed string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships embed,attr"`
}

// rowXML represents a table row.
type rowXML struct {
	Cells []cellXML `xml:"tc"`
}

type cellXML struct {
	Paragraphs []blockXML `xml:"p"`
}

// stylesXML represents the word/styles.xml part.
type stylesXML struct {
	XMLName xml.Name      `xml:"styles"`
	Styles  []styleDefXML `xml:"style"`
}

type styleDefXML struct {
	Type    string      `xml:"type,attr"`
	StyleID string      `xml:"styleId,attr"`
	Name    styleRefXML `xml:"name"`
	PPr     stylePPrXML `xml:"pPr"`
}

type stylePPrXML struct {
	OutlineLvl valXML `xml:"outlineLvl"`
}
