// Package pptx provides PPTX (Office Open XML Presentation) slide
// extraction.
package pptx

import (
	"encoding/xml"
	"strings"
)

// slideXML represents a ppt/slides/slide*.xml part.
type slideXML struct {
	XMLName xml.Name `xml:"sld"`
	CSld    cSldXML  `xml:"cSld"`
}

type cSldXML struct {
	SpTree spTreeXML `xml:"spTree"`
}

// spTreeXML is the shape tree containing all shapes on a slide.
type spTreeXML struct {
	Sp           []spXML           `xml:"sp"`
	Pic          []picXML          `xml:"pic"`
	GrpSp        []grpSpXML        `xml:"grpSp"`
	GraphicFrame []graphicFrameXML `xml:"graphicFrame"`
}

// spXML represents a shape element.
type spXML struct {
	NvSpPr nvSpPrXML  `xml:"nvSpPr"`
	TxBody *txBodyXML `xml:"txBody"`
}

type nvSpPrXML struct {
	NvPr nvPrXML `xml:"nvPr"`
}

type nvPrXML struct {
	Ph *phXML `xml:"ph"`
}

type phXML struct {
	Type string `xml:"type,attr"` // title, body, subTitle, ctrTitle, ...
	Idx  int    `xml:"idx,attr"`
}

// picXML represents a picture shape; its blip carries the r:embed
// relationship ID of the media part.
type picXML struct {
	BlipFill blipFillXML `xml:"blipFill"`
}

type blipFillXML struct {
	Blip blipXML `xml:"blip"`
}

type blipXML struct {
	Embed string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships embed,attr"`
}

// grpSpXML represents a group of shapes (possibly nested).
type grpSpXML struct {
	Sp           []spXML           `xml:"sp"`
	Pic          []picXML          `xml:"pic"`
	GrpSp        []grpSpXML        `xml:"grpSp"`
	GraphicFrame []graphicFrameXML `xml:"graphicFrame"`
}

// graphicFrameXML represents a graphic frame (tables, charts).
type graphicFrameXML struct {
	Graphic graphicXML `xml:"graphic"`
}

type graphicXML struct {
	GraphicData graphicDataXML `xml:"graphicData"`
}

type graphicDataXML struct {
	URI string  `xml:"uri,attr"`
	Tbl *tblXML `xml:"tbl"`
}

// tblXML represents a table placed on a slide.
type tblXML struct {
	TblGrid tblGridXML `xml:"tblGrid"`
	Tr      []trXML    `xml:"tr"`
}

type tblGridXML struct {
	GridCol []gridColXML `xml:"gridCol"`
}

type gridColXML struct {
	W int `xml:"w,attr"`
}

type trXML struct {
	Tc []tcXML `xml:"tc"`
}

type tcXML struct {
	TxBody   *txBodyXML `xml:"txBody"`
	RowSpan  int        `xml:"rowSpan,attr"`
	GridSpan int        `xml:"gridSpan,attr"`
	VMerge   *int       `xml:"vMerge,attr"`
	HMerge   *int       `xml:"hMerge,attr"`
}

// txBodyXML represents text body content.
type txBodyXML struct {
	P []pXML `xml:"p"`
}

// pXML represents a paragraph.
type pXML struct {
	PPr *pPrXML  `xml:"pPr"`
	R   []rXML   `xml:"r"`
	Fld []fldXML `xml:"fld"`
}

type pPrXML struct {
	Lvl       int           `xml:"lvl,attr"`
	BuNone    *struct{}     `xml:"buNone"`
	BuChar    *buCharXML    `xml:"buChar"`
	BuAutoNum *buAutoNumXML `xml:"buAutoNum"`
}

type buCharXML struct {
	Char string `xml:"char,attr"`
}

type buAutoNumXML struct {
	Type string `xml:"type,attr"`
}

// rXML is a text run; <a:t> holds the run text.
type rXML struct {
	T string `xml:"t"`
}

// fldXML is a field (slide number, date).
type fldXML struct {
	T string `xml:"t"`
}

// notesSlideXML represents a ppt/notesSlides/notesSlide*.xml part.
type notesSlideXML struct {
	XMLName xml.Name `xml:"notes"`
	CSld    cSldXML  `xml:"cSld"`
}

// Slide is one parsed slide.
type Slide struct {
	Index      int    // 0-based position in presentation order
	Path       string // part path, e.g. ppt/slides/slide1.xml
	Title      string
	Paragraphs []Paragraph
	Tables     []Table
	Notes      string
	Image      string // data URI of the first referenced media, if any
}

// Table is a table placed on a slide via a graphic frame.
type Table struct {
	Columns int
	Rows    [][]TableCell
}

// TableCell is one cell of a slide table.
type TableCell struct {
	Text    string
	RowSpan int
	ColSpan int
	Merged  bool // continuation of a merged region, carries no text
}

// Paragraph is one line of slide text.
type Paragraph struct {
	Text       string
	Level      int
	IsBullet   bool
	IsNumbered bool
}

// Text returns the slide's text with one paragraph per line, title first.
// Table rows follow the paragraphs, cells joined by tabs.
func (s *Slide) Text() string {
	var lines []string
	if s.Title != "" {
		lines = append(lines, s.Title)
	}
	for _, p := range s.Paragraphs {
		lines = append(lines, p.Text)
	}
	for _, t := range s.Tables {
		for _, row := range t.Rows {
			cells := make([]string, 0, len(row))
			for _, c := range row {
				if c.Merged {
					continue
				}
				cells = append(cells, c.Text)
			}
			lines = append(lines, strings.Join(cells, "\t"))
		}
	}
	return strings.Join(lines, "\n")
}
