package docx

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/inkleaf/pageturn/container"
	"github.com/inkleaf/pageturn/errs"
	"github.com/inkleaf/pageturn/media"
	"github.com/inkleaf/pageturn/model"
	"github.com/inkleaf/pageturn/ooxml"
)

// Reader provides access to DOCX document content.
type Reader struct {
	archive  *container.Archive
	document *documentXML
	styles   *styleMap
	rels     *ooxml.Relationships
	meta     model.Metadata

	paragraphs []parsedParagraph
}

// parsedParagraph is one block of the document after style resolution.
type parsedParagraph struct {
	Text       string
	IsHeading  bool
	Level      int // heading level 1-9, 0 for body text
	IsListItem bool
	ListLevel  int
	Runs       []parsedRun
	Images     []string   // data URIs of embedded images in document order
	Table      [][]string // set for table blocks; Text/Runs are empty then
}

// parsedRun is a text run with its resolved character formatting.
type parsedRun struct {
	Text   string
	Bold   bool
	Italic bool
}

// Open opens a DOCX document from raw bytes.
func Open(data []byte) (*Reader, error) {
	a, err := container.Open(data)
	if err != nil {
		return nil, err
	}

	r := &Reader{archive: a}

	if err := a.Require("[Content_Types].xml", "word/document.xml"); err != nil {
		return nil, err
	}

	r.rels = ooxml.ParseRelationships(a, "word/document.xml")
	r.styles = parseStyles(a)

	if err := r.parseDocument(); err != nil {
		return nil, err
	}

	r.meta = ooxml.ParseMetadata(a)
	return r, nil
}

// parseDocument parses word/document.xml and processes its blocks.
func (r *Reader) parseDocument() error {
	data, err := r.archive.Read("word/document.xml")
	if err != nil {
		return err
	}

	r.document = &documentXML{}
	if err := xml.Unmarshal(data, r.document); err != nil {
		return errs.Parse("docx.open", fmt.Errorf("unmarshaling document.xml: %w", err))
	}

	if r.document.Body == nil {
		return errs.Empty("docx.open")
	}

	for i := range r.document.Body.Blocks {
		block := &r.document.Body.Blocks[i]
		switch block.XMLName.Local {
		case "p":
			r.paragraphs = append(r.paragraphs, r.processParagraph(block))
		case "tbl":
			r.paragraphs = append(r.paragraphs, r.processTable(block))
		}
	}

	return nil
}

// processParagraph extracts text, runs, images, and style info from one
// paragraph element.
func (r *Reader) processParagraph(p *blockXML) parsedParagraph {
	parsed := parsedParagraph{}

	runs := p.Runs
	for _, h := range p.Hyperlinks {
		runs = append(runs, h.Runs...)
	}

	var text strings.Builder
	for i := range runs {
		run := &runs[i]
		runText := extractRunText(run)
		if runText != "" {
			text.WriteString(runText)
			parsed.Runs = append(parsed.Runs, parsedRun{
				Text:   runText,
				Bold:   run.Properties.Bold.On(),
				Italic: run.Properties.Italic.On(),
			})
		}
		for j := range run.Drawings {
			if uri := r.imageDataURI(run.Drawings[j].blipRef()); uri != "" {
				parsed.Images = append(parsed.Images, uri)
			}
		}
	}
	parsed.Text = text.String()

	if styleID := p.Properties.Style.Val; styleID != "" {
		parsed.IsHeading, parsed.Level = r.styles.headingLevel(styleID)
	}
	if p.Properties.NumProps != nil {
		parsed.IsListItem = true
		parsed.ListLevel = atoi(p.Properties.NumProps.Ilvl.Val)
	}

	return parsed
}

// processTable flattens a table into rows of cell text.
func (r *Reader) processTable(t *blockXML) parsedParagraph {
	parsed := parsedParagraph{}
	for i := range t.Rows {
		row := make([]string, 0, len(t.Rows[i].Cells))
		for j := range t.Rows[i].Cells {
			var cell strings.Builder
			for k := range t.Rows[i].Cells[j].Paragraphs {
				cp := r.processParagraph(&t.Rows[i].Cells[j].Paragraphs[k])
				if cp.Text == "" {
					continue
				}
				if cell.Len() > 0 {
					cell.WriteString(" ")
				}
				cell.WriteString(cp.Text)
			}
			row = append(row, cell.String())
		}
		parsed.Table = append(parsed.Table, row)
	}
	return parsed
}

// extractRunText extracts text from a run, mapping tabs and breaks.
func extractRunText(run *runXML) string {
	var parts []string
	for _, t := range run.Text {
		parts = append(parts, t.Value)
	}
	for range run.Tabs {
		parts = append(parts, "\t")
	}
	for _, br := range run.Breaks {
		if br.Type == "page" {
			parts = append(parts, "\n\n")
		} else {
			parts = append(parts, "\n")
		}
	}
	return strings.Join(parts, "")
}

// imageDataURI resolves an image relationship ID to a data URI.
func (r *Reader) imageDataURI(relID string) string {
	if relID == "" {
		return ""
	}
	rel := r.rels.ByID(relID)
	if rel == nil || rel.Type != ooxml.RelTypeImage {
		return ""
	}
	target := ooxml.ResolveTarget("word/document.xml", rel.Target)
	if !media.Displayable(target) {
		return ""
	}
	data, err := r.archive.Read(target)
	if err != nil {
		return ""
	}
	return media.DataURI(target, data)
}

// Text extracts all text content, one paragraph per line with blank lines
// before headings.
func (r *Reader) Text() string {
	var b strings.Builder
	for i, para := range r.paragraphs {
		if para.Table != nil {
			for _, row := range para.Table {
				b.WriteString(strings.Join(row, "\t"))
				b.WriteString("\n")
			}
			continue
		}
		if i > 0 {
			b.WriteString("\n")
			if para.IsHeading {
				b.WriteString("\n")
			}
		}
		b.WriteString(para.Text)
	}
	return b.String()
}

// Title returns the document title: declared metadata first, the first
// heading otherwise.
func (r *Reader) Title() string {
	if r.meta.Title != "" {
		return r.meta.Title
	}
	for _, p := range r.paragraphs {
		if p.IsHeading && p.Text != "" {
			return p.Text
		}
	}
	return ""
}

// Metadata returns document metadata.
func (r *Reader) Metadata() model.Metadata {
	return r.meta
}

// Units returns the whole document as a single page unit. DOCX has no
// fixed pages; the viewer shows it as one scrollable page.
func (r *Reader) Units() []model.Unit {
	return []model.Unit{{
		Kind:  model.KindPage,
		Index: 0,
		ID:    "word/document.xml",
		Title: r.Title(),
		Text:  r.Text(),
		HTML:  r.HTML(),
	}}
}

func atoi(s string) int {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0
		}
		n = n*10 + int(c-'0')
	}
	return n
}
