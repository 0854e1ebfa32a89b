package pptx

import (
	"encoding/xml"
	"fmt"
	"html"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/inkleaf/pageturn/container"
	"github.com/inkleaf/pageturn/errs"
	"github.com/inkleaf/pageturn/media"
	"github.com/inkleaf/pageturn/model"
	"github.com/inkleaf/pageturn/ooxml"
)

var slidePattern = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// Reader provides access to PPTX presentation content.
type Reader struct {
	archive *container.Archive
	slides  []*Slide
	meta    model.Metadata
}

// Open opens a PPTX presentation from raw bytes.
func Open(data []byte) (*Reader, error) {
	a, err := container.Open(data)
	if err != nil {
		return nil, err
	}

	r := &Reader{archive: a}

	if err := a.Require("[Content_Types].xml", "ppt/presentation.xml"); err != nil {
		return nil, err
	}

	if err := r.parseSlides(); err != nil {
		return nil, err
	}

	r.meta = ooxml.ParseMetadata(a)
	return r, nil
}

// parseSlides parses all slide parts in presentation order.
func (r *Reader) parseSlides() error {
	names := r.archive.Match(slidePattern)
	if len(names) == 0 {
		// A presentation with no slide parts has nothing to show;
		// signal the external-viewer fallback.
		return errs.Empty("pptx.open")
	}

	// Slide order is the numeric order of the part names, not the order
	// entries happen to sit in the archive.
	sort.Slice(names, func(i, j int) bool {
		return slideNumber(names[i]) < slideNumber(names[j])
	})

	r.slides = make([]*Slide, 0, len(names))
	for _, name := range names {
		slide, err := r.parseSlide(name, len(r.slides))
		if err != nil {
			continue // skip slides that fail to parse
		}
		r.slides = append(r.slides, slide)
	}

	if len(r.slides) == 0 {
		return errs.Parse("pptx.open", fmt.Errorf("no slides could be parsed"))
	}
	return nil
}

// slideNumber extracts N from a path like "ppt/slides/slideN.xml".
func slideNumber(name string) int {
	m := slidePattern.FindStringSubmatch(name)
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

// parseSlide parses a single slide part.
func (r *Reader) parseSlide(name string, index int) (*Slide, error) {
	data, err := r.archive.Read(name)
	if err != nil {
		return nil, err
	}

	var sx slideXML
	if err := xml.Unmarshal(data, &sx); err != nil {
		return nil, err
	}

	slide := &Slide{Index: index, Path: name}
	collectShapes(&sx.CSld.SpTree, slide)

	rels := ooxml.ParseRelationships(r.archive, name)
	slide.Image = r.firstImage(name, rels)
	slide.Notes = r.slideNotes(name, rels)

	return slide, nil
}

// collectShapes walks the shape tree and accumulates text paragraphs and
// graphic-frame tables, recursing into shape groups.
func collectShapes(tree *spTreeXML, slide *Slide) {
	for i := range tree.Sp {
		collectShape(&tree.Sp[i], slide)
	}
	for i := range tree.GraphicFrame {
		if tbl := tree.GraphicFrame[i].Graphic.GraphicData.Tbl; tbl != nil {
			slide.Tables = append(slide.Tables, parseTable(tbl))
		}
	}
	for i := range tree.GrpSp {
		collectGroup(&tree.GrpSp[i], slide)
	}
}

func collectGroup(grp *grpSpXML, slide *Slide) {
	for i := range grp.Sp {
		collectShape(&grp.Sp[i], slide)
	}
	for i := range grp.GraphicFrame {
		if tbl := grp.GraphicFrame[i].Graphic.GraphicData.Tbl; tbl != nil {
			slide.Tables = append(slide.Tables, parseTable(tbl))
		}
	}
	for i := range grp.GrpSp {
		collectGroup(&grp.GrpSp[i], slide)
	}
}

// parseTable converts a graphic-frame table into rows of cells. Cells
// covered by a horizontal or vertical merge are marked and carry no text.
func parseTable(tbl *tblXML) Table {
	t := Table{
		Columns: len(tbl.TblGrid.GridCol),
		Rows:    make([][]TableCell, 0, len(tbl.Tr)),
	}

	for i := range tbl.Tr {
		tr := &tbl.Tr[i]
		row := make([]TableCell, 0, len(tr.Tc))
		for j := range tr.Tc {
			tc := &tr.Tc[j]
			cell := TableCell{RowSpan: tc.RowSpan, ColSpan: tc.GridSpan}
			if cell.RowSpan == 0 {
				cell.RowSpan = 1
			}
			if cell.ColSpan == 0 {
				cell.ColSpan = 1
			}
			if tc.VMerge != nil || tc.HMerge != nil {
				cell.Merged = true
			}

			if tc.TxBody != nil && !cell.Merged {
				var lines []string
				for k := range tc.TxBody.P {
					para := parseParagraph(&tc.TxBody.P[k])
					if para.Text != "" {
						lines = append(lines, para.Text)
					}
				}
				cell.Text = strings.Join(lines, "\n")
			}
			row = append(row, cell)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func collectShape(sp *spXML, slide *Slide) {
	if sp.TxBody == nil {
		return
	}

	isTitle := false
	if sp.NvSpPr.NvPr.Ph != nil {
		t := sp.NvSpPr.NvPr.Ph.Type
		isTitle = t == "title" || t == "ctrTitle"
	}

	for i := range sp.TxBody.P {
		para := parseParagraph(&sp.TxBody.P[i])
		if para.Text == "" {
			continue
		}
		if isTitle && slide.Title == "" {
			slide.Title = para.Text
			continue
		}
		slide.Paragraphs = append(slide.Paragraphs, para)
	}
}

// parseParagraph concatenates the paragraph's <a:t> run contents and
// carries over bullet/number level information.
func parseParagraph(p *pXML) Paragraph {
	para := Paragraph{}

	if p.PPr != nil {
		para.Level = p.PPr.Lvl
		if p.PPr.BuNone == nil {
			if p.PPr.BuAutoNum != nil {
				para.IsNumbered = true
			} else if p.PPr.BuChar != nil || para.Level > 0 {
				para.IsBullet = true
			}
		}
	}

	var text strings.Builder
	for _, run := range p.R {
		text.WriteString(run.T)
	}
	for _, fld := range p.Fld {
		text.WriteString(fld.T)
	}

	para.Text = strings.TrimSpace(text.String())
	return para
}

// firstImage resolves the slide's first referenced image relationship to a
// data URI, or "" when the slide embeds no displayable media.
func (r *Reader) firstImage(slidePath string, rels *ooxml.Relationships) string {
	rel := rels.FirstOfType(ooxml.RelTypeImage)
	if rel == nil {
		return ""
	}

	target := ooxml.ResolveTarget(slidePath, rel.Target)
	if !media.Displayable(target) {
		return ""
	}

	data, err := r.archive.Read(target)
	if err != nil {
		return ""
	}
	return media.DataURI(target, data)
}

// slideNotes extracts the speaker notes attached to a slide, if any.
func (r *Reader) slideNotes(slidePath string, rels *ooxml.Relationships) string {
	rel := rels.FirstOfType(ooxml.RelTypeNotesSlide)
	if rel == nil {
		return ""
	}

	data, err := r.archive.Read(ooxml.ResolveTarget(slidePath, rel.Target))
	if err != nil {
		return ""
	}

	var notes notesSlideXML
	if err := xml.Unmarshal(data, &notes); err != nil {
		return ""
	}

	var text strings.Builder
	for i := range notes.CSld.SpTree.Sp {
		sp := &notes.CSld.SpTree.Sp[i]
		// Skip the slide image placeholder present in every notes part.
		if sp.NvSpPr.NvPr.Ph != nil && sp.NvSpPr.NvPr.Ph.Type == "sldImg" {
			continue
		}
		if sp.TxBody == nil {
			continue
		}
		for j := range sp.TxBody.P {
			para := parseParagraph(&sp.TxBody.P[j])
			if para.Text == "" {
				continue
			}
			if text.Len() > 0 {
				text.WriteString("\n")
			}
			text.WriteString(para.Text)
		}
	}
	return text.String()
}

// SlideCount returns the number of slides.
func (r *Reader) SlideCount() int {
	return len(r.slides)
}

// Slide returns the slide at the given index (0-indexed).
func (r *Reader) Slide(index int) (*Slide, error) {
	if index < 0 || index >= len(r.slides) {
		return nil, fmt.Errorf("slide index %d out of range (0-%d)", index, len(r.slides)-1)
	}
	return r.slides[index], nil
}

// Metadata returns presentation metadata.
func (r *Reader) Metadata() model.Metadata {
	return r.meta
}

// Units converts the slides into the shared unit model, one unit per
// slide in presentation order.
func (r *Reader) Units() []model.Unit {
	units := make([]model.Unit, 0, len(r.slides))
	for _, slide := range r.slides {
		units = append(units, model.Unit{
			Kind:  model.KindSlide,
			Index: slide.Index,
			ID:    slide.Path,
			Title: slide.Title,
			Text:  slide.Text(),
			HTML:  slideHTML(slide),
			Image: slide.Image,
		})
	}
	return units
}

// slideHTML builds a display fragment for one slide: title heading, then
// paragraphs with bullet lists preserved.
func slideHTML(s *Slide) string {
	var b strings.Builder

	if s.Title != "" {
		b.WriteString("<h2>")
		b.WriteString(html.EscapeString(s.Title))
		b.WriteString("</h2>\n")
	}

	inList := false
	for _, p := range s.Paragraphs {
		if p.IsBullet || p.IsNumbered {
			if !inList {
				b.WriteString("<ul>\n")
				inList = true
			}
			b.WriteString("<li>")
			b.WriteString(html.EscapeString(p.Text))
			b.WriteString("</li>\n")
			continue
		}
		if inList {
			b.WriteString("</ul>\n")
			inList = false
		}
		b.WriteString("<p>")
		b.WriteString(html.EscapeString(p.Text))
		b.WriteString("</p>\n")
	}
	if inList {
		b.WriteString("</ul>\n")
	}

	for _, t := range s.Tables {
		b.WriteString("<table>\n")
		for _, row := range t.Rows {
			b.WriteString("<tr>")
			for _, c := range row {
				if c.Merged {
					continue
				}
				b.WriteString("<td")
				if c.ColSpan > 1 {
					fmt.Fprintf(&b, " colspan=\"%d\"", c.ColSpan)
				}
				if c.RowSpan > 1 {
					fmt.Fprintf(&b, " rowspan=\"%d\"", c.RowSpan)
				}
				b.WriteString(">")
				b.WriteString(html.EscapeString(c.Text))
				b.WriteString("</td>")
			}
			b.WriteString("</tr>\n")
		}
		b.WriteString("</table>\n")
	}

	return strings.TrimSpace(b.String())
}
