package pptx

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/inkleaf/pageturn/errs"
)

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="xml" ContentType="application/xml"/>
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
</Types>`

const presentationXML = `<?xml version="1.0" encoding="UTF-8"?>
<p:presentation xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"/>`

// slidePart builds a slide XML part with a title shape and body paragraphs.
func slidePart(title string, bullets []string, body []string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<p:sld xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"
       xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
  <p:cSld><p:spTree>`)
	if title != "" {
		b.WriteString(`<p:sp><p:nvSpPr><p:nvPr><p:ph type="title"/></p:nvPr></p:nvSpPr>
      <p:txBody><a:p><a:r><a:t>` + title + `</a:t></a:r></a:p></p:txBody></p:sp>`)
	}
	if len(bullets) > 0 || len(body) > 0 {
		b.WriteString(`<p:sp><p:nvSpPr><p:nvPr><p:ph type="body"/></p:nvPr></p:nvSpPr><p:txBody>`)
		for _, line := range bullets {
			b.WriteString(`<a:p><a:pPr><a:buChar char="•"/></a:pPr><a:r><a:t>` + line + `</a:t></a:r></a:p>`)
		}
		for _, line := range body {
			b.WriteString(`<a:p><a:pPr><a:buNone/></a:pPr><a:r><a:t>` + line + `</a:t></a:r></a:p>`)
		}
		b.WriteString(`</p:txBody></p:sp>`)
	}
	b.WriteString(`</p:spTree></p:cSld></p:sld>`)
	return b.String()
}

// buildPPTX creates an in-memory PPTX archive from part name/content pairs,
// always including the required package parts.
func buildPPTX(t *testing.T, parts map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	write := func(name, content string) {
		f, err := w.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}

	write("[Content_Types].xml", contentTypesXML)
	write("ppt/presentation.xml", presentationXML)
	for name, content := range parts {
		write(name, content)
	}

	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestOpen(t *testing.T) {
	data := buildPPTX(t, map[string]string{
		"ppt/slides/slide1.xml": slidePart("Welcome", nil, []string{"First slide body"}),
		"ppt/slides/slide2.xml": slidePart("Agenda", []string{"Intro", "Demo"}, nil),
	})

	r, err := Open(data)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if r.SlideCount() != 2 {
		t.Fatalf("SlideCount = %d, want 2", r.SlideCount())
	}

	s, err := r.Slide(0)
	if err != nil {
		t.Fatal(err)
	}
	if s.Title != "Welcome" {
		t.Errorf("slide 1 title = %q, want %q", s.Title, "Welcome")
	}
	if len(s.Paragraphs) != 1 || s.Paragraphs[0].Text != "First slide body" {
		t.Errorf("slide 1 paragraphs = %+v", s.Paragraphs)
	}
}

func TestOpenNoSlides(t *testing.T) {
	data := buildPPTX(t, nil)

	_, err := Open(data)
	if err == nil {
		t.Fatal("Open succeeded on a presentation with no slides")
	}
	if errs.KindOf(err) != errs.KindEmptyContent {
		t.Errorf("KindOf = %v, want KindEmptyContent", errs.KindOf(err))
	}
}

func TestOpenMissingPresentation(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("[Content_Types].xml")
	if err != nil {
		t.Fatal(err)
	}
	f.Write([]byte(contentTypesXML))
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	_, err = Open(buf.Bytes())
	if err == nil {
		t.Fatal("Open succeeded without ppt/presentation.xml")
	}
	if errs.KindOf(err) != errs.KindFormat {
		t.Errorf("KindOf = %v, want KindFormat", errs.KindOf(err))
	}
}

func TestSlideOrder(t *testing.T) {
	// Numeric part order, not lexicographic: slide10 follows slide9.
	parts := map[string]string{}
	for _, n := range []string{"10", "2", "1", "9"} {
		parts["ppt/slides/slide"+n+".xml"] = slidePart("Slide "+n, nil, nil)
	}
	data := buildPPTX(t, parts)

	r, err := Open(data)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"Slide 1", "Slide 2", "Slide 9", "Slide 10"}
	for i, title := range want {
		s, err := r.Slide(i)
		if err != nil {
			t.Fatal(err)
		}
		if s.Title != title {
			t.Errorf("slide %d title = %q, want %q", i, s.Title, title)
		}
	}
}

func TestSkipsCorruptSlides(t *testing.T) {
	data := buildPPTX(t, map[string]string{
		"ppt/slides/slide1.xml": slidePart("Good", nil, nil),
		"ppt/slides/slide2.xml": "<p:sld this is not xml",
	})

	r, err := Open(data)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if r.SlideCount() != 1 {
		t.Errorf("SlideCount = %d, want 1", r.SlideCount())
	}
}

func TestAllSlidesCorrupt(t *testing.T) {
	data := buildPPTX(t, map[string]string{
		"ppt/slides/slide1.xml": "<broken",
	})

	_, err := Open(data)
	if err == nil {
		t.Fatal("Open succeeded with only corrupt slides")
	}
	if errs.KindOf(err) != errs.KindParse {
		t.Errorf("KindOf = %v, want KindParse", errs.KindOf(err))
	}
}

func TestNotes(t *testing.T) {
	notes := `<?xml version="1.0" encoding="UTF-8"?>
<p:notes xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"
         xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
  <p:cSld><p:spTree>
    <p:sp><p:nvSpPr><p:nvPr><p:ph type="sldImg"/></p:nvPr></p:nvSpPr></p:sp>
    <p:sp><p:nvSpPr><p:nvPr><p:ph type="body"/></p:nvPr></p:nvSpPr>
      <p:txBody><a:p><a:r><a:t>Remember to pause here</a:t></a:r></a:p></p:txBody></p:sp>
  </p:spTree></p:cSld></p:notes>`

	rels := `<?xml version="1.0" encoding="UTF-8"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesSlide" Target="../notesSlides/notesSlide1.xml"/>
</Relationships>`

	data := buildPPTX(t, map[string]string{
		"ppt/slides/slide1.xml":             slidePart("Title", nil, nil),
		"ppt/slides/_rels/slide1.xml.rels":  rels,
		"ppt/notesSlides/notesSlide1.xml":   notes,
	})

	r, err := Open(data)
	if err != nil {
		t.Fatal(err)
	}
	s, err := r.Slide(0)
	if err != nil {
		t.Fatal(err)
	}
	if s.Notes != "Remember to pause here" {
		t.Errorf("Notes = %q, want %q", s.Notes, "Remember to pause here")
	}
}

func TestMetadata(t *testing.T) {
	core := `<?xml version="1.0" encoding="UTF-8"?>
<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
                   xmlns:dc="http://purl.org/dc/elements/1.1/">
  <dc:title>Quarterly Review</dc:title>
  <dc:creator>Pat Lee</dc:creator>
</cp:coreProperties>`

	data := buildPPTX(t, map[string]string{
		"ppt/slides/slide1.xml": slidePart("Q3", nil, nil),
		"docProps/core.xml":     core,
	})

	r, err := Open(data)
	if err != nil {
		t.Fatal(err)
	}
	meta := r.Metadata()
	if meta.Title != "Quarterly Review" {
		t.Errorf("Title = %q, want %q", meta.Title, "Quarterly Review")
	}
	if meta.Author != "Pat Lee" {
		t.Errorf("Author = %q, want %q", meta.Author, "Pat Lee")
	}
}

func TestUnits(t *testing.T) {
	data := buildPPTX(t, map[string]string{
		"ppt/slides/slide1.xml": slidePart("Welcome", []string{"One", "Two"}, nil),
	})

	r, err := Open(data)
	if err != nil {
		t.Fatal(err)
	}
	units := r.Units()
	if len(units) != 1 {
		t.Fatalf("Units returned %d, want 1", len(units))
	}

	u := units[0]
	if u.ID != "ppt/slides/slide1.xml" {
		t.Errorf("ID = %q", u.ID)
	}
	if u.Title != "Welcome" {
		t.Errorf("Title = %q", u.Title)
	}
	if !strings.Contains(u.HTML, "<h2>Welcome</h2>") {
		t.Errorf("HTML missing title heading: %q", u.HTML)
	}
	if !strings.Contains(u.HTML, "<li>One</li>") {
		t.Errorf("HTML missing bullet list: %q", u.HTML)
	}
	if !strings.Contains(u.Text, "Welcome\nOne\nTwo") {
		t.Errorf("Text = %q", u.Text)
	}
}

// tableSlide builds a slide whose only content is a graphic-frame table.
func tableSlide(rows string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<p:sld xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"
       xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
  <p:cSld><p:spTree>
    <p:graphicFrame>
      <a:graphic>
        <a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/table">
          <a:tbl>
            <a:tblGrid><a:gridCol w="2000"/><a:gridCol w="2000"/></a:tblGrid>
            ` + rows + `
          </a:tbl>
        </a:graphicData>
      </a:graphic>
    </p:graphicFrame>
  </p:spTree></p:cSld></p:sld>`
}

func tableCell(text string) string {
	return `<a:tc><a:txBody><a:p><a:r><a:t>` + text + `</a:t></a:r></a:p></a:txBody></a:tc>`
}

func TestSlideTable(t *testing.T) {
	rows := `<a:tr>` + tableCell("Quarter") + tableCell("Revenue") + `</a:tr>
             <a:tr>` + tableCell("Q1") + tableCell("1.2M") + `</a:tr>`
	data := buildPPTX(t, map[string]string{
		"ppt/slides/slide1.xml": tableSlide(rows),
	})

	r, err := Open(data)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	slide, err := r.Slide(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(slide.Tables) != 1 {
		t.Fatalf("Tables = %d, want 1", len(slide.Tables))
	}
	tbl := slide.Tables[0]
	if tbl.Columns != 2 || len(tbl.Rows) != 2 {
		t.Errorf("table shape = %dx%d, want 2x2", tbl.Columns, len(tbl.Rows))
	}

	// A slide whose only content is a table must still carry its text.
	u := r.Units()[0]
	if !strings.Contains(u.Text, "Quarter\tRevenue") || !strings.Contains(u.Text, "Q1\t1.2M") {
		t.Errorf("Text = %q", u.Text)
	}
	if !strings.Contains(u.HTML, "<table>") || !strings.Contains(u.HTML, "<td>Q1</td>") {
		t.Errorf("HTML = %q", u.HTML)
	}
}

func TestSlideTableMergedCells(t *testing.T) {
	rows := `<a:tr><a:tc gridSpan="2"><a:txBody><a:p><a:r><a:t>Totals</a:t></a:r></a:p></a:txBody></a:tc><a:tc hMerge="1"/></a:tr>
             <a:tr>` + tableCell("Q1") + tableCell("1.2M") + `</a:tr>`
	data := buildPPTX(t, map[string]string{
		"ppt/slides/slide1.xml": tableSlide(rows),
	})

	r, err := Open(data)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	u := r.Units()[0]
	if !strings.Contains(u.HTML, `colspan="2"`) {
		t.Errorf("HTML missing colspan: %q", u.HTML)
	}
	// The merge continuation cell renders nothing of its own.
	if got := strings.Count(strings.Split(u.HTML, "</tr>")[0], "<td"); got != 1 {
		t.Errorf("first row has %d cells, want 1", got)
	}
	if !strings.HasPrefix(u.Text, "Totals\n") {
		t.Errorf("Text = %q", u.Text)
	}
}

func TestGroupedSlideTable(t *testing.T) {
	inner := `<p:grpSp>
    <p:graphicFrame>
      <a:graphic>
        <a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/table">
          <a:tbl>
            <a:tblGrid><a:gridCol w="2000"/></a:tblGrid>
            <a:tr>` + tableCell("Nested") + `</a:tr>
          </a:tbl>
        </a:graphicData>
      </a:graphic>
    </p:graphicFrame>
  </p:grpSp>`
	slide := `<?xml version="1.0" encoding="UTF-8"?>
<p:sld xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"
       xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
  <p:cSld><p:spTree>` + inner + `</p:spTree></p:cSld></p:sld>`

	data := buildPPTX(t, map[string]string{
		"ppt/slides/slide1.xml": slide,
	})

	r, err := Open(data)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if !strings.Contains(r.Units()[0].Text, "Nested") {
		t.Errorf("Text = %q", r.Units()[0].Text)
	}
}
