package docx

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/inkleaf/pageturn/errs"
	"github.com/inkleaf/pageturn/model"
)

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="xml" ContentType="application/xml"/>
</Types>`

const testDocumentXML = `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p>
      <w:pPr><w:pStyle w:val="Heading1"/></w:pPr>
      <w:r><w:t>Introduction</w:t></w:r>
    </w:p>
    <w:p>
      <w:r><w:t>Plain body text with </w:t></w:r>
      <w:r><w:rPr><w:b/></w:rPr><w:t>bold</w:t></w:r>
      <w:r><w:t> and </w:t></w:r>
      <w:r><w:rPr><w:i/></w:rPr><w:t>italic</w:t></w:r>
      <w:r><w:t> runs.</w:t></w:r>
    </w:p>
    <w:p>
      <w:pPr><w:numPr><w:ilvl w:val="0"/><w:numId w:val="1"/></w:numPr></w:pPr>
      <w:r><w:t>First item</w:t></w:r>
    </w:p>
    <w:p>
      <w:pPr><w:numPr><w:ilvl w:val="0"/><w:numId w:val="1"/></w:numPr></w:pPr>
      <w:r><w:t>Second item</w:t></w:r>
    </w:p>
    <w:tbl>
      <w:tr>
        <w:tc><w:p><w:r><w:t>Name</w:t></w:r></w:p></w:tc>
        <w:tc><w:p><w:r><w:t>Grade</w:t></w:r></w:p></w:tc>
      </w:tr>
      <w:tr>
        <w:tc><w:p><w:r><w:t>Ada</w:t></w:r></w:p></w:tc>
        <w:tc><w:p><w:r><w:t>A</w:t></w:r></w:p></w:tc>
      </w:tr>
    </w:tbl>
  </w:body>
</w:document>`

// buildDOCX creates an in-memory DOCX archive with the given
// word/document.xml content plus any extra parts.
func buildDOCX(t *testing.T, documentXML string, extra map[string]string) []byte {
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
	write("word/document.xml", documentXML)
	for name, content := range extra {
		write(name, content)
	}

	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestOpen(t *testing.T) {
	r, err := Open(buildDOCX(t, testDocumentXML, nil))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if len(r.paragraphs) != 5 {
		t.Fatalf("parsed %d blocks, want 5", len(r.paragraphs))
	}
	if !r.paragraphs[0].IsHeading || r.paragraphs[0].Level != 1 {
		t.Errorf("first block = %+v, want heading level 1", r.paragraphs[0])
	}
	if !r.paragraphs[2].IsListItem {
		t.Errorf("third block should be a list item: %+v", r.paragraphs[2])
	}
	if r.paragraphs[4].Table == nil {
		t.Errorf("fifth block should be a table: %+v", r.paragraphs[4])
	}
}

func TestOpenMissingDocument(t *testing.T) {
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
		t.Fatal("Open succeeded without word/document.xml")
	}
	if errs.KindOf(err) != errs.KindFormat {
		t.Errorf("KindOf = %v, want KindFormat", errs.KindOf(err))
	}
}

func TestOpenEmptyBody(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"/>`

	_, err := Open(buildDOCX(t, doc, nil))
	if err == nil {
		t.Fatal("Open succeeded on a document without a body")
	}
	if errs.KindOf(err) != errs.KindEmptyContent {
		t.Errorf("KindOf = %v, want KindEmptyContent", errs.KindOf(err))
	}
}

func TestOpenMalformedDocument(t *testing.T) {
	_, err := Open(buildDOCX(t, "<w:document unclosed", nil))
	if err == nil {
		t.Fatal("Open succeeded on malformed XML")
	}
	if errs.KindOf(err) != errs.KindParse {
		t.Errorf("KindOf = %v, want KindParse", errs.KindOf(err))
	}
}

func TestText(t *testing.T) {
	r, err := Open(buildDOCX(t, testDocumentXML, nil))
	if err != nil {
		t.Fatal(err)
	}

	text := r.Text()
	for _, want := range []string{
		"Introduction",
		"Plain body text with bold and italic runs.",
		"First item",
		"Name\tGrade",
		"Ada\tA",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Text missing %q:\n%s", want, text)
		}
	}
}

func TestTitle(t *testing.T) {
	// No declared metadata: the first heading serves as the title.
	r, err := Open(buildDOCX(t, testDocumentXML, nil))
	if err != nil {
		t.Fatal(err)
	}
	if got := r.Title(); got != "Introduction" {
		t.Errorf("Title = %q, want %q", got, "Introduction")
	}

	// Declared metadata wins over the first heading.
	core := `<?xml version="1.0" encoding="UTF-8"?>
<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
                   xmlns:dc="http://purl.org/dc/elements/1.1/">
  <dc:title>Course Notes</dc:title>
</cp:coreProperties>`
	r, err = Open(buildDOCX(t, testDocumentXML, map[string]string{"docProps/core.xml": core}))
	if err != nil {
		t.Fatal(err)
	}
	if got := r.Title(); got != "Course Notes" {
		t.Errorf("Title = %q, want %q", got, "Course Notes")
	}
}

func TestHTML(t *testing.T) {
	r, err := Open(buildDOCX(t, testDocumentXML, nil))
	if err != nil {
		t.Fatal(err)
	}

	html := r.HTML()
	for _, want := range []string{
		"<h1>Introduction</h1>",
		"<strong>bold</strong>",
		"<em>italic</em>",
		"<li>First item</li>",
		"<th>Name</th>",
		"<td>Ada</td>",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("HTML missing %q:\n%s", want, html)
		}
	}
}

func TestCustomHeadingStyle(t *testing.T) {
	styles := `<?xml version="1.0" encoding="UTF-8"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:style w:type="paragraph" w:styleId="SectionTitle">
    <w:name w:val="Section Title"/>
    <w:pPr><w:outlineLvl w:val="1"/></w:pPr>
  </w:style>
</w:styles>`
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p>
      <w:pPr><w:pStyle w:val="SectionTitle"/></w:pPr>
      <w:r><w:t>Grading Policy</w:t></w:r>
    </w:p>
  </w:body>
</w:document>`

	r, err := Open(buildDOCX(t, doc, map[string]string{"word/styles.xml": styles}))
	if err != nil {
		t.Fatal(err)
	}
	if !r.paragraphs[0].IsHeading || r.paragraphs[0].Level != 2 {
		t.Errorf("paragraph = %+v, want heading level 2", r.paragraphs[0])
	}
}

func TestEmbeddedImage(t *testing.T) {
	// Minimal 1x1 PNG.
	png := "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00\x1f\x15\xc4\x89\x00\x00\x00\nIDATx\x9cc\x00\x01\x00\x00\x05\x00\x01\r\n\x2d\xb4\x00\x00\x00\x00IEND\xaeB`\x82"

	rels := `<?xml version="1.0" encoding="UTF-8"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId5" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/image1.png"/>
</Relationships>`

	doc := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"
            xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"
            xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"
            xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture"
            xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing">
  <w:body>
    <w:p>
      <w:r>
        <w:drawing>
          <wp:inline>
            <a:graphic><a:graphicData><pic:pic><pic:blipFill>
              <a:blip r:embed="rId5"/>
            </pic:blipFill></pic:pic></a:graphicData></a:graphic>
          </wp:inline>
        </w:drawing>
      </w:r>
    </w:p>
  </w:body>
</w:document>`

	r, err := Open(buildDOCX(t, doc, map[string]string{
		"word/_rels/document.xml.rels": rels,
		"word/media/image1.png":        png,
	}))
	if err != nil {
		t.Fatal(err)
	}

	if len(r.paragraphs[0].Images) != 1 {
		t.Fatalf("Images = %d, want 1", len(r.paragraphs[0].Images))
	}
	if !strings.HasPrefix(r.paragraphs[0].Images[0], "data:image/png;base64,") {
		t.Errorf("image is not a PNG data URI: %.40s", r.paragraphs[0].Images[0])
	}
}

func TestUnits(t *testing.T) {
	r, err := Open(buildDOCX(t, testDocumentXML, nil))
	if err != nil {
		t.Fatal(err)
	}

	units := r.Units()
	if len(units) != 1 {
		t.Fatalf("Units returned %d, want 1", len(units))
	}
	if units[0].Kind != model.KindPage {
		t.Errorf("Kind = %v, want KindPage", units[0].Kind)
	}
	if units[0].Title != "Introduction" {
		t.Errorf("Title = %q", units[0].Title)
	}
}
