package format

import (
	"archive/zip"
	"bytes"
	"testing"
)

func zipWith(t *testing.T, names ...string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, name := range names {
		f, err := w.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		f.Write([]byte("x"))
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDetect(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
	}{
		{"report.docx", DOCX},
		{"deck.pptx", PPTX},
		{"grades.xlsx", XLSX},
		{"book.epub", EPUB},
		{"page.html", HTML},
		{"page.htm", HTML},
		{"REPORT.DOCX", DOCX},
		{"scan.pdf", Unknown},
		{"noextension", Unknown},
		{"", Unknown},
	}

	for _, tt := range tests {
		if got := Detect(tt.filename); got != tt.want {
			t.Errorf("Detect(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}

func TestDetectBytes(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{"docx", zipWith(t, "[Content_Types].xml", "word/document.xml"), DOCX},
		{"pptx", zipWith(t, "[Content_Types].xml", "ppt/presentation.xml"), PPTX},
		{"xlsx", zipWith(t, "[Content_Types].xml", "xl/workbook.xml"), XLSX},
		{"epub container only", zipWith(t, "META-INF/container.xml"), EPUB},
		{"plain zip", zipWith(t, "readme.txt"), Unknown},
		{"html", []byte("<!DOCTYPE html><html><body></body></html>"), HTML},
		{"html fragment", []byte("  <html lang=\"en\">"), HTML},
		{"garbage", []byte{0x00, 0x01, 0x02}, Unknown},
		{"empty", nil, Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectBytes(tt.data); got != tt.want {
				t.Errorf("DetectBytes = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectBytesEPUBMimetype(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	if err != nil {
		t.Fatal(err)
	}
	f.Write([]byte("application/epub+zip"))
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	if got := DetectBytes(buf.Bytes()); got != EPUB {
		t.Errorf("DetectBytes = %v, want EPUB", got)
	}
}

func TestFormatStrings(t *testing.T) {
	for _, f := range []Format{DOCX, PPTX, XLSX, EPUB, HTML} {
		if f.String() == "" || f.String() == "unknown" {
			t.Errorf("String() for %d is %q", f, f.String())
		}
		if f.Extension() == "" {
			t.Errorf("Extension() for %v is empty", f)
		}
		if f.MIMEType() == "" {
			t.Errorf("MIMEType() for %v is empty", f)
		}
	}
}

func TestDetectReader(t *testing.T) {
	docx := zipWith(t, "[Content_Types].xml", "word/document.xml")
	f, err := DetectReader(bytes.NewReader(docx), int64(len(docx)))
	if err != nil {
		t.Fatalf("DetectReader failed: %v", err)
	}
	if f != DOCX {
		t.Errorf("format = %v, want DOCX", f)
	}

	html := []byte("<!DOCTYPE html><html><body>hi</body></html>")
	f, err = DetectReader(bytes.NewReader(html), int64(len(html)))
	if err != nil {
		t.Fatalf("DetectReader failed: %v", err)
	}
	if f != HTML {
		t.Errorf("format = %v, want HTML", f)
	}

	f, err = DetectReader(bytes.NewReader(nil), 0)
	if err != nil {
		t.Fatalf("DetectReader failed on empty input: %v", err)
	}
	if f != Unknown {
		t.Errorf("format = %v, want Unknown for empty input", f)
	}
}
