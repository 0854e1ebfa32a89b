// Package format provides document format detection for pageturn.
package format

import (
	"archive/zip"
	"bytes"
	"io"
	"path/filepath"
	"strings"
)

// Format represents a supported document format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// DOCX indicates a Microsoft Word (.docx) document.
	DOCX
	// PPTX indicates a Microsoft PowerPoint (.pptx) presentation.
	PPTX
	// XLSX indicates a Microsoft Excel (.xlsx) workbook.
	XLSX
	// EPUB indicates an EPUB e-book.
	EPUB
	// HTML indicates an HTML document.
	HTML
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case DOCX:
		return "DOCX"
	case PPTX:
		return "PPTX"
	case XLSX:
		return "XLSX"
	case EPUB:
		return "EPUB"
	case HTML:
		return "HTML"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case DOCX:
		return ".docx"
	case PPTX:
		return ".pptx"
	case XLSX:
		return ".xlsx"
	case EPUB:
		return ".epub"
	case HTML:
		return ".html"
	default:
		return ""
	}
}

// MIMEType returns the canonical MIME type for the format.
func (f Format) MIMEType() string {
	switch f {
	case DOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case PPTX:
		return "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	case XLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case EPUB:
		return "application/epub+zip"
	case HTML:
		return "text/html"
	default:
		return "application/octet-stream"
	}
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".docx":
		return DOCX
	case ".pptx":
		return PPTX
	case ".xlsx":
		return XLSX
	case ".epub":
		return EPUB
	case ".html", ".htm", ".xhtml":
		return HTML
	default:
		return Unknown
	}
}

// DetectBytes inspects content to determine format. This is more reliable
// than extension-based detection: it distinguishes the zip-based formats
// (DOCX, XLSX, PPTX, EPUB) by their required entries.
func DetectBytes(data []byte) Format {
	if len(data) < 4 {
		return Unknown
	}

	// ZIP magic: PK\x03\x04
	if data[0] == 0x50 && data[1] == 0x4B && data[2] == 0x03 && data[3] == 0x04 {
		return detectZIPFormat(data)
	}

	if detectHTMLMagic(data) {
		return HTML
	}

	return Unknown
}

// detectZIPFormat inspects a zip archive's entries to determine which
// container format it carries.
func detectZIPFormat(data []byte) Format {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Unknown
	}

	// EPUB declares itself in a mimetype entry (stored first, uncompressed).
	for _, f := range zr.File {
		if f.Name == "mimetype" {
			rc, err := f.Open()
			if err == nil {
				buf := make([]byte, 64)
				n, _ := rc.Read(buf)
				rc.Close()
				if strings.TrimSpace(string(buf[:n])) == "application/epub+zip" {
					return EPUB
				}
			}
		}
	}

	// OOXML formats are distinguished by their main part.
	hasEPUBContainer := false
	for _, f := range zr.File {
		switch {
		case f.Name == "word/document.xml":
			return DOCX
		case f.Name == "xl/workbook.xml":
			return XLSX
		case f.Name == "ppt/presentation.xml":
			return PPTX
		case f.Name == "META-INF/container.xml":
			hasEPUBContainer = true
		}
	}

	// Some EPUBs omit the mimetype entry but still carry the OCF container.
	if hasEPUBContainer {
		return EPUB
	}

	return Unknown
}

// detectHTMLMagic checks if the data looks like HTML content.
func detectHTMLMagic(data []byte) bool {
	start := 0
	for start < len(data) && (data[start] == ' ' || data[start] == '\t' || data[start] == '\n' || data[start] == '\r') {
		start++
	}
	if start >= len(data) {
		return false
	}
	data = data[start:]

	upper := strings.ToUpper(string(data[:min(512, len(data))]))
	if strings.HasPrefix(upper, "<!DOCTYPE HTML") {
		return true
	}
	if strings.HasPrefix(upper, "<HTML") {
		return true
	}
	if strings.HasPrefix(upper, "<?XML") && strings.Contains(upper, "<HTML") {
		return true
	}

	return false
}

// DetectReader inspects the first bytes of r to determine format.
func DetectReader(r io.ReaderAt, size int64) (Format, error) {
	n := size
	if n > 1<<20 {
		n = 1 << 20
	}
	head := make([]byte, n)
	if _, err := r.ReadAt(head, 0); err != nil && err != io.EOF {
		return Unknown, err
	}

	// Zip central directory sits at the end, so zip sniffing needs the
	// whole payload. Fall back to reading everything for zip archives.
	if len(head) >= 4 && head[0] == 0x50 && head[1] == 0x4B {
		all := make([]byte, size)
		if _, err := r.ReadAt(all, 0); err != nil && err != io.EOF {
			return Unknown, err
		}
		return DetectBytes(all), nil
	}

	return DetectBytes(head), nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
