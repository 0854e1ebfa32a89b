// Package model defines the shared document model produced by the format
// readers and consumed by the renderer and navigation controller.
package model

import "strconv"

// UnitKind identifies what one extracted unit represents.
type UnitKind int

const (
	// KindPage is a whole-document page (DOCX yields a single one).
	KindPage UnitKind = iota
	// KindSlide is one presentation slide.
	KindSlide
	// KindChapter is one EPUB spine item.
	KindChapter
	// KindSheet is one workbook sheet.
	KindSheet
)

// String returns the string representation of the unit kind.
func (k UnitKind) String() string {
	switch k {
	case KindPage:
		return "page"
	case KindSlide:
		return "slide"
	case KindChapter:
		return "chapter"
	case KindSheet:
		return "sheet"
	default:
		return "unknown"
	}
}

// Unit is one displayable page/slide/chapter/sheet extracted from a
// document. Units are immutable once built; their order follows the
// container's declared manifest/spine/sheet order, never the order of
// entries inside the archive.
type Unit struct {
	Kind  UnitKind
	Index int    // 0-based position in the extracted sequence
	ID    string // format-specific identifier (part path, manifest ID, sheet name)
	Title string

	// Text is the plain-text payload. HTML, when non-empty, is the richer
	// rendering of the same content and takes precedence for display.
	Text string
	HTML string

	// Image is an optional embedded image as a data URI (the first media
	// relationship a slide references, an EPUB cover, and so on).
	Image string
}

// DisplayTitle returns the unit's title, or a positional fallback like
// "Slide 3" when the document declares none.
func (u *Unit) DisplayTitle() string {
	if u.Title != "" {
		return u.Title
	}
	n := strconv.Itoa(u.Index + 1)
	switch u.Kind {
	case KindSlide:
		return "Slide " + n
	case KindChapter:
		return "Chapter " + n
	case KindSheet:
		return "Sheet " + n
	default:
		return "Page " + n
	}
}
