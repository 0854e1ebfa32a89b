package epubdoc

import (
	"errors"
	"net/url"
	"path"
	"strings"

	"github.com/inkleaf/pageturn/container"
	"github.com/inkleaf/pageturn/errs"
	"github.com/inkleaf/pageturn/model"
)

// Reader-related errors.
var (
	ErrInvalidMimetype = errors.New("epub: invalid mimetype (not an EPUB)")
	ErrMissingContent  = errors.New("epub: referenced content file not found")
)

// Reader provides access to EPUB content.
type Reader struct {
	archive  *container.Archive
	pkg      *Package
	baseDir  string // directory containing the OPF
	chapters []*Chapter
	toc      *TableOfContents
}

// Open opens an EPUB book from raw bytes.
func Open(data []byte) (*Reader, error) {
	a, err := container.Open(data)
	if err != nil {
		return nil, err
	}

	r := &Reader{archive: a}

	// The mimetype entry is recommended but not universal; don't reject
	// books that omit it.
	_ = r.validateMimetype()

	if err := checkForDRM(a); err != nil {
		return nil, err
	}

	opfPath, err := parseContainer(a)
	if err != nil {
		return nil, err
	}

	pkg, baseDir, err := parseOPF(a, opfPath)
	if err != nil {
		return nil, err
	}
	r.pkg = pkg
	r.baseDir = baseDir

	if err := r.loadChapters(); err != nil {
		return nil, err
	}

	r.toc = r.parseNavigation()
	return r, nil
}

// validateMimetype checks the mimetype entry when present.
func (r *Reader) validateMimetype() error {
	data, err := r.archive.Read("mimetype")
	if err != nil {
		return ErrInvalidMimetype
	}
	if strings.TrimSpace(string(data)) != "application/epub+zip" {
		return ErrInvalidMimetype
	}
	return nil
}

// loadChapters loads all linear spine items as chapters, in spine order.
// Items marked linear="no" are auxiliary content outside the main reading
// flow and are skipped.
func (r *Reader) loadChapters() error {
	r.chapters = make([]*Chapter, 0, len(r.pkg.Spine))

	for _, spineItem := range r.pkg.Spine {
		if !spineItem.Linear {
			continue
		}
		item, ok := r.pkg.Manifest[spineItem.IDRef]
		if !ok {
			continue // spine references an undeclared item
		}

		href := r.resolveHref(item.Href)
		data, err := r.archive.Read(href)
		if err != nil {
			continue // skip missing files but keep going
		}

		bodyHTML, text, title := extractContent(r.archive, href, data)
		if bodyHTML == "" && text == "" {
			continue
		}

		r.chapters = append(r.chapters, &Chapter{
			ID:    item.ID,
			Index: len(r.chapters),
			Href:  href,
			Title: title,
			HTML:  bodyHTML,
			Text:  text,
		})
	}

	if len(r.chapters) == 0 {
		return errs.Empty("epub.open")
	}
	return nil
}

// resolveHref resolves a manifest href against the OPF base directory.
func (r *Reader) resolveHref(href string) string {
	if decoded, err := url.QueryUnescape(href); err == nil {
		href = decoded
	}
	if r.baseDir == "" {
		return href
	}
	return path.Join(r.baseDir, href)
}

// Metadata returns the book metadata.
func (r *Reader) Metadata() model.Metadata {
	return model.Metadata{
		Title:    r.pkg.Metadata.Title,
		Author:   strings.Join(r.pkg.Metadata.Creator, ", "),
		Subject:  strings.Join(r.pkg.Metadata.Subjects, ", "),
		Keywords: r.pkg.Metadata.Subjects,
		Language: r.pkg.Metadata.Language,
	}
}

// ChapterCount returns the number of chapters.
func (r *Reader) ChapterCount() int {
	return len(r.chapters)
}

// Chapters returns all chapters in reading order.
func (r *Reader) Chapters() []*Chapter {
	return r.chapters
}

// Units converts the chapters into the shared unit model.
func (r *Reader) Units() []model.Unit {
	units := make([]model.Unit, 0, len(r.chapters))
	for _, ch := range r.chapters {
		units = append(units, model.Unit{
			Kind:  model.KindChapter,
			Index: ch.Index,
			ID:    ch.ID,
			Title: ch.Title,
			Text:  ch.Text,
			HTML:  ch.HTML,
		})
	}
	return units
}

// TOC returns the book's navigation mapped onto unit indexes. Entries
// whose target is not a loaded chapter get index -1.
func (r *Reader) TOC() *model.TOC {
	byHref := make(map[string]int, len(r.chapters))
	for _, ch := range r.chapters {
		byHref[ch.Href] = ch.Index
	}

	var convert func(entries []TOCEntry) []model.TOCEntry
	convert = func(entries []TOCEntry) []model.TOCEntry {
		out := make([]model.TOCEntry, 0, len(entries))
		for _, e := range entries {
			// Drop fragments: nav targets point at anchors inside
			// chapter files.
			href := e.Href
			if i := strings.IndexByte(href, '#'); i >= 0 {
				href = href[:i]
			}
			idx, ok := byHref[r.resolveHref(href)]
			if !ok {
				idx = -1
			}
			out = append(out, model.TOCEntry{
				Title:     e.Title,
				UnitIndex: idx,
				Children:  convert(e.Children),
			})
		}
		return out
	}

	return &model.TOC{
		Title:   r.toc.Title,
		Entries: convert(r.toc.Entries),
	}
}
