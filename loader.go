package pageturn

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/inkleaf/pageturn/docx"
	"github.com/inkleaf/pageturn/epubdoc"
	"github.com/inkleaf/pageturn/errs"
	"github.com/inkleaf/pageturn/fetch"
	"github.com/inkleaf/pageturn/format"
	"github.com/inkleaf/pageturn/model"
	"github.com/inkleaf/pageturn/nav"
	"github.com/inkleaf/pageturn/pptx"
	"github.com/inkleaf/pageturn/xlsx"
)

// Document is a fully extracted document: its units in display order,
// jump list, and metadata.
type Document struct {
	Name     string
	Format   format.Format
	Metadata model.Metadata
	Units    []model.Unit
	TOC      *model.TOC
}

// Loader provides a fluent interface for loading and extracting a
// document. Each configuration method returns a new Loader instance,
// making chains safe to share.
type Loader struct {
	name   string
	path   string        // local file, if any
	data   []byte        // pre-fetched bytes, if any
	ref    string        // remote reference, if any
	client *fetch.Client

	format format.Format // explicit override; Unknown means autodetect
	err    error
}

// clone copies the Loader so configuration methods stay immutable.
func (l *Loader) clone() *Loader {
	c := *l
	return &c
}

// Format overrides format detection.
func (l *Loader) Format(f format.Format) *Loader {
	c := l.clone()
	c.format = f
	return c
}

// load runs the full fetch sequence and returns the raw bytes.
func (l *Loader) load(ctx context.Context) ([]byte, error) {
	switch {
	case l.data != nil:
		return l.data, nil
	case l.ref != "":
		client := l.client
		if client == nil {
			client = fetch.Default()
		}
		return client.Fetch(ctx, l.ref)
	case l.path != "":
		data, err := os.ReadFile(l.path)
		if err != nil {
			return nil, errs.Network("load", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("no document source specified")
	}
}

// Document runs the full fetch-and-parse sequence and returns the
// extracted document. Every call runs the sequence from scratch; nothing
// is cached between attempts.
func (l *Loader) Document(ctx context.Context) (*Document, error) {
	if l.err != nil {
		return nil, l.err
	}

	data, err := l.load(ctx)
	if err != nil {
		return nil, err
	}

	f := l.format
	if f == format.Unknown {
		f = format.Detect(l.name)
	}
	// Content sniffing beats a missing or lying extension.
	if sniffed := format.DetectBytes(data); sniffed != format.Unknown {
		f = sniffed
	}

	doc, err := extract(f, data)
	if err != nil {
		return nil, err
	}
	doc.Name = displayName(l.name)
	return doc, nil
}

// Units runs the full sequence and returns just the extracted units.
func (l *Loader) Units(ctx context.Context) ([]model.Unit, error) {
	doc, err := l.Document(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Units, nil
}

// Text runs the full sequence and returns the document's plain text,
// units separated by blank lines.
func (l *Loader) Text(ctx context.Context) (string, error) {
	doc, err := l.Document(ctx)
	if err != nil {
		return "", err
	}
	parts := make([]string, 0, len(doc.Units))
	for i := range doc.Units {
		if t := strings.TrimSpace(doc.Units[i].Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n\n"), nil
}

// Metadata runs the full sequence and returns document metadata.
func (l *Loader) Metadata(ctx context.Context) (model.Metadata, error) {
	doc, err := l.Document(ctx)
	if err != nil {
		return model.Metadata{}, err
	}
	return doc.Metadata, nil
}

// Session returns a navigation controller bound to this loader. The
// initial load has already run when Session returns; on failure the
// controller is in its error state and Retry re-runs the whole
// fetch-and-parse sequence.
func (l *Loader) Session(ctx context.Context) (*nav.Controller, error) {
	ctrl := nav.New(func(ctx context.Context) ([]model.Unit, *model.TOC, error) {
		doc, err := l.Document(ctx)
		if err != nil {
			return nil, nil, err
		}
		return doc.Units, doc.TOC, nil
	})
	err := ctrl.Load(ctx)
	return ctrl, err
}

// extract dispatches raw bytes to the format's reader.
func extract(f format.Format, data []byte) (*Document, error) {
	switch f {
	case format.DOCX:
		r, err := docx.Open(data)
		if err != nil {
			return nil, err
		}
		units := r.Units()
		return &Document{
			Format:   f,
			Metadata: r.Metadata(),
			Units:    units,
			TOC:      model.FromUnits(r.Title(), units),
		}, nil

	case format.PPTX:
		r, err := pptx.Open(data)
		if err != nil {
			return nil, err
		}
		units := r.Units()
		return &Document{
			Format:   f,
			Metadata: r.Metadata(),
			Units:    units,
			TOC:      model.FromUnits(r.Metadata().Title, units),
		}, nil

	case format.XLSX:
		r, err := xlsx.Open(data)
		if err != nil {
			return nil, err
		}
		units := r.Units()
		return &Document{
			Format:   f,
			Metadata: r.Metadata(),
			Units:    units,
			TOC:      model.FromUnits(r.Metadata().Title, units),
		}, nil

	case format.EPUB:
		r, err := epubdoc.Open(data)
		if err != nil {
			return nil, err
		}
		return &Document{
			Format:   f,
			Metadata: r.Metadata(),
			Units:    r.Units(),
			TOC:      r.TOC(),
		}, nil

	default:
		// Plain HTML and anything unrecognized render fine in a generic
		// external viewer; signal the fallback instead of failing hard.
		return nil, errs.Format("extract", fmt.Errorf("unsupported document format: %s", f))
	}
}

// displayName trims a reference down to its final path element.
func displayName(ref string) string {
	name := path.Base(strings.TrimSuffix(ref, "/"))
	if i := strings.IndexByte(name, '?'); i >= 0 {
		name = name[:i]
	}
	return name
}
