package epubdoc

import (
	"encoding/xml"
	"errors"
	"path"
	"strings"

	"github.com/inkleaf/pageturn/container"
	"github.com/inkleaf/pageturn/errs"
)

// OPF-related errors.
var (
	ErrNoOPF      = errors.New("epub: missing package document (OPF)")
	ErrInvalidOPF = errors.New("epub: invalid package document")
	ErrEmptySpine = errors.New("epub: no content in spine")
)

// opfPackage represents the OPF package document.
type opfPackage struct {
	XMLName  xml.Name    `xml:"package"`
	Version  string      `xml:"version,attr"`
	Metadata opfMetadata `xml:"metadata"`
	Manifest opfManifest `xml:"manifest"`
	Spine    opfSpine    `xml:"spine"`
}

type opfMetadata struct {
	Title       []dcElement `xml:"title"`
	Creator     []dcElement `xml:"creator"`
	Language    []dcElement `xml:"language"`
	Identifier  []dcElement `xml:"identifier"`
	Publisher   []dcElement `xml:"publisher"`
	Description []dcElement `xml:"description"`
	Subject     []dcElement `xml:"subject"`
}

type dcElement struct {
	Content string `xml:",chardata"`
}

type opfManifest struct {
	Items []opfItem `xml:"item"`
}

type opfItem struct {
	ID         string `xml:"id,attr"`
	Href       string `xml:"href,attr"`
	MediaType  string `xml:"media-type,attr"`
	Properties string `xml:"properties,attr"`
}

type opfSpine struct {
	Toc      string       `xml:"toc,attr"` // NCX ID for EPUB 2
	ItemRefs []opfItemRef `xml:"itemref"`
}

type opfItemRef struct {
	IDRef  string `xml:"idref,attr"`
	Linear string `xml:"linear,attr"`
}

// parseOPF parses the package document and returns the Package plus the
// base directory for resolving relative hrefs.
func parseOPF(a *container.Archive, opfPath string) (*Package, string, error) {
	data, err := a.Read(opfPath)
	if err != nil {
		return nil, "", errs.Format("epub.open", ErrNoOPF)
	}

	baseDir := path.Dir(opfPath)
	if baseDir == "." {
		baseDir = ""
	}

	var opf opfPackage
	if err := xml.Unmarshal(data, &opf); err != nil {
		return nil, "", errs.Parse("epub.open", ErrInvalidOPF)
	}

	pkg := &Package{
		Version:  opf.Version,
		Metadata: convertMetadata(&opf.Metadata),
		Manifest: convertManifest(&opf.Manifest),
		Spine:    convertSpine(&opf.Spine),
	}

	if len(pkg.Spine) == 0 {
		return nil, "", errs.Empty("epub.open")
	}

	return pkg, baseDir, nil
}

func convertMetadata(m *opfMetadata) Metadata {
	meta := Metadata{}

	first := func(els []dcElement) string {
		if len(els) > 0 {
			return strings.TrimSpace(els[0].Content)
		}
		return ""
	}

	meta.Title = first(m.Title)
	meta.Language = first(m.Language)
	meta.Identifier = first(m.Identifier)
	meta.Publisher = first(m.Publisher)
	meta.Description = first(m.Description)

	for _, c := range m.Creator {
		if s := strings.TrimSpace(c.Content); s != "" {
			meta.Creator = append(meta.Creator, s)
		}
	}
	for _, s := range m.Subject {
		if subj := strings.TrimSpace(s.Content); subj != "" {
			meta.Subjects = append(meta.Subjects, subj)
		}
	}

	return meta
}

func convertManifest(m *opfManifest) map[string]ManifestItem {
	manifest := make(map[string]ManifestItem, len(m.Items))
	for _, item := range m.Items {
		mi := ManifestItem{
			ID:        item.ID,
			Href:      item.Href,
			MediaType: item.MediaType,
		}
		if item.Properties != "" {
			mi.Properties = strings.Fields(item.Properties)
		}
		manifest[item.ID] = mi
	}
	return manifest
}

func convertSpine(s *opfSpine) []SpineItem {
	spine := make([]SpineItem, 0, len(s.ItemRefs))
	for _, ref := range s.ItemRefs {
		spine = append(spine, SpineItem{
			IDRef:  ref.IDRef,
			Linear: ref.Linear != "no",
		})
	}
	return spine
}
