// Package ooxml holds the pieces of Office Open XML shared by the DOCX,
// PPTX, and XLSX readers: package relationships, part-path resolution, and
// the docProps metadata parts.
package ooxml

import (
	"encoding/xml"
	"path"
	"strings"

	"github.com/inkleaf/pageturn/container"
	"github.com/inkleaf/pageturn/model"
)

// Relationship types referenced by the readers.
const (
	RelTypeImage      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	RelTypeSlide      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	RelTypeWorksheet  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet"
	RelTypeNotesSlide = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesSlide"
)

// Relationships represents a parsed .rels part.
type Relationships struct {
	XMLName      xml.Name       `xml:"Relationships"`
	Relationship []Relationship `xml:"Relationship"`
}

// Relationship is one entry in a .rels part.
type Relationship struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

// ByID returns the relationship with the given ID, or nil.
func (r *Relationships) ByID(id string) *Relationship {
	for i := range r.Relationship {
		if r.Relationship[i].ID == id {
			return &r.Relationship[i]
		}
	}
	return nil
}

// FirstOfType returns the first relationship of the given type, or nil.
func (r *Relationships) FirstOfType(relType string) *Relationship {
	for i := range r.Relationship {
		if r.Relationship[i].Type == relType {
			return &r.Relationship[i]
		}
	}
	return nil
}

// ParseRelationships parses the .rels part that accompanies partPath
// (e.g. ppt/slides/_rels/slide1.xml.rels for ppt/slides/slide1.xml).
// A missing .rels part yields an empty set, not an error: relationships
// are optional throughout OOXML.
func ParseRelationships(a *container.Archive, partPath string) *Relationships {
	relsPath := path.Join(path.Dir(partPath), "_rels", path.Base(partPath)+".rels")

	rels := &Relationships{}
	data, err := a.Read(relsPath)
	if err != nil {
		return rels
	}
	if err := xml.Unmarshal(data, rels); err != nil {
		return &Relationships{}
	}
	return rels
}

// ResolveTarget resolves a relationship target against the directory of
// the part that declared it. Targets use "../" to climb out of slides/,
// worksheets/, and similar part directories.
func ResolveTarget(partPath, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Join(path.Dir(partPath), target)
}

// corePropertiesXML represents docProps/core.xml.
type corePropertiesXML struct {
	XMLName     xml.Name `xml:"coreProperties"`
	Title       string   `xml:"title"`
	Subject     string   `xml:"subject"`
	Creator     string   `xml:"creator"`
	Keywords    string   `xml:"keywords"`
	Description string   `xml:"description"`
	Language    string   `xml:"language"`
}

// appPropertiesXML represents docProps/app.xml.
type appPropertiesXML struct {
	XMLName     xml.Name `xml:"Properties"`
	Application string   `xml:"Application"`
	Company     string   `xml:"Company"`
}

// ParseMetadata reads the optional docProps parts into a model.Metadata.
// Both parts are optional; absence yields zero values.
func ParseMetadata(a *container.Archive) model.Metadata {
	meta := model.Metadata{}

	if data, err := a.Read("docProps/core.xml"); err == nil {
		var core corePropertiesXML
		if xml.Unmarshal(data, &core) == nil {
			meta.Title = core.Title
			meta.Author = core.Creator
			meta.Subject = core.Subject
			meta.Language = core.Language
			if core.Keywords != "" {
				for _, kw := range strings.Split(core.Keywords, ",") {
					if kw = strings.TrimSpace(kw); kw != "" {
						meta.Keywords = append(meta.Keywords, kw)
					}
				}
			}
		}
	}

	if data, err := a.Read("docProps/app.xml"); err == nil {
		var app appPropertiesXML
		if xml.Unmarshal(data, &app) == nil {
			meta.Creator = app.Application
		}
	}

	return meta
}
