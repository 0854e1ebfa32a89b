package epubdoc

import (
	"encoding/xml"
	"errors"

	"github.com/inkleaf/pageturn/container"
	"github.com/inkleaf/pageturn/errs"
)

// Container-related errors.
var (
	ErrNoContainer      = errors.New("epub: missing META-INF/container.xml")
	ErrInvalidContainer = errors.New("epub: invalid container.xml")
	ErrNoRootfile       = errors.New("epub: no rootfile found in container.xml")
)

// containerXML represents META-INF/container.xml.
type containerXML struct {
	XMLName   xml.Name  `xml:"container"`
	Rootfiles rootfiles `xml:"rootfiles"`
}

type rootfiles struct {
	Rootfile []rootfile `xml:"rootfile"`
}

type rootfile struct {
	FullPath  string `xml:"full-path,attr"`
	MediaType string `xml:"media-type,attr"`
}

// parseContainer parses META-INF/container.xml and returns the path to
// the OPF package document. The container entry is the one required OCF
// piece: its absence means this is not an EPUB, which callers treat as
// the external-viewer fallback signal.
func parseContainer(a *container.Archive) (string, error) {
	data, err := a.Read("META-INF/container.xml")
	if err != nil {
		return "", errs.Format("epub.open", ErrNoContainer)
	}

	var c containerXML
	if err := xml.Unmarshal(data, &c); err != nil {
		return "", errs.Format("epub.open", ErrInvalidContainer)
	}

	for _, rf := range c.Rootfiles.Rootfile {
		if rf.MediaType == "application/oebps-package+xml" || rf.MediaType == "" {
			if rf.FullPath != "" {
				return rf.FullPath, nil
			}
		}
	}

	// No media-type match: fall back to the first declared rootfile.
	if len(c.Rootfiles.Rootfile) > 0 && c.Rootfiles.Rootfile[0].FullPath != "" {
		return c.Rootfiles.Rootfile[0].FullPath, nil
	}

	return "", errs.Format("epub.open", ErrNoRootfile)
}
