// Package container opens a document's raw bytes as a zip archive and
// exposes named-entry lookup for the format readers. OOXML packages and
// EPUB books share this layer; only the entry names differ.
package container

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/inkleaf/pageturn/errs"
)

// Container-level errors.
var (
	ErrNotZip       = errors.New("container: not a zip archive")
	ErrMissingEntry = errors.New("container: entry not found")
)

// Archive wraps an opened zip container.
type Archive struct {
	zr      *zip.Reader
	entries map[string]*zip.File
}

// Open opens raw bytes as a zip container. A non-zip payload is reported
// as a format error so callers can fall back to an external viewer.
func Open(data []byte) (*Archive, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errs.Format("container.open", ErrNotZip)
	}

	a := &Archive{
		zr:      zr,
		entries: make(map[string]*zip.File, len(zr.File)),
	}
	for _, f := range zr.File {
		a.entries[f.Name] = f
	}
	return a, nil
}

// Has reports whether the archive contains an entry with the exact name.
func (a *Archive) Has(name string) bool {
	_, ok := a.entries[name]
	return ok
}

// Names returns all entry names in archive order.
func (a *Archive) Names() []string {
	names := make([]string, 0, len(a.zr.File))
	for _, f := range a.zr.File {
		names = append(names, f.Name)
	}
	return names
}

// Read returns the raw bytes of the named entry.
func (a *Archive) Read(name string) ([]byte, error) {
	f, ok := a.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingEntry, name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening entry %s: %w", name, err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// ReadString returns the named entry decoded as a string.
func (a *Archive) ReadString(name string) (string, error) {
	data, err := a.Read(name)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ReadBase64 returns the named entry encoded as base64, for embedding
// binary media in data URIs.
func (a *Archive) ReadBase64(name string) (string, error) {
	data, err := a.Read(name)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// Match returns the names of all entries whose full path matches pattern,
// in archive order. Used to enumerate parts like ppt/slides/slideN.xml.
func (a *Archive) Match(pattern *regexp.Regexp) []string {
	var names []string
	for _, f := range a.zr.File {
		if pattern.MatchString(f.Name) {
			names = append(names, f.Name)
		}
	}
	return names
}

// WithPrefix returns the names of all entries under the given path prefix,
// in archive order.
func (a *Archive) WithPrefix(prefix string) []string {
	var names []string
	for _, f := range a.zr.File {
		if strings.HasPrefix(f.Name, prefix) {
			names = append(names, f.Name)
		}
	}
	return names
}

// Require checks that every named entry exists. A missing entry is a
// format error: the container is not the document type its extension
// claims, which callers treat as the external-viewer fallback signal.
func (a *Archive) Require(names ...string) error {
	for _, name := range names {
		if !a.Has(name) {
			return errs.Format("container.require", fmt.Errorf("missing required entry %s", name))
		}
	}
	return nil
}
