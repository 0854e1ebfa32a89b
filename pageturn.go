// Package pageturn provides a fluent API for extracting paged content
// from office documents and e-books (DOCX, PPTX, XLSX, EPUB) and driving
// a viewer session over the result.
//
// Basic usage:
//
//	doc, err := pageturn.Open("slides.pptx").Document(ctx)
//	if err != nil {
//	    // handle error
//	}
//	fmt.Println(doc.Units[0].Title)
//
// For interactive viewing, Session returns a navigation controller bound
// to the document's full fetch-and-parse sequence:
//
//	ctrl, err := pageturn.FromURL(client, url).Session(ctx)
//	ctrl.Next()
//	ctrl.HandleKey(nav.KeyArrowRight)
package pageturn

import (
	"github.com/inkleaf/pageturn/fetch"
	"github.com/inkleaf/pageturn/format"
)

// Open opens a local document file and returns a Loader for fluent
// configuration. The file is read when a terminal operation runs.
func Open(filename string) *Loader {
	return &Loader{
		name: filename,
		path: filename,
	}
}

// FromBytes creates a Loader over already-fetched bytes. The name is
// used for extension-based format detection and display.
func FromBytes(name string, data []byte) *Loader {
	return &Loader{
		name: name,
		data: data,
	}
}

// FromURL creates a Loader that fetches the document through the given
// client. The reference may be an absolute URL or a storage path; the
// client's signer resolves the latter.
func FromURL(client *fetch.Client, ref string) *Loader {
	return &Loader{
		name:   ref,
		ref:    ref,
		client: client,
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// Formats returns the document formats this package can extract.
func Formats() []format.Format {
	return []format.Format{format.DOCX, format.PPTX, format.XLSX, format.EPUB}
}
