// Package epubdoc provides EPUB e-book parsing: OCF container, package
// document, spine-ordered chapters, and navigation.
package epubdoc

// Package represents the parsed OPF package document.
type Package struct {
	Metadata Metadata
	Manifest map[string]ManifestItem // keyed by ID
	Spine    []SpineItem
	Version  string // "2.0" or "3.0"
}

// Metadata contains EPUB metadata (Dublin Core).
type Metadata struct {
	Title       string
	Creator     []string
	Language    string
	Identifier  string
	Publisher   string
	Description string
	Subjects    []string
}

// ManifestItem represents a file declared in the EPUB manifest.
type ManifestItem struct {
	ID         string
	Href       string
	MediaType  string
	Properties []string // "nav", "cover-image", ...
}

// SpineItem represents a content document in reading order.
type SpineItem struct {
	IDRef  string
	Linear bool
}

// Chapter represents extracted content from one spine item.
type Chapter struct {
	ID    string
	Index int
	Href  string
	Title string
	HTML  string // sanitized body markup
	Text  string // plain text of the body
}

// TableOfContents represents the navigation structure.
type TableOfContents struct {
	Title   string
	Entries []TOCEntry
}

// TOCEntry represents a single navigation entry.
type TOCEntry struct {
	Title    string
	Href     string
	Children []TOCEntry
}
