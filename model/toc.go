package model

// TOC is a document's jump list: the table of contents shown alongside the
// viewer. Formats with a declared navigation document (EPUB) map it here;
// the others generate one entry per unit.
type TOC struct {
	Title   string
	Entries []TOCEntry
}

// TOCEntry is a single navigation entry. UnitIndex points into the
// extracted unit sequence; -1 means the entry's target could not be mapped
// to a unit (external link, missing anchor).
type TOCEntry struct {
	Title     string
	UnitIndex int
	Children  []TOCEntry
}

// Flatten returns the entries in depth-first order, for flat jump lists
// like thumbnail strips or terminal menus.
func (t *TOC) Flatten() []TOCEntry {
	var out []TOCEntry
	var walk func(entries []TOCEntry)
	walk = func(entries []TOCEntry) {
		for _, e := range entries {
			children := e.Children
			e.Children = nil
			out = append(out, e)
			walk(children)
		}
	}
	walk(t.Entries)
	return out
}

// FromUnits builds a flat TOC with one entry per unit.
func FromUnits(title string, units []Unit) *TOC {
	toc := &TOC{Title: title, Entries: make([]TOCEntry, 0, len(units))}
	for i := range units {
		toc.Entries = append(toc.Entries, TOCEntry{
			Title:     units[i].DisplayTitle(),
			UnitIndex: i,
		})
	}
	return toc
}
