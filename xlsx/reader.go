package xlsx

import (
	"encoding/xml"
	"fmt"
	"html"
	"strings"

	"github.com/inkleaf/pageturn/container"
	"github.com/inkleaf/pageturn/errs"
	"github.com/inkleaf/pageturn/model"
	"github.com/inkleaf/pageturn/ooxml"
)

// Reader provides access to XLSX workbook content.
type Reader struct {
	archive *container.Archive
	sheets  []*Sheet
	meta    model.Metadata
}

// Open opens an XLSX workbook from raw bytes.
func Open(data []byte) (*Reader, error) {
	a, err := container.Open(data)
	if err != nil {
		return nil, err
	}

	r := &Reader{archive: a}

	if err := a.Require("[Content_Types].xml", "xl/workbook.xml"); err != nil {
		return nil, err
	}

	if err := r.parseSheets(); err != nil {
		return nil, err
	}

	r.meta = ooxml.ParseMetadata(a)
	return r, nil
}

// parseSheets parses all worksheets in the workbook's declared order.
func (r *Reader) parseSheets() error {
	data, err := r.archive.Read("xl/workbook.xml")
	if err != nil {
		return err
	}

	var wb workbookXML
	if err := xml.Unmarshal(data, &wb); err != nil {
		return errs.Parse("xlsx.open", fmt.Errorf("unmarshaling workbook.xml: %w", err))
	}

	if len(wb.Sheets.Sheet) == 0 {
		return errs.Empty("xlsx.open")
	}

	shared := parseSharedStrings(r.archive)
	rels := ooxml.ParseRelationships(r.archive, "xl/workbook.xml")

	r.sheets = make([]*Sheet, 0, len(wb.Sheets.Sheet))
	for _, ref := range wb.Sheets.Sheet {
		target := r.sheetTarget(&ref, rels)
		if target == "" {
			continue
		}
		sheet, err := r.parseSheet(target, shared)
		if err != nil {
			continue // skip sheets that fail to parse
		}
		sheet.Index = len(r.sheets)
		sheet.Name = ref.Name
		r.sheets = append(r.sheets, sheet)
	}

	if len(r.sheets) == 0 {
		return errs.Parse("xlsx.open", fmt.Errorf("no worksheets could be parsed"))
	}
	return nil
}

// sheetTarget resolves a declared sheet to its part path, preferring the
// relationship target and falling back to the conventional location.
func (r *Reader) sheetTarget(ref *sheetRefXML, rels *ooxml.Relationships) string {
	if rel := rels.ByID(ref.RID); rel != nil {
		return ooxml.ResolveTarget("xl/workbook.xml", rel.Target)
	}
	conventional := fmt.Sprintf("xl/worksheets/sheet%s.xml", ref.SheetID)
	if r.archive.Has(conventional) {
		return conventional
	}
	return ""
}

// parseSharedStrings parses the optional shared string table.
func parseSharedStrings(a *container.Archive) []string {
	data, err := a.Read("xl/sharedStrings.xml")
	if err != nil {
		return nil
	}

	var sst sharedStringsXML
	if err := xml.Unmarshal(data, &sst); err != nil {
		return nil
	}

	strs := make([]string, 0, len(sst.SI))
	for _, si := range sst.SI {
		if si.T != "" || len(si.R) == 0 {
			strs = append(strs, si.T)
			continue
		}
		var b strings.Builder
		for _, run := range si.R {
			b.WriteString(run.T)
		}
		strs = append(strs, b.String())
	}
	return strs
}

// parseSheet parses one worksheet part into a dense cell grid.
func (r *Reader) parseSheet(name string, shared []string) (*Sheet, error) {
	data, err := r.archive.Read(name)
	if err != nil {
		return nil, err
	}

	var ws worksheetXML
	if err := xml.Unmarshal(data, &ws); err != nil {
		return nil, err
	}

	// Find grid dimensions from the cells actually present.
	maxCol, maxRow := 0, 0
	for _, row := range ws.SheetData.Rows {
		for _, c := range row.Cells {
			col, rw := parseCellRef(c.R)
			if col < 0 {
				continue
			}
			if col+1 > maxCol {
				maxCol = col + 1
			}
			if rw+1 > maxRow {
				maxRow = rw + 1
			}
		}
	}

	sheet := &Sheet{Rows: make([][]Cell, maxRow)}
	for i := range sheet.Rows {
		sheet.Rows[i] = make([]Cell, maxCol)
	}

	for _, row := range ws.SheetData.Rows {
		for i := range row.Cells {
			c := &row.Cells[i]
			col, rw := parseCellRef(c.R)
			if col < 0 {
				continue
			}
			sheet.Rows[rw][col].Value = cellValue(c, shared)
		}
	}

	applyMerges(sheet, ws.MergeCells)
	return sheet, nil
}

// applyMerges marks merge origins with their spans and covers the rest.
func applyMerges(sheet *Sheet, merges *mergeCellsXML) {
	if merges == nil {
		return
	}
	for _, m := range merges.MergeCell {
		c1, r1, c2, r2, ok := parseRangeRef(m.Ref)
		if !ok || r1 >= len(sheet.Rows) {
			continue
		}
		for rw := r1; rw <= r2 && rw < len(sheet.Rows); rw++ {
			for col := c1; col <= c2 && col < len(sheet.Rows[rw]); col++ {
				if rw == r1 && col == c1 {
					sheet.Rows[rw][col].ColSpan = c2 - c1 + 1
					sheet.Rows[rw][col].RowSpan = r2 - r1 + 1
				} else {
					sheet.Rows[rw][col].Merged = true
				}
			}
		}
	}
}

// SheetCount returns the number of sheets.
func (r *Reader) SheetCount() int {
	return len(r.sheets)
}

// Sheet returns the sheet at the given index (0-indexed).
func (r *Reader) Sheet(index int) (*Sheet, error) {
	if index < 0 || index >= len(r.sheets) {
		return nil, fmt.Errorf("sheet index %d out of range (0-%d)", index, len(r.sheets)-1)
	}
	return r.sheets[index], nil
}

// Metadata returns workbook metadata.
func (r *Reader) Metadata() model.Metadata {
	return r.meta
}

// Units converts the sheets into the shared unit model, one unit per
// sheet in workbook order.
func (r *Reader) Units() []model.Unit {
	units := make([]model.Unit, 0, len(r.sheets))
	for _, sheet := range r.sheets {
		units = append(units, model.Unit{
			Kind:  model.KindSheet,
			Index: sheet.Index,
			ID:    sheet.Name,
			Title: sheet.Name,
			Text:  sheet.TextGrid(),
			HTML:  sheetHTML(sheet),
		})
	}
	return units
}

// TextGrid returns the sheet as tab-separated rows.
func (s *Sheet) TextGrid() string {
	var b strings.Builder
	for i, row := range s.Rows {
		if i > 0 {
			b.WriteString("\n")
		}
		for j, cell := range row {
			if j > 0 {
				b.WriteString("\t")
			}
			b.WriteString(cell.Value)
		}
	}
	return b.String()
}

// sheetHTML renders one sheet as an HTML table, first row as headers and
// merged ranges as colspan/rowspan.
func sheetHTML(s *Sheet) string {
	var b strings.Builder
	b.WriteString("<table>\n")
	for i, row := range s.Rows {
		tag := "td"
		if i == 0 {
			tag = "th"
		}
		b.WriteString("<tr>")
		for _, cell := range row {
			if cell.Merged {
				continue
			}
			b.WriteString("<" + tag)
			if cell.ColSpan > 1 {
				fmt.Fprintf(&b, " colspan=\"%d\"", cell.ColSpan)
			}
			if cell.RowSpan > 1 {
				fmt.Fprintf(&b, " rowspan=\"%d\"", cell.RowSpan)
			}
			b.WriteString(">")
			b.WriteString(html.EscapeString(cell.Value))
			b.WriteString("</" + tag + ">")
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</table>")
	return b.String()
}
