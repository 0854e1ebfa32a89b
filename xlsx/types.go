// Package xlsx provides XLSX (Office Open XML Spreadsheet) sheet
// extraction.
package xlsx

import "encoding/xml"

// workbookXML represents the xl/workbook.xml part.
type workbookXML struct {
	XMLName xml.Name  `xml:"workbook"`
	Sheets  sheetsXML `xml:"sheets"`
}

type sheetsXML struct {
	Sheet []sheetRefXML `xml:"sheet"`
}

// sheetRefXML declares one sheet; declaration order is display order.
type sheetRefXML struct {
	Name    string `xml:"name,attr"`
	SheetID string `xml:"sheetId,attr"`
	RID     string `xml:"id,attr"` // r:id relationship attribute
}

// worksheetXML represents a xl/worksheets/sheet*.xml part.
type worksheetXML struct {
	XMLName    xml.Name       `xml:"worksheet"`
	SheetData  sheetDataXML   `xml:"sheetData"`
	MergeCells *mergeCellsXML `xml:"mergeCells"`
}

type sheetDataXML struct {
	Rows []rowXML `xml:"row"`
}

type rowXML struct {
	R     int       `xml:"r,attr"` // 1-indexed row number
	Cells []cellXML `xml:"c"`
}

type cellXML struct {
	R  string        `xml:"r,attr"` // cell reference, e.g. "B3"
	T  string        `xml:"t,attr"` // s=shared string, n=number, b=bool, str/inlineStr, e=error
	V  string        `xml:"v"`
	Is *inlineStrXML `xml:"is"`
}

type inlineStrXML struct {
	T string   `xml:"t"`
	R []runXML `xml:"r"`
}

type mergeCellsXML struct {
	MergeCell []mergeCellXML `xml:"mergeCell"`
}

type mergeCellXML struct {
	Ref string `xml:"ref,attr"` // e.g. "A1:B2"
}

// sharedStringsXML represents the xl/sharedStrings.xml part.
type sharedStringsXML struct {
	XMLName xml.Name `xml:"sst"`
	SI      []siXML  `xml:"si"`
}

type siXML struct {
	T string   `xml:"t"`
	R []runXML `xml:"r"` // rich text runs
}

type runXML struct {
	T string `xml:"t"`
}

// Sheet is one parsed worksheet.
type Sheet struct {
	Index int    // 0-based position in workbook order
	Name  string // declared sheet name
	Rows  [][]Cell
}

// Cell is one resolved cell value.
type Cell struct {
	Value   string
	ColSpan int // >1 for the origin of a horizontal merge
	RowSpan int // >1 for the origin of a vertical merge
	Merged  bool // covered by a merge but not its origin
}
