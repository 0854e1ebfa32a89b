package xlsx

import (
	"strings"
)

// parseCellRef converts a cell reference like "B3" to 0-based column and
// row indices. Malformed references yield (-1, -1).
func parseCellRef(ref string) (col, row int) {
	i := 0
	for i < len(ref) && ref[i] >= 'A' && ref[i] <= 'Z' {
		col = col*26 + int(ref[i]-'A'+1)
		i++
	}
	if i == 0 || i == len(ref) {
		return -1, -1
	}
	for ; i < len(ref); i++ {
		if ref[i] < '0' || ref[i] > '9' {
			return -1, -1
		}
		row = row*10 + int(ref[i]-'0')
	}
	if row == 0 {
		return -1, -1
	}
	return col - 1, row - 1
}

// parseRangeRef parses a merge range like "A1:B2" into its corner
// coordinates. Single-cell refs collapse to a 1x1 range.
func parseRangeRef(ref string) (c1, r1, c2, r2 int, ok bool) {
	parts := strings.SplitN(ref, ":", 2)
	c1, r1 = parseCellRef(parts[0])
	if c1 < 0 {
		return 0, 0, 0, 0, false
	}
	if len(parts) == 1 {
		return c1, r1, c1, r1, true
	}
	c2, r2 = parseCellRef(parts[1])
	if c2 < 0 {
		return 0, 0, 0, 0, false
	}
	return c1, r1, c2, r2, true
}

// cellValue resolves a raw cell to its display string using the shared
// string table.
func cellValue(c *cellXML, shared []string) string {
	switch c.T {
	case "s":
		idx := 0
		for _, ch := range c.V {
			if ch < '0' || ch > '9' {
				return ""
			}
			idx = idx*10 + int(ch-'0')
		}
		if idx >= 0 && idx < len(shared) {
			return shared[idx]
		}
		return ""
	case "inlineStr":
		if c.Is == nil {
			return ""
		}
		if c.Is.T != "" {
			return c.Is.T
		}
		var b strings.Builder
		for _, r := range c.Is.R {
			b.WriteString(r.T)
		}
		return b.String()
	case "b":
		if c.V == "1" {
			return "TRUE"
		}
		return "FALSE"
	case "e":
		return c.V // error literal like #DIV/0!
	default:
		// "n", "str", or untyped: the raw value is the display value.
		return c.V
	}
}
