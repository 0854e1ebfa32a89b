package server

import (
	"fmt"
	"strconv"
	"strings"
)

// injectNav splices a navigation bar into a rendered page, just before the
// closing body tag. Prev/next links clamp at the document bounds by
// linking back to the current unit.
func injectNav(page, name string, idx, total int) string {
	prev, next := idx, idx
	if idx > 0 {
		prev = idx - 1
	}
	if idx < total-1 {
		next = idx + 1
	}

	var b strings.Builder
	b.WriteString(`<nav class="pager">`)
	fmt.Fprintf(&b, `<a href="/docs/%s/units/%d" rel="prev">&larr;</a>`, name, prev)
	fmt.Fprintf(&b, `<span class="pos">%d / %d</span>`, idx+1, total)
	fmt.Fprintf(&b, `<a href="/docs/%s/units/%d" rel="next">&rarr;</a>`, name, next)
	fmt.Fprintf(&b, `<a href="/docs/%s/toc">contents</a>`, name)
	fmt.Fprintf(&b, `<a href="/docs/%s/download">download</a>`, name)
	b.WriteString(`</nav>`)

	if i := strings.LastIndex(page, "</body>"); i >= 0 {
		return page[:i] + b.String() + page[i:]
	}
	return page + b.String()
}

func atoiParam(s string) (int, error) {
	return strconv.Atoi(s)
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
