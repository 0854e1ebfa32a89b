// Package pager implements a raw-terminal viewer for an opened document.
// It drives a nav.Controller: left/right arrows move between units, up/down
// scroll within the current unit, and single-letter commands toggle the
// viewer flags.
package pager

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/inkleaf/pageturn/model"
	"github.com/inkleaf/pageturn/nav"
)

var termGetSize = term.GetSize

// Pager renders units from a navigation controller on a raw terminal.
type Pager struct {
	ctrl        *nav.Controller
	title       string
	input       *os.File
	outputFile  *os.File
	output      io.Writer
	reader      *bufio.Reader
	writer      *bufio.Writer
	restoreTerm *term.State
	width       int
	height      int

	// scroll offset within the current unit, reset on unit change
	scroll    int
	unitIndex int
	lines     []string
}

// New creates a pager for a controller that is already in the Ready state.
func New(ctrl *nav.Controller, title string) (*Pager, error) {
	if ctrl == nil || ctrl.State() != nav.Ready {
		return nil, errors.New("document not loaded")
	}
	return &Pager{ctrl: ctrl, title: title, unitIndex: -1}, nil
}

// Run takes over the terminal until the user quits.
func (p *Pager) Run() error {
	if err := p.initTerminal(); err != nil {
		return err
	}
	defer p.cleanupTerminal()

	p.updateSize()
	for {
		if err := p.render(); err != nil {
			return err
		}

		event, err := p.readKeyEvent()
		if err != nil {
			return err
		}

		if done := p.handleKey(event); done {
			return nil
		}
	}
}

func (p *Pager) initTerminal() error {
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		if runtime.GOOS == "windows" {
			p.input = os.Stdin
			p.output = os.Stdout
			p.outputFile = os.Stdout
		} else {
			return err
		}
	} else {
		p.input = tty
		p.output = tty
		p.outputFile = tty
	}

	if p.input == nil {
		return errors.New("no tty available")
	}

	p.reader = bufio.NewReader(p.input)
	p.writer = bufio.NewWriter(p.output)

	rawState, err := term.MakeRaw(int(p.input.Fd()))
	if err != nil {
		return err
	}
	p.restoreTerm = rawState
	return nil
}

func (p *Pager) cleanupTerminal() {
	if p.input != nil && p.restoreTerm != nil {
		_ = term.Restore(int(p.input.Fd()), p.restoreTerm)
	}
	p.writeString("\x1b[?25h")
	p.writeString("\x1b[2J\x1b[H")
	if p.writer != nil {
		_ = p.writer.Flush()
	}
	if p.input != nil && p.input.Name() == "/dev/tty" {
		_ = p.input.Close()
	}
}

func (p *Pager) writeString(s string) {
	switch {
	case p.writer != nil:
		_, _ = p.writer.WriteString(s)
	case p.output != nil:
		_, _ = fmt.Fprint(p.output, s)
	}
}

func (p *Pager) printf(format string, args ...interface{}) {
	switch {
	case p.writer != nil:
		_, _ = fmt.Fprintf(p.writer, format, args...)
	case p.output != nil:
		_, _ = fmt.Fprintf(p.output, format, args...)
	}
}

func (p *Pager) updateSize() {
	if p.tryUpdateSizeFromFile(p.input) {
		return
	}
	if p.outputFile != nil && p.outputFile != p.input {
		_ = p.tryUpdateSizeFromFile(p.outputFile)
	}
}

func (p *Pager) tryUpdateSizeFromFile(file *os.File) bool {
	if file == nil {
		return false
	}
	width, height, err := termGetSize(int(file.Fd()))
	if err != nil || width <= 0 || height <= 0 {
		return false
	}
	p.width = width
	p.height = height
	return true
}

// prepareContent splits the current unit's plain text into display lines,
// wrapped to the terminal width. Recomputed when the unit changes.
func (p *Pager) prepareContent() {
	if p.ctrl.Index() == p.unitIndex && p.lines != nil {
		return
	}
	p.unitIndex = p.ctrl.Index()
	p.scroll = 0
	p.lines = nil

	u, err := p.ctrl.Unit()
	if err != nil {
		p.lines = []string{err.Error()}
		return
	}

	width := p.width
	if width <= 0 {
		width = 80
	}
	for _, raw := range strings.Split(u.Text, "\n") {
		p.lines = append(p.lines, wrapLine(raw, width)...)
	}
	if len(p.lines) == 0 {
		p.lines = []string{""}
	}
}

func (p *Pager) render() error {
	p.updateSize()
	if p.width <= 0 {
		p.width = 1
	}
	if p.height <= 0 {
		p.height = 1
	}
	p.prepareContent()

	headerRows := 2 // title + blank separator
	contentRows := p.height - headerRows - 1
	if contentRows < 1 {
		contentRows = 1
	}
	p.clampScroll(contentRows)

	p.writeString("\x1b[?25l")
	p.writeString("\x1b[2J")
	p.writeString("\x1b[H")

	row := 1
	p.drawRow(row, p.headerLine(), true)
	row++
	p.drawRow(row, "", false)
	row++

	if p.ctrl.Flags().TOCVisible {
		p.drawTOC(row, contentRows)
	} else {
		for i := p.scroll; i < len(p.lines) && row <= p.height-1; i++ {
			p.drawRow(row, p.lines[i], false)
			row++
		}
		for row <= p.height-1 {
			p.drawRow(row, "", false)
			row++
		}
	}

	p.drawStatus(p.statusLine(contentRows))

	if p.writer != nil {
		return p.writer.Flush()
	}
	return nil
}

func (p *Pager) headerLine() string {
	u, err := p.ctrl.Unit()
	if err != nil {
		return p.title
	}
	return fmt.Sprintf("%s — %s", p.title, u.DisplayTitle())
}

func (p *Pager) statusLine(contentRows int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d/%d", p.ctrl.Index()+1, p.ctrl.Len())
	if len(p.lines) > contentRows {
		pct := 100
		if max := len(p.lines) - contentRows; max > 0 {
			pct = p.scroll * 100 / max
		}
		fmt.Fprintf(&b, "  %d%%", pct)
	}
	if p.ctrl.Flags().TOCVisible {
		b.WriteString("  [toc]")
	}
	b.WriteString("  ←/→ unit  ↑/↓ scroll  t toc  q quit")
	return b.String()
}

func (p *Pager) drawTOC(row, contentRows int) {
	entries := p.ctrl.TOC().Flatten()
	start := 0
	if len(entries) > contentRows {
		// keep the current unit's entry in view
		for i, e := range entries {
			if e.UnitIndex == p.ctrl.Index() {
				start = i - contentRows/2
				break
			}
		}
		if start < 0 {
			start = 0
		}
		if start > len(entries)-contentRows {
			start = len(entries) - contentRows
		}
	}
	for i := start; i < len(entries) && row <= p.height-1; i++ {
		marker := "  "
		if entries[i].UnitIndex == p.ctrl.Index() {
			marker = "> "
		}
		p.drawRow(row, marker+entries[i].Title, false)
		row++
	}
	for row <= p.height-1 {
		p.drawRow(row, "", false)
		row++
	}
}

func (p *Pager) drawRow(row int, text string, bold bool) {
	if row < 1 {
		row = 1
	}
	if row > p.height {
		return
	}

	p.printf("\x1b[%d;1H", row)
	p.writeString("\x1b[2K")
	if bold {
		p.writeString("\x1b[1m")
	}
	p.writeString(truncateToWidth(text, p.width))
	if bold {
		p.writeString("\x1b[22m")
	}
}

func (p *Pager) drawStatus(text string) {
	if p.height < 1 {
		return
	}
	p.printf("\x1b[%d;1H", p.height)
	p.writeString("\x1b[2K")
	if len(text) > p.width && p.width > 0 {
		text = truncateToWidth(text, p.width)
	}
	p.printf("\x1b[7m %s \x1b[0m", text)
}

func (p *Pager) clampScroll(visible int) {
	if p.scroll < 0 {
		p.scroll = 0
	}
	maxOffset := len(p.lines) - visible
	if maxOffset < 0 {
		maxOffset = 0
	}
	if p.scroll > maxOffset {
		p.scroll = maxOffset
	}
}

func (p *Pager) handleKey(ev keyEvent) bool {
	contentRows := p.height - 3
	if contentRows < 1 {
		contentRows = 1
	}

	switch ev.kind {
	case keyQuit, keyCtrlC:
		return true
	case keyEscape:
		if p.ctrl.Flags().TOCVisible || p.ctrl.Flags().Fullscreen {
			p.ctrl.HandleKey(nav.KeyEscape)
			return false
		}
		return true
	case keyLeft:
		p.ctrl.HandleKey(nav.KeyArrowLeft)
	case keyRight, keySpace:
		p.ctrl.HandleKey(nav.KeyArrowRight)
	case keyUp:
		p.scroll--
	case keyDown:
		p.scroll++
	case keyPageUp:
		p.scroll -= contentRows
	case keyPageDown:
		p.scroll += contentRows
	case keyHome:
		p.ctrl.HandleKey(nav.KeyHome)
	case keyEnd:
		p.ctrl.HandleKey(nav.KeyEnd)
	case keyTOC:
		p.ctrl.ToggleTOC()
	case keyEnter:
		if p.ctrl.Flags().TOCVisible {
			p.jumpToSelected()
		} else {
			p.ctrl.HandleKey(nav.KeyArrowRight)
		}
	}
	return false
}

// jumpToSelected moves to the next mapped entry after the current unit,
// wrapping to the first. A minimal stand-in for cursor-driven selection.
func (p *Pager) jumpToSelected() {
	entries := p.ctrl.TOC().Flatten()
	mapped := make([]model.TOCEntry, 0, len(entries))
	for _, e := range entries {
		if e.UnitIndex >= 0 {
			mapped = append(mapped, e)
		}
	}
	if len(mapped) == 0 {
		return
	}
	for _, e := range mapped {
		if e.UnitIndex > p.ctrl.Index() {
			p.ctrl.JumpTo(e.UnitIndex)
			p.ctrl.ToggleTOC()
			return
		}
	}
	p.ctrl.JumpTo(mapped[0].UnitIndex)
	p.ctrl.ToggleTOC()
}

func wrapLine(text string, width int) []string {
	if displayWidth(text) <= width {
		return []string{text}
	}
	var out []string
	var b strings.Builder
	current := 0
	for _, ru := range text {
		w := runewidth.RuneWidth(ru)
		if w <= 0 {
			w = 1
		}
		if current+w > width {
			out = append(out, b.String())
			b.Reset()
			current = 0
		}
		b.WriteRune(ru)
		current += w
	}
	if b.Len() > 0 {
		out = append(out, b.String())
	}
	return out
}

func truncateToWidth(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if displayWidth(text) <= width {
		return text
	}

	const ellipsis = "…"
	ellipsisWidth := runewidth.RuneWidth([]rune(ellipsis)[0])
	if ellipsisWidth <= 0 {
		ellipsisWidth = 1
	}
	if width <= ellipsisWidth {
		return ellipsis
	}

	target := width - ellipsisWidth
	var builder strings.Builder
	current := 0
	for _, ru := range text {
		w := runewidth.RuneWidth(ru)
		if w <= 0 {
			w = 1
		}
		if current+w > target {
			break
		}
		builder.WriteRune(ru)
		current += w
	}
	builder.WriteString(ellipsis)
	return builder.String()
}

func displayWidth(text string) int {
	width := 0
	for _, ru := range text {
		w := runewidth.RuneWidth(ru)
		if w <= 0 {
			w = 1
		}
		width += w
	}
	return width
}
