package pager

import (
	"errors"
	"unicode/utf8"
)

type keyKind int

const (
	keyUnknown keyKind = iota
	keyUp
	keyDown
	keyLeft
	keyRight
	keyPageUp
	keyPageDown
	keyHome
	keyEnd
	keyEscape
	keyQuit
	keyTOC
	keySpace
	keyEnter
	keyCtrlC
)

type keyEvent struct {
	kind keyKind
}

func (p *Pager) readKeyEvent() (keyEvent, error) {
	if p.reader == nil {
		return keyEvent{}, errors.New("no reader available")
	}
	b, err := p.reader.ReadByte()
	if err != nil {
		return keyEvent{}, err
	}

	switch b {
	case 0x1b:
		return p.parseEscapeSequence()
	case 'k', 'K':
		return keyEvent{kind: keyUp}, nil
	case 'j', 'J':
		return keyEvent{kind: keyDown}, nil
	case 'h', 'H':
		return keyEvent{kind: keyLeft}, nil
	case 'l', 'L':
		return keyEvent{kind: keyRight}, nil
	case 'q', 'Q':
		return keyEvent{kind: keyQuit}, nil
	case 't', 'T':
		return keyEvent{kind: keyTOC}, nil
	case ' ':
		return keyEvent{kind: keySpace}, nil
	case 'b', 'B':
		return keyEvent{kind: keyPageUp}, nil
	case 'f', 'F':
		return keyEvent{kind: keyPageDown}, nil
	case 'g':
		return keyEvent{kind: keyHome}, nil
	case 'G':
		return keyEvent{kind: keyEnd}, nil
	case 0x03:
		return keyEvent{kind: keyCtrlC}, nil
	default:
		if b == '\r' || b == '\n' {
			return keyEvent{kind: keyEnter}, nil
		}
	}

	if b < utf8.RuneSelf {
		return keyEvent{kind: keyUnknown}, nil
	}

	// drain the rest of a multibyte rune
	buf := []byte{b}
	for !utf8.FullRune(buf) && len(buf) < utf8.UTFMax {
		next, err := p.reader.ReadByte()
		if err != nil {
			break
		}
		buf = append(buf, next)
	}
	return keyEvent{kind: keyUnknown}, nil
}

func (p *Pager) parseEscapeSequence() (keyEvent, error) {
	if p.reader.Buffered() == 0 {
		return keyEvent{kind: keyEscape}, nil
	}
	next, err := p.reader.ReadByte()
	if err != nil {
		return keyEvent{kind: keyEscape}, nil
	}

	switch next {
	case '[':
		return p.parseCSI()
	case 'O':
		final, err := p.reader.ReadByte()
		if err != nil {
			return keyEvent{kind: keyEscape}, nil
		}
		switch final {
		case 'H':
			return keyEvent{kind: keyHome}, nil
		case 'F':
			return keyEvent{kind: keyEnd}, nil
		default:
			return keyEvent{kind: keyUnknown}, nil
		}
	default:
		return keyEvent{kind: keyEscape}, nil
	}
}

func (p *Pager) parseCSI() (keyEvent, error) {
	seq := []byte{}
	for {
		b, err := p.reader.ReadByte()
		if err != nil {
			return keyEvent{kind: keyEscape}, nil
		}
		seq = append(seq, b)
		if (b >= 'A' && b <= 'Z') || b == '~' {
			break
		}
		if len(seq) > 5 {
			break
		}
	}

	switch seq[len(seq)-1] {
	case 'A':
		return keyEvent{kind: keyUp}, nil
	case 'B':
		return keyEvent{kind: keyDown}, nil
	case 'C':
		return keyEvent{kind: keyRight}, nil
	case 'D':
		return keyEvent{kind: keyLeft}, nil
	case 'H':
		return keyEvent{kind: keyHome}, nil
	case 'F':
		return keyEvent{kind: keyEnd}, nil
	case '~':
		switch string(seq[:len(seq)-1]) {
		case "1", "7":
			return keyEvent{kind: keyHome}, nil
		case "4", "8":
			return keyEvent{kind: keyEnd}, nil
		case "5":
			return keyEvent{kind: keyPageUp}, nil
		case "6":
			return keyEvent{kind: keyPageDown}, nil
		}
	}
	return keyEvent{kind: keyUnknown}, nil
}
