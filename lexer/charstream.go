package lexer

import (
	"bufio"
	"io"
	"unicode/utf8"

	nginxerrors "github.com/lefeck/nginxconf/errors"
)

// CharStream turns raw bytes into a lazy sequence of (chunk, line)
// pairs: stage 1 decodes UTF-8 runes, stage 2 merges a backslash with
// whatever follows it into one atomic two-character chunk, and stage 3
// tags each chunk with the 1-based source line after it is consumed.
// It supports putting back exactly one chunk, which the lexer uses to
// hand an extension hook the stream at the position it stopped
// scanning, and which the hook itself may use the same way.
type CharStream struct {
	r    *bufio.Reader
	file string
	line int

	hasPending  bool
	pendingText string
	pendingLine int
}

// NewCharStream wraps r as a char stream for file (used only to label
// I/O errors).
func NewCharStream(r io.Reader, file string) *CharStream {
	return &CharStream{r: bufio.NewReader(r), file: file, line: 1}
}

// Next returns the next chunk. ok is false at end of stream. A failure
// to decode valid UTF-8 is reported as an IO-kind error naming the
// file.
func (cs *CharStream) Next() (text string, line int, ok bool, err error) {
	if cs.hasPending {
		cs.hasPending = false
		return cs.pendingText, cs.pendingLine, true, nil
	}

	r, ok, err := cs.readRune()
	if err != nil {
		return "", 0, false, err
	}
	if !ok {
		return "", 0, false, nil
	}

	text = string(r)
	if r == '\\' {
		next, nok, nerr := cs.readRune()
		if nerr != nil {
			return "", 0, false, nerr
		}
		if nok {
			text += string(next)
		}
		// a trailing lone backslash at EOF is emitted as-is
	}

	if text[len(text)-1] == '\n' {
		cs.line++
	}
	return text, cs.line, true, nil
}

// PutBack restores one chunk to be returned again by the next Next
// call. Only one chunk of put-back capacity is supported.
func (cs *CharStream) PutBack(text string, line int) {
	cs.hasPending = true
	cs.pendingText = text
	cs.pendingLine = line
}

func (cs *CharStream) readRune() (rune, bool, error) {
	r, size, err := cs.r.ReadRune()
	if err == io.EOF {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, nginxerrors.NewNoLine(nginxerrors.IO, cs.file, "error reading file: %v", err)
	}
	if r == utf8.RuneError && size == 1 {
		return 0, false, nginxerrors.NewNoLine(nginxerrors.IO, cs.file, "invalid UTF-8 encoding")
	}
	return r, true, nil
}
