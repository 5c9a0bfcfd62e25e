package lexer

import (
	"unicode/utf8"
)

// Char is one classified character of the source text.
type Char struct {
	Rune   rune
	Offset int // byte offset of the character in the input
	Line   int // 1-based line
	Column int // 1-based column (0 for a newline)
	eof    bool
}

// IsEOF reports whether the cursor has run past the end of the input.
func (c Char) IsEOF() bool {
	return c.eof
}

// IsSpace reports whether the character separates tokens without being one.
func (c Char) IsSpace() bool {
	return !c.eof && (c.Rune == ' ' || c.Rune == '\t' || c.Rune == '\n' || c.Rune == '\r')
}

// IsSeparator reports whether the character is the statement separator.
func (c Char) IsSeparator() bool {
	return !c.eof && c.Rune == ';'
}

// String returns a printable form of the character for diagnostics.
func (c Char) String() string {
	switch {
	case c.eof:
		return "EOF"
	case c.Rune == '\n':
		return "NEWLINE"
	case c.Rune == '\t':
		return "TAB"
	case c.Rune == ' ':
		return "SPACE"
	}
	return string(c.Rune)
}

// Scanner is a cursor over source text producing one Char at a time.
type Scanner struct {
	input        string
	readPosition int // byte offset of the next character
	line         int
	column       int
	ch           Char
}

// NewScanner creates a scanner positioned on the first character of input.
func NewScanner(input string) *Scanner {
	s := &Scanner{input: input, line: 1}
	s.Advance()
	return s
}

// Current returns the character under the cursor.
func (s *Scanner) Current() Char {
	return s.ch
}

// Advance moves the cursor to the next character.
func (s *Scanner) Advance() {
	if s.readPosition >= len(s.input) {
		s.ch = Char{Offset: len(s.input), Line: s.line, Column: s.column + 1, eof: true}
		return
	}

	b := s.input[s.readPosition]

	// ASCII fast-path
	if b < utf8.RuneSelf {
		s.ch = Char{Rune: rune(b), Offset: s.readPosition}
		s.readPosition++
	} else {
		r, size := utf8.DecodeRuneInString(s.input[s.readPosition:])
		s.ch = Char{Rune: r, Offset: s.readPosition}
		s.readPosition += size
	}

	if s.ch.Rune == '\n' {
		s.line++
		s.column = 0
	} else {
		s.column++
	}
	s.ch.Line = s.line
	s.ch.Column = s.column
}

// Peek returns the rune after the current one without moving, or 0 at the end.
func (s *Scanner) Peek() rune {
	if s.readPosition >= len(s.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(s.input[s.readPosition:])
	return r
}

// Text returns the input between two byte offsets.
func (s *Scanner) Text(from, to int) string {
	return s.input[from:to]
}
