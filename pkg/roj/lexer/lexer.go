package lexer

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/sambeau/roj/pkg/roj/errors"
)

// TokenType represents different types of tokens
type TokenType int

const (
	// Special tokens
	ILLEGAL TokenType = iota
	EOF

	// Identifiers and literals
	IDENT  // count, total_2, ...
	INT    // 1343456
	FLOAT  // 3.14159, .5, 2.
	STRING // "foobar"
	BOOL   // True, False
	NULL   // Null

	// Operators
	PLUS     // +
	MINUS    // -
	ASTERISK // *
	SLASH    // /
	CARET    // ^
	ASSIGN   // =
	EQ       // ==
	NOT_EQ   // !=
	GT       // >
	LT       // <
	GT_EQ    // >=
	LT_EQ    // <=

	// Delimiters
	SEMICOLON // ;
	LPAREN    // (
	RPAREN    // )

	// Keywords
	OR
	AND
	NOT
	DO
	END
	WHILE
	IF
	ELSE
	OUT
	READ
	READINT
	READFLOAT
	READBOOL
	STOP
	HALT
	JUMPOVER
	RETURN
)

// Token represents a single token
type Token struct {
	Type    TokenType
	Literal string // source text of the token
	Value   any    // int64, float64, string or bool for literals; *errors.RojError for ILLEGAL
	Line    int
	Column  int
}

// String returns a string representation of the token
func (t Token) String() string {
	return fmt.Sprintf("{Type: %s, Literal: %s, Line: %d, Column: %d}",
		t.Type.String(), t.Literal, t.Line, t.Column)
}

// Err returns the lex error carried by an ILLEGAL token.
func (t Token) Err() *errors.RojError {
	if t.Type != ILLEGAL {
		return nil
	}
	if err, ok := t.Value.(*errors.RojError); ok {
		return err
	}
	return errors.NewWithPosition("LEX-0001", t.Line, t.Column, map[string]any{"Char": t.Literal})
}

var tokenNames = map[TokenType]string{
	ILLEGAL:   "ILLEGAL",
	EOF:       "EOF",
	IDENT:     "IDENT",
	INT:       "INT",
	FLOAT:     "FLOAT",
	STRING:    "STRING",
	BOOL:      "BOOL",
	NULL:      "NULL",
	PLUS:      "+",
	MINUS:     "-",
	ASTERISK:  "*",
	SLASH:     "/",
	CARET:     "^",
	ASSIGN:    "=",
	EQ:        "==",
	NOT_EQ:    "!=",
	GT:        ">",
	LT:        "<",
	GT_EQ:     ">=",
	LT_EQ:     "<=",
	SEMICOLON: ";",
	LPAREN:    "(",
	RPAREN:    ")",
	OR:        "or",
	AND:       "and",
	NOT:       "not",
	DO:        "do",
	END:       "end",
	WHILE:     "while",
	IF:        "if",
	ELSE:      "else",
	OUT:       "out",
	READ:      "read",
	READINT:   "readint",
	READFLOAT: "readfloat",
	READBOOL:  "readbool",
	STOP:      "stop",
	HALT:      "halt",
	JUMPOVER:  "jumpover",
	RETURN:    "return",
}

// String returns a string representation of the token type
func (tt TokenType) String() string {
	if name, ok := tokenNames[tt]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

var keywords = map[string]TokenType{
	"Null":      NULL,
	"True":      BOOL,
	"False":     BOOL,
	"or":        OR,
	"and":       AND,
	"not":       NOT,
	"do":        DO,
	"end":       END,
	"while":     WHILE,
	"if":        IF,
	"else":      ELSE,
	"out":       OUT,
	"read":      READ,
	"readint":   READINT,
	"readfloat": READFLOAT,
	"readbool":  READBOOL,
	"stop":      STOP,
	"halt":      HALT,
	"jumpover":  JUMPOVER,
	"return":    RETURN,
}

// LookupIdent checks if an identifier is a keyword
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// Keywords returns the reserved words, sorted.
func Keywords() []string {
	words := make([]string, 0, len(keywords))
	for w := range keywords {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

// Lexer represents the lexical analyzer
type Lexer struct {
	filename string
	sc       *Scanner
	peeked   *Token
}

// New creates a new lexer instance
func New(input string) *Lexer {
	return NewWithFilename(input, "")
}

// NewWithFilename creates a new lexer instance with a specific filename
func NewWithFilename(input string, filename string) *Lexer {
	return &Lexer{
		filename: filename,
		sc:       NewScanner(input),
	}
}

// Filename returns the name errors from this lexer are attributed to.
func (l *Lexer) Filename() string {
	return l.filename
}

// PeekToken returns the next token without consuming it.
func (l *Lexer) PeekToken() Token {
	if l.peeked == nil {
		tok := l.scanToken()
		l.peeked = &tok
	}
	return *l.peeked
}

// NextToken consumes and returns the next token. Once EOF is returned,
// every further call returns EOF again.
func (l *Lexer) NextToken() Token {
	if l.peeked != nil {
		tok := *l.peeked
		l.peeked = nil
		return tok
	}
	return l.scanToken()
}

// Tokenize materializes the whole token sequence, terminated by EOF.
// The first lex error aborts tokenization.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for {
		tok := l.NextToken()
		if tok.Type == ILLEGAL {
			err := tok.Err()
			if l.filename != "" {
				err = err.WithFile(l.filename)
			}
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens, nil
		}
	}
}

func (l *Lexer) scanToken() Token {
	if err := l.skipWhitespaceAndComments(); err != nil {
		return Token{Type: ILLEGAL, Literal: "$", Value: err, Line: err.Line, Column: err.Column}
	}

	c := l.sc.Current()
	switch {
	case c.IsEOF():
		return Token{Type: EOF, Literal: "", Line: c.Line, Column: c.Column}
	case c.IsSeparator():
		l.sc.Advance()
		return newToken(SEMICOLON, c)
	case isDigit(c.Rune) || c.Rune == '.':
		return l.readNumber()
	case c.Rune == '"':
		return l.readString()
	case isLetterRune(c.Rune):
		return l.readIdentifier()
	}

	switch c.Rune {
	case '(':
		l.sc.Advance()
		return newToken(LPAREN, c)
	case ')':
		l.sc.Advance()
		return newToken(RPAREN, c)
	case '+':
		l.sc.Advance()
		return newToken(PLUS, c)
	case '-':
		l.sc.Advance()
		return newToken(MINUS, c)
	case '*':
		l.sc.Advance()
		return newToken(ASTERISK, c)
	case '/':
		l.sc.Advance()
		return newToken(SLASH, c)
	case '^':
		l.sc.Advance()
		return newToken(CARET, c)
	case '=':
		return l.readOperator(c, ASSIGN, EQ)
	case '>':
		return l.readOperator(c, GT, GT_EQ)
	case '<':
		return l.readOperator(c, LT, LT_EQ)
	case '!':
		// '!' exists only as the first half of '!='
		return l.readOperator(c, ILLEGAL, NOT_EQ)
	}

	l.sc.Advance()
	return illegal(c, "LEX-0001", map[string]any{"Char": string(c.Rune)})
}

func newToken(tokenType TokenType, c Char) Token {
	return Token{Type: tokenType, Literal: string(c.Rune), Line: c.Line, Column: c.Column}
}

func illegal(c Char, code string, data map[string]any) Token {
	err := errors.NewWithPosition(code, c.Line, c.Column, data)
	return Token{Type: ILLEGAL, Literal: string(c.Rune), Value: err, Line: c.Line, Column: c.Column}
}

// readOperator reads a one-character operator, or its two-character form
// when followed by '='. Longest match wins.
func (l *Lexer) readOperator(c Char, single, double TokenType) Token {
	l.sc.Advance()
	if l.sc.Current().Rune == '=' {
		l.sc.Advance()
		return Token{Type: double, Literal: string(c.Rune) + "=", Line: c.Line, Column: c.Column}
	}
	if single == ILLEGAL {
		return illegal(c, "LEX-0001", map[string]any{"Char": string(c.Rune)})
	}
	return newToken(single, c)
}

// readIdentifier reads an identifier or keyword.
func (l *Lexer) readIdentifier() Token {
	start := l.sc.Current()
	for isLetterRune(l.sc.Current().Rune) || isDigit(l.sc.Current().Rune) {
		l.sc.Advance()
	}
	word := l.sc.Text(start.Offset, l.sc.Current().Offset)

	tok := Token{Type: LookupIdent(word), Literal: word, Line: start.Line, Column: start.Column}
	switch word {
	case "True":
		tok.Value = true
	case "False":
		tok.Value = false
	case "Null":
		tok.Value = nil
	}
	return tok
}

// readNumber reads a run of digits and dots. A dot makes it a float.
func (l *Lexer) readNumber() Token {
	start := l.sc.Current()
	for isDigit(l.sc.Current().Rune) || l.sc.Current().Rune == '.' {
		l.sc.Advance()
	}
	lit := l.sc.Text(start.Offset, l.sc.Current().Offset)

	if strings.Contains(lit, ".") {
		f, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			return illegalLiteral(start, lit, "LEX-0002")
		}
		return Token{Type: FLOAT, Literal: lit, Value: f, Line: start.Line, Column: start.Column}
	}

	i, err := strconv.ParseInt(lit, 10, 64)
	if err != nil {
		return illegalLiteral(start, lit, "LEX-0005")
	}
	return Token{Type: INT, Literal: lit, Value: i, Line: start.Line, Column: start.Column}
}

func illegalLiteral(start Char, lit, code string) Token {
	err := errors.NewWithPosition(code, start.Line, start.Column, map[string]any{"Literal": lit})
	return Token{Type: ILLEGAL, Literal: lit, Value: err, Line: start.Line, Column: start.Column}
}

// readString reads a "-delimited string. There are no escapes and the
// string may span lines.
func (l *Lexer) readString() Token {
	open := l.sc.Current()
	l.sc.Advance() // skip opening quote
	from := l.sc.Current().Offset

	for l.sc.Current().Rune != '"' {
		if l.sc.Current().IsEOF() {
			err := errors.NewWithPosition("LEX-0003", open.Line, open.Column, nil)
			return Token{Type: ILLEGAL, Literal: `"`, Value: err, Line: open.Line, Column: open.Column}
		}
		l.sc.Advance()
	}

	s := l.sc.Text(from, l.sc.Current().Offset)
	l.sc.Advance() // skip closing quote
	return Token{Type: STRING, Literal: s, Value: s, Line: open.Line, Column: open.Column}
}

// skipWhitespaceAndComments discards whitespace and $ ... $ comments.
func (l *Lexer) skipWhitespaceAndComments() *errors.RojError {
	for {
		c := l.sc.Current()
		switch {
		case c.IsSpace():
			l.sc.Advance()
		case !c.IsEOF() && c.Rune == '$':
			l.sc.Advance()
			for l.sc.Current().Rune != '$' {
				if l.sc.Current().IsEOF() {
					return errors.NewWithPosition("LEX-0004", c.Line, c.Column, nil)
				}
				l.sc.Advance()
			}
			l.sc.Advance() // closing $
		default:
			return nil
		}
	}
}

// isLetterRune checks if a rune can start an identifier (letter or underscore).
func isLetterRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}
