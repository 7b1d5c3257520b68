// Package lexer tokenizes Forma source text.
//
// The lexer is a single forward pass over the input. It discards whitespace,
// line comments ("//" to end of line), and nestable block comments, and
// produces a flat token stream terminated by an EOF token. Every token
// carries the 1-based line and column where it starts.
package lexer

import (
	"fmt"
	"strings"
)

// LexError reports an invalid character or unterminated construct.
// Line and Col point at the offending position; for unterminated strings
// and block comments that is the opening delimiter.
type LexError struct {
	Message string
	Line    int
	Col     int
}

func (e *LexError) Error() string {
	return fmt.Sprintf("line %d, col %d: %s", e.Line, e.Col, e.Message)
}

var punct = map[rune]Kind{
	'(': LParen,
	')': RParen,
	'[': LBracket,
	']': RBracket,
	'{': LBrace,
	'}': RBrace,
	'<': LAngle,
	'>': RAngle,
	':': Colon,
	',': Comma,
	'?': Question,
}

// Lex tokenizes source and returns the token stream, always terminated by an
// EOF token. On the first invalid construct it returns a *LexError.
func Lex(source string) ([]Token, error) {
	l := &lexer{src: []rune(source), line: 1, col: 1}
	return l.run()
}

type lexer struct {
	src  []rune
	pos  int
	line int
	col  int

	tokens []Token
}

func (l *lexer) run() ([]Token, error) {
	for l.pos < len(l.src) {
		ch := l.src[l.pos]

		switch {
		case ch == '\n':
			l.pos++
			l.line++
			l.col = 1
		case ch == ' ' || ch == '\t' || ch == '\r':
			l.advance()
		case ch == '/' && l.peekAt(1) == '/':
			l.skipLineComment()
		case ch == '/' && l.peekAt(1) == '*':
			if err := l.skipBlockComment(); err != nil {
				return nil, err
			}
		case ch == '"':
			if err := l.lexString(); err != nil {
				return nil, err
			}
		case isIdentStart(ch):
			l.lexIdent()
		default:
			if kind, ok := punct[ch]; ok {
				l.emit(kind, string(ch), l.line, l.col)
				l.advance()
				break
			}
			return nil, &LexError{
				Message: fmt.Sprintf("unexpected character %q", string(ch)),
				Line:    l.line,
				Col:     l.col,
			}
		}
	}

	l.emit(EOF, "", l.line, l.col)
	return l.tokens, nil
}

func (l *lexer) advance() {
	l.pos++
	l.col++
}

// peekAt returns the rune at offset from the current position, or 0 past EOF.
func (l *lexer) peekAt(offset int) rune {
	if l.pos+offset >= len(l.src) {
		return 0
	}
	return l.src[l.pos+offset]
}

func (l *lexer) emit(kind Kind, text string, line, col int) {
	l.tokens = append(l.tokens, Token{Kind: kind, Text: text, Line: line, Col: col})
}

func (l *lexer) skipLineComment() {
	for l.pos < len(l.src) && l.src[l.pos] != '\n' {
		l.advance()
	}
}

// skipBlockComment consumes a /* ... */ comment. Block comments nest: the
// comment ends when every opening /* has been matched by a */.
func (l *lexer) skipBlockComment() error {
	startLine, startCol := l.line, l.col
	l.advance() // '/'
	l.advance() // '*'

	depth := 1
	for l.pos < len(l.src) {
		switch {
		case l.src[l.pos] == '\n':
			l.pos++
			l.line++
			l.col = 1
		case l.src[l.pos] == '/' && l.peekAt(1) == '*':
			depth++
			l.advance()
			l.advance()
		case l.src[l.pos] == '*' && l.peekAt(1) == '/':
			depth--
			l.advance()
			l.advance()
			if depth == 0 {
				return nil
			}
		default:
			l.advance()
		}
	}

	return &LexError{Message: "unterminated block comment", Line: startLine, Col: startCol}
}

// lexString consumes a double-quoted literal, decoding \n, \t, \\ and \".
// Any other escaped character passes through literally. A raw newline inside
// the literal, or end of input before the closing quote, is an error at the
// opening quote.
func (l *lexer) lexString() error {
	startLine, startCol := l.line, l.col
	l.advance() // opening quote

	var buf strings.Builder
	for l.pos < len(l.src) && l.src[l.pos] != '"' {
		ch := l.src[l.pos]
		if ch == '\n' {
			return &LexError{Message: "unterminated string literal", Line: startLine, Col: startCol}
		}
		if ch == '\\' && l.pos+1 < len(l.src) {
			l.advance()
			esc := l.src[l.pos]
			switch esc {
			case 'n':
				buf.WriteRune('\n')
			case 't':
				buf.WriteRune('\t')
			case '\\':
				buf.WriteRune('\\')
			case '"':
				buf.WriteRune('"')
			default:
				buf.WriteRune(esc)
			}
			l.advance()
			continue
		}
		buf.WriteRune(ch)
		l.advance()
	}

	if l.pos >= len(l.src) {
		return &LexError{Message: "unterminated string literal", Line: startLine, Col: startCol}
	}
	l.advance() // closing quote
	l.emit(String, buf.String(), startLine, startCol)
	return nil
}

// lexIdent consumes an identifier run. A leading digit is accepted so that
// version fragments like "8.0" lex as a single token.
func (l *lexer) lexIdent() {
	startLine, startCol := l.line, l.col
	start := l.pos
	for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
		l.advance()
	}
	l.emit(Ident, string(l.src[start:l.pos]), startLine, startCol)
}

func isIdentStart(ch rune) bool {
	return isLetter(ch) || ch == '_' || isDigit(ch)
}

func isIdentPart(ch rune) bool {
	return isLetter(ch) || isDigit(ch) || ch == '_' || ch == '.'
}

func isLetter(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}
