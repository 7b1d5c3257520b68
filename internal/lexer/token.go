package lexer

import "fmt"

// Kind identifies the class of a token.
type Kind int

const (
	// EOF terminates every token stream produced by Lex.
	EOF Kind = iota

	// Ident covers names, keywords, and version tokens like v8.0.
	Ident
	// String is a double-quoted literal with escapes already decoded.
	String

	// Punctuation.
	LParen   // "("
	RParen   // ")"
	LBracket // "["
	RBracket // "]"
	LBrace   // "{"
	RBrace   // "}"
	LAngle   // "<"
	RAngle   // ">"
	Colon    // ":"
	Comma    // ","
	Question // "?"
)

var kindNames = map[Kind]string{
	EOF:      "EOF",
	Ident:    "IDENT",
	String:   "STRING",
	LParen:   "'('",
	RParen:   "')'",
	LBracket: "'['",
	RBracket: "']'",
	LBrace:   "'{'",
	RBrace:   "'}'",
	LAngle:   "'<'",
	RAngle:   "'>'",
	Colon:    "':'",
	Comma:    "','",
	Question: "'?'",
}

// String returns a human-readable name for the kind, as used in parse errors.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Token is a single lexeme with its source position (1-based line and column).
type Token struct {
	Kind Kind
	Text string
	Line int
	Col  int
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q at %d:%d", t.Kind, t.Text, t.Line, t.Col)
}
