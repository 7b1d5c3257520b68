// Package parser builds an ir.Document from Forma source text.
//
// The parser is recursive descent over the token stream, fail-fast and
// single-pass: the first syntactic violation aborts with a *ParseError and
// no partial document. The only backtracking is a one-token pushback used
// by field lists to hand a non-field identifier back to the caller.
package parser

import (
	"fmt"
	"strings"

	"github.com/forma-tools/forma/internal/ir"
	"github.com/forma-tools/forma/internal/lexer"
)

// ParseError reports the first syntactic violation in a token stream.
type ParseError struct {
	Message string
	Line    int
	Col     int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d, col %d: %s", e.Line, e.Col, e.Message)
}

// Parse lexes and parses source into a document. It returns a *lexer.LexError
// or *ParseError on malformed input.
func Parse(source string) (*ir.Document, error) {
	tokens, err := lexer.Lex(source)
	if err != nil {
		return nil, err
	}
	return ParseTokens(tokens)
}

// ParseTokens parses an already-lexed token stream. The stream must be
// terminated by an EOF token, as produced by lexer.Lex.
func ParseTokens(tokens []lexer.Token) (*ir.Document, error) {
	p := &parser{tokens: tokens}
	return p.parse()
}

// parser accumulates document sections while walking the token stream. The
// accumulators are owned by the parse call and handed off to the immutable
// document in finalize.
type parser struct {
	tokens []lexer.Token
	pos    int

	meta    *ir.Meta
	shapes  *ir.OrderedMap[*ir.Shape]
	choices *ir.OrderedMap[*ir.Choice]
	enums   *ir.OrderedMap[[]string]
	aliases *ir.OrderedMap[string]
	mixins  *ir.OrderedMap[*ir.Mixin]
}

// -- token access ------------------------------------------------------------

func (p *parser) peek() lexer.Token {
	return p.tokens[p.pos]
}

func (p *parser) advance() lexer.Token {
	tok := p.tokens[p.pos]
	p.pos++
	return tok
}

// pushBack un-consumes the most recently advanced token.
func (p *parser) pushBack() {
	p.pos--
}

func (p *parser) expect(kind lexer.Kind) (lexer.Token, error) {
	tok := p.peek()
	if tok.Kind != kind {
		return tok, p.errorf(tok, "expected %s, got %s %q", kind, tok.Kind, tok.Text)
	}
	return p.advance(), nil
}

func (p *parser) match(kind lexer.Kind) bool {
	if p.peek().Kind != kind {
		return false
	}
	p.advance()
	return true
}

func (p *parser) errorf(tok lexer.Token, format string, args ...any) error {
	return &ParseError{Message: fmt.Sprintf(format, args...), Line: tok.Line, Col: tok.Col}
}

// -- top level ---------------------------------------------------------------

func (p *parser) parse() (*ir.Document, error) {
	for p.peek().Kind != lexer.EOF {
		tok := p.peek()
		if tok.Kind != lexer.LParen {
			return nil, p.errorf(tok, "expected '(' to start a form, got %s %q", tok.Kind, tok.Text)
		}
		if err := p.parseForm(); err != nil {
			return nil, err
		}
	}
	return p.finalize(), nil
}

func (p *parser) parseForm() error {
	p.advance() // '('

	tok := p.peek()
	if tok.Kind != lexer.Ident {
		return p.errorf(tok, "expected keyword after '(', got %s %q", tok.Kind, tok.Text)
	}

	var err error
	switch tok.Text {
	case "namespace":
		err = p.parseNamespace()
	case "model":
		err = p.parseModel()
	case "alias":
		p.advance()
		err = p.parseAliasBody()
	case "aliases":
		p.advance()
		err = p.parsePairs(p.parseAliasBody)
	case "enum":
		p.advance()
		err = p.parseEnumBody()
	case "enums":
		p.advance()
		err = p.parseGroups(p.parseEnumBody)
	case "mixin":
		p.advance()
		err = p.parseMixinBody()
	case "mixins":
		p.advance()
		err = p.parseGroups(p.parseMixinBody)
	case "choice":
		p.advance()
		err = p.parseChoiceBody()
	case "choices":
		p.advance()
		err = p.parseGroups(p.parseChoiceBody)
	case "shape":
		p.advance()
		err = p.parseShapeBody()
	case "shapes":
		p.advance()
		err = p.parseGroups(p.parseShapeBody)
	default:
		return p.errorf(tok, "unexpected keyword %q", tok.Text)
	}
	if err != nil {
		return err
	}

	_, err = p.expect(lexer.RParen)
	return err
}

// parseGroups handles the plural sugar: zero or more parenthesized singular
// bodies.
func (p *parser) parseGroups(body func() error) error {
	for p.peek().Kind == lexer.LParen {
		p.advance()
		if err := body(); err != nil {
			return err
		}
		if _, err := p.expect(lexer.RParen); err != nil {
			return err
		}
	}
	return nil
}

// parsePairs repeats a body while an identifier is next, used by the
// (aliases N1 T1 N2 T2 ...) form.
func (p *parser) parsePairs(body func() error) error {
	for p.peek().Kind == lexer.Ident {
		if err := body(); err != nil {
			return err
		}
	}
	return nil
}

// -- namespace / model -------------------------------------------------------

func (p *parser) parseNamespace() error {
	kw := p.advance() // "namespace"
	tok, err := p.expect(lexer.Ident)
	if err != nil {
		return err
	}
	if p.meta != nil && p.meta.Namespace != nil {
		return p.errorf(kw, "duplicate namespace declaration")
	}
	ns := tok.Text
	p.ensureMeta().Namespace = &ns
	return nil
}

func (p *parser) parseModel() error {
	p.advance() // "model"

	nameTok, err := p.expect(lexer.Ident)
	if err != nil {
		return err
	}

	verTok, err := p.expect(lexer.Ident)
	if err != nil {
		return err
	}
	version := strings.TrimPrefix(verTok.Text, "v")

	meta := p.ensureMeta()
	meta.Name = nameTok.Text
	meta.Version = version

	if p.peek().Kind == lexer.String {
		meta.Description = p.advance().Text
	}
	return nil
}

func (p *parser) ensureMeta() *ir.Meta {
	if p.meta == nil {
		p.meta = &ir.Meta{}
	}
	return p.meta
}

// -- alias / enum ------------------------------------------------------------

func (p *parser) parseAliasBody() error {
	nameTok, err := p.expect(lexer.Ident)
	if err != nil {
		return err
	}
	targetTok, err := p.expect(lexer.Ident)
	if err != nil {
		return err
	}
	if p.aliases == nil {
		p.aliases = ir.NewOrderedMap[string]()
	}
	p.aliases.Set(nameTok.Text, targetTok.Text)
	return nil
}

func (p *parser) parseEnumBody() error {
	nameTok, err := p.expect(lexer.Ident)
	if err != nil {
		return err
	}
	var values []string
	for p.peek().Kind == lexer.Ident {
		values = append(values, p.advance().Text)
	}
	if p.enums == nil {
		p.enums = ir.NewOrderedMap[[]string]()
	}
	p.enums.Set(nameTok.Text, values)
	return nil
}

// -- mixin -------------------------------------------------------------------

func (p *parser) parseMixinBody() error {
	nameTok, err := p.expect(lexer.Ident)
	if err != nil {
		return err
	}

	params, err := p.parseTypeParams()
	if err != nil {
		return err
	}

	use, err := p.parseUseList()
	if err != nil {
		return err
	}

	fields, err := p.parseFields()
	if err != nil {
		return err
	}

	if p.mixins == nil {
		p.mixins = ir.NewOrderedMap[*ir.Mixin]()
	}
	p.mixins.Set(nameTok.Text, &ir.Mixin{TypeParams: params, Use: use, Fields: fields})
	return nil
}

// parseTypeParams parses an optional <T, U, ...> declaration.
func (p *parser) parseTypeParams() ([]string, error) {
	if !p.match(lexer.LAngle) {
		return nil, nil
	}
	var params []string
	tok, err := p.expect(lexer.Ident)
	if err != nil {
		return nil, err
	}
	params = append(params, tok.Text)
	for p.match(lexer.Comma) {
		tok, err = p.expect(lexer.Ident)
		if err != nil {
			return nil, err
		}
		params = append(params, tok.Text)
	}
	if _, err := p.expect(lexer.RAngle); err != nil {
		return nil, err
	}
	return params, nil
}

// parseUseList parses an optional bracketed mixin-reference list.
func (p *parser) parseUseList() ([]ir.MixinRef, error) {
	if !p.match(lexer.LBracket) {
		return nil, nil
	}
	var refs []ir.MixinRef
	for p.peek().Kind == lexer.Ident {
		ref, err := p.parseMixinRef()
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	if _, err := p.expect(lexer.RBracket); err != nil {
		return nil, err
	}
	return refs, nil
}

// parseMixinRef parses Name or Name<TypeExpr, ...>. Unlike a type
// expression, a mixin reference takes no nullable suffix.
func (p *parser) parseMixinRef() (ir.MixinRef, error) {
	nameTok, err := p.expect(lexer.Ident)
	if err != nil {
		return ir.MixinRef{}, err
	}
	ref := ir.MixinRef{Name: nameTok.Text}
	if p.match(lexer.LAngle) {
		args, err := p.parseTypeArgs()
		if err != nil {
			return ir.MixinRef{}, err
		}
		if _, err := p.expect(lexer.RAngle); err != nil {
			return ir.MixinRef{}, err
		}
		ref.Args = args
	}
	return ref, nil
}

// -- choice ------------------------------------------------------------------

func (p *parser) parseChoiceBody() error {
	nameTok, err := p.expect(lexer.Ident)
	if err != nil {
		return err
	}

	choice := &ir.Choice{Variants: ir.NewOrderedMap[*ir.Fields]()}
	for {
		tok := p.peek()
		switch tok.Kind {
		case lexer.RParen, lexer.EOF:
			if p.choices == nil {
				p.choices = ir.NewOrderedMap[*ir.Choice]()
			}
			p.choices.Set(nameTok.Text, choice)
			return nil
		case lexer.LParen:
			// Sub-form: (common field...) or (Variant field...).
			p.advance()
			blockTok, err := p.expect(lexer.Ident)
			if err != nil {
				return err
			}
			fields, err := p.parseFields()
			if err != nil {
				return err
			}
			if _, err := p.expect(lexer.RParen); err != nil {
				return err
			}
			if blockTok.Text == "common" {
				choice.Common = fields
			} else {
				choice.Variants.Set(blockTok.Text, fields)
			}
		case lexer.Ident:
			// Bare variant without fields.
			choice.Variants.Set(p.advance().Text, ir.NewOrderedMap[*ir.TypeExpr]())
		default:
			return p.errorf(tok, "expected variant name or '(' in choice, got %s %q", tok.Kind, tok.Text)
		}
	}
}

// -- shape -------------------------------------------------------------------

func (p *parser) parseShapeBody() error {
	nameTok, err := p.expect(lexer.Ident)
	if err != nil {
		return err
	}

	use, err := p.parseUseList()
	if err != nil {
		return err
	}

	fields, err := p.parseFields()
	if err != nil {
		return err
	}

	if p.shapes == nil {
		p.shapes = ir.NewOrderedMap[*ir.Shape]()
	}
	p.shapes.Set(nameTok.Text, &ir.Shape{Use: use, Fields: fields})
	return nil
}

// -- fields ------------------------------------------------------------------

// parseFields consumes "name: type" pairs until the next identifier is not
// followed by ':'. That identifier is pushed back unconsumed so the caller
// can interpret it (a bare choice variant, the next alias pair, ...); any
// other token also terminates the list without being consumed.
func (p *parser) parseFields() (*ir.Fields, error) {
	fields := ir.NewOrderedMap[*ir.TypeExpr]()
	for p.peek().Kind == lexer.Ident {
		nameTok := p.advance()
		if p.peek().Kind != lexer.Colon {
			p.pushBack()
			break
		}
		p.advance() // ':'
		expr, err := p.parseTypeExpr()
		if err != nil {
			return nil, err
		}
		fields.Set(nameTok.Text, expr)
	}
	return fields, nil
}

// -- type expressions --------------------------------------------------------

// parseTypeExpr parses the shared recursive type-expression sub-grammar:
// [elem, ...], {key, value}, name, name<arg, ...>, each optionally suffixed
// with '?'.
func (p *parser) parseTypeExpr() (*ir.TypeExpr, error) {
	tok := p.peek()

	if tok.Kind == lexer.LBracket {
		p.advance()
		args, err := p.parseTypeArgs()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RBracket); err != nil {
			return nil, err
		}
		expr := ir.ListOf(args...)
		if p.match(lexer.Question) {
			expr.Nullable = true
		}
		return expr, nil
	}

	if tok.Kind == lexer.LBrace {
		p.advance()
		key, err := p.parseTypeExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.Comma); err != nil {
			return nil, err
		}
		value, err := p.parseTypeExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RBrace); err != nil {
			return nil, err
		}
		expr := ir.AssocOf(key, value)
		if p.match(lexer.Question) {
			expr.Nullable = true
		}
		return expr, nil
	}

	nameTok, err := p.expect(lexer.Ident)
	if err != nil {
		return nil, err
	}
	var expr *ir.TypeExpr
	if p.match(lexer.LAngle) {
		args, err := p.parseTypeArgs()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RAngle); err != nil {
			return nil, err
		}
		expr = ir.Named(nameTok.Text, args...)
	} else {
		expr = ir.Atom(nameTok.Text)
	}
	if p.match(lexer.Question) {
		expr.Nullable = true
	}
	return expr, nil
}

// parseTypeArgs parses one or more comma-separated type expressions.
func (p *parser) parseTypeArgs() ([]*ir.TypeExpr, error) {
	first, err := p.parseTypeExpr()
	if err != nil {
		return nil, err
	}
	args := []*ir.TypeExpr{first}
	for p.match(lexer.Comma) {
		arg, err := p.parseTypeExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return args, nil
}

// -- finalize ----------------------------------------------------------------

func (p *parser) finalize() *ir.Document {
	return &ir.Document{
		Meta:    p.meta,
		Shapes:  p.shapes,
		Choices: p.choices,
		Enums:   p.enums,
		Aliases: p.aliases,
		Mixins:  p.mixins,
	}
}
