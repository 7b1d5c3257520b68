package ir

import "strings"

// TypeKind discriminates the variants of a TypeExpr.
type TypeKind int

const (
	// KindAtom is a bare name: a declared shape/choice/enum/alias, a type
	// parameter, or an external/primitive type.
	KindAtom TypeKind = iota
	// KindNamed is a generic instantiation: name<arg, ...>.
	KindNamed
	// KindList is an anonymous ordered collection: [arg, ...].
	KindList
	// KindAssoc is an anonymous key/value association: {key, value}.
	KindAssoc
)

// TypeExpr is a parsed type expression. It is built once by the parser and
// pattern-matched by the validator and the substitution engine, so the
// canonical text form never has to be re-derived by string splitting.
type TypeExpr struct {
	Kind     TypeKind
	Name     string      // base name for KindAtom and KindNamed
	Args     []*TypeExpr // arguments for KindNamed/KindList; {key, value} for KindAssoc
	Nullable bool
}

// Atom returns a bare-name type expression.
func Atom(name string) *TypeExpr {
	return &TypeExpr{Kind: KindAtom, Name: name}
}

// Named returns a generic instantiation name<args...>.
func Named(name string, args ...*TypeExpr) *TypeExpr {
	return &TypeExpr{Kind: KindNamed, Name: name, Args: args}
}

// ListOf returns an anonymous collection [args...].
func ListOf(args ...*TypeExpr) *TypeExpr {
	return &TypeExpr{Kind: KindList, Args: args}
}

// AssocOf returns an anonymous association {key, value}.
func AssocOf(key, value *TypeExpr) *TypeExpr {
	return &TypeExpr{Kind: KindAssoc, Args: []*TypeExpr{key, value}}
}

// AsNullable returns the receiver with the nullable flag set.
func (t *TypeExpr) AsNullable() *TypeExpr {
	t.Nullable = true
	return t
}

// String renders the canonical text form: "Bird", "tree<T>?", "[int, string]",
// "{string, json}". Used in diagnostics and rendered output.
func (t *TypeExpr) String() string {
	if t == nil {
		return ""
	}
	var b strings.Builder
	switch t.Kind {
	case KindNamed:
		b.WriteString(t.Name)
		b.WriteByte('<')
		writeArgs(&b, t.Args)
		b.WriteByte('>')
	case KindList:
		b.WriteByte('[')
		writeArgs(&b, t.Args)
		b.WriteByte(']')
	case KindAssoc:
		b.WriteByte('{')
		writeArgs(&b, t.Args)
		b.WriteByte('}')
	default:
		b.WriteString(t.Name)
	}
	if t.Nullable {
		b.WriteByte('?')
	}
	return b.String()
}

func writeArgs(b *strings.Builder, args []*TypeExpr) {
	for i, a := range args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.String())
	}
}

// Clone returns a deep copy. The substitution engine clones before rewriting
// so documents stay immutable.
func (t *TypeExpr) Clone() *TypeExpr {
	if t == nil {
		return nil
	}
	c := &TypeExpr{Kind: t.Kind, Name: t.Name, Nullable: t.Nullable}
	if len(t.Args) > 0 {
		c.Args = make([]*TypeExpr, len(t.Args))
		for i, a := range t.Args {
			c.Args[i] = a.Clone()
		}
	}
	return c
}

// MixinRef is a reference to a mixin by name, optionally supplying concrete
// type arguments for the mixin's type parameters. It appears in shape and
// mixin `use` lists.
type MixinRef struct {
	Name string
	Args []*TypeExpr
}

// String renders "Name" or "Name<arg, ...>".
func (r MixinRef) String() string {
	if len(r.Args) == 0 {
		return r.Name
	}
	var b strings.Builder
	b.WriteString(r.Name)
	b.WriteByte('<')
	writeArgs(&b, r.Args)
	b.WriteByte('>')
	return b.String()
}
