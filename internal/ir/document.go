package ir

// Fields maps field names to their type expressions in declaration order.
type Fields = OrderedMap[*TypeExpr]

// Document is a parsed Forma model. Sections are nil when the source never
// declared them; a non-nil empty section can only arise from hand-built
// documents and is flagged by the validator.
type Document struct {
	Meta    *Meta
	Shapes  *OrderedMap[*Shape]
	Choices *OrderedMap[*Choice]
	Enums   *OrderedMap[[]string]
	Aliases *OrderedMap[string]
	Mixins  *OrderedMap[*Mixin]

	// Extra holds unknown top-level section names. The parser rejects
	// unknown forms with a parse error, so only hand-built documents
	// populate this.
	Extra []string
}

// Meta holds the model header from the (model ...) and (namespace ...) forms.
type Meta struct {
	Name        string
	Version     string // leading "v" already stripped
	Description string
	Namespace   *string // nil when absent; empty string is invalid
}

// Shape is a record type: optional mixin composition plus its own fields.
type Shape struct {
	Use    []MixinRef
	Fields *Fields

	// Extra holds unknown sub-keys, settable only by hand-built documents.
	Extra []string
}

// Choice is a closed sum type. Common fields are implicitly shared by every
// variant; a bare variant has an empty field map.
type Choice struct {
	Common   *Fields // nil when no (common ...) block
	Variants *OrderedMap[*Fields]
}

// Mixin is a reusable, optionally generic field bundle. It is not itself a
// type; it only contributes fields through composition.
type Mixin struct {
	TypeParams []string
	Use        []MixinRef
	Fields     *Fields

	Extra []string
}
