package validator

import "fmt"

// Level distinguishes errors from warnings. Errors make the document
// invalid; warnings mark discouraged-but-legal constructs.
type Level string

const (
	LevelError   Level = "error"
	LevelWarning Level = "warning"
)

// Diagnostic codes. Errors are E0xx, warnings W0xx; codes are stable and
// part of the tool's output contract.
const (
	ErrMetaMissing        = "E001" // meta section absent
	ErrMetaName           = "E002" // meta.name missing or empty
	ErrMetaVersion        = "E003" // meta.version missing or empty
	ErrMetaNamespace      = "E004" // meta.namespace present but empty
	ErrUnknownTopLevelKey = "E010" // unknown top-level section
	ErrBadTypeExpr        = "E041" // malformed type expression
	ErrMixinAsType        = "E042" // mixin referenced directly as a field type
	ErrTooFewVariants     = "E050" // choice needs at least two variants
	ErrBadVariant         = "E051" // variant field without a type
	ErrBadCommonBlock     = "E053" // common field without a type
	ErrEnumTooFewValues   = "E055" // enum needs at least two values
	ErrEnumDuplicateValue = "E056" // repeated value within one enum
	ErrAliasToMixin       = "E058" // alias target is a mixin
	ErrBadMixinDecl       = "E060" // malformed mixin declaration
	ErrBadTypeParams      = "E065" // malformed type-parameter list
	ErrShapeNoFields      = "E070" // shape without fields
	ErrBadFieldType       = "E075" // shape field without a type
	ErrUnknownMixin       = "E084" // shape uses an undeclared mixin
	ErrUnknownShapeKey    = "E085" // unknown sub-key in a shape
	ErrMixinArity         = "E086" // type-argument count mismatch at a use site
	ErrMixinFieldConflict = "E090" // two composed mixins contribute the same field
	ErrMixinCycle         = "E091" // circular mixin composition
	ErrBadMixinUse        = "E092" // malformed or unresolved mixin use entry
	ErrNameCollision      = "E100" // same name declared in two sections

	WarnFieldShadows    = "W012" // shape field shadows a composed mixin field
	WarnNoDescription   = "W013" // meta.description absent
	WarnNamedWrapper    = "W015" // use of a named generic wrapper
	WarnEmptySection    = "W017" // declared section is empty
	WarnNullableElement = "W019" // nullable element inside a collection
)

// Diagnostic is a single accumulated finding. Location is a dotted path into
// the document, e.g. "shapes.Bird.fields.wings".
type Diagnostic struct {
	Code     string
	Level    Level
	Message  string
	Location string
}

// String renders the stable text form:
//
//	error[E070]: shape "Bird" has no fields
//	  --> shapes.Bird.fields
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s[%s]: %s\n  --> %s", d.Level, d.Code, d.Message, d.Location)
}
