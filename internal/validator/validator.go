// Package validator performs semantic validation of a parsed Forma document.
//
// The validator is a pure function of the document: it builds fresh indices
// per run, never mutates its input, and accumulates every finding instead of
// stopping at the first. Running it twice on the same document yields the
// same diagnostics in the same order.
package validator

import (
	"fmt"

	"github.com/forma-tools/forma/internal/ir"
)

// Validator checks one document. Create with New, run with Validate.
type Validator struct {
	doc *ir.Document

	errors   []Diagnostic
	warnings []Diagnostic

	// Type registry, populated by buildRegistry.
	shapes  map[string]bool
	choices map[string]bool
	enums   map[string]bool
	aliases map[string]bool
	mixins  map[string]bool

	// Mixin side tables keyed by mixin name.
	mixinFields map[string]*ir.Fields
	mixinParams map[string][]string
	mixinUse    map[string][]ir.MixinRef

	// Composition cycles already reported, keyed by canonical member set.
	reportedCycles map[string]bool
}

// New creates a validator for doc.
func New(doc *ir.Document) *Validator {
	return &Validator{
		doc:            doc,
		shapes:         map[string]bool{},
		choices:        map[string]bool{},
		enums:          map[string]bool{},
		aliases:        map[string]bool{},
		mixins:         map[string]bool{},
		mixinFields:    map[string]*ir.Fields{},
		mixinParams:    map[string][]string{},
		mixinUse:       map[string][]ir.MixinRef{},
		reportedCycles: map[string]bool{},
	}
}

// Validate runs every check and returns the accumulated errors and warnings,
// each in a fixed traversal order: registry and collisions, top-level keys,
// meta, aliases, enums, mixins, choices, shapes.
func (v *Validator) Validate() (errors, warnings []Diagnostic) {
	v.buildRegistry()
	v.checkNameCollisions()
	v.checkTopLevelKeys()
	v.checkMeta()
	v.checkAliases()
	v.checkEnums()
	v.checkMixins()
	v.checkChoices()
	v.checkShapes()
	return v.errors, v.warnings
}

func (v *Validator) errorf(code, location, format string, args ...any) {
	v.errors = append(v.errors, Diagnostic{
		Code:     code,
		Level:    LevelError,
		Message:  fmt.Sprintf(format, args...),
		Location: location,
	})
}

func (v *Validator) warnf(code, location, format string, args ...any) {
	v.warnings = append(v.warnings, Diagnostic{
		Code:     code,
		Level:    LevelWarning,
		Message:  fmt.Sprintf(format, args...),
		Location: location,
	})
}

// -- registry ----------------------------------------------------------------

func (v *Validator) buildRegistry() {
	for _, name := range v.doc.Shapes.Keys() {
		v.shapes[name] = true
	}
	for _, name := range v.doc.Choices.Keys() {
		v.choices[name] = true
	}
	for _, name := range v.doc.Enums.Keys() {
		v.enums[name] = true
	}
	for _, name := range v.doc.Aliases.Keys() {
		v.aliases[name] = true
	}
	for _, name := range v.doc.Mixins.Keys() {
		v.mixins[name] = true
		mixin, _ := v.doc.Mixins.Get(name)
		if mixin == nil {
			continue
		}
		if mixin.Fields != nil {
			v.mixinFields[name] = mixin.Fields
		}
		if len(mixin.TypeParams) > 0 {
			v.mixinParams[name] = mixin.TypeParams
		}
		if len(mixin.Use) > 0 {
			v.mixinUse[name] = mixin.Use
		}
	}
}

// checkNameCollisions reports E100 when one identifier is declared in two
// sections. Mixins are not types but still may not collide with type names.
func (v *Validator) checkNameCollisions() {
	seen := map[string]string{} // name -> section
	sections := []struct {
		name string
		keys []string
	}{
		{"shapes", v.doc.Shapes.Keys()},
		{"choices", v.doc.Choices.Keys()},
		{"enums", v.doc.Enums.Keys()},
		{"aliases", v.doc.Aliases.Keys()},
		{"mixins", v.doc.Mixins.Keys()},
	}
	for _, section := range sections {
		for _, name := range section.keys {
			if prev, ok := seen[name]; ok {
				v.errorf(ErrNameCollision, section.name+"."+name,
					"%q is defined in both %q and %q", name, prev, section.name)
				continue
			}
			seen[name] = section.name
		}
	}
}

// -- top level ---------------------------------------------------------------

func (v *Validator) checkTopLevelKeys() {
	for _, key := range v.doc.Extra {
		v.errorf(ErrUnknownTopLevelKey, key, "unknown top-level key %q", key)
	}
}

// -- meta --------------------------------------------------------------------

func (v *Validator) checkMeta() {
	meta := v.doc.Meta
	if meta == nil {
		v.errorf(ErrMetaMissing, "meta", "%q section is missing", "meta")
		return
	}
	if meta.Name == "" {
		v.errorf(ErrMetaName, "meta.name", "%q is missing or empty", "meta.name")
	}
	if meta.Version == "" {
		v.errorf(ErrMetaVersion, "meta.version", "%q is missing or empty", "meta.version")
	}
	if meta.Description == "" {
		v.warnf(WarnNoDescription, "meta", "%q is missing", "meta.description")
	}
	if meta.Namespace != nil && *meta.Namespace == "" {
		v.errorf(ErrMetaNamespace, "meta.namespace", "%q must be a non-empty string", "meta.namespace")
	}
}

// -- aliases -----------------------------------------------------------------

func (v *Validator) checkAliases() {
	for _, name := range v.doc.Aliases.Keys() {
		target, _ := v.doc.Aliases.Get(name)
		loc := "aliases." + name
		if target == "" {
			v.errorf(ErrBadTypeExpr, loc, "alias %q has an empty target", name)
			continue
		}
		if v.mixins[target] {
			v.errorf(ErrAliasToMixin, loc,
				"alias %q targets mixin %q; mixins cannot be used as types", name, target)
		}
	}
}

// -- enums -------------------------------------------------------------------

func (v *Validator) checkEnums() {
	if v.doc.Enums != nil && v.doc.Enums.Len() == 0 {
		v.warnf(WarnEmptySection, "enums", "%q section is empty", "enums")
		return
	}
	for _, name := range v.doc.Enums.Keys() {
		values, _ := v.doc.Enums.Get(name)
		loc := "enums." + name
		if len(values) < 2 {
			v.errorf(ErrEnumTooFewValues, loc,
				"enum %q must have at least 2 values (has %d)", name, len(values))
		}
		seen := map[string]bool{}
		for _, value := range values {
			if seen[value] {
				v.errorf(ErrEnumDuplicateValue, loc,
					"enum %q repeats value %q", name, value)
			}
			seen[value] = true
		}
	}
}
