package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forma-tools/forma/internal/ir"
)

// TestValidate_MixinCycle tests that a two-mixin composition cycle is
// reported exactly once, with the full path in the message.
func TestValidate_MixinCycle(t *testing.T) {
	errors, _ := validate(t, `
		(model M v1.0 "d")
		(mixin A [B] a: int)
		(mixin B [A] b: int)
	`)
	require.Equal(t, []string{ErrMixinCycle}, codesOf(errors))
	assert.Equal(t, "circular mixin composition: A -> B -> A", errors[0].Message)
	assert.Equal(t, "mixins.A", errors[0].Location)
}

// TestValidate_MixinSelfCycle tests the one-mixin cycle.
func TestValidate_MixinSelfCycle(t *testing.T) {
	errors, _ := validate(t, `
		(model M v1.0 "d")
		(mixin Loop [Loop] x: int)
	`)
	require.Equal(t, []string{ErrMixinCycle}, codesOf(errors))
	assert.Equal(t, "circular mixin composition: Loop -> Loop", errors[0].Message)
}

// TestValidate_CyclicMixinUseTerminates tests that a shape composing a cyclic
// mixin still validates: resolution stops at the cycle and the contributed
// fields from one full pass are type-checked.
func TestValidate_CyclicMixinUseTerminates(t *testing.T) {
	errors, _ := validate(t, `
		(model M v1.0 "d")
		(mixin A [B] a: int)
		(mixin B [A] b: int)
		(shape S [A] own: string)
	`)
	assert.Equal(t, []string{ErrMixinCycle}, codesOf(errors))
}

// TestValidate_UnknownMixinInUse tests E092 for a mixin composing an
// undeclared mixin, and E084 for a shape doing the same.
func TestValidate_UnknownMixinInUse(t *testing.T) {
	errors, _ := validate(t, `
		(model M v1.0 "d")
		(mixin A [Ghost] a: int)
		(shape S [Phantom] x: int)
	`)
	require.Equal(t, []string{ErrBadMixinUse, ErrUnknownMixin}, codesOf(errors))
	assert.Equal(t, "mixins.A.use", errors[0].Location)
	assert.Equal(t, "shapes.S.use", errors[1].Location)
}

// TestValidate_MixinAsFieldType tests E042: a mixin name may only appear in a
// use list, never as a field type.
func TestValidate_MixinAsFieldType(t *testing.T) {
	errors, _ := validate(t, `
		(model M v1.0 "d")
		(mixin Tracked created: timestamp)
		(shape S t: Tracked)
	`)
	require.Equal(t, []string{ErrMixinAsType}, codesOf(errors))
	assert.Equal(t, "shapes.S.fields.t", errors[0].Location)
}

// TestValidate_MixinWithoutFields tests E060 for an empty mixin body.
func TestValidate_MixinWithoutFields(t *testing.T) {
	errors, _ := validate(t, `
		(model M v1.0 "d")
		(mixin Hollow)
	`)
	require.Equal(t, []string{ErrBadMixinDecl}, codesOf(errors))
	assert.Contains(t, errors[0].Message, "has no fields")
}

// TestValidate_MixinParamFieldsSkipResolution tests that a field built purely
// from type parameters draws no diagnostics even though the parameter name
// resolves to nothing.
func TestValidate_MixinParamFieldsSkipResolution(t *testing.T) {
	errors, warnings := validate(t, `
		(model M v1.0 "d")
		(mixin V<T> current: T history: [T] index: {string, T})
		(shape S [V<Bird>] x: int)
		(shape Bird name: string)
	`)
	assert.Empty(t, errors)
	assert.Empty(t, warnings)
}

// TestResolveMixinFields_TransitiveOverride tests composed-field resolution:
// the composing mixin's own field silently overrides the composed one, and
// composed fields come first in order.
func TestResolveMixinFields_TransitiveOverride(t *testing.T) {
	doc := mustParse(t, `
		(mixin B f: int g: int)
		(mixin A [B] g: string a: int)
	`)
	v := New(doc)
	v.buildRegistry()

	fields := v.resolveMixinFields("A", nil, map[string]bool{})
	assert.Equal(t, []string{"f", "g", "a"}, fields.Keys())

	g, _ := fields.Get("g")
	assert.Equal(t, "string", g.String())
	f, _ := fields.Get("f")
	assert.Equal(t, "int", f.String())
}

// TestResolveMixinFields_Substitution tests positional parameter substitution
// at a use site. Substitution applies to the mixin's own fields; a composed
// generic receives its arguments as written in the use list, so an inner
// parameter name stays symbolic.
func TestResolveMixinFields_Substitution(t *testing.T) {
	doc := mustParse(t, `
		(mixin Inner<U> latest: U)
		(mixin Outer<T> [Inner<T>] current: T)
	`)
	v := New(doc)
	v.buildRegistry()

	fields := v.resolveMixinFields("Outer", []*ir.TypeExpr{ir.Atom("Bird")}, map[string]bool{})
	assert.Equal(t, []string{"latest", "current"}, fields.Keys())

	current, _ := fields.Get("current")
	assert.Equal(t, "Bird", current.String())
	latest, _ := fields.Get("latest")
	assert.Equal(t, "T", latest.String())
}

// TestSubstitute tests the rewrite rules: bare parameters are replaced with
// the nullable suffix preserved, nesting recurses, and wrapper base names are
// never substituted.
func TestSubstitute(t *testing.T) {
	subst := map[string]*ir.TypeExpr{"T": ir.Atom("Bird")}

	tests := []struct {
		name string
		expr *ir.TypeExpr
		want string
	}{
		{"bare", ir.Atom("T"), "Bird"},
		{"nullable bare", ir.Atom("T").AsNullable(), "Bird?"},
		{"inside list", ir.ListOf(ir.Atom("T").AsNullable()), "[Bird?]"},
		{"inside assoc", ir.AssocOf(ir.Atom("string"), ir.Atom("T")).AsNullable(), "{string, Bird}?"},
		{"inside wrapper", ir.Named("tree", ir.Atom("T")), "tree<Bird>"},
		{"wrapper base untouched", ir.Named("T", ir.Atom("int")), "T<int>"},
		{"non-parameter untouched", ir.Atom("string"), "string"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, substitute(tt.expr, subst).String())
		})
	}
}

// TestSubstitute_NullableReplacementStaysNullable tests that a nullable
// argument stays nullable when substituted for a plain parameter.
func TestSubstitute_NullableReplacementStaysNullable(t *testing.T) {
	subst := map[string]*ir.TypeExpr{"T": ir.Atom("Bird").AsNullable()}
	assert.Equal(t, "Bird?", substitute(ir.Atom("T"), subst).String())
}

// TestTypeUsesOnlyParams tests the resolution-exemption predicate.
func TestTypeUsesOnlyParams(t *testing.T) {
	params := map[string]bool{"T": true, "U": true}

	tests := []struct {
		name string
		expr *ir.TypeExpr
		want bool
	}{
		{"bare param", ir.Atom("T"), true},
		{"list of param", ir.ListOf(ir.Atom("T")), true},
		{"assoc of params", ir.AssocOf(ir.Atom("T"), ir.Atom("U")), true},
		{"wrapped param", ir.Named("tree", ir.Atom("T")), true},
		{"mixed list", ir.ListOf(ir.Atom("T"), ir.Atom("int")), false},
		{"concrete", ir.Atom("int"), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, typeUsesOnlyParams(tt.expr, params))
		})
	}
}
