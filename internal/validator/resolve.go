package validator

import "github.com/forma-tools/forma/internal/ir"

// resolveType checks a type expression for structural validity, emitting
// diagnostics as side effects. It reports whether the expression is valid;
// warnings never affect the result and never stop recursion.
//
// A bare name resolves against declared shapes, choices, enums, and aliases.
// A name declared nowhere is a valid atom (open-world: primitives and
// external types pass without warning). A mixin name is an error: mixins are
// only usable through composition.
func (v *Validator) resolveType(expr *ir.TypeExpr, location string) bool {
	if expr == nil {
		v.errorf(ErrBadTypeExpr, location, "empty type expression")
		return false
	}

	switch expr.Kind {
	case ir.KindList:
		for _, arg := range expr.Args {
			if arg != nil && arg.Nullable {
				v.warnf(WarnNullableElement, location,
					"nullable element type %q inside collection - nullable collection elements are discouraged", arg.String())
			}
			v.resolveType(arg, location)
		}
		return true

	case ir.KindAssoc:
		if len(expr.Args) != 2 {
			v.errorf(ErrBadTypeExpr, location,
				"association {K, V} requires exactly 2 type arguments, got %d", len(expr.Args))
			return false
		}
		for _, arg := range expr.Args {
			v.resolveType(arg, location)
		}
		return true

	case ir.KindNamed:
		v.warnf(WarnNamedWrapper, location, "named wrapper %q", expr.Name)
		for _, arg := range expr.Args {
			if arg != nil && arg.Nullable {
				v.warnf(WarnNullableElement, location,
					"nullable element type %q inside wrapper %q - nullable collection elements are discouraged", arg.String(), expr.Name)
			}
			v.resolveType(arg, location)
		}
		return true

	default: // ir.KindAtom
		if expr.Name == "" {
			v.errorf(ErrBadTypeExpr, location, "empty type expression")
			return false
		}
		if v.shapes[expr.Name] || v.choices[expr.Name] || v.enums[expr.Name] || v.aliases[expr.Name] {
			return true
		}
		if v.mixins[expr.Name] {
			v.errorf(ErrMixinAsType, location,
				"mixin %q cannot be used as a field type (use a shape instead)", expr.Name)
			return false
		}
		// Atom: any unresolved name is valid.
		return true
	}
}
