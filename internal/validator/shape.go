package validator

import "github.com/forma-tools/forma/internal/ir"

// checkShapes validates every shape: its use list (mixin existence, generic
// arity, argument types), the fields contributed through composition, and
// its own declared fields. A shape field that shadows a contributed field is
// legal and takes precedence; it only draws a warning.
func (v *Validator) checkShapes() {
	if v.doc.Shapes != nil && v.doc.Shapes.Len() == 0 {
		v.warnf(WarnEmptySection, "shapes", "%q section is empty", "shapes")
		return
	}

	for _, name := range v.doc.Shapes.Keys() {
		shape, _ := v.doc.Shapes.Get(name)
		loc := "shapes." + name

		if shape == nil {
			v.errorf(ErrShapeNoFields, loc, "shape %q is missing its fields", name)
			continue
		}

		for _, key := range shape.Extra {
			v.errorf(ErrUnknownShapeKey, loc+"."+key, "unknown key %q in shape %q", key, name)
		}

		contributed := v.checkShapeUse(name, shape, loc)
		v.checkShapeFields(name, shape, loc, contributed)
	}
}

// checkShapeUse validates each mixin reference in the shape's use list and
// returns the map of composed field names to the top-level mixin that
// contributed them.
func (v *Validator) checkShapeUse(name string, shape *ir.Shape, loc string) map[string]string {
	contributed := map[string]string{} // field name -> source mixin
	useLoc := loc + ".use"

	for _, ref := range shape.Use {
		if !v.mixins[ref.Name] {
			v.errorf(ErrUnknownMixin, useLoc, "unknown mixin %q in shape %q", ref.Name, name)
			continue
		}

		v.checkArity(ref, useLoc)

		for _, arg := range ref.Args {
			v.resolveType(arg, useLoc)
		}

		if _, ok := v.mixinFields[ref.Name]; !ok {
			continue
		}
		resolved := v.resolveMixinFields(ref.Name, ref.Args, map[string]bool{})
		for _, fname := range resolved.Keys() {
			ftype, _ := resolved.Get(fname)
			if source, dup := contributed[fname]; dup {
				v.errorf(ErrMixinFieldConflict, useLoc,
					"field %q is defined in both mixin %q and mixin %q", fname, source, ref.Name)
				continue
			}
			contributed[fname] = ref.Name
			v.resolveType(ftype, useLoc+"."+ref.Name+"."+fname)
		}
	}
	return contributed
}

// checkArity compares the supplied type-argument count against the mixin's
// declared parameter count. The three mismatch cases share E086 with
// case-specific messages.
func (v *Validator) checkArity(ref ir.MixinRef, location string) {
	wanted := len(v.mixinParams[ref.Name])
	got := len(ref.Args)
	switch {
	case wanted == got:
		// Includes the both-zero case: a non-generic mixin used plainly.
	case wanted > 0 && got == 0:
		v.errorf(ErrMixinArity, location,
			"mixin %q requires %d type argument(s), got 0", ref.Name, wanted)
	case wanted == 0 && got > 0:
		v.errorf(ErrMixinArity, location,
			"mixin %q is not generic but got %d type argument(s)", ref.Name, got)
	default:
		v.errorf(ErrMixinArity, location,
			"mixin %q requires %d type argument(s), got %d", ref.Name, wanted, got)
	}
}

func (v *Validator) checkShapeFields(name string, shape *ir.Shape, loc string, contributed map[string]string) {
	if shape.Fields == nil {
		v.errorf(ErrShapeNoFields, loc, "shape %q is missing its fields", name)
		return
	}
	if shape.Fields.Len() == 0 {
		v.errorf(ErrShapeNoFields, loc+".fields", "shape %q has no fields", name)
	}

	for _, fname := range shape.Fields.Keys() {
		ftype, _ := shape.Fields.Get(fname)
		fieldLoc := loc + ".fields." + fname

		if source, ok := contributed[fname]; ok {
			v.warnf(WarnFieldShadows, fieldLoc,
				"field %q in shape %q shadows mixin field from %q", fname, name, source)
		}

		if ftype == nil {
			v.errorf(ErrBadFieldType, fieldLoc,
				"field %q in shape %q has no type", fname, name)
			continue
		}
		v.resolveType(ftype, fieldLoc)
	}
}
