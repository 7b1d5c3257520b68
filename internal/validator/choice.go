package validator

// checkChoices validates every choice: at least two variants besides the
// common block, and every common and variant field type resolvable. Common
// fields are validated on their own; they are not merged into variants and
// never checked for cross-duplication against them.
func (v *Validator) checkChoices() {
	if v.doc.Choices != nil && v.doc.Choices.Len() == 0 {
		v.warnf(WarnEmptySection, "choices", "%q section is empty", "choices")
		return
	}

	for _, name := range v.doc.Choices.Keys() {
		choice, _ := v.doc.Choices.Get(name)
		loc := "choices." + name

		if choice == nil {
			v.errorf(ErrTooFewVariants, loc,
				"choice %q must have at least 2 variants (has 0)", name)
			continue
		}

		if choice.Variants.Len() < 2 {
			v.errorf(ErrTooFewVariants, loc,
				"choice %q must have at least 2 variants (has %d)", name, choice.Variants.Len())
		}

		if choice.Common != nil {
			for _, fname := range choice.Common.Keys() {
				ftype, _ := choice.Common.Get(fname)
				fieldLoc := loc + ".common." + fname
				if ftype == nil {
					v.errorf(ErrBadCommonBlock, fieldLoc,
						"common field %q in choice %q has no type", fname, name)
					continue
				}
				v.resolveType(ftype, fieldLoc)
			}
		}

		for _, vname := range choice.Variants.Keys() {
			vfields, _ := choice.Variants.Get(vname)
			if vfields == nil {
				// Bare variant.
				continue
			}
			for _, fname := range vfields.Keys() {
				ftype, _ := vfields.Get(fname)
				fieldLoc := loc + "." + vname + "." + fname
				if ftype == nil {
					v.errorf(ErrBadVariant, fieldLoc,
						"field %q in variant %q of choice %q has no type", fname, vname, name)
					continue
				}
				v.resolveType(ftype, fieldLoc)
			}
		}
	}
}
