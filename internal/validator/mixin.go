package validator

import (
	"sort"
	"strings"

	"github.com/forma-tools/forma/internal/ir"
)

// checkMixins validates every declared mixin: its structure, its use list,
// its place in the composition graph, and its own field types. Fields built
// purely from the mixin's type parameters are exempt from resolution; the
// parameter is not a concrete type until a use site supplies one.
func (v *Validator) checkMixins() {
	if v.doc.Mixins != nil && v.doc.Mixins.Len() == 0 {
		v.warnf(WarnEmptySection, "mixins", "%q section is empty", "mixins")
		return
	}

	for _, name := range v.doc.Mixins.Keys() {
		mixin, _ := v.doc.Mixins.Get(name)
		loc := "mixins." + name

		if mixin == nil {
			v.errorf(ErrBadMixinDecl, loc, "mixin %q must have fields", name)
			continue
		}

		for _, key := range mixin.Extra {
			v.errorf(ErrBadMixinDecl, loc+"."+key, "unknown key %q in mixin %q", key, name)
		}

		params := map[string]bool{}
		for _, p := range mixin.TypeParams {
			if p == "" {
				v.errorf(ErrBadTypeParams, loc+".type_params",
					"type parameter in mixin %q must be a non-empty name", name)
				continue
			}
			params[p] = true
		}

		for _, ref := range mixin.Use {
			if !v.mixins[ref.Name] {
				v.errorf(ErrBadMixinUse, loc+".use",
					"mixin %q references unknown mixin %q", name, ref.Name)
			}
		}

		v.detectCycle(name, map[string]bool{}, nil)

		if mixin.Fields == nil || mixin.Fields.Len() == 0 {
			v.errorf(ErrBadMixinDecl, loc, "mixin %q has no fields", name)
			continue
		}

		for _, fname := range mixin.Fields.Keys() {
			ftype, _ := mixin.Fields.Get(fname)
			if ftype == nil {
				continue
			}
			if !typeUsesOnlyParams(ftype, params) {
				v.resolveType(ftype, loc+"."+fname)
			}
		}
	}
}

// detectCycle walks the composition graph depth-first from name, carrying
// the set of mixins currently on the path. Each distinct cycle is reported
// once (E091) with its full path; revisiting the same cycle from another
// member is suppressed. Returns true when a cycle was found on this branch.
func (v *Validator) detectCycle(name string, visiting map[string]bool, path []string) bool {
	if visiting[name] {
		cyclePath := append(append([]string{}, path...), name)
		key := cycleKey(cyclePath, name)
		if !v.reportedCycles[key] {
			v.reportedCycles[key] = true
			v.errorf(ErrMixinCycle, "mixins."+name,
				"circular mixin composition: %s", strings.Join(cyclePath, " -> "))
		}
		return true
	}
	refs, ok := v.mixinUse[name]
	if !ok {
		return false
	}

	visiting[name] = true
	path = append(path, name)
	found := false
	for _, ref := range refs {
		if v.detectCycle(ref.Name, visiting, path) {
			found = true
			break
		}
	}
	delete(visiting, name)
	return found
}

// cycleKey canonicalizes a cycle by the set of mixins on it, so the same
// cycle discovered from a different entry point maps to the same key.
func cycleKey(path []string, repeated string) string {
	start := 0
	for i, name := range path[:len(path)-1] {
		if name == repeated {
			start = i
			break
		}
	}
	members := append([]string{}, path[start:len(path)-1]...)
	sort.Strings(members)
	return strings.Join(members, "\x00")
}

// typeUsesOnlyParams reports whether expr is built purely from the given
// type-parameter names, through any nesting of collections, associations,
// and named wrappers. Such expressions are exempt from type resolution.
func typeUsesOnlyParams(expr *ir.TypeExpr, params map[string]bool) bool {
	if expr == nil || len(params) == 0 {
		return false
	}
	switch expr.Kind {
	case ir.KindAtom:
		return params[expr.Name]
	case ir.KindList, ir.KindAssoc, ir.KindNamed:
		if len(expr.Args) == 0 {
			return false
		}
		for _, arg := range expr.Args {
			if !typeUsesOnlyParams(arg, params) {
				return false
			}
		}
		return true
	}
	return false
}

// resolveMixinFields computes the effective field map of a mixin at a use
// site: composed mixins are expanded first in declaration order, later
// entries overriding earlier ones on collision, then the mixin's own fields
// are applied on top with its type parameters substituted positionally by
// the supplied arguments. Extra arguments are dropped and missing ones leave
// the parameter symbolic; arity is diagnosed separately at the use site.
//
// The visited set stops recursion on composition cycles, which have already
// been reported by detectCycle.
func (v *Validator) resolveMixinFields(name string, args []*ir.TypeExpr, visited map[string]bool) *ir.Fields {
	out := ir.NewOrderedMap[*ir.TypeExpr]()
	if visited[name] {
		return out
	}
	branch := make(map[string]bool, len(visited)+1)
	for k := range visited {
		branch[k] = true
	}
	branch[name] = true

	for _, ref := range v.mixinUse[name] {
		if _, ok := v.mixinFields[ref.Name]; !ok {
			continue
		}
		composed := v.resolveMixinFields(ref.Name, ref.Args, branch)
		for _, fname := range composed.Keys() {
			ftype, _ := composed.Get(fname)
			out.Set(fname, ftype)
		}
	}

	subst := map[string]*ir.TypeExpr{}
	for i, param := range v.mixinParams[name] {
		if i < len(args) {
			subst[param] = args[i]
		}
	}

	fields := v.mixinFields[name]
	for _, fname := range fields.Keys() {
		ftype, _ := fields.Get(fname)
		if len(subst) > 0 {
			out.Set(fname, substitute(ftype, subst))
		} else {
			out.Set(fname, ftype)
		}
	}
	return out
}

// substitute rewrites every occurrence of a type parameter inside expr with
// its concrete argument. A bare parameter is replaced outright, keeping the
// nullable suffix; inside collections, associations, and named wrappers the
// rewrite recurses positionally. Wrapper base names are never substituted.
func substitute(expr *ir.TypeExpr, subst map[string]*ir.TypeExpr) *ir.TypeExpr {
	if expr == nil {
		return nil
	}
	if expr.Kind == ir.KindAtom {
		if replacement, ok := subst[expr.Name]; ok {
			result := replacement.Clone()
			if expr.Nullable {
				result.Nullable = true
			}
			return result
		}
		return expr
	}

	rewritten := &ir.TypeExpr{Kind: expr.Kind, Name: expr.Name, Nullable: expr.Nullable}
	rewritten.Args = make([]*ir.TypeExpr, len(expr.Args))
	for i, arg := range expr.Args {
		rewritten.Args[i] = substitute(arg, subst)
	}
	return rewritten
}
