package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces canonical JSON for fingerprinting. Object keys
// are sorted by UTF-16 code units, strings are NFC normalized, and HTML
// characters are not escaped, so the same document always serializes to the
// same bytes regardless of how its sections were assembled.
//
// Supported value types are string, []any, and map[string]any — the value
// domain of CanonicalValue.
func MarshalCanonical(v any) ([]byte, error) {
	switch val := v.(type) {
	case string:
		return marshalCanonicalString(val), nil
	case []any:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, err := MarshalCanonical(elem)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			buf.Write(b)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	case map[string]any:
		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, k := range sortedKeysUTF16(val) {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.Write(marshalCanonicalString(k))
			buf.WriteByte(':')
			b, err := MarshalCanonical(val[k])
			if err != nil {
				return nil, fmt.Errorf("object[%q]: %w", k, err)
			}
			buf.Write(b)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported type for canonical JSON: %T", v)
	}
}

// marshalCanonicalString encodes a string with NFC normalization and without
// HTML escaping.
func marshalCanonicalString(s string) []byte {
	normalized := norm.NFC.String(s)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding a plain string cannot fail.
	_ = enc.Encode(normalized)

	out := buf.Bytes()
	// json.Encoder appends a trailing newline.
	if n := len(out); n > 0 && out[n-1] == '\n' {
		out = out[:n-1]
	}
	return out
}

// sortedKeysUTF16 returns the map keys ordered by UTF-16 code units, the key
// ordering canonical JSON requires (it differs from UTF-8 byte order for
// characters outside the BMP).
func sortedKeysUTF16(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return lessUTF16(keys[i], keys[j])
	})
	return keys
}

func lessUTF16(a, b string) bool {
	ua := utf16.Encode([]rune(a))
	ub := utf16.Encode([]rune(b))
	for i := 0; i < len(ua) && i < len(ub); i++ {
		if ua[i] != ub[i] {
			return ua[i] < ub[i]
		}
	}
	return len(ua) < len(ub)
}

// CanonicalValue converts the document to the plain value domain used by
// MarshalCanonical. Type expressions and mixin references are rendered in
// their canonical text form.
func (d *Document) CanonicalValue() map[string]any {
	out := map[string]any{}

	if d.Meta != nil {
		meta := map[string]any{
			"name":    d.Meta.Name,
			"version": d.Meta.Version,
		}
		if d.Meta.Description != "" {
			meta["description"] = d.Meta.Description
		}
		if d.Meta.Namespace != nil {
			meta["namespace"] = *d.Meta.Namespace
		}
		out["meta"] = meta
	}

	if d.Shapes.Len() > 0 {
		shapes := map[string]any{}
		for _, name := range d.Shapes.Keys() {
			shape, _ := d.Shapes.Get(name)
			body := map[string]any{"fields": fieldsValue(shape.Fields)}
			if len(shape.Use) > 0 {
				body["use"] = refsValue(shape.Use)
			}
			shapes[name] = body
		}
		out["shapes"] = shapes
	}

	if d.Choices.Len() > 0 {
		choices := map[string]any{}
		for _, name := range d.Choices.Keys() {
			choice, _ := d.Choices.Get(name)
			body := map[string]any{}
			if choice.Common != nil {
				body["common"] = fieldsValue(choice.Common)
			}
			for _, vname := range choice.Variants.Keys() {
				vfields, _ := choice.Variants.Get(vname)
				body[vname] = fieldsValue(vfields)
			}
			choices[name] = body
		}
		out["choices"] = choices
	}

	if d.Enums.Len() > 0 {
		enums := map[string]any{}
		for _, name := range d.Enums.Keys() {
			values, _ := d.Enums.Get(name)
			list := make([]any, len(values))
			for i, v := range values {
				list[i] = v
			}
			enums[name] = list
		}
		out["enums"] = enums
	}

	if d.Aliases.Len() > 0 {
		aliases := map[string]any{}
		for _, name := range d.Aliases.Keys() {
			target, _ := d.Aliases.Get(name)
			aliases[name] = target
		}
		out["aliases"] = aliases
	}

	if d.Mixins.Len() > 0 {
		mixins := map[string]any{}
		for _, name := range d.Mixins.Keys() {
			mixin, _ := d.Mixins.Get(name)
			body := map[string]any{"fields": fieldsValue(mixin.Fields)}
			if len(mixin.TypeParams) > 0 {
				params := make([]any, len(mixin.TypeParams))
				for i, p := range mixin.TypeParams {
					params[i] = p
				}
				body["type_params"] = params
			}
			if len(mixin.Use) > 0 {
				body["use"] = refsValue(mixin.Use)
			}
			mixins[name] = body
		}
		out["mixins"] = mixins
	}

	return out
}

func fieldsValue(fields *Fields) map[string]any {
	out := map[string]any{}
	for _, fname := range fields.Keys() {
		ftype, _ := fields.Get(fname)
		out[fname] = ftype.String()
	}
	return out
}

func refsValue(refs []MixinRef) []any {
	out := make([]any, len(refs))
	for i, r := range refs {
		out[i] = r.String()
	}
	return out
}
