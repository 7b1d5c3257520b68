package ir

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

// MarshalYAML renders the document as YAML with sections and fields in
// declaration order. Type expressions and mixin references appear in their
// canonical text form.
func (d *Document) MarshalYAML() ([]byte, error) {
	root := mappingNode()

	if d.Meta != nil {
		meta := mappingNode()
		appendPair(meta, "name", scalarNode(d.Meta.Name))
		appendPair(meta, "version", scalarNode(d.Meta.Version))
		if d.Meta.Description != "" {
			appendPair(meta, "description", scalarNode(d.Meta.Description))
		}
		if d.Meta.Namespace != nil {
			appendPair(meta, "namespace", scalarNode(*d.Meta.Namespace))
		}
		appendPair(root, "meta", meta)
	}

	if d.Shapes.Len() > 0 {
		shapes := mappingNode()
		for _, name := range d.Shapes.Keys() {
			shape, _ := d.Shapes.Get(name)
			appendPair(shapes, name, shapeNode(shape))
		}
		appendPair(root, "shapes", shapes)
	}

	if d.Choices.Len() > 0 {
		choices := mappingNode()
		for _, name := range d.Choices.Keys() {
			choice, _ := d.Choices.Get(name)
			appendPair(choices, name, choiceNode(choice))
		}
		appendPair(root, "choices", choices)
	}

	if d.Enums.Len() > 0 {
		enums := mappingNode()
		for _, name := range d.Enums.Keys() {
			values, _ := d.Enums.Get(name)
			seq := sequenceNode()
			for _, v := range values {
				seq.Content = append(seq.Content, scalarNode(v))
			}
			appendPair(enums, name, seq)
		}
		appendPair(root, "enums", enums)
	}

	if d.Aliases.Len() > 0 {
		aliases := mappingNode()
		for _, name := range d.Aliases.Keys() {
			target, _ := d.Aliases.Get(name)
			appendPair(aliases, name, scalarNode(target))
		}
		appendPair(root, "aliases", aliases)
	}

	if d.Mixins.Len() > 0 {
		mixins := mappingNode()
		for _, name := range d.Mixins.Keys() {
			mixin, _ := d.Mixins.Get(name)
			appendPair(mixins, name, mixinNode(mixin))
		}
		appendPair(root, "mixins", mixins)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func shapeNode(s *Shape) *yaml.Node {
	n := mappingNode()
	if len(s.Use) > 0 {
		appendPair(n, "use", mixinRefsNode(s.Use))
	}
	appendPair(n, "fields", fieldsNode(s.Fields))
	return n
}

func choiceNode(c *Choice) *yaml.Node {
	n := mappingNode()
	if c.Common != nil {
		appendPair(n, "common", fieldsNode(c.Common))
	}
	for _, vname := range c.Variants.Keys() {
		vfields, _ := c.Variants.Get(vname)
		appendPair(n, vname, fieldsNode(vfields))
	}
	return n
}

func mixinNode(m *Mixin) *yaml.Node {
	n := mappingNode()
	if len(m.TypeParams) > 0 {
		seq := sequenceNode()
		for _, p := range m.TypeParams {
			seq.Content = append(seq.Content, scalarNode(p))
		}
		appendPair(n, "type_params", seq)
	}
	if len(m.Use) > 0 {
		appendPair(n, "use", mixinRefsNode(m.Use))
	}
	appendPair(n, "fields", fieldsNode(m.Fields))
	return n
}

func mixinRefsNode(refs []MixinRef) *yaml.Node {
	seq := sequenceNode()
	for _, r := range refs {
		seq.Content = append(seq.Content, scalarNode(r.String()))
	}
	return seq
}

func fieldsNode(fields *Fields) *yaml.Node {
	n := mappingNode()
	for _, fname := range fields.Keys() {
		ftype, _ := fields.Get(fname)
		appendPair(n, fname, scalarNode(ftype.String()))
	}
	return n
}

func mappingNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

func sequenceNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
}

func scalarNode(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

func appendPair(m *yaml.Node, key string, value *yaml.Node) {
	m.Content = append(m.Content, scalarNode(key), value)
}
