package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// mappingKeys extracts the keys of a YAML mapping node in document order.
func mappingKeys(t *testing.T, n *yaml.Node) []string {
	t.Helper()
	require.Equal(t, yaml.MappingNode, n.Kind)
	var keys []string
	for i := 0; i < len(n.Content); i += 2 {
		keys = append(keys, n.Content[i].Value)
	}
	return keys
}

// mappingValue returns the value node for key within a mapping node.
func mappingValue(t *testing.T, n *yaml.Node, key string) *yaml.Node {
	t.Helper()
	require.Equal(t, yaml.MappingNode, n.Kind)
	for i := 0; i < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	t.Fatalf("key %q not found in mapping", key)
	return nil
}

// TestMarshalYAML_PreservesDeclarationOrder tests that sections, entries, and
// fields come out in the order they were declared rather than sorted.
func TestMarshalYAML_PreservesDeclarationOrder(t *testing.T) {
	shapes := NewOrderedMap[*Shape]()
	zebra := NewOrderedMap[*TypeExpr]()
	zebra.Set("stripes", Atom("int"))
	zebra.Set("age", Atom("int"))
	shapes.Set("Zebra", &Shape{Fields: zebra})
	shapes.Set("Ant", &Shape{Fields: fieldsOf("legs", Atom("int"))})

	enums := NewOrderedMap[[]string]()
	enums.Set("Mood", []string{"calm", "wild"})

	doc := &Document{
		Meta:   &Meta{Name: "Zoo", Version: "2.0", Description: "Zoo model"},
		Shapes: shapes,
		Enums:  enums,
	}

	out, err := doc.MarshalYAML()
	require.NoError(t, err)

	var root yaml.Node
	require.NoError(t, yaml.Unmarshal(out, &root))
	require.Len(t, root.Content, 1)
	top := root.Content[0]

	assert.Equal(t, []string{"meta", "shapes", "enums"}, mappingKeys(t, top))

	meta := mappingValue(t, top, "meta")
	assert.Equal(t, []string{"name", "version", "description"}, mappingKeys(t, meta))

	shapesNode := mappingValue(t, top, "shapes")
	assert.Equal(t, []string{"Zebra", "Ant"}, mappingKeys(t, shapesNode))

	zebraFields := mappingValue(t, mappingValue(t, shapesNode, "Zebra"), "fields")
	assert.Equal(t, []string{"stripes", "age"}, mappingKeys(t, zebraFields))
}

// TestMarshalYAML_RendersTypeFormsAsStrings tests that type expressions and
// mixin references appear in canonical text form, quoted as strings even when
// they contain YAML-significant characters.
func TestMarshalYAML_RendersTypeFormsAsStrings(t *testing.T) {
	fields := NewOrderedMap[*TypeExpr]()
	fields.Set("tags", ListOf(Atom("string")))
	fields.Set("extras", AssocOf(Atom("string"), Atom("json")).AsNullable())

	shapes := NewOrderedMap[*Shape]()
	shapes.Set("Bird", &Shape{
		Use:    []MixinRef{{Name: "Versioned", Args: []*TypeExpr{Atom("Bird")}}},
		Fields: fields,
	})

	doc := &Document{
		Meta:   &Meta{Name: "M", Version: "1.0"},
		Shapes: shapes,
	}

	out, err := doc.MarshalYAML()
	require.NoError(t, err)

	var decoded struct {
		Shapes map[string]struct {
			Use    []string          `yaml:"use"`
			Fields map[string]string `yaml:"fields"`
		} `yaml:"shapes"`
	}
	require.NoError(t, yaml.Unmarshal(out, &decoded))

	bird := decoded.Shapes["Bird"]
	assert.Equal(t, []string{"Versioned<Bird>"}, bird.Use)
	assert.Equal(t, "[string]", bird.Fields["tags"])
	assert.Equal(t, "{string, json}?", bird.Fields["extras"])
}

// TestMarshalYAML_OmitsAbsentSections tests that nil sections produce no keys.
func TestMarshalYAML_OmitsAbsentSections(t *testing.T) {
	doc := &Document{Meta: &Meta{Name: "M", Version: "1.0"}}
	out, err := doc.MarshalYAML()
	require.NoError(t, err)

	var root yaml.Node
	require.NoError(t, yaml.Unmarshal(out, &root))
	assert.Equal(t, []string{"meta"}, mappingKeys(t, root.Content[0]))
}
