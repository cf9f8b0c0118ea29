// Package frontmatter reads and writes the YAML metadata block carried at the
// top of markdown documents between --- delimiters. Values keep their literal
// scalar typing (string, number, boolean, string list) and their document
// order, so parse → mutate one field → serialize reproduces every untouched
// field.
package frontmatter

import (
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind discriminates the closed set of frontmatter value types.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBool
	KindList
)

// Value is a tagged frontmatter value.
type Value struct {
	Kind Kind
	Str  string
	Num  float64
	Bool bool
	List []string
}

// String builds a string Value.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Number builds a numeric Value.
func Number(n float64) Value { return Value{Kind: KindNumber, Num: n} }

// Boolean builds a boolean Value.
func Boolean(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// List builds a string-list Value.
func List(items ...string) Value { return Value{Kind: KindList, List: items} }

type field struct {
	name  string
	value Value
}

// Metadata is an ordered mapping of frontmatter fields. The zero value is an
// empty mapping ready for use.
type Metadata struct {
	fields []field
}

// Get returns the value for name and whether it is present.
func (m *Metadata) Get(name string) (Value, bool) {
	for _, f := range m.fields {
		if f.name == name {
			return f.value, true
		}
	}
	return Value{}, false
}

// GetString returns the string form of a field, or "" when absent or not a
// string.
func (m *Metadata) GetString(name string) string {
	v, ok := m.Get(name)
	if !ok || v.Kind != KindString {
		return ""
	}
	return v.Str
}

// Set updates an existing field in place, preserving its position, or appends
// a new one.
func (m *Metadata) Set(name string, v Value) {
	for i, f := range m.fields {
		if f.name == name {
			m.fields[i].value = v
			return
		}
	}
	m.fields = append(m.fields, field{name: name, value: v})
}

// Len reports the number of fields.
func (m *Metadata) Len() int { return len(m.fields) }

// Names returns the field names in document order.
func (m *Metadata) Names() []string {
	names := make([]string, len(m.fields))
	for i, f := range m.fields {
		names[i] = f.name
	}
	return names
}

const delim = "---\n"

// Parse splits raw document text into its metadata and body. When the text
// does not open with a --- delimiter, or the block is not valid YAML, the
// metadata is empty and the body is the entire input.
func Parse(raw string) (*Metadata, string) {
	meta := &Metadata{}
	if !strings.HasPrefix(raw, delim) {
		return meta, raw
	}

	rest := raw[len(delim):]
	idx := strings.Index(rest, "\n---")
	if idx < 0 {
		return meta, raw
	}

	block := rest[:idx]
	body := rest[idx+len("\n---"):]
	if len(body) > 0 && body[0] == '\n' {
		body = body[1:]
	}

	var node yaml.Node
	if err := yaml.Unmarshal([]byte(block), &node); err != nil {
		return meta, raw
	}
	if len(node.Content) == 0 || node.Content[0].Kind != yaml.MappingNode {
		return meta, body
	}

	mapping := node.Content[0]
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key := mapping.Content[i]
		val := mapping.Content[i+1]
		if v, ok := valueFromNode(val); ok {
			meta.fields = append(meta.fields, field{name: key.Value, value: v})
		}
	}
	return meta, body
}

func valueFromNode(n *yaml.Node) (Value, bool) {
	switch n.Kind {
	case yaml.ScalarNode:
		switch n.Tag {
		case "!!int":
			i, err := strconv.ParseInt(n.Value, 10, 64)
			if err != nil {
				return String(n.Value), true
			}
			return Number(float64(i)), true
		case "!!float":
			f, err := strconv.ParseFloat(n.Value, 64)
			if err != nil {
				return String(n.Value), true
			}
			return Number(f), true
		case "!!bool":
			b, err := strconv.ParseBool(n.Value)
			if err != nil {
				return String(n.Value), true
			}
			return Boolean(b), true
		default:
			return String(n.Value), true
		}
	case yaml.SequenceNode:
		items := make([]string, 0, len(n.Content))
		for _, c := range n.Content {
			if c.Kind == yaml.ScalarNode {
				items = append(items, c.Value)
			}
		}
		return List(items...), true
	default:
		// Nested mappings are outside the supported value set.
		return Value{}, false
	}
}

// Serialize renders metadata and body back into a complete document. An empty
// metadata mapping yields the body unchanged, with no delimiters.
func Serialize(meta *Metadata, body string) string {
	if meta == nil || len(meta.fields) == 0 {
		return body
	}

	mapping := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range meta.fields {
		mapping.Content = append(mapping.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.name},
			nodeFromValue(f.value),
		)
	}

	out, err := yaml.Marshal(mapping)
	if err != nil {
		return body
	}
	return delim + string(out) + "---\n" + body
}

func nodeFromValue(v Value) *yaml.Node {
	switch v.Kind {
	case KindNumber:
		if v.Num == math.Trunc(v.Num) && !math.IsInf(v.Num, 0) {
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(int64(v.Num), 10)}
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: strconv.FormatFloat(v.Num, 'g', -1, 64)}
	case KindBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v.Bool)}
	case KindList:
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, item := range v.List {
			seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: item})
		}
		return seq
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.Str}
	}
}
