package thermos

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Node is one value in a task template tree. The variant set is closed:
// scalars, lists and objects. Strings may embed {{ref}} placeholders.
type Node interface {
	node()
}

type StringNode string
type NumberNode json.Number
type BoolNode bool
type NullNode struct{}
type ListNode []Node
type ObjectNode map[string]Node

func (StringNode) node() {}
func (NumberNode) node() {}
func (BoolNode) node()   {}
func (NullNode) node()   {}
func (ListNode) node()   {}
func (ObjectNode) node() {}

// ParseNode builds a template tree from a JSON document.
func ParseNode(data []byte) (Node, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var value interface{}
	if e := decoder.Decode(&value); e != nil {
		return nil, e
	}
	if decoder.More() {
		return nil, fmt.Errorf("trailing data after document")
	}

	return nodeFromValue(value)
}

func nodeFromValue(value interface{}) (Node, error) {
	switch it := value.(type) {
	case nil:
		return NullNode{}, nil
	case bool:
		return BoolNode(it), nil
	case string:
		return StringNode(it), nil
	case json.Number:
		return NumberNode(it), nil
	case []interface{}:
		ret := make(ListNode, len(it))
		for i, item := range it {
			node, e := nodeFromValue(item)
			if e != nil {
				return nil, e
			}
			ret[i] = node
		}
		return ret, nil
	case map[string]interface{}:
		ret := make(ObjectNode, len(it))
		for key, item := range it {
			node, e := nodeFromValue(item)
			if e != nil {
				return nil, e
			}
			ret[key] = node
		}
		return ret, nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", value)
	}
}

func nodeValue(n Node) interface{} {
	switch it := n.(type) {
	case StringNode:
		return string(it)
	case NumberNode:
		return json.Number(it)
	case BoolNode:
		return bool(it)
	case NullNode:
		return nil
	case ListNode:
		ret := make([]interface{}, len(it))
		for i, item := range it {
			ret[i] = nodeValue(item)
		}
		return ret
	case ObjectNode:
		ret := make(map[string]interface{}, len(it))
		for key, item := range it {
			ret[key] = nodeValue(item)
		}
		return ret
	default:
		return nil
	}
}

// MarshalNode serializes a template tree to JSON. Placeholders stay
// textual inside their strings.
func MarshalNode(n Node) ([]byte, error) {
	return json.Marshal(nodeValue(n))
}

type fragment struct {
	literal string
	ref     *Ref
}

// scanFragments splits a template string into literal and reference
// fragments. "{{" opens a reference, "}}" closes it.
func scanFragments(s string) ([]fragment, error) {
	ret := make([]fragment, 0)
	rest := s

	for {
		open := strings.Index(rest, "{{")
		if open < 0 {
			if rest != "" {
				ret = append(ret, fragment{literal: rest})
			}
			return ret, nil
		}

		if open > 0 {
			ret = append(ret, fragment{literal: rest[:open]})
		}

		end := strings.Index(rest[open+2:], "}}")
		if end < 0 {
			return nil, fmt.Errorf("unterminated reference in \"%s\"", s)
		}

		address := strings.TrimSpace(rest[open+2 : open+2+end])
		ref, e := ParseRef(address)
		if e != nil {
			return nil, fmt.Errorf("\"%s\": %s", s, e.Error())
		}

		ret = append(ret, fragment{ref: &ref})
		rest = rest[open+2+end+2:]
	}
}

// Interpolate resolves the placeholders of n against env. Placeholders
// with no binding survive textually and are reported as residual
// references; duplicates are possible. The input tree is never mutated.
func Interpolate(n Node, env map[string]string) (Node, []Ref, error) {
	switch it := n.(type) {
	case StringNode:
		fragments, e := scanFragments(string(it))
		if e != nil {
			return nil, nil, e
		}

		builder := strings.Builder{}
		residual := []Ref{}
		for _, f := range fragments {
			if f.ref == nil {
				builder.WriteString(f.literal)
			} else if value, ok := env[f.ref.Address()]; ok {
				builder.WriteString(value)
			} else {
				residual = append(residual, *f.ref)
				builder.WriteString("{{" + f.ref.Address() + "}}")
			}
		}
		return StringNode(builder.String()), residual, nil
	case ListNode:
		ret := make(ListNode, len(it))
		residual := []Ref{}
		for i, item := range it {
			node, refs, e := Interpolate(item, env)
			if e != nil {
				return nil, nil, e
			}
			ret[i] = node
			residual = append(residual, refs...)
		}
		return ret, residual, nil
	case ObjectNode:
		ret := make(ObjectNode, len(it))
		residual := []Ref{}
		for _, key := range sortedKeys(it) {
			node, refs, e := Interpolate(it[key], env)
			if e != nil {
				return nil, nil, e
			}
			ret[key] = node
			residual = append(residual, refs...)
		}
		return ret, residual, nil
	default:
		return n, nil, nil
	}
}

func sortedKeys(object ObjectNode) []string {
	ret := make([]string, 0, len(object))
	for key := range object {
		ret = append(ret, key)
	}
	sort.Strings(ret)
	return ret
}
