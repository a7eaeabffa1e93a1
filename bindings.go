package thermos

import (
	"fmt"
	"sort"
	"strings"
)

// Binding resolves one template placeholder, e.g. "jvm.version=7".
// Bindings apply in order; a later binding for the same name wins.
type Binding struct {
	Name  string
	Value string
}

func ParseBinding(s string) (Binding, error) {
	parts := strings.SplitN(s, "=", 2)
	if len(parts) != 2 {
		return Binding{}, fmt.Errorf("binding \"%s\" must be NAME=VALUE", s)
	}

	name := strings.TrimSpace(parts[0])
	if _, e := ParseRef(name); e != nil {
		return Binding{}, fmt.Errorf("binding \"%s\": %s", s, e.Error())
	}

	return Binding{Name: name, Value: parts[1]}, nil
}

// bindingEnv flattens ordered bindings into a lookup environment.
func bindingEnv(bindings []Binding) map[string]string {
	ret := make(map[string]string, len(bindings))
	for _, binding := range bindings {
		ret[binding.Name] = binding.Value
	}
	return ret
}

// VarItem is one document-level variable. Type "value" (the default)
// uses the literal value; "input" and "password" are read from the user
// when prompting is enabled.
type VarItem struct {
	Type  string `json:"type"`
	Desc  string `json:"desc"`
	Value string `json:"value"`
}

type Vars map[string]VarItem

// initialize resolves the document vars into default bindings, prompting
// for input and password items when prompt is set.
func (p Vars) initialize(head string, prompt bool) ([]Binding, error) {
	hasShownNotice := false

	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)

	ret := make([]Binding, 0, len(p))
	for _, name := range names {
		it := p[name]

		if _, e := ParseRef(name); e != nil {
			return nil, fmt.Errorf("var %s: %s", name, e.Error())
		}

		value := it.Value
		switch it.Type {
		case "", "value":
		case "password":
			if prompt {
				if !hasShownNotice {
					LogNotice(head, "config vars need user input\n")
					hasShownNotice = true
				}
				desc := it.Desc
				if desc == "" {
					desc = "password " + name + ": "
				}
				input, e := GetPasswordFromUser(desc)
				if e != nil {
					return nil, e
				}
				value = input
			}
		case "input":
			if prompt {
				if !hasShownNotice {
					LogNotice(head, "config vars need user input\n")
					hasShownNotice = true
				}
				desc := it.Desc
				if desc == "" {
					desc = "input " + name + ": "
				}
				input, e := GetInputFromUser(desc)
				if e != nil {
					return nil, e
				}
				value = input
			}
		default:
			return nil, fmt.Errorf(
				"var %s has unsupported type \"%s\"", name, it.Type,
			)
		}

		ret = append(ret, Binding{Name: name, Value: value})
	}

	return ret, nil
}
