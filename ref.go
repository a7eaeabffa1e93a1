package thermos

import (
	"fmt"
	"regexp"
	"strings"
)

var validRefComponentRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)

// portScope is the reserved reference prefix for dynamically assigned
// network ports.
var portScope = mustParseRef("thermos.ports")

// Ref is the address of a template placeholder, e.g. "thermos.ports.http".
type Ref struct {
	components []string
}

func ParseRef(address string) (Ref, error) {
	if address == "" {
		return Ref{}, fmt.Errorf("empty reference")
	}

	components := strings.Split(address, ".")
	for _, component := range components {
		if !validRefComponentRe.MatchString(component) {
			return Ref{}, fmt.Errorf("illegal reference \"%s\"", address)
		}
	}

	return Ref{components: components}, nil
}

func mustParseRef(address string) Ref {
	ref, e := ParseRef(address)
	if e != nil {
		panic(e)
	}
	return ref
}

func (p Ref) Address() string {
	return strings.Join(p.components, ".")
}

func (p Ref) Size() int {
	return len(p.components)
}

// ScopedTo returns the sub-reference of p relative to prefix, or false
// when prefix is not a strict prefix of p.
func (p Ref) ScopedTo(prefix Ref) (Ref, bool) {
	if len(prefix.components) >= len(p.components) {
		return Ref{}, false
	}

	for i, component := range prefix.components {
		if p.components[i] != component {
			return Ref{}, false
		}
	}

	return Ref{components: p.components[len(prefix.components):]}, true
}

// Index returns the component of a single-level reference. Calling it on
// a deeper reference is a contract violation.
func (p Ref) Index() string {
	if len(p.components) != 1 {
		panic(fmt.Sprintf("reference \"%s\" is not an index", p.Address()))
	}
	return p.components[0]
}
