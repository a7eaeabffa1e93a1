package thermos

import (
	"fmt"
	"io/ioutil"
	"sort"
)

// InvalidTaskError reports a task template that failed the schema check
// during strict construction.
type InvalidTaskError struct {
	Reason string
}

func (p *InvalidTaskError) Error() string {
	return "invalid task: " + p.Reason
}

// ProcessWrapper scans one process template for dynamic port references.
type ProcessWrapper struct {
	process Node
}

func NewProcessWrapper(process Node) *ProcessWrapper {
	return &ProcessWrapper{process: process}
}

// Ports returns the names of the ports the process references through
// the reserved thermos.ports namespace, in reference order. Duplicates
// are possible; the task level collapses them. A port reference nested
// deeper than one level is a contract violation and panics.
func (p *ProcessWrapper) Ports() ([]string, error) {
	_, residual, e := Interpolate(p.process, nil)
	if e != nil {
		return nil, e
	}

	ports := make([]string, 0)
	for _, ref := range residual {
		if sub, ok := ref.ScopedTo(portScope); ok {
			if sub.Size() != 1 {
				panic(fmt.Sprintf(
					"malformed port reference \"%s\"", ref.Address(),
				))
			}
			ports = append(ports, sub.Index())
		}
	}

	return ports, nil
}

// TaskWrapper holds a task template together with its caller bindings
// and validation result. The raw template is never mutated; binding
// produces a separate bound tree.
type TaskWrapper struct {
	raw    Node
	bound  Node
	valid  bool
	reason string
}

// NewTaskWrapper applies the bindings to the template in order and runs
// the schema check on the result. In strict mode a failed check aborts
// construction with InvalidTaskError; otherwise the wrapper carries the
// invalid template and reports it through Valid.
func NewTaskWrapper(task Node, bindings []Binding, strict bool) (*TaskWrapper, error) {
	bound := task
	if len(bindings) > 0 {
		value, _, e := Interpolate(task, bindingEnv(bindings))
		if e != nil {
			return nil, e
		}
		bound = value
	}

	ret := &TaskWrapper{raw: task, bound: bound, valid: true}
	if e := checkTask(bound); e != nil {
		if strict {
			return nil, &InvalidTaskError{Reason: e.Error()}
		}
		ret.valid = false
		ret.reason = e.Error()
	}

	return ret, nil
}

// Task returns the bound template.
func (p *TaskWrapper) Task() Node {
	return p.bound
}

// Raw returns the template as loaded, before any binding.
func (p *TaskWrapper) Raw() Node {
	return p.raw
}

func (p *TaskWrapper) Valid() bool {
	return p.valid
}

func (p *TaskWrapper) InvalidReason() string {
	return p.reason
}

// Name returns the task's name attribute when it is a concrete string.
func (p *TaskWrapper) Name() string {
	if task, ok := p.bound.(ObjectNode); ok {
		if name, ok := task["name"].(StringNode); ok {
			return string(name)
		}
	}
	return ""
}

// Ports returns the set of dynamic port names referenced across all of
// the task's processes. Repeated calls observe the same template and
// produce the same set.
func (p *TaskWrapper) Ports() (map[string]bool, error) {
	interpolated, _, e := Interpolate(p.bound, nil)
	if e != nil {
		return nil, e
	}

	ports := make(map[string]bool)

	task, ok := interpolated.(ObjectNode)
	if !ok {
		return ports, nil
	}
	processes, ok := task["processes"].(ListNode)
	if !ok {
		return ports, nil
	}

	for _, process := range processes {
		names, e := NewProcessWrapper(process).Ports()
		if e != nil {
			return nil, e
		}
		for _, name := range names {
			ports[name] = true
		}
	}

	return ports, nil
}

// PortList returns the port set sorted by name.
func (p *TaskWrapper) PortList() ([]string, error) {
	ports, e := p.Ports()
	if e != nil {
		return nil, e
	}

	ret := make([]string, 0, len(ports))
	for name := range ports {
		ret = append(ret, name)
	}
	sort.Strings(ret)
	return ret, nil
}

// ToJSON serializes the raw, unbound template for archival.
func (p *TaskWrapper) ToJSON() ([]byte, error) {
	return MarshalNode(p.raw)
}

// InterpolatedJSON serializes the runtime-ready form: all supplied
// bindings resolved, remaining placeholders kept textual.
func (p *TaskWrapper) InterpolatedJSON() ([]byte, error) {
	interpolated, _, e := Interpolate(p.bound, nil)
	if e != nil {
		return nil, e
	}
	return MarshalNode(interpolated)
}

// ToFile writes the runtime-ready form to a file.
func (p *TaskWrapper) ToFile(filename string) error {
	data, e := p.InterpolatedJSON()
	if e != nil {
		return e
	}
	return ioutil.WriteFile(filename, data, 0644)
}

// TaskFromFile reads back a task document written by ToFile. The input
// is external and possibly corrupted, so every failure maps to nil
// instead of an error; callers must check for absence.
func TaskFromFile(filename string, bindings []Binding, strict bool) *TaskWrapper {
	data, e := ioutil.ReadFile(filename)
	if e != nil {
		return nil
	}

	task, e := ParseNode(data)
	if e != nil {
		return nil
	}

	ret, e := NewTaskWrapper(task, bindings, strict)
	if e != nil {
		return nil
	}
	return ret
}
