package thermos

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// >=1 characters && anything but NULL and '/'
var validProcessNameRe = regexp.MustCompile(`^[^/\x00]+$`)

var taskAttributes = map[string]bool{
	"name":              true,
	"processes":         true,
	"constraints":       true,
	"resources":         true,
	"max_failures":      true,
	"max_concurrency":   true,
	"finalization_wait": true,
}

var processAttributes = map[string]bool{
	"name":         true,
	"cmdline":      true,
	"daemon":       true,
	"ephemeral":    true,
	"final":        true,
	"max_failures": true,
	"min_duration": true,
}

var resourceAttributes = map[string]bool{
	"cpu":  true,
	"ram":  true,
	"disk": true,
}

func hasPlaceholder(s string) bool {
	return strings.Contains(s, "{{")
}

// checkTask verifies the structural schema of a bound task template.
// Scalars may still carry unresolved {{...}} placeholders, so concrete
// value rules only apply to fully resolved attributes.
func checkTask(n Node) error {
	task, ok := n.(ObjectNode)
	if !ok {
		return fmt.Errorf("task must be object")
	}

	for _, key := range sortedKeys(task) {
		if !taskAttributes[key] {
			return fmt.Errorf("task.%s is not supported", key)
		}
	}

	if name, ok := task["name"]; !ok {
		return fmt.Errorf("task.name is required")
	} else if s, ok := name.(StringNode); !ok || s == "" {
		return fmt.Errorf("task.name must be non-empty string")
	}

	for _, key := range []string{
		"max_failures", "max_concurrency", "finalization_wait",
	} {
		if value, ok := task[key]; ok {
			if e := checkCount("task."+key, value); e != nil {
				return e
			}
		}
	}

	processes, ok := task["processes"]
	if !ok {
		return fmt.Errorf("task.processes is required")
	}
	processList, ok := processes.(ListNode)
	if !ok || len(processList) == 0 {
		return fmt.Errorf("task.processes must be non-empty array")
	}

	processNames := map[string]bool{}
	for i, process := range processList {
		name, e := checkProcess(i, process)
		if e != nil {
			return e
		}
		if name != "" {
			if processNames[name] {
				return fmt.Errorf("duplicate process name \"%s\"", name)
			}
			processNames[name] = true
		}
	}

	if constraints, ok := task["constraints"]; ok {
		if e := checkConstraints(constraints, processNames); e != nil {
			return e
		}
	}

	if resources, ok := task["resources"]; ok {
		if e := checkResources(resources); e != nil {
			return e
		}
	}

	return nil
}

// checkProcess returns the process name when it is concrete, so the task
// level can reject duplicates.
func checkProcess(index int, n Node) (string, error) {
	process, ok := n.(ObjectNode)
	if !ok {
		return "", fmt.Errorf("task.processes[%d] must be object", index)
	}

	for _, key := range sortedKeys(process) {
		if !processAttributes[key] {
			return "", fmt.Errorf(
				"task.processes[%d].%s is not supported", index, key,
			)
		}
	}

	name, ok := process["name"].(StringNode)
	if !ok || name == "" {
		return "", fmt.Errorf(
			"task.processes[%d].name must be non-empty string", index,
		)
	}
	if !hasPlaceholder(string(name)) &&
		!validProcessNameRe.MatchString(string(name)) {
		return "", fmt.Errorf("invalid process name: %s", name)
	}

	if cmdline, ok := process["cmdline"].(StringNode); !ok || cmdline == "" {
		return "", fmt.Errorf(
			"task.processes[%d].cmdline must be non-empty string", index,
		)
	}

	for _, key := range []string{"daemon", "ephemeral", "final"} {
		if value, ok := process[key]; ok {
			if _, ok := value.(BoolNode); !ok {
				return "", fmt.Errorf(
					"task.processes[%d].%s must be bool", index, key,
				)
			}
		}
	}

	for _, key := range []string{"max_failures", "min_duration"} {
		if value, ok := process[key]; ok {
			head := fmt.Sprintf("task.processes[%d].%s", index, key)
			if e := checkCount(head, value); e != nil {
				return "", e
			}
		}
	}

	if hasPlaceholder(string(name)) {
		return "", nil
	}
	return string(name), nil
}

func checkConstraints(n Node, processNames map[string]bool) error {
	constraints, ok := n.(ListNode)
	if !ok {
		return fmt.Errorf("task.constraints must be array")
	}

	for i, constraint := range constraints {
		object, ok := constraint.(ObjectNode)
		if !ok {
			return fmt.Errorf("task.constraints[%d] must be object", i)
		}

		for _, key := range sortedKeys(object) {
			if key != "order" {
				return fmt.Errorf(
					"task.constraints[%d].%s is not supported", i, key,
				)
			}
		}

		order, ok := object["order"].(ListNode)
		if !ok {
			return fmt.Errorf("task.constraints[%d].order must be array", i)
		}

		for _, item := range order {
			name, ok := item.(StringNode)
			if !ok {
				return fmt.Errorf(
					"task.constraints[%d].order must contain strings", i,
				)
			}
			if hasPlaceholder(string(name)) {
				continue
			}
			if !processNames[string(name)] {
				return fmt.Errorf(
					"task.constraints[%d] orders unknown process \"%s\"",
					i, name,
				)
			}
		}
	}

	return nil
}

func checkResources(n Node) error {
	resources, ok := n.(ObjectNode)
	if !ok {
		return fmt.Errorf("task.resources must be object")
	}

	for _, key := range sortedKeys(resources) {
		if !resourceAttributes[key] {
			return fmt.Errorf("task.resources.%s is not supported", key)
		}

		switch it := resources[key].(type) {
		case NumberNode:
			value, e := json.Number(it).Float64()
			if e != nil || value <= 0 {
				return fmt.Errorf("task.resources.%s must be positive", key)
			}
		case StringNode:
			if !hasPlaceholder(string(it)) {
				return fmt.Errorf("task.resources.%s must be number", key)
			}
		default:
			return fmt.Errorf("task.resources.%s must be number", key)
		}
	}

	return nil
}

// checkCount accepts a concrete non-negative integer or a still
// templated string.
func checkCount(head string, n Node) error {
	switch it := n.(type) {
	case NumberNode:
		value, e := json.Number(it).Int64()
		if e != nil || value < 0 {
			return fmt.Errorf("%s must be non-negative integer", head)
		}
	case StringNode:
		if !hasPlaceholder(string(it)) {
			return fmt.Errorf("%s must be non-negative integer", head)
		}
	default:
		return fmt.Errorf("%s must be non-negative integer", head)
	}

	return nil
}
