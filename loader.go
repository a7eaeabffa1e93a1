package thermos

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/ghodss/yaml"
)

// ConfigDoc is the top level layout of a task configuration document.
// Tasks are declared under export and wrapped in declaration order.
type ConfigDoc struct {
	Vars   Vars              `json:"vars"`
	Export []json.RawMessage `json:"export"`
}

// ConfigLoader collects the tasks one configuration document exports.
// A fresh loader is created per load call; nothing is shared across
// calls.
type ConfigLoader struct {
	tasks []*TaskWrapper
}

func NewConfigLoader() *ConfigLoader {
	return &ConfigLoader{tasks: make([]*TaskWrapper, 0)}
}

func (p *ConfigLoader) addTask(task *TaskWrapper) {
	p.tasks = append(p.tasks, task)
}

// Tasks returns the exported tasks in document order.
func (p *ConfigLoader) Tasks() []*TaskWrapper {
	return p.tasks
}

// Load evaluates a configuration document and wraps every exported
// task. The document's vars act as default bindings; the caller's
// bindings override them. Any failure propagates unchanged, there is
// no recovery and no partial result.
func Load(configPath string, bindings []Binding, strict bool, prompt bool) (*ConfigLoader, error) {
	absConfigPath, e := filepath.Abs(configPath)
	if e != nil {
		return nil, e
	}

	configBytes, e := ioutil.ReadFile(absConfigPath)
	if e != nil {
		return nil, e
	}

	doc := ConfigDoc{}
	ext := filepath.Ext(absConfigPath)
	if ext == ".json" {
		if e := json.Unmarshal(configBytes, &doc); e != nil {
			return nil, e
		}
	} else if ext == ".yml" || ext == ".yaml" {
		if e := yaml.Unmarshal(configBytes, &doc); e != nil {
			return nil, e
		}
	} else {
		return nil, fmt.Errorf(
			"illegal config file extension \"%s\"", absConfigPath,
		)
	}

	varBindings, e := doc.Vars.initialize(
		os.Getenv("USER")+"@thermos => loading config: ", prompt,
	)
	if e != nil {
		return nil, e
	}

	taskBindings := append(varBindings, bindings...)

	ret := NewConfigLoader()
	for i, raw := range doc.Export {
		task, e := ParseNode(raw)
		if e != nil {
			return nil, fmt.Errorf("export[%d]: %s", i, e.Error())
		}

		wrapper, e := NewTaskWrapper(task, taskBindings, strict)
		if e != nil {
			return nil, fmt.Errorf("export[%d]: %s", i, e.Error())
		}

		ret.addTask(wrapper)
	}

	return ret, nil
}

// LoadJSON reads a single runtime-ready task document. A file that
// cannot be read or validated is a loader error, never a silent nil
// placeholder in the task list.
func LoadJSON(configPath string, bindings []Binding, strict bool) (*ConfigLoader, error) {
	task := TaskFromFile(configPath, bindings, strict)
	if task == nil {
		return nil, fmt.Errorf(
			"could not load task from \"%s\"", configPath,
		)
	}

	ret := NewConfigLoader()
	ret.addTask(task)
	return ret, nil
}
