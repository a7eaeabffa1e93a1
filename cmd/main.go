package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/tinsched/thermos"
	"gopkg.in/yaml.v2"
)

var redColor = color.New(color.FgRed, color.Bold)

func fail(format string, a ...interface{}) {
	_, _ = redColor.Printf(format+"\n", a...)
	os.Exit(1)
}

type bindFlags []string

func (p *bindFlags) String() string {
	return strings.Join(*p, ",")
}

func (p *bindFlags) Set(v string) error {
	*p = append(*p, v)
	return nil
}

func main() {
	binds := bindFlags{}
	bindFile := ""
	jsonMode := false
	tolerant := false
	raw := false
	outDir := ""

	flag.Var(
		&binds,
		"bind",
		"bind NAME=VALUE into the task templates",
	)
	flag.StringVar(
		&bindFile,
		"bind-file",
		"",
		"yaml file with flat NAME: VALUE bindings",
	)
	flag.BoolVar(
		&jsonMode,
		"json",
		false,
		"load the config as a single-task json document",
	)
	flag.BoolVar(
		&tolerant,
		"tolerant",
		false,
		"keep tasks that fail the schema check",
	)
	flag.BoolVar(
		&raw,
		"raw",
		false,
		"inspect prints the interpolated json form",
	)
	flag.StringVar(
		&outDir,
		"o",
		"",
		"directory for dump output",
	)
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		fail("usage: thermos [options] <inspect|ports|dump> [config]")
	}
	command := args[0]

	entryPath := ""
	if len(args) > 1 {
		entryPath = args[1]
	} else if thermos.IsFile("./thermos.yaml") {
		entryPath = "./thermos.yaml"
	} else if thermos.IsFile("./thermos.yml") {
		entryPath = "./thermos.yml"
	} else if thermos.IsFile("./thermos.json") {
		entryPath = "./thermos.json"
	} else {
		absPath, _ := filepath.Abs(".")
		fail(
			"could not find thermos.yaml or thermos.yml or thermos.json in dir %s",
			absPath,
		)
	}

	bindings, e := collectBindings(bindFile, binds)
	if e != nil {
		fail(e.Error())
	}

	strict := !tolerant
	var loader *thermos.ConfigLoader
	if jsonMode {
		loader, e = thermos.LoadJSON(entryPath, bindings, strict)
	} else {
		loader, e = thermos.Load(entryPath, bindings, strict, true)
	}
	if e != nil {
		fail("could not load %s: %s", entryPath, e.Error())
	}

	switch command {
	case "inspect":
		inspect(loader, raw)
	case "ports":
		ports(loader)
	case "dump":
		dump(loader, outDir)
	default:
		fail("unknown command \"%s\"", command)
	}
}

// collectBindings layers the bind file under the command line -bind
// flags, so an explicit flag wins over the file.
func collectBindings(bindFile string, binds []string) ([]thermos.Binding, error) {
	ret := make([]thermos.Binding, 0)

	if bindFile != "" {
		fileBytes, e := ioutil.ReadFile(bindFile)
		if e != nil {
			return nil, e
		}

		fileMap := map[string]string{}
		if e := yaml.Unmarshal(fileBytes, &fileMap); e != nil {
			return nil, fmt.Errorf(
				"could not parse bind file \"%s\": %s", bindFile, e.Error(),
			)
		}

		names := make([]string, 0, len(fileMap))
		for name := range fileMap {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			binding, e := thermos.ParseBinding(name + "=" + fileMap[name])
			if e != nil {
				return nil, e
			}
			ret = append(ret, binding)
		}
	}

	for _, bind := range binds {
		binding, e := thermos.ParseBinding(bind)
		if e != nil {
			return nil, e
		}
		ret = append(ret, binding)
	}

	return ret, nil
}

func inspect(loader *thermos.ConfigLoader, raw bool) {
	for _, task := range loader.Tasks() {
		if raw {
			data, e := task.InterpolatedJSON()
			if e != nil {
				fail(e.Error())
			}
			fmt.Printf("Parsed task config: %s\n", string(data))
			continue
		}

		object, _ := task.Task().(thermos.ObjectNode)

		fmt.Println("Task level information")
		fmt.Printf("  name: %s\n", task.Name())
		if !task.Valid() {
			fmt.Printf("  invalid: %s\n", task.InvalidReason())
		}
		printConstraints(object)
		fmt.Println()

		processes, _ := object["processes"].(thermos.ListNode)
		for _, process := range processes {
			printProcess(process)
		}
	}
}

func printConstraints(object thermos.ObjectNode) {
	constraints, ok := object["constraints"].(thermos.ListNode)
	if !ok || len(constraints) == 0 {
		return
	}

	fmt.Println("  constraints:")
	for _, constraint := range constraints {
		c, ok := constraint.(thermos.ObjectNode)
		if !ok {
			continue
		}
		order, ok := c["order"].(thermos.ListNode)
		if !ok {
			continue
		}

		names := make([]string, 0, len(order))
		for _, item := range order {
			if s, ok := item.(thermos.StringNode); ok {
				names = append(names, string(s))
			}
		}
		fmt.Printf("    %s\n", strings.Join(names, " < "))
	}
}

func printProcess(process thermos.Node) {
	object, ok := process.(thermos.ObjectNode)
	if !ok {
		return
	}

	name, _ := object["name"].(thermos.StringNode)
	fmt.Printf("Process %s:\n", string(name))

	for _, key := range []string{"daemon", "ephemeral", "final"} {
		if b, ok := object[key].(thermos.BoolNode); ok && bool(b) {
			fmt.Printf("  %s\n", key)
		}
	}

	fmt.Println("  cmdline:")
	if cmdline, ok := object["cmdline"].(thermos.StringNode); ok {
		for _, line := range strings.Split(string(cmdline), "\n") {
			fmt.Printf("    %s\n", line)
		}
	}
	fmt.Println()
}

func ports(loader *thermos.ConfigLoader) {
	for _, task := range loader.Tasks() {
		list, e := task.PortList()
		if e != nil {
			fail(e.Error())
		}
		fmt.Printf("%s: %s\n", task.Name(), strings.Join(list, " "))
	}
}

func dump(loader *thermos.ConfigLoader, outDir string) {
	for i, task := range loader.Tasks() {
		if outDir == "" {
			data, e := task.InterpolatedJSON()
			if e != nil {
				fail(e.Error())
			}
			fmt.Println(string(data))
			continue
		}

		name := task.Name()
		if name == "" {
			name = fmt.Sprintf("task-%d", i)
		}

		filename := filepath.Join(outDir, name+".json")
		if e := task.ToFile(filename); e != nil {
			fail("could not write %s: %s", filename, e.Error())
		}
		fmt.Printf("wrote %s\n", filename)
	}
}
