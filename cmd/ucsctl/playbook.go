package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/isometry/terraform-provider-ucs/internal/ucs"
)

// Playbook is an ordered list of descriptors.
//
// In YAML it is either a top-level sequence or a mapping with a "tasks" key.
// In TOML it is an array of [[task]] tables.
type Playbook struct {
	Tasks []map[string]any `yaml:"tasks" toml:"task"`
}

// LoadPlaybook reads a playbook, choosing the format by file extension.
func LoadPlaybook(path string) (*Playbook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ucs.NewInvalidArgumentError("load playbook", "%s", err.Error())
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return parseTOMLPlaybook(data)
	case ".yaml", ".yml", "":
		return parseYAMLPlaybook(data)
	default:
		return nil, ucs.NewInvalidArgumentError("load playbook", "unsupported playbook format %q, expected .yaml, .yml or .toml", filepath.Ext(path))
	}
}

func parseYAMLPlaybook(data []byte) (*Playbook, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, ucs.NewInvalidArgumentError("load playbook", "invalid YAML: %s", err.Error())
	}
	if len(node.Content) == 0 {
		return &Playbook{}, nil
	}

	playbook := &Playbook{}
	root := node.Content[0]
	var err error
	if root.Kind == yaml.SequenceNode {
		err = root.Decode(&playbook.Tasks)
	} else {
		err = root.Decode(playbook)
	}
	if err != nil {
		return nil, ucs.NewInvalidArgumentError("load playbook", "invalid YAML: %s", err.Error())
	}
	return playbook, nil
}

func parseTOMLPlaybook(data []byte) (*Playbook, error) {
	playbook := &Playbook{}
	meta, err := toml.Decode(string(data), playbook)
	if err != nil {
		return nil, ucs.NewInvalidArgumentError("load playbook", "invalid TOML: %s", err.Error())
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, ucs.NewInvalidArgumentError("load playbook", "unknown TOML keys: %v", undecoded)
	}
	return playbook, nil
}

// task is one validated playbook entry.
type task struct {
	index    int
	desc     *ucs.Descriptor
	resource ucs.Resource
	state    ucs.State
}

func (t task) String() string {
	return fmt.Sprintf("%s %s/%s", t.desc.ResourceType, t.desc.ScopeName, t.desc.LogicalName)
}

// tasks decodes and validates every entry. Nothing is applied unless the
// whole playbook is valid.
func (p *Playbook) tasks() ([]task, error) {
	tasks := make([]task, 0, len(p.Tasks))
	for i, raw := range p.Tasks {
		desc, err := ucs.DecodeDescriptor(raw)
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", i+1, err)
		}
		state, err := desc.State()
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", i+1, err)
		}
		resource, err := desc.Resource()
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", i+1, err)
		}
		tasks = append(tasks, task{index: i + 1, desc: desc, resource: resource, state: state})
	}
	return tasks, nil
}
