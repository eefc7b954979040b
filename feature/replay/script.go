package replay

import (
	"errors"
	"fmt"
	"os"

	"map-editor/core/feature"

	"github.com/goccy/go-yaml"
)

// ErrInvalidStep is returned for steps naming zero or several actions.
var ErrInvalidStep = errors.New("step must name exactly one action")

// Script is a replayable session.
type Script struct {
	Steps []Step `yaml:"steps"`
}

// SnapshotStep is a renderer snapshot.
type SnapshotStep struct {
	Version  uint64            `yaml:"version"`
	Features []feature.Feature `yaml:"features"`
}

// ClickStep is a user click.
type ClickStep struct {
	Feature  feature.Feature `yaml:"feature"`
	Modifier bool            `yaml:"modifier"`
}

// SetStep writes one field of the edit buffer.
type SetStep struct {
	Field string `yaml:"field"`
	Value any    `yaml:"value"`
}

// Step is one scripted action.
type Step struct {
	Snapshot  *SnapshotStep    `yaml:"snapshot,omitempty"`
	Click     *ClickStep       `yaml:"click,omitempty"`
	SelectAll string           `yaml:"selectAll,omitempty"`
	Clear     bool             `yaml:"clear,omitempty"`
	Unselect  *feature.Feature `yaml:"unselect,omitempty"`
	Begin     bool             `yaml:"begin,omitempty"`
	Set       *SetStep         `yaml:"set,omitempty"`
	Reset     string           `yaml:"reset,omitempty"`
	ResetAll  bool             `yaml:"resetAll,omitempty"`
	Cancel    bool             `yaml:"cancel,omitempty"`
	Commit    bool             `yaml:"commit,omitempty"`
}

// Action names the step's action, "" when the step names none or several.
func (s Step) Action() string {
	var names []string
	add := func(set bool, name string) {
		if set {
			names = append(names, name)
		}
	}
	add(s.Snapshot != nil, "snapshot")
	add(s.Click != nil, "click")
	add(s.SelectAll != "", "selectAll")
	add(s.Clear, "clear")
	add(s.Unselect != nil, "unselect")
	add(s.Begin, "begin")
	add(s.Set != nil, "set")
	add(s.Reset != "", "reset")
	add(s.ResetAll, "resetAll")
	add(s.Cancel, "cancel")
	add(s.Commit, "commit")
	if len(names) != 1 {
		return ""
	}
	return names[0]
}

// Parse decodes and checks a script.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode replay script: %w", err)
	}
	for i, step := range s.Steps {
		if step.Action() == "" {
			return nil, fmt.Errorf("step %d: %w", i+1, ErrInvalidStep)
		}
	}
	return &s, nil
}

// Load reads and parses a script file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read replay script: %w", err)
	}
	return Parse(data)
}
