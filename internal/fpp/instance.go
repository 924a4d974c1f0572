package fpp

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidSpecification помечает структурно некорректный экземпляр задачи.
// Ошибка фатальная: повтор не имеет смысла.
var ErrInvalidSpecification = errors.New("invalid specification")

type Objective string

const (
	ObjectiveCost Objective = "cost"
	ObjectiveTime Objective = "time"
)

type Operation struct {
	ID         string    `yaml:"id"`
	Machines   []string  `yaml:"machines"`
	Tools      []string  `yaml:"tools"`
	Directions []string  `yaml:"directions"`
	Prior      []string  `yaml:"prior,omitempty"`
	Time       []float64 `yaml:"time,omitempty,flow"`
}

// Penalties — штрафы за переналадку.
// Machine используется только для целевой функции "cost";
// для "time" переход между станками берётся из MachineChangeoverTime.
type Penalties struct {
	Machine float64 `yaml:"machine,omitempty"`
	Tool    float64 `yaml:"tool"`
	Setup   float64 `yaml:"setup"`
}

type Instance struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description,omitempty"`
	Objective   Objective `yaml:"objective"`

	MachineCost map[string]float64 `yaml:"machine_cost,omitempty"`
	ToolCost    map[string]float64 `yaml:"tool_cost,omitempty"`

	Changeover            Penalties                     `yaml:"changeover"`
	MachineChangeoverTime map[string]map[string]float64 `yaml:"machine_changeover_time,omitempty"`

	Operations   []Operation `yaml:"operations"`
	Alternatives [][]string  `yaml:"alternatives,omitempty,flow"`
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidSpecification, fmt.Sprintf(format, args...))
}

func (inst *Instance) Validate() error {
	if inst == nil {
		return invalid("instance is nil")
	}
	switch inst.Objective {
	case ObjectiveCost, ObjectiveTime:
	default:
		return invalid("unknown objective %q", inst.Objective)
	}
	if len(inst.Operations) == 0 {
		return invalid("instance %q has no operations", inst.Name)
	}

	ids := make(map[string]bool, len(inst.Operations))
	for i, op := range inst.Operations {
		if op.ID == "" {
			return invalid("operations[%d] has empty id", i)
		}
		if ids[op.ID] {
			return invalid("duplicate operation id %q", op.ID)
		}
		ids[op.ID] = true
	}

	for _, op := range inst.Operations {
		if len(op.Machines) == 0 {
			return invalid("operation %q has no eligible machines", op.ID)
		}
		if len(op.Tools) == 0 {
			return invalid("operation %q has no eligible tools", op.ID)
		}
		if len(op.Directions) == 0 {
			return invalid("operation %q has no eligible directions", op.ID)
		}
		for _, p := range op.Prior {
			if !ids[p] {
				return invalid("operation %q: unknown predecessor %q", op.ID, p)
			}
			if p == op.ID {
				return invalid("operation %q lists itself as predecessor", op.ID)
			}
		}
		switch inst.Objective {
		case ObjectiveCost:
			for _, m := range op.Machines {
				if _, ok := inst.MachineCost[m]; !ok {
					return invalid("operation %q: no usage cost for machine %q", op.ID, m)
				}
			}
			for _, t := range op.Tools {
				if _, ok := inst.ToolCost[t]; !ok {
					return invalid("operation %q: no usage cost for tool %q", op.ID, t)
				}
			}
		case ObjectiveTime:
			n := len(op.Time)
			if n != len(op.Machines) && n != len(op.Machines)*len(op.Tools) {
				return invalid("operation %q: time table length %d, want %d or %d",
					op.ID, n, len(op.Machines), len(op.Machines)*len(op.Tools))
			}
		}
	}

	grouped := make(map[string]bool)
	for gi, alt := range inst.Alternatives {
		if len(alt) < 2 {
			return invalid("alternatives[%d] must list at least two operations", gi)
		}
		for _, id := range alt {
			if !ids[id] {
				return invalid("alternatives[%d]: unknown operation %q", gi, id)
			}
			if grouped[id] {
				return invalid("operation %q belongs to more than one alternative group", id)
			}
			grouped[id] = true
		}
	}

	if inst.Objective == ObjectiveTime {
		used := make(map[string]bool)
		for _, op := range inst.Operations {
			for _, m := range op.Machines {
				used[m] = true
			}
		}
		for from := range used {
			for to := range used {
				if from == to {
					continue
				}
				if _, ok := inst.MachineChangeoverTime[from][to]; !ok {
					return invalid("no machine changeover time %s -> %s", from, to)
				}
			}
		}
	}
	return nil
}

// Parse разбирает YAML-описание экземпляра.
func Parse(data []byte) (*Instance, error) {
	var inst Instance
	if err := yaml.Unmarshal(data, &inst); err != nil {
		return nil, fmt.Errorf("parse instance: %w", err)
	}
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return &inst, nil
}

func LoadFile(path string) (*Instance, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read instance %s: %w", path, err)
	}
	inst, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return inst, nil
}

func (inst *Instance) Marshal() ([]byte, error) {
	return yaml.Marshal(inst)
}
