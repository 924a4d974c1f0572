package fpp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallCost() *Instance {
	return &Instance{
		Name:        "small",
		Objective:   ObjectiveCost,
		MachineCost: map[string]float64{"m1": 1, "m2": 2},
		ToolCost:    map[string]float64{"t1": 0.5, "t2": 0.25},
		Changeover:  Penalties{Machine: 10, Tool: 3, Setup: 5},
		Operations: []Operation{
			{ID: "a", Machines: []string{"m1", "m2"}, Tools: []string{"t1"}, Directions: []string{"+z"}},
			{ID: "b", Machines: []string{"m1"}, Tools: []string{"t1", "t2"}, Directions: []string{"+z", "-z"}, Prior: []string{"a"}},
			{ID: "c", Machines: []string{"m2"}, Tools: []string{"t2"}, Directions: []string{"+z"}},
		},
		Alternatives: [][]string{{"b", "c"}},
	}
}

func TestValidateRejectsMalformedInstances(t *testing.T) {
	cases := map[string]func(*Instance){
		"objective":       func(i *Instance) { i.Objective = "profit" },
		"no operations":   func(i *Instance) { i.Operations = nil },
		"empty id":        func(i *Instance) { i.Operations[0].ID = "" },
		"duplicate id":    func(i *Instance) { i.Operations[1].ID = "a" },
		"no machines":     func(i *Instance) { i.Operations[0].Machines = nil },
		"no tools":        func(i *Instance) { i.Operations[0].Tools = nil },
		"no directions":   func(i *Instance) { i.Operations[0].Directions = nil },
		"unknown prior":   func(i *Instance) { i.Operations[0].Prior = []string{"zz"} },
		"self prior":      func(i *Instance) { i.Operations[0].Prior = []string{"a"} },
		"machine cost":    func(i *Instance) { delete(i.MachineCost, "m2") },
		"tool cost":       func(i *Instance) { delete(i.ToolCost, "t2") },
		"short group":     func(i *Instance) { i.Alternatives = [][]string{{"a"}} },
		"unknown member":  func(i *Instance) { i.Alternatives = [][]string{{"a", "zz"}} },
		"two groups":      func(i *Instance) { i.Alternatives = [][]string{{"a", "b"}, {"b", "c"}} },
		"time table size": func(i *Instance) { toTime(i); i.Operations[1].Time = []float64{1, 2, 3} },
		"missing mct":     func(i *Instance) { toTime(i); delete(i.MachineChangeoverTime["m1"], "m2") },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			inst := smallCost()
			mutate(inst)
			assert.ErrorIs(t, inst.Validate(), ErrInvalidSpecification)
		})
	}
	assert.NoError(t, smallCost().Validate())
}

func toTime(i *Instance) {
	i.Objective = ObjectiveTime
	i.MachineCost, i.ToolCost = nil, nil
	i.MachineChangeoverTime = map[string]map[string]float64{
		"m1": {"m2": 7},
		"m2": {"m1": 9},
	}
	i.Operations[0].Time = []float64{4, 6}
	i.Operations[1].Time = []float64{2}
	i.Operations[2].Time = []float64{3}
}

func TestParseRoundTrip(t *testing.T) {
	inst := smallCost()
	data, err := inst.Marshal()
	require.NoError(t, err)

	got, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, inst, got)

	_, err = Parse([]byte("operations: [1, 2"))
	assert.Error(t, err)

	_, err = Parse([]byte("name: x\nobjective: cost\n"))
	assert.ErrorIs(t, err, ErrInvalidSpecification)
}

func TestLoadFile(t *testing.T) {
	data, err := smallCost().Marshal()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "small.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	inst, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "small", inst.Name)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
