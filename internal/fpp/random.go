package fpp

import (
	"fmt"
	"math/rand"
)

var randomDirections = []string{"+x", "-x", "+y", "-y", "+z", "-z"}

// RandomInstance строит случайный ацикличный экземпляр с целевой функцией "cost".
// Предшественники выбираются только среди операций с меньшим номером,
// поэтому граф предшествования не содержит циклов. Каждая четвёртая операция
// без предшественников получает альтернативу.
func RandomInstance(ops, machines, tools int, rng *rand.Rand) *Instance {
	if rng == nil {
		panic("генератор случайных чисел не инициализирован (nil)")
	}
	if ops <= 0 || machines <= 0 || tools <= 0 {
		panic("invalid instance size")
	}

	inst := &Instance{
		Name:        fmt.Sprintf("random-%dx%dx%d", ops, machines, tools),
		Objective:   ObjectiveCost,
		MachineCost: make(map[string]float64, machines),
		ToolCost:    make(map[string]float64, tools),
		Changeover: Penalties{
			Machine: float64(100 + rng.Intn(101)),
			Tool:    float64(10 + rng.Intn(21)),
			Setup:   float64(50 + rng.Intn(51)),
		},
	}

	machineNames := make([]string, machines)
	for i := range machineNames {
		machineNames[i] = fmt.Sprintf("m%d", i+1)
		inst.MachineCost[machineNames[i]] = float64(10 + rng.Intn(81))
	}
	toolNames := make([]string, tools)
	for i := range toolNames {
		toolNames[i] = fmt.Sprintf("t%d", i+1)
		inst.ToolCost[toolNames[i]] = float64(2 + rng.Intn(15))
	}

	pick := func(pool []string, maxN int) []string {
		n := 1 + rng.Intn(min(maxN, len(pool)))
		idx := rng.Perm(len(pool))[:n]
		out := make([]string, n)
		for i, j := range idx {
			out[i] = pool[j]
		}
		return out
	}

	for i := 0; i < ops; i++ {
		op := Operation{
			ID:         fmt.Sprintf("o%d", i+1),
			Machines:   pick(machineNames, 3),
			Tools:      pick(toolNames, 3),
			Directions: pick(randomDirections, 2),
		}
		for j := 0; j < i; j++ {
			if rng.Float64() < 2.0/float64(ops) {
				op.Prior = append(op.Prior, inst.Operations[j].ID)
			}
		}
		inst.Operations = append(inst.Operations, op)

		if len(op.Prior) == 0 && i%4 == 3 {
			alt := Operation{
				ID:         op.ID + "b",
				Machines:   pick(machineNames, 3),
				Tools:      pick(toolNames, 3),
				Directions: pick(randomDirections, 2),
			}
			inst.Operations = append(inst.Operations, alt)
			inst.Alternatives = append(inst.Alternatives, []string{op.ID, alt.ID})
		}
	}

	if err := inst.Validate(); err != nil {
		panic(err)
	}
	return inst
}
