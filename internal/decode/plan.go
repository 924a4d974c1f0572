package decode

import "processPlan/internal/fpp"

// Plan — декодированный план: порядок-скелет, выбранное состояние на каждую
// позицию и значение целевой функции. Планы не изменяются на месте.
type Plan struct {
	Order     []int
	States    []fpp.CandidateState
	Objective float64
}

// Operations — фактически выполняемые операции (альтернативы уже разрешены).
func (p Plan) Operations() []int {
	out := make([]int, len(p.States))
	for i, st := range p.States {
		out[i] = st.Op
	}
	return out
}

// Assignments форматирует план как "operation|machine|tool|direction".
func (p Plan) Assignments(spec *fpp.Spec) []string {
	out := make([]string, len(p.States))
	for i, st := range p.States {
		out[i] = spec.Label(st)
	}
	return out
}

func (p Plan) Clone() Plan {
	c := Plan{
		Order:     make([]int, len(p.Order)),
		States:    make([]fpp.CandidateState, len(p.States)),
		Objective: p.Objective,
	}
	copy(c.Order, p.Order)
	copy(c.States, p.States)
	return c
}

// Empty — план ещё не построен.
func (p Plan) Empty() bool { return len(p.Order) == 0 }
