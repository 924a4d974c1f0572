package fpp

import "fmt"

// Evaluator считает значение целевой функции для полностью зафиксированной
// последовательности состояний: собственная стоимость каждого состояния
// плюс штрафы за переналадку между соседними.
type Evaluator struct {
	spec *Spec
	seen []int
	mark int
}

func NewEvaluator(spec *Spec) (*Evaluator, error) {
	if spec == nil {
		return nil, fmt.Errorf("nil spec")
	}
	return &Evaluator{spec: spec, seen: make([]int, spec.NumGroups())}, nil
}

// Objective проверяет, что каждая группа альтернатив представлена ровно одним
// состоянием, и возвращает значение целевой функции.
func (e *Evaluator) Objective(states []CandidateState) (float64, error) {
	if e == nil || e.spec == nil {
		return 0, fmt.Errorf("nil evaluator")
	}
	if len(states) != e.spec.NumGroups() {
		return 0, fmt.Errorf("sequence length must be %d (got %d)", e.spec.NumGroups(), len(states))
	}

	e.mark++
	total := 0.0
	for i, st := range states {
		if st.Op < 0 || st.Op >= e.spec.NumOperations() {
			return 0, fmt.Errorf("states[%d]: operation index %d out of range", i, st.Op)
		}
		g := e.spec.GroupOf(st.Op)
		if e.seen[g] == e.mark {
			return 0, fmt.Errorf("states[%d]: group of %s already performed", i, e.spec.OperationID(st.Op))
		}
		e.seen[g] = e.mark

		total += st.Value
		if i > 0 {
			total += e.spec.Changeover(states[i-1], st)
		}
	}
	return total, nil
}

func (e *Evaluator) MustObjective(states []CandidateState) float64 {
	v, err := e.Objective(states)
	if err != nil {
		panic(err)
	}
	return v
}
