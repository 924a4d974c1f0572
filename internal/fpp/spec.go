package fpp

import "fmt"

// CandidateState — конкретный выбор (операция, станок, инструмент, направление)
// с собственной стоимостью/временем. Ресурсы хранятся индексами Spec.
type CandidateState struct {
	Op        int
	Machine   int
	Tool      int
	Direction int
	Value     float64
}

// Spec — скомпилированный экземпляр задачи. После NewSpec не изменяется,
// поэтому безопасно разделяется между параллельными запусками.
// Срезы, возвращаемые методами, принадлежат Spec и не должны модифицироваться.
type Spec struct {
	Name      string
	Objective Objective

	ids   []string
	index map[string]int
	prior [][]int

	machines   []string
	tools      []string
	directions []string

	states [][]CandidateState

	groupOf []int
	groups  [][]int

	penalties Penalties
	mct       [][]float64
}

func NewSpec(inst *Instance) (*Spec, error) {
	if err := inst.Validate(); err != nil {
		return nil, err
	}

	n := len(inst.Operations)
	s := &Spec{
		Name:      inst.Name,
		Objective: inst.Objective,
		ids:       make([]string, n),
		index:     make(map[string]int, n),
		prior:     make([][]int, n),
		states:    make([][]CandidateState, n),
		groupOf:   make([]int, n),
		penalties: inst.Changeover,
	}
	for i, op := range inst.Operations {
		s.ids[i] = op.ID
		s.index[op.ID] = i
	}

	machineIdx := map[string]int{}
	toolIdx := map[string]int{}
	dirIdx := map[string]int{}
	intern := func(m map[string]int, names *[]string, v string) int {
		if i, ok := m[v]; ok {
			return i
		}
		m[v] = len(*names)
		*names = append(*names, v)
		return m[v]
	}

	for i, op := range inst.Operations {
		for _, p := range op.Prior {
			s.prior[i] = append(s.prior[i], s.index[p])
		}

		perMachine := inst.Objective == ObjectiveTime && len(op.Time) == len(op.Machines) &&
			len(op.Time) != len(op.Machines)*len(op.Tools)

		states := make([]CandidateState, 0, len(op.Machines)*len(op.Tools)*len(op.Directions))
		for mi, m := range op.Machines {
			mIdx := intern(machineIdx, &s.machines, m)
			for ti, t := range op.Tools {
				tIdx := intern(toolIdx, &s.tools, t)

				var value float64
				switch {
				case inst.Objective == ObjectiveCost:
					value = inst.MachineCost[m] + inst.ToolCost[t]
				case perMachine:
					value = op.Time[mi]
				default:
					value = op.Time[mi*len(op.Tools)+ti]
				}

				for _, d := range op.Directions {
					states = append(states, CandidateState{
						Op:        i,
						Machine:   mIdx,
						Tool:      tIdx,
						Direction: intern(dirIdx, &s.directions, d),
						Value:     value,
					})
				}
			}
		}
		s.states[i] = states
	}

	// Группы: сначала альтернативные (представитель — первый в списке),
	// затем одиночные операции в порядке описания.
	for i := range s.groupOf {
		s.groupOf[i] = -1
	}
	for _, alt := range inst.Alternatives {
		g := len(s.groups)
		members := make([]int, 0, len(alt))
		for _, id := range alt {
			op := s.index[id]
			s.groupOf[op] = g
			members = append(members, op)
		}
		s.groups = append(s.groups, members)
	}
	for i := range s.groupOf {
		if s.groupOf[i] < 0 {
			s.groupOf[i] = len(s.groups)
			s.groups = append(s.groups, []int{i})
		}
	}

	if inst.Objective == ObjectiveTime {
		s.mct = make([][]float64, len(s.machines))
		for a, from := range s.machines {
			s.mct[a] = make([]float64, len(s.machines))
			for b, to := range s.machines {
				if a != b {
					s.mct[a][b] = inst.MachineChangeoverTime[from][to]
				}
			}
		}
	}
	return s, nil
}

func (s *Spec) NumOperations() int { return len(s.ids) }

func (s *Spec) OperationID(op int) string { return s.ids[op] }

func (s *Spec) Index(id string) (int, bool) {
	i, ok := s.index[id]
	return i, ok
}

// Prior возвращает непосредственных предшественников операции.
func (s *Spec) Prior(op int) []int { return s.prior[op] }

func (s *Spec) States(op int) []CandidateState { return s.states[op] }

func (s *Spec) GroupOf(op int) int { return s.groupOf[op] }

func (s *Spec) NumGroups() int { return len(s.groups) }

// Members возвращает операции группы; первая — представитель.
func (s *Spec) Members(g int) []int { return s.groups[g] }

func (s *Spec) Machines() []string { return s.machines }

func (s *Spec) Tools() []string { return s.tools }

func (s *Spec) Directions() []string { return s.directions }

// Changeover — штраф за переход от prev к next:
// смена станка; смена станка или инструмента; смена станка или направления.
func (s *Spec) Changeover(prev, next CandidateState) float64 {
	var w float64
	machine := prev.Machine != next.Machine
	if machine {
		if s.Objective == ObjectiveTime {
			w += s.mct[prev.Machine][next.Machine]
		} else {
			w += s.penalties.Machine
		}
	}
	if machine || prev.Tool != next.Tool {
		w += s.penalties.Tool
	}
	if machine || prev.Direction != next.Direction {
		w += s.penalties.Setup
	}
	return w
}

// Label форматирует состояние как "operation|machine|tool|direction".
func (s *Spec) Label(st CandidateState) string {
	return fmt.Sprintf("%s|%s|%s|%s",
		s.ids[st.Op], s.machines[st.Machine], s.tools[st.Tool], s.directions[st.Direction])
}
