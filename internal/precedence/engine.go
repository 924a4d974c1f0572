// Package precedence — частичный порядок над группами альтернатив:
// матрица предшествования, транзитивное замыкание, квалификация
// и генерация допустимых порядков операций.
package precedence

import (
	"fmt"
	"strings"

	"processPlan/internal/fpp"
)

// Engine работает на уровне групп: неальтернативная операция — группа из одного
// элемента. Рёбра группы — объединение рёбер её членов, поэтому любой выбор
// члена группы при декодировании остаётся допустимым.
// После New структура не изменяется.
type Engine struct {
	spec *fpp.Spec
	n    int

	pred [][]int
	succ [][]int

	direct  [][]bool
	closure [][]bool
}

func New(spec *fpp.Spec) (*Engine, error) {
	if spec == nil {
		return nil, fmt.Errorf("%w: nil spec", fpp.ErrInvalidSpecification)
	}

	n := spec.NumGroups()
	e := &Engine{
		spec:    spec,
		n:       n,
		pred:    make([][]int, n),
		succ:    make([][]int, n),
		direct:  newMatrix(n),
		closure: newMatrix(n),
	}

	for op := 0; op < spec.NumOperations(); op++ {
		to := spec.GroupOf(op)
		for _, p := range spec.Prior(op) {
			from := spec.GroupOf(p)
			if from == to {
				return nil, fmt.Errorf("%w: %s requires %s from its own alternative group",
					fpp.ErrInvalidSpecification, spec.OperationID(op), spec.OperationID(p))
			}
			if e.direct[from][to] {
				continue
			}
			e.direct[from][to] = true
			e.pred[to] = append(e.pred[to], from)
			e.succ[from] = append(e.succ[from], to)
		}
	}

	if cycle := e.detectCycle(); cycle != nil {
		names := make([]string, len(cycle))
		for i, g := range cycle {
			names[i] = spec.OperationID(spec.Members(g)[0])
		}
		return nil, fmt.Errorf("%w: precedence cycle %s",
			fpp.ErrInvalidSpecification, strings.Join(names, " -> "))
	}

	// Флойд–Уоршелл только по группам, участвующим хотя бы в одном ребре.
	var active []int
	for g := 0; g < n; g++ {
		copy(e.closure[g], e.direct[g])
		if len(e.pred[g]) > 0 || len(e.succ[g]) > 0 {
			active = append(active, g)
		}
	}
	for _, k := range active {
		for _, i := range active {
			if !e.closure[i][k] {
				continue
			}
			for _, j := range active {
				if e.closure[k][j] {
					e.closure[i][j] = true
				}
			}
		}
	}
	return e, nil
}

func newMatrix(n int) [][]bool {
	backing := make([]bool, n*n)
	m := make([][]bool, n)
	for i := range m {
		m[i] = backing[i*n : (i+1)*n]
	}
	return m
}

// detectCycle возвращает путь цикла (первая вершина повторяется в конце)
// или nil, если граф ацикличен. DFS с раскраской white/gray/black.
func (e *Engine) detectCycle() []int {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	color := make([]int, e.n)
	parent := make([]int, e.n)

	var dfs func(g int) []int
	dfs = func(g int) []int {
		color[g] = gray
		for _, next := range e.succ[g] {
			if color[next] == gray {
				cycle := []int{next, g}
				for cur := g; cur != next; {
					cur = parent[cur]
					cycle = append(cycle, cur)
				}
				for i, j := 0, len(cycle)-1; i < j; i, j = i+1, j-1 {
					cycle[i], cycle[j] = cycle[j], cycle[i]
				}
				return cycle
			}
			if color[next] == white {
				parent[next] = g
				if cycle := dfs(next); cycle != nil {
					return cycle
				}
			}
		}
		color[g] = black
		return nil
	}

	for g := 0; g < e.n; g++ {
		if color[g] == white {
			if cycle := dfs(g); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}

func (e *Engine) Spec() *fpp.Spec { return e.spec }

// Size — длина любого допустимого порядка (число групп).
func (e *Engine) Size() int { return e.n }

// Representatives возвращает по одному представителю на группу в порядке групп.
func (e *Engine) Representatives() []int {
	out := make([]int, e.n)
	for g := range out {
		out[g] = e.spec.Members(g)[0]
	}
	return out
}

// Precedes — прямое ребро предшествования между группами операций a и b.
func (e *Engine) Precedes(a, b int) bool {
	return e.direct[e.spec.GroupOf(a)][e.spec.GroupOf(b)]
}

// ClosurePrecedes сообщает, должна ли операция a выполняться раньше b
// (с учётом транзитивности). O(1).
func (e *Engine) ClosurePrecedes(a, b int) bool {
	return e.closure[e.spec.GroupOf(a)][e.spec.GroupOf(b)]
}

// Related — a и b упорядочены замыканием в ту или другую сторону.
func (e *Engine) Related(a, b int) bool {
	ga, gb := e.spec.GroupOf(a), e.spec.GroupOf(b)
	return e.closure[ga][gb] || e.closure[gb][ga]
}
