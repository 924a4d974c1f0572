package aco

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"processPlan/internal/decode"
	"processPlan/internal/fpp"
	"processPlan/internal/opt"
	"processPlan/internal/precedence"
)

// Solver - структура реализации муравьиного алгоритма.
// Муравей строит последовательность состояний (операция, станок, инструмент,
// направление) напрямую, без декодера.
type Solver struct {
	Cfg Config
	Rng *rand.Rand
}

// New возвращает новый ACO-солвер с валидацией конфигурации, с использованием инициализированного генератора случайных чисел.
// Используется в фабриках.
func New(cfg Config, rng *rand.Rand) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}
	return &Solver{Cfg: cfg, Rng: rng}, nil
}

// colony — граф состояний: глобальная нумерация всех состояний всех операций
// и матрица феромонов между ними.
type colony struct {
	spec   *fpp.Spec
	offset []int // первый глобальный индекс состояний операции
	states []fpp.CandidateState
	size   int
	tau    []float64
}

func newColony(spec *fpp.Spec, tau0 float64) *colony {
	c := &colony{spec: spec, offset: make([]int, spec.NumOperations())}
	for op := range c.offset {
		c.offset[op] = len(c.states)
		c.states = append(c.states, spec.States(op)...)
	}
	c.size = len(c.states)
	c.tau = make([]float64, c.size*c.size)
	for i := range c.tau {
		c.tau[i] = tau0
	}
	return c
}

// ant — одна построенная последовательность.
type ant struct {
	states []fpp.CandidateState
	nodes  []int
	obj    float64
}

// Solve — реализация эвристики.
func (s *Solver) Solve(ctx context.Context, spec *fpp.Spec) (opt.Result, error) {
	startTime := time.Now()

	// Валидация входных данных
	if err := s.Cfg.Validate(); err != nil {
		return opt.Result{}, err
	}
	if s.Rng == nil {
		return opt.Result{}, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}

	engine, err := precedence.New(spec)
	if err != nil {
		return opt.Result{}, err
	}
	// Оценка целевой функции
	eval, err := fpp.NewEvaluator(spec)
	if err != nil {
		return opt.Result{}, err
	}

	n := engine.Size()
	budget := opt.Budget(s.Cfg.Evaluations, s.Cfg.EvaluationsPerOperation, n)
	col := newColony(spec, s.Cfg.Tau0)

	ants := make([]ant, s.Cfg.Ants)
	for a := range ants {
		ants[a] = ant{
			states: make([]fpp.CandidateState, n),
			nodes:  make([]int, n),
		}
	}

	var inc opt.Incumbent
	evals := 0
	iter := 0
	for ; evals <= budget; iter++ {
		// Для поддержки отмены через context
		if err := ctx.Err(); err != nil {
			return inc.Stopped(evals, iter, startTime), err
		}

		// Муравьи пошли
		for a := range ants {
			if err := s.construct(engine, col, &ants[a]); err != nil {
				return inc.Result(evals, iter, startTime, nil), err
			}
			obj, err := eval.Objective(ants[a].states)
			if err != nil {
				return inc.Result(evals, iter, startTime, nil), err
			}
			evals++
			ants[a].obj = obj

			ops := make([]int, n)
			for i, st := range ants[a].states {
				ops[i] = st.Op
			}
			states := make([]fpp.CandidateState, n)
			copy(states, ants[a].states)
			inc.Offer(decode.Plan{Order: ops, States: states, Objective: obj}, evals)
		}

		// Испарение феромона
		ev := 1.0 - s.Cfg.Rho
		for i := range col.tau {
			col.tau[i] *= ev
			if col.tau[i] < 1e-12 {
				col.tau[i] = 1e-12
			}
		}

		// Каждый муравей откладывает Q/obj вдоль своего пути
		for a := range ants {
			dep := s.Cfg.Q
			if ants[a].obj > 0 {
				dep /= ants[a].obj
			}
			nodes := ants[a].nodes
			for i := 0; i+1 < len(nodes); i++ {
				col.tau[nodes[i]*col.size+nodes[i+1]] += dep
			}
		}
	}

	return inc.Result(evals, iter, startTime, map[string]any{
		"ants":        s.Cfg.Ants,
		"alpha":       s.Cfg.Alpha,
		"beta":        s.Cfg.Beta,
		"rho":         s.Cfg.Rho,
		"Q":           s.Cfg.Q,
		"tau0":        s.Cfg.Tau0,
		"candidate_k": s.Cfg.CandidateK,
		"fallback":    string(s.Cfg.Fallback),
	}), nil
}

// construct строит одну последовательность состояний.
// Первое состояние выбирается равновероятно, далее — по формуле ACO
// с эвристикой 1/(стоимость шага + 1).
func (s *Solver) construct(engine *precedence.Engine, col *colony, out *ant) error {
	spec := col.spec
	tr := engine.NewTracker()

	var (
		cands   []int
		weights []float64
	)
	for pos := 0; !tr.Done(); pos++ {
		ready := tr.ReadyGroups()
		sort.Ints(ready)

		// Допустимые вершины: все состояния всех членов квалифицированных групп
		cands = cands[:0]
		for _, g := range ready {
			for _, op := range spec.Members(g) {
				for i := range spec.States(op) {
					cands = append(cands, col.offset[op]+i)
				}
			}
		}
		if len(cands) == 0 {
			return fmt.Errorf("%w: no candidate state at position %d", fpp.ErrInvalidSpecification, pos)
		}

		// Ограничение списка кандидатов
		k := len(cands)
		if s.Cfg.CandidateK > 0 && s.Cfg.CandidateK < k {
			k = s.Cfg.CandidateK
			for t := 0; t < k; t++ {
				r := t + s.Rng.Intn(len(cands)-t)
				cands[t], cands[r] = cands[r], cands[t]
			}
		}

		var chosen int
		if pos == 0 {
			chosen = s.Rng.Intn(k)
		} else {
			prevNode := out.nodes[pos-1]
			prev := out.states[pos-1]

			// Подсчёт весов вероятностей выбора
			weights = weights[:0]
			sumW := 0.0
			for _, v := range cands[:k] {
				st := col.state(v)
				step := st.Value + spec.Changeover(prev, st)
				w := fastPow(col.tau[prevNode*col.size+v], s.Cfg.Alpha) * fastPow(1/(step+1), s.Cfg.Beta)
				weights = append(weights, w)
				sumW += w
			}

			// Стохастический выбор следующего состояния
			if !(sumW > 0) || math.IsInf(sumW, 0) {
				if s.Cfg.Fallback == opt.FallbackStrict {
					return fmt.Errorf("aco: position %d: %w", pos, opt.ErrNoGreedyChoice)
				}
				chosen = s.Rng.Intn(k)
			} else {
				r := s.Rng.Float64() * sumW
				acc := 0.0
				chosen = k - 1
				for i := 0; i < k; i++ {
					acc += weights[i]
					if r <= acc {
						chosen = i
						break
					}
				}
			}
		}

		node := cands[chosen]
		st := col.state(node)
		out.nodes[pos] = node
		out.states[pos] = st
		if err := tr.Place(st.Op); err != nil {
			return err
		}
	}
	return nil
}

func (c *colony) state(node int) fpp.CandidateState { return c.states[node] }

// fastPow — оптимизация для частых степеней.
// Таким образом избегаем вызова math.Pow в простых случаях.
func fastPow(x, p float64) float64 {
	if p == 0 {
		return 1.0
	}
	if p == 1 {
		return x
	}
	if p == 2 {
		return x * x
	}
	return math.Pow(x, p)
}
