package ga

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"processPlan/internal/decode"
	"processPlan/internal/fpp"
	"processPlan/internal/neighborhood"
	"processPlan/internal/opt"
	"processPlan/internal/precedence"
)

// Solver — генетический алгоритм над порядками операций: турнирный отбор,
// кроссовер с переупорядочиванием отрезка, мутация 3-exchange ходом.
// Потомок заменяет родителя, только если он лучше.
type Solver struct {
	Cfg Config
	Rng *rand.Rand
}

// New возвращает новый GA-солвер с валидацией конфигурации, с использованием инициализированного генератора случайных чисел.
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

// Solve — реализация эвристики.
func (s *Solver) Solve(ctx context.Context, spec *fpp.Spec) (opt.Result, error) {
	start := time.Now()

	// Проверка корректности входных данных и конфигурации
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
	dec, err := decode.New(spec)
	if err != nil {
		return opt.Result{}, err
	}

	n := engine.Size()
	popSize := s.Cfg.Population
	budget := opt.Budget(s.Cfg.Evaluations, s.Cfg.EvaluationsPerOperation, n)

	// Инициализация начальной популяции
	pop := make([][]int, popSize)
	scores := make([]float64, popSize)
	var inc opt.Incumbent
	evals := 0
	for i := range pop {
		order, err := engine.RandomOrder(s.Rng)
		if err != nil {
			return opt.Result{}, err
		}
		plan, err := dec.Decode(order)
		if err != nil {
			return opt.Result{}, err
		}
		evals++
		pop[i] = order
		scores[i] = plan.Objective
		inc.Offer(plan, evals)
	}

	sc := newCrossoverScratch(spec.NumGroups())
	child1 := make([]int, n)
	child2 := make([]int, n)

	iter := 0
	for ; evals <= budget; iter++ {
		// Для поддержки отмены через context
		if err := ctx.Err(); err != nil {
			return inc.Stopped(evals, iter, start), err
		}

		// Турнирный отбор
		p1 := tournamentSelect(scores, s.Cfg.TournamentSize, s.Rng)
		p2 := tournamentSelect(scores, s.Cfg.TournamentSize, s.Rng)

		// Кроссовер
		if s.Rng.Float64() < s.Cfg.CrossoverRate {
			segmentCrossover(pop[p1], pop[p2], child1, child2, spec.GroupOf, s.Rng, sc)
		} else {
			copy(child1, pop[p1])
			copy(child2, pop[p2])
		}

		// Мутация и оценка потомков
		for _, pair := range [2]struct {
			child  []int
			parent int
		}{{child1, p1}, {child2, p2}} {
			child := pair.child
			if s.Rng.Float64() < s.Cfg.MutationRate {
				if moved, ok := neighborhood.RandomMove(engine, child, s.Rng); ok {
					copy(child, moved)
				}
			}

			plan, err := dec.Decode(child)
			if err != nil {
				return inc.Result(evals, iter, start, nil), err
			}
			evals++

			if plan.Objective < scores[pair.parent] {
				engine.MustFeasible(child)
				pop[pair.parent] = append(pop[pair.parent][:0], child...)
				scores[pair.parent] = plan.Objective
			}
			inc.Offer(plan, evals)
		}
	}

	return inc.Result(evals, iter, start, map[string]any{
		"population": s.Cfg.Population,
		"tournament": s.Cfg.TournamentSize,
		"pc":         s.Cfg.CrossoverRate,
		"pm":         s.Cfg.MutationRate,
	}), nil
}
