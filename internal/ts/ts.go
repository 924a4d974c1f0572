package ts

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

// Solver - структура реализации поиска с запретами.
type Solver struct {
	Cfg Config
	Rng *rand.Rand
}

// New возвращает новый TS-солвер с валидацией конфигурации, с использованием инициализированного генератора случайных чисел.
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

// candidate — соседнее решение вместе с породившим его ходом.
type candidate struct {
	plan decode.Plan
	move neighborhood.Move
	ok   bool
}

func (c *candidate) offer(plan decode.Plan, mv neighborhood.Move) {
	if !c.ok || plan.Objective < c.plan.Objective {
		c.plan, c.move, c.ok = plan, mv, true
	}
}

// Solve — основной цикл алгоритма
func (s *Solver) Solve(ctx context.Context, spec *fpp.Spec) (opt.Result, error) {
	start := time.Now()

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

	budget := opt.Budget(s.Cfg.Evaluations, s.Cfg.EvaluationsPerOperation, engine.Size())

	order, err := engine.RandomOrder(s.Rng)
	if err != nil {
		return opt.Result{}, err
	}
	curr, err := dec.Decode(order)
	if err != nil {
		return opt.Result{}, err
	}
	evals := 1

	var inc opt.Incumbent
	inc.Offer(curr, evals)

	// Ёмкость выбирается с запасом относительно длины табу
	tabu := newTabuList(max(32, (s.Cfg.TabuTenure+s.Cfg.TabuTenureRand)*4))

	iter := 0
	for ; evals <= budget; iter++ {
		// Для поддержки отмены через context
		if err := ctx.Err(); err != nil {
			return inc.Stopped(evals, iter, start), err
		}

		// Лучший допустимый ход и запасной (лучший без учёта табу),
		// используется если все допустимые ходы табуированы
		var allowed, fallback candidate

		for k := 0; k < s.Cfg.NeighborsPerIter && evals <= budget; k++ {
			mv, ok := neighborhood.RandomExchange(engine, curr.Order, s.Rng)
			if !ok {
				break
			}
			plan, err := dec.Decode(neighborhood.Apply(curr.Order, mv))
			if err != nil {
				return inc.Result(evals, iter, start, nil), err
			}
			evals++

			fallback.offer(plan, mv)

			// Табуированный ход пропускается,
			// если не выполняется критерий аспирации
			key := moveKey(curr.Order[mv.Start], mv)
			if tabu.IsTabu(key, iter) && plan.Objective >= inc.Plan.Objective {
				continue
			}
			allowed.offer(plan, mv)
		}

		chosen := allowed
		if !chosen.ok {
			chosen = fallback
		}
		// Нет допустимых ходов — завершаем поиск
		if !chosen.ok {
			break
		}

		// Обратный ход запрещается на tenure итераций
		tenure := s.Cfg.TabuTenure
		if s.Cfg.TabuTenureRand > 0 {
			tenure += s.Rng.Intn(s.Cfg.TabuTenureRand + 1)
		}
		tabu.Add(reverseKey(curr.Order, chosen.move), iter+tenure)

		engine.MustFeasible(chosen.plan.Order)
		curr = chosen.plan
		inc.Offer(curr, evals)
	}

	return inc.Result(evals, iter, start, map[string]any{
		"tabu_tenure":        s.Cfg.TabuTenure,
		"tabu_tenure_rand":   s.Cfg.TabuTenureRand,
		"neighbors_per_iter": s.Cfg.NeighborsPerIter,
		"current":            curr.Objective,
	}), nil
}
