package sa

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"processPlan/internal/decode"
	"processPlan/internal/fpp"
	"processPlan/internal/neighborhood"
	"processPlan/internal/opt"
	"processPlan/internal/precedence"
)

// Solver - структура реализации алгоритма имитации отжига
type Solver struct {
	Cfg Config
	Rng *rand.Rand
}

// New возвращает новый SA-солвер с валидацией конфигурации, с использованием инициализированного генератора случайных чисел.
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

// Solve — реализация эвристики. Останавливается по бюджету оценок
// или при охлаждении до FinalTemp.
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
	// Встряска с k ходами и одним декодированием даёт соседнее решение
	search, err := neighborhood.New(engine, dec, s.Rng, neighborhood.PolicyBest)
	if err != nil {
		return opt.Result{}, err
	}

	budget := opt.Budget(s.Cfg.Evaluations, s.Cfg.EvaluationsPerOperation, engine.Size())

	// Инициализация текущего решения
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

	T := s.Cfg.InitialTemp
	iter := 0
	for ; evals <= budget && T > s.Cfg.FinalTemp; iter++ {
		// Для поддержки отмены через context
		if err := ctx.Err(); err != nil {
			res := inc.Stopped(evals, iter, start)
			res.Meta["T"] = T
			return res, err
		}

		cand, n, err := search.Shake(curr, s.Cfg.MovesPerStep)
		evals += n
		if err != nil {
			return inc.Result(evals, iter, start, nil), err
		}

		delta := cand.Objective - curr.Objective
		accept := false
		if delta <= 0 {
			// Улучшающее решение принимаем всегда
			accept = true
		} else {
			// Критерий Метрополиса:
			// допускает принятие ухудшающих решений
			p := math.Exp(-delta / T)
			if s.Rng.Float64() < p {
				accept = true
			}
		}

		if accept {
			curr = cand
			// Обновление глобально лучшего решения
			inc.Offer(curr, evals)
		}

		// Охлаждение температуры
		T *= s.Cfg.Alpha
	}

	return inc.Result(evals, iter, start, map[string]any{
		"initial_temp":   s.Cfg.InitialTemp,
		"final_temp":     s.Cfg.FinalTemp,
		"alpha":          s.Cfg.Alpha,
		"moves_per_step": s.Cfg.MovesPerStep,
		"T":              T,
	}), nil
}
