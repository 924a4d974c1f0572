// Package vns — двухэтапный поиск с переменными окрестностями:
// встряска, локальный поиск, принятие или отказ.
package vns

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"processPlan/internal/decode"
	"processPlan/internal/fpp"
	"processPlan/internal/neighborhood"
	"processPlan/internal/opt"
	"processPlan/internal/precedence"
)

type Solver struct {
	Cfg Config
	Rng *rand.Rand
	// Log — необязательный журнал улучшений; nil отключает вывод.
	Log *log.Logger
}

// New возвращает новый VNS-солвер с валидацией конфигурации, с использованием инициализированного генератора случайных чисел.
func New(cfg Config, rng *rand.Rand) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}
	return &Solver{Cfg: cfg, Rng: rng}, nil
}

func (s *Solver) logf(format string, args ...any) {
	if s.Log != nil {
		s.Log.Printf("vns: "+format, args...)
	}
}

// Solve выполняет цикл, пока число оценок не превысит бюджет.
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
	search, err := neighborhood.New(engine, dec, s.Rng, s.Cfg.Policy)
	if err != nil {
		return opt.Result{}, err
	}

	budget := opt.Budget(s.Cfg.Evaluations, s.Cfg.EvaluationsPerOperation, engine.Size())

	// Начальное решение
	order, err := engine.RandomOrder(s.Rng)
	if err != nil {
		return opt.Result{}, err
	}
	plan, err := dec.Decode(order)
	if err != nil {
		return opt.Result{}, err
	}
	evals := 1

	var inc opt.Incumbent
	inc.Offer(plan, evals)
	s.logf("start case=%s size=%d budget=%d objective=%.3f", spec.Name, engine.Size(), budget, plan.Objective)

	k := s.Cfg.InitialK
	iter := 0
	for ; evals <= budget; iter++ {
		// Для поддержки отмены через context
		if err := ctx.Err(); err != nil {
			return inc.Stopped(evals, iter, start), err
		}

		shaken, n, err := search.Shake(inc.Plan, k)
		evals += n
		if err != nil {
			return inc.Result(evals, iter, start, nil), err
		}

		refined, n, err := search.LocalSearch(shaken)
		evals += n
		if err != nil {
			return inc.Result(evals, iter, start, nil), err
		}

		if refined.Objective < inc.Plan.Objective {
			engine.MustFeasible(refined.Order)
			inc.Offer(refined, evals)
			k = 0
			s.logf("improved iter=%d evals=%d objective=%.3f", iter, evals, refined.Objective)
		} else {
			k = s.Cfg.FailureK
		}
	}

	s.logf("done evals=%d converged_at=%d objective=%.3f", evals, inc.ConvergedAt, inc.Plan.Objective)
	return inc.Result(evals, iter, start, map[string]any{
		"budget":    budget,
		"policy":    string(s.Cfg.Policy),
		"initial_k": s.Cfg.InitialK,
		"failure_k": s.Cfg.FailureK,
	}), nil
}
