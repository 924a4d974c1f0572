package pso

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"processPlan/internal/decode"
	"processPlan/internal/fpp"
	"processPlan/internal/opt"
	"processPlan/internal/precedence"
)

// Solver - структура реализации алгоритма роя частиц
type Solver struct {
	Cfg Config
	Rng *rand.Rand
}

// New возвращает новый PSO-солвер с валидацией конфигурации, с использованием инициализированного генератора случайных чисел.
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

// particle описывает одну частицу роя.
type particle struct {
	// pos — ключ приоритета для каждой группы операций
	pos []float64
	vel []float64

	// pBestPos — лучшая позиция частицы за всё время
	pBestPos  []float64
	pBestCost float64
}

// swarm связывает ключи частиц с планами.
type swarm struct {
	engine *precedence.Engine
	dec    *decode.Decoder
}

// evaluate строит допустимый порядок по ключам и декодирует его.
func (sw swarm) evaluate(keys []float64) (decode.Plan, error) {
	order, err := sw.engine.KeyOrder(keys)
	if err != nil {
		return decode.Plan{}, err
	}
	sw.engine.MustFeasible(order)
	return sw.dec.Decode(order)
}

// Solve — реализация эвристики.
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
	sw := swarm{engine: engine, dec: dec}

	n := engine.Size()
	budget := opt.Budget(s.Cfg.Evaluations, s.Cfg.EvaluationsPerOperation, n)

	ps := make([]particle, s.Cfg.Particles)
	for i := range ps {
		ps[i] = particle{
			pos:       make([]float64, n),
			vel:       make([]float64, n),
			pBestPos:  make([]float64, n),
			pBestCost: math.Inf(1),
		}
	}

	posMin, posMax := s.Cfg.PosMin, s.Cfg.PosMax
	doPosClamp := posMin < posMax

	var inc opt.Incumbent
	gBestPos := make([]float64, n)
	evals := 0

	// Случайная инициализация позиций и скоростей частиц
	for i := range ps {
		for d := 0; d < n; d++ {
			if doPosClamp {
				ps[i].pos[d] = posMin + s.Rng.Float64()*(posMax-posMin)
			} else {
				ps[i].pos[d] = s.Rng.Float64()
			}
			if s.Cfg.VMax > 0 {
				ps[i].vel[d] = (s.Rng.Float64()*2 - 1) * s.Cfg.VMax
			} else {
				ps[i].vel[d] = (s.Rng.Float64()*2 - 1) * 0.1
			}
		}

		plan, err := sw.evaluate(ps[i].pos)
		if err != nil {
			return opt.Result{}, err
		}
		evals++

		ps[i].pBestCost = plan.Objective
		copy(ps[i].pBestPos, ps[i].pos)
		if inc.Offer(plan, evals) {
			copy(gBestPos, ps[i].pos)
		}
	}

	w, c1, c2 := s.Cfg.W, s.Cfg.C1, s.Cfg.C2
	vMax := s.Cfg.VMax

	iter := 0
	for ; evals <= budget; iter++ {
		// Для поддержки отмены через context
		if err := ctx.Err(); err != nil {
			return inc.Stopped(evals, iter, start), err
		}

		for i := range ps {
			if evals > budget {
				break
			}
			p := &ps[i]

			// Обновление скорости и позиции частицы
			for d := 0; d < n; d++ {
				r1 := s.Rng.Float64()
				r2 := s.Rng.Float64()

				v := w*p.vel[d] +
					c1*r1*(p.pBestPos[d]-p.pos[d]) +
					c2*r2*(gBestPos[d]-p.pos[d])

				if vMax > 0 {
					if v > vMax {
						v = vMax
					} else if v < -vMax {
						v = -vMax
					}
				}
				p.vel[d] = v

				x := p.pos[d] + v
				if doPosClamp {
					if x < posMin {
						x = posMin
						p.vel[d] = 0
					} else if x > posMax {
						x = posMax
						p.vel[d] = 0
					}
				}
				p.pos[d] = x
			}

			plan, err := sw.evaluate(p.pos)
			if err != nil {
				return inc.Result(evals, iter, start, nil), err
			}
			evals++

			if plan.Objective < p.pBestCost {
				p.pBestCost = plan.Objective
				copy(p.pBestPos, p.pos)
			}
			if inc.Offer(plan, evals) {
				copy(gBestPos, p.pos)
			}
		}
	}

	return inc.Result(evals, iter, start, map[string]any{
		"particles": s.Cfg.Particles,
		"w":         w,
		"c1":        c1,
		"c2":        c2,
		"vmax":      vMax,
		"pos_min":   posMin,
		"pos_max":   posMax,
	}), nil
}
