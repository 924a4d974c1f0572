package opt

import (
	"time"

	"processPlan/internal/decode"
)

// Incumbent хранит лучший найденный план и историю его улучшений.
type Incumbent struct {
	Plan        decode.Plan
	ConvergedAt int
	History     []Point
}

// Offer принимает план, если он строго лучше текущего (или рекорда ещё нет).
// evals — число оценок, потраченное к этому моменту.
func (in *Incumbent) Offer(p decode.Plan, evals int) bool {
	if !in.Plan.Empty() && p.Objective >= in.Plan.Objective {
		return false
	}
	in.Plan = p.Clone()
	in.ConvergedAt = evals
	in.History = append(in.History, Point{Evaluations: evals, Objective: p.Objective})
	return true
}

func (in *Incumbent) Result(evals, iters int, start time.Time, meta map[string]any) Result {
	return Result{
		Plan:        in.Plan.Clone(),
		Objective:   in.Plan.Objective,
		Evaluations: evals,
		ConvergedAt: in.ConvergedAt,
		Iterations:  iters,
		Duration:    time.Since(start),
		History:     append([]Point(nil), in.History...),
		Meta:        meta,
	}
}

// Stopped — результат при отмене контекста.
func (in *Incumbent) Stopped(evals, iters int, start time.Time) Result {
	return in.Result(evals, iters, start, map[string]any{"stopped": "context"})
}
