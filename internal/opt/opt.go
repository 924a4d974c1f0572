package opt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"processPlan/internal/decode"
	"processPlan/internal/fpp"
)

type Optimizer interface {
	Solve(ctx context.Context, spec *fpp.Spec) (Result, error)
}

// Point — улучшение рекорда: число оценок на момент улучшения и новое значение.
type Point struct {
	Evaluations int
	Objective   float64
}

type Result struct {
	Plan        decode.Plan
	Objective   float64
	Evaluations int
	// ConvergedAt — число оценок, на котором последний раз улучшен рекорд.
	ConvergedAt int
	Iterations  int
	Duration    time.Duration
	History     []Point
	Meta        map[string]any
}

// Budget возвращает бюджет оценок: явный, если задан, иначе perOperation × size.
func Budget(evaluations, perOperation, size int) int {
	if evaluations > 0 {
		return evaluations
	}
	return perOperation * size
}

// ErrNoGreedyChoice — жадный выбор невозможен, а политика запрещает случайный.
var ErrNoGreedyChoice = errors.New("no greedy choice available")

// Fallback — поведение, когда вероятностный выбор вырожден
// (сумма весов нулевая или не конечна).
type Fallback string

const (
	FallbackUniform Fallback = "uniform"
	FallbackStrict  Fallback = "strict"
)

func (f Fallback) Validate() error {
	switch f {
	case FallbackUniform, FallbackStrict:
		return nil
	default:
		return fmt.Errorf("неизвестная политика отката %q", f)
	}
}
