package neighborhood

import (
	"fmt"
	"math/rand"

	mapset "github.com/deckarep/golang-set/v2"

	"processPlan/internal/decode"
	"processPlan/internal/precedence"
)

// Policy — правило принятия улучшения в одном проходе локального поиска.
type Policy string

const (
	// PolicyBest просматривает весь проход и берёт лучший ход.
	PolicyBest Policy = "best"
	// PolicyFirst завершает проход на первом улучшении.
	PolicyFirst Policy = "first"
)

func (p Policy) Validate() error {
	switch p {
	case PolicyBest, PolicyFirst:
		return nil
	default:
		return fmt.Errorf("неизвестная политика локального поиска %q", p)
	}
}

// Searcher владеет декодером и генератором, поэтому один Searcher
// используется одним запуском оптимизатора.
type Searcher struct {
	Engine  *precedence.Engine
	Decoder *decode.Decoder
	Rng     *rand.Rand
	Policy  Policy
}

func New(e *precedence.Engine, d *decode.Decoder, rng *rand.Rand, policy Policy) (*Searcher, error) {
	if e == nil || d == nil {
		return nil, fmt.Errorf("engine and decoder are required")
	}
	if rng == nil {
		return nil, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return &Searcher{Engine: e, Decoder: d, Rng: rng, Policy: policy}, nil
}

// pass — один проход forward или backward по порядку plan.Order.
type pass func(plan decode.Plan, tried mapset.Set[Move]) (decode.Plan, int, error)

// LocalSearch выполняет forward- и backward-проходы в случайном порядке.
// Просмотренные тройки позиций не оцениваются повторно во втором проходе,
// если первый проход не дал улучшения.
// Возвращает лучший найденный план и число декодирований.
func (s *Searcher) LocalSearch(plan decode.Plan) (decode.Plan, int, error) {
	first, second := pass(s.forwardPass), pass(s.backwardPass)
	if s.Rng.Float64() >= 0.5 {
		first, second = second, first
	}

	tried := mapset.NewThreadUnsafeSet[Move]()
	p1, n1, err := first(plan, tried)
	if err != nil {
		return plan, n1, err
	}
	if p1.Objective < plan.Objective {
		tried.Clear()
	}
	p2, n2, err := second(p1, tried)
	if err != nil {
		return p1, n1 + n2, err
	}
	return p2, n1 + n2, nil
}

func (s *Searcher) forwardPass(plan decode.Plan, tried mapset.Set[Move]) (decode.Plan, int, error) {
	order := plan.Order
	m := len(order)
	best := plan
	evals := 0
	for a := 0; a <= m-2; a++ {
		for b := a; b <= m-2; b++ {
			mv, ok := Forward(s.Engine, order, a, b)
			if !ok {
				continue
			}
			cand, improved, err := s.try(order, mv, best, tried, &evals)
			if err != nil {
				return best, evals, err
			}
			if improved {
				best = cand
				if s.Policy == PolicyFirst {
					return best, evals, nil
				}
			}
		}
	}
	return best, evals, nil
}

func (s *Searcher) backwardPass(plan decode.Plan, tried mapset.Set[Move]) (decode.Plan, int, error) {
	order := plan.Order
	m := len(order)
	best := plan
	evals := 0
	for end := m - 1; end >= 1; end-- {
		for c := end; c >= 1; c-- {
			mv, ok := Backward(s.Engine, order, c, end)
			if !ok {
				continue
			}
			cand, improved, err := s.try(order, mv, best, tried, &evals)
			if err != nil {
				return best, evals, err
			}
			if improved {
				best = cand
				if s.Policy == PolicyFirst {
					return best, evals, nil
				}
			}
		}
	}
	return best, evals, nil
}

// try декодирует ход, если он ещё не просматривался.
func (s *Searcher) try(order []int, mv Move, best decode.Plan, tried mapset.Set[Move], evals *int) (decode.Plan, bool, error) {
	if !tried.Add(mv) {
		return decode.Plan{}, false, nil
	}
	next := Apply(order, mv)
	cand, err := s.Decoder.Decode(next)
	*evals++
	if err != nil {
		return decode.Plan{}, false, err
	}
	return cand, cand.Objective < best.Objective, nil
}

// RandomMove применяет один случайный допустимый ход (forward или backward
// равновероятно). ok == false, если порядок не допускает ни одного хода.
func (s *Searcher) RandomMove(order []int) ([]int, bool) {
	return RandomMove(s.Engine, order, s.Rng)
}

func RandomMove(e *precedence.Engine, order []int, rng *rand.Rand) ([]int, bool) {
	mv, ok := RandomExchange(e, order, rng)
	if !ok {
		return order, false
	}
	return Apply(order, mv), true
}

// RandomExchange выбирает случайный непустой ход, повторяя выбор границ,
// пока правый или левый блок пуст.
func RandomExchange(e *precedence.Engine, order []int, rng *rand.Rand) (Move, bool) {
	m := len(order)
	if m < 2 || !Movable(e, order) {
		return Move{}, false
	}
	for {
		var (
			mv Move
			ok bool
		)
		if rng.Float64() <= 0.5 {
			h, i := distinctPair(rng, 0, m-1)
			mv, ok = Forward(e, order, h, i-1)
		} else {
			i, h := distinctPair(rng, 2, m+1)
			mv, ok = Backward(e, order, i-1, h-2)
		}
		if ok {
			return mv, true
		}
	}
}

// distinctPair — два различных числа из [lo, hi], по возрастанию.
func distinctPair(rng *rand.Rand, lo, hi int) (int, int) {
	span := hi - lo + 1
	a := rng.Intn(span)
	b := rng.Intn(span - 1)
	if b >= a {
		b++
	}
	if a > b {
		a, b = b, a
	}
	return lo + a, lo + b
}

// Shake применяет k случайных ходов и декодирует результат один раз.
// При k == 0 план возвращается без изменений и без декодирования.
func (s *Searcher) Shake(plan decode.Plan, k int) (decode.Plan, int, error) {
	if k <= 0 {
		return plan, 0, nil
	}
	order := plan.Order
	for i := 0; i < k; i++ {
		next, ok := s.RandomMove(order)
		if !ok {
			break
		}
		order = next
	}
	s.Engine.MustFeasible(order)

	shaken, err := s.Decoder.Decode(order)
	if err != nil {
		return plan, 1, err
	}
	return shaken, 1, nil
}
