package precedence

import (
	"fmt"
	"math/rand"
	"sort"
)

// RandomOrder строит случайный допустимый порядок: на каждом шаге равновероятно
// выбирается одна из квалифицированных операций (любой член квалифицированной группы).
func (e *Engine) RandomOrder(rng *rand.Rand) ([]int, error) {
	if rng == nil {
		return nil, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}
	t := e.NewTracker()
	for !t.Done() {
		op, ok := e.pickUniform(t, rng)
		if !ok {
			return nil, e.errNoQualified(t)
		}
		if err := t.Place(op); err != nil {
			return nil, err
		}
	}
	return t.order, nil
}

// pickUniform выбирает операцию среди квалифицированных.
// Группы сортируются, чтобы выбор зависел только от состояния генератора.
func (e *Engine) pickUniform(t *Tracker, rng *rand.Rand) (int, bool) {
	ready := t.ReadyGroups()
	if len(ready) == 0 {
		return 0, false
	}
	sort.Ints(ready)

	total := 0
	for _, g := range ready {
		total += len(e.spec.Members(g))
	}
	r := rng.Intn(total)
	for _, g := range ready {
		m := e.spec.Members(g)
		if r < len(m) {
			return m[r], true
		}
		r -= len(m)
	}
	return 0, false
}

// KeyOrder декодирует вектор ключей (по одному на группу) в допустимый порядок:
// на каждом шаге ставится представитель квалифицированной группы с минимальным
// ключом. Равные ключи разрешаются по номеру группы.
func (e *Engine) KeyOrder(keys []float64) ([]int, error) {
	if len(keys) != e.n {
		return nil, fmt.Errorf("keys length must be %d (got %d)", e.n, len(keys))
	}
	t := e.NewTracker()
	for !t.Done() {
		ready := t.ReadyGroups()
		if len(ready) == 0 {
			return nil, e.errNoQualified(t)
		}
		best := ready[0]
		for _, g := range ready[1:] {
			if keys[g] < keys[best] || (keys[g] == keys[best] && g < best) {
				best = g
			}
		}
		if err := t.Place(e.spec.Members(best)[0]); err != nil {
			return nil, err
		}
	}
	return t.order, nil
}
