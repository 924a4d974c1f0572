package precedence

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"

	"processPlan/internal/fpp"
)

// Tracker — состояние квалификации одного строящегося порядка.
// Каждый порядок владеет своим Tracker; Clone копирует его целиком.
type Tracker struct {
	e *Engine

	waiting []int  // число ещё не размещённых предшественников группы
	decided []bool // группа уже представлена в порядке
	ready   []int  // квалифицированные группы
	order   []int
}

func (e *Engine) NewTracker() *Tracker {
	t := &Tracker{
		e:       e,
		waiting: make([]int, e.n),
		decided: make([]bool, e.n),
		ready:   make([]int, 0, e.n),
		order:   make([]int, 0, e.n),
	}
	for g := 0; g < e.n; g++ {
		t.waiting[g] = len(e.pred[g])
		if t.waiting[g] == 0 {
			t.ready = append(t.ready, g)
		}
	}
	return t
}

func (t *Tracker) Clone() *Tracker {
	c := &Tracker{
		e:       t.e,
		waiting: make([]int, len(t.waiting)),
		decided: make([]bool, len(t.decided)),
		ready:   make([]int, len(t.ready), t.e.n),
		order:   make([]int, len(t.order), t.e.n),
	}
	copy(c.waiting, t.waiting)
	copy(c.decided, t.decided)
	copy(c.ready, t.ready)
	copy(c.order, t.order)
	return c
}

// Len — число уже размещённых операций.
func (t *Tracker) Len() int { return len(t.order) }

func (t *Tracker) Done() bool { return len(t.order) == t.e.n }

// Order возвращает копию построенного префикса.
func (t *Tracker) Order() []int {
	out := make([]int, len(t.order))
	copy(out, t.order)
	return out
}

// ReadyGroups — квалифицированные группы. Срез принадлежит Tracker
// и меняется при следующем Place.
func (t *Tracker) ReadyGroups() []int { return t.ready }

// Qualified — все операции квалифицированных групп (каждый член группы
// допустим, пока группа не представлена в порядке).
func (t *Tracker) Qualified() mapset.Set[int] {
	s := mapset.NewThreadUnsafeSet[int]()
	for _, g := range t.ready {
		s.Append(t.e.spec.Members(g)...)
	}
	return s
}

func (t *Tracker) IsQualified(op int) bool {
	if op < 0 || op >= t.e.spec.NumOperations() {
		return false
	}
	g := t.e.spec.GroupOf(op)
	return !t.decided[g] && t.waiting[g] == 0
}

// Place добавляет операцию в порядок и исключает остальных членов её группы.
func (t *Tracker) Place(op int) error {
	if !t.IsQualified(op) {
		return t.e.notQualified(op, t.order)
	}
	g := t.e.spec.GroupOf(op)
	t.decided[g] = true
	t.order = append(t.order, op)

	for i, r := range t.ready {
		if r == g {
			t.ready = append(t.ready[:i], t.ready[i+1:]...)
			break
		}
	}
	for _, s := range t.e.succ[g] {
		t.waiting[s]--
		if t.waiting[s] == 0 {
			t.ready = append(t.ready, s)
		}
	}
	return nil
}

func (e *Engine) notQualified(op int, prefix []int) error {
	if op < 0 || op >= e.spec.NumOperations() {
		return fmt.Errorf("operation index %d out of range at position %d", op, len(prefix))
	}
	return fmt.Errorf("operation %s is not qualified at position %d", e.spec.OperationID(op), len(prefix))
}

// Qualified строит состояние по префиксу и возвращает множество
// операций, которые можно поставить следующими.
func (e *Engine) Qualified(prefix []int) (mapset.Set[int], error) {
	t := e.NewTracker()
	for _, op := range prefix {
		if err := t.Place(op); err != nil {
			return nil, err
		}
	}
	return t.Qualified(), nil
}

// Check проверяет, что order — полный допустимый порядок: по одному члену
// каждой группы и соблюдение предшествования.
func (e *Engine) Check(order []int) error {
	if len(order) != e.n {
		return fmt.Errorf("order length must be %d (got %d)", e.n, len(order))
	}
	t := e.NewTracker()
	for _, op := range order {
		if err := t.Place(op); err != nil {
			return err
		}
	}
	return nil
}

// MustFeasible паникует на недопустимом порядке. Используется для
// проверки инвариантов там, где порядок допустим по построению.
func (e *Engine) MustFeasible(order []int) {
	if err := e.Check(order); err != nil {
		panic(fmt.Sprintf("precedence invariant violated: %v", err))
	}
}

// errNoQualified — префикс не полон, а квалифицированных групп нет.
// При ацикличном графе недостижимо.
func (e *Engine) errNoQualified(t *Tracker) error {
	return fmt.Errorf("%w: no qualified operation after %d of %d placed",
		fpp.ErrInvalidSpecification, t.Len(), e.n)
}
