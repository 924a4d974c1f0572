package ga

import "math/rand"

// tournamentSelect реализует турнирный отбор без повторов.
// возвращается индекс особи с наилучшим значением fitness (минимальное значение целевой функции).
func tournamentSelect(scores []float64, tournamentSize int, rng *rand.Rand) int {
	best := -1
	for _, cand := range rng.Perm(len(scores))[:tournamentSize] {
		if best < 0 || scores[cand] < scores[best] {
			best = cand
		}
	}
	return best
}

// crossoverScratch — буферы кроссовера, индексированные группами.
// mark и stamp используются для отметки групп отрезка.
type crossoverScratch struct {
	mark   []int
	member []int
	stamp  int
}

func newCrossoverScratch(groups int) *crossoverScratch {
	return &crossoverScratch{mark: make([]int, groups), member: make([]int, groups)}
}

// segmentCrossover переупорядочивает случайный отрезок [i, j) каждого родителя
// в порядке, в котором группы этого отрезка встречаются у другого родителя.
// Позиции вне отрезка не меняются, поэтому предшествование сохраняется.
// Потомок сохраняет выбор альтернатив своего родителя.
func segmentCrossover(p1, p2, c1, c2 []int, groupOf func(int) int, rng *rand.Rand, sc *crossoverScratch) {
	sc.reorder(p1, p2, c1, groupOf, rng)
	sc.reorder(p2, p1, c2, groupOf, rng)
}

func (sc *crossoverScratch) reorder(base, guide, child []int, groupOf func(int) int, rng *rand.Rand) {
	n := len(base)
	copy(child, base)
	if n < 2 {
		return
	}

	// Выбор случайного отрезка [i, j); последняя позиция в отрезок не входит
	i := rng.Intn(n - 1)
	j := i + 1 + rng.Intn(n-i-1)

	sc.stamp++
	for k := i; k < j; k++ {
		g := groupOf(base[k])
		sc.mark[g] = sc.stamp
		sc.member[g] = base[k]
	}

	pos := i
	for _, op := range guide {
		g := groupOf(op)
		if sc.mark[g] == sc.stamp {
			child[pos] = sc.member[g]
			pos++
		}
	}
}
