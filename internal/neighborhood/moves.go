// Package neighborhood — сохраняющие предшествование 3-exchange ходы,
// локальный поиск и встряска над порядками операций.
package neighborhood

import "processPlan/internal/precedence"

// Move меняет местами два соседних блока: левый [Start, Mid] и правый [Mid+1, End].
// После хода правый блок стоит перед левым.
type Move struct {
	Start int
	Mid   int
	End   int
}

// Forward фиксирует левый блок [start, mid] и расширяет правый блок вправо,
// пока ни одна операция левого блока не обязана предшествовать очередной.
// ok == false, если правый блок пуст или индексы вне порядка.
func Forward(e *precedence.Engine, order []int, start, mid int) (Move, bool) {
	if start < 0 || start > mid || mid+1 >= len(order) {
		return Move{}, false
	}
	end := mid
	for c := mid + 1; c < len(order); c++ {
		if blocksForward(e, order[start:mid+1], order[c]) {
			break
		}
		end = c
	}
	if end == mid {
		return Move{}, false
	}
	return Move{Start: start, Mid: mid, End: end}, true
}

// Backward фиксирует правый блок [rightStart, rightEnd] и расширяет левый блок
// влево, пока очередная операция не обязана предшествовать правому блоку.
func Backward(e *precedence.Engine, order []int, rightStart, rightEnd int) (Move, bool) {
	if rightStart < 1 || rightStart > rightEnd || rightEnd >= len(order) {
		return Move{}, false
	}
	start := rightStart
	for j := rightStart - 1; j >= 0; j-- {
		if blocksBackward(e, order[rightStart:rightEnd+1], order[j]) {
			break
		}
		start = j
	}
	if start == rightStart {
		return Move{}, false
	}
	return Move{Start: start, Mid: rightStart - 1, End: rightEnd}, true
}

func blocksForward(e *precedence.Engine, left []int, op int) bool {
	for _, l := range left {
		if e.ClosurePrecedes(l, op) {
			return true
		}
	}
	return false
}

func blocksBackward(e *precedence.Engine, right []int, op int) bool {
	for _, r := range right {
		if e.ClosurePrecedes(op, r) {
			return true
		}
	}
	return false
}

// Apply возвращает новый порядок; исходный не изменяется.
func Apply(order []int, m Move) []int {
	out := make([]int, 0, len(order))
	out = append(out, order[:m.Start]...)
	out = append(out, order[m.Mid+1:m.End+1]...)
	out = append(out, order[m.Start:m.Mid+1]...)
	out = append(out, order[m.End+1:]...)
	return out
}

// Movable сообщает, допускает ли порядок хотя бы один ход: для этого
// достаточно и необходимо, чтобы какая-то соседняя пара не была
// упорядочена замыканием.
func Movable(e *precedence.Engine, order []int) bool {
	for i := 0; i+1 < len(order); i++ {
		if !e.ClosurePrecedes(order[i], order[i+1]) {
			return true
		}
	}
	return false
}

// Reverse — ход, возвращающий порядок после m к исходному.
func (m Move) Reverse() Move {
	return Move{Start: m.Start, Mid: m.Start + m.End - m.Mid - 1, End: m.End}
}
