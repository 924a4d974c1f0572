package ts

import "processPlan/internal/neighborhood"

// tabuList — кольцевой буфер фиксированного размера
// с map для быстрой проверки табуированности.
type tabuList struct {
	m   map[uint64]int // ключ → итерация истечения табу
	key []uint64
	exp []int
	i   int
}

func newTabuList(capacity int) *tabuList {
	if capacity < 8 {
		capacity = 8
	}
	return &tabuList{
		m:   make(map[uint64]int, capacity*2),
		key: make([]uint64, capacity),
		exp: make([]int, capacity),
	}
}

func (t *tabuList) IsTabu(k uint64, iter int) bool {
	exp, ok := t.m[k]
	return ok && exp > iter
}

// Add добавляет ход со сроком истечения expiry, вытесняя самый старый.
func (t *tabuList) Add(k uint64, expiry int) {
	oldK := t.key[t.i]
	if oldK != 0 {
		if curExp, ok := t.m[oldK]; ok && curExp == t.exp[t.i] {
			delete(t.m, oldK)
		}
	}

	t.key[t.i] = k
	t.exp[t.i] = expiry
	t.m[k] = expiry

	t.i++
	if t.i >= len(t.key) {
		t.i = 0
	}
}

// moveKey кодирует ход вместе с операцией, открывающей левый блок.
// End > Mid, поэтому ключ никогда не равен нулю.
func moveKey(op int, mv neighborhood.Move) uint64 {
	return uint64(uint16(op))<<48 |
		uint64(uint16(mv.Start))<<32 |
		uint64(uint16(mv.Mid))<<16 |
		uint64(uint16(mv.End))
}

// reverseKey — ключ хода, который отменяет mv, применённый к order.
func reverseKey(order []int, mv neighborhood.Move) uint64 {
	return moveKey(order[mv.Mid+1], mv.Reverse())
}
