// Package decode превращает фиксированный порядок операций в оптимальный план
// поиском кратчайшего пути в слоистом графе состояний.
package decode

import (
	"fmt"
	"math"

	"github.com/oleiade/lane/v2"

	"processPlan/internal/fpp"
)

// Decoder строит граф: исток, по слою на каждую позицию порядка (все состояния
// всех членов группы операции), сток. Вес ребра в состояние — его собственное
// значение плюс переналадка от предыдущего; в сток — ноль.
// Буферы переиспользуются между вызовами, поэтому Decoder не предназначен
// для одновременного использования из нескольких горутин.
type Decoder struct {
	spec   *fpp.Spec
	layers [][]fpp.CandidateState // состояния по группам

	nodes     []fpp.CandidateState
	layerOf   []int
	edgeStart []int
	edgeTo    []int
	edgeW     []float64
	dist      []float64
	prev      []int
	seen      []int
	mark      int
}

func New(spec *fpp.Spec) (*Decoder, error) {
	if spec == nil {
		return nil, fmt.Errorf("%w: nil spec", fpp.ErrInvalidSpecification)
	}
	d := &Decoder{
		spec:   spec,
		layers: make([][]fpp.CandidateState, spec.NumGroups()),
		seen:   make([]int, spec.NumGroups()),
	}
	for g := range d.layers {
		for _, op := range spec.Members(g) {
			d.layers[g] = append(d.layers[g], spec.States(op)...)
		}
	}
	return d, nil
}

func (d *Decoder) Spec() *fpp.Spec { return d.spec }

// Decode возвращает глобально оптимальный план для данного порядка.
// Порядок не проверяется на предшествование, только на состав.
func (d *Decoder) Decode(order []int) (Plan, error) {
	if len(order) != d.spec.NumGroups() {
		return Plan{}, fmt.Errorf("order length must be %d (got %d)", d.spec.NumGroups(), len(order))
	}

	d.mark++
	for i, op := range order {
		if op < 0 || op >= d.spec.NumOperations() {
			return Plan{}, fmt.Errorf("order[%d]: operation index %d out of range", i, op)
		}
		g := d.spec.GroupOf(op)
		if d.seen[g] == d.mark {
			return Plan{}, fmt.Errorf("order[%d]: group of %s appears twice", i, d.spec.OperationID(op))
		}
		d.seen[g] = d.mark
		if len(d.layers[g]) == 0 {
			return Plan{}, fmt.Errorf("%w: operation %s has no candidate states",
				fpp.ErrInvalidSpecification, d.spec.OperationID(op))
		}
	}

	d.build(order)
	sink, err := d.shortestPath()
	if err != nil {
		return Plan{}, err
	}

	states := make([]fpp.CandidateState, len(order))
	for u := d.prev[sink]; u > 0; u = d.prev[u] {
		states[d.layerOf[u]] = d.nodes[u]
	}

	ord := make([]int, len(order))
	copy(ord, order)
	return Plan{Order: ord, States: states, Objective: d.dist[sink]}, nil
}

// build заполняет вершины и рёбра (CSR) для порядка.
// Вершина 0 — исток, последняя — сток.
func (d *Decoder) build(order []int) {
	d.nodes = d.nodes[:0]
	d.layerOf = d.layerOf[:0]
	d.nodes = append(d.nodes, fpp.CandidateState{})
	d.layerOf = append(d.layerOf, -1)

	starts := make([]int, len(order)+1)
	for i, op := range order {
		starts[i] = len(d.nodes)
		for _, st := range d.layers[d.spec.GroupOf(op)] {
			d.nodes = append(d.nodes, st)
			d.layerOf = append(d.layerOf, i)
		}
	}
	sink := len(d.nodes)
	starts[len(order)] = sink
	d.nodes = append(d.nodes, fpp.CandidateState{})
	d.layerOf = append(d.layerOf, len(order))

	d.edgeStart = d.edgeStart[:0]
	d.edgeTo = d.edgeTo[:0]
	d.edgeW = d.edgeW[:0]

	// Исток -> первый слой: без переналадки.
	d.edgeStart = append(d.edgeStart, 0)
	for v := starts[0]; v < starts[1]; v++ {
		d.edgeTo = append(d.edgeTo, v)
		d.edgeW = append(d.edgeW, d.nodes[v].Value)
	}

	for i := range order {
		next := i + 1
		for u := starts[i]; u < starts[next]; u++ {
			d.edgeStart = append(d.edgeStart, len(d.edgeTo))
			if next == len(order) {
				d.edgeTo = append(d.edgeTo, sink)
				d.edgeW = append(d.edgeW, 0)
				continue
			}
			for v := starts[next]; v < starts[next+1]; v++ {
				d.edgeTo = append(d.edgeTo, v)
				d.edgeW = append(d.edgeW, d.nodes[v].Value+d.spec.Changeover(d.nodes[u], d.nodes[v]))
			}
		}
	}
	d.edgeStart = append(d.edgeStart, len(d.edgeTo), len(d.edgeTo))
}

// shortestPath — Дейкстра от истока; веса неотрицательны.
func (d *Decoder) shortestPath() (int, error) {
	n := len(d.nodes)
	sink := n - 1

	if cap(d.dist) < n {
		d.dist = make([]float64, n)
		d.prev = make([]int, n)
	}
	d.dist = d.dist[:n]
	d.prev = d.prev[:n]
	for i := range d.dist {
		d.dist[i] = math.Inf(1)
		d.prev[i] = -1
	}
	d.dist[0] = 0

	pq := lane.NewMinPriorityQueue[int, float64]()
	pq.Push(0, 0)
	for {
		u, du, ok := pq.Pop()
		if !ok {
			break
		}
		if du > d.dist[u] {
			continue
		}
		if u == sink {
			break
		}
		for e := d.edgeStart[u]; e < d.edgeStart[u+1]; e++ {
			v := d.edgeTo[e]
			alt := du + d.edgeW[e]
			if alt < d.dist[v] {
				d.dist[v] = alt
				d.prev[v] = u
				pq.Push(v, alt)
			}
		}
	}

	if math.IsInf(d.dist[sink], 1) {
		return 0, fmt.Errorf("%w: sink unreachable", fpp.ErrInvalidSpecification)
	}
	return sink, nil
}
