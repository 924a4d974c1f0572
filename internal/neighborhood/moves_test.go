package neighborhood

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"processPlan/internal/fpp"
	"processPlan/internal/precedence"
)

func single(id string, prior ...string) fpp.Operation {
	return fpp.Operation{ID: id, Machines: []string{"m1"}, Tools: []string{"t1"}, Directions: []string{"+z"}, Prior: prior}
}

func engineFor(t *testing.T, ops ...fpp.Operation) *precedence.Engine {
	t.Helper()
	spec, err := fpp.NewSpec(&fpp.Instance{
		Name:        "moves",
		Objective:   fpp.ObjectiveCost,
		MachineCost: map[string]float64{"m1": 1},
		ToolCost:    map[string]float64{"t1": 1},
		Operations:  ops,
	})
	require.NoError(t, err)
	e, err := precedence.New(spec)
	require.NoError(t, err)
	return e
}

func caseEngine(t *testing.T, name string) *precedence.Engine {
	t.Helper()
	inst, err := fpp.Case(name)
	require.NoError(t, err)
	spec, err := fpp.NewSpec(inst)
	require.NoError(t, err)
	e, err := precedence.New(spec)
	require.NoError(t, err)
	return e
}

func TestForwardAndBackward(t *testing.T) {
	tests := []struct {
		name     string
		ops      []fpp.Operation
		forward  []int
		backward []int
	}{
		{
			name:     "unconstrained",
			ops:      []fpp.Operation{single("x"), single("y"), single("z")},
			forward:  []int{1, 2, 0},
			backward: []int{2, 0, 1},
		},
		{
			name:     "x before z",
			ops:      []fpp.Operation{single("x"), single("y"), single("z", "x")},
			forward:  []int{1, 0, 2},
			backward: []int{0, 2, 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := engineFor(t, tt.ops...)
			order := []int{0, 1, 2}

			mv, ok := Forward(e, order, 0, 0)
			require.True(t, ok)
			assert.Equal(t, tt.forward, Apply(order, mv))

			mv, ok = Backward(e, order, 2, 2)
			require.True(t, ok)
			assert.Equal(t, tt.backward, Apply(order, mv))

			assert.Equal(t, []int{0, 1, 2}, order, "исходный порядок не меняется")
		})
	}
}

func TestMovesBlockedByChain(t *testing.T) {
	e := engineFor(t, single("a"), single("b", "a"), single("c", "b"))
	order := []int{0, 1, 2}

	for a := 0; a < 2; a++ {
		for b := a; b < 2; b++ {
			_, ok := Forward(e, order, a, b)
			assert.False(t, ok)
		}
	}
	for end := 2; end >= 1; end-- {
		for c := end; c >= 1; c-- {
			_, ok := Backward(e, order, c, end)
			assert.False(t, ok)
		}
	}
	assert.False(t, Movable(e, order))

	_, ok := RandomMove(e, order, rand.New(rand.NewSource(1)))
	assert.False(t, ok)
}

func TestMovesOutOfRange(t *testing.T) {
	e := engineFor(t, single("x"), single("y"))
	_, ok := Forward(e, []int{0, 1}, 1, 1)
	assert.False(t, ok)
	_, ok = Backward(e, []int{0, 1}, 0, 1)
	assert.False(t, ok)
}

func TestMovesPreserveFeasibility(t *testing.T) {
	for _, name := range fpp.CaseNames() {
		t.Run(name, func(t *testing.T) {
			e := caseEngine(t, name)
			rng := rand.New(rand.NewSource(3))

			for trial := 0; trial < 20; trial++ {
				order, err := e.RandomOrder(rng)
				require.NoError(t, err)
				m := len(order)

				for a := 0; a <= m-2; a++ {
					for b := a; b <= m-2; b++ {
						if mv, ok := Forward(e, order, a, b); ok {
							require.NoError(t, e.Check(Apply(order, mv)), "forward %+v", mv)
						}
					}
				}
				for end := m - 1; end >= 1; end-- {
					for c := end; c >= 1; c-- {
						if mv, ok := Backward(e, order, c, end); ok {
							require.NoError(t, e.Check(Apply(order, mv)), "backward %+v", mv)
						}
					}
				}

				next, ok := RandomMove(e, order, rng)
				if ok {
					require.NoError(t, e.Check(next))
					assert.NotEqual(t, order, next)
				}
			}
		})
	}
}

func TestReverseRestoresOrder(t *testing.T) {
	e := caseEngine(t, "li2007")
	rng := rand.New(rand.NewSource(12))
	for trial := 0; trial < 100; trial++ {
		order, err := e.RandomOrder(rng)
		require.NoError(t, err)
		mv, ok := RandomExchange(e, order, rng)
		require.True(t, ok)
		assert.Equal(t, order, Apply(Apply(order, mv), mv.Reverse()))
	}
}
