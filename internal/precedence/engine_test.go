package precedence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"processPlan/internal/fpp"
)

func op(id string, prior ...string) fpp.Operation {
	return fpp.Operation{
		ID:         id,
		Machines:   []string{"m1"},
		Tools:      []string{"t1"},
		Directions: []string{"+z"},
		Prior:      prior,
	}
}

func mustSpec(t *testing.T, ops []fpp.Operation, alts ...[]string) *fpp.Spec {
	t.Helper()
	inst := &fpp.Instance{
		Name:         "test",
		Objective:    fpp.ObjectiveCost,
		MachineCost:  map[string]float64{"m1": 1},
		ToolCost:     map[string]float64{"t1": 1},
		Operations:   ops,
		Alternatives: alts,
	}
	spec, err := fpp.NewSpec(inst)
	require.NoError(t, err)
	return spec
}

func mustEngine(t *testing.T, ops []fpp.Operation, alts ...[]string) *Engine {
	t.Helper()
	e, err := New(mustSpec(t, ops, alts...))
	require.NoError(t, err)
	return e
}

func idx(t *testing.T, e *Engine, id string) int {
	t.Helper()
	i, ok := e.Spec().Index(id)
	require.True(t, ok, id)
	return i
}

func TestNewDetectsCycle(t *testing.T) {
	spec := mustSpec(t, []fpp.Operation{
		op("a", "c"),
		op("b", "a"),
		op("c", "b"),
		op("d"),
	})
	_, err := New(spec)
	require.Error(t, err)
	assert.ErrorIs(t, err, fpp.ErrInvalidSpecification)
	assert.Contains(t, err.Error(), "cycle")
}

func TestNewRejectsEdgeInsideAlternativeGroup(t *testing.T) {
	spec := mustSpec(t, []fpp.Operation{op("a"), op("b", "a")}, []string{"a", "b"})
	_, err := New(spec)
	assert.ErrorIs(t, err, fpp.ErrInvalidSpecification)
}

func TestCycleThroughAlternativeGroup(t *testing.T) {
	// x -> a, b -> x, a и b в одной группе: после проекции это цикл.
	spec := mustSpec(t, []fpp.Operation{
		op("a"),
		op("b", "x"),
		op("x", "a"),
	}, []string{"a", "b"})
	_, err := New(spec)
	assert.ErrorIs(t, err, fpp.ErrInvalidSpecification)
}

func TestClosure(t *testing.T) {
	e := mustEngine(t, []fpp.Operation{
		op("a"),
		op("b", "a"),
		op("c", "b"),
		op("d"),
	})
	a, b, c, d := idx(t, e, "a"), idx(t, e, "b"), idx(t, e, "c"), idx(t, e, "d")

	assert.True(t, e.Precedes(a, b))
	assert.False(t, e.Precedes(a, c))
	assert.True(t, e.ClosurePrecedes(a, c))
	assert.False(t, e.ClosurePrecedes(c, a))
	assert.False(t, e.ClosurePrecedes(a, a))
	assert.False(t, e.Related(a, d))
	assert.True(t, e.Related(c, a))
	assert.Equal(t, 4, e.Size())
}

func TestGroupsShareEdges(t *testing.T) {
	e := mustEngine(t, []fpp.Operation{
		op("a1"),
		op("a2"),
		op("b", "a2"),
	}, []string{"a1", "a2"})
	a1, b := idx(t, e, "a1"), idx(t, e, "b")

	assert.Equal(t, 2, e.Size())
	assert.True(t, e.ClosurePrecedes(a1, b))
	assert.Equal(t, []int{a1, b}, e.Representatives())
}

func TestQualified(t *testing.T) {
	e := mustEngine(t, []fpp.Operation{
		op("a1"),
		op("a2"),
		op("b", "a1"),
		op("c"),
	}, []string{"a1", "a2"})
	a1, a2, b, c := idx(t, e, "a1"), idx(t, e, "a2"), idx(t, e, "b"), idx(t, e, "c")

	q, err := e.Qualified(nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{a1, a2, c}, q.ToSlice())

	q, err = e.Qualified([]int{a2})
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{b, c}, q.ToSlice())

	_, err = e.Qualified([]int{b})
	assert.Error(t, err)

	_, err = e.Qualified([]int{a1, a2})
	assert.Error(t, err, "второй член группы исключён")
}

func TestTrackerCloneIsIndependent(t *testing.T) {
	e := mustEngine(t, []fpp.Operation{op("a"), op("b", "a"), op("c")})
	a, b := idx(t, e, "a"), idx(t, e, "b")

	tr := e.NewTracker()
	require.NoError(t, tr.Place(a))
	cp := tr.Clone()
	require.NoError(t, cp.Place(b))

	assert.Equal(t, 1, tr.Len())
	assert.Equal(t, 2, cp.Len())
	assert.True(t, tr.IsQualified(b))
	assert.False(t, cp.IsQualified(b))
}

func TestCheck(t *testing.T) {
	e := mustEngine(t, []fpp.Operation{op("a"), op("b", "a"), op("c")})
	a, b, c := idx(t, e, "a"), idx(t, e, "b"), idx(t, e, "c")

	assert.NoError(t, e.Check([]int{c, a, b}))
	assert.Error(t, e.Check([]int{b, a, c}))
	assert.Error(t, e.Check([]int{a, b}))
	assert.Panics(t, func() { e.MustFeasible([]int{b, a, c}) })
	assert.NotPanics(t, func() { e.MustFeasible([]int{a, c, b}) })
}
