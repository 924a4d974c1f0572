package ga

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"processPlan/internal/fpp"
	"processPlan/internal/precedence"
)

func caseSpec(t *testing.T, name string) *fpp.Spec {
	t.Helper()
	inst, err := fpp.Case(name)
	require.NoError(t, err)
	spec, err := fpp.NewSpec(inst)
	require.NoError(t, err)
	return spec
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.Population = 1
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.TournamentSize = cfg.Population + 1
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.MutationRate = 1.5
	assert.Error(t, cfg.Validate())
}

func TestSegmentCrossoverKeepsFeasibility(t *testing.T) {
	spec := caseSpec(t, "ma2000")
	e, err := precedence.New(spec)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(17))
	sc := newCrossoverScratch(spec.NumGroups())
	c1 := make([]int, e.Size())
	c2 := make([]int, e.Size())
	for trial := 0; trial < 200; trial++ {
		p1, err := e.RandomOrder(rng)
		require.NoError(t, err)
		p2, err := e.RandomOrder(rng)
		require.NoError(t, err)

		segmentCrossover(p1, p2, c1, c2, spec.GroupOf, rng, sc)
		require.NoError(t, e.Check(c1))
		require.NoError(t, e.Check(c2))
		assert.ElementsMatch(t, p1, c1, "потомок сохраняет альтернативы родителя")
		assert.ElementsMatch(t, p2, c2)
	}
}

func TestTournamentSelectPicksBest(t *testing.T) {
	scores := []float64{5, 1, 3}
	rng := rand.New(rand.NewSource(1))
	assert.Equal(t, 1, tournamentSelect(scores, 3, rng))
}

func TestSolve(t *testing.T) {
	spec := caseSpec(t, "ma2000")
	cfg := DefaultConfig()
	cfg.Population = 20
	cfg.Evaluations = 400

	s, err := New(cfg, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	res, err := s.Solve(context.Background(), spec)
	require.NoError(t, err)

	e, err := precedence.New(spec)
	require.NoError(t, err)
	require.NoError(t, e.Check(res.Plan.Order))
	assert.Greater(t, res.Evaluations, 400)
	assert.LessOrEqual(t, res.ConvergedAt, res.Evaluations)
	assert.Equal(t, res.Objective, res.History[len(res.History)-1].Objective)
}
