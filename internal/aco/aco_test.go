package aco

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"processPlan/internal/fpp"
	"processPlan/internal/opt"
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

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.Ants = 10
	cfg.Evaluations = 100
	return cfg
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.Rho = 1
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Fallback = "guess"
	assert.Error(t, cfg.Validate())
}

func TestSolveBuildsFeasiblePlans(t *testing.T) {
	for _, name := range fpp.CaseNames() {
		t.Run(name, func(t *testing.T) {
			spec := caseSpec(t, name)
			s, err := New(smallConfig(), rand.New(rand.NewSource(3)))
			require.NoError(t, err)

			res, err := s.Solve(context.Background(), spec)
			require.NoError(t, err)

			e, err := precedence.New(spec)
			require.NoError(t, err)
			require.NoError(t, e.Check(res.Plan.Order))
			assert.Equal(t, res.Plan.Order, res.Plan.Operations())

			eval, err := fpp.NewEvaluator(spec)
			require.NoError(t, err)
			assert.InDelta(t, res.Objective, eval.MustObjective(res.Plan.States), 1e-9)
			assert.Equal(t, 110, res.Evaluations)
		})
	}
}

func TestSolveCandidateList(t *testing.T) {
	cfg := smallConfig()
	cfg.CandidateK = 3
	s, err := New(cfg, rand.New(rand.NewSource(5)))
	require.NoError(t, err)

	res, err := s.Solve(context.Background(), caseSpec(t, "li2007"))
	require.NoError(t, err)
	assert.False(t, res.Plan.Empty())
}

func TestFallbackPolicy(t *testing.T) {
	// Феромон обнуляется при возведении в степень, сумма весов равна 0.
	cfg := smallConfig()
	cfg.Tau0 = 1e-300
	cfg.Alpha = 2

	cfg.Fallback = opt.FallbackStrict
	s, err := New(cfg, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	_, err = s.Solve(context.Background(), caseSpec(t, "ma2000"))
	assert.ErrorIs(t, err, opt.ErrNoGreedyChoice)

	cfg.Fallback = opt.FallbackUniform
	s, err = New(cfg, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	res, err := s.Solve(context.Background(), caseSpec(t, "ma2000"))
	require.NoError(t, err)
	assert.False(t, res.Plan.Empty())
}
