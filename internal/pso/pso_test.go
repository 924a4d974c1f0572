package pso

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"processPlan/internal/fpp"
	"processPlan/internal/precedence"
)

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.Particles = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.PosMin, cfg.PosMax = 1, 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.PosMin, cfg.PosMax = 0, 0
	assert.NoError(t, cfg.Validate())
}

func TestSolve(t *testing.T) {
	for _, name := range fpp.CaseNames() {
		t.Run(name, func(t *testing.T) {
			inst, err := fpp.Case(name)
			require.NoError(t, err)
			spec, err := fpp.NewSpec(inst)
			require.NoError(t, err)

			cfg := DefaultConfig()
			cfg.Particles = 10
			cfg.Evaluations = 200
			s, err := New(cfg, rand.New(rand.NewSource(3)))
			require.NoError(t, err)

			res, err := s.Solve(context.Background(), spec)
			require.NoError(t, err)

			e, err := precedence.New(spec)
			require.NoError(t, err)
			require.NoError(t, e.Check(res.Plan.Order))
			assert.Equal(t, 201, res.Evaluations)
			ev, err := fpp.NewEvaluator(spec)
			require.NoError(t, err)
			assert.InDelta(t, ev.MustObjective(res.Plan.States), res.Objective, 1e-6)
		})
	}
}

func TestSolveIsDeterministic(t *testing.T) {
	inst, err := fpp.Case("ma2000")
	require.NoError(t, err)
	spec, err := fpp.NewSpec(inst)
	require.NoError(t, err)

	run := func() float64 {
		cfg := DefaultConfig()
		cfg.Particles = 8
		cfg.Evaluations = 100
		s, err := New(cfg, rand.New(rand.NewSource(9)))
		require.NoError(t, err)
		res, err := s.Solve(context.Background(), spec)
		require.NoError(t, err)
		return res.Objective
	}
	assert.Equal(t, run(), run())
}
