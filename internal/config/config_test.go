package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"processPlan/internal/fpp"
	"processPlan/internal/neighborhood"
	"processPlan/internal/opt"
)

func TestParseOverlaysDefaults(t *testing.T) {
	p, err := Parse([]byte(`
vns:
  policy: first
  failure_k: 2
aco:
  ants: 12
  fallback: strict
ts:
  tabu_tenure: 11
`))
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, neighborhood.PolicyFirst, p.VNS.Policy)
	assert.Equal(t, 2, p.VNS.FailureK)
	assert.Equal(t, def.VNS.EvaluationsPerOperation, p.VNS.EvaluationsPerOperation)
	assert.Equal(t, 12, p.ACO.Ants)
	assert.Equal(t, opt.FallbackStrict, p.ACO.Fallback)
	assert.Equal(t, def.ACO.Rho, p.ACO.Rho)
	assert.Equal(t, 11, p.TS.TabuTenure)
	assert.Equal(t, def.GA, p.GA)
}

func TestParseEmptyIsDefault(t *testing.T) {
	p, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), p)
}

func TestParseRejects(t *testing.T) {
	_, err := Parse([]byte("vns:\n  unknown_key: 1\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("sa:\n  alpha: 1.5\n"))
	assert.ErrorContains(t, err, "sa")

	_, err = Parse([]byte("vns:\n  policy: random\n"))
	assert.ErrorContains(t, err, "vns")
}

func TestLoad(t *testing.T) {
	p, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), p)

	path := filepath.Join(t.TempDir(), "params.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pso:\n  particles: 7\n"), 0o644))
	p, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, p.PSO.Particles)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSelect(t *testing.T) {
	assert.Equal(t, []string{"ACO", "GA", "PSO", "SA", "TS", "VNS"}, AlgorithmNames())

	algos, err := Default().Select([]string{"vns", " ts"}, nil)
	require.NoError(t, err)
	require.Len(t, algos, 2)
	assert.Equal(t, "VNS", algos[0].Name)
	assert.Equal(t, "TS", algos[1].Name)

	_, err = Default().Select([]string{"lp"}, nil)
	assert.ErrorContains(t, err, "VNS")
}

func TestFactoriesSolve(t *testing.T) {
	inst, err := fpp.Case("ma2000")
	require.NoError(t, err)
	spec, err := fpp.NewSpec(inst)
	require.NoError(t, err)

	p := Default().WithEvaluations(150)
	p.GA.Population = 10
	p.ACO.Ants = 10
	p.PSO.Particles = 10
	require.NoError(t, p.Validate())

	for name, a := range p.Algorithms(nil) {
		t.Run(name, func(t *testing.T) {
			res, err := a.Factory(1).Solve(context.Background(), spec)
			require.NoError(t, err)
			assert.False(t, res.Plan.Empty())
			assert.Greater(t, res.Evaluations, 150)
		})
	}
}
