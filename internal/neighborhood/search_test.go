package neighborhood

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"processPlan/internal/decode"
	"processPlan/internal/precedence"
)

func newSearcher(t *testing.T, e *precedence.Engine, seed int64, policy Policy) *Searcher {
	t.Helper()
	d, err := decode.New(e.Spec())
	require.NoError(t, err)
	s, err := New(e, d, rand.New(rand.NewSource(seed)), policy)
	require.NoError(t, err)
	return s
}

func initialPlan(t *testing.T, s *Searcher) decode.Plan {
	t.Helper()
	order, err := s.Engine.RandomOrder(s.Rng)
	require.NoError(t, err)
	plan, err := s.Decoder.Decode(order)
	require.NoError(t, err)
	return plan
}

func TestNewValidates(t *testing.T) {
	e := caseEngine(t, "li2007")
	d, err := decode.New(e.Spec())
	require.NoError(t, err)

	_, err = New(e, d, nil, PolicyBest)
	assert.Error(t, err)
	_, err = New(e, d, rand.New(rand.NewSource(1)), Policy("worst"))
	assert.Error(t, err)
	_, err = New(nil, d, rand.New(rand.NewSource(1)), PolicyBest)
	assert.Error(t, err)
}

func TestLocalSearchNeverWorsens(t *testing.T) {
	for _, policy := range []Policy{PolicyBest, PolicyFirst} {
		t.Run(string(policy), func(t *testing.T) {
			e := caseEngine(t, "ma2000")
			s := newSearcher(t, e, 21, policy)

			for trial := 0; trial < 5; trial++ {
				plan := initialPlan(t, s)
				refined, evals, err := s.LocalSearch(plan)
				require.NoError(t, err)

				assert.Greater(t, evals, 0)
				assert.LessOrEqual(t, refined.Objective, plan.Objective)
				require.NoError(t, e.Check(refined.Order))

				again, err := s.Decoder.Decode(refined.Order)
				require.NoError(t, err)
				assert.InDelta(t, refined.Objective, again.Objective, 1e-9)
			}
		})
	}
}

func TestLocalSearchIsDeterministic(t *testing.T) {
	e := caseEngine(t, "ma2000")
	run := func() (decode.Plan, int) {
		s := newSearcher(t, e, 99, PolicyBest)
		p, n, err := s.LocalSearch(initialPlan(t, s))
		require.NoError(t, err)
		return p, n
	}
	p1, n1 := run()
	p2, n2 := run()
	assert.Equal(t, p1, p2)
	assert.Equal(t, n1, n2)
}

func TestShake(t *testing.T) {
	e := caseEngine(t, "ma2000")
	s := newSearcher(t, e, 4, PolicyBest)
	plan := initialPlan(t, s)

	same, evals, err := s.Shake(plan, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, evals)
	assert.Equal(t, plan, same)

	for k := 1; k <= 4; k++ {
		shaken, evals, err := s.Shake(plan, k)
		require.NoError(t, err)
		assert.Equal(t, 1, evals)
		require.NoError(t, e.Check(shaken.Order))
	}
}

func TestShakeOnChainDecodesOnce(t *testing.T) {
	e := engineFor(t, single("a"), single("b", "a"), single("c", "b"))
	s := newSearcher(t, e, 1, PolicyBest)
	plan := initialPlan(t, s)

	shaken, evals, err := s.Shake(plan, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, evals)
	assert.Equal(t, []int{0, 1, 2}, shaken.Order)
	assert.Equal(t, plan.Objective, shaken.Objective)

	refined, evals, err := s.LocalSearch(shaken)
	require.NoError(t, err)
	assert.Equal(t, 0, evals)
	assert.Equal(t, shaken, refined)
}
