package bench

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalc(t *testing.T) {
	s := Calc([]int{4, 2, 6})
	assert.Equal(t, 3, s.N)
	assert.Equal(t, 2, s.Best)
	assert.InDelta(t, 4.0, s.Mean, 1e-12)
	assert.InDelta(t, 2.0, s.Std, 1e-12)

	f := Calc([]float64{1.5})
	assert.Equal(t, 1.5, f.Best)
	assert.Zero(t, f.Std)

	assert.Equal(t, Stats[float64]{}, Calc[float64](nil))
}
