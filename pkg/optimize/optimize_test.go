package optimize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colormix/paintmix/pkg/kmmix"
)

func TestWeightsLengthMismatch(t *testing.T) {
	_, err := Weights([][]float64{{0.5}}, []float64{0.5, 0.5}, []float64{0.5})
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestWeightsConvergesOnExactMatch(t *testing.T) {
	target := []float64{0.2, 0.4, 0.6, 0.8}
	other := []float64{0.9, 0.1, 0.5, 0.3}

	weights, err := Weights([][]float64{target, other}, []float64{0.5, 0.5}, target)
	require.NoError(t, err)

	var sum float64
	for _, w := range weights {
		sum += w
		assert.GreaterOrEqual(t, w, 0.0)
	}
	assert.InDelta(t, 1.0, sum, 1e-9)

	mixed := kmmix.Mix([][]float64{target, other}, weights)
	assert.Less(t, MSE(target, mixed), 1e-4)
}

func TestMSEZeroWhenIdentical(t *testing.T) {
	r := []float64{0.1, 0.2, 0.3}
	assert.Equal(t, 0.0, MSE(r, r))
}
