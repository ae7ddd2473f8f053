package kmmix

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKSRoundtrip(t *testing.T) {
	for r := 0.002; r < 0.999; r += 0.013 {
		ks := ReflectanceToKS(r)
		back := KSToReflectance(ks)
		assert.InDelta(t, r, back, 1e-9)
	}
}

func TestKSToReflectanceNonPositive(t *testing.T) {
	assert.Equal(t, 1.0, KSToReflectance(0))
	assert.Equal(t, 1.0, KSToReflectance(-5))
}

func TestMixSinglePigmentIsIdentity(t *testing.T) {
	r := []float64{0.2, 0.4, 0.6, 0.8}
	mixed := Mix([][]float64{r}, []float64{1.0})
	for i := range r {
		assert.InDelta(t, r[i], mixed[i], 1e-12)
	}
}

func TestMixWeightPermutationInvariance(t *testing.T) {
	a := []float64{0.1, 0.5, 0.9}
	b := []float64{0.9, 0.5, 0.1}
	c := []float64{0.3, 0.3, 0.3}
	weights := []float64{0.2, 0.5, 0.3}

	m1 := Mix([][]float64{a, b, c}, weights)

	permR := [][]float64{c, a, b}
	permW := []float64{0.3, 0.2, 0.5}
	m2 := Mix(permR, permW)

	for i := range m1 {
		assert.InDelta(t, m1[i], m2[i], 1e-12)
	}
}

func TestMixZeroWeightSumReturnsZeroVector(t *testing.T) {
	r := []float64{0.5, 0.5}
	mixed := Mix([][]float64{r, r}, []float64{0, 0})
	assert.Equal(t, []float64{0, 0}, mixed)
}

func TestMixTwoPigmentsDegenerateWeights(t *testing.T) {
	a := []float64{0.2, 0.3, 0.4}
	b := []float64{0.9, 0.8, 0.7}
	mixed := Mix([][]float64{a, b}, []float64{1, 0})
	for i := range a {
		assert.InDelta(t, a[i], mixed[i], 1e-9)
	}
}

func TestGeometricMeanSinglePigmentIsIdentity(t *testing.T) {
	r := []float64{0.2, 0.4, 0.6}
	mixed := GeometricMean([][]float64{r}, []float64{1.0})
	for i := range r {
		assert.InDelta(t, r[i], mixed[i], 1e-9)
	}
}
