// Package optimize finds per-pigment mixing weights that minimize
// reflectance error against a target curve, via projected gradient descent
// with best-so-far memory. Kubelka-Munk mixing is nonlinear in weight after
// the reciprocal K/S mapping, so there is no closed form; finite-difference
// gradients are cheap relative to the combinatorial search that calls this
// once per candidate combination.
package optimize

import (
	"errors"
	"math"

	"github.com/colormix/paintmix/pkg/kmmix"
)

const (
	maxIterations     = 1000
	tolerance         = 1e-8
	initialLearnRate  = 0.5
	learnRateDecay    = 0.9
	decayEveryNIters  = 100
	finiteDiffStep    = 0.001
)

// ErrLengthMismatch reports that the reflectance and weight slices passed to
// Weights disagree on pigment count.
var ErrLengthMismatch = errors.New("optimize: reflectance and weight count mismatch")

// Weights optimizes initialWeights to minimize mean((target-mix)^2), where
// mix is the Kubelka-Munk combination of reflectances. The returned weights
// are non-negative and normalized to sum to 1.
func Weights(reflectances [][]float64, initialWeights []float64, target []float64) ([]float64, error) {
	n := len(initialWeights)
	if len(reflectances) != n {
		return nil, ErrLengthMismatch
	}

	weights := append([]float64(nil), initialWeights...)
	bestWeights := append([]float64(nil), weights...)
	bestError := math.MaxFloat64

	alpha := initialLearnRate

	for iter := 0; iter < maxIterations; iter++ {
		normalize(weights)

		mixed := kmmix.Mix(reflectances, weights)
		currentError := MSE(target, mixed)

		if currentError < bestError {
			bestError = currentError
			copy(bestWeights, weights)
		}

		if currentError < tolerance {
			break
		}

		if iter > 0 && iter%decayEveryNIters == 0 {
			alpha *= learnRateDecay
		}

		gradients := make([]float64, n)
		for i := 0; i < n; i++ {
			trial := append([]float64(nil), weights...)
			trial[i] += finiteDiffStep
			normalize(trial)

			trialMixed := kmmix.Mix(reflectances, trial)
			trialError := MSE(target, trialMixed)
			gradients[i] = (trialError - currentError) / finiteDiffStep
		}

		for i := 0; i < n; i++ {
			weights[i] = clip01(weights[i] - alpha*gradients[i])
		}
	}

	normalize(bestWeights)
	return bestWeights, nil
}

// MSE computes the mean squared error between two equal-length reflectance
// curves.
func MSE(target, mixed []float64) float64 {
	var sum float64
	for i := range target {
		diff := target[i] - mixed[i]
		sum += diff * diff
	}
	return sum / float64(len(target))
}

func normalize(weights []float64) {
	var sum float64
	for _, w := range weights {
		sum += w
	}
	if sum <= 0 {
		return
	}
	for i := range weights {
		weights[i] /= sum
	}
}

func clip01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
