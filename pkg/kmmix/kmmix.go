// Package kmmix implements subtractive pigment mixing under Kubelka-Munk
// theory: reflectance curves are converted to absorption/scatter (K/S)
// ratios, weight-averaged there, and converted back. This is the physically
// correct way to combine paints, as opposed to a naive average in
// reflectance space.
package kmmix

import "math"

const (
	reflectanceMin = 0.001
	reflectanceMax = 0.999
)

// ReflectanceToKS converts a single-band reflectance value to its K/S ratio,
// clipping r to [0.001, 0.999] first to keep the division finite.
func ReflectanceToKS(r float64) float64 {
	r = clip(r)
	return (1 - r) * (1 - r) / (2 * r)
}

// KSToReflectance inverts ReflectanceToKS. A non-positive K/S maps to pure
// white (no absorption), matching the convention that zero absorption is the
// natural boundary, not an error case.
func KSToReflectance(ks float64) float64 {
	if ks <= 0 {
		return 1.0
	}
	r := 1 + ks - math.Sqrt(ks*ks+2*ks)
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}

func clip(r float64) float64 {
	if r < reflectanceMin {
		return reflectanceMin
	}
	if r > reflectanceMax {
		return reflectanceMax
	}
	return r
}

// Mix combines reflectance curves by a weighted average in K/S space. weights
// need not be pre-normalized; Mix normalizes by their sum. A zero or
// negative weight sum returns a zero vector, by convention, rather than
// dividing by zero.
func Mix(reflectances [][]float64, weights []float64) []float64 {
	n := len(reflectances[0])
	mixed := make([]float64, n)

	var sum float64
	for _, w := range weights {
		sum += w
	}
	if sum <= 0 {
		return mixed
	}

	normalized := make([]float64, len(weights))
	for i, w := range weights {
		normalized[i] = w / sum
	}

	for band := 0; band < n; band++ {
		var ksSum float64
		for j, w := range normalized {
			ksSum += ReflectanceToKS(reflectances[j][band]) * w
		}
		mixed[band] = KSToReflectance(ksSum)
	}
	return mixed
}

// GeometricMean is the alternative, weighted-geometric-mean mixer kept for
// experimentation. The primary recipe search never calls it; Mix is the
// production mixer.
func GeometricMean(reflectances [][]float64, weights []float64) []float64 {
	n := len(reflectances[0])
	mixed := make([]float64, n)

	var sum float64
	for _, w := range weights {
		sum += w
	}
	if sum <= 0 {
		return mixed
	}

	for band := 0; band < n; band++ {
		product := 1.0
		for j, w := range weights {
			r := reflectances[j][band]
			if r < reflectanceMin {
				r = reflectanceMin
			}
			product *= math.Pow(r, w)
		}
		mixed[band] = math.Pow(product, 1/sum)
	}
	return mixed
}
