// Package reconstruct implements the LHTSS spectral reconstructor (C2): it
// inverts an sRGB target into a smooth, bounded 31-band reflectance curve by
// a constrained Newton iteration over a tanh-reparametrized unconstrained
// variable. The linear algebra is adapted from the teacher's preference for
// gonum (already an indirect dependency via gorgonia) for general dense
// solves the teacher's own fixed-size robotics matrices cannot perform.
package reconstruct

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/colormix/paintmix/pkg/colorscience"
	"github.com/colormix/paintmix/pkg/logger"
)

const (
	maxIterations        = 500
	convergenceTolerance = 1e-6
	svdSingularThreshold = 1e-10

	// SalvageResidualThreshold is the squared-residual ceiling under which a
	// non-converged best iterate is still returned instead of failing. Kept
	// as a named, tunable constant rather than an inline magic number.
	SalvageResidualThreshold = 1.0
)

// FailedError reports that the solver exhausted its iteration budget without
// reaching a squared residual under SalvageResidualThreshold.
type FailedError struct {
	RGB      [3]uint8
	Residual float64
}

func (e *FailedError) Error() string {
	return fmt.Sprintf("reconstruct: no convergence for rgb(%d,%d,%d), best residual %.6f",
		e.RGB[0], e.RGB[1], e.RGB[2], e.Residual)
}

// Reflectance solves sRGB -> 31-band reflectance via the LHTSS constrained
// Newton iteration against t. All-zero input returns a flat near-black
// curve; all-255 returns a flat white curve; both bypass the solver.
func Reflectance(t *colorscience.TMatrix, r, g, b uint8) ([]float64, error) {
	if r == 0 && g == 0 && b == 0 {
		return fill(colorscience.BandCount, 0.0001), nil
	}
	if r == 255 && g == 255 && b == 255 {
		return fill(colorscience.BandCount, 1.0), nil
	}

	lin := colorscience.SRGBToLinear(r, g, b)
	target := [3]float64{lin.R, lin.G, lin.B}

	n := colorscience.ExtendedBandCount
	z := make([]float64, n)
	lambda := make([]float64, 3)
	d := differenceMatrix()

	bestZ := append([]float64(nil), z...)
	bestResidual := math.MaxFloat64

	for iter := 0; iter < maxIterations; iter++ {
		f := residual(t, z, lambda, d, target)
		sq := sumSquares(f)
		if sq < bestResidual {
			bestResidual = sq
			bestZ = append(bestZ[:0], z...)
		}

		delta, err := newtonStep(t, z, lambda, d, f)
		if err != nil {
			return nil, err
		}
		for i := 0; i < n; i++ {
			z[i] += delta[i]
		}
		for i := 0; i < 3; i++ {
			lambda[i] += delta[n+i]
		}

		if allBelow(f, convergenceTolerance) {
			return reflectanceFromZ(z), nil
		}
	}

	if bestResidual < SalvageResidualThreshold {
		logger.Log.Debug().Uint8("r", r).Uint8("g", g).Uint8("b", b).
			Float64("residual", bestResidual).Msg("reconstruct: salvaging non-converged iterate")
		return reflectanceFromZ(bestZ), nil
	}

	logger.Log.Warn().Uint8("r", r).Uint8("g", g).Uint8("b", b).
		Float64("residual", bestResidual).Msg("reconstruct: failed to converge")
	return nil, &FailedError{RGB: [3]uint8{r, g, b}, Residual: bestResidual}
}

// residual evaluates the 39-equation KKT system F(z, lambda).
func residual(t *colorscience.TMatrix, z, lambda []float64, d *mat.Dense, target [3]float64) []float64 {
	n := colorscience.ExtendedBandCount
	xr, yr, zr := t.Row(0), t.Row(1), t.Row(2)

	d0 := make([]float64, n)
	d1 := make([]float64, n)
	for i, zi := range z {
		d0[i] = (math.Tanh(zi) + 1) / 2
		d1[i] = sech2(zi) / 2
	}

	f := make([]float64, n+3)
	for i := 0; i < n; i++ {
		dz := 0.0
		for j := 0; j < n; j++ {
			dz += d.At(i, j) * z[j]
		}
		tTLambda := xr[i]*lambda[0] + yr[i]*lambda[1] + zr[i]*lambda[2]
		f[i] = dz + d1[i]*tTLambda
	}

	var x, y, zz float64
	for i := 0; i < n; i++ {
		x += xr[i] * d0[i]
		y += yr[i] * d0[i]
		zz += zr[i] * d0[i]
	}
	f[n] = x - target[0]
	f[n+1] = y - target[1]
	f[n+2] = zz - target[2]
	return f
}

// newtonStep builds the 39x39 Jacobian and solves J*delta = -f.
func newtonStep(t *colorscience.TMatrix, z, lambda []float64, d *mat.Dense, f []float64) ([]float64, error) {
	n := colorscience.ExtendedBandCount
	xr, yr, zr := t.Row(0), t.Row(1), t.Row(2)
	rows := [3][colorscience.ExtendedBandCount]float64{xr, yr, zr}

	d1 := make([]float64, n)
	d2 := make([]float64, n)
	for i, zi := range z {
		s2 := sech2(zi)
		d1[i] = s2 / 2
		d2[i] = -s2 * math.Tanh(zi)
	}

	tTLambda := make([]float64, n)
	for i := 0; i < n; i++ {
		tTLambda[i] = xr[i]*lambda[0] + yr[i]*lambda[1] + zr[i]*lambda[2]
	}

	size := n + 3
	j := mat.NewDense(size, size, nil)
	for i := 0; i < n; i++ {
		for col := 0; col < n; col++ {
			v := d.At(i, col)
			if i == col {
				v += d2[i] * tTLambda[i]
			}
			j.Set(i, col, v)
		}
		for k := 0; k < 3; k++ {
			j.Set(i, n+k, d1[i]*rows[k][i])
			j.Set(n+k, i, rows[k][i]*d1[i])
		}
	}

	negF := make([]float64, size)
	for i, v := range f {
		negF[i] = -v
	}

	return solveLinear(j, negF)
}

// solveLinear solves j*x = b, preferring LU and falling back to a
// truncated-SVD pseudo-inverse (singular values below svdSingularThreshold
// are treated as zero) when j is singular or ill-conditioned.
func solveLinear(j *mat.Dense, b []float64) ([]float64, error) {
	n, _ := j.Dims()
	rhs := mat.NewVecDense(n, append([]float64(nil), b...))

	var x mat.VecDense
	if err := x.SolveVec(j, rhs); err == nil {
		out := make([]float64, n)
		for i := 0; i < n; i++ {
			out[i] = x.AtVec(i)
		}
		return out, nil
	}

	var svd mat.SVD
	if !svd.Factorize(j, mat.SVDFull) {
		return nil, errors.New("reconstruct: jacobian svd factorization failed")
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	values := svd.Values(nil)

	utb := make([]float64, n)
	for i := 0; i < n; i++ {
		var sum float64
		for k := 0; k < n; k++ {
			sum += u.At(k, i) * b[k]
		}
		utb[i] = sum
	}

	sInvUtb := make([]float64, n)
	for i, s := range values {
		if math.Abs(s) > svdSingularThreshold {
			sInvUtb[i] = utb[i] / s
		}
	}

	out := make([]float64, n)
	for i := 0; i < n; i++ {
		var sum float64
		for k := 0; k < n; k++ {
			sum += v.At(i, k) * sInvUtb[k]
		}
		out[i] = sum
	}
	return out, nil
}

// differenceMatrix builds the 36x36 second-difference matrix D: tri-diagonal
// with main diagonal 4 (2 at the two endpoints) and off-diagonals -2.
func differenceMatrix() *mat.Dense {
	n := colorscience.ExtendedBandCount
	d := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		d.Set(i, i, 4)
		if i > 0 {
			d.Set(i, i-1, -2)
		}
		if i < n-1 {
			d.Set(i, i+1, -2)
		}
	}
	d.Set(0, 0, 2)
	d.Set(n-1, n-1, 2)
	return d
}

func reflectanceFromZ(z []float64) []float64 {
	out := make([]float64, colorscience.BandCount)
	for i := 0; i < colorscience.BandCount; i++ {
		out[i] = (math.Tanh(z[i+2]) + 1) / 2
	}
	return out
}

func sech2(x float64) float64 {
	c := math.Cosh(x)
	return 1 / (c * c)
}

func sumSquares(f []float64) float64 {
	var s float64
	for _, v := range f {
		s += v * v
	}
	return s
}

func allBelow(f []float64, tol float64) bool {
	for _, v := range f {
		if math.Abs(v) >= tol {
			return false
		}
	}
	return true
}

func fill(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
