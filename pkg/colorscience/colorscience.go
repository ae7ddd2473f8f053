// Package colorscience implements the colour-space plumbing shared by every
// other package in this module: sRGB <-> linear RGB <-> XYZ <-> Lab under the
// D65 illuminant, plus the CIE76 perceptual distance. It is adapted from the
// teacher's x/math/colorscience package, narrowed to the fixed D65/10deg
// pipeline this engine needs and promoted to float64 for the solver's
// tolerances.
package colorscience

import "math"

// BandCount is the length of the working reflectance grid, 400-700nm at 10nm.
const BandCount = 31

// ExtendedBandCount is the length of the solver's extended grid, 380-730nm at
// 10nm. The working grid occupies indices [2, 33) of the extended grid.
const ExtendedBandCount = 36

const (
	extendedLo = 2
	extendedHi = 33
)

// whiteD65 holds the CIE D65 reference white in XYZ, scaled to Y=100.
var whiteD65 = XYZ{X: 95.047, Y: 100.0, Z: 108.883}

// XYZ is a CIE 1931 tristimulus value, Y-scale 0-100.
type XYZ struct{ X, Y, Z float64 }

// Lab is a CIE 1976 L*a*b* colour.
type Lab struct{ L, A, B float64 }

// RGB is a linear (not gamma-encoded) RGB triple in [0,1].
type RGB struct{ R, G, B float64 }

// SRGBToLinear decodes an 8-bit sRGB triple into linear RGB in [0,1].
func SRGBToLinear(r, g, b uint8) RGB {
	return RGB{
		R: decodeChannel(float64(r) / 255.0),
		G: decodeChannel(float64(g) / 255.0),
		B: decodeChannel(float64(b) / 255.0),
	}
}

func decodeChannel(s float64) float64 {
	if s <= 0.04045 {
		return s / 12.92
	}
	return math.Pow((s+0.055)/1.055, 2.4)
}

// LinearToSRGB gamma-encodes linear RGB, clamping each channel to [0,1]
// before encoding, and rounds to the nearest 8-bit value.
func LinearToSRGB(c RGB) (r, g, b uint8) {
	return encodeChannel(c.R), encodeChannel(c.G), encodeChannel(c.B)
}

func encodeChannel(l float64) uint8 {
	if l < 0 {
		l = 0
	}
	if l > 1 {
		l = 1
	}
	var s float64
	if l <= 0.0031308 {
		s = l * 12.92
	} else {
		s = 1.055*math.Pow(l, 1/2.4) - 0.055
	}
	return uint8(math.Round(clamp01(s) * 255))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// PadReflectance expands a 31-band working-grid reflectance curve to the
// 36-band extended grid by holding the boundary bands flat: R[0] fills bands
// 0-1, R[30] fills bands 33-35. This pad-and-hold rule is load-bearing: C2's
// reconstruction and C5's error computation both depend on it matching
// exactly.
func PadReflectance(r []float64) [ExtendedBandCount]float64 {
	var full [ExtendedBandCount]float64
	copy(full[extendedLo:extendedHi], r)
	full[0] = r[0]
	full[1] = r[0]
	full[33] = r[BandCount-1]
	full[34] = r[BandCount-1]
	full[35] = r[BandCount-1]
	return full
}

// ReflectanceToXYZ maps a 31-band reflectance curve through the T-matrix
// after padding it to the extended grid.
func ReflectanceToXYZ(t *TMatrix, r []float64) XYZ {
	full := PadReflectance(r)
	return t.Apply(full[:])
}

// XYZToLab converts a tristimulus value to CIE 1976 L*a*b* under the D65
// reference white.
func XYZToLab(c XYZ) Lab {
	fx := labF(c.X / whiteD65.X)
	fy := labF(c.Y / whiteD65.Y)
	fz := labF(c.Z / whiteD65.Z)
	return Lab{
		L: 116*fy - 16,
		A: 500 * (fx - fy),
		B: 200 * (fy - fz),
	}
}

func labF(t float64) float64 {
	const threshold = 0.008856
	if t > threshold {
		return math.Cbrt(t)
	}
	return 7.787*t + 16.0/116.0
}

// DeltaE76 is the CIE76 Euclidean distance between two Lab colours.
func DeltaE76(a, b Lab) float64 {
	dl := a.L - b.L
	da := a.A - b.A
	db := a.B - b.B
	return math.Sqrt(dl*dl + da*da + db*db)
}

// xyzToRGBMatrix is the standard D65 XYZ->linear-sRGB matrix.
var xyzToRGBMatrix = [3][3]float64{
	{3.2406, -1.5372, -0.4986},
	{-0.9689, 1.8758, 0.0415},
	{0.0557, -0.2040, 1.0570},
}

// XYZToSRGBHex maps a tristimulus value to an sRGB hex string, clamping each
// linear channel to [0,1] before gamma encoding (out-of-gamut channels are
// clipped, never desaturated).
func XYZToSRGBHex(c XYZ) string {
	x, y, z := c.X/100.0, c.Y/100.0, c.Z/100.0
	lin := RGB{
		R: clamp01(xyzToRGBMatrix[0][0]*x + xyzToRGBMatrix[0][1]*y + xyzToRGBMatrix[0][2]*z),
		G: clamp01(xyzToRGBMatrix[1][0]*x + xyzToRGBMatrix[1][1]*y + xyzToRGBMatrix[1][2]*z),
		B: clamp01(xyzToRGBMatrix[2][0]*x + xyzToRGBMatrix[2][1]*y + xyzToRGBMatrix[2][2]*z),
	}
	r, g, b := LinearToSRGB(lin)
	return formatHex(r, g, b)
}

func formatHex(r, g, b uint8) string {
	const hexDigits = "0123456789abcdef"
	buf := [7]byte{'#'}
	vals := [3]uint8{r, g, b}
	for i, v := range vals {
		buf[1+i*2] = hexDigits[v>>4]
		buf[2+i*2] = hexDigits[v&0x0f]
	}
	return string(buf[:])
}
