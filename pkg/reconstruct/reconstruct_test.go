package reconstruct

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colormix/paintmix/pkg/colorscience"
)

func TestReflectanceBlackExact(t *testing.T) {
	tm := colorscience.DefaultTMatrix()
	r, err := Reflectance(tm, 0, 0, 0)
	require.NoError(t, err)
	require.Len(t, r, colorscience.BandCount)
	for _, v := range r {
		assert.Equal(t, 0.0001, v)
	}
}

func TestReflectanceWhiteExact(t *testing.T) {
	tm := colorscience.DefaultTMatrix()
	r, err := Reflectance(tm, 255, 255, 255)
	require.NoError(t, err)
	for _, v := range r {
		assert.Equal(t, 1.0, v)
	}
}

func TestReflectanceMidGreySatisfiesConstraint(t *testing.T) {
	tm := colorscience.DefaultTMatrix()
	r, err := Reflectance(tm, 128, 128, 128)
	require.NoError(t, err)

	lin := colorscience.SRGBToLinear(128, 128, 128)
	full := colorscience.PadReflectance(r)
	xyz := tm.Apply(full[:])

	assert.Less(t, math.Abs(xyz.X-lin.R), 1e-3)
	assert.Less(t, math.Abs(xyz.Y-lin.G), 1e-3)
	assert.Less(t, math.Abs(xyz.Z-lin.B), 1e-3)
}

func TestReflectanceGamutCornersFinite(t *testing.T) {
	tm := colorscience.DefaultTMatrix()
	corners := [][3]uint8{
		{0, 0, 0}, {255, 0, 0}, {0, 255, 0}, {0, 0, 255},
		{255, 255, 0}, {255, 0, 255}, {0, 255, 255}, {255, 255, 255},
	}
	for _, c := range corners {
		r, err := Reflectance(tm, c[0], c[1], c[2])
		require.NoError(t, err)
		for _, v := range r {
			assert.False(t, math.IsNaN(v))
			assert.False(t, math.IsInf(v, 0))
		}
	}
}

func TestReflectanceRoundtripWithinGamut(t *testing.T) {
	tm := colorscience.DefaultTMatrix()
	samples := [][3]uint8{{200, 100, 50}, {60, 180, 90}, {90, 90, 200}, {180, 60, 180}}
	for _, c := range samples {
		r, err := Reflectance(tm, c[0], c[1], c[2])
		require.NoError(t, err)
		full := colorscience.PadReflectance(r)
		xyz := tm.Apply(full[:])
		hex := colorscience.XYZToSRGBHex(xyz)
		assert.Len(t, hex, 7)
	}
}
