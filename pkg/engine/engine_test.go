package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colormix/paintmix/pkg/catalog"
	"github.com/colormix/paintmix/pkg/recipe"
)

func flatPigment(id string, value float64, hex string) catalog.Pigment {
	p := catalog.Pigment{ID: id, CanonicalHex: hex}
	for i := range p.Reflectance {
		p.Reflectance[i] = value
	}
	return p
}

func TestReconstructBoundaries(t *testing.T) {
	e := New()
	black, err := e.ReconstructReflectance(0, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0001, black[0])

	white, err := e.ReconstructReflectance(255, 255, 255)
	require.NoError(t, err)
	assert.Equal(t, 1.0, white[0])
}

func TestPureWhiteMix(t *testing.T) {
	e := New()
	white := flatPigment("Titanium White", 0.98, "#ffffff")
	hex := e.MixedHex([][]float64{white.ReflectanceSlice()}, []float64{1.0})
	assert.Equal(t, "#ffffff", hex)
}

func TestBlackWhiteMixReturnsHexColour(t *testing.T) {
	e := New()
	white := flatPigment("Titanium White", 0.95, "#ffffff")
	black := flatPigment("Ivory Black", 0.03, "#0a0a0a")
	hex := e.MixedHex([][]float64{white.ReflectanceSlice(), black.ReflectanceSlice()}, []float64{0.5, 0.5})
	require.Len(t, hex, 7)
}

func TestRecipeSearchEndToEnd(t *testing.T) {
	e := New()
	pool := []catalog.Pigment{
		flatPigment("Titanium White", 0.95, "#ffffff"),
		flatPigment("Ivory Black", 0.03, "#0a0a0a"),
		flatPigment("Cadmium Red", 0.5, "#aa2222"),
		flatPigment("Ultramarine Blue", 0.3, "#2222aa"),
	}
	target, err := e.ReconstructReflectance(128, 128, 128)
	require.NoError(t, err)

	results, err := e.RecipeSearch(target, pool, recipe.AllAvailableColours)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i-1].Error, results[i].Error)
	}
}

func TestRecipeSearchMissingColorPropagates(t *testing.T) {
	e := New()
	pool := []catalog.Pigment{
		flatPigment("Cadmium Red", 0.5, "#aa2222"),
		flatPigment("Ultramarine Blue", 0.3, "#2222aa"),
		flatPigment("Yellow Ochre", 0.6, "#cc9933"),
	}
	target := make([]float64, 31)
	_, err := e.RecipeSearch(target, pool, recipe.BlackWhiteTwoColours)

	var missing *MissingColorError
	require.True(t, errors.As(err, &missing))
}
