package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colormix/paintmix/pkg/catalog"
	"github.com/colormix/paintmix/pkg/colorscience"
	"github.com/colormix/paintmix/pkg/reconstruct"
)

func flatPigment(id string, value float64, hex string) catalog.Pigment {
	p := catalog.Pigment{ID: id, CanonicalHex: hex}
	for i := range p.Reflectance {
		p.Reflectance[i] = value
	}
	return p
}

func samplePool() []catalog.Pigment {
	return []catalog.Pigment{
		flatPigment("Titanium White", 0.95, "#ffffff"),
		flatPigment("Ivory Black", 0.03, "#0a0a0a"),
		flatPigment("Cadmium Red", 0.5, "#aa2222"),
		flatPigment("Ultramarine Blue", 0.3, "#2222aa"),
		flatPigment("Neutral Grey", 0.5, "#808080"),
		flatPigment("Yellow Ochre", 0.6, "#cc9933"),
	}
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("  Black + White + 2 Colours  ")
	require.NoError(t, err)
	assert.Equal(t, BlackWhiteTwoColours, s)

	_, err = ParseStrategy("not a strategy")
	assert.ErrorIs(t, err, ErrInvalidStrategy)
}

func TestSearchInsufficientPigments(t *testing.T) {
	tm := colorscience.DefaultTMatrix()
	target := make([]float64, colorscience.BandCount)
	_, err := Search(tm, samplePool()[:2], target, AllAvailableColours)
	var insufficient *InsufficientPigmentsError
	assert.ErrorAs(t, err, &insufficient)
}

func TestSearchMissingColorForBlackWhiteStrategy(t *testing.T) {
	tm := colorscience.DefaultTMatrix()
	target := make([]float64, colorscience.BandCount)
	pool := samplePool()[2:]
	_, err := Search(tm, pool, target, BlackWhiteTwoColours)
	var missing *MissingColorError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "Titanium White", missing.Name)
}

func TestSearchTopFiveOrdering(t *testing.T) {
	tm := colorscience.DefaultTMatrix()
	target := make([]float64, colorscience.BandCount)
	for i := range target {
		target[i] = 0.5
	}

	results, err := Search(tm, samplePool(), target, AllAvailableColours)
	require.NoError(t, err)
	require.LessOrEqual(t, len(results), 5)
	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i-1].Error, results[i].Error)
	}
}

func TestSearchNoBlackExcludesBlackPigments(t *testing.T) {
	tm := colorscience.DefaultTMatrix()
	target := make([]float64, colorscience.BandCount)
	for i := range target {
		target[i] = 0.4
	}

	results, err := Search(tm, samplePool(), target, NoBlack)
	require.NoError(t, err)
	for _, r := range results {
		for _, name := range r.Pigments {
			assert.NotContains(t, name, "Black")
		}
	}
}

func TestSearchExactMatchRanksFirst(t *testing.T) {
	tm := colorscience.DefaultTMatrix()
	target, err := reconstruct.Reflectance(tm, 200, 100, 50)
	require.NoError(t, err)

	pool := samplePool()
	exact := catalog.Pigment{ID: "Exact Match", CanonicalHex: "#c86432"}
	copy(exact.Reflectance[:], target)
	pool = append(pool, exact)

	results, err := Search(tm, pool, target, AllAvailableColours)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	top := results[0]
	found := false
	for i, name := range top.Pigments {
		if name == "Exact Match" {
			found = true
			assert.Greater(t, top.Weights[i], 0.98)
		}
	}
	assert.True(t, found)
	assert.Less(t, top.Error, 1.0)
}
