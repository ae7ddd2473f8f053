// Package engine composes C1-C6 into the four operations an HTTP host would
// call (§6): reconstruct a target reflectance from sRGB, search for recipes,
// forward-mix a user-chosen combination, and render that mixture as a hex
// colour. The engine itself is synchronous and holds no per-request state;
// everything it needs is passed in or threaded through its read-only
// *colorscience.TMatrix.
package engine

import (
	"github.com/colormix/paintmix/pkg/catalog"
	"github.com/colormix/paintmix/pkg/colorscience"
	"github.com/colormix/paintmix/pkg/kmmix"
	"github.com/colormix/paintmix/pkg/reconstruct"
	"github.com/colormix/paintmix/pkg/recipe"
)

// PigmentStore is the external collaborator that resolves a brand id to its
// pigment list. The engine depends on this interface, never a concrete
// database; no implementation lives in this repository (§1 scope).
type PigmentStore interface {
	Pigments(brandID string) ([]catalog.Pigment, error)
}

// SettingsStore resolves a user id to their saved settings. Interface only;
// see PigmentStore.
type SettingsStore interface {
	Settings(userID string) (selections map[string][]string, mixChoice string, err error)
}

// AuthContext is an opaque handle a host thread through engine calls that
// need to know "on whose behalf" a request runs. The engine never inspects
// it; it exists purely so a future HTTP host has somewhere to plumb a
// session without the engine importing an auth package.
type AuthContext interface {
	UserID() string
}

// Engine is the colour-science core. The zero value is ready to use once T
// is set; T is immutable and safe to share across goroutines.
type Engine struct {
	T *colorscience.TMatrix
}

// New builds an Engine around the process-wide T-matrix.
func New() *Engine {
	return &Engine{T: colorscience.DefaultTMatrix()}
}

// ReconstructReflectance solves sRGB -> 31-band reflectance (C2).
func (e *Engine) ReconstructReflectance(r, g, b uint8) ([]float64, error) {
	return reconstruct.Reflectance(e.T, r, g, b)
}

// RecipeSearch enumerates pool under strategy and ranks the results against
// target (C5).
func (e *Engine) RecipeSearch(target []float64, pool []catalog.Pigment, strategy recipe.Strategy) ([]recipe.Recipe, error) {
	return recipe.Search(e.T, pool, target, strategy)
}

// Mix forward-combines pigments by weights under Kubelka-Munk theory (C3).
// It never fails on well-formed input; mismatched lengths are the caller's
// programming error, not a runtime condition.
func (e *Engine) Mix(reflectances [][]float64, weights []float64) []float64 {
	return kmmix.Mix(reflectances, weights)
}

// MixedHex forward-mixes pigments and renders the result as a "#RRGGBB"
// display colour, clamping out-of-gamut channels per C1's policy.
func (e *Engine) MixedHex(reflectances [][]float64, weights []float64) string {
	mixed := e.Mix(reflectances, weights)
	xyz := colorscience.ReflectanceToXYZ(e.T, mixed)
	return colorscience.XYZToSRGBHex(xyz)
}
