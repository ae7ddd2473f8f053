// Package recipe implements recipe search (C5): enumerating pigment
// combinations under a named strategy, optimizing weights per combination in
// parallel, and ranking the results by perceptual error. Per-combination work
// is pure and embarrassingly parallel, dispatched through pkg/workerpool
// exactly as the teacher's generic worker pool was built to support.
package recipe

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/colormix/paintmix/pkg/catalog"
	"github.com/colormix/paintmix/pkg/colorscience"
	"github.com/colormix/paintmix/pkg/kmmix"
	"github.com/colormix/paintmix/pkg/logger"
	"github.com/colormix/paintmix/pkg/optimize"
	"github.com/colormix/paintmix/pkg/workerpool"
)

// Strategy enumerates the named recipe-search rules. The persisted mix
// choice is a free-text string; ParseStrategy is the single routine allowed
// to see that string — nothing downstream compares against it directly.
type Strategy int

const (
	BlackWhiteTwoColours Strategy = iota
	BlackWhiteThreeColours
	AllAvailableColours
	NeutralGreys
	NoBlack
)

func (s Strategy) String() string {
	switch s {
	case BlackWhiteTwoColours:
		return "black + white + 2 colours"
	case BlackWhiteThreeColours:
		return "black + white + 3 colours"
	case AllAvailableColours:
		return "all available colours"
	case NeutralGreys:
		return "neutral greys"
	case NoBlack:
		return "no black"
	default:
		return "unknown"
	}
}

// ErrInvalidStrategy reports an unrecognized mix_choice string.
var ErrInvalidStrategy = errors.New("recipe: invalid strategy")

// ParseStrategy parses a persisted mix_choice string into a Strategy,
// matching case-insensitively after trimming whitespace.
func ParseStrategy(raw string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "black + white + 2 colours":
		return BlackWhiteTwoColours, nil
	case "black + white + 3 colours":
		return BlackWhiteThreeColours, nil
	case "all available colours":
		return AllAvailableColours, nil
	case "neutral greys":
		return NeutralGreys, nil
	case "no black":
		return NoBlack, nil
	default:
		return 0, ErrInvalidStrategy
	}
}

// MissingColorError reports that a strategy required a canonical pigment by
// name that is absent from the candidate pool.
type MissingColorError struct{ Name string }

func (e *MissingColorError) Error() string {
	return fmt.Sprintf("recipe: missing required color %q", e.Name)
}

// InsufficientPigmentsError reports fewer than 3 candidate pigments.
type InsufficientPigmentsError struct{ Count int }

func (e *InsufficientPigmentsError) Error() string {
	return fmt.Sprintf("recipe: need at least 3 pigments, got %d", e.Count)
}

// ErrNoValidMixture is surfaced only when an entire search produces zero
// recipes; per-combination optimizer failures are otherwise swallowed so one
// bad candidate never poisons the search.
var ErrNoValidMixture = errors.New("recipe: no valid mixture found")

const (
	titaniumWhite = "titanium white"
	ivoryBlack    = "ivory black"
	warmWhite     = "warm white"
)

// Recipe is a ranked mixing result.
type Recipe struct {
	Pigments  []string  `json:"pigments"`
	Weights   []float64 `json:"weights"`
	HexColors []string  `json:"hex_colors"`
	Error     float64   `json:"error"`
}

type combination []int

// Search enumerates pool under strategy, optimizes weights per combination
// against target, and returns the top 5 recipes ranked by ascending ΔE,
// ties broken by original enumeration order (stable sort).
func Search(t *colorscience.TMatrix, pool []catalog.Pigment, target []float64, strategy Strategy) ([]Recipe, error) {
	if len(pool) < 3 {
		return nil, &InsufficientPigmentsError{Count: len(pool)}
	}

	combos, err := enumerate(pool, strategy)
	if err != nil {
		return nil, err
	}

	results := evaluate(t, pool, combos, target)
	if len(results) == 0 {
		return nil, ErrNoValidMixture
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Error < results[j].Error })
	if len(results) > 5 {
		results = results[:5]
	}
	return results, nil
}

func enumerate(pool []catalog.Pigment, strategy Strategy) ([]combination, error) {
	switch strategy {
	case BlackWhiteTwoColours:
		return blackWhiteN(pool, 2)
	case BlackWhiteThreeColours:
		return blackWhiteN(pool, 3)
	case AllAvailableColours:
		return contiguousWindows(indicesAll(pool), 3, 5), nil
	case NeutralGreys:
		return neutralGreys(pool), nil
	case NoBlack:
		return noBlack(pool), nil
	default:
		return nil, ErrInvalidStrategy
	}
}

func blackWhiteN(pool []catalog.Pigment, n int) ([]combination, error) {
	whiteIdx, err := findExact(pool, titaniumWhite, "Titanium White")
	if err != nil {
		return nil, err
	}
	blackIdx, err := findExact(pool, ivoryBlack, "Ivory Black")
	if err != nil {
		return nil, err
	}

	other := otherIndices(pool, whiteIdx, blackIdx)

	var groups [][]int
	switch n {
	case 2:
		groups = pairs(other)
	case 3:
		groups = triples(other)
	}

	combos := make([]combination, 0, len(groups))
	for _, g := range groups {
		c := make(combination, 0, len(g)+2)
		c = append(c, whiteIdx, blackIdx)
		c = append(c, g...)
		combos = append(combos, c)
	}
	return combos, nil
}

func findExact(pool []catalog.Pigment, lowerName, displayName string) (int, error) {
	for i, p := range pool {
		if strings.ToLower(strings.TrimSpace(p.ID)) == lowerName {
			return i, nil
		}
	}
	return -1, &MissingColorError{Name: displayName}
}

func otherIndices(pool []catalog.Pigment, exclude ...int) []int {
	excluded := make(map[int]bool, len(exclude))
	for _, e := range exclude {
		excluded[e] = true
	}
	var out []int
	for i, p := range pool {
		if excluded[i] {
			continue
		}
		if strings.ToLower(strings.TrimSpace(p.ID)) == warmWhite {
			continue
		}
		out = append(out, i)
	}
	return out
}

func neutralGreys(pool []catalog.Pigment) []combination {
	var greys, other []int
	for i, p := range pool {
		name := strings.ToLower(strings.TrimSpace(p.ID))
		if strings.Contains(name, "grey") || strings.Contains(name, "gray") {
			greys = append(greys, i)
			continue
		}
		if name == titaniumWhite || name == ivoryBlack || name == warmWhite {
			continue
		}
		other = append(other, i)
	}
	if len(greys) == 0 {
		return nil
	}

	pairList := pairs(other)
	combos := make([]combination, 0, len(greys)*len(pairList))
	for _, g := range greys {
		for _, pr := range pairList {
			c := combination{g}
			c = append(c, pr...)
			combos = append(combos, c)
		}
	}
	return combos
}

func noBlack(pool []catalog.Pigment) []combination {
	var filtered []int
	for i, p := range pool {
		if !strings.Contains(strings.ToLower(p.ID), "black") {
			filtered = append(filtered, i)
		}
	}
	return contiguousWindows(filtered, 3, 4)
}

// contiguousWindows enumerates every contiguous window of each size in
// [minSize, maxSize] over idxs, in order. This only covers contiguous runs,
// not all combinations of that size — preserved intentionally, since
// changing it would change which recipes rank in the top 5.
func contiguousWindows(idxs []int, minSize, maxSize int) []combination {
	var combos []combination
	for size := minSize; size <= maxSize; size++ {
		if size > len(idxs) {
			continue
		}
		for i := 0; i+size <= len(idxs); i++ {
			c := make(combination, size)
			copy(c, idxs[i:i+size])
			combos = append(combos, c)
		}
	}
	return combos
}

func indicesAll(pool []catalog.Pigment) []int {
	out := make([]int, len(pool))
	for i := range out {
		out[i] = i
	}
	return out
}

func pairs(idxs []int) [][]int {
	var out [][]int
	for i := 0; i < len(idxs); i++ {
		for j := i + 1; j < len(idxs); j++ {
			out = append(out, []int{idxs[i], idxs[j]})
		}
	}
	return out
}

func triples(idxs []int) [][]int {
	var out [][]int
	for i := 0; i < len(idxs); i++ {
		for j := i + 1; j < len(idxs); j++ {
			for k := j + 1; k < len(idxs); k++ {
				out = append(out, []int{idxs[i], idxs[j], idxs[k]})
			}
		}
	}
	return out
}

func evaluate(t *colorscience.TMatrix, pool []catalog.Pigment, combos []combination, target []float64) []Recipe {
	slots := make([]*Recipe, len(combos))

	var wp workerpool.Pool
	if err := wp.Init(); err != nil {
		logger.Log.Warn().Err(err).Msg("recipe: worker pool init failed, evaluating serially")
		for i, c := range combos {
			slots[i] = evaluateOne(t, pool, c, target)
		}
	} else {
		defer wp.Close()
		if err := wp.Execute(len(combos), func(start, end int) error {
			for i := start; i < end; i++ {
				slots[i] = evaluateOne(t, pool, combos[i], target)
			}
			return nil
		}); err != nil {
			logger.Log.Warn().Err(err).Msg("recipe: parallel search returned an error")
		}
	}

	results := make([]Recipe, 0, len(slots))
	for _, r := range slots {
		if r != nil {
			results = append(results, *r)
		}
	}
	return results
}

func evaluateOne(t *colorscience.TMatrix, pool []catalog.Pigment, combo combination, target []float64) *Recipe {
	n := len(combo)
	reflectances := make([][]float64, n)
	ids := make([]string, n)
	hexes := make([]string, n)
	weights := make([]float64, n)
	for i, idx := range combo {
		p := pool[idx]
		reflectances[i] = p.ReflectanceSlice()
		ids[i] = p.ID
		hexes[i] = p.CanonicalHex
		weights[i] = 1.0 / float64(n)
	}

	optimized, err := optimize.Weights(reflectances, weights, target)
	if err != nil {
		return nil
	}

	mixed := kmmix.Mix(reflectances, optimized)
	for _, v := range mixed {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}
	}

	mixedXYZ := colorscience.ReflectanceToXYZ(t, mixed)
	targetXYZ := colorscience.ReflectanceToXYZ(t, target)
	deltaE := colorscience.DeltaE76(colorscience.XYZToLab(mixedXYZ), colorscience.XYZToLab(targetXYZ))

	return &Recipe{Pigments: ids, Weights: optimized, HexColors: hexes, Error: deltaE}
}
