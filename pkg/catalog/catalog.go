// Package catalog provides a read-only, typed view over a persisted pigment
// dataset: per-brand reflectance curves plus their advisory display hex. It
// decodes the on-disk blob format directly (§6 of the engine contract) and
// never touches a database itself — storage is an external collaborator.
package catalog

import (
	"encoding/binary"
	"io"

	"github.com/colormix/paintmix/pkg/colorscience"
)

const (
	reflectanceClipMin = 0.001
	reflectanceClipMax = 0.999
)

// Pigment is one named reflectance curve in a brand's palette.
type Pigment struct {
	ID           string
	Reflectance  [colorscience.BandCount]float64
	CanonicalHex string
}

// Catalog is an ordered sequence of Pigment for a single brand.
type Catalog struct {
	Pigments []Pigment
}

// brandAllowList is the closed set of brand ids the facade recognizes.
// Lookups outside this list are a non-error empty result, not a failure.
var brandAllowList = []string{
	"winsor_newton_artist_oil_colour",
	"daler_rowney_georgian_oil_colours",
	"griffin_alkyd_fast_drying_oil_colour",
	"gamblin_conservation_colors",
	"michael_harding",
	"maimeri_puro_oil",
	"schmincke_mussini_oils",
	"sennellier_extra_fine_oils",
	"talens_van_gogh_oil_colour",
	"williamsburg_handmade_oil_colors",
	"winton_oil_colour",
}

// Brands returns the closed list of recognized brand ids.
func Brands() []string {
	out := make([]string, len(brandAllowList))
	copy(out, brandAllowList)
	return out
}

// BrandAllowed reports whether id is a recognized brand.
func BrandAllowed(id string) bool {
	for _, b := range brandAllowList {
		if b == id {
			return true
		}
	}
	return false
}

// DecodePigmentBlob reads a single pigment row: a length-prefixed (uint32 LE
// count, here fixed at 31) sequence of IEEE-754 float64 little-endian values.
// Rows of the wrong length, or that fail to deserialize, are the caller's to
// skip; DecodePigmentBlob reports the error rather than silently truncating,
// since the "skip silently" policy belongs to whoever is assembling a
// Catalog from many rows, not to a single decode.
func DecodePigmentBlob(r io.Reader) ([colorscience.BandCount]float64, error) {
	var out [colorscience.BandCount]float64

	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return out, err
	}
	if count != colorscience.BandCount {
		return out, errWrongLength{got: int(count)}
	}

	values := make([]float64, count)
	if err := binary.Read(r, binary.LittleEndian, &values); err != nil {
		return out, err
	}

	for i, v := range values {
		out[i] = clipReflectance(v)
	}
	return out, nil
}

type errWrongLength struct{ got int }

func (e errWrongLength) Error() string {
	return "catalog: pigment row has wrong reflectance length"
}

func clipReflectance(v float64) float64 {
	if v < reflectanceClipMin {
		return reflectanceClipMin
	}
	if v > reflectanceClipMax {
		return reflectanceClipMax
	}
	return v
}

// Add decodes one pigment row and appends it to the catalog, skipping rows
// that fail to deserialize or have the wrong length rather than failing the
// whole load (§6).
func (c *Catalog) Add(id string, blob io.Reader, hex string) {
	r, err := DecodePigmentBlob(blob)
	if err != nil {
		return
	}
	c.Pigments = append(c.Pigments, Pigment{ID: id, Reflectance: r, CanonicalHex: hex})
}

// ReflectanceSlice returns the pigment's reflectance as a plain []float64,
// the shape the rest of the engine operates on.
func (p Pigment) ReflectanceSlice() []float64 {
	out := make([]float64, colorscience.BandCount)
	copy(out, p.Reflectance[:])
	return out
}
