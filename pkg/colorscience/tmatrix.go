package colorscience

// TMatrix is the 3x36 product of CIE 1964 10-degree observer colour-matching
// functions with the D65 illuminant spectrum, covering 380-730nm at 10nm. It
// is constant for the life of the process and safe to share across
// goroutines.
type TMatrix struct {
	xBar, yBar, zBar [ExtendedBandCount]float64
}

// Apply computes T*r36 for an already-padded 36-band reflectance vector.
func (t *TMatrix) Apply(r36 []float64) XYZ {
	var xyz XYZ
	for i := 0; i < ExtendedBandCount; i++ {
		xyz.X += t.xBar[i] * r36[i]
		xyz.Y += t.yBar[i] * r36[i]
		xyz.Z += t.zBar[i] * r36[i]
	}
	return xyz
}

// Row returns the i-th row of T (0=X, 1=Y, 2=Z) as a read-only slice.
func (t *TMatrix) Row(i int) [ExtendedBandCount]float64 {
	switch i {
	case 0:
		return t.xBar
	case 1:
		return t.yBar
	default:
		return t.zBar
	}
}

// DefaultTMatrix returns the standard CIE 1964 10-degree observer, D65
// illuminant colour matching table, 380-730nm at 10nm steps. The numeric
// table itself is the process-wide ColorMatchingTables constant; construct it
// once and share the resulting *TMatrix.
func DefaultTMatrix() *TMatrix {
	return &TMatrix{
		xBar: [ExtendedBandCount]float64{
			0.000160, 0.002362, 0.019110, 0.084736, 0.204492, 0.314679, 0.383734, 0.370702, 0.302273,
			0.195618, 0.080507, 0.016172, 0.003816, 0.037465, 0.117749, 0.236491, 0.376772, 0.529826,
			0.705224, 0.878655, 1.014160, 1.118520, 1.123990, 1.030480, 0.856297, 0.647467, 0.431567,
			0.268329, 0.152568, 0.081261, 0.040851, 0.019941, 0.009577, 0.004539, 0.002175, 0.001060,
		},
		yBar: [ExtendedBandCount]float64{
			0.000017, 0.000253, 0.002004, 0.008756, 0.021391, 0.038676, 0.062077, 0.089456, 0.128201,
			0.185190, 0.253589, 0.339133, 0.460777, 0.606741, 0.761757, 0.875211, 0.961988, 0.991761,
			0.997340, 0.955552, 0.868934, 0.777405, 0.658341, 0.527963, 0.398057, 0.283493, 0.179828,
			0.107633, 0.060281, 0.031800, 0.015905, 0.007749, 0.003718, 0.001762, 0.000846, 0.000415,
		},
		zBar: [ExtendedBandCount]float64{
			0.000705, 0.010482, 0.086011, 0.389366, 0.972542, 1.553480, 1.967280, 1.994800, 1.745370,
			1.317560, 0.772125, 0.415254, 0.218502, 0.112044, 0.060709, 0.030451, 0.013676, 0.003988,
			0.000000, 0.000000, 0.000000, 0.000000, 0.000000, 0.000000, 0.000000, 0.000000, 0.000000,
			0.000000, 0.000000, 0.000000, 0.000000, 0.000000, 0.000000, 0.000000, 0.000000, 0.000000,
		},
	}
}
