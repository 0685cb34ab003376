package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeClassifications(t *testing.T) {
	tests := []struct {
		name          string
		forefoot      float64
		arch          float64
		heel          float64
		expectedCSI   float64
		expectedSI    float64
		expectedClass Classification
	}{
		{
			name:     "Flat foot via both indices",
			forefoot: 60, arch: 33, heel: 40,
			expectedCSI: 0.55, expectedSI: 0.83, expectedClass: ClassFlat,
		},
		{
			name:     "High arch at CSI boundary",
			forefoot: 60, arch: 15, heel: 40,
			expectedCSI: 0.25, expectedSI: 0.38, expectedClass: ClassHigh,
		},
		{
			name:     "Neutral arch",
			forefoot: 60, arch: 27, heel: 40,
			expectedCSI: 0.45, expectedSI: 0.68, expectedClass: ClassNeutral,
		},
		{
			name:     "Flat via SI alone",
			forefoot: 100, arch: 40, heel: 50,
			expectedCSI: 0.4, expectedSI: 0.8, expectedClass: ClassFlat,
		},
		{
			name:     "High via SI alone",
			forefoot: 100, arch: 30, heel: 80,
			expectedCSI: 0.3, expectedSI: 0.38, expectedClass: ClassHigh,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Compute(tt.forefoot, tt.arch, tt.heel)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedCSI, res.CSI)
			assert.Equal(t, tt.expectedSI, res.SI)
			assert.Equal(t, tt.expectedClass, res.Classification)
			assert.Equal(t, ProfileFor(tt.expectedClass), res.Profile)
			assert.NotEmpty(t, res.ID)
			assert.False(t, res.CreatedAt.IsZero())
		})
	}
}

func TestComputeRejectsNonPositiveWidths(t *testing.T) {
	tests := []struct {
		name     string
		forefoot float64
		arch     float64
		heel     float64
	}{
		{name: "Zero forefoot", forefoot: 0, arch: 20, heel: 30},
		{name: "Zero arch", forefoot: 60, arch: 0, heel: 30},
		{name: "Zero heel", forefoot: 60, arch: 20, heel: 0},
		{name: "Negative forefoot", forefoot: -1, arch: 20, heel: 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Compute(tt.forefoot, tt.arch, tt.heel)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, ErrNonPositiveWidth)
		})
	}
}

func TestComputeScaleInvariance(t *testing.T) {
	base, err := Compute(60, 27, 40)
	require.NoError(t, err)

	for _, k := range []float64{0.5, 2, 10, 123.4} {
		scaled, err := Compute(60*k, 27*k, 40*k)
		require.NoError(t, err)
		assert.Equal(t, base.CSI, scaled.CSI, "CSI should be scale invariant at k=%v", k)
		assert.Equal(t, base.SI, scaled.SI, "SI should be scale invariant at k=%v", k)
		assert.Equal(t, base.Classification, scaled.Classification)
	}
}

func TestClassifyIsTotal(t *testing.T) {
	// Every pair in range must map to exactly one class.
	for csi := 0.0; csi <= 1.0; csi += 0.05 {
		for si := 0.0; si <= 1.0; si += 0.05 {
			c := Classify(csi, si)
			assert.Contains(t, []Classification{ClassFlat, ClassNeutral, ClassHigh}, c)
		}
	}
}

func TestClassifyOrderedRules(t *testing.T) {
	// A pair matching both flat and high rules resolves to flat, the
	// flat check runs first.
	assert.Equal(t, ClassFlat, Classify(0.2, 0.8))
	// Boundary values.
	assert.Equal(t, ClassFlat, Classify(0.55, 0.5))
	assert.Equal(t, ClassHigh, Classify(0.25, 0.5))
	assert.Equal(t, ClassHigh, Classify(0.3, 0.4))
	assert.Equal(t, ClassNeutral, Classify(0.26, 0.41))
}

func TestProfileForKnownClasses(t *testing.T) {
	for _, c := range []Classification{ClassFlat, ClassNeutral, ClassHigh} {
		p := ProfileFor(c)
		assert.NotEmpty(t, p.Name)
		assert.NotEmpty(t, p.Pronation)
		assert.NotEmpty(t, p.Risks)
		assert.NotEmpty(t, p.ShoeCategory)
	}
}
