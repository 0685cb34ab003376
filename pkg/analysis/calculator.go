package analysis

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/marcusgo82/stridelab/util"
)

// Classification labels the overall arch structure of a footprint.
type Classification string

const (
	// ClassFlat indicates a collapsed or low arch (overpronation tendency).
	ClassFlat Classification = "flat"
	// ClassNeutral indicates a typical arch.
	ClassNeutral Classification = "neutral"
	// ClassHigh indicates a high, rigid arch (underpronation tendency).
	ClassHigh Classification = "high"
)

// Classification thresholds, first match wins in Classify.
const (
	csiFlatMin = 0.55
	siFlatMin  = 0.75
	csiHighMax = 0.25
	siHighMax  = 0.4
)

// ErrNonPositiveWidth is returned when a band width is zero or negative.
var ErrNonPositiveWidth = errors.New("band width must be positive")

// Result holds a computed footprint analysis.
type Result struct {
	ID             string         `json:"id"`
	CSI            float64        `json:"csi"` // Chippaux-Smirak Index, arch/forefoot
	SI             float64        `json:"si"`  // Staheli Index, arch/heel
	Classification Classification `json:"classification"`
	Profile        ArchProfile    `json:"profile"`
	CreatedAt      time.Time      `json:"created_at"`
}

// Compute derives the CSI and SI ratios from the three measured band widths
// and classifies the arch. Widths are in any single consistent unit; the
// ratios are scale-invariant. Any non-positive width is an input error.
func Compute(forefoot, arch, heel float64) (*Result, error) {
	if forefoot <= 0 {
		return nil, fmt.Errorf("forefoot: %w", ErrNonPositiveWidth)
	}
	if arch <= 0 {
		return nil, fmt.Errorf("arch: %w", ErrNonPositiveWidth)
	}
	if heel <= 0 {
		return nil, fmt.Errorf("heel: %w", ErrNonPositiveWidth)
	}

	csi := arch / forefoot
	si := arch / heel
	class := Classify(csi, si)

	return &Result{
		ID:             uuid.NewString(),
		CSI:            util.Round2(csi),
		SI:             util.Round2(si),
		Classification: class,
		Profile:        ProfileFor(class),
		CreatedAt:      time.Now(),
	}, nil
}

// Classify maps a (CSI, SI) pair to an arch classification. The rules are
// ordered; the flat check wins over the high check when both match.
func Classify(csi, si float64) Classification {
	switch {
	case csi >= csiFlatMin || si >= siFlatMin:
		return ClassFlat
	case csi <= csiHighMax || si <= siHighMax:
		return ClassHigh
	default:
		return ClassNeutral
	}
}
