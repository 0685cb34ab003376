package footprint

import (
	"fmt"

	"github.com/marcusgo82/stridelab/util"
)

// BandKind identifies one of the three measurement regions.
type BandKind string

// The three regions a footprint is measured across.
const (
	BandForefoot BandKind = "forefoot"
	BandArch     BandKind = "arch"
	BandHeel     BandKind = "heel"
)

// BandKinds lists the regions in anatomical order, toe to heel.
var BandKinds = []BandKind{BandForefoot, BandArch, BandHeel}

// Band is a user-positioned measurement region. All values are percent of
// the displayed image. Invariants: X and Y stay in [0,100], Width stays in
// [MinBandWidthPct, 100-X].
type Band struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Width float64 `json:"width"`
}

// MovedBy returns the band translated by the given percent deltas, with
// position clamped so the band stays fully inside the display area and
// its width untouched.
func (b Band) MovedBy(t TuningConfig, dx, dy float64) Band {
	b.X = util.Clamp(b.X+dx, 0, 100-b.Width)
	b.Y = util.Clamp(b.Y+dy, 0, 100)
	return b
}

// ResizedRightBy returns the band with its right edge shifted by dx
// percent. The left edge never moves.
func (b Band) ResizedRightBy(t TuningConfig, dx float64) Band {
	b.Width = util.Clamp(b.Width+dx, t.MinBandWidthPct, 100-b.X)
	return b
}

// ResizedLeftBy returns the band with its left edge shifted by dx percent.
// The right edge stays fixed, so X is re-anchored as the width changes.
func (b Band) ResizedLeftBy(t TuningConfig, dx float64) Band {
	right := b.X + b.Width
	b.X = util.Clamp(b.X+dx, 0, right-t.MinBandWidthPct)
	b.Width = right - b.X
	return b
}

// Valid reports whether the band satisfies its geometry invariants.
func (b Band) Valid(t TuningConfig) error {
	if b.X < 0 || b.X > 100 || b.Y < 0 || b.Y > 100 {
		return fmt.Errorf("band position out of range: x=%.2f y=%.2f", b.X, b.Y)
	}
	if b.Width < t.MinBandWidthPct || b.Width > 100-b.X {
		return fmt.Errorf("band width out of range: x=%.2f width=%.2f", b.X, b.Width)
	}
	return nil
}

// defaultBands returns the initial calibration geometry used when no
// focus region is available.
func defaultBands(t TuningConfig) map[BandKind]Band {
	return map[BandKind]Band{
		BandForefoot: t.DefaultForefoot,
		BandArch:     t.DefaultArch,
		BandHeel:     t.DefaultHeel,
	}
}
