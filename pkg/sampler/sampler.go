package sampler

import (
	"image"
	"image/color"
)

// Scan parameters. Centralized here so the UI, the preview server and the
// tests all agree on the same pass.
const (
	// WorkingScale is the downscale factor applied to the display
	// dimensions before scanning. Scanning never touches the full
	// resolution image.
	WorkingScale = 0.25

	// ScanStride is the sampling step, in working-buffer pixels.
	ScanStride = 3

	// ThresholdBase and ThresholdSlope derive the luminance cutoff from
	// the sensitivity setting: threshold = base + slope * sensitivity.
	ThresholdBase  = 40.0
	ThresholdSlope = 2.0

	// Intensity cutoffs for the display tiers.
	tierHighMin   = 0.6
	tierMediumMin = 0.3
)

// Tier buckets a sampled point's intensity for display.
type Tier int

// Display tiers, strongest contact first.
const (
	TierHigh Tier = iota
	TierMedium
	TierLow
)

var tierColors = map[Tier]color.NRGBA{
	TierHigh:   {R: 231, G: 76, B: 60, A: 230},
	TierMedium: {R: 230, G: 126, B: 34, A: 180},
	TierLow:    {R: 241, G: 196, B: 15, A: 110},
}

// Color returns the fixed display color for the tier, alpha included.
func (t Tier) Color() color.NRGBA {
	return tierColors[t]
}

// Point is a single sampled contact point in display coordinate space.
type Point struct {
	X         float64
	Y         float64
	Intensity float64 // 0..1, darker source pixel means higher intensity
	Tier      Tier
}

// Radius returns the point's draw radius in display pixels. It grows
// linearly with intensity.
func (p Point) Radius() float64 {
	return 1 + 2.5*p.Intensity
}

// Options parameterize a scan pass.
type Options struct {
	DisplayWidth  int
	DisplayHeight int
	Sensitivity   float64 // 0..100, higher admits brighter pixels as contact
	Contrast      float64 // 50..250, 100 is neutral
}

// Threshold returns the luminance cutoff derived from the sensitivity
// setting. The value is deliberately not clamped to the 0-255 channel
// range; callers keep sensitivity within [0,100] so the cutoff stays in
// [40,240].
func (o Options) Threshold() float64 {
	return ThresholdBase + ThresholdSlope*o.Sensitivity
}

// Scan downsamples src to the working buffer, applies the grayscale and
// contrast filter, and walks the result at a fixed stride collecting dark
// pixels as contact points. The returned points live in display coordinate
// space. Scanning is deterministic for identical inputs and returns nil
// when the display dimensions are zero or negative.
func Scan(src image.Image, proc Processor, opts Options) []Point {
	if src == nil || opts.DisplayWidth <= 0 || opts.DisplayHeight <= 0 {
		return nil
	}

	workW := int(float64(opts.DisplayWidth) * WorkingScale)
	workH := int(float64(opts.DisplayHeight) * WorkingScale)
	if workW <= 0 || workH <= 0 {
		return nil
	}

	work := proc.ApplyFilter(proc.Downscale(src, workW, workH), opts.Contrast)
	threshold := opts.Threshold()
	if threshold <= 0 {
		return nil
	}

	bounds := work.Bounds()
	var points []Point
	for y := bounds.Min.Y; y < bounds.Max.Y; y += ScanStride {
		for x := bounds.Min.X; x < bounds.Max.X; x += ScanStride {
			// The working buffer is grayscale, any channel works;
			// the red channel is used throughout.
			v := float64(work.NRGBAAt(x, y).R)
			if v >= threshold {
				continue
			}
			intensity := 1 - v/threshold
			points = append(points, Point{
				X:         float64(x-bounds.Min.X) / WorkingScale,
				Y:         float64(y-bounds.Min.Y) / WorkingScale,
				Intensity: intensity,
				Tier:      tierFor(intensity),
			})
		}
	}
	return points
}

func tierFor(intensity float64) Tier {
	switch {
	case intensity > tierHighMin:
		return TierHigh
	case intensity > tierMediumMin:
		return TierMedium
	default:
		return TierLow
	}
}
