package sampler

import (
	"bytes"
	"context"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/muesli/smartcrop"
)

// Filter mapping constants. The contrast setting is expressed on a
// 50-250 scale with 100 neutral; imaging.AdjustContrast wants -100..100
// with 0 neutral. Brightness gets a fixed boost to smooth scan noise.
const (
	contrastNeutral    = 100.0
	contrastRange      = 2.0
	brightnessBoostPct = 10.0
)

// Processor is the platform capability the scan algorithm is written
// against: decode bytes, downscale, and apply the grayscale+contrast
// filter. Implementations must be safe to call repeatedly with identical
// inputs and produce identical output.
type Processor interface {
	// Decode decodes an uploaded raster file into an image, honoring
	// context cancellation.
	Decode(ctx context.Context, data []byte) (image.Image, error)
	// Downscale resizes img to exactly width x height.
	Downscale(img image.Image, width, height int) *image.NRGBA
	// ApplyFilter converts img to grayscale, applies the contrast
	// transform and a fixed brightness boost.
	ApplyFilter(img image.Image, contrast float64) *image.NRGBA
}

// ImagingProcessor implements Processor on top of disintegration/imaging.
type ImagingProcessor struct {
	resampler imaging.ResampleFilter
}

// NewProcessor creates a processor with the default resample filter.
func NewProcessor() *ImagingProcessor {
	return &ImagingProcessor{resampler: imaging.Lanczos}
}

// Decode decodes an image from a byte slice with context awareness.
func (p *ImagingProcessor) Decode(ctx context.Context, data []byte) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return img, nil
}

// Downscale resizes img to the working dimensions.
func (p *ImagingProcessor) Downscale(img image.Image, width, height int) *image.NRGBA {
	return imaging.Resize(img, width, height, p.resampler)
}

// ApplyFilter produces the scan buffer: grayscale, contrast remapped from
// the 50-250 UI scale, plus the fixed brightness boost.
func (p *ImagingProcessor) ApplyFilter(img image.Image, contrast float64) *image.NRGBA {
	gray := imaging.Grayscale(img)
	adjusted := imaging.AdjustContrast(gray, (contrast-contrastNeutral)/contrastRange)
	return imaging.AdjustBrightness(adjusted, brightnessBoostPct)
}

// resizer adapts imaging to the smartcrop.Resizer interface.
type resizer struct {
	resampler imaging.ResampleFilter
}

func (r *resizer) Resize(img image.Image, width, height uint) image.Image {
	return imaging.Resize(img, int(width), int(height), r.resampler)
}

// SuggestFocus finds the most salient width x height region of img. The
// session uses it to seed the default measurement band placement over the
// footprint rather than the page background.
func (p *ImagingProcessor) SuggestFocus(img image.Image, width, height int) (image.Rectangle, error) {
	analyzer := smartcrop.NewAnalyzer(&resizer{resampler: p.resampler})
	crop, err := analyzer.FindBestCrop(img, width, height)
	if err != nil {
		return image.Rectangle{}, fmt.Errorf("finding focus region: %w", err)
	}
	return crop, nil
}
