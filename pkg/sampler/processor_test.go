package sampler

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecodeValidImage(t *testing.T) {
	proc := NewProcessor()
	src := grayBuffer(8, 8, 128)

	img, err := proc.Decode(context.Background(), encodePNG(t, src))
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())
	assert.Equal(t, 8, img.Bounds().Dy())
}

func TestDecodeGarbage(t *testing.T) {
	proc := NewProcessor()
	img, err := proc.Decode(context.Background(), []byte("not an image"))
	assert.Nil(t, img)
	assert.Error(t, err)
}

func TestDecodeCanceledContext(t *testing.T) {
	proc := NewProcessor()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	img, err := proc.Decode(ctx, encodePNG(t, grayBuffer(8, 8, 128)))
	assert.Nil(t, img)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDownscaleDimensions(t *testing.T) {
	proc := NewProcessor()
	out := proc.Downscale(grayBuffer(100, 60, 128), 25, 15)
	assert.Equal(t, 25, out.Bounds().Dx())
	assert.Equal(t, 15, out.Bounds().Dy())
}

func TestApplyFilterProducesGrayscale(t *testing.T) {
	proc := NewProcessor()
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	src.SetNRGBA(0, 0, color.NRGBA{R: 200, G: 30, B: 90, A: 255})
	src.SetNRGBA(1, 1, color.NRGBA{R: 10, G: 240, B: 55, A: 255})

	out := proc.ApplyFilter(src, 100)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			px := out.NRGBAAt(x, y)
			assert.Equal(t, px.R, px.G)
			assert.Equal(t, px.G, px.B)
		}
	}
}

func TestApplyFilterDeterministic(t *testing.T) {
	proc := NewProcessor()
	src := grayBuffer(16, 16, 77)
	a := proc.ApplyFilter(src, 150)
	b := proc.ApplyFilter(src, 150)
	assert.Equal(t, a.Pix, b.Pix)
}

func TestApplyFilterContrastSpread(t *testing.T) {
	// Higher contrast pushes a dark pixel darker and a bright pixel
	// brighter, widening the spread the scan thresholds against.
	proc := NewProcessor()
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 60, G: 60, B: 60, A: 255})
	src.SetNRGBA(1, 0, color.NRGBA{R: 200, G: 200, B: 200, A: 255})

	neutral := proc.ApplyFilter(src, 100)
	boosted := proc.ApplyFilter(src, 250)

	neutralSpread := int(neutral.NRGBAAt(1, 0).R) - int(neutral.NRGBAAt(0, 0).R)
	boostedSpread := int(boosted.NRGBAAt(1, 0).R) - int(boosted.NRGBAAt(0, 0).R)
	assert.Greater(t, boostedSpread, neutralSpread)
}

func TestRenderOverlay(t *testing.T) {
	pts := []Point{
		{X: 10, Y: 10, Intensity: 0.9, Tier: TierHigh},
		{X: 30, Y: 20, Intensity: 0.2, Tier: TierLow},
	}
	overlay := RenderOverlay(pts, 40, 40)
	require.NotNil(t, overlay)
	assert.Equal(t, 40, overlay.Bounds().Dx())

	// Dot centers carry ink, untouched corners stay transparent.
	assert.NotZero(t, overlay.NRGBAAt(10, 10).A)
	assert.NotZero(t, overlay.NRGBAAt(30, 20).A)
	assert.Zero(t, overlay.NRGBAAt(39, 39).A)
}

func TestRenderOverlayInvalidDimensions(t *testing.T) {
	assert.Nil(t, RenderOverlay(nil, 0, 40))
	assert.Nil(t, RenderOverlay(nil, 40, -1))
}

func TestComposite(t *testing.T) {
	base := grayBuffer(20, 20, 255)
	pts := []Point{{X: 5, Y: 5, Intensity: 1, Tier: TierHigh}}

	out := Composite(base, pts, 20, 20)
	require.NotNil(t, out)
	assert.Equal(t, 20, out.Bounds().Dx())

	center := out.NRGBAAt(5, 5)
	corner := out.NRGBAAt(19, 19)
	assert.NotEqual(t, corner, center, "dot must mark the composite")
}
