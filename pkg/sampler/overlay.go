package sampler

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
)

// RenderOverlay draws the sampled points as weighted colored dots into a
// transparent RGBA buffer of the given display dimensions. The buffer is
// ephemeral, it is rebuilt on every parameter change and never cached.
func RenderOverlay(points []Point, width, height int) *image.NRGBA {
	if width <= 0 || height <= 0 {
		return nil
	}
	overlay := image.NewNRGBA(image.Rect(0, 0, width, height))
	for _, p := range points {
		drawDot(overlay, p)
	}
	return overlay
}

// Composite scales base to the display dimensions and draws the point
// cloud on top. Used by the browser mirror to serve a single PNG.
func Composite(base image.Image, points []Point, width, height int) *image.NRGBA {
	if width <= 0 || height <= 0 {
		return nil
	}
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	if base != nil {
		xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), base, base.Bounds(), xdraw.Over, nil)
	}
	for _, p := range points {
		drawDot(dst, p)
	}
	return dst
}

// drawDot rasterizes one filled circle, alpha-blended over dst.
func drawDot(dst *image.NRGBA, p Point) {
	c := p.Tier.Color()
	r := p.Radius()
	cx, cy := p.X, p.Y

	minX, maxX := int(cx-r), int(cx+r+1)
	minY, maxY := int(cy-r), int(cy+r+1)
	bounds := dst.Bounds()

	for y := minY; y < maxY; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for x := minX; x < maxX; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			if dx*dx+dy*dy > r*r {
				continue
			}
			blendNRGBA(dst, x, y, c)
		}
	}
}

// blendNRGBA applies src over the destination pixel.
func blendNRGBA(dst *image.NRGBA, x, y int, src color.NRGBA) {
	d := dst.NRGBAAt(x, y)
	sa := uint32(src.A)
	da := uint32(d.A)
	outA := sa + da*(255-sa)/255
	if outA == 0 {
		dst.SetNRGBA(x, y, color.NRGBA{})
		return
	}
	blend := func(s, d uint8) uint8 {
		v := (uint32(s)*sa + uint32(d)*da*(255-sa)/255) / outA
		return uint8(v)
	}
	dst.SetNRGBA(x, y, color.NRGBA{
		R: blend(src.R, d.R),
		G: blend(src.G, d.G),
		B: blend(src.B, d.B),
		A: uint8(outA),
	})
}
