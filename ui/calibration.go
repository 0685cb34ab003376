package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/marcusgo82/stridelab/pkg/footprint"
)

var bandFills = map[footprint.BandKind]color.NRGBA{
	footprint.BandForefoot: {R: 52, G: 152, B: 219, A: 70},
	footprint.BandArch:     {R: 46, G: 204, B: 113, A: 70},
	footprint.BandHeel:     {R: 155, G: 89, B: 182, A: 70},
}

var bandStrokes = map[footprint.BandKind]color.NRGBA{
	footprint.BandForefoot: {R: 52, G: 152, B: 219, A: 255},
	footprint.BandArch:     {R: 46, G: 204, B: 113, A: 255},
	footprint.BandHeel:     {R: 155, G: 89, B: 182, A: 255},
}

// calibrationCanvas shows the uploaded footprint with the point-cloud
// overlay and the three draggable measurement bands. Pointer events are
// forwarded to the session's drag machine; nothing here owns geometry.
type calibrationCanvas struct {
	widget.BaseWidget

	session *footprint.Session

	photo   *canvas.Image
	overlay *canvas.Image
	rects   map[footprint.BandKind]*canvas.Rectangle

	// fit of the photo inside the widget, updated on every layout
	photoPos  fyne.Position
	photoSize fyne.Size

	onBandsChanged func()
}

func newCalibrationCanvas(session *footprint.Session) *calibrationCanvas {
	c := &calibrationCanvas{
		session: session,
		photo:   canvas.NewImageFromImage(nil),
		overlay: canvas.NewImageFromImage(nil),
		rects:   make(map[footprint.BandKind]*canvas.Rectangle),
	}
	c.photo.FillMode = canvas.ImageFillStretch
	c.overlay.FillMode = canvas.ImageFillStretch

	for _, kind := range footprint.BandKinds {
		r := canvas.NewRectangle(bandFills[kind])
		r.StrokeColor = bandStrokes[kind]
		r.StrokeWidth = 2
		c.rects[kind] = r
	}

	c.ExtendBaseWidget(c)
	return c
}

// reload swaps in the session's current image and rescans the overlay.
func (c *calibrationCanvas) reload() {
	c.photo.Image = c.session.Image()
	c.refreshOverlay()
	c.Refresh()
}

// refreshOverlay regenerates the point cloud for the current settings.
// The sampled points are ephemeral, nothing is cached between calls.
func (c *calibrationCanvas) refreshOverlay() {
	c.overlay.Image = c.session.Overlay()
	c.overlay.Refresh()
}

// Dragged implements fyne.Draggable. The first event of a drag session
// hit-tests the bands and opens the drag machine; every event reports the
// absolute pointer position so lost events cannot accumulate error.
func (c *calibrationCanvas) Dragged(e *fyne.DragEvent) {
	local := fyne.NewPos(e.Position.X-c.photoPos.X, e.Position.Y-c.photoPos.Y)

	if !c.session.DragActive() {
		startX := local.X - e.Dragged.DX
		startY := local.Y - e.Dragged.DY
		kind, action, ok := hitTestBands(c.session.Bands(),
			float64(startX), float64(startY),
			float64(c.photoSize.Width), float64(c.photoSize.Height))
		if !ok {
			return
		}
		c.session.BeginDrag(kind, action, float64(startX), float64(startY))
	}

	if _, ok := c.session.DragTo(float64(local.X), float64(local.Y)); ok {
		c.Refresh()
		if c.onBandsChanged != nil {
			c.onBandsChanged()
		}
	}
}

// DragEnd implements fyne.Draggable.
func (c *calibrationCanvas) DragEnd() {
	c.session.EndDrag()
}

// hitTestBands finds which band and action a pointer position addresses.
// Positions are in display pixels relative to the photo origin. Bands are
// tested in anatomical order; a grab within edgeGrabPx of a vertical edge
// resizes, anywhere else inside the band moves it.
func hitTestBands(bands map[footprint.BandKind]footprint.Band, px, py, displayW, displayH float64) (footprint.BandKind, footprint.DragAction, bool) {
	if displayW <= 0 || displayH <= 0 {
		return "", footprint.ActionMove, false
	}

	for _, kind := range footprint.BandKinds {
		b := bands[kind]
		left := b.X / 100 * displayW
		width := b.Width / 100 * displayW
		centerY := b.Y / 100 * displayH
		top := centerY - bandHeightPx/2
		bottom := centerY + bandHeightPx/2

		if py < top || py > bottom {
			continue
		}
		switch {
		case px >= left-edgeGrabPx && px <= left+edgeGrabPx:
			return kind, footprint.ActionResizeLeft, true
		case px >= left+width-edgeGrabPx && px <= left+width+edgeGrabPx:
			return kind, footprint.ActionResizeRight, true
		case px > left && px < left+width:
			return kind, footprint.ActionMove, true
		}
	}
	return "", footprint.ActionMove, false
}

// CreateRenderer implements fyne.Widget.
func (c *calibrationCanvas) CreateRenderer() fyne.WidgetRenderer {
	objects := []fyne.CanvasObject{c.photo, c.overlay}
	for _, kind := range footprint.BandKinds {
		objects = append(objects, c.rects[kind])
	}
	return &calibrationRenderer{canvas: c, objects: objects}
}

type calibrationRenderer struct {
	canvas  *calibrationCanvas
	objects []fyne.CanvasObject
}

func (r *calibrationRenderer) Layout(size fyne.Size) {
	c := r.canvas

	natW, natH := c.session.NaturalSize()
	if natW <= 0 || natH <= 0 {
		c.photo.Hide()
		c.overlay.Hide()
		for _, rect := range c.rects {
			rect.Hide()
		}
		return
	}
	c.photo.Show()
	c.overlay.Show()

	// Fit the photo into the widget preserving aspect ratio.
	scale := size.Width / float32(natW)
	if s := size.Height / float32(natH); s < scale {
		scale = s
	}
	fitW := float32(natW) * scale
	fitH := float32(natH) * scale
	c.photoPos = fyne.NewPos((size.Width-fitW)/2, (size.Height-fitH)/2)
	c.photoSize = fyne.NewSize(fitW, fitH)

	prevW, prevH := c.session.DisplaySize()
	if prevW != int(fitW) || prevH != int(fitH) {
		c.session.SetDisplaySize(int(fitW), int(fitH))
		c.overlay.Image = c.session.Overlay()
	}

	c.photo.Move(c.photoPos)
	c.photo.Resize(c.photoSize)
	c.overlay.Move(c.photoPos)
	c.overlay.Resize(c.photoSize)

	bands := c.session.Bands()
	for kind, rect := range c.rects {
		b := bands[kind]
		rect.Show()
		rect.Move(fyne.NewPos(
			c.photoPos.X+float32(b.X/100)*fitW,
			c.photoPos.Y+float32(b.Y/100)*fitH-bandHeightPx/2,
		))
		rect.Resize(fyne.NewSize(float32(b.Width/100)*fitW, bandHeightPx))
	}
}

func (r *calibrationRenderer) MinSize() fyne.Size {
	return fyne.NewSize(320, 420)
}

func (r *calibrationRenderer) Refresh() {
	r.Layout(r.canvas.Size())
	canvas.Refresh(r.canvas)
}

func (r *calibrationRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *calibrationRenderer) Destroy() {}
