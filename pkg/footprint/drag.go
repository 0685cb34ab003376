package footprint

// DragAction is what a pointer drag does to a band.
type DragAction int

// Supported drag actions.
const (
	ActionMove DragAction = iota
	ActionResizeLeft
	ActionResizeRight
)

// Dragger is an explicit two-state machine over pointer events: Idle, or
// Dragging one band with a snapshot of its pre-drag geometry. All pointer
// movement is expressed as a delta from the snapshot, converted to percent
// of the display area, then clamped by the band invariants. Listeners are
// never registered globally; the UI forwards its own pointer events here.
type Dragger struct {
	active bool
	kind   BandKind
	action DragAction
	startX float64 // pointer position at drag start, display pixels
	startY float64
	orig   Band // geometry snapshot at drag start

	tuning TuningConfig
}

// NewDragger creates an idle drag machine.
func NewDragger(t TuningConfig) *Dragger {
	return &Dragger{tuning: t}
}

// Active reports whether a drag session is in progress.
func (d *Dragger) Active() bool {
	return d.active
}

// Target returns the band kind being dragged. Only meaningful while
// Active.
func (d *Dragger) Target() BandKind {
	return d.kind
}

// Begin transitions Idle -> Dragging, capturing the pointer origin and the
// band's current geometry. A Begin during an active drag replaces the
// session, pointer-up events can be lost when the cursor leaves the
// window.
func (d *Dragger) Begin(kind BandKind, action DragAction, pointerX, pointerY float64, band Band) {
	d.active = true
	d.kind = kind
	d.action = action
	d.startX = pointerX
	d.startY = pointerY
	d.orig = band
}

// Move computes the band geometry for the current pointer position. It
// returns the updated band and true while dragging; when idle it reports
// false and the zero Band. displayW and displayH are the rendered image
// dimensions in the same units as the pointer coordinates.
func (d *Dragger) Move(pointerX, pointerY, displayW, displayH float64) (Band, bool) {
	if !d.active || displayW <= 0 || displayH <= 0 {
		return Band{}, false
	}

	dxPct := (pointerX - d.startX) / displayW * 100
	dyPct := (pointerY - d.startY) / displayH * 100

	switch d.action {
	case ActionResizeLeft:
		return d.orig.ResizedLeftBy(d.tuning, dxPct), true
	case ActionResizeRight:
		return d.orig.ResizedRightBy(d.tuning, dxPct), true
	default:
		return d.orig.MovedBy(d.tuning, dxPct, dyPct), true
	}
}

// End transitions Dragging -> Idle. Safe to call when already idle.
func (d *Dragger) End() {
	d.active = false
}
