package footprint

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/marcusgo82/stridelab/pkg/advisory"
	"github.com/marcusgo82/stridelab/pkg/analysis"
	"github.com/marcusgo82/stridelab/pkg/sampler"
	"github.com/marcusgo82/stridelab/util"
	"github.com/marcusgo82/stridelab/util/log"
)

// Phase is the step of the analysis flow the session is in.
type Phase string

// Flow phases, in order.
const (
	PhaseUpload    Phase = "upload"
	PhaseCalibrate Phase = "calibrate"
	PhaseAnalyzing Phase = "analyzing"
	PhaseReport    Phase = "report"
)

// ErrSuperseded is returned by LoadImage when a newer upload replaced the
// request before its decode finished. The caller drops the result.
var ErrSuperseded = errors.New("decode superseded by newer upload")

// FocusFinder is the optional processor capability used to seed band
// placement from image saliency.
type FocusFinder interface {
	SuggestFocus(img image.Image, width, height int) (image.Rectangle, error)
}

// Session is the explicit application state: the loaded image, the three
// measurement bands, display settings, the analysis result and the
// advisory content. All mutation happens through its methods.
type Session struct {
	mu     sync.RWMutex
	proc   sampler.Processor
	cfg    *Config
	tuning TuningConfig

	img      image.Image
	naturalW int
	naturalH int
	displayW int
	displayH int

	bands  map[BandKind]Band
	frozen bool
	phase  Phase

	result   *analysis.Result
	advisory *advisory.Content

	dragger *Dragger

	// decodeGen guards against a stale decode landing after a newer
	// upload.
	decodeGen *util.SafeCounter

	// onChange, when set, is invoked after every state mutation. The UI
	// and the mirror server subscribe through it.
	onChange func()
}

// NewSession creates an empty session in the upload phase.
func NewSession(proc sampler.Processor, cfg *Config, tuning TuningConfig) *Session {
	return &Session{
		proc:      proc,
		cfg:       cfg,
		tuning:    tuning,
		bands:     defaultBands(tuning),
		phase:     PhaseUpload,
		dragger:   NewDragger(tuning),
		decodeGen: util.NewSafeInt(),
	}
}

// OnChange registers the state-change callback. Pass nil to clear.
func (s *Session) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

func (s *Session) notify() {
	s.mu.RLock()
	fn := s.onChange
	s.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

// LoadImage decodes an uploaded file and moves the session to the
// calibration phase. If another upload starts before this decode
// completes, the result is discarded and ErrSuperseded returned. A decode
// failure leaves the prior state untouched so the UI can offer a retry.
func (s *Session) LoadImage(ctx context.Context, data []byte) error {
	gen := s.decodeGen.Increment()

	img, err := s.proc.Decode(ctx, data)
	if err != nil {
		return fmt.Errorf("loading footprint image: %w", err)
	}

	if gen != s.decodeGen.Value() {
		log.Debugf("Discarding stale decode (gen %d)", gen)
		return ErrSuperseded
	}

	bounds := img.Bounds()
	bands := s.seedBands(img)

	s.mu.Lock()
	s.img = img
	s.naturalW = bounds.Dx()
	s.naturalH = bounds.Dy()
	s.bands = bands
	s.frozen = false
	s.phase = PhaseCalibrate
	s.result = nil
	s.advisory = nil
	s.mu.Unlock()

	s.notify()
	return nil
}

// seedBands places the default bands inside the image's salient region
// when the processor can find one, so calibration starts over the
// footprint rather than the page background.
func (s *Session) seedBands(img image.Image) map[BandKind]Band {
	bands := defaultBands(s.tuning)

	ff, ok := s.proc.(FocusFinder)
	if !ok {
		return bands
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	focusW := w * s.tuning.FocusAspectW / s.tuning.FocusAspectH
	if focusW < 1 {
		focusW = w
	}
	focus, err := ff.SuggestFocus(img, focusW, h)
	if err != nil || focus.Empty() {
		if err != nil {
			log.Debugf("Focus suggestion failed, using default bands: %v", err)
		}
		return bands
	}

	fx := float64(focus.Min.X-bounds.Min.X) / float64(w) * 100
	fw := float64(focus.Dx()) / float64(w) * 100
	fy := float64(focus.Min.Y-bounds.Min.Y) / float64(h) * 100
	fh := float64(focus.Dy()) / float64(h) * 100

	place := func(yFrac, widthFrac float64) Band {
		width := util.Clamp(fw*widthFrac, s.tuning.MinBandWidthPct, 100)
		x := util.Clamp(fx+(fw-width)/2, 0, 100-width)
		return Band{
			X:     x,
			Y:     util.Clamp(fy+fh*yFrac, 0, 100),
			Width: width,
		}
	}

	bands[BandForefoot] = place(0.15, 0.95)
	bands[BandArch] = place(0.5, 0.7)
	bands[BandHeel] = place(0.82, 0.8)
	return bands
}

// Reset destroys the loaded image and returns to the upload phase with
// default band geometry.
func (s *Session) Reset() {
	s.decodeGen.Increment() // invalidate any in-flight decode

	s.mu.Lock()
	s.img = nil
	s.naturalW = 0
	s.naturalH = 0
	s.bands = defaultBands(s.tuning)
	s.frozen = false
	s.phase = PhaseUpload
	s.result = nil
	s.advisory = nil
	s.dragger.End()
	s.mu.Unlock()

	s.notify()
}

// Phase returns the current flow phase.
func (s *Session) Phase() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

// Image returns the loaded source image, or nil before upload.
func (s *Session) Image() image.Image {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.img
}

// NaturalSize returns the decoded image dimensions.
func (s *Session) NaturalSize() (int, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.naturalW, s.naturalH
}

// SetDisplaySize records the rendered image dimensions used for pointer
// math and scanning.
func (s *Session) SetDisplaySize(w, h int) {
	s.mu.Lock()
	s.displayW = w
	s.displayH = h
	s.mu.Unlock()
}

// DisplaySize returns the rendered image dimensions.
func (s *Session) DisplaySize() (int, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.displayW, s.displayH
}

// Bands returns a copy of the current band geometry.
func (s *Session) Bands() map[BandKind]Band {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[BandKind]Band, len(s.bands))
	for k, v := range s.bands {
		out[k] = v
	}
	return out
}

// Band returns the geometry for one region.
func (s *Session) Band(kind BandKind) Band {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bands[kind]
}

// BeginDrag starts a drag session on a band. No-op when bands are frozen.
func (s *Session) BeginDrag(kind BandKind, action DragAction, pointerX, pointerY float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.frozen {
		return
	}
	s.dragger.Begin(kind, action, pointerX, pointerY, s.bands[kind])
}

// DragTo applies pointer movement to the active drag and returns the
// updated band geometry.
func (s *Session) DragTo(pointerX, pointerY float64) (Band, bool) {
	s.mu.Lock()
	band, ok := s.dragger.Move(pointerX, pointerY, float64(s.displayW), float64(s.displayH))
	if ok && !s.frozen {
		s.bands[s.dragger.Target()] = band
	}
	s.mu.Unlock()

	if ok {
		s.notify()
	}
	return band, ok
}

// DragActive reports whether a drag session is open.
func (s *Session) DragActive() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dragger.Active()
}

// EndDrag finishes the active drag session.
func (s *Session) EndDrag() {
	s.mu.Lock()
	s.dragger.End()
	s.mu.Unlock()
}

// ScanPoints runs the contact scan with the current image and settings.
// Returns nil before an image is loaded or when the display area is not
// yet laid out.
func (s *Session) ScanPoints() []sampler.Point {
	s.mu.RLock()
	img := s.img
	opts := sampler.Options{
		DisplayWidth:  s.displayW,
		DisplayHeight: s.displayH,
		Sensitivity:   s.cfg.GetSensitivity(),
		Contrast:      s.cfg.GetContrast(),
	}
	s.mu.RUnlock()

	if img == nil {
		return nil
	}
	return sampler.Scan(img, s.proc, opts)
}

// Overlay renders the current point cloud into a display-sized buffer.
func (s *Session) Overlay() *image.NRGBA {
	points := s.ScanPoints()
	w, h := s.DisplaySize()
	return sampler.RenderOverlay(points, w, h)
}

// CompositeImage renders the source image with the point cloud on top,
// for the browser mirror.
func (s *Session) CompositeImage() *image.NRGBA {
	points := s.ScanPoints()
	s.mu.RLock()
	img := s.img
	w, h := s.displayW, s.displayH
	s.mu.RUnlock()
	if img == nil {
		return nil
	}
	return sampler.Composite(img, points, w, h)
}

// StartAnalysis freezes the bands and computes the foot-shape indices
// from their widths. The widths share the percent unit, so the ratios are
// exact. On failure the bands unfreeze and the prior state is kept.
func (s *Session) StartAnalysis() (*analysis.Result, error) {
	s.mu.Lock()
	if s.phase != PhaseCalibrate && s.phase != PhaseReport {
		s.mu.Unlock()
		return nil, fmt.Errorf("cannot analyze in phase %q", s.phase)
	}
	s.frozen = true
	s.phase = PhaseAnalyzing
	forefoot := s.bands[BandForefoot].Width
	arch := s.bands[BandArch].Width
	heel := s.bands[BandHeel].Width
	s.mu.Unlock()

	res, err := analysis.Compute(forefoot, arch, heel)

	s.mu.Lock()
	if err != nil {
		s.frozen = false
		s.phase = PhaseCalibrate
		s.mu.Unlock()
		return nil, err
	}
	s.result = res
	s.advisory = nil
	s.phase = PhaseReport
	s.mu.Unlock()

	s.notify()
	return res, nil
}

// Recalibrate returns from the report to calibration, unfreezing the
// bands and clearing the previous result.
func (s *Session) Recalibrate() error {
	s.mu.Lock()
	if s.phase != PhaseReport && s.phase != PhaseAnalyzing {
		s.mu.Unlock()
		return fmt.Errorf("cannot recalibrate in phase %q", s.phase)
	}
	s.frozen = false
	s.phase = PhaseCalibrate
	s.result = nil
	s.advisory = nil
	s.mu.Unlock()

	s.notify()
	return nil
}

// Result returns the latest analysis result, or nil.
func (s *Session) Result() *analysis.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result
}

// SetAdvisory stores fetched advisory content.
func (s *Session) SetAdvisory(c *advisory.Content) {
	s.mu.Lock()
	s.advisory = c
	s.mu.Unlock()
	s.notify()
}

// Advisory returns the stored advisory content, possibly nil.
func (s *Session) Advisory() *advisory.Content {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.advisory
}

// Report is the JSON snapshot served to the browser mirror.
type Report struct {
	Phase    Phase             `json:"phase"`
	ShoeSize string            `json:"shoe_size"`
	Bands    map[BandKind]Band `json:"bands"`
	Result   *analysis.Result  `json:"result,omitempty"`
	Advisory *advisory.Content `json:"advisory,omitempty"`
}

// Snapshot assembles the current report state.
func (s *Session) Snapshot() Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bands := make(map[BandKind]Band, len(s.bands))
	for k, v := range s.bands {
		bands[k] = v
	}
	return Report{
		Phase:    s.phase,
		ShoeSize: s.cfg.GetShoeSize(),
		Bands:    bands,
		Result:   s.result,
		Advisory: s.advisory,
	}
}
