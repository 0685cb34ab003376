package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/marcusgo82/stridelab/pkg/footprint"
	"github.com/marcusgo82/stridelab/util/log"
)

// shoeSizes are the choices offered in the shoe size selector.
var shoeSizes = []string{
	"US 5", "US 6", "US 7", "US 8", "US 9", "US 10", "US 11", "US 12", "US 13",
}

var imageFileFilter = storage.NewExtensionFileFilter([]string{".png", ".jpg", ".jpeg"})

func (a *StrideApp) buildViews() {
	a.uploadView = a.buildUploadView()
	a.calibrateView = a.buildCalibrateView()
	a.analyzingView = a.buildAnalyzingView()
	a.reportView = a.buildReportView()
}

func (a *StrideApp) buildUploadView() fyne.CanvasObject {
	heading := widget.NewLabelWithStyle("Analyze Your Footprint",
		fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	hint := widget.NewLabelWithStyle(
		"Drop a photo of a wet footprint here, or browse for one.\nA plain paper or cardboard background works best.",
		fyne.TextAlignCenter, fyne.TextStyle{})

	browse := widget.NewButtonWithIcon("Browse for Photo", theme.FolderOpenIcon(), a.showOpenDialog)
	browse.Importance = widget.HighImportance

	return container.NewCenter(container.NewVBox(heading, hint, container.NewCenter(browse)))
}

func (a *StrideApp) buildCalibrateView() fyne.CanvasObject {
	sensitivity := widget.NewSlider(footprint.SensitivityMin, footprint.SensitivityMax)
	sensitivity.SetValue(a.cfg.GetSensitivity())
	sensitivity.OnChanged = func(v float64) {
		a.cfg.SetSensitivity(v)
		a.scheduleOverlayRefresh()
	}

	contrast := widget.NewSlider(footprint.ContrastMin, footprint.ContrastMax)
	contrast.SetValue(a.cfg.GetContrast())
	contrast.OnChanged = func(v float64) {
		a.cfg.SetContrast(v)
		a.scheduleOverlayRefresh()
	}

	shoeSize := widget.NewSelect(shoeSizes, func(size string) {
		a.cfg.SetShoeSize(size)
	})
	shoeSize.SetSelected(a.cfg.GetShoeSize())

	analyze := widget.NewButtonWithIcon("Analyze Footprint", theme.ConfirmIcon(), a.startAnalysis)
	analyze.Importance = widget.HighImportance

	controls := container.NewVBox(
		widget.NewLabelWithStyle("Calibration", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabel("Drag the colored bands over the forefoot, arch and heel.\nDrag a band edge to match its width to the print."),
		widget.NewSeparator(),
		widget.NewLabel("Scan Sensitivity"),
		sensitivity,
		widget.NewLabel("Contrast"),
		contrast,
		widget.NewLabel("Shoe Size"),
		shoeSize,
		widget.NewSeparator(),
		analyze,
		widget.NewButton("Choose Another Photo", a.showOpenDialog),
		widget.NewButton("Settings", a.showSettingsDialog),
	)

	return container.NewBorder(nil, nil, nil, container.NewPadded(controls), a.calibration)
}

func (a *StrideApp) buildAnalyzingView() fyne.CanvasObject {
	a.progress = widget.NewProgressBar()
	label := widget.NewLabelWithStyle("Measuring arch geometry...",
		fyne.TextAlignCenter, fyne.TextStyle{Bold: true})

	bar := a.progress
	bar.Resize(fyne.NewSize(320, bar.MinSize().Height))

	return container.NewCenter(container.NewVBox(label, container.NewGridWrap(fyne.NewSize(320, 40), bar)))
}

// showOpenDialog opens the image picker and hands the chosen file to the
// session.
func (a *StrideApp) showOpenDialog() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		if reader == nil {
			return // cancelled
		}
		a.loadFromReader(reader)
	}, a.window)
	fd.SetFilter(imageFileFilter)
	fd.Show()
}

func (a *StrideApp) openImageURI(uri fyne.URI) {
	reader, err := storage.Reader(uri)
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.loadFromReader(reader)
}

// loadFromReader decodes off the UI thread. A failure leaves the current
// state alone so the user can just pick another file; a superseded decode
// is dropped silently.
func (a *StrideApp) loadFromReader(reader fyne.URIReadCloser) {
	go func() {
		defer reader.Close()

		data, err := io.ReadAll(reader)
		if err == nil {
			err = a.session.LoadImage(context.Background(), data)
		}
		if err != nil && !errors.Is(err, footprint.ErrSuperseded) {
			log.Printf("Image load failed: %v", err)
			fyne.Do(func() {
				dialog.ShowError(fmt.Errorf("could not load image: %w", err), a.window)
			})
		}
	}()
}

// startAnalysis computes the indices and runs the progress animation. The
// computation is synchronous and cheap; the bar paces the reveal so the
// result does not flash in.
func (a *StrideApp) startAnalysis() {
	a.animating.Set(true)
	a.progress.SetValue(0)

	if _, err := a.session.StartAnalysis(); err != nil {
		a.animating.Set(false)
		dialog.ShowError(err, a.window)
		return
	}

	a.showPhase(footprint.PhaseAnalyzing)
	go a.runProgress()
}

func (a *StrideApp) runProgress() {
	ticker := time.NewTicker(a.tuning.ProgressTick)
	defer ticker.Stop()

	start := time.Now()
	for range ticker.C {
		frac := float64(time.Since(start)) / float64(a.tuning.ProgressDuration)
		if frac >= 1 {
			break
		}
		fyne.Do(func() {
			a.progress.SetValue(frac)
		})
	}

	fyne.Do(func() {
		a.progress.SetValue(1)
		a.animating.Set(false)
		a.syncToPhase()
	})
	a.notify("Analysis Complete", "Your footprint report is ready.")
}
