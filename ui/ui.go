// Package ui assembles the desktop application: the upload, calibration,
// analyzing and report views over a single footprint session.
package ui

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	appconfig "github.com/marcusgo82/stridelab/config"
	"github.com/marcusgo82/stridelab/pkg/advisory"
	"github.com/marcusgo82/stridelab/pkg/api"
	"github.com/marcusgo82/stridelab/pkg/footprint"
	"github.com/marcusgo82/stridelab/pkg/hotkey"
	"github.com/marcusgo82/stridelab/pkg/sampler"
	"github.com/marcusgo82/stridelab/util"
	"github.com/marcusgo82/stridelab/util/log"
)

var (
	instance *StrideApp
	once     sync.Once
)

// StrideApp is the desktop application. Access it through GetInstance.
type StrideApp struct {
	app    fyne.App
	window fyne.Window

	appConfig *appconfig.AppConfig
	cfg       *footprint.Config
	session   *footprint.Session
	advisor   *advisory.Client
	mirror    *api.Server

	calibration *calibrationCanvas
	content     *fyne.Container
	tuning      footprint.TuningConfig

	uploadView    fyne.CanvasObject
	calibrateView fyne.CanvasObject
	analyzingView fyne.CanvasObject
	reportView    fyne.CanvasObject

	progress *widget.ProgressBar
	report   *reportPanel

	// advisoryFor is the result ID the last advisory fetch was issued
	// for. Only touched on the UI thread.
	advisoryFor string

	// animating suppresses the jump to the report view while the
	// cosmetic progress bar is still running.
	animating *util.SafeFlag

	refreshTimer *time.Timer
}

// GetInstance returns the application singleton, creating it on first
// call.
func GetInstance() *StrideApp {
	once.Do(func() {
		instance = newStrideApp()
	})
	return instance
}

func newStrideApp() *StrideApp {
	fyneApp := app.NewWithID("com.marcusgo82.stridelab")

	cfg := footprint.NewConfig(fyneApp.Preferences())
	tuning := footprint.DefaultTuningConfig()
	session := footprint.NewSession(sampler.NewProcessor(), cfg, tuning)

	a := &StrideApp{
		app:       fyneApp,
		appConfig: appconfig.NewAppConfig(fyneApp.Preferences()),
		cfg:       cfg,
		session:   session,
		advisor:   advisory.NewClient(cfg, nil),
		mirror:    api.NewServer(session),
		tuning:    tuning,
		animating: util.NewSafeFlag(),
	}

	a.window = fyneApp.NewWindow(mainWindowTitle)
	a.window.Resize(fyne.NewSize(mainWindowWidth, mainWindowHeight))
	a.window.CenterOnScreen()

	a.calibration = newCalibrationCanvas(session)
	a.buildViews()
	a.content = container.NewStack(a.uploadView, a.calibrateView, a.analyzingView, a.reportView)
	a.window.SetContent(a.content)

	a.window.SetOnDropped(func(_ fyne.Position, uris []fyne.URI) {
		if len(uris) > 0 {
			a.openImageURI(uris[0])
		}
	})

	session.OnChange(a.onSessionChange)
	a.setupTray()

	hotkey.StartListeners(hotkey.Actions{
		Rescan: func() {
			fyne.Do(a.calibration.refreshOverlay)
		},
		Reset: func() {
			a.session.Reset()
		},
	})

	a.showPhase(footprint.PhaseUpload)
	return a
}

// Run starts the background services and enters the Fyne event loop.
func (a *StrideApp) Run() {
	if a.appConfig.GetMirrorServerEnabled() {
		go func() {
			log.Printf("Starting browser mirror on %s", api.ListenAddr)
			if err := a.mirror.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("Mirror server stopped: %v", err)
			}
		}()
	}

	if a.appConfig.GetUpdateCheckEnabled() {
		go a.checkForUpdates(false)
	}

	a.window.ShowAndRun()
	a.mirror.Stop()
}

// onSessionChange fans session mutations out to the mirror clients and
// the UI. It can fire from any goroutine.
func (a *StrideApp) onSessionChange() {
	a.mirror.BroadcastReport()
	fyne.Do(func() {
		a.syncToPhase()
	})
}

// syncToPhase switches the visible view to match the session phase.
func (a *StrideApp) syncToPhase() {
	phase := a.session.Phase()
	if phase == footprint.PhaseReport && a.animating.Value() {
		return // progress bar finishes first
	}
	a.showPhase(phase)
}

func (a *StrideApp) showPhase(phase footprint.Phase) {
	a.uploadView.Hide()
	a.calibrateView.Hide()
	a.analyzingView.Hide()
	a.reportView.Hide()

	switch phase {
	case footprint.PhaseCalibrate:
		a.calibration.reload()
		a.calibrateView.Show()
	case footprint.PhaseAnalyzing:
		a.analyzingView.Show()
	case footprint.PhaseReport:
		a.refreshReport()
		a.reportView.Show()
	default:
		a.uploadView.Show()
	}
	a.content.Refresh()
}

// scheduleOverlayRefresh debounces slider-driven rescans so the point
// cloud regenerates once per gesture, not per tick.
func (a *StrideApp) scheduleOverlayRefresh() {
	if a.refreshTimer != nil {
		a.refreshTimer.Stop()
	}
	a.refreshTimer = time.AfterFunc(settleDelay, func() {
		fyne.Do(a.calibration.refreshOverlay)
	})
}

func (a *StrideApp) setupTray() {
	desk, ok := a.app.(desktop.App)
	if !ok {
		return
	}

	menu := fyne.NewMenu(appconfig.AppName,
		fyne.NewMenuItem("Show", func() {
			a.window.Show()
			a.window.RequestFocus()
		}),
		fyne.NewMenuItem("New Analysis", func() {
			a.session.Reset()
			a.window.Show()
		}),
		fyne.NewMenuItem("Check for Updates", func() {
			go a.checkForUpdates(true)
		}),
	)
	desk.SetSystemTrayMenu(menu)
}

// checkForUpdates polls GitHub for a newer release. When interactive,
// a no-update outcome is reported too; the startup check stays quiet.
func (a *StrideApp) checkForUpdates(interactive bool) {
	result, err := util.CheckForUpdates()
	if err != nil {
		log.Printf("Update check failed: %v", err)
		return
	}

	if result.UpdateAvailable {
		a.notify("Update Available",
			"Version "+result.LatestVersion+" is available. You are on "+result.CurrentVersion+".")
		return
	}
	if interactive {
		a.notify("Up to Date", "You are running the latest version ("+result.CurrentVersion+").")
	}
}

func (a *StrideApp) notify(title, message string) {
	if !a.appConfig.GetAppNotificationsEnabled() {
		return
	}
	a.app.SendNotification(fyne.NewNotification(title, message))
}
